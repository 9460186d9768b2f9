// Package xmlutil decodes OOXML part payloads into XML token streams.
// Parts are nominally UTF-8 but producers emit UTF-16 with and without a
// byte-order mark; the decoder normalises them all before parsing.
package xmlutil

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
)

// NewDecoder returns an xml.Decoder over data with the payload encoding
// normalised to UTF-8. Detection order: BOM, then a null-byte heuristic
// backed by chardet for BOM-less UTF-16, otherwise the bytes are taken as
// UTF-8. Declared charsets inside the XML prolog are honoured via the
// decoder's CharsetReader.
func NewDecoder(data []byte) *xml.Decoder {
	data = normalize(data)
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charset.NewReaderLabel
	return d
}

func normalize(data []byte) []byte {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return data[3:]
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return decodeUTF16(data, unicode.LittleEndian)
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return decodeUTF16(data, unicode.BigEndian)
	}
	// BOM-less UTF-16 shows up as null bytes interleaved with ASCII.
	if bytes.IndexByte(data, 0x00) >= 0 {
		if enc := detectUTF16(data); enc != nil {
			return decodeUTF16WithoutBOM(data, *enc)
		}
	}
	return data
}

func detectUTF16(data []byte) *unicode.Endianness {
	if res, err := chardet.NewTextDetector().DetectBest(data); err == nil {
		var e unicode.Endianness
		switch strings.ToUpper(res.Charset) {
		case "UTF-16LE":
			e = unicode.LittleEndian
			return &e
		case "UTF-16BE":
			e = unicode.BigEndian
			return &e
		}
	}
	// ASCII-heavy UTF-16 puts the null byte of each code unit on a fixed
	// side; count which side dominates.
	n := len(data) &^ 1
	if n == 0 {
		return nil
	}
	var oddNulls, evenNulls int
	for i := 0; i < n; i += 2 {
		if data[i] == 0 {
			evenNulls++
		}
		if data[i+1] == 0 {
			oddNulls++
		}
	}
	units := n / 2
	var e unicode.Endianness
	switch {
	case oddNulls*2 > units && oddNulls > evenNulls*4:
		e = unicode.LittleEndian
	case evenNulls*2 > units && evenNulls > oddNulls*4:
		e = unicode.BigEndian
	default:
		return nil
	}
	return &e
}

func decodeUTF16(data []byte, e unicode.Endianness) []byte {
	dec := unicode.UTF16(e, unicode.UseBOM).NewDecoder()
	out, err := dec.Bytes(data)
	if err != nil {
		return data
	}
	return out
}

func decodeUTF16WithoutBOM(data []byte, e unicode.Endianness) []byte {
	dec := unicode.UTF16(e, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(data)
	if err != nil {
		return data
	}
	return out
}

// Attr returns the value of the attribute with the given local name,
// ignoring namespace prefixes the way OOXML consumers must.
func Attr(se xml.StartElement, local string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// AttrNS returns the value of the attribute with the given namespace and
// local name.
func AttrNS(se xml.StartElement, space, local string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == local && a.Name.Space == space {
			return a.Value, true
		}
	}
	return "", false
}

// Is reports whether the element has the given local name, optionally
// constrained to a namespace; an empty space matches any namespace.
func Is(name xml.Name, space, local string) bool {
	if name.Local != local {
		return false
	}
	return space == "" || name.Space == space
}
