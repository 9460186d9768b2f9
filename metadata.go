package unoffice

import (
	"encoding/xml"
	"strings"

	"github.com/nicholasgasior/unoffice/internal/xmlutil"
)

const corePropsPart = "docProps/core.xml"

// readCoreProperties extracts title and author from docProps/core.xml.
// The part is optional and best-effort: a missing or malformed core
// properties part yields empty metadata, never an error.
func readCoreProperties(read func(string) ([]byte, error)) Metadata {
	var md Metadata
	data, err := read(corePropsPart)
	if err != nil {
		return md
	}
	d := xmlutil.NewDecoder(data)
	var current string
	for {
		tok, err := d.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "title", "creator":
				current = t.Name.Local
			default:
				current = ""
			}
		case xml.CharData:
			switch current {
			case "title":
				md.Title += string(t)
			case "creator":
				md.Author += string(t)
			}
		case xml.EndElement:
			current = ""
		}
	}
	md.Title = strings.TrimSpace(md.Title)
	md.Author = strings.TrimSpace(md.Author)
	return md
}
