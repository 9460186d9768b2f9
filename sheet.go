package unoffice

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/nicholasgasior/unoffice/internal/ooxml"
	"github.com/nicholasgasior/unoffice/internal/xmlutil"
)

// buildSheet walks the SpreadsheetML workbook and produces one Section per
// worksheet, in the workbook's declared sheet order. Cell text lands in
// RawText blocks inside a single Table per sheet.
func buildSheet(pkg *ooxml.Package, mainPart string) ([]Section, error) {
	data, err := pkg.Container.ReadPart(mainPart)
	if err != nil {
		return nil, &ContainerError{Part: mainPart, Err: err}
	}

	type sheetRef struct {
		name  string
		relID string
	}
	var refs []sheetRef

	d := xmlutil.NewDecoder(data)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &XMLError{Part: mainPart, Err: err}
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		name, _ := xmlutil.Attr(se, "name")
		relID, ok := xmlutil.AttrNS(se, ooxml.NSRelDoc, "id")
		if !ok {
			return nil, &SchemaError{Part: mainPart, Msg: "sheet entry without relationship ID"}
		}
		refs = append(refs, sheetRef{name: name, relID: relID})
	}

	shared := parseSharedStrings(pkg, mainPart)

	sections := make([]Section, 0, len(refs))
	for _, ref := range refs {
		sec := Section{Title: ref.name}
		rel, err := pkg.Resolve(mainPart, ref.relID)
		if err != nil || rel.External {
			// A dangling sheet relationship degrades that sheet to an
			// empty section; the rest of the workbook still extracts.
			sections = append(sections, sec)
			continue
		}
		rows, err := parseWorksheet(pkg, rel.Target, shared)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			sec.Blocks = append(sec.Blocks, Table{Rows: rows})
		}
		sections = append(sections, sec)
	}
	return sections, nil
}

// parseSharedStrings reads the shared-strings part next to the workbook.
// Each entry concatenates every text node of the item, which flattens
// rich-text runs into one string. Phonetic guides are excluded. The part is
// optional; absence yields an empty table.
func parseSharedStrings(pkg *ooxml.Package, mainPart string) []string {
	data, err := pkg.Container.ReadPart(sidecarPart(mainPart, "sharedStrings.xml"))
	if err != nil {
		return nil
	}
	var table []string
	d := xmlutil.NewDecoder(data)
	var inItem, inText bool
	var phDepth int
	var buf strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "si":
				inItem = true
				buf.Reset()
			case "rPh":
				phDepth++
			case "t":
				if inItem && phDepth == 0 {
					inText = true
				}
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "si":
				table = append(table, buf.String())
				inItem = false
			case "rPh":
				phDepth--
			case "t":
				inText = false
			}
		}
	}
	return table
}

// parseWorksheet extracts the cell grid of one worksheet part. Rows absent
// from sheetData stay absent; blank cells inside a present row become empty
// RawText blocks.
func parseWorksheet(pkg *ooxml.Package, part string, shared []string) ([][]Cell, error) {
	data, err := pkg.Container.ReadPart(part)
	if err != nil {
		// One unreadable worksheet part degrades to an empty sheet.
		return nil, nil
	}

	var rows [][]Cell
	var row []Cell
	var inRow, inCell, inValue, inInline bool
	var cellType string
	var valueBuf strings.Builder

	d := xmlutil.NewDecoder(data)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &XMLError{Part: part, Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "row":
				inRow = true
				row = nil
			case "c":
				if inRow {
					inCell = true
					cellType, _ = xmlutil.Attr(t, "t")
					valueBuf.Reset()
				}
			case "v":
				if inCell {
					inValue = true
				}
			case "is":
				if inCell {
					inInline = true
				}
			case "t":
				if inInline {
					inValue = true
				}
			}
		case xml.CharData:
			if inValue {
				valueBuf.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "v", "t":
				inValue = false
			case "is":
				inInline = false
			case "c":
				if inCell {
					text := cellText(cellType, valueBuf.String(), shared)
					row = append(row, Cell{Blocks: []Block{RawText{Text: text}}})
					inCell = false
				}
			case "row":
				if inRow && len(row) > 0 {
					rows = append(rows, row)
				}
				inRow = false
			}
		}
	}
	return rows, nil
}

// cellText resolves a raw cell value to display text. Shared-string indices
// that do not resolve degrade that one cell to empty text. Numbers are
// formatted with a locale-independent decimal point.
func cellText(cellType, raw string, shared []string) string {
	switch cellType {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "str", "inlineStr":
		return raw
	case "b":
		if strings.TrimSpace(raw) == "1" {
			return "TRUE"
		}
		return "FALSE"
	case "e":
		return raw
	default:
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return ""
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return raw
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
