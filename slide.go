package unoffice

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/nicholasgasior/unoffice/internal/ooxml"
	"github.com/nicholasgasior/unoffice/internal/xmlutil"
)

// buildSlide walks the PresentationML presentation part and produces one
// Section per slide, following the declared slide ID list rather than the
// archive entry order. Speaker notes are appended to their slide's section
// behind a marker paragraph.
func buildSlide(pkg *ooxml.Package, mainPart string, rs *resourceSet) ([]Section, error) {
	data, err := pkg.Container.ReadPart(mainPart)
	if err != nil {
		return nil, &ContainerError{Part: mainPart, Err: err}
	}

	var slideRelIDs []string
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
		if !ok || se.Name.Local != "sldId" {
			continue
		}
		if id, ok := xmlutil.AttrNS(se, ooxml.NSRelDoc, "id"); ok {
			slideRelIDs = append(slideRelIDs, id)
		}
	}
	if len(slideRelIDs) == 0 {
		return nil, &SchemaError{Part: mainPart, Msg: "presentation declares no slides"}
	}

	sections := make([]Section, 0, len(slideRelIDs))
	for _, relID := range slideRelIDs {
		rel, err := pkg.Resolve(mainPart, relID)
		if err != nil || rel.External {
			// A dangling slide relationship keeps its place in the deck
			// as an empty section.
			sections = append(sections, Section{})
			continue
		}
		sec, err := parseSlidePart(pkg, rel.Target, rs, false)
		if err != nil {
			return nil, err
		}
		if notes, ok := pkg.ResolveByType(rel.Target, ooxml.RelTypeNotesSlide); ok && !notes.External {
			notesSec, err := parseSlidePart(pkg, notes.Target, rs, true)
			if err == nil && len(notesSec.Blocks) > 0 {
				sec.Blocks = append(sec.Blocks, Paragraph{Runs: []Run{{Text: "--- Notes ---"}}})
				sec.Blocks = append(sec.Blocks, notesSec.Blocks...)
			}
		}
		sections = append(sections, sec)
	}
	return sections, nil
}

// parseSlidePart extracts the text content of one slide or notes-slide
// part. The first title or centered-title placeholder names the section.
// notes mode drops the slide-number, footer and date placeholders that pad
// every notes page.
func parseSlidePart(pkg *ooxml.Package, part string, rs *resourceSet, notes bool) (Section, error) {
	var sec Section
	data, err := pkg.Container.ReadPart(part)
	if err != nil {
		// A missing slide part degrades to an empty section.
		return sec, nil
	}

	var (
		inShape    bool
		phType     string
		shapeParas []Paragraph
		para       Paragraph
		inPara     bool
		run        Run
		inRun      bool
		inText     bool
		textBuf    strings.Builder

		inCell     bool
		cellBlocks []Block
		rows       [][]Cell
		row        []Cell
		inTable    bool
	)

	emitShape := func() {
		if notes && (phType == "sldNum" || phType == "ftr" || phType == "dt") {
			return
		}
		heading := 0
		switch phType {
		case "title", "ctrTitle":
			heading = 1
		case "subTitle":
			heading = 2
		}
		for _, p := range shapeParas {
			p.Heading = heading
			if heading == 1 && sec.Title == "" && !notes {
				sec.Title = p.PlainText()
			}
			sec.Blocks = append(sec.Blocks, p)
		}
	}

	d := xmlutil.NewDecoder(data)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sec, &XMLError{Part: part, Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				inShape = true
				phType = ""
				shapeParas = nil

			case "ph":
				if inShape {
					phType, _ = xmlutil.Attr(t, "type")
				}

			case "p":
				if t.Name.Space != ooxml.NSDrawingML {
					continue
				}
				inPara = true
				para = Paragraph{}

			case "r":
				if t.Name.Space != ooxml.NSDrawingML || !inPara {
					continue
				}
				inRun = true
				run = Run{}

			case "rPr":
				if !inRun {
					continue
				}
				if v, ok := xmlutil.Attr(t, "b"); ok {
					run.Bold = v == "1" || strings.EqualFold(v, "true")
				}
				if v, ok := xmlutil.Attr(t, "i"); ok {
					run.Italic = v == "1" || strings.EqualFold(v, "true")
				}
				if v, ok := xmlutil.Attr(t, "u"); ok {
					run.Underline = !strings.EqualFold(v, "none")
				}
				if v, ok := xmlutil.Attr(t, "strike"); ok {
					run.Strike = !strings.EqualFold(v, "noStrike")
				}

			case "hlinkClick":
				if inRun {
					if id, ok := xmlutil.AttrNS(t, ooxml.NSRelDoc, "id"); ok && id != "" {
						if rel, err := pkg.Resolve(part, id); err == nil {
							run.Link = rel.Target
						}
					}
				}

			case "t":
				if t.Name.Space == ooxml.NSDrawingML && inRun {
					inText = true
					textBuf.Reset()
				}

			case "br":
				if t.Name.Space == ooxml.NSDrawingML && inPara {
					para.Runs = append(para.Runs, Run{Text: "\n"})
				}

			case "tbl":
				if t.Name.Space == ooxml.NSDrawingML {
					inTable = true
					rows = nil
				}

			case "tr":
				if inTable {
					row = nil
				}

			case "tc":
				if inTable {
					inCell = true
					cellBlocks = nil
				}

			case "chart":
				// A graphicFrame's chart reference; the chart's cached data
				// renders as a table.
				if t.Name.Space == ooxml.NSChartML {
					if id, ok := xmlutil.AttrNS(t, ooxml.NSRelDoc, "id"); ok && id != "" {
						if tbl, ok := chartTable(pkg, part, id); ok {
							sec.Blocks = append(sec.Blocks, tbl)
						}
					}
				}

			case "pic":
				if img, ok := consumePicture(pkg, part, rs, d); ok {
					sec.Blocks = append(sec.Blocks, img)
				}
			}

		case xml.CharData:
			if inText {
				textBuf.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				if inText {
					run.Text += textBuf.String()
					inText = false
				}

			case "r":
				if inRun {
					para.Runs = append(para.Runs, run)
					inRun = false
				}

			case "p":
				if t.Name.Space != ooxml.NSDrawingML || !inPara {
					continue
				}
				para.Runs = mergeRuns(para.Runs)
				if len(para.Runs) > 0 {
					switch {
					case inCell:
						cellBlocks = append(cellBlocks, para)
					case inShape:
						shapeParas = append(shapeParas, para)
					default:
						sec.Blocks = append(sec.Blocks, para)
					}
				}
				inPara = false

			case "sp":
				if inShape {
					emitShape()
					inShape = false
				}

			case "tc":
				if inCell {
					row = append(row, Cell{Blocks: cellBlocks})
					inCell = false
				}

			case "tr":
				if inTable && row != nil {
					rows = append(rows, row)
					row = nil
				}

			case "tbl":
				if inTable {
					if len(rows) > 0 {
						sec.Blocks = append(sec.Blocks, Table{Rows: rows})
					}
					inTable = false
				}
			}
		}
	}
	return sec, nil
}

// consumePicture reads a pic element to its end and returns an Image block
// when its embedded blip resolves to a collected resource.
func consumePicture(pkg *ooxml.Package, part string, rs *resourceSet, d *xml.Decoder) (Image, bool) {
	depth := 1
	var embedID, alt string
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "blip":
				if id, ok := xmlutil.AttrNS(t, ooxml.NSRelDoc, "embed"); ok {
					embedID = id
				}
			case "cNvPr":
				if v, ok := xmlutil.Attr(t, "descr"); ok {
					alt = v
				}
			}
		case xml.EndElement:
			depth--
		}
	}
	if embedID == "" {
		return Image{}, false
	}
	rel, err := pkg.Resolve(part, embedID)
	if err != nil || rel.External {
		return Image{}, false
	}
	id := rs.idForTarget(rel.Target)
	if id == "" {
		return Image{}, false
	}
	return Image{ResourceID: id, Alt: alt}, true
}
