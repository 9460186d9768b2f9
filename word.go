package unoffice

import (
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/nicholasgasior/unoffice/internal/ooxml"
	"github.com/nicholasgasior/unoffice/internal/xmlutil"
)

// buildWord walks the WordprocessingML main document part and produces one
// Section per page-section. A w:sectPr inside a paragraph's properties ends
// the current section after that paragraph; the trailing body-level sectPr
// closes the last one.
func buildWord(pkg *ooxml.Package, mainPart string, rs *resourceSet) ([]Section, error) {
	data, err := pkg.Container.ReadPart(mainPart)
	if err != nil {
		return nil, &ContainerError{Part: mainPart, Err: err}
	}

	styles := parseWordStyles(pkg, mainPart)
	numbering := parseWordNumbering(pkg, mainPart)

	b := &wordBuilder{
		pkg:       pkg,
		mainPart:  mainPart,
		resources: rs,
		styles:    styles,
		numbering: numbering,
	}
	if err := b.walk(data); err != nil {
		return nil, err
	}
	return b.sections, nil
}

// wordStyle is one entry of styles.xml, used for heading detection.
type wordStyle struct {
	styleID string
	name    string
}

// wordListDef records whether a numbering ID renders ordered or bulleted,
// per indentation level.
type wordListDef struct {
	ordered map[int]bool
}

type wordBuilder struct {
	pkg       *ooxml.Package
	mainPart  string
	resources *resourceSet
	styles    map[string]wordStyle
	numbering map[string]wordListDef

	sections []Section
	cur      Section
}

func (b *wordBuilder) walk(data []byte) error {
	d := xmlutil.NewDecoder(data)

	type state struct {
		inPara   bool
		inRun    bool
		inText   bool
		inPPr    bool
		inRPr    bool
		inHyper  bool
		link     string
		styleID  string
		listID   string
		listLvl  int
		inList   bool
		sectEnd  bool
		inCell   bool
		tblDepth int
	}

	var s state
	var run Run
	var para Paragraph
	var pendingImages []Block
	var textBuf strings.Builder

	var rows [][]Cell
	var row []Cell
	var cellBlocks []Block

	emit := func(blk Block) {
		if s.inCell {
			cellBlocks = append(cellBlocks, blk)
		} else {
			b.cur.Blocks = append(b.cur.Blocks, blk)
		}
	}

	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &XMLError{Part: b.mainPart, Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if t.Name.Space != ooxml.NSWordprocessingML {
					continue
				}
				s.inPara = true
				s.styleID = ""
				s.listID = ""
				s.listLvl = 0
				s.inList = false
				s.sectEnd = false
				para = Paragraph{}
				pendingImages = nil

			case "pPr":
				s.inPPr = true

			case "pStyle":
				if s.inPPr {
					s.styleID, _ = xmlutil.Attr(t, "val")
				}

			case "numPr":
				if s.inPPr {
					s.inList = true
				}

			case "numId":
				if s.inPPr {
					s.listID, _ = xmlutil.Attr(t, "val")
				}

			case "ilvl":
				if s.inPPr {
					if v, ok := xmlutil.Attr(t, "val"); ok {
						fmt.Sscanf(v, "%d", &s.listLvl)
					}
				}

			case "sectPr":
				// Only a sectPr nested in paragraph properties marks a
				// mid-document section break; the body-level one closes
				// the final section implicitly.
				if s.inPPr {
					s.sectEnd = true
				}

			case "r":
				if t.Name.Space != ooxml.NSWordprocessingML {
					continue
				}
				s.inRun = true
				run = Run{Link: s.link}

			case "rPr":
				s.inRPr = true

			case "b":
				if s.inRPr && !s.inPPr {
					run.Bold = boolVal(t)
				}

			case "i":
				if s.inRPr && !s.inPPr {
					run.Italic = boolVal(t)
				}

			case "u":
				if s.inRPr && !s.inPPr {
					v, ok := xmlutil.Attr(t, "val")
					run.Underline = !ok || !strings.EqualFold(v, "none")
				}

			case "strike":
				if s.inRPr && !s.inPPr {
					run.Strike = boolVal(t)
				}

			case "t":
				if t.Name.Space == ooxml.NSWordprocessingML && s.inRun {
					s.inText = true
					textBuf.Reset()
				}

			case "tab":
				if s.inRun {
					run.Text += "\t"
				}

			case "br":
				if s.inRun {
					run.Text += "\n"
				}

			case "hyperlink":
				s.inHyper = true
				if id, ok := xmlutil.AttrNS(t, ooxml.NSRelDoc, "id"); ok {
					if rel, err := b.pkg.Resolve(b.mainPart, id); err == nil {
						s.link = rel.Target
					}
				}

			case "tbl":
				s.tblDepth++
				if s.tblDepth == 1 {
					rows = nil
				}

			case "tr":
				if s.tblDepth == 1 {
					row = nil
				}

			case "tc":
				if s.tblDepth == 1 {
					s.inCell = true
					cellBlocks = nil
				}

			case "drawing", "pict":
				if img, ok := b.consumeDrawing(d); ok {
					pendingImages = append(pendingImages, img)
				}
			}

		case xml.CharData:
			if s.inText {
				textBuf.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				if s.inText {
					run.Text += textBuf.String()
					s.inText = false
				}

			case "pPr":
				s.inPPr = false

			case "rPr":
				s.inRPr = false

			case "r":
				if s.inRun {
					para.Runs = append(para.Runs, run)
					s.inRun = false
				}

			case "hyperlink":
				s.inHyper = false
				s.link = ""

			case "p":
				if !s.inPara {
					continue
				}
				para.Runs = mergeRuns(para.Runs)
				para.Heading = headingLevel(s.styleID, b.styles)
				if para.Heading == 0 && s.inList && s.listID != "" && s.listID != "0" {
					para.List = &ListMarker{
						Ordered: b.listOrdered(s.listID, s.listLvl),
						Level:   s.listLvl,
					}
				}
				if len(para.Runs) > 0 {
					emit(para)
				}
				for _, img := range pendingImages {
					emit(img)
				}
				pendingImages = nil
				s.inPara = false

			case "tc":
				if s.tblDepth == 1 && s.inCell {
					row = append(row, Cell{Blocks: cellBlocks})
					s.inCell = false
				}

			case "tr":
				if s.tblDepth == 1 && row != nil {
					rows = append(rows, row)
					row = nil
				}

			case "tbl":
				if s.tblDepth == 1 && len(rows) > 0 {
					b.cur.Blocks = append(b.cur.Blocks, Table{Rows: rows})
					rows = nil
				}
				s.tblDepth--

			case "body":
				b.closeSection()
			}

			// A paragraph carrying a sectPr is the last one of its
			// section.
			if t.Name.Local == "p" && s.sectEnd {
				b.closeSection()
				s.sectEnd = false
			}
		}
	}
	return nil
}

func (b *wordBuilder) closeSection() {
	if len(b.cur.Blocks) == 0 && len(b.sections) > 0 {
		return
	}
	if len(b.cur.Blocks) == 0 && len(b.sections) == 0 {
		// A document with no content still has one (empty) section.
		b.sections = append(b.sections, Section{})
		return
	}
	b.sections = append(b.sections, b.cur)
	b.cur = Section{}
}

// consumeDrawing reads a drawing or pict element to its end, returning an
// Image block when an embedded picture reference resolves to a collected
// resource.
func (b *wordBuilder) consumeDrawing(d *xml.Decoder) (Image, bool) {
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
			case "docPr":
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
	rel, err := b.pkg.Resolve(b.mainPart, embedID)
	if err != nil || rel.External {
		return Image{}, false
	}
	id := b.resources.idForTarget(rel.Target)
	if id == "" {
		return Image{}, false
	}
	return Image{ResourceID: id, Alt: alt}, true
}

// listOrdered reports whether the numbering definition renders the given
// level with a sequential format rather than a bullet glyph. Unknown IDs
// default to bulleted.
func (b *wordBuilder) listOrdered(numID string, level int) bool {
	def, ok := b.numbering[numID]
	if !ok {
		return false
	}
	return def.ordered[level]
}

// boolVal interprets a WordprocessingML toggle property: present means on
// unless val says otherwise.
func boolVal(se xml.StartElement) bool {
	v, ok := xmlutil.Attr(se, "val")
	if !ok {
		return true
	}
	return v != "0" && !strings.EqualFold(v, "false")
}

// headingLevel returns the heading level (1-6) for a paragraph style, or 0.
func headingLevel(styleID string, styles map[string]wordStyle) int {
	if styleID == "" {
		return 0
	}
	lower := strings.ToLower(styleID)
	for i := 1; i <= 6; i++ {
		if lower == fmt.Sprintf("heading%d", i) || lower == fmt.Sprintf("heading %d", i) {
			return i
		}
	}
	if st, ok := styles[styleID]; ok {
		nameLower := strings.ToLower(st.name)
		for i := 1; i <= 6; i++ {
			if nameLower == fmt.Sprintf("heading %d", i) {
				return i
			}
		}
	}
	return 0
}

// parseWordStyles reads styles.xml next to the main part. The part is
// optional; absence yields an empty map.
func parseWordStyles(pkg *ooxml.Package, mainPart string) map[string]wordStyle {
	styles := make(map[string]wordStyle)
	data, err := pkg.Container.ReadPart(sidecarPart(mainPart, "styles.xml"))
	if err != nil {
		return styles
	}
	d := xmlutil.NewDecoder(data)
	var currentID string
	for {
		tok, err := d.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "style":
				currentID, _ = xmlutil.Attr(t, "styleId")
			case "name":
				if currentID != "" {
					if v, ok := xmlutil.Attr(t, "val"); ok {
						styles[currentID] = wordStyle{styleID: currentID, name: v}
					}
				}
			}
		case xml.EndElement:
			if t.Name.Local == "style" {
				currentID = ""
			}
		}
	}
	return styles
}

// parseWordNumbering reads numbering.xml and flattens every numbering ID to
// its per-level ordered/bulleted decision. Optional part, best-effort.
func parseWordNumbering(pkg *ooxml.Package, mainPart string) map[string]wordListDef {
	out := make(map[string]wordListDef)
	data, err := pkg.Container.ReadPart(sidecarPart(mainPart, "numbering.xml"))
	if err != nil {
		return out
	}

	// First pass collects abstract definitions, second maps concrete
	// numbering IDs onto them. Both live in the same part, so two decoder
	// passes over the bytes keep the state machines simple.
	abstract := make(map[string]map[int]bool) // abstractNumId -> level -> ordered
	d := xmlutil.NewDecoder(data)
	var absID string
	var lvl int
	for {
		tok, err := d.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "abstractNum":
				absID, _ = xmlutil.Attr(t, "abstractNumId")
				if absID != "" {
					abstract[absID] = make(map[int]bool)
				}
			case "lvl":
				lvl = 0
				if v, ok := xmlutil.Attr(t, "ilvl"); ok {
					fmt.Sscanf(v, "%d", &lvl)
				}
			case "numFmt":
				if absID != "" {
					v, _ := xmlutil.Attr(t, "val")
					abstract[absID][lvl] = v != "bullet" && v != "none"
				}
			}
		case xml.EndElement:
			if t.Name.Local == "abstractNum" {
				absID = ""
			}
		}
	}

	d = xmlutil.NewDecoder(data)
	var numID string
	for {
		tok, err := d.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "num":
				numID, _ = xmlutil.Attr(t, "numId")
			case "abstractNumId":
				if numID != "" {
					if v, ok := xmlutil.Attr(t, "val"); ok {
						if levels, ok := abstract[v]; ok {
							out[numID] = wordListDef{ordered: levels}
						}
					}
				}
			}
		case xml.EndElement:
			if t.Name.Local == "num" {
				numID = ""
			}
		}
	}
	return out
}

// sidecarPart returns the path of a part conventionally stored next to the
// main document part.
func sidecarPart(mainPart, name string) string {
	dir := path.Dir(mainPart)
	if dir == "." {
		return name
	}
	return dir + "/" + name
}
