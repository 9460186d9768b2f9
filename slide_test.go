package unoffice

import (
	"strconv"
	"strings"
	"testing"
)

func presentationRels(entries ...string) fixtureFile {
	return fixtureFile{
		"ppt/_rels/presentation.xml.rels",
		xmlProlog + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			strings.Join(entries, "") + `</Relationships>`,
	}
}

func slideRel(id, target string) string {
	return `<Relationship Id="` + id +
		`" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="` +
		target + `"/>`
}

func TestSlideDeclaredOrderBeatsArchiveOrder(t *testing.T) {
	// Slide parts are stored in reverse of the declared order.
	parts := []fixtureFile{
		slidePart("ppt/slides/slide3.xml", "third"),
		slidePart("ppt/slides/slide2.xml", "second"),
		slidePart("ppt/slides/slide1.xml", "first"),
	}
	rels := []fixtureFile{presentationRels(
		slideRel("rId2", "slides/slide1.xml"),
		slideRel("rId3", "slides/slide2.xml"),
		slideRel("rId4", "slides/slide3.xml"),
	)}
	sldIDs := `<p:sldId id="256" r:id="rId2"/><p:sldId id="257" r:id="rId3"/><p:sldId id="258" r:id="rId4"/>`

	doc, err := Parse(pptxArchive(t, rels, parts, sldIDs))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Format != FormatSlide {
		t.Fatalf("format = %v, want slide", doc.Format)
	}
	if doc.SectionCount() != 3 {
		t.Fatalf("section count = %d, want 3", doc.SectionCount())
	}
	for i, want := range []string{"first", "second", "third"} {
		para := doc.Sections[i].Blocks[0].(Paragraph)
		if got := para.PlainText(); got != want {
			t.Errorf("slide %d text = %q, want %q", i, got, want)
		}
	}
}

func TestSlideTitlePlaceholder(t *testing.T) {
	slide := fixtureFile{"ppt/slides/slide1.xml", xmlProlog +
		`<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"` +
		` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
		`<p:cSld><p:spTree>` +
		`<p:sp><p:nvSpPr><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>` +
		`<p:txBody><a:p><a:r><a:t>Roadmap</a:t></a:r></a:p></p:txBody></p:sp>` +
		`<p:sp><p:txBody><a:p><a:r><a:t>Q3 goals</a:t></a:r></a:p></p:txBody></p:sp>` +
		`</p:spTree></p:cSld></p:sld>`}
	rels := []fixtureFile{presentationRels(slideRel("rId2", "slides/slide1.xml"))}
	doc, err := Parse(pptxArchive(t, rels, []fixtureFile{slide}, `<p:sldId id="256" r:id="rId2"/>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Sections[0].Title != "Roadmap" {
		t.Errorf("section title = %q, want Roadmap", doc.Sections[0].Title)
	}
	md := ToMarkdown(doc)
	if !strings.Contains(md, "## Roadmap") {
		t.Errorf("section header missing:\n%s", md)
	}
	if !strings.Contains(md, "# Roadmap") {
		t.Errorf("title heading missing:\n%s", md)
	}
	if !strings.Contains(md, "Q3 goals") {
		t.Errorf("body text missing:\n%s", md)
	}
}

func TestSlideSpeakerNotes(t *testing.T) {
	slide := slidePart("ppt/slides/slide1.xml", "visible text")
	notes := fixtureFile{"ppt/notesSlides/notesSlide1.xml", xmlProlog +
		`<p:notes xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"` +
		` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
		`<p:cSld><p:spTree>` +
		`<p:sp><p:nvSpPr><p:nvPr><p:ph type="body"/></p:nvPr></p:nvSpPr>` +
		`<p:txBody><a:p><a:r><a:t>remember the demo</a:t></a:r></a:p></p:txBody></p:sp>` +
		`<p:sp><p:nvSpPr><p:nvPr><p:ph type="sldNum"/></p:nvPr></p:nvSpPr>` +
		`<p:txBody><a:p><a:r><a:t>1</a:t></a:r></a:p></p:txBody></p:sp>` +
		`</p:spTree></p:cSld></p:notes>`}
	slideRels := fixtureFile{"ppt/slides/_rels/slide1.xml.rels", xmlProlog +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId7" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide1.xml"/>` +
		`</Relationships>`}
	rels := []fixtureFile{presentationRels(slideRel("rId2", "slides/slide1.xml")), slideRels}

	doc, err := Parse(pptxArchive(t, rels, []fixtureFile{slide, notes}, `<p:sldId id="256" r:id="rId2"/>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	text := ToText(doc)
	if !strings.Contains(text, "--- Notes ---") {
		t.Errorf("notes marker missing:\n%s", text)
	}
	if !strings.Contains(text, "remember the demo") {
		t.Errorf("notes text missing:\n%s", text)
	}
	idx := strings.Index(text, "visible text")
	nidx := strings.Index(text, "--- Notes ---")
	if idx < 0 || nidx < idx {
		t.Errorf("notes not appended after slide content:\n%s", text)
	}
	if strings.HasSuffix(text, "\n1") || strings.Contains(text, "\n1\n") {
		t.Errorf("slide-number placeholder leaked into notes:\n%s", text)
	}
}

func chartSlidePart(name, relID string) fixtureFile {
	return fixtureFile{name, xmlProlog +
		`<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"` +
		` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
		`<p:cSld><p:spTree><p:graphicFrame><a:graphic><a:graphicData>` +
		`<c:chart r:id="` + relID + `"/>` +
		`</a:graphicData></a:graphic></p:graphicFrame></p:spTree></p:cSld></p:sld>`}
}

func chartSeriesXML(name string, cats []string, vals []string) string {
	var b strings.Builder
	b.WriteString(`<c:ser><c:tx><c:strRef><c:strCache><c:pt idx="0"><c:v>` + name + `</c:v></c:pt></c:strCache></c:strRef></c:tx>`)
	b.WriteString(`<c:cat><c:strRef><c:strCache>`)
	for i, cat := range cats {
		b.WriteString(`<c:pt idx="` + strconv.Itoa(i) + `"><c:v>` + cat + `</c:v></c:pt>`)
	}
	b.WriteString(`</c:strCache></c:strRef></c:cat><c:val><c:numRef><c:numCache>`)
	for i, v := range vals {
		b.WriteString(`<c:pt idx="` + strconv.Itoa(i) + `"><c:v>` + v + `</c:v></c:pt>`)
	}
	b.WriteString(`</c:numCache></c:numRef></c:val></c:ser>`)
	return b.String()
}

func chartPart(name string, series ...string) fixtureFile {
	return fixtureFile{name, xmlProlog +
		`<c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart">` +
		`<c:chart><c:plotArea><c:barChart>` + strings.Join(series, "") +
		`</c:barChart></c:plotArea></c:chart></c:chartSpace>`}
}

func TestSlideEmbeddedChart(t *testing.T) {
	slide := chartSlidePart("ppt/slides/slide1.xml", "rId3")
	chart := chartPart("ppt/charts/chart1.xml",
		chartSeriesXML("Revenue", []string{"Q1", "Q2"}, []string{"42", "57.5"}),
		chartSeriesXML("Cost", []string{"Q1", "Q2"}, []string{"30", "31"}),
	)
	slideRels := fixtureFile{"ppt/slides/_rels/slide1.xml.rels", xmlProlog +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart" Target="../charts/chart1.xml"/>` +
		`</Relationships>`}
	rels := []fixtureFile{presentationRels(slideRel("rId2", "slides/slide1.xml")), slideRels}

	doc, err := Parse(pptxArchive(t, rels, []fixtureFile{slide, chart}, `<p:sldId id="256" r:id="rId2"/>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Sections[0].Blocks) != 1 {
		t.Fatalf("block count = %d, want 1 table", len(doc.Sections[0].Blocks))
	}
	tbl, ok := doc.Sections[0].Blocks[0].(Table)
	if !ok {
		t.Fatalf("block = %T, want Table", doc.Sections[0].Blocks[0])
	}
	if len(tbl.Rows) != 3 || len(tbl.Rows[0]) != 3 {
		t.Fatalf("table shape = %dx%d, want 3x3", len(tbl.Rows), len(tbl.Rows[0]))
	}

	text := ToText(doc)
	if !strings.Contains(text, "Category\tRevenue\tCost") {
		t.Errorf("header row missing:\n%s", text)
	}
	if !strings.Contains(text, "Q1\t42\t30") {
		t.Errorf("first data row missing:\n%s", text)
	}
	if !strings.Contains(text, "Q2\t57.5\t31") {
		t.Errorf("second data row missing:\n%s", text)
	}
}

func TestSlideChartWithoutCachedDataSkipped(t *testing.T) {
	slide := chartSlidePart("ppt/slides/slide1.xml", "rId3")
	chart := chartPart("ppt/charts/chart1.xml")
	slideRels := fixtureFile{"ppt/slides/_rels/slide1.xml.rels", xmlProlog +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart" Target="../charts/chart1.xml"/>` +
		`</Relationships>`}
	rels := []fixtureFile{presentationRels(slideRel("rId2", "slides/slide1.xml")), slideRels}

	doc, err := Parse(pptxArchive(t, rels, []fixtureFile{slide, chart}, `<p:sldId id="256" r:id="rId2"/>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n := len(doc.Sections[0].Blocks); n != 0 {
		t.Errorf("block count = %d, want 0 for empty chart", n)
	}
}

func TestSlideRunStyling(t *testing.T) {
	slide := fixtureFile{"ppt/slides/slide1.xml", xmlProlog +
		`<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"` +
		` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
		`<p:cSld><p:spTree><p:sp><p:txBody>` +
		`<a:p>` +
		`<a:r><a:rPr b="1"/><a:t>strong</a:t></a:r>` +
		`<a:r><a:rPr i="1"/><a:t>lean</a:t></a:r>` +
		`</a:p>` +
		`</p:txBody></p:sp></p:spTree></p:cSld></p:sld>`}
	rels := []fixtureFile{presentationRels(slideRel("rId2", "slides/slide1.xml"))}
	doc, err := Parse(pptxArchive(t, rels, []fixtureFile{slide}, `<p:sldId id="256" r:id="rId2"/>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	md := ToMarkdown(doc)
	if !strings.Contains(md, "**strong**") || !strings.Contains(md, "_lean_") {
		t.Errorf("run styling lost:\n%s", md)
	}
}
