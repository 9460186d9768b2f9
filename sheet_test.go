package unoffice

import (
	"errors"
	"strings"
	"testing"
)

func TestSheetSharedStrings(t *testing.T) {
	data := xlsxArchive(t,
		[]string{"Inventory"},
		[]string{`<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>`},
		sharedStringsPart("part", "count"),
	)
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Format != FormatSheet {
		t.Fatalf("format = %v, want sheet", doc.Format)
	}
	if doc.SectionCount() != 1 || doc.Sections[0].Title != "Inventory" {
		t.Fatalf("sections = %+v", doc.Sections)
	}
	text := ToText(doc)
	if !strings.Contains(text, "part\tcount") {
		t.Errorf("cell text missing:\n%s", text)
	}
}

func TestSheetSharedStringIndexOutOfRangeDegrades(t *testing.T) {
	data := xlsxArchive(t,
		[]string{"Sheet1"},
		[]string{`<row r="1"><c r="A1" t="s"><v>99</v></c><c r="B1" t="s"><v>0</v></c></row>`},
		sharedStringsPart("ok"),
	)
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed, want degraded cell: %v", err)
	}
	tbl := doc.Sections[0].Blocks[0].(Table)
	a1 := tbl.Rows[0][0].Blocks[0].(RawText)
	b1 := tbl.Rows[0][1].Blocks[0].(RawText)
	if a1.Text != "" {
		t.Errorf("out-of-range cell = %q, want empty", a1.Text)
	}
	if b1.Text != "ok" {
		t.Errorf("valid cell = %q, want ok", b1.Text)
	}
}

func TestSheetCellTypes(t *testing.T) {
	rows := `<row r="1">` +
		`<c r="A1"><v>42</v></c>` +
		`<c r="B1"><v>3.14</v></c>` +
		`<c r="C1" t="b"><v>1</v></c>` +
		`<c r="D1" t="str"><v>=SUM result</v></c>` +
		`<c r="E1" t="inlineStr"><is><t>inline</t></is></c>` +
		`</row>`
	doc, err := Parse(xlsxArchive(t, []string{"Types"}, []string{rows}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tbl := doc.Sections[0].Blocks[0].(Table)
	got := make([]string, 0, len(tbl.Rows[0]))
	for _, cell := range tbl.Rows[0] {
		got = append(got, cell.Blocks[0].(RawText).Text)
	}
	want := []string{"42", "3.14", "TRUE", "=SUM result", "inline"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSheetOrderAndSparseRows(t *testing.T) {
	data := xlsxArchive(t,
		[]string{"First", "Second", "Empty"},
		[]string{
			`<row r="2"><c r="A2" t="inlineStr"><is><t>top</t></is></c></row>` +
				`<row r="9"><c r="A9" t="inlineStr"><is><t>bottom</t></is></c></row>`,
			`<row r="1"><c r="A1"><v>7</v></c></row>`,
			``,
		},
	)
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.SectionCount() != 3 {
		t.Fatalf("section count = %d, want 3", doc.SectionCount())
	}
	for i, want := range []string{"First", "Second", "Empty"} {
		if doc.Sections[i].Title != want {
			t.Errorf("section %d title = %q, want %q", i, doc.Sections[i].Title, want)
		}
	}
	// Rows 3..8 are absent from the source and must not be synthesized.
	tbl := doc.Sections[0].Blocks[0].(Table)
	if len(tbl.Rows) != 2 {
		t.Errorf("sparse sheet rows = %d, want 2", len(tbl.Rows))
	}
	if len(doc.Sections[2].Blocks) != 0 {
		t.Errorf("empty sheet produced blocks: %+v", doc.Sections[2].Blocks)
	}
}

func TestSheetMissingRelationshipID(t *testing.T) {
	files := []fixtureFile{
		{"[Content_Types].xml", xlsxContentTypes},
		{"_rels/.rels", xlsxRootRels},
		{"xl/workbook.xml", xmlProlog +
			`<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">` +
			`<sheets><sheet name="Orphan" sheetId="1"/></sheets></workbook>`},
	}
	_, err := Parse(buildArchive(t, files))
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("err = %v, want SchemaError", err)
	}
	if !strings.Contains(schemaErr.Error(), "xl/workbook.xml") {
		t.Errorf("error does not name the part: %v", schemaErr)
	}
}
