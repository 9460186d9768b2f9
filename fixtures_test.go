package unoffice

import (
	"archive/zip"
	"bytes"
	"strconv"
	"testing"
)

// fixtureFile is one entry of a generated test archive.
type fixtureFile struct {
	name string
	data string
}

// buildArchive zips the given files in order and returns the archive bytes.
func buildArchive(t *testing.T, files []fixtureFile) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			t.Fatalf("create %s: %v", f.name, err)
		}
		if _, err := w.Write([]byte(f.data)); err != nil {
			t.Fatalf("write %s: %v", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

const xmlProlog = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

// --- Word fixtures ---

const docxContentTypes = xmlProlog + `
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Default Extension="png" ContentType="image/png"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRootRels = xmlProlog + `
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// wrapWordBody wraps body markup in a document element with the standard
// namespace prefixes.
func wrapWordBody(body string) string {
	return xmlProlog +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
		`<w:body>` + body + `</w:body></w:document>`
}

// docxArchive builds a minimal .docx with the given body markup plus any
// extra parts.
func docxArchive(t *testing.T, body string, extra ...fixtureFile) []byte {
	t.Helper()
	files := []fixtureFile{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRootRels},
		{"word/document.xml", wrapWordBody(body)},
	}
	return buildArchive(t, append(files, extra...))
}

// wordPara builds one plain paragraph.
func wordPara(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

// --- Sheet fixtures ---

const xlsxContentTypes = xmlProlog + `
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>
</Types>`

const xlsxRootRels = xmlProlog + `
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/>
</Relationships>`

// xlsxArchive builds a workbook with the given sheets. Sheet i is named
// names[i] and stored as xl/worksheets/sheet<i+1>.xml holding sheetData
// markup from sheetData[i].
func xlsxArchive(t *testing.T, names []string, sheetData []string, extra ...fixtureFile) []byte {
	t.Helper()
	var sheets, rels bytes.Buffer
	files := []fixtureFile{
		{"[Content_Types].xml", xlsxContentTypes},
		{"_rels/.rels", xlsxRootRels},
	}
	for i, name := range names {
		id := i + 1
		sheets.WriteString(`<sheet name="` + name + `" sheetId="` + strconv.Itoa(id) + `" r:id="rId` + strconv.Itoa(id) + `"/>`)
		rels.WriteString(`<Relationship Id="rId` + strconv.Itoa(id) +
			`" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"` +
			` Target="worksheets/sheet` + strconv.Itoa(id) + `.xml"/>`)
		files = append(files, fixtureFile{
			"xl/worksheets/sheet" + strconv.Itoa(id) + ".xml",
			xmlProlog + `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">` +
				`<sheetData>` + sheetData[i] + `</sheetData></worksheet>`,
		})
	}
	files = append(files,
		fixtureFile{"xl/workbook.xml", xmlProlog +
			`<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"` +
			` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
			`<sheets>` + sheets.String() + `</sheets></workbook>`},
		fixtureFile{"xl/_rels/workbook.xml.rels", xmlProlog +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			rels.String() + `</Relationships>`},
	)
	return buildArchive(t, append(files, extra...))
}

// sharedStringsPart builds a shared-strings sidecar from plain items.
func sharedStringsPart(items ...string) fixtureFile {
	var b bytes.Buffer
	for _, it := range items {
		b.WriteString(`<si><t>` + it + `</t></si>`)
	}
	return fixtureFile{
		"xl/sharedStrings.xml",
		xmlProlog + `<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">` +
			b.String() + `</sst>`,
	}
}

// --- Slide fixtures ---

const pptxRootRels = xmlProlog + `
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>
</Relationships>`

const pptxContentTypes = xmlProlog + `
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>
</Types>`

// pptxArchive builds a deck whose declared order comes from sldIDs (rIds
// into the presentation rels) while the slide parts land in the archive in
// the order given by slideParts.
func pptxArchive(t *testing.T, slideRels []fixtureFile, slideParts []fixtureFile, sldIDs string) []byte {
	t.Helper()
	files := []fixtureFile{
		{"[Content_Types].xml", pptxContentTypes},
		{"_rels/.rels", pptxRootRels},
	}
	files = append(files, slideParts...)
	files = append(files,
		fixtureFile{"ppt/presentation.xml", xmlProlog +
			`<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"` +
			` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
			`<p:sldIdLst>` + sldIDs + `</p:sldIdLst></p:presentation>`},
	)
	files = append(files, slideRels...)
	return buildArchive(t, files)
}

// slidePart builds one slide part with a single body text box.
func slidePart(name, text string) fixtureFile {
	return fixtureFile{name, xmlProlog +
		`<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"` +
		` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
		`<p:cSld><p:spTree><p:sp><p:txBody>` +
		`<a:p><a:r><a:t>` + text + `</a:t></a:r></a:p>` +
		`</p:txBody></p:sp></p:spTree></p:cSld></p:sld>`}
}
