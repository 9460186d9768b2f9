package unoffice

import (
	"strings"

	"github.com/nicholasgasior/unoffice/internal/ooxml"
)

// Main-part content types registered in [Content_Types].xml. Detection goes
// by the content type of the package's root part, never by file extension.
const (
	ctWordMain       = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctWordMacroMain  = "application/vnd.ms-word.document.macroEnabled.main+xml"
	ctSheetMain      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ctSheetMacroMain = "application/vnd.ms-excel.sheet.macroEnabled.main+xml"
	ctSlideMain      = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlideMacroMain = "application/vnd.ms-powerpoint.presentation.macroEnabled.main+xml"
)

func formatForContentType(ct string) (Format, bool) {
	switch ct {
	case ctWordMain, ctWordMacroMain:
		return FormatWord, true
	case ctSheetMain, ctSheetMacroMain:
		return FormatSheet, true
	case ctSlideMain, ctSlideMacroMain:
		return FormatSlide, true
	}
	return 0, false
}

// detectFormat identifies the document format and its main part. The root
// part named by the package-level officeDocument relationship is
// authoritative; when that relationship or its content type is missing, the
// content-type overrides and finally the conventional folder layout decide.
func detectFormat(pkg *ooxml.Package) (Format, string, error) {
	if root, err := pkg.RootPart(); err == nil {
		if f, ok := formatForContentType(pkg.ContentType(root)); ok {
			return f, root, nil
		}
	}
	if f, part, ok := overrideMain(pkg.Overrides()); ok {
		return f, part, nil
	}
	// Producers that skimp on content types still follow the folder
	// conventions.
	c := pkg.Container
	switch {
	case c.Exists("word/document.xml"):
		return FormatWord, "word/document.xml", nil
	case c.Exists("xl/workbook.xml"):
		return FormatSheet, "xl/workbook.xml", nil
	case c.Exists("ppt/presentation.xml"):
		return FormatSlide, "ppt/presentation.xml", nil
	case c.HasPrefix("word/"):
		return FormatWord, "", &SchemaError{Part: "word/document.xml", Msg: "main document part missing"}
	case c.HasPrefix("xl/"):
		return FormatSheet, "", &SchemaError{Part: "xl/workbook.xml", Msg: "workbook part missing"}
	case c.HasPrefix("ppt/"):
		return FormatSlide, "", &SchemaError{Part: "ppt/presentation.xml", Msg: "presentation part missing"}
	}
	return 0, "", &UnsupportedFormatError{Detail: "no OOXML main part found, " + sniffDetail(c.Parts())}
}

// overrideMain scans the content-type overrides for a main part. Formats are
// tried in a fixed preference order and ties within a format break on the
// lexically smallest part path, so a package carrying conflicting main-part
// overrides still detects the same way every run.
func overrideMain(overrides map[string]string) (Format, string, bool) {
	best := make(map[Format]string)
	for part, ct := range overrides {
		f, ok := formatForContentType(ct)
		if !ok {
			continue
		}
		if cur, seen := best[f]; !seen || part < cur {
			best[f] = part
		}
	}
	for _, f := range []Format{FormatWord, FormatSheet, FormatSlide} {
		if part, ok := best[f]; ok {
			return f, part, true
		}
	}
	return 0, "", false
}

// sniffDetail summarizes what the container holds, for error messages.
func sniffDetail(parts []string) string {
	if len(parts) == 0 {
		return "empty archive"
	}
	shown := parts
	if len(shown) > 3 {
		shown = shown[:3]
	}
	return "entries " + strings.Join(shown, ", ")
}
