package unoffice

import (
	"strconv"
	"strings"
)

// ToText renders an immutable Document as plain text: no markup, no
// escaping, single newlines between blocks, a blank line between sections.
func ToText(doc *Document) string {
	var b strings.Builder
	for i, sec := range doc.Sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if sec.Title != "" {
			b.WriteString(sec.Title)
			b.WriteString("\n")
		}
		ordinal := 0
		for j, blk := range sec.Blocks {
			line, isOrdered := textBlock(blk, &ordinal)
			if !isOrdered {
				ordinal = 0
			}
			if line == "" {
				continue
			}
			if j > 0 || sec.Title != "" {
				b.WriteString("\n")
			}
			b.WriteString(line)
		}
	}
	return normalizeOutput(b.String())
}

// textBlock renders one block. The ordinal counter numbers consecutive
// ordered list items and resets on any other block.
func textBlock(blk Block, ordinal *int) (string, bool) {
	switch v := blk.(type) {
	case Paragraph:
		text := v.PlainText()
		if v.List == nil {
			return text, false
		}
		indent := strings.Repeat("  ", v.List.Level)
		if v.List.Ordered {
			*ordinal++
			return indent + strconv.Itoa(*ordinal) + ". " + text, true
		}
		return indent + "• " + text, false
	case Table:
		return textTable(v), false
	case RawText:
		return v.Text, false
	case Image:
		return "", false
	}
	return "", false
}

// textTable renders rows as tab-separated lines, one row per line.
func textTable(t Table) string {
	var lines []string
	for _, row := range t.Rows {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			var parts []string
			for _, blk := range cell.Blocks {
				var n int
				if s, _ := textBlock(blk, &n); s != "" {
					parts = append(parts, s)
				}
			}
			cells = append(cells, strings.ReplaceAll(strings.Join(parts, " "), "\n", " "))
		}
		lines = append(lines, strings.Join(cells, "\t"))
	}
	return strings.Join(lines, "\n")
}
