// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package unoffice

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ToMarkdown renders an immutable Document as Markdown. The renderer never
// mutates the document and may run concurrently with other renderers on the
// same value.
func ToMarkdown(doc *Document, opts ...MarkdownOption) string {
	var o MarkdownOptions
	for _, opt := range opts {
		opt(&o)
	}

	var b strings.Builder
	if o.Frontmatter {
		b.WriteString(frontmatterBlock(doc))
	}

	sep := "\n"
	if o.ParagraphSpacing {
		sep = "\n\n"
	}

	for i, sec := range doc.Sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if sec.Title != "" {
			b.WriteString("## ")
			b.WriteString(escapeMarkdown(sec.Title, o.EscapeSpecial))
			b.WriteString("\n\n")
		}
		for j, blk := range sec.Blocks {
			if j > 0 {
				b.WriteString(sep)
			}
			b.WriteString(markdownBlock(blk, o))
		}
	}
	return normalizeOutput(b.String())
}

// frontmatterBlock builds the YAML frontmatter from document metadata.
func frontmatterBlock(doc *Document) string {
	fm := struct {
		Title    string `yaml:"title,omitempty"`
		Author   string `yaml:"author,omitempty"`
		Format   string `yaml:"format"`
		Sections int    `yaml:"sections"`
	}{
		Title:    doc.Metadata.Title,
		Author:   doc.Metadata.Author,
		Format:   doc.Format.String(),
		Sections: len(doc.Sections),
	}
	body, err := yaml.Marshal(fm)
	if err != nil {
		return ""
	}
	return "---\n" + string(body) + "---\n\n"
}

func markdownBlock(blk Block, o MarkdownOptions) string {
	switch v := blk.(type) {
	case Paragraph:
		return markdownParagraph(v, o)
	case Table:
		return markdownTable(v, o)
	case Image:
		alt := escapeMarkdown(v.Alt, o.EscapeSpecial)
		return fmt.Sprintf("![%s](%s)", alt, v.ResourceID)
	case RawText:
		return escapeMarkdown(v.Text, o.EscapeSpecial)
	}
	return ""
}

func markdownParagraph(p Paragraph, o MarkdownOptions) string {
	text := markdownRuns(p.Runs, o.EscapeSpecial)
	switch {
	case p.Heading > 0:
		return strings.Repeat("#", p.Heading) + " " + text
	case p.List != nil:
		indent := strings.Repeat("  ", p.List.Level)
		marker := "-"
		if p.List.Ordered {
			marker = "1."
		}
		return indent + marker + " " + text
	}
	return text
}

func markdownRuns(runs []Run, escape bool) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(markdownRun(r, escape))
	}
	return b.String()
}

// markdownRun wraps one run's text in its inline markers. Emphasis markers
// go inside a link's brackets so styled hyperlinks stay valid Markdown.
func markdownRun(r Run, escape bool) string {
	text := escapeMarkdown(r.Text, escape)
	if strings.TrimSpace(text) != "" {
		switch {
		case r.Bold && r.Italic:
			text = "***" + text + "***"
		case r.Bold:
			text = "**" + text + "**"
		case r.Italic:
			text = "_" + text + "_"
		}
		if r.Strike {
			text = "~~" + text + "~~"
		}
	}
	if r.Link != "" {
		text = "[" + text + "](" + r.Link + ")"
	}
	return text
}

func markdownTable(t Table, o MarkdownOptions) string {
	width := 0
	for _, row := range t.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return ""
	}

	var b strings.Builder
	for i, row := range t.Rows {
		b.WriteString("|")
		for c := 0; c < width; c++ {
			b.WriteString(" ")
			if c < len(row) {
				b.WriteString(markdownCell(row[c], o))
			}
			b.WriteString(" |")
		}
		b.WriteString("\n")
		if i == 0 {
			b.WriteString("|")
			for c := 0; c < width; c++ {
				b.WriteString(" --- |")
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// markdownCell flattens a cell's blocks to a single line; block and line
// breaks inside a cell become <br> so the pipe row stays intact.
func markdownCell(cell Cell, o MarkdownOptions) string {
	var parts []string
	for _, blk := range cell.Blocks {
		if s := markdownBlock(blk, o); s != "" {
			parts = append(parts, s)
		}
	}
	joined := strings.Join(parts, "<br>")
	joined = strings.ReplaceAll(joined, "\n", "<br>")
	// Literal pipes always break the row, escaped flag or not.
	if !o.EscapeSpecial {
		joined = strings.ReplaceAll(joined, "|", "\\|")
	}
	return joined
}

var markdownReplacer = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	"|", `\|`,
)

// escapeMarkdown backslash-escapes Markdown-significant characters when the
// escape option is on.
func escapeMarkdown(s string, escape bool) string {
	if !escape {
		return s
	}
	return markdownReplacer.Replace(s)
}
