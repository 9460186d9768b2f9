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

import "strings"

// Format identifies the source document format.
type Format int

const (
	FormatWord Format = iota + 1
	FormatSheet
	FormatSlide
)

func (f Format) String() string {
	switch f {
	case FormatWord:
		return "word"
	case FormatSheet:
		return "sheet"
	case FormatSlide:
		return "slide"
	}
	return "unknown"
}

// Document is the format-neutral model every builder produces and every
// renderer consumes. Sections are ordered: body parts split at section
// breaks for Word, one per sheet in declared workbook order for Sheet, one
// per slide in declared presentation order for Slide.
type Document struct {
	Format    Format
	Metadata  Metadata
	Sections  []Section
	Resources []Resource
}

// Metadata holds the document properties surfaced to renderers.
type Metadata struct {
	Title  string
	Author string
}

// Section is a named, ordered slice of the document. Title is empty when the
// source gives the section no name.
type Section struct {
	Title  string
	Blocks []Block
}

// Block is one unit of section content: a Paragraph, Table, Image or
// RawText.
type Block interface {
	isBlock()
}

// Paragraph is styled text. Heading is the level (1-6) or zero, List is nil
// for body paragraphs.
type Paragraph struct {
	Heading int
	List    *ListMarker
	Runs    []Run
}

// ListMarker tags a paragraph as a list item.
type ListMarker struct {
	Ordered bool
	Level   int // zero-based nesting depth
}

// Run is a span of text with uniform styling. Link holds the resolved
// hyperlink target, empty when the run is not a link.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Link      string
}

// Table is a grid of cells. Rows may be ragged; renderers pad to the widest
// row.
type Table struct {
	Rows [][]Cell
}

// Cell holds the block content of one table cell.
type Cell struct {
	Blocks []Block
}

// Image references an embedded resource by ID.
type Image struct {
	ResourceID string
	Alt        string
}

// RawText is pre-formatted text that renderers emit verbatim, used for
// sheet cell values.
type RawText struct {
	Text string
}

func (Paragraph) isBlock() {}
func (Table) isBlock()     {}
func (Image) isBlock()     {}
func (RawText) isBlock()   {}

// Resource describes an embedded binary part. Only metadata is retained;
// the bytes stay in the container.
type Resource struct {
	ID         string
	MediaType  string
	ByteLength int64
}

// Title returns the metadata title.
func (d *Document) Title() string { return d.Metadata.Title }

// Author returns the metadata author.
func (d *Document) Author() string { return d.Metadata.Author }

// SectionCount returns the number of sections.
func (d *Document) SectionCount() int { return len(d.Sections) }

// ResourceCount returns the number of embedded resources.
func (d *Document) ResourceCount() int { return len(d.Resources) }

// PlainText returns the concatenated run text of a paragraph with no
// styling.
func (p Paragraph) PlainText() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// sameStyle reports whether two runs carry identical styling and can be
// merged.
func sameStyle(a, b Run) bool {
	return a.Bold == b.Bold && a.Italic == b.Italic &&
		a.Underline == b.Underline && a.Strike == b.Strike && a.Link == b.Link
}

// mergeRuns collapses adjacent runs with identical styling into one run and
// drops empty runs. Word producers routinely split a single styled span
// across many runs; merging keeps renderer output stable across producers.
func mergeRuns(runs []Run) []Run {
	var out []Run
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && sameStyle(out[n-1], r) {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}
