package unoffice

import "encoding/json"

// The JSON layout is part of the output contract: key order follows the
// struct declarations below, pretty mode indents with two spaces, and the
// same Document always renders to byte-identical output. Every list is
// emitted as an array, never null, so callers can diff outputs.

type jsonDocument struct {
	Format    string         `json:"format"`
	Metadata  jsonMetadata   `json:"metadata"`
	Sections  []jsonSection  `json:"sections"`
	Resources []jsonResource `json:"resources"`
}

type jsonMetadata struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

type jsonSection struct {
	Index  int         `json:"index"`
	Title  string      `json:"title"`
	Blocks []jsonBlock `json:"blocks"`
}

type jsonBlock struct {
	Type string `json:"type"`

	// paragraph
	Heading int        `json:"heading,omitempty"`
	List    *jsonList  `json:"list,omitempty"`
	Runs    []jsonRun  `json:"runs,omitempty"`
	// table
	Rows [][]jsonCell `json:"rows,omitempty"`
	// image
	ResourceRef string `json:"resource_ref,omitempty"`
	Alt         string `json:"alt,omitempty"`
	// raw_text
	Text string `json:"text,omitempty"`
}

type jsonList struct {
	Ordered bool `json:"ordered"`
	Level   int  `json:"level"`
}

type jsonRun struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold"`
	Italic    bool   `json:"italic"`
	Underline bool   `json:"underline"`
	Strike    bool   `json:"strike"`
	Hyperlink string `json:"hyperlink,omitempty"`
}

type jsonCell struct {
	Blocks []jsonBlock `json:"blocks"`
}

type jsonResource struct {
	ID         string `json:"id"`
	MediaType  string `json:"media_type"`
	ByteLength int64  `json:"byte_length"`
}

// ToJSON renders an immutable Document as JSON in the given mode.
func ToJSON(doc *Document, mode JSONMode) (string, error) {
	tree := jsonDocumentOf(doc)
	var (
		out []byte
		err error
	)
	if mode == JSONCompact {
		out, err = json.Marshal(tree)
	} else {
		out, err = json.MarshalIndent(tree, "", "  ")
	}
	if err != nil {
		return "", &RenderError{Format: "json", Err: err}
	}
	return string(out), nil
}

func jsonDocumentOf(doc *Document) jsonDocument {
	out := jsonDocument{
		Format: doc.Format.String(),
		Metadata: jsonMetadata{
			Title:  doc.Metadata.Title,
			Author: doc.Metadata.Author,
		},
		Sections:  make([]jsonSection, 0, len(doc.Sections)),
		Resources: make([]jsonResource, 0, len(doc.Resources)),
	}
	for i, sec := range doc.Sections {
		out.Sections = append(out.Sections, jsonSection{
			Index:  i,
			Title:  sec.Title,
			Blocks: jsonBlocksOf(sec.Blocks),
		})
	}
	for _, res := range doc.Resources {
		out.Resources = append(out.Resources, jsonResource{
			ID:         res.ID,
			MediaType:  res.MediaType,
			ByteLength: res.ByteLength,
		})
	}
	return out
}

func jsonBlocksOf(blocks []Block) []jsonBlock {
	out := make([]jsonBlock, 0, len(blocks))
	for _, blk := range blocks {
		switch v := blk.(type) {
		case Paragraph:
			jb := jsonBlock{Type: "paragraph", Heading: v.Heading}
			if v.List != nil {
				jb.List = &jsonList{Ordered: v.List.Ordered, Level: v.List.Level}
			}
			jb.Runs = make([]jsonRun, 0, len(v.Runs))
			for _, r := range v.Runs {
				jb.Runs = append(jb.Runs, jsonRun{
					Text:      r.Text,
					Bold:      r.Bold,
					Italic:    r.Italic,
					Underline: r.Underline,
					Strike:    r.Strike,
					Hyperlink: r.Link,
				})
			}
			out = append(out, jb)
		case Table:
			rows := make([][]jsonCell, 0, len(v.Rows))
			for _, row := range v.Rows {
				cells := make([]jsonCell, 0, len(row))
				for _, cell := range row {
					cells = append(cells, jsonCell{Blocks: jsonBlocksOf(cell.Blocks)})
				}
				rows = append(rows, cells)
			}
			out = append(out, jsonBlock{Type: "table", Rows: rows})
		case Image:
			out = append(out, jsonBlock{Type: "image", ResourceRef: v.ResourceID, Alt: v.Alt})
		case RawText:
			out = append(out, jsonBlock{Type: "raw_text", Text: v.Text})
		}
	}
	return out
}
