package unoffice

// MarkdownOptions configures the Markdown renderer. The three switches are
// independent; the zero value renders bare Markdown.
type MarkdownOptions struct {
	// Frontmatter prepends a YAML frontmatter block built from the
	// document metadata.
	Frontmatter bool
	// EscapeSpecial backslash-escapes Markdown-significant characters in
	// run text so literal document text cannot be misread as markup.
	EscapeSpecial bool
	// ParagraphSpacing separates paragraphs with a blank line instead of a
	// single newline.
	ParagraphSpacing bool
}

// MarkdownOption configures a Markdown render call.
type MarkdownOption func(*MarkdownOptions)

// WithFrontmatter enables the YAML frontmatter block.
func WithFrontmatter() MarkdownOption {
	return func(o *MarkdownOptions) { o.Frontmatter = true }
}

// WithEscapeSpecial enables escaping of Markdown-significant characters.
func WithEscapeSpecial() MarkdownOption {
	return func(o *MarkdownOptions) { o.EscapeSpecial = true }
}

// WithParagraphSpacing enables blank lines between paragraphs.
func WithParagraphSpacing() MarkdownOption {
	return func(o *MarkdownOptions) { o.ParagraphSpacing = true }
}

// JSONMode selects the JSON renderer's layout.
type JSONMode int

const (
	// JSONPretty indents with two spaces.
	JSONPretty JSONMode = iota
	// JSONCompact emits a single line with no insignificant whitespace.
	JSONCompact
)
