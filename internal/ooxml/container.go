// Package ooxml implements the Open Packaging Conventions layer shared by
// the Word, Sheet and Slide builders: the ZIP container, the content-type
// index from [Content_Types].xml and the relationship graph from .rels parts.
package ooxml

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// Common OOXML namespaces.
const (
	NSRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"

	NSWordprocessingML = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NSSpreadsheetML    = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	NSPresentationML   = "http://schemas.openxmlformats.org/presentationml/2006/main"
	NSDrawingML        = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NSChartML          = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	NSRelDoc           = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	// Relationship type of the package's main document part.
	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	RelTypeNotesSlide     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
)

var (
	// ErrNotArchive reports input that is not a readable ZIP archive.
	ErrNotArchive = errors.New("not a ZIP archive")
	// ErrPartNotFound reports a part path absent from the container.
	ErrPartNotFound = errors.New("part not found")
)

// Container is a read-only view of an OOXML ZIP container. Entry names are
// the POSIX-style paths stored in the central directory, matched
// case-sensitively. Entry data is decompressed lazily, one part per read.
type Container struct {
	zr    *zip.Reader
	index map[string]*zip.File
}

// Open parses the ZIP central directory of data and returns a Container.
// Truncated or corrupt archives fail here, before any part is read.
func Open(data []byte) (*Container, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotArchive, err)
	}
	index := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		index[f.Name] = f
	}
	return &Container{zr: zr, index: index}, nil
}

// Parts returns every entry path in central-directory order.
func (c *Container) Parts() []string {
	names := make([]string, 0, len(c.zr.File))
	for _, f := range c.zr.File {
		names = append(names, f.Name)
	}
	return names
}

// Exists reports whether the container holds an entry with the given path.
func (c *Container) Exists(name string) bool {
	_, ok := c.index[name]
	return ok
}

// ReadPart decompresses and returns a single entry. OOXML producers only use
// the stored and deflate methods; archive/zip rejects anything else, which
// surfaces here as a decompression error.
func (c *Container) ReadPart(name string) ([]byte, error) {
	f, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPartNotFound, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open part %q: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("decompress part %q: %w", name, err)
	}
	return data, nil
}

// PartSize returns the uncompressed size of an entry without reading it.
func (c *Container) PartSize(name string) (int64, bool) {
	f, ok := c.index[name]
	if !ok {
		return 0, false
	}
	return int64(f.UncompressedSize64), true
}

// HasPrefix reports whether any entry path starts with prefix.
func (c *Container) HasPrefix(prefix string) bool {
	for _, f := range c.zr.File {
		if strings.HasPrefix(f.Name, prefix) {
			return true
		}
	}
	return false
}

// RelsPathFor returns the .rels part path holding the relationships of the
// given part; the empty string addresses the package-level _rels/.rels.
func RelsPathFor(partPath string) string {
	if partPath == "" {
		return "_rels/.rels"
	}
	dir := path.Dir(partPath)
	base := path.Base(partPath)
	if dir == "." {
		return "_rels/" + base + ".rels"
	}
	return dir + "/_rels/" + base + ".rels"
}

// ResolveTarget resolves a relationship target against its source part.
// Absolute targets are package-rooted; relative targets resolve against the
// source part's directory, collapsing "..".
func ResolveTarget(sourcePart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	dir := path.Dir(sourcePart)
	if dir == "." {
		dir = ""
	}
	return path.Join(dir, target)
}
