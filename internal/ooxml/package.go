package ooxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/nicholasgasior/unoffice/internal/xmlutil"
)

var (
	// ErrMissingContentTypes reports a container without [Content_Types].xml.
	ErrMissingContentTypes = errors.New("missing [Content_Types].xml")
	// ErrMalformedXML reports a package part that failed to parse as XML.
	ErrMalformedXML = errors.New("malformed XML")
	// ErrNoRelationship reports a relationship ID absent from a source part's
	// relationship set.
	ErrNoRelationship = errors.New("relationship not found")
	// ErrNoOfficeDocument reports a package whose root relationships carry no
	// officeDocument entry.
	ErrNoOfficeDocument = errors.New("no officeDocument relationship")
)

// Relationship is one entry of a .rels part, with Target already resolved to
// a package-rooted part path. External targets keep their original URI and
// are never resolved.
type Relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// Package is the OPC view of a container: the content-type index and the
// relationship graph. All .rels parts are parsed eagerly at construction so
// that traversal never trips over malformed XML mid-walk.
type Package struct {
	Container *Container

	defaults  map[string]string // lowercased extension -> content type
	overrides map[string]string // part path -> content type
	rels      map[string][]Relationship
}

// ParsePackage reads [Content_Types].xml and every .rels part of the
// container and builds the package view.
func ParsePackage(c *Container) (*Package, error) {
	p := &Package{
		Container: c,
		defaults:  make(map[string]string),
		overrides: make(map[string]string),
		rels:      make(map[string][]Relationship),
	}
	if err := p.parseContentTypes(); err != nil {
		return nil, err
	}
	for _, name := range c.Parts() {
		src, ok := relsSource(name)
		if !ok {
			continue
		}
		rels, err := p.parseRels(name, src)
		if err != nil {
			return nil, err
		}
		p.rels[src] = rels
	}
	return p, nil
}

// relsSource maps a .rels part path back to the part whose relationships it
// holds. The package-level _rels/.rels maps to the empty source "".
func relsSource(name string) (string, bool) {
	dir, base := path.Split(name)
	if !strings.HasSuffix(base, ".rels") {
		return "", false
	}
	dir = strings.TrimSuffix(dir, "/")
	if dir != "_rels" && !strings.HasSuffix(dir, "/_rels") {
		return "", false
	}
	owner := strings.TrimSuffix(base, ".rels")
	parent := strings.TrimSuffix(strings.TrimSuffix(dir, "_rels"), "/")
	if owner == "" {
		if parent == "" {
			return "", true
		}
		return "", false
	}
	if parent == "" {
		return owner, true
	}
	return parent + "/" + owner, true
}

func (p *Package) parseContentTypes() error {
	const ctPart = "[Content_Types].xml"
	data, err := p.Container.ReadPart(ctPart)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMissingContentTypes, err)
	}
	d := xmlutil.NewDecoder(data)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: part %q: %v", ErrMalformedXML, ctPart, err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "Default":
			ext, _ := xmlutil.Attr(se, "Extension")
			ct, _ := xmlutil.Attr(se, "ContentType")
			if ext != "" {
				p.defaults[strings.ToLower(ext)] = ct
			}
		case "Override":
			part, _ := xmlutil.Attr(se, "PartName")
			ct, _ := xmlutil.Attr(se, "ContentType")
			if part != "" {
				p.overrides[strings.TrimPrefix(part, "/")] = ct
			}
		}
	}
	return nil
}

func (p *Package) parseRels(relsPart, source string) ([]Relationship, error) {
	data, err := p.Container.ReadPart(relsPart)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", relsPart, err)
	}
	var rels []Relationship
	d := xmlutil.NewDecoder(data)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: part %q: %v", ErrMalformedXML, relsPart, err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		r := Relationship{}
		r.ID, _ = xmlutil.Attr(se, "Id")
		r.Type, _ = xmlutil.Attr(se, "Type")
		target, _ := xmlutil.Attr(se, "Target")
		if mode, _ := xmlutil.Attr(se, "TargetMode"); strings.EqualFold(mode, "External") {
			r.External = true
			r.Target = target
		} else {
			r.Target = ResolveTarget(source, target)
		}
		rels = append(rels, r)
	}
	return rels, nil
}

// ContentType returns the content type of a part path: an explicit Override
// wins, then the Default for the part's extension. The empty string means
// the part is untyped.
func (p *Package) ContentType(partPath string) string {
	if ct, ok := p.overrides[partPath]; ok {
		return ct
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(partPath)), ".")
	return p.defaults[ext]
}

// Overrides returns the part paths that carry an explicit content-type
// override, in no particular order.
func (p *Package) Overrides() map[string]string {
	return p.overrides
}

// Rels returns the relationships of a source part; the empty string
// addresses the package level.
func (p *Package) Rels(source string) []Relationship {
	return p.rels[source]
}

// Resolve looks up a relationship of source by ID.
func (p *Package) Resolve(source, relID string) (Relationship, error) {
	for _, r := range p.rels[source] {
		if r.ID == relID {
			return r, nil
		}
	}
	return Relationship{}, fmt.Errorf("%w: %q in part %q", ErrNoRelationship, relID, source)
}

// ResolveByType returns the first relationship of source with the given
// type, in .rels document order.
func (p *Package) ResolveByType(source, relType string) (Relationship, bool) {
	for _, r := range p.rels[source] {
		if r.Type == relType {
			return r, true
		}
	}
	return Relationship{}, false
}

// RootPart returns the package's main document part via the officeDocument
// relationship of the package-level .rels.
func (p *Package) RootPart() (string, error) {
	r, ok := p.ResolveByType("", RelTypeOfficeDocument)
	if !ok {
		return "", ErrNoOfficeDocument
	}
	return r.Target, nil
}

// Walk traverses the relationship graph breadth-first from the given part,
// calling fn once per reachable internal part. A visited set makes circular
// relationship chains terminate. External relationships are reported but not
// descended into.
func (p *Package) Walk(from string, fn func(partPath string, rel Relationship) error) error {
	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		src := queue[0]
		queue = queue[1:]
		for _, r := range p.rels[src] {
			if err := fn(src, r); err != nil {
				return err
			}
			if r.External || visited[r.Target] {
				continue
			}
			visited[r.Target] = true
			queue = append(queue, r.Target)
		}
	}
	return nil
}
