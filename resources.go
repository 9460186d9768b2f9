package unoffice

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/nicholasgasior/unoffice/internal/ooxml"
)

// resourceSet accumulates embedded resources discovered while walking the
// relationship graph and maps target part paths back to resource IDs so
// builders can reference them from Image blocks.
type resourceSet struct {
	list     []Resource
	byTarget map[string]string
}

// collectResources walks the relationship graph from the main part and
// records every reachable image part once, in traversal order. IDs are
// assigned sequentially (img1, img2, ...). A media type comes from the
// content-type index when registered, otherwise from sniffing the part
// bytes. An image relationship whose target is missing from the container
// is dropped rather than failing the parse.
func collectResources(pkg *ooxml.Package, mainPart string) *resourceSet {
	rs := &resourceSet{byTarget: make(map[string]string)}
	_ = pkg.Walk(mainPart, func(_ string, rel ooxml.Relationship) error {
		if rel.Type != ooxml.RelTypeImage || rel.External {
			return nil
		}
		rs.add(pkg, rel.Target)
		return nil
	})
	return rs
}

func (rs *resourceSet) add(pkg *ooxml.Package, target string) {
	if _, seen := rs.byTarget[target]; seen {
		return
	}
	size, ok := pkg.Container.PartSize(target)
	if !ok {
		return
	}
	mt := pkg.ContentType(target)
	if mt == "" {
		if data, err := pkg.Container.ReadPart(target); err == nil {
			mt = mimetype.Detect(data).String()
		}
	}
	id := fmt.Sprintf("img%d", len(rs.list)+1)
	rs.byTarget[target] = id
	rs.list = append(rs.list, Resource{ID: id, MediaType: mt, ByteLength: size})
}

// idForTarget returns the resource ID of a target part path, or "" when the
// target was never collected.
func (rs *resourceSet) idForTarget(target string) string {
	return rs.byTarget[target]
}
