package ecfr

import (
	"strings"
)

// Structure node types as used by the versioner structure JSON.
const (
	NodeTypeTitle      = "title"
	NodeTypeSubtitle   = "subtitle"
	NodeTypeChapter    = "chapter"
	NodeTypeSubchapter = "subchapter"
	NodeTypePart       = "part"
	NodeTypeSubpart    = "subpart"
	NodeTypeSection    = "section"
)

// StructureNode is one node of a title's structure tree
// (title→chapter→part→subpart→section). The tree is delivered fresh
// per request and never cached.
type StructureNode struct {
	Type       string          `json:"type"`
	Identifier string          `json:"identifier"`
	Label      string          `json:"label"`
	Children   []StructureNode `json:"children"`
}

// SectionURLs walks the tree below every chapter matching the given
// chapter token and returns the canonical document URL for each
// section found. base is the site root, e.g. https://www.ecfr.gov.
// Depth is bounded by the document hierarchy; the source is a tree, so
// no cycle handling is needed.
func (n *StructureNode) SectionURLs(base, chapter string) []string {
	var urls []string
	rootPath := n.pathSegment()
	for i := range n.Children {
		child := &n.Children[i]
		if !child.matchesChapter(chapter) {
			continue
		}
		path := make([]string, 0, 8)
		if rootPath != "" {
			path = append(path, rootPath)
		}
		child.collectSections(base, path, &urls)
	}
	return urls
}

func (n *StructureNode) collectSections(base string, path []string, urls *[]string) {
	if seg := n.pathSegment(); seg != "" {
		path = append(path, seg)
	}
	if strings.EqualFold(n.Type, NodeTypeSection) && n.Identifier != "" {
		*urls = append(*urls, base+"/current/"+strings.Join(path, "/"))
		return
	}
	for i := range n.Children {
		n.Children[i].collectSections(base, path, urls)
	}
}

// pathSegment renders the node as a URL path segment, "chapter-I" style.
func (n *StructureNode) pathSegment() string {
	if n.Identifier == "" || n.Type == "" {
		return ""
	}
	return strings.ToLower(n.Type) + "-" + n.Identifier
}

// matchesChapter reports whether the node is the chapter the caller is
// looking for. Identifiers match exactly; only when a node carries no
// identifier does its label match by containment (labels read like
// "Chapter I—Office of Personnel Management", and a containment check
// against an identified node would confuse chapters I and II).
func (n *StructureNode) matchesChapter(chapter string) bool {
	if chapter == "" {
		return false
	}
	if n.Identifier != "" {
		return strings.EqualFold(n.Identifier, chapter)
	}
	return n.Label != "" && strings.Contains(n.Label, chapter)
}
