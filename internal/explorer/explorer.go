// Package explorer builds the navigation tree of a site from its documents.
package explorer

import (
	"slices"
	"strings"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/paths"
)

// Node is a folder or a file of the explorer tree. Folder nodes own their
// children; a folder's index document is attached as Doc rather than listed.
type Node struct {
	Name        string             `json:"name"`
	DisplayName string             `json:"displayName"`
	IsFolder    bool               `json:"isFolder"`
	FilePath    string             `json:"filePath,omitempty"`
	Slug        paths.FullSlug     `json:"slug"`
	Doc         *docmodel.Document `json:"-"`
	Children    []*Node            `json:"children,omitempty"`
}

func fileNode(d *docmodel.Document) *Node {
	return &Node{
		Name:        d.Slug.FileName(),
		DisplayName: d.Title(),
		FilePath:    d.Path,
		Slug:        d.Slug,
		Doc:         d,
	}
}

// Build constructs the tree for docs and sorts every folder's children once
// using c. A nil c orders siblings by slug after folders-first.
func Build(docs []*docmodel.Document, c Comparator) *Node {
	root := &Node{IsFolder: true, Slug: paths.FolderSlug("")}
	folders := map[string]*Node{"": root}

	var folderFor func(folder string) *Node
	folderFor = func(folder string) *Node {
		if n, ok := folders[folder]; ok {
			return n
		}
		parent := folderFor(paths.FullSlug(folder).Folder())
		name := paths.FullSlug(folder).FileName()
		n := &Node{
			Name:        name,
			DisplayName: name,
			IsFolder:    true,
			FilePath:    folder,
			Slug:        paths.FolderSlug(folder),
		}
		parent.Children = append(parent.Children, n)
		folders[folder] = n
		return n
	}

	for _, d := range docs {
		parent := folderFor(d.Slug.Folder())
		if d.Slug.IsFolderIndex() {
			parent.Doc = d
			if t := d.Meta.String(docmodel.KeyTitle); t != "" {
				parent.DisplayName = t
			}
			continue
		}
		parent.Children = append(parent.Children, fileNode(d))
	}

	root.Walk(func(n *Node, _ int) bool {
		if n.IsFolder {
			slices.SortStableFunc(n.Children, func(a, b *Node) int { return compareSiblings(c, a, b) })
		}
		return true
	})
	return root
}

// Walk visits n and its descendants depth first in sibling order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(n *Node, depth int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Folder returns the folder node at a slash separated path.
func (n *Node) Folder(folder string) (*Node, bool) {
	cur := n
	if folder == "" {
		return cur, true
	}
	for _, seg := range strings.Split(folder, "/") {
		var next *Node
		for _, c := range cur.Children {
			if c.IsFolder && c.Name == seg {
				next = c
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Trail returns the folder nodes from the root down to the folder containing
// slug, used for breadcrumbs. The root is always first.
func (n *Node) Trail(slug paths.FullSlug) []*Node {
	trail := []*Node{n}
	folder := slug.Folder()
	cur := n
	for _, seg := range strings.Split(folder, "/") {
		if seg == "" {
			break
		}
		var next *Node
		for _, c := range cur.Children {
			if c.IsFolder && c.Name == seg {
				next = c
				break
			}
		}
		if next == nil {
			break
		}
		trail = append(trail, next)
		cur = next
	}
	return trail
}

// ChildNames lists the names of n's children in order.
func (n *Node) ChildNames() []string {
	out := make([]string, len(n.Children))
	for i, c := range n.Children {
		out[i] = c.Name
	}
	return out
}
