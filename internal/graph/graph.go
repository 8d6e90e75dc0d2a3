// Package graph derives the content graph of one build: resolved links,
// backlinks, folder and tag membership and chronological order.
//
// A Graph is built once from the filtered document set and is read only
// afterwards, so emitters may query it concurrently.
package graph

import (
	"cmp"
	"slices"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/paths"
	"git.home.luguber.info/inful/docgraph/internal/util/sets"
)

// DocumentOrder orders two documents, negative when a sorts first.
type DocumentOrder func(a, b *docmodel.Document) int

// Options configures Build.
type Options struct {
	Policy   Policy
	DateType docmodel.DateType
	// FolderOrder sorts folder members. Nil keeps slug order.
	FolderOrder DocumentOrder
	// TagOrder sorts tag members. Nil keeps insertion order (slug order of the set).
	TagOrder DocumentOrder
	// Assets are slugs of non-markdown files that links may point at.
	Assets []paths.FullSlug
}

// Edge is a resolved link between two documents.
type Edge struct {
	From paths.FullSlug `json:"from"`
	To   paths.FullSlug `json:"to"`
}

// Graph is the content graph of one build.
type Graph struct {
	opts Options

	docs    []*docmodel.Document
	bySlug  map[paths.FullSlug]*docmodel.Document
	byName  map[string][]paths.FullSlug
	aliases map[paths.FullSlug]paths.FullSlug
	assets  sets.Set[paths.FullSlug]
	// assetsByName indexes assets by file name for PolicyShortest.
	assetsByName map[string][]paths.FullSlug

	forward   map[paths.FullSlug][]paths.FullSlug
	backlinks map[paths.FullSlug][]paths.FullSlug
	broken    []BrokenLink

	folders    map[string][]paths.FullSlug
	subfolders map[string][]string
	tags       map[string][]paths.FullSlug
	tagBySlug  map[string]string

	chrono []paths.FullSlug
}

// Build computes the graph from the filtered documents. Slugs must be unique.
func Build(docs []*docmodel.Document, opts Options) *Graph {
	if opts.Policy == "" {
		opts.Policy = PolicyShortest
	}
	if opts.DateType == "" {
		opts.DateType = docmodel.DateModified
	}

	g := &Graph{
		opts:         opts,
		docs:         slices.Clone(docs),
		bySlug:       make(map[paths.FullSlug]*docmodel.Document, len(docs)),
		byName:       make(map[string][]paths.FullSlug, len(docs)),
		aliases:      map[paths.FullSlug]paths.FullSlug{},
		assets:       sets.New(opts.Assets...),
		assetsByName: map[string][]paths.FullSlug{},
		forward:      make(map[paths.FullSlug][]paths.FullSlug, len(docs)),
		backlinks:    make(map[paths.FullSlug][]paths.FullSlug, len(docs)),
		folders:      map[string][]paths.FullSlug{},
		subfolders:   map[string][]string{},
		tags:         map[string][]paths.FullSlug{},
		tagBySlug:    map[string]string{},
	}
	sort.Slice(g.docs, func(i, j int) bool { return g.docs[i].Slug < g.docs[j].Slug })

	for _, d := range g.docs {
		g.bySlug[d.Slug] = d
		name := d.Slug.FileName()
		g.byName[name] = append(g.byName[name], d.Slug)
	}
	for _, a := range opts.Assets {
		g.assetsByName[a.FileName()] = append(g.assetsByName[a.FileName()], a)
	}
	for _, d := range g.docs {
		for _, a := range d.Aliases() {
			alias := paths.Normalize(a)
			if _, taken := g.bySlug[alias]; !taken {
				if _, dup := g.aliases[alias]; !dup {
					g.aliases[alias] = d.Slug
				}
			}
		}
	}

	g.buildFolders()
	g.buildTags()
	g.buildLinks()
	g.buildChronology()
	return g
}

func (g *Graph) buildFolders() {
	seen := sets.New("")
	g.folders[""] = nil
	addFolder := func(folder string) {
		for _, f := range paths.FolderPrefixes(folder) {
			if !seen.Add(f) {
				continue
			}
			g.folders[f] = nil
			parent := paths.FullSlug(f).Folder()
			g.subfolders[parent] = append(g.subfolders[parent], f)
		}
	}
	for _, d := range g.docs {
		folder := d.Slug.Folder()
		addFolder(folder)
		if d.Slug.IsFolderIndex() {
			continue
		}
		g.folders[folder] = append(g.folders[folder], d.Slug)
	}
	for _, f := range g.subfolders {
		sort.Strings(f)
	}
	if g.opts.FolderOrder != nil {
		for folder, members := range g.folders {
			g.sortSlugs(members, g.opts.FolderOrder)
			g.folders[folder] = members
		}
	}
}

func (g *Graph) buildTags() {
	for _, d := range g.docs {
		for _, tag := range d.Tags() {
			for _, prefix := range tagPrefixes(tag) {
				members := g.tags[prefix]
				if !slices.Contains(members, d.Slug) {
					g.tags[prefix] = append(members, d.Slug)
				}
				g.tagBySlug[paths.TagSlug(prefix)] = prefix
			}
		}
	}
	if g.opts.TagOrder != nil {
		for tag, members := range g.tags {
			g.sortSlugs(members, g.opts.TagOrder)
			g.tags[tag] = members
		}
	}
}

// tagPrefixes expands "a/b/c" into "a", "a/b", "a/b/c".
func tagPrefixes(tag string) []string {
	tag = strings.Trim(strings.TrimPrefix(tag, "#"), "/")
	if tag == "" {
		return nil
	}
	return paths.FolderPrefixes(tag)
}

func (g *Graph) buildLinks() {
	for _, d := range g.docs {
		targets := sets.New[paths.FullSlug]()
		reported := sets.New[string]()
		for _, l := range d.Links {
			if l.External {
				continue
			}
			res := g.resolveTarget(d.Slug, l.Target)
			switch res.Kind {
			case KindDocument:
				if targets.Add(res.Slug) {
					g.forward[d.Slug] = append(g.forward[d.Slug], res.Slug)
					g.backlinks[res.Slug] = append(g.backlinks[res.Slug], d.Slug)
				}
			case KindBroken:
				if reported.Add(l.Target) {
					g.broken = append(g.broken, BrokenLink{
						Source:     d.Slug,
						Path:       d.Path,
						Target:     l.Target,
						Reason:     res.Reason,
						Candidates: res.Candidates,
					})
				}
			}
		}
	}
	// Sources were visited in slug order, so backlink lists are already sorted.
}

func (g *Graph) buildChronology() {
	g.chrono = make([]paths.FullSlug, len(g.docs))
	for i, d := range g.docs {
		g.chrono[i] = d.Slug
	}
	g.sortSlugs(g.chrono, func(a, b *docmodel.Document) int {
		return b.Dates.Effective(g.opts.DateType).Compare(a.Dates.Effective(g.opts.DateType))
	})
}

// sortSlugs sorts slugs by order, breaking ties by slug.
func (g *Graph) sortSlugs(s []paths.FullSlug, order DocumentOrder) {
	slices.SortStableFunc(s, func(a, b paths.FullSlug) int {
		if c := order(g.bySlug[a], g.bySlug[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
}

// Documents returns the graph's documents in slug order.
func (g *Graph) Documents() []*docmodel.Document { return g.docs }

// Document looks a document up by slug.
func (g *Graph) Document(slug paths.FullSlug) (*docmodel.Document, bool) {
	d, ok := g.bySlug[slug]
	return d, ok
}

// Forward returns the distinct documents slug links to, in link order.
func (g *Graph) Forward(slug paths.FullSlug) []paths.FullSlug { return g.forward[slug] }

// Backlinks returns the documents linking to slug, ordered by source slug.
func (g *Graph) Backlinks(slug paths.FullSlug) []paths.FullSlug { return g.backlinks[slug] }

// Edges returns every resolved document edge ordered by source then target.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, d := range g.docs {
		targets := slices.Clone(g.forward[d.Slug])
		slices.Sort(targets)
		for _, t := range targets {
			out = append(out, Edge{From: d.Slug, To: t})
		}
	}
	return out
}

// Broken returns the unresolved links in source slug order.
func (g *Graph) Broken() []BrokenLink { return g.broken }

// Folders returns every folder path, root ("") included, sorted.
func (g *Graph) Folders() []string {
	out := make([]string, 0, len(g.folders))
	for f := range g.folders {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// HasFolder reports whether folder holds any document.
func (g *Graph) HasFolder(folder string) bool {
	_, ok := g.folders[folder]
	return ok
}

// FolderMembers returns the documents directly inside folder, excluding the
// folder's own index document.
func (g *Graph) FolderMembers(folder string) []paths.FullSlug { return g.folders[folder] }

// Subfolders returns the direct child folders of folder, sorted.
func (g *Graph) Subfolders(folder string) []string { return g.subfolders[folder] }

// FolderIndex returns the document acting as folder's own page, if any.
func (g *Graph) FolderIndex(folder string) (*docmodel.Document, bool) {
	return g.Document(paths.FolderSlug(folder))
}

// Tags returns every tag, hierarchical prefixes included, sorted.
func (g *Graph) Tags() []string {
	out := make([]string, 0, len(g.tags))
	for t := range g.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// TagMembers returns the documents carrying tag or one of its subtags.
func (g *Graph) TagMembers(tag string) []paths.FullSlug { return g.tags[tag] }

// TagForSlug returns the tag whose page slug segment is tagSlug, as produced
// by paths.TagSlug.
func (g *Graph) TagForSlug(tagSlug string) (string, bool) {
	t, ok := g.tagBySlug[tagSlug]
	return t, ok
}

// AliasTarget returns the document an alias slug redirects to. Aliases that
// collide with a real slug or an earlier alias are not registered.
func (g *Graph) AliasTarget(alias paths.FullSlug) (paths.FullSlug, bool) {
	s, ok := g.aliases[alias]
	return s, ok
}

// Chronological returns slugs by effective date descending, ties by slug.
func (g *Graph) Chronological() []paths.FullSlug { return g.chrono }

// DateType is the date used for chronological ordering.
func (g *Graph) DateType() docmodel.DateType { return g.opts.DateType }
