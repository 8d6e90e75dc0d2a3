package graph

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/docgraph/internal/markdown"
	"git.home.luguber.info/inful/docgraph/internal/paths"
)

// Kind says what a link target resolved to.
type Kind int

const (
	KindBroken Kind = iota
	KindDocument
	KindFolder
	KindTag
	KindAsset
)

// BrokenReason explains an unresolved link.
type BrokenReason string

const (
	ReasonDangling  BrokenReason = "dangling"
	ReasonAmbiguous BrokenReason = "ambiguous"
)

// BrokenLink is a link whose target is not part of the filtered set.
type BrokenLink struct {
	Source     paths.FullSlug   `json:"source"`
	Path       string           `json:"path"`
	Target     string           `json:"target"`
	Reason     BrokenReason     `json:"reason"`
	Candidates []paths.FullSlug `json:"candidates,omitempty"`
}

// Resolution is the outcome of resolving one link target.
type Resolution struct {
	Kind Kind
	// Slug is the document or asset slug, the folder's page slug or the tag page slug.
	Slug       paths.FullSlug
	Anchor     string
	Reason     BrokenReason
	Candidates []paths.FullSlug
	// Folder or Tag name for KindFolder and KindTag.
	Name string
}

// Resolve resolves a destination as written in the document at src,
// "#anchor" and "?query" suffixes allowed.
func (g *Graph) Resolve(src paths.FullSlug, dest string) Resolution {
	target, anchor := markdown.SplitAnchor(dest)
	if target == "" {
		return Resolution{Kind: KindDocument, Slug: src, Anchor: anchor}
	}
	res := g.resolveTarget(src, target)
	res.Anchor = anchor
	return res
}

// Href returns the URL of dest as seen from src and whether it is broken.
func (g *Graph) Href(src paths.FullSlug, dest string) (string, bool) {
	res := g.Resolve(src, dest)
	anchor := ""
	if res.Anchor != "" {
		anchor = "#" + res.Anchor
	}
	switch res.Kind {
	case KindDocument, KindFolder, KindTag:
		if res.Slug == src && anchor != "" {
			return anchor, false
		}
		return paths.RelativeURL(src, res.Slug.Simplify()+anchor), false
	case KindAsset:
		return paths.RelativeURL(src, string(res.Slug)+anchor), false
	default:
		target, _ := markdown.SplitAnchor(dest)
		return paths.RelativeURL(src, string(g.candidateSlug(src, target))+anchor), true
	}
}

func (g *Graph) resolveTarget(src paths.FullSlug, target string) Resolution {
	candidate := g.candidateSlug(src, target)
	isFolderRef := strings.HasSuffix(target, "/")

	if g.opts.Policy == PolicyShortest && !isFolderRef && !strings.HasPrefix(target, "/") && !isRelative(target) && !strings.Contains(target, "/") {
		name := candidate.FileName()
		matches := g.byName[name]
		if len(matches) == 1 {
			return Resolution{Kind: KindDocument, Slug: matches[0]}
		}
		if res := g.lookup(candidate, isFolderRef); res.Kind != KindBroken {
			return res
		}
		if len(matches) == 0 {
			if assets := g.assetsByName[name]; len(assets) == 1 {
				return Resolution{Kind: KindAsset, Slug: assets[0]}
			}
		}
		if len(matches) > 1 {
			return Resolution{Kind: KindBroken, Reason: ReasonAmbiguous, Candidates: matches}
		}
		return Resolution{Kind: KindBroken, Reason: ReasonDangling}
	}
	return g.lookup(candidate, isFolderRef)
}

func isRelative(target string) bool {
	return strings.HasPrefix(target, "./") || strings.HasPrefix(target, "../")
}

// candidateSlug turns a written target into the slug it names under the policy.
func (g *Graph) candidateSlug(src paths.FullSlug, target string) paths.FullSlug {
	t := strings.TrimSuffix(target, "/")
	switch {
	case strings.HasPrefix(t, "/"):
		t = strings.TrimPrefix(t, "/")
	case isRelative(t) || g.opts.Policy == PolicyRelative:
		t = path.Join(src.Folder(), t)
	}
	t = path.Clean("/" + t)[1:]
	if t == "" {
		return paths.Index
	}
	return paths.SlugifyFilePath(t)
}

func (g *Graph) lookup(candidate paths.FullSlug, folderRef bool) Resolution {
	if !folderRef {
		if _, ok := g.bySlug[candidate]; ok {
			return Resolution{Kind: KindDocument, Slug: candidate}
		}
		if canonical, ok := g.aliases[candidate]; ok {
			return Resolution{Kind: KindDocument, Slug: canonical}
		}
		if g.assets.Has(candidate) {
			return Resolution{Kind: KindAsset, Slug: candidate}
		}
	}

	folder := string(candidate)
	if candidate == paths.Index || candidate.IsFolderIndex() {
		folder = candidate.Folder()
	}
	if idx := paths.FolderSlug(folder); g.bySlug[idx] != nil {
		return Resolution{Kind: KindDocument, Slug: idx}
	}
	if g.HasFolder(folder) {
		return Resolution{Kind: KindFolder, Slug: paths.FolderSlug(folder), Name: folder}
	}
	if rest, ok := strings.CutPrefix(folder, paths.TagsFolder+"/"); ok {
		if tag, ok := g.tagBySlug[rest]; ok {
			return Resolution{Kind: KindTag, Slug: paths.TagPageSlug(tag), Name: tag}
		}
	}
	if folder == paths.TagsFolder && len(g.tags) > 0 {
		return Resolution{Kind: KindTag, Slug: paths.FolderSlug(paths.TagsFolder), Name: ""}
	}
	return Resolution{Kind: KindBroken, Reason: ReasonDangling}
}
