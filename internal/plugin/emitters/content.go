package emitters

import (
	"context"
	"strings"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/paths"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/render"
)

const (
	ContentPageName = "content-page"
	FolderPageName  = "folder-page"
	TagPageName     = "tag-page"
)

// ContentPage writes the HTML page of every document.
type ContentPage struct{}

func (ContentPage) Name() string { return ContentPageName }

func (ContentPage) EmitDocument(_ context.Context, site *pipeline.Site, d *docmodel.Document) ([]pipeline.Artifact, error) {
	p, err := documentPage(site, d)
	if err != nil {
		return nil, err
	}
	html, err := site.Renderer.Render(p)
	if err != nil {
		return nil, err
	}
	return []pipeline.Artifact{{Path: d.Slug.OutputPath(), Data: html}}, nil
}

// FolderPage writes a listing for every folder, the root included, that has
// no index document of its own. The tags folder belongs to TagPage.
type FolderPage struct{}

func (FolderPage) Name() string { return FolderPageName }

func (FolderPage) EmitCollection(ctx context.Context, site *pipeline.Site) ([]pipeline.Artifact, error) {
	var out []pipeline.Artifact
	for _, folder := range site.Graph.Folders() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isTagFolder(folder) {
			continue
		}
		if _, ok := site.Graph.FolderIndex(folder); ok {
			continue
		}
		slug := paths.FolderSlug(folder)
		title := paths.FullSlug(folder).FileName()
		if folder == "" {
			title = homeTitle
		}
		p := listPage(site, render.KindFolder, slug, title)
		p.Listing = listItems(site, site.Graph.FolderMembers(folder))
		p.Subfolders = subfolderLinks(site, folder)
		html, err := site.Renderer.Render(p)
		if err != nil {
			return nil, err
		}
		out = append(out, pipeline.Artifact{Path: slug.OutputPath(), Data: html})
	}
	return out, nil
}

func isTagFolder(folder string) bool {
	return folder == paths.TagsFolder || strings.HasPrefix(folder, paths.TagsFolder+"/")
}

// TagPage writes a page per tag, hierarchical prefixes included, and the
// tag index. Tags backed by a tags/<tag> document are left to ContentPage.
type TagPage struct{}

func (TagPage) Name() string { return TagPageName }

func (TagPage) EmitCollection(ctx context.Context, site *pipeline.Site) ([]pipeline.Artifact, error) {
	tags := site.Graph.Tags()
	var out []pipeline.Artifact
	seen := map[paths.FullSlug]bool{}
	for _, tag := range tags {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slug := paths.TagPageSlug(tag)
		if seen[slug] {
			continue
		}
		seen[slug] = true
		if _, ok := site.Graph.Document(slug); ok {
			continue
		}
		p := listPage(site, render.KindTag, slug, "Tag: "+tag)
		p.Listing = listItems(site, site.Graph.TagMembers(tag))
		html, err := site.Renderer.Render(p)
		if err != nil {
			return nil, err
		}
		out = append(out, pipeline.Artifact{Path: slug.OutputPath(), Data: html})
	}

	index := paths.FolderSlug(paths.TagsFolder)
	if _, ok := site.Graph.Document(index); ok || len(tags) == 0 {
		return out, nil
	}
	p := listPage(site, render.KindTagIndex, index, "Tag Index")
	p.Listing = tagIndexItems(site)
	html, err := site.Renderer.Render(p)
	if err != nil {
		return nil, err
	}
	return append(out, pipeline.Artifact{Path: index.OutputPath(), Data: html}), nil
}
