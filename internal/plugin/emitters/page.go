package emitters

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/markdown"
	"git.home.luguber.info/inful/docgraph/internal/paths"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/render"
)

const (
	wordsPerMinute = 200
	recentLimit    = 5
	homeTitle      = "Home"
)

// renderBody renders the document's markdown with internal links rewritten
// relative to the document.
func renderBody(site *pipeline.Site, d *docmodel.Document) ([]byte, error) {
	resolver := markdown.LinkResolverFunc(func(dest string) (string, bool) {
		return site.Graph.Href(d.Slug, dest)
	})
	html, err := site.Markdown.Render(d.Body, resolver)
	if err != nil {
		return nil, errors.DocumentError("cannot render document").WithCause(err).WithPath(d.Path).Build()
	}
	return html, nil
}

// documentPage assembles the page of a published document. Folder index and
// tag documents become list pages carrying their members.
func documentPage(site *pipeline.Site, d *docmodel.Document) (render.Page, error) {
	body, err := renderBody(site, d)
	if err != nil {
		return render.Page{}, err
	}
	p := render.Page{
		Kind:           render.KindContent,
		Slug:           d.Slug,
		Title:          d.Title(),
		Description:    d.Meta.String(docmodel.KeyDescription),
		Content:        template.HTML(body), // #nosec G203 -- goldmark output
		Doc:            d,
		Date:           d.Dates.Effective(site.Graph.DateType()),
		ReadingMinutes: readingMinutes(markdown.PlainText(body)),
		Tags:           tagLinks(d.Tags()),
		TOC:            d.TOC,
		Backlinks:      listItems(site, site.Graph.Backlinks(d.Slug)),
		Breadcrumbs:    breadcrumbs(site, d.Slug),
		Recent:         recent(site, d.Slug),
		Explorer:       site.Explorer,
		CSSClasses:     d.Meta.Strings(docmodel.KeyCSSClasses),
	}
	p.HasMath, _ = d.Meta.Bool(docmodel.KeyHasMath)

	switch {
	case d.Slug == paths.FolderSlug(paths.TagsFolder):
		p.Kind = render.KindTagIndex
		p.Listing = tagIndexItems(site)
	case isTagFolder(d.Slug.Folder()):
		if tag, ok := site.Graph.TagForSlug(strings.TrimPrefix(string(d.Slug), paths.TagsFolder+"/")); ok {
			p.Kind = render.KindTag
			p.Listing = listItems(site, site.Graph.TagMembers(tag))
		}
	case d.Slug.IsFolderIndex():
		folder := d.Slug.Folder()
		p.Kind = render.KindFolder
		p.Listing = listItems(site, site.Graph.FolderMembers(folder))
		p.Subfolders = subfolderLinks(site, folder)
	}
	return p, nil
}

// listPage is a generated page with no backing document.
func listPage(site *pipeline.Site, kind render.Kind, slug paths.FullSlug, title string) render.Page {
	return render.Page{
		Kind:        kind,
		Slug:        slug,
		Title:       title,
		Breadcrumbs: breadcrumbs(site, slug),
		Explorer:    site.Explorer,
	}
}

func readingMinutes(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

func tagLinks(tags []string) []render.Link {
	out := make([]render.Link, 0, len(tags))
	for _, t := range tags {
		out = append(out, render.Link{Title: t, URL: string(paths.TagPageSlug(t))})
	}
	return out
}

func listItem(site *pipeline.Site, slug paths.FullSlug) (render.ListItem, bool) {
	d, ok := site.Graph.Document(slug)
	if !ok {
		return render.ListItem{}, false
	}
	return render.ListItem{
		Title:       d.Title(),
		URL:         slug.Simplify(),
		Date:        d.Dates.Effective(site.Graph.DateType()),
		Description: d.Meta.String(docmodel.KeyDescription),
		Tags:        tagLinks(d.Tags()),
	}, true
}

func listItems(site *pipeline.Site, slugs []paths.FullSlug) []render.ListItem {
	out := make([]render.ListItem, 0, len(slugs))
	for _, s := range slugs {
		if item, ok := listItem(site, s); ok {
			out = append(out, item)
		}
	}
	return out
}

func subfolderLinks(site *pipeline.Site, folder string) []render.Link {
	subs := site.Graph.Subfolders(folder)
	out := make([]render.Link, 0, len(subs))
	for _, sub := range subs {
		title := paths.FullSlug(sub).FileName()
		if idx, ok := site.Graph.FolderIndex(sub); ok {
			title = idx.Title()
		}
		out = append(out, render.Link{Title: title, URL: paths.FolderSlug(sub).Simplify()})
	}
	return out
}

// breadcrumbs links the folders above slug, the root first. A folder's own
// page does not link to itself.
func breadcrumbs(site *pipeline.Site, slug paths.FullSlug) []render.Link {
	if slug == paths.Index || site.Explorer == nil {
		return nil
	}
	trail := site.Explorer.Trail(slug)
	if slug.IsFolderIndex() {
		trail = trail[:len(trail)-1]
	}
	out := make([]render.Link, 0, len(trail))
	for i, n := range trail {
		title := n.DisplayName
		if i == 0 {
			title = homeTitle
		}
		out = append(out, render.Link{Title: title, URL: n.Slug.Simplify()})
	}
	return out
}

// recent lists the newest documents other than exclude.
func recent(site *pipeline.Site, exclude paths.FullSlug) []render.ListItem {
	var out []render.ListItem
	for _, s := range site.Graph.Chronological() {
		if len(out) == recentLimit {
			break
		}
		if s == exclude {
			continue
		}
		if item, ok := listItem(site, s); ok {
			out = append(out, item)
		}
	}
	return out
}

// tagIndexItems lists every tag with its member count.
func tagIndexItems(site *pipeline.Site) []render.ListItem {
	tags := site.Graph.Tags()
	out := make([]render.ListItem, 0, len(tags))
	for _, t := range tags {
		desc := fmt.Sprintf("%d items with this tag.", len(site.Graph.TagMembers(t)))
		if len(site.Graph.TagMembers(t)) == 1 {
			desc = "1 item with this tag."
		}
		out = append(out, render.ListItem{Title: t, URL: string(paths.TagPageSlug(t)), Description: desc})
	}
	return out
}
