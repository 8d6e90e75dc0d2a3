// Package render lays out HTML pages from a component slot configuration.
package render

import (
	"html/template"
	"time"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/explorer"
	"git.home.luguber.info/inful/docgraph/internal/paths"
)

// Kind is the page type; it selects the content or list layout.
type Kind string

const (
	KindContent  Kind = "content"
	KindFolder   Kind = "folder"
	KindTag      Kind = "tag"
	KindTagIndex Kind = "tag-index"
	KindNotFound Kind = "not-found"
)

// IsList reports whether the kind uses the list layout.
func (k Kind) IsList() bool {
	return k == KindFolder || k == KindTag || k == KindTagIndex
}

// ListItem is one entry of a listing, backlinks or recent notes. URL is a
// simplified slug, made relative at render time.
type ListItem struct {
	Title       string
	URL         string
	Date        time.Time
	Description string
	Tags        []Link
}

// Link is a titled URL, URL being a simplified slug.
type Link struct {
	Title string
	URL   string
}

// Page is everything a layout may show for one output page.
type Page struct {
	Kind Kind
	Slug paths.FullSlug
	// Root is an absolute URL path used instead of relative links, for pages
	// served from arbitrary URLs such as 404.html.
	Root        string
	Title       string
	Description string
	// Content is the rendered markdown body, already link rewritten.
	Content template.HTML
	Doc     *docmodel.Document
	Date    time.Time
	// ReadingMinutes is zero for pages without prose.
	ReadingMinutes int

	Tags        []Link
	TOC         []docmodel.TOCEntry
	Backlinks   []ListItem
	Breadcrumbs []Link
	Listing     []ListItem
	// Subfolders lists child folders on folder pages.
	Subfolders []Link
	Recent     []ListItem
	Explorer   *explorer.Node

	HasMath    bool
	CSSClasses []string
}

// Renderer turns a Page into a complete HTML document.
type Renderer interface {
	Render(p Page) ([]byte, error)
}
