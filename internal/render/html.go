package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/explorer"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/paths"
)

//go:embed templates/*.html
var templateFS embed.FS

// Components lists the component names a layout slot may hold.
func Components() []string {
	return []string{
		"article-title", "backlinks", "breadcrumbs", "content-meta", "explorer",
		"footer", "page-title", "recent-notes", "spacer", "table-of-contents", "tag-list",
	}
}

// HTMLRenderer renders pages with the embedded html/template layout.
type HTMLRenderer struct {
	tmpl   *template.Template
	site   siteInfo
	layout config.LayoutConfig
}

type siteInfo struct {
	Title       string
	TitleSuffix string
	BaseURL     string
	Locale      string
	FooterLinks map[string]string
}

type slots struct {
	Header     []string
	BeforeBody []string
	Left       []string
	Right      []string
	AfterBody  []string
	Footer     []string
}

// view is the data every template receives.
type view struct {
	Page  *Page
	Site  siteInfo
	Slots slots
}

type nodeView struct {
	Node *explorer.Node
	View *view
}

// New parses the layout and checks every configured slot names a known component.
func New(cfg *config.Config) (*HTMLRenderer, error) {
	if err := validateLayout(cfg.Layout); err != nil {
		return nil, err
	}
	r := &HTMLRenderer{
		site: siteInfo{
			Title:       cfg.PageTitle,
			TitleSuffix: cfg.PageTitleSuffix,
			BaseURL:     cfg.BaseURL,
			Locale:      cfg.Locale,
			FooterLinks: cfg.Layout.Shared.FooterLinks,
		},
		layout: cfg.Layout,
	}
	funcs := template.FuncMap{
		"component": r.component,
		"rel":       rel,
		"node":      func(v *view, n *explorer.Node) nodeView { return nodeView{Node: n, View: v} },
		"url":       nodeURL,
		"date":      func(t time.Time) string { return t.Format("Jan 2, 2006") },
		"iso":       func(t time.Time) string { return t.Format("2006-01-02") },
		"open":      func(v *view, n *explorer.Node) bool { return isAncestor(n, v.Page.Slug) },
	}
	tmpl, err := template.New("docgraph").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.NewError(errors.CategoryInternal, "failed to parse layout templates").WithCause(err).Build()
	}
	r.tmpl = tmpl
	return r, nil
}

func validateLayout(l config.LayoutConfig) error {
	known := Components()
	all := [][]string{
		l.Shared.Header, l.Shared.AfterBody, l.Shared.Footer,
		l.Content.BeforeBody, l.Content.Left, l.Content.Right,
		l.List.BeforeBody, l.List.Left, l.List.Right,
	}
	for _, slot := range all {
		for _, name := range slot {
			if !slices.Contains(known, name) {
				return errors.ConfigError("unknown layout component").
					WithContext("component", name).
					WithContext("known", known).
					Build()
			}
		}
	}
	return nil
}

// Render implements Renderer. It is safe for concurrent use.
func (r *HTMLRenderer) Render(p Page) ([]byte, error) {
	var pl config.PageLayout
	switch {
	case p.Kind.IsList():
		pl = r.layout.List
	case p.Kind == KindContent:
		pl = r.layout.Content
	}
	v := &view{
		Page: &p,
		Site: r.site,
		Slots: slots{
			Header:     r.layout.Shared.Header,
			BeforeBody: pl.BeforeBody,
			Left:       pl.Left,
			Right:      pl.Right,
			AfterBody:  r.layout.Shared.AfterBody,
			Footer:     r.layout.Shared.Footer,
		},
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page", v); err != nil {
		return nil, errors.BuildError("failed to render page").WithCause(err).
			WithContext("slug", string(p.Slug)).Build()
	}
	return buf.Bytes(), nil
}

func (r *HTMLRenderer) component(name string, v *view) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "component-"+name, v); err != nil {
		return "", fmt.Errorf("component %s: %w", name, err)
	}
	// #nosec G203 -- output of an html/template execution.
	return template.HTML(buf.String()), nil
}

// rel returns target as linked from the page being rendered. Pages with a
// Root link from that absolute prefix instead.
func rel(v *view, target string) string {
	if root := v.Page.Root; root != "" {
		return strings.TrimSuffix(root, "/") + "/" + strings.TrimPrefix(target, "/")
	}
	return paths.RelativeURL(v.Page.Slug, target)
}

// nodeURL is the simplified slug an explorer node links to.
func nodeURL(n *explorer.Node) string {
	return n.Slug.Simplify()
}

// isAncestor reports whether folder node n contains slug.
func isAncestor(n *explorer.Node, slug paths.FullSlug) bool {
	if !n.IsFolder {
		return false
	}
	prefix := n.FilePath + "/"
	s := string(slug)
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
