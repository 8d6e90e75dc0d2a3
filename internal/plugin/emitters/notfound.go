package emitters

import (
	"context"
	"strings"

	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/render"
)

const NotFoundName = "not-found"

const notFoundText = "Either this page is private or doesn't exist."

// NotFound writes 404.html. Its links are absolute because the server may
// return it for any URL.
type NotFound struct{}

func (NotFound) Name() string { return NotFoundName }

func (NotFound) EmitCollection(_ context.Context, site *pipeline.Site) ([]pipeline.Artifact, error) {
	html, err := site.Renderer.Render(render.Page{
		Kind:        render.KindNotFound,
		Slug:        "404",
		Root:        basePath(site.Config.BaseURL),
		Title:       "404",
		Description: notFoundText,
		Content:     "<h1>404</h1>\n<p>" + notFoundText + "</p>\n",
	})
	if err != nil {
		return nil, err
	}
	return []pipeline.Artifact{{Path: "404.html", Data: html}}, nil
}

// basePath is the URL path of the site root: "example.com/docs" -> "/docs/".
func basePath(baseURL string) string {
	_, p, found := strings.Cut(strings.Trim(baseURL, "/"), "/")
	if !found || p == "" {
		return "/"
	}
	return "/" + p + "/"
}
