package pipeline

import (
	"log/slog"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/docs"
	"git.home.luguber.info/inful/docgraph/internal/explorer"
	"git.home.luguber.info/inful/docgraph/internal/graph"
	"git.home.luguber.info/inful/docgraph/internal/markdown"
	"git.home.luguber.info/inful/docgraph/internal/render"
)

// BuildContext carries the site wide settings of one build. It is read only
// once the Transform stage starts.
type BuildContext struct {
	BuildID    string
	Config     *config.Config
	ContentDir string
	Logger     *slog.Logger
	Markdown   *markdown.Engine
	DateType   docmodel.DateType
	// Stylesheets are appended to the site stylesheet. Plugins add to it in
	// Prepare.
	Stylesheets [][]byte
}

// Site is the frozen input of the Emit stage.
type Site struct {
	*BuildContext

	// Documents are the filtered documents in slug order.
	Documents []*docmodel.Document
	Graph     *graph.Graph
	Explorer  *explorer.Node
	Assets    []docs.File
	Renderer  render.Renderer
}
