package transformers

import (
	"context"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/plugin"
)

const GFMName = "github-flavored-markdown"

// GFM contributes the GitHub flavored markdown extensions to the shared
// engine. It leaves documents untouched.
type GFM struct {
	SmartyPants bool `yaml:"smartypants"`
	Footnotes   bool `yaml:"footnotes"`
}

func NewGFM(opts plugin.Options) (pipeline.Plugin, error) {
	g := &GFM{SmartyPants: true, Footnotes: true}
	if err := opts.Decode(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *GFM) Name() string { return GFMName }

func (g *GFM) MarkdownExtensions() []goldmark.Extender {
	exts := []goldmark.Extender{extension.GFM}
	if g.Footnotes {
		exts = append(exts, extension.Footnote)
	}
	if g.SmartyPants {
		exts = append(exts, extension.Typographer)
	}
	return exts
}

func (g *GFM) Transform(_ context.Context, _ *pipeline.BuildContext, d *docmodel.Document) (*docmodel.Document, error) {
	return d, nil
}
