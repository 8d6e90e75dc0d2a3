package transformers

import (
	"context"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/graph"
	"git.home.luguber.info/inful/docgraph/internal/markdown"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/plugin"
)

const CrawlLinksName = "crawl-links"

// CrawlLinks records the outbound links of every document and sets the link
// resolution policy the graph resolves them with.
type CrawlLinks struct {
	Resolution string `yaml:"markdown_link_resolution"`

	policy graph.Policy
}

func NewCrawlLinks(opts plugin.Options) (pipeline.Plugin, error) {
	c := &CrawlLinks{Resolution: string(graph.PolicyShortest)}
	if err := opts.Decode(c); err != nil {
		return nil, err
	}
	p, err := graph.ParsePolicy(c.Resolution)
	if err != nil {
		return nil, err
	}
	c.policy = p
	return c, nil
}

func (c *CrawlLinks) Name() string { return CrawlLinksName }

func (c *CrawlLinks) LinkPolicy() graph.Policy { return c.policy }

func (c *CrawlLinks) Transform(_ context.Context, bc *pipeline.BuildContext, d *docmodel.Document) (*docmodel.Document, error) {
	d.Links = nil
	for _, l := range bc.Markdown.ExtractLinks(d.Body) {
		// Reference definitions reappear as the links that use them.
		if l.Kind == markdown.LinkKindReferenceDefinition {
			continue
		}
		target, anchor := markdown.SplitAnchor(l.Destination)
		if target == "" && !markdown.IsExternal(l.Destination) {
			continue
		}
		d.AddLink(docmodel.Link{
			Target:   target,
			Anchor:   anchor,
			Text:     l.Text,
			External: markdown.IsExternal(l.Destination),
			Embed:    l.Kind == markdown.LinkKindImage,
		})
	}
	return d, nil
}
