package pipeline

import (
	"context"

	"git.home.luguber.info/inful/docgraph/internal/explorer"
	"git.home.luguber.info/inful/docgraph/internal/graph"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
	"git.home.luguber.info/inful/docgraph/internal/paths"
)

// stageGraph is the barrier between the per document stages and Emit: it
// builds the content graph and explorer tree over the frozen set.
func (p *Pipeline) stageGraph(_ context.Context, bs *buildState) error {
	cfg := p.cfg
	folderCmp, err := explorer.NewComparator(cfg.Explorer.Comparator, cfg.Locale, bs.bc.DateType)
	if err != nil {
		return err
	}
	opts := graph.Options{
		Policy:      p.linkPolicy(),
		DateType:    bs.bc.DateType,
		FolderOrder: explorer.DocumentOrder(folderCmp),
	}
	if cfg.Tags.Order != "" && cfg.Tags.Order != "insertion" {
		tagCmp, err := explorer.NewComparator(cfg.Tags.Order, cfg.Locale, bs.bc.DateType)
		if err != nil {
			return err
		}
		opts.TagOrder = explorer.DocumentOrder(tagCmp)
	}
	for _, a := range bs.assets {
		opts.Assets = append(opts.Assets, paths.SlugifyFilePath(a.RelPath))
	}

	g := graph.Build(bs.docs, opts)
	tree := explorer.Build(bs.docs, folderCmp)

	broken := g.Broken()
	bs.report.BrokenLinks = broken
	for _, b := range broken {
		bs.bc.Logger.Debug("Broken link", logfields.Path(b.Path), logfields.Target(b.Target), "reason", string(b.Reason))
	}
	if len(broken) > 0 {
		bs.bc.Logger.Warn("Unresolved links", logfields.Count(len(broken)))
	}

	bs.site = &Site{
		BuildContext: bs.bc,
		Documents:    bs.docs,
		Graph:        g,
		Explorer:     tree,
		Assets:       bs.assets,
		Renderer:     p.renderer,
	}
	return nil
}

// linkPolicy returns the policy of the last transformer that sets one.
func (p *Pipeline) linkPolicy() graph.Policy {
	policy := graph.PolicyShortest
	for _, t := range p.transformers {
		if lp, ok := t.(LinkPolicyProvider); ok {
			policy = lp.LinkPolicy()
		}
	}
	return policy
}
