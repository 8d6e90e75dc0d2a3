package pipeline

import (
	"context"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
)

// stageFilter keeps a document iff every filter includes it, short circuiting
// on the first exclusion.
func (p *Pipeline) stageFilter(_ context.Context, bs *buildState) error {
	kept := make([]*docmodel.Document, 0, len(bs.docs))
	for _, d := range bs.docs {
		if by := p.excludedBy(bs.bc, d); by != "" {
			bs.report.Filtered++
			bs.report.Excluded[d.Path] = by
			bs.bc.Logger.Debug("Document filtered", logfields.Path(d.Path), logfields.Plugin(by))
			continue
		}
		kept = append(kept, d)
	}
	bs.docs = kept
	bs.report.Published = len(kept)
	return nil
}

func (p *Pipeline) excludedBy(bc *BuildContext, d *docmodel.Document) string {
	for _, f := range p.filters {
		if !f.Include(bc, d) {
			return f.Name()
		}
	}
	return ""
}
