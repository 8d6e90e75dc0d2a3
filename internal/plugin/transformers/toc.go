package transformers

import (
	"context"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/plugin"
)

const TOCName = "table-of-contents"

// TOC fills Document.TOC from the body's headings. Depth is relative to the
// shallowest heading kept.
type TOC struct {
	MaxDepth      int  `yaml:"max_depth"`
	MinEntries    int  `yaml:"min_entries"`
	ShowByDefault bool `yaml:"show_by_default"`
}

func NewTOC(opts plugin.Options) (pipeline.Plugin, error) {
	t := &TOC{MaxDepth: 3, MinEntries: 1, ShowByDefault: true}
	if err := opts.Decode(t); err != nil {
		return nil, err
	}
	if t.MaxDepth < 1 || t.MaxDepth > 6 {
		return nil, errors.ConfigError("max_depth must be between 1 and 6").WithContext("max_depth", t.MaxDepth).Build()
	}
	return t, nil
}

func (t *TOC) Name() string { return TOCName }

func (t *TOC) Transform(_ context.Context, bc *pipeline.BuildContext, d *docmodel.Document) (*docmodel.Document, error) {
	d.TOC = nil
	enabled, set := d.Meta.Bool(docmodel.KeyEnableToc)
	if (set && !enabled) || (!set && !t.ShowByDefault) {
		return d, nil
	}

	var entries []docmodel.TOCEntry
	top := 7
	for _, h := range bc.Markdown.Headings(d.Body) {
		if h.Level > t.MaxDepth {
			continue
		}
		top = min(top, h.Level)
		entries = append(entries, docmodel.TOCEntry{Depth: h.Level, Text: h.Text, ID: h.ID})
	}
	if len(entries) == 0 || len(entries) < t.MinEntries {
		return d, nil
	}
	for i := range entries {
		entries[i].Depth -= top
	}
	d.TOC = entries
	return d, nil
}
