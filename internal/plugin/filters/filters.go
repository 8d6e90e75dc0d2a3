// Package filters holds the built-in publish filters.
package filters

import (
	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/plugin"
)

const (
	RemoveDraftsName    = "remove-drafts"
	ExplicitPublishName = "explicit-publish"
)

// RemoveDrafts drops documents whose frontmatter sets draft to true.
type RemoveDrafts struct{}

func (RemoveDrafts) Name() string { return RemoveDraftsName }

func (RemoveDrafts) Include(_ *pipeline.BuildContext, d *docmodel.Document) bool {
	draft, _ := d.Meta.Bool(docmodel.KeyDraft)
	return !draft
}

// ExplicitPublish keeps only documents that set publish to true.
type ExplicitPublish struct{}

func (ExplicitPublish) Name() string { return ExplicitPublishName }

func (ExplicitPublish) Include(_ *pipeline.BuildContext, d *docmodel.Document) bool {
	publish, _ := d.Meta.Bool(docmodel.KeyPublish)
	return publish
}

// Register adds the built-in filters to reg. Neither takes options.
func Register(reg *plugin.Registry) {
	reg.MustRegister(plugin.Metadata{
		Name: RemoveDraftsName, Kind: plugin.KindFilter,
		Description: "drop documents marked draft",
	}, plugin.NoOptions(RemoveDrafts{}))
	reg.MustRegister(plugin.Metadata{
		Name: ExplicitPublishName, Kind: plugin.KindFilter,
		Description: "publish only documents marked publish",
	}, plugin.NoOptions(ExplicitPublish{}))
}
