package transformers

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/git"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/plugin"
)

const DatesName = "created-modified-date"

// Date sources accepted in the priority list.
const (
	SourceFrontmatter = "frontmatter"
	SourceGit         = "git"
	SourceFilesystem  = "filesystem"
)

// Frontmatter keys read per date type, first valid value wins.
var (
	createdKeys   = []string{"created", "date"}
	modifiedKeys  = []string{"modified", "lastmod", "updated", "last-modified"}
	publishedKeys = []string{"published", "publishDate", "date"}
)

// Dates fills Document.Dates. For each date field the first source in
// Priority that provides a value wins.
type Dates struct {
	Priority []string `yaml:"priority"`

	history *git.History
}

func NewDates(opts plugin.Options) (pipeline.Plugin, error) {
	d := &Dates{Priority: []string{SourceFrontmatter, SourceGit, SourceFilesystem}}
	if err := opts.Decode(d); err != nil {
		return nil, err
	}
	err := validation.Validate(d.Priority,
		validation.Required,
		validation.Each(validation.In(SourceFrontmatter, SourceGit, SourceFilesystem)),
	)
	if err != nil {
		return nil, errors.ConfigError("invalid date priority").WithCause(err).
			WithContext("priority", d.Priority).Build()
	}
	return d, nil
}

func (d *Dates) Name() string { return DatesName }

// Prepare loads the git history of the content root when git is a source.
// A content root outside a repository only disables the git source.
func (d *Dates) Prepare(ctx context.Context, bc *pipeline.BuildContext) error {
	d.history = nil
	if !d.uses(SourceGit) {
		return nil
	}
	h, err := git.LoadHistory(ctx, bc.ContentDir)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		bc.Logger.Warn("Git dates unavailable", logfields.Path(bc.ContentDir), logfields.Error(err))
		return nil
	}
	d.history = h
	return nil
}

func (d *Dates) uses(source string) bool {
	for _, s := range d.Priority {
		if s == source {
			return true
		}
	}
	return false
}

func (d *Dates) Transform(_ context.Context, _ *pipeline.BuildContext, doc *docmodel.Document) (*docmodel.Document, error) {
	dates := &doc.Dates
	for _, source := range d.Priority {
		switch source {
		case SourceFrontmatter:
			fillFrom(&dates.Created, doc.Meta, createdKeys)
			fillFrom(&dates.Modified, doc.Meta, modifiedKeys)
			fillFrom(&dates.Published, doc.Meta, publishedKeys)
		case SourceGit:
			if created, modified, ok := d.history.Dates(doc.AbsPath); ok {
				fill(&dates.Created, created)
				fill(&dates.Modified, modified)
			}
		case SourceFilesystem:
			fill(&dates.Created, doc.ModTime)
			fill(&dates.Modified, doc.ModTime)
		}
	}
	return doc, nil
}

func fillFrom(dst *time.Time, m docmodel.Metadata, keys []string) {
	if t, ok := m.FirstTime(keys...); ok {
		fill(dst, t)
	}
}

func fill(dst *time.Time, v time.Time) {
	if dst.IsZero() && !v.IsZero() {
		*dst = v.UTC()
	}
}
