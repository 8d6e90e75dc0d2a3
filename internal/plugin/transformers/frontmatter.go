package transformers

import (
	"context"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/frontmatter"
	"git.home.luguber.info/inful/docgraph/internal/frontmatterops"
	"git.home.luguber.info/inful/docgraph/internal/paths"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/plugin"
)

const FrontmatterName = "frontmatter"

// Frontmatter moves the frontmatter block into Meta and normalizes the
// well known keys.
type Frontmatter struct {
	// Fingerprint computes the content fingerprint of every document.
	Fingerprint bool `yaml:"fingerprint"`
}

func NewFrontmatter(opts plugin.Options) (pipeline.Plugin, error) {
	f := &Frontmatter{Fingerprint: true}
	if err := opts.Decode(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Frontmatter) Name() string { return FrontmatterName }

func (f *Frontmatter) Transform(_ context.Context, _ *pipeline.BuildContext, d *docmodel.Document) (*docmodel.Document, error) {
	fields, body, format, err := frontmatter.Parse(d.Raw)
	if err != nil {
		return nil, errors.DocumentError("malformed frontmatter").WithCause(err).WithPath(d.Path).Build()
	}
	for k, v := range fields {
		d.Meta[k] = v
	}
	d.Body, d.Format = body, format

	if d.Meta.String(docmodel.KeyTitle) == "" {
		d.Meta[docmodel.KeyTitle] = d.Title()
	}
	d.Meta[docmodel.KeyTags] = normalizeTags(coalesce(d.Meta, docmodel.KeyTags, "tag"))
	if aliases := coalesce(d.Meta, docmodel.KeyAliases, "alias"); len(aliases) > 0 {
		d.Meta[docmodel.KeyAliases] = aliases
	}
	if classes := coalesce(d.Meta, docmodel.KeyCSSClasses, "cssclass"); len(classes) > 0 {
		d.Meta[docmodel.KeyCSSClasses] = classes
	}
	if s := d.Meta.String(docmodel.KeySlug); s != "" {
		d.Slug = paths.Normalize(s)
	}

	if f.Fingerprint {
		fp, err := frontmatterops.ComputeFingerprint(fields, body)
		if err != nil {
			return nil, errors.DocumentError("cannot fingerprint document").WithCause(err).WithPath(d.Path).Build()
		}
		d.Fingerprint = fp
	}
	return d, nil
}

// coalesce returns the list under the first key that holds one.
func coalesce(m docmodel.Metadata, keys ...string) []string {
	for _, k := range keys {
		if v := m.Strings(k); len(v) > 0 {
			return v
		}
	}
	return nil
}

// normalizeTags strips leading '#' and surrounding slashes and drops duplicates.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.Trim(strings.TrimPrefix(strings.TrimSpace(t), "#"), "/")
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
