package emitters

import (
	"bytes"
	"context"
	"html/template"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/paths"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
)

const AliasRedirectsName = "alias-redirects"

var redirectTmpl = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html lang="en-us">
<head>
<title>{{.Title}}</title>
<link rel="canonical" href="{{.URL}}">
<meta name="robots" content="noindex">
<meta charset="utf-8">
<meta http-equiv="refresh" content="0; url={{.URL}}">
</head>
</html>
`))

// AliasRedirects writes a redirect page at every alias slug of a document.
// Aliases shadowed by a real document or claimed by an earlier document
// are skipped.
type AliasRedirects struct{}

func (AliasRedirects) Name() string { return AliasRedirectsName }

func (AliasRedirects) EmitDocument(_ context.Context, site *pipeline.Site, d *docmodel.Document) ([]pipeline.Artifact, error) {
	var out []pipeline.Artifact
	seen := map[paths.FullSlug]bool{}
	for _, a := range d.Aliases() {
		alias := paths.Normalize(a)
		if seen[alias] {
			continue
		}
		seen[alias] = true
		if target, ok := site.Graph.AliasTarget(alias); !ok || target != d.Slug {
			continue
		}
		var buf bytes.Buffer
		err := redirectTmpl.Execute(&buf, struct{ Title, URL string }{
			Title: d.Title(),
			URL:   paths.RelativeURL(alias, d.Slug.Simplify()),
		})
		if err != nil {
			return nil, errors.BuildError("failed to render redirect").WithCause(err).
				WithContext("alias", string(alias)).Build()
		}
		out = append(out, pipeline.Artifact{Path: alias.OutputPath(), Data: buf.Bytes()})
	}
	return out, nil
}
