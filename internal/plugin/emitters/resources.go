package emitters

import (
	"bytes"
	"context"
	"embed"
	"strings"
	"text/template"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
)

const ComponentResourcesName = "component-resources"

//go:embed templates/*.tmpl
var templateFS embed.FS

var cssTmpl = template.Must(template.New("index.css.tmpl").Funcs(template.FuncMap{
	"font": func(name string) string { return strings.ReplaceAll(name, " ", "+") },
}).ParseFS(templateFS, "templates/index.css.tmpl"))

// ComponentResources writes the site stylesheet generated from the theme.
type ComponentResources struct{}

func (ComponentResources) Name() string { return ComponentResourcesName }

func (ComponentResources) EmitCollection(_ context.Context, site *pipeline.Site) ([]pipeline.Artifact, error) {
	css, err := Stylesheet(site.Config.Theme)
	if err != nil {
		return nil, err
	}
	for _, extra := range site.Stylesheets {
		css = append(append(css, '\n'), extra...)
	}
	return []pipeline.Artifact{{Path: "index.css", Data: css}}, nil
}

// Stylesheet renders index.css for a theme. An empty header font falls back
// to the body font.
func Stylesheet(theme config.ThemeConfig) ([]byte, error) {
	if theme.Typography.Header == "" {
		theme.Typography.Header = theme.Typography.Body
	}
	var buf bytes.Buffer
	if err := cssTmpl.Execute(&buf, theme); err != nil {
		return nil, errors.BuildError("failed to render stylesheet").WithCause(err).Build()
	}
	return buf.Bytes(), nil
}
