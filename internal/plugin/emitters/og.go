package emitters

import (
	"bytes"
	"context"
	"encoding/xml"
	"path"
	"strings"
	"text/template"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/plugin"
)

const OGImagesName = "og-images"

// OGImagePrefix is the output folder of the social preview images.
const OGImagePrefix = "static/og"

const (
	titleLineWidth = 32
	titleMaxLines  = 3
	descLineWidth  = 60
	descMaxLines   = 4
)

var ogTmpl = template.Must(template.New("og.svg.tmpl").Funcs(template.FuncMap{
	"xml": func(s string) string {
		var b strings.Builder
		_ = xml.EscapeText(&b, []byte(s))
		return b.String()
	},
	"add": func(a, b int) int { return a + b },
	"mul": func(a, b int) int { return a * b },
}).ParseFS(templateFS, "templates/og.svg.tmpl"))

// OGImages writes a social preview image per document, an SVG card with the
// title and description in the theme colors.
type OGImages struct {
	ColorScheme string `yaml:"color_scheme"`
}

func NewOGImages(opts plugin.Options) (pipeline.Plugin, error) {
	o := &OGImages{ColorScheme: "light"}
	if err := opts.Decode(o); err != nil {
		return nil, err
	}
	if err := validation.Validate(o.ColorScheme, validation.In("light", "dark")); err != nil {
		return nil, errors.ConfigError("invalid og-images color_scheme").WithCause(err).
			WithContext("color_scheme", o.ColorScheme).Build()
	}
	return o, nil
}

func (o *OGImages) Name() string { return OGImagesName }

type ogCard struct {
	Site        string
	Title       []string
	Description []string
	Colors      config.Colors
	Typography  config.Typography
}

func (o *OGImages) EmitDocument(_ context.Context, site *pipeline.Site, d *docmodel.Document) ([]pipeline.Artifact, error) {
	theme := site.Config.Theme
	card := ogCard{
		Site:        site.Config.PageTitle,
		Title:       wrap(d.Title(), titleLineWidth, titleMaxLines),
		Description: wrap(d.Meta.String(docmodel.KeyDescription), descLineWidth, descMaxLines),
		Colors:      theme.LightMode,
		Typography:  theme.Typography,
	}
	if o.ColorScheme == "dark" {
		card.Colors = theme.DarkMode
	}
	if card.Typography.Header == "" {
		card.Typography.Header = card.Typography.Body
	}
	var buf bytes.Buffer
	if err := ogTmpl.Execute(&buf, card); err != nil {
		return nil, errors.BuildError("failed to render preview image").WithCause(err).WithPath(d.Path).Build()
	}
	return []pipeline.Artifact{{Path: path.Join(OGImagePrefix, string(d.Slug)+".svg"), Data: buf.Bytes()}}, nil
}

// wrap breaks text into at most maxLines lines of about width runes on word
// boundaries. Text beyond the last line is replaced by "...".
func wrap(text string, width, maxLines int) []string {
	var lines []string
	var cur []rune
	for _, w := range strings.Fields(text) {
		word := []rune(w)
		if len(cur) > 0 && len(cur)+1+len(word) > width {
			if len(lines) == maxLines-1 {
				return append(lines, string(cur)+"...")
			}
			lines = append(lines, string(cur))
			cur = nil
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, word...)
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
