package transformers

import (
	"bytes"
	"context"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/plugin"
)

const SyntaxHighlightingName = "syntax-highlighting"

// chroma names the GitHub light theme without a suffix.
var styleAliases = map[string]string{"github-light": "github"}

// SyntaxHighlighting highlights fenced code at build time. Code is marked up
// with CSS classes; the light and dark theme rules go into the site
// stylesheet, the dark ones behind prefers-color-scheme.
type SyntaxHighlighting struct {
	Theme       HighlightTheme `yaml:"theme"`
	LineNumbers bool           `yaml:"line_numbers"`
}

// HighlightTheme names the chroma styles used per color scheme.
type HighlightTheme struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

func NewSyntaxHighlighting(opts plugin.Options) (pipeline.Plugin, error) {
	h := &SyntaxHighlighting{Theme: HighlightTheme{Light: "github-light", Dark: "github-dark"}}
	if err := opts.Decode(h); err != nil {
		return nil, err
	}
	known := validation.By(func(v any) error {
		if _, ok := styles.Registry[styleName(v.(string))]; !ok {
			return validation.NewError("validation_unknown_style", "unknown highlighting style")
		}
		return nil
	})
	err := validation.ValidateStruct(&h.Theme,
		validation.Field(&h.Theme.Light, validation.Required, known),
		validation.Field(&h.Theme.Dark, validation.Required, known),
	)
	if err != nil {
		return nil, errors.ConfigError("invalid syntax highlighting theme").WithCause(err).
			WithContext("light", h.Theme.Light).
			WithContext("dark", h.Theme.Dark).
			Build()
	}
	return h, nil
}

func styleName(name string) string {
	if alias, ok := styleAliases[name]; ok {
		return alias
	}
	return name
}

func (h *SyntaxHighlighting) Name() string { return SyntaxHighlightingName }

func (h *SyntaxHighlighting) formatOptions() []chromahtml.Option {
	return []chromahtml.Option{chromahtml.WithClasses(true), chromahtml.WithLineNumbers(h.LineNumbers)}
}

func (h *SyntaxHighlighting) MarkdownExtensions() []goldmark.Extender {
	return []goldmark.Extender{highlighting.NewHighlighting(
		highlighting.WithStyle(styleName(h.Theme.Light)),
		highlighting.WithFormatOptions(h.formatOptions()...),
	)}
}

// Prepare adds the theme rules to the site stylesheet.
func (h *SyntaxHighlighting) Prepare(_ context.Context, bc *pipeline.BuildContext) error {
	css, err := h.Stylesheet()
	if err != nil {
		return err
	}
	bc.Stylesheets = append(bc.Stylesheets, css)
	return nil
}

// Stylesheet returns the CSS for the light theme followed by the dark theme
// scoped to dark color schemes.
func (h *SyntaxHighlighting) Stylesheet() ([]byte, error) {
	f := chromahtml.New(h.formatOptions()...)
	var buf bytes.Buffer
	if err := f.WriteCSS(&buf, styles.Get(styleName(h.Theme.Light))); err != nil {
		return nil, errors.BuildError("failed to write highlighting stylesheet").WithCause(err).Build()
	}
	buf.WriteString("@media (prefers-color-scheme: dark) {\n")
	if err := f.WriteCSS(&buf, styles.Get(styleName(h.Theme.Dark))); err != nil {
		return nil, errors.BuildError("failed to write highlighting stylesheet").WithCause(err).Build()
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func (h *SyntaxHighlighting) Transform(_ context.Context, _ *pipeline.BuildContext, d *docmodel.Document) (*docmodel.Document, error) {
	return d, nil
}
