package transformers

import (
	"context"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/plugin"
)

const LatexName = "latex"

var (
	displayMathRe = regexp.MustCompile(`\$\$[^$]+\$\$`)
	inlineMathRe  = regexp.MustCompile(`(^|[^\\$])\$[^\s$]([^$]*[^\s\\$])?\$`)
)

// Latex sets has_math on documents with $inline$ or $$display$$ math
// outside code, so the layout loads the math renderer.
type Latex struct{}

func NewLatex(opts plugin.Options) (pipeline.Plugin, error) {
	var o struct {
		RenderEngine string `yaml:"render_engine"`
	}
	if err := opts.Decode(&o); err != nil {
		return nil, err
	}
	if o.RenderEngine != "" && o.RenderEngine != "katex" {
		return nil, errors.ConfigError("unsupported math render engine").
			WithContext("render_engine", o.RenderEngine).Build()
	}
	return Latex{}, nil
}

func (Latex) Name() string { return LatexName }

func (Latex) Transform(_ context.Context, bc *pipeline.BuildContext, d *docmodel.Document) (*docmodel.Document, error) {
	lines := strings.Split(string(d.Body), "\n")
	prose := bc.Markdown.ProseLines(d.Body)
	var text strings.Builder
	for i, line := range lines {
		if !prose[i] {
			continue
		}
		text.WriteString(stripInlineCode(line))
		text.WriteByte('\n')
	}
	s := text.String()
	if displayMathRe.MatchString(s) || inlineMathRe.MatchString(s) {
		d.Meta[docmodel.KeyHasMath] = true
	} else {
		delete(d.Meta, docmodel.KeyHasMath)
	}
	return d, nil
}

// stripInlineCode drops `code` spans from a line.
func stripInlineCode(line string) string {
	var b strings.Builder
	in := false
	for _, r := range line {
		if r == '`' {
			in = !in
			continue
		}
		if !in {
			b.WriteRune(r)
		}
	}
	return b.String()
}
