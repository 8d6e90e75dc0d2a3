package transformers

import (
	"context"
	"strings"
	"unicode/utf8"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/markdown"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/plugin"
)

const DescriptionName = "description"

// Description sets the description key from frontmatter or, failing that,
// from the leading sentences of the rendered text.
type Description struct {
	MaxLength int `yaml:"max_length"`
}

func NewDescription(opts plugin.Options) (pipeline.Plugin, error) {
	d := &Description{MaxLength: 150}
	if err := opts.Decode(d); err != nil {
		return nil, err
	}
	if d.MaxLength <= 0 {
		return nil, errors.ConfigError("max_length must be positive").WithContext("max_length", d.MaxLength).Build()
	}
	return d, nil
}

func (d *Description) Name() string { return DescriptionName }

func (d *Description) Transform(_ context.Context, bc *pipeline.BuildContext, doc *docmodel.Document) (*docmodel.Document, error) {
	if desc := doc.Meta.String(docmodel.KeyDescription); desc != "" {
		doc.Meta[docmodel.KeyDescription] = desc
		return doc, nil
	}
	html, err := bc.Markdown.Render(doc.Body, nil)
	if err != nil {
		return nil, errors.DocumentError("cannot render document").WithCause(err).WithPath(doc.Path).Build()
	}
	doc.Meta[docmodel.KeyDescription] = Summarize(markdown.PlainText(html), d.MaxLength)
	return doc, nil
}

// Summarize keeps whole sentences of text while the result stays within
// limit runes. A first sentence longer than limit is cut on a word boundary and
// ends with "...".
func Summarize(text string, limit int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	var out string
	for _, s := range strings.SplitAfter(text, ". ") {
		next := out + s
		if utf8.RuneCountInString(strings.TrimSpace(next)) > limit {
			break
		}
		out = next
	}
	if out = strings.TrimSpace(out); out != "" {
		return out
	}

	runes := []rune(text)[:limit]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:") + "..."
}
