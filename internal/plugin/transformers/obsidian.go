package transformers

import (
	"context"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/markdown"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/plugin"
)

const ObsidianName = "obsidian-flavored-markdown"

var highlightRe = regexp.MustCompile(`==([^=\n]+)==`)

const commentDelim = "%%"

// Obsidian adds wikilinks, embeds and inline #tags to the shared engine, so
// they are parsed wherever the markdown parser finds prose. Comments and
// ==highlights== are rewritten in the body outside code.
type Obsidian struct {
	Wikilinks bool `yaml:"wikilinks"`
	Highlight bool `yaml:"highlight"`
	Comments  bool `yaml:"comments"`
	ParseTags bool `yaml:"parse_tags"`
}

func NewObsidian(opts plugin.Options) (pipeline.Plugin, error) {
	o := &Obsidian{Wikilinks: true, Highlight: true, Comments: true, ParseTags: true}
	if err := opts.Decode(o); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Obsidian) Name() string { return ObsidianName }

func (o *Obsidian) MarkdownExtensions() []goldmark.Extender {
	var exts []goldmark.Extender
	if o.Wikilinks {
		exts = append(exts, markdown.Wikilinks())
	}
	if o.ParseTags {
		exts = append(exts, markdown.Hashtags())
	}
	return exts
}

func (o *Obsidian) Transform(_ context.Context, bc *pipeline.BuildContext, d *docmodel.Document) (*docmodel.Document, error) {
	if o.Comments || o.Highlight {
		d.Body = o.rewriteProse(bc.Markdown, d.Body)
	}
	if o.ParseTags {
		tags := d.Tags()
		for _, t := range bc.Markdown.Tags(d.Body) {
			tags = appendTag(tags, t)
		}
		d.Meta[docmodel.KeyTags] = tags
	}
	return d, nil
}

func (o *Obsidian) rewriteProse(md *markdown.Engine, body []byte) []byte {
	lines := strings.Split(string(body), "\n")
	prose := md.ProseLines(body)
	inComment := false
	for i, line := range lines {
		if !prose[i] {
			if inComment {
				lines[i] = ""
			}
			continue
		}
		if o.Comments {
			line, inComment = stripComments(line, inComment)
		}
		if o.Highlight {
			line = replaceOutsideCode(line, highlightRe, func(m []string) string { return "<mark>" + m[1] + "</mark>" })
		}
		lines[i] = line
	}
	return []byte(strings.Join(lines, "\n"))
}

// stripComments removes %%comments%%, which may span lines.
func stripComments(line string, inComment bool) (string, bool) {
	var b strings.Builder
	rest := line
	for {
		i := strings.Index(rest, commentDelim)
		if i < 0 {
			if !inComment {
				b.WriteString(rest)
			}
			return b.String(), inComment
		}
		if !inComment {
			b.WriteString(rest[:i])
		}
		inComment = !inComment
		rest = rest[i+len(commentDelim):]
	}
}

// replaceOutsideCode replaces the matches of re that are not inside an
// inline code span.
func replaceOutsideCode(line string, re *regexp.Regexp, fn func(m []string) string) string {
	idx := re.FindAllStringSubmatchIndex(line, -1)
	if idx == nil {
		return line
	}
	var b strings.Builder
	last := 0
	for _, loc := range idx {
		if !docmodel.OutsideInlineCode(line, loc[0]) {
			continue
		}
		m := make([]string, len(loc)/2)
		for g := range m {
			if loc[2*g] >= 0 {
				m[g] = line[loc[2*g]:loc[2*g+1]]
			}
		}
		b.WriteString(line[last:loc[0]])
		b.WriteString(fn(m))
		last = loc[1]
	}
	b.WriteString(line[last:])
	return b.String()
}

func appendTag(tags []string, tag string) []string {
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}
