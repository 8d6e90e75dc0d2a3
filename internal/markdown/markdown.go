// Package markdown wraps the goldmark engine shared by every stage of a build.
package markdown

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Engine is a configured goldmark instance. It is safe for concurrent use.
type Engine struct {
	md goldmark.Markdown
}

// New builds an engine with the given extensions. Headings always get
// auto-generated ids so table of contents anchors match the rendered page.
func New(extensions ...goldmark.Extender) *Engine {
	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
			parser.WithASTTransformers(util.Prioritized(linkRewriter{}, 999)),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Engine{md: md}
}

// Parse parses a Markdown body (frontmatter already removed) into a goldmark AST.
func (e *Engine) Parse(body []byte) gmast.Node {
	return e.md.Parser().Parse(text.NewReader(body))
}

// ExtractLinks parses a Markdown body and extracts link-like constructs in
// document order, followed by reference definitions sorted by label.
func (e *Engine) ExtractLinks(body []byte) []Link {
	ctx := parser.NewContext()
	root := e.md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body)), Text: string(node.Label(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination), Text: nodeText(node, body)})
			return gmast.WalkSkipChildren, nil
		case *gmast.Link:
			// Goldmark resolves reference-style links to a Link node with a Destination.
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination), Text: nodeText(node, body)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions are stored in the parse context (not represented as AST nodes).
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination()), Text: string(ref.Label())})
	}
	return links
}

// Headings returns every heading with its level, plain text and generated id.
func (e *Engine) Headings(body []byte) []Heading {
	root := e.Parse(body)
	var out []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		heading := Heading{Level: h.Level, Text: nodeText(h, body)}
		if id, ok := h.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				heading.ID = string(b)
			}
		}
		out = append(out, heading)
		return gmast.WalkSkipChildren, nil
	})
	return out
}

// Render converts body to HTML. Internal link and image destinations are
// passed through resolver when it is not nil.
func (e *Engine) Render(body []byte, resolver LinkResolver) ([]byte, error) {
	pc := parser.NewContext()
	if resolver != nil {
		pc.Set(resolverKey, resolver)
	}
	var buf bytes.Buffer
	if err := e.md.Convert(body, &buf, parser.WithContext(pc)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// nodeText concatenates the literal text below n.
func nodeText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(t.Value)
		case *gmast.AutoLink:
			buf.Write(t.Label(source))
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}
