package markdown

import (
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// LinkResolver maps an internal link destination (as written, anchor included)
// to the href used in the rendered page. broken marks unresolvable targets.
type LinkResolver interface {
	ResolveLink(dest string) (href string, broken bool)
}

// LinkResolverFunc adapts a function to LinkResolver.
type LinkResolverFunc func(dest string) (string, bool)

func (f LinkResolverFunc) ResolveLink(dest string) (string, bool) { return f(dest) }

var resolverKey = parser.NewContextKey()

// linkRewriter rewrites internal destinations during Render.
type linkRewriter struct{}

func (linkRewriter) Transform(doc *gmast.Document, _ text.Reader, pc parser.Context) {
	resolver, ok := pc.Get(resolverKey).(LinkResolver)
	if !ok || resolver == nil {
		return
	}
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Link:
			if href, broken, ok := rewrite(resolver, node.Destination); ok {
				node.Destination = href
				class := "internal"
				if broken {
					class = "internal broken"
				}
				node.SetAttributeString("class", []byte(class))
			}
		case *gmast.Image:
			if href, _, ok := rewrite(resolver, node.Destination); ok {
				node.Destination = href
			}
		}
		return gmast.WalkContinue, nil
	})
}

func rewrite(resolver LinkResolver, dest []byte) ([]byte, bool, bool) {
	d := string(dest)
	if d == "" || d[0] == '#' || IsExternal(d) {
		return nil, false, false
	}
	href, broken := resolver.ResolveLink(d)
	return []byte(href), broken, true
}
