package markdown

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"go.abhg.dev/goldmark/hashtag"
	"go.abhg.dev/goldmark/wikilink"

	"git.home.luguber.info/inful/docgraph/internal/paths"
)

// Lowering runs before linkRewriter so wikilinks and tags are rewritten like
// any other internal link.
const lowerPriority = 500

var (
	imageExts = map[string]bool{
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
		".bmp": true, ".svg": true, ".webp": true, ".avif": true,
	}
	dimensionRe = regexp.MustCompile(`^\d+(x\d+)?$`)
	tagsKey     = parser.NewContextKey()
)

// Wikilinks parses [[target#anchor|alias]] and ![[embed]] into regular links
// and images. Embeds of non image targets become links.
func Wikilinks() goldmark.Extender { return wikilinkExtender{} }

// Hashtags parses Obsidian style #tags into links to their tag pages.
func Hashtags() goldmark.Extender { return hashtagExtender{} }

type wikilinkExtender struct{}

func (wikilinkExtender) Extend(md goldmark.Markdown) {
	(&wikilink.Extender{}).Extend(md)
	md.Parser().AddOptions(parser.WithASTTransformers(util.Prioritized(wikilinkLowering{}, lowerPriority)))
}

type hashtagExtender struct{}

func (hashtagExtender) Extend(md goldmark.Markdown) {
	(&hashtag.Extender{Variant: hashtag.ObsidianVariant}).Extend(md)
	md.Parser().AddOptions(parser.WithASTTransformers(util.Prioritized(hashtagLowering{}, lowerPriority)))
}

type wikilinkLowering struct{}

func (wikilinkLowering) Transform(doc *gmast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	var found []*wikilink.Node
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if wl, ok := n.(*wikilink.Node); ok && entering {
			found = append(found, wl)
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	for _, wl := range found {
		wl.Parent().ReplaceChild(wl.Parent(), wl, lowerWikilink(wl, source))
	}
}

func lowerWikilink(wl *wikilink.Node, source []byte) gmast.Node {
	target := strings.TrimSpace(string(wl.Target))
	anchor := strings.TrimSpace(string(wl.Fragment))
	raw := string(wl.Target)
	if len(wl.Fragment) > 0 {
		raw += "#" + string(wl.Fragment)
	}
	label := strings.TrimSpace(nodeText(wl, source))
	aliased := label != "" && label != strings.TrimSpace(raw) && label != target

	dest := target
	if anchor != "" {
		dest += "#" + AnchorID(anchor)
	}
	link := gmast.NewLink()
	link.Destination = []byte(dest)

	if wl.Embed && imageExts[strings.ToLower(path.Ext(target))] {
		img := gmast.NewImage(link)
		if aliased && !dimensionRe.MatchString(label) {
			img.AppendChild(img, gmast.NewString([]byte(label)))
		}
		return img
	}

	if !aliased {
		label = target
		if anchor != "" {
			if label != "" {
				label += " > "
			}
			label += anchor
		}
	}
	link.AppendChild(link, gmast.NewString([]byte(label)))
	return link
}

type hashtagLowering struct{}

func (hashtagLowering) Transform(doc *gmast.Document, _ text.Reader, pc parser.Context) {
	var found []*hashtag.Node
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if ht, ok := n.(*hashtag.Node); ok && entering {
			found = append(found, ht)
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})

	tags, _ := pc.Get(tagsKey).([]string)
	for _, ht := range found {
		tag := strings.Trim(string(ht.Tag), "/")
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
		link := gmast.NewLink()
		link.Destination = []byte("/" + paths.TagsFolder + "/" + paths.TagSlug(tag))
		link.AppendChild(link, gmast.NewString([]byte("#"+tag)))
		ht.Parent().ReplaceChild(ht.Parent(), ht, link)
	}
	pc.Set(tagsKey, tags)
}

// Tags returns the inline #tags of body in order of appearance, duplicates
// included. It is empty unless the engine was built with Hashtags.
func (e *Engine) Tags(body []byte) []string {
	pc := parser.NewContext()
	e.md.Parser().Parse(text.NewReader(body), parser.WithContext(pc))
	tags, _ := pc.Get(tagsKey).([]string)
	return tags
}

// AnchorID approximates the heading ids generated by the engine.
func AnchorID(s string) string {
	s = strings.TrimPrefix(s, "^")
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		case r == ' ', r == '-':
			b.WriteByte('-')
		}
	}
	return b.String()
}
