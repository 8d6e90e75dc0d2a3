package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/extension"
)

func TestExtractLinks(t *testing.T) {
	e := New()
	tests := []struct {
		name string
		body string
		want []Link
	}{
		{"inline", "See [API](api.md) for details.", []Link{{LinkKindInline, "api.md", "API"}}},
		{"image", "![Diagram](diagram.png)", []Link{{LinkKindImage, "diagram.png", "Diagram"}}},
		{"auto", "<https://example.com/path>", []Link{{LinkKindAuto, "https://example.com/path", "https://example.com/path"}}},
		{"reference", "[x][r]\n\n[r]: target.md\n", []Link{
			{LinkKindInline, "target.md", "x"},
			{LinkKindReferenceDefinition, "target.md", "r"},
		}},
		{"code is not a link", "```\n[a](b)\n```\n", []Link{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ExtractLinks([]byte(tt.body)))
		})
	}
}

func TestExtractLinks_GFMLinkify(t *testing.T) {
	links := New(extension.GFM).ExtractLinks([]byte("visit https://example.com today"))
	require.Len(t, links, 1)
	assert.Equal(t, LinkKindAuto, links[0].Kind)
}

func TestHeadings(t *testing.T) {
	hs := New().Headings([]byte("# Intro\n\ntext\n\n## Getting *started*\n\n### Deep\n"))
	require.Len(t, hs, 3)
	assert.Equal(t, Heading{Level: 1, Text: "Intro", ID: "intro"}, hs[0])
	assert.Equal(t, Heading{Level: 2, Text: "Getting started", ID: "getting-started"}, hs[1])
	assert.Equal(t, 3, hs[2].Level)
}

func TestRender_RewritesInternalLinks(t *testing.T) {
	resolver := LinkResolverFunc(func(dest string) (string, bool) {
		if dest == "missing" {
			return "./missing", true
		}
		return "./resolved/" + dest, false
	})
	out, err := New().Render([]byte("[a](b) [m](missing) [e](https://x.org) [h](#top) ![i](pic.png)"), resolver)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, `<a href="./resolved/b" class="internal">a</a>`)
	assert.Contains(t, html, `<a href="./missing" class="internal broken">m</a>`)
	assert.Contains(t, html, `<a href="https://x.org">e</a>`)
	assert.Contains(t, html, `<a href="#top">h</a>`)
	assert.Contains(t, html, `src="./resolved/pic.png"`)
}

func TestRender_NoResolverLeavesLinks(t *testing.T) {
	out, err := New().Render([]byte("[a](b)"), nil)
	require.NoError(t, err)
	assert.Equal(t, "<p><a href=\"b\">a</a></p>\n", string(out))
}

func TestRender_IsDeterministic(t *testing.T) {
	e := New(extension.GFM)
	body := []byte("# T\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	first, err := e.Render(body, nil)
	require.NoError(t, err)
	second, err := e.Render(body, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, strings.Contains(string(first), "<table>"))
}

func TestPlainText(t *testing.T) {
	got := PlainText([]byte("<h1>Title</h1><p>Hello <b>world</b>.</p><script>var x</script><p>Second</p>"))
	assert.Equal(t, "Title Hello world. Second", got)
}

func TestLinkHelpers(t *testing.T) {
	assert.True(t, IsExternal("https://example.com"))
	assert.True(t, IsExternal("mailto:a@b.c"))
	assert.True(t, IsExternal("//cdn.example.com/x.js"))
	assert.False(t, IsExternal("notes/a.md"))
	assert.False(t, IsExternal("../a"))

	target, anchor := SplitAnchor("notes/My%20Note.md?x=1#part")
	assert.Equal(t, "notes/My Note.md", target)
	assert.Equal(t, "part", anchor)
}
