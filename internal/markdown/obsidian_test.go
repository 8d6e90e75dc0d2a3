package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWikilinks_ExtractedAsLinks(t *testing.T) {
	e := New(Wikilinks())
	tests := []struct {
		name string
		body string
		want []Link
	}{
		{"plain", "See [[Page One]].", []Link{{LinkKindInline, "Page One", "Page One"}}},
		{"alias and anchor", "[[a#Some Heading|the a]]", []Link{{LinkKindInline, "a#some-heading", "the a"}}},
		{"anchor label", "[[a#Part]]", []Link{{LinkKindInline, "a#part", "a > Part"}}},
		{"image embed", "![[pics/x.png|diagram]]", []Link{{LinkKindImage, "pics/x.png", "diagram"}}},
		{"image size is not alt text", "![[x.png|100x200]]", []Link{{LinkKindImage, "x.png", ""}}},
		{"nested list", "- a\n    - [[deep]]\n", []Link{{LinkKindInline, "deep", "deep"}}},
		{"code span", "`[[x]]`", []Link{}},
		{"indented code", "text\n\n    [[x]]\n", []Link{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ExtractLinks([]byte(tt.body)))
		})
	}
}

func TestHashtags(t *testing.T) {
	e := New(Hashtags())
	assert.Equal(t, []string{"alpha", "beta/gamma", "alpha"},
		e.Tags([]byte("#alpha text\n\n- item\n\t- nested #beta/gamma\n\nagain #alpha\n")))
	assert.Empty(t, e.Tags([]byte("```\n#code\n```\n\n`#span`\n")))
	assert.Empty(t, New().Tags([]byte("#alpha")), "engine without hashtags")

	html, err := e.Render([]byte("about #go"), nil)
	require.NoError(t, err)
	assert.Equal(t, "<p>about <a href=\"/tags/go\">#go</a></p>\n", string(html))
}

func TestAnchorID(t *testing.T) {
	tests := map[string]string{
		"Some Heading":   "some-heading",
		"^block-ref":     "block-ref",
		"  Mixed_Case! ": "mixed_case",
		"Ünïcode 2":      "ünïcode-2",
	}
	for in, want := range tests {
		assert.Equal(t, want, AnchorID(in), in)
	}
}
