package docmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docgraph/internal/paths"
)

func TestNew_DerivesSlug(t *testing.T) {
	doc := New("notes/My Note.md", "/src/notes/My Note.md", []byte("hi"), time.Time{})
	assert.Equal(t, paths.FullSlug("notes/My-Note"), doc.Slug)
	assert.Equal(t, []byte("hi"), doc.Body)
	assert.Equal(t, "My Note", doc.Title())
}

func TestTitle_FolderIndexUsesFolderName(t *testing.T) {
	doc := New("projects/index.md", "", nil, time.Time{})
	assert.Equal(t, "projects", doc.Title())
	doc.Meta[KeyTitle] = "All Projects"
	assert.Equal(t, "All Projects", doc.Title())
}

func TestClone_IsDeep(t *testing.T) {
	doc := New("a.md", "", []byte("body"), time.Time{})
	doc.Meta[KeyTags] = []any{"x"}
	doc.Meta["nested"] = map[string]any{"k": "v"}
	doc.AddLink(Link{Target: "b"})

	cp := doc.Clone()
	cp.Body[0] = 'B'
	cp.Meta[KeyTags].([]any)[0] = "y"
	cp.Meta["nested"].(map[string]any)["k"] = "changed"
	cp.AddLink(Link{Target: "c"})

	assert.Equal(t, "body", string(doc.Body))
	assert.Equal(t, []string{"x"}, doc.Tags())
	assert.Equal(t, "v", doc.Meta["nested"].(map[string]any)["k"])
	assert.Len(t, doc.Links, 1)
}

func TestAddLink_DuplicatesNeedDistinctText(t *testing.T) {
	doc := New("a.md", "", nil, time.Time{})
	doc.AddLink(Link{Target: "b", Text: "B"})
	doc.AddLink(Link{Target: "b", Text: "B"})
	doc.AddLink(Link{Target: "b", Text: "see b"})
	require.Len(t, doc.Links, 2)
	assert.Equal(t, "see b", doc.Links[1].Text)
}

func TestMetadataAccessors(t *testing.T) {
	m := Metadata{
		"title":   "  Hello ",
		"tags":    "a, b ,",
		"list":    []any{"x", 2, nil},
		"draft":   "true",
		"publish": true,
		"created": "2024-01-15",
		"when":    time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		"bad":     "not a date",
	}
	assert.Equal(t, "Hello", m.String("title"))
	assert.Equal(t, []string{"a", "b"}, m.Strings("tags"))
	assert.Equal(t, []string{"x", "2"}, m.Strings("list"))
	assert.Nil(t, m.Strings("missing"))

	v, ok := m.Bool("draft")
	assert.True(t, ok)
	assert.True(t, v)
	_, ok = m.Bool("title")
	assert.False(t, ok)

	created, ok := m.Time("created")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), created)

	_, ok = m.Time("bad")
	assert.False(t, ok)

	first, ok := m.FirstTime("missing", "bad", "when")
	require.True(t, ok)
	assert.Equal(t, 2023, first.Year())
}

func TestDates(t *testing.T) {
	c := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	var d Dates
	d.Set(DateCreated, c)
	assert.Equal(t, c, d.Effective(DateModified), "falls back to a known date")

	d.Set(DateModified, m)
	assert.Equal(t, m, d.Get(DateModified))
	assert.Equal(t, c, d.Effective(DateCreated))
	assert.True(t, Dates{}.Effective(DatePublished).IsZero())
}

func TestOutsideInlineCode(t *testing.T) {
	line := "a `b` c"
	assert.True(t, OutsideInlineCode(line, 0))
	assert.False(t, OutsideInlineCode(line, 3))
	assert.True(t, OutsideInlineCode(line, 6))
}
