package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		block  string
		body   string
		format Format
	}{
		{"no frontmatter", "# Title\n\nHello\n", "", "# Title\n\nHello\n", FormatNone},
		{"yaml", "---\nkey: value\n---\n# Title\n", "key: value\n", "# Title\n", FormatYAML},
		{"toml", "+++\nkey = 'value'\n+++\nbody\n", "key = 'value'\n", "body\n", FormatTOML},
		{"empty block", "---\n---\nbody\n", "", "body\n", FormatYAML},
		{"crlf", "---\r\nkey: value\r\n---\r\n# Title\r\n", "key: value\r\n", "# Title\r\n", FormatYAML},
		{"closing at eof", "---\nkey: value\n---", "key: value\n", "", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, body, format, err := Split([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, tt.block, string(block))
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestSplit_MissingClosingDelimiter(t *testing.T) {
	_, _, format, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	assert.Equal(t, FormatNone, format)
}

func TestParse_YAML(t *testing.T) {
	fields, body, format, err := Parse([]byte("---\ntitle: Hello\ntags: [a, b]\nnested:\n  k: 1\n---\ntext\n"))
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, format)
	assert.Equal(t, "text\n", string(body))
	assert.Equal(t, "Hello", fields["title"])
	assert.Equal(t, []any{"a", "b"}, fields["tags"])
	assert.Equal(t, map[string]any{"k": 1}, fields["nested"])
}

func TestParse_TOML(t *testing.T) {
	fields, body, format, err := Parse([]byte("+++\ntitle = \"Hello\"\ndraft = true\n+++\ntext\n"))
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, format)
	assert.Equal(t, "text\n", string(body))
	assert.Equal(t, "Hello", fields["title"])
	assert.Equal(t, true, fields["draft"])
}

func TestParse_InvalidYAML(t *testing.T) {
	_, _, _, err := Parse([]byte("---\ntitle: [unclosed\n---\n"))
	require.Error(t, err)
}

func TestCompose(t *testing.T) {
	out, err := Compose(map[string]any{"title": "Welcome", "tags": []string{"intro"}, "draft": false}, []byte("# Hi\n"))
	require.NoError(t, err)
	assert.Equal(t, "---\ndraft: false\ntags: [intro]\ntitle: Welcome\n---\n# Hi\n", string(out))

	fields, body, _, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "# Hi\n", string(body))
	assert.Equal(t, "Welcome", fields["title"])

	same, err := Compose(nil, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(same))
}
