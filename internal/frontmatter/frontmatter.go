// Package frontmatter splits and decodes the metadata block at the top of a note.
//
// YAML blocks (`---`) are decoded with yaml.v3; TOML blocks (`+++`) are handed
// to github.com/adrg/frontmatter.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	adrg "github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// Format identifies the frontmatter dialect of a document.
type Format string

const (
	FormatNone Format = ""
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrMissingClosingDelimiter indicates the document started with a frontmatter
// delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// Split separates a `---` or `+++` delimited block from the Markdown body.
//
// If the document does not start with a delimiter, format is FormatNone and
// body is the full input. CRLF files keep their line endings.
func Split(content []byte) (block []byte, body []byte, format Format, err error) {
	nl := detectNewline(content)
	for _, d := range []struct {
		delim  string
		format Format
	}{{"---", FormatYAML}, {"+++", FormatTOML}} {
		open := []byte(d.delim + nl)
		if !bytes.HasPrefix(content, open) {
			continue
		}
		start := len(open)
		if bytes.HasPrefix(content[start:], open) {
			return []byte{}, content[start+len(open):], d.format, nil
		}
		closeSeq := []byte(nl + d.delim + nl)
		idx := bytes.Index(content[start:], closeSeq)
		if idx < 0 {
			// A closing delimiter on the last line without a trailing newline.
			if bytes.HasSuffix(content, []byte(nl+d.delim)) && len(content) > start+len(d.delim) {
				end := len(content) - len(d.delim)
				return content[start:end], []byte{}, d.format, nil
			}
			return nil, nil, FormatNone, ErrMissingClosingDelimiter
		}
		return content[start : start+idx+len(nl)], content[start+idx+len(closeSeq):], d.format, nil
	}
	return nil, content, FormatNone, nil
}

// Parse splits content and decodes the block into a string keyed map.
// Nested maps are normalized to map[string]any.
func Parse(content []byte) (fields map[string]any, body []byte, format Format, err error) {
	block, body, format, err := Split(content)
	if err != nil {
		return nil, nil, FormatNone, err
	}
	switch format {
	case FormatYAML:
		fields, err = ParseYAML(block)
	case FormatTOML:
		fields, err = parseTOML(content)
	default:
		fields = map[string]any{}
	}
	if err != nil {
		return nil, nil, format, fmt.Errorf("decode %s frontmatter: %w", format, err)
	}
	return fields, body, format, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(block []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(block)) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(block, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return map[string]any{}, nil
	}
	return normalizeMap(fields), nil
}

func parseTOML(content []byte) (map[string]any, error) {
	fields := map[string]any{}
	if _, err := adrg.Parse(bytes.NewReader(content), &fields); err != nil {
		return nil, err
	}
	return normalizeMap(fields), nil
}

func normalizeMap(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}

func normalizeValue(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		return normalizeMap(vv)
	case map[any]any:
		out := make(map[string]any, len(vv))
		for k, val := range vv {
			out[fmt.Sprint(k)] = normalizeValue(val)
		}
		return out
	case []any:
		for i := range vv {
			vv[i] = normalizeValue(vv[i])
		}
		return vv
	case []map[string]any:
		out := make([]any, len(vv))
		for i := range vv {
			out[i] = normalizeMap(vv[i])
		}
		return out
	case time.Time:
		return vv
	default:
		return v
	}
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
