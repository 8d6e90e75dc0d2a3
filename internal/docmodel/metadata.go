package docmodel

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Well known metadata keys.
const (
	KeyTitle       = "title"
	KeyTags        = "tags"
	KeyAliases     = "aliases"
	KeySlug        = "slug"
	KeyDraft       = "draft"
	KeyPublish     = "publish"
	KeyDescription = "description"
	KeyEnableToc   = "enableToc"
	KeyHasMath     = "has_math"
	KeyCSSClasses  = "cssclasses"
)

// Metadata is the mutable key/value store of a document.
type Metadata map[string]any

// Clone deep copies nested maps and slices.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return Metadata{}
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, val := range vv {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(vv))
		for i, val := range vv {
			out[i] = deepCopy(val)
		}
		return out
	case []string:
		return append([]string(nil), vv...)
	default:
		return v
	}
}

// String returns a scalar value as a trimmed string.
func (m Metadata) String(key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	case []any, []string, map[string]any:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Strings returns a list value. A scalar string is split on commas, so both
// `tags: [a, b]` and `tags: a, b` work.
func (m Metadata) Strings(key string) []string {
	var raw []string
	switch v := m[key].(type) {
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			if item != nil {
				raw = append(raw, fmt.Sprint(item))
			}
		}
	case string:
		raw = strings.Split(v, ",")
	case nil:
		return nil
	default:
		raw = []string{fmt.Sprint(v)}
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Bool returns a boolean value and whether the key held something interpretable.
func (m Metadata) Bool(key string) (value, ok bool) {
	switch v := m[key].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return b, true
	case int:
		return v != 0, true
	default:
		return false, false
	}
}

// Time returns a date value. Strings are parsed permissively.
func (m Metadata) Time(key string) (time.Time, bool) {
	switch v := m[key].(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return time.Time{}, false
		}
		t, err := dateparse.ParseIn(v, time.UTC)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case int:
		if v <= 0 {
			return time.Time{}, false
		}
		return time.Unix(int64(v), 0).UTC(), true
	case int64:
		if v <= 0 {
			return time.Time{}, false
		}
		return time.Unix(v, 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

// FirstTime returns the first key holding a valid date.
func (m Metadata) FirstTime(keys ...string) (time.Time, bool) {
	for _, k := range keys {
		if t, ok := m.Time(k); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
