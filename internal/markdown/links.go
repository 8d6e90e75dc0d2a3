package markdown

import (
	"net/url"
	"strings"
)

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
	Text        string
}

// Heading is one heading of a document.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// IsExternal reports whether a destination leaves the site: anything with a
// URL scheme or a protocol relative host.
func IsExternal(dest string) bool {
	if strings.HasPrefix(dest, "//") {
		return true
	}
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	return u.Scheme != ""
}

// SplitAnchor separates "target#anchor" into its parts. Query strings are dropped.
func SplitAnchor(dest string) (target, anchor string) {
	if i := strings.IndexByte(dest, '#'); i >= 0 {
		dest, anchor = dest[:i], dest[i+1:]
	}
	if i := strings.IndexByte(dest, '?'); i >= 0 {
		dest = dest[:i]
	}
	if unescaped, err := url.PathUnescape(dest); err == nil {
		dest = unescaped
	}
	return dest, anchor
}
