package explorer

import (
	"cmp"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
)

// Comparator orders two siblings of the same kind (both folders or both files).
// Sort applies folders-first before it and the slug tie-break after it.
//
// Comparators hold a collator and are not safe for concurrent use.
type Comparator func(a, b *Node) int

// Comparator names accepted by NewComparator.
const (
	Alphabetical      = "alphabetical"
	TrailingTokenDesc = "trailing-token-desc"
	DateDesc          = "date-desc"
)

// Names lists the known comparator names.
func Names() []string { return []string{Alphabetical, TrailingTokenDesc, DateDesc} }

// NewComparator returns a named comparator using locale aware, numeric,
// case and accent insensitive string comparison.
//
//   - alphabetical: by display name ascending.
//   - trailing-token-desc: files by the last "-" delimited token of their
//     source path descending (x-2024-03.md before x-2024-01.md), folders
//     alphabetical.
//   - date-desc: files by effective date descending, folders alphabetical.
func NewComparator(name, locale string, dateType docmodel.DateType) (Comparator, error) {
	col := collate.New(language.Make(locale), collate.Numeric, collate.Loose)
	alpha := func(a, b *Node) int { return col.CompareString(a.DisplayName, b.DisplayName) }

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Alphabetical:
		return alpha, nil
	case TrailingTokenDesc:
		return func(a, b *Node) int {
			if a.IsFolder || b.IsFolder {
				return alpha(a, b)
			}
			return col.CompareString(trailingToken(b.FilePath), trailingToken(a.FilePath))
		}, nil
	case DateDesc:
		return func(a, b *Node) int {
			if a.IsFolder || b.IsFolder || a.Doc == nil || b.Doc == nil {
				return alpha(a, b)
			}
			if c := b.Doc.Dates.Effective(dateType).Compare(a.Doc.Dates.Effective(dateType)); c != 0 {
				return c
			}
			return alpha(a, b)
		}, nil
	default:
		return nil, errors.ConfigError("unknown explorer comparator").
			WithContext("name", name).
			WithContext("known", Names()).
			Build()
	}
}

// trailingToken returns the text after the last "-" of p, or p itself.
func trailingToken(p string) string {
	if i := strings.LastIndexByte(p, '-'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// compareSiblings is the total order used for every parent: folders first,
// then c, then slug.
func compareSiblings(c Comparator, a, b *Node) int {
	if a.IsFolder != b.IsFolder {
		if a.IsFolder {
			return -1
		}
		return 1
	}
	if c != nil {
		if r := c(a, b); r != 0 {
			return r
		}
	}
	if r := cmp.Compare(a.Slug, b.Slug); r != 0 {
		return r
	}
	return cmp.Compare(a.FilePath, b.FilePath)
}

// DocumentOrder adapts c to order documents as file siblings. The graph uses
// it so folder listings match the explorer.
func DocumentOrder(c Comparator) func(a, b *docmodel.Document) int {
	return func(a, b *docmodel.Document) int {
		return compareSiblings(c, fileNode(a), fileNode(b))
	}
}
