// Package docmodel defines the in-memory representation of one source note
// that every pipeline stage reads and produces.
package docmodel

import (
	"maps"
	"path"
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/docgraph/internal/frontmatter"
	"git.home.luguber.info/inful/docgraph/internal/paths"
)

// Document is one source file plus its build scoped metadata.
//
// Raw never changes after discovery. Transformers receive a Clone and return
// the next snapshot, so a failing transformer cannot leave a half edited
// document behind.
type Document struct {
	// Path is source relative and slash separated.
	Path string
	// AbsPath is the file on disk, used by sources such as git and the filesystem.
	AbsPath string
	Slug    paths.FullSlug

	Raw    []byte
	Body   []byte
	Format frontmatter.Format

	Meta  Metadata
	Links []Link
	Dates Dates
	TOC   []TOCEntry

	ModTime     time.Time
	Fingerprint string
}

// New creates a document for a discovered file. The slug is derived from path.
func New(path, absPath string, raw []byte, modTime time.Time) *Document {
	return &Document{
		Path:    path,
		AbsPath: absPath,
		Slug:    paths.SlugifyFilePath(path),
		Raw:     raw,
		Body:    raw,
		Meta:    Metadata{},
		ModTime: modTime,
	}
}

// Clone returns a deep copy. Raw is shared since it is never written.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Body = slices.Clone(d.Body)
	cp.Meta = d.Meta.Clone()
	cp.Links = slices.Clone(d.Links)
	cp.TOC = slices.Clone(d.TOC)
	return &cp
}

// Title returns the frontmatter title, falling back to the file name.
func (d *Document) Title() string {
	if t := d.Meta.String(KeyTitle); t != "" {
		return t
	}
	src := d.Path
	if src == "" {
		src = string(d.Slug)
	}
	name := strings.TrimSuffix(path.Base(src), path.Ext(src))
	if name == paths.Index || name == "_index" {
		if dir := path.Dir(src); dir != "." {
			return path.Base(dir)
		}
	}
	return name
}

// Tags returns the normalized tag list.
func (d *Document) Tags() []string { return d.Meta.Strings(KeyTags) }

// Aliases returns the extra slugs that should redirect to this document.
func (d *Document) Aliases() []string { return d.Meta.Strings(KeyAliases) }

// AddLink appends an outbound link. A link repeating an existing target is
// kept only when its anchor text differs.
func (d *Document) AddLink(l Link) {
	for _, existing := range d.Links {
		if existing.Target == l.Target && existing.Anchor == l.Anchor && existing.Text == l.Text {
			return
		}
	}
	d.Links = append(d.Links, l)
}

// Link is an outbound reference found in the document body.
type Link struct {
	// Target is the destination as written, without its anchor.
	Target   string `json:"target"`
	Anchor   string `json:"anchor,omitempty"`
	Text     string `json:"text,omitempty"`
	External bool   `json:"external,omitempty"`
	Embed    bool   `json:"embed,omitempty"`
}

// TOCEntry is one heading of the table of contents.
type TOCEntry struct {
	Depth int    `json:"depth"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// DateType selects one of the tracked dates.
type DateType string

const (
	DateCreated   DateType = "created"
	DateModified  DateType = "modified"
	DatePublished DateType = "published"
)

// Dates holds the resolved dates of a document. Zero values mean unknown.
type Dates struct {
	Created   time.Time
	Modified  time.Time
	Published time.Time
}

// Get returns the date of the requested type.
func (d Dates) Get(t DateType) time.Time {
	switch t {
	case DateCreated:
		return d.Created
	case DatePublished:
		return d.Published
	default:
		return d.Modified
	}
}

// Set stores a date of the given type.
func (d *Dates) Set(t DateType, v time.Time) {
	switch t {
	case DateCreated:
		d.Created = v
	case DatePublished:
		d.Published = v
	default:
		d.Modified = v
	}
}

// Effective returns the date of the requested type, falling back to the other
// known dates in modified, created, published order.
func (d Dates) Effective(t DateType) time.Time {
	if v := d.Get(t); !v.IsZero() {
		return v
	}
	for _, v := range []time.Time{d.Modified, d.Created, d.Published} {
		if !v.IsZero() {
			return v
		}
	}
	return time.Time{}
}

// SortedKeys lists metadata keys in a stable order, used by inspect output.
func (m Metadata) SortedKeys() []string {
	return slices.Sorted(maps.Keys(m))
}
