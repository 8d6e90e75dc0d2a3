// Package paths converts source file paths into slugs and slugs into URLs.
//
// A FullSlug never has a leading or trailing slash and keeps the trailing
// "index" segment of folder index documents ("notes/index"). URLs produced from
// slugs are extensionless and relative to the page that links them.
package paths

import (
	"path"
	"strings"

	"github.com/goliatone/go-slug"
)

// FullSlug is the canonical output identifier of a document or asset.
type FullSlug string

const (
	// Index is the trailing slug segment of a folder's own page.
	Index = "index"
	// TagsFolder holds the generated tag pages.
	TagsFolder = "tags"
)

// MarkdownExt is the extension of content documents.
const MarkdownExt = ".md"

// IsMarkdown reports whether a source path is a content document.
func IsMarkdown(fp string) bool {
	return strings.EqualFold(path.Ext(fp), MarkdownExt)
}

// SlugifyFilePath derives a slug from a slash separated, source relative path.
// Markdown files lose their extension, other files keep it.
func SlugifyFilePath(fp string) FullSlug {
	fp = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(fp, "\\", "/")), "/")
	ext := path.Ext(fp)
	if strings.EqualFold(ext, MarkdownExt) {
		fp = strings.TrimSuffix(fp, ext)
		ext = ""
	} else if ext != "" {
		fp = strings.TrimSuffix(fp, ext)
	}

	segments := strings.Split(fp, "/")
	for i, seg := range segments {
		segments[i] = sanitizeSegment(seg)
	}
	s := strings.Join(segments, "/") + strings.ToLower(ext)
	if last := segments[len(segments)-1]; last == "_index" && ext == "" {
		s = strings.TrimSuffix(s, "_index") + Index
	}
	return FullSlug(s)
}

// Normalize cleans a slug supplied by a user, for example a frontmatter override.
func Normalize(s string) FullSlug {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s == "" {
		return Index
	}
	segments := strings.Split(path.Clean(s), "/")
	for i, seg := range segments {
		segments[i] = sanitizeSegment(seg)
	}
	return FullSlug(strings.Join(segments, "/"))
}

// sanitizeSegment keeps case and unicode letters, turning whitespace into
// dashes and dropping characters that are unsafe in a URL path.
func sanitizeSegment(seg string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.TrimSpace(seg) {
		switch {
		case r == ' ' || r == '\t':
			if !lastDash {
				b.WriteByte('-')
			}
			lastDash = true
			continue
		case r == '&':
			b.WriteString("-and-")
		case r == '%':
			b.WriteString("-percent")
		case r == '?' || r == '#' || r == '"' || r == '<' || r == '>' || r == '\\':
			continue
		default:
			b.WriteRune(r)
		}
		lastDash = false
	}
	return b.String()
}

// TagSlug turns a tag into a slug path below TagsFolder. Hierarchical tags keep
// their separators ("project/alpha" -> "project/alpha").
func TagSlug(tag string) string {
	tag = strings.Trim(strings.TrimPrefix(strings.TrimSpace(tag), "#"), "/")
	segments := strings.Split(tag, "/")
	out := segments[:0]
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if !slug.IsValid(seg) {
			if normalized, err := slug.Normalize(seg); err == nil && normalized != "" {
				seg = normalized
			} else {
				seg = strings.ToLower(sanitizeSegment(seg))
			}
		}
		out = append(out, seg)
	}
	return strings.Join(out, "/")
}

// TagPageSlug is the slug of the page listing a tag.
func TagPageSlug(tag string) FullSlug {
	return FullSlug(TagsFolder + "/" + TagSlug(tag))
}

// FileName returns the last slug segment.
func (s FullSlug) FileName() string {
	str := string(s)
	if i := strings.LastIndexByte(str, '/'); i >= 0 {
		return str[i+1:]
	}
	return str
}

// IsFolderIndex reports whether the slug names a folder's own page.
func (s FullSlug) IsFolderIndex() bool {
	return s.FileName() == Index
}

// Folder returns the folder a slug lives in, "" for the root. The folder of
// "notes/index" is "notes".
func (s FullSlug) Folder() string {
	str := string(s)
	if i := strings.LastIndexByte(str, '/'); i >= 0 {
		return str[:i]
	}
	return ""
}

// Simplify drops a trailing "index" segment: "notes/index" -> "notes/", "index" -> "".
func (s FullSlug) Simplify() string {
	str := string(s)
	if str == Index {
		return ""
	}
	if strings.HasSuffix(str, "/"+Index) {
		return strings.TrimSuffix(str, Index)
	}
	return str
}

// Depth is the number of folders between the site root and the slug.
func (s FullSlug) Depth() int {
	return strings.Count(string(s), "/")
}

// OutputPath is the file an HTML page for the slug is written to.
func (s FullSlug) OutputPath() string {
	return string(s) + ".html"
}

// PathToRoot returns the relative prefix leading from the page at s to the site root.
func PathToRoot(s FullSlug) string {
	d := s.Depth()
	if d == 0 {
		return "."
	}
	return strings.TrimSuffix(strings.Repeat("../", d), "/")
}

// RelativeURL returns the URL of target as seen from the page at from.
// target is a simplified slug or asset path, an optional "#anchor" is kept.
func RelativeURL(from FullSlug, target string) string {
	anchor := ""
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target, anchor = target[:i], target[i:]
	}
	return PathToRoot(from) + "/" + strings.TrimPrefix(target, "/") + anchor
}

// FolderSlug returns the slug of a folder's page.
func FolderSlug(folder string) FullSlug {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return Index
	}
	return FullSlug(folder + "/" + Index)
}

// FolderPrefixes returns every ancestor folder of folder, outermost first:
// "a/b/c" -> ["a", "a/b", "a/b/c"].
func FolderPrefixes(folder string) []string {
	if folder == "" {
		return nil
	}
	parts := strings.Split(folder, "/")
	out := make([]string, len(parts))
	for i := range parts {
		out[i] = strings.Join(parts[:i+1], "/")
	}
	return out
}
