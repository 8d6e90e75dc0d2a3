package emitters

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/feeds"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
	"git.home.luguber.info/inful/docgraph/internal/markdown"
	"git.home.luguber.info/inful/docgraph/internal/paths"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/plugin"
)

const ContentIndexName = "content-index"

// Output paths of the content index emitter.
const (
	ContentIndexPath = "static/contentIndex.json"
	SitemapPath      = "sitemap.xml"
	RSSPath          = "index.xml"
)

// ContentIndex writes the JSON content index used by client side search and
// navigation, plus an optional sitemap and RSS feed.
type ContentIndex struct {
	Sitemap bool `yaml:"sitemap"`
	RSS     bool `yaml:"rss"`
	// RSSLimit caps the feed items, newest first. Zero means no limit.
	RSSLimit int `yaml:"rss_limit"`
	// RSSFullHTML puts the rendered page into item descriptions.
	RSSFullHTML bool `yaml:"rss_full_html"`
}

func NewContentIndex(opts plugin.Options) (pipeline.Plugin, error) {
	c := &ContentIndex{Sitemap: true, RSS: true, RSSLimit: 10}
	if err := opts.Decode(c); err != nil {
		return nil, err
	}
	if err := validation.Validate(c.RSSLimit, validation.Min(0)); err != nil {
		return nil, errors.ConfigError("invalid rss_limit").WithCause(err).
			WithContext("rss_limit", c.RSSLimit).Build()
	}
	return c, nil
}

func (c *ContentIndex) Name() string { return ContentIndexName }

// IndexEntry is the content index record of one document.
type IndexEntry struct {
	Slug        paths.FullSlug   `json:"slug"`
	FilePath    string           `json:"filePath"`
	Title       string           `json:"title"`
	Links       []paths.FullSlug `json:"links"`
	Tags        []string         `json:"tags"`
	Content     string           `json:"content"`
	RichContent string           `json:"richContent,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
	Description string           `json:"description,omitempty"`
	Fingerprint string           `json:"fingerprint,omitempty"`
}

func (c *ContentIndex) EmitCollection(ctx context.Context, site *pipeline.Site) ([]pipeline.Artifact, error) {
	entries := make(map[paths.FullSlug]IndexEntry, len(site.Documents))
	for _, d := range site.Documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		html, err := renderBody(site, d)
		if err != nil {
			// content-page reports the same failure for the document.
			site.Logger.Warn("Document left out of content index", logfields.Path(d.Path), logfields.Error(err))
			continue
		}
		e := IndexEntry{
			Slug:        d.Slug,
			FilePath:    d.Path,
			Title:       d.Title(),
			Links:       append([]paths.FullSlug{}, site.Graph.Forward(d.Slug)...),
			Tags:        append([]string{}, d.Tags()...),
			Content:     markdown.PlainText(html),
			Description: d.Meta.String(docmodel.KeyDescription),
			Fingerprint: d.Fingerprint,
		}
		if c.RSSFullHTML {
			e.RichContent = string(html)
		}
		if date := d.Dates.Effective(site.Graph.DateType()); !date.IsZero() {
			e.Date = &date
		}
		entries[d.Slug] = e
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, errors.BuildError("failed to encode content index").WithCause(err).Build()
	}
	out := []pipeline.Artifact{{Path: ContentIndexPath, Data: data}}

	base := strings.Trim(site.Config.BaseURL, "/")
	if base == "" {
		if c.Sitemap || c.RSS {
			site.Logger.Warn("No base_url configured, skipping sitemap and RSS feed", logfields.Plugin(ContentIndexName))
		}
		return out, nil
	}
	if c.Sitemap {
		xmlData, err := sitemap(site, base, entries)
		if err != nil {
			return nil, err
		}
		out = append(out, pipeline.Artifact{Path: SitemapPath, Data: xmlData})
	}
	if c.RSS {
		xmlData, err := c.feed(site, base, entries)
		if err != nil {
			return nil, err
		}
		out = append(out, pipeline.Artifact{Path: RSSPath, Data: xmlData})
	}
	return out, nil
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func sitemap(site *pipeline.Site, base string, entries map[paths.FullSlug]IndexEntry) ([]byte, error) {
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, d := range site.Documents {
		e, ok := entries[d.Slug]
		if !ok {
			continue
		}
		u := sitemapURL{Loc: absoluteURL(base, d.Slug)}
		if e.Date != nil {
			u.LastMod = e.Date.Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}
	return encodeXML(set)
}

// feed lists documents newest first. The channel date is the newest item
// date, never the build time, so identical input yields an identical feed.
func (c *ContentIndex) feed(site *pipeline.Site, base string, entries map[paths.FullSlug]IndexEntry) ([]byte, error) {
	f := &feeds.Feed{
		Title: site.Config.PageTitle,
		Link:  &feeds.Link{Href: "https://" + base},
	}
	for _, slug := range site.Graph.Chronological() {
		if c.RSSLimit > 0 && len(f.Items) == c.RSSLimit {
			break
		}
		e, ok := entries[slug]
		if !ok {
			continue
		}
		link := absoluteURL(base, slug)
		item := &feeds.Item{
			Title:       e.Title,
			Link:        &feeds.Link{Href: link},
			Id:          link,
			Description: e.Description,
		}
		if c.RSSFullHTML {
			item.Description = e.RichContent
		}
		if e.Date != nil {
			item.Created = *e.Date
			if f.Created.IsZero() {
				f.Created = *e.Date
			}
		}
		f.Add(item)
	}
	f.Description = fmt.Sprintf("Last %d notes on %s", len(f.Items), f.Title)

	rss := (&feeds.Rss{Feed: f}).RssFeed()
	rss.Generator = "docgraph"
	data, err := feeds.ToXML(rss)
	if err != nil {
		return nil, errors.BuildError("failed to encode RSS feed").WithCause(err).Build()
	}
	return []byte(data), nil
}

func absoluteURL(base string, slug paths.FullSlug) string {
	return "https://" + base + "/" + slug.Simplify()
}

func encodeXML(v any) ([]byte, error) {
	data, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.BuildError("failed to encode XML").WithCause(err).Build()
	}
	return append([]byte(xml.Header), data...), nil
}
