package config

import (
	"time"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
)

const (
	defaultContentDir = "content"
	defaultOutputDir  = "public"
	defaultLocale     = "en-US"
	defaultComparator = "trailing-token-desc"
	defaultSubject    = "docgraph.builds"
	defaultDebounce   = Duration(300 * time.Millisecond)
)

// Default returns the stock site configuration: the full transformer,
// filter and emitter chain and the standard content and list layouts.
func Default() *Config {
	report := true
	return &Config{
		PageTitle:       "docgraph",
		BaseURL:         "example.com",
		Locale:          defaultLocale,
		ContentDir:      defaultContentDir,
		OutputDir:       defaultOutputDir,
		IgnorePatterns:  []string{"private", "templates", ".obsidian"},
		DefaultDateType: string(docmodel.DateModified),
		Build: BuildConfig{
			FailurePolicy: FailureIsolate,
			Report:        &report,
		},
		Explorer: ExplorerConfig{Comparator: defaultComparator},
		Tags:     TagsConfig{Order: "insertion"},
		Theme: ThemeConfig{
			Typography: Typography{Header: "Nunito Sans", Body: "Nunito Sans", Code: "IBM Plex Mono"},
			LightMode: Colors{
				Light: "#fdfaf6", LightGray: "#eae3dc", Gray: "#b8a89c", DarkGray: "#7a6a5f",
				Dark: "#3f322a", Secondary: "#a67c52", Tertiary: "#c4a484",
				Highlight: "rgba(166, 124, 82, 0.15)", TextHighlight: "#ffe8c088",
			},
			DarkMode: Colors{
				Light: "#1e1a17", LightGray: "#3a322c", Gray: "#6e5c50", DarkGray: "#d8c8b8",
				Dark: "#f2d1a6ff", Secondary: "#c49a6c", Tertiary: "#e2cbb3",
				Highlight: "rgba(196, 154, 108, 0.18)", TextHighlight: "#ffe8c088",
			},
		},
		Plugins: PluginsConfig{
			Transformers: []PluginSpec{
				{Name: "frontmatter"},
				{Name: "created-modified-date", Options: map[string]any{
					"priority": []any{"frontmatter", "git", "filesystem"},
				}},
				{Name: "syntax-highlighting"},
				{Name: "obsidian-flavored-markdown"},
				{Name: "github-flavored-markdown"},
				{Name: "table-of-contents"},
				{Name: "crawl-links", Options: map[string]any{"markdown_link_resolution": "shortest"}},
				{Name: "description"},
				{Name: "latex"},
			},
			Filters: []PluginSpec{{Name: "remove-drafts"}},
			Emitters: []PluginSpec{
				{Name: "alias-redirects"},
				{Name: "component-resources"},
				{Name: "content-page"},
				{Name: "folder-page"},
				{Name: "tag-page"},
				{Name: "content-index", Options: map[string]any{"sitemap": true, "rss": true}},
				{Name: "assets"},
				{Name: "static"},
				{Name: "favicon"},
				{Name: "not-found"},
				{Name: "og-images"},
			},
		},
		Layout: DefaultLayout(),
		Watch:  WatchConfig{Debounce: defaultDebounce},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}

// DefaultLayout returns the standard component slots for content and list pages.
func DefaultLayout() LayoutConfig {
	left := []string{"page-title", "spacer", "explorer"}
	return LayoutConfig{
		Shared: SharedLayout{Footer: []string{"footer"}},
		Content: PageLayout{
			BeforeBody: []string{"breadcrumbs", "article-title", "content-meta", "tag-list"},
			Left:       left,
			Right:      []string{"table-of-contents", "backlinks"},
		},
		List: PageLayout{
			BeforeBody: []string{"breadcrumbs", "article-title", "content-meta"},
			Left:       left,
		},
	}
}

// applyDefaults fills zero values after normalization.
func applyDefaults(c *Config) {
	if c.ContentDir == "" {
		c.ContentDir = defaultContentDir
	}
	if c.OutputDir == "" {
		c.OutputDir = defaultOutputDir
	}
	if c.Locale == "" {
		c.Locale = defaultLocale
	}
	if c.DefaultDateType == "" {
		c.DefaultDateType = string(docmodel.DateModified)
	}
	if c.Build.FailurePolicy == "" {
		c.Build.FailurePolicy = FailureIsolate
	}
	if c.Explorer.Comparator == "" {
		c.Explorer.Comparator = defaultComparator
	}
	if c.Tags.Order == "" {
		c.Tags.Order = "insertion"
	}
	if isEmptyLayout(c.Layout) {
		c.Layout = DefaultLayout()
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = defaultDebounce
	}
	if c.Notify.Enabled() && c.Notify.Subject == "" {
		c.Notify.Subject = defaultSubject
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
}

func isEmptyLayout(l LayoutConfig) bool {
	return len(l.Shared.Header)+len(l.Shared.AfterBody)+len(l.Shared.Footer)+
		len(l.Content.BeforeBody)+len(l.Content.Left)+len(l.Content.Right)+
		len(l.List.BeforeBody)+len(l.List.Left)+len(l.List.Right) == 0
}
