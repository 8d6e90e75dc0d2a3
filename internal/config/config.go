// Package config loads and validates the docgraph site configuration.
package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete site configuration.
type Config struct {
	PageTitle       string   `yaml:"page_title"`
	PageTitleSuffix string   `yaml:"page_title_suffix,omitempty"`
	BaseURL         string   `yaml:"base_url"`
	Locale          string   `yaml:"locale"`
	ContentDir      string   `yaml:"content_dir"`
	OutputDir       string   `yaml:"output_dir"`
	StaticDir       string   `yaml:"static_dir,omitempty"`
	IgnorePatterns  []string `yaml:"ignore_patterns"`
	DefaultDateType string   `yaml:"default_date_type"`

	Build    BuildConfig    `yaml:"build"`
	Explorer ExplorerConfig `yaml:"explorer"`
	Tags     TagsConfig     `yaml:"tags"`
	Theme    ThemeConfig    `yaml:"theme"`
	Plugins  PluginsConfig  `yaml:"plugins"`
	Layout   LayoutConfig   `yaml:"layout"`
	Watch    WatchConfig    `yaml:"watch"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Notify   NotifyConfig   `yaml:"notify"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// BuildConfig controls pipeline execution.
type BuildConfig struct {
	// Workers bounds the transform and emit worker pools; 0 means runtime.NumCPU().
	Workers       int           `yaml:"workers"`
	FailurePolicy FailurePolicy `yaml:"failure_policy"`
	// Report persists build-report.json/.txt next to the published output.
	Report *bool `yaml:"report,omitempty"`
}

// ReportEnabled reports whether the build report is persisted (default true).
func (b BuildConfig) ReportEnabled() bool { return b.Report == nil || *b.Report }

// ExplorerConfig selects the sibling comparator for the explorer tree and folder listings.
type ExplorerConfig struct {
	Comparator string `yaml:"comparator"`
}

// TagsConfig selects the tag member ordering.
type TagsConfig struct {
	// Order is "insertion" (slug order of the filtered set) or a comparator name.
	Order string `yaml:"order"`
}

// ThemeConfig carries the stylesheet inputs emitted by component-resources.
type ThemeConfig struct {
	Typography Typography `yaml:"typography"`
	LightMode  Colors     `yaml:"light_mode"`
	DarkMode   Colors     `yaml:"dark_mode"`
}

// Typography names the font families used by the stylesheet.
type Typography struct {
	Header string `yaml:"header,omitempty"`
	Body   string `yaml:"body"`
	Code   string `yaml:"code"`
}

// Colors is one color scheme.
type Colors struct {
	Light         string `yaml:"light"`
	LightGray     string `yaml:"lightgray"`
	Gray          string `yaml:"gray"`
	DarkGray      string `yaml:"darkgray"`
	Dark          string `yaml:"dark"`
	Secondary     string `yaml:"secondary"`
	Tertiary      string `yaml:"tertiary"`
	Highlight     string `yaml:"highlight"`
	TextHighlight string `yaml:"text_highlight"`
}

// PluginsConfig lists the pipeline stages in registration order.
type PluginsConfig struct {
	Transformers []PluginSpec `yaml:"transformers"`
	Filters      []PluginSpec `yaml:"filters"`
	Emitters     []PluginSpec `yaml:"emitters"`
}

// PluginSpec names a plugin and carries its raw options. Options are decoded
// into typed structs by the plugin's factory.
type PluginSpec struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options,omitempty"`
}

// LayoutConfig declares the component slots of each page kind.
type LayoutConfig struct {
	Shared  SharedLayout `yaml:"shared"`
	Content PageLayout   `yaml:"content"`
	List    PageLayout   `yaml:"list"`
}

// SharedLayout holds slots rendered on every page.
type SharedLayout struct {
	Header    []string `yaml:"header,omitempty"`
	AfterBody []string `yaml:"after_body,omitempty"`
	Footer    []string `yaml:"footer,omitempty"`
	// FooterLinks are rendered by the footer component, label -> URL.
	FooterLinks map[string]string `yaml:"footer_links,omitempty"`
}

// PageLayout holds the slots of one page kind.
type PageLayout struct {
	BeforeBody []string `yaml:"before_body,omitempty"`
	Left       []string `yaml:"left,omitempty"`
	Right      []string `yaml:"right,omitempty"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce Duration `yaml:"debounce"`
	// RebuildEvery schedules a periodic full rebuild; zero disables it.
	RebuildEvery Duration `yaml:"rebuild_every"`
}

// MetricsConfig enables Prometheus metrics.
type MetricsConfig struct {
	// Textfile is written after every build for the node exporter textfile collector.
	Textfile string `yaml:"textfile,omitempty"`
	// Listen serves /metrics in watch mode.
	Listen string `yaml:"listen,omitempty"`
}

// Enabled reports whether any metrics sink is configured.
func (m MetricsConfig) Enabled() bool { return m.Textfile != "" || m.Listen != "" }

// NotifyConfig publishes build events to NATS.
type NotifyConfig struct {
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
	// ConnectRetries is how often the initial connection is retried with
	// exponential backoff before notifications are given up.
	ConnectRetries int `yaml:"connect_retries,omitempty"`
}

// Enabled reports whether notifications are configured.
func (n NotifyConfig) Enabled() bool { return n.URL != "" }

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Duration is a time.Duration that unmarshals from strings like "300ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	if d == 0 {
		return "", nil
	}
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
