package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/explorer"
)

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.ContentDir, validation.Required),
		validation.Field(&c.OutputDir, validation.Required, validation.By(distinctFrom(c.ContentDir))),
		validation.Field(&c.Locale, validation.Required),
		validation.Field(&c.DefaultDateType, validation.Required, validation.In(
			string(docmodel.DateCreated), string(docmodel.DateModified), string(docmodel.DatePublished))),
		validation.Field(&c.IgnorePatterns, validation.Each(validation.By(validGlob))),
	); err != nil {
		return err
	}
	if err := c.Build.Validate(); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if err := c.Explorer.Validate(); err != nil {
		return fmt.Errorf("explorer: %w", err)
	}
	if err := c.Tags.Validate(); err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	if err := c.Plugins.Validate(); err != nil {
		return fmt.Errorf("plugins: %w", err)
	}
	if err := c.Notify.Validate(); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

// Validate validates the build configuration.
func (b *BuildConfig) Validate() error {
	return validation.ValidateStruct(b,
		validation.Field(&b.Workers, validation.Min(0)),
		validation.Field(&b.FailurePolicy, validation.In(FailureIsolate, FailureAbort)),
	)
}

// Validate validates the explorer configuration.
func (e *ExplorerConfig) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Comparator, validation.Required, validation.In(toAny(explorer.Names())...)),
	)
}

// Validate validates the tag ordering.
func (t *TagsConfig) Validate() error {
	allowed := append([]string{"insertion"}, explorer.Names()...)
	return validation.ValidateStruct(t,
		validation.Field(&t.Order, validation.In(toAny(allowed)...)),
	)
}

// Validate checks every plugin entry has a name and no stage list repeats a plugin.
func (p *PluginsConfig) Validate() error {
	for kind, specs := range map[string][]PluginSpec{
		"transformers": p.Transformers,
		"filters":      p.Filters,
		"emitters":     p.Emitters,
	} {
		seen := make(map[string]bool, len(specs))
		for i, s := range specs {
			if s.Name == "" {
				return fmt.Errorf("%s[%d]: name is required", kind, i)
			}
			if seen[s.Name] {
				return fmt.Errorf("%s[%d]: plugin %q listed twice", kind, i, s.Name)
			}
			seen[s.Name] = true
		}
	}
	return nil
}

// Validate validates the notification settings.
func (n *NotifyConfig) Validate() error {
	return validation.ValidateStruct(n,
		validation.Field(&n.Subject, validation.When(n.URL != "", validation.Required)),
		validation.Field(&n.ConnectRetries, validation.Min(0), validation.Max(10)),
	)
}

func validGlob(v any) error {
	s, _ := v.(string)
	if !doublestar.ValidatePattern(s) {
		return fmt.Errorf("invalid glob %q", s)
	}
	return nil
}

func distinctFrom(other string) validation.RuleFunc {
	return func(v any) error {
		if s, _ := v.(string); s != "" && s == other {
			return errors.New("must differ from content_dir")
		}
		return nil
	}
}

func toAny(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range slices.Sorted(slices.Values(values)) {
		out = append(out, v)
	}
	return out
}
