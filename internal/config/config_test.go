package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, "docgraph.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "trailing-token-desc", cfg.Explorer.Comparator)
	assert.Equal(t, "modified", cfg.DefaultDateType)
	assert.Equal(t, []string{"private", "templates", ".obsidian"}, cfg.IgnorePatterns)
	require.Len(t, cfg.Plugins.Transformers, 9)
	assert.Equal(t, "crawl-links", cfg.Plugins.Transformers[6].Name)
	assert.Equal(t, []PluginSpec{{Name: "remove-drafts"}}, cfg.Plugins.Filters)
}

func TestLoad_MinimalAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, "page_title: Notes\n")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "content"), cfg.ContentDir)
	assert.Equal(t, filepath.Join(dir, "public"), cfg.OutputDir)
	assert.Equal(t, "en-US", cfg.Locale)
	assert.Equal(t, FailureIsolate, cfg.Build.FailurePolicy)
	assert.True(t, cfg.Build.ReportEnabled())
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce.Std())
	assert.Equal(t, DefaultLayout(), cfg.Layout)
}

func TestLoad_ExpandsEnvAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCGRAPH_TEST_NATS=nats://dotenv:4222\n"), 0o600))
	t.Setenv("DOCGRAPH_TEST_TITLE", "From Env")
	p := writeConfig(t, dir, `page_title: ${DOCGRAPH_TEST_TITLE}
notify:
  url: ${DOCGRAPH_TEST_NATS}
`)
	t.Cleanup(func() { _ = os.Unsetenv("DOCGRAPH_TEST_NATS") })

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.PageTitle)
	assert.Equal(t, "nats://dotenv:4222", cfg.Notify.URL)
	assert.Equal(t, "docgraph.builds", cfg.Notify.Subject)
}

func TestLoad_NormalizesEnums(t *testing.T) {
	cfg, err := Parse([]byte(`
base_url: https://notes.example.com/
default_date_type: Created
build:
  failure_policy: ABORT
explorer:
  comparator: Alphabetical
logging:
  level: WARNING
`))
	require.NoError(t, err)
	assert.Equal(t, "notes.example.com", cfg.BaseURL)
	assert.Equal(t, "created", cfg.DefaultDateType)
	assert.Equal(t, FailureAbort, cfg.Build.FailurePolicy)
	assert.Equal(t, "alphabetical", cfg.Explorer.Comparator)
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "not_a_key: 1\n"},
		{"unknown comparator", "explorer:\n  comparator: random\n"},
		{"bad failure policy", "build:\n  failure_policy: explode\n"},
		{"bad date type", "default_date_type: yesterday\n"},
		{"bad glob", "ignore_patterns: ['[']\n"},
		{"negative workers", "build:\n  workers: -1\n"},
		{"duplicate plugin", "plugins:\n  filters:\n    - name: remove-drafts\n    - name: remove-drafts\n"},
		{"nameless plugin", "plugins:\n  emitters:\n    - options: {a: 1}\n"},
		{"same dirs", "content_dir: site\noutput_dir: site\n"},
		{"bad duration", "watch:\n  debounce: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig), "got %v", err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestWriteExample_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "docgraph.yaml")
	require.NoError(t, WriteExample(p, false))

	cfg, err := Load(p)
	require.NoError(t, err)
	want := Default()
	assert.Equal(t, want.Plugins, cfg.Plugins)
	assert.Equal(t, want.Layout, cfg.Layout)
	assert.Equal(t, want.Theme, cfg.Theme)

	err = WriteExample(p, false)
	require.Error(t, err)
	require.NoError(t, WriteExample(p, true))
}
