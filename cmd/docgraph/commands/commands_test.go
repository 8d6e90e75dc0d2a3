package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/paths"
)

func testGlobal() *Global {
	return &Global{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// initSite scaffolds a project in a temp dir and loads its configuration.
func initSite(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "docgraph.yaml")
	var out bytes.Buffer
	require.NoError(t, RunInit(cfgPath, false, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), &out))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	return cfg, dir
}

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "docgraph.yaml")
	var out bytes.Buffer

	require.NoError(t, RunInit(cfgPath, false, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), &out))
	assert.Contains(t, out.String(), "Created ")

	note, err := os.ReadFile(filepath.Join(dir, "content", "index.md"))
	require.NoError(t, err)
	text := string(note)
	assert.True(t, strings.HasPrefix(text, "---\n"))
	assert.Contains(t, text, "title: Welcome")
	assert.Contains(t, text, "2024-06-01")
	assert.Contains(t, text, "uid: ")
	assert.Contains(t, text, "_uid/")
	assert.Contains(t, text, "# Welcome")

	err = RunInit(cfgPath, false, time.Now(), &out)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	// forcing rewrites the config but leaves existing content alone
	out.Reset()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content", "index.md"), []byte("# mine\n"), 0o600))
	require.NoError(t, RunInit(cfgPath, true, time.Now(), &out))
	assert.Contains(t, out.String(), "Keeping existing content")
	note, err = os.ReadFile(filepath.Join(dir, "content", "index.md"))
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(note))
}

func TestRunBuild(t *testing.T) {
	cfg, dir := initSite(t)
	cfg.Metrics.Textfile = filepath.Join(dir, "docgraph.prom")
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ContentDir, "wikilinks.md"), []byte("# Linked\n"), 0o600))

	var out bytes.Buffer
	report, err := RunBuild(context.Background(), cfg, testGlobal(), &out)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 2, report.Published)
	assert.Contains(t, out.String(), "2 published")
	assert.Contains(t, out.String(), "Site written to "+cfg.OutputDir)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "index.html"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "wikilinks.html"))

	prom, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "docgraph_build_duration_seconds")
}

func TestRunBuild_MissingContent(t *testing.T) {
	cfg, _ := initSite(t)
	require.NoError(t, os.RemoveAll(cfg.ContentDir))

	var out bytes.Buffer
	_, err := RunBuild(context.Background(), cfg, testGlobal(), &out)
	require.Error(t, err)
}

func TestRunInspect(t *testing.T) {
	cfg, _ := initSite(t)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.ContentDir, "notes"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ContentDir, "notes", "a.md"),
		[]byte("---\ntitle: Alpha\n---\nSee [[index]] and [[nowhere]].\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ContentDir, "notes", "draft.md"),
		[]byte("---\ndraft: true\n---\nhidden\n"), 0o600))

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunInspect(context.Background(), cfg, testGlobal(), &out, false))
		text := out.String()
		assert.Contains(t, text, "Explorer\n")
		assert.Contains(t, text, "Alpha (notes/a)")
		assert.Contains(t, text, "index <- notes/a")
		assert.Contains(t, text, "notes/a.md: nowhere (dangling)")
		assert.Contains(t, text, "notes/draft.md (remove-drafts)")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunInspect(context.Background(), cfg, testGlobal(), &out, true))
		var in Inspection
		require.NoError(t, json.Unmarshal(out.Bytes(), &in))
		assert.NotNil(t, in.Explorer)
		assert.Contains(t, in.Backlinks, paths.FullSlug("index"))
		assert.Equal(t, "remove-drafts", in.Excluded["notes/draft.md"])
	})

	_, err := os.Stat(cfg.OutputDir)
	assert.True(t, os.IsNotExist(err), "inspect must not write output")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, config.LoggingConfig{Level: config.LogLevelWarn, Format: config.LogFormatJSON}, false)
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	l = newLogger(&buf, config.LoggingConfig{Level: config.LogLevelWarn, Format: config.LogFormatText}, true)
	l.Debug("verbose")
	assert.Contains(t, buf.String(), "msg=verbose")
}

func TestOpenSite_UnreachableNotifyIsNotFatal(t *testing.T) {
	cfg, _ := initSite(t)
	cfg.Notify = config.NotifyConfig{URL: "nats://127.0.0.1:1", Subject: "docgraph.builds"}
	cfg.Metrics.Listen = "127.0.0.1:0"

	s, err := openSite(cfg, testGlobal().Logger)
	require.NoError(t, err)
	defer s.Close()
	assert.Nil(t, s.notifier)
	assert.NotNil(t, s.recorder)
}
