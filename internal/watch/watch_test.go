package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
)

type countingBuilder struct{ n atomic.Int32 }

func (b *countingBuilder) Build(context.Context) (*pipeline.Report, error) {
	b.n.Add(1)
	return &pipeline.Report{Outcome: pipeline.OutcomeSuccess}, nil
}

func newTestWatcher(t *testing.T, mutate func(*config.Config)) (*Watcher, *countingBuilder, string) {
	t.Helper()
	root := t.TempDir()
	content := filepath.Join(root, "content")
	require.NoError(t, os.MkdirAll(filepath.Join(content, "notes"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(content, "private"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(content, ".obsidian"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(content, "index.md"), []byte("# Home\n"), 0o600))

	cfg := config.Default()
	cfg.ContentDir = content
	cfg.OutputDir = filepath.Join(root, "public")
	cfg.IgnorePatterns = []string{"private"}
	cfg.Watch.Debounce = config.Duration(20 * time.Millisecond)
	if mutate != nil {
		mutate(cfg)
	}

	b := &countingBuilder{}
	w, err := New(cfg, b, nil)
	require.NoError(t, err)
	return w, b, content
}

func TestRun_RebuildsOnChange(t *testing.T) {
	w, b, content := newTestWatcher(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return b.n.Load() == 1 }, 2*time.Second, 10*time.Millisecond, "initial build")

	require.NoError(t, os.WriteFile(filepath.Join(content, "notes", "a.md"), []byte("# A\n"), 0o600))
	require.Eventually(t, func() bool { return b.n.Load() == 2 }, 2*time.Second, 10*time.Millisecond, "rebuild after change")

	// ignored directories never trigger a rebuild
	require.NoError(t, os.WriteFile(filepath.Join(content, "private", "secret.md"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(2), b.n.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_PeriodicRebuild(t *testing.T) {
	w, b, _ := newTestWatcher(t, func(cfg *config.Config) {
		cfg.Watch.RebuildEvery = config.Duration(50 * time.Millisecond)
	})
	var reports atomic.Int32
	w.OnBuild = func(r *pipeline.Report, err error) {
		if err == nil && r != nil {
			reports.Add(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.Eventually(t, func() bool { return b.n.Load() >= 3 }, 3*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, reports.Load(), int32(3))
}

func TestChanged_ComparesSnapshots(t *testing.T) {
	w, _, content := newTestWatcher(t, nil)
	ctx := context.Background()

	assert.True(t, w.changed(ctx), "first snapshot is always a change")
	assert.False(t, w.changed(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(content, "b.md"), []byte("b"), 0o600))
	assert.True(t, w.changed(ctx))

	// files in ignored or hidden directories are invisible to discovery
	require.NoError(t, os.WriteFile(filepath.Join(content, ".obsidian", "workspace.json"), []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(content, "private", "p.md"), []byte("p"), 0o600))
	assert.False(t, w.changed(ctx))
}

func TestAddTree_SkipsHiddenAndIgnored(t *testing.T) {
	w, _, content := newTestWatcher(t, nil)
	t.Cleanup(func() { _ = w.fsw.Close() })

	require.NoError(t, w.addTree(content))
	watched := w.fsw.WatchList()

	assert.True(t, slices.Contains(watched, content))
	assert.True(t, slices.Contains(watched, filepath.Join(content, "notes")))
	assert.False(t, slices.Contains(watched, filepath.Join(content, "private")))
	assert.False(t, slices.Contains(watched, filepath.Join(content, ".obsidian")))
}

func TestRelevant(t *testing.T) {
	w, _, content := newTestWatcher(t, func(cfg *config.Config) {
		cfg.OutputDir = filepath.Join(cfg.ContentDir, "public")
	})
	t.Cleanup(func() { _ = w.fsw.Close() })

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: filepath.Join(content, "notes", "a.md"), Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: filepath.Join(content, "new.md"), Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: filepath.Join(content, "a.md"), Op: fsnotify.Chmod}, false},
		{"hidden", fsnotify.Event{Name: filepath.Join(content, ".obsidian", "x.json"), Op: fsnotify.Write}, false},
		{"ignored", fsnotify.Event{Name: filepath.Join(content, "private", "x.md"), Op: fsnotify.Write}, false},
		{"output", fsnotify.Event{Name: filepath.Join(content, "public", "a.html"), Op: fsnotify.Create}, false},
		{"outside root", fsnotify.Event{Name: filepath.Join(filepath.Dir(content), "x.md"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.ev))
		})
	}
}

func TestRun_MissingContentDir(t *testing.T) {
	cfg := config.Default()
	cfg.ContentDir = filepath.Join(t.TempDir(), "missing")
	w, err := New(cfg, &countingBuilder{}, nil)
	require.NoError(t, err)

	require.Error(t, w.Run(context.Background()))
}
