// Package watch rebuilds a site when its content directory changes.
//
// Filesystem events are debounced into a single rebuild. A rebuild is skipped
// when the discovered file set hashes the same as the previous build, so
// editor swap files and attribute changes do not cause work. An optional
// gocron job forces a full rebuild on a fixed interval regardless of events.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/docs"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
)

// Builder runs one build. *pipeline.Pipeline satisfies it.
type Builder interface {
	Build(ctx context.Context) (*pipeline.Report, error)
}

type trigger int

const (
	triggerChange trigger = iota
	triggerScheduled
)

// Watcher drives Builder from filesystem events and a schedule.
type Watcher struct {
	builder   Builder
	discovery *docs.Discovery
	debounce  time.Duration
	every     time.Duration
	logger    *slog.Logger

	fsw       *fsnotify.Watcher
	scheduled chan struct{}
	lastHash  string

	// OnBuild, when set, is called after every attempted build.
	OnBuild func(*pipeline.Report, error)
}

// New prepares a watcher for cfg's content directory.
func New(cfg *config.Config, b Builder, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d, err := docs.NewDiscovery(cfg.ContentDir, cfg.IgnorePatterns, pipeline.OutputDirs(cfg.OutputDir)...)
	if err != nil {
		return nil, errors.ConfigError("invalid watch configuration").WithCause(err).Build()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.FileSystemError("failed to create file watcher").WithCause(err).Build()
	}
	return &Watcher{
		builder:   b,
		discovery: d,
		debounce:  cfg.Watch.Debounce.Std(),
		every:     cfg.Watch.RebuildEvery.Std(),
		logger:    logger,
		fsw:       fsw,
		scheduled: make(chan struct{}, 1),
	}, nil
}

// Run performs an initial build, then rebuilds on change until ctx is done.
// Build failures are logged; only watcher setup errors end Run.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("Error closing file watcher", logfields.Error(err))
		}
	}()

	if err := w.addTree(w.discovery.Root()); err != nil {
		return err
	}

	if w.every > 0 {
		s, err := w.startScheduler()
		if err != nil {
			return err
		}
		defer func() {
			if err := s.Shutdown(); err != nil {
				w.logger.Warn("Error stopping scheduler", logfields.Error(err))
			}
		}()
	}

	w.logger.Info("Watching content", logfields.Path(w.discovery.Root()),
		slog.Duration("debounce", w.debounce), slog.Duration("rebuild_every", w.every))
	w.rebuild(ctx, triggerScheduled)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.logger.Info("Stopping watcher")
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("Content change detected", logfields.Path(ev.Name), logfields.Event(ev.Op.String()))
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.logger.Warn("Failed to watch new directory", logfields.Path(ev.Name), logfields.Error(err))
					}
				}
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.rebuild(ctx, triggerChange)
		case <-w.scheduled:
			w.rebuild(ctx, triggerScheduled)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) startScheduler() (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.BuildError("failed to create scheduler").WithCause(err).Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.every),
		gocron.NewTask(w.requestRebuild),
		gocron.WithName("periodic-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, errors.ConfigError("failed to schedule periodic rebuild").
			WithCause(err).
			WithContext("rebuild_every", w.every.String()).
			Build()
	}
	s.Start()
	return s, nil
}

// requestRebuild queues a scheduled rebuild; a pending request absorbs new ones.
func (w *Watcher) requestRebuild() {
	select {
	case w.scheduled <- struct{}{}:
	default:
	}
}

// rebuild runs a build if the content changed since the last one. Scheduled
// rebuilds always run.
func (w *Watcher) rebuild(ctx context.Context, why trigger) {
	if why == triggerChange && !w.changed(ctx) {
		w.logger.Debug("Content unchanged; skipping rebuild")
		return
	}
	report, err := w.builder.Build(ctx)
	if why == triggerScheduled {
		// refresh the snapshot so the next event compares against this build
		w.changed(ctx)
	}
	if err != nil {
		w.logger.Error("Rebuild failed", logfields.Error(err))
	}
	if w.OnBuild != nil {
		w.OnBuild(report, err)
	}
}

// changed rediscovers the content and reports whether its snapshot hash
// differs from the previous call.
func (w *Watcher) changed(ctx context.Context) bool {
	files, err := w.discovery.Discover(ctx)
	if err != nil {
		w.logger.Warn("Discovery failed while checking for changes", logfields.Error(err))
		return true
	}
	h := docs.SnapshotHash(files)
	if h == w.lastHash {
		return false
	}
	w.lastHash = h
	return true
}

// relevant reports whether an event should trigger a rebuild.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if w.inOutput(ev.Name) {
		return false
	}
	rel, ok := w.rel(ev.Name)
	return ok && !w.skipped(rel)
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel, ok := w.rel(path); (ok && rel != "." && w.skipped(rel)) || w.inOutput(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return errors.FileSystemError("failed to watch directory").WithCause(err).WithPath(path).Build()
		}
		return nil
	})
}

func (w *Watcher) rel(path string) (string, bool) {
	rel, err := filepath.Rel(w.discovery.Root(), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) skipped(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return true
		}
	}
	return w.discovery.Ignored(rel)
}

// inOutput reports whether path belongs to the build output, its staging
// directory or its backup.
func (w *Watcher) inOutput(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return w.discovery.Excluded(abs)
}
