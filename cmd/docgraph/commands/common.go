// Package commands implements the docgraph command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
	"git.home.luguber.info/inful/docgraph/internal/metrics"
	"git.home.luguber.info/inful/docgraph/internal/notify"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/plugin/builtin"
)

// Global is shared state passed to every command.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docgraph.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the site into the output directory"`
	Watch   WatchCmd   `cmd:"" help:"Build, then rebuild whenever content changes"`
	Init    InitCmd    `cmd:"" help:"Create a configuration file and a starter content folder"`
	Inspect InspectCmd `cmd:"" help:"Print the explorer tree, backlinks and broken links without writing output"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig loads the configuration named by --config and switches logging
// to its level and format. --verbose always wins over the configured level.
func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	g.Logger = newLogger(os.Stderr, cfg.Logging, root.Verbose)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

func newLogger(w io.Writer, lc config.LoggingConfig, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lc.Level.SlogLevel()}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if lc.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// site bundles a pipeline with the sinks configured around it.
type site struct {
	cfg      *config.Config
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
	recorder *metrics.PrometheusRecorder
	notifier *notify.Notifier
}

// openSite assembles the plugin chain and attaches metrics and notifications
// when configured. A NATS server that cannot be reached disables notifications
// instead of failing the command.
func openSite(cfg *config.Config, logger *slog.Logger) (*site, error) {
	s := &site{cfg: cfg, logger: logger}
	opts := pipeline.Options{Logger: logger}

	if cfg.Metrics.Enabled() {
		s.recorder = metrics.NewPrometheusRecorder(nil)
		opts.Recorder = s.recorder
	}
	if cfg.Notify.Enabled() {
		n, err := notify.Connect(context.Background(), cfg.Notify, logger)
		if err != nil {
			logger.Warn("Build notifications disabled", logfields.URL(cfg.Notify.URL), logfields.Error(err))
		} else {
			s.notifier = n
			opts.Observers = append(opts.Observers, n)
		}
	}

	p, err := builtin.NewPipeline(cfg, opts)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.pipeline = p
	return s, nil
}

// afterBuild exports the metrics textfile when one is configured.
func (s *site) afterBuild() {
	if s.recorder == nil || s.cfg.Metrics.Textfile == "" {
		return
	}
	if err := s.recorder.WriteTextfile(s.cfg.Metrics.Textfile); err != nil {
		s.logger.Warn("Failed to write metrics textfile", logfields.Path(s.cfg.Metrics.Textfile), logfields.Error(err))
	}
}

// Close releases the notification connection.
func (s *site) Close() {
	if s.notifier != nil {
		s.notifier.Close()
	}
}
