package commands

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
	"git.home.luguber.info/inful/docgraph/internal/metrics"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/watch"
)

const shutdownTimeout = 5 * time.Second

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Content string `short:"i" help:"Override content_dir" type:"path"`
	Output  string `short:"o" help:"Override output_dir" type:"path"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	applyDirOverrides(cfg, w.Content, w.Output)

	s, err := openSite(cfg, g.Logger)
	if err != nil {
		return err
	}
	defer s.Close()

	watcher, err := watch.New(cfg, s.pipeline, g.Logger)
	if err != nil {
		return err
	}
	watcher.OnBuild = func(report *pipeline.Report, _ error) {
		s.afterBuild()
		if report != nil {
			g.Logger.Info("Site updated", logfields.Output(cfg.OutputDir), logfields.Event(string(report.Outcome)))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error { return watcher.Run(ctx) })
	if cfg.Metrics.Listen != "" && s.recorder != nil {
		srv := &http.Server{
			Addr:              cfg.Metrics.Listen,
			Handler:           metrics.NewServeMux(s.recorder),
			ReadHeaderTimeout: 5 * time.Second,
		}
		grp.Go(func() error {
			g.Logger.Info("Serving metrics", logfields.URL("http://"+cfg.Metrics.Listen+metrics.Path))
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				return errors.NetworkError("metrics server failed").WithCause(err).WithContext("listen", cfg.Metrics.Listen).Build()
			}
			return nil
		})
		grp.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}
	return grp.Wait()
}
