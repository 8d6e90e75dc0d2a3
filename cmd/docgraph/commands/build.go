package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Content string `short:"i" help:"Override content_dir" type:"path"`
	Output  string `short:"o" help:"Override output_dir" type:"path"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	applyDirOverrides(cfg, b.Content, b.Output)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = RunBuild(ctx, cfg, g, os.Stdout)
	return err
}

// RunBuild performs one build of cfg and prints its summary to out.
func RunBuild(ctx context.Context, cfg *config.Config, g *Global, out io.Writer) (*pipeline.Report, error) {
	s, err := openSite(cfg, g.Logger)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	report, err := s.pipeline.Build(ctx)
	s.afterBuild()
	if report != nil {
		_, _ = fmt.Fprintf(out, "%s: %d published, %d filtered, %d failed, %d artifacts, %d broken links\n",
			report.Outcome, report.Published, report.Filtered, report.Failed, report.Artifacts, len(report.BrokenLinks))
	}
	if err != nil {
		return report, err
	}
	_, _ = fmt.Fprintf(out, "Site written to %s\n", cfg.OutputDir)
	return report, nil
}

func applyDirOverrides(cfg *config.Config, content, output string) {
	if content != "" {
		cfg.ContentDir = content
	}
	if output != "" {
		cfg.OutputDir = output
	}
}
