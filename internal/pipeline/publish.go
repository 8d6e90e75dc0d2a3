package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
)

// OutputDirs returns the directories a build writes: the output itself, its
// staging sibling and the backup kept while publishing.
func OutputDirs(outputDir string) []string {
	out := filepath.Clean(outputDir)
	return []string{out, out + "_stage", out + ".prev"}
}

// stageWrite writes every artifact into a sibling staging directory
// (<output>_stage) in parallel.
func (p *Pipeline) stageWrite(ctx context.Context, bs *buildState) error {
	stage := OutputDirs(p.cfg.OutputDir)[1]
	// A stale staging directory belongs to a crashed build.
	if err := os.RemoveAll(stage); err != nil {
		return errors.FileSystemError("cannot clear staging directory").WithCause(err).WithPath(stage).Build()
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return errors.FileSystemError("cannot create staging directory").WithCause(err).WithPath(stage).Build()
	}
	bs.stageDir = stage
	bs.bc.Logger.Debug("Initialized staging directory", "staging", stage, logfields.Output(p.cfg.OutputDir))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, a := range bs.artifacts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return writeArtifact(stage, a)
		})
	}
	return g.Wait()
}

func writeArtifact(root string, a Artifact) error {
	dst := filepath.Join(root, filepath.FromSlash(a.Path))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.FileSystemError("cannot create output directory").WithCause(err).WithPath(dst).Build()
	}
	if a.Data != nil {
		if err := os.WriteFile(dst, a.Data, 0o644); err != nil {
			return errors.FileSystemError("cannot write artifact").WithCause(err).WithPath(dst).Build()
		}
		return nil
	}
	if err := copyFile(a.Source, dst); err != nil {
		return errors.FileSystemError("cannot copy artifact").WithCause(err).WithPath(a.Source).Build()
	}
	return nil
}

func copyFile(src, dst string) error {
	// #nosec G304 -- src is a discovered content or static file.
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// stagePublish atomically promotes the staging directory to the output location.
// Strategy:
//  1. Move the existing output (if any) to <output>.prev, replacing an old backup.
//  2. Rename staging -> output.
//  3. Remove the backup best-effort.
func (p *Pipeline) stagePublish(_ context.Context, bs *buildState) error {
	if bs.stageDir == "" {
		return errors.BuildError("no staging directory initialized").Build()
	}
	dirs := OutputDirs(p.cfg.OutputDir)
	out, prev := dirs[0], dirs[2]
	log := bs.bc.Logger

	if err := os.RemoveAll(prev); err != nil {
		log.Warn("Failed to remove previous backup", logfields.Path(prev), logfields.Error(err))
	}
	if _, err := os.Stat(out); err == nil {
		if err := os.Rename(out, prev); err != nil {
			return errors.FileSystemError("backup existing output").WithCause(err).WithPath(out).Build()
		}
	}
	if err := os.Rename(bs.stageDir, out); err != nil {
		// Put the previous output back so a failed publish leaves it visible.
		if _, statErr := os.Stat(prev); statErr == nil {
			_ = os.Rename(prev, out)
		}
		return errors.FileSystemError("promote staging").WithCause(fmt.Errorf("%s: %w", bs.stageDir, err)).WithPath(out).Build()
	}
	bs.stageDir = ""
	if err := os.RemoveAll(prev); err != nil {
		log.Warn("Failed to remove previous backup", logfields.Path(prev), logfields.Error(err))
	}
	log.Info("Published output", logfields.Output(out))
	return nil
}

// abortStaging removes the staging directory after a failed build.
func (p *Pipeline) abortStaging(bs *buildState) {
	if bs.stageDir == "" {
		return
	}
	dir := bs.stageDir
	bs.stageDir = ""
	if err := os.RemoveAll(dir); err != nil {
		bs.bc.Logger.Warn("Failed to remove staging directory after abort", "staging", dir, logfields.Error(err))
		return
	}
	bs.bc.Logger.Debug("Removed staging directory after abort", "staging", dir)
}
