package pipeline

import (
	"context"
	stderrors "errors"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/docs"
	derrors "git.home.luguber.info/inful/docgraph/internal/docs/errors"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
)

// stageDiscover walks the content root and loads every markdown source.
func (p *Pipeline) stageDiscover(ctx context.Context, bs *buildState) error {
	d, err := docs.NewDiscovery(p.cfg.ContentDir, p.cfg.IgnorePatterns, OutputDirs(p.cfg.OutputDir)...)
	if err != nil {
		if stderrors.Is(err, derrors.ErrInvalidIgnorePattern) {
			return errors.ConfigError("invalid ignore pattern").WithCause(err).Build()
		}
		return errors.FileSystemError("cannot resolve content root").WithCause(err).WithPath(p.cfg.ContentDir).Build()
	}
	files, err := d.Discover(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.FileSystemError("cannot read source tree").WithCause(err).WithPath(d.Root()).Build()
	}
	bs.docFiles, bs.assets = docs.Split(files)
	bs.bc.ContentDir = d.Root()

	bs.docs = make([]*docmodel.Document, 0, len(bs.docFiles))
	for _, f := range bs.docFiles {
		raw, err := f.Load()
		if err != nil {
			return errors.FileSystemError("cannot read source file").WithCause(err).WithPath(f.AbsPath).Build()
		}
		bs.docs = append(bs.docs, docmodel.New(f.RelPath, f.AbsPath, raw, f.ModTime))
	}
	bs.report.Discovered = len(bs.docs)
	bs.report.Assets = len(bs.assets)
	bs.bc.Logger.Info("Discovered content", logfields.Count(len(bs.docs)), "assets", len(bs.assets))
	return nil
}
