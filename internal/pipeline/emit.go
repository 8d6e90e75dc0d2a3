package pipeline

import (
	"context"
	"path"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
)

// stageEmit runs the emitters in registration order, then checks the
// combined artifact set for invalid and duplicate output paths before
// anything is written.
//
// A document whose per document emitter fails under the isolate policy is
// excluded like a transform failure: the graph is rebuilt without it and
// every emitter runs again, so no page, listing, backlink, feed or index
// entry refers to it.
func (p *Pipeline) stageEmit(ctx context.Context, bs *buildState) error {
	for {
		all, counts, failed, err := p.emitAll(ctx, bs)
		if err != nil {
			return err
		}
		if len(failed) == 0 {
			for _, e := range p.emitters {
				p.recorder.AddArtifacts(e.Name(), counts[e.Name()])
			}
			if err := checkArtifacts(all); err != nil {
				return err
			}
			sort.SliceStable(all, func(i, j int) bool { return all[i].Path < all[j].Path })
			bs.artifacts = all
			bs.report.Artifacts = len(all)
			bs.bc.Logger.Info("Emitted artifacts", logfields.Count(len(all)))
			return nil
		}

		p.excludeEmitFailures(bs, failed)
		bs.bc.Logger.Info("Rebuilding graph without failed documents", logfields.Count(len(failed)))
		if err := p.stageGraph(ctx, bs); err != nil {
			return err
		}
	}
}

// emitFailure is a per document emitter error kept under the isolate policy.
type emitFailure struct {
	path   string
	plugin string
	err    error
}

// emitAll runs every emitter once over the current site. Failed documents
// are reported once each, at their first failing emitter.
func (p *Pipeline) emitAll(ctx context.Context, bs *buildState) ([]Artifact, map[string]int, []emitFailure, error) {
	var (
		all    []Artifact
		failed []emitFailure
	)
	seen := map[string]bool{}
	counts := make(map[string]int, len(p.emitters))
	for _, e := range p.emitters {
		t0 := time.Now()
		arts, failures, err := p.runEmitter(ctx, bs, e)
		p.recorder.ObservePluginDuration("emitter", e.Name(), time.Since(t0))
		if err != nil {
			return nil, nil, nil, err
		}
		for _, f := range failures {
			if !seen[f.path] {
				seen[f.path] = true
				failed = append(failed, f)
			}
		}
		for i := range arts {
			arts[i].Emitter = e.Name()
		}
		counts[e.Name()] = len(arts)
		all = append(all, arts...)
	}
	return all, counts, failed, nil
}

// excludeEmitFailures records the failed documents as excluded and removes
// them from the published set.
func (p *Pipeline) excludeEmitFailures(bs *buildState, failed []emitFailure) {
	drop := make(map[string]bool, len(failed))
	for _, f := range failed {
		drop[f.path] = true
		bs.report.Failed++
		bs.report.Published--
		bs.report.Excluded[f.path] = "error"
		bs.report.AddIssue(IssueEmitFailure, StageEmit, SeverityWarning, f.path, f.err.Error(), f.err)
		bs.bc.Logger.Warn("Document excluded after emitter error", logfields.Path(f.path),
			logfields.Plugin(f.plugin), logfields.Error(f.err))
	}
	kept := bs.docs[:0]
	for _, d := range bs.docs {
		if !drop[d.Path] {
			kept = append(kept, d)
		}
	}
	bs.docs = kept
}

func (p *Pipeline) runEmitter(ctx context.Context, bs *buildState, e Plugin) ([]Artifact, []emitFailure, error) {
	var (
		out      []Artifact
		failures []emitFailure
	)
	if de, ok := e.(DocumentEmitter); ok {
		arts, docFailures, err := p.emitDocuments(ctx, bs, de)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, arts...)
		failures = docFailures
	}
	if ce, ok := e.(CollectionEmitter); ok {
		arts, err := ce.EmitCollection(ctx, bs.site)
		if err != nil {
			if isCanceled(err) || errors.IsClassified(err) {
				return nil, nil, err
			}
			return nil, nil, errors.BuildError("emitter failed").WithCause(err).WithContext("plugin", e.Name()).Build()
		}
		out = append(out, arts...)
	}
	return out, failures, nil
}

// emitDocuments runs a DocumentEmitter over every document on the worker
// pool, keeping document order in the result. Document scoped failures are
// returned instead of aborting unless the failure policy is abort.
func (p *Pipeline) emitDocuments(ctx context.Context, bs *buildState, de DocumentEmitter) ([]Artifact, []emitFailure, error) {
	abort := p.cfg.Build.FailurePolicy == config.FailureAbort
	docs := bs.site.Documents
	results := make([][]Artifact, len(docs))
	errs := make([]error, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, d := range docs {
		g.Go(func() error {
			arts, err := de.EmitDocument(gctx, bs.site, d)
			if err == nil {
				results[i] = arts
				return nil
			}
			if isCanceled(err) {
				return err
			}
			err = documentError(err, "emitter failed", d.Path, de.Name())
			if abort || !errors.HasCategory(err, errors.CategoryDocument) {
				return err
			}
			errs[i] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		out      []Artifact
		failures []emitFailure
	)
	for i, arts := range results {
		if errs[i] != nil {
			failures = append(failures, emitFailure{path: docs[i].Path, plugin: de.Name(), err: errs[i]})
			continue
		}
		out = append(out, arts...)
	}
	return out, failures, nil
}

// checkArtifacts rejects unsafe output paths and paths claimed twice.
func checkArtifacts(arts []Artifact) error {
	owner := make(map[string]string, len(arts))
	for _, a := range arts {
		clean := path.Clean(a.Path)
		if a.Path == "" || clean != a.Path || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
			return errors.BuildError("invalid artifact path").
				WithContext("artifact", a.Path).
				WithContext("plugin", a.Emitter).
				Build()
		}
		if a.Data == nil && a.Source == "" {
			return errors.BuildError("artifact has neither data nor source").
				WithContext("artifact", a.Path).
				WithContext("plugin", a.Emitter).
				Build()
		}
		if prev, dup := owner[a.Path]; dup {
			return errors.ConfigError("two artifacts share an output path").
				WithCause(ErrDuplicateOutput).
				WithContext("artifact", a.Path).
				WithContext("first", prev).
				WithContext("second", a.Emitter).
				Build()
		}
		owner[a.Path] = a.Emitter
	}
	return nil
}
