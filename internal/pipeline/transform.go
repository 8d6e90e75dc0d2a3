package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
	"git.home.luguber.info/inful/docgraph/internal/markdown"
	"git.home.luguber.info/inful/docgraph/internal/paths"
)

// stagePrepare builds the shared markdown engine and lets plugins load build
// wide state.
func (p *Pipeline) stagePrepare(ctx context.Context, bs *buildState) error {
	var exts []goldmark.Extender
	for _, t := range p.transformers {
		if me, ok := t.(MarkdownExtender); ok {
			exts = append(exts, me.MarkdownExtensions()...)
		}
	}
	bs.bc.Markdown = markdown.New(exts...)

	for _, pl := range p.allPlugins() {
		prep, ok := pl.(Preparer)
		if !ok {
			continue
		}
		if err := prep.Prepare(ctx, bs.bc); err != nil {
			if errors.IsClassified(err) {
				return err
			}
			return errors.BuildError("plugin preparation failed").WithCause(err).
				WithContext("plugin", pl.Name()).Build()
		}
	}
	return nil
}

func (p *Pipeline) allPlugins() []Plugin {
	out := make([]Plugin, 0, len(p.transformers)+len(p.filters)+len(p.emitters))
	for _, t := range p.transformers {
		out = append(out, t)
	}
	for _, f := range p.filters {
		out = append(out, f)
	}
	return append(out, p.emitters...)
}

type transformOutcome struct {
	doc *docmodel.Document
	err error
}

// stageTransform runs the transformer chain for every document on the worker
// pool. Under the isolate policy a failing document is excluded and reported;
// under abort the first failure fails the build.
func (p *Pipeline) stageTransform(ctx context.Context, bs *buildState) error {
	abort := p.cfg.Build.FailurePolicy == config.FailureAbort
	outcomes := make([]transformOutcome, len(bs.docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, doc := range bs.docs {
		g.Go(func() error {
			out, err := p.transformOne(gctx, bs.bc, doc)
			if err != nil && (abort || isCanceled(err)) {
				return err
			}
			outcomes[i] = transformOutcome{doc: out, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	survivors := make([]*docmodel.Document, 0, len(outcomes))
	for i, o := range outcomes {
		if o.err != nil {
			p.isolate(bs, StageTransform, bs.docs[i].Path, o.err)
			continue
		}
		survivors = append(survivors, o.doc)
	}

	survivors, err := p.rejectSlugCollisions(bs, survivors, abort)
	if err != nil {
		return err
	}
	bs.docs = survivors
	return nil
}

// transformOne applies every transformer to a fresh clone of the previous snapshot.
func (p *Pipeline) transformOne(ctx context.Context, bc *BuildContext, doc *docmodel.Document) (*docmodel.Document, error) {
	cur := doc
	for _, t := range p.transformers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := cur.Clone()
		t0 := time.Now()
		out, err := t.Transform(ctx, bc, next)
		p.recorder.ObservePluginDuration("transformer", t.Name(), time.Since(t0))
		if err != nil {
			if isCanceled(err) {
				return nil, err
			}
			return nil, documentError(err, "transformer failed", doc.Path, t.Name())
		}
		if out == nil {
			out = next
		}
		cur = out
	}
	return cur, nil
}

// rejectSlugCollisions keeps the first document (in path order) per slug.
func (p *Pipeline) rejectSlugCollisions(bs *buildState, docs []*docmodel.Document, abort bool) ([]*docmodel.Document, error) {
	owner := make(map[paths.FullSlug]string, len(docs))
	out := docs[:0]
	for _, d := range docs {
		if first, taken := owner[d.Slug]; taken {
			err := errors.DocumentError("slug collision").
				WithCause(ErrSlugCollision).
				WithPath(d.Path).
				WithContext("slug", string(d.Slug)).
				WithContext("owner", first).
				Build()
			if abort {
				return nil, err
			}
			p.isolate(bs, StageTransform, d.Path, err)
			continue
		}
		owner[d.Slug] = d.Path
		out = append(out, d)
	}
	return out, nil
}

// isolate records a document scoped failure and excludes the document.
func (p *Pipeline) isolate(bs *buildState, stage StageName, path string, err error) {
	code := IssueDocumentFailed
	if stderrors.Is(err, ErrSlugCollision) {
		code = IssueSlugCollision
	}
	bs.report.Failed++
	bs.report.Excluded[path] = "error"
	bs.report.AddIssue(code, stage, SeverityWarning, path, err.Error(), err)
	bs.bc.Logger.Warn("Document excluded after error", logfields.Path(path), logfields.Error(err))
}

func documentError(err error, msg, path, plugin string) error {
	if ce, ok := errors.AsClassified(err); ok {
		if _, has := ce.Context().Get("path"); !has {
			ce = ce.WithContext("path", path)
		}
		return ce.WithContext("plugin", plugin)
	}
	return errors.DocumentError(msg).WithCause(err).WithPath(path).WithContext("plugin", plugin).Build()
}
