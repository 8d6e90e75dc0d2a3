package pipeline

import (
	"context"
	"log/slog"
	"runtime"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/docs"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
	"git.home.luguber.info/inful/docgraph/internal/metrics"
	"git.home.luguber.info/inful/docgraph/internal/render"
)

// Options configures a Pipeline.
type Options struct {
	Config       *config.Config
	Transformers []Transformer
	Filters      []Filter
	// Emitters must implement DocumentEmitter, CollectionEmitter or both.
	Emitters []Plugin
	// Renderer lays out HTML pages; defaults to render.New(Config).
	Renderer  render.Renderer
	Recorder  metrics.Recorder
	Observers []BuildObserver
	Logger    *slog.Logger
}

// Pipeline runs builds for one configuration. A Pipeline may run many builds
// sequentially (watch mode) but not concurrently.
type Pipeline struct {
	cfg          *config.Config
	transformers []Transformer
	filters      []Filter
	emitters     []Plugin
	renderer     render.Renderer
	recorder     metrics.Recorder
	observer     BuildObserver
	logger       *slog.Logger
	workers      int
}

// Result is the in-memory outcome of Plan.
type Result struct {
	Report    *Report
	Site      *Site
	Artifacts []Artifact
}

// buildState is the mutable state threaded through the stages of one build.
type buildState struct {
	bc     *BuildContext
	report *Report

	docFiles []docs.File
	assets   []docs.File
	docs     []*docmodel.Document

	site      *Site
	artifacts []Artifact
	stageDir  string
}

// New validates the plugin chain and returns a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Config == nil {
		return nil, errors.ConfigError("pipeline requires a configuration").Build()
	}
	for _, e := range opts.Emitters {
		_, isDoc := e.(DocumentEmitter)
		_, isColl := e.(CollectionEmitter)
		if !isDoc && !isColl {
			return nil, errors.ConfigError("emitter implements neither DocumentEmitter nor CollectionEmitter").
				WithContext("plugin", e.Name()).Build()
		}
	}

	p := &Pipeline{
		cfg:          opts.Config,
		transformers: opts.Transformers,
		filters:      opts.Filters,
		emitters:     opts.Emitters,
		renderer:     opts.Renderer,
		recorder:     opts.Recorder,
		logger:       opts.Logger,
		workers:      opts.Config.Build.Workers,
	}
	if p.recorder == nil {
		p.recorder = metrics.NoopRecorder{}
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.workers <= 0 {
		p.workers = runtime.NumCPU()
	}
	if p.renderer == nil {
		r, err := render.New(opts.Config)
		if err != nil {
			return nil, err
		}
		p.renderer = r
	}
	observers := multiObserver{recorderObserver{rec: p.recorder}}
	observers = append(observers, opts.Observers...)
	p.observer = observers
	return p, nil
}

func (p *Pipeline) newBuildState() *buildState {
	report := newReport()
	return &buildState{
		report: report,
		bc: &BuildContext{
			BuildID:    report.BuildID,
			Config:     p.cfg,
			ContentDir: p.cfg.ContentDir,
			Logger:     p.logger.With(logfields.BuildID(report.BuildID)),
			DateType:   docmodel.DateType(p.cfg.DefaultDateType),
		},
	}
}

func (p *Pipeline) planStages() []StageDef {
	return []StageDef{
		{StageDiscover, p.stageDiscover},
		{StagePrepare, p.stagePrepare},
		{StageTransform, p.stageTransform},
		{StageFilter, p.stageFilter},
		{StageGraph, p.stageGraph},
		{StageEmit, p.stageEmit},
	}
}

// Plan runs every stage up to and including Emit and returns the artifacts
// without touching the output directory.
func (p *Pipeline) Plan(ctx context.Context) (*Result, error) {
	bs := p.newBuildState()
	err := p.runStages(ctx, bs, p.planStages())
	bs.report.finish()
	return &Result{Report: bs.report, Site: bs.site, Artifacts: bs.artifacts}, err
}

// Build runs a full build and publishes the output atomically. On failure or
// cancellation the previous output stays in place.
func (p *Pipeline) Build(ctx context.Context) (*Report, error) {
	bs := p.newBuildState()
	stages := append(p.planStages(),
		StageDef{StageWrite, p.stageWrite},
		StageDef{StagePublish, p.stagePublish},
	)
	log := bs.bc.Logger
	log.Info("Build started", logfields.Output(p.cfg.OutputDir))

	err := p.runStages(ctx, bs, stages)
	if err != nil {
		p.abortStaging(bs)
	}
	bs.report.finish()

	if err == nil && p.cfg.Build.ReportEnabled() {
		if perr := bs.report.Persist(p.cfg.OutputDir); perr != nil {
			log.Warn("Failed to persist build report", logfields.Error(perr))
		}
	}
	p.observer.OnBuildComplete(bs.report)

	if err != nil {
		log.Error("Build failed", logfields.Error(err), slog.String("outcome", string(bs.report.Outcome)))
		return bs.report, err
	}
	log.Info("Build completed", slog.String("summary", bs.report.Summary()))
	return bs.report, nil
}
