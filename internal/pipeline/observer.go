package pipeline

import (
	"time"

	"git.home.luguber.info/inful/docgraph/internal/metrics"
)

// BuildObserver receives callbacks around stage execution and build lifecycle.
type BuildObserver interface {
	OnStageStart(stage StageName)
	OnStageComplete(stage StageName, duration time.Duration, result StageResult)
	OnBuildComplete(report *Report)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(StageName)                                {}
func (NoopObserver) OnStageComplete(StageName, time.Duration, StageResult) {}
func (NoopObserver) OnBuildComplete(*Report)                               {}

// recorderObserver adapts metrics.Recorder into a BuildObserver.
type recorderObserver struct{ rec metrics.Recorder }

func (r recorderObserver) OnStageStart(StageName) {}
func (r recorderObserver) OnStageComplete(stage StageName, d time.Duration, _ StageResult) {
	r.rec.ObserveStageDuration(string(stage), d)
}
func (r recorderObserver) OnBuildComplete(report *Report) {
	r.rec.ObserveBuildDuration(report.End.Sub(report.Start))
	r.rec.IncBuildOutcome(string(report.Outcome))
	r.rec.AddDocumentOutcome(metrics.DocumentEmitted, report.Published)
	r.rec.AddDocumentOutcome(metrics.DocumentFiltered, report.Filtered)
	r.rec.AddDocumentOutcome(metrics.DocumentFailed, report.Failed)
	r.rec.SetBrokenLinks(len(report.BrokenLinks))
}

// multiObserver fans callbacks out in order.
type multiObserver []BuildObserver

func (m multiObserver) OnStageStart(stage StageName) {
	for _, o := range m {
		o.OnStageStart(stage)
	}
}

func (m multiObserver) OnStageComplete(stage StageName, d time.Duration, res StageResult) {
	for _, o := range m {
		o.OnStageComplete(stage, d, res)
	}
}

func (m multiObserver) OnBuildComplete(report *Report) {
	for _, o := range m {
		o.OnBuildComplete(report)
	}
}
