package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// DocumentOutcome enumerates what happened to one source document.
type DocumentOutcome string

const (
	DocumentEmitted  DocumentOutcome = "emitted"
	DocumentFiltered DocumentOutcome = "filtered"
	DocumentFailed   DocumentOutcome = "failed"
)

// Recorder defines observability hooks for build, stage and plugin metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome string) // outcome: success|warning|failed|canceled
	ObservePluginDuration(kind, plugin string, d time.Duration)
	AddDocumentOutcome(outcome DocumentOutcome, n int)
	AddArtifacts(emitter string, n int)
	SetBrokenLinks(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)          {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)                  {}
func (NoopRecorder) IncStageResult(string, ResultLabel)                  {}
func (NoopRecorder) IncBuildOutcome(string)                              {}
func (NoopRecorder) ObservePluginDuration(string, string, time.Duration) {}
func (NoopRecorder) AddDocumentOutcome(DocumentOutcome, int)             {}
func (NoopRecorder) AddArtifacts(string, int)                            {}
func (NoopRecorder) SetBrokenLinks(int)                                  {}
