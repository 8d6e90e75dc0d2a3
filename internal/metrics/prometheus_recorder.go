package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docgraph"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg            *prom.Registry
	stageDuration  *prom.HistogramVec
	buildDuration  prom.Histogram
	stageResults   *prom.CounterVec
	buildOutcome   *prom.CounterVec
	pluginDuration *prom.HistogramVec
	documents      *prom.CounterVec
	artifacts      *prom.CounterVec
	brokenLinks    prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual build stages",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "build_duration_seconds",
		Help:      "Total build duration",
		Buckets:   prom.DefBuckets,
	})
	pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "stage_results_total",
		Help:      "Stage result counts by outcome",
	}, []string{"stage", "result"})
	pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "build_outcomes_total",
		Help:      "Build outcomes by final status",
	}, []string{"outcome"})
	pr.pluginDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "plugin_duration_seconds",
		Help:      "Time spent inside transformers, filters and emitters",
		Buckets:   prom.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"kind", "plugin"})
	pr.documents = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "documents_total",
		Help:      "Source documents by outcome",
	}, []string{"outcome"})
	pr.artifacts = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "artifacts_total",
		Help:      "Artifacts produced per emitter",
	}, []string{"emitter"})
	pr.brokenLinks = prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "broken_links",
		Help:      "Unresolved links in the last build",
	})
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.pluginDuration, pr.documents, pr.artifacts, pr.brokenLinks)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) ObservePluginDuration(kind, plugin string, d time.Duration) {
	if p == nil {
		return
	}
	p.pluginDuration.WithLabelValues(kind, plugin).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddDocumentOutcome(outcome DocumentOutcome, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.documents.WithLabelValues(string(outcome)).Add(float64(n))
}

func (p *PrometheusRecorder) AddArtifacts(emitter string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.artifacts.WithLabelValues(emitter).Add(float64(n))
}

func (p *PrometheusRecorder) SetBrokenLinks(n int) {
	if p == nil {
		return
	}
	p.brokenLinks.Set(float64(n))
}

// WriteTextfile writes the current metrics in the text exposition format to
// path, for the node exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}
