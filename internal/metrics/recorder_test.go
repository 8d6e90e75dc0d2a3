package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// testRecorder is a Recorder double that counts calls.
type testRecorder struct {
	mu             sync.Mutex
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	buildDurations int
	buildOutcomes  map[string]int
	documents      map[DocumentOutcome]int
	artifacts      map[string]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations: map[string]int{},
		stageResults:   map[string]map[ResultLabel]int{},
		buildOutcomes:  map[string]int{},
		documents:      map[DocumentOutcome]int{},
		artifacts:      map[string]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stageDurations[stage]++
}
func (t *testRecorder) ObserveBuildDuration(_ time.Duration) { t.buildDurations++ }
func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}
func (t *testRecorder) IncBuildOutcome(outcome string)                      { t.buildOutcomes[outcome]++ }
func (t *testRecorder) ObservePluginDuration(string, string, time.Duration) {}
func (t *testRecorder) AddDocumentOutcome(o DocumentOutcome, n int)         { t.documents[o] += n }
func (t *testRecorder) AddArtifacts(e string, n int)                        { t.artifacts[e] += n }
func (t *testRecorder) SetBrokenLinks(int)                                  {}

func TestRecorderInterfaces(t *testing.T) {
	var _ Recorder = NoopRecorder{}
	var _ Recorder = (*PrometheusRecorder)(nil)
	var _ Recorder = newTestRecorder()

	r := newTestRecorder()
	r.IncStageResult("emit", ResultWarning)
	r.AddDocumentOutcome(DocumentFailed, 2)
	assert.Equal(t, 1, r.stageResults["emit"][ResultWarning])
	assert.Equal(t, 2, r.documents[DocumentFailed])

	// A nil Prometheus recorder is inert.
	var p *PrometheusRecorder
	p.IncBuildOutcome("success")
	p.SetBrokenLinks(1)
}
