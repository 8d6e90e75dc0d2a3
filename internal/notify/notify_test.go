package notify

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/graph"
	"git.home.luguber.info/inful/docgraph/internal/paths"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/retry"
)

type message struct {
	subject string
	data    []byte
}

type recordingPublisher struct {
	msgs    []message
	err     error
	flushed int
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, message{subject: subject, data: data})
	return nil
}

func (p *recordingPublisher) FlushTimeout(time.Duration) error {
	p.flushed++
	return nil
}

func sampleReport() *pipeline.Report {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &pipeline.Report{
		BuildID:    "b-1",
		Start:      start,
		End:        start.Add(1500 * time.Millisecond),
		Discovered: 4,
		Published:  3,
		Filtered:   1,
		Artifacts:  9,
		Outcome:    pipeline.OutcomeWarning,
		BrokenLinks: []graph.BrokenLink{
			{Source: "a", Path: "a.md", Target: "missing", Reason: graph.ReasonDangling},
			{Source: "b", Path: "b.md", Target: "dup", Reason: graph.ReasonAmbiguous, Candidates: []paths.FullSlug{"x/dup", "y/dup"}},
		},
	}
}

func TestOnBuildComplete_PublishesSummaryAndBrokenLinks(t *testing.T) {
	pub := &recordingPublisher{}
	n := New(pub, "docgraph.builds", nil)

	n.OnBuildComplete(sampleReport())

	require.Len(t, pub.msgs, 3)
	assert.Equal(t, "docgraph.builds", pub.msgs[0].subject)
	assert.Equal(t, "docgraph.builds.broken_link", pub.msgs[1].subject)
	assert.Equal(t, 1, pub.flushed)

	var ev BuildEvent
	require.NoError(t, json.Unmarshal(pub.msgs[0].data, &ev))
	assert.Equal(t, "b-1", ev.BuildID)
	assert.Equal(t, pipeline.OutcomeWarning, ev.Outcome)
	assert.Equal(t, int64(1500), ev.DurationMS)
	assert.Equal(t, 3, ev.Published)
	assert.Equal(t, 2, ev.BrokenLinks)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(pub.msgs[2].data, &raw))
	assert.Equal(t, "b-1", raw["build_id"])
	assert.Equal(t, "dup", raw["target"])
	assert.Equal(t, "ambiguous", raw["reason"])
	assert.Len(t, raw["candidates"], 2)
}

func TestOnBuildComplete_PublishErrorIsSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: stderrors.New("no responders")}
	n := New(pub, "s", nil)

	assert.NotPanics(t, func() { n.OnBuildComplete(sampleReport()) })
	assert.Empty(t, pub.msgs)
}

func TestNotifierIgnoresStagesAndNilReport(t *testing.T) {
	pub := &recordingPublisher{}
	n := New(pub, "s", nil)

	var obs pipeline.BuildObserver = n
	obs.OnStageStart(pipeline.StageTransform)
	obs.OnStageComplete(pipeline.StageTransform, time.Second, pipeline.StageResultSuccess)
	obs.OnBuildComplete(nil)

	assert.Empty(t, pub.msgs)
	assert.Equal(t, "s", n.Subject())
	n.Close()
}

func TestConnect_Unreachable(t *testing.T) {
	orig := connectPolicy
	t.Cleanup(func() { connectPolicy = orig })
	attempts := 0
	connectPolicy = func(retries int) retry.Policy {
		attempts = retries
		return retry.NewPolicy(retry.Fixed, time.Millisecond, time.Millisecond, retries)
	}

	_, err := Connect(context.Background(), config.NotifyConfig{URL: "nats://127.0.0.1:1", Subject: "s", ConnectRetries: 2}, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNetwork))
	assert.Equal(t, 2, attempts)
}
