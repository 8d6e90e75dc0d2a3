// Package notify publishes build lifecycle events to NATS so downstream
// consumers (deployers, link dashboards) can react to finished builds.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/graph"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/retry"
)

const (
	flushTimeout      = 5 * time.Second
	brokenLinkSubject = ".broken_link"
)

// connectPolicy backs off between initial connection attempts.
var connectPolicy = func(retries int) retry.Policy {
	return retry.NewPolicy(retry.Exponential, 250*time.Millisecond, 5*time.Second, retries)
}

// Publisher is the subset of *nats.Conn used to send events.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type flusher interface {
	FlushTimeout(timeout time.Duration) error
}

// BuildEvent summarizes one finished build.
type BuildEvent struct {
	BuildID     string                 `json:"build_id"`
	Outcome     pipeline.BuildOutcome  `json:"outcome"`
	Start       time.Time              `json:"start"`
	End         time.Time              `json:"end"`
	DurationMS  int64                  `json:"duration_ms"`
	Discovered  int                    `json:"discovered"`
	Published   int                    `json:"published"`
	Filtered    int                    `json:"filtered"`
	Failed      int                    `json:"failed"`
	Artifacts   int                    `json:"artifacts"`
	BrokenLinks int                    `json:"broken_links"`
	Issues      []pipeline.ReportIssue `json:"issues,omitempty"`
}

// BrokenLinkEvent carries one unresolved link of a build.
type BrokenLinkEvent struct {
	BuildID string `json:"build_id"`
	graph.BrokenLink
}

// Notifier is a pipeline.BuildObserver that publishes a BuildEvent to its
// subject after every build and one BrokenLinkEvent per broken link to
// <subject>.broken_link. Publish failures are logged and never fail a build.
type Notifier struct {
	pipeline.NoopObserver

	pub     Publisher
	subject string
	logger  *slog.Logger
	conn    *nats.Conn
}

// New wraps an existing publisher.
func New(pub Publisher, subject string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{pub: pub, subject: subject, logger: logger}
}

// Connect dials the NATS server named in cfg, retrying the first connection
// cfg.ConnectRetries times. The returned Notifier owns the connection; call
// Close when done.
func Connect(ctx context.Context, cfg config.NotifyConfig, logger *slog.Logger) (*Notifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var conn *nats.Conn
	err := connectPolicy(cfg.ConnectRetries).Do(ctx, func() error {
		var err error
		conn, err = nats.Connect(cfg.URL,
			nats.Name("docgraph"),
			nats.Timeout(flushTimeout),
			nats.MaxReconnects(-1),
		)
		return err
	}, func(attempt int, delay time.Duration, err error) {
		logger.Warn("NATS connection failed; retrying", logfields.URL(cfg.URL),
			slog.Int("attempt", attempt), slog.Duration("delay", delay), logfields.Error(err))
	})
	if err != nil {
		return nil, errors.NetworkError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", cfg.URL).
			Build()
	}
	n := New(conn, cfg.Subject, logger)
	n.conn = conn
	n.logger.Debug("Connected to NATS", logfields.URL(cfg.URL), slog.String("subject", cfg.Subject))
	return n, nil
}

// Subject returns the subject build events are published on.
func (n *Notifier) Subject() string { return n.subject }

// OnBuildComplete publishes the build summary and its broken links.
func (n *Notifier) OnBuildComplete(report *pipeline.Report) {
	if report == nil {
		return
	}
	ev := NewBuildEvent(report)
	n.publish(n.subject, ev)
	for _, bl := range report.BrokenLinks {
		n.publish(n.subject+brokenLinkSubject, BrokenLinkEvent{BuildID: report.BuildID, BrokenLink: bl})
	}
	if f, ok := n.pub.(flusher); ok {
		if err := f.FlushTimeout(flushTimeout); err != nil {
			n.logger.Warn("Failed to flush build events", logfields.Error(err))
		}
	}
}

func (n *Notifier) publish(subject string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		n.logger.Warn("Failed to encode build event", logfields.Error(err))
		return
	}
	if err := n.pub.Publish(subject, data); err != nil {
		n.logger.Warn("Failed to publish build event", slog.String("subject", subject), logfields.Error(err))
		return
	}
	n.logger.Debug("Published build event", slog.String("subject", subject), slog.Int("bytes", len(data)))
}

// Close drains and closes an owned connection.
func (n *Notifier) Close() {
	if n.conn == nil {
		return
	}
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
	}
}

// NewBuildEvent converts a report into its wire form.
func NewBuildEvent(r *pipeline.Report) BuildEvent {
	return BuildEvent{
		BuildID:     r.BuildID,
		Outcome:     r.Outcome,
		Start:       r.Start,
		End:         r.End,
		DurationMS:  r.End.Sub(r.Start).Milliseconds(),
		Discovered:  r.Discovered,
		Published:   r.Published,
		Filtered:    r.Filtered,
		Failed:      r.Failed,
		Artifacts:   r.Artifacts,
		BrokenLinks: len(r.BrokenLinks),
		Issues:      r.Issues,
	}
}
