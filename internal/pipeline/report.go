package pipeline

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docgraph/internal/graph"
	"git.home.luguber.info/inful/docgraph/internal/metrics"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// ReportIssueCode enumerates machine-parseable issue identifiers.
// These codes are a stable contract and should only be appended.
type ReportIssueCode string

const (
	IssueDiscoveryFailure  ReportIssueCode = "DISCOVERY_FAILURE"
	IssueDocumentFailed    ReportIssueCode = "DOCUMENT_FAILED"
	IssueSlugCollision     ReportIssueCode = "SLUG_COLLISION"
	IssueBrokenLink        ReportIssueCode = "BROKEN_LINK"
	IssueEmitFailure       ReportIssueCode = "EMIT_FAILURE"
	IssueDuplicateOutput   ReportIssueCode = "DUPLICATE_OUTPUT"
	IssueCanceled          ReportIssueCode = "BUILD_CANCELED"
	IssueGenericStageError ReportIssueCode = "GENERIC_STAGE_ERROR"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ReportIssue is a structured entry describing a discrete problem encountered.
type ReportIssue struct {
	Code     ReportIssueCode `json:"code"`
	Stage    StageName       `json:"stage"`
	Severity IssueSeverity   `json:"severity"`
	Message  string          `json:"message"`
	// Path is the source document for document scoped issues.
	Path string `json:"path,omitempty"`
}

// StageCount aggregates counts of outcomes for a stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// Report captures what one build did.
type Report struct {
	SchemaVersion int
	BuildID       string
	Start         time.Time
	End           time.Time

	// Discovered counts markdown sources; Assets counts everything else.
	Discovered int
	Assets     int
	// Failed documents hit a document scoped error and were excluded.
	Failed int
	// Filtered documents were excluded by a filter.
	Filtered int
	// Published documents survived Transform, Filter and Emit.
	Published int
	Artifacts int

	// Excluded maps source path to the filter name or "error" that removed it.
	Excluded    map[string]string
	BrokenLinks []graph.BrokenLink

	StageDurations map[string]time.Duration
	StageCounts    map[StageName]StageCount
	Issues         []ReportIssue
	Errors         []error // fatal errors causing build abortion
	Warnings       []error

	Outcome BuildOutcome
}

func newReport() *Report {
	return &Report{
		SchemaVersion:  1,
		BuildID:        uuid.NewString(),
		Start:          time.Now(),
		Excluded:       make(map[string]string),
		StageDurations: make(map[string]time.Duration),
		StageCounts:    make(map[StageName]StageCount),
	}
}

// AddIssue appends a structured issue and mirrors err into Errors or Warnings
// based on severity. Provide err=nil for purely informational issues.
func (r *Report) AddIssue(code ReportIssueCode, stage StageName, severity IssueSeverity, path, msg string, err error) {
	r.Issues = append(r.Issues, ReportIssue{Code: code, Stage: stage, Severity: severity, Message: msg, Path: path})
	if err == nil {
		return
	}
	switch severity {
	case SeverityError:
		r.Errors = append(r.Errors, err)
	case SeverityWarning:
		r.Warnings = append(r.Warnings, err)
	}
}

// recordStageResult updates counters and emits metrics.
func (r *Report) recordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	sc := r.StageCounts[stage]
	switch res {
	case StageResultSuccess:
		sc.Success++
	case StageResultWarning:
		sc.Warning++
	case StageResultFatal:
		sc.Fatal++
	case StageResultCanceled:
		sc.Canceled++
	}
	r.StageCounts[stage] = sc
	if recorder != nil {
		recorder.IncStageResult(string(stage), res.label())
	}
}

func (r *Report) finish() {
	if r.End.IsZero() {
		r.End = time.Now()
	}
	r.deriveOutcome()
}

// deriveOutcome sets Outcome from the recorded errors and warnings. Failed
// documents under the isolate policy count as warnings.
func (r *Report) deriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if stderrors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 || len(r.BrokenLinks) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("build=%s documents=%d published=%d filtered=%d failed=%d artifacts=%d broken_links=%d duration=%s outcome=%s",
		r.BuildID, r.Discovered, r.Published, r.Filtered, r.Failed, r.Artifacts, len(r.BrokenLinks),
		dur.Truncate(time.Millisecond), r.Outcome)
}

// Persist writes build-report.json and build-report.txt atomically into root
// (the published output directory, not staging).
func (r *Report) Persist(root string) error {
	if r.End.IsZero() {
		r.finish()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.serializable(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(root, ReportJSON), jb); err != nil {
		return fmt.Errorf("write report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(root, ReportText), []byte(r.Summary()+"\n")); err != nil {
		return fmt.Errorf("write report summary: %w", err)
	}
	return nil
}

// Report file names inside the output directory.
const (
	ReportJSON = "build-report.json"
	ReportText = "build-report.txt"
)

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReportSerializable mirrors Report with string errors for JSON output.
type ReportSerializable struct {
	SchemaVersion  int                      `json:"schema_version"`
	BuildID        string                   `json:"build_id"`
	Start          time.Time                `json:"start"`
	End            time.Time                `json:"end"`
	Discovered     int                      `json:"discovered"`
	Assets         int                      `json:"assets"`
	Failed         int                      `json:"failed"`
	Filtered       int                      `json:"filtered"`
	Published      int                      `json:"published"`
	Artifacts      int                      `json:"artifacts"`
	Excluded       map[string]string        `json:"excluded"`
	BrokenLinks    []graph.BrokenLink       `json:"broken_links"`
	StageDurations map[string]time.Duration `json:"stage_durations"`
	StageCounts    map[string]StageCount    `json:"stage_counts"`
	Issues         []ReportIssue            `json:"issues"`
	Errors         []string                 `json:"errors"`
	Warnings       []string                 `json:"warnings"`
	Outcome        BuildOutcome             `json:"outcome"`
}

func (r *Report) serializable() *ReportSerializable {
	stageCounts := make(map[string]StageCount, len(r.StageCounts))
	for k, v := range r.StageCounts {
		stageCounts[string(k)] = v
	}
	s := &ReportSerializable{
		SchemaVersion:  r.SchemaVersion,
		BuildID:        r.BuildID,
		Start:          r.Start,
		End:            r.End,
		Discovered:     r.Discovered,
		Assets:         r.Assets,
		Failed:         r.Failed,
		Filtered:       r.Filtered,
		Published:      r.Published,
		Artifacts:      r.Artifacts,
		Excluded:       r.Excluded,
		BrokenLinks:    r.BrokenLinks,
		StageDurations: r.StageDurations,
		StageCounts:    stageCounts,
		Issues:         r.Issues,
		Errors:         make([]string, len(r.Errors)),
		Warnings:       make([]string, len(r.Warnings)),
		Outcome:        r.Outcome,
	}
	if s.BrokenLinks == nil {
		s.BrokenLinks = []graph.BrokenLink{}
	}
	if s.Issues == nil {
		s.Issues = []ReportIssue{}
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	return s
}
