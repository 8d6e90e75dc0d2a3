package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
)

// runStages executes stages in order, recording timing and stopping on the first error.
func (p *Pipeline) runStages(ctx context.Context, bs *buildState, stages []StageDef) error {
	log := bs.bc.Logger
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := newCanceledStageError(st.Name, err)
			bs.report.AddIssue(IssueCanceled, st.Name, SeverityError, "", se.Error(), se)
			bs.report.recordStageResult(st.Name, StageResultCanceled, p.recorder)
			p.observer.OnStageComplete(st.Name, 0, StageResultCanceled)
			return se
		}

		p.observer.OnStageStart(st.Name)
		warningsBefore := len(bs.report.Warnings)
		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		bs.report.StageDurations[string(st.Name)] = dur

		if err != nil {
			se := classifyStageError(st.Name, err)
			res := StageResultFatal
			if se.Kind == StageErrorCanceled {
				res = StageResultCanceled
			}
			bs.report.AddIssue(issueCodeFor(se), st.Name, SeverityError, "", se.Error(), se)
			bs.report.recordStageResult(st.Name, res, p.recorder)
			p.observer.OnStageComplete(st.Name, dur, res)
			return se
		}

		res := StageResultSuccess
		if len(bs.report.Warnings) > warningsBefore {
			res = StageResultWarning
		}
		bs.report.recordStageResult(st.Name, res, p.recorder)
		p.observer.OnStageComplete(st.Name, dur, res)
		log.Debug("Stage completed", logfields.Stage(string(st.Name)),
			logfields.DurationMS(float64(dur.Microseconds())/1000), "result", string(res))
	}
	return nil
}

func issueCodeFor(se *StageError) ReportIssueCode {
	switch {
	case se.Kind == StageErrorCanceled:
		return IssueCanceled
	case stderrors.Is(se, ErrDuplicateOutput):
		return IssueDuplicateOutput
	case se.Stage == StageDiscover:
		return IssueDiscoveryFailure
	case errors.HasCategory(se, errors.CategoryDocument):
		return IssueDocumentFailed
	case se.Stage == StageEmit:
		return IssueEmitFailure
	default:
		return IssueGenericStageError
	}
}
