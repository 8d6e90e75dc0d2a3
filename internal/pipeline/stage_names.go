package pipeline

import "context"

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StageDiscover  StageName = "discover"
	StagePrepare   StageName = "prepare"
	StageTransform StageName = "transform"
	StageFilter    StageName = "filter"
	StageGraph     StageName = "graph"
	StageEmit      StageName = "emit"
	StageWrite     StageName = "write"
	StagePublish   StageName = "publish"
)

// Stage is one step of a build operating on the shared state.
type Stage func(ctx context.Context, bs *buildState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}
