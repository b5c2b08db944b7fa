package metrics

import "time"

// ResultLabel enumerates per-item results of a pipeline step.
type ResultLabel string

const (
	ResultProcessed ResultLabel = "processed"
	ResultSkipped   ResultLabel = "skipped"
)

// OutcomeLabel enumerates run outcomes.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeFailed  OutcomeLabel = "failed"
)

// Recorder defines observability hooks for aggregation runs.
type Recorder interface {
	ObserveStepDuration(step string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncItemResult(step string, result ResultLabel)
	IncRunOutcome(outcome OutcomeLabel)
	SetLastRun(t time.Time)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStepDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)          {}
func (NoopRecorder) IncItemResult(string, ResultLabel)         {}
func (NoopRecorder) IncRunOutcome(OutcomeLabel)                {}
func (NoopRecorder) SetLastRun(time.Time)                      {}
