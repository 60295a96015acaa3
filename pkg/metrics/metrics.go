// Package metrics records evaluation and outcome statistics for
// the matcher engine.
package metrics

import "time"

// Recorder defines the interface for recording matcher engine
// metrics.
type Recorder interface {
	// RecordEvaluation records one matcher evaluation.
	RecordEvaluation(matcher string, matched bool, duration time.Duration)
	// RecordFailure records one assertion failure.
	RecordFailure(fatal bool)
	// RecordVerdict records a closed outcome.
	RecordVerdict(failed bool, failures int)
	// SetActiveOutcomes sets the gauge of open outcomes.
	SetActiveOutcomes(count int)
}

// NoopMetrics is a no-op implementation of Recorder useful for
// testing or when metrics collection is disabled.
type NoopMetrics struct{}

func (NoopMetrics) RecordEvaluation(_ string, _ bool, _ time.Duration) {}
func (NoopMetrics) RecordFailure(_ bool)                               {}
func (NoopMetrics) RecordVerdict(_ bool, _ int)                        {}
func (NoopMetrics) SetActiveOutcomes(_ int)                            {}
