// Package report provides report generation for suite runs.
package report

import (
	"io"
	"time"

	"digital.vasic.matchers/pkg/assertion"
	"digital.vasic.matchers/pkg/outcome"
)

// Run statuses.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Run is the result of running one suite: the per-assertion
// results and the verdict of the outcome that recorded their
// failures.
type Run struct {
	Suite   string             `json:"suite"`
	Status  string             `json:"status"`
	Verdict outcome.Verdict    `json:"verdict"`
	Results []assertion.Result `json:"results"`
	EndTime time.Time          `json:"end_time"`
}

// NewRun creates a Run and derives its status from the verdict.
func NewRun(
	suite string,
	verdict outcome.Verdict,
	results []assertion.Result,
) *Run {
	status := StatusPassed
	if verdict.Failed {
		status = StatusFailed
	}
	return &Run{
		Suite:   suite,
		Status:  status,
		Verdict: verdict,
		Results: results,
		EndTime: verdict.Started.Add(verdict.Duration),
	}
}

// PassedCount returns the number of passing assertions.
func (r *Run) PassedCount() int {
	n := 0
	for _, a := range r.Results {
		if a.Passed {
			n++
		}
	}
	return n
}

// Reporter defines the interface for generating run reports.
type Reporter interface {
	// GenerateReport creates a report for a single run.
	GenerateReport(run *Run) ([]byte, error)

	// GenerateMasterSummary creates a summary of all runs.
	GenerateMasterSummary(runs []*Run) ([]byte, error)

	// WriteReport writes a report to the specified writer.
	WriteReport(w io.Writer, run *Run) error
}
