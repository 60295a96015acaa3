package report

import (
	"encoding/json"
	"io"
	"time"
)

// JSONReporter generates JSON reports from suite runs.
type JSONReporter struct {
	pretty bool
}

// NewJSONReporter creates a new JSON reporter. When pretty is
// true, output is indented for readability.
func NewJSONReporter(pretty bool) *JSONReporter {
	return &JSONReporter{pretty: pretty}
}

func (r *JSONReporter) marshal(v any) ([]byte, error) {
	if r.pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// GenerateReport creates a JSON report for a single run.
func (r *JSONReporter) GenerateReport(run *Run) ([]byte, error) {
	return r.marshal(run)
}

// jsonMasterSummary is the JSON structure for a master summary.
type jsonMasterSummary struct {
	GeneratedAt   time.Time     `json:"generated_at"`
	TotalSuites   int           `json:"total_suites"`
	Passed        int           `json:"passed"`
	Failed        int           `json:"failed"`
	TotalDuration time.Duration `json:"total_duration"`
	Runs          []*Run        `json:"runs"`
}

// GenerateMasterSummary creates a JSON summary of all runs.
func (r *JSONReporter) GenerateMasterSummary(runs []*Run) ([]byte, error) {
	summary := jsonMasterSummary{
		GeneratedAt: time.Now(),
		TotalSuites: len(runs),
		Runs:        runs,
	}

	for _, run := range runs {
		if run.Status == StatusPassed {
			summary.Passed++
		} else {
			summary.Failed++
		}
		summary.TotalDuration += run.Verdict.Duration
	}

	return r.marshal(summary)
}

// WriteReport writes a JSON report to the specified writer.
func (r *JSONReporter) WriteReport(w io.Writer, run *Run) error {
	data, err := r.GenerateReport(run)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
