package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// jsonMarshal is replaceable in tests.
var jsonMarshal = json.Marshal

// HistoricalEntry represents a single suite run in the
// historical log.
type HistoricalEntry struct {
	Timestamp        time.Time `json:"timestamp"`
	Suite            string    `json:"suite"`
	InvocationID     string    `json:"invocation_id"`
	Status           string    `json:"status"`
	Duration         string    `json:"duration"`
	AssertionsPassed int       `json:"assertions_passed"`
	AssertionsTotal  int       `json:"assertions_total"`
	Failures         int       `json:"failures"`
	ReportPath       string    `json:"report_path,omitempty"`
}

// AppendToHistory adds an entry for run to the historical log
// stored at historyPath. Each entry is a single JSON line.
func AppendToHistory(historyPath string, run *Run, reportPath string) error {
	entry := HistoricalEntry{
		Timestamp:        run.EndTime,
		Suite:            run.Suite,
		InvocationID:     run.Verdict.ID,
		Status:           run.Status,
		Duration:         run.Verdict.Duration.String(),
		AssertionsPassed: run.PassedCount(),
		AssertionsTotal:  len(run.Results),
		Failures:         len(run.Verdict.All()),
		ReportPath:       reportPath,
	}

	data, err := jsonMarshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	file, err := os.OpenFile(historyPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() { _ = file.Close() }()

	_, err = fmt.Fprintln(file, string(data))
	return err
}
