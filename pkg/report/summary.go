package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var jsonMarshalIndent = json.MarshalIndent

// MasterSummary represents an aggregated summary of suite runs.
type MasterSummary struct {
	ID              string         `json:"id"`
	GeneratedAt     time.Time      `json:"generated_at"`
	Suites          []SuiteSummary `json:"suites"`
	TotalSuites     int            `json:"total_suites"`
	PassedSuites    int            `json:"passed_suites"`
	FailedSuites    int            `json:"failed_suites"`
	TotalFailures   int            `json:"total_failures"`
	TotalDuration   time.Duration  `json:"total_duration"`
	AveragePassRate float64        `json:"average_pass_rate"`
}

// SuiteSummary represents a summary of a single run.
type SuiteSummary struct {
	Suite            string        `json:"suite"`
	InvocationID     string        `json:"invocation_id"`
	Status           string        `json:"status"`
	Duration         time.Duration `json:"duration"`
	AssertionsPassed int           `json:"assertions_passed"`
	AssertionsTotal  int           `json:"assertions_total"`
	Failures         int           `json:"failures"`
	StoppedAtFatal   bool          `json:"stopped_at_fatal"`
}

// BuildMasterSummary creates a master summary from runs.
func BuildMasterSummary(runs []*Run) *MasterSummary {
	now := time.Now()
	summary := &MasterSummary{
		ID:          fmt.Sprintf("summary_%s", now.Format("20060102_150405")),
		GeneratedAt: now,
		Suites:      make([]SuiteSummary, 0, len(runs)),
	}

	for _, r := range runs {
		failures := len(r.Verdict.All())
		summary.Suites = append(summary.Suites, SuiteSummary{
			Suite:            r.Suite,
			InvocationID:     r.Verdict.ID,
			Status:           r.Status,
			Duration:         r.Verdict.Duration,
			AssertionsPassed: r.PassedCount(),
			AssertionsTotal:  len(r.Results),
			Failures:         failures,
			StoppedAtFatal:   r.Verdict.Fatal != nil,
		})
		summary.TotalSuites++
		summary.TotalFailures += failures
		summary.TotalDuration += r.Verdict.Duration

		if r.Status == StatusPassed {
			summary.PassedSuites++
		} else {
			summary.FailedSuites++
		}
	}

	if summary.TotalSuites > 0 {
		summary.AveragePassRate =
			float64(summary.PassedSuites) /
				float64(summary.TotalSuites)
	}

	return summary
}

// SaveMasterSummary saves the master summary to both JSON and
// Markdown files in the given output directory, and points
// latest_summary.{json,md} at them.
func SaveMasterSummary(summary *MasterSummary, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")

	jsonPath := filepath.Join(outputDir, fmt.Sprintf("master_summary_%s.json", ts))
	jsonData, err := jsonMarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0o644); err != nil {
		return fmt.Errorf("failed to write JSON summary: %w", err)
	}

	mdPath := filepath.Join(outputDir, fmt.Sprintf("master_summary_%s.md", ts))
	if err := os.WriteFile(mdPath, []byte(GenerateSummaryMarkdown(summary)), 0o644); err != nil {
		return fmt.Errorf("failed to write Markdown summary: %w", err)
	}

	latestJSON := filepath.Join(outputDir, "latest_summary.json")
	latestMD := filepath.Join(outputDir, "latest_summary.md")

	_ = os.Remove(latestJSON)
	_ = os.Remove(latestMD)
	_ = os.Symlink(filepath.Base(jsonPath), latestJSON)
	_ = os.Symlink(filepath.Base(mdPath), latestMD)

	return nil
}

// GenerateSummaryMarkdown renders a master summary as Markdown.
func GenerateSummaryMarkdown(summary *MasterSummary) string {
	var sb strings.Builder

	sb.WriteString("# Matcher Suites - Master Summary\n\n")
	fmt.Fprintf(&sb, "**Summary ID:** %s\n\n", summary.ID)
	fmt.Fprintf(&sb, "**Generated:** %s\n\n", summary.GeneratedAt.Format(time.RFC3339))

	sb.WriteString("## Overview\n\n")
	sb.WriteString("| Suite | Status | Duration | Assertions | Failures |\n")
	sb.WriteString("|-------|--------|----------|------------|----------|\n")

	for _, s := range summary.Suites {
		status := strings.ToUpper(s.Status)
		if s.StoppedAtFatal {
			status += " (fatal)"
		}
		fmt.Fprintf(&sb, "| %s | %s | %v | %d/%d | %d |\n",
			s.Suite, status, s.Duration,
			s.AssertionsPassed, s.AssertionsTotal, s.Failures,
		)
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Total Suites | %d |\n", summary.TotalSuites)
	fmt.Fprintf(&sb, "| Passed | %d |\n", summary.PassedSuites)
	fmt.Fprintf(&sb, "| Failed | %d |\n", summary.FailedSuites)
	fmt.Fprintf(&sb, "| Failures | %d |\n", summary.TotalFailures)
	fmt.Fprintf(&sb, "| Pass Rate | %.0f%% |\n", summary.AveragePassRate*100)
	fmt.Fprintf(&sb, "| Total Duration | %v |\n", summary.TotalDuration)

	sb.WriteString("\n---\n\n")
	sb.WriteString("*Generated by matchcheck*\n")

	return sb.String()
}
