package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"time"
)

// HTMLReporter generates HTML reports from suite runs.
type HTMLReporter struct{}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{}
}

// GenerateReport creates an HTML report for a single run.
func (r *HTMLReporter) GenerateReport(run *Run) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, run); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes an HTML report to the specified writer.
func (r *HTMLReporter) WriteReport(w io.Writer, run *Run) error {
	title := "Suite Report: " + run.Suite
	writeHeader(w, title)

	fmt.Fprintf(w, "<h1>%s</h1>\n", html.EscapeString(title))
	fmt.Fprintf(w, "<p><strong>Invocation ID:</strong> %s</p>\n",
		html.EscapeString(run.Verdict.ID))
	fmt.Fprintf(w, "<p><strong>Generated:</strong> %s</p>\n",
		run.EndTime.Format(time.RFC3339))

	writeSummaryTable(w, run)
	writeAssertionsSection(w, run)
	writeFailuresSection(w, run)

	writeFooter(w)
	return nil
}

func statusClass(status string) string {
	if status == StatusPassed {
		return "status-passed"
	}
	return "status-failed"
}

func writeSummaryTable(w io.Writer, run *Run) {
	fmt.Fprintln(w, "<h2>Summary</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(w,
		"<tr><td>Status</td><td class=\"%s\"><strong>%s</strong></td></tr>\n",
		statusClass(run.Status), strings.ToUpper(run.Status),
	)
	fmt.Fprintf(w, "<tr><td>Start Time</td><td>%s</td></tr>\n",
		run.Verdict.Started.Format(time.RFC3339))
	fmt.Fprintf(w, "<tr><td>Duration</td><td>%v</td></tr>\n",
		run.Verdict.Duration)
	fmt.Fprintf(w, "<tr><td>Failures</td><td>%d</td></tr>\n",
		len(run.Verdict.All()))
	if run.Verdict.Fatal != nil {
		fmt.Fprintln(w,
			"<tr><td>Stopped</td><td class=\"status-failed\">at a fatal failure</td></tr>")
	}
	fmt.Fprintln(w, "</table>")
}

func writeAssertionsSection(w io.Writer, run *Run) {
	if len(run.Results) == 0 {
		return
	}

	fmt.Fprintln(w, "<h2>Assertions</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w,
		"<tr><th>Type</th><th>Target</th><th>Passed</th><th>Expected</th></tr>")

	for _, a := range run.Results {
		passed, cls := "No", "status-failed"
		if a.Passed {
			passed, cls = "Yes", "status-passed"
		}
		fmt.Fprintf(w,
			"<tr><td>%s</td><td>%s</td><td class=\"%s\">%s</td><td>%s</td></tr>\n",
			html.EscapeString(a.Type),
			html.EscapeString(a.Target),
			cls, passed,
			html.EscapeString(a.Expected),
		)
	}
	fmt.Fprintln(w, "</table>")

	total := len(run.Results)
	passed := run.PassedCount()
	fmt.Fprintf(w, "<p><strong>Pass Rate:</strong> %d/%d (%.0f%%)</p>\n",
		passed, total, float64(passed)/float64(total)*100)
}

func writeFailuresSection(w io.Writer, run *Run) {
	all := run.Verdict.All()
	if len(all) == 0 {
		return
	}

	fmt.Fprintln(w, "<h2>Failures</h2>")
	for i, f := range all {
		label := "Failure"
		if f.Fatal {
			label = "Fatal failure"
		}
		fmt.Fprintf(w, "<h3>%s %d</h3>\n", label, i+1)
		fmt.Fprintf(w, "<pre>%s</pre>\n", html.EscapeString(f.Error()))
	}
}

// GenerateMasterSummary creates an HTML summary of all runs.
func (r *HTMLReporter) GenerateMasterSummary(runs []*Run) ([]byte, error) {
	var buf bytes.Buffer
	summary := BuildMasterSummary(runs)

	writeHeader(&buf, "Matcher Suites - Master Summary")
	fmt.Fprintln(&buf, "<h1>Matcher Suites - Master Summary</h1>")
	fmt.Fprintf(&buf, "<p><strong>Generated:</strong> %s</p>\n",
		summary.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintln(&buf, "<h2>Overview</h2>")
	fmt.Fprintln(&buf, "<table>")
	fmt.Fprintln(&buf,
		"<tr><th>Suite</th><th>Status</th><th>Duration</th><th>Assertions</th><th>Failures</th></tr>")
	for _, s := range summary.Suites {
		fmt.Fprintf(&buf,
			"<tr><td>%s</td><td class=\"%s\">%s</td><td>%v</td><td>%d/%d</td><td>%d</td></tr>\n",
			html.EscapeString(s.Suite),
			statusClass(s.Status), strings.ToUpper(s.Status),
			s.Duration, s.AssertionsPassed, s.AssertionsTotal, s.Failures,
		)
	}
	fmt.Fprintln(&buf, "</table>")

	fmt.Fprintln(&buf, "<h2>Statistics</h2>")
	fmt.Fprintln(&buf, "<table>")
	fmt.Fprintln(&buf, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(&buf, "<tr><td>Total Suites</td><td>%d</td></tr>\n", summary.TotalSuites)
	fmt.Fprintf(&buf, "<tr><td>Passed</td><td>%d</td></tr>\n", summary.PassedSuites)
	fmt.Fprintf(&buf, "<tr><td>Failed</td><td>%d</td></tr>\n", summary.FailedSuites)
	if summary.TotalSuites > 0 {
		fmt.Fprintf(&buf, "<tr><td>Pass Rate</td><td>%.0f%%</td></tr>\n",
			summary.AveragePassRate*100)
	}
	fmt.Fprintf(&buf, "<tr><td>Total Duration</td><td>%v</td></tr>\n", summary.TotalDuration)
	fmt.Fprintln(&buf, "</table>")

	writeFooter(&buf)
	return buf.Bytes(), nil
}

func writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>%s</title>
<style>
body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  max-width: 960px;
  margin: 0 auto;
  padding: 20px;
  color: #333;
}
h1 { border-bottom: 2px solid #3498db; padding-bottom: 10px; }
table { border-collapse: collapse; width: 100%%; margin: 10px 0; }
th, td { border: 1px solid #ddd; padding: 6px 10px; text-align: left; }
th { background: #3498db; color: #fff; }
pre { background: #f4f4f4; padding: 10px; overflow-x: auto; }
.status-passed { color: #27ae60; font-weight: bold; }
.status-failed { color: #e74c3c; font-weight: bold; }
footer { margin-top: 40px; color: #7f8c8d; font-size: 0.9em; }
</style>
</head>
<body>
`, html.EscapeString(title))
}

func writeFooter(w io.Writer) {
	fmt.Fprintln(w, "<footer><p>Generated by matchcheck</p></footer>")
	fmt.Fprintln(w, "</body>")
	fmt.Fprintln(w, "</html>")
}
