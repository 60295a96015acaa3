package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	passColor = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	faint     = color.New(color.FgHiBlack)
)

// ConsoleReporter renders runs for a terminal: one line per
// assertion followed by the full report of every failure.
type ConsoleReporter struct {
	verbose bool
}

// ConsoleReporterOption configures a ConsoleReporter.
type ConsoleReporterOption func(*ConsoleReporter)

// WithVerbose lists passing assertions as well as failing ones.
func WithVerbose(verbose bool) ConsoleReporterOption {
	return func(r *ConsoleReporter) {
		r.verbose = verbose
	}
}

// WithNoColor disables colored output globally. Colors are
// already off when the output is not a terminal.
func WithNoColor(noColor bool) ConsoleReporterOption {
	return func(_ *ConsoleReporter) {
		if noColor {
			color.NoColor = true
		}
	}
}

// NewConsoleReporter creates a console reporter.
func NewConsoleReporter(opts ...ConsoleReporterOption) *ConsoleReporter {
	r := &ConsoleReporter{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GenerateReport renders a single run.
func (r *ConsoleReporter) GenerateReport(run *Run) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, run); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes a single run to w.
func (r *ConsoleReporter) WriteReport(w io.Writer, run *Run) error {
	fmt.Fprintf(w, "%s %s %s\n",
		statusLabel(run.Status), run.Suite,
		faint.Sprintf("(%d/%d passed, %v)",
			run.PassedCount(), len(run.Results), run.Verdict.Duration),
	)

	for i, a := range run.Results {
		if a.Passed && !r.verbose {
			continue
		}
		mark := passColor.Sprint("ok  ")
		if !a.Passed {
			mark = failColor.Sprint("FAIL")
		}
		fmt.Fprintf(w, "  %s #%d %s %s\n", mark, i, a.Type, faint.Sprint(a.Target))
	}

	for i, f := range run.Verdict.All() {
		kind := "failure"
		if f.Fatal {
			kind = "fatal failure"
		}
		fmt.Fprintf(w, "\n  %s\n", failColor.Sprintf("[%d] %s", i+1, kind))
		for _, line := range strings.Split(f.Error(), "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
	return nil
}

// GenerateMasterSummary renders one line per run and the totals.
func (r *ConsoleReporter) GenerateMasterSummary(runs []*Run) ([]byte, error) {
	var buf bytes.Buffer
	summary := BuildMasterSummary(runs)

	for _, s := range summary.Suites {
		fmt.Fprintf(&buf, "%s %s %s\n",
			statusLabel(s.Status), s.Suite,
			faint.Sprintf("(%d failures, %v)", s.Failures, s.Duration),
		)
	}
	fmt.Fprintf(&buf, "\n%d suites, %d passed, %d failed\n",
		summary.TotalSuites, summary.PassedSuites, summary.FailedSuites)
	return buf.Bytes(), nil
}

func statusLabel(status string) string {
	if status == StatusPassed {
		return passColor.Sprint("PASS")
	}
	return failColor.Sprint("FAIL")
}
