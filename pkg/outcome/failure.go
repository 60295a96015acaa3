package outcome

import (
	"strings"
	"time"

	"digital.vasic.matchers/pkg/description"
	"digital.vasic.matchers/pkg/logging"
)

// Failure is one assertion failure. It implements error so a
// fatal failure can be propagated with an ordinary return.
type Failure struct {
	// Description is the full failure report.
	Description description.Description `json:"-"`

	Expression  string `json:"expression,omitempty"`
	Expected    string `json:"expected"`
	Actual      string `json:"actual"`
	Explanation string `json:"explanation,omitempty"`

	// Message is an optional caller-supplied message.
	Message string `json:"message,omitempty"`

	// Context is an opaque source-context token supplied by the
	// caller, for example "file.go:42".
	Context string `json:"context,omitempty"`

	Fatal bool `json:"fatal"`

	RecordedAt time.Time `json:"recorded_at"`
}

// Error renders the failure report followed by the message and
// the context token.
func (f *Failure) Error() string {
	var sb strings.Builder
	sb.WriteString(f.Description.String())
	if f.Message != "" {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(f.Message)
	}
	if f.Context != "" {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("  at ")
		sb.WriteString(f.Context)
	}
	return sb.String()
}

// withFatal returns a copy of f with the fatal flag set to fatal
// and a recording time.
func (f *Failure) withFatal(fatal bool) *Failure {
	c := *f
	c.Fatal = fatal
	if c.RecordedAt.IsZero() {
		c.RecordedAt = time.Now()
	}
	return &c
}

func (f *Failure) toLog(invocationID string) logging.FailureLog {
	return logging.FailureLog{
		Timestamp:    f.RecordedAt.Format(time.RFC3339Nano),
		InvocationID: invocationID,
		Expression:   f.Expression,
		Expected:     f.Expected,
		Actual:       f.Actual,
		Explanation:  f.Explanation,
		Message:      f.Message,
		Context:      f.Context,
		Fatal:        f.Fatal,
	}
}
