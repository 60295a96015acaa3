package assertion

import (
	"context"
	"fmt"
	"time"

	"digital.vasic.matchers/pkg/description"
	"digital.vasic.matchers/pkg/matcher"
	"digital.vasic.matchers/pkg/outcome"
)

// Option configures the failure produced by Verify and Expect.
type Option func(*options)

type options struct {
	expression string
	message    string
	context    string
	threshold  int
}

// WithExpression names the checked value in the report, as in
// "Value of: resp.Status".
func WithExpression(expr string) Option {
	return func(o *options) {
		o.expression = expr
	}
}

// WithMessage adds a custom message below the report.
func WithMessage(format string, args ...any) Option {
	return func(o *options) {
		if len(args) > 0 {
			format = fmt.Sprintf(format, args...)
		}
		o.message = format
	}
}

// WithContext attaches an opaque source-context token, for
// example "handler_test.go:42".
func WithContext(token string) Option {
	return func(o *options) {
		o.context = token
	}
}

// WithPrettyPrintAbove sets the length above which the actual
// value is rendered as a multi-line dump.
func WithPrettyPrintAbove(n int) Option {
	return func(o *options) {
		o.threshold = n
	}
}

func apply(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Evaluate checks actual against m.
func Evaluate[T any](m matcher.Matcher[T], actual T) matcher.Result {
	return m.Matches(actual)
}

// ExplainResult explains why actual does or does not match m.
func ExplainResult[T any](m matcher.Matcher[T], actual T) description.Description {
	return matcher.Explain(m, actual)
}

// NewFailure builds the failure record for actual not matching
// m. It does not evaluate m, so it can also report a value that
// matches.
func NewFailure[T any](actual T, m matcher.Matcher[T], opts ...Option) *outcome.Failure {
	o := apply(opts)
	expected := m.Describe(matcher.Match).String()
	actualText := matcher.FormatActual(actual, o.threshold)
	explanation := matcher.Explain(m, actual)

	return &outcome.Failure{
		Description: report(o.expression, expected, actualText, explanation),
		Expression:  o.expression,
		Expected:    expected,
		Actual:      actualText,
		Explanation: explanation.String(),
		Message:     o.message,
		Context:     o.context,
	}
}

// report lays out a failure as
//
//	Value of: <expression>
//	Expected: <description>
//	Actual: <value>,
//	  <explanation>
func report(
	expression, expected, actual string,
	explanation description.Description,
) description.Description {
	d := description.New()
	if expression != "" {
		d = d.Text("Value of: " + expression)
	}
	return d.Text("Expected: " + expected).
		Text("Actual: " + actual + ",").
		Nested(explanation)
}

// Verify returns nil if actual matches m and a fatal
// *outcome.Failure otherwise. The caller stops the invocation by
// returning the error.
func Verify[T any](actual T, m matcher.Matcher[T], opts ...Option) error {
	if m.Matches(actual) == matcher.Match {
		return nil
	}
	f := NewFailure(actual, m, opts...)
	f.Fatal = true
	f.RecordedAt = time.Now()
	return f
}

// Expect checks actual against m and, on a mismatch, records a
// non-fatal failure into the outcome carried by ctx. The
// invocation continues either way; the returned error reports
// only misuse, such as outcome.ErrNoOutcome.
func Expect[T any](
	ctx context.Context,
	actual T,
	m matcher.Matcher[T],
	opts ...Option,
) error {
	if m.Matches(actual) == matcher.Match {
		return nil
	}
	return outcome.Record(ctx, NewFailure(actual, m, opts...))
}

// ExpectOn is Expect against an explicit outcome.
func ExpectOn[T any](
	o *outcome.Outcome,
	actual T,
	m matcher.Matcher[T],
	opts ...Option,
) error {
	if o == nil {
		return outcome.ErrNoOutcome
	}
	if m.Matches(actual) == matcher.Match {
		return nil
	}
	return o.Record(NewFailure(actual, m, opts...))
}

// Failure converts a failed result into a failure record. It
// returns nil for a passed result.
func (r Result) Failure() *outcome.Failure {
	if r.Passed {
		return nil
	}
	f := &outcome.Failure{
		Expression:  r.Target,
		Expected:    r.Expected,
		Explanation: r.Explanation,
		Message:     r.Message,
		Fatal:       r.Fatal,
	}
	if r.Expected == "" {
		// The definition never built, so there is no matcher to
		// describe.
		f.Description = description.Text(fmt.Sprintf(
			"Value of: %s", r.Target,
		)).Text(fmt.Sprintf("Invalid assertion `%s`: %s", r.Type, r.Explanation))
		return f
	}
	f.Actual = r.actualText
	if f.Actual == "" {
		f.Actual = matcher.FormatActual(r.Actual, 0)
	}
	f.Description = report(
		r.Target, r.Expected, f.Actual, description.Text(r.Explanation),
	)
	return f
}
