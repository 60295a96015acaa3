// Package harness connects outcomes to Go tests.
//
// Run opens an Outcome for one test invocation, hands it to the
// test body through a context, closes it when the body returns
// and reports the verdict through the testing.TB:
//
//	func TestOrder(t *testing.T) {
//		harness.Run(t, func(ctx context.Context) error {
//			_ = assertion.Expect(ctx, order.Total, matcher.Gt(0))
//			return assertion.Verify(order.Items, matcher.Len[[]Item](matcher.Eq(2)))
//		})
//	}
package harness

import (
	"context"
	"errors"
	"time"

	"digital.vasic.matchers/pkg/outcome"
)

// TB is the part of testing.TB used by Run.
type TB interface {
	Helper()
	Name() string
	Error(args ...any)
	Fatal(args ...any)
}

type config struct {
	registry *outcome.Registry
	opts     []outcome.Option
	timeout  time.Duration
}

// Option configures Run.
type Option func(*config)

// WithRegistry opens the outcome in r so that other goroutines
// can look it up by invocation id while the body runs.
func WithRegistry(r *outcome.Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

// WithOutcomeOptions passes options to the opened outcome.
func WithOutcomeOptions(opts ...outcome.Option) Option {
	return func(c *config) {
		c.opts = append(c.opts, opts...)
	}
}

// WithTimeout bounds the body's context.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// Run executes body as one test invocation and returns its
// verdict. Every non-fatal failure is reported with t.Error. A
// fatal *outcome.Failure, or any other error returned by body, is
// recorded as the verdict's fatal failure and reported last with
// t.Fatal.
func Run(t TB, body func(ctx context.Context) error, opts ...Option) outcome.Verdict {
	t.Helper()

	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	var (
		o       *outcome.Outcome
		closeFn func() (outcome.Verdict, error)
	)
	if cfg.registry != nil {
		var id outcome.InvocationID
		id, o = cfg.registry.Init(cfg.opts...)
		closeFn = func() (outcome.Verdict, error) { return cfg.registry.Close(id) }
	} else {
		o = outcome.New(cfg.opts...)
		closeFn = o.Close
	}

	ctx := outcome.NewContext(context.Background(), o)
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	err := body(ctx)

	// The fatal failure, or the error that aborted the body, ends
	// the invocation and must be part of the verdict.
	var fatal *outcome.Failure
	isFatal := errors.As(err, &fatal) && fatal.Fatal
	switch {
	case err == nil:
	case isFatal:
		if o.FatalFailure() == nil {
			_ = o.Fail(fatal)
		}
	default:
		_ = o.Fail(&outcome.Failure{Message: "unexpected error: " + err.Error()})
	}

	verdict, closeErr := closeFn()
	if closeErr != nil {
		t.Fatal("closing outcome for ", t.Name(), ": ", closeErr)
		return verdict
	}

	for _, f := range verdict.Failures {
		t.Error(f.Error())
	}

	switch {
	case err == nil:
	case isFatal:
		t.Fatal(fatal.Error())
	default:
		t.Fatal("unexpected error: ", err)
	}
	return verdict
}
