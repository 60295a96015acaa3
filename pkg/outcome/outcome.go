// Package outcome tracks the assertion failures of one test
// invocation.
//
// An Outcome is opened when an invocation begins, accumulates
// non-fatal failures in occurrence order while it runs, and is
// closed exactly once to produce a Verdict. Fatal failures do not
// accumulate: they are returned to the caller, which stops the
// invocation, and only mark the Outcome as failed.
//
// Outcomes are invocation-local. They are passed explicitly,
// through a context.Context, or looked up in a Registry by
// invocation id; there is no process-wide current outcome.
// Non-fatal recording must happen on the goroutine that opened
// the Outcome.
package outcome

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"digital.vasic.matchers/pkg/logging"
	"digital.vasic.matchers/pkg/metrics"
)

// State is the lifecycle state of an Outcome.
type State int

const (
	// Open outcomes accept failures.
	Open State = iota
	// Closed outcomes are terminal.
	Closed
)

// String returns "open" or "closed".
func (s State) String() string {
	if s == Closed {
		return "closed"
	}
	return "open"
}

// Observer is notified of outcome lifecycle events. Calls are
// made synchronously, outside the outcome's lock.
type Observer interface {
	OutcomeOpened(id string)
	FailureRecorded(id string, failure *Failure)
	OutcomeClosed(verdict Verdict)
}

// Option configures an Outcome.
type Option func(*Outcome)

// WithLogger sets the logger for lifecycle and failure logs.
func WithLogger(l logging.Logger) Option {
	return func(o *Outcome) {
		o.logger = l
	}
}

// WithObserver sets the observer notified of lifecycle events.
func WithObserver(obs Observer) Option {
	return func(o *Outcome) {
		o.observer = obs
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.Recorder) Option {
	return func(o *Outcome) {
		o.metrics = m
	}
}

// WithID overrides the generated outcome id.
func WithID(id string) Option {
	return func(o *Outcome) {
		o.id = id
	}
}

// Outcome accumulates the failures of one test invocation.
type Outcome struct {
	mu       sync.Mutex
	id       string
	owner    uint64
	state    State
	failures []*Failure
	fatal    *Failure
	started  time.Time

	logger   logging.Logger
	observer Observer
	metrics  metrics.Recorder
}

// New opens an Outcome owned by the calling goroutine.
func New(opts ...Option) *Outcome {
	o := &Outcome{
		id:      uuid.NewString(),
		owner:   goroutineID(),
		started: time.Now(),
		logger:  logging.NullLogger{},
		metrics: metrics.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.WithFields(
		logging.InvocationField(o.id),
	)

	o.logger.Debug("outcome opened")
	if o.observer != nil {
		o.observer.OutcomeOpened(o.id)
	}
	return o
}

// ID returns the invocation id of the outcome.
func (o *Outcome) ID() string {
	return o.id
}

// State returns the current lifecycle state.
func (o *Outcome) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Failed reports whether a non-fatal failure was recorded or a
// fatal failure was reported.
func (o *Outcome) Failed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.failedLocked()
}

func (o *Outcome) failedLocked() bool {
	return len(o.failures) > 0 || o.fatal != nil
}

// FatalFailure returns the fatal failure reported with Fail, or
// nil.
func (o *Outcome) FatalFailure() *Failure {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fatal
}

// Failures returns a copy of the non-fatal failures recorded so
// far, in occurrence order.
func (o *Outcome) Failures() []*Failure {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*Failure, len(o.failures))
	copy(out, o.failures)
	return out
}

// Record appends a non-fatal failure. It returns
// ErrCrossGoroutine when called from a goroutine other than the
// owner and ErrOutcomeClosed after Close; in both cases the
// failure is not recorded.
func (o *Outcome) Record(failure *Failure) error {
	if failure == nil {
		return nil
	}
	if gid := goroutineID(); gid != o.owner {
		o.logger.Warn("non-fatal failure recorded from foreign goroutine",
			logging.LogField("owner", o.owner),
			logging.LogField("goroutine", gid),
		)
		return fmt.Errorf(
			"%w: owner %d, caller %d", ErrCrossGoroutine, o.owner, gid,
		)
	}

	f := failure.withFatal(false)

	o.mu.Lock()
	if o.state == Closed {
		o.mu.Unlock()
		o.logger.Warn("failure recorded after close")
		return ErrOutcomeClosed
	}
	o.failures = append(o.failures, f)
	count := len(o.failures)
	o.mu.Unlock()

	o.logger.Debug("non-fatal failure recorded",
		logging.IntField("failures", count),
	)
	o.logger.LogFailure(f.toLog(o.id))
	o.metrics.RecordFailure(false)
	if o.observer != nil {
		o.observer.FailureRecorded(o.id, f)
	}
	return nil
}

// Fail reports a fatal failure. The failure is not added to the
// sequence; the outcome is only marked failed. Fail returns the
// error the caller propagates to stop the invocation: the
// failure itself, joined with ErrOutcomeClosed if the outcome was
// already closed.
func (o *Outcome) Fail(failure *Failure) error {
	if failure == nil {
		failure = &Failure{}
	}
	f := failure.withFatal(true)

	o.mu.Lock()
	if o.state == Closed {
		o.mu.Unlock()
		o.logger.Warn("fatal failure reported after close")
		return errors.Join(ErrOutcomeClosed, f)
	}
	if o.fatal == nil {
		o.fatal = f
	}
	o.mu.Unlock()

	o.logger.LogFailure(f.toLog(o.id))
	o.metrics.RecordFailure(true)
	if o.observer != nil {
		o.observer.FailureRecorded(o.id, f)
	}
	return f
}

// Close transitions the outcome to Closed and returns the
// verdict. Closing twice returns ErrOutcomeClosed.
func (o *Outcome) Close() (Verdict, error) {
	o.mu.Lock()
	if o.state == Closed {
		o.mu.Unlock()
		return Verdict{}, ErrOutcomeClosed
	}
	o.state = Closed
	v := Verdict{
		ID:       o.id,
		Failed:   o.failedLocked(),
		Failures: o.failures,
		Fatal:    o.fatal,
		Started:  o.started,
		Duration: time.Since(o.started),
	}
	o.failures = nil
	o.mu.Unlock()

	o.logger.Info("outcome closed",
		logging.BoolField("failed", v.Failed),
		logging.IntField("failures", len(v.Failures)),
		logging.DurationField("duration_ms", v.Duration),
	)
	o.metrics.RecordVerdict(v.Failed, len(v.All()))
	if o.observer != nil {
		o.observer.OutcomeClosed(v)
	}
	return v, nil
}
