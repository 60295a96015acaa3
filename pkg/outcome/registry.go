package outcome

import (
	"fmt"
	"sync"

	"digital.vasic.matchers/pkg/logging"
	"digital.vasic.matchers/pkg/metrics"
)

// InvocationID identifies one test invocation in a Registry.
type InvocationID string

// Registry holds the open outcomes of concurrently running
// invocations, keyed by invocation id. It is safe for concurrent
// use; each Outcome it holds is still owned by the goroutine that
// opened it.
type Registry struct {
	mu       sync.RWMutex
	outcomes map[InvocationID]*Outcome
	opts     []Option
	logger   logging.Logger
	metrics  metrics.Recorder
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used by the registry and
// every outcome it opens.
func WithRegistryLogger(l logging.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithRegistryMetrics sets the metrics recorder used by the
// registry and every outcome it opens.
func WithRegistryMetrics(m metrics.Recorder) RegistryOption {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithOutcomeOptions adds options applied to every outcome the
// registry opens.
func WithOutcomeOptions(opts ...Option) RegistryOption {
	return func(r *Registry) {
		r.opts = append(r.opts, opts...)
	}
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		outcomes: make(map[InvocationID]*Outcome),
		logger:   logging.NullLogger{},
		metrics:  metrics.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init opens a new Outcome owned by the calling goroutine and
// returns its invocation id.
func (r *Registry) Init(opts ...Option) (InvocationID, *Outcome) {
	all := make([]Option, 0, len(r.opts)+len(opts)+2)
	all = append(all, WithLogger(r.logger), WithMetrics(r.metrics))
	all = append(all, r.opts...)
	all = append(all, opts...)
	o := New(all...)
	id := InvocationID(o.ID())

	r.mu.Lock()
	r.outcomes[id] = o
	active := len(r.outcomes)
	r.mu.Unlock()

	r.metrics.SetActiveOutcomes(active)
	return id, o
}

// Lookup returns the open outcome for id. An outcome closed
// directly with Outcome.Close is dropped from the registry.
func (r *Registry) Lookup(id InvocationID) (*Outcome, error) {
	r.mu.Lock()
	o, ok := r.outcomes[id]
	if ok && o.State() == Closed {
		delete(r.outcomes, id)
		ok = false
	}
	active := len(r.outcomes)
	r.mu.Unlock()
	r.metrics.SetActiveOutcomes(active)

	if !ok {
		return nil, fmt.Errorf("%w: invocation %s", ErrNoOutcome, id)
	}
	return o, nil
}

// Record records a non-fatal failure against the outcome of id.
func (r *Registry) Record(id InvocationID, failure *Failure) error {
	o, err := r.Lookup(id)
	if err != nil {
		r.logger.Warn("failure recorded without an open outcome",
			logging.InvocationField(string(id)),
		)
		return err
	}
	return o.Record(failure)
}

// Fail reports a fatal failure against the outcome of id and
// returns the error to propagate.
func (r *Registry) Fail(id InvocationID, failure *Failure) error {
	o, err := r.Lookup(id)
	if err != nil {
		return err
	}
	return o.Fail(failure)
}

// Close closes the outcome of id, removes it from the registry
// and returns its verdict.
func (r *Registry) Close(id InvocationID) (Verdict, error) {
	r.mu.Lock()
	o, ok := r.outcomes[id]
	delete(r.outcomes, id)
	active := len(r.outcomes)
	r.mu.Unlock()

	if !ok {
		return Verdict{}, fmt.Errorf("%w: invocation %s", ErrNoOutcome, id)
	}
	r.metrics.SetActiveOutcomes(active)
	return o.Close()
}

// Active returns the number of open outcomes, dropping those
// closed outside the registry.
func (r *Registry) Active() int {
	r.mu.Lock()
	for id, o := range r.outcomes {
		if o.State() == Closed {
			delete(r.outcomes, id)
		}
	}
	active := len(r.outcomes)
	r.mu.Unlock()
	r.metrics.SetActiveOutcomes(active)
	return active
}
