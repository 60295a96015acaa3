package outcome

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying o.
func NewContext(ctx context.Context, o *Outcome) context.Context {
	return context.WithValue(ctx, contextKey{}, o)
}

// FromContext returns the outcome carried by ctx.
func FromContext(ctx context.Context) (*Outcome, bool) {
	if ctx == nil {
		return nil, false
	}
	o, ok := ctx.Value(contextKey{}).(*Outcome)
	return o, ok && o != nil
}

// Record records a non-fatal failure into the outcome carried by
// ctx, or returns ErrNoOutcome.
func Record(ctx context.Context, failure *Failure) error {
	o, ok := FromContext(ctx)
	if !ok {
		return ErrNoOutcome
	}
	return o.Record(failure)
}
