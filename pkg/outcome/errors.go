package outcome

import "errors"

// Misuse errors. They report contract violations by the caller
// and are never folded into an outcome's failure sequence.
var (
	// ErrNoOutcome is returned when no open outcome is available
	// for the invocation.
	ErrNoOutcome = errors.New("no outcome is open for this invocation")

	// ErrOutcomeClosed is returned when recording into, or
	// closing, an outcome that is already closed.
	ErrOutcomeClosed = errors.New("outcome is already closed")

	// ErrCrossGoroutine is returned when a non-fatal failure is
	// recorded from a goroutine other than the one that opened
	// the outcome.
	ErrCrossGoroutine = errors.New("outcome used from a goroutine that does not own it")
)
