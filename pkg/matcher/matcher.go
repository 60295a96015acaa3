// Package matcher provides composable matchers: reusable
// predicates over a value that can explain, in either polarity,
// what they expect. Matchers are immutable values with no shared
// state and may be evaluated concurrently.
package matcher

import (
	"digital.vasic.matchers/pkg/description"
)

// Result is the outcome of testing a value against a Matcher.
type Result int

const (
	// NoMatch means the value does not have the property.
	NoMatch Result = iota
	// Match means the value has the property.
	Match
)

// ResultOf converts a boolean into a Result.
func ResultOf(matched bool) Result {
	if matched {
		return Match
	}
	return NoMatch
}

// IsMatch reports whether r is Match.
func (r Result) IsMatch() bool {
	return r == Match
}

// IsNoMatch reports whether r is NoMatch.
func (r Result) IsNoMatch() bool {
	return r == NoMatch
}

// Negate returns the opposite Result.
func (r Result) Negate() Result {
	if r == Match {
		return NoMatch
	}
	return Match
}

// String returns "match" or "no match".
func (r Result) String() string {
	if r == Match {
		return "match"
	}
	return "no match"
}

// Matcher tests values of type T.
//
// Matches must be a pure function of actual and the matcher's
// configuration. Describe returns a sentence fragment completing
// "<subject> ..." for the given polarity: for Match what a
// matching value is, for NoMatch what a non-matching value is.
// Describe does not depend on any particular actual value.
type Matcher[T any] interface {
	Matches(actual T) Result
	Describe(r Result) description.Description
}

// Explainer is implemented by matchers that can explain why a
// specific value does or does not match, beyond restating
// Describe.
type Explainer[T any] interface {
	ExplainMatch(actual T) description.Description
}

// Explain returns the explanation of m for actual. Matchers
// without a custom explanation get "which <describe>" in the
// polarity of the actual outcome.
func Explain[T any](m Matcher[T], actual T) description.Description {
	if e, ok := m.(Explainer[T]); ok {
		return e.ExplainMatch(actual)
	}
	return description.Text(
		"which " + m.Describe(m.Matches(actual)).String(),
	)
}

// Describes renders m.Describe(r). It is a shorthand used when a
// description is embedded in a sentence.
func Describes[T any](m Matcher[T], r Result) string {
	return m.Describe(r).String()
}

// pick returns onMatch or onNoMatch depending on r.
func pick[V any](r Result, onMatch, onNoMatch V) V {
	if r == Match {
		return onMatch
	}
	return onNoMatch
}
