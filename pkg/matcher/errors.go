package matcher

import (
	"errors"
	"fmt"

	"digital.vasic.matchers/pkg/description"
)

// IsError matches non-nil errors.
func IsError() Matcher[error] {
	return leaf(
		func(err error) bool { return err != nil },
		"is an error",
		"is not an error",
	)
}

// ErrorIs matches errors for which errors.Is(actual, target)
// holds.
func ErrorIs(target error) Matcher[error] {
	return leaf(
		func(err error) bool { return errors.Is(err, target) },
		fmt.Sprintf("is an error matching %q", target),
		fmt.Sprintf("is not an error matching %q", target),
	)
}

type errorMessageMatcher struct {
	inner Matcher[string]
}

// HasErrorMessage matches non-nil errors whose Error() text
// satisfies inner.
func HasErrorMessage(inner Matcher[string]) Matcher[error] {
	return errorMessageMatcher{inner: inner}
}

func (m errorMessageMatcher) Matches(actual error) Result {
	if actual == nil {
		return NoMatch
	}
	return m.inner.Matches(actual.Error())
}

func (m errorMessageMatcher) Describe(r Result) description.Description {
	return description.Text(
		"is an error whose message " + Describes(m.inner, r),
	)
}

func (m errorMessageMatcher) ExplainMatch(actual error) description.Description {
	if actual == nil {
		return description.Text("which is not an error")
	}
	msg := actual.Error()
	return description.Text(fmt.Sprintf(
		"which has message %q, %s", msg, Explain(m.inner, msg),
	))
}
