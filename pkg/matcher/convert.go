package matcher

import (
	"fmt"
	"reflect"

	"digital.vasic.matchers/pkg/description"
)

type convertMatcher[From, To any] struct {
	kind    string
	convert func(From) (To, bool)
	inner   Matcher[To]
}

// Converted matches values of From that convert to a To
// satisfying inner. Values that do not convert never match; kind
// names the target in explanations ("a number", "a list").
func Converted[From, To any](
	kind string,
	convert func(From) (To, bool),
	inner Matcher[To],
) Matcher[From] {
	return convertMatcher[From, To]{kind: kind, convert: convert, inner: inner}
}

// As matches dynamically typed values holding a T that satisfies
// inner.
func As[T any](inner Matcher[T]) Matcher[any] {
	return Converted(
		reflect.TypeFor[T]().String(),
		func(v any) (T, bool) {
			t, ok := v.(T)
			return t, ok
		},
		inner,
	)
}

func (m convertMatcher[From, To]) Matches(actual From) Result {
	v, ok := m.convert(actual)
	if !ok {
		return NoMatch
	}
	return m.inner.Matches(v)
}

func (m convertMatcher[From, To]) Describe(r Result) description.Description {
	return m.inner.Describe(r)
}

func (m convertMatcher[From, To]) ExplainMatch(actual From) description.Description {
	v, ok := m.convert(actual)
	if !ok {
		return description.Text(fmt.Sprintf(
			"which is %s, not %s", describeType(actual), m.kind,
		))
	}
	return Explain(m.inner, v)
}

func describeType(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("a %T", v)
}
