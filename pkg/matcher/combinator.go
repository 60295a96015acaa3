package matcher

import (
	"strings"

	"digital.vasic.matchers/pkg/description"
)

const (
	headerAll = "has all the following properties:"
	headerAny = "has at least one of the following properties:"
)

type allOfMatcher[T any] struct {
	children []Matcher[T]
}

// And matches values satisfying both m1 and m2. Nested
// conjunctions are flattened, so grouping does not change the
// outcome or the shape of the explanation.
func And[T any](m1, m2 Matcher[T]) Matcher[T] {
	return AllOf(m1, m2)
}

// AllOf matches values satisfying every matcher. With no
// matchers it matches everything.
func AllOf[T any](ms ...Matcher[T]) Matcher[T] {
	var children []Matcher[T]
	for _, m := range ms {
		if inner, ok := m.(allOfMatcher[T]); ok {
			children = append(children, inner.children...)
			continue
		}
		children = append(children, m)
	}
	return allOfMatcher[T]{children: children}
}

func (m allOfMatcher[T]) Matches(actual T) Result {
	for _, c := range m.children {
		if c.Matches(actual) == NoMatch {
			return NoMatch
		}
	}
	return Match
}

// Describe states the conjunction for Match and, by De Morgan,
// the disjunction of negations for NoMatch.
func (m allOfMatcher[T]) Describe(r Result) description.Description {
	if len(m.children) == 0 {
		return Anything[T]().Describe(r)
	}
	return connect(
		describeAll(m.children, r),
		pick(r, "and", "or"),
		pick(r, headerAll, headerAny),
	)
}

// ExplainMatch lists only the children that did not match, or
// every child when all of them matched.
func (m allOfMatcher[T]) ExplainMatch(actual T) description.Description {
	var failing, all []description.Description
	for _, c := range m.children {
		e := Explain(c, actual)
		all = append(all, e)
		if c.Matches(actual) == NoMatch {
			failing = append(failing, e)
		}
	}
	if len(failing) > 0 {
		return joinExplanations(failing)
	}
	if len(all) == 0 {
		return description.Text("which is anything")
	}
	return joinExplanations(all)
}

type anyOfMatcher[T any] struct {
	children []Matcher[T]
}

// Or matches values satisfying m1, m2 or both. Nested
// disjunctions are flattened.
func Or[T any](m1, m2 Matcher[T]) Matcher[T] {
	return AnyOf(m1, m2)
}

// AnyOf matches values satisfying at least one matcher. With no
// matchers it matches nothing.
func AnyOf[T any](ms ...Matcher[T]) Matcher[T] {
	var children []Matcher[T]
	for _, m := range ms {
		if inner, ok := m.(anyOfMatcher[T]); ok {
			children = append(children, inner.children...)
			continue
		}
		children = append(children, m)
	}
	return anyOfMatcher[T]{children: children}
}

func (m anyOfMatcher[T]) Matches(actual T) Result {
	for _, c := range m.children {
		if c.Matches(actual) == Match {
			return Match
		}
	}
	return NoMatch
}

func (m anyOfMatcher[T]) Describe(r Result) description.Description {
	if len(m.children) == 0 {
		return Anything[T]().Describe(r.Negate())
	}
	return connect(
		describeAll(m.children, r),
		pick(r, "or", "and"),
		pick(r, headerAny, headerAll),
	)
}

// ExplainMatch lists every child when none matched, otherwise
// the children that matched.
func (m anyOfMatcher[T]) ExplainMatch(actual T) description.Description {
	var matching, all []description.Description
	for _, c := range m.children {
		e := Explain(c, actual)
		all = append(all, e)
		if c.Matches(actual) == Match {
			matching = append(matching, e)
		}
	}
	if len(matching) > 0 {
		return joinExplanations(matching)
	}
	if len(all) == 0 {
		return description.Text("which never matches")
	}
	return joinExplanations(all)
}

type notMatcher[T any] struct {
	inner Matcher[T]
}

// Not inverts inner.
func Not[T any](inner Matcher[T]) Matcher[T] {
	return notMatcher[T]{inner: inner}
}

func (m notMatcher[T]) Matches(actual T) Result {
	return m.inner.Matches(actual).Negate()
}

func (m notMatcher[T]) Describe(r Result) description.Description {
	return m.inner.Describe(r.Negate())
}

func (m notMatcher[T]) ExplainMatch(actual T) description.Description {
	return Explain(m.inner, actual)
}

func describeAll[T any](ms []Matcher[T], r Result) []description.Description {
	out := make([]description.Description, len(ms))
	for i, m := range ms {
		out[i] = m.Describe(r)
	}
	return out
}

// connect renders single-line children as "a, and b" and
// anything longer as a bullet list under header.
func connect(
	children []description.Description,
	connective, header string,
) description.Description {
	if len(children) == 1 {
		return children[0]
	}
	parts := make([]string, 0, len(children))
	for _, c := range children {
		if !c.IsSingleLine() {
			return description.Text(header).
				Nested(description.Collect(children...).BulletList())
		}
		parts = append(parts, c.String())
	}
	return description.Text(strings.Join(parts, ", "+connective+" "))
}

func joinExplanations(exps []description.Description) description.Description {
	if len(exps) == 1 {
		return exps[0]
	}
	return description.Join("and", exps...)
}
