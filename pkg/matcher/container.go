package matcher

import (
	"fmt"
	"slices"
	"strings"

	"digital.vasic.matchers/pkg/description"
)

// ContainsMatcher matches slices holding elements that satisfy
// an inner matcher.
type ContainsMatcher[E any] struct {
	inner Matcher[E]
	count Matcher[int]
}

// Contains matches slices with at least one element satisfying
// inner. Use Times to constrain the number of such elements.
func Contains[E any](inner Matcher[E]) ContainsMatcher[E] {
	return ContainsMatcher[E]{inner: inner}
}

// Times returns a copy of m that matches when the number of
// elements satisfying the inner matcher satisfies count.
func (m ContainsMatcher[E]) Times(count Matcher[int]) ContainsMatcher[E] {
	m.count = count
	return m
}

func (m ContainsMatcher[E]) countMatches(actual []E) int {
	n := 0
	for _, a := range actual {
		if m.inner.Matches(a) == Match {
			n++
		}
	}
	return n
}

// Matches implements Matcher.
func (m ContainsMatcher[E]) Matches(actual []E) Result {
	if m.count != nil {
		return m.count.Matches(m.countMatches(actual))
	}
	for _, a := range actual {
		if m.inner.Matches(a) == Match {
			return Match
		}
	}
	return NoMatch
}

// Describe implements Matcher.
func (m ContainsMatcher[E]) Describe(r Result) description.Description {
	inner := Describes(m.inner, Match)
	if m.count != nil {
		return description.Text(fmt.Sprintf(
			"%s n elements which %s",
			pick(r, "contains", "doesn't contain"), inner,
		)).Nested(description.Text(
			"where n " + Describes(m.count, Match),
		))
	}
	return description.Text(pick(
		r,
		"contains at least one element which "+inner,
		"contains no element which "+inner,
	))
}

// ExplainMatch names the full container when nothing matched.
func (m ContainsMatcher[E]) ExplainMatch(actual []E) description.Description {
	n := m.countMatches(actual)
	if m.count != nil {
		return description.Text(fmt.Sprintf(
			"which contains %d matching elements", n,
		))
	}
	if n == 0 {
		return description.Text(fmt.Sprintf(
			"which contains no element which %s among %s",
			Describes(m.inner, Match), FormatValue(actual),
		))
	}
	return description.Text("which contains a matching element")
}

type eachMatcher[E any] struct {
	inner Matcher[E]
}

// Each matches slices whose every element satisfies inner. An
// empty slice matches.
func Each[E any](inner Matcher[E]) Matcher[[]E] {
	return eachMatcher[E]{inner: inner}
}

func (m eachMatcher[E]) Matches(actual []E) Result {
	for _, a := range actual {
		if m.inner.Matches(a) == NoMatch {
			return NoMatch
		}
	}
	return Match
}

func (m eachMatcher[E]) Describe(r Result) description.Description {
	return description.Text(pick(
		r,
		"only contains elements that "+Describes(m.inner, Match),
		"contains some element that "+Describes(m.inner, NoMatch),
	))
}

// ExplainMatch reports every failing element, not just the
// first.
func (m eachMatcher[E]) ExplainMatch(actual []E) description.Description {
	var idx []int
	var lines []string
	for i, a := range actual {
		if m.inner.Matches(a) == Match {
			continue
		}
		idx = append(idx, i)
		lines = append(lines, fmt.Sprintf(
			"%s, %s", FormatValue(a), Explain(m.inner, a),
		))
	}
	switch len(idx) {
	case 0:
		return description.Text(
			"whose each element " + Describes(m.inner, Match),
		)
	case 1:
		return description.Text(fmt.Sprintf(
			"whose element #%d is %s", idx[0], lines[0],
		))
	}
	return description.Text(fmt.Sprintf(
		"whose elements %s don't match", formatIndexes(idx),
	)).Nested(description.Lines(lines...))
}

type elementsAreMatcher[E any] struct {
	elements []Matcher[E]
}

// ElementsAre matches slices of exactly len(ms) elements where
// element i satisfies ms[i].
func ElementsAre[E any](ms ...Matcher[E]) Matcher[[]E] {
	return elementsAreMatcher[E]{elements: ms}
}

// Pointwise matches slices whose elements pair up, in order,
// with expected under the matcher built by f.
func Pointwise[A, E any](f func(E) Matcher[A], expected []E) Matcher[[]A] {
	ms := make([]Matcher[A], len(expected))
	for i, e := range expected {
		ms[i] = f(e)
	}
	return ElementsAre(ms...)
}

func (m elementsAreMatcher[E]) Matches(actual []E) Result {
	if len(actual) != len(m.elements) {
		return NoMatch
	}
	for i, a := range actual {
		if m.elements[i].Matches(a) == NoMatch {
			return NoMatch
		}
	}
	return Match
}

func (m elementsAreMatcher[E]) Describe(r Result) description.Description {
	return description.Text(
		pick(r, "has elements:", "doesn't have elements:"),
	).Nested(describeAllMatch(m.elements).Enumerate())
}

// ExplainMatch reports positional mismatches over the common
// prefix and, separately, a length mismatch.
func (m elementsAreMatcher[E]) ExplainMatch(actual []E) description.Description {
	var mismatches []string
	n := min(len(actual), len(m.elements))
	for i := 0; i < n; i++ {
		e := m.elements[i]
		if e.Matches(actual[i]) == Match {
			continue
		}
		mismatches = append(mismatches, fmt.Sprintf(
			"element #%d is %s, %s",
			i, FormatValue(actual[i]), Explain(e, actual[i]),
		))
	}

	d := description.New()
	if len(actual) != len(m.elements) {
		d = d.Text(fmt.Sprintf(
			"whose size is %d (expected %d)", len(actual), len(m.elements),
		))
	}
	switch len(mismatches) {
	case 0:
		if d.IsEmpty() {
			return description.Text("whose elements all match")
		}
		return d
	case 1:
		return d.Text("where " + mismatches[0])
	}
	return d.Text("where:").
		Nested(description.Lines(mismatches...).BulletList())
}

func describeAllMatch[E any](ms []Matcher[E]) description.Description {
	lines := make([]string, len(ms))
	for i, m := range ms {
		lines[i] = Describes(m, Match)
	}
	return description.Lines(lines...)
}

type unorderedMatcher[E any] struct {
	elements     []Matcher[E]
	requirements Requirements
	header       [2]string
}

// UnorderedElementsAre matches slices whose elements can be
// paired one-to-one with ms, in any order. Repeated matchers and
// repeated values count as distinct slots.
func UnorderedElementsAre[E any](ms ...Matcher[E]) Matcher[[]E] {
	return unorderedMatcher[E]{
		elements:     ms,
		requirements: Perfect,
		header: [2]string{
			"contains elements matching in any order:",
			"doesn't contain elements matching in any order:",
		},
	}
}

// ContainsEach matches slices in which every matcher of ms can
// be paired with a distinct element. Extra elements are allowed.
func ContainsEach[E any](ms ...Matcher[E]) Matcher[[]E] {
	return unorderedMatcher[E]{
		elements:     ms,
		requirements: Superset,
		header: [2]string{
			"contains each of the following elements in any order:",
			"doesn't contain each of the following elements in any order:",
		},
	}
}

// IsContainedIn matches slices whose every element can be paired
// with a distinct matcher of ms. Unused matchers are allowed.
func IsContainedIn[E any](ms ...Matcher[E]) Matcher[[]E] {
	return unorderedMatcher[E]{
		elements:     ms,
		requirements: Subset,
		header: [2]string{
			"is contained in a container whose elements match in any order:",
			"is not contained in a container whose elements match in any order:",
		},
	}
}

// SupersetOf matches slices containing every value of expected,
// each paired with a distinct element.
func SupersetOf[E any](expected ...E) Matcher[[]E] {
	return valueSetMatcher[E]{
		unorderedMatcher: ContainsEach(eqAll(expected)...).(unorderedMatcher[E]),
		expected:         expected,
		verbs:            [2]string{"is a superset of", "isn't a superset of"},
	}
}

// SubsetOf matches slices whose every element equals a distinct
// value of expected.
func SubsetOf[E any](expected ...E) Matcher[[]E] {
	return valueSetMatcher[E]{
		unorderedMatcher: IsContainedIn(eqAll(expected)...).(unorderedMatcher[E]),
		expected:         expected,
		verbs:            [2]string{"is a subset of", "isn't a subset of"},
	}
}

func eqAll[E any](values []E) []Matcher[E] {
	ms := make([]Matcher[E], len(values))
	for i, v := range values {
		ms[i] = Eq(v)
	}
	return ms
}

func (m unorderedMatcher[E]) Matches(actual []E) Result {
	if m.requirements.ExplainSizeMismatch(len(actual), len(m.elements)) != "" {
		return NoMatch
	}
	report := NewMatchMatrix(actual, m.elements).BestMatch()
	return ResultOf(report.Satisfies(m.requirements))
}

func (m unorderedMatcher[E]) Describe(r Result) description.Description {
	return description.Text(pick(r, m.header[0], m.header[1])).
		Nested(describeAllMatch(m.elements).Enumerate())
}

// Correspond returns the maximum matching between actual and the
// matcher's elements.
func (m unorderedMatcher[E]) Correspond(actual []E) CorrespondenceReport {
	return NewMatchMatrix(actual, m.elements).BestMatch()
}

// ExplainMatch reports, in order, a size mismatch, the elements
// and matchers that cannot pair with anything, and the best
// matching found.
func (m unorderedMatcher[E]) ExplainMatch(actual []E) description.Description {
	mm := NewMatchMatrix(actual, m.elements)
	report := mm.BestMatch()
	sizeLine := m.requirements.ExplainSizeMismatch(len(actual), len(m.elements))
	if sizeLine == "" && report.Satisfies(m.requirements) {
		return description.Text("whose elements all match")
	}

	d := description.New()
	if sizeLine != "" {
		d = d.Text(sizeLine)
	}
	ua, ue := mm.unmatchable(m.requirements)
	if line := explainUnmatchable(ua, ue); line != "" {
		d = d.Text(line)
	}
	if !report.Satisfies(m.requirements) {
		d = d.Text(explainBestMatch(report, mm, actual, m.elements, m.requirements).String())
	}
	return d
}

type valueSetMatcher[E any] struct {
	unorderedMatcher[E]
	expected []E
	verbs    [2]string
}

func (m valueSetMatcher[E]) Describe(r Result) description.Description {
	return description.Text(
		pick(r, m.verbs[0], m.verbs[1]) + " " + FormatValue(m.expected),
	)
}

type containerEqMatcher[E comparable] struct {
	expected []E
}

// ContainerEq matches slices equal to expected, element by element
// and in order. Its explanation lists the expected values absent
// from the actual slice and the actual values not expected.
func ContainerEq[E comparable](expected []E) Matcher[[]E] {
	return containerEqMatcher[E]{expected: expected}
}

func (m containerEqMatcher[E]) Matches(actual []E) Result {
	return ResultOf(slices.Equal(actual, m.expected))
}

func (m containerEqMatcher[E]) Describe(r Result) description.Description {
	return description.Text(
		pick(r, "is equal to ", "isn't equal to ") + FormatValue(m.expected),
	)
}

// ExplainMatch reports membership differences only; a slice holding
// the right values in another order or count contains all elements.
func (m containerEqMatcher[E]) ExplainMatch(actual []E) description.Description {
	missing := absentFrom(m.expected, actual)
	unexpected := absentFrom(actual, m.expected)
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "is missing "+elementList(missing))
	}
	if len(unexpected) > 0 {
		parts = append(parts, "contains the unexpected "+elementList(unexpected))
	}
	if len(parts) == 0 {
		return description.Text("which contains all the elements")
	}
	return description.Text("which " + strings.Join(parts, " and "))
}

// absentFrom returns the values of from that never occur in in.
func absentFrom[E comparable](from, in []E) []E {
	var out []E
	for _, v := range from {
		if !slices.Contains(in, v) {
			out = append(out, v)
		}
	}
	return out
}

func elementList[E any](values []E) string {
	if len(values) == 1 {
		return "element " + FormatValue(values[0])
	}
	return "elements " + FormatValue(values)
}

type hasEntryMatcher[K comparable, V any] struct {
	key   K
	inner Matcher[V]
}

// HasEntry matches maps holding key with a value satisfying
// inner.
func HasEntry[K comparable, V any](key K, inner Matcher[V]) Matcher[map[K]V] {
	return hasEntryMatcher[K, V]{key: key, inner: inner}
}

func (m hasEntryMatcher[K, V]) Matches(actual map[K]V) Result {
	v, ok := actual[m.key]
	if !ok {
		return NoMatch
	}
	return m.inner.Matches(v)
}

func (m hasEntryMatcher[K, V]) Describe(r Result) description.Description {
	return description.Text(fmt.Sprintf(
		"%s for key %s, whose value %s",
		pick(r, "has an entry", "doesn't have an entry"),
		FormatValue(m.key), Describes(m.inner, Match),
	))
}

func (m hasEntryMatcher[K, V]) ExplainMatch(actual map[K]V) description.Description {
	v, ok := actual[m.key]
	if !ok {
		return description.Text(fmt.Sprintf(
			"which doesn't have key %s", FormatValue(m.key),
		))
	}
	return description.Text(fmt.Sprintf(
		"which has key %s with value %s, %s",
		FormatValue(m.key), FormatValue(v), Explain(m.inner, v),
	))
}
