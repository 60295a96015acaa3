package matcher

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"digital.vasic.matchers/pkg/description"
)

// funcMatcher adapts a predicate and a pair of descriptions into
// a Matcher. Most leaf matchers are built on it.
type funcMatcher[T any] struct {
	test    func(T) bool
	onMatch string
	onMiss  string
}

func (m funcMatcher[T]) Matches(actual T) Result {
	return ResultOf(m.test(actual))
}

func (m funcMatcher[T]) Describe(r Result) description.Description {
	return description.Text(pick(r, m.onMatch, m.onMiss))
}

func leaf[T any](test func(T) bool, onMatch, onMiss string) Matcher[T] {
	return funcMatcher[T]{test: test, onMatch: onMatch, onMiss: onMiss}
}

// Anything matches every value.
func Anything[T any]() Matcher[T] {
	return leaf(
		func(T) bool { return true },
		"is anything",
		"never matches",
	)
}

// EqMatcher matches values deeply equal to an expected value.
type EqMatcher[T any] struct {
	expected T
}

// Eq matches values deeply equal to expected.
func Eq[T any](expected T) EqMatcher[T] {
	return EqMatcher[T]{expected: expected}
}

// Matches implements Matcher.
func (m EqMatcher[T]) Matches(actual T) Result {
	return ResultOf(reflect.DeepEqual(any(m.expected), any(actual)))
}

// Describe implements Matcher.
func (m EqMatcher[T]) Describe(r Result) description.Description {
	return description.Text(fmt.Sprintf(
		"%s %s",
		pick(r, "is equal to", "isn't equal to"),
		FormatValue(m.expected),
	))
}

// ExplainMatch adds a line diff when both sides are multi-line
// strings.
func (m EqMatcher[T]) ExplainMatch(actual T) description.Description {
	r := m.Matches(actual)
	d := description.Text("which " + m.Describe(r).String())
	if r == Match {
		return d
	}
	want, ok1 := any(m.expected).(string)
	got, ok2 := any(actual).(string)
	if !ok1 || !ok2 {
		return d
	}
	if !strings.Contains(want, "\n") && !strings.Contains(got, "\n") {
		return d
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(got),
		B:        difflib.SplitLines(want),
		FromFile: "actual",
		ToFile:   "expected",
		Context:  1,
	})
	if err != nil || diff == "" {
		return d
	}
	return d.Text("").
		Text("Difference(-actual / +expected):").
		Text(diff)
}

// Ne matches values not deeply equal to unexpected.
func Ne[T any](unexpected T) Matcher[T] {
	return Not[T](Eq(unexpected))
}

// orderingMatcher compares with the native operators, so a NaN
// on either side never matches.
type orderingMatcher[T cmp.Ordered] struct {
	funcMatcher[T]
	bound T
}

// isNaN reports whether v is a floating-point NaN. Only NaN is
// unequal to itself.
func isNaN[T cmp.Ordered](v T) bool {
	return v != v
}

// ExplainMatch names the NaN instead of claiming the opposite
// ordering.
func (m orderingMatcher[T]) ExplainMatch(actual T) description.Description {
	switch {
	case isNaN(actual):
		return description.Text("which is NaN")
	case isNaN(m.bound):
		return description.Text("which can't be ordered against NaN")
	}
	return description.Text("which " + m.Describe(m.Matches(actual)).String())
}

func ordering[T cmp.Ordered](bound T, test func(T) bool, onMatch, onMiss string) Matcher[T] {
	return orderingMatcher[T]{
		funcMatcher: funcMatcher[T]{
			test:    test,
			onMatch: onMatch + FormatValue(bound),
			onMiss:  onMiss + FormatValue(bound),
		},
		bound: bound,
	}
}

// Lt matches values strictly less than bound.
func Lt[T cmp.Ordered](bound T) Matcher[T] {
	return ordering(bound,
		func(a T) bool { return a < bound },
		"is less than ",
		"is greater than or equal to ",
	)
}

// Le matches values less than or equal to bound.
func Le[T cmp.Ordered](bound T) Matcher[T] {
	return ordering(bound,
		func(a T) bool { return a <= bound },
		"is less than or equal to ",
		"is greater than ",
	)
}

// Gt matches values strictly greater than bound.
func Gt[T cmp.Ordered](bound T) Matcher[T] {
	return ordering(bound,
		func(a T) bool { return a > bound },
		"is greater than ",
		"is less than or equal to ",
	)
}

// Ge matches values greater than or equal to bound.
func Ge[T cmp.Ordered](bound T) Matcher[T] {
	return ordering(bound,
		func(a T) bool { return a >= bound },
		"is greater than or equal to ",
		"is less than ",
	)
}

// Float is the set of types accepted by the floating-point
// matchers.
type Float interface {
	~float32 | ~float64
}

// NearMatcher matches floating-point values within an absolute
// tolerance of an expected value.
type NearMatcher[T Float] struct {
	expected    T
	maxAbsError T
	nansEqual   bool
}

// Near matches values within maxAbsError of expected. NaN never
// matches unless NaNsAreEqual is set. Near panics if maxAbsError
// is negative or NaN.
func Near[T Float](expected, maxAbsError T) NearMatcher[T] {
	if maxAbsError < 0 || math.IsNaN(float64(maxAbsError)) {
		panic(fmt.Sprintf(
			"max absolute error must be a non-negative number, got %v",
			maxAbsError,
		))
	}
	return NearMatcher[T]{expected: expected, maxAbsError: maxAbsError}
}

// approxEpsilonFactor scales machine epsilon into the default
// ApproxEq tolerance.
const approxEpsilonFactor = 32

// ApproxEq matches values equal to expected up to a few ULPs,
// scaled to the magnitude of expected.
func ApproxEq[T Float](expected T) NearMatcher[T] {
	eps := math.Nextafter(1, 2) - 1
	if _, ok := any(expected).(float32); ok {
		eps = float64(math.Nextafter32(1, 2) - 1)
	}
	tolerance := approxEpsilonFactor * eps *
		math.Max(1, math.Abs(float64(expected)))
	return NearMatcher[T]{expected: expected, maxAbsError: T(tolerance)}
}

// NaNsAreEqual returns a copy of m that treats NaN as equal to a
// NaN expectation.
func (m NearMatcher[T]) NaNsAreEqual() NearMatcher[T] {
	m.nansEqual = true
	return m
}

// Matches implements Matcher.
func (m NearMatcher[T]) Matches(actual T) Result {
	a, e := float64(actual), float64(m.expected)
	if math.IsNaN(a) || math.IsNaN(e) {
		return ResultOf(m.nansEqual && math.IsNaN(a) && math.IsNaN(e))
	}
	if a == e {
		return Match
	}
	return ResultOf(math.Abs(a-e) <= float64(m.maxAbsError))
}

// Describe implements Matcher.
func (m NearMatcher[T]) Describe(r Result) description.Description {
	return description.Text(fmt.Sprintf(
		"%s %v of %v",
		pick(r, "is within", "isn't within"),
		m.maxAbsError, m.expected,
	))
}

// IsNaN matches NaN.
func IsNaN[T Float]() Matcher[T] {
	return leaf(
		func(a T) bool { return math.IsNaN(float64(a)) },
		"is NaN",
		"isn't NaN",
	)
}

// IsFinite matches values that are neither infinite nor NaN.
func IsFinite[T Float]() Matcher[T] {
	return leaf(
		func(a T) bool {
			f := float64(a)
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		},
		"is finite",
		"isn't finite",
	)
}

// PredicateMatcher matches values for which a function returns
// true.
type PredicateMatcher[T any] struct {
	fn      func(T) bool
	onMatch string
	onMiss  string
}

// Predicate matches values for which fn returns true.
func Predicate[T any](fn func(T) bool) PredicateMatcher[T] {
	return PredicateMatcher[T]{
		fn:      fn,
		onMatch: "matches",
		onMiss:  "does not match",
	}
}

// WithDescription returns a copy of m described by the given
// fragments.
func (m PredicateMatcher[T]) WithDescription(
	onMatch, onNoMatch string,
) PredicateMatcher[T] {
	m.onMatch = onMatch
	m.onMiss = onNoMatch
	return m
}

// Matches implements Matcher.
func (m PredicateMatcher[T]) Matches(actual T) Result {
	return ResultOf(m.fn(actual))
}

// Describe implements Matcher.
func (m PredicateMatcher[T]) Describe(r Result) description.Description {
	return description.Text(pick(r, m.onMatch, m.onMiss))
}

// IsNil matches nil pointers, interfaces, maps, slices, channels
// and functions.
func IsNil[T any]() Matcher[T] {
	return leaf(isNil[T], "is nil", "isn't nil")
}

func isNil[T any](actual T) bool {
	v := reflect.ValueOf(any(actual))
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map,
		reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	}
	return false
}

// IsEmpty matches strings, slices, arrays, maps and channels of
// length zero.
func IsEmpty[T any]() Matcher[T] {
	return leaf(
		func(a T) bool {
			n, ok := lengthOf(a)
			return ok && n == 0
		},
		"is empty",
		"isn't empty",
	)
}

type lenMatcher[T any] struct {
	inner Matcher[int]
}

// Len matches values whose length satisfies inner.
func Len[T any](inner Matcher[int]) Matcher[T] {
	return lenMatcher[T]{inner: inner}
}

func (m lenMatcher[T]) Matches(actual T) Result {
	n, ok := lengthOf(actual)
	if !ok {
		return NoMatch
	}
	return m.inner.Matches(n)
}

func (m lenMatcher[T]) Describe(r Result) description.Description {
	return description.Text(
		"has length, which " + Describes(m.inner, r),
	)
}

func (m lenMatcher[T]) ExplainMatch(actual T) description.Description {
	n, ok := lengthOf(actual)
	if !ok {
		return description.Text("which has no length")
	}
	return description.Text(fmt.Sprintf(
		"which has length %d, %s", n, Explain(m.inner, n),
	))
}

func lengthOf(actual any) (int, bool) {
	v := reflect.ValueOf(actual)
	switch v.Kind() {
	case reflect.String, reflect.Slice, reflect.Array,
		reflect.Map, reflect.Chan:
		return v.Len(), true
	}
	return 0, false
}

type pointsToMatcher[T any] struct {
	inner Matcher[T]
}

// PointsTo matches non-nil pointers whose target satisfies
// inner.
func PointsTo[T any](inner Matcher[T]) Matcher[*T] {
	return pointsToMatcher[T]{inner: inner}
}

func (m pointsToMatcher[T]) Matches(actual *T) Result {
	if actual == nil {
		return NoMatch
	}
	return m.inner.Matches(*actual)
}

func (m pointsToMatcher[T]) Describe(r Result) description.Description {
	return m.inner.Describe(r)
}

func (m pointsToMatcher[T]) ExplainMatch(actual *T) description.Description {
	if actual == nil {
		return description.Text("which is a nil pointer")
	}
	return Explain(m.inner, *actual)
}

type displaysAsMatcher[T any] struct {
	inner Matcher[string]
}

// DisplaysAs matches values whose fmt.Sprint form satisfies
// inner.
func DisplaysAs[T any](inner Matcher[string]) Matcher[T] {
	return displaysAsMatcher[T]{inner: inner}
}

func (m displaysAsMatcher[T]) Matches(actual T) Result {
	return m.inner.Matches(fmt.Sprint(actual))
}

func (m displaysAsMatcher[T]) Describe(r Result) description.Description {
	return description.Text(
		"displays as a string which " + Describes(m.inner, r),
	)
}

func (m displaysAsMatcher[T]) ExplainMatch(actual T) description.Description {
	shown := fmt.Sprint(actual)
	return description.Text(fmt.Sprintf(
		"which displays as %q %s", shown, Explain(m.inner, shown),
	))
}

type propertyMatcher[T, P any] struct {
	name  string
	get   func(T) P
	inner Matcher[P]
}

// Property matches values for which get returns a result
// satisfying inner. The name is used in descriptions.
func Property[T, P any](
	name string,
	get func(T) P,
	inner Matcher[P],
) Matcher[T] {
	return propertyMatcher[T, P]{name: name, get: get, inner: inner}
}

func (m propertyMatcher[T, P]) Matches(actual T) Result {
	return m.inner.Matches(m.get(actual))
}

func (m propertyMatcher[T, P]) Describe(r Result) description.Description {
	return description.Text(fmt.Sprintf(
		"has property `%s`, which %s", m.name, Describes(m.inner, r),
	))
}

func (m propertyMatcher[T, P]) ExplainMatch(actual T) description.Description {
	p := m.get(actual)
	return description.Text(fmt.Sprintf(
		"whose property `%s` is %s, %s",
		m.name, FormatValue(p), Explain(m.inner, p),
	))
}
