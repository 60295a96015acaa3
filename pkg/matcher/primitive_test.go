package matcher

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEq(t *testing.T) {
	tests := []struct {
		name     string
		actual   any
		expected any
		result   Result
	}{
		{"equal ints", 1, 1, Match},
		{"different ints", 1, 2, NoMatch},
		{"equal slices", []int{1, 2}, []int{1, 2}, Match},
		{"different slices", []int{1, 2}, []int{2, 1}, NoMatch},
		{"equal maps", map[string]int{"a": 1}, map[string]int{"a": 1}, Match},
		{"different types", 1, int64(1), NoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.result, Eq(tt.expected).Matches(tt.actual))
		})
	}
}

func TestEq_Describe(t *testing.T) {
	m := Eq(3)
	assert.Equal(t, "is equal to 3", m.Describe(Match).String())
	assert.Equal(t, "isn't equal to 3", m.Describe(NoMatch).String())
	assert.Equal(t, `is equal to "abc"`, Eq("abc").Describe(Match).String())
}

func TestEq_ExplainMultilineStringShowsDiff(t *testing.T) {
	m := Eq("line one\nline two\nline three")
	explanation := Explain[string](m, "line one\nline 2\nline three").String()

	assert.Contains(t, explanation, "which isn't equal to")
	assert.Contains(t, explanation, "Difference(-actual / +expected):")
	assert.Contains(t, explanation, "-line 2")
	assert.Contains(t, explanation, "+line two")
}

func TestEq_ExplainSingleLineHasNoDiff(t *testing.T) {
	explanation := Explain[string](Eq("a"), "b").String()
	assert.Equal(t, `which isn't equal to "a"`, explanation)
}

func TestNe(t *testing.T) {
	m := Ne(3)
	assert.Equal(t, Match, m.Matches(4))
	assert.Equal(t, NoMatch, m.Matches(3))
	assert.Equal(t, "isn't equal to 3", m.Describe(Match).String())
	assert.Equal(t, "is equal to 3", m.Describe(NoMatch).String())
}

func TestOrdering(t *testing.T) {
	tests := []struct {
		name    string
		m       Matcher[int]
		actual  int
		result  Result
		onMatch string
	}{
		{"lt below", Lt(3), 2, Match, "is less than 3"},
		{"lt equal", Lt(3), 3, NoMatch, "is less than 3"},
		{"le equal", Le(3), 3, Match, "is less than or equal to 3"},
		{"le above", Le(3), 4, NoMatch, "is less than or equal to 3"},
		{"gt above", Gt(3), 4, Match, "is greater than 3"},
		{"gt equal", Gt(3), 3, NoMatch, "is greater than 3"},
		{"ge equal", Ge(3), 3, Match, "is greater than or equal to 3"},
		{"ge below", Ge(3), 2, NoMatch, "is greater than or equal to 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.result, tt.m.Matches(tt.actual))
			assert.Equal(t, tt.onMatch, tt.m.Describe(Match).String())
		})
	}
}

func TestOrdering_NoMatchDescriptionIsComplement(t *testing.T) {
	assert.Equal(t, "is greater than or equal to 3", Lt(3).Describe(NoMatch).String())
	assert.Equal(t, "is greater than 3", Le(3).Describe(NoMatch).String())
	assert.Equal(t, "is less than or equal to 3", Gt(3).Describe(NoMatch).String())
	assert.Equal(t, "is less than 3", Ge(3).Describe(NoMatch).String())
}

func TestOrdering_NaNNeverMatches(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name    string
		m       Matcher[float64]
		actual  float64
		explain string
	}{
		{"lt nan actual", Lt(5.0), nan, "which is NaN"},
		{"le nan actual", Le(5.0), nan, "which is NaN"},
		{"gt nan actual", Gt(5.0), nan, "which is NaN"},
		{"ge nan actual", Ge(5.0), nan, "which is NaN"},
		{"lt nan bound", Lt(nan), 1, "which can't be ordered against NaN"},
		{"le nan bound", Le(nan), 1, "which can't be ordered against NaN"},
		{"gt nan bound", Gt(nan), 1, "which can't be ordered against NaN"},
		{"ge nan bound", Ge(nan), 1, "which can't be ordered against NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, NoMatch, tt.m.Matches(tt.actual))
			assert.Equal(t, tt.explain, Explain(tt.m, tt.actual).String())
		})
	}
}

func TestOrdering_ExplainFloats(t *testing.T) {
	assert.Equal(t, "which is less than 5", Explain(Lt(5.0), 4.5).String())
	assert.Equal(t, "which is greater than or equal to 5", Explain(Lt(5.0), 5.0).String())
	assert.Equal(t, Match, Ge(math.Inf(-1)).Matches(-1e300))
}

func TestNear(t *testing.T) {
	m := Near(1.0, 0.25)
	assert.Equal(t, Match, m.Matches(1.2))
	assert.Equal(t, Match, m.Matches(0.75))
	assert.Equal(t, NoMatch, m.Matches(1.3))
	assert.Equal(t, NoMatch, m.Matches(math.NaN()))
	assert.Equal(t, "is within 0.25 of 1", m.Describe(Match).String())
	assert.Equal(t, "isn't within 0.25 of 1", m.Describe(NoMatch).String())
}

func TestNear_NaN(t *testing.T) {
	assert.Equal(t, NoMatch, Near(math.NaN(), 1.0).Matches(math.NaN()))
	assert.Equal(t, Match, Near(math.NaN(), 1.0).NaNsAreEqual().Matches(math.NaN()))
}

func TestNear_InfinityMatchesItself(t *testing.T) {
	assert.Equal(t, Match, Near(math.Inf(1), 0.1).Matches(math.Inf(1)))
	assert.Equal(t, NoMatch, Near(math.Inf(1), 0.1).Matches(math.Inf(-1)))
}

func TestNear_PanicsOnNegativeTolerance(t *testing.T) {
	assert.Panics(t, func() { Near(1.0, -0.1) })
}

func TestApproxEq(t *testing.T) {
	assert.Equal(t, Match, ApproxEq(0.1+0.2).Matches(0.3))
	assert.Equal(t, NoMatch, ApproxEq(0.3).Matches(0.31))
	assert.Equal(t, Match, ApproxEq(float32(1.0)).Matches(float32(1.0)))
}

func TestIsNaNAndIsFinite(t *testing.T) {
	assert.Equal(t, Match, IsNaN[float64]().Matches(math.NaN()))
	assert.Equal(t, NoMatch, IsNaN[float64]().Matches(1))
	assert.Equal(t, Match, IsFinite[float64]().Matches(1))
	assert.Equal(t, NoMatch, IsFinite[float64]().Matches(math.Inf(1)))
	assert.Equal(t, NoMatch, IsFinite[float64]().Matches(math.NaN()))
}

func TestAnything(t *testing.T) {
	m := Anything[int]()
	assert.Equal(t, Match, m.Matches(0))
	assert.Equal(t, "is anything", m.Describe(Match).String())
	assert.Equal(t, "never matches", m.Describe(NoMatch).String())
}

func TestPredicate(t *testing.T) {
	even := Predicate(func(n int) bool { return n%2 == 0 }).
		WithDescription("is even", "is odd")

	assert.Equal(t, Match, even.Matches(4))
	assert.Equal(t, NoMatch, even.Matches(3))
	assert.Equal(t, "which is odd", Explain[int](even, 3).String())
	assert.Equal(t, "matches", Predicate(func(int) bool { return true }).Describe(Match).String())
}

func TestIsNil(t *testing.T) {
	var p *int
	var s []int
	var e error
	assert.Equal(t, Match, IsNil[*int]().Matches(p))
	assert.Equal(t, Match, IsNil[[]int]().Matches(s))
	assert.Equal(t, Match, IsNil[error]().Matches(e))
	assert.Equal(t, NoMatch, IsNil[[]int]().Matches([]int{}))
	assert.Equal(t, NoMatch, IsNil[int]().Matches(0))
}

func TestLenAndIsEmpty(t *testing.T) {
	assert.Equal(t, Match, Len[[]int](Eq(3)).Matches([]int{1, 2, 3}))
	assert.Equal(t, NoMatch, Len[string](Eq(3)).Matches("ab"))
	assert.Equal(t, NoMatch, Len[int](Eq(0)).Matches(0))
	assert.Equal(t, "has length, which is equal to 3", Len[string](Eq(3)).Describe(Match).String())
	assert.Equal(t, "which has length 2, which isn't equal to 3", Explain(Len[string](Eq(3)), "ab").String())
	assert.Equal(t, "which has no length", Explain(Len[int](Eq(0)), 5).String())

	assert.Equal(t, Match, IsEmpty[map[string]int]().Matches(map[string]int{}))
	assert.Equal(t, NoMatch, IsEmpty[string]().Matches("x"))
}

func TestPointsTo(t *testing.T) {
	v := 5
	m := PointsTo[int](Eq(5))
	assert.Equal(t, Match, m.Matches(&v))
	assert.Equal(t, NoMatch, m.Matches(nil))
	assert.Equal(t, "which is a nil pointer", Explain[*int](m, nil).String())
}

type stringerValue struct{ n int }

func (s stringerValue) String() string { return fmt.Sprintf("value(%d)", s.n) }

func TestDisplaysAs(t *testing.T) {
	m := DisplaysAs[stringerValue](Eq("value(1)"))
	assert.Equal(t, Match, m.Matches(stringerValue{1}))
	assert.Equal(t, NoMatch, m.Matches(stringerValue{2}))
	assert.Equal(t, `displays as a string which is equal to "value(1)"`, m.Describe(Match).String())
	assert.Equal(t,
		`which displays as "value(2)" which isn't equal to "value(1)"`,
		Explain(m, stringerValue{2}).String(),
	)
}

func TestProperty(t *testing.T) {
	m := Property("len", func(s string) int { return len(s) }, Gt(2))
	assert.Equal(t, Match, m.Matches("abc"))
	assert.Equal(t, NoMatch, m.Matches("a"))
	assert.Equal(t, "has property `len`, which is greater than 2", m.Describe(Match).String())
	assert.Equal(t,
		"whose property `len` is 1, which is less than or equal to 2",
		Explain(m, "a").String(),
	)
}

func TestStringMatchers(t *testing.T) {
	tests := []struct {
		name   string
		m      Matcher[string]
		actual string
		result Result
	}{
		{"starts with", StartsWith[string]("foo"), "foobar", Match},
		{"starts with miss", StartsWith[string]("bar"), "foobar", NoMatch},
		{"ends with", EndsWith[string]("bar"), "foobar", Match},
		{"ends with miss", EndsWith[string]("foo"), "foobar", NoMatch},
		{"substring", ContainsSubstring[string]("oba"), "foobar", Match},
		{"substring miss", ContainsSubstring[string]("xyz"), "foobar", NoMatch},
		{"ignoring case", EqIgnoringASCIICase[string]("FooBar"), "fOObAR", Match},
		{"ignoring case miss", EqIgnoringASCIICase[string]("FooBaz"), "foobar", NoMatch},
		{"regex full", MatchesRegex[string](`fo+bar`), "foobar", Match},
		{"regex partial is not full", MatchesRegex[string](`fo+`), "foobar", NoMatch},
		{"contains regex", ContainsRegex[string](`o+b`), "foobar", Match},
		{"contains regex miss", ContainsRegex[string](`z+`), "foobar", NoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.result, tt.m.Matches(tt.actual))
			assert.NotEmpty(t, tt.m.Describe(Match).String())
			assert.NotEmpty(t, tt.m.Describe(NoMatch).String())
		})
	}
}

func TestMatchesRegex_PanicsOnInvalidPattern(t *testing.T) {
	assert.Panics(t, func() { MatchesRegex[string](`(`) })
}

func TestErrorMatchers(t *testing.T) {
	sentinel := errors.New("boom")
	wrapped := fmt.Errorf("outer: %w", sentinel)

	assert.Equal(t, Match, IsError().Matches(sentinel))
	assert.Equal(t, NoMatch, IsError().Matches(nil))
	assert.Equal(t, Match, ErrorIs(sentinel).Matches(wrapped))
	assert.Equal(t, NoMatch, ErrorIs(sentinel).Matches(errors.New("other")))

	msg := HasErrorMessage(ContainsSubstring[string]("boom"))
	assert.Equal(t, Match, msg.Matches(wrapped))
	assert.Equal(t, NoMatch, msg.Matches(nil))
	assert.Equal(t, "which is not an error", Explain[error](msg, nil).String())
}

func TestAs(t *testing.T) {
	m := As[int](Gt(2))
	assert.Equal(t, Match, m.Matches(3))
	assert.Equal(t, NoMatch, m.Matches("3"))
	assert.Equal(t, "which is a string, not int", Explain(m, "3").String())
	assert.Equal(t, "which is greater than 2", Explain(m, 3).String())
}

func TestAs_InterfaceTarget(t *testing.T) {
	m := As[fmt.Stringer](Anything[fmt.Stringer]())
	assert.Equal(t, Match, m.Matches(stringerValue{1}))
	assert.Equal(t, NoMatch, m.Matches(3))
	assert.Equal(t, "which is a int, not fmt.Stringer", Explain(m, 3).String())

	errs := As[error](IsError())
	assert.Equal(t, "which is <nil>, not error", Explain(errs, nil).String())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, `"a"`, FormatValue("a"))
	assert.Equal(t, "[1 2 3]", FormatValue([]int{1, 2, 3}))
	assert.Equal(t, "<nil>", FormatValue(nil))
	assert.Equal(t, "{A:1 B:x}", FormatValue(struct {
		A int
		B string
	}{1, "x"}))
}

func TestFormatActual_SwitchesToDumpAboveThreshold(t *testing.T) {
	short := FormatActual([]int{1, 2}, 0)
	assert.Equal(t, "[1 2]", short)

	long := make([]int, 40)
	dumped := FormatActual(long, 0)
	assert.Contains(t, dumped, "\n")
	assert.Contains(t, dumped, "([]int)")
}

func TestResult(t *testing.T) {
	assert.Equal(t, Match, ResultOf(true))
	assert.Equal(t, NoMatch, ResultOf(false))
	assert.Equal(t, NoMatch, Match.Negate())
	assert.True(t, Match.IsMatch())
	assert.True(t, NoMatch.IsNoMatch())
	assert.Equal(t, "match", Match.String())
	assert.Equal(t, "no match", NoMatch.String())
}
