package assertion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.matchers/pkg/matcher"
	"digital.vasic.matchers/pkg/outcome"
)

func TestEvaluateAndExplainResult(t *testing.T) {
	m := matcher.Contains(matcher.Ge(3))
	assert.Equal(t, matcher.Match, Evaluate(m, []int{1, 2, 3}))
	assert.Equal(t, matcher.NoMatch, Evaluate(m, []int{1, 2}))
	assert.Equal(t,
		"which contains no element which is greater than or equal to 3 among [1 2]",
		ExplainResult(m, []int{1, 2}).String(),
	)
}

func TestVerify_Match(t *testing.T) {
	assert.NoError(t, Verify(3, matcher.Eq(3)))
}

func TestVerify_ReturnsFatalFailure(t *testing.T) {
	err := Verify(4, matcher.Eq(3),
		WithExpression("answer"),
		WithMessage("expected %d", 3),
		WithContext("answer_test.go:12"),
	)
	require.Error(t, err)

	var f *outcome.Failure
	require.True(t, errors.As(err, &f))
	assert.True(t, f.Fatal)
	assert.False(t, f.RecordedAt.IsZero())
	assert.Equal(t, "answer", f.Expression)
	assert.Equal(t, "is equal to 3", f.Expected)
	assert.Equal(t, "4", f.Actual)
	assert.Equal(t, "which isn't equal to 3", f.Explanation)
	assert.Equal(t,
		"Value of: answer\n"+
			"Expected: is equal to 3\n"+
			"Actual: 4,\n"+
			"  which isn't equal to 3\n"+
			"expected 3\n"+
			"  at answer_test.go:12",
		err.Error(),
	)
}

func TestVerify_WithoutExpression(t *testing.T) {
	err := Verify([]int{3, 2, 1}, matcher.ElementsAre[int](matcher.Eq(1), matcher.Eq(2), matcher.Eq(3)))
	require.Error(t, err)
	assert.Equal(t,
		"Expected: has elements:\n"+
			"  0. is equal to 1\n"+
			"  1. is equal to 2\n"+
			"  2. is equal to 3\n"+
			"Actual: [3 2 1],\n"+
			"  where:\n"+
			"    * element #0 is 3, which isn't equal to 1\n"+
			"    * element #2 is 1, which isn't equal to 3",
		err.Error(),
	)
}

func TestWithMessage_NoArgsKeepsPercent(t *testing.T) {
	f := NewFailure(1, matcher.Eq(2), WithMessage("100% wrong"))
	assert.Equal(t, "100% wrong", f.Message)
}

func TestWithPrettyPrintAbove(t *testing.T) {
	actual := map[string]int{"a": 1, "b": 2}
	compact := NewFailure(actual, matcher.IsEmpty[map[string]int]())
	assert.Equal(t, "map[a:1 b:2]", compact.Actual)

	dumped := NewFailure(actual, matcher.IsEmpty[map[string]int](), WithPrettyPrintAbove(4))
	assert.Contains(t, dumped.Actual, "\n")
}

func TestExpect_RecordsNonFatalFailures(t *testing.T) {
	o := outcome.New()
	ctx := outcome.NewContext(context.Background(), o)

	require.NoError(t, Expect(ctx, 1, matcher.Eq(1)))
	require.NoError(t, Expect(ctx, 2, matcher.Eq(1), WithExpression("first")))
	require.NoError(t, Expect(ctx, "b", matcher.Eq("a"), WithExpression("second")))

	v, err := o.Close()
	require.NoError(t, err)
	assert.True(t, v.Failed)
	require.Len(t, v.Failures, 2)
	assert.Equal(t, "first", v.Failures[0].Expression)
	assert.Equal(t, "second", v.Failures[1].Expression)
	assert.False(t, v.Failures[0].Fatal)
	assert.Nil(t, v.Fatal)
}

func TestExpect_WithoutOutcome(t *testing.T) {
	assert.NoError(t, Expect(context.Background(), 1, matcher.Eq(1)))
	assert.ErrorIs(t, Expect(context.Background(), 2, matcher.Eq(1)), outcome.ErrNoOutcome)
}

func TestExpectOn(t *testing.T) {
	o := outcome.New()
	require.NoError(t, ExpectOn(o, 5, matcher.Lt(3)))
	assert.True(t, o.Failed())

	_, err := o.Close()
	require.NoError(t, err)
	assert.ErrorIs(t, ExpectOn(o, 5, matcher.Lt(3)), outcome.ErrOutcomeClosed)
	assert.ErrorIs(t, ExpectOn(nil, 5, matcher.Lt(3)), outcome.ErrNoOutcome)
}

func TestExpect_FromForeignGoroutine(t *testing.T) {
	o := outcome.New()
	ctx := outcome.NewContext(context.Background(), o)

	errs := make(chan error)
	go func() {
		errs <- Expect(ctx, 2, matcher.Eq(1))
	}()
	assert.ErrorIs(t, <-errs, outcome.ErrCrossGoroutine)
	assert.False(t, o.Failed())
}

func TestVerifyThenExpect_FatalStopsInvocation(t *testing.T) {
	o := outcome.New()
	ctx := outcome.NewContext(context.Background(), o)

	body := func(ctx context.Context) error {
		if err := Expect(ctx, 1, matcher.Eq(2)); err != nil {
			return err
		}
		if err := Verify(3, matcher.Gt(5)); err != nil {
			return o.Fail(err.(*outcome.Failure))
		}
		return Expect(ctx, 1, matcher.Eq(3))
	}

	err := body(ctx)
	require.Error(t, err)

	v, cerr := o.Close()
	require.NoError(t, cerr)
	assert.True(t, v.Failed)
	assert.Len(t, v.Failures, 1)
	require.NotNil(t, v.Fatal)
	assert.Equal(t, "is greater than 5", v.Fatal.Expected)
}

func TestResult_Failure(t *testing.T) {
	e := NewEngine()

	passed := e.Evaluate(Definition{Type: "eq", Target: "n", Value: 1}, 1)
	assert.Nil(t, passed.Failure())

	r := e.Evaluate(Definition{
		Type:    "gt",
		Target:  "n",
		Value:   5,
		Message: "n is too small",
	}, 2)
	f := r.Failure()
	require.NotNil(t, f)
	assert.Equal(t,
		"Value of: n\n"+
			"Expected: is greater than 5\n"+
			"Actual: 2,\n"+
			"  which is less than or equal to 5\n"+
			"n is too small",
		f.Error(),
	)

	invalid := e.Evaluate(Definition{Type: "bogus", Target: "n"}, 2).Failure()
	require.NotNil(t, invalid)
	assert.Equal(t,
		"Value of: n\nInvalid assertion `bogus`: unknown matcher type: bogus",
		invalid.Error(),
	)
}
