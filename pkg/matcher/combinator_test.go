package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnd(t *testing.T) {
	m := And(Gt(1), Lt(5))
	assert.Equal(t, Match, m.Matches(3))
	assert.Equal(t, NoMatch, m.Matches(1))
	assert.Equal(t, NoMatch, m.Matches(5))
	assert.Equal(t, "is greater than 1, and is less than 5", m.Describe(Match).String())
	assert.Equal(t, "is less than or equal to 1, or is greater than or equal to 5", m.Describe(NoMatch).String())
}

func TestAnd_ExplainsOnlyFailingChildren(t *testing.T) {
	m := AllOf(Gt(1), Lt(5), Ne(4))
	assert.Equal(t, "which is greater than or equal to 5", Explain(m, 7).String())
	assert.Equal(t,
		"  which is less than or equal to 5\nand\n  which is equal to 4",
		Explain(AllOf(Gt(5), Lt(10), Ne(4)), 4).String(),
	)
}

func TestOr(t *testing.T) {
	m := Or(Lt(1), Gt(5))
	assert.Equal(t, Match, m.Matches(0))
	assert.Equal(t, Match, m.Matches(6))
	assert.Equal(t, NoMatch, m.Matches(3))
	assert.Equal(t, "is less than 1, or is greater than 5", m.Describe(Match).String())
	assert.Equal(t,
		"is greater than or equal to 1, and is less than or equal to 5",
		m.Describe(NoMatch).String(),
	)
}

func TestOr_ExplainsAllChildrenOnFailure(t *testing.T) {
	m := Or(Lt(1), Gt(5))
	assert.Equal(t,
		"  which is greater than or equal to 1\nand\n  which is less than or equal to 5",
		Explain(m, 3).String(),
	)
}

func TestAllOf_Flattens(t *testing.T) {
	left := And(And(Gt(1), Lt(9)), Ne(5))
	right := And(Gt(1), And(Lt(9), Ne(5)))
	flat := AllOf(Gt(1), Lt(9), Ne(5))

	for _, v := range []int{0, 1, 3, 5, 9, 10} {
		assert.Equal(t, flat.Matches(v), left.Matches(v), "value %d", v)
		assert.Equal(t, flat.Matches(v), right.Matches(v), "value %d", v)
		assert.Equal(t, Explain(flat, v).String(), Explain(left, v).String())
		assert.Equal(t, Explain(flat, v).String(), Explain(right, v).String())
	}
	assert.Equal(t, flat.Describe(Match).String(), left.Describe(Match).String())
}

func TestAnyOf_Flattens(t *testing.T) {
	nested := Or(Or(Eq(1), Eq(2)), Eq(3))
	flat := AnyOf(Eq(1), Eq(2), Eq(3))
	assert.Equal(t, flat.Describe(Match).String(), nested.Describe(Match).String())
	assert.Equal(t, Explain(flat, 7).String(), Explain(nested, 7).String())
}

func TestEmptyCombinators(t *testing.T) {
	assert.Equal(t, Match, AllOf[int]().Matches(1))
	assert.Equal(t, NoMatch, AnyOf[int]().Matches(1))
	assert.Equal(t, "is anything", AllOf[int]().Describe(Match).String())
	assert.Equal(t, "never matches", AnyOf[int]().Describe(Match).String())
}

func TestAllOf_MultiLineChildrenUseBulletList(t *testing.T) {
	m := AllOf[[]int](
		ElementsAre[int](Eq(1)),
		Len[[]int](Eq(1)),
	)
	expected := "has all the following properties:\n" +
		"  * has elements:\n" +
		"      0. is equal to 1\n" +
		"  * has length, which is equal to 1"
	assert.Equal(t, expected, m.Describe(Match).String())
}

func TestNot(t *testing.T) {
	m := Not(Gt(3))
	assert.Equal(t, Match, m.Matches(3))
	assert.Equal(t, NoMatch, m.Matches(4))
	assert.Equal(t, "is less than or equal to 3", m.Describe(Match).String())
	assert.Equal(t, "is greater than 3", m.Describe(NoMatch).String())
}

// Algebraic laws every matcher combination must obey.
func TestLaws(t *testing.T) {
	leaves := map[string]Matcher[int]{
		"eq":       Eq(3),
		"lt":       Lt(2),
		"ge":       Ge(5),
		"anything": Anything[int](),
		"and":      And(Gt(0), Lt(10)),
		"or":       Or(Lt(0), Gt(10)),
	}
	values := []int{-5, 0, 1, 2, 3, 5, 10, 11}

	for name, m := range leaves {
		t.Run(name, func(t *testing.T) {
			for _, v := range values {
				// double negation
				assert.Equal(t, m.Matches(v), Not(Not(m)).Matches(v))
				// negation flips the outcome
				assert.Equal(t, m.Matches(v).Negate(), Not(m).Matches(v))
				// anything is the identity of And and absorbs Or
				assert.Equal(t, m.Matches(v), And(m, Anything[int]()).Matches(v))
				assert.Equal(t, Match, Or(m, Anything[int]()).Matches(v))
				// purity
				assert.Equal(t, m.Matches(v), m.Matches(v))
				assert.Equal(t, Explain(m, v).String(), Explain(m, v).String())
			}
			// Not swaps the polarity of the description
			assert.Equal(t, m.Describe(NoMatch).String(), Not(m).Describe(Match).String())
			assert.Equal(t, m.Describe(Match).String(), Not(m).Describe(NoMatch).String())
		})
	}
}
