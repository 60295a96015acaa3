package assertion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllOf_ExplainsOnlyFailingChildren(t *testing.T) {
	e := NewEngine()

	r := e.Evaluate(Definition{Type: "all_of", Children: []Definition{
		{Type: "gt", Value: 5},
		{Type: "lt", Value: 10},
		{Type: "ne", Value: 4},
	}}, 4)

	require.False(t, r.Passed)
	assert.Equal(t,
		"  which is less than or equal to 5\nand\n  which is equal to 4",
		r.Explanation,
	)
}

func TestAnyOf_ExplainsEveryChild(t *testing.T) {
	e := NewEngine()

	r := e.Evaluate(Definition{Type: "any_of", Children: []Definition{
		{Type: "lt", Value: 1},
		{Type: "gt", Value: 5},
	}}, 3)

	require.False(t, r.Passed)
	assert.Equal(t, "is less than 1, or is greater than 5", r.Expected)
	assert.Equal(t,
		"  which is greater than or equal to 1\nand\n  which is less than or equal to 5",
		r.Explanation,
	)
}

func TestNot_SwapsPolarity(t *testing.T) {
	e := NewEngine()

	r := e.Evaluate(Definition{Type: "not", Children: []Definition{
		{Type: "substring", Value: "err"},
	}}, "no error here")

	require.False(t, r.Passed)
	assert.Equal(t, `does not contain a substring "err"`, r.Expected)
}

func TestEmptyCombinators(t *testing.T) {
	e := NewEngine()
	assert.True(t, e.Evaluate(Definition{Type: "all_of"}, 1).Passed)
	assert.False(t, e.Evaluate(Definition{Type: "any_of"}, 1).Passed)
}
