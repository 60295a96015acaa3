package assertion

import (
	"fmt"

	"digital.vasic.matchers/pkg/matcher"
)

// children builds every child of def. Definitions without
// children fall back to equality matchers over def.Values.
func children(b Builder, def Definition) ([]matcher.Matcher[any], error) {
	if len(def.Children) == 0 {
		return eqValues(def.Values), nil
	}
	out := make([]matcher.Matcher[any], len(def.Children))
	for i, c := range def.Children {
		m, err := b.Build(c)
		if err != nil {
			return nil, fmt.Errorf("%s: child %d: %w", def.Type, i, err)
		}
		out[i] = m
	}
	return out, nil
}

func buildNot(b Builder, def Definition) (matcher.Matcher[any], error) {
	if len(def.Children) != 1 {
		return nil, fmt.Errorf("not: takes one child, got %d", len(def.Children))
	}
	inner, err := b.Build(def.Children[0])
	if err != nil {
		return nil, err
	}
	return matcher.Not(inner), nil
}

func buildAllOf(b Builder, def Definition) (matcher.Matcher[any], error) {
	ms, err := children(b, def)
	if err != nil {
		return nil, err
	}
	return matcher.AllOf(ms...), nil
}

func buildAnyOf(b Builder, def Definition) (matcher.Matcher[any], error) {
	ms, err := children(b, def)
	if err != nil {
		return nil, err
	}
	return matcher.AnyOf(ms...), nil
}
