package assertion

import (
	"encoding/json"
	"fmt"
	"regexp"

	"digital.vasic.matchers/pkg/jsonmatch"
	"digital.vasic.matchers/pkg/matcher"
)

// registerDefaults registers all built-in factories.
func (e *DefaultEngine) registerDefaults() {
	e.factories["anything"] = buildAnything
	e.factories["eq"] = buildEq
	e.factories["ne"] = buildNe
	e.factories["lt"] = ordering(matcher.Lt[float64])
	e.factories["le"] = ordering(matcher.Le[float64])
	e.factories["gt"] = ordering(matcher.Gt[float64])
	e.factories["ge"] = ordering(matcher.Ge[float64])
	e.factories["near"] = buildNear
	e.factories["is_nil"] = buildIsNil
	e.factories["is_empty"] = buildIsEmpty
	e.factories["not_empty"] = buildNotEmpty
	e.factories["len"] = buildLen
	e.factories["substring"] = text(matcher.ContainsSubstring[string])
	e.factories["prefix"] = text(matcher.StartsWith[string])
	e.factories["suffix"] = text(matcher.EndsWith[string])
	e.factories["eq_ignoring_case"] = text(matcher.EqIgnoringASCIICase[string])
	e.factories["regex"] = buildRegex
	e.factories["contains_regex"] = buildContainsRegex
	e.factories["not"] = buildNot
	e.factories["all_of"] = buildAllOf
	e.factories["any_of"] = buildAnyOf
	e.factories["contains"] = buildContains
	e.factories["each"] = buildEach
	e.factories["elements_are"] = elements(matcher.ElementsAre[any])
	e.factories["unordered_elements_are"] = elements(matcher.UnorderedElementsAre[any])
	e.factories["contains_each"] = elements(matcher.ContainsEach[any])
	e.factories["is_contained_in"] = elements(matcher.IsContainedIn[any])
	e.factories["superset_of"] = valueSet(matcher.ContainsEach[any])
	e.factories["subset_of"] = valueSet(matcher.IsContainedIn[any])
	e.factories["has_entry"] = buildHasEntry
	e.factories["field"] = buildField
	e.factories["fields"] = buildFields
	e.factories["json_path"] = buildJSONPath
	e.factories["json_schema"] = buildJSONSchema
	e.factories["valid_json"] = buildValidJSON
}

func buildAnything(_ Builder, _ Definition) (matcher.Matcher[any], error) {
	return matcher.Anything[any](), nil
}

// eqValue builds an equality matcher for a decoded value.
// Numbers compare numerically, strings as strings and lists
// element by element.
func eqValue(v any) matcher.Matcher[any] {
	if f, ok := toFloat(v); ok {
		return asNumber(matcher.Eq(f))
	}
	if s, ok := v.(string); ok {
		return asText(matcher.Eq(s))
	}
	if list, ok := v.([]any); ok {
		return asList(matcher.ElementsAre(eqValues(list)...))
	}
	return matcher.Eq(v)
}

func eqValues(values []any) []matcher.Matcher[any] {
	out := make([]matcher.Matcher[any], len(values))
	for i, v := range values {
		out[i] = eqValue(v)
	}
	return out
}

func buildEq(_ Builder, def Definition) (matcher.Matcher[any], error) {
	return eqValue(def.Value), nil
}

func buildNe(_ Builder, def Definition) (matcher.Matcher[any], error) {
	return matcher.Not(eqValue(def.Value)), nil
}

func number(def Definition) (float64, error) {
	f, ok := toFloat(def.Value)
	if !ok {
		return 0, fmt.Errorf("%s: value must be a number, got %s",
			def.Type, matcher.FormatValue(def.Value))
	}
	return f, nil
}

func ordering(build func(float64) matcher.Matcher[float64]) Factory {
	return func(_ Builder, def Definition) (matcher.Matcher[any], error) {
		bound, err := number(def)
		if err != nil {
			return nil, err
		}
		return asNumber(build(bound)), nil
	}
}

func buildNear(_ Builder, def Definition) (matcher.Matcher[any], error) {
	expected, err := number(def)
	if err != nil {
		return nil, err
	}
	if def.Tolerance < 0 {
		return nil, fmt.Errorf("near: tolerance must not be negative")
	}
	if def.Tolerance == 0 {
		return asNumber(matcher.ApproxEq(expected)), nil
	}
	return asNumber(matcher.Near(expected, def.Tolerance)), nil
}

func buildIsNil(_ Builder, _ Definition) (matcher.Matcher[any], error) {
	return matcher.IsNil[any](), nil
}

func buildIsEmpty(_ Builder, _ Definition) (matcher.Matcher[any], error) {
	return matcher.IsEmpty[any](), nil
}

func buildNotEmpty(_ Builder, _ Definition) (matcher.Matcher[any], error) {
	return matcher.AllOf(
		matcher.Not(matcher.IsNil[any]()),
		matcher.Not(matcher.IsEmpty[any]()),
	), nil
}

func buildLen(b Builder, def Definition) (matcher.Matcher[any], error) {
	inner, err := single(b, def)
	if err != nil {
		return nil, err
	}
	return matcher.Len[any](fromInt(inner)), nil
}

func str(def Definition) (string, error) {
	s, ok := def.Value.(string)
	if !ok {
		return "", fmt.Errorf("%s: value must be a string, got %s",
			def.Type, matcher.FormatValue(def.Value))
	}
	return s, nil
}

func text(build func(string) matcher.Matcher[string]) Factory {
	return func(_ Builder, def Definition) (matcher.Matcher[any], error) {
		s, err := str(def)
		if err != nil {
			return nil, err
		}
		return asText(build(s)), nil
	}
}

func compile(def Definition) (*regexp.Regexp, error) {
	pattern, err := str(def)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", def.Type, err)
	}
	return re, nil
}

func buildRegex(_ Builder, def Definition) (matcher.Matcher[any], error) {
	re, err := compile(def)
	if err != nil {
		return nil, err
	}
	return asText(matcher.MatchesRegexp[string](re)), nil
}

func buildContainsRegex(_ Builder, def Definition) (matcher.Matcher[any], error) {
	re, err := compile(def)
	if err != nil {
		return nil, err
	}
	return asText(matcher.ContainsRegex[string](re.String())), nil
}

// single returns the one child of def, or an equality matcher
// for def.Value when there are no children.
func single(b Builder, def Definition) (matcher.Matcher[any], error) {
	switch len(def.Children) {
	case 0:
		if def.Value == nil {
			return nil, fmt.Errorf("%s: needs one child or a value", def.Type)
		}
		return eqValue(def.Value), nil
	case 1:
		return b.Build(def.Children[0])
	default:
		return nil, fmt.Errorf("%s: takes one child, got %d",
			def.Type, len(def.Children))
	}
}

func buildContains(b Builder, def Definition) (matcher.Matcher[any], error) {
	inner, err := single(b, def)
	if err != nil {
		return nil, err
	}
	m := matcher.Contains(inner)
	if def.Times != nil {
		count, err := b.Build(*def.Times)
		if err != nil {
			return nil, fmt.Errorf("contains: times: %w", err)
		}
		m = m.Times(fromInt(count))
	}
	return asList(m), nil
}

func buildEach(b Builder, def Definition) (matcher.Matcher[any], error) {
	inner, err := single(b, def)
	if err != nil {
		return nil, err
	}
	return asList(matcher.Each(inner)), nil
}

func elements(build func(...matcher.Matcher[any]) matcher.Matcher[[]any]) Factory {
	return func(b Builder, def Definition) (matcher.Matcher[any], error) {
		ms, err := children(b, def)
		if err != nil {
			return nil, err
		}
		return asList(build(ms...)), nil
	}
}

func valueSet(build func(...matcher.Matcher[any]) matcher.Matcher[[]any]) Factory {
	return func(_ Builder, def Definition) (matcher.Matcher[any], error) {
		if len(def.Children) > 0 {
			return nil, fmt.Errorf("%s: takes values, not children", def.Type)
		}
		return asList(build(eqValues(def.Values)...)), nil
	}
}

func buildHasEntry(b Builder, def Definition) (matcher.Matcher[any], error) {
	if def.Field == "" {
		return nil, fmt.Errorf("has_entry: field is required")
	}
	inner, err := single(b, def)
	if err != nil {
		return nil, err
	}
	return asObject(matcher.HasEntry(def.Field, inner)), nil
}

func objectField(b Builder, def Definition) (matcher.FieldMatcher[map[string]any], error) {
	var zero matcher.FieldMatcher[map[string]any]
	if def.Field == "" {
		return zero, fmt.Errorf("%s: field is required", def.Type)
	}
	inner, err := single(b, def)
	if err != nil {
		return zero, err
	}
	name := def.Field
	return matcher.Field(
		name,
		func(o map[string]any) any { return o[name] },
		inner,
	), nil
}

func buildField(b Builder, def Definition) (matcher.Matcher[any], error) {
	f, err := objectField(b, def)
	if err != nil {
		return nil, err
	}
	return asObject(f), nil
}

// buildFields matches objects field by field. Each child names
// its field and carries the matcher for it, either as its own
// type or as a nested child.
func buildFields(b Builder, def Definition) (matcher.Matcher[any], error) {
	if len(def.Children) == 0 {
		return nil, fmt.Errorf("fields: needs at least one child")
	}
	fields := make([]matcher.FieldMatcher[map[string]any], len(def.Children))
	for i, c := range def.Children {
		if c.Field == "" {
			return nil, fmt.Errorf("fields: child %d has no field name", i)
		}
		inner := c
		inner.Field = ""
		f, err := objectField(b, Definition{
			Type:     "field",
			Field:    c.Field,
			Children: []Definition{inner},
		})
		if err != nil {
			return nil, fmt.Errorf("fields: %s: %w", c.Field, err)
		}
		fields[i] = f
	}
	return asObject(matcher.Struct(fields...).Named("an object")), nil
}

func buildJSONPath(b Builder, def Definition) (matcher.Matcher[any], error) {
	if def.Path == "" {
		return nil, fmt.Errorf("json_path: path is required")
	}
	inner, err := single(b, def)
	if err != nil {
		return nil, err
	}
	return jsonmatch.JSONPath(def.Path, inner), nil
}

// buildJSONSchema reads the schema from Path when set; otherwise
// Value holds the schema, either as JSON text or as a decoded
// document.
func buildJSONSchema(_ Builder, def Definition) (matcher.Matcher[any], error) {
	if def.Path != "" {
		return jsonmatch.MatchesSchemaFile(def.Path)
	}
	switch v := def.Value.(type) {
	case nil:
		return nil, fmt.Errorf("json_schema: needs a path or a value")
	case string:
		return jsonmatch.MatchesSchema(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("json_schema: %w", err)
		}
		return jsonmatch.MatchesSchema(string(data))
	}
}

func buildValidJSON(_ Builder, _ Definition) (matcher.Matcher[any], error) {
	return jsonmatch.IsValidJSON(), nil
}
