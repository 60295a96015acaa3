package matcher

import (
	"fmt"
	"reflect"

	"digital.vasic.matchers/pkg/description"
)

// FieldMatcher matches one named field of a struct-like value S.
// It is a Matcher in its own right and the building block of
// Struct and Variant.
type FieldMatcher[S any] struct {
	name     string
	matches  func(S) Result
	describe func(Result) description.Description
	explain  func(S) description.Description
}

// Field matches values of S whose field, read by get, satisfies
// inner.
func Field[S, F any](name string, get func(S) F, inner Matcher[F]) FieldMatcher[S] {
	return FieldMatcher[S]{
		name: name,
		matches: func(s S) Result {
			return inner.Matches(get(s))
		},
		describe: func(r Result) description.Description {
			return description.Text(fmt.Sprintf(
				"has field `%s`, which %s", name, Describes(inner, r),
			))
		},
		explain: func(s S) description.Description {
			v := get(s)
			return description.Text(fmt.Sprintf(
				"whose field `%s` is %s, %s",
				name, FormatValue(v), Explain(inner, v),
			))
		},
	}
}

// Name returns the field name.
func (f FieldMatcher[S]) Name() string {
	return f.name
}

// Matches implements Matcher.
func (f FieldMatcher[S]) Matches(actual S) Result {
	return f.matches(actual)
}

// Describe implements Matcher.
func (f FieldMatcher[S]) Describe(r Result) description.Description {
	return f.describe(r)
}

// ExplainMatch implements Explainer.
func (f FieldMatcher[S]) ExplainMatch(actual S) description.Description {
	return f.explain(actual)
}

// StructMatcher matches a value of S field by field.
type StructMatcher[S any] struct {
	typeName string
	fields   []FieldMatcher[S]
}

// Struct matches values of S whose every listed field matches.
func Struct[S any](fields ...FieldMatcher[S]) StructMatcher[S] {
	return StructMatcher[S]{
		typeName: reflect.TypeFor[S]().String(),
		fields:   fields,
	}
}

// Named returns a copy of m that calls the value name in
// descriptions instead of the Go type name.
func (m StructMatcher[S]) Named(name string) StructMatcher[S] {
	m.typeName = name
	return m
}

// Matches implements Matcher.
func (m StructMatcher[S]) Matches(actual S) Result {
	for _, f := range m.fields {
		if f.Matches(actual) == NoMatch {
			return NoMatch
		}
	}
	return Match
}

// Describe implements Matcher.
func (m StructMatcher[S]) Describe(r Result) description.Description {
	return describeFields(m.typeName, m.fields, r)
}

// ExplainMatch aggregates every mismatching field into one
// report.
func (m StructMatcher[S]) ExplainMatch(actual S) description.Description {
	return explainFields(m.fields, actual)
}

// Mismatches returns the names of the fields that do not match,
// in declaration order.
func (m StructMatcher[S]) Mismatches(actual S) []string {
	var names []string
	for _, f := range m.fields {
		if f.Matches(actual) == NoMatch {
			names = append(names, f.name)
		}
	}
	return names
}

func describeFields[S any](
	typeName string,
	fields []FieldMatcher[S],
	r Result,
) description.Description {
	if len(fields) == 0 {
		return description.Text(pick(r, "is ", "is not ") + typeName)
	}
	header := pick(
		r,
		"is "+typeName+" with fields:",
		"is "+typeName+" with at least one field where:",
	)
	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = f.Describe(r).String()
	}
	return description.Text(header).
		Nested(description.Lines(lines...).BulletList())
}

func explainFields[S any](fields []FieldMatcher[S], actual S) description.Description {
	var failing []description.Description
	for _, f := range fields {
		if f.Matches(actual) == NoMatch {
			failing = append(failing, f.ExplainMatch(actual))
		}
	}
	switch len(failing) {
	case 0:
		return description.Text("whose fields all match")
	case 1:
		return failing[0]
	}
	return description.Text("which has mismatching fields:").
		Nested(description.Collect(failing...).BulletList())
}

// VariantMatcher matches a sum type S, modelled as an interface,
// whose dynamic type is the variant V and whose fields match.
type VariantMatcher[S, V any] struct {
	name   string
	fields []FieldMatcher[V]
}

// Variant matches values of the interface type S holding a V
// whose listed fields match. The name is the variant tag used in
// descriptions.
func Variant[S, V any](name string, fields ...FieldMatcher[V]) VariantMatcher[S, V] {
	return VariantMatcher[S, V]{name: name, fields: fields}
}

// Matches implements Matcher.
func (m VariantMatcher[S, V]) Matches(actual S) Result {
	v, ok := any(actual).(V)
	if !ok {
		return NoMatch
	}
	for _, f := range m.fields {
		if f.Matches(v) == NoMatch {
			return NoMatch
		}
	}
	return Match
}

// Describe implements Matcher.
func (m VariantMatcher[S, V]) Describe(r Result) description.Description {
	if len(m.fields) == 0 {
		return description.Text(fmt.Sprintf(
			"%s variant `%s`", pick(r, "is", "is not"), m.name,
		))
	}
	lines := make([]string, len(m.fields))
	for i, f := range m.fields {
		lines[i] = f.Describe(r).String()
	}
	header := pick(
		r,
		fmt.Sprintf("is variant `%s` with fields:", m.name),
		fmt.Sprintf("is not variant `%s`, or has at least one field where:", m.name),
	)
	return description.Text(header).
		Nested(description.Lines(lines...).BulletList())
}

// ExplainMatch reports a wrong variant on its own, without
// field-level failures.
func (m VariantMatcher[S, V]) ExplainMatch(actual S) description.Description {
	v, ok := any(actual).(V)
	if !ok {
		return description.Text(fmt.Sprintf(
			"which has the wrong variant `%s`", variantName(actual),
		))
	}
	return explainFields(m.fields, v)
}

// WrongVariant reports whether actual is not of the variant V.
func (m VariantMatcher[S, V]) WrongVariant(actual S) bool {
	_, ok := any(actual).(V)
	return !ok
}

func variantName(actual any) string {
	if actual == nil {
		return "<nil>"
	}
	t := reflect.TypeOf(actual)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
