// Package jsonmatch provides matchers over JSON documents: path
// extraction with gjson and JSON Schema validation with
// gojsonschema.
//
// A document may be given as a string, a []byte, a
// json.RawMessage, or any other value, which is marshaled first.
package jsonmatch

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"digital.vasic.matchers/pkg/description"
	"digital.vasic.matchers/pkg/matcher"
)

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// NormalizePath converts bracket indexes to gjson dot notation,
// so "items[0].tags[1]" becomes "items.0.tags.1".
func NormalizePath(path string) string {
	path = bracketIndex.ReplaceAllString(path, ".$1")
	return strings.TrimPrefix(path, ".")
}

// Document returns the JSON text of v and whether it is valid
// JSON.
func Document(v any) ([]byte, bool) {
	var doc []byte
	switch d := v.(type) {
	case string:
		doc = []byte(d)
	case []byte:
		doc = d
	case json.RawMessage:
		doc = d
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		doc = b
	}
	return doc, gjson.ValidBytes(doc)
}

// IsValidJSON matches values that are, or marshal to, valid JSON.
func IsValidJSON() matcher.Matcher[any] {
	return matcher.Predicate(func(v any) bool {
		_, ok := Document(v)
		return ok
	}).WithDescription("is valid JSON", "isn't valid JSON")
}

type pathMatcher struct {
	path  string
	inner matcher.Matcher[any]
}

// JSONPath matches documents holding a value at path that
// satisfies inner. Numbers are decoded as float64, objects as
// map[string]any and arrays as []any.
func JSONPath(path string, inner matcher.Matcher[any]) matcher.Matcher[any] {
	return pathMatcher{path: path, inner: inner}
}

func (m pathMatcher) lookup(actual any) (gjson.Result, bool) {
	doc, ok := Document(actual)
	if !ok {
		return gjson.Result{}, false
	}
	return gjson.GetBytes(doc, NormalizePath(m.path)), true
}

func (m pathMatcher) Matches(actual any) matcher.Result {
	res, ok := m.lookup(actual)
	if !ok || !res.Exists() {
		return matcher.NoMatch
	}
	return m.inner.Matches(res.Value())
}

func (m pathMatcher) Describe(r matcher.Result) description.Description {
	return description.Text(fmt.Sprintf(
		"has JSON path `%s`, which %s",
		m.path, matcher.Describes(m.inner, r),
	))
}

func (m pathMatcher) ExplainMatch(actual any) description.Description {
	res, ok := m.lookup(actual)
	if !ok {
		return description.Text("which isn't valid JSON")
	}
	if !res.Exists() {
		return description.Text(fmt.Sprintf(
			"which has no value at JSON path `%s`", m.path,
		))
	}
	v := res.Value()
	return description.Text(fmt.Sprintf(
		"whose JSON path `%s` is %s, %s",
		m.path, matcher.FormatValue(v), matcher.Explain(m.inner, v),
	))
}
