package assertion

import (
	"reflect"

	"digital.vasic.matchers/pkg/matcher"
)

// Values decoded from YAML or JSON arrive as int, float64,
// []any and map[string]any, while values produced by Go code
// keep their static types. The helpers below bridge the two so
// declarative matchers compare by meaning, not by Go type.

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func toText(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	}
	return "", false
}

func toSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

// toObject converts maps with string keys and structs to a
// map[string]any. Struct fields are keyed by their Go name; only
// exported fields are kept.
func toObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, true
	case reflect.Struct:
		t := rv.Type()
		out := make(map[string]any, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				out[t.Field(i).Name] = rv.Field(i).Interface()
			}
		}
		return out, true
	}
	return nil, false
}

func asNumber(m matcher.Matcher[float64]) matcher.Matcher[any] {
	return matcher.Converted[any, float64]("a number", toFloat, m)
}

func asText(m matcher.Matcher[string]) matcher.Matcher[any] {
	return matcher.Converted[any, string]("a string", toText, m)
}

func asList(m matcher.Matcher[[]any]) matcher.Matcher[any] {
	return matcher.Converted[any, []any]("a list", toSlice, m)
}

func asObject(m matcher.Matcher[map[string]any]) matcher.Matcher[any] {
	return matcher.Converted[any, map[string]any]("an object", toObject, m)
}

func fromInt(m matcher.Matcher[any]) matcher.Matcher[int] {
	return matcher.Converted[int, any](
		"a value",
		func(n int) (any, bool) { return n, true },
		m,
	)
}
