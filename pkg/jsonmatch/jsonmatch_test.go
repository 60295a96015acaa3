package jsonmatch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.matchers/pkg/matcher"
)

const order = `{"id": 7, "items": [{"sku": "a-1", "qty": 2}, {"sku": "b-2", "qty": 1}], "paid": true}`

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"id", "id"},
		{"items[0].sku", "items.0.sku"},
		{"[1].tags[2]", "1.tags.2"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.in))
		})
	}
}

func TestDocument(t *testing.T) {
	doc, ok := Document(order)
	assert.True(t, ok)
	assert.Equal(t, []byte(order), doc)

	_, ok = Document([]byte("{"))
	assert.False(t, ok)

	doc, ok = Document(map[string]int{"a": 1})
	assert.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(doc))

	_, ok = Document(json.RawMessage(`[1,2]`))
	assert.True(t, ok)

	_, ok = Document(func() {})
	assert.False(t, ok)
}

func TestIsValidJSON(t *testing.T) {
	m := IsValidJSON()
	assert.Equal(t, matcher.Match, m.Matches(order))
	assert.Equal(t, matcher.NoMatch, m.Matches("not json"))
	assert.Equal(t, "is valid JSON", m.Describe(matcher.Match).String())
}

func TestJSONPath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		inner  matcher.Matcher[any]
		result matcher.Result
	}{
		{"number", "id", matcher.As[float64](matcher.Eq(7.0)), matcher.Match},
		{"bracket index", "items[1].sku", matcher.As[string](matcher.Eq("b-2")), matcher.Match},
		{"bool", "paid", matcher.As[bool](matcher.Eq(true)), matcher.Match},
		{"wrong value", "items.0.qty", matcher.As[float64](matcher.Gt(5.0)), matcher.NoMatch},
		{"missing path", "customer", matcher.Anything[any](), matcher.NoMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.result, JSONPath(tt.path, tt.inner).Matches(order))
		})
	}
}

func TestJSONPath_Explain(t *testing.T) {
	m := JSONPath("items[0].qty", matcher.As[float64](matcher.Eq(3.0)))

	assert.Equal(t,
		"has JSON path `items[0].qty`, which is equal to 3",
		m.Describe(matcher.Match).String(),
	)
	assert.Equal(t,
		"whose JSON path `items[0].qty` is 2, which isn't equal to 3",
		matcher.Explain(m, any(order)).String(),
	)
	assert.Equal(t,
		"which has no value at JSON path `items[0].qty`",
		matcher.Explain(m, any(`{"items": []}`)).String(),
	)
	assert.Equal(t, "which isn't valid JSON", matcher.Explain(m, any("{")).String())
}

func TestJSONPath_MarshalsGoValues(t *testing.T) {
	type item struct {
		SKU string `json:"sku"`
	}
	m := JSONPath("0.sku", matcher.As[string](matcher.StartsWith[string]("a")))
	assert.Equal(t, matcher.Match, m.Matches([]item{{SKU: "a-1"}}))
}

const orderSchema = `{
  "type": "object",
  "required": ["id", "items"],
  "properties": {
    "id": {"type": "integer"},
    "items": {"type": "array", "minItems": 1}
  }
}`

func TestMatchesSchema(t *testing.T) {
	m, err := MatchesSchema(orderSchema)
	require.NoError(t, err)

	assert.Equal(t, matcher.Match, m.Matches(order))
	assert.Equal(t, matcher.NoMatch, m.Matches(`{"id": "x"}`))
	assert.Equal(t, matcher.NoMatch, m.Matches("{"))
	assert.Equal(t, "matches the JSON schema", m.Describe(matcher.Match).String())
	assert.Equal(t, "doesn't match the JSON schema", m.Describe(matcher.NoMatch).String())
}

func TestMatchesSchema_ExplainsEveryViolation(t *testing.T) {
	m, err := MatchesSchema(orderSchema)
	require.NoError(t, err)

	explanation := matcher.Explain(m, any(`{"id": "x"}`)).String()
	assert.Contains(t, explanation, "which violates the JSON schema:")
	assert.Contains(t, explanation, "  * ")
	assert.Contains(t, explanation, "items")
	assert.Contains(t, explanation, "id")
}

func TestMatchesSchema_InvalidSchema(t *testing.T) {
	_, err := MatchesSchema("{")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON schema")
}

func TestMatchesSchemaFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "order.json")
	require.NoError(t, os.WriteFile(path, []byte(orderSchema), 0o600))

	m, err := MatchesSchemaFile(path)
	require.NoError(t, err)
	assert.Equal(t, matcher.Match, m.Matches(order))
	assert.Equal(t, "matches the JSON schema "+path, m.Describe(matcher.Match).String())

	_, err = MatchesSchemaFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read schema file")
}
