package jsonmatch

import (
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"digital.vasic.matchers/pkg/description"
	"digital.vasic.matchers/pkg/matcher"
)

type schemaMatcher struct {
	schema *gojsonschema.Schema
	name   string
}

// MatchesSchema compiles schema, a JSON Schema document, and
// returns a matcher for documents it validates.
func MatchesSchema(schema string) (matcher.Matcher[any], error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON schema: %w", err)
	}
	return schemaMatcher{schema: s, name: "the JSON schema"}, nil
}

// MatchesSchemaFile is MatchesSchema for a schema stored at
// path.
func MatchesSchemaFile(path string) (matcher.Matcher[any], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON schema %s: %w", path, err)
	}
	return schemaMatcher{schema: s, name: "the JSON schema " + path}, nil
}

// violations returns the schema errors for actual, or nil if it
// validates. A document that is not JSON yields a single
// violation.
func (m schemaMatcher) violations(actual any) []string {
	doc, ok := Document(actual)
	if !ok {
		return []string{"document isn't valid JSON"}
	}
	res, err := m.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return []string{err.Error()}
	}
	if res.Valid() {
		return nil
	}
	out := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		out = append(out, e.String())
	}
	return out
}

func (m schemaMatcher) Matches(actual any) matcher.Result {
	return matcher.ResultOf(len(m.violations(actual)) == 0)
}

func (m schemaMatcher) Describe(r matcher.Result) description.Description {
	if r == matcher.Match {
		return description.Text("matches " + m.name)
	}
	return description.Text("doesn't match " + m.name)
}

func (m schemaMatcher) ExplainMatch(actual any) description.Description {
	v := m.violations(actual)
	if len(v) == 0 {
		return description.Text("which matches " + m.name)
	}
	return description.Text("which violates " + m.name + ":").
		Nested(description.Lines(v...).BulletList())
}
