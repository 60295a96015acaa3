// Package assertion connects matchers to test outcomes. Verify
// turns a mismatch into a fatal failure returned as an error;
// Expect records a non-fatal failure into the outcome carried by
// a context. The Engine builds matchers from declarative
// definitions, so suites can be written in YAML or JSON.
package assertion

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Definition describes a matcher declaratively, together with
// the named value it is checked against.
type Definition struct {
	// Type is the factory name (e.g., "eq", "contains",
	// "unordered_elements_are").
	Type string `json:"type" yaml:"type"`

	// Target is the name of the value to check. Nested
	// definitions leave it empty.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	// Value is the expected value for single-value matchers.
	Value any `json:"value,omitempty" yaml:"value,omitempty"`

	// Values holds expected values for set matchers
	// (e.g., "superset_of").
	Values []any `json:"values,omitempty" yaml:"values,omitempty"`

	// Children are the inner matchers of combinators and
	// container matchers.
	Children []Definition `json:"children,omitempty" yaml:"children,omitempty"`

	// Times constrains how many elements match for "contains".
	Times *Definition `json:"times,omitempty" yaml:"times,omitempty"`

	// Field names the field or map key for "field" and
	// "has_entry".
	Field string `json:"field,omitempty" yaml:"field,omitempty"`

	// Path is the JSON path for "json_path".
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Tolerance is the maximum absolute error for "near".
	Tolerance float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`

	// Fatal stops a suite at the first failure of this
	// definition.
	Fatal bool `json:"fatal,omitempty" yaml:"fatal,omitempty"`

	// Message is shown alongside the failure report.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// UnmarshalYAML accepts either a mapping or the compact scalar
// form parsed by ParseDefinition, so children can be written as
// "gt:3".
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		parsed, err := ParseDefinition(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*d = parsed
		return nil
	}
	type plain Definition
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = Definition(p)
	return nil
}

// Result captures the outcome of evaluating a single definition.
type Result struct {
	// Type is the definition type that was evaluated.
	Type string `json:"type"`

	// Target is the name of the value checked.
	Target string `json:"target"`

	// Expected is the description of a matching value.
	Expected string `json:"expected"`

	// Actual is the value that was observed.
	Actual any `json:"actual"`

	// Passed indicates whether the value matched.
	Passed bool `json:"passed"`

	// Explanation says why the value did or did not match. For
	// definitions that fail to build it holds the build error.
	Explanation string `json:"explanation,omitempty"`

	// Message is the definition's message.
	Message string `json:"message,omitempty"`

	// Fatal is copied from the definition.
	Fatal bool `json:"fatal,omitempty"`

	actualText string
}
