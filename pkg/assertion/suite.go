package assertion

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"digital.vasic.matchers/pkg/outcome"
)

// Suite is a named set of values and the definitions checked
// against them, usually loaded from a YAML file:
//
//	name: orders
//	values:
//	  total: 42
//	  tags: [a, b]
//	assertions:
//	  - target: total
//	    type: gt
//	    value: 40
//	  - target: tags
//	    type: unordered_elements_are
//	    children: ["eq:b", "eq:a"]
type Suite struct {
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Values      map[string]any `yaml:"values" json:"values"`
	Assertions  []Definition   `yaml:"assertions" json:"assertions"`
}

// ParseSuite decodes a suite from YAML and validates it.
func ParseSuite(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse suite: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSuite reads and parses the suite file at path.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite: %w", err)
	}
	s, err := ParseSuite(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Validate checks that every assertion has a type and a target
// present in Values.
func (s *Suite) Validate() error {
	var errs []error
	if len(s.Assertions) == 0 {
		errs = append(errs, errors.New("suite has no assertions"))
	}
	for i, a := range s.Assertions {
		if a.Type == "" {
			errs = append(errs, fmt.Errorf("assertion %d: type is required", i))
		}
		if a.Target == "" {
			errs = append(errs, fmt.Errorf("assertion %d: target is required", i))
			continue
		}
		if _, ok := s.Values[a.Target]; !ok {
			errs = append(errs, fmt.Errorf("assertion %d: unknown target %q", i, a.Target))
		}
	}
	return errors.Join(errs...)
}

// Run evaluates every assertion of s and records each failure
// into o. A failing fatal assertion stops the run; its failure
// is returned as the error. Otherwise the error is non-nil only
// when recording is misused.
func (s *Suite) Run(e Engine, o *outcome.Outcome) ([]Result, error) {
	results := make([]Result, 0, len(s.Assertions))
	for i, def := range s.Assertions {
		value, exists := s.Values[def.Target]
		var r Result
		if exists {
			r = e.Evaluate(def, value)
		} else {
			r = e.EvaluateAll([]Definition{def}, s.Values)[0]
		}
		results = append(results, r)
		if r.Passed {
			continue
		}

		f := r.Failure()
		f.Context = fmt.Sprintf("%s#%d", s.Name, i)
		if def.Fatal {
			return results, o.Fail(f)
		}
		if err := o.Record(f); err != nil {
			return results, err
		}
	}
	return results, nil
}
