package outcome

import (
	"fmt"
	"strings"
	"time"
)

// Verdict is the final state of a closed Outcome.
type Verdict struct {
	ID       string        `json:"id"`
	Failed   bool          `json:"failed"`
	Failures []*Failure    `json:"failures,omitempty"`
	Fatal    *Failure      `json:"fatal,omitempty"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// Err returns nil for a passing verdict and the verdict itself,
// as an error, for a failing one.
func (v Verdict) Err() error {
	if !v.Failed {
		return nil
	}
	return &v
}

// All returns the non-fatal failures in occurrence order followed
// by the fatal failure, if any.
func (v Verdict) All() []*Failure {
	all := make([]*Failure, 0, len(v.Failures)+1)
	all = append(all, v.Failures...)
	if v.Fatal != nil {
		all = append(all, v.Fatal)
	}
	return all
}

// Error summarizes the verdict and renders every failure.
func (v *Verdict) Error() string {
	all := v.All()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Test failed: %d %s", len(all), plural(len(all), "failure", "failures"))
	if v.Fatal != nil {
		sb.WriteString(" (stopped at a fatal failure)")
	}
	for i, f := range all {
		fmt.Fprintf(&sb, "\n\n[%d] %s", i+1, f.Error())
	}
	return sb.String()
}

// Unwrap exposes every failure to errors.Is and errors.As.
func (v *Verdict) Unwrap() []error {
	all := v.All()
	errs := make([]error, len(all))
	for i, f := range all {
		errs[i] = f
	}
	return errs
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
