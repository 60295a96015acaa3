package matcher

import (
	"fmt"
	"strings"

	"digital.vasic.matchers/pkg/description"
)

// Requirements selects how much of a correspondence between
// actual elements and expected matchers must exist.
type Requirements int

const (
	// Perfect requires a bijection: every actual element and
	// every matcher is paired.
	Perfect Requirements = iota
	// Superset requires every matcher to be paired; actual may
	// hold extra elements.
	Superset
	// Subset requires every actual element to be paired; some
	// matchers may stay unused.
	Subset
)

// String returns the name used in explanations.
func (r Requirements) String() string {
	switch r {
	case Superset:
		return "superset"
	case Subset:
		return "subset"
	default:
		return "perfect"
	}
}

// ExplainSizeMismatch returns a non-empty explanation when the
// sizes alone rule out a correspondence.
func (r Requirements) ExplainSizeMismatch(actualSize, expectedSize int) string {
	switch {
	case r == Perfect && actualSize != expectedSize:
		return fmt.Sprintf(
			"which has size %d (expected %d)", actualSize, expectedSize,
		)
	case r == Superset && actualSize < expectedSize:
		return fmt.Sprintf(
			"which has size %d (expected at least %d)",
			actualSize, expectedSize,
		)
	case r == Subset && actualSize > expectedSize:
		return fmt.Sprintf(
			"which has size %d (expected at most %d)",
			actualSize, expectedSize,
		)
	}
	return ""
}

// Pair links an actual element index to a matcher index.
type Pair struct {
	Actual   int `json:"actual"`
	Expected int `json:"expected"`
}

// CorrespondenceReport is the result of one maximum matching
// between actual elements and matchers. Pairs is a partial
// injective mapping: no actual index and no matcher index appears
// twice.
type CorrespondenceReport struct {
	Pairs             []Pair `json:"pairs"`
	UnmatchedActual   []int  `json:"unmatched_actual"`
	UnmatchedExpected []int  `json:"unmatched_expected"`
	ActualSize        int    `json:"actual_size"`
	ExpectedSize      int    `json:"expected_size"`
}

// Cardinality returns the size of the matching.
func (c CorrespondenceReport) Cardinality() int {
	return len(c.Pairs)
}

// Satisfies reports whether the matching meets r.
func (c CorrespondenceReport) Satisfies(r Requirements) bool {
	switch r {
	case Superset:
		return len(c.UnmatchedExpected) == 0
	case Subset:
		return len(c.UnmatchedActual) == 0
	default:
		return len(c.UnmatchedActual) == 0 &&
			len(c.UnmatchedExpected) == 0
	}
}

// MatchMatrix records which matcher accepts which actual
// element: cell [i][j] is Match iff matcher j matches actual i.
type MatchMatrix struct {
	cells    [][]Result
	expected int
}

// NewMatchMatrix evaluates every matcher against every element.
func NewMatchMatrix[E any](actual []E, ms []Matcher[E]) *MatchMatrix {
	cells := make([][]Result, len(actual))
	for i, a := range actual {
		row := make([]Result, len(ms))
		for j, m := range ms {
			row[j] = m.Matches(a)
		}
		cells[i] = row
	}
	return &MatchMatrix{cells: cells, expected: len(ms)}
}

// At returns whether matcher j accepts actual element i.
func (mm *MatchMatrix) At(i, j int) Result {
	return mm.cells[i][j]
}

// BestMatch computes a maximum-cardinality matching with
// augmenting paths (Kuhn's algorithm). Elements are visited in
// index order, so the result is deterministic; when several
// maximum matchings exist only the cardinality is meaningful.
// Recursion depth is bounded by the number of matchers.
func (mm *MatchMatrix) BestMatch() CorrespondenceReport {
	actualMatch := make([]int, len(mm.cells))
	expectedMatch := make([]int, mm.expected)
	for i := range actualMatch {
		actualMatch[i] = -1
	}
	for j := range expectedMatch {
		expectedMatch[j] = -1
	}

	for i := range mm.cells {
		seen := make([]bool, mm.expected)
		mm.augment(i, seen, actualMatch, expectedMatch)
	}

	report := CorrespondenceReport{
		ActualSize:   len(mm.cells),
		ExpectedSize: mm.expected,
	}
	for i, j := range actualMatch {
		if j < 0 {
			report.UnmatchedActual = append(report.UnmatchedActual, i)
			continue
		}
		report.Pairs = append(report.Pairs, Pair{Actual: i, Expected: j})
	}
	for j, i := range expectedMatch {
		if i < 0 {
			report.UnmatchedExpected = append(report.UnmatchedExpected, j)
		}
	}
	return report
}

func (mm *MatchMatrix) augment(
	i int,
	seen []bool,
	actualMatch, expectedMatch []int,
) bool {
	for j := 0; j < mm.expected; j++ {
		if seen[j] || mm.cells[i][j] == NoMatch {
			continue
		}
		seen[j] = true
		if expectedMatch[j] < 0 ||
			mm.augment(expectedMatch[j], seen, actualMatch, expectedMatch) {
			expectedMatch[j] = i
			actualMatch[i] = j
			return true
		}
	}
	return false
}

// unmatchable returns the actual elements no matcher accepts and
// the matchers that accept no element, restricted to the sides r
// requires to be fully paired.
func (mm *MatchMatrix) unmatchable(r Requirements) (actual, expected []int) {
	if r != Superset {
		for i, row := range mm.cells {
			if !containsResult(row, Match) {
				actual = append(actual, i)
			}
		}
	}
	if r != Subset {
		for j := 0; j < mm.expected; j++ {
			if len(mm.acceptedBy(j)) == 0 {
				expected = append(expected, j)
			}
		}
	}
	return actual, expected
}

// candidates splits the matcher indices into those that accept
// actual element i and those that reject it.
func (mm *MatchMatrix) candidates(i int) (accept, reject []int) {
	for j, r := range mm.cells[i] {
		if r == Match {
			accept = append(accept, j)
		} else {
			reject = append(reject, j)
		}
	}
	return accept, reject
}

// acceptedBy returns the actual indices matcher j accepts.
func (mm *MatchMatrix) acceptedBy(j int) []int {
	var out []int
	for i, row := range mm.cells {
		if row[j] == Match {
			out = append(out, i)
		}
	}
	return out
}

func (mm *MatchMatrix) rejectedBy(j int) []int {
	var out []int
	for i, row := range mm.cells {
		if row[j] == NoMatch {
			out = append(out, i)
		}
	}
	return out
}

func containsResult(row []Result, want Result) bool {
	for _, r := range row {
		if r == want {
			return true
		}
	}
	return false
}

func explainUnmatchable(actual, expected []int) string {
	a, e := formatIndexes(actual), formatIndexes(expected)
	var parts []string
	switch len(actual) {
	case 0:
	case 1:
		parts = append(parts, fmt.Sprintf(
			"whose element %s does not match any expected elements", a,
		))
	default:
		parts = append(parts, fmt.Sprintf(
			"whose elements %s do not match any expected elements", a,
		))
	}
	noun := "element"
	if len(expected) > 1 {
		noun = "elements"
	}
	if len(expected) > 0 {
		if len(parts) == 0 {
			parts = append(parts, fmt.Sprintf(
				"which has no %s matching the expected %s %s",
				noun, noun, e,
			))
		} else {
			parts = append(parts, fmt.Sprintf(
				"no elements match the expected %s %s", noun, e,
			))
		}
	}
	return strings.Join(parts, " and ")
}

// explainBestMatch describes every pair of the report, then
// every unpaired element with the matchers it could and could not
// satisfy, then every unpaired matcher with the elements it
// rejected.
func explainBestMatch[E any](
	report CorrespondenceReport,
	mm *MatchMatrix,
	actual []E,
	ms []Matcher[E],
	r Requirements,
) description.Description {
	var entries []string
	for _, p := range report.Pairs {
		entries = append(entries, fmt.Sprintf(
			"Actual element %s at index %d matched expected element `%s` at index %d.",
			FormatValue(actual[p.Actual]), p.Actual,
			Describes(ms[p.Expected], Match), p.Expected,
		))
	}
	if r != Superset {
		for _, i := range report.UnmatchedActual {
			accept, reject := mm.candidates(i)
			entries = append(entries, fmt.Sprintf(
				"Actual element %s at index %d did not match any remaining expected element; %s.",
				FormatValue(actual[i]), i,
				splitSummary("expected", accept, reject),
			))
		}
	}
	if r != Subset {
		for _, j := range report.UnmatchedExpected {
			entries = append(entries, fmt.Sprintf(
				"Expected element `%s` at index %d did not match any remaining actual element; %s.",
				Describes(ms[j], Match), j,
				splitSummary("actual", mm.acceptedBy(j), mm.rejectedBy(j)),
			))
		}
	}
	return description.Text(fmt.Sprintf(
		"which does not have a %s match with the expected elements. The best match found was:",
		r,
	)).Nested(description.Lines(entries...))
}

func splitSummary(side string, accept, reject []int) string {
	switch {
	case len(accept) == 0 && len(reject) == 0:
		return fmt.Sprintf("there are no %s elements", side)
	case len(accept) == 0:
		return fmt.Sprintf("it matches none of %s %s", side, formatIndexes(reject))
	case len(reject) == 0:
		return fmt.Sprintf("it matches %s %s", side, formatIndexes(accept))
	}
	return fmt.Sprintf(
		"it matches %s %s and not %s",
		side, formatIndexes(accept), formatIndexes(reject),
	)
}
