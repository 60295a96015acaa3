package matcher

import (
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// PrettyPrintThreshold is the length above which FormatActual
// switches from the compact one-line form to a multi-line dump.
const PrettyPrintThreshold = 60

var (
	compactConfig = spew.ConfigState{
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	dumpConfig = spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		DisableMethods:          true,
		SortKeys:                true,
	}
)

// FormatValue renders v on one line. Strings are quoted; other
// values use their field-named %+v form with map keys sorted so
// the output is stable across runs.
func FormatValue(v any) string {
	switch s := v.(type) {
	case string:
		return strconv.Quote(s)
	case nil:
		return "<nil>"
	}
	return compactConfig.Sprintf("%+v", v)
}

// FormatActual renders v for a failure report, using
// FormatValue unless the result is longer than threshold, in
// which case a typed multi-line dump is used. A threshold of zero
// or less selects PrettyPrintThreshold.
func FormatActual(v any, threshold int) string {
	if threshold <= 0 {
		threshold = PrettyPrintThreshold
	}
	compact := FormatValue(v)
	if len(compact) <= threshold {
		return compact
	}
	return strings.TrimSuffix(dumpConfig.Sdump(v), "\n")
}

func formatIndexes(idx []int) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = "#" + strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
