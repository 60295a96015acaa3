package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleReporter_FailingRun(t *testing.T) {
	run := makeTestRuns(t)[1]

	var buf bytes.Buffer
	r := NewConsoleReporter(WithNoColor(true))
	require.NoError(t, r.WriteReport(&buf, run))
	out := buf.String()

	assert.Contains(t, out, "FAIL orders (1/2 passed,")
	assert.Contains(t, out, "  FAIL #1 lt total\n")
	assert.NotContains(t, out, "#0 gt")
	assert.Contains(t, out, "[1] failure")
	assert.Contains(t, out, "    Value of: total\n")
	assert.Contains(t, out, "    Expected: is less than 10\n")
	assert.Contains(t, out, "    total is too large\n")
	assert.Contains(t, out, "      at orders#1\n")
}

func TestConsoleReporter_Verbose(t *testing.T) {
	run := makeTestRuns(t)[1]

	var buf bytes.Buffer
	r := NewConsoleReporter(WithNoColor(true), WithVerbose(true))
	require.NoError(t, r.WriteReport(&buf, run))

	assert.Contains(t, buf.String(), "  ok   #0 gt total\n")
}

func TestConsoleReporter_PassingRun(t *testing.T) {
	data, err := NewConsoleReporter(WithNoColor(true)).GenerateReport(makeTestRuns(t)[0])
	require.NoError(t, err)

	assert.Contains(t, string(data), "PASS users (1/1 passed,")
	assert.NotContains(t, string(data), "failure")
}

func TestConsoleReporter_GenerateMasterSummary(t *testing.T) {
	data, err := NewConsoleReporter(WithNoColor(true)).GenerateMasterSummary(makeTestRuns(t))
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "PASS users (0 failures,")
	assert.Contains(t, out, "FAIL orders (1 failures,")
	assert.Contains(t, out, "2 suites, 1 passed, 1 failed")
}
