package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMasterSummary(t *testing.T) {
	summary := BuildMasterSummary(makeTestRuns(t))

	assert.Contains(t, summary.ID, "summary_")
	assert.Equal(t, 2, summary.TotalSuites)
	assert.Equal(t, 1, summary.PassedSuites)
	assert.Equal(t, 1, summary.FailedSuites)
	assert.Equal(t, 1, summary.TotalFailures)
	assert.InDelta(t, 0.5, summary.AveragePassRate, 0.001)

	require.Len(t, summary.Suites, 2)
	orders := summary.Suites[1]
	assert.Equal(t, "orders", orders.Suite)
	assert.Equal(t, 1, orders.AssertionsPassed)
	assert.Equal(t, 2, orders.AssertionsTotal)
	assert.False(t, orders.StoppedAtFatal)
}

func TestBuildMasterSummary_Empty(t *testing.T) {
	summary := BuildMasterSummary(nil)

	assert.Equal(t, 0, summary.TotalSuites)
	assert.Zero(t, summary.AveragePassRate)
	assert.Empty(t, summary.Suites)
}

func TestGenerateSummaryMarkdown(t *testing.T) {
	md := GenerateSummaryMarkdown(BuildMasterSummary(makeTestRuns(t)))

	assert.Contains(t, md, "# Matcher Suites - Master Summary")
	assert.Contains(t, md, "| users | PASSED |")
	assert.Contains(t, md, "| orders | FAILED |")
	assert.Contains(t, md, "| 1/2 | 1 |")
	assert.Contains(t, md, "| Pass Rate | 50% |")
}

func TestSaveMasterSummary(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	summary := BuildMasterSummary(makeTestRuns(t))

	require.NoError(t, SaveMasterSummary(summary, dir))

	ts := summary.GeneratedAt.Format("20060102_150405")
	data, err := os.ReadFile(filepath.Join(dir, "master_summary_"+ts+".json"))
	require.NoError(t, err)

	var decoded MasterSummary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, summary.ID, decoded.ID)

	md, err := os.ReadFile(filepath.Join(dir, "latest_summary.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), summary.ID)
}
