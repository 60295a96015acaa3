package report

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendToHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	runs := makeTestRuns(t)

	require.NoError(t, AppendToHistory(path, runs[0], ""))
	require.NoError(t, AppendToHistory(path, runs[1], "/tmp/orders.html"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	var entries []HistoricalEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e HistoricalEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, entries, 2)

	assert.Equal(t, "users", entries[0].Suite)
	assert.Equal(t, StatusPassed, entries[0].Status)
	assert.Empty(t, entries[0].ReportPath)

	assert.Equal(t, "orders", entries[1].Suite)
	assert.Equal(t, runs[1].Verdict.ID, entries[1].InvocationID)
	assert.Equal(t, 1, entries[1].Failures)
	assert.Equal(t, 1, entries[1].AssertionsPassed)
	assert.Equal(t, "/tmp/orders.html", entries[1].ReportPath)
}

func TestAppendToHistory_OpenError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "history.jsonl")

	err := AppendToHistory(path, makeTestRuns(t)[0], "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open history file")
}
