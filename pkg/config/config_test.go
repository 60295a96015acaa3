package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, FormatConsole, cfg.Log.Format)
	assert.Equal(t, 60, cfg.Output.PrettyPrintThreshold)
	assert.False(t, cfg.Monitor.Enabled)
	assert.Equal(t, FormatConsole, cfg.Report.Format)
	assert.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
log:
  level: debug
  format: json
output:
  pretty_print_threshold: 120
monitor:
  enabled: true
  addr: ":9000"
report:
  format: html
  dir: reports
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, FormatJSON, cfg.Log.Format)
	assert.Equal(t, 120, cfg.Output.PrettyPrintThreshold)
	assert.True(t, cfg.Monitor.Enabled)
	assert.Equal(t, ":9000", cfg.Monitor.Addr)
	assert.Equal(t, 100, cfg.Monitor.MaxClients, "unset keys keep defaults")
	assert.Equal(t, FormatHTML, cfg.Report.Format)
	assert.Equal(t, "reports", cfg.Report.Dir)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   string
	}{
		{"not yaml", "log: [", "failed to parse config"},
		{"level", "log: {level: loud}", "log.level"},
		{"log format", "log: {format: xml}", `log.format: unknown format "xml"`},
		{"threshold", "output: {pretty_print_threshold: -1}", "must not be negative"},
		{"monitor addr", "monitor: {enabled: true, addr: ''}", "monitor.addr is required"},
		{"monitor rate", "monitor: {enabled: true, connection_rate: 0}", "must be positive"},
		{"monitor clients", "monitor: {enabled: true, max_clients: 0}", "monitor.max_clients"},
		{"report format", "report: {format: pdf}", `report.format: unknown format "pdf"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestValidate_ReportsEveryError(t *testing.T) {
	cfg := Default()
	cfg.Log.Format = "xml"
	cfg.Report.Format = "pdf"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
	assert.Contains(t, err.Error(), "report.format")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matchcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: {level: warn}"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}
