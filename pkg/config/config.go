// Package config holds the matchcheck configuration: logging,
// value formatting, the live monitor and report output.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"digital.vasic.matchers/pkg/logging"
	"digital.vasic.matchers/pkg/matcher"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatHTML    = "html"
)

// Config is the root configuration.
type Config struct {
	Log     LogConfig     `yaml:"log" json:"log"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Monitor MonitorConfig `yaml:"monitor" json:"monitor"`
	Report  ReportConfig  `yaml:"report" json:"report"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level   string `yaml:"level" json:"level"`
	Format  string `yaml:"format" json:"format"`
	Dir     string `yaml:"dir,omitempty" json:"dir,omitempty"`
	NoColor bool   `yaml:"no_color,omitempty" json:"no_color,omitempty"`
}

// OutputConfig configures how actual values are rendered in
// failure reports.
type OutputConfig struct {
	// PrettyPrintThreshold is the length above which actual
	// values are dumped on multiple lines.
	PrettyPrintThreshold int `yaml:"pretty_print_threshold" json:"pretty_print_threshold"`
}

// MonitorConfig configures the live monitor server.
type MonitorConfig struct {
	Enabled         bool    `yaml:"enabled" json:"enabled"`
	Addr            string  `yaml:"addr" json:"addr"`
	ConnectionRate  float64 `yaml:"connection_rate" json:"connection_rate"`
	ConnectionBurst int     `yaml:"connection_burst" json:"connection_burst"`
	MaxClients      int     `yaml:"max_clients" json:"max_clients"`
}

// ReportConfig configures report output.
type ReportConfig struct {
	Format  string `yaml:"format" json:"format"`
	Dir     string `yaml:"dir,omitempty" json:"dir,omitempty"`
	History string `yaml:"history,omitempty" json:"history,omitempty"`
	Pretty  bool   `yaml:"pretty" json:"pretty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: FormatConsole,
		},
		Output: OutputConfig{
			PrettyPrintThreshold: matcher.PrettyPrintThreshold,
		},
		Monitor: MonitorConfig{
			Addr:            "127.0.0.1:8088",
			ConnectionRate:  10,
			ConnectionBurst: 20,
			MaxClients:      100,
		},
		Report: ReportConfig{
			Format: FormatConsole,
			Pretty: true,
		},
	}
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case FormatConsole, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if c.Output.PrettyPrintThreshold < 0 {
		errs = append(errs, errors.New("output.pretty_print_threshold must not be negative"))
	}
	if c.Monitor.Enabled {
		if c.Monitor.Addr == "" {
			errs = append(errs, errors.New("monitor.addr is required when the monitor is enabled"))
		}
		if c.Monitor.ConnectionRate <= 0 || c.Monitor.ConnectionBurst <= 0 {
			errs = append(errs, errors.New("monitor.connection_rate and monitor.connection_burst must be positive"))
		}
		if c.Monitor.MaxClients <= 0 {
			errs = append(errs, errors.New("monitor.max_clients must be positive"))
		}
	}
	switch c.Report.Format {
	case FormatConsole, FormatJSON, FormatHTML:
	default:
		errs = append(errs, fmt.Errorf("report.format: unknown format %q", c.Report.Format))
	}
	return errors.Join(errs...)
}
