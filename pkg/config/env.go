package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MATCHCHECK_"

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// LoadEnvFile parses a .env file of KEY=VALUE lines. Blank lines
// and lines starting with # are skipped; surrounding quotes are
// removed from values.
func LoadEnvFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open env file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	vars := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		vars[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"'`)
	}
	return vars, scanner.Err()
}

// EnvLookup returns a LookupFunc that prefers the process
// environment and falls back to vars.
func EnvLookup(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}
}

// ApplyEnv overrides settings from MATCHCHECK_* variables and
// revalidates the configuration.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("LOG_DIR", &c.Log.Dir)
	boolean("NO_COLOR", &c.Log.NoColor)
	boolean("MONITOR_ENABLED", &c.Monitor.Enabled)
	str("MONITOR_ADDR", &c.Monitor.Addr)
	str("REPORT_FORMAT", &c.Report.Format)
	str("REPORT_DIR", &c.Report.Dir)
	str("REPORT_HISTORY", &c.Report.History)

	if v, ok := lookup(EnvPrefix + "PRETTY_PRINT_THRESHOLD"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sPRETTY_PRINT_THRESHOLD: %w", EnvPrefix, err))
		} else {
			c.Output.PrettyPrintThreshold = n
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	return c.Validate()
}
