package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	levelColors = map[LogLevel]*color.Color{
		LevelDebug: color.New(color.FgHiBlack),
		LevelInfo:  color.New(color.FgBlue),
		LevelWarn:  color.New(color.FgYellow),
		LevelError: color.New(color.FgRed),
	}
	dim  = color.New(color.FgHiBlack)
	bold = color.New(color.Bold)
)

// ConsoleLogger provides colored console output. Colors are
// disabled automatically when the output is not a terminal.
type ConsoleLogger struct {
	mu      *sync.Mutex
	output  io.Writer
	verbose bool
	fields  map[string]any
}

// ConsoleOption configures a ConsoleLogger.
type ConsoleOption func(*ConsoleLogger)

// WithOutput directs console output to w.
func WithOutput(w io.Writer) ConsoleOption {
	return func(c *ConsoleLogger) {
		c.output = w
	}
}

// WithNoColor disables colored output globally.
func WithNoColor(noColor bool) ConsoleOption {
	return func(_ *ConsoleLogger) {
		if noColor {
			color.NoColor = true
		}
	}
}

// NewConsoleLogger creates a console logger. When verbose is
// true, debug messages are emitted.
func NewConsoleLogger(verbose bool, opts ...ConsoleOption) *ConsoleLogger {
	c := &ConsoleLogger{
		mu:      &sync.Mutex{},
		output:  os.Stdout,
		verbose: verbose,
		fields:  make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ConsoleLogger) log(
	level LogLevel, msg string, fields ...Field,
) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := time.Now().Format("15:04:05")

	merged := make(map[string]any, len(c.fields)+len(fields))
	for k, v := range c.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}

	var fieldStr string
	if len(merged) > 0 {
		keys := make([]string, 0, len(merged))
		for k := range merged {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, merged[k]))
		}
		fieldStr = " " + dim.Sprintf("{%s}", strings.Join(parts, ", "))
	}

	fmt.Fprintf(
		c.output, "%s [%s] %s%s\n",
		dim.Sprint(ts),
		levelColors[level].Sprintf("%-5s", level.String()),
		msg, fieldStr,
	)
}

// Info logs an informational message.
func (c *ConsoleLogger) Info(msg string, fields ...Field) {
	c.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (c *ConsoleLogger) Warn(msg string, fields ...Field) {
	c.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (c *ConsoleLogger) Error(msg string, fields ...Field) {
	c.log(LevelError, msg, fields...)
}

// Debug logs a debug message only if verbose is enabled.
func (c *ConsoleLogger) Debug(msg string, fields ...Field) {
	if c.verbose {
		c.log(LevelDebug, msg, fields...)
	}
}

// WithFields returns a new Logger with additional default
// fields.
func (c *ConsoleLogger) WithFields(
	fields ...Field,
) Logger {
	newFields := make(map[string]any)
	for k, v := range c.fields {
		newFields[k] = v
	}
	for _, f := range fields {
		newFields[f.Key] = f.Value
	}
	return &ConsoleLogger{
		mu:      c.mu,
		output:  c.output,
		verbose: c.verbose,
		fields:  newFields,
	}
}

// LogFailure prints the failure in the "Expected / Actual"
// layout used by assertion reports.
func (c *ConsoleLogger) LogFailure(failure FailureLog) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kind := "non-fatal"
	if failure.Fatal {
		kind = "fatal"
	}
	fmt.Fprintf(c.output, "%s %s\n",
		levelColors[LevelError].Sprint("FAIL"), dim.Sprintf("(%s)", kind),
	)
	if failure.Expression != "" {
		fmt.Fprintf(c.output, "  %s %s\n", bold.Sprint("Value of:"), failure.Expression)
	}
	fmt.Fprintf(c.output, "  %s %s\n", bold.Sprint("Expected:"), failure.Expected)
	fmt.Fprintf(c.output, "  %s %s\n", bold.Sprint("Actual:"), failure.Actual)
	if failure.Explanation != "" {
		for _, line := range strings.Split(failure.Explanation, "\n") {
			fmt.Fprintf(c.output, "    %s\n", line)
		}
	}
	if failure.Message != "" {
		fmt.Fprintf(c.output, "  %s\n", failure.Message)
	}
	if failure.Context != "" {
		fmt.Fprintf(c.output, "  %s\n", dim.Sprint("at "+failure.Context))
	}
}

// Close is a no-op for ConsoleLogger.
func (c *ConsoleLogger) Close() error {
	return nil
}
