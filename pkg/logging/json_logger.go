package logging

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// jsonMarshal is a variable for dependency injection in tests.
var jsonMarshal = json.Marshal

// LogEntry represents a single JSON log entry.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// LoggerConfig configures the JSONLogger.
type LoggerConfig struct {
	// OutputPath is the log file. Empty selects Writer, or
	// stdout when Writer is nil.
	OutputPath string
	// FailureLogPath, when set, receives one JSON line per
	// recorded assertion failure.
	FailureLogPath string
	Writer         io.Writer
	Level          LogLevel
	Verbose        bool
	Fields         map[string]any
}

// JSONLogger implements Logger with JSON Lines output.
type JSONLogger struct {
	mu         *sync.Mutex
	output     io.Writer
	failureLog io.Writer
	level      LogLevel
	fields     map[string]any
	verbose    bool
	closed     *bool
}

// NewJSONLogger creates a new JSON logger.
func NewJSONLogger(config LoggerConfig) (*JSONLogger, error) {
	closed := false
	logger := &JSONLogger{
		mu:      &sync.Mutex{},
		level:   config.Level,
		verbose: config.Verbose,
		fields:  config.Fields,
		closed:  &closed,
	}

	if logger.fields == nil {
		logger.fields = make(map[string]any)
	}

	switch {
	case config.OutputPath != "":
		file, err := openAppend(config.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.output = file
	case config.Writer != nil:
		logger.output = config.Writer
	default:
		logger.output = os.Stdout
	}

	if config.FailureLogPath != "" {
		file, err := openAppend(config.FailureLogPath)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to open failure log: %w", err,
			)
		}
		logger.failureLog = file
	}

	return logger, nil
}

func openAppend(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf(
			"failed to create log directory: %w", err,
		)
	}
	return os.OpenFile(
		path,
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0644,
	)
}

func (l *JSONLogger) log(
	level LogLevel, msg string, fields ...Field,
) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if *l.closed {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
		Fields:    make(map[string]any),
	}

	for k, v := range l.fields {
		entry.Fields[k] = v
	}
	for _, f := range fields {
		entry.Fields[f.Key] = f.Value
	}

	data, err := jsonMarshal(entry)
	if err != nil {
		return
	}

	fmt.Fprintln(l.output, string(data))
}

// Info logs an informational message.
func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(LevelError, msg, fields...)
}

// Debug logs a debug message only if verbose is enabled.
func (l *JSONLogger) Debug(msg string, fields ...Field) {
	if l.verbose {
		l.log(LevelDebug, msg, fields...)
	}
}

// WithFields returns a new Logger with additional default
// fields. The derived logger shares the writers and the lock of
// its parent.
func (l *JSONLogger) WithFields(fields ...Field) Logger {
	newFields := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for _, f := range fields {
		newFields[f.Key] = f.Value
	}

	return &JSONLogger{
		mu:         l.mu,
		output:     l.output,
		failureLog: l.failureLog,
		level:      l.level,
		verbose:    l.verbose,
		fields:     newFields,
		closed:     l.closed,
	}
}

// LogFailure writes the failure to the dedicated failure log
// and, at warn level, to the main output.
func (l *JSONLogger) LogFailure(failure FailureLog) {
	if failure.Timestamp == "" {
		failure.Timestamp = time.Now().Format(time.RFC3339Nano)
	}
	l.Warn("assertion failed", FailureFields(failure)...)

	if l.failureLog == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if *l.closed {
		return
	}

	data, err := jsonMarshal(failure)
	if err != nil {
		return
	}

	fmt.Fprintln(l.failureLog, string(data))
}

// Close flushes and closes every file the logger opened.
func (l *JSONLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if *l.closed {
		return nil
	}
	*l.closed = true

	var errs []error
	for _, w := range []io.Writer{l.output, l.failureLog} {
		f, ok := w.(*os.File)
		if !ok || f == os.Stdout || f == os.Stderr {
			continue
		}
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetupLogging creates a JSON logger writing run.log and
// failures.log in the given directory.
func SetupLogging(
	logsDir string,
	verbose bool,
) (*JSONLogger, error) {
	config := LoggerConfig{
		OutputPath:     filepath.Join(logsDir, "run.log"),
		FailureLogPath: filepath.Join(logsDir, "failures.log"),
		Level:          LevelInfo,
		Verbose:        verbose,
	}

	if verbose {
		config.Level = LevelDebug
	}

	return NewJSONLogger(config)
}
