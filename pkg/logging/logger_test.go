package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{" warn ", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestFieldHelpers(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"log field", LogField("key", "value"), "key", "value"},
		{"string", StringField("name", "test"), "name", "test"},
		{"int", IntField("count", 42), "count", 42},
		{"invocation", InvocationField("abc"), "invocation_id", "abc"},
		{"suite", SuiteField("orders"), "suite", "orders"},
		{"matcher", MatcherField("eq"), "matcher", "eq"},
		{"bool", BoolField("fatal", true), "fatal", true},
		{"error", ErrorField(assert.AnError), "error", assert.AnError.Error()},
		{"nil error", ErrorField(nil), "error", "<nil>"},
		{"duration", DurationField("elapsed_ms", 1500*time.Microsecond), "elapsed_ms", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.field.Key)
			assert.Equal(t, tt.value, tt.field.Value)
		})
	}
}

func TestFailureFields(t *testing.T) {
	minimal := FailureFields(FailureLog{InvocationID: "abc", Expected: "is empty", Actual: "[1]"})
	assert.Equal(t, []Field{
		InvocationField("abc"),
		StringField("expected", "is empty"),
		StringField("actual", "[1]"),
		BoolField("fatal", false),
	}, minimal)

	full := FailureFields(FailureLog{
		InvocationID: "abc",
		Expression:   "items",
		Expected:     "is empty",
		Actual:       "[1]",
		Context:      "orders#2",
		Fatal:        true,
	})
	require.Len(t, full, 6)
	assert.Equal(t, StringField("expression", "items"), full[4])
	assert.Equal(t, StringField("context", "orders#2"), full[5])
}

func TestLoggers_ImplementInterface(t *testing.T) {
	var _ Logger = NullLogger{}
	var _ Logger = &MultiLogger{}
	var _ Logger = &ConsoleLogger{}
	var _ Logger = &JSONLogger{}
}

func TestNullLogger_AllMethodsSucceed(t *testing.T) {
	l := NullLogger{}
	l.Info("test")
	l.Warn("test")
	l.Error("test")
	l.Debug("test")
	l.LogFailure(FailureLog{Expected: "is equal to 1", Actual: "2"})

	child := l.WithFields(LogField("k", "v"))
	assert.Equal(t, NullLogger{}, child)
	assert.NoError(t, l.Close())
}
