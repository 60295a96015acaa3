package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testMockLogger is a mock logger for testing MultiLogger delegation.
type testMockLogger struct {
	mock.Mock
}

func (m *testMockLogger) Info(msg string, fields ...Field) {
	m.Called(msg, fields)
}

func (m *testMockLogger) Warn(msg string, fields ...Field) {
	m.Called(msg, fields)
}

func (m *testMockLogger) Error(msg string, fields ...Field) {
	m.Called(msg, fields)
}

func (m *testMockLogger) Debug(msg string, fields ...Field) {
	m.Called(msg, fields)
}

func (m *testMockLogger) WithFields(fields ...Field) Logger {
	args := m.Called(fields)
	return args.Get(0).(Logger)
}

func (m *testMockLogger) LogFailure(failure FailureLog) {
	m.Called(failure)
}

func (m *testMockLogger) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newMocks(n int) ([]*testMockLogger, []Logger) {
	mocks := make([]*testMockLogger, n)
	loggers := make([]Logger, n)
	for i := range mocks {
		mocks[i] = new(testMockLogger)
		loggers[i] = mocks[i]
	}
	return mocks, loggers
}

func TestNewMultiLogger(t *testing.T) {
	tests := []struct {
		name    string
		loggers []Logger
		wantLen int
	}{
		{"empty loggers", []Logger{}, 0},
		{"single logger", []Logger{NullLogger{}}, 1},
		{"multiple loggers", []Logger{NullLogger{}, NullLogger{}, NullLogger{}}, 3},
		{"nil slice", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ml := NewMultiLogger(tt.loggers...)
			require.NotNil(t, ml)
			assert.Len(t, ml.loggers, tt.wantLen)
		})
	}
}

func TestMultiLogger_DelegatesLevels(t *testing.T) {
	fields := []Field{StringField("invocation_id", "abc"), IntField("failures", 1)}
	tests := []struct {
		method string
		call   func(ml *MultiLogger)
	}{
		{"Info", func(ml *MultiLogger) { ml.Info("msg", fields...) }},
		{"Warn", func(ml *MultiLogger) { ml.Warn("msg", fields...) }},
		{"Error", func(ml *MultiLogger) { ml.Error("msg", fields...) }},
		{"Debug", func(ml *MultiLogger) { ml.Debug("msg", fields...) }},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			mocks, loggers := newMocks(3)
			for _, m := range mocks {
				m.On(tt.method, "msg", fields).Return()
			}

			tt.call(NewMultiLogger(loggers...))

			for _, m := range mocks {
				m.AssertExpectations(t)
			}
		})
	}
}

func TestMultiLogger_WithFields(t *testing.T) {
	fields := []Field{LogField("invocation_id", "abc123")}
	mocks, loggers := newMocks(2)
	for _, m := range mocks {
		m.On("WithFields", fields).Return(new(testMockLogger))
	}

	result := NewMultiLogger(loggers...).WithFields(fields...)

	multiResult, ok := result.(*MultiLogger)
	require.True(t, ok)
	assert.Len(t, multiResult.loggers, 2)
	for _, m := range mocks {
		m.AssertExpectations(t)
	}
}

func TestMultiLogger_LogFailure(t *testing.T) {
	failure := FailureLog{
		InvocationID: "abc",
		Expected:     "is equal to 3",
		Actual:       "2",
		Fatal:        true,
	}
	mocks, loggers := newMocks(2)
	for _, m := range mocks {
		m.On("LogFailure", failure).Return()
	}

	NewMultiLogger(loggers...).LogFailure(failure)

	for _, m := range mocks {
		m.AssertExpectations(t)
	}
}

func TestMultiLogger_Close(t *testing.T) {
	first, second := errors.New("first"), errors.New("second")
	tests := []struct {
		name    string
		errors  []error
		wantErr []error
	}{
		{"all succeed", []error{nil, nil}, nil},
		{"first fails", []error{first, nil}, []error{first}},
		{"both fail", []error{first, second}, []error{first, second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks, loggers := newMocks(len(tt.errors))
			for i, err := range tt.errors {
				mocks[i].On("Close").Return(err)
			}

			err := NewMultiLogger(loggers...).Close()

			if tt.wantErr == nil {
				assert.NoError(t, err)
			}
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
			for _, m := range mocks {
				m.AssertExpectations(t)
			}
		})
	}
}

func TestMultiLogger_EmptyLoggers(t *testing.T) {
	ml := NewMultiLogger()

	ml.Info("test")
	ml.Warn("test")
	ml.Error("test")
	ml.Debug("test")
	ml.LogFailure(FailureLog{})

	require.NotNil(t, ml.WithFields(LogField("k", "v")))
	assert.NoError(t, ml.Close())
}
