package assertion

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"digital.vasic.matchers/pkg/logging"
	"digital.vasic.matchers/pkg/matcher"
	"digital.vasic.matchers/pkg/metrics"
)

// Engine defines the interface for declarative matcher engines.
type Engine interface {
	Builder

	// Evaluate builds the matcher for def and checks it against
	// value.
	Evaluate(def Definition, value any) Result

	// EvaluateAll checks every definition against a map of
	// named values. Each definition's Target field is used as
	// the key into the values map.
	EvaluateAll(defs []Definition, values map[string]any) []Result

	// Register adds a factory for the given definition type.
	// Returns an error if the type is already registered.
	Register(matcherType string, factory Factory) error
}

// EngineOption configures a DefaultEngine.
type EngineOption func(*DefaultEngine)

// WithEngineLogger sets the logger used for evaluation events.
func WithEngineLogger(l logging.Logger) EngineOption {
	return func(e *DefaultEngine) {
		e.logger = l
	}
}

// WithEngineMetrics sets the recorder for evaluation counts and
// latencies.
func WithEngineMetrics(m metrics.Recorder) EngineOption {
	return func(e *DefaultEngine) {
		e.metrics = m
	}
}

// WithPrettyPrintThreshold sets the length above which actual
// values are rendered as a multi-line dump.
func WithPrettyPrintThreshold(n int) EngineOption {
	return func(e *DefaultEngine) {
		e.threshold = n
	}
}

// DefaultEngine is the standard Engine implementation. It is
// safe for concurrent use.
type DefaultEngine struct {
	mu        sync.RWMutex
	factories map[string]Factory
	logger    logging.Logger
	metrics   metrics.Recorder
	threshold int
}

// NewEngine creates a DefaultEngine with every built-in factory
// pre-registered.
func NewEngine(opts ...EngineOption) *DefaultEngine {
	e := &DefaultEngine{
		factories: make(map[string]Factory),
		logger:    logging.NullLogger{},
		metrics:   metrics.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.registerDefaults()
	return e
}

// Register adds a factory for the given definition type.
// Returns an error if the type is already registered.
func (e *DefaultEngine) Register(
	matcherType string,
	factory Factory,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.factories[matcherType]; exists {
		return fmt.Errorf(
			"matcher type already registered: %s",
			matcherType,
		)
	}

	e.factories[matcherType] = factory
	return nil
}

// HasFactory returns true if the given definition type has a
// registered factory.
func (e *DefaultEngine) HasFactory(matcherType string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, exists := e.factories[matcherType]
	return exists
}

// Types returns the registered definition types, sorted.
func (e *DefaultEngine) Types() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	types := make([]string, 0, len(e.factories))
	for t := range e.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Build returns the matcher described by def.
func (e *DefaultEngine) Build(def Definition) (matcher.Matcher[any], error) {
	e.mu.RLock()
	factory, exists := e.factories[def.Type]
	e.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown matcher type: %s", def.Type)
	}
	return factory(e, def)
}

// Evaluate builds the matcher for def and checks it against
// value. A definition that fails to build yields a failed
// result carrying the build error.
func (e *DefaultEngine) Evaluate(def Definition, value any) Result {
	result := Result{
		Type:    def.Type,
		Target:  def.Target,
		Actual:  value,
		Message: def.Message,
		Fatal:   def.Fatal,
	}

	m, err := e.Build(def)
	if err != nil {
		e.logger.Warn("invalid matcher definition",
			logging.StringField("type", def.Type),
			logging.StringField("target", def.Target),
			logging.ErrorField(err),
		)
		result.Explanation = err.Error()
		return result
	}

	start := time.Now()
	r := m.Matches(value)
	elapsed := time.Since(start)
	e.metrics.RecordEvaluation(def.Type, r == matcher.Match, elapsed)

	result.Passed = r == matcher.Match
	result.Expected = m.Describe(matcher.Match).String()
	result.actualText = matcher.FormatActual(value, e.threshold)
	if !result.Passed {
		result.Explanation = matcher.Explain(m, value).String()
	}

	e.logger.Debug("matcher evaluated",
		logging.StringField("type", def.Type),
		logging.StringField("target", def.Target),
		logging.BoolField("passed", result.Passed),
		logging.DurationField("duration_ms", elapsed),
	)
	return result
}

// EvaluateAll runs every definition against a map of named
// values. If a target is missing, the definition fails.
func (e *DefaultEngine) EvaluateAll(
	defs []Definition,
	values map[string]any,
) []Result {
	results := make([]Result, 0, len(defs))

	for _, d := range defs {
		value, exists := values[d.Target]
		if !exists {
			results = append(results, Result{
				Type:    d.Type,
				Target:  d.Target,
				Message: d.Message,
				Fatal:   d.Fatal,
				Explanation: fmt.Sprintf(
					"target not found: %s", d.Target,
				),
			})
			continue
		}

		results = append(results, e.Evaluate(d, value))
	}

	return results
}
