// Package runner evaluates matcher suites. Every suite run gets
// its own outcome, opened and closed on the goroutine that
// evaluates the suite, so suites can run sequentially or in
// parallel with a concurrency limit.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digital.vasic.matchers/pkg/assertion"
	"digital.vasic.matchers/pkg/logging"
	"digital.vasic.matchers/pkg/outcome"
)

// Runner defines the interface for suite execution.
type Runner interface {
	// Run loads and evaluates the suite file at path.
	Run(ctx context.Context, path string) (*SuiteRun, error)

	// RunSuite evaluates an already loaded suite.
	RunSuite(ctx context.Context, suite *assertion.Suite) (*SuiteRun, error)

	// RunSequence evaluates the suite files in order and stops
	// at the first error.
	RunSequence(ctx context.Context, paths []string) ([]*SuiteRun, error)

	// RunParallel evaluates the suite files concurrently with
	// at most maxConcurrency suites in flight.
	RunParallel(ctx context.Context, paths []string, maxConcurrency int) ([]*SuiteRun, error)
}

// SuiteRun is the result of evaluating one suite.
type SuiteRun struct {
	Path    string
	Suite   *assertion.Suite
	Verdict outcome.Verdict
	Results []assertion.Result
}

// Passed reports whether the suite run recorded no failure.
func (s *SuiteRun) Passed() bool {
	return !s.Verdict.Failed
}

// LoadError reports a suite file that could not be read or
// parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

// Hook is invoked after a suite run completes.
type Hook func(ctx context.Context, run *SuiteRun) error

// DefaultRunner is the standard Runner implementation.
type DefaultRunner struct {
	engine    assertion.Engine
	registry  *outcome.Registry
	logger    logging.Logger
	postHooks []Hook
}

var _ Runner = (*DefaultRunner)(nil)

// NewRunner creates a DefaultRunner evaluating definitions with
// engine.
func NewRunner(engine assertion.Engine, opts ...RunnerOption) *DefaultRunner {
	r := &DefaultRunner{
		engine: engine,
		logger: logging.NullLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = outcome.NewRegistry(outcome.WithRegistryLogger(r.logger))
	}
	return r
}

// Run loads the suite at path and evaluates it.
func (r *DefaultRunner) Run(ctx context.Context, path string) (*SuiteRun, error) {
	suite, err := assertion.LoadSuite(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	run, err := r.RunSuite(ctx, suite)
	if run != nil {
		run.Path = path
	}
	return run, err
}

// RunSuite evaluates suite inside a fresh outcome. A fatal
// assertion ends the suite; its failure is part of the verdict
// and is not returned as an error.
func (r *DefaultRunner) RunSuite(ctx context.Context, suite *assertion.Suite) (*SuiteRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, o := r.registry.Init()
	r.logger.Debug("suite started",
		logging.SuiteField(suite.Name),
		logging.InvocationField(string(id)),
	)

	results, runErr := suite.Run(r.engine, o)
	verdict, err := r.registry.Close(id)
	if err != nil {
		return nil, fmt.Errorf("suite %s: %w", suite.Name, err)
	}
	var fatal *outcome.Failure
	if runErr != nil && !errors.As(runErr, &fatal) {
		return nil, fmt.Errorf("suite %s: %w", suite.Name, runErr)
	}

	run := &SuiteRun{Suite: suite, Verdict: verdict, Results: results}
	r.logger.Debug("suite finished",
		logging.SuiteField(suite.Name),
		logging.BoolField("passed", run.Passed()),
		logging.IntField("failures", len(verdict.All())),
		logging.DurationField("duration", verdict.Duration),
	)

	for _, hook := range r.postHooks {
		if err := hook(ctx, run); err != nil {
			r.logger.Warn("post hook failed",
				logging.SuiteField(suite.Name),
				logging.ErrorField(err),
			)
		}
	}
	return run, nil
}

// RunSequence evaluates the suite files in order. The runs
// completed before an error are returned with it.
func (r *DefaultRunner) RunSequence(ctx context.Context, paths []string) ([]*SuiteRun, error) {
	start := time.Now()
	runs := make([]*SuiteRun, 0, len(paths))
	for _, path := range paths {
		run, err := r.Run(ctx, path)
		if err != nil {
			return runs, err
		}
		runs = append(runs, run)
	}
	r.logger.Debug("sequence finished",
		logging.IntField("suites", len(runs)),
		logging.DurationField("duration", time.Since(start)),
	)
	return runs, nil
}

// RunParallel evaluates the suite files concurrently. It
// delegates to the parallel runner implementation.
func (r *DefaultRunner) RunParallel(
	ctx context.Context,
	paths []string,
	maxConcurrency int,
) ([]*SuiteRun, error) {
	return runParallel(ctx, r, paths, maxConcurrency)
}
