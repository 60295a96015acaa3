package runner

import (
	"digital.vasic.matchers/pkg/logging"
	"digital.vasic.matchers/pkg/outcome"
)

// RunnerOption configures a DefaultRunner.
type RunnerOption func(*DefaultRunner)

// WithRegistry sets the registry that opens one outcome per
// suite run.
func WithRegistry(reg *outcome.Registry) RunnerOption {
	return func(r *DefaultRunner) {
		r.registry = reg
	}
}

// WithLogger sets the logger used by the runner.
func WithLogger(logger logging.Logger) RunnerOption {
	return func(r *DefaultRunner) {
		r.logger = logger
	}
}

// WithPostHook adds a hook called after every completed suite
// run. Hook errors are logged and do not fail the run.
func WithPostHook(h Hook) RunnerOption {
	return func(r *DefaultRunner) {
		r.postHooks = append(r.postHooks, h)
	}
}
