package main

import (
	"errors"
	"fmt"
	"io"
)

// Exit codes for matchcheck.
const (
	// ExitSuccess indicates every suite passed.
	ExitSuccess = 0

	// ExitSuiteFailure indicates one or more suites failed.
	ExitSuiteFailure = 1

	// ExitParseError indicates an unreadable or invalid suite.
	ExitParseError = 2

	// ExitConfigError indicates an invalid configuration.
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage.
	ExitUsageError = 64
)

var errSuitesFailed = errors.New("one or more suites failed")

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func parseError(err error) error {
	return &exitError{code: ExitParseError, err: err}
}

func configError(err error) error {
	return &exitError{code: ExitConfigError, err: err}
}

// exitCode maps a command error to a process exit code, printing
// it unless it is the plain suite-failure signal.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, errSuitesFailed) {
		return ExitSuiteFailure
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsageError
}
