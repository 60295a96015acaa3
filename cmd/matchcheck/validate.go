package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"digital.vasic.matchers/pkg/assertion"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [suite files or directories...]",
		Short: "Check that suites parse and every assertion builds",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := discoverSuites(args)
			if err != nil {
				return parseError(err)
			}

			engine := assertion.NewEngine()
			var errs []error
			for _, path := range files {
				if err := validateSuite(engine, path); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", path, err))
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s\n", path)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", path)
			}
			if len(errs) > 0 {
				return parseError(errors.Join(errs...))
			}
			return nil
		},
	}
}

func validateSuite(engine assertion.Builder, path string) error {
	suite, err := assertion.LoadSuite(path)
	if err != nil {
		return err
	}
	var errs []error
	for i, def := range suite.Assertions {
		if _, err := engine.Build(def); err != nil {
			errs = append(errs, fmt.Errorf("assertion %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered matcher types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, t := range assertion.NewEngine().Types() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
		},
	}
}
