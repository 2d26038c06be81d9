package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/jsonview"
	"github.com/aretw0/jsonview/internal/compiler"
	"github.com/aretw0/jsonview/internal/validator"
	"github.com/aretw0/jsonview/pkg/compare"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <question>...",
	Short: "Check question documents for consistency",
	Long:  `Parses each document and reports unknown action types, malformed expressions and unusable conditions.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runValidate(cmd, args); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Questions are valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, paths []string) error {
	opts := validator.Options{
		ActionTypes: jsonview.New().ActionTypes(),
		Operators:   compare.Default(),
	}
	parser := compiler.NewParser()

	var errs []error
	for _, path := range paths {
		q, err := parser.ParseFile(path)
		if err == nil {
			err = validator.ValidateQuestion(q, opts)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed for %d of %d documents: %w", len(errs), len(paths), errors.Join(errs...))
	}
	return nil
}
