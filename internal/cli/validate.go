package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/fieldobs/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                       `json:"valid"`
	Records int                        `json:"records"`
	Errors  []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [schema-path]",
		Short: "Validate a schema without generating code",
		Long: `Validate a schema without generating code.

Reports every problem at once: bad or duplicate names, unknown nested
records, containment cycles, generated identifiers that collide, and
declared variances that disagree with the fields.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, schemaPath(args), cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadSchema(LoadRequest{Path: path, Source: opts.Source})
	if err != nil {
		return reportGenerateError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d record(s) from %d %s file(s)", len(loaded.Schema.Records), len(loaded.Files), loaded.Source)

	if errs := compiler.Validate(loaded.Schema); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Records: len(loaded.Schema.Records)})
	}
	fmt.Fprintf(formatter.Writer, "✓ Schema valid (%d record(s))\n", len(loaded.Schema.Records))
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.Format == "json" {
		result := ValidationResult{Valid: false, Errors: errs}
		if err := formatter.Failure(errs[0].Code, errs[0].Message, result); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}
	return exitErr
}
