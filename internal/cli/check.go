package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/fieldobs/internal/gen"
	"github.com/roach88/fieldobs/internal/ir"
)

// CheckResult reports whether a generated file matches its schema.
type CheckResult struct {
	Output   string `json:"output"`
	Expected string `json:"expected_shape"`
	Actual   string `json:"actual_shape,omitempty"`
	UpToDate bool   `json:"up_to_date"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [schema-path]",
		Short: "Check that generated code is up to date",
		Long: `Check that a generated file was produced from the current schema.

Generated files record the hash of the schema they were rendered from.
check recomputes the hash and compares, without rendering any code. It
exits 1 when the file is missing, hand-written, or stale.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, schemaPath(args), cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "generated file (default "+DefaultOutput+" next to the schema)")
	cmd.Flags().StringVar(&opts.Pkg, "pkg", "", "package name the file was generated with")

	return cmd
}

func runCheck(opts *GenerateOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadSchema(LoadRequest{Path: path, Source: opts.Source, Output: opts.Out})
	if err != nil {
		return reportGenerateError(formatter, err)
	}
	schema := loaded.Schema
	if opts.Pkg != "" && loaded.Source != SourceGo {
		schema.Package = opts.Pkg
	}
	expected, err := ir.SchemaHash(schema)
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, err.Error())
	}

	out := outputPath(opts.Out, loaded)
	result := CheckResult{Output: out, Expected: expected}

	var problem string
	src, err := os.ReadFile(out)
	switch {
	case os.IsNotExist(err):
		problem = fmt.Sprintf("%s does not exist", out)
	case err != nil:
		return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("reading %s: %v", out, err))
	case !gen.IsGenerated(src):
		problem = fmt.Sprintf("%s is not a generated file", out)
	default:
		result.Actual = gen.ShapeOf(src)
		result.UpToDate = result.Actual == expected
		if !result.UpToDate {
			problem = fmt.Sprintf("%s is stale, run fieldgen generate", out)
		}
	}
	opts.logger().Debug("checked", "output", out, "expected", expected, "actual", result.Actual)

	if problem != "" {
		exitErr := NewExitError(ExitFailure, problem)
		if formatter.Format == "json" {
			if err := formatter.Failure(ErrCodeStale, problem, result); err != nil {
				return err
			}
			return exitErr
		}
		fmt.Fprintf(formatter.Writer, "✗ %s\n", problem)
		return exitErr
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ %s is up to date\n", out)
	return nil
}
