package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/fieldobs/internal/compiler"
	"github.com/roach88/fieldobs/internal/gen"
	"github.com/roach88/fieldobs/internal/layout"
)

// GenerateOptions holds flags for the generate and watch commands.
type GenerateOptions struct {
	*RootOptions
	Out         string // output file; "-" writes to stdout
	Pkg         string // package clause override for CUE and YAML schemas
	ObservePath string // runtime import path override
}

// GenerateResult describes one generated file.
type GenerateResult struct {
	Output  string   `json:"output"`
	Package string   `json:"package"`
	Records []string `json:"records"`
	Hash    string   `json:"shape"`
	Changed bool     `json:"changed"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate [schema-path]",
		Short: "Generate field-tracking code from a schema",
		Long: `Generate the field-tracking API for every record of a schema.

The schema path is a .cue or .yaml file, a directory of CUE files, or a Go
package directory whose structs carry a //fieldobs:record directive. It
defaults to the current directory, which suits go:generate:

  //go:generate go run github.com/roach88/fieldobs/cmd/fieldgen generate --source go

The output file is only rewritten when its content changes.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, schemaPath(args), cmd)
		},
	}

	addGenerateFlags(cmd, opts)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command, opts *GenerateOptions) {
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (default "+DefaultOutput+" next to the schema, - for stdout)")
	cmd.Flags().StringVar(&opts.Pkg, "pkg", "", "package name of the generated file")
	cmd.Flags().StringVar(&opts.ObservePath, "observe-path", "", "import path of the observe runtime")
}

func schemaPath(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

func runGenerate(opts *GenerateOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	res, err := generate(opts, path, cmd)
	if err != nil {
		return reportGenerateError(formatter, err)
	}
	if res.Output == "-" {
		return nil
	}
	if formatter.Format == "json" {
		return formatter.Success(res)
	}
	if res.Changed {
		fmt.Fprintf(formatter.Writer, "✓ Generated %d record(s) into %s\n", len(res.Records), res.Output)
	} else {
		fmt.Fprintf(formatter.Writer, "✓ %s is up to date\n", res.Output)
	}
	return nil
}

// validationFailure carries the errors of a schema that failed validation.
type validationFailure struct {
	errs []compiler.ValidationError
}

func (v *validationFailure) Error() string {
	return fmt.Sprintf("validation failed with %d error(s)", len(v.errs))
}

// generate runs the full pipeline: load, validate, lay out, render, write.
func generate(opts *GenerateOptions, path string, cmd *cobra.Command) (*GenerateResult, error) {
	log := opts.logger()

	loaded, err := LoadSchema(LoadRequest{Path: path, Source: opts.Source, Output: opts.Out})
	if err != nil {
		return nil, err
	}
	schema := loaded.Schema
	if opts.Pkg != "" && loaded.Source != SourceGo {
		schema.Package = opts.Pkg
	}
	log.Debug("schema loaded", "source", loaded.Source, "files", len(loaded.Files), "records", len(schema.Records))

	if errs := compiler.Validate(schema); len(errs) > 0 {
		return nil, &validationFailure{errs: errs}
	}
	layouts, err := layout.Compute(schema)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGenerate, Message: err.Error()}
	}

	out := outputPath(opts.Out, loaded)
	src, err := gen.Generate(schema, layouts, gen.Options{ObservePath: opts.ObservePath, Filename: out})
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGenerate, Message: err.Error()}
	}

	res := &GenerateResult{Output: out, Package: schema.Package}
	for _, rec := range schema.Records {
		res.Records = append(res.Records, rec.Name)
	}
	res.Hash = gen.ShapeOf(src)

	if out == "-" {
		_, err := cmd.OutOrStdout().Write(src)
		return res, err
	}
	existing, err := os.ReadFile(out)
	if err == nil && bytes.Equal(existing, src) {
		log.Debug("output unchanged", "output", out)
		return res, nil
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return nil, &LoadError{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("writing output file: %v", err)}
	}
	res.Changed = true
	log.Info("generated", "output", out, "records", len(res.Records), "shape", res.Hash)
	return res, nil
}

// outputPath resolves --out. Without it the file goes next to the schema.
func outputPath(out string, loaded *LoadResult) string {
	if out == "" {
		return filepath.Join(loaded.Dir, DefaultOutput)
	}
	return out
}

// reportGenerateError prints err and maps it to an exit code: validation
// failures exit 1, everything else exits 2.
func reportGenerateError(formatter *OutputFormatter, err error) error {
	var vf *validationFailure
	if errors.As(err, &vf) {
		return outputValidationErrors(formatter, vf.errs)
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		msg := loadErr.Message
		if loadErr.Pos.IsValid() {
			msg = loadErr.Error()
		}
		return commandError(formatter, loadErr.Code, msg)
	}
	return commandError(formatter, ErrCodeGeneric, err.Error())
}
