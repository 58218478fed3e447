package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/fieldobs/internal/compiler"
	"github.com/roach88/fieldobs/internal/ir"
	"github.com/roach88/fieldobs/internal/layout"
	"github.com/roach88/fieldobs/internal/naming"
)

// LayoutOptions holds flags for the layout command.
type LayoutOptions struct {
	*RootOptions
	Record string // only this record
	Leaves bool   // list flattened leaves instead of direct fields
	Tree   bool   // print the indented range tree
}

// RecordLayout is the JSON form of one record's layout.
type RecordLayout struct {
	Record   string        `json:"record"`
	Size     int           `json:"size"`
	Declared *int          `json:"variance,omitempty"`
	Fields   []FieldLayout `json:"fields"`
	Leaves   []LeafLayout  `json:"leaves"`
}

// FieldLayout is the slot range of one direct field.
type FieldLayout struct {
	Field    string `json:"field"`
	Offset   int    `json:"offset"`
	Span     int    `json:"span"`
	Nested   string `json:"nested,omitempty"`
	Constant string `json:"constant"`
}

// LeafLayout is one flattened slot.
type LeafLayout struct {
	Path string `json:"path"`
	Slot int    `json:"slot"`
}

// NewLayoutCommand creates the layout command.
func NewLayoutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LayoutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "layout [schema-path]",
		Short: "Show the slot layout of each record",
		Long: `Show how each record's participating fields flatten into slots.

By default every direct field is listed with its slot range and the name
of the generated slot constant. --leaves lists every flattened leaf with
its absolute slot; --tree prints the nested range tree.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(opts, schemaPath(args), cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Record, "record", "r", "", "only show this record")
	cmd.Flags().BoolVar(&opts.Leaves, "leaves", false, "list flattened leaves")
	cmd.Flags().BoolVar(&opts.Tree, "tree", false, "print the range tree")

	return cmd
}

func runLayout(opts *LayoutOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadSchema(LoadRequest{Path: path, Source: opts.Source})
	if err != nil {
		return reportGenerateError(formatter, err)
	}
	schema := loaded.Schema
	if errs := compiler.Validate(schema); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}
	layouts, err := layout.Compute(schema)
	if err != nil {
		return commandError(formatter, ErrCodeGenerate, err.Error())
	}

	var records []*ir.RecordShape
	for i := range schema.Records {
		if opts.Record == "" || schema.Records[i].Name == opts.Record {
			records = append(records, &schema.Records[i])
		}
	}
	if len(records) == 0 {
		return commandError(formatter, ErrCodeNotFound, fmt.Sprintf("unknown record %q", opts.Record))
	}

	result := make([]RecordLayout, len(records))
	for i, rec := range records {
		result[i] = describeLayout(rec, layouts[rec.Name])
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	for i, rec := range records {
		if i > 0 {
			fmt.Fprintln(formatter.Writer)
		}
		if opts.Tree {
			if err := layout.Format(formatter.Writer, layouts[rec.Name]); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(formatter.Writer, "%s (%s = %d)\n", rec.Name, naming.ForRecord(rec.Name).Size, result[i].Size)
		if opts.Leaves {
			rows := make([][]string, len(result[i].Leaves))
			for j, leaf := range result[i].Leaves {
				rows[j] = []string{strconv.Itoa(leaf.Slot), leaf.Path}
			}
			formatter.Table([]string{"Slot", "Path"}, rows)
			continue
		}
		rows := make([][]string, len(result[i].Fields))
		for j, f := range result[i].Fields {
			rows[j] = []string{
				f.Field,
				fmt.Sprintf("[%d,%d)", f.Offset, f.Offset+f.Span),
				f.Nested,
				f.Constant,
			}
		}
		formatter.Table([]string{"Field", "Slots", "Record", "Constant"}, rows)
	}
	return nil
}

func describeLayout(rec *ir.RecordShape, l *layout.Layout) RecordLayout {
	names := naming.ForRecord(rec.Name)
	out := RecordLayout{
		Record:   rec.Name,
		Size:     l.Size,
		Declared: rec.Variance,
		Fields:   make([]FieldLayout, len(l.Fields)),
		Leaves:   []LeafLayout{},
	}
	for i, r := range l.Fields {
		f := FieldLayout{
			Field:    r.Field,
			Offset:   r.Offset,
			Span:     r.Span,
			Constant: names.Slot(r.Field),
		}
		if r.Nested != nil {
			f.Nested = r.Nested.Record
		}
		out.Fields[i] = f
	}
	for _, leaf := range l.Leaves() {
		out.Leaves = append(out.Leaves, LeafLayout{Path: leaf.String(), Slot: leaf.Slot})
	}
	return out
}
