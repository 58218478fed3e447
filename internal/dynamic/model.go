// Package dynamic derives the field-tracking API from a schema at run time.
//
// It is the counterpart of generated code for shapes that are only known
// while the program runs (scenario files, the CLI): events are the Set and
// Nested cases instead of per-record structs, records hold ir values, and
// setter chains resolve field names through the record's layout. Slot
// allocation, sub-slicing, and buffering are the same observe primitives
// generated code uses.
package dynamic

import (
	"fmt"

	"github.com/roach88/fieldobs/internal/ir"
	"github.com/roach88/fieldobs/internal/layout"
)

// Model is a compiled schema: one Type per record.
type Model struct {
	schema *ir.Schema
	types  map[string]*Type
}

// Type is a record type of a Model.
type Type struct {
	shape  *ir.RecordShape
	layout *layout.Layout
	fields map[string]*fieldType
}

type fieldType struct {
	shape  ir.FieldShape
	rng    layout.Range
	nested *Type // nil for leaves and for external records
}

// Compile builds a Model from s. Declared variances are verified.
func Compile(s *ir.Schema) (*Model, error) {
	layouts, err := layout.Compute(s)
	if err != nil {
		return nil, err
	}
	if errs := layout.VerifySchema(s, layouts); len(errs) > 0 {
		return nil, errs[0]
	}

	m := &Model{schema: s, types: make(map[string]*Type, len(s.Records))}
	for i := range s.Records {
		rec := &s.Records[i]
		m.types[rec.Name] = &Type{shape: rec, layout: layouts[rec.Name]}
	}
	for _, t := range m.types {
		t.fields = make(map[string]*fieldType, len(t.shape.Fields))
		for _, f := range t.shape.Fields {
			rng, ok := t.layout.Field(f.Name)
			if !ok {
				return nil, fmt.Errorf("record %s: no range for field %s", t.shape.Name, f.Name)
			}
			ft := &fieldType{shape: f, rng: rng}
			if f.Nested != nil && !f.Nested.External() {
				ft.nested = m.types[f.Nested.Name]
			}
			t.fields[f.Name] = ft
		}
	}
	return m, nil
}

// Schema returns the schema the model was compiled from.
func (m *Model) Schema() *ir.Schema {
	return m.schema
}

// Type returns the record type called name.
func (m *Model) Type(name string) (*Type, error) {
	t, ok := m.types[name]
	if !ok {
		return nil, fmt.Errorf("unknown record %q", name)
	}
	return t, nil
}

// Name returns the record name.
func (t *Type) Name() string {
	return t.shape.Name
}

// Size returns the variant size.
func (t *Type) Size() int {
	return t.layout.Size
}

// Layout returns the slot partition of the record.
func (t *Type) Layout() *layout.Layout {
	return t.layout
}

// field resolves a direct field, reporting user-facing errors.
func (t *Type) field(name string) (*fieldType, error) {
	f, ok := t.fields[name]
	if !ok {
		return nil, &FieldError{Record: t.shape.Name, Field: name, Reason: "no such field"}
	}
	return f, nil
}

// FieldError reports a field name that does not resolve. Names reaching the
// dynamic model come from user input, so these are errors, not panics.
type FieldError struct {
	Record string
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("record %s field %q: %s", e.Record, e.Field, e.Reason)
}
