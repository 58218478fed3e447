package layout

import (
	"fmt"
	"strings"

	"github.com/roach88/fieldobs/internal/ir"
)

// CycleError reports records that contain themselves, directly or through
// other records. Such a record would have an infinite variant size.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "record cycle: " + strings.Join(e.Path, " -> ")
}

// UnknownRecordError reports a participating field whose record is not
// declared in the schema.
type UnknownRecordError struct {
	Record string
	Field  string
	Nested string
}

func (e *UnknownRecordError) Error() string {
	return fmt.Sprintf("record %s field %s: unknown record %q", e.Record, e.Field, e.Nested)
}

// MismatchError reports a declared variant size that differs from the
// flattened leaf count.
type MismatchError struct {
	Record   string
	Declared int
	Actual   int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("record %s declares variance %d but its fields flatten to %d slots",
		e.Record, e.Declared, e.Actual)
}

// Compute returns the layout of every record in s, keyed by record name.
// Nested layouts are shared: Bar's Foo range points at the same *Layout as
// the "Foo" entry.
func Compute(s *ir.Schema) (map[string]*Layout, error) {
	c := &computer{
		schema: s,
		done:   make(map[string]*Layout, len(s.Records)),
		active: make(map[string]bool),
	}
	for i := range s.Records {
		if _, err := c.record(&s.Records[i]); err != nil {
			return nil, err
		}
	}
	return c.done, nil
}

// Of computes the layout of one record of s.
func Of(s *ir.Schema, name string) (*Layout, error) {
	rec := s.Record(name)
	if rec == nil {
		return nil, fmt.Errorf("unknown record %q", name)
	}
	c := &computer{
		schema: s,
		done:   make(map[string]*Layout),
		active: make(map[string]bool),
	}
	return c.record(rec)
}

type computer struct {
	schema *ir.Schema
	done   map[string]*Layout
	active map[string]bool
	stack  []string
}

func (c *computer) record(rec *ir.RecordShape) (*Layout, error) {
	if l, ok := c.done[rec.Name]; ok {
		return l, nil
	}
	if c.active[rec.Name] {
		start := 0
		for i, name := range c.stack {
			if name == rec.Name {
				start = i
				break
			}
		}
		path := append(append([]string{}, c.stack[start:]...), rec.Name)
		return nil, &CycleError{Path: path}
	}
	c.active[rec.Name] = true
	c.stack = append(c.stack, rec.Name)
	defer func() {
		delete(c.active, rec.Name)
		c.stack = c.stack[:len(c.stack)-1]
	}()

	l := &Layout{Record: rec.Name, Fields: make([]Range, 0, len(rec.Fields))}
	offset := 0
	for _, f := range rec.Fields {
		r := Range{Field: f.Name, Offset: offset, Span: 1}
		if f.Nested != nil {
			nested, err := c.nested(rec, f)
			if err != nil {
				return nil, err
			}
			r.Nested = nested
			r.Span = nested.Size
		}
		l.Fields = append(l.Fields, r)
		offset += r.Span
	}
	l.Size = offset
	c.done[rec.Name] = l
	return l, nil
}

func (c *computer) nested(rec *ir.RecordShape, f ir.FieldShape) (*Layout, error) {
	ref := f.Nested
	if ref.External() {
		if ref.Size < 0 {
			return nil, fmt.Errorf("record %s field %s: external record %s has negative size %d",
				rec.Name, f.Name, ref.Name, ref.Size)
		}
		return &Layout{Record: ref.Name, Size: ref.Size, External: true, Package: ref.Package}, nil
	}
	target := c.schema.Record(ref.Name)
	if target == nil {
		return nil, &UnknownRecordError{Record: rec.Name, Field: f.Name, Nested: ref.Name}
	}
	return c.record(target)
}

// Verify checks a declared variant size against the computed layout.
func Verify(l *Layout, declared int) error {
	if declared != l.Size {
		return &MismatchError{Record: l.Record, Declared: declared, Actual: l.Size}
	}
	return nil
}

// VerifySchema verifies every record of s that declares a variance. It
// returns one error per mismatching record, in schema order.
func VerifySchema(s *ir.Schema, layouts map[string]*Layout) []error {
	var errs []error
	for _, rec := range s.Records {
		if rec.Variance == nil {
			continue
		}
		l, ok := layouts[rec.Name]
		if !ok {
			errs = append(errs, fmt.Errorf("record %s: no layout computed", rec.Name))
			continue
		}
		if err := Verify(l, *rec.Variance); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
