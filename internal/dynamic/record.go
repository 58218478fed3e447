package dynamic

import (
	"fmt"

	"github.com/roach88/fieldobs/internal/ir"
)

// Record is an instance of a Type. Leaves start at the zero value of their
// declared Go type (see ir.ZeroFor); nested records start zeroed too.
type Record struct {
	typ    *Type
	leaves map[string]ir.IRValue
	nested map[string]*Record
}

// New returns a zero-valued record of type t.
func (t *Type) New() *Record {
	r := &Record{
		typ:    t,
		leaves: make(map[string]ir.IRValue),
		nested: make(map[string]*Record),
	}
	for _, f := range t.shape.Fields {
		ft := t.fields[f.Name]
		switch {
		case ft.nested != nil:
			r.nested[f.Name] = ft.nested.New()
		case f.Nested != nil:
			// External: only the size is known, there is nothing to hold.
		default:
			r.leaves[f.Name] = ir.ZeroFor(f.Type)
		}
	}
	return r
}

// Type returns the record's type.
func (r *Record) Type() *Type {
	return r.typ
}

// Apply replays ev onto r. A nil event, or a Nested with a nil Inner, is a
// no-op. Events naming fields r does not have return a *FieldError and
// leave r unchanged.
func (r *Record) Apply(ev Event) error {
	switch e := ev.(type) {
	case nil:
		return nil
	case Set:
		ft, err := r.typ.field(e.Field)
		if err != nil {
			return err
		}
		if ft.shape.Nested != nil {
			return &FieldError{Record: r.typ.Name(), Field: e.Field, Reason: "is a nested record, not a leaf"}
		}
		if e.Value == nil {
			r.leaves[e.Field] = ir.IRNull{}
		} else {
			r.leaves[e.Field] = e.Value
		}
		return nil
	case Nested:
		ft, err := r.typ.field(e.Field)
		if err != nil {
			return err
		}
		if ft.shape.Nested == nil {
			return &FieldError{Record: r.typ.Name(), Field: e.Field, Reason: "is a leaf, not a nested record"}
		}
		inner, ok := r.nested[e.Field]
		if !ok {
			return &FieldError{Record: r.typ.Name(), Field: e.Field, Reason: "external record, fields unknown"}
		}
		return inner.Apply(e.Inner)
	default:
		return fmt.Errorf("record %s: unsupported event %T", r.typ.Name(), ev)
	}
}

// Get returns the value at a field path.
func (r *Record) Get(path ...string) (ir.IRValue, error) {
	cur := r
	for i, name := range path {
		if i == len(path)-1 {
			v, ok := cur.leaves[name]
			if !ok {
				if _, nested := cur.nested[name]; nested {
					return cur.nested[name].Value(), nil
				}
				return nil, &FieldError{Record: cur.typ.Name(), Field: name, Reason: "no such leaf"}
			}
			return v, nil
		}
		next, ok := cur.nested[name]
		if !ok {
			return nil, &FieldError{Record: cur.typ.Name(), Field: name, Reason: "no such nested record"}
		}
		cur = next
	}
	return r.Value(), nil
}

// Value returns the record as an IRObject keyed by field name, with nested
// records as nested objects.
func (r *Record) Value() ir.IRObject {
	obj := make(ir.IRObject, len(r.leaves)+len(r.nested))
	for name, v := range r.leaves {
		obj[name] = v
	}
	for name, n := range r.nested {
		obj[name] = n.Value()
	}
	return obj
}
