package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/fieldobs/internal/ir"
	"github.com/roach88/fieldobs/internal/naming"
)

// CompileSchema parses a CUE value into a Schema.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The expected shape is:
//
//	go_package: "orders"
//	go_imports: ["time"]
//	record: Order: {
//		doc:      "Order is a customer order."
//		variance: 3
//		fields: [
//			{name: "id", type: "string"},
//			{name: "placed_at", type: "time.Time"},
//			{name: "total", record: "Money"},
//		]
//	}
//
// Fields are a list because their order fixes slot order. Names are
// converted to exported Go identifiers (placed_at -> PlacedAt).
func CompileSchema(v cue.Value) (*ir.Schema, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schema := &ir.Schema{DeclareTypes: true}

	pkgVal := v.LookupPath(cue.ParsePath("go_package"))
	if !pkgVal.Exists() {
		return nil, &CompileError{
			Field:   "go_package",
			Message: "go_package is required",
			Pos:     v.Pos(),
		}
	}
	pkg, err := pkgVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	schema.Package = pkg

	importsVal := v.LookupPath(cue.ParsePath("go_imports"))
	if importsVal.Exists() {
		schema.Imports, err = stringList(importsVal)
		if err != nil {
			return nil, err
		}
	}

	recordsVal := v.LookupPath(cue.ParsePath("record"))
	if !recordsVal.Exists() {
		return schema, nil
	}
	iter, err := recordsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		rec, err := compileRecord(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		schema.Records = append(schema.Records, *rec)
	}

	return schema, nil
}

// compileRecord parses one record: {doc?, variance?, fields}.
func compileRecord(name string, v cue.Value) (*ir.RecordShape, error) {
	rec := &ir.RecordShape{Name: naming.GoName(name)}

	if docVal := v.LookupPath(cue.ParsePath("doc")); docVal.Exists() {
		doc, err := docVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		rec.Doc = doc
	}

	if varVal := v.LookupPath(cue.ParsePath("variance")); varVal.Exists() {
		n, err := varVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		rec.Variance = ir.IntPtr(int(n))
	}

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return nil, &CompileError{
			Field:   fmt.Sprintf("record.%s.fields", name),
			Message: "fields are required (use [] for an empty record)",
			Pos:     v.Pos(),
		}
	}
	fieldIter, err := fieldsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for i := 0; fieldIter.Next(); i++ {
		f, err := compileField(name, i, fieldIter.Value())
		if err != nil {
			return nil, err
		}
		rec.Fields = append(rec.Fields, f)
	}

	return rec, nil
}

// compileField parses {name, type} (leaf) or {name, record} (participating).
func compileField(record string, index int, v cue.Value) (ir.FieldShape, error) {
	path := fmt.Sprintf("record.%s.fields[%d]", record, index)

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return ir.FieldShape{}, &CompileError{Field: path + ".name", Message: "field name is required", Pos: v.Pos()}
	}
	name, err := nameVal.String()
	if err != nil {
		return ir.FieldShape{}, formatCUEError(err)
	}
	f := ir.FieldShape{Name: naming.GoName(name)}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	recordVal := v.LookupPath(cue.ParsePath("record"))
	switch {
	case typeVal.Exists() && recordVal.Exists():
		return f, &CompileError{
			Field:   path,
			Message: fmt.Sprintf("field %q sets both type and record", name),
			Pos:     v.Pos(),
		}
	case recordVal.Exists():
		target, err := recordVal.String()
		if err != nil {
			return f, formatCUEError(err)
		}
		target = naming.GoName(target)
		f.Type = target
		f.Nested = &ir.RecordRef{Name: target}
	case typeVal.Exists():
		typ, err := typeVal.String()
		if err != nil {
			return f, formatCUEError(err)
		}
		f.Type = typ
	default:
		return f, &CompileError{
			Field:   path,
			Message: fmt.Sprintf("field %q needs a type or a record", name),
			Pos:     v.Pos(),
		}
	}

	if tagVal := v.LookupPath(cue.ParsePath("tag")); tagVal.Exists() {
		tag, err := tagVal.String()
		if err != nil {
			return f, formatCUEError(err)
		}
		f.Tag = tag
	}

	return f, nil
}

func stringList(v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}
