package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/fieldobs/internal/ir"
	"github.com/roach88/fieldobs/internal/naming"
)

// YAMLSchema is the on-disk YAML form of a schema. Scenarios embed it
// inline under their "schema" key.
//
//	package: orders
//	records:
//	  - name: Order
//	    variance: 2
//	    fields:
//	      - {name: id, type: string}
//	      - {name: total, record: Money}
type YAMLSchema struct {
	Package string       `yaml:"package"`
	Imports []string     `yaml:"imports,omitempty"`
	Records []YAMLRecord `yaml:"records"`
}

// YAMLRecord is one record declaration.
type YAMLRecord struct {
	Name     string      `yaml:"name"`
	Doc      string      `yaml:"doc,omitempty"`
	Variance *int        `yaml:"variance,omitempty"`
	Fields   []YAMLField `yaml:"fields"`
}

// YAMLField is one field declaration: either type or record is set.
type YAMLField struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type,omitempty"`
	Record string `yaml:"record,omitempty"`
	Tag    string `yaml:"tag,omitempty"`
}

// ParseYAMLSchema decodes and compiles a YAML schema document.
// Unknown keys are rejected to catch typos like "feilds:".
func ParseYAMLSchema(data []byte) (*ir.Schema, error) {
	var doc YAMLSchema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &CompileError{Field: "yaml", Message: "empty schema document"}
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return doc.Compile()
}

// Compile converts the YAML form into a Schema.
func (d *YAMLSchema) Compile() (*ir.Schema, error) {
	if d.Package == "" {
		return nil, &CompileError{Field: "package", Message: "package is required"}
	}
	schema := &ir.Schema{
		Package:      d.Package,
		Imports:      d.Imports,
		DeclareTypes: true,
	}
	for i, r := range d.Records {
		rec := ir.RecordShape{
			Name:     naming.GoName(r.Name),
			Doc:      r.Doc,
			Variance: r.Variance,
		}
		for j, f := range r.Fields {
			path := fmt.Sprintf("records[%d].fields[%d]", i, j)
			field := ir.FieldShape{Name: naming.GoName(f.Name), Tag: f.Tag}
			switch {
			case f.Type != "" && f.Record != "":
				return nil, &CompileError{Field: path, Message: fmt.Sprintf("field %q sets both type and record", f.Name)}
			case f.Record != "":
				target := naming.GoName(f.Record)
				field.Type = target
				field.Nested = &ir.RecordRef{Name: target}
			case f.Type != "":
				field.Type = f.Type
			default:
				return nil, &CompileError{Field: path, Message: fmt.Sprintf("field %q needs a type or a record", f.Name)}
			}
			rec.Fields = append(rec.Fields, field)
		}
		schema.Records = append(schema.Records, rec)
	}
	return schema, nil
}
