// Package gen renders the field-tracking API of record schemas as Go source.
//
// For every record R the generated file holds the RVariantSize constant,
// symbolic slot constants with compile-time assertions that they cover
// exactly RVariantSize slots, the RFieldEvent tagged union with one case per
// field, (*R).Apply, the RSetters interface with its generic implementation
// and BindRSetters, and the RFieldObserver buffer.
package gen

import (
	"bufio"
	"bytes"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/roach88/fieldobs/internal/ir"
	"github.com/roach88/fieldobs/internal/layout"
)

// Header is the first line of every generated file.
const Header = "// Code generated by fieldgen. DO NOT EDIT."

// ShapePrefix starts the line carrying the schema hash.
const ShapePrefix = "// fieldobs:shape "

// DefaultObservePath is the import path of the runtime library.
const DefaultObservePath = "github.com/roach88/fieldobs/observe"

// Options configures Generate.
type Options struct {
	// ObservePath overrides the runtime library import path.
	ObservePath string

	// Filename is passed to the formatter for error messages.
	Filename string
}

// Generate renders the generated file for schema. layouts must hold the
// layout of every record, as returned by layout.Compute.
func Generate(schema *ir.Schema, layouts map[string]*layout.Layout, opts Options) ([]byte, error) {
	if opts.ObservePath == "" {
		opts.ObservePath = DefaultObservePath
	}
	hash, err := ir.SchemaHash(schema)
	if err != nil {
		return nil, err
	}

	g := &generator{
		schema:  schema,
		layouts: layouts,
		imports: []string{"iter", opts.ObservePath},
	}
	for _, imp := range schema.Imports {
		g.addImport(imp)
	}

	var body bytes.Buffer
	g.buf = &body
	for i := range schema.Records {
		rec := &schema.Records[i]
		l, ok := layouts[rec.Name]
		if !ok {
			return nil, fmt.Errorf("record %s: no layout", rec.Name)
		}
		if rec.Variance != nil {
			if err := layout.Verify(l, *rec.Variance); err != nil {
				return nil, err
			}
		}
		g.record(rec, l)
	}

	var out bytes.Buffer
	out.WriteString(Header + "\n")
	out.WriteString(ShapePrefix + hash + "\n\n")
	fmt.Fprintf(&out, "package %s\n", schema.Package)
	writeImports(&out, g.imports)
	out.Write(body.Bytes())

	filename := opts.Filename
	if filename == "" {
		filename = schema.Package + "_fields.go"
	}
	src, err := imports.Process(filename, out.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w\n%s", err, out.Bytes())
	}
	return src, nil
}

// ShapeOf returns the schema hash recorded in a generated file, or "" if
// src is not a generated file.
func ShapeOf(src []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(src))
	for sc.Scan() {
		line := sc.Text()
		if hash, ok := strings.CutPrefix(line, ShapePrefix); ok {
			return strings.TrimSpace(hash)
		}
		if strings.HasPrefix(line, "package ") {
			break
		}
	}
	return ""
}

// IsGenerated reports whether src starts with the generated-code header.
func IsGenerated(src []byte) bool {
	line, _, _ := bytes.Cut(src, []byte("\n"))
	return string(bytes.TrimSpace(line)) == Header
}

type generator struct {
	schema  *ir.Schema
	layouts map[string]*layout.Layout
	imports []string
	buf     *bytes.Buffer
}

func (g *generator) addImport(p string) {
	if !slices.Contains(g.imports, p) {
		g.imports = append(g.imports, p)
	}
}

func (g *generator) p(format string, args ...any) {
	fmt.Fprintf(g.buf, format, args...)
	g.buf.WriteByte('\n')
}

// writeImports writes the import block: standard library first, then the
// rest. The formatter drops schema imports no field refers to.
func writeImports(w *bytes.Buffer, list []string) {
	var std, other []string
	for _, imp := range list {
		if !strings.Contains(strings.SplitN(imp, "/", 2)[0], ".") {
			std = append(std, imp)
		} else {
			other = append(other, imp)
		}
	}
	slices.Sort(std)
	slices.Sort(other)
	w.WriteString("\nimport (\n")
	for _, imp := range std {
		fmt.Fprintf(w, "\t%q\n", imp)
	}
	if len(std) > 0 && len(other) > 0 {
		w.WriteByte('\n')
	}
	for _, imp := range other {
		fmt.Fprintf(w, "\t%q\n", imp)
	}
	w.WriteString(")\n")
}
