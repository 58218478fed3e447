package gen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fieldobs/internal/compiler"
	"github.com/roach88/fieldobs/internal/ir"
	"github.com/roach88/fieldobs/internal/layout"
)

func fooBarSchema() *ir.Schema {
	return &ir.Schema{
		Package:      "records",
		Imports:      []string{"time"},
		DeclareTypes: true,
		Records: []ir.RecordShape{
			{
				Name:     "Foo",
				Doc:      "Foo is the innermost record.",
				Variance: ir.IntPtr(2),
				Fields: []ir.FieldShape{
					{Name: "Field1", Type: "uint16"},
					{Name: "Field2", Type: "uint32", Tag: `json:"field2"`},
				},
			},
			{
				Name: "Bar",
				Fields: []ir.FieldShape{
					{Name: "Field3", Type: "uint64"},
					{Name: "Foo", Type: "Foo", Nested: &ir.RecordRef{Name: "Foo"}},
					{Name: "Field4", Type: "bool"},
				},
			},
			{Name: "Empty"},
		},
	}
}

func generate(t *testing.T, s *ir.Schema) []byte {
	t.Helper()
	layouts, err := layout.Compute(s)
	require.NoError(t, err)
	src, err := Generate(s, layouts, Options{})
	require.NoError(t, err)
	return src
}

// decls indexes the top-level declarations of src by name. Methods are
// keyed as "Recv.Name".
func decls(t *testing.T, src []byte) (*ast.File, map[string]bool) {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "gen.go", src, parser.ParseComments)
	require.NoError(t, err, "generated code must parse:\n%s", src)

	names := make(map[string]bool)
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			name := d.Name.Name
			if d.Recv != nil {
				typ := d.Recv.List[0].Type
				if star, ok := typ.(*ast.StarExpr); ok {
					typ = star.X
				}
				if idx, ok := typ.(*ast.IndexExpr); ok {
					typ = idx.X
				}
				name = typ.(*ast.Ident).Name + "." + name
			}
			names[name] = true
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch spec := spec.(type) {
				case *ast.TypeSpec:
					names[spec.Name.Name] = true
				case *ast.ValueSpec:
					for _, n := range spec.Names {
						names[n.Name] = true
					}
				}
			}
		}
	}
	return f, names
}

func TestGenerateDeclarations(t *testing.T) {
	src := generate(t, fooBarSchema())
	f, names := decls(t, src)

	assert.Equal(t, "records", f.Name.Name)
	for _, want := range []string{
		"Foo", "FooVariantSize", "fooField1Slot", "fooField2Slot",
		"FooFieldEvent", "FooField1", "FooField2", "Foo.Apply",
		"FooSetters", "fooSetters", "BindFooSetters",
		"fooSetters.Field1", "fooSetters.Field2",
		"FooFieldObserver", "NewFooFieldObserver",
		"FooFieldObserver.Setters", "FooFieldObserver.Events",
		"FooFieldObserver.Pending", "FooFieldObserver.ClearEvents",
		"Bar", "BarVariantSize", "barFooSlot", "BarFoo", "barSetters.Foo",
		"Empty", "EmptyVariantSize", "Empty.Apply", "EmptyFieldObserver",
	} {
		assert.True(t, names[want], "missing declaration %s", want)
	}
}

func TestGenerateSizesAndOffsets(t *testing.T) {
	src := string(generate(t, fooBarSchema()))

	assert.Contains(t, src, "const FooVariantSize = 2")
	assert.Contains(t, src, "const BarVariantSize = 4")
	assert.Contains(t, src, "const EmptyVariantSize = 0")

	// Offsets are symbolic so the compiler re-checks the arithmetic.
	assert.Contains(t, src, "barFooSlot    = barField3Slot + 1")
	assert.Contains(t, src, "barField4Slot = barFooSlot + FooVariantSize")
	assert.Contains(t, src, "const _ = uint(BarVariantSize - (barField4Slot + 1))")
	assert.Contains(t, src, "const _ = uint((barField4Slot + 1) - BarVariantSize)")
	assert.Contains(t, src, "const _ = uint(EmptyVariantSize - (0))")
}

func TestGenerateSetterChain(t *testing.T) {
	src := string(generate(t, fooBarSchema()))

	assert.Contains(t, src, "return BindFooSetters[E](s.slots.Sub(barFooSlot, FooVariantSize), func(ev FooFieldEvent) E {")
	assert.Contains(t, src, "return s.wrap(BarFoo{Value: ev})")
	assert.Contains(t, src, "return observe.Leaf(s.slots, barField3Slot, func(v uint64) E {")
	assert.Contains(t, src, `observe.CheckSpan(slots, BarVariantSize, "Bar")`)
	assert.Contains(t, src, "r.Foo.Apply(ev.Value)")
	assert.Contains(t, src, "r.Field4 = ev.Value")
}

func TestGenerateDeclareTypes(t *testing.T) {
	s := fooBarSchema()
	src := string(generate(t, s))
	assert.Contains(t, src, "// Foo is the innermost record.\ntype Foo struct {")
	assert.Contains(t, src, "Field2 uint32 `json:\"field2\"`")

	s.DeclareTypes = false
	src = string(generate(t, s))
	assert.NotContains(t, src, "type Foo struct")
}

func TestGenerateDropsUnusedImports(t *testing.T) {
	f, _ := decls(t, generate(t, fooBarSchema()))
	var paths []string
	for _, imp := range f.Imports {
		paths = append(paths, imp.Path.Value)
	}
	assert.ElementsMatch(t, []string{`"iter"`, `"github.com/roach88/fieldobs/observe"`}, paths)
}

func TestGenerateExternalRecord(t *testing.T) {
	s := &ir.Schema{
		Package: "shapes",
		Imports: []string{"example.com/geo"},
		Records: []ir.RecordShape{{
			Name: "Marker",
			Fields: []ir.FieldShape{
				{Name: "Label", Type: "string"},
				{Name: "At", Type: "geo.Point", Nested: &ir.RecordRef{
					Name: "Point", Package: "example.com/geo", Alias: "geo", Size: 2,
				}},
			},
		}},
	}
	src := string(generate(t, s))

	assert.Contains(t, src, `"example.com/geo"`)
	assert.Contains(t, src, "const MarkerVariantSize = 3")
	assert.Contains(t, src, "type MarkerAt struct{ Value geo.PointFieldEvent }")
	assert.Contains(t, src, "At() geo.PointSetters")
	assert.Contains(t, src, "geo.BindPointSetters[E](s.slots.Sub(markerAtSlot, geo.PointVariantSize)")
	assert.Contains(t, src, "const _ = uint(MarkerVariantSize - (markerAtSlot + geo.PointVariantSize))")
}

func TestGenerateRejectsMismatch(t *testing.T) {
	s := fooBarSchema()
	s.Records[1].Variance = ir.IntPtr(3)
	layouts, err := layout.Compute(s)
	require.NoError(t, err)

	_, err = Generate(s, layouts, Options{})
	var mismatch *layout.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 4, mismatch.Actual)
}

func TestGenerateDeterministic(t *testing.T) {
	assert.Equal(t, generate(t, fooBarSchema()), generate(t, fooBarSchema()))
}

func TestShapeOf(t *testing.T) {
	s := fooBarSchema()
	src := generate(t, s)
	assert.True(t, IsGenerated(src))
	assert.Equal(t, ir.MustSchemaHash(s), ShapeOf(src))

	assert.Empty(t, ShapeOf([]byte("package p\n// fieldobs:shape abc\n")))
	assert.False(t, IsGenerated([]byte("package p\n")))
}

func TestCheckedInFilesUpToDate(t *testing.T) {
	for _, dir := range []string{"../testrecords", "../testrecords/geo"} {
		t.Run(dir, func(t *testing.T) {
			schema, err := compiler.LoadGoPackage(compiler.GoLoadOptions{Dir: dir, IgnoreFile: "fields_gen.go"})
			require.NoError(t, err)
			require.Empty(t, compiler.Validate(schema))

			onDisk, err := os.ReadFile(filepath.Join(dir, "fields_gen.go"))
			require.NoError(t, err)
			fresh := generate(t, schema)

			assert.Equal(t, ShapeOf(fresh), ShapeOf(onDisk), "run go generate in %s", dir)
			assert.Equal(t, string(fresh), string(onDisk), "run go generate in %s", dir)
		})
	}
}
