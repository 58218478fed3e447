package compiler

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/roach88/fieldobs/internal/ir"
)

// Go source annotations.
const (
	// RecordDirective marks a struct type as a record:
	//
	//	//fieldobs:record variance=3
	//	type Bar struct { ... }
	RecordDirective = "//fieldobs:record"

	// TagKey is the struct tag key. `fieldobs:"expand"` marks a
	// participating field, `fieldobs:"-"` excludes a field.
	TagKey = "fieldobs"
)

// GoLoadOptions configures LoadGoPackage.
type GoLoadOptions struct {
	Dir     string // directory to resolve the pattern from
	Pattern string // package pattern, "." when empty

	// IgnoreFile names the generated output file. Type errors located in it
	// are ignored, since it is stale by definition while its shape changes.
	IgnoreFile string
}

// LoadGoPackage loads one Go package and extracts every struct marked with
// RecordDirective. Participating fields must be struct values (not
// pointers) of a record type: either marked in the same package, or from a
// package whose generated <Name>VariantSize constant is visible.
func LoadGoPackage(opts GoLoadOptions) (*ir.Schema, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = "."
	}
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedTypesInfo,
		Dir: opts.Dir,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", pattern, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("pattern %q matched %d packages, want exactly 1", pattern, len(pkgs))
	}
	pkg := pkgs[0]
	for _, pkgErr := range pkg.Errors {
		if opts.IgnoreFile != "" && strings.Contains(pkgErr.Pos, opts.IgnoreFile) {
			continue
		}
		return nil, fmt.Errorf("package %s: %v", pkg.PkgPath, pkgErr)
	}
	if pkg.Types == nil || pkg.TypesInfo == nil {
		return nil, fmt.Errorf("package %s: no type information", pkg.PkgPath)
	}

	l := &goLoader{pkg: pkg, schema: &ir.Schema{Package: pkg.Name}}
	for _, file := range pkg.Syntax {
		if opts.IgnoreFile != "" && filepath.Base(pkg.Fset.Position(file.Pos()).Filename) == opts.IgnoreFile {
			continue
		}
		if err := l.file(file); err != nil {
			return nil, err
		}
	}
	slices.Sort(l.schema.Imports)
	return l.schema, nil
}

type goLoader struct {
	pkg    *packages.Package
	schema *ir.Schema
}

func (l *goLoader) file(file *ast.File) error {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}
			args, ok := findDirective(doc)
			if !ok {
				continue
			}
			rec, err := l.record(ts, doc, args)
			if err != nil {
				return err
			}
			l.schema.Records = append(l.schema.Records, *rec)
		}
	}
	return nil
}

// findDirective returns the arguments of the record directive in doc.
func findDirective(doc *ast.CommentGroup) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, RecordDirective)
		if !ok {
			continue
		}
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue // e.g. //fieldobs:recordset
		}
		return strings.TrimSpace(rest), true
	}
	return "", false
}

func (l *goLoader) errorf(pos token.Pos, field, format string, args ...any) error {
	p := l.pkg.Fset.Position(pos)
	return &CompileError{Field: field, Message: fmt.Sprintf(format, args...), File: p.Filename, Line: p.Line}
}

func (l *goLoader) record(ts *ast.TypeSpec, doc *ast.CommentGroup, args string) (*ir.RecordShape, error) {
	name := ts.Name.Name
	rec := &ir.RecordShape{Name: name, Doc: strings.TrimSpace(doc.Text())}

	for _, arg := range strings.Fields(args) {
		key, val, _ := strings.Cut(arg, "=")
		switch key {
		case "variance":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, l.errorf(ts.Pos(), name, "invalid variance %q", val)
			}
			rec.Variance = ir.IntPtr(n)
		default:
			return nil, l.errorf(ts.Pos(), name, "unknown directive argument %q", arg)
		}
	}

	obj, ok := l.pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
	if !ok {
		return nil, l.errorf(ts.Pos(), name, "no type information")
	}
	if ts.TypeParams != nil && ts.TypeParams.NumFields() > 0 {
		return nil, l.errorf(ts.Pos(), name, "generic records are not supported")
	}
	st, ok := obj.Type().Underlying().(*types.Struct)
	if !ok {
		return nil, l.errorf(ts.Pos(), name, "%s is not a struct type", name)
	}

	for i := range st.NumFields() {
		fv := st.Field(i)
		tag := reflect.StructTag(st.Tag(i)).Get(TagKey)
		if tag == "-" {
			continue
		}
		if fv.Embedded() {
			return nil, l.errorf(fv.Pos(), name+"."+fv.Name(), "embedded fields are not supported; name the field or tag it `fieldobs:\"-\"`")
		}
		f := ir.FieldShape{
			Name: fv.Name(),
			Type: types.TypeString(fv.Type(), l.qualifier),
		}
		switch tag {
		case "":
		case "expand":
			ref, err := l.nested(name, fv)
			if err != nil {
				return nil, err
			}
			f.Nested = ref
		default:
			return nil, l.errorf(fv.Pos(), name+"."+fv.Name(), "unknown %s tag %q", TagKey, tag)
		}
		rec.Fields = append(rec.Fields, f)
	}
	return rec, nil
}

// nested resolves the record reference of a participating field.
func (l *goLoader) nested(record string, fv *types.Var) (*ir.RecordRef, error) {
	field := record + "." + fv.Name()
	if _, isPtr := fv.Type().(*types.Pointer); isPtr {
		return nil, l.errorf(fv.Pos(), field, "expand field must be a struct value, not a pointer")
	}
	named, ok := fv.Type().(*types.Named)
	if !ok {
		return nil, l.errorf(fv.Pos(), field, "expand field must have a named struct type, got %s", fv.Type())
	}
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return nil, l.errorf(fv.Pos(), field, "expand field type %s is not a struct", named)
	}
	typeName := named.Obj()
	if typeName.Pkg() == nil || typeName.Pkg() == l.pkg.Types {
		// Same package: the layout pass resolves it, and reports an unknown
		// record if the type lacks the directive.
		return &ir.RecordRef{Name: typeName.Name()}, nil
	}

	sizeName := typeName.Name() + "VariantSize"
	c, ok := typeName.Pkg().Scope().Lookup(sizeName).(*types.Const)
	if !ok {
		return nil, l.errorf(fv.Pos(), field,
			"%s.%s not found; run fieldgen in %s first", typeName.Pkg().Name(), sizeName, typeName.Pkg().Path())
	}
	size, exact := constant.Int64Val(constant.ToInt(c.Val()))
	if !exact {
		return nil, l.errorf(fv.Pos(), field, "%s.%s is not an integer constant", typeName.Pkg().Name(), sizeName)
	}
	return &ir.RecordRef{
		Name:    typeName.Name(),
		Package: typeName.Pkg().Path(),
		Alias:   typeName.Pkg().Name(),
		Size:    int(size),
	}, nil
}

// qualifier renders types from other packages with their package name and
// records the import.
func (l *goLoader) qualifier(p *types.Package) string {
	if p == l.pkg.Types {
		return ""
	}
	if !slices.Contains(l.schema.Imports, p.Path()) {
		l.schema.Imports = append(l.schema.Imports, p.Path())
	}
	return p.Name()
}
