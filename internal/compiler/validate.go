package compiler

import (
	"errors"
	"fmt"
	"go/parser"
	"slices"
	"strings"

	"github.com/roach88/fieldobs/internal/ir"
	"github.com/roach88/fieldobs/internal/layout"
	"github.com/roach88/fieldobs/internal/naming"
)

// Validation error codes (E200-E299)
const (
	ErrUnsupported       = "E200" // unsupported input type
	ErrInvalidPackage    = "E201" // package name missing or not an identifier
	ErrInvalidRecordName = "E202" // record name missing or not an exported identifier
	ErrDuplicateRecord   = "E203" // record declared twice
	ErrVarianceMismatch  = "E204" // declared variance differs from the flattened size
	ErrNegativeVariance  = "E205" // declared variance below zero
	ErrInvalidFieldName  = "E206" // field name missing or not an exported identifier
	ErrDuplicateField    = "E207" // field declared twice in one record
	ErrInvalidFieldType  = "E208" // leaf type missing or not a Go type expression
	ErrUnknownRecord     = "E209" // participating field names an undeclared record
	ErrRecordCycle       = "E210" // records contain themselves
	ErrNameCollision     = "E211" // generated identifiers collide
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled schema before any code is generated.
// Returns all errors found (does not fail-fast). The variance check only
// runs once the schema is otherwise structurally sound, since layouts of
// unknown or cyclic records cannot be computed.
func Validate(v any) []ValidationError {
	switch s := v.(type) {
	case *ir.Schema:
		return validateSchema(s)
	case ir.Schema:
		return validateSchema(&s)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported input type: %T", v),
			Code:    ErrUnsupported,
		}}
	}
}

func validateSchema(s *ir.Schema) []ValidationError {
	var errs []ValidationError

	// E201: package
	if !naming.IsIdent(s.Package) {
		errs = append(errs, ValidationError{
			Field:   "package",
			Message: fmt.Sprintf("package %q is not a valid Go identifier", s.Package),
			Code:    ErrInvalidPackage,
		})
	}

	records := make(map[string]bool, len(s.Records))
	for i, rec := range s.Records {
		path := fmt.Sprintf("records[%d]", i)

		// E202: record name
		if !naming.IsIdent(rec.Name) || !naming.IsExported(rec.Name) {
			errs = append(errs, ValidationError{
				Field:   path + ".name",
				Message: fmt.Sprintf("record name %q must be an exported Go identifier", rec.Name),
				Code:    ErrInvalidRecordName,
			})
		}

		// E203: duplicate record
		if records[rec.Name] {
			errs = append(errs, ValidationError{
				Field:   path + ".name",
				Message: fmt.Sprintf("duplicate record name: %q", rec.Name),
				Code:    ErrDuplicateRecord,
			})
		}
		records[rec.Name] = true

		// E205: negative variance
		if rec.Variance != nil && *rec.Variance < 0 {
			errs = append(errs, ValidationError{
				Field:   path + ".variance",
				Message: fmt.Sprintf("record %q declares negative variance %d", rec.Name, *rec.Variance),
				Code:    ErrNegativeVariance,
			})
		}

		errs = append(errs, validateFields(path, &rec)...)
	}

	// E209: unknown nested record. Checked after all names are known so
	// forward references are fine.
	for i, rec := range s.Records {
		for j, f := range rec.Fields {
			if f.Nested == nil || f.Nested.External() || records[f.Nested.Name] {
				continue
			}
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("records[%d].fields[%d].record", i, j),
				Message: fmt.Sprintf("record %s field %s: unknown record %q", rec.Name, f.Name, f.Nested.Name),
				Code:    ErrUnknownRecord,
			})
		}
	}

	// E210: cycles
	for _, c := range AnalyzeCycles(s) {
		errs = append(errs, ValidationError{
			Field:   "records." + c.Path[0],
			Message: c.Message,
			Code:    ErrRecordCycle,
		})
	}

	errs = append(errs, validateCollisions(s)...)

	if len(errs) > 0 {
		return errs
	}

	// E204: variance mismatch
	layouts, err := layout.Compute(s)
	if err != nil {
		return append(errs, ValidationError{Field: "records", Message: err.Error(), Code: ErrUnknownRecord})
	}
	for _, verr := range layout.VerifySchema(s, layouts) {
		field := "records"
		var m *layout.MismatchError
		if errors.As(verr, &m) {
			field = "records." + m.Record + ".variance"
		}
		errs = append(errs, ValidationError{Field: field, Message: verr.Error(), Code: ErrVarianceMismatch})
	}
	return errs
}

func validateFields(path string, rec *ir.RecordShape) []ValidationError {
	var errs []ValidationError
	fields := make(map[string]bool, len(rec.Fields))
	for j, f := range rec.Fields {
		fpath := fmt.Sprintf("%s.fields[%d]", path, j)

		// E206: field name
		if !naming.IsIdent(f.Name) || !naming.IsExported(f.Name) {
			errs = append(errs, ValidationError{
				Field:   fpath + ".name",
				Message: fmt.Sprintf("record %s: field name %q must be an exported Go identifier", rec.Name, f.Name),
				Code:    ErrInvalidFieldName,
			})
		}

		// E207: duplicate field
		if fields[f.Name] {
			errs = append(errs, ValidationError{
				Field:   fpath + ".name",
				Message: fmt.Sprintf("record %s: duplicate field name: %q", rec.Name, f.Name),
				Code:    ErrDuplicateField,
			})
		}
		fields[f.Name] = true

		// E208: leaf type
		if f.Nested == nil {
			if strings.TrimSpace(f.Type) == "" {
				errs = append(errs, ValidationError{
					Field:   fpath + ".type",
					Message: fmt.Sprintf("record %s field %s: type is required", rec.Name, f.Name),
					Code:    ErrInvalidFieldType,
				})
			} else if _, err := parser.ParseExpr(f.Type); err != nil {
				errs = append(errs, ValidationError{
					Field:   fpath + ".type",
					Message: fmt.Sprintf("record %s field %s: %q is not a Go type: %v", rec.Name, f.Name, f.Type, err),
					Code:    ErrInvalidFieldType,
				})
			}
		}
	}
	return errs
}

// reservedFields are the methods generated on every record type.
var reservedFields = []string{"Apply"}

// validateCollisions checks that the identifiers generated for every record
// and field are unique within the package.
func validateCollisions(s *ir.Schema) []ValidationError {
	var errs []ValidationError
	owner := make(map[string]string)
	claim := func(ident, by string) {
		if prev, taken := owner[ident]; taken && prev != by {
			errs = append(errs, ValidationError{
				Field:   "records." + by,
				Message: fmt.Sprintf("generated identifier %s for %s collides with %s", ident, by, prev),
				Code:    ErrNameCollision,
			})
			return
		}
		owner[ident] = by
	}

	seen := make(map[string]bool, len(s.Records))
	for _, rec := range s.Records {
		if seen[rec.Name] {
			continue // E203
		}
		seen[rec.Name] = true
		ids := naming.ForRecord(rec.Name)
		for _, ident := range ids.All() {
			claim(ident, rec.Name)
		}
		for _, f := range rec.Fields {
			by := rec.Name + "." + f.Name
			if slices.Contains(reservedFields, f.Name) {
				errs = append(errs, ValidationError{
					Field:   "records." + by,
					Message: fmt.Sprintf("field %s collides with the generated method %s.%s", by, rec.Name, f.Name),
					Code:    ErrNameCollision,
				})
			}
			claim(ids.Case(f.Name), by)
			claim(ids.Slot(f.Name), by)
		}
	}
	return errs
}
