// Package naming derives Go identifiers for generated code.
package naming

import (
	"go/token"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// initialisms are kept fully upper-case, following Go naming conventions.
var initialisms = map[string]bool{
	"API": true, "ASCII": true, "CPU": true, "DNS": true, "HTML": true,
	"HTTP": true, "HTTPS": true, "ID": true, "IP": true, "JSON": true,
	"SQL": true, "TCP": true, "TTL": true, "UDP": true, "UI": true,
	"URI": true, "URL": true, "UTF8": true, "UUID": true, "XML": true,
}

// GoName converts a declared name to an exported Go identifier.
// Words are split on '_', '-', '.' and spaces; each word is title-cased
// without lowering the rest, so names that are already Pascal case pass
// through unchanged.
//
//	field1   -> Field1
//	user_id  -> UserID
//	userID   -> UserID
//	Field1   -> Field1
func GoName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})
	var b strings.Builder
	for _, w := range words {
		if initialisms[strings.ToUpper(w)] {
			b.WriteString(strings.ToUpper(w))
			continue
		}
		// A Caser is stateful and must not be shared across goroutines.
		b.WriteString(cases.Title(language.Und, cases.NoLower).String(w))
	}
	return b.String()
}

// Unexport lower-cases the leading word of an exported identifier, for
// package-private helpers derived from it.
//
//	Foo     -> foo
//	HTTPLog -> httpLog
//	ID      -> id
func Unexport(name string) string {
	runes := []rune(name)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	if n == 0 {
		return name
	}
	// In "HTTPLog" the last upper-case rune starts the next word.
	if n > 1 && n < len(runes) && unicode.IsLower(runes[n]) {
		n--
	}
	for i := range n {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// IsIdent reports whether name is a valid, non-keyword Go identifier.
func IsIdent(name string) bool {
	return token.IsIdentifier(name)
}

// IsExported reports whether name is an exported identifier.
func IsExported(name string) bool {
	return token.IsExported(name)
}

// Record holds the identifiers generated for one record.
type Record struct {
	Type        string // Bar
	Event       string // BarFieldEvent
	Setters     string // BarSetters
	Impl        string // barSetters
	Bind        string // BindBarSetters
	Observer    string // BarFieldObserver
	NewObserver string // NewBarFieldObserver
	Size        string // BarVariantSize
}

// ForRecord returns the generated identifiers of record name.
func ForRecord(name string) Record {
	return Record{
		Type:        name,
		Event:       name + "FieldEvent",
		Setters:     name + "Setters",
		Impl:        Unexport(name) + "Setters",
		Bind:        "Bind" + name + "Setters",
		Observer:    name + "FieldObserver",
		NewObserver: "New" + name + "FieldObserver",
		Size:        name + "VariantSize",
	}
}

// All returns the package-level identifiers in declaration order.
func (r Record) All() []string {
	return []string{r.Type, r.Event, r.Setters, r.Impl, r.Bind, r.Observer, r.NewObserver, r.Size}
}

// Case is the event case of field in record: Bar, Field3 -> BarField3.
func (r Record) Case(field string) string {
	return r.Type + field
}

// Slot is the unexported slot constant of field: Bar, Foo -> barFooSlot.
func (r Record) Slot(field string) string {
	return Unexport(r.Type) + field + "Slot"
}
