package ir

// Schema is a compiled set of record declarations targeting one Go package.
type Schema struct {
	Package string   `json:"package"`
	Imports []string `json:"imports,omitempty"` // import paths leaf types may need

	// DeclareTypes is set when the record structs do not exist yet and the
	// generator must emit them (CUE and YAML sources). Go sources already
	// declare their structs.
	DeclareTypes bool `json:"declare_types"`

	Records []RecordShape `json:"records"`
}

// Record returns the record named name, or nil.
func (s *Schema) Record(name string) *RecordShape {
	for i := range s.Records {
		if s.Records[i].Name == name {
			return &s.Records[i]
		}
	}
	return nil
}

// RecordShape is the declared shape of one record type.
type RecordShape struct {
	Name string `json:"name"`
	Doc  string `json:"doc,omitempty"`

	// Variance is the declared variant size, if any. When set it must equal
	// the computed flattened leaf count.
	Variance *int `json:"variance,omitempty"`

	Fields []FieldShape `json:"fields"`
}

// FieldShape is one direct field of a record, in declaration order.
type FieldShape struct {
	Name string `json:"name"`          // Go field name
	Type string `json:"type"`          // Go type expression as written in generated code
	Tag  string `json:"tag,omitempty"` // struct tag to emit with declared types

	// Nested is set for participating fields: the field's type is itself a
	// record tracked by this scheme.
	Nested *RecordRef `json:"nested,omitempty"`
}

// Participating reports whether the field is a nested record.
func (f FieldShape) Participating() bool {
	return f.Nested != nil
}

// RecordRef names the record type of a participating field.
type RecordRef struct {
	Name string `json:"name"`

	// Package is the import path of a record declared outside the schema.
	// Empty for records declared in the same schema.
	Package string `json:"package,omitempty"`

	// Alias is the package name used to qualify identifiers of an external record.
	Alias string `json:"alias,omitempty"`

	// Size is the known variant size of an external record. Records of the
	// same schema get their size from the layout computation.
	Size int `json:"size,omitempty"`
}

// External reports whether the record is declared outside the schema.
func (r RecordRef) External() bool {
	return r.Package != ""
}

// Qualified returns ident qualified for use from the schema's package.
func (r RecordRef) Qualified(ident string) string {
	if r.Alias == "" {
		return ident
	}
	return r.Alias + "." + ident
}

// IntPtr returns a pointer to n, for building declared variances.
func IntPtr(n int) *int {
	return &n
}
