package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainRecord = "fieldobs/record/v1"
	DomainSchema = "fieldobs/schema/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// recordObject is the hashed form of a record shape. Docs and tags are
// excluded: they do not change the flattened layout or the generated API.
func recordObject(r *RecordShape) IRObject {
	fields := make(IRArray, len(r.Fields))
	for i, f := range r.Fields {
		obj := IRObject{
			"name": IRString(f.Name),
			"type": IRString(f.Type),
		}
		if f.Nested != nil {
			obj["nested"] = IRObject{
				"name":    IRString(f.Nested.Name),
				"package": IRString(f.Nested.Package),
				"size":    IRInt(f.Nested.Size),
			}
		}
		fields[i] = obj
	}
	obj := IRObject{
		"name":   IRString(r.Name),
		"fields": fields,
	}
	if r.Variance != nil {
		obj["variance"] = IRInt(*r.Variance)
	}
	return obj
}

// RecordHash returns the content hash of one record shape.
func RecordHash(r *RecordShape) (string, error) {
	canonical, err := MarshalCanonical(recordObject(r))
	if err != nil {
		return "", fmt.Errorf("RecordHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRecord, canonical), nil
}

// SchemaHash returns the content hash of a schema. Generated files carry it
// so stale output can be detected without regenerating.
func SchemaHash(s *Schema) (string, error) {
	records := make(IRArray, len(s.Records))
	for i := range s.Records {
		records[i] = recordObject(&s.Records[i])
	}
	imports := make(IRArray, len(s.Imports))
	for i, imp := range s.Imports {
		imports[i] = IRString(imp)
	}
	obj := IRObject{
		"package":       IRString(s.Package),
		"imports":       imports,
		"declare_types": IRBool(s.DeclareTypes),
		"records":       records,
		"generator":     IRString(GeneratorVersion),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("SchemaHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSchema, canonical), nil
}

// MustSchemaHash is like SchemaHash but panics on error.
// Use only in tests or when the schema is known to be valid.
func MustSchemaHash(s *Schema) string {
	h, err := SchemaHash(s)
	if err != nil {
		panic(err)
	}
	return h
}
