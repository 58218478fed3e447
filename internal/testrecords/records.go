// Package testrecords holds the example records the tests are written
// against. Their field-tracking API lives in fields_gen.go.
package testrecords

import "github.com/roach88/fieldobs/internal/testrecords/geo"

//go:generate go run github.com/roach88/fieldobs/cmd/fieldgen generate --source go --out fields_gen.go

//fieldobs:record variance=2
type Foo struct {
	Field1 uint16
	Field2 uint32
}

// Bar nests a Foo between two leaves, so it flattens to 4 slots even though
// it has 3 direct fields.
//
//fieldobs:record variance=4
type Bar struct {
	Field3 uint64
	Foo    Foo `fieldobs:"expand"`
	Field4 bool
}

//fieldobs:record variance=5
type Baz struct {
	Field5 uint32
	Bar    Bar `fieldobs:"expand"`
}

//fieldobs:record variance=2
type Child struct {
	First  int
	Second int
}

//fieldobs:record variance=3
type Parent struct {
	Leaf  int
	Child Child `fieldobs:"expand"`
}

// Marker nests a record from another package. Note is not tracked.
//
//fieldobs:record
type Marker struct {
	Label string
	At    geo.Point `fieldobs:"expand"`
	Note  string    `fieldobs:"-"`
}

//fieldobs:record
type Empty struct{}
