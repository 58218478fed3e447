// Package geo holds a record that records in other packages nest.
package geo

//go:generate go run github.com/roach88/fieldobs/cmd/fieldgen generate --source go --out fields_gen.go

// Point is a position on a grid.
//
//fieldobs:record variance=2
type Point struct {
	X int32
	Y int32
}
