package pointer

//fieldobs:record
type Inner struct{ A int }

//fieldobs:record
type Outer struct {
	In *Inner `fieldobs:"expand"`
}
