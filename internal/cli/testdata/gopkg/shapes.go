package gopkg

//fieldobs:record variance=2
type Size struct {
	W int
	H int
}

//fieldobs:record
type Box struct {
	Name string
	Size Size `fieldobs:"expand"`
}
