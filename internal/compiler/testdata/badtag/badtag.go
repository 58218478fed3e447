package badtag

//fieldobs:record
type R struct {
	A int `fieldobs:"expnad"`
}
