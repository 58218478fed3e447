package embedded

type Base struct{ ID int }

//fieldobs:record
type Doc struct {
	Base
	Title string
}
