package notstruct

//fieldobs:record variance=1
type Count int
