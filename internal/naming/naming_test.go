package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoName(t *testing.T) {
	tests := map[string]string{
		"field1":     "Field1",
		"Field1":     "Field1",
		"user_id":    "UserID",
		"userID":     "UserID",
		"http-url":   "HTTPURL",
		"created at": "CreatedAt",
		"x":          "X",
		"":           "",
	}
	for in, want := range tests {
		assert.Equal(t, want, GoName(in), "GoName(%q)", in)
	}
}

func TestUnexport(t *testing.T) {
	tests := map[string]string{
		"Foo":     "foo",
		"HTTPLog": "httpLog",
		"ID":      "id",
		"FOO1":    "foo1",
		"foo":     "foo",
		"XMLNode": "xmlNode",
	}
	for in, want := range tests {
		assert.Equal(t, want, Unexport(in), "Unexport(%q)", in)
	}
}

func TestIdent(t *testing.T) {
	assert.True(t, IsIdent("Foo"))
	assert.False(t, IsIdent("2fa"))
	assert.False(t, IsIdent("type"))
	assert.True(t, IsExported("Foo"))
	assert.False(t, IsExported("foo"))
}

func TestForRecord(t *testing.T) {
	r := ForRecord("Bar")
	assert.Equal(t, []string{
		"Bar", "BarFieldEvent", "BarSetters", "barSetters",
		"BindBarSetters", "BarFieldObserver", "NewBarFieldObserver", "BarVariantSize",
	}, r.All())
	assert.Equal(t, "BarFoo", r.Case("Foo"))
	assert.Equal(t, "barFooSlot", r.Slot("Foo"))
	assert.Equal(t, "httpLogSetters", ForRecord("HTTPLog").Impl)
}
