package layout

import (
	"fmt"
	"io"
	"strings"
)

// Format writes an indented range tree of l. Offsets are absolute slot
// positions within l.
//
//	Bar size=4
//	  [0,1) Field3
//	  [1,3) Foo: Foo size=2
//	    [1,2) Field1
//	    [2,3) Field2
//	  [3,4) Field4
func Format(w io.Writer, l *Layout) error {
	if _, err := fmt.Fprintf(w, "%s size=%d%s\n", l.Record, l.Size, externalSuffix(l)); err != nil {
		return err
	}
	return formatFields(w, l, 0, 1)
}

func formatFields(w io.Writer, l *Layout, base, depth int) error {
	indent := strings.Repeat("  ", depth)
	for _, r := range l.Fields {
		start, end := base+r.Offset, base+r.End()
		if r.Leaf() {
			if _, err := fmt.Fprintf(w, "%s[%d,%d) %s\n", indent, start, end, r.Field); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s[%d,%d) %s: %s size=%d%s\n",
			indent, start, end, r.Field, r.Nested.Record, r.Nested.Size, externalSuffix(r.Nested)); err != nil {
			return err
		}
		if err := formatFields(w, r.Nested, start, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func externalSuffix(l *Layout) string {
	if !l.External {
		return ""
	}
	return " external=" + l.Package
}

// String returns the Format output.
func (l *Layout) String() string {
	var b strings.Builder
	_ = Format(&b, l)
	return b.String()
}
