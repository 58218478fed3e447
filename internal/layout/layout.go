// Package layout computes the flat slot partition of record schemas.
//
// For a record R with direct fields f0..fn-1, field fi occupies the slot
// range [offset(fi), offset(fi)+span(fi)), where span is 1 for a leaf and the
// nested record's size for a participating field, and offset(fi) is the sum
// of the spans before it. The ranges are contiguous, disjoint, and cover
// exactly [0, size(R)).
package layout

import (
	"fmt"
	"strings"
)

// Layout is the computed partition of one record.
type Layout struct {
	Record string
	Size   int
	Fields []Range

	// External is set for records declared in another package. Only their
	// size is known; Fields is empty.
	External bool
	Package  string
}

// Range is the slot range owned by one direct field.
type Range struct {
	Field  string
	Offset int
	Span   int
	Nested *Layout // nil for leaf fields
}

// End returns the exclusive end of the range.
func (r Range) End() int {
	return r.Offset + r.Span
}

// Leaf reports whether the range belongs to a leaf field.
func (r Range) Leaf() bool {
	return r.Nested == nil
}

// Field returns the range of the named direct field.
func (l *Layout) Field(name string) (Range, bool) {
	for _, r := range l.Fields {
		if r.Field == name {
			return r, true
		}
	}
	return Range{}, false
}

// Leaf is one flattened slot.
type Leaf struct {
	Path []string
	Slot int
}

// String returns the dotted path.
func (l Leaf) String() string {
	return strings.Join(l.Path, ".")
}

// Leaves flattens the layout into slot order (declaration order, depth
// first). Slots of external records are named #0, #1, ...
func (l *Layout) Leaves() []Leaf {
	leaves := make([]Leaf, 0, l.Size)
	l.appendLeaves(&leaves, nil, 0)
	return leaves
}

func (l *Layout) appendLeaves(dst *[]Leaf, prefix []string, base int) {
	if l.External {
		for i := range l.Size {
			*dst = append(*dst, Leaf{Path: extend(prefix, fmt.Sprintf("#%d", i)), Slot: base + i})
		}
		return
	}
	for _, r := range l.Fields {
		path := extend(prefix, r.Field)
		if r.Leaf() {
			*dst = append(*dst, Leaf{Path: path, Slot: base + r.Offset})
			continue
		}
		r.Nested.appendLeaves(dst, path, base+r.Offset)
	}
}

func extend(prefix []string, name string) []string {
	path := make([]string, len(prefix)+1)
	copy(path, prefix)
	path[len(prefix)] = name
	return path
}

// Slot resolves a field path to its absolute slot within l.
func (l *Layout) Slot(path ...string) (int, error) {
	if len(path) == 0 {
		return 0, fmt.Errorf("empty path")
	}
	cur, base := l, 0
	for i, name := range path {
		if cur.External {
			return 0, fmt.Errorf("%s: record %s is external, its fields are unknown",
				strings.Join(path[:i], "."), cur.Record)
		}
		r, ok := cur.Field(name)
		if !ok {
			return 0, fmt.Errorf("record %s has no field %q", cur.Record, name)
		}
		base += r.Offset
		if i == len(path)-1 {
			if !r.Leaf() {
				return 0, fmt.Errorf("%s is a nested record, not a leaf", strings.Join(path, "."))
			}
			return base, nil
		}
		if r.Leaf() {
			return 0, fmt.Errorf("%s is a leaf, cannot descend", strings.Join(path[:i+1], "."))
		}
		cur = r.Nested
	}
	panic("unreachable")
}

// Check verifies the partition invariant at every depth: ranges start at 0,
// are contiguous, and sum to Size.
func (l *Layout) Check() error {
	if l.External {
		if l.Size < 0 {
			return fmt.Errorf("record %s: negative size %d", l.Record, l.Size)
		}
		return nil
	}
	next := 0
	for _, r := range l.Fields {
		if r.Offset != next {
			return fmt.Errorf("record %s field %s: offset %d, expected %d", l.Record, r.Field, r.Offset, next)
		}
		want := 1
		if !r.Leaf() {
			if err := r.Nested.Check(); err != nil {
				return err
			}
			want = r.Nested.Size
		}
		if r.Span != want {
			return fmt.Errorf("record %s field %s: span %d, expected %d", l.Record, r.Field, r.Span, want)
		}
		next = r.End()
	}
	if next != l.Size {
		return fmt.Errorf("record %s: fields cover %d slots, size is %d", l.Record, next, l.Size)
	}
	return nil
}
