// internal/fieldpath/types.go
package fieldpath

// Segment represents a single component of a path, e.g. `name[index]`.
type Segment struct {
	Name    string
	Indices []int
}

// NewSegment creates a new segment without indices.
func NewSegment(name string) Segment {
	return Segment{Name: name}
}

// NewSegmentWithIndex creates a new segment that includes list indices.
func NewSegmentWithIndex(name string, indices ...int) Segment {
	return Segment{Name: name, Indices: indices}
}

// HasIndex returns true if the segment has at least one explicit index.
func (s Segment) HasIndex() bool {
	return len(s.Indices) > 0
}

// Path is the parsed form of a dotted payload path.
type Path struct {
	Segments []Segment
}
