package features

// Segment is the slice of a composite feature vector produced by one
// sub-extractor
type Segment struct {
	Type   FeatureType
	Offset int
	Count  int
}

// Layout describes how a composite feature vector is partitioned.  The same
// Layout is handed to the composite kernel so slice boundaries always agree
// with the extractor that produced the vectors.
type Layout struct {
	segments []Segment
	dim      int
}

// NewLayout builds a layout from an ordered list of extractors
func NewLayout(extractors []Extractor) Layout {

	l := Layout{segments: make([]Segment, len(extractors))}

	for i, e := range extractors {
		l.segments[i] = Segment{Type: e.Type(), Offset: l.dim, Count: e.Count()}
		l.dim += e.Count()
	}

	return l
}

// Segments returns a copy of the layout segments in order
func (l Layout) Segments() []Segment {
	out := make([]Segment, len(l.segments))
	copy(out, l.segments)
	return out
}

// Len returns the number of segments
func (l Layout) Len() int {
	return len(l.segments)
}

// Dim returns the total vector length
func (l Layout) Dim() int {
	return l.dim
}

// Slice returns the part of x belonging to segment i
func (l Layout) Slice(x []float64, i int) []float64 {
	s := l.segments[i]
	return x[s.Offset : s.Offset+s.Count]
}
