package features

import "fmt"

// Multi concatenates the vectors of an ordered list of extractors
type Multi struct {
	extractors []Extractor
	layout     Layout
}

// NewMulti returns a composite extractor over extractors
func NewMulti(extractors []Extractor) (*Multi, error) {

	if len(extractors) == 0 {
		return nil, fmt.Errorf("composite extractor needs at least one extractor")
	}

	return &Multi{
		extractors: extractors,
		layout:     NewLayout(extractors),
	}, nil
}

// Layout returns the segment layout of the composite vector
func (m *Multi) Layout() Layout {
	return m.layout
}

// Count returns the sum of the sub-extractor counts
func (m *Multi) Count() int {
	return m.layout.Dim()
}

// Type returns MultiType
func (m *Multi) Type() FeatureType {
	return MultiType
}

// Requirements returns the union of the sub-extractor requirements
func (m *Multi) Requirements() Requirements {
	var req Requirements
	for _, e := range m.extractors {
		req = req.Merge(e.Requirements())
	}
	return req
}

// Eval concatenates the sub-extractor vectors in order
func (m *Multi) Eval(s Sample) []float64 {

	out := make([]float64, 0, m.Count())

	for _, e := range m.extractors {
		out = append(out, e.Eval(s)...)
	}

	return out
}
