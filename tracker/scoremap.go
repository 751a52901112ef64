package tracker

import "fmt"

// ScoreMap holds the normalised candidate scores of one Track call laid
// out by offset from the previous box
type ScoreMap struct {
	// Radius is the search radius the map covers
	Radius int
	// Values holds (2*Radius+1)^2 scores row by row, offset (-Radius,
	// -Radius) first.  Offsets without a candidate are 0.
	Values []float64
}

// newScoreMap returns an empty map covering radius
func newScoreMap(radius int) *ScoreMap {
	size := 2*radius + 1
	return &ScoreMap{
		Radius: radius,
		Values: make([]float64, size*size),
	}
}

// Size returns the side length of the map
func (m *ScoreMap) Size() int {
	return 2*m.Radius + 1
}

// index returns the position of offset (dx, dy) in Values
func (m *ScoreMap) index(dx, dy int) int {

	if dx < -m.Radius || dx > m.Radius || dy < -m.Radius || dy > m.Radius {
		panic(fmt.Sprintf("tracker: score map offset (%d, %d) outside radius %d", dx, dy, m.Radius))
	}

	return (dy+m.Radius)*m.Size() + dx + m.Radius
}

// At returns the normalised score of the candidate at offset (dx, dy)
func (m *ScoreMap) At(dx, dy int) float64 {
	return m.Values[m.index(dx, dy)]
}

// set stores a score
func (m *ScoreMap) set(dx, dy int, v float64) {
	m.Values[m.index(dx, dy)] = v
}
