package tracker

import (
	"sync"

	"github.com/swdee/go-struck/geom"
)

// Point represents the x,y coordinates of the centre of a tracked box
type Point struct {
	X, Y int
}

// Trail keeps the most recent box centres used for drawing a trail
type Trail struct {
	// size is the maximum number of most recent points to keep in history
	size int
	// points holds the history, oldest first
	points []Point
	sync.Mutex
}

// NewTrail returns a new trail history instance.  Size specifies the
// maximum length of the trail to maintain
func NewTrail(size int) *Trail {
	return &Trail{
		size: size,
	}
}

// Reset clears all history
func (t *Trail) Reset() {
	t.Lock()
	defer t.Unlock()

	t.points = nil
}

// Add appends the centre of a box to the history
func (t *Trail) Add(bb geom.FloatRect) {
	t.Lock()
	defer t.Unlock()

	x, y := bb.Centre()

	t.points = append(t.points, Point{
		X: int(x),
		Y: int(y),
	})

	// check if history is exceeded and drop oldest point
	if len(t.points) > t.size {
		t.points = t.points[1:]
	}
}

// Points returns a copy of the point history, oldest first
func (t *Trail) Points() []Point {
	t.Lock()
	defer t.Unlock()

	return append([]Point(nil), t.points...)
}
