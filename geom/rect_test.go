package geom

import (
	"math"
	"testing"
)

// almostEqual checks if two float64 values are approximately equal
func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestRectAccessors(t *testing.T) {
	r := NewRect(10.5, 20.0, 30.0, 40.0)

	if r.XMax() != 40.5 || r.YMax() != 60.0 {
		t.Errorf("expected max corner (40.5, 60), got (%v, %v)", r.XMax(), r.YMax())
	}

	if r.Area() != 1200 {
		t.Errorf("expected area 1200, got %v", r.Area())
	}

	r.SetXMin(0)
	r.SetYMin(1)

	if r.XMin() != 0 || r.YMin() != 1 || r.Width() != 30 || r.Height() != 40 {
		t.Errorf("corner setters changed size: %+v", r)
	}

	cx, cy := r.Centre()
	if cx != 15 || cy != 21 {
		t.Errorf("expected centre (15, 21), got (%v, %v)", cx, cy)
	}
}

func TestRectIntTruncates(t *testing.T) {
	r := FloatRect{X: 3.9, Y: 4.2, W: 10.7, H: 5.5}
	want := IntRect{X: 3, Y: 4, W: 10, H: 5}

	if got := r.Int(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	if got := want.Float(); got != (FloatRect{X: 3, Y: 4, W: 10, H: 5}) {
		t.Errorf("unexpected float conversion %+v", got)
	}
}

func TestIsInside(t *testing.T) {
	frame := IntRect{X: 0, Y: 0, W: 100, H: 100}

	tests := []struct {
		r    IntRect
		want bool
	}{
		{IntRect{0, 0, 100, 100}, true},
		{IntRect{10, 10, 20, 20}, true},
		{IntRect{-1, 10, 20, 20}, false},
		{IntRect{81, 10, 20, 20}, false},
		{IntRect{80, 80, 20, 20}, true},
		{IntRect{10, 81, 20, 20}, false},
	}

	for _, tc := range tests {
		if got := tc.r.IsInside(frame); got != tc.want {
			t.Errorf("IsInside(%+v) expected %v, got %v", tc.r, tc.want, got)
		}
	}
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		a, b FloatRect
		want float64
	}{
		{FloatRect{0, 0, 10, 10}, FloatRect{0, 0, 10, 10}, 1},
		{FloatRect{0, 0, 10, 10}, FloatRect{5, 0, 10, 10}, 50.0 / 150.0},
		{FloatRect{0, 0, 10, 10}, FloatRect{10, 0, 10, 10}, 0},
		{FloatRect{0, 0, 10, 10}, FloatRect{20, 20, 5, 5}, 0},
		{FloatRect{0, 0, 10, 10}, FloatRect{2.5, 2.5, 5, 5}, 0.25},
	}

	for _, tc := range tests {
		if got := tc.a.Overlap(tc.b); !almostEqual(got, tc.want, 1e-9) {
			t.Errorf("Overlap(%+v, %+v) expected %v, got %v", tc.a, tc.b, tc.want, got)
		}
		if got := tc.b.Overlap(tc.a); !almostEqual(got, tc.want, 1e-9) {
			t.Errorf("Overlap is not symmetric for %+v, %+v", tc.a, tc.b)
		}
	}
}

func TestCalcIoU(t *testing.T) {
	a := FloatRect{X: 0, Y: 0, W: 9, H: 9}

	if got := a.CalcIoU(a); !almostEqual(got, 1, 1e-9) {
		t.Errorf("expected IoU 1 for identical rects, got %v", got)
	}

	b := FloatRect{X: 20, Y: 20, W: 9, H: 9}

	if got := a.CalcIoU(b); got != 0 {
		t.Errorf("expected IoU 0 for disjoint rects, got %v", got)
	}
}

func TestTranslate(t *testing.T) {
	r := IntRect{X: 1, Y: 2, W: 3, H: 4}
	got := r.Translate(-1, 5)

	if got != (IntRect{X: 0, Y: 7, W: 3, H: 4}) {
		t.Errorf("unexpected translation %+v", got)
	}

	if r.X != 1 {
		t.Errorf("Translate mutated receiver")
	}
}
