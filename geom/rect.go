package geom

import (
	"math"
)

// Number is the set of coordinate types a Rect can be expressed in
type Number interface {
	~int | ~float64
}

// Rect represents an axis aligned rectangle in (x, y, width, height) format
type Rect[T Number] struct {
	X T
	Y T
	W T
	H T
}

// FloatRect is a rectangle with sub-pixel coordinates used for search targets
type FloatRect = Rect[float64]

// IntRect is a rectangle on the pixel grid used for pixel sum queries
type IntRect = Rect[int]

// NewRect creates a new Rect with given coordinates
func NewRect[T Number](x, y, width, height T) Rect[T] {
	return Rect[T]{X: x, Y: y, W: width, H: height}
}

// XMin returns the left x coordinate of the rectangle
func (r Rect[T]) XMin() T {
	return r.X
}

// YMin returns the top y coordinate of the rectangle
func (r Rect[T]) YMin() T {
	return r.Y
}

// XMax returns the right x coordinate of the rectangle
func (r Rect[T]) XMax() T {
	return r.X + r.W
}

// YMax returns the bottom y coordinate of the rectangle
func (r Rect[T]) YMax() T {
	return r.Y + r.H
}

// Width returns the width of the rectangle
func (r Rect[T]) Width() T {
	return r.W
}

// Height returns the height of the rectangle
func (r Rect[T]) Height() T {
	return r.H
}

// Area returns width*height
func (r Rect[T]) Area() T {
	return r.W * r.H
}

// SetXMin moves the left edge to x keeping the width
func (r *Rect[T]) SetXMin(x T) {
	r.X = x
}

// SetYMin moves the top edge to y keeping the height
func (r *Rect[T]) SetYMin(y T) {
	r.Y = y
}

// Translate returns the rectangle shifted by (dx, dy)
func (r Rect[T]) Translate(dx, dy T) Rect[T] {
	r.X += dx
	r.Y += dy
	return r
}

// IsInside reports whether the rectangle lies entirely within other
func (r Rect[T]) IsInside(other Rect[T]) bool {
	return r.XMin() >= other.XMin() && r.YMin() >= other.YMin() &&
		r.XMax() <= other.XMax() && r.YMax() <= other.YMax()
}

// Overlap returns the intersection over union of the two rectangles using
// their exact continuous extents, 0 when they do not intersect
func (r Rect[T]) Overlap(other Rect[T]) float64 {

	x0 := math.Max(float64(r.XMin()), float64(other.XMin()))
	x1 := math.Min(float64(r.XMax()), float64(other.XMax()))
	y0 := math.Max(float64(r.YMin()), float64(other.YMin()))
	y1 := math.Min(float64(r.YMax()), float64(other.YMax()))

	if x0 >= x1 || y0 >= y1 {
		return 0
	}

	areaInt := (x1 - x0) * (y1 - y0)

	return areaInt / (float64(r.Area()) + float64(other.Area()) - areaInt)
}

// CalcIoU calculates the Intersection over Union with another rectangle
// treating the coordinates as inclusive pixel indices, as benchmark
// evaluation tools do
func (r Rect[T]) CalcIoU(other Rect[T]) float64 {

	boxArea := (float64(other.W) + 1) * (float64(other.H) + 1)
	iw := math.Min(float64(r.XMax()), float64(other.XMax())) -
		math.Max(float64(r.X), float64(other.X)) + 1
	iou := float64(0)

	if iw > 0 {
		ih := math.Min(float64(r.YMax()), float64(other.YMax())) -
			math.Max(float64(r.Y), float64(other.Y)) + 1

		if ih > 0 {
			ua := (float64(r.W)+1)*(float64(r.H)+1) + boxArea - iw*ih
			iou = iw * ih / ua
		}
	}

	return iou
}

// Centre returns the centre point of the rectangle
func (r Rect[T]) Centre() (float64, float64) {
	return float64(r.X) + float64(r.W)/2, float64(r.Y) + float64(r.H)/2
}

// Int converts the rectangle to pixel coordinates, truncating each field
// towards zero
func (r Rect[T]) Int() IntRect {
	return IntRect{X: int(r.X), Y: int(r.Y), W: int(r.W), H: int(r.H)}
}

// Float converts the rectangle to sub-pixel coordinates
func (r Rect[T]) Float() FloatRect {
	return FloatRect{X: float64(r.X), Y: float64(r.Y), W: float64(r.W), H: float64(r.H)}
}
