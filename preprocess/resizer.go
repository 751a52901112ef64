package preprocess

import (
	"image"

	"github.com/swdee/go-struck/geom"
	"gocv.io/x/gocv"
)

// Resizer scales source frames to the working frame size the tracker runs
// at and converts boxes between the two coordinate systems.  Width and
// height are scaled independently.
type Resizer struct {
	// srcWidth is the width of the source image
	srcWidth int
	// srcHeight is the height of the source image
	srcHeight int
	// destWidth is the width to scale to
	destWidth int
	// destHeight is the height to scale to
	destHeight int
	// scaling factors from source to working coordinates
	scaleW float64
	scaleH float64
}

// NewResizer returns a resizer used for scaling frames of srcWidth x
// srcHeight to destWidth x destHeight
func NewResizer(srcWidth, srcHeight, destWidth, destHeight int) *Resizer {
	return &Resizer{
		srcWidth:   srcWidth,
		srcHeight:  srcHeight,
		destWidth:  destWidth,
		destHeight: destHeight,
		scaleW:     float64(destWidth) / float64(srcWidth),
		scaleH:     float64(destHeight) / float64(srcHeight),
	}
}

// Resize scales src to the working frame size
func (r *Resizer) Resize(src gocv.Mat, dest *gocv.Mat) {
	gocv.Resize(src, dest, image.Pt(r.destWidth, r.destHeight),
		0, 0, gocv.InterpolationLinear)
}

// ToWorking converts a box in source coordinates to working coordinates
func (r *Resizer) ToWorking(bb geom.FloatRect) geom.FloatRect {
	return geom.NewRect(bb.X*r.scaleW, bb.Y*r.scaleH, bb.W*r.scaleW, bb.H*r.scaleH)
}

// ToSource converts a box in working coordinates to source coordinates
func (r *Resizer) ToSource(bb geom.FloatRect) geom.FloatRect {
	return geom.NewRect(bb.X/r.scaleW, bb.Y/r.scaleH, bb.W/r.scaleW, bb.H/r.scaleH)
}

// ScaleW returns the horizontal scale factor
func (r *Resizer) ScaleW() float64 {
	return r.scaleW
}

// ScaleH returns the vertical scale factor
func (r *Resizer) ScaleH() float64 {
	return r.scaleH
}

// SrcWidth returns the width of the source image
func (r *Resizer) SrcWidth() int {
	return r.srcWidth
}

// SrcHeight returns the height of the source image
func (r *Resizer) SrcHeight() int {
	return r.srcHeight
}

// DestWidth returns the working frame width
func (r *Resizer) DestWidth() int {
	return r.destWidth
}

// DestHeight returns the working frame height
func (r *Resizer) DestHeight() int {
	return r.destHeight
}
