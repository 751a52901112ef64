package render

import (
	"image"
	"image/color"

	"github.com/swdee/go-struck/geom"
	"gocv.io/x/gocv"
)

// TrackerBox renders the tracked box with an optional text label above it
func TrackerBox(img *gocv.Mat, bb geom.FloatRect, text string, clr color.RGBA,
	font Font, lineThickness int) {

	r := bb.Int()
	rect := image.Rect(r.XMin(), r.YMin(), r.XMax(), r.YMax())

	gocv.Rectangle(img, rect, clr, lineThickness)

	if text == "" {
		return
	}

	label(img, text, rect.Min.X, rect.Max.X, rect.Min.Y, clr, font, lineThickness)
}
