package render

import (
	"image"
	"image/color"

	"github.com/swdee/go-struck/tracker"
	"gocv.io/x/gocv"
)

// TrailStyle defines the parameters used for rendering the trail style
type TrailStyle struct {
	LineColor     color.RGBA
	LineThickness int
	// CircleColor is the color of the circle on the most recent centre
	CircleColor  color.RGBA
	CircleRadius int
}

// DefaultTrailStyle returns default trail style settings
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		LineColor:     Yellow,
		LineThickness: 1,
		CircleColor:   Pink,
		CircleRadius:  3,
	}
}

// Trail draws the history of tracked box centres on the image
func Trail(img *gocv.Mat, trail *tracker.Trail, style TrailStyle) {

	points := trail.Points()

	if len(points) < 2 {
		return
	}

	for i := 1; i < len(points); i++ {
		// draw line segment of trail
		gocv.Line(img,
			image.Pt(points[i-1].X, points[i-1].Y),
			image.Pt(points[i].X, points[i].Y),
			style.LineColor, style.LineThickness,
		)
	}

	// draw center point circle on current box
	last := points[len(points)-1]
	gocv.Circle(img, image.Pt(last.X, last.Y), style.CircleRadius, style.CircleColor, -1)
}
