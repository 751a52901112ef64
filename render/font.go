package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

type Alignment int

const (
	Left   Alignment = 1
	Center Alignment = 2
	Right  Alignment = 3
)

// Font defines the parameters for rendering text on an image using GoCV
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
	// Padding to place around text
	LeftPad   int
	RightPad  int
	TopPad    int
	BottomPad int
	// Alignment of the text label to the bounding box
	Alignment Alignment
}

// DefaultFont returns default font settings
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.4,
		Color:     White,
		Thickness: 1,
		LineType:  gocv.LineAA,
		LeftPad:   3,
		RightPad:  3,
		TopPad:    3,
		BottomPad: 4,
		Alignment: Left,
	}
}

// label draws text on a filled background above the box spanning left to
// right with its top edge at top
func label(img *gocv.Mat, text string, left, right, top int, clr color.RGBA,
	font Font, lineThickness int) {

	textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

	// Calculate the alignment of text label
	var centerX int

	switch font.Alignment {
	case Center:
		centerX = (left + right) / 2

	case Right:
		centerX = right - (textSize.X / 2) - font.RightPad + (lineThickness / 2)

	case Left:
		fallthrough
	default:
		centerX = left + (textSize.X / 2) + font.LeftPad - (lineThickness / 2)
	}

	// keep the label on screen when the box touches the top edge
	if top-textSize.Y-font.TopPad-font.BottomPad < 0 {
		top = textSize.Y + font.TopPad + font.BottomPad
	}

	// create box for placing text on
	bRect := image.Rect(centerX-textSize.X/2-font.LeftPad,
		top-textSize.Y-font.TopPad-font.BottomPad,
		centerX+textSize.X/2+font.RightPad, top)

	gocv.Rectangle(img, bRect, clr, -1)

	gocv.PutTextWithParams(img, text, image.Pt(centerX-textSize.X/2, top-font.BottomPad),
		font.Face, font.Scale, font.Color, font.Thickness,
		font.LineType, false)
}
