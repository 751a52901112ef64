package render

import "image/color"

var (
	// boxColors is a list of colors cycled through for tracker boxes
	boxColors = []color.RGBA{
		{R: 255, G: 56, B: 56, A: 255},  // #FF3838
		{R: 255, G: 112, B: 31, A: 255}, // #FF701F
		{R: 255, G: 178, B: 29, A: 255}, // #FFB21D
		{R: 72, G: 249, B: 10, A: 255},  // #48F90A
		{R: 0, G: 194, B: 255, A: 255},  // #00C2FF
		{R: 132, G: 56, B: 255, A: 255}, // #8438FF
		{R: 255, G: 55, B: 199, A: 255}, // #FF37C7
		{R: 61, G: 219, B: 134, A: 255}, // #3DDB86
	}

	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 50, A: 255}
	Pink   = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Green  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
)

// BoxColor returns the palette color for index i
func BoxColor(i int) color.RGBA {
	if i < 0 {
		i = -i
	}
	return boxColors[i%len(boxColors)]
}
