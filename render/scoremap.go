package render

import (
	"image"
	"math"

	"github.com/swdee/go-struck/tracker"
	"gocv.io/x/gocv"
)

// ScoreMap renders a tracker score map as a Jet colour heat map with each
// candidate offset drawn as a cellSize x cellSize square.  The caller must
// Close the returned Mat.
func ScoreMap(m *tracker.ScoreMap, cellSize int) (gocv.Mat, error) {

	size := m.Size()
	data := make([]byte, len(m.Values))

	for i, v := range m.Values {
		data[i] = uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}

	gray, err := gocv.NewMatFromBytes(size, size, gocv.MatTypeCV8UC1, data)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer gray.Close()

	heat := gocv.NewMat()
	defer heat.Close()

	gocv.ApplyColorMap(gray, &heat, gocv.ColormapJet)

	out := gocv.NewMat()
	gocv.Resize(heat, &out, image.Pt(size*cellSize, size*cellSize), 0, 0,
		gocv.InterpolationNearestNeighbor)

	return out, nil
}
