package features

import (
	"image"

	"golang.org/x/image/draw"
)

// RawPatchSize is the side length of the resampled raw pixel patch
const RawPatchSize = 16

// Raw resamples the region to a fixed size patch of intensities
type Raw struct{}

// NewRaw returns a raw pixel extractor
func NewRaw() *Raw {
	return &Raw{}
}

// Count returns RawPatchSize squared
func (r *Raw) Count() int {
	return RawPatchSize * RawPatchSize
}

// Type returns RawType
func (r *Raw) Type() FeatureType {
	return RawType
}

// Requirements reports that raw features need no integral structures
func (r *Raw) Requirements() Requirements {
	return Requirements{}
}

// Eval scales the region, truncated to the pixel grid, to a
// RawPatchSize x RawPatchSize patch with bilinear interpolation and returns
// the intensities row by row in the range [0, 1]
func (r *Raw) Eval(s Sample) []float64 {

	roi := s.ROI.Int()
	src := s.Image.Plane(0)
	srcRect := image.Rect(roi.XMin(), roi.YMin(), roi.XMax(), roi.YMax())

	if !srcRect.In(src.Bounds()) {
		panic("features: raw region outside frame")
	}

	patch := image.NewGray(image.Rect(0, 0, RawPatchSize, RawPatchSize))
	draw.BiLinear.Scale(patch, patch.Bounds(), src, srcRect, draw.Src, nil)

	out := make([]float64, r.Count())

	for y := 0; y < RawPatchSize; y++ {
		row := patch.Pix[y*patch.Stride : y*patch.Stride+RawPatchSize]
		for x, v := range row {
			out[y*RawPatchSize+x] = float64(v) / 255
		}
	}

	return out
}
