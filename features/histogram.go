package features

import (
	"github.com/swdee/go-struck/geom"
	"github.com/swdee/go-struck/imagerep"
)

const (
	// histLevels is the number of spatial pyramid levels, level l splits
	// the region into l x l cells
	histLevels = 4
	// histCells is the total number of pyramid cells, 1+4+9+16
	histCells = 30
)

// Histogram computes a spatial pyramid of intensity histograms from the
// integral histogram
type Histogram struct{}

// NewHistogram returns a histogram extractor
func NewHistogram() *Histogram {
	return &Histogram{}
}

// Count returns the number of bins over all pyramid cells
func (h *Histogram) Count() int {
	return histCells * imagerep.NumBins
}

// Type returns HistogramType
func (h *Histogram) Type() FeatureType {
	return HistogramType
}

// Requirements reports that histogram features need the integral histogram
func (h *Histogram) Requirements() Requirements {
	return Requirements{IntegralHist: true}
}

// Eval concatenates the normalised histogram of every pyramid cell and
// divides by the number of cells so the vector sums to one
func (h *Histogram) Eval(s Sample) []float64 {

	out := make([]float64, h.Count())
	roi := s.ROI
	cell := 0

	for il := 0; il < histLevels; il++ {
		nc := il + 1
		w := roi.Width() / float64(nc)
		ht := roi.Height() / float64(nc)

		for iy := 0; iy < nc; iy++ {
			for ix := 0; ix < nc; ix++ {
				r := geom.NewRect(roi.XMin()+float64(ix)*w, roi.YMin()+float64(iy)*ht, w, ht)
				bins := out[cell*imagerep.NumBins : (cell+1)*imagerep.NumBins]
				s.Image.Hist(r.Int(), bins)
				cell++
			}
		}
	}

	for i := range out {
		out[i] /= float64(cell)
	}

	return out
}
