package features

import (
	"github.com/swdee/go-struck/geom"
)

// HaarTemplate is a rectangle difference feature.  Box and Rects are
// expressed relative to a unit square that is stretched over the sampled
// region of interest.
type HaarTemplate struct {
	// Box is the extent of the template within the unit square
	Box geom.FloatRect
	// Rects are the weighted sub-rectangles summed by the template
	Rects []geom.FloatRect
	// Weights holds one weight per sub-rectangle
	Weights []float64
	// Factor normalises the response to roughly [-1, 1]
	Factor float64
}

// HaarKind selects one of the systematic template shapes
type HaarKind int

const (
	// HaarVertical2 compares top and bottom halves
	HaarVertical2 HaarKind = iota
	// HaarHorizontal2 compares left and right halves
	HaarHorizontal2
	// HaarHorizontal3 compares the centre column with the outer columns
	HaarHorizontal3
	// HaarVertical3 compares the centre row with the outer rows
	HaarVertical3
	// HaarChecker compares diagonal quadrants
	HaarChecker
	// HaarCentreSurround compares the centre with the whole box
	HaarCentreSurround
)

// numHaarKinds is the number of systematic template shapes
const numHaarKinds = 6

// NewHaarTemplate builds the template of the given kind covering bb
func NewHaarTemplate(bb geom.FloatRect, kind HaarKind) HaarTemplate {

	x, y, w, h := bb.X, bb.Y, bb.W, bb.H
	t := HaarTemplate{Box: bb}

	switch kind {
	case HaarVertical2:
		t.Rects = []geom.FloatRect{
			geom.NewRect(x, y, w, h/2),
			geom.NewRect(x, y+h/2, w, h/2),
		}
		t.Weights = []float64{1, -1}
		t.Factor = 255 * 1.0 / 2

	case HaarHorizontal2:
		t.Rects = []geom.FloatRect{
			geom.NewRect(x, y, w/2, h),
			geom.NewRect(x+w/2, y, w/2, h),
		}
		t.Weights = []float64{1, -1}
		t.Factor = 255 * 1.0 / 2

	case HaarHorizontal3:
		t.Rects = []geom.FloatRect{
			geom.NewRect(x, y, w/3, h),
			geom.NewRect(x+w/3, y, w/3, h),
			geom.NewRect(x+2*w/3, y, w/3, h),
		}
		t.Weights = []float64{1, -2, 1}
		t.Factor = 255 * 2.0 / 3

	case HaarVertical3:
		t.Rects = []geom.FloatRect{
			geom.NewRect(x, y, w, h/3),
			geom.NewRect(x, y+h/3, w, h/3),
			geom.NewRect(x, y+2*h/3, w, h/3),
		}
		t.Weights = []float64{1, -2, 1}
		t.Factor = 255 * 2.0 / 3

	case HaarChecker:
		t.Rects = []geom.FloatRect{
			geom.NewRect(x, y, w/2, h/2),
			geom.NewRect(x+w/2, y, w/2, h/2),
			geom.NewRect(x, y+h/2, w/2, h/2),
			geom.NewRect(x+w/2, y+h/2, w/2, h/2),
		}
		t.Weights = []float64{1, -1, -1, 1}
		t.Factor = 255 * 1.0 / 4

	case HaarCentreSurround:
		t.Rects = []geom.FloatRect{
			geom.NewRect(x, y, w, h),
			geom.NewRect(x+w/4, y+h/4, w/2, h/2),
		}
		t.Weights = []float64{1, -4}
		t.Factor = 255 * 3.0 / 4
	}

	return t
}

// Eval returns the normalised template response over the region roi
func (t HaarTemplate) Eval(s Sample) float64 {

	roi := s.ROI
	value := 0.0

	for i, r := range t.Rects {
		sampleRect := geom.NewRect(
			int(roi.XMin()+r.XMin()*roi.Width()+0.5),
			int(roi.YMin()+r.YMin()*roi.Height()+0.5),
			int(r.Width()*roi.Width()),
			int(r.Height()*roi.Height()),
		)
		value += t.Weights[i] * float64(s.Image.Sum(sampleRect, 0))
	}

	return value / (t.Factor * roi.Area() * t.Box.Area())
}

// Haar evaluates a bank of rectangle difference templates using the
// integral image
type Haar struct {
	templates []HaarTemplate
}

// NewHaar returns the systematic bank: a 4x4 grid of template centres, two
// template scales and every HaarKind, 192 features in total
func NewHaar() *Haar {

	centres := []float64{0.2, 0.4, 0.6, 0.8}
	scales := []float64{0.2, 0.4}

	templates := make([]HaarTemplate, 0, len(centres)*len(centres)*len(scales)*numHaarKinds)

	for _, cy := range centres {
		for _, cx := range centres {
			for _, s := range scales {
				bb := geom.NewRect(cx-s/2, cy-s/2, s, s)

				for k := HaarKind(0); k < numHaarKinds; k++ {
					templates = append(templates, NewHaarTemplate(bb, k))
				}
			}
		}
	}

	return NewHaarWithTemplates(templates)
}

// NewHaarWithTemplates returns a Haar extractor over a custom template bank
func NewHaarWithTemplates(templates []HaarTemplate) *Haar {
	return &Haar{templates: templates}
}

// Templates returns the template bank
func (h *Haar) Templates() []HaarTemplate {
	return h.templates
}

// Count returns the number of templates
func (h *Haar) Count() int {
	return len(h.templates)
}

// Type returns HaarType
func (h *Haar) Type() FeatureType {
	return HaarType
}

// Requirements reports that Haar features need the integral image
func (h *Haar) Requirements() Requirements {
	return Requirements{Integral: true}
}

// Eval returns the response of every template
func (h *Haar) Eval(s Sample) []float64 {

	out := make([]float64, len(h.templates))

	for i, t := range h.templates {
		out[i] = t.Eval(s)
	}

	return out
}
