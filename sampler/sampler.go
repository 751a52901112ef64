// Package sampler enumerates candidate regions around a reference region.
// Both strategies are deterministic and always place the reference region
// at index 0, which the learner relies on to locate the true sample.
package sampler

import (
	"math"

	"github.com/swdee/go-struck/geom"
)

// RadialSamples returns centre followed by nRadial rings of nAngular
// samples each, ring r offset by r*radius/nRadial from centre.  Odd rings
// are rotated by half an angular step so rings do not share sample angles.
func RadialSamples(centre geom.FloatRect, radius float64, nRadial, nAngular int) []geom.FloatRect {

	samples := make([]geom.FloatRect, 0, 1+nRadial*nAngular)
	samples = append(samples, centre)

	rstep := radius / float64(nRadial)
	tstep := 2 * math.Pi / float64(nAngular)

	s := centre

	for ir := 1; ir <= nRadial; ir++ {
		phase := float64(ir%2) * tstep / 2

		for it := 0; it < nAngular; it++ {
			dx := float64(ir) * rstep * math.Cos(float64(it)*tstep+phase)
			dy := float64(ir) * rstep * math.Sin(float64(it)*tstep+phase)

			s.SetXMin(centre.XMin() + dx)
			s.SetYMin(centre.YMin() + dy)
			samples = append(samples, s)
		}
	}

	return samples
}

// PixelSamples returns centre snapped to the pixel grid followed by every
// integer offset within radius in row-major order.  With halfSample only
// offsets with both components even are kept.
func PixelSamples(centre geom.FloatRect, radius int, halfSample bool) []geom.FloatRect {

	snapped := centre.Int()
	samples := []geom.FloatRect{snapped.Float()}

	r2 := radius * radius
	s := snapped

	for iy := -radius; iy <= radius; iy++ {
		for ix := -radius; ix <= radius; ix++ {
			if ix*ix+iy*iy > r2 {
				continue
			}

			// already placed at the start
			if ix == 0 && iy == 0 {
				continue
			}

			if halfSample && (ix%2 != 0 || iy%2 != 0) {
				continue
			}

			s.SetXMin(snapped.XMin() + ix)
			s.SetYMin(snapped.YMin() + iy)
			samples = append(samples, s.Float())
		}
	}

	return samples
}

// Inside returns the samples lying entirely within bounds.  When keepFirst
// is set sample 0 is kept regardless, preserving the true sample slot.
func Inside(samples []geom.FloatRect, bounds geom.FloatRect, keepFirst bool) []geom.FloatRect {

	kept := make([]geom.FloatRect, 0, len(samples))

	for i, s := range samples {
		if (i == 0 && keepFirst) || s.IsInside(bounds) {
			kept = append(kept, s)
		}
	}

	return kept
}
