/*
Package features turns a region of a frame representation into a fixed
length feature vector.  Extractors are safe for concurrent use so batches of
candidate regions can be evaluated in parallel.
*/
package features

import (
	"fmt"
	"strings"

	"github.com/swdee/go-struck/geom"
	"github.com/swdee/go-struck/imagerep"
	"golang.org/x/sync/errgroup"
)

// Sample binds a region of interest to the frame it is taken from
type Sample struct {
	Image *imagerep.ImageRep
	ROI   geom.FloatRect
}

// MultiSample binds a list of candidate regions to one frame
type MultiSample struct {
	Image *imagerep.ImageRep
	Rects []geom.FloatRect
}

// NewMultiSample is a constructor function for the MultiSample struct
func NewMultiSample(image *imagerep.ImageRep, rects []geom.FloatRect) MultiSample {
	return MultiSample{
		Image: image,
		Rects: rects,
	}
}

// Sample returns the i-th candidate as a Sample
func (m MultiSample) Sample(i int) Sample {
	return Sample{Image: m.Image, ROI: m.Rects[i]}
}

// Len returns the number of candidate regions
func (m MultiSample) Len() int {
	return len(m.Rects)
}

// Requirements describes the integral structures an extractor queries
type Requirements struct {
	Integral     bool
	IntegralHist bool
}

// Merge returns the union of both requirements
func (r Requirements) Merge(other Requirements) Requirements {
	return Requirements{
		Integral:     r.Integral || other.Integral,
		IntegralHist: r.IntegralHist || other.IntegralHist,
	}
}

// Options returns the frame representation options satisfying r
func (r Requirements) Options() imagerep.Options {
	return imagerep.Options{
		Integral:     r.Integral,
		IntegralHist: r.IntegralHist,
	}
}

// Extractor computes feature vectors of a fixed length
type Extractor interface {
	// Count returns the length of every vector Eval produces
	Count() int
	// Eval returns the feature vector of the sample
	Eval(s Sample) []float64
	// Requirements returns the integral structures Eval needs
	Requirements() Requirements
	// Type identifies the extractor variant
	Type() FeatureType
}

// EvalMulti evaluates every candidate of ms.  With workers greater than one
// candidates are evaluated concurrently, the result is identical to
// evaluating each candidate in turn.
func EvalMulti(e Extractor, ms MultiSample, workers int) [][]float64 {

	out := make([][]float64, ms.Len())

	if workers <= 1 || ms.Len() < 2 {
		for i := range out {
			out[i] = e.Eval(ms.Sample(i))
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for i := range out {
		g.Go(func() error {
			out[i] = e.Eval(ms.Sample(i))
			return nil
		})
	}

	// nothing returns an error, a panic in Eval propagates as usual
	_ = g.Wait()

	return out
}

// FeatureType defines the feature extractor variants
type FeatureType int

const (
	HaarType FeatureType = iota
	RawType
	HistogramType
	MultiType
)

// String returns the configuration name of the feature type
func (f FeatureType) String() string {
	switch f {
	case HaarType:
		return "haar"
	case RawType:
		return "raw"
	case HistogramType:
		return "histogram"
	case MultiType:
		return "multi"
	}
	return fmt.Sprintf("FeatureType(%d)", int(f))
}

// ParseFeatureType returns the feature type for a configuration name
func ParseFeatureType(name string) (FeatureType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "haar":
		return HaarType, nil
	case "raw":
		return RawType, nil
	case "histogram":
		return HistogramType, nil
	}
	return 0, fmt.Errorf("unknown feature type %q", name)
}

// New returns an extractor for a single feature type
func New(ft FeatureType) (Extractor, error) {
	switch ft {
	case HaarType:
		return NewHaar(), nil
	case RawType:
		return NewRaw(), nil
	case HistogramType:
		return NewHistogram(), nil
	}
	return nil, fmt.Errorf("cannot create extractor for feature type %v", ft)
}
