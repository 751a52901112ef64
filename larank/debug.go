package larank

import (
	"fmt"

	"github.com/swdee/go-struck/geom"
)

// SupportVectorInfo describes one support vector of a Snapshot
type SupportVectorInfo struct {
	// Pattern is the arena slot of the owning support pattern
	Pattern int
	// Candidate is the candidate index within the pattern
	Candidate int
	// Positive is true for the true candidate of the pattern
	Positive bool
	// Beta is the dual weight
	Beta float64
	// Gradient is the dual gradient
	Gradient float64
	// Rect is the candidate rect relative to the true rect
	Rect geom.FloatRect
}

// Snapshot is a read only view of the learner state
type Snapshot struct {
	// Patterns is the number of support patterns
	Patterns int
	// Positive is the number of support vectors with positive weight
	Positive int
	// Negative is the number of support vectors with negative weight
	Negative int
	// SupportVectors lists every support vector
	SupportVectors []SupportVectorInfo
	// Dual is the value of the dual objective
	Dual float64
}

// Debug returns a snapshot of the learner state
func (l *LaRank) Debug() Snapshot {

	s := Snapshot{
		Patterns:       len(l.active),
		SupportVectors: make([]SupportVectorInfo, len(l.svs)),
		Dual:           l.dual(),
	}

	for i, sv := range l.svs {
		sp := &l.patterns[sv.pattern]

		if sv.b > 0 {
			s.Positive++
		} else {
			s.Negative++
		}

		s.SupportVectors[i] = SupportVectorInfo{
			Pattern:   sv.pattern,
			Candidate: sv.y,
			Positive:  sv.y == sp.y,
			Beta:      sv.b,
			Gradient:  sv.g,
			Rect:      sp.yv[sv.y],
		}
	}

	return s
}

// dual returns -sum(beta*loss) - 1/2 sum(beta_i*beta_j*K_ij)
func (l *LaRank) dual() float64 {

	d := 0.0

	for i, sv := range l.svs {
		d -= sv.b * l.loss(&l.patterns[sv.pattern], sv.y)

		for j := range l.svs {
			d -= 0.5 * sv.b * l.svs[j].b * l.k.At(i, j)
		}
	}

	return d
}

// String returns a short summary of the snapshot
func (s Snapshot) String() string {

	return fmt.Sprintf("%d/%d support patterns/vectors (%d+, %d-), dual %.4f",
		s.Patterns, len(s.SupportVectors), s.Positive, s.Negative, s.Dual)
}
