/*
Package tracker follows a single object through a frame sequence by
searching around the previous box for the candidate the structured SVM
scores highest, then training the SVM on the new box.
*/
package tracker

import (
	"fmt"
	"image"
	"log"
	"math"

	"github.com/swdee/go-struck/features"
	"github.com/swdee/go-struck/geom"
	"github.com/swdee/go-struck/imagerep"
	"github.com/swdee/go-struck/kernel"
	"github.com/swdee/go-struck/larank"
	"github.com/swdee/go-struck/sampler"
)

const (
	// radialRings is the number of rings of training samples
	radialRings = 5
	// radialAngles is the number of training samples per ring
	radialAngles = 16
)

// Tracker is a single object tracker.  It is not safe for concurrent use.
type Tracker struct {
	cfg       Config
	extractor features.Extractor
	kernel    kernel.Kernel
	learner   *larank.LaRank
	// bb is the current box in frame coordinates
	bb          geom.FloatRect
	initialised bool
	// scoreMap is the score map of the last Track call
	scoreMap *ScoreMap
	// bestScore is the raw score of the last chosen candidate
	bestScore float64
}

// New returns a tracker for the configuration
func New(cfg Config) (*Tracker, error) {

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tracker config: %w", err)
	}

	f, k, err := cfg.build()
	if err != nil {
		return nil, err
	}

	t := &Tracker{
		cfg:       cfg,
		extractor: f,
		kernel:    k,
	}

	t.Reset()

	return t, nil
}

// Reset discards the learned model and box, the tracker then behaves as a
// newly created one
func (t *Tracker) Reset() {
	t.initialised = false
	t.bb = geom.FloatRect{}
	t.scoreMap = nil
	t.bestScore = 0
	t.learner = larank.New(t.cfg.learnerConfig(), t.extractor, t.kernel)
}

// ImageOptions returns the frame representation options the configured
// features need
func (t *Tracker) ImageOptions() imagerep.Options {
	return t.extractor.Requirements().Options()
}

// Initialise trains the tracker on the box bb of frame.  The box is snapped
// to the pixel grid and must lie within the frame.
func (t *Tracker) Initialise(frame image.Image, bb geom.FloatRect) {
	t.InitialiseRep(imagerep.New(frame, t.ImageOptions()), bb)
}

// InitialiseRep is Initialise for a prebuilt frame representation
func (t *Tracker) InitialiseRep(rep *imagerep.ImageRep, bb geom.FloatRect) {

	t.bb = bb.Int().Float()

	if !t.bb.IsInside(rep.Rect().Float()) {
		panic(fmt.Sprintf("tracker: initial box %v outside frame %v", t.bb, rep.Rect()))
	}

	t.updateLearner(rep)
	t.initialised = true
}

// Track moves the box to the best scoring candidate of frame and trains on
// the result.  Track must be called after Initialise.
func (t *Tracker) Track(frame image.Image) {
	t.TrackRep(imagerep.New(frame, t.ImageOptions()))
}

// TrackRep is Track for a prebuilt frame representation
func (t *Tracker) TrackRep(rep *imagerep.ImageRep) {

	if !t.initialised {
		panic("tracker: Track called before Initialise")
	}

	origin := t.bb.Int()
	rects := sampler.PixelSamples(t.bb, t.cfg.SearchRadius, false)
	rects = sampler.Inside(rects, rep.Rect().Float(), false)

	t.scoreMap = newScoreMap(t.cfg.SearchRadius)

	if len(rects) == 0 {
		// box left the frame, keep it and skip learning
		if t.cfg.Verbose {
			log.Printf("tracker: no search samples inside frame for box %v", t.bb)
		}
		return
	}

	scores := t.learner.Eval(features.NewMultiSample(rep, rects))

	bestInd := -1
	bestScore := -math.MaxFloat64

	for i, s := range scores {
		if s > bestScore {
			bestScore = s
			bestInd = i
		}
	}

	t.fillScoreMap(origin, rects, scores)

	if t.cfg.Verbose {
		log.Printf("tracker: %d search samples, best score %.4f", len(rects), bestScore)
	}

	if bestInd == -1 {
		return
	}

	t.bb = rects[bestInd]
	t.bestScore = bestScore
	t.updateLearner(rep)
}

// fillScoreMap stores min-max normalised scores by offset from origin
func (t *Tracker) fillScoreMap(origin geom.IntRect, rects []geom.FloatRect, scores []float64) {

	lo, hi := scores[0], scores[0]

	for _, s := range scores {
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}

	for i, r := range rects {
		v := 0.5
		if hi > lo {
			v = (scores[i] - lo) / (hi - lo)
		}

		ri := r.Int()
		t.scoreMap.set(ri.X-origin.X, ri.Y-origin.Y, v)
	}
}

// updateLearner trains the learner with radial samples around the box
func (t *Tracker) updateLearner(rep *imagerep.ImageRep) {

	rects := sampler.RadialSamples(t.bb, 2*float64(t.cfg.SearchRadius), radialRings, radialAngles)
	rects = sampler.Inside(rects, rep.Rect().Float(), true)

	if t.cfg.Verbose {
		log.Printf("tracker: %d training samples", len(rects))
	}

	t.learner.Update(features.NewMultiSample(rep, rects), 0)
}

// IsInitialised reports whether Initialise has been called since the last
// Reset
func (t *Tracker) IsInitialised() bool {
	return t.initialised
}

// BB returns the current box
func (t *Tracker) BB() geom.FloatRect {
	return t.bb
}

// ScoreMap returns the score map of the last Track call, nil before the
// first
func (t *Tracker) ScoreMap() *ScoreMap {
	return t.scoreMap
}

// BestScore returns the raw learner score of the box chosen by the last
// Track call
func (t *Tracker) BestScore() float64 {
	return t.bestScore
}

// Debug returns a snapshot of the learner state
func (t *Tracker) Debug() larank.Snapshot {
	return t.learner.Debug()
}
