/*
Package larank implements an online structured output SVM solved with
LaRank style SMO steps in the dual, maintaining a fixed budget of support
vectors so per frame scoring cost stays bounded.

A support pattern is one training batch: the feature vectors of every
candidate region and the index of the true region.  A support vector is a
(pattern, candidate) pair carrying a dual weight beta and gradient g.
Within each pattern the weights sum to zero, only the true candidate may
have a positive weight and it never exceeds C.
*/
package larank

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/swdee/go-struck/features"
	"github.com/swdee/go-struck/geom"
	"github.com/swdee/go-struck/kernel"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

const (
	// minGradientGap is the smallest gradient difference worth an SMO step
	minGradientGap = 1e-5
	// minBeta is the weight magnitude below which a support vector is dropped
	minBeta = 1e-8
	// unboundedCapacity is the initial kernel cache size without a budget
	unboundedCapacity = 64
)

// supportPattern is one training batch retained by the learner
type supportPattern struct {
	// x holds the feature vector of every candidate
	x [][]float64
	// yv holds every candidate rect relative to the true rect
	yv []geom.FloatRect
	// y is the index of the true candidate
	y int
	// refCount is the number of support vectors referencing the pattern
	refCount int
}

// supportVector is a weighted candidate of a support pattern
type supportVector struct {
	// pattern is the arena slot of the owning pattern
	pattern int
	// y is the candidate index within the pattern
	y int
	// b is the dual weight
	b float64
	// g is the gradient of the dual objective
	g float64
}

// LaRank is the online budgeted structured SVM.  It is not safe for
// concurrent use.
type LaRank struct {
	cfg      Config
	features features.Extractor
	kernel   kernel.Kernel
	rng      *rand.Rand
	// patterns is the arena of support patterns, slots are reused via free
	patterns []supportPattern
	free     []int
	// active lists the occupied pattern slots in insertion order
	active []int
	// svs holds the support vectors, row i of k belongs to svs[i]
	svs []supportVector
	// k caches the kernel value between every pair of support vectors
	k *mat.Dense
}

// New returns a learner scoring feature vectors of f with kernel k
func New(cfg Config, f features.Extractor, k kernel.Kernel) *LaRank {

	size := unboundedCapacity
	if cfg.Budget > 0 {
		// budget maintenance runs after at most two insertions
		size = cfg.Budget + 2
	}

	return &LaRank{
		cfg:      cfg,
		features: f,
		kernel:   k,
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5DEECE66D)),
		k:        mat.NewDense(size, size, nil),
	}
}

// Eval returns the score of every candidate of ms, higher is a better match
func (l *LaRank) Eval(ms features.MultiSample) []float64 {

	fvs := features.EvalMulti(l.features, ms, l.cfg.Workers)
	scores := make([]float64, len(fvs))

	if l.cfg.Workers <= 1 || len(fvs) < 2 {
		for i, x := range fvs {
			scores[i] = l.evaluate(x)
		}
		return scores
	}

	var g errgroup.Group
	g.SetLimit(l.cfg.Workers)

	for i, x := range fvs {
		g.Go(func() error {
			scores[i] = l.evaluate(x)
			return nil
		})
	}

	_ = g.Wait()

	return scores
}

// Update adds the candidates of ms as a new support pattern whose true
// region is ms.Rects[y], then optimises the dual and enforces the budget
func (l *LaRank) Update(ms features.MultiSample, y int) {

	if ms.Len() == 0 {
		panic("larank: Update with empty sample")
	}

	if y < 0 || y >= ms.Len() {
		panic(fmt.Sprintf("larank: true index %d out of range [0, %d)", y, ms.Len()))
	}

	x := features.EvalMulti(l.features, ms, l.cfg.Workers)

	for i, v := range x {
		if len(v) != l.features.Count() {
			panic(fmt.Sprintf("larank: candidate %d has %d features, expected %d",
				i, len(v), l.features.Count()))
		}
	}

	// express candidates in the coordinate frame of the true region
	centre := ms.Rects[y]
	yv := make([]geom.FloatRect, ms.Len())

	for i, r := range ms.Rects {
		yv[i] = r.Translate(-centre.XMin(), -centre.YMin())
	}

	slot := l.addPattern(supportPattern{x: x, yv: yv, y: y})

	l.processNew(slot)
	l.budgetMaintenance()

	for i := 0; i < l.cfg.ReprocessCount; i++ {
		l.reprocess()
		l.budgetMaintenance()
	}
}

// addPattern stores sp in a free arena slot and returns the slot
func (l *LaRank) addPattern(sp supportPattern) int {

	var slot int

	if n := len(l.free); n > 0 {
		slot = l.free[n-1]
		l.free = l.free[:n-1]
		l.patterns[slot] = sp
	} else {
		slot = len(l.patterns)
		l.patterns = append(l.patterns, sp)
	}

	l.active = append(l.active, slot)

	return slot
}

// releasePattern invalidates the arena slot of a pattern no longer
// referenced by any support vector
func (l *LaRank) releasePattern(slot int) {

	l.patterns[slot] = supportPattern{}
	l.free = append(l.free, slot)

	if i := slices.Index(l.active, slot); i >= 0 {
		l.active = slices.Delete(l.active, i, i+1)
	}
}

// loss is the structured loss of predicting candidate i of a pattern
func (l *LaRank) loss(sp *supportPattern, i int) float64 {
	return 1 - sp.yv[i].Overlap(sp.yv[sp.y])
}

// svX returns the feature vector of support vector i
func (l *LaRank) svX(i int) []float64 {
	sv := l.svs[i]
	return l.patterns[sv.pattern].x[sv.y]
}

// evaluate returns the discriminant value of feature vector x
func (l *LaRank) evaluate(x []float64) float64 {

	f := 0.0

	for i := range l.svs {
		f += l.svs[i].b * l.kernel.Eval(l.svX(i), x)
	}

	return f
}

// upperBound returns the upper bound on the weight of a support vector
func (l *LaRank) upperBound(sv supportVector) float64 {
	if sv.y == l.patterns[sv.pattern].y {
		return l.cfg.C
	}
	return 0
}

// minGradient returns the candidate of a pattern with the smallest gradient
func (l *LaRank) minGradient(slot int) (int, float64) {

	sp := &l.patterns[slot]
	minInd := -1
	minGrad := math.MaxFloat64

	for i := range sp.yv {
		grad := -l.loss(sp, i) - l.evaluate(sp.x[i])

		if grad < minGrad {
			minInd = i
			minGrad = grad
		}
	}

	return minInd, minGrad
}

// processNew adds the true candidate and most violating candidate of a new
// pattern as support vectors and takes one SMO step between them
func (l *LaRank) processNew(slot int) {

	y := l.patterns[slot].y

	// gradient is -f(x, y) as the loss of the true candidate is zero
	ip := l.addSupportVector(slot, y, -l.evaluate(l.patterns[slot].x[y]))

	ny, g := l.minGradient(slot)
	in := l.addSupportVector(slot, ny, g)

	l.smoStep(ip, in)
}

// processOld revisits a random pattern, possibly adding its most violating
// candidate as a new support vector
func (l *LaRank) processOld() {

	if len(l.active) == 0 {
		return
	}

	slot := l.active[l.rng.IntN(len(l.active))]

	ip := -1
	maxGrad := -math.MaxFloat64

	for i, sv := range l.svs {
		if sv.pattern != slot {
			continue
		}

		if sv.g > maxGrad && sv.b < l.upperBound(sv) {
			ip = i
			maxGrad = sv.g
		}
	}

	if ip == -1 {
		return
	}

	ny, g := l.minGradient(slot)
	in := -1

	for i, sv := range l.svs {
		if sv.pattern == slot && sv.y == ny {
			in = i
			break
		}
	}

	if in == -1 {
		in = l.addSupportVector(slot, ny, g)
	}

	l.smoStep(ip, in)
}

// optimize takes an SMO step between existing support vectors of a random
// pattern
func (l *LaRank) optimize() {

	if len(l.active) == 0 {
		return
	}

	slot := l.active[l.rng.IntN(len(l.active))]

	ip, in := -1, -1
	maxGrad := -math.MaxFloat64
	minGrad := math.MaxFloat64

	for i, sv := range l.svs {
		if sv.pattern != slot {
			continue
		}

		if sv.g > maxGrad && sv.b < l.upperBound(sv) {
			ip = i
			maxGrad = sv.g
		}

		if sv.g < minGrad {
			in = i
			minGrad = sv.g
		}
	}

	if ip == -1 || in == -1 {
		return
	}

	l.smoStep(ip, in)
}

// reprocess is one revisit round
func (l *LaRank) reprocess() {

	l.processOld()

	for i := 0; i < l.cfg.OptimizeCount; i++ {
		l.optimize()
	}
}

// smoStep moves weight from support vector ineg to ipos, both of the same
// pattern, and drops either if its weight vanishes
func (l *LaRank) smoStep(ipos, ineg int) {

	if ipos == ineg {
		return
	}

	svp := &l.svs[ipos]
	svn := &l.svs[ineg]

	if svp.pattern != svn.pattern {
		panic("larank: SMO step across support patterns")
	}

	if svp.g-svn.g >= minGradientGap {
		kii := l.k.At(ipos, ipos) + l.k.At(ineg, ineg) - 2*l.k.At(ipos, ineg)
		lu := math.Inf(1)

		if kii > 0 {
			lu = (svp.g - svn.g) / kii
		}

		// no need to clamp against 0 since the gap is positive
		lambda := math.Min(lu, l.upperBound(*svp)-svp.b)

		svp.b += lambda
		svn.b -= lambda

		for i := range l.svs {
			l.svs[i].g -= lambda * (l.k.At(i, ipos) - l.k.At(i, ineg))
		}
	}

	if math.Abs(l.svs[ipos].b) < minBeta {
		l.removeSupportVector(ipos)

		if ineg == len(l.svs) {
			// ineg was the last support vector and moved into ipos
			ineg = ipos
		}
	}

	if math.Abs(l.svs[ineg].b) < minBeta {
		l.removeSupportVector(ineg)
	}
}

// addSupportVector appends a support vector for candidate y of a pattern
// and extends the kernel cache, returning its index
func (l *LaRank) addSupportVector(slot, y int, g float64) int {

	ind := len(l.svs)
	l.svs = append(l.svs, supportVector{pattern: slot, y: y, g: g})
	l.patterns[slot].refCount++

	l.ensureCapacity(ind + 1)

	x := l.patterns[slot].x[y]

	for i := 0; i < ind; i++ {
		v := l.kernel.Eval(l.svX(i), x)
		l.k.Set(i, ind, v)
		l.k.Set(ind, i, v)
	}

	l.k.Set(ind, ind, l.kernel.EvalSelf(x))

	return ind
}

// ensureCapacity grows the kernel cache to hold at least n support vectors
func (l *LaRank) ensureCapacity(n int) {

	r, _ := l.k.Dims()

	if n <= r {
		return
	}

	size := max(2*r, n)
	l.k = l.k.Grow(size-r, size-r).(*mat.Dense)
}

// swapSupportVectors exchanges two support vectors and their kernel cache
// rows and columns
func (l *LaRank) swapSupportVectors(i, j int) {

	l.svs[i], l.svs[j] = l.svs[j], l.svs[i]
	n := len(l.svs)

	for c := 0; c < n; c++ {
		vi, vj := l.k.At(i, c), l.k.At(j, c)
		l.k.Set(i, c, vj)
		l.k.Set(j, c, vi)
	}

	for r := 0; r < n; r++ {
		vi, vj := l.k.At(r, i), l.k.At(r, j)
		l.k.Set(r, i, vj)
		l.k.Set(r, j, vi)
	}
}

// removeSupportVector drops support vector ind, moving the last support
// vector into its place, and releases its pattern when unreferenced
func (l *LaRank) removeSupportVector(ind int) {

	slot := l.svs[ind].pattern
	l.patterns[slot].refCount--

	if l.patterns[slot].refCount == 0 {
		l.releasePattern(slot)
	}

	last := len(l.svs) - 1

	// keep the cache valid by moving the removed vector to the back
	if ind < last {
		l.swapSupportVectors(ind, last)
	}

	l.svs = l.svs[:last]
}

// budgetMaintenance removes support vectors until the budget is met
func (l *LaRank) budgetMaintenance() {

	if l.cfg.Budget <= 0 {
		return
	}

	for len(l.svs) > l.cfg.Budget {
		if !l.budgetMaintenanceRemove() {
			return
		}
	}
}

// budgetMaintenanceRemove evicts one negative support vector, moving its
// weight onto the positive support vector of the same pattern so the
// pattern weights still sum to zero.  Returns false if nothing could be
// evicted.
func (l *LaRank) budgetMaintenanceRemove() bool {

	minVal := math.MaxFloat64
	in, ip := -1, -1

	for i, sv := range l.svs {
		if sv.b >= 0 {
			continue
		}

		// find the positive support vector of the same pattern
		j := -1

		for k, other := range l.svs {
			if other.b > 0 && other.pattern == sv.pattern {
				j = k
				break
			}
		}

		if j == -1 {
			continue
		}

		var val float64

		switch l.cfg.Eviction {
		case EvictSmallestEffect:
			val = sv.b * sv.b * (l.k.At(i, i) + l.k.At(j, j) - 2*l.k.At(i, j))
		default:
			val = math.Abs(sv.b)
		}

		if val < minVal {
			minVal = val
			in = i
			ip = j
		}
	}

	if in == -1 {
		return false
	}

	l.svs[ip].b += l.svs[in].b

	l.removeSupportVector(in)

	if ip == len(l.svs) {
		// ip was the last support vector and moved into in
		ip = in
	}

	if l.svs[ip].b < minBeta {
		l.removeSupportVector(ip)
	}

	l.updateGradients()

	return true
}

// updateGradients recomputes every gradient from the kernel cache
func (l *LaRank) updateGradients() {

	for i := range l.svs {
		sv := &l.svs[i]
		f := 0.0

		for j := range l.svs {
			f += l.svs[j].b * l.k.At(i, j)
		}

		sv.g = -l.loss(&l.patterns[sv.pattern], sv.y) - f
	}
}

// SupportVectorCount returns the number of support vectors held
func (l *LaRank) SupportVectorCount() int {
	return len(l.svs)
}

// PatternCount returns the number of support patterns held
func (l *LaRank) PatternCount() int {
	return len(l.active)
}
