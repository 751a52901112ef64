package larank

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/swdee/go-struck/features"
	"github.com/swdee/go-struck/geom"
	"github.com/swdee/go-struck/kernel"
	"github.com/swdee/go-struck/sampler"
)

// pointExtractor describes a region by its scaled top left corner so the
// learner can be exercised without a frame
type pointExtractor struct{}

func (pointExtractor) Count() int { return 2 }

func (pointExtractor) Eval(s features.Sample) []float64 {
	return []float64{s.ROI.X / 10, s.ROI.Y / 10}
}

func (pointExtractor) Requirements() features.Requirements { return features.Requirements{} }

func (pointExtractor) Type() features.FeatureType { return features.RawType }

// shortExtractor returns vectors shorter than its Count
type shortExtractor struct{ pointExtractor }

func (shortExtractor) Eval(features.Sample) []float64 { return []float64{0} }

func newLearner(cfg Config) *LaRank {
	return New(cfg, pointExtractor{}, kernel.NewGaussian(5))
}

// batch returns radial candidates around a 20x20 box at (x, y)
func batch(x, y float64) features.MultiSample {
	centre := geom.NewRect(x, y, 20, 20)
	return features.NewMultiSample(nil, sampler.RadialSamples(centre, 20, 5, 16))
}

// checkInvariants verifies the dual constraints of every support pattern
func checkInvariants(t *testing.T, l *LaRank) {
	t.Helper()

	s := l.Debug()
	sums := make(map[int]float64)

	for _, sv := range s.SupportVectors {
		sums[sv.Pattern] += sv.Beta

		if sv.Positive {
			if sv.Beta < -1e-9 || sv.Beta > l.cfg.C+1e-9 {
				t.Errorf("positive weight %v outside [0, %v]", sv.Beta, l.cfg.C)
			}
			if sv.Rect.X != 0 || sv.Rect.Y != 0 {
				t.Errorf("positive rect %v not at origin", sv.Rect)
			}
		} else if sv.Beta > 1e-9 {
			t.Errorf("negative candidate has positive weight %v", sv.Beta)
		}
	}

	for p, sum := range sums {
		if math.Abs(sum) > 1e-9 {
			t.Errorf("pattern %d weights sum to %v", p, sum)
		}
	}

	if len(sums) != s.Patterns {
		t.Errorf("snapshot lists %d patterns but support vectors reference %d", s.Patterns, len(sums))
	}
}

func TestUpdateRanksTrueCandidateFirst(t *testing.T) {
	l := newLearner(DefaultConfig())
	ms := batch(50, 50)

	l.Update(ms, 0)
	checkInvariants(t, l)

	scores := l.Eval(ms)

	if len(scores) != ms.Len() {
		t.Fatalf("expected %d scores, got %d", ms.Len(), len(scores))
	}

	for i := 1; i < len(scores); i++ {
		if scores[i] >= scores[0] {
			t.Errorf("candidate %d scored %v, not below true candidate %v", i, scores[i], scores[0])
		}
	}

	if s := l.Debug(); s.Positive == 0 || s.Negative == 0 {
		t.Errorf("expected positive and negative support vectors, got %+v", s)
	}
}

func TestEvalWithoutSupportVectors(t *testing.T) {
	l := newLearner(DefaultConfig())

	for i, s := range l.Eval(batch(0, 0)) {
		if s != 0 {
			t.Errorf("candidate %d: expected zero score, got %v", i, s)
		}
	}
}

func TestBudgetNeverExceeded(t *testing.T) {
	for _, eviction := range []EvictionPolicy{EvictSmallestWeight, EvictSmallestEffect} {
		cfg := DefaultConfig()
		cfg.Budget = 8
		cfg.Eviction = eviction
		l := newLearner(cfg)

		for i := 0; i < 20; i++ {
			l.Update(batch(float64(10*i), float64(5*i)), 0)

			if n := l.SupportVectorCount(); n > cfg.Budget {
				t.Fatalf("%v: update %d left %d support vectors, budget %d", eviction, i, n, cfg.Budget)
			}
			checkInvariants(t, l)
		}

		if l.PatternCount() == 0 {
			t.Errorf("%v: expected support patterns to remain", eviction)
		}
	}
}

func TestUnboundedGrowsCache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Budget = 0
	l := newLearner(cfg)

	for i := 0; i < 40; i++ {
		l.Update(batch(float64(7*i), float64(3*i)), 0)
	}

	checkInvariants(t, l)

	if n := l.SupportVectorCount(); n <= cfg.Budget {
		t.Errorf("expected support vectors to accumulate, got %d", n)
	}

	r, c := l.k.Dims()
	if r < l.SupportVectorCount() || r != c {
		t.Errorf("kernel cache %dx%d too small for %d support vectors", r, c, l.SupportVectorCount())
	}

	// cached values must match direct evaluation after swaps
	for i := range l.svs {
		for j := range l.svs {
			want := l.kernel.Eval(l.svX(i), l.svX(j))
			if math.Abs(l.k.At(i, j)-want) > 1e-12 {
				t.Fatalf("cache (%d, %d) = %v, expected %v", i, j, l.k.At(i, j), want)
			}
		}
	}

	if d := l.Debug().Dual; math.IsNaN(d) || math.IsInf(d, 0) {
		t.Errorf("dual objective not finite: %v", d)
	}
}

func TestSameSeedReproduces(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Budget = 10
	cfg.Seed = 42

	a := newLearner(cfg)
	cfg.Workers = 4
	b := newLearner(cfg)

	for i := 0; i < 8; i++ {
		ms := batch(float64(3*i), float64(2*i))
		a.Update(ms, 0)
		b.Update(ms, 0)
	}

	if diff := cmp.Diff(a.Debug(), b.Debug()); diff != "" {
		t.Errorf("learners diverged (-a +b):\n%s", diff)
	}

	if diff := cmp.Diff(a.Eval(batch(5, 5)), b.Eval(batch(5, 5))); diff != "" {
		t.Errorf("scores diverged (-a +b):\n%s", diff)
	}
}

func TestUpdatePanics(t *testing.T) {
	tests := []struct {
		name string
		l    *LaRank
		ms   features.MultiSample
		y    int
	}{
		{"empty batch", newLearner(DefaultConfig()), features.MultiSample{}, 0},
		{"negative index", newLearner(DefaultConfig()), batch(0, 0), -1},
		{"index out of range", newLearner(DefaultConfig()), batch(0, 0), 81},
		{"short vectors", New(DefaultConfig(), shortExtractor{}, kernel.Linear{}), batch(0, 0), 0},
	}

	for _, tc := range tests {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected panic", tc.name)
				}
			}()
			tc.l.Update(tc.ms, tc.y)
		}()
	}
}

func TestParseEvictionPolicy(t *testing.T) {
	for _, p := range []EvictionPolicy{EvictSmallestWeight, EvictSmallestEffect} {
		got, err := ParseEvictionPolicy(p.String())
		if err != nil || got != p {
			t.Errorf("round trip of %v gave %v, %v", p, got, err)
		}
	}

	if p, err := ParseEvictionPolicy(""); err != nil || p != EvictSmallestWeight {
		t.Errorf("empty name: expected default policy, got %v, %v", p, err)
	}

	if _, err := ParseEvictionPolicy("oldest"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
