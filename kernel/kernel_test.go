package kernel

import (
	"image"
	"math"
	"testing"

	"github.com/swdee/go-struck/features"
	"github.com/swdee/go-struck/geom"
	"github.com/swdee/go-struck/imagerep"
)

// almostEqual checks if two float64 values are approximately equal
func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestKernels(t *testing.T) {
	a := []float64{1, 2, 0, 0.5}
	b := []float64{2, 1, 0, 0}

	tests := []struct {
		name string
		k    Kernel
		want float64
		self float64
	}{
		{"linear", Linear{}, 4, 5.25},
		{"gaussian", NewGaussian(0.5), math.Exp(-0.5 * 2.25), 1},
		{"intersection", Intersection{}, 2, 3.5},
		{"chi2", Chi2{}, 2*2/3.0 + 2*2/3.0, 3.5},
	}

	for _, tc := range tests {
		if got := tc.k.Eval(a, b); !almostEqual(got, tc.want, 1e-12) {
			t.Errorf("%s: Eval expected %v, got %v", tc.name, tc.want, got)
		}
		if got := tc.k.Eval(b, a); !almostEqual(got, tc.want, 1e-12) {
			t.Errorf("%s: Eval not symmetric", tc.name)
		}
		if got := tc.k.EvalSelf(a); !almostEqual(got, tc.self, 1e-12) {
			t.Errorf("%s: EvalSelf expected %v, got %v", tc.name, tc.self, got)
		}
		if got := tc.k.Eval(a, a); !almostEqual(got, tc.k.EvalSelf(a), 1e-12) {
			t.Errorf("%s: Eval(a, a) %v differs from EvalSelf %v", tc.name, got, tc.k.EvalSelf(a))
		}
	}
}

func TestChi2ZeroOverZero(t *testing.T) {
	if got := (Chi2{}).Eval([]float64{0, 0}, []float64{0, 0}); got != 0 {
		t.Errorf("expected 0 for all zero vectors, got %v", got)
	}
}

func TestLengthMismatchPanics(t *testing.T) {
	for _, k := range []Kernel{Linear{}, NewGaussian(1), Intersection{}, Chi2{}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%T: expected panic on length mismatch", k)
				}
			}()
			k.Eval([]float64{1, 2}, []float64{1})
		}()
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		kt      KernelType
		params  []float64
		wantErr bool
	}{
		{LinearType, nil, false},
		{GaussianType, []float64{0.2}, false},
		{GaussianType, nil, true},
		{GaussianType, []float64{-1}, true},
		{IntersectionType, nil, false},
		{Chi2Type, nil, false},
		{KernelType(42), nil, true},
	}

	for _, tc := range tests {
		k, err := New(tc.kt, tc.params)
		if (err != nil) != tc.wantErr {
			t.Errorf("New(%v, %v) error = %v, wantErr %v", tc.kt, tc.params, err, tc.wantErr)
		}
		if err == nil && k == nil {
			t.Errorf("New(%v) returned nil kernel", tc.kt)
		}
	}

	if g, _ := New(GaussianType, []float64{0.2}); g.(Gaussian).Gamma() != 0.2 {
		t.Errorf("gaussian gamma not applied")
	}
}

func TestParseKernelType(t *testing.T) {
	for _, kt := range []KernelType{LinearType, GaussianType, IntersectionType, Chi2Type} {
		got, err := ParseKernelType(kt.String())
		if err != nil || got != kt {
			t.Errorf("round trip of %v failed: %v, %v", kt, got, err)
		}
	}

	if _, err := ParseKernelType("polynomial"); err == nil {
		t.Errorf("expected error for unknown kernel")
	}
}

func TestMultiSumsSegments(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 60, 60))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7 % 251)
	}
	rep := imagerep.New(img, imagerep.Options{Integral: true, IntegralHist: true})

	subs := []features.Extractor{features.NewHaar(), features.NewHistogram()}
	fm, err := features.NewMulti(subs)
	if err != nil {
		t.Fatalf("NewMulti failed: %v", err)
	}

	kernels := []Kernel{NewGaussian(0.2), Intersection{}}
	km, err := NewMulti(fm.Layout(), kernels, nil)
	if err != nil {
		t.Fatalf("kernel NewMulti failed: %v", err)
	}

	x1 := fm.Eval(features.Sample{Image: rep, ROI: geom.NewRect(5.0, 5.0, 30.0, 30.0)})
	x2 := fm.Eval(features.Sample{Image: rep, ROI: geom.NewRect(12.0, 9.0, 30.0, 30.0)})

	want := 0.0
	for i, k := range kernels {
		want += k.Eval(fm.Layout().Slice(x1, i), fm.Layout().Slice(x2, i))
	}

	if got := km.Eval(x1, x2); !almostEqual(got, want, 1e-12) {
		t.Errorf("expected composite %v, got %v", want, got)
	}

	if got := km.EvalSelf(x1); !almostEqual(got, km.Eval(x1, x1), 1e-12) {
		t.Errorf("composite EvalSelf %v differs from Eval(x, x) %v", got, km.Eval(x1, x1))
	}

	weighted, err := NewMulti(fm.Layout(), kernels, []float64{2, 0.5})
	if err != nil {
		t.Fatalf("weighted NewMulti failed: %v", err)
	}

	wantW := 2*kernels[0].Eval(fm.Layout().Slice(x1, 0), fm.Layout().Slice(x2, 0)) +
		0.5*kernels[1].Eval(fm.Layout().Slice(x1, 1), fm.Layout().Slice(x2, 1))

	if got := weighted.Eval(x1, x2); !almostEqual(got, wantW, 1e-12) {
		t.Errorf("expected weighted composite %v, got %v", wantW, got)
	}
}

func TestNewMultiMismatch(t *testing.T) {
	fm, err := features.NewMulti([]features.Extractor{features.NewRaw(), features.NewHistogram()})
	if err != nil {
		t.Fatalf("NewMulti failed: %v", err)
	}

	if _, err := NewMulti(fm.Layout(), []Kernel{Linear{}}, nil); err == nil {
		t.Errorf("expected error for kernel count mismatch")
	}

	if _, err := NewMulti(fm.Layout(), []Kernel{Linear{}, Linear{}}, []float64{1}); err == nil {
		t.Errorf("expected error for weight count mismatch")
	}
}
