package kernel

import (
	"fmt"

	"github.com/swdee/go-struck/features"
)

// Multi applies one kernel per segment of a composite feature vector and
// returns the weighted sum
type Multi struct {
	layout  features.Layout
	kernels []Kernel
	weights []float64
}

// NewMulti returns a composite kernel over the segments of layout.  The
// layout must come from the composite extractor producing the vectors.
// A nil weights slice weights every kernel by one.
func NewMulti(layout features.Layout, kernels []Kernel, weights []float64) (*Multi, error) {

	if layout.Len() != len(kernels) {
		return nil, fmt.Errorf("layout has %d segments but %d kernels were given",
			layout.Len(), len(kernels))
	}

	if weights == nil {
		weights = make([]float64, len(kernels))
		for i := range weights {
			weights[i] = 1
		}
	}

	if len(weights) != len(kernels) {
		return nil, fmt.Errorf("expected %d kernel weights, got %d", len(kernels), len(weights))
	}

	return &Multi{
		layout:  layout,
		kernels: kernels,
		weights: weights,
	}, nil
}

// Eval returns the weighted sum of the per-segment kernel values
func (m *Multi) Eval(x1, x2 []float64) float64 {

	if len(x1) != m.layout.Dim() || len(x2) != m.layout.Dim() {
		panic(fmt.Sprintf("kernel: composite expects length %d, got %d and %d",
			m.layout.Dim(), len(x1), len(x2)))
	}

	sum := 0.0
	for i, k := range m.kernels {
		sum += m.weights[i] * k.Eval(m.layout.Slice(x1, i), m.layout.Slice(x2, i))
	}

	return sum
}

// EvalSelf returns the weighted sum of the per-segment self similarities
func (m *Multi) EvalSelf(x []float64) float64 {

	if len(x) != m.layout.Dim() {
		panic(fmt.Sprintf("kernel: composite expects length %d, got %d", m.layout.Dim(), len(x)))
	}

	sum := 0.0
	for i, k := range m.kernels {
		sum += m.weights[i] * k.EvalSelf(m.layout.Slice(x, i))
	}

	return sum
}
