// Package kernel provides the similarity functions the learner uses to
// compare feature vectors.
package kernel

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Kernel computes the similarity of two feature vectors of equal length
type Kernel interface {
	// Eval returns k(x1, x2)
	Eval(x1, x2 []float64) float64
	// EvalSelf returns k(x, x)
	EvalSelf(x []float64) float64
}

// KernelType defines the kernel variants available from configuration
type KernelType int

const (
	LinearType KernelType = iota
	GaussianType
	IntersectionType
	Chi2Type
)

// String returns the configuration name of the kernel type
func (k KernelType) String() string {
	switch k {
	case LinearType:
		return "linear"
	case GaussianType:
		return "gaussian"
	case IntersectionType:
		return "intersection"
	case Chi2Type:
		return "chi2"
	}
	return fmt.Sprintf("KernelType(%d)", int(k))
}

// ParseKernelType returns the kernel type for a configuration name
func ParseKernelType(name string) (KernelType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear":
		return LinearType, nil
	case "gaussian":
		return GaussianType, nil
	case "intersection":
		return IntersectionType, nil
	case "chi2":
		return Chi2Type, nil
	}
	return 0, fmt.Errorf("unknown kernel type %q", name)
}

// New returns the kernel of the given type.  Gaussian takes its bandwidth
// gamma as the first parameter, the other kernels take none.
func New(kt KernelType, params []float64) (Kernel, error) {
	switch kt {
	case LinearType:
		return Linear{}, nil
	case GaussianType:
		if len(params) < 1 {
			return nil, fmt.Errorf("gaussian kernel requires a gamma parameter")
		}
		if params[0] <= 0 || math.IsNaN(params[0]) {
			return nil, fmt.Errorf("gaussian kernel gamma must be positive, got %v", params[0])
		}
		return NewGaussian(params[0]), nil
	case IntersectionType:
		return Intersection{}, nil
	case Chi2Type:
		return Chi2{}, nil
	}
	return nil, fmt.Errorf("cannot create kernel for type %v", kt)
}

// checkLen panics if the vectors differ in length
func checkLen(x1, x2 []float64) {
	if len(x1) != len(x2) {
		panic(fmt.Sprintf("kernel: vector length mismatch %d != %d", len(x1), len(x2)))
	}
}

// Linear is the dot product kernel
type Linear struct{}

// Eval returns x1 . x2
func (Linear) Eval(x1, x2 []float64) float64 {
	return floats.Dot(x1, x2)
}

// EvalSelf returns x . x
func (Linear) EvalSelf(x []float64) float64 {
	return floats.Dot(x, x)
}

// Gaussian is the radial basis function kernel exp(-gamma*|x1-x2|^2)
type Gaussian struct {
	gamma float64
}

// NewGaussian returns a Gaussian kernel with bandwidth gamma
func NewGaussian(gamma float64) Gaussian {
	return Gaussian{gamma: gamma}
}

// Gamma returns the kernel bandwidth
func (g Gaussian) Gamma() float64 {
	return g.gamma
}

// Eval returns exp(-gamma*|x1-x2|^2)
func (g Gaussian) Eval(x1, x2 []float64) float64 {
	checkLen(x1, x2)
	d := floats.Distance(x1, x2, 2)
	return math.Exp(-g.gamma * d * d)
}

// EvalSelf is always 1
func (g Gaussian) EvalSelf(x []float64) float64 {
	return 1
}

// Intersection is the histogram intersection kernel sum(min(a, b))
type Intersection struct{}

// Eval returns the sum of element wise minimums
func (Intersection) Eval(x1, x2 []float64) float64 {
	checkLen(x1, x2)
	sum := 0.0
	for i, a := range x1 {
		sum += math.Min(a, x2[i])
	}
	return sum
}

// EvalSelf returns the sum of x
func (Intersection) EvalSelf(x []float64) float64 {
	return floats.Sum(x)
}

// Chi2 is the chi-squared kernel sum(2ab/(a+b)) with 0/0 taken as 0
type Chi2 struct{}

// Eval returns the chi-squared similarity
func (Chi2) Eval(x1, x2 []float64) float64 {
	checkLen(x1, x2)
	sum := 0.0
	for i, a := range x1 {
		b := x2[i]
		if a+b == 0 {
			continue
		}
		sum += 2 * a * b / (a + b)
	}
	return sum
}

// EvalSelf returns the chi-squared similarity of x with itself
func (c Chi2) EvalSelf(x []float64) float64 {
	return c.Eval(x, x)
}
