package larank

import "fmt"

// EvictionPolicy selects which support vector budget maintenance removes
type EvictionPolicy int

const (
	// EvictSmallestWeight removes the negative support vector with the
	// smallest dual weight magnitude
	EvictSmallestWeight EvictionPolicy = iota
	// EvictSmallestEffect removes the negative support vector whose removal
	// changes the discriminant function least, beta^2 * |phi(pos)-phi(neg)|^2
	EvictSmallestEffect
)

// String returns the configuration name of the policy
func (e EvictionPolicy) String() string {
	switch e {
	case EvictSmallestWeight:
		return "weight"
	case EvictSmallestEffect:
		return "effect"
	}
	return fmt.Sprintf("EvictionPolicy(%d)", int(e))
}

// ParseEvictionPolicy returns the policy for a configuration name, an empty
// name selects the default
func ParseEvictionPolicy(name string) (EvictionPolicy, error) {
	switch name {
	case "", "weight":
		return EvictSmallestWeight, nil
	case "effect":
		return EvictSmallestEffect, nil
	}
	return 0, fmt.Errorf("unknown eviction policy %q", name)
}

// Config holds the learner parameters
type Config struct {
	// C is the SVM regularisation constant capping the positive dual weight
	// of each support pattern
	C float64
	// Budget is the maximum number of support vectors, 0 for unbounded
	Budget int
	// Seed initialises the generator choosing patterns to revisit
	Seed uint64
	// ReprocessCount is the number of revisit rounds after each new pattern
	ReprocessCount int
	// OptimizeCount is the number of optimize steps per revisit round
	OptimizeCount int
	// Eviction selects the budget maintenance policy
	Eviction EvictionPolicy
	// Workers is the number of goroutines used to score candidates, values
	// below two score sequentially
	Workers int
}

// DefaultConfig returns the learner parameters used by the tracker
func DefaultConfig() Config {
	return Config{
		C:              100,
		Budget:         100,
		ReprocessCount: 10,
		OptimizeCount:  10,
		Eviction:       EvictSmallestWeight,
		Workers:        1,
	}
}
