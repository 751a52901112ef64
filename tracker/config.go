package tracker

import (
	"errors"
	"fmt"

	"github.com/swdee/go-struck/features"
	"github.com/swdee/go-struck/kernel"
	"github.com/swdee/go-struck/larank"
)

// ErrNoFeatures is returned when a Config names no feature/kernel pair
var ErrNoFeatures = errors.New("no features configured")

// FeatureKernel pairs a feature extractor with the kernel comparing its
// vectors
type FeatureKernel struct {
	// Feature is the extractor variant
	Feature features.FeatureType
	// Kernel is the kernel variant
	Kernel kernel.KernelType
	// Params holds the kernel parameters, the Gaussian kernel takes gamma
	Params []float64
}

// Config holds the tracker parameters
type Config struct {
	// Features lists the feature/kernel pairs, more than one pair builds a
	// composite feature vector scored by a composite kernel
	Features []FeatureKernel
	// SearchRadius is the radius in pixels searched around the previous box
	SearchRadius int
	// SVMC is the SVM regularisation constant
	SVMC float64
	// SVBudgetSize is the maximum number of support vectors, 0 for unbounded
	SVBudgetSize int
	// Seed initialises the learner random generator
	Seed uint64
	// Workers is the number of goroutines used per frame for feature
	// extraction and scoring
	Workers int
	// ReprocessCount is the number of learner revisit rounds per update
	ReprocessCount int
	// OptimizeCount is the number of optimize steps per revisit round
	OptimizeCount int
	// Eviction selects the learner budget maintenance policy
	Eviction larank.EvictionPolicy
	// Verbose logs sample counts and scores for every frame
	Verbose bool
}

// DefaultConfig returns the default tracker configuration of Haar features
// with a Gaussian kernel
func DefaultConfig() Config {

	lc := larank.DefaultConfig()

	return Config{
		Features: []FeatureKernel{
			{Feature: features.HaarType, Kernel: kernel.GaussianType, Params: []float64{0.2}},
		},
		SearchRadius:   30,
		SVMC:           lc.C,
		SVBudgetSize:   lc.Budget,
		Workers:        1,
		ReprocessCount: lc.ReprocessCount,
		OptimizeCount:  lc.OptimizeCount,
		Eviction:       lc.Eviction,
	}
}

// Validate checks the configuration can build a tracker
func (c Config) Validate() error {

	if len(c.Features) == 0 {
		return ErrNoFeatures
	}

	if c.SearchRadius < 1 {
		return fmt.Errorf("search radius must be positive, got %d", c.SearchRadius)
	}

	if c.SVMC <= 0 {
		return fmt.Errorf("svm C must be positive, got %v", c.SVMC)
	}

	if c.SVBudgetSize < 0 {
		return fmt.Errorf("support vector budget must not be negative, got %d", c.SVBudgetSize)
	}

	if c.ReprocessCount < 0 || c.OptimizeCount < 0 {
		return fmt.Errorf("reprocess and optimize counts must not be negative, got %d and %d",
			c.ReprocessCount, c.OptimizeCount)
	}

	for i, fk := range c.Features {
		if fk.Feature == features.MultiType {
			return fmt.Errorf("feature %d: multi is built from the feature list", i)
		}

		if _, err := features.New(fk.Feature); err != nil {
			return fmt.Errorf("feature %d: %w", i, err)
		}

		if _, err := kernel.New(fk.Kernel, fk.Params); err != nil {
			return fmt.Errorf("feature %d: %w", i, err)
		}
	}

	return nil
}

// learnerConfig returns the learner parameters of the configuration
func (c Config) learnerConfig() larank.Config {
	return larank.Config{
		C:              c.SVMC,
		Budget:         c.SVBudgetSize,
		Seed:           c.Seed,
		ReprocessCount: c.ReprocessCount,
		OptimizeCount:  c.OptimizeCount,
		Eviction:       c.Eviction,
		Workers:        c.Workers,
	}
}

// build returns the extractor and kernel described by the feature list
func (c Config) build() (features.Extractor, kernel.Kernel, error) {

	extractors := make([]features.Extractor, len(c.Features))
	kernels := make([]kernel.Kernel, len(c.Features))

	for i, fk := range c.Features {
		f, err := features.New(fk.Feature)
		if err != nil {
			return nil, nil, fmt.Errorf("feature %d: %w", i, err)
		}

		k, err := kernel.New(fk.Kernel, fk.Params)
		if err != nil {
			return nil, nil, fmt.Errorf("feature %d: %w", i, err)
		}

		extractors[i] = f
		kernels[i] = k
	}

	if len(extractors) == 1 {
		return extractors[0], kernels[0], nil
	}

	mf, err := features.NewMulti(extractors)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating multi feature: %w", err)
	}

	mk, err := kernel.NewMulti(mf.Layout(), kernels, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating multi kernel: %w", err)
	}

	return mf, mk, nil
}
