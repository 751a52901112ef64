package struck

import (
	"testing"

	"github.com/swdee/go-struck/features"
	"github.com/swdee/go-struck/geom"
	"github.com/swdee/go-struck/kernel"
	"github.com/swdee/go-struck/tracker"
)

// rawConfig returns a fast tracker configuration using raw pixel features
func rawConfig() tracker.Config {
	cfg := tracker.DefaultConfig()
	cfg.SearchRadius = 10
	cfg.Features = []tracker.FeatureKernel{
		{Feature: features.RawType, Kernel: kernel.GaussianType, Params: []float64{0.1}},
	}
	return cfg
}

func TestPool(t *testing.T) {
	pool, err := NewPool(2, rawConfig())
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}

	if pool.Size() != 2 {
		t.Errorf("expected size 2, got %d", pool.Size())
	}

	a := pool.Get()
	b := pool.Get()

	if a == b {
		t.Fatal("pool handed out the same tracker twice")
	}

	a.Initialise(squareFrame(10, 10), geom.NewRect(10.0, 10, 20, 20))
	pool.Return(a)

	if a.IsInitialised() {
		t.Error("expected returned tracker to be reset")
	}

	pool.Close()
	pool.Return(b)
	pool.Close()
}

func TestNewPoolErrors(t *testing.T) {
	if _, err := NewPool(0, rawConfig()); err == nil {
		t.Error("expected error for empty pool")
	}

	cfg := rawConfig()
	cfg.Features = nil

	if _, err := NewPool(1, cfg); err == nil {
		t.Error("expected error for invalid tracker config")
	}
}
