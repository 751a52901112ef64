package struck

import (
	"fmt"
	"sync"

	"github.com/swdee/go-struck/tracker"
)

// Pool is a simple tracker pool to run multiple sequences concurrently with
// the same configuration
type Pool struct {
	// pool of trackers
	trackers chan *tracker.Tracker
	// size of pool
	size   int
	closed bool
	mu     sync.Mutex
}

// NewPool creates a new tracker pool
func NewPool(size int, cfg tracker.Config) (*Pool, error) {

	if size < 1 {
		return nil, fmt.Errorf("pool size must be positive, got %d", size)
	}

	p := &Pool{
		trackers: make(chan *tracker.Tracker, size),
		size:     size,
	}

	for i := 0; i < size; i++ {
		t, err := tracker.New(cfg)

		if err != nil {
			return nil, err
		}

		// attach to pool
		p.trackers <- t
	}

	return p, nil
}

// Get takes a tracker from the pool, blocking until one is free.  Get must
// not be called after Close.
func (p *Pool) Get() *tracker.Tracker {
	return <-p.trackers
}

// Return resets a tracker and puts it back in the pool
func (p *Pool) Return(t *tracker.Tracker) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	t.Reset()

	select {
	case p.trackers <- t:
	default:
		// pool is full
	}
}

// Size returns the number of trackers in the pool
func (p *Pool) Size() int {
	return p.size
}

// Close the pool, trackers returned afterwards are dropped
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.closed = true

	// drop idle trackers
	for {
		select {
		case <-p.trackers:
		default:
			return
		}
	}
}
