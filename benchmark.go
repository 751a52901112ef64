package struck

import (
	"context"
	"fmt"
	"time"

	"github.com/swdee/go-struck/geom"
	"github.com/swdee/go-struck/preprocess"
	"github.com/swdee/go-struck/sequence"
	"github.com/swdee/go-struck/tracker"
	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"
)

// Result holds the outcome of tracking one sequence
type Result struct {
	// Sequence is the sequence name
	Sequence string
	// Boxes holds the tracked box of every frame in source coordinates
	Boxes []geom.FloatRect
	// Scores holds the best score of every frame after the first
	Scores []float64
	// Metrics compares Boxes with the sequence ground truth
	Metrics Metrics
	// Elapsed is the wall time spent tracking
	Elapsed time.Duration
}

// FPS returns the number of frames tracked per second
func (r *Result) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(len(r.Boxes)) / r.Elapsed.Seconds()
}

// Track runs t over every frame of seq scaled to width x height, starting
// from the ground truth box of the first frame.  Tracking stops early with
// the context error when ctx is cancelled between frames.  An initial box
// outside the scaled frame is an error.
func Track(ctx context.Context, t *tracker.Tracker, seq *sequence.Sequence,
	width, height int) (*Result, error) {

	res := &Result{
		Sequence: seq.Name,
		Boxes:    make([]geom.FloatRect, 0, seq.Len()),
	}

	start := time.Now()
	var resizer *preprocess.Resizer

	for i := seq.StartFrame; i <= seq.EndFrame; i++ {

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame, err := seq.ReadFrame(i)
		if err != nil {
			return nil, err
		}

		if resizer == nil {
			resizer = preprocess.NewResizer(frame.Cols(), frame.Rows(), width, height)
		}

		working := gocv.NewMat()
		resizer.Resize(frame, &working)
		frame.Close()

		rep, err := preprocess.NewImageRep(working, t.ImageOptions())
		working.Close()

		if err != nil {
			return nil, fmt.Errorf("frame %d of %s: %w", i, seq.Name, err)
		}

		if i == seq.StartFrame {
			bb := resizer.ToWorking(seq.InitBB)
			if !bb.Int().Float().IsInside(rep.Rect().Float()) {
				return nil, fmt.Errorf("initial box %v of %s outside frame %v", seq.InitBB, seq.Name, rep.Rect())
			}
			t.InitialiseRep(rep, bb)
		} else {
			t.TrackRep(rep)
			res.Scores = append(res.Scores, t.BestScore())
		}

		res.Boxes = append(res.Boxes, resizer.ToSource(t.BB()))
	}

	res.Elapsed = time.Since(start)
	res.Metrics = Evaluate(res.Boxes, seq.GroundTruth())

	return res, nil
}

// Benchmark tracks every sequence with trackers taken from pool, running
// up to pool.Size() sequences at once.  Results are returned in the order
// of seqs.
func Benchmark(ctx context.Context, pool *Pool, seqs []*sequence.Sequence,
	width, height int) ([]*Result, error) {

	results := make([]*Result, len(seqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(pool.Size())

	for i, seq := range seqs {
		g.Go(func() error {
			t := pool.Get()
			defer pool.Return(t)

			res, err := Track(ctx, t, seq, width, height)
			if err != nil {
				return fmt.Errorf("error tracking %s: %w", seq.Name, err)
			}

			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
