/*
Example code showing how to track a single object through an image sequence
or a live camera feed with the struck tracker
*/
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/swdee/go-struck"
	"github.com/swdee/go-struck/config"
	"github.com/swdee/go-struck/geom"
	"github.com/swdee/go-struck/preprocess"
	"github.com/swdee/go-struck/render"
	"github.com/swdee/go-struck/sequence"
	"github.com/swdee/go-struck/tracker"
	"gocv.io/x/gocv"
)

const (
	// trailLength is the number of box centres drawn as the trail
	trailLength = 30
	// cameraBoxSize is the side of the central box used to initialise the
	// tracker in camera mode
	cameraBoxSize = 80
	// scoreCellSize is the pixel size of a score map cell
	scoreCellSize = 4
	// keyEsc is the escape key code returned by WaitKey
	keyEsc = 27
)

// errQuit is returned when the user quits from the display window
var errQuit = errors.New("quit requested")

// Demo defines the struct for running the tracking demo
type Demo struct {
	cfg *config.Config
	// tracker follows the object
	tracker *tracker.Tracker
	// trail holds the recent box centres for drawing
	trail *tracker.Trail
	// resizer scales source frames to the working frame size, created on
	// the first frame once the source size is known
	resizer *preprocess.Resizer
	// window displays the working frame with the tracked box
	window *gocv.Window
	// scoreWindow displays the score map in debug mode
	scoreWindow *gocv.Window
	// results receives the box of every frame in source coordinates
	results     *bufio.Writer
	resultsFile *os.File
	// scores holds the best score of every tracked frame
	scores []float64
	// boxes holds the box of every frame in source coordinates
	boxes []geom.FloatRect
	// paused stops frame advance until 'p' is pressed again
	paused bool
}

// NewDemo returns an instance of Demo for the configuration
func NewDemo(cfg *config.Config) (*Demo, error) {

	tc, err := cfg.TrackerConfig()
	if err != nil {
		return nil, fmt.Errorf("error building tracker config: %w", err)
	}

	t, err := tracker.New(tc)
	if err != nil {
		return nil, fmt.Errorf("error creating tracker: %w", err)
	}

	d := &Demo{
		cfg:     cfg,
		tracker: t,
		trail:   tracker.NewTrail(trailLength),
	}

	if cfg.ResultsPath != "" {
		d.resultsFile, err = os.Create(cfg.ResultsPath)
		if err != nil {
			return nil, fmt.Errorf("error creating results file: %w", err)
		}
		d.results = bufio.NewWriter(d.resultsFile)
	}

	if !cfg.QuietMode || cfg.SequenceName == "" {
		d.window = gocv.NewWindow("struck")
	}

	if cfg.DebugMode && d.window != nil {
		d.scoreWindow = gocv.NewWindow("scores")
	}

	return d, nil
}

// Close flushes the results file and closes the windows
func (d *Demo) Close() error {

	var err error

	if d.results != nil {
		err = d.results.Flush()

		if cerr := d.resultsFile.Close(); err == nil {
			err = cerr
		}
	}

	if d.window != nil {
		d.window.Close()
	}

	if d.scoreWindow != nil {
		d.scoreWindow.Close()
	}

	return err
}

// Scores returns the best score of every tracked frame
func (d *Demo) Scores() []float64 {
	return d.scores
}

// prepare scales a source frame to the working size, returning the working
// frame which the caller must Close
func (d *Demo) prepare(frame gocv.Mat) gocv.Mat {

	if d.resizer == nil {
		d.resizer = preprocess.NewResizer(frame.Cols(), frame.Rows(),
			d.cfg.FrameWidth, d.cfg.FrameHeight)

		log.Printf("Scale factor: Width=%.3f, Height=%.3f\n",
			d.resizer.ScaleW(), d.resizer.ScaleH())
	}

	working := gocv.NewMat()
	d.resizer.Resize(frame, &working)

	return working
}

// initialise resets the tracker and trains it on bb of the working frame
func (d *Demo) initialise(working gocv.Mat, bb geom.FloatRect) error {

	rep, err := preprocess.NewImageRep(working, d.tracker.ImageOptions())
	if err != nil {
		return fmt.Errorf("error building frame representation: %w", err)
	}

	d.tracker.Reset()
	d.trail.Reset()
	d.tracker.InitialiseRep(rep, bb)
	d.trail.Add(d.tracker.BB())

	log.Printf("Tracker initialised with box %v\n", d.tracker.BB())

	return nil
}

// track moves the tracker onto the working frame
func (d *Demo) track(working gocv.Mat) error {

	rep, err := preprocess.NewImageRep(working, d.tracker.ImageOptions())
	if err != nil {
		return fmt.Errorf("error building frame representation: %w", err)
	}

	d.tracker.TrackRep(rep)
	d.trail.Add(d.tracker.BB())
	d.scores = append(d.scores, d.tracker.BestScore())

	if d.cfg.DebugMode {
		log.Printf("Learner: %s\n", d.tracker.Debug())
	}

	return nil
}

// writeResult records the tracked box in source coordinates
func (d *Demo) writeResult() error {

	bb := d.resizer.ToSource(d.tracker.BB())
	d.boxes = append(d.boxes, bb)

	if d.results == nil {
		return nil
	}

	_, err := fmt.Fprintf(d.results, "%.2f,%.2f,%.2f,%.2f\n", bb.X, bb.Y, bb.W, bb.H)

	return err
}

// show draws the tracker state on the working frame and displays it,
// returning the key pressed.  gt is drawn when not nil.
func (d *Demo) show(working gocv.Mat, gt *geom.FloatRect, pending *geom.FloatRect) int {

	if d.window == nil {
		return -1
	}

	display := gocv.NewMat()
	defer display.Close()

	if working.Channels() == 1 {
		gocv.CvtColor(working, &display, gocv.ColorGrayToBGR)
	} else {
		working.CopyTo(&display)
	}

	if gt != nil {
		render.TrackerBox(&display, *gt, "", render.Green, render.DefaultFont(), 1)
	}

	if pending != nil {
		render.TrackerBox(&display, *pending, "press i", render.White, render.DefaultFont(), 1)
	}

	if d.tracker.IsInitialised() {
		render.Trail(&display, d.trail, render.DefaultTrailStyle())
		render.TrackerBox(&display, d.tracker.BB(),
			fmt.Sprintf("%.3f", d.tracker.BestScore()), render.BoxColor(0),
			render.DefaultFont(), 2)
	}

	d.window.IMShow(display)

	if d.scoreWindow != nil && d.tracker.ScoreMap() != nil {
		heat, err := render.ScoreMap(d.tracker.ScoreMap(), scoreCellSize)
		if err != nil {
			log.Printf("Error rendering score map: %v", err)
		} else {
			d.scoreWindow.IMShow(heat)
			heat.Close()
		}
	}

	delay := 1
	if d.paused {
		delay = 0
	}

	return d.window.WaitKey(delay)
}

// handleKey applies the pause and quit keys
func (d *Demo) handleKey(key int) error {

	switch key {
	case 'q', keyEsc:
		return errQuit
	case 'p':
		d.paused = !d.paused
	}

	return nil
}

// RunSequence tracks through the configured image sequence, initialising
// from its ground truth box
func (d *Demo) RunSequence(ctx context.Context) error {

	seq, err := sequence.Open(d.cfg.SequenceBasePath, d.cfg.SequenceName)
	if err != nil {
		return err
	}

	log.Printf("Sequence %s frames %d to %d\n", seq.Name, seq.StartFrame, seq.EndFrame)

	for i := seq.StartFrame; i <= seq.EndFrame; i++ {

		if ctx.Err() != nil {
			log.Printf("Interrupted at frame %d\n", i)
			return nil
		}

		frame, err := seq.ReadFrame(i)
		if err != nil {
			return err
		}

		working := d.prepare(frame)
		frame.Close()

		if i == seq.StartFrame {
			err = d.initialise(working, d.resizer.ToWorking(seq.InitBB))
		} else {
			err = d.track(working)
		}

		if err == nil {
			err = d.writeResult()
		}

		var gt *geom.FloatRect
		if i == seq.StartFrame {
			bb := d.resizer.ToWorking(seq.InitBB)
			gt = &bb
		}

		key := d.show(working, gt, nil)
		working.Close()

		if err != nil {
			return err
		}

		if err := d.handleKey(key); err != nil {
			return err
		}
	}

	if gt := seq.GroundTruth(); len(gt) > 1 {
		m := struck.Evaluate(d.boxes, gt)
		log.Printf("Mean IoU %.3f, success %.3f, centre error %.1fpx over %d frames\n",
			m.MeanIoU, m.SuccessRate, m.CentreError, m.Frames)
	}

	return nil
}

// RunCamera tracks on the default camera.  Press 'i' to initialise on the
// central box.
func (d *Demo) RunCamera(ctx context.Context) error {

	webcam, err := gocv.OpenVideoCapture(0)
	if err != nil {
		return fmt.Errorf("error opening camera: %w", err)
	}
	defer webcam.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	centre := geom.NewRect(
		float64(d.cfg.FrameWidth-cameraBoxSize)/2,
		float64(d.cfg.FrameHeight-cameraBoxSize)/2,
		cameraBoxSize, cameraBoxSize,
	)

	for ctx.Err() == nil {

		if ok := webcam.Read(&frame); !ok || frame.Empty() {
			return errors.New("error reading camera frame")
		}

		working := d.prepare(frame)

		var err error
		if d.tracker.IsInitialised() {
			err = d.track(working)
		}

		var pending *geom.FloatRect
		if !d.tracker.IsInitialised() {
			pending = &centre
		}

		key := d.show(working, nil, pending)

		if err == nil && key == 'i' {
			err = d.initialise(working, centre)
		}

		working.Close()

		if err != nil {
			return err
		}

		if err := d.handleKey(key); err != nil {
			return err
		}
	}

	return nil
}

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	configFile := flag.String("c", "config.yaml", "YAML configuration file")
	plotFile := flag.String("plot", "", "Save a plot of the best score per frame to this PNG file")
	benchSeqs := flag.String("bench", "", "Comma delimited list of sequences to track headless and evaluate against ground truth")
	poolSize := flag.Int("s", 2, "Number of sequences to track concurrently in benchmark mode")

	flag.Parse()

	// tag log lines with a run id so concurrent runs can be told apart
	log.SetPrefix(fmt.Sprintf("[%s] ", uuid.New().String()[:8]))

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *benchSeqs != "" {
		if err := runBenchmark(ctx, cfg, strings.Split(*benchSeqs, ","), *poolSize); err != nil {
			log.Fatalf("Error running benchmark: %v", err)
		}
		return
	}

	demo, err := NewDemo(cfg)
	if err != nil {
		log.Fatalf("Error creating demo: %v", err)
	}

	if cfg.SequenceName != "" {
		err = demo.RunSequence(ctx)
	} else {
		err = demo.RunCamera(ctx)
	}

	if cerr := demo.Close(); cerr != nil {
		log.Printf("Error closing demo: %v", cerr)
	}

	if err != nil && !errors.Is(err, errQuit) {
		log.Fatalf("Error tracking: %v", err)
	}

	if *plotFile != "" && len(demo.Scores()) > 0 {
		if err := render.ScoreTrace(demo.Scores(), *plotFile); err != nil {
			log.Fatalf("Error saving score plot: %v", err)
		}
		log.Printf("Saved score plot to %s\n", *plotFile)
	}

	log.Printf("Tracked %d frames\n", len(demo.Scores()))
}

// runBenchmark tracks the named sequences concurrently and logs the accuracy
// of each against its ground truth
func runBenchmark(ctx context.Context, cfg *config.Config, names []string, poolSize int) error {

	tc, err := cfg.TrackerConfig()
	if err != nil {
		return err
	}

	seqs := make([]*sequence.Sequence, 0, len(names))

	for _, name := range names {
		seq, err := sequence.Open(cfg.SequenceBasePath, strings.TrimSpace(name))
		if err != nil {
			return err
		}
		seqs = append(seqs, seq)
	}

	pool, err := struck.NewPool(poolSize, tc)
	if err != nil {
		return fmt.Errorf("error creating tracker pool: %w", err)
	}
	defer pool.Close()

	results, err := struck.Benchmark(ctx, pool, seqs, cfg.FrameWidth, cfg.FrameHeight)
	if err != nil {
		return err
	}

	for _, res := range results {
		log.Printf("%s: %d frames, mean IoU %.3f, success %.3f, centre error %.1fpx, %.1f FPS\n",
			res.Sequence, len(res.Boxes), res.Metrics.MeanIoU, res.Metrics.SuccessRate,
			res.Metrics.CentreError, res.FPS())
	}

	return nil
}
