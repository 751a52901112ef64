package render

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ScoreTrace saves a line plot of the best tracker score of every frame to
// path, the image format follows the file extension
func ScoreTrace(scores []float64, path string) error {

	if len(scores) == 0 {
		return errors.New("no scores to plot")
	}

	p := plot.New()
	p.Title.Text = "Tracker score"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Best score"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(scores))
	for i, s := range scores {
		pts[i] = plotter.XY{X: float64(i), Y: s}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("error creating score line: %w", err)
	}
	line.Color = boxColors[4]
	line.Width = vg.Points(1)
	p.Add(line)

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("error saving score plot: %w", err)
	}

	return nil
}
