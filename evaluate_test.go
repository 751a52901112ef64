package struck

import (
	"math"
	"testing"

	"github.com/swdee/go-struck/geom"
)

func TestEvaluate(t *testing.T) {
	gt := []geom.FloatRect{
		geom.NewRect(0.0, 0, 10, 10),
		geom.NewRect(10.0, 10, 10, 10),
		geom.NewRect(0.0, 0, 0, 0), // not annotated
		geom.NewRect(50.0, 50, 10, 10),
	}

	boxes := []geom.FloatRect{
		geom.NewRect(0.0, 0, 10, 10),
		geom.NewRect(13.0, 14, 10, 10),
		geom.NewRect(70.0, 70, 10, 10),
		geom.NewRect(80.0, 80, 10, 10),
		geom.NewRect(90.0, 90, 10, 10), // no ground truth
	}

	m := Evaluate(boxes, gt)

	if m.Frames != 3 {
		t.Fatalf("expected 3 frames compared, got %d", m.Frames)
	}

	if want := 1.0 / 3; math.Abs(m.SuccessRate-want) > 1e-12 {
		t.Errorf("expected success rate %v, got %v", want, m.SuccessRate)
	}

	// second frame overlaps 8x7 inclusive pixels of two 11x11 boxes
	iou := 8.0 * 7 / (121 + 121 - 56)
	if want := (1 + iou + 0) / 3; math.Abs(m.MeanIoU-want) > 1e-12 {
		t.Errorf("expected mean IoU %v, got %v", want, m.MeanIoU)
	}

	if want := (0 + 5 + math.Hypot(30, 30)) / 3; math.Abs(m.CentreError-want) > 1e-12 {
		t.Errorf("expected centre error %v, got %v", want, m.CentreError)
	}
}

func TestEvaluateEmpty(t *testing.T) {
	if m := Evaluate(nil, nil); m != (Metrics{}) {
		t.Errorf("expected zero metrics, got %+v", m)
	}
}
