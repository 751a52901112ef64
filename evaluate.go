package struck

import (
	"math"

	"github.com/swdee/go-struck/geom"
	"gonum.org/v1/gonum/stat"
)

// SuccessThreshold is the overlap above which a tracked frame counts as a
// success
const SuccessThreshold = 0.5

// Metrics summarises tracking accuracy against ground truth
type Metrics struct {
	// Frames is the number of frames compared
	Frames int
	// MeanIoU is the mean intersection over union
	MeanIoU float64
	// SuccessRate is the fraction of frames with IoU above SuccessThreshold
	SuccessRate float64
	// CentreError is the mean distance in pixels between box centres
	CentreError float64
}

// Evaluate compares tracked boxes with ground truth frame by frame.  Ground
// truth boxes with no area mark frames without annotation and are skipped,
// as are frames beyond the shorter of the two lists.
func Evaluate(boxes, gt []geom.FloatRect) Metrics {

	n := min(len(boxes), len(gt))
	ious := make([]float64, 0, n)
	dists := make([]float64, 0, n)
	success := 0

	for i := 0; i < n; i++ {
		if gt[i].W <= 0 || gt[i].H <= 0 {
			continue
		}

		iou := boxes[i].CalcIoU(gt[i])
		if iou > SuccessThreshold {
			success++
		}

		bx, by := boxes[i].Centre()
		gx, gy := gt[i].Centre()

		ious = append(ious, iou)
		dists = append(dists, math.Hypot(bx-gx, by-gy))
	}

	if len(ious) == 0 {
		return Metrics{}
	}

	return Metrics{
		Frames:      len(ious),
		MeanIoU:     stat.Mean(ious, nil),
		SuccessRate: float64(success) / float64(len(ious)),
		CentreError: stat.Mean(dists, nil),
	}
}
