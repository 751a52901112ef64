package preprocess

import (
	"errors"
	"fmt"
	"image"

	"github.com/swdee/go-struck/imagerep"
	"gocv.io/x/gocv"
)

// NewImageRep builds the tracker frame representation from a gray, BGR or
// BGRA Mat.  Colour options split the frame into R, G and B planes,
// otherwise colour frames are converted to gray.
func NewImageRep(mat gocv.Mat, opts imagerep.Options) (*imagerep.ImageRep, error) {

	if mat.Empty() {
		return nil, errors.New("empty frame")
	}

	bgr := gocv.NewMat()
	defer bgr.Close()

	switch mat.Channels() {
	case 1:
		if !opts.Colour {
			plane, err := grayPlane(mat)
			if err != nil {
				return nil, err
			}
			return imagerep.FromPlanes([]*image.Gray{plane}, opts), nil
		}
		gocv.CvtColor(mat, &bgr, gocv.ColorGrayToBGR)
	case 3:
		mat.CopyTo(&bgr)
	case 4:
		gocv.CvtColor(mat, &bgr, gocv.ColorBGRAToBGR)
	default:
		return nil, fmt.Errorf("unsupported frame with %d channels", mat.Channels())
	}

	if !opts.Colour {
		gray := gocv.NewMat()
		defer gray.Close()

		gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)

		plane, err := grayPlane(gray)
		if err != nil {
			return nil, err
		}

		return imagerep.FromPlanes([]*image.Gray{plane}, opts), nil
	}

	channels := gocv.Split(bgr)
	defer func() {
		for _, c := range channels {
			c.Close()
		}
	}()

	// OpenCV orders channels B, G, R
	planes := make([]*image.Gray, 3)

	for i, c := range channels {
		plane, err := grayPlane(c)
		if err != nil {
			return nil, err
		}
		planes[2-i] = plane
	}

	return imagerep.FromPlanes(planes, opts), nil
}

// grayPlane copies a single channel 8 bit Mat into an image.Gray
func grayPlane(mat gocv.Mat) (*image.Gray, error) {

	if mat.Type() != gocv.MatTypeCV8UC1 {
		return nil, fmt.Errorf("expected 8 bit single channel Mat, got type %v", mat.Type())
	}

	if !mat.IsContinuous() {
		c := mat.Clone()
		defer c.Close()
		mat = c
	}

	return &image.Gray{
		Pix:    mat.ToBytes(),
		Stride: mat.Cols(),
		Rect:   image.Rect(0, 0, mat.Cols(), mat.Rows()),
	}, nil
}
