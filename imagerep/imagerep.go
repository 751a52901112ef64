/*
Package imagerep builds the per frame representation the tracker queries:
single channel pixel planes plus optional integral images and integral
histograms so that windowed sums and histograms cost four array reads.

An ImageRep is immutable once constructed and may be read concurrently.
*/
package imagerep

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/swdee/go-struck/geom"
)

// NumBins is the number of intensity bins in the integral histogram
const NumBins = 16

// Options selects which integral structures to compute
type Options struct {
	// Integral computes one integral image per channel for Sum queries
	Integral bool
	// IntegralHist computes NumBins integral images of channel 0 bin
	// masks for Hist queries
	IntegralHist bool
	// Colour keeps three separate channels instead of converting the source
	// to luminance
	Colour bool
}

// ImageRep holds the channel planes of a frame and their integral images
type ImageRep struct {
	width    int
	height   int
	channels int
	// planes holds one single channel image per channel
	planes []*image.Gray
	// integral holds a (width+1)*(height+1) prefix sum plane per channel
	integral [][]int64
	// integralHist holds a (width+1)*(height+1) prefix sum plane per bin
	integralHist [][]int32
}

// New builds an ImageRep from a decoded image.  A colour request splits the
// source into R, G and B planes, otherwise a colour source is converted to
// luminance and a gray source is copied.
func New(img image.Image, opts Options) *ImageRep {

	b := img.Bounds()

	if !opts.Colour {
		gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

		if src, ok := img.(*image.Gray); ok {
			for y := 0; y < b.Dy(); y++ {
				copy(gray.Pix[y*gray.Stride:y*gray.Stride+b.Dx()],
					src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
			}
		} else {
			// draw converts through color.GrayModel (ITU-R 601 luma)
			draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
		}

		return FromPlanes([]*image.Gray{gray}, opts)
	}

	planes := make([]*image.Gray, 3)

	for c := range planes {
		planes[c] = image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			px := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			off := y*planes[0].Stride + x
			planes[0].Pix[off] = px.R
			planes[1].Pix[off] = px.G
			planes[2].Pix[off] = px.B
		}
	}

	return FromPlanes(planes, opts)
}

// FromPlanes builds an ImageRep from already separated channel planes which
// must all share the same dimensions.  The planes are retained, not copied.
func FromPlanes(planes []*image.Gray, opts Options) *ImageRep {

	if len(planes) != 1 && len(planes) != 3 {
		panic(fmt.Sprintf("imagerep: expected 1 or 3 planes, got %d", len(planes)))
	}

	b := planes[0].Bounds()

	for i, p := range planes {
		if p.Bounds().Dx() != b.Dx() || p.Bounds().Dy() != b.Dy() {
			panic(fmt.Sprintf("imagerep: plane %d size %v does not match %v",
				i, p.Bounds().Size(), b.Size()))
		}
		// normalise planes to a zero origin so pixel offsets are direct
		if p.Bounds().Min != (image.Point{}) {
			planes[i] = &image.Gray{
				Pix:    p.Pix[p.PixOffset(p.Bounds().Min.X, p.Bounds().Min.Y):],
				Stride: p.Stride,
				Rect:   image.Rect(0, 0, b.Dx(), b.Dy()),
			}
		}
	}

	r := &ImageRep{
		width:    b.Dx(),
		height:   b.Dy(),
		channels: len(planes),
		planes:   planes,
	}

	if opts.Integral {
		r.integral = make([][]int64, r.channels)

		for c := 0; c < r.channels; c++ {
			r.integral[c] = r.integralImage(r.planes[c])
		}
	}

	if opts.IntegralHist {
		r.integralHist = r.integralHistogram(r.planes[0])
	}

	return r
}

// integralImage returns the prefix sum plane of p where entry (y, x) holds
// the sum of all pixels above and left of (x, y) exclusive
func (r *ImageRep) integralImage(p *image.Gray) []int64 {

	stride := r.width + 1
	sum := make([]int64, stride*(r.height+1))

	for y := 0; y < r.height; y++ {
		row := p.Pix[y*p.Stride : y*p.Stride+r.width]
		var rowSum int64

		for x, v := range row {
			rowSum += int64(v)
			sum[(y+1)*stride+x+1] = sum[y*stride+x+1] + rowSum
		}
	}

	return sum
}

// integralHistogram quantises p into NumBins bins and computes the prefix
// sum of each bins binary mask
func (r *ImageRep) integralHistogram(p *image.Gray) [][]int32 {

	stride := r.width + 1
	hist := make([][]int32, NumBins)

	for j := range hist {
		hist[j] = make([]int32, stride*(r.height+1))
	}

	rowSums := make([]int32, NumBins)

	for y := 0; y < r.height; y++ {
		clear(rowSums)
		row := p.Pix[y*p.Stride : y*p.Stride+r.width]

		for x, v := range row {
			rowSums[Bin(v)]++

			above := y*stride + x + 1
			here := (y+1)*stride + x + 1

			for j := 0; j < NumBins; j++ {
				hist[j][here] = hist[j][above] + rowSums[j]
			}
		}
	}

	return hist
}

// Bin returns the histogram bin of an 8 bit intensity
func Bin(v uint8) int {
	return int(v) * NumBins / 256
}

// Width returns the frame width in pixels
func (r *ImageRep) Width() int {
	return r.width
}

// Height returns the frame height in pixels
func (r *ImageRep) Height() int {
	return r.height
}

// Channels returns the number of planes, 1 or 3
func (r *ImageRep) Channels() int {
	return r.channels
}

// Rect returns the frame bounds as a rectangle at the origin
func (r *ImageRep) Rect() geom.IntRect {
	return geom.NewRect(0, 0, r.width, r.height)
}

// Plane returns the pixel plane for channel c
func (r *ImageRep) Plane(c int) *image.Gray {
	return r.planes[c]
}

// HasIntegral reports whether Sum queries are available
func (r *ImageRep) HasIntegral() bool {
	return r.integral != nil
}

// HasIntegralHist reports whether Hist queries are available
func (r *ImageRep) HasIntegralHist() bool {
	return r.integralHist != nil
}

// checkBounds panics if rect is not fully inside the frame
func (r *ImageRep) checkBounds(rect geom.IntRect) {
	if rect.XMin() < 0 || rect.YMin() < 0 || rect.XMax() > r.width || rect.YMax() > r.height ||
		rect.W < 0 || rect.H < 0 {
		panic(fmt.Sprintf("imagerep: region %+v outside frame %dx%d", rect, r.width, r.height))
	}
}

// corners applies the inclusion-exclusion formula to a prefix sum plane
func corners[T int32 | int64](plane []T, stride int, rect geom.IntRect) T {
	return plane[rect.YMin()*stride+rect.XMin()] +
		plane[rect.YMax()*stride+rect.XMax()] -
		plane[rect.YMax()*stride+rect.XMin()] -
		plane[rect.YMin()*stride+rect.XMax()]
}

// Sum returns the sum of pixel values of channel inside rect.  The rect
// must lie within the frame and the integral image must have been computed.
func (r *ImageRep) Sum(rect geom.IntRect, channel int) int64 {

	r.checkBounds(rect)

	if r.integral == nil {
		panic("imagerep: Sum requires the integral image")
	}

	return corners(r.integral[channel], r.width+1, rect)
}

// HistCounts writes the number of pixels of each bin inside rect into dst
func (r *ImageRep) HistCounts(rect geom.IntRect, dst []int) {

	r.checkBounds(rect)

	if r.integralHist == nil {
		panic("imagerep: Hist requires the integral histogram")
	}

	if len(dst) != NumBins {
		panic(fmt.Sprintf("imagerep: histogram needs %d bins, got %d", NumBins, len(dst)))
	}

	for j := 0; j < NumBins; j++ {
		dst[j] = int(corners(r.integralHist[j], r.width+1, rect))
	}
}

// Hist writes the intensity histogram of rect normalised by its area into
// dst.  An empty rect yields all zero bins.
func (r *ImageRep) Hist(rect geom.IntRect, dst []float64) {

	counts := make([]int, NumBins)
	r.HistCounts(rect, counts)

	if len(dst) != NumBins {
		panic(fmt.Sprintf("imagerep: histogram needs %d bins, got %d", NumBins, len(dst)))
	}

	norm := rect.Area()

	for j, c := range counts {
		if norm == 0 {
			dst[j] = 0
			continue
		}
		dst[j] = float64(c) / float64(norm)
	}
}
