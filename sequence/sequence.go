/*
Package sequence reads benchmark image sequences laid out as

	<base>/<name>/<name>_frames.txt   first and last frame number "start,end"
	<base>/<name>/<name>_gt.txt       boxes "x,y,w,h" one per line, the
	                                  first is the initial box
	<base>/<name>/imgs/img%05d.png    frames
*/
package sequence

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/swdee/go-struck/geom"
	"gocv.io/x/gocv"
)

// Sequence describes an image sequence on disk
type Sequence struct {
	// Name of the sequence
	Name string
	// Dir is the sequence directory
	Dir string
	// StartFrame and EndFrame are the first and last frame numbers
	StartFrame int
	EndFrame   int
	// InitBB is the ground truth box of the first frame in source image
	// coordinates
	InitBB geom.FloatRect
	// groundTruth holds every box of the ground truth file
	groundTruth []geom.FloatRect
}

// Open reads the frame range and initial box of sequence name under base
func Open(base, name string) (*Sequence, error) {

	dir := filepath.Join(base, name)

	framesLines, err := readLines(filepath.Join(dir, name+"_frames.txt"))
	if err != nil {
		return nil, err
	}

	framesLine := framesLines[0]

	frames, err := parseFields(framesLine, 2)
	if err != nil {
		return nil, fmt.Errorf("error parsing frames file of %s: %w", name, err)
	}

	start, end := int(frames[0]), int(frames[1])

	if float64(start) != frames[0] || float64(end) != frames[1] || start > end {
		return nil, fmt.Errorf("invalid frame range %q of %s", framesLine, name)
	}

	gtLines, err := readLines(filepath.Join(dir, name+"_gt.txt"))
	if err != nil {
		return nil, err
	}

	gt := make([]geom.FloatRect, len(gtLines))

	for i, line := range gtLines {
		v, err := parseFields(line, 4)
		if err != nil {
			return nil, fmt.Errorf("error parsing ground truth line %d of %s: %w", i+1, name, err)
		}
		for _, f := range v {
			if f < 0 {
				return nil, fmt.Errorf("negative value on ground truth line %d of %s: %q", i+1, name, line)
			}
		}
		gt[i] = geom.NewRect(v[0], v[1], v[2], v[3])
	}

	if gt[0].W <= 0 || gt[0].H <= 0 {
		return nil, fmt.Errorf("invalid initial box %q of %s", gtLines[0], name)
	}

	return &Sequence{
		Name:        name,
		Dir:         dir,
		StartFrame:  start,
		EndFrame:    end,
		InitBB:      gt[0],
		groundTruth: gt,
	}, nil
}

// GroundTruth returns the ground truth boxes listed for the sequence, one
// per frame from StartFrame when the file is complete
func (s *Sequence) GroundTruth() []geom.FloatRect {
	return s.groundTruth
}

// Len returns the number of frames
func (s *Sequence) Len() int {
	return s.EndFrame - s.StartFrame + 1
}

// FramePath returns the path of frame number i
func (s *Sequence) FramePath(i int) string {
	return filepath.Join(s.Dir, "imgs", fmt.Sprintf("img%05d.png", i))
}

// ReadFrame loads frame number i as a grayscale Mat.  The caller must Close
// the Mat.
func (s *Sequence) ReadFrame(i int) (gocv.Mat, error) {

	path := s.FramePath(i)
	mat := gocv.IMRead(path, gocv.IMReadGrayScale)

	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("error reading frame %s", path)
	}

	return mat, nil
}

// readLines returns the non blank lines of a file, failing if there are none
func readLines(path string) ([]string, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	return lines, nil
}

// parseFields parses exactly n comma separated numbers
func parseFields(line string, n int) ([]float64, error) {

	parts := strings.Split(line, ",")

	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma separated values, got %q", n, line)
	}

	vals := make([]float64, n)

	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", p, err)
		}
		vals[i] = v
	}

	return vals, nil
}
