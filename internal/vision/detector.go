package vision

import (
	"image"

	"github.com/LdDl/quadtrack/qtrack"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Mask cleanup: erosion then dilation, two iterations each, with a 3x3 kernel
const morphIterations = 2

// ColorDetector finds candidate ball regions of a given color class on a BGR frame.
// Begin must be called once per frame before asking for candidates.
type ColorDetector struct {
	hsv    gocv.Mat
	mask   gocv.Mat
	kernel gocv.Mat
	ready  bool
}

// NewColorDetector allocates buffers. Call Close when done.
func NewColorDetector() *ColorDetector {
	return &ColorDetector{
		hsv:    gocv.NewMat(),
		mask:   gocv.NewMat(),
		kernel: gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3)),
	}
}

// Begin converts frame to HSV once so every color class reuses it
func (detector *ColorDetector) Begin(frame gocv.Mat) error {
	if frame.Empty() {
		detector.ready = false
		return errors.New("empty frame")
	}
	gocv.CvtColor(frame, &detector.hsv, gocv.ColorBGRToHSV)
	detector.ready = true
	return nil
}

// Candidates returns every external contour of the class's color mask in
// contour-finding order. Area filtering and tie-breaking are left to qtrack.Selector.
func (detector *ColorDetector) Candidates(class qtrack.ColorClass) ([]qtrack.Candidate, error) {
	if !detector.ready {
		return nil, errors.New("detector has no frame: call Begin first")
	}
	lower := gocv.NewScalar(float64(class.Lower.H), float64(class.Lower.S), float64(class.Lower.V), 0)
	upper := gocv.NewScalar(float64(class.Upper.H), float64(class.Upper.S), float64(class.Upper.V), 0)
	gocv.InRangeWithScalar(detector.hsv, lower, upper, &detector.mask)
	for i := 0; i < morphIterations; i++ {
		gocv.Erode(detector.mask, &detector.mask, detector.kernel)
	}
	for i := 0; i < morphIterations; i++ {
		gocv.Dilate(detector.mask, &detector.mask, detector.kernel)
	}

	contours := gocv.FindContours(detector.mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	candidates := make([]qtrack.Candidate, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		rect := gocv.BoundingRect(contour)
		candidates = append(candidates, qtrack.NewCandidate(qtrack.NewRectFrom(rect), area))
	}
	return candidates, nil
}

// Close releases buffers
func (detector *ColorDetector) Close() error {
	detector.hsv.Close()
	detector.mask.Close()
	detector.kernel.Close()
	return nil
}
