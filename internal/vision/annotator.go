package vision

import (
	"fmt"
	"image"
	"image/color"

	"github.com/LdDl/quadtrack/qtrack"
	"gocv.io/x/gocv"
)

var markerColor = color.RGBA{0, 255, 0, 0}

// Mark is a detected ball to be drawn on a sampled frame
type Mark struct {
	Color    string
	Center   qtrack.Point
	Quadrant qtrack.Quadrant
	// Optional smoothed track history
	Trail []qtrack.Point
}

// Annotator draws detection markers, labels and a timestamp overlay.
type Annotator struct {
	// Whether to draw each mark's trail
	DrawTrail bool
}

// NewAnnotator creates annotator
func NewAnnotator(drawTrail bool) *Annotator {
	return &Annotator{DrawTrail: drawTrail}
}

// Annotate draws marks in place. The overlay lists "<time>s <quadrant>" per mark
// in the top-left corner.
func (annotator *Annotator) Annotate(frame *gocv.Mat, timestamp float64, marks []Mark) {
	for i, mark := range marks {
		center := mark.Center.ImagePoint()
		if annotator.DrawTrail {
			for j := 1; j < len(mark.Trail); j++ {
				gocv.Line(frame, mark.Trail[j-1].ImagePoint(), mark.Trail[j].ImagePoint(), markerColor, 2)
			}
		}
		gocv.Circle(frame, center, 10, markerColor, -1)
		gocv.PutText(frame, fmt.Sprintf("%s Ball", mark.Color), image.Pt(center.X-20, center.Y-20), gocv.FontHersheySimplex, 0.5, markerColor, 2)
		gocv.PutText(frame, fmt.Sprintf("%.2fs %d", timestamp, int(mark.Quadrant)), image.Pt(10, 30+25*i), gocv.FontHersheySimplex, 0.6, markerColor, 2)
	}
}
