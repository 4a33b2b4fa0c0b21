package qtrack

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Quadrant is a 1-based region number. The four-quadrant layout uses the fixed
// numbering 1=TopLeft, 2=TopRight, 3=BottomLeft, 4=BottomRight; larger grids keep
// counting row-major.
type Quadrant int

const (
	QuadrantNone Quadrant = iota
	QuadrantTopLeft
	QuadrantTopRight
	QuadrantBottomLeft
	QuadrantBottomRight
)

func (q Quadrant) String() string {
	switch q {
	case QuadrantTopLeft:
		return "TopLeft"
	case QuadrantTopRight:
		return "TopRight"
	case QuadrantBottomLeft:
		return "BottomLeft"
	case QuadrantBottomRight:
		return "BottomRight"
	case QuadrantNone:
		return "None"
	default:
		return fmt.Sprintf("Cell%d", int(q))
	}
}

// Valid reports whether q names a region at all
func (q Quadrant) Valid() bool {
	return q > QuadrantNone
}

// Classify maps a point to one of the four quadrants split by the midlines
// x = halfWidth and y = halfHeight. Points on a midline belong to the right
// (or bottom) side. Coordinates are not bounds checked.
func Classify(x, y, halfWidth, halfHeight float64) Quadrant {
	left := x < halfWidth
	top := y < halfHeight
	switch {
	case left && top:
		return QuadrantTopLeft
	case !left && top:
		return QuadrantTopRight
	case left && !top:
		return QuadrantBottomLeft
	default:
		return QuadrantBottomRight
	}
}

// Geometry splits a frame into numbered regions.
type Geometry interface {
	// Classify returns the region containing p. Must be pure.
	Classify(p Point) Quadrant
	// Count returns number of regions
	Count() int
}

// Grid is a rows x cols split of the frame into equally sized cells. Cell size
// is computed once from frame dimensions with integer division, the same way
// the quadrant midlines are.
type Grid struct {
	rows       int
	cols       int
	cellWidth  float64
	cellHeight float64
}

// NewGrid creates a rows x cols grid for a frame of the given size
func NewGrid(frameWidth, frameHeight, rows, cols int) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, errors.Errorf("grid must have at least one row and column, got %dx%d", rows, cols)
	}
	if frameWidth < cols || frameHeight < rows {
		return nil, errors.Errorf("frame %dx%d is too small for %dx%d grid", frameWidth, frameHeight, rows, cols)
	}
	return &Grid{
		rows:       rows,
		cols:       cols,
		cellWidth:  float64(frameWidth / cols),
		cellHeight: float64(frameHeight / rows),
	}, nil
}

// NewQuadrantGrid creates the standard 2x2 layout. Frames smaller than 2x2 pixels
// still get a grid: the midline is then at 0 and everything counts as right/bottom.
func NewQuadrantGrid(frameWidth, frameHeight int) *Grid {
	return &Grid{
		rows:       2,
		cols:       2,
		cellWidth:  float64(frameWidth / 2),
		cellHeight: float64(frameHeight / 2),
	}
}

// Midlines returns cell width and height. For the 2x2 layout these are the
// half-width and half-height thresholds.
func (grid *Grid) Midlines() (float64, float64) {
	return grid.cellWidth, grid.cellHeight
}

// Count returns number of cells
func (grid *Grid) Count() int {
	return grid.rows * grid.cols
}

// Classify returns the cell containing p. Points outside of the frame are
// clamped to the nearest edge cell.
func (grid *Grid) Classify(p Point) Quadrant {
	if grid.rows == 2 && grid.cols == 2 {
		return Classify(p.X, p.Y, grid.cellWidth, grid.cellHeight)
	}
	col := cellIndex(p.X, grid.cellWidth, grid.cols)
	row := cellIndex(p.Y, grid.cellHeight, grid.rows)
	return Quadrant(row*grid.cols + col + 1)
}

func cellIndex(v, size float64, n int) int {
	if size <= 0 {
		return n - 1
	}
	idx := int(math.Floor(v / size))
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
