package qtrack

import (
	"github.com/pkg/errors"
)

// HSV is a color in OpenCV's 8-bit HSV space (H in [0, 180], S and V in [0, 255])
type HSV struct {
	H uint8
	S uint8
	V uint8
}

// ColorClass identifies a ball by its color. Two balls of the same class are
// indistinguishable.
type ColorClass struct {
	Name  string
	Lower HSV
	Upper HSV
}

// Contains reports whether c lies within the class's inclusive range
func (class ColorClass) Contains(c HSV) bool {
	return c.H >= class.Lower.H && c.H <= class.Upper.H &&
		c.S >= class.Lower.S && c.S <= class.Upper.S &&
		c.V >= class.Lower.V && c.V <= class.Upper.V
}

// Palette is the ordered set of color classes for a run. Order determines the
// order in which colors are detected and, therefore, the order of same-frame
// events for different colors.
type Palette []ColorClass

// DefaultPalette returns yellow, white, peach and green ranges
func DefaultPalette() Palette {
	return Palette{
		{Name: "yellow", Lower: HSV{25, 100, 100}, Upper: HSV{35, 255, 255}},
		{Name: "white", Lower: HSV{0, 0, 200}, Upper: HSV{180, 30, 255}},
		{Name: "peach", Lower: HSV{5, 50, 50}, Upper: HSV{15, 255, 255}},
		{Name: "green", Lower: HSV{40, 50, 50}, Upper: HSV{80, 255, 255}},
	}
}

// Names returns class names in palette order
func (palette Palette) Names() []string {
	names := make([]string, len(palette))
	for i, class := range palette {
		names[i] = class.Name
	}
	return names
}

// Validate checks that names are non-empty and unique and that every range is well-formed
func (palette Palette) Validate() error {
	if len(palette) == 0 {
		return errors.New("palette is empty")
	}
	seen := make(map[string]struct{}, len(palette))
	for i, class := range palette {
		if class.Name == "" {
			return errors.Errorf("color class #%d has empty name", i)
		}
		if _, ok := seen[class.Name]; ok {
			return errors.Errorf("duplicate color class '%s'", class.Name)
		}
		seen[class.Name] = struct{}{}
		if class.Lower.H > class.Upper.H || class.Lower.S > class.Upper.S || class.Lower.V > class.Upper.V {
			return errors.Errorf("color class '%s' has lower bound %v above upper bound %v", class.Name, class.Lower, class.Upper)
		}
		if class.Upper.H > 180 {
			return errors.Errorf("color class '%s' has hue %d out of [0, 180]", class.Name, class.Upper.H)
		}
	}
	return nil
}
