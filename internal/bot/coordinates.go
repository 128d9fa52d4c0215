package bot

import (
	"fmt"

	"screenbot/internal/window"
)

// Mapper converts window-relative capture-pixel coordinates to absolute
// screen points suitable for input injection. Capture frames are in physical
// pixels while the injection API works in points, so the relative coordinate
// is divided by the DPI ratio before the window origin is added.
type Mapper struct {
	DPIRatio int
}

// NewMapper creates a mapper for the given DPI ratio.
func NewMapper(dpiRatio int) Mapper {
	return Mapper{DPIRatio: dpiRatio}
}

// Validate reports an unusable ratio.
func (m Mapper) Validate() error {
	if m.DPIRatio < 1 {
		return fmt.Errorf("dpi ratio %d is invalid (must be >= 1)", m.DPIRatio)
	}
	return nil
}

// ToScreen maps the window-relative pixel coordinate (rx, ry) into absolute
// screen points. Division and origin conversion both truncate toward zero,
// matching the pixel grid the capture came from.
func (m Mapper) ToScreen(origin window.Bounds, rx, ry int) (int, int) {
	x := rx/m.DPIRatio + int(origin.X)
	y := ry/m.DPIRatio + int(origin.Y)
	return x, y
}

func (m Mapper) String() string {
	return fmt.Sprintf("Mapper(dpi=%d)", m.DPIRatio)
}
