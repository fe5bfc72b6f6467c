package render

import (
	"fmt"
	"strings"

	"github.com/ddvk/dxf2png/dxf"
	"github.com/ddvk/dxf2png/raster"
)

// FillMode controls how an entity is drawn into the layer mask.
type FillMode int

const (
	Outline FillMode = iota
	Solid
)

var fillModeNames = map[FillMode]string{
	Outline: "outline",
	Solid:   "solid",
}

func (m FillMode) String() string {
	if name, ok := fillModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("FillMode(%d)", int(m))
}

func (m FillMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *FillMode) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for mode, name := range fillModeNames {
		if name == s {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown fill mode %q, want outline or solid", string(text))
}

// thickness is the raster thickness for the mode, stroke being the outline width.
func (m FillMode) thickness(stroke int) int {
	if m == Solid {
		return raster.Filled
	}
	return stroke
}

// DefaultMaskFill is used for every kind missing from Options.MaskFill.
// Lines, polylines and arcs are always stroked and hatches always filled.
var DefaultMaskFill = map[dxf.EntityType]FillMode{
	dxf.CircleType:  Solid,
	dxf.PointType:   Solid,
	dxf.EllipseType: Outline,
}

// Configurable reports whether the mask fill of kind can be changed.
func Configurable(kind dxf.EntityType) bool {
	_, ok := DefaultMaskFill[kind]
	return ok
}
