package dxf

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// EntityType is the DXF type name of an entity.
type EntityType string

const (
	LineType       EntityType = "LINE"
	ArcType        EntityType = "ARC"
	CircleType     EntityType = "CIRCLE"
	EllipseType    EntityType = "ELLIPSE"
	LWPolylineType EntityType = "LWPOLYLINE"
	HatchType      EntityType = "HATCH"
	PointType      EntityType = "POINT"
)

func (t EntityType) String() string {
	return string(t)
}

// ByLayer is the color code that defers to the layer color.
const ByLayer = 256

// VertexStride is the number of packed values per LWPOLYLINE vertex: x, y, start width, end width, bulge.
const VertexStride = 5

type Entity interface {
	Base() *EntityBase
	Type() EntityType
}

// EntityBase holds the attributes shared by every entity.
type EntityBase struct {
	Handle     string
	Layer      string
	Color      int
	Extrusion  r3.Vec
	PaperSpace bool
}

func newBase() EntityBase {
	return EntityBase{
		Layer:     "0",
		Color:     ByLayer,
		Extrusion: r3.Vec{Z: 1},
	}
}

func (b *EntityBase) Base() *EntityBase {
	return b
}

// apply consumes the common group codes, it reports whether p was one of them.
func (b *EntityBase) apply(p Pair) (bool, error) {
	var err error
	switch p.Code {
	case CodeHandle:
		b.Handle = p.Value
	case CodeLayer:
		b.Layer = p.Value
	case CodeColor:
		b.Color, err = p.Int()
	case CodeSpace:
		var v int
		v, err = p.Int()
		b.PaperSpace = v == 1
	case 210, 220, 230:
		err = setCoord(&b.Extrusion, p, 210)
	default:
		return false, nil
	}
	return true, err
}

type Line struct {
	EntityBase
	Start r3.Vec
	End   r3.Vec
}

func (*Line) Type() EntityType { return LineType }

func (t Line) String() string {
	return fmt.Sprintf("Line: Layer:%s %v -> %v", t.Layer, t.Start, t.End)
}

// Arc angles are in degrees, counter-clockwise from StartAngle to EndAngle.
type Arc struct {
	EntityBase
	Center     r3.Vec
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

func (*Arc) Type() EntityType { return ArcType }

func (t Arc) String() string {
	return fmt.Sprintf("Arc: Layer:%s center:%v r:%g %g..%g", t.Layer, t.Center, t.Radius, t.StartAngle, t.EndAngle)
}

type Circle struct {
	EntityBase
	Center r3.Vec
	Radius float64
}

func (*Circle) Type() EntityType { return CircleType }

func (t Circle) String() string {
	return fmt.Sprintf("Circle: Layer:%s center:%v r:%g", t.Layer, t.Center, t.Radius)
}

// Ellipse parameters are in radians. MajorAxis is relative to Center.
type Ellipse struct {
	EntityBase
	Center     r3.Vec
	MajorAxis  r3.Vec
	Ratio      float64
	StartParam float64
	EndParam   float64
}

func (*Ellipse) Type() EntityType { return EllipseType }

func (t Ellipse) String() string {
	return fmt.Sprintf("Ellipse: Layer:%s center:%v axis:%v ratio:%g", t.Layer, t.Center, t.MajorAxis, t.Ratio)
}

// LWPolyline keeps its vertices packed, VertexStride values per vertex.
type LWPolyline struct {
	EntityBase
	Values     []float64
	Closed     bool
	ConstWidth float64
	Elevation  float64
}

func (*LWPolyline) Type() EntityType { return LWPolylineType }

// Len is the number of vertices.
func (t *LWPolyline) Len() int {
	return len(t.Values) / VertexStride
}

func (t LWPolyline) String() string {
	return fmt.Sprintf("LWPolyline: Layer:%s vertices:%d closed:%v", t.Layer, len(t.Values)/VertexStride, t.Closed)
}

type Point struct {
	EntityBase
	Location r3.Vec
}

func (*Point) Type() EntityType { return PointType }

func (t Point) String() string {
	return fmt.Sprintf("Point: Layer:%s %v", t.Layer, t.Location)
}

// BoundaryPathExternal marks the outer boundary of a hatch.
const BoundaryPathExternal = 1

// BoundaryPathPolyline marks a path stored as vertices rather than edges.
const BoundaryPathPolyline = 2

type BoundaryPath struct {
	Flags    int
	Vertices []r2.Vec
	Closed   bool
}

func (b BoundaryPath) IsExternal() bool {
	return b.Flags&BoundaryPathExternal == BoundaryPathExternal
}

type Hatch struct {
	EntityBase
	Pattern string
	Solid   bool
	Paths   []BoundaryPath
}

func (*Hatch) Type() EntityType { return HatchType }

func (t Hatch) String() string {
	return fmt.Sprintf("Hatch: Layer:%s pattern:%s paths:%d", t.Layer, t.Pattern, len(t.Paths))
}

// Unsupported is any entity type the reader keeps without geometry.
type Unsupported struct {
	EntityBase
	Name string
}

func (t *Unsupported) Type() EntityType { return EntityType(t.Name) }

func (t Unsupported) String() string {
	return fmt.Sprintf("Unsupported: Layer:%s type:%s", t.Layer, t.Name)
}

// setCoord assigns the x, y or z component addressed by a point group code.
func setCoord(v *r3.Vec, p Pair, base int) error {
	f, err := p.Float()
	if err != nil {
		return err
	}
	switch p.Code {
	case base:
		v.X = f
	case base + 10:
		v.Y = f
	case base + 20:
		v.Z = f
	}
	return nil
}
