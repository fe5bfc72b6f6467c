package render

import (
	"image"
	"image/color"
	"math"

	"github.com/ddvk/dxf2png/dxf"
	"github.com/ddvk/dxf2png/raster"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	maskWhite   = color.Gray{Y: 0xff}
	canvasWhite = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

const (
	canvasStroke = 1
	maskStroke   = 2
)

// target is the pair of images one CAD layer is drawn on: the shared color
// canvas and the scratch mask of that layer.
type target struct {
	canvas *image.RGBA
	mask   *image.Gray
	fill   map[dxf.EntityType]FillMode
}

// maxCoord bounds pixel coordinates and lengths so integer arithmetic on
// them cannot overflow. Anything that far out is off every canvas anyway.
const maxCoord = 1 << 30

// clampCoord truncates toward zero, mapping NaN and out of range values to the bound.
func clampCoord(v float64) int {
	switch {
	case math.IsNaN(v), v >= maxCoord:
		return maxCoord
	case v <= -maxCoord:
		return -maxCoord
	}
	return int(v)
}

func pixel(x, y float64) image.Point {
	return image.Pt(clampCoord(x), clampCoord(y))
}

func pixel3(v r3.Vec) image.Point {
	return pixel(v.X, v.Y)
}

func pixel2(v r2.Vec) image.Point {
	return pixel(v.X, v.Y)
}

// draw rasterizes e with c, it returns false for entity kinds it cannot draw.
func (t *target) draw(e dxf.Entity, c color.RGBA) bool {
	switch e := e.(type) {
	case *dxf.Line:
		t.line(e, c)
	case *dxf.LWPolyline:
		t.polyline(e, c)
	case *dxf.Arc:
		t.arc(e, c)
	case *dxf.Circle:
		t.circle(e, c)
	case *dxf.Ellipse:
		t.ellipse(e, c)
	case *dxf.Point:
		t.point(e, c)
	case *dxf.Hatch:
		t.hatch(e, c)
	case *dxf.Unsupported:
		return false
	default:
		log.Warnf("unknown entity kind %T", e)
		return false
	}
	return true
}

func (t *target) line(e *dxf.Line, c color.RGBA) {
	p0, p1 := pixel3(e.Start), pixel3(e.End)
	raster.Line(t.canvas, p0, p1, c, canvasStroke)
	raster.Line(t.mask, p0, p1, maskWhite, maskStroke)
}

func (t *target) polyline(e *dxf.LWPolyline, c color.RGBA) {
	pts := make([]image.Point, 0, e.Len())
	for i := 0; i+1 < len(e.Values); i += dxf.VertexStride {
		pts = append(pts, pixel(e.Values[i], e.Values[i+1]))
	}
	raster.Polyline(t.canvas, pts, e.Closed, c, canvasStroke)
	raster.Polyline(t.mask, pts, e.Closed, maskWhite, maskStroke)
}

// wrapDegrees maps a into [0, 360), non-finite angles become 0.
func wrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if math.IsNaN(a) {
		return 0
	}
	if a < 0 {
		a += 360
	}
	return a
}

// arcPoints samples an arc counter-clockwise in steps of at most one degree.
// A zero sweep is a full circle and reported as closed.
func arcPoints(e *dxf.Arc) (pts []image.Point, closed bool) {
	s, end := wrapDegrees(e.StartAngle), wrapDegrees(e.EndAngle)
	if s > end {
		s -= 360
	}
	closed = math.Abs(s-end) < 1e-9
	if closed {
		end = s + 360
	}
	n := int(end-s) + 1
	d := (end - s) / float64(n)
	pts = make([]image.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := (s + float64(i)*d) * math.Pi / 180
		pts = append(pts, pixel(e.Center.X+e.Radius*math.Cos(a), e.Center.Y+e.Radius*math.Sin(a)))
	}
	return
}

func (t *target) arc(e *dxf.Arc, c color.RGBA) {
	pts, closed := arcPoints(e)
	raster.Polyline(t.canvas, pts, closed, c, canvasStroke)
	raster.Polyline(t.mask, pts, closed, maskWhite, maskStroke)
}

func (t *target) mode(kind dxf.EntityType) FillMode {
	if m, ok := t.fill[kind]; ok {
		return m
	}
	return DefaultMaskFill[kind]
}

func (t *target) circle(e *dxf.Circle, c color.RGBA) {
	center, r := pixel3(e.Center), clampCoord(e.Radius)
	raster.Circle(t.canvas, center, r, c, canvasStroke)
	raster.Circle(t.mask, center, r, maskWhite, t.mode(dxf.CircleType).thickness(canvasStroke))
}

type ellipseArc struct {
	center     image.Point
	axes       image.Point
	angle      float64
	start, end float64
}

func ellipseGeometry(e *dxf.Ellipse) ellipseArc {
	major := r3.Norm(e.MajorAxis)
	start := e.StartParam * 180 / math.Pi
	end := e.EndParam * 180 / math.Pi
	if e.Extrusion.Z == -1 {
		start, end = 360-start, 360-end
	}
	return ellipseArc{
		center: pixel3(e.Center),
		axes:   image.Pt(clampCoord(major), clampCoord(major*e.Ratio)),
		angle:  math.Atan2(e.MajorAxis.Y, e.MajorAxis.X) * 180 / math.Pi,
		start:  start,
		end:    end,
	}
}

func (t *target) ellipse(e *dxf.Ellipse, c color.RGBA) {
	g := ellipseGeometry(e)
	raster.Ellipse(t.canvas, g.center, g.axes, g.angle, g.start, g.end, c, canvasStroke)
	raster.Ellipse(t.mask, g.center, g.axes, g.angle, g.start, g.end, maskWhite,
		t.mode(dxf.EllipseType).thickness(canvasStroke))
}

func (t *target) point(e *dxf.Point, c color.RGBA) {
	p := pixel3(e.Location)
	raster.Circle(t.canvas, p, 0, c, canvasStroke)
	raster.Circle(t.mask, p, 0, maskWhite, t.mode(dxf.PointType).thickness(canvasStroke))
}

// hatch fills external boundaries on both images and punches the other
// boundaries out of the canvas only.
func (t *target) hatch(e *dxf.Hatch, c color.RGBA) {
	for _, path := range e.Paths {
		poly := make([]image.Point, len(path.Vertices))
		for i, v := range path.Vertices {
			poly[i] = pixel2(v)
		}
		if path.IsExternal() {
			raster.FillPolygon(t.canvas, poly, c)
			raster.FillPolygon(t.mask, poly, maskWhite)
		} else {
			raster.FillPolygon(t.canvas, poly, canvasWhite)
		}
	}
}
