package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// EllipsePoly approximates an elliptic arc by a polygon. angle rotates the
// axes, start and end are in degrees measured from the rotated major axis,
// delta is the angular step.
func EllipsePoly(center image.Point, axes image.Point, angle, start, end, delta float64) []image.Point {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	if start > end {
		start, end = end, start
	}
	// shift into 0..360 keeping the sweep, a sweep over one turn is a full ellipse
	if sweep := end - start; sweep <= 360 {
		start = math.Mod(start, 360)
		if start < 0 {
			start += 360
		}
		end = start + sweep
		if end > 360 {
			start, end = start-360, end-360
		}
	} else {
		start, end = 0, 360
	}
	if !(delta > 0) {
		delta = ellipseDelta(axes)
	}
	sinA, cosA := math.Sincos(angle * math.Pi / 180)
	a, b := float64(axes.X), float64(axes.Y)

	var pts []image.Point
	for i := start; i < end+delta; i += delta {
		t := math.Min(i, end) * math.Pi / 180
		sinT, cosT := math.Sincos(t)
		x, y := a*cosT, b*sinT
		p := image.Pt(
			center.X+int(math.Round(x*cosA-y*sinA)),
			center.Y+int(math.Round(x*sinA+y*cosA)),
		)
		if len(pts) > 0 && pts[len(pts)-1] == p {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) == 1 {
		pts = append(pts, pts[0])
	}
	return pts
}

// ellipseDelta picks a coarser step for small ellipses.
func ellipseDelta(axes image.Point) float64 {
	switch m := max(axes.X, axes.Y); {
	case m < 3:
		return 90
	case m < 10:
		return 30
	case m < 15:
		return 18
	}
	return 5
}

// Ellipse strokes an elliptic arc, or fills the sector when thickness is Filled.
func Ellipse(dst draw.Image, center, axes image.Point, angle, start, end float64, c color.Color, thickness int) {
	if axes.X < 0 || axes.Y < 0 {
		return
	}
	pts := EllipsePoly(center, axes, angle, start, end, ellipseDelta(axes))
	if thickness < 0 {
		if math.Abs(end-start) < 360 {
			pts = append(pts, center)
		}
		FillPolygon(dst, pts, c)
		return
	}
	Polyline(dst, pts, false, c, thickness)
}
