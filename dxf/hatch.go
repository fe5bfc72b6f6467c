package dxf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const fullTurn = 2 * math.Pi

// Hatch edge types, group 72 inside an edge path.
const (
	edgeLine    = 1
	edgeArc     = 2
	edgeEllipse = 3
	edgeSpline  = 4
)

func (e *Extractor) extractBoundaryPaths(count int) (paths []BoundaryPath, err error) {
	for i := 0; i < count; i++ {
		var path BoundaryPath
		path, err = e.extractBoundaryPath()
		if err != nil {
			err = fmt.Errorf("boundary path %d: %w", i, err)
			return
		}
		paths = append(paths, path)
	}
	return
}

func (e *Extractor) extractBoundaryPath() (path BoundaryPath, err error) {
	path.Flags, err = e.ExtractInt(92)
	if err != nil {
		return
	}
	if path.Flags&BoundaryPathPolyline != 0 {
		err = e.extractPolylinePath(&path)
	} else {
		err = e.extractEdgePath(&path)
	}
	if err != nil {
		return
	}
	// source boundary objects
	if e.peekCode(0) == 97 {
		var n int
		if n, err = e.ExtractInt(97); err != nil {
			return
		}
		for j := 0; j < n && e.peekCode(0) == 330; j++ {
			e.next()
		}
	}
	return
}

func (e *Extractor) extractPolylinePath(path *BoundaryPath) (err error) {
	hasBulge, err := e.ExtractInt(72)
	if err != nil {
		return
	}
	closed, err := e.ExtractInt(73)
	if err != nil {
		return
	}
	path.Closed = closed != 0
	n, err := e.ExtractInt(93)
	if err != nil {
		return
	}
	for i := 0; i < n; i++ {
		var v r2.Vec
		if v.X, err = e.ExtractFloat(10); err != nil {
			return
		}
		if v.Y, err = e.ExtractFloat(20); err != nil {
			return
		}
		if hasBulge != 0 {
			// bulges are not used for filling
			if _, err = e.ExtractOptionalFloat(42, 0); err != nil {
				return
			}
		}
		path.Vertices = append(path.Vertices, v)
	}
	return
}

// extractEdgePath flattens line, arc, ellipse and spline edges into vertices.
func (e *Extractor) extractEdgePath(path *BoundaryPath) (err error) {
	path.Closed = true
	n, err := e.ExtractInt(93)
	if err != nil {
		return
	}
	for i := 0; i < n; i++ {
		var kind int
		if kind, err = e.ExtractInt(72); err != nil {
			return
		}
		var pts []r2.Vec
		switch kind {
		case edgeLine:
			pts, err = e.extractLineEdge()
		case edgeArc:
			pts, err = e.extractArcEdge()
		case edgeEllipse:
			pts, err = e.extractEllipseEdge()
		case edgeSpline:
			pts, err = e.extractSplineEdge()
		default:
			err = fmt.Errorf("edge %d: unknown edge type %d: %w", i, kind, ErrMalformed)
		}
		if err != nil {
			return
		}
		path.Vertices = appendPoints(path.Vertices, pts)
	}
	return
}

// appendPoints joins edges, dropping a start point equal to the previous end.
func appendPoints(dst, pts []r2.Vec) []r2.Vec {
	if len(dst) > 0 && len(pts) > 0 && r2.Norm(r2.Sub(dst[len(dst)-1], pts[0])) < 1e-9 {
		pts = pts[1:]
	}
	return append(dst, pts...)
}

func (e *Extractor) extractVec(xCode, yCode int) (v r2.Vec, err error) {
	if v.X, err = e.ExtractFloat(xCode); err != nil {
		return
	}
	v.Y, err = e.ExtractFloat(yCode)
	return
}

func (e *Extractor) extractLineEdge() ([]r2.Vec, error) {
	start, err := e.extractVec(10, 20)
	if err != nil {
		return nil, err
	}
	end, err := e.extractVec(11, 21)
	if err != nil {
		return nil, err
	}
	return []r2.Vec{start, end}, nil
}

func (e *Extractor) extractArcEdge() ([]r2.Vec, error) {
	center, err := e.extractVec(10, 20)
	if err != nil {
		return nil, err
	}
	radius, err := e.ExtractFloat(40)
	if err != nil {
		return nil, err
	}
	start, end, ccw, err := e.extractSweep()
	if err != nil {
		return nil, err
	}
	return sampleArc(center, r2.Vec{X: radius}, r2.Vec{Y: radius}, start, end, ccw), nil
}

func (e *Extractor) extractEllipseEdge() ([]r2.Vec, error) {
	center, err := e.extractVec(10, 20)
	if err != nil {
		return nil, err
	}
	major, err := e.extractVec(11, 21)
	if err != nil {
		return nil, err
	}
	ratio, err := e.ExtractFloat(40)
	if err != nil {
		return nil, err
	}
	start, end, ccw, err := e.extractSweep()
	if err != nil {
		return nil, err
	}
	minor := r2.Scale(ratio, r2.Vec{X: -major.Y, Y: major.X})
	return sampleArc(center, major, minor, start, end, ccw), nil
}

func (e *Extractor) extractSweep() (start, end float64, ccw bool, err error) {
	if start, err = e.ExtractFloat(50); err != nil {
		return
	}
	if end, err = e.ExtractFloat(51); err != nil {
		return
	}
	var flag int
	if flag, err = e.ExtractInt(73); err != nil {
		return
	}
	ccw = flag != 0
	return
}

// extractSplineEdge approximates the spline by its control polygon.
func (e *Extractor) extractSplineEdge() (pts []r2.Vec, err error) {
	if _, err = e.ExtractInt(94); err != nil {
		return
	}
	rational, err := e.ExtractInt(73)
	if err != nil {
		return
	}
	if _, err = e.ExtractInt(74); err != nil {
		return
	}
	knots, err := e.ExtractInt(95)
	if err != nil {
		return
	}
	controls, err := e.ExtractInt(96)
	if err != nil {
		return
	}
	for i := 0; i < knots; i++ {
		if _, err = e.ExtractFloat(40); err != nil {
			return
		}
	}
	for i := 0; i < controls; i++ {
		var v r2.Vec
		if v, err = e.extractVec(10, 20); err != nil {
			return
		}
		if rational != 0 {
			if _, err = e.ExtractOptionalFloat(42, 1); err != nil {
				return
			}
		}
		pts = append(pts, v)
	}
	// fit data, only when followed by fit points; a bare 97 belongs to the path
	if e.peekCode(0) == 97 && e.peekCode(1) == 11 {
		var fit int
		if fit, err = e.ExtractInt(97); err != nil {
			return
		}
		for i := 0; i < fit; i++ {
			if _, err = e.extractVec(11, 21); err != nil {
				return
			}
		}
	}
	if e.peekCode(0) == 12 {
		if _, err = e.extractVec(12, 22); err != nil {
			return
		}
	}
	if e.peekCode(0) == 13 {
		if _, err = e.extractVec(13, 23); err != nil {
			return
		}
	}
	return
}

// sampleArc walks an elliptic arc in one degree steps. Angles are in degrees;
// clockwise edges store mirrored angles and sweep the other way. The sweep
// never exceeds one turn.
func sampleArc(center, major, minor r2.Vec, start, end float64, ccw bool) []r2.Vec {
	if !ccw {
		start, end = -start, -end
	}
	sweep := end - start
	if math.IsInf(sweep, 0) {
		sweep = math.Copysign(360, sweep)
	}
	if ccw && sweep < 0 {
		sweep = math.Mod(sweep, 360) + 360
		if sweep == 360 {
			sweep = 0
		}
	}
	if !ccw && sweep > 0 {
		sweep = math.Mod(sweep, 360) - 360
		if sweep == -360 {
			sweep = 0
		}
	}
	sweep = math.Max(-360, math.Min(360, sweep))
	start = math.Mod(start, 360)
	end = start + sweep
	span := math.Abs(end - start)
	steps := int(span) + 1
	pts := make([]r2.Vec, 0, steps+1)
	for i := 0; i <= steps; i++ {
		a := (start + (end-start)*float64(i)/float64(steps)) * math.Pi / 180
		p := r2.Add(center, r2.Add(r2.Scale(math.Cos(a), major), r2.Scale(math.Sin(a), minor)))
		pts = append(pts, p)
	}
	return pts
}
