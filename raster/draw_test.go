package raster

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var white = color.Gray{Y: 255}

func count(img *image.Gray) int {
	n := 0
	for _, v := range img.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

func newMask(w, h int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, w, h))
}

func TestLine(t *testing.T) {
	m := newMask(20, 20)
	Line(m, image.Pt(2, 3), image.Pt(12, 3), white, 1)
	assert.Equal(t, 11, count(m))
	for x := 2; x <= 12; x++ {
		assert.Equal(t, uint8(255), m.GrayAt(x, 3).Y)
	}

	m = newMask(20, 20)
	Line(m, image.Pt(0, 0), image.Pt(9, 9), white, 1)
	assert.Equal(t, 10, count(m))
}

func TestThickLineIsWider(t *testing.T) {
	m := newMask(20, 20)
	Line(m, image.Pt(2, 10), image.Pt(12, 10), white, 2)
	assert.Equal(t, uint8(255), m.GrayAt(7, 9).Y)
	assert.Equal(t, uint8(255), m.GrayAt(7, 11).Y)
	assert.Equal(t, uint8(255), m.GrayAt(1, 10).Y)
	assert.Equal(t, uint8(0), m.GrayAt(7, 12).Y)
}

func TestLineClipped(t *testing.T) {
	m := newMask(10, 10)
	Line(m, image.Pt(-1000000, 5), image.Pt(1000000, 5), white, 1)
	assert.Equal(t, 10, count(m))

	m = newMask(10, 10)
	Line(m, image.Pt(-50, -50), image.Pt(-10, -3), white, 1)
	assert.Equal(t, 0, count(m))
}

func TestPolylineClosed(t *testing.T) {
	square := []image.Point{{2, 2}, {8, 2}, {8, 8}, {2, 8}}
	open := newMask(12, 12)
	Polyline(open, square, false, white, 1)
	closed := newMask(12, 12)
	Polyline(closed, square, true, white, 1)
	assert.Equal(t, uint8(0), open.GrayAt(2, 5).Y)
	assert.Equal(t, uint8(255), closed.GrayAt(2, 5).Y)
	assert.Equal(t, 24, count(closed))
}

func TestCircle(t *testing.T) {
	m := newMask(41, 41)
	Circle(m, image.Pt(20, 20), 10, white, 1)
	assert.Equal(t, uint8(255), m.GrayAt(30, 20).Y)
	assert.Equal(t, uint8(255), m.GrayAt(20, 10).Y)
	assert.Equal(t, uint8(0), m.GrayAt(20, 20).Y)

	filled := newMask(41, 41)
	Circle(filled, image.Pt(20, 20), 10, white, Filled)
	assert.InDelta(t, math.Pi*100, float64(count(filled)), 20)
	assert.Equal(t, uint8(255), filled.GrayAt(20, 20).Y)

	dot := newMask(5, 5)
	Circle(dot, image.Pt(2, 2), 0, white, 1)
	assert.Equal(t, 1, count(dot))
}

func TestCircleMuchLargerThanCanvas(t *testing.T) {
	const r = 1 << 30

	// only the rightmost edge of the circle passes through, as a vertical line
	m := newMask(100, 20)
	Circle(m, image.Pt(50-r, 10), r, white, 1)
	assert.Equal(t, 20, count(m))
	for y := 0; y < 20; y++ {
		assert.Equal(t, uint8(255), m.GrayAt(50, y).Y, "row %d", y)
	}

	enclosed := newMask(100, 20)
	Circle(enclosed, image.Pt(50, 10), r, white, 3)
	assert.Zero(t, count(enclosed))

	filled := newMask(100, 20)
	Circle(filled, image.Pt(50, 10), r, white, Filled)
	assert.Equal(t, 100*20, count(filled))

	outside := newMask(100, 20)
	Circle(outside, image.Pt(r, r), r/2, white, 1)
	assert.Zero(t, count(outside))
}

func TestEllipsePolyExtremeAngles(t *testing.T) {
	full := EllipsePoly(image.Pt(50, 50), image.Pt(20, 10), 0, 0, 360, 5)
	tests := []struct {
		name              string
		angle, start, end float64
		delta             float64
	}{
		{"huge end", 0, 0, 1e300, 5},
		{"huge start", 0, -1e300, 0, 5},
		{"infinite end", 0, 0, math.Inf(1), 5},
		{"nan start", 0, math.NaN(), 90, 5},
		{"huge rotation", 1e300, 0, 360, 5},
		{"nan delta", 0, 0, 360, math.NaN()},
		{"zero delta", 0, 0, 360, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := EllipsePoly(image.Pt(50, 50), image.Pt(20, 10), tt.angle, tt.start, tt.end, tt.delta)
			require.NotEmpty(t, pts)
			// one point per 5 degree step over at most one turn
			assert.LessOrEqual(t, len(pts), 73)
		})
	}

	// a sweep beyond one turn is the whole ellipse
	assert.Equal(t, full, EllipsePoly(image.Pt(50, 50), image.Pt(20, 10), 0, 0, 1e300, 5))
	// equal huge angles keep a zero sweep
	assert.Len(t, EllipsePoly(image.Pt(50, 50), image.Pt(20, 10), 0, 1e300, 1e300, 5), 2)
}

func TestEllipsePoly(t *testing.T) {
	pts := EllipsePoly(image.Pt(50, 50), image.Pt(20, 10), 0, 0, 360, 5)
	require.NotEmpty(t, pts)
	assert.Equal(t, image.Pt(70, 50), pts[0])
	assert.Equal(t, pts[0], pts[len(pts)-1])
	assert.Contains(t, pts, image.Pt(50, 60))

	// start after end is swapped, rotation turns the major axis
	pts = EllipsePoly(image.Pt(50, 50), image.Pt(20, 10), 90, 90, 0, 5)
	assert.Equal(t, image.Pt(50, 70), pts[0])
	assert.Equal(t, image.Pt(40, 50), pts[len(pts)-1])
}

func TestEllipseDelta(t *testing.T) {
	assert.Equal(t, 90.0, ellipseDelta(image.Pt(2, 1)))
	assert.Equal(t, 30.0, ellipseDelta(image.Pt(9, 1)))
	assert.Equal(t, 18.0, ellipseDelta(image.Pt(3, 14)))
	assert.Equal(t, 5.0, ellipseDelta(image.Pt(15, 1)))
}

func TestFillPolygon(t *testing.T) {
	m := newMask(20, 20)
	FillPolygon(m, []image.Point{{2, 2}, {11, 2}, {11, 11}, {2, 11}}, white)
	assert.Equal(t, 100, count(m))

	tri := newMask(20, 20)
	FillPolygon(tri, []image.Point{{0, 0}, {10, 0}, {0, 10}}, white)
	assert.Equal(t, 66, count(tri))
}

func TestFlipVertical(t *testing.T) {
	img := NewCanvas(3, 4, color.White)
	red := color.RGBA{255, 0, 0, 255}
	img.SetRGBA(1, 0, red)
	flipped := FlipVertical(img)
	assert.Equal(t, red, flipped.RGBAAt(1, 3))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, flipped.RGBAAt(1, 0))
	assert.Equal(t, red, img.RGBAAt(1, 0))
}
