// Package raster draws hard edged primitives on images and extracts the outer
// contours of binary masks. Coordinates are pixel indices; anything outside
// the destination bounds is clipped.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"slices"
)

// Filled as a thickness fills circles and ellipses instead of stroking them.
const Filled = -1

// pen returns a pixel setter for c, specialised for the image types used here.
func pen(dst draw.Image, c color.Color) func(x, y int) {
	switch img := dst.(type) {
	case *image.RGBA:
		rgba := color.RGBAModel.Convert(c).(color.RGBA)
		return func(x, y int) { img.SetRGBA(x, y, rgba) }
	case *image.Gray:
		g := color.GrayModel.Convert(c).(color.Gray)
		return func(x, y int) { img.SetGray(x, y, g) }
	}
	return func(x, y int) { dst.Set(x, y, c) }
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Line draws an 8-connected segment. Thicker lines stamp a disk of radius thickness/2 along it.
func Line(dst draw.Image, p0, p1 image.Point, c color.Color, thickness int) {
	line(dst, pen(dst, c), p0, p1, thickness)
}

func line(dst draw.Image, plot func(x, y int), p0, p1 image.Point, thickness int) {
	r := thickness / 2
	p0, p1, ok := clipLine(dst.Bounds().Inset(-r-2), p0, p1)
	if !ok {
		return
	}
	if r <= 0 {
		bresenham(p0, p1, plot)
		return
	}
	b := dst.Bounds()
	bresenham(p0, p1, func(x, y int) {
		disk(b, plot, x, y, r)
	})
}

func bresenham(p0, p1 image.Point, plot func(x, y int)) {
	dx := abs(p1.X - p0.X)
	dy := -abs(p1.Y - p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}
	e := dx + dy
	x, y := p0.X, p0.Y
	for {
		plot(x, y)
		if x == p1.X && y == p1.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// clipLine cuts the segment to r (Liang-Barsky), reporting false when nothing is left.
func clipLine(r image.Rectangle, p0, p1 image.Point) (image.Point, image.Point, bool) {
	if p0.In(r) && p1.In(r) {
		return p0, p1, true
	}
	x0, y0 := float64(p0.X), float64(p0.Y)
	dx, dy := float64(p1.X-p0.X), float64(p1.Y-p0.Y)
	xmin, ymin := float64(r.Min.X), float64(r.Min.Y)
	xmax, ymax := float64(r.Max.X-1), float64(r.Max.Y-1)
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0 - xmin},
		{dx, xmax - x0},
		{-dy, y0 - ymin},
		{dy, ymax - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return p0, p1, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return p0, p1, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return p0, p1, false
			}
			t1 = math.Min(t1, t)
		}
	}
	a := image.Pt(int(math.Round(x0+t0*dx)), int(math.Round(y0+t0*dy)))
	b := image.Pt(int(math.Round(x0+t1*dx)), int(math.Round(y0+t1*dy)))
	return a, b, true
}

// disk fills the pixels within radius r of (cx, cy), clipped to b.
func disk(b image.Rectangle, plot func(x, y int), cx, cy, r int) {
	y0, y1 := max(cy-r, b.Min.Y), min(cy+r, b.Max.Y-1)
	for y := y0; y <= y1; y++ {
		dy := y - cy
		w := int(math.Sqrt(float64(r-dy) * float64(r+dy)))
		x0, x1 := max(cx-w, b.Min.X), min(cx+w, b.Max.X-1)
		for x := x0; x <= x1; x++ {
			plot(x, y)
		}
	}
}

// Polyline connects pts in order, and the last point to the first when closed.
func Polyline(dst draw.Image, pts []image.Point, closed bool, c color.Color, thickness int) {
	if len(pts) == 0 {
		return
	}
	plot := pen(dst, c)
	if len(pts) == 1 {
		line(dst, plot, pts[0], pts[0], thickness)
		return
	}
	for i := 1; i < len(pts); i++ {
		line(dst, plot, pts[i-1], pts[i], thickness)
	}
	if closed {
		line(dst, plot, pts[len(pts)-1], pts[0], thickness)
	}
}

// Circle strokes a circle, or fills it when thickness is Filled. Radius 0 is a
// single pixel. Circles much larger than dst are only traced inside its bounds.
func Circle(dst draw.Image, center image.Point, radius int, c color.Color, thickness int) {
	if radius < 0 {
		return
	}
	b := dst.Bounds()
	pad := radius + max(thickness, 1)
	if !image.Rect(center.X-pad, center.Y-pad, center.X+pad+1, center.Y+pad+1).Overlaps(b) {
		return
	}
	plot := pen(dst, c)
	if thickness < 0 {
		disk(b, plot, center.X, center.Y, radius)
		return
	}
	stamp := plot
	if r := thickness / 2; r > 0 {
		stamp = func(x, y int) { disk(b, plot, x, y, r) }
	}
	if radius > 2*(b.Dx()+b.Dy()) {
		if !ringCrosses(b, center, radius, pad-radius) {
			return
		}
		circleCrossings(b, stamp, center, radius, pad-radius)
		return
	}
	x, y := radius, 0
	e := 1 - radius
	for x >= y {
		stamp(center.X+x, center.Y+y)
		stamp(center.X+y, center.Y+x)
		stamp(center.X-y, center.Y+x)
		stamp(center.X-x, center.Y+y)
		stamp(center.X-x, center.Y-y)
		stamp(center.X-y, center.Y-x)
		stamp(center.X+y, center.Y-x)
		stamp(center.X+x, center.Y-y)
		y++
		if e < 0 {
			e += 2*y + 1
		} else {
			x--
			e += 2*(y-x) + 1
		}
	}
}

// ringCrosses reports whether a circle outline, widened by w, can touch b.
// It is false when b lies entirely inside the circle.
func ringCrosses(b image.Rectangle, center image.Point, radius, w int) bool {
	inner := float64(radius - w)
	for _, c := range [4]image.Point{b.Min, {b.Max.X, b.Min.Y}, b.Max, {b.Min.X, b.Max.Y}} {
		if math.Hypot(float64(c.X-center.X), float64(c.Y-center.Y)) >= inner {
			return true
		}
	}
	return false
}

// circleCrossings plots a large circle where it crosses each row and column
// of b widened by w. Adjacent samples are at most one pixel apart on the
// axis where the outline is flatter, so the result stays 8-connected.
func circleCrossings(b image.Rectangle, stamp func(x, y int), center image.Point, radius, w int) {
	r := float64(radius)
	half := func(d int) (int, bool) {
		f := float64(d)
		if math.Abs(f) > r {
			return 0, false
		}
		return int(math.Round(math.Sqrt((r - f) * (r + f)))), true
	}
	for y := b.Min.Y - w; y < b.Max.Y+w; y++ {
		if dx, ok := half(y - center.Y); ok {
			stamp(center.X-dx, y)
			stamp(center.X+dx, y)
		}
	}
	for x := b.Min.X - w; x < b.Max.X+w; x++ {
		if dy, ok := half(x - center.X); ok {
			stamp(x, center.Y-dy)
			stamp(x, center.Y+dy)
		}
	}
}

// FillPolygon fills pts with the even-odd rule. The outline is drawn too so
// pixels on the boundary belong to the polygon.
func FillPolygon(dst draw.Image, pts []image.Point, c color.Color) {
	if len(pts) == 0 {
		return
	}
	plot := pen(dst, c)
	b := dst.Bounds()
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	minY, maxY = max(minY, b.Min.Y), min(maxY, b.Max.Y-1)

	n := len(pts)
	var xs []float64
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		for i := 0; i < n; i++ {
			a, q := pts[i], pts[(i+1)%n]
			if a.Y == q.Y {
				continue
			}
			if a.Y > q.Y {
				a, q = q, a
			}
			if y < a.Y || y >= q.Y {
				continue
			}
			x := float64(a.X) + float64(y-a.Y)*float64(q.X-a.X)/float64(q.Y-a.Y)
			xs = append(xs, x)
		}
		slices.Sort(xs)
		for k := 0; k+1 < len(xs); k += 2 {
			x0 := max(int(math.Ceil(xs[k])), b.Min.X)
			x1 := min(int(math.Floor(xs[k+1])), b.Max.X-1)
			for x := x0; x <= x1; x++ {
				plot(x, y)
			}
		}
	}
	for i := range pts {
		line(dst, plot, pts[i], pts[(i+1)%n], 1)
	}
}

// FlipVertical returns a copy of img mirrored top to bottom.
func FlipVertical(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		src := img.PixOffset(b.Min.X, b.Min.Y+y)
		dst := out.PixOffset(b.Min.X, b.Max.Y-1-y)
		copy(out.Pix[dst:dst+rowLen], img.Pix[src:src+rowLen])
	}
	return out
}

// NewCanvas returns an opaque RGBA image of the given size filled with c.
func NewCanvas(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}
