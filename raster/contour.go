package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Contour is a closed border given by its corner pixels.
type Contour []image.Point

// Area of the polygon through the contour points.
func (c Contour) Area() float64 {
	var s int
	n := len(c)
	for i := 0; i < n; i++ {
		p, q := c[i], c[(i+1)%n]
		s += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(float64(s)) / 2
}

func (c Contour) Bounds() image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: c[0], Max: c[0].Add(image.Pt(1, 1))}
	for _, p := range c[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	return r
}

// cell states of the padded label grid
const (
	background = iota
	foreground
	outside
	claimed
)

// neighbour offsets, counter-clockwise on screen starting east
var dirs = [8]image.Point{
	{1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1},
}

type grid struct {
	w, h  int
	cells []byte
}

func (g *grid) at(p image.Point) byte {
	return g.cells[p.Y*g.w+p.X]
}

func (g *grid) set(p image.Point, v byte) {
	g.cells[p.Y*g.w+p.X] = v
}

func (g *grid) isForeground(p image.Point) bool {
	v := g.at(p)
	return v == foreground || v == claimed
}

// FindExternalContours returns the outer borders of the outermost 8-connected
// components of mask. Non-zero pixels are foreground, pixels beyond the edge
// are background. Runs of collinear border pixels are reduced to their ends.
func FindExternalContours(mask *image.Gray) []Contour {
	b := mask.Bounds()
	g := &grid{w: b.Dx() + 2, h: b.Dy() + 2}
	g.cells = make([]byte, g.w*g.h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := mask.Pix[mask.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x] != 0 {
				g.set(image.Pt(x+1, y-b.Min.Y+1), foreground)
			}
		}
	}
	g.floodOutside()

	var contours []Contour
	offset := b.Min.Sub(image.Pt(1, 1))
	for y := 1; y < g.h-1; y++ {
		for x := 1; x < g.w-1; x++ {
			p := image.Pt(x, y)
			if g.at(p) != foreground {
				continue
			}
			if !g.claim(p) {
				continue
			}
			border := g.trace(p)
			c := make(Contour, 0, len(border))
			for _, q := range compress(border) {
				c = append(c, q.Add(offset))
			}
			contours = append(contours, c)
		}
	}
	return contours
}

// floodOutside marks the background 4-connected to the padding frame.
func (g *grid) floodOutside() {
	stack := []image.Point{{0, 0}}
	g.set(image.Pt(0, 0), outside)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			q := p.Add(d)
			if q.X < 0 || q.Y < 0 || q.X >= g.w || q.Y >= g.h {
				continue
			}
			if g.at(q) == background {
				g.set(q, outside)
				stack = append(stack, q)
			}
		}
	}
}

// claim marks the 8-connected component of p and reports whether it touches
// the outside background, i.e. it is not nested in a hole of another component.
func (g *grid) claim(p image.Point) bool {
	external := false
	stack := []image.Point{p}
	g.set(p, claimed)
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i, d := range dirs {
			n := q.Add(d)
			switch g.at(n) {
			case foreground:
				g.set(n, claimed)
				stack = append(stack, n)
			case outside:
				// only 4-neighbours separate a component from the background
				if i%2 == 0 {
					external = true
				}
			}
		}
	}
	return external
}

// trace follows the outer border starting at the first pixel of a component
// in raster order (Suzuki-Abe border following).
func (g *grid) trace(start image.Point) []image.Point {
	// clockwise search from the west neighbour for the first foreground pixel
	first := -1
	for k := 0; k < 8; k++ {
		d := (4 - k + 8) % 8
		if g.isForeground(start.Add(dirs[d])) {
			first = d
			break
		}
	}
	if first < 0 {
		return []image.Point{start}
	}
	p1 := start.Add(dirs[first])

	var border []image.Point
	cur, prev := start, first
	for {
		// counter-clockwise from the element after the previous pixel
		next := -1
		for k := 1; k <= 8; k++ {
			d := (prev + k) % 8
			if g.isForeground(cur.Add(dirs[d])) {
				next = d
				break
			}
		}
		border = append(border, cur)
		n := cur.Add(dirs[next])
		if n == start && cur == p1 {
			return border
		}
		prev = (next + 4) % 8
		cur = n
	}
}

// compress keeps only the points where the walking direction changes.
func compress(pts []image.Point) []image.Point {
	n := len(pts)
	if n <= 2 {
		return pts
	}
	var out []image.Point
	for i := 0; i < n; i++ {
		in := pts[i].Sub(pts[(i-1+n)%n])
		next := pts[(i+1)%n].Sub(pts[i])
		if in != next {
			out = append(out, pts[i])
		}
	}
	if len(out) == 0 {
		out = append(out, pts[0])
	}
	return out
}

// FillContours fills every contour, boundary included.
func FillContours(dst draw.Image, contours []Contour, c color.Color) {
	for _, contour := range contours {
		FillPolygon(dst, contour, c)
	}
}
