// Package dxftest builds small DXF drawings for tests.
package dxftest

import (
	"bytes"
	"os"
	"strconv"
	"testing"

	"github.com/ddvk/dxf2png/dxf"
)

// Vertex is an x, y pair.
type Vertex [2]float64

// Path is a hatch boundary path stored as a polyline.
type Path struct {
	External bool
	Vertices []Vertex
}

type layer struct {
	name  string
	color int
}

// Builder accumulates header, layers and entities, then encodes them.
type Builder struct {
	extents  []float64
	layers   []layer
	entities [][]dxf.Pair
}

func New() *Builder {
	return &Builder{}
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func i(v int) string {
	return strconv.Itoa(v)
}

func (b *Builder) Extents(minX, minY, maxX, maxY float64) *Builder {
	b.extents = []float64{minX, minY, maxX, maxY}
	return b
}

func (b *Builder) Layer(name string, color int) *Builder {
	b.layers = append(b.layers, layer{name: name, color: color})
	return b
}

// Entity adds an entity of any type with the given extra pairs.
func (b *Builder) Entity(typeName, layer string, pairs ...dxf.Pair) *Builder {
	e := []dxf.Pair{{Code: 0, Value: typeName}, {Code: 8, Value: layer}}
	b.entities = append(b.entities, append(e, pairs...))
	return b
}

// Color sets an explicit color on the last entity.
func (b *Builder) Color(aci int) *Builder {
	last := len(b.entities) - 1
	b.entities[last] = append(b.entities[last], dxf.Pair{Code: 62, Value: i(aci)})
	return b
}

// Mirrored sets the extrusion of the last entity to (0, 0, -1).
func (b *Builder) Mirrored() *Builder {
	last := len(b.entities) - 1
	b.entities[last] = append(b.entities[last],
		dxf.Pair{Code: 210, Value: "0"}, dxf.Pair{Code: 220, Value: "0"}, dxf.Pair{Code: 230, Value: "-1"})
	return b
}

func (b *Builder) Line(layer string, x1, y1, x2, y2 float64) *Builder {
	return b.Entity("LINE", layer,
		dxf.Pair{Code: 10, Value: f(x1)}, dxf.Pair{Code: 20, Value: f(y1)}, dxf.Pair{Code: 30, Value: "0"},
		dxf.Pair{Code: 11, Value: f(x2)}, dxf.Pair{Code: 21, Value: f(y2)}, dxf.Pair{Code: 31, Value: "0"})
}

func (b *Builder) Circle(layer string, cx, cy, r float64) *Builder {
	return b.Entity("CIRCLE", layer,
		dxf.Pair{Code: 10, Value: f(cx)}, dxf.Pair{Code: 20, Value: f(cy)}, dxf.Pair{Code: 30, Value: "0"},
		dxf.Pair{Code: 40, Value: f(r)})
}

func (b *Builder) Arc(layer string, cx, cy, r, start, end float64) *Builder {
	return b.Entity("ARC", layer,
		dxf.Pair{Code: 10, Value: f(cx)}, dxf.Pair{Code: 20, Value: f(cy)}, dxf.Pair{Code: 30, Value: "0"},
		dxf.Pair{Code: 40, Value: f(r)}, dxf.Pair{Code: 50, Value: f(start)}, dxf.Pair{Code: 51, Value: f(end)})
}

// Ellipse takes the major axis relative to the center and parameters in radians.
func (b *Builder) Ellipse(layer string, cx, cy, mx, my, ratio, start, end float64) *Builder {
	return b.Entity("ELLIPSE", layer,
		dxf.Pair{Code: 10, Value: f(cx)}, dxf.Pair{Code: 20, Value: f(cy)}, dxf.Pair{Code: 30, Value: "0"},
		dxf.Pair{Code: 11, Value: f(mx)}, dxf.Pair{Code: 21, Value: f(my)}, dxf.Pair{Code: 31, Value: "0"},
		dxf.Pair{Code: 40, Value: f(ratio)}, dxf.Pair{Code: 41, Value: f(start)}, dxf.Pair{Code: 42, Value: f(end)})
}

func (b *Builder) Point(layer string, x, y float64) *Builder {
	return b.Entity("POINT", layer,
		dxf.Pair{Code: 10, Value: f(x)}, dxf.Pair{Code: 20, Value: f(y)}, dxf.Pair{Code: 30, Value: "0"})
}

func (b *Builder) LWPolyline(layer string, closed bool, vertices ...Vertex) *Builder {
	flags := 0
	if closed {
		flags = 1
	}
	pairs := []dxf.Pair{{Code: 90, Value: i(len(vertices))}, {Code: 70, Value: i(flags)}}
	for _, v := range vertices {
		pairs = append(pairs, dxf.Pair{Code: 10, Value: f(v[0])}, dxf.Pair{Code: 20, Value: f(v[1])})
	}
	return b.Entity("LWPOLYLINE", layer, pairs...)
}

// Hatch adds a solid hatch with polyline boundary paths.
func (b *Builder) Hatch(layer string, paths ...Path) *Builder {
	pairs := []dxf.Pair{
		{Code: 10, Value: "0"}, {Code: 20, Value: "0"}, {Code: 30, Value: "0"},
		{Code: 2, Value: "SOLID"}, {Code: 70, Value: "1"}, {Code: 71, Value: "0"},
		{Code: 91, Value: i(len(paths))},
	}
	for _, p := range paths {
		flags := dxf.BoundaryPathPolyline
		if p.External {
			flags |= dxf.BoundaryPathExternal
		}
		pairs = append(pairs,
			dxf.Pair{Code: 92, Value: i(flags)}, dxf.Pair{Code: 72, Value: "0"}, dxf.Pair{Code: 73, Value: "1"},
			dxf.Pair{Code: 93, Value: i(len(p.Vertices))})
		for _, v := range p.Vertices {
			pairs = append(pairs, dxf.Pair{Code: 10, Value: f(v[0])}, dxf.Pair{Code: 20, Value: f(v[1])})
		}
		pairs = append(pairs, dxf.Pair{Code: 97, Value: "0"})
	}
	pairs = append(pairs, dxf.Pair{Code: 75, Value: "0"}, dxf.Pair{Code: 76, Value: "1"}, dxf.Pair{Code: 98, Value: "0"})
	return b.Entity("HATCH", layer, pairs...)
}

// Pairs returns the whole drawing as group code pairs.
func (b *Builder) Pairs() []dxf.Pair {
	var out []dxf.Pair
	add := func(code int, value string) {
		out = append(out, dxf.Pair{Code: code, Value: value})
	}
	add(0, "SECTION")
	add(2, "HEADER")
	add(9, "$ACADVER")
	add(1, "AC1027")
	if b.extents != nil {
		add(9, "$EXTMIN")
		add(10, f(b.extents[0]))
		add(20, f(b.extents[1]))
		add(30, "0")
		add(9, "$EXTMAX")
		add(10, f(b.extents[2]))
		add(20, f(b.extents[3]))
		add(30, "0")
	}
	add(0, "ENDSEC")

	add(0, "SECTION")
	add(2, "TABLES")
	add(0, "TABLE")
	add(2, "LAYER")
	add(70, i(len(b.layers)))
	for _, l := range b.layers {
		add(0, "LAYER")
		add(2, l.name)
		add(70, "0")
		add(62, i(l.color))
		add(6, "CONTINUOUS")
	}
	add(0, "ENDTAB")
	add(0, "ENDSEC")

	add(0, "SECTION")
	add(2, "ENTITIES")
	for _, e := range b.entities {
		out = append(out, e...)
	}
	add(0, "ENDSEC")
	add(0, "EOF")
	return out
}

func (b *Builder) ASCII() []byte {
	var buf bytes.Buffer
	// writing to a bytes.Buffer does not fail
	_ = dxf.WriteASCII(&buf, b.Pairs())
	return buf.Bytes()
}

func (b *Builder) Binary() []byte {
	var buf bytes.Buffer
	if err := dxf.WriteBinary(&buf, b.Pairs()); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// WriteFile stores the ASCII encoding at path.
func (b *Builder) WriteFile(t testing.TB, path string) {
	t.Helper()
	if err := os.WriteFile(path, b.ASCII(), 0o644); err != nil {
		t.Fatal(err)
	}
}
