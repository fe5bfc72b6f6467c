// Package render turns a DXF document into a color image and a layer mask.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/ddvk/dxf2png/dxf"
	"github.com/ddvk/dxf2png/palette"
	"github.com/ddvk/dxf2png/raster"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrEmptyCanvas    = errors.New("empty canvas")
	ErrCanvasTooLarge = errors.New("canvas too large")
)

// DefaultMaxPixels bounds the canvas when Options.MaxPixels is zero.
const DefaultMaxPixels = 1 << 28

// Group is a display layer: a list of CAD layers drawn with one color.
type Group struct {
	Name   string
	Layers []string
	// Color is nil when no color was configured.
	Color *color.RGBA
}

type Options struct {
	Groups []Group
	// ACIColors takes missing group colors from the drawing instead of black.
	ACIColors bool
	MaskFill  map[dxf.EntityType]FillMode
	MaxPixels int
}

type Stats struct {
	Layers      int
	Skipped     int
	Entities    int
	Unsupported int
	Contours    int
}

func (s Stats) String() string {
	return fmt.Sprintf("layers:%d skipped:%d entities:%d unsupported:%d contours:%d",
		s.Layers, s.Skipped, s.Entities, s.Unsupported, s.Contours)
}

// Output holds the images in CAD orientation, Y pointing up.
type Output struct {
	Image *image.RGBA
	Mask  *image.RGBA
	Stats Stats
}

// Flipped returns both images mirrored top to bottom, ready to be encoded.
func (o *Output) Flipped() (img, mask *image.RGBA) {
	return raster.FlipVertical(o.Image), raster.FlipVertical(o.Mask)
}

type Painter struct {
	opts    Options
	palette *palette.Table
}

func NewPainter(opts Options) *Painter {
	return &Painter{
		opts:    opts,
		palette: palette.Standard,
	}
}

// CanvasSize is ceil(max) + floor(min) on both axes. Each term saturates at
// maxCoord so far away extents cannot overflow the pixel count.
func CanvasSize(extMin, extMax r3.Vec) image.Point {
	return image.Pt(
		clampCoord(math.Ceil(extMax.X))+clampCoord(math.Floor(extMin.X)),
		clampCoord(math.Ceil(extMax.Y))+clampCoord(math.Floor(extMin.Y)),
	)
}

func (p *Painter) maxPixels() int64 {
	if p.opts.MaxPixels > 0 {
		return int64(p.opts.MaxPixels)
	}
	return DefaultMaxPixels
}

// Paint draws every configured group in order. Each CAD layer is drawn into
// a scratch mask whose outer contours are then filled into the combined mask.
func (p *Painter) Paint(doc *dxf.Document) (out *Output, err error) {
	extMin, extMax, err := doc.Extents()
	if err != nil {
		return
	}
	size := CanvasSize(extMin, extMax)
	if size.X <= 0 || size.Y <= 0 {
		err = fmt.Errorf("%w: %dx%d", ErrEmptyCanvas, size.X, size.Y)
		return
	}
	if int64(size.X)*int64(size.Y) > p.maxPixels() {
		err = fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrCanvasTooLarge, size.X, size.Y, p.maxPixels())
		return
	}
	log.Debugf("canvas %dx%d", size.X, size.Y)

	out = &Output{
		Image: raster.NewCanvas(size.X, size.Y, color.White),
		Mask:  raster.NewCanvas(size.X, size.Y, color.Black),
	}
	scratch := image.NewGray(image.Rect(0, 0, size.X, size.Y))
	t := &target{canvas: out.Image, mask: scratch, fill: p.opts.MaskFill}

	for _, g := range p.opts.Groups {
		for _, name := range g.Layers {
			layer, ok := doc.Layers.Get(name)
			if !ok {
				log.Debugf("%s: layer %s not in drawing", g.Name, name)
				out.Stats.Skipped++
				continue
			}
			clear(scratch.Pix)
			for _, e := range doc.Query(name) {
				if !t.draw(e, p.entityColor(g, e, layer)) {
					log.Warnf("%s: %s", name, e.Type())
					out.Stats.Unsupported++
					continue
				}
				out.Stats.Entities++
			}
			contours := raster.FindExternalContours(scratch)
			raster.FillContours(out.Mask, contours, p.maskColor(g, layer))
			out.Stats.Contours += len(contours)
			out.Stats.Layers++
		}
	}
	return
}

func (p *Painter) entityColor(g Group, e dxf.Entity, layer *dxf.Layer) color.RGBA {
	if g.Color != nil {
		return *g.Color
	}
	if p.opts.ACIColors {
		return p.palette.Resolve(e.Base().Color, layer.Color)
	}
	return palette.Black
}

func (p *Painter) maskColor(g Group, layer *dxf.Layer) color.RGBA {
	if g.Color != nil {
		return *g.Color
	}
	if p.opts.ACIColors {
		return p.palette.Resolve(palette.ByLayer, layer.Color)
	}
	return palette.Black
}
