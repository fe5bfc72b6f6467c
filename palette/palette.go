// Package palette maps AutoCAD Color Index (ACI) values to RGB.
package palette

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"
)

const (
	ByBlock = 0
	ByLayer = 256
	Size    = 256
)

var ErrInvalidIndex = errors.New("invalid color index")

// Black is the fallback for colors that cannot be resolved.
var Black = color.RGBA{A: 0xff}

// value levels of the five shades in every hue row
var levels = [5]float64{1, 189.0 / 255, 129.0 / 255, 104.0 / 255, 79.0 / 255}

// pastel rows keep 2/3 of the value on the weaker channels
const pastelSaturation = 1.0 / 3

var named = [10]colorful.Color{
	{R: 0, G: 0, B: 0},
	{R: 1, G: 0, B: 0},
	{R: 1, G: 1, B: 0},
	{R: 0, G: 1, B: 0},
	{R: 0, G: 1, B: 1},
	{R: 0, G: 0, B: 1},
	{R: 1, G: 0, B: 1},
	{R: 1, G: 1, B: 1},
	{R: 65.0 / 255, G: 65.0 / 255, B: 65.0 / 255},
	{R: 128.0 / 255, G: 128.0 / 255, B: 128.0 / 255},
}

var grays = [6]float64{51, 80, 105, 130, 190, 255}

// Table is the immutable 256 entry palette.
type Table [Size]colorful.Color

// Standard is the default AutoCAD palette.
var Standard = newStandard()

func newStandard() *Table {
	var t Table
	copy(t[:], named[:])
	for i := 10; i < 250; i++ {
		hue := float64(i/10-1) * 15
		shade := i % 10
		s := 1.0
		if shade%2 == 1 {
			s = pastelSaturation
		}
		t[i] = colorful.Hsv(hue, s, levels[shade/2])
	}
	for i, g := range grays {
		t[250+i] = colorful.Color{R: g / 255, G: g / 255, B: g / 255}
	}
	return &t
}

func (t *Table) Lookup(index int) (colorful.Color, error) {
	if index < 0 || index >= Size {
		return colorful.Color{}, fmt.Errorf("%d: %w", index, ErrInvalidIndex)
	}
	return t[index], nil
}

// RGBA converts an index to an opaque image color.
func (t *Table) RGBA(index int) (color.RGBA, error) {
	c, err := t.Lookup(index)
	if err != nil {
		return Black, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Resolve picks the entity color, or the layer color when the entity color is BYLAYER.
// Negative codes mark layers that are switched off and keep their color.
func (t *Table) Resolve(entityColor, layerColor int) color.RGBA {
	index := entityColor
	if index == ByLayer {
		index = layerColor
	}
	if index < 0 {
		index = -index
	}
	c, err := t.RGBA(index)
	if err != nil {
		log.Warnf("color %d (layer %d): %v, using black", entityColor, layerColor, err)
	}
	return c
}

func Lookup(index int) (colorful.Color, error) {
	return Standard.Lookup(index)
}

func Resolve(entityColor, layerColor int) color.RGBA {
	return Standard.Resolve(entityColor, layerColor)
}
