package dxf

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Document is a parsed drawing. It is read-only once returned by Read.
type Document struct {
	Version  string
	ExtMin   r3.Vec
	ExtMax   r3.Vec
	Layers   LayerTable
	Entities []Entity

	hasExtMin bool
	hasExtMax bool
}

func newDocument() *Document {
	return &Document{
		Layers: NewLayerTable(),
	}
}

// Extents returns the $EXTMIN and $EXTMAX header variables.
func (d *Document) Extents() (min, max r3.Vec, err error) {
	if !d.hasExtMin || !d.hasExtMax {
		err = ErrMissingExtents
		return
	}
	return d.ExtMin, d.ExtMax, nil
}

// Query returns the model space entities on layer, matched case-sensitively, in file order.
func (d *Document) Query(layer string) []Entity {
	var result []Entity
	for _, e := range d.Entities {
		if e.Base().Layer == layer {
			result = append(result, e)
		}
	}
	return result
}
