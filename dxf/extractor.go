package dxf

import (
	"fmt"
)

// Extractor walks the group codes of a single entity.
type Extractor struct {
	tags []Pair
	pos  int
}

func NewExtractor(tags []Pair) *Extractor {
	return &Extractor{
		tags: tags,
	}
}

func (e *Extractor) next() (Pair, bool) {
	if e.pos >= len(e.tags) {
		return Pair{}, false
	}
	p := e.tags[e.pos]
	e.pos++
	return p, true
}

// peekCode returns the code n pairs ahead, -1 past the end.
func (e *Extractor) peekCode(n int) int {
	if e.pos+n >= len(e.tags) {
		return -1
	}
	return e.tags[e.pos+n].Code
}

func (e *Extractor) expect(code int) (p Pair, err error) {
	p, ok := e.next()
	if !ok {
		err = fmt.Errorf("group %d missing: %w", code, ErrTagMismatch)
		return
	}
	if p.Code != code {
		err = fmt.Errorf("have group %d, wants %d: %w", p.Code, code, ErrTagMismatch)
	}
	return
}

func (e *Extractor) ExtractFloat(code int) (float64, error) {
	p, err := e.expect(code)
	if err != nil {
		return 0, err
	}
	return p.Float()
}

func (e *Extractor) ExtractInt(code int) (int, error) {
	p, err := e.expect(code)
	if err != nil {
		return 0, err
	}
	return p.Int()
}

// ExtractOptionalFloat consumes code only when it is next.
func (e *Extractor) ExtractOptionalFloat(code int, def float64) (float64, error) {
	if e.peekCode(0) != code {
		return def, nil
	}
	return e.ExtractFloat(code)
}

// ExtractEntity builds the entity for typeName from its group codes.
func ExtractEntity(typeName string, tags []Pair) (entity Entity, err error) {
	e := NewExtractor(tags)
	switch EntityType(typeName) {
	case LineType:
		entity, err = e.extractLine()
	case ArcType:
		entity, err = e.extractArc()
	case CircleType:
		entity, err = e.extractCircle()
	case EllipseType:
		entity, err = e.extractEllipse()
	case LWPolylineType:
		entity, err = e.extractLWPolyline()
	case HatchType:
		entity, err = e.extractHatch()
	case PointType:
		entity, err = e.extractPoint()
	default:
		entity, err = e.extractUnsupported(typeName)
	}
	if err != nil {
		err = fmt.Errorf("%s: %w", typeName, err)
	}
	return
}

// each hands every pair that is not a common attribute to fn.
func (e *Extractor) each(base *EntityBase, fn func(p Pair) error) error {
	for {
		p, ok := e.next()
		if !ok {
			return nil
		}
		handled, err := base.apply(p)
		if err != nil {
			return err
		}
		if handled {
			continue
		}
		if err = fn(p); err != nil {
			return err
		}
	}
}

func pointCode(p Pair, base int) bool {
	return p.Code == base || p.Code == base+10 || p.Code == base+20
}

func (e *Extractor) extractLine() (*Line, error) {
	l := &Line{EntityBase: newBase()}
	err := e.each(&l.EntityBase, func(p Pair) error {
		switch {
		case pointCode(p, 10):
			return setCoord(&l.Start, p, 10)
		case pointCode(p, 11):
			return setCoord(&l.End, p, 11)
		}
		return nil
	})
	return l, err
}

func (e *Extractor) extractCircle() (*Circle, error) {
	c := &Circle{EntityBase: newBase()}
	err := e.each(&c.EntityBase, func(p Pair) (err error) {
		switch {
		case pointCode(p, 10):
			err = setCoord(&c.Center, p, 10)
		case p.Code == 40:
			c.Radius, err = p.Float()
		}
		return
	})
	return c, err
}

func (e *Extractor) extractArc() (*Arc, error) {
	a := &Arc{EntityBase: newBase()}
	err := e.each(&a.EntityBase, func(p Pair) (err error) {
		switch {
		case pointCode(p, 10):
			err = setCoord(&a.Center, p, 10)
		case p.Code == 40:
			a.Radius, err = p.Float()
		case p.Code == 50:
			a.StartAngle, err = p.Float()
		case p.Code == 51:
			a.EndAngle, err = p.Float()
		}
		return
	})
	return a, err
}

func (e *Extractor) extractEllipse() (*Ellipse, error) {
	el := &Ellipse{EntityBase: newBase(), Ratio: 1, EndParam: fullTurn}
	err := e.each(&el.EntityBase, func(p Pair) (err error) {
		switch {
		case pointCode(p, 10):
			err = setCoord(&el.Center, p, 10)
		case pointCode(p, 11):
			err = setCoord(&el.MajorAxis, p, 11)
		case p.Code == 40:
			el.Ratio, err = p.Float()
		case p.Code == 41:
			el.StartParam, err = p.Float()
		case p.Code == 42:
			el.EndParam, err = p.Float()
		}
		return
	})
	return el, err
}

func (e *Extractor) extractPoint() (*Point, error) {
	pt := &Point{EntityBase: newBase()}
	err := e.each(&pt.EntityBase, func(p Pair) error {
		if pointCode(p, 10) {
			return setCoord(&pt.Location, p, 10)
		}
		return nil
	})
	return pt, err
}

func (e *Extractor) extractLWPolyline() (*LWPolyline, error) {
	pl := &LWPolyline{EntityBase: newBase()}
	// index of the current vertex in Values, -1 before the first 10 group
	cur := -1
	vertexValue := func(p Pair, offset int) error {
		if cur < 0 {
			return fmt.Errorf("group %d before first vertex: %w", p.Code, ErrMalformed)
		}
		v, err := p.Float()
		pl.Values[cur+offset] = v
		return err
	}
	err := e.each(&pl.EntityBase, func(p Pair) (err error) {
		switch p.Code {
		case 10:
			cur = len(pl.Values)
			pl.Values = append(pl.Values, make([]float64, VertexStride)...)
			err = vertexValue(p, 0)
		case 20:
			err = vertexValue(p, 1)
		case 40:
			err = vertexValue(p, 2)
		case 41:
			err = vertexValue(p, 3)
		case 42:
			err = vertexValue(p, 4)
		case 43:
			pl.ConstWidth, err = p.Float()
		case 38:
			pl.Elevation, err = p.Float()
		case CodeFlags:
			var flags int
			flags, err = p.Int()
			pl.Closed = flags&1 == 1
		}
		return
	})
	return pl, err
}

func (e *Extractor) extractUnsupported(name string) (*Unsupported, error) {
	u := &Unsupported{EntityBase: newBase(), Name: name}
	err := e.each(&u.EntityBase, func(Pair) error { return nil })
	return u, err
}

func (e *Extractor) extractHatch() (*Hatch, error) {
	h := &Hatch{EntityBase: newBase()}
	err := e.each(&h.EntityBase, func(p Pair) (err error) {
		switch p.Code {
		case CodeName:
			h.Pattern = p.Value
		case CodeFlags:
			var solid int
			solid, err = p.Int()
			h.Solid = solid == 1
		case 91:
			var count int
			count, err = p.Int()
			if err != nil {
				return
			}
			h.Paths, err = e.extractBoundaryPaths(count)
		}
		return
	})
	return h, err
}
