// Package dxf reads the parts of ASCII and binary DXF drawings needed for rasterizing:
// header extents, the layer table and model space entities.
package dxf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

var (
	ErrMalformed         = errors.New("malformed dxf")
	ErrTagMismatch       = errors.New("tag mismatch")
	ErrNotDXF            = errors.New("not a dxf file")
	ErrMissingExtents    = errors.New("header has no $EXTMIN/$EXTMAX")
	ErrUnsupportedBinary = errors.New("binary dxf before R13 is not supported")
)

// sub-entities that belong to the preceding POLYLINE or INSERT
var followers = map[string]bool{
	"VERTEX": true,
	"SEQEND": true,
	"ATTRIB": true,
}

// Reader builds a Document from a pair stream.
type Reader struct {
	d   PairReader
	doc *Document
}

// Open reads the DXF file at path.
func Open(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// Read detects ASCII or binary encoding and reads a whole document.
func Read(r io.Reader) (*Document, error) {
	d, err := NewPairReader(r)
	if err != nil {
		return nil, err
	}
	var reader Reader
	return reader.ExtractDocument(d)
}

// NewPairReader sniffs the binary sentinel and returns the matching decoder.
func NewPairReader(r io.Reader) (PairReader, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	head, err := br.Peek(len(binarySentinel) + 3)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}
	if !bytes.HasPrefix(head, []byte(binarySentinel)) {
		return newASCIIDecoder(br), nil
	}
	rest := head[len(binarySentinel):]
	// R13+ starts with a two byte group code 0, older files use one byte codes
	if len(rest) < 3 || rest[0] != 0 || rest[1] != 0 {
		return nil, ErrUnsupportedBinary
	}
	if _, err = br.Discard(len(binarySentinel)); err != nil {
		return nil, err
	}
	return newBinaryDecoder(br), nil
}

func (s *Reader) ExtractDocument(d PairReader) (doc *Document, err error) {
	s.d = d
	s.doc = newDocument()

	seen := false
	for {
		var p Pair
		p, err = d.Next()
		if err == io.EOF {
			if !seen {
				return nil, ErrNotDXF
			}
			// a missing EOF marker is tolerated
			return s.doc, nil
		}
		if err != nil {
			return nil, err
		}
		seen = true
		if p.Code == CodeComment {
			continue
		}
		switch {
		case p.Is(CodeStructure, "SECTION"):
			err = s.readSection()
		case p.Is(CodeStructure, "EOF"):
			return s.doc, nil
		default:
			err = fmt.Errorf("pos %d: expected SECTION, got %v: %w", d.Pos(), p, ErrMalformed)
		}
		if err != nil {
			return nil, err
		}
	}
}

// next is Next with EOF turned into an error, for use inside a section.
func (s *Reader) next() (p Pair, err error) {
	p, err = s.d.Next()
	if err == io.EOF {
		err = fmt.Errorf("pos %d: %w", s.d.Pos(), io.ErrUnexpectedEOF)
	}
	return
}

func (s *Reader) readSection() error {
	p, err := s.next()
	if err != nil {
		return err
	}
	if p.Code != CodeName {
		return fmt.Errorf("pos %d: section without name, got %v: %w", s.d.Pos(), p, ErrMalformed)
	}
	log.Debugf("section %s at %d", p.Value, s.d.Pos())
	switch p.Value {
	case "HEADER":
		return s.readHeader()
	case "TABLES":
		return s.readTables()
	case "ENTITIES":
		return s.readEntities()
	}
	return s.skipUntil("ENDSEC")
}

func (s *Reader) skipUntil(marker string) error {
	for {
		p, err := s.next()
		if err != nil {
			return err
		}
		if p.Is(CodeStructure, marker) {
			return nil
		}
	}
}

// collect gathers the pairs up to the next structure pair, which is pushed back.
func (s *Reader) collect() (tags []Pair, err error) {
	for {
		var p Pair
		p, err = s.next()
		if err != nil {
			return
		}
		if p.Code == CodeStructure {
			s.d.Unread(p)
			return
		}
		tags = append(tags, p)
	}
}

func (s *Reader) readHeader() error {
	var variable string
	for {
		p, err := s.next()
		if err != nil {
			return err
		}
		if p.Is(CodeStructure, "ENDSEC") {
			return nil
		}
		if p.Code == CodeVariable {
			variable = p.Value
			continue
		}
		switch variable {
		case "$ACADVER":
			if p.Code == CodeText {
				s.doc.Version = p.Value
			}
		case "$EXTMIN":
			if pointCode(p, CodeX) {
				s.doc.hasExtMin = true
				err = setCoord(&s.doc.ExtMin, p, CodeX)
			}
		case "$EXTMAX":
			if pointCode(p, CodeX) {
				s.doc.hasExtMax = true
				err = setCoord(&s.doc.ExtMax, p, CodeX)
			}
		}
		if err != nil {
			return fmt.Errorf("header %s: %w", variable, err)
		}
	}
}

func (s *Reader) readTables() error {
	for {
		p, err := s.next()
		if err != nil {
			return err
		}
		switch {
		case p.Is(CodeStructure, "ENDSEC"):
			return nil
		case p.Is(CodeStructure, "TABLE"):
			name, err := s.next()
			if err != nil {
				return err
			}
			if name.Is(CodeName, "LAYER") {
				err = s.readLayerTable()
			} else {
				err = s.skipUntil("ENDTAB")
			}
			if err != nil {
				return err
			}
		}
	}
}

func (s *Reader) readLayerTable() error {
	// table header codes until the first entry
	if _, err := s.collect(); err != nil {
		return err
	}
	for {
		p, err := s.next()
		if err != nil {
			return err
		}
		if p.Is(CodeStructure, "ENDTAB") {
			return nil
		}
		tags, err := s.collect()
		if err != nil {
			return err
		}
		if p.Value != "LAYER" {
			continue
		}
		layer := &Layer{Color: 7}
		for _, t := range tags {
			switch t.Code {
			case CodeName:
				layer.Name = t.Value
			case CodeColor:
				layer.Color, err = t.Int()
			case CodeFlags:
				layer.Flags, err = t.Int()
			}
			if err != nil {
				return fmt.Errorf("layer %q: %w", layer.Name, err)
			}
		}
		log.Debugf("layer %s color:%d flags:%d", layer.Name, layer.Color, layer.Flags)
		s.doc.Layers.Add(layer)
	}
}

func (s *Reader) readEntities() error {
	for {
		p, err := s.next()
		if err != nil {
			return err
		}
		if p.Is(CodeStructure, "ENDSEC") {
			return nil
		}
		if p.Code != CodeStructure {
			return fmt.Errorf("pos %d: expected entity, got %v: %w", s.d.Pos(), p, ErrMalformed)
		}
		tags, err := s.collect()
		if err != nil {
			return err
		}
		if followers[p.Value] {
			continue
		}
		entity, err := ExtractEntity(p.Value, tags)
		if err != nil {
			return fmt.Errorf("pos %d: %w", s.d.Pos(), err)
		}
		if entity.Base().PaperSpace {
			log.Debugf("skipping paper space %s %s", p.Value, entity.Base().Handle)
			continue
		}
		s.doc.Entities = append(s.doc.Entities, entity)
	}
}
