package dxf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PairReader yields group code pairs from a DXF stream.
type PairReader interface {
	Next() (Pair, error)
	// Unread pushes back one pair, the next call to Next returns it.
	Unread(p Pair)
	// Pos is the current line (ASCII) or byte offset (binary).
	Pos() int
}

// asciiDecoder reads the two-lines-per-pair text encoding.
type asciiDecoder struct {
	r       *bufio.Reader
	line    int
	pending *Pair
}

func newASCIIDecoder(r *bufio.Reader) *asciiDecoder {
	return &asciiDecoder{r: r}
}

func (d *asciiDecoder) Pos() int {
	return d.line
}

func (d *asciiDecoder) Unread(p Pair) {
	d.pending = &p
}

func (d *asciiDecoder) readLine() (string, error) {
	s, err := d.r.ReadString('\n')
	if err == io.EOF && s != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	if d.line == 0 {
		s = strings.TrimPrefix(s, "\ufeff")
	}
	d.line++
	return strings.TrimSpace(s), nil
}

func (d *asciiDecoder) Next() (p Pair, err error) {
	if d.pending != nil {
		p = *d.pending
		d.pending = nil
		return
	}
	codeLine, err := d.readLine()
	if err != nil {
		return
	}
	code, err := parseCode(codeLine)
	if err != nil {
		err = fmt.Errorf("line %d: invalid group code %q: %w", d.line, codeLine, ErrMalformed)
		return
	}
	value, err := d.readLine()
	if err == io.EOF {
		err = fmt.Errorf("line %d: group %d has no value: %w", d.line, code, io.ErrUnexpectedEOF)
	}
	if err != nil {
		return
	}
	p = Pair{Code: code, Value: value}
	return
}
