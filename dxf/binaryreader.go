package dxf

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
)

const binarySentinel = "AutoCAD Binary DXF\r\n\x1a\x00"

type valueKind byte

const (
	kindString valueKind = iota
	kindFloat
	kindInt16
	kindInt32
	kindInt64
	kindBool
	kindBinary
)

// binaryDecoder reads R13+ binary DXF: little-endian int16 group codes followed by typed values.
type binaryDecoder struct {
	r        *bufio.Reader
	position int
	pending  *Pair
}

func newBinaryDecoder(r *bufio.Reader) *binaryDecoder {
	return &binaryDecoder{r: r}
}

// Pos current byte offset after the sentinel
func (d *binaryDecoder) Pos() int {
	return d.position
}

func (d *binaryDecoder) Unread(p Pair) {
	d.pending = &p
}

func (d *binaryDecoder) Read(b []byte) (n int, err error) {
	n, err = d.r.Read(b)
	d.position += n
	return
}

func (d *binaryDecoder) ReadByte() (b byte, err error) {
	b, err = d.r.ReadByte()
	if err != nil {
		return b, err
	}
	d.position += 1
	return
}

func (d *binaryDecoder) GetBytes(size int) (result []byte, err error) {
	result = make([]byte, size)
	_, err = io.ReadFull(d, result)
	return
}

func (d *binaryDecoder) GetShort() (result int16, err error) {
	err = binary.Read(d, binary.LittleEndian, &result)
	return
}

func (d *binaryDecoder) GetInt32() (result int32, err error) {
	err = binary.Read(d, binary.LittleEndian, &result)
	return
}

func (d *binaryDecoder) GetInt64() (result int64, err error) {
	err = binary.Read(d, binary.LittleEndian, &result)
	return
}

func (d *binaryDecoder) GetFloat64() (result float64, err error) {
	err = binary.Read(d, binary.LittleEndian, &result)
	return
}

// GetString reads a null terminated string.
func (d *binaryDecoder) GetString() (string, error) {
	s, err := d.r.ReadString(0)
	d.position += len(s)
	if err != nil {
		return "", err
	}
	return s[:len(s)-1], nil
}

func (d *binaryDecoder) Next() (p Pair, err error) {
	if d.pending != nil {
		p = *d.pending
		d.pending = nil
		return
	}
	code, err := d.GetShort()
	if err != nil {
		// EOF on a group code boundary is a clean end of stream
		return
	}
	p.Code = int(uint16(code))
	p.Value, err = d.getValue(p.Code)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		err = fmt.Errorf("offset %d: group %d: %w", d.position, p.Code, err)
	}
	return
}

func (d *binaryDecoder) getValue(code int) (string, error) {
	switch kindOf(code) {
	case kindFloat:
		v, err := d.GetFloat64()
		return strconv.FormatFloat(v, 'g', -1, 64), err
	case kindInt16:
		v, err := d.GetShort()
		return strconv.Itoa(int(v)), err
	case kindInt32:
		v, err := d.GetInt32()
		return strconv.Itoa(int(v)), err
	case kindInt64:
		v, err := d.GetInt64()
		return strconv.FormatInt(v, 10), err
	case kindBool:
		b, err := d.ReadByte()
		if b != 0 {
			return "1", err
		}
		return "0", err
	case kindBinary:
		n, err := d.ReadByte()
		if err != nil {
			return "", err
		}
		chunk, err := d.GetBytes(int(n))
		return hex.EncodeToString(chunk), err
	}
	return d.GetString()
}

// kindOf maps a group code to the type of its value in the binary encoding.
func kindOf(code int) valueKind {
	switch {
	case code >= 10 && code <= 59,
		code >= 110 && code <= 149,
		code >= 210 && code <= 239,
		code >= 460 && code <= 469,
		code >= 1010 && code <= 1059:
		return kindFloat
	case code >= 60 && code <= 79,
		code >= 170 && code <= 179,
		code >= 270 && code <= 289,
		code >= 370 && code <= 389,
		code >= 400 && code <= 409,
		code >= 1060 && code <= 1070:
		return kindInt16
	case code >= 90 && code <= 99,
		code >= 420 && code <= 429,
		code >= 440 && code <= 459,
		code == 1071:
		return kindInt32
	case code >= 160 && code <= 169:
		return kindInt64
	case code >= 290 && code <= 299:
		return kindBool
	case code >= 310 && code <= 319, code == 1004:
		return kindBinary
	}
	return kindString
}
