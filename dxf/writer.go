package dxf

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
)

// WriteASCII writes pairs in the text encoding.
func WriteASCII(w io.Writer, pairs []Pair) error {
	bw := bufio.NewWriter(w)
	for _, p := range pairs {
		if _, err := fmt.Fprintf(bw, "%3d\n%s\n", p.Code, p.Value); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteBinary writes pairs in the R13+ binary encoding, sentinel included.
func WriteBinary(w io.Writer, pairs []Pair) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(binarySentinel); err != nil {
		return err
	}
	for _, p := range pairs {
		if err := binary.Write(bw, binary.LittleEndian, uint16(p.Code)); err != nil {
			return err
		}
		if err := writeValue(bw, p); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeValue(w *bufio.Writer, p Pair) error {
	switch kindOf(p.Code) {
	case kindFloat:
		v, err := p.Float()
		if err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, v)
	case kindInt16:
		v, err := p.Int()
		if err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, int16(v))
	case kindInt32:
		v, err := p.Int()
		if err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, int32(v))
	case kindInt64:
		v, err := strconv.ParseInt(p.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("group %d: %w", p.Code, ErrMalformed)
		}
		return binary.Write(w, binary.LittleEndian, v)
	case kindBool:
		v, err := p.Int()
		if err != nil {
			return err
		}
		if v != 0 {
			return w.WriteByte(1)
		}
		return w.WriteByte(0)
	case kindBinary:
		chunk, err := hex.DecodeString(p.Value)
		if err != nil || len(chunk) > 255 {
			return fmt.Errorf("group %d: bad binary chunk: %w", p.Code, ErrMalformed)
		}
		if err = w.WriteByte(byte(len(chunk))); err != nil {
			return err
		}
		_, err = w.Write(chunk)
		return err
	}
	if _, err := w.WriteString(p.Value); err != nil {
		return err
	}
	return w.WriteByte(0)
}
