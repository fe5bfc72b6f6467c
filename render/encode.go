package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output image encoding, named by its file extension.
type Format string

const (
	PNG  Format = "png"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
)

var Formats = []Format{PNG, TIFF, BMP}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	switch f {
	case PNG, TIFF, BMP:
		return f, nil
	case "tif":
		return TIFF, nil
	}
	return "", fmt.Errorf("unknown image format %q", s)
}

func (f Format) Ext() string {
	if f == "" {
		return string(PNG)
	}
	return string(f)
}

func (f Format) String() string {
	return f.Ext()
}

// Encode writes img in format f, PNG when f is empty.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG, "":
		enc := png.Encoder{CompressionLevel: png.DefaultCompression}
		return enc.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case BMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("unknown image format %q", string(f))
}
