package render

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/ddvk/dxf2png/raster"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"png": PNG, ".PNG": PNG, "tif": TIFF, "tiff": TIFF, "bmp": BMP} {
		f, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, f, in)
	}
	_, err := ParseFormat("jpeg")
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	img := raster.NewCanvas(7, 5, red)
	decoders := map[Format]func(*bytes.Buffer) (image.Image, error){
		PNG:  func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) },
		TIFF: func(b *bytes.Buffer) (image.Image, error) { return tiff.Decode(bytes.NewReader(b.Bytes())) },
		BMP:  func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) },
	}
	for f, decode := range decoders {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, img, f), f)
		got, err := decode(&buf)
		require.NoError(t, err, f)
		assert.Equal(t, img.Bounds(), got.Bounds(), f)
		r, g, b, _ := got.At(3, 2).RGBA()
		assert.Equal(t, [3]uint32{0xffff, 0, 0}, [3]uint32{r, g, b}, f)
	}
	assert.Error(t, Encode(&bytes.Buffer{}, img, Format("gif")))
}
