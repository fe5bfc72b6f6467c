package palette

import (
	"image/color"
	"testing"

	"github.com/cheekybits/is"
)

func TestNamedColors(t *testing.T) {
	is := is.New(t)
	tests := []struct {
		index int
		want  color.RGBA
	}{
		{0, color.RGBA{0, 0, 0, 255}},
		{1, color.RGBA{255, 0, 0, 255}},
		{2, color.RGBA{255, 255, 0, 255}},
		{3, color.RGBA{0, 255, 0, 255}},
		{5, color.RGBA{0, 0, 255, 255}},
		{7, color.RGBA{255, 255, 255, 255}},
		{8, color.RGBA{65, 65, 65, 255}},
		{10, color.RGBA{255, 0, 0, 255}},
		{11, color.RGBA{255, 170, 170, 255}},
		{12, color.RGBA{189, 0, 0, 255}},
		{30, color.RGBA{255, 128, 0, 255}},
		{90, color.RGBA{0, 255, 0, 255}},
		{170, color.RGBA{0, 0, 255, 255}},
		{250, color.RGBA{51, 51, 51, 255}},
		{255, color.RGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		c, err := Standard.RGBA(tt.index)
		is.NoErr(err)
		is.Equal(c, tt.want)
	}
}

func TestLookupRange(t *testing.T) {
	is := is.New(t)
	_, err := Lookup(256)
	is.Err(err)
	_, err = Lookup(-1)
	is.Err(err)
	for i := 0; i < Size; i++ {
		_, err := Lookup(i)
		is.NoErr(err)
	}
}

func TestResolve(t *testing.T) {
	is := is.New(t)
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}

	// BYLAYER follows the layer
	is.Equal(Resolve(ByLayer, 1), red)
	// an explicit color ignores the layer
	is.Equal(Resolve(5, 1), blue)
	// layer switched off
	is.Equal(Resolve(ByLayer, -5), blue)
	// unresolvable falls back to black
	is.Equal(Resolve(300, 1), Black)
	is.Equal(Resolve(ByLayer, 1000), Black)
}
