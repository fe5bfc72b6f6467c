package batch

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddvk/dxf2png/config"
	"github.com/ddvk/dxf2png/dxf"
	"github.com/ddvk/dxf2png/internal/dxftest"
	"github.com/ddvk/dxf2png/raster"
	"github.com/ddvk/dxf2png/render"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.dxf"))
	touch(t, filepath.Join(dir, "B.DXF"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "sub", "c.dxf"))
	touch(t, filepath.Join(dir, "sub2", "e.dxf"))
	touch(t, filepath.Join(dir, "sub2", "deeper", "d.dxf"))
	touch(t, filepath.Join(dir, "sub2", "deeper", "readme"))

	files, err := Collect(dir, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "a.dxf"), filepath.Join(dir, "B.DXF")}, files)

	files, err = Collect(dir, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "sub", "c.dxf"),
		filepath.Join(dir, "sub2", "deeper", "d.dxf"),
	}, files)

	single := filepath.Join(dir, "sub", "c.dxf")
	files, err = Collect(single, true)
	require.NoError(t, err)
	assert.Equal(t, []string{single}, files)

	_, err = Collect(filepath.Join(dir, "missing"), false)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Collect(filepath.Join(dir, "notes.txt"), false)
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	out := OutputPath(filepath.Join("in", "dir", "plan.v2.dxf"), "out", "png")
	assert.Equal(t, filepath.Join("out", "plan.v2.png"), out)
	assert.Equal(t, filepath.Join("out", "plan.v2_mask.png"), MaskPath(out))
	assert.Equal(t, filepath.Join("out", "X.tiff"), OutputPath("X.DXF", "out", "tiff"))
}

func TestRunContinuesAfterFailure(t *testing.T) {
	var report bytes.Buffer
	var seen []string
	d := &Driver{
		Output: "out",
		Format: render.PNG,
		Report: &report,
		RunID:  uuid.New(),
		Convert: func(input, output string) error {
			seen = append(seen, output)
			if strings.Contains(input, "bad") {
				return errors.New("boom")
			}
			return nil
		},
	}
	s := d.Run([]string{"one.dxf", "bad.dxf", "two.dxf"})

	assert.Equal(t, 1, s.Failed)
	require.Len(t, s.Results, 3)
	assert.True(t, s.Results[0].OK())
	assert.EqualError(t, s.Results[1].Err, "boom")
	assert.Equal(t, []string{
		filepath.Join("out", "one.png"),
		filepath.Join("out", "bad.png"),
		filepath.Join("out", "two.png"),
	}, seen)
	assert.Equal(t, "Filename `one.dxf`: OK\n"+
		"Filename `bad.dxf`: FAILURE\n"+
		"Filename `two.dxf`: OK\n"+
		"Fail converting: 1\n", report.String())
}

func TestRunRecoversPanic(t *testing.T) {
	var report bytes.Buffer
	d := &Driver{
		Output: "out",
		Format: render.PNG,
		Report: &report,
		Convert: func(input, output string) error {
			if input == "bad.dxf" {
				panic("makeslice: len out of range")
			}
			return nil
		},
	}
	s := d.Run([]string{"bad.dxf", "good.dxf"})

	assert.Equal(t, 1, s.Failed)
	require.Len(t, s.Results, 2)
	assert.ErrorIs(t, s.Results[0].Err, ErrPanic)
	assert.ErrorContains(t, s.Results[0].Err, "makeslice")
	assert.True(t, s.Results[1].OK())
	assert.True(t, strings.HasSuffix(report.String(), "Filename `good.dxf`: OK\nFail converting: 1\n"))
}

func TestCheckInput(t *testing.T) {
	var report bytes.Buffer
	missing := filepath.Join(t.TempDir(), "nope")
	assert.ErrorIs(t, CheckInput(&report, missing), ErrNotExist)
	assert.Equal(t, "Input path `"+missing+"` doesn't exist\n", report.String())
	assert.NoError(t, CheckInput(&report, t.TempDir()))
}

func TestWriteImage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "new")
	path := filepath.Join(dir, "x.png")
	img := raster.NewCanvas(4, 3, color.White)
	require.NoError(t, WriteImage(path, img, render.PNG))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), got.Bounds())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	assert.Error(t, WriteImage(filepath.Join(dir, "y.gif"), img, render.Format("gif")))
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestConvertBatch(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "output")
	for i, name := range []string{"one", "two", "three"} {
		dxftest.New().Extents(0, 0, 60, 40).Layer("walls", 1+i).
			LWPolyline("walls", true,
				dxftest.Vertex{5, 5}, dxftest.Vertex{50, 5}, dxftest.Vertex{50, 30}, dxftest.Vertex{5, 30}).
			Circle("walls", 20, 20, 4).
			WriteFile(t, filepath.Join(in, name+".dxf"))
	}
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.dxf"), []byte("garbage\nnot a drawing\n"), 0o644))

	cfg, err := config.ParseJSON([]byte(`{"layers": {"Walls": ["walls"]}, "colors": {"Walls": [0, 0, 255]}}`))
	require.NoError(t, err)

	files, err := Collect(in, false)
	require.NoError(t, err)
	require.Len(t, files, 4)

	var report bytes.Buffer
	d := &Driver{Output: out, Format: render.PNG, Convert: ConvertFile(cfg, render.PNG), Report: &report}
	s := d.Run(files)

	assert.Equal(t, 1, s.Failed)
	assert.Contains(t, report.String(), "Filename `"+filepath.Join(in, "broken.dxf")+"`: FAILURE")
	assert.True(t, strings.HasSuffix(report.String(), "Fail converting: 1\n"))
	for _, name := range []string{"one", "two", "three"} {
		assert.FileExists(t, filepath.Join(out, name+".png"))
		assert.FileExists(t, filepath.Join(out, name+"_mask.png"))
	}
	assert.NoFileExists(t, filepath.Join(out, "broken.png"))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 6)
}

func TestConvertBatchWithExtremeValues(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "output")
	dxftest.New().Extents(0, 0, 60, 40).Layer("walls", 1).
		Circle("walls", 20, 20, math.Inf(1)).
		WriteFile(t, filepath.Join(in, "a_infinite.dxf"))
	dxftest.New().Extents(0, 0, 60, 40).Layer("walls", 1).
		Arc("walls", 30, 20, 10, 0, 1e16).
		Ellipse("walls", 30, 20, 10, 0, 0.5, 0, 1e300).
		Circle("walls", 30, 20, 1e12).
		WriteFile(t, filepath.Join(in, "b_huge.dxf"))
	dxftest.New().Extents(0, 0, 60, 40).Layer("walls", 1).
		Circle("walls", 20, 20, 4).
		WriteFile(t, filepath.Join(in, "c_plain.dxf"))

	cfg, err := config.ParseJSON([]byte(`{"layers": ["walls"]}`))
	require.NoError(t, err)
	files, err := Collect(in, false)
	require.NoError(t, err)
	require.Len(t, files, 3)

	var report bytes.Buffer
	d := &Driver{Output: out, Format: render.PNG, Convert: ConvertFile(cfg, render.PNG), Report: &report}
	s := d.Run(files)

	assert.Equal(t, 1, s.Failed)
	require.Len(t, s.Results, 3)
	assert.ErrorIs(t, s.Results[0].Err, dxf.ErrMalformed)
	assert.True(t, s.Results[1].OK())
	assert.True(t, s.Results[2].OK())
	assert.Contains(t, report.String(), "Filename `"+filepath.Join(in, "a_infinite.dxf")+"`: FAILURE")
	for _, name := range []string{"b_huge", "c_plain"} {
		assert.FileExists(t, filepath.Join(out, name+".png"))
		assert.FileExists(t, filepath.Join(out, name+"_mask.png"))
	}
	assert.NoFileExists(t, filepath.Join(out, "a_infinite.png"))
}

func TestConvertDeterministic(t *testing.T) {
	in := filepath.Join(t.TempDir(), "plan.dxf")
	dxftest.New().Extents(0, 0, 80, 80).Layer("a", 2).
		Arc("a", 40, 40, 20, 0, 270).
		Hatch("a", dxftest.Path{External: true, Vertices: []dxftest.Vertex{{1, 1}, {30, 1}, {30, 30}}}).
		WriteFile(t, in)
	cfg, err := config.ParseJSON([]byte(`{"layers": ["a"], "aci_colors": true}`))
	require.NoError(t, err)
	convert := ConvertFile(cfg, render.PNG)

	first := filepath.Join(t.TempDir(), "first.png")
	second := filepath.Join(t.TempDir(), "second.png")
	require.NoError(t, convert(in, first))
	require.NoError(t, convert(in, second))

	for _, pair := range [][2]string{{first, second}, {MaskPath(first), MaskPath(second)}} {
		a, err := os.ReadFile(pair[0])
		require.NoError(t, err)
		b, err := os.ReadFile(pair[1])
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}
