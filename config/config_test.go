package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddvk/dxf2png/dxf"
	"github.com/ddvk/dxf2png/render"
)

const groupedJSON = `{
  "layers": {
    "Walls": ["A-WALL", "A-WALL-EXT"],
    "Doors": ["A-DOOR"],
    "Areas": ["A-AREA"]
  },
  "colors": {
    "Walls": [255, 0, 0],
    "Doors": "#00ff80"
  },
  "mask_fill": {"ellipse": "solid", "CIRCLE": "outline"},
  "max_pixels": 1000000
}`

const groupedYAML = `
layers:
  Walls: [A-WALL, A-WALL-EXT]
  Doors:
    - A-DOOR
  Areas: [A-AREA]
colors:
  Walls: [255, 0, 0]
  Doors: "#00ff80"
aci_colors: true
mask_fill:
  ellipse: solid
`

func names(g LayerGroups) []string {
	var out []string
	for _, group := range g {
		out = append(out, group.Name)
	}
	return out
}

func TestParseJSONKeepsOrder(t *testing.T) {
	cfg, err := ParseJSON([]byte(groupedJSON))
	require.NoError(t, err)
	assert.Equal(t, []string{"Walls", "Doors", "Areas"}, names(cfg.Layers))
	assert.Equal(t, []string{"A-WALL", "A-WALL-EXT"}, cfg.Layers[0].Layers)
	assert.Equal(t, Color{R: 255, A: 255}, cfg.Colors["Walls"])
	assert.Equal(t, Color{G: 255, B: 128, A: 255}, cfg.Colors["Doors"])
	assert.Equal(t, render.Solid, cfg.MaskFill["ellipse"])
	assert.Equal(t, 1000000, cfg.MaxPixels)
	assert.False(t, cfg.ACIColors)
}

func TestParseYAMLKeepsOrder(t *testing.T) {
	cfg, err := ParseYAML([]byte(groupedYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"Walls", "Doors", "Areas"}, names(cfg.Layers))
	assert.Equal(t, []string{"A-DOOR"}, cfg.Layers[1].Layers)
	assert.Equal(t, Color{G: 255, B: 128, A: 255}, cfg.Colors["Doors"])
	assert.True(t, cfg.ACIColors)
	assert.Equal(t, render.Solid, cfg.MaskFill["ellipse"])
}

func TestFlatLayers(t *testing.T) {
	cfg, err := ParseJSON([]byte(`{"layers": ["b", "a", "c"], "colors": {"a": [1, 2, 3]}}`))
	require.NoError(t, err)
	assert.Equal(t, LayerGroups{{"b", []string{"b"}}, {"a", []string{"a"}}, {"c", []string{"c"}}}, cfg.Layers)

	cfg, err = ParseYAML([]byte("layers: [b, a]\n"))
	require.NoError(t, err)
	assert.Equal(t, LayerGroups{{"b", []string{"b"}}, {"a", []string{"a"}}}, cfg.Layers)
}

func TestDuplicateGroupKeepsFirstPosition(t *testing.T) {
	cfg, err := ParseJSON([]byte(`{"layers": {"x": ["1"], "y": ["2"], "x": ["3"]}}`))
	require.NoError(t, err)
	assert.Equal(t, LayerGroups{{"x", []string{"3"}}, {"y", []string{"2"}}}, cfg.Layers)
}

func TestColorComponentsAsFloats(t *testing.T) {
	cfg, err := ParseJSON([]byte(`{"layers": ["a"], "colors": {"a": [0, 0, 255.0]}}`))
	require.NoError(t, err)
	assert.Equal(t, Color{B: 255, A: 255}, cfg.Colors["a"])

	cfg, err = ParseYAML([]byte("layers: [a]\ncolors:\n  a: [10.0, 20, 30]\n"))
	require.NoError(t, err)
	assert.Equal(t, Color{R: 10, G: 20, B: 30, A: 255}, cfg.Colors["a"])
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"layers scalar", `{"layers": 3}`},
		{"layer list of numbers", `{"layers": {"a": [1, 2]}}`},
		{"short color", `{"layers": ["a"], "colors": {"a": [1, 2]}}`},
		{"color range", `{"layers": ["a"], "colors": {"a": [1, 2, 300]}}`},
		{"fractional color", `{"layers": ["a"], "colors": {"a": [1, 2, 3.5]}}`},
		{"negative color", `{"layers": ["a"], "colors": {"a": [-1, 2, 3]}}`},
		{"bad hex", `{"layers": ["a"], "colors": {"a": "red"}}`},
		{"fill mode", `{"mask_fill": {"circle": "hollow"}}`},
		{"fill kind", `{"mask_fill": {"line": "solid"}}`},
		{"max pixels", `{"max_pixels": -1}`},
		{"syntax", `{"layers": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.data))
			assert.Error(t, err)
		})
	}

	_, err := ParseJSON([]byte(`{"mask_fill": {"line": "solid"}}`))
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorContains(t, err, "mask_fill.line")

	_, err = ParseYAML([]byte("layers: text\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestOptions(t *testing.T) {
	cfg, err := ParseJSON([]byte(groupedJSON))
	require.NoError(t, err)
	opts := cfg.Options()

	require.Len(t, opts.Groups, 3)
	assert.Equal(t, "Walls", opts.Groups[0].Name)
	require.NotNil(t, opts.Groups[0].Color)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, *opts.Groups[0].Color)
	assert.Nil(t, opts.Groups[2].Color)
	assert.Equal(t, map[dxf.EntityType]render.FillMode{
		dxf.EllipseType: render.Solid,
		dxf.CircleType:  render.Outline,
	}, opts.MaskFill)
	assert.Equal(t, 1000000, opts.MaxPixels)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "config.json")
	yamlPath := filepath.Join(dir, "config.YML")
	require.NoError(t, os.WriteFile(jsonPath, []byte(groupedJSON), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte(groupedYAML), 0o644))

	fromJSON, err := Load(jsonPath)
	require.NoError(t, err)
	fromYAML, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, fromJSON.Layers, fromYAML.Layers)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"layers": 1}`), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, bad)
}
