// Package config loads the converter settings from JSON or YAML.
//
// The layers key is either an object mapping a display name to CAD layer
// names, or a flat list of CAD layer names that each form their own group.
// Display names keep the order of the file.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ddvk/dxf2png/dxf"
	"github.com/ddvk/dxf2png/render"
)

var ErrInvalid = errors.New("invalid config")

// Group is a display layer and the CAD layers drawn into it.
type Group struct {
	Name   string
	Layers []string
}

// LayerGroups is the ordered value of the layers key.
type LayerGroups []Group

func (g *LayerGroups) add(name string, layers []string) {
	for i := range *g {
		if (*g)[i].Name == name {
			(*g)[i].Layers = layers
			return
		}
	}
	*g = append(*g, Group{Name: name, Layers: layers})
}

func (g *LayerGroups) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	*g = nil
	switch tok {
	case json.Delim('{'):
		for dec.More() {
			tok, err = dec.Token()
			if err != nil {
				return err
			}
			name := tok.(string)
			var layers []string
			if err = dec.Decode(&layers); err != nil {
				return fmt.Errorf("%w: layers.%s: %v", ErrInvalid, name, err)
			}
			g.add(name, layers)
		}
	case json.Delim('['):
		for dec.More() {
			var name string
			if err = dec.Decode(&name); err != nil {
				return fmt.Errorf("%w: layers[%d]: %v", ErrInvalid, len(*g), err)
			}
			g.add(name, []string{name})
		}
	default:
		return fmt.Errorf("%w: layers: want an object or a list", ErrInvalid)
	}
	return nil
}

func (g *LayerGroups) UnmarshalYAML(value *yaml.Node) error {
	*g = nil
	switch value.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			name := value.Content[i].Value
			var layers []string
			if err := value.Content[i+1].Decode(&layers); err != nil {
				return fmt.Errorf("%w: layers.%s: %v", ErrInvalid, name, err)
			}
			g.add(name, layers)
		}
	case yaml.SequenceNode:
		for i, n := range value.Content {
			if n.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w: layers[%d]: want a layer name", ErrInvalid, i)
			}
			g.add(n.Value, []string{n.Value})
		}
	default:
		return fmt.Errorf("%w: layers: want a mapping or a list (line %d)", ErrInvalid, value.Line)
	}
	return nil
}

// Color is written as [R, G, B] or "#rrggbb".
type Color color.RGBA

// fromComponents accepts whole numbers in 0..255, written as 255 or 255.0.
func (c *Color) fromComponents(rgb []float64) error {
	if len(rgb) != 3 {
		return fmt.Errorf("want 3 components, got %d", len(rgb))
	}
	for _, v := range rgb {
		if v != math.Trunc(v) || v < 0 || v > 0xff {
			return fmt.Errorf("component %v is not an integer in 0..255", v)
		}
	}
	*c = Color{R: uint8(rgb[0]), G: uint8(rgb[1]), B: uint8(rgb[2]), A: 0xff}
	return nil
}

func (c *Color) fromHex(s string) error {
	hex, err := colorful.Hex(s)
	if err != nil {
		return err
	}
	r, g, b := hex.RGB255()
	*c = Color{R: r, G: g, B: b, A: 0xff}
	return nil
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return c.fromHex(s)
	}
	var rgb []float64
	if err := json.Unmarshal(data, &rgb); err != nil {
		return err
	}
	return c.fromComponents(rgb)
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return c.fromHex(value.Value)
	}
	var rgb []float64
	if err := value.Decode(&rgb); err != nil {
		return err
	}
	return c.fromComponents(rgb)
}

func (c Color) RGBA() color.RGBA {
	return color.RGBA(c)
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

type Config struct {
	Layers    LayerGroups                `json:"layers" yaml:"layers"`
	Colors    map[string]Color           `json:"colors" yaml:"colors"`
	ACIColors bool                       `json:"aci_colors" yaml:"aci_colors"`
	MaskFill  map[string]render.FillMode `json:"mask_fill" yaml:"mask_fill"`
	MaxPixels int                        `json:"max_pixels" yaml:"max_pixels"`
}

// Load reads path as YAML when it ends in .yaml or .yml, otherwise as JSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = ParseYAML(data)
	default:
		cfg, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func ParseJSON(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.validate()
}

func ParseYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.MaxPixels < 0 {
		return fmt.Errorf("%w: max_pixels: %d is negative", ErrInvalid, c.MaxPixels)
	}
	for kind := range c.MaskFill {
		if !render.Configurable(dxf.EntityType(strings.ToUpper(kind))) {
			return fmt.Errorf("%w: mask_fill.%s: fill mode of %s cannot be set", ErrInvalid, kind, kind)
		}
	}
	if len(c.Layers) == 0 {
		log.Warn("config has no layers, images will be blank")
	}
	for name := range c.Colors {
		if !c.hasGroup(name) {
			log.Warnf("color for unknown layer group %s", name)
		}
	}
	return nil
}

func (c *Config) hasGroup(name string) bool {
	for _, g := range c.Layers {
		if g.Name == name {
			return true
		}
	}
	return false
}

// Options converts the config to painter options. Groups without a color
// get nil so the painter can fall back to black or the drawing's colors.
func (c *Config) Options() render.Options {
	opts := render.Options{
		ACIColors: c.ACIColors,
		MaxPixels: c.MaxPixels,
	}
	for _, g := range c.Layers {
		rg := render.Group{Name: g.Name, Layers: g.Layers}
		if col, ok := c.Colors[g.Name]; ok {
			rgba := col.RGBA()
			rg.Color = &rgba
		}
		opts.Groups = append(opts.Groups, rg)
	}
	if len(c.MaskFill) > 0 {
		opts.MaskFill = make(map[dxf.EntityType]render.FillMode, len(c.MaskFill))
		for kind, mode := range c.MaskFill {
			opts.MaskFill[dxf.EntityType(strings.ToUpper(kind))] = mode
		}
	}
	return opts
}
