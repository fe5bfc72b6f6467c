package dxf

import "strings"

type Layer struct {
	Name  string
	Color int
	Flags int
}

// IsOff reports a layer switched off, stored as a negative color.
func (l *Layer) IsOff() bool {
	return l.Color < 0
}

// LayerTable keeps layers in file order. Lookups ignore case like DXF table names do.
type LayerTable struct {
	layers []*Layer
	index  map[string]int
}

func NewLayerTable() LayerTable {
	return LayerTable{
		index: make(map[string]int),
	}
}

func (lt *LayerTable) Len() int {
	return len(lt.layers)
}

// Add inserts l, replacing a layer of the same name.
func (lt *LayerTable) Add(l *Layer) {
	if lt.index == nil {
		lt.index = make(map[string]int)
	}
	key := strings.ToLower(l.Name)
	if i, ok := lt.index[key]; ok {
		lt.layers[i] = l
		return
	}
	lt.index[key] = len(lt.layers)
	lt.layers = append(lt.layers, l)
}

func (lt *LayerTable) Get(name string) (*Layer, bool) {
	i, ok := lt.index[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return lt.layers[i], true
}

func (lt *LayerTable) Has(name string) bool {
	_, ok := lt.index[strings.ToLower(name)]
	return ok
}

func (lt *LayerTable) Names() []string {
	names := make([]string, 0, len(lt.layers))
	for _, l := range lt.layers {
		names = append(names, l.Name)
	}
	return names
}

func (lt *LayerTable) All() []*Layer {
	return lt.layers
}
