package tilemap

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/fieldboard/internal/gameboard"
	"github.com/Faultbox/fieldboard/internal/gamepiece"
	"github.com/Faultbox/fieldboard/pkg/grid"
)

// Layout errors.
var (
	ErrUnknownTileset = errors.New("unknown tileset")
	ErrUnknownGlyph   = errors.New("unknown tile glyph")
)

// LayerDef is one layer of a layout file. Rows are read top to bottom
// starting at Origin; a space leaves the cell without a tile.
type LayerDef struct {
	Name    string    `yaml:"name"`
	Tileset string    `yaml:"tileset"`
	Origin  grid.Cell `yaml:"origin"`
	Rows    []string  `yaml:"rows"`
}

// GamepieceDef places a gamepiece when the layout is built.
type GamepieceDef struct {
	ID   gamepiece.ID `yaml:"id"`
	Cell grid.Cell    `yaml:"cell"`
}

// Layout is a board description loaded from YAML.
type Layout struct {
	Extents    grid.Rect           `yaml:"extents"`
	CellSize   grid.Size           `yaml:"cell_size"`
	Tilesets   map[string]*Tileset `yaml:"tilesets"`
	Layers     []LayerDef          `yaml:"layers"`
	Gamepieces []GamepieceDef      `yaml:"gamepieces"`
}

// Map is a built layout: an active board and its attached layers.
type Map struct {
	Board  *gameboard.Board
	Layers []*Layer
}

// Layer returns the attached layer with the given name.
func (m *Map) Layer(name string) (*Layer, bool) {
	for _, l := range m.Layers {
		if l.Name() == name {
			return l, true
		}
	}
	return nil, false
}

// Load reads a layout file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	layout, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing layout %s: %w", path, err)
	}
	return layout, nil
}

// Parse decodes a YAML layout.
func Parse(data []byte) (*Layout, error) {
	layout := &Layout{
		CellSize: grid.Size{Width: 16, Height: 16},
	}
	if err := yaml.Unmarshal(data, layout); err != nil {
		return nil, err
	}
	for name, ts := range layout.Tilesets {
		if ts.Name == "" {
			ts.Name = name
		}
	}
	return layout, nil
}

// Marshal encodes the layout as YAML.
func (lo *Layout) Marshal() ([]byte, error) {
	return yaml.Marshal(lo)
}

// Properties returns the board geometry of the layout.
func (lo *Layout) Properties() gameboard.Properties {
	return gameboard.Properties{Extents: lo.Extents, CellSize: lo.CellSize}
}

// NewLayers creates detached layers painted from the layer definitions.
func (lo *Layout) NewLayers() ([]*Layer, error) {
	layers := make([]*Layer, 0, len(lo.Layers))
	for _, def := range lo.Layers {
		ts, ok := lo.Tilesets[def.Tileset]
		if !ok {
			return nil, fmt.Errorf("layer %q: %w: %q", def.Name, ErrUnknownTileset, def.Tileset)
		}

		glyphs := ts.glyphs()
		tiles := make(map[grid.Cell]TileID)
		for y, row := range def.Rows {
			x := 0
			for _, r := range row {
				cell := grid.Cell{X: def.Origin.X + x, Y: def.Origin.Y + y}
				x++
				if r == ' ' {
					continue
				}
				id, ok := glyphs[r]
				if !ok {
					return nil, fmt.Errorf("layer %q at %v: %w: %q", def.Name, cell, ErrUnknownGlyph, r)
				}
				tiles[cell] = id
			}
		}

		layer := NewLayer(def.Name, ts)
		if err := layer.SetCells(tiles); err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

// Build creates and activates a board, attaches every layer in order and
// registers the layout's gamepieces.
func (lo *Layout) Build(opts ...gameboard.Option) (*Map, error) {
	layers, err := lo.NewLayers()
	if err != nil {
		return nil, err
	}

	board := gameboard.New(lo.Properties(), opts...)
	if err := board.Activate(); err != nil {
		return nil, err
	}

	for _, layer := range layers {
		if err := layer.Attach(board, gameboard.LayerID(layer.Name())); err != nil {
			return nil, fmt.Errorf("attaching layer %q: %w", layer.Name(), err)
		}
	}
	for _, gp := range lo.Gamepieces {
		if err := board.RegisterGamepiece(gp.ID, gp.Cell); err != nil {
			return nil, fmt.Errorf("registering gamepiece %q: %w", gp.ID, err)
		}
	}

	return &Map{Board: board, Layers: layers}, nil
}
