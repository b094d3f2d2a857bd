// Package tilemap provides tile-map collision layers and YAML board layouts.
package tilemap

import (
	"slices"
)

// BlocksMovement is the custom data layer that marks a tile as impassable.
const BlocksMovement = "blocks_movement"

// TileID identifies a tile within its tileset.
type TileID int

// Tile is one tileset entry.
type Tile struct {
	Name  string          `yaml:"name"`
	Glyph string          `yaml:"glyph"`
	Data  map[string]bool `yaml:"data"`
}

// Tileset describes the tiles a layer paints with. CustomData declares the
// data layers its tiles may set.
type Tileset struct {
	Name       string          `yaml:"name"`
	CustomData []string        `yaml:"custom_data"`
	Tiles      map[TileID]Tile `yaml:"tiles"`
}

// HasCustomData reports whether the tileset declares the named data layer.
func (ts *Tileset) HasCustomData(name string) bool {
	return ts != nil && slices.Contains(ts.CustomData, name)
}

// IsBlocking reports whether tile blocks movement. Without a declared
// BlocksMovement data layer every tile blocks; unknown tiles block too.
func (ts *Tileset) IsBlocking(id TileID) bool {
	if !ts.HasCustomData(BlocksMovement) {
		return true
	}
	tile, ok := ts.Tiles[id]
	if !ok {
		return true
	}
	return tile.Data[BlocksMovement]
}

// glyphs maps each tile glyph to its id.
func (ts *Tileset) glyphs() map[rune]TileID {
	out := make(map[rune]TileID, len(ts.Tiles))
	for id, tile := range ts.Tiles {
		for _, r := range tile.Glyph {
			out[r] = id
			break
		}
	}
	return out
}

// Glyph returns the first rune of a tile's glyph, or '?' if it has none.
func (ts *Tileset) Glyph(id TileID) rune {
	if tile, ok := ts.Tiles[id]; ok {
		for _, r := range tile.Glyph {
			return r
		}
	}
	return '?'
}
