package tilemap

import (
	"github.com/Faultbox/fieldboard/pkg/formats"
	"github.com/Faultbox/fieldboard/pkg/grid"
)

// GAT tiles.
const (
	GATGround TileID = iota
	GATWall
	GATWater
)

// GATTileset returns the tileset used for layers imported from GAT tables.
func GATTileset() *Tileset {
	return &Tileset{
		Name:       "gat",
		CustomData: []string{BlocksMovement},
		Tiles: map[TileID]Tile{
			GATGround: {Name: "ground", Glyph: ".", Data: map[string]bool{BlocksMovement: false}},
			GATWall:   {Name: "wall", Glyph: "#", Data: map[string]bool{BlocksMovement: true}},
			GATWater:  {Name: "water", Glyph: "~", Data: map[string]bool{BlocksMovement: true}},
		},
	}
}

// LayerFromGAT builds a detached layer from a walkability table, placing
// table cell (0,0) at origin. Every table cell gets a tile.
func LayerFromGAT(name string, gat *formats.GAT, origin grid.Cell) (*Layer, error) {
	layer := NewLayer(name, GATTileset())
	if gat == nil {
		return layer, nil
	}

	tiles := make(map[grid.Cell]TileID, len(gat.Cells))
	for y := 0; y < int(gat.Height); y++ {
		for x := 0; x < int(gat.Width); x++ {
			cell := gat.GetCell(x, y)
			id := GATWall
			switch {
			case cell.Type.IsWalkable():
				id = GATGround
			case cell.Type.IsWater():
				id = GATWater
			}
			tiles[grid.Cell{X: origin.X + x, Y: origin.Y + y}] = id
		}
	}
	if err := layer.SetCells(tiles); err != nil {
		return nil, err
	}
	return layer, nil
}
