package tilemap

import (
	"errors"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/Faultbox/fieldboard/internal/gameboard"
	"github.com/Faultbox/fieldboard/pkg/grid"
)

// Layer errors.
var (
	ErrAttached    = errors.New("layer already attached")
	ErrNotAttached = errors.New("layer not attached")
)

// Board is the part of the gameboard a layer reports to.
type Board interface {
	RegisterLayer(id gameboard.LayerID, layer gameboard.Layer) error
	DeregisterLayer(id gameboard.LayerID) error
	OnLayerCellsChanged(id gameboard.LayerID, cleared, blocked []grid.Cell) error
}

type status uint8

const (
	statusAbsent status = iota
	statusClear
	statusBlocked
)

// Layer is a tile map used as a collision layer. Every edit is sent to the
// attached board as one cleared/blocked batch.
type Layer struct {
	name    string
	tileset *Tileset
	tiles   map[grid.Cell]TileID
	clear   mapset.Set[grid.Cell]

	board Board
	id    gameboard.LayerID
}

// NewLayer creates an empty, detached layer.
func NewLayer(name string, tileset *Tileset) *Layer {
	return &Layer{
		name:    name,
		tileset: tileset,
		tiles:   make(map[grid.Cell]TileID),
		clear:   mapset.New[grid.Cell](),
	}
}

// Name returns the layer name.
func (l *Layer) Name() string {
	return l.name
}

// Tileset returns the tileset the layer paints with.
func (l *Layer) Tileset() *Tileset {
	return l.tileset
}

// HasTileAt reports whether a tile is painted at cell.
func (l *Layer) HasTileAt(cell grid.Cell) bool {
	_, ok := l.tiles[cell]
	return ok
}

// IsCellBlocked reports whether the tile at cell blocks movement.
func (l *Layer) IsCellBlocked(cell grid.Cell) bool {
	id, ok := l.tiles[cell]
	return ok && l.tileset.IsBlocking(id)
}

// TileAt returns the tile painted at cell.
func (l *Layer) TileAt(cell grid.Cell) (TileID, bool) {
	id, ok := l.tiles[cell]
	return id, ok
}

// Cells returns every painted cell, row-major.
func (l *Layer) Cells() []grid.Cell {
	cells := make([]grid.Cell, 0, len(l.tiles))
	for cell := range l.tiles {
		cells = append(cells, cell)
	}
	sortCells(cells)
	return cells
}

// ClearCells returns the cells this layer reports as clear, row-major.
func (l *Layer) ClearCells() []grid.Cell {
	cells := make([]grid.Cell, 0, l.clear.Size())
	l.clear.Each(func(cell grid.Cell) {
		cells = append(cells, cell)
	})
	sortCells(cells)
	return cells
}

func (l *Layer) statusAt(cell grid.Cell) status {
	id, ok := l.tiles[cell]
	switch {
	case !ok:
		return statusAbsent
	case l.tileset.IsBlocking(id):
		return statusBlocked
	default:
		return statusClear
	}
}

// SetCell paints one tile.
func (l *Layer) SetCell(cell grid.Cell, id TileID) error {
	return l.SetCells(map[grid.Cell]TileID{cell: id})
}

// EraseCell removes one tile.
func (l *Layer) EraseCell(cell grid.Cell) error {
	return l.EraseCells([]grid.Cell{cell})
}

// SetCells paints tiles as one batch.
func (l *Layer) SetCells(tiles map[grid.Cell]TileID) error {
	cells := make([]grid.Cell, 0, len(tiles))
	for cell := range tiles {
		cells = append(cells, cell)
	}
	sortCells(cells)

	return l.edit(cells, func(cell grid.Cell) {
		l.tiles[cell] = tiles[cell]
	})
}

// EraseCells removes tiles as one batch.
func (l *Layer) EraseCells(cells []grid.Cell) error {
	return l.edit(cells, func(cell grid.Cell) {
		delete(l.tiles, cell)
	})
}

// edit applies change to each cell and reports the resulting status deltas.
// A cell losing a clear tile or gaining a blocking one is reported blocked;
// a cell gaining a clear tile or losing a blocking one is reported cleared.
// Retiling that keeps a cell's status reports nothing.
func (l *Layer) edit(cells []grid.Cell, change func(grid.Cell)) error {
	var cleared, blocked []grid.Cell
	for _, cell := range cells {
		before := l.statusAt(cell)
		change(cell)
		after := l.statusAt(cell)
		if before == after {
			continue
		}

		if after == statusClear {
			l.clear.Put(cell)
		} else {
			l.clear.Remove(cell)
		}

		switch {
		case after == statusClear, before == statusBlocked && after == statusAbsent:
			cleared = append(cleared, cell)
		default:
			blocked = append(blocked, cell)
		}
	}
	return l.notify(cleared, blocked)
}

func (l *Layer) notify(cleared, blocked []grid.Cell) error {
	if l.board == nil || (len(cleared) == 0 && len(blocked) == 0) {
		return nil
	}
	return l.board.OnLayerCellsChanged(l.id, cleared, blocked)
}

// blockingCells returns the cells holding a blocking tile, row-major.
func (l *Layer) blockingCells() []grid.Cell {
	var cells []grid.Cell
	for cell := range l.tiles {
		if l.statusAt(cell) == statusBlocked {
			cells = append(cells, cell)
		}
	}
	sortCells(cells)
	return cells
}

// Attach registers the layer with board under id and reports its current
// tiles: clear tiles as cleared, blocking tiles as blocked.
func (l *Layer) Attach(board Board, id gameboard.LayerID) error {
	if l.board != nil {
		return ErrAttached
	}
	if err := board.RegisterLayer(id, l); err != nil {
		return err
	}
	l.board = board
	l.id = id
	return l.notify(l.ClearCells(), l.blockingCells())
}

// Detach deregisters the layer, then reports its clear cells as blocked
// and its blocking cells as cleared so the board recomputes them without it.
func (l *Layer) Detach() error {
	if l.board == nil {
		return ErrNotAttached
	}
	board, id := l.board, l.id
	if err := board.DeregisterLayer(id); err != nil {
		return err
	}
	l.board = nil
	l.id = ""
	return board.OnLayerCellsChanged(id, l.blockingCells(), l.ClearCells())
}

// IsAttached reports whether the layer is registered with a board.
func (l *Layer) IsAttached() bool {
	return l.board != nil
}

func sortCells(cells []grid.Cell) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
}
