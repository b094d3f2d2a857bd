package main

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/fieldboard/pkg/grid"
)

const (
	minCellPixels = 2
	maxCellPixels = 64
)

// viewport maps board cells to window pixels. offset is the board cell
// drawn at the window origin.
type viewport struct {
	extents    grid.Rect
	cellPixels int
	offset     grid.Cell
}

func newViewport(extents grid.Rect, cellPixels int) *viewport {
	v := &viewport{
		extents:    extents,
		cellPixels: cellPixels,
		offset:     grid.Cell{X: extents.X, Y: extents.Y},
	}
	v.zoom(0)
	return v
}

func (v *viewport) cellAt(x, y int32) grid.Cell {
	return grid.Cell{
		X: v.offset.X + floorDiv(int(x), v.cellPixels),
		Y: v.offset.Y + floorDiv(int(y), v.cellPixels),
	}
}

func (v *viewport) cellRect(cell grid.Cell) (sdl.Rect, bool) {
	x := (cell.X - v.offset.X) * v.cellPixels
	y := (cell.Y - v.offset.Y) * v.cellPixels
	if x < -v.cellPixels || y < -v.cellPixels {
		return sdl.Rect{}, false
	}
	return sdl.Rect{X: int32(x), Y: int32(y), W: int32(v.cellPixels), H: int32(v.cellPixels)}, true
}

func (v *viewport) pan(dir grid.Direction) {
	step := dir.Offset()
	v.offset = v.offset.Add(grid.Cell{X: step.X * 4, Y: step.Y * 4})
}

func (v *viewport) zoom(delta int32) {
	v.cellPixels += int(delta)
	v.cellPixels = max(minCellPixels, min(maxCellPixels, v.cellPixels))
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}
