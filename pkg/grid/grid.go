// Package grid maps between board cells, dense cell indices and pixel positions.
package grid

import (
	"errors"
	"fmt"

	"github.com/Faultbox/fieldboard/pkg/math"
)

// InvalidIndex is returned for cells outside the board extents.
const InvalidIndex = -1

// InvalidCell is returned when a computed cell falls outside the board extents.
var InvalidCell = Cell{X: -1, Y: -1}

// ErrInvalidCellSize is returned when a cell size component is not positive.
var ErrInvalidCellSize = errors.New("cell size must be positive")

// Cell is an integer grid coordinate.
type Cell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Add returns c offset by other.
func (c Cell) Add(other Cell) Cell {
	return Cell{c.X + other.X, c.Y + other.Y}
}

// String returns the cell as "(x,y)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Size is a width/height pair in cells or pixels.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Rect is an axis-aligned rectangle of cells.
type Rect struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Direction is one of the four orthogonal neighbours of a cell.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists every direction in neighbour iteration order.
var Directions = [...]Direction{North, East, South, West}

var directionOffsets = [...]Cell{
	North: {0, -1},
	East:  {1, 0},
	South: {0, 1},
	West:  {-1, 0},
}

// Offset returns the unit step for the direction.
func (d Direction) Offset() Cell {
	if int(d) >= len(directionOffsets) {
		return Cell{}
	}
	return directionOffsets[d]
}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return fmt.Sprintf("Direction(%d)", d)
	}
}

// Index converts between cells, indices and pixels for fixed extents.
// Extents and cell size cannot change once the index is built; indices
// computed against one Index are meaningless for another.
type Index struct {
	extents  Rect
	cellSize Size
}

// NewIndex creates an index. Extents smaller than 1x1 are clamped to 1.
func NewIndex(extents Rect, cellSize Size) (*Index, error) {
	if cellSize.Width <= 0 || cellSize.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidCellSize, cellSize.Width, cellSize.Height)
	}
	extents.Width = max(extents.Width, 1)
	extents.Height = max(extents.Height, 1)
	return &Index{extents: extents, cellSize: cellSize}, nil
}

// Extents returns the playable region.
func (ix *Index) Extents() Rect {
	return ix.extents
}

// CellSize returns the pixel size of one cell.
func (ix *Index) CellSize() Size {
	return ix.cellSize
}

// Len returns the number of cells inside the extents.
func (ix *Index) Len() int {
	return ix.extents.Width * ix.extents.Height
}

// Contains reports whether cell lies inside the extents.
func (ix *Index) Contains(cell Cell) bool {
	e := ix.extents
	return cell.X >= e.X && cell.X < e.X+e.Width &&
		cell.Y >= e.Y && cell.Y < e.Y+e.Height
}

// CellToIndex returns the dense id of cell, or InvalidIndex when out of bounds.
func (ix *Index) CellToIndex(cell Cell) int {
	if !ix.Contains(cell) {
		return InvalidIndex
	}
	e := ix.extents
	return (cell.X - e.X) + (cell.Y-e.Y)*e.Width
}

// IndexToCell is the inverse of CellToIndex. Out-of-range ids yield InvalidCell.
func (ix *Index) IndexToCell(index int) Cell {
	if index < 0 || index >= ix.Len() {
		return InvalidCell
	}
	e := ix.extents
	cell := Cell{
		X: index%e.Width + e.X,
		Y: index/e.Width + e.Y,
	}
	if !ix.Contains(cell) {
		return InvalidCell
	}
	return cell
}

// AdjacentCell returns the neighbour in dir, or InvalidCell when out of bounds.
func (ix *Index) AdjacentCell(cell Cell, dir Direction) Cell {
	neighbor := cell.Add(dir.Offset())
	if neighbor == cell || !ix.Contains(neighbor) {
		return InvalidCell
	}
	return neighbor
}

// AdjacentCells returns the in-bounds neighbours of cell in North, East,
// South, West order.
func (ix *Index) AdjacentCells(cell Cell) []Cell {
	cells := make([]Cell, 0, len(Directions))
	for _, dir := range Directions {
		neighbor := ix.AdjacentCell(cell, dir)
		if neighbor == InvalidCell || neighbor == cell {
			continue
		}
		cells = append(cells, neighbor)
	}
	return cells
}

// CellToPixel returns the pixel position of the cell centre.
func (ix *Index) CellToPixel(cell Cell) math.Vec2 {
	w, h := ix.cellSize.Width, ix.cellSize.Height
	return math.Vec2{
		X: float32(cell.X*w + w/2),
		Y: float32(cell.Y*h + h/2),
	}
}

// PixelToCell returns the cell containing pixel.
func (ix *Index) PixelToCell(pixel math.Vec2) Cell {
	size := math.Vec2{X: float32(ix.cellSize.Width), Y: float32(ix.cellSize.Height)}
	x, y := pixel.Div(size).Floor()
	return Cell{X: x, Y: y}
}
