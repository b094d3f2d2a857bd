// Package debug provides board visualization utilities.
package debug

import (
	"bufio"
	"io"

	"github.com/Faultbox/fieldboard/internal/gameboard"
	"github.com/Faultbox/fieldboard/pkg/grid"
)

// Kind classifies a cell in an overlay.
type Kind uint8

const (
	KindVoid     Kind = iota // not navigable
	KindOpen                 // navigable and free
	KindOccupied             // navigable, held by a gamepiece
	KindPath
	KindSource
	KindTarget
)

// Glyph returns the ASCII glyph drawn for the kind.
func (k Kind) Glyph() rune {
	switch k {
	case KindOpen:
		return '.'
	case KindOccupied:
		return '@'
	case KindPath:
		return '*'
	case KindSource:
		return 'S'
	case KindTarget:
		return 'T'
	default:
		return '#'
	}
}

// Color returns the RGB color drawn for the kind.
func (k Kind) Color() [3]uint8 {
	switch k {
	case KindOpen:
		return [3]uint8{0, 128, 0} // green
	case KindOccupied:
		return [3]uint8{200, 160, 0}
	case KindPath:
		return [3]uint8{80, 140, 255}
	case KindSource:
		return [3]uint8{255, 255, 255}
	case KindTarget:
		return [3]uint8{255, 64, 255}
	default:
		return [3]uint8{64, 16, 16} // dark red
	}
}

// Overlay is a snapshot of board navigability with an optional route.
type Overlay struct {
	Extents grid.Rect
	kinds   []Kind
	index   *grid.Index
}

// Snapshot captures every cell of an active board.
func Snapshot(board *gameboard.Board) (*Overlay, error) {
	if !board.IsActive() {
		return nil, gameboard.ErrNotActive
	}

	index := board.Index()
	pf := board.Pathfinder()
	o := &Overlay{
		Extents: index.Extents(),
		kinds:   make([]Kind, index.Len()),
		index:   index,
	}
	for i := range o.kinds {
		cell := index.IndexToCell(i)
		switch {
		case !pf.HasCell(cell):
			o.kinds[i] = KindVoid
		case board.Gamepieces().IsOccupied(cell):
			o.kinds[i] = KindOccupied
		default:
			o.kinds[i] = KindOpen
		}
	}
	return o, nil
}

// At returns the kind of cell; cells outside the extents are void.
func (o *Overlay) At(cell grid.Cell) Kind {
	i := o.index.CellToIndex(cell)
	if i == grid.InvalidIndex {
		return KindVoid
	}
	return o.kinds[i]
}

// Mark sets the kind of one cell; cells outside the extents are ignored.
func (o *Overlay) Mark(cell grid.Cell, k Kind) {
	if i := o.index.CellToIndex(cell); i != grid.InvalidIndex {
		o.kinds[i] = k
	}
}

// MarkRoute draws a path and its endpoints over the snapshot.
func (o *Overlay) MarkRoute(source, target grid.Cell, path []grid.Cell) {
	for _, cell := range path {
		o.Mark(cell, KindPath)
	}
	o.Mark(source, KindSource)
	o.Mark(target, KindTarget)
}

// Count returns the number of cells of kind k.
func (o *Overlay) Count(k Kind) int {
	n := 0
	for _, kind := range o.kinds {
		if kind == k {
			n++
		}
	}
	return n
}

// WriteASCII writes one line per row, top row first.
func (o *Overlay) WriteASCII(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < o.Extents.Height; y++ {
		for x := 0; x < o.Extents.Width; x++ {
			cell := grid.Cell{X: o.Extents.X + x, Y: o.Extents.Y + y}
			bw.WriteRune(o.At(cell).Glyph())
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
