package grid

import (
	"errors"
	"testing"

	"github.com/Faultbox/fieldboard/pkg/math"
)

func mustIndex(t *testing.T, extents Rect, cellSize Size) *Index {
	t.Helper()
	ix, err := NewIndex(extents, cellSize)
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	return ix
}

func TestNewIndex_ClampsExtents(t *testing.T) {
	ix := mustIndex(t, Rect{X: 2, Y: 3, Width: 0, Height: -4}, Size{16, 16})

	e := ix.Extents()
	if e.Width != 1 || e.Height != 1 {
		t.Errorf("expected extents clamped to 1x1, got %dx%d", e.Width, e.Height)
	}
	if ix.Len() != 1 {
		t.Errorf("expected 1 cell, got %d", ix.Len())
	}
}

func TestNewIndex_InvalidCellSize(t *testing.T) {
	for _, size := range []Size{{0, 16}, {16, 0}, {-1, -1}} {
		if _, err := NewIndex(Rect{Width: 3, Height: 3}, size); !errors.Is(err, ErrInvalidCellSize) {
			t.Errorf("NewIndex(%v): expected ErrInvalidCellSize, got %v", size, err)
		}
	}
}

func TestIndex_RoundTrip(t *testing.T) {
	extents := Rect{X: -3, Y: 5, Width: 7, Height: 4}
	ix := mustIndex(t, extents, Size{16, 16})

	for y := extents.Y; y < extents.Y+extents.Height; y++ {
		for x := extents.X; x < extents.X+extents.Width; x++ {
			cell := Cell{x, y}
			if got := ix.IndexToCell(ix.CellToIndex(cell)); got != cell {
				t.Errorf("IndexToCell(CellToIndex(%v)) = %v", cell, got)
			}
		}
	}

	for i := 0; i < ix.Len(); i++ {
		if got := ix.CellToIndex(ix.IndexToCell(i)); got != i {
			t.Errorf("CellToIndex(IndexToCell(%d)) = %d", i, got)
		}
	}
}

func TestIndex_OutOfBounds(t *testing.T) {
	ix := mustIndex(t, Rect{X: 0, Y: 0, Width: 3, Height: 3}, Size{16, 16})

	for _, cell := range []Cell{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {10, 10}} {
		if got := ix.CellToIndex(cell); got != InvalidIndex {
			t.Errorf("CellToIndex(%v) = %d, want %d", cell, got, InvalidIndex)
		}
	}

	for _, index := range []int{-1, 9, 100} {
		if got := ix.IndexToCell(index); got != InvalidCell {
			t.Errorf("IndexToCell(%d) = %v, want InvalidCell", index, got)
		}
	}
}

func TestIndex_CellToIndexFormula(t *testing.T) {
	ix := mustIndex(t, Rect{X: 1, Y: 1, Width: 4, Height: 2}, Size{8, 8})

	tests := []struct {
		cell Cell
		want int
	}{
		{Cell{1, 1}, 0},
		{Cell{4, 1}, 3},
		{Cell{1, 2}, 4},
		{Cell{4, 2}, 7},
	}
	for _, tt := range tests {
		if got := ix.CellToIndex(tt.cell); got != tt.want {
			t.Errorf("CellToIndex(%v) = %d, want %d", tt.cell, got, tt.want)
		}
	}
}

func TestIndex_AdjacentCell(t *testing.T) {
	ix := mustIndex(t, Rect{Width: 3, Height: 3}, Size{16, 16})

	tests := []struct {
		cell Cell
		dir  Direction
		want Cell
	}{
		{Cell{1, 1}, North, Cell{1, 0}},
		{Cell{1, 1}, East, Cell{2, 1}},
		{Cell{1, 1}, South, Cell{1, 2}},
		{Cell{1, 1}, West, Cell{0, 1}},
		{Cell{0, 0}, North, InvalidCell},
		{Cell{0, 0}, West, InvalidCell},
		{Cell{2, 2}, East, InvalidCell},
		{Cell{2, 2}, South, InvalidCell},
	}
	for _, tt := range tests {
		t.Run(tt.cell.String()+"-"+tt.dir.String(), func(t *testing.T) {
			if got := ix.AdjacentCell(tt.cell, tt.dir); got != tt.want {
				t.Errorf("AdjacentCell = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIndex_AdjacentCells(t *testing.T) {
	ix := mustIndex(t, Rect{Width: 3, Height: 3}, Size{16, 16})

	got := ix.AdjacentCells(Cell{1, 1})
	want := []Cell{{1, 0}, {2, 1}, {1, 2}, {0, 1}}
	if len(got) != len(want) {
		t.Fatalf("expected %d neighbours, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("neighbour %d = %v, want %v", i, got[i], want[i])
		}
	}

	corner := ix.AdjacentCells(Cell{0, 0})
	if len(corner) != 2 {
		t.Errorf("expected 2 neighbours at corner, got %v", corner)
	}
	for _, c := range corner {
		if c == InvalidCell || c == (Cell{0, 0}) {
			t.Errorf("unexpected neighbour %v", c)
		}
	}
}

func TestIndex_PixelConversion(t *testing.T) {
	ix := mustIndex(t, Rect{Width: 10, Height: 10}, Size{16, 16})

	if got := ix.CellToPixel(Cell{2, 3}); got != (math.Vec2{X: 40, Y: 56}) {
		t.Errorf("CellToPixel((2,3)) = %v, want {40 56}", got)
	}

	tests := []struct {
		pixel math.Vec2
		want  Cell
	}{
		{math.Vec2{X: 0, Y: 0}, Cell{0, 0}},
		{math.Vec2{X: 15.9, Y: 15.9}, Cell{0, 0}},
		{math.Vec2{X: 16, Y: 31}, Cell{1, 1}},
		{math.Vec2{X: -0.5, Y: 3}, Cell{-1, 0}},
	}
	for _, tt := range tests {
		if got := ix.PixelToCell(tt.pixel); got != tt.want {
			t.Errorf("PixelToCell(%v) = %v, want %v", tt.pixel, got, tt.want)
		}
	}

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			cell := Cell{x, y}
			if got := ix.PixelToCell(ix.CellToPixel(cell)); got != cell {
				t.Errorf("PixelToCell(CellToPixel(%v)) = %v", cell, got)
			}
		}
	}
}

func TestDirection_String(t *testing.T) {
	if North.String() != "North" || West.String() != "West" {
		t.Error("unexpected direction names")
	}
	if Direction(9).String() != "Direction(9)" {
		t.Errorf("unexpected name for unknown direction: %s", Direction(9))
	}
}
