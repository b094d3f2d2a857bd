package gamepiece

import (
	"errors"
	"testing"

	"github.com/Faultbox/fieldboard/internal/pathfinder"
	"github.com/Faultbox/fieldboard/pkg/grid"
)

func TestFollower_WalksPath(t *testing.T) {
	pf, reg := mockBoard(t, 4, 1)
	ix := pf.Index()
	_ = reg.Register("hero", cellAt(0, 0))

	path := pf.ShortestPath(ix.CellToIndex(cellAt(0, 0)), ix.CellToIndex(cellAt(3, 0)), pathfinder.AllowSourceOccupant)
	if len(path) != 3 {
		t.Fatalf("expected 3-cell path, got %v", path)
	}

	f := NewFollower(reg, "hero")
	f.SetPath(path)

	for i, want := range path {
		got, err := f.Step()
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		if got != want || reg.CellOf("hero") != want {
			t.Errorf("step %d moved to %v, want %v", i, got, want)
		}
	}

	if !f.Done() {
		t.Error("expected follower to be done")
	}
	if _, err := f.Step(); !errors.Is(err, ErrNotFollowing) {
		t.Errorf("expected ErrNotFollowing after the last step, got %v", err)
	}
	if pf.DisabledCount() != 1 || !pf.IsDisabled(ix.CellToIndex(cellAt(3, 0))) {
		t.Error("only the final cell should be disabled")
	}
}

func TestFollower_Blocked(t *testing.T) {
	_, reg := mockBoard(t, 4, 1)
	_ = reg.Register("hero", cellAt(0, 0))

	f := NewFollower(reg, "hero")
	f.SetPath([]grid.Cell{cellAt(1, 0), cellAt(2, 0), cellAt(3, 0)})

	if _, err := f.Step(); err != nil {
		t.Fatalf("first step failed: %v", err)
	}

	_ = reg.Register("npc", cellAt(2, 0))

	cell, err := f.Step()
	if !errors.Is(err, ErrPathBlocked) || !errors.Is(err, ErrCellOccupied) {
		t.Fatalf("expected ErrPathBlocked wrapping ErrCellOccupied, got %v", err)
	}
	if cell != cellAt(1, 0) {
		t.Errorf("blocked follower should stay at (1,0), got %v", cell)
	}
	if !f.Done() {
		t.Error("blocked follower should stop")
	}
	if got := f.Remaining(); len(got) != 2 || got[0] != cellAt(2, 0) {
		t.Errorf("Remaining = %v", got)
	}
}

func TestFollower_ClearPath(t *testing.T) {
	_, reg := mockBoard(t, 2, 1)
	_ = reg.Register("hero", cellAt(0, 0))

	f := NewFollower(reg, "hero")
	f.SetPath([]grid.Cell{cellAt(1, 0)})
	f.ClearPath()

	if f.GetPath() != nil || f.GetPathIndex() != 0 || !f.Done() {
		t.Error("ClearPath should reset the follower")
	}
	if _, err := f.Step(); !errors.Is(err, ErrNotFollowing) {
		t.Errorf("expected ErrNotFollowing, got %v", err)
	}
}
