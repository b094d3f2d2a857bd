package gamepiece

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/fieldboard/internal/logger"
	"github.com/Faultbox/fieldboard/internal/pathfinder"
	"github.com/Faultbox/fieldboard/pkg/grid"
)

// mockBoard returns an open width x height graph and a registry over it.
func mockBoard(t *testing.T, width, height int) (*pathfinder.Pathfinder, *Registry) {
	t.Helper()

	ix, err := grid.NewIndex(grid.Rect{Width: width, Height: height}, grid.Size{Width: 16, Height: 16})
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	pf := pathfinder.New(ix)
	for i := 0; i < ix.Len(); i++ {
		pf.AddNode(i, ix.IndexToCell(i))
	}
	for i := 0; i < ix.Len(); i++ {
		for _, nb := range ix.AdjacentCells(ix.IndexToCell(i)) {
			_ = pf.Connect(i, ix.CellToIndex(nb))
		}
	}
	return pf, NewRegistry(pf, nil, nil)
}

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(nil) })
	return logs
}

func cellAt(x, y int) grid.Cell {
	return grid.Cell{X: x, Y: y}
}

func TestRegistry_Register(t *testing.T) {
	pf, reg := mockBoard(t, 3, 3)

	var events []Moved
	reg.Moved().Subscribe(func(m Moved) { events = append(events, m) })

	if err := reg.Register("hero", cellAt(1, 1)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if got := reg.CellOf("hero"); got != cellAt(1, 1) {
		t.Errorf("CellOf = %v, want (1,1)", got)
	}
	if id, ok := reg.OccupantAt(cellAt(1, 1)); !ok || id != "hero" {
		t.Errorf("OccupantAt = %q,%v", id, ok)
	}
	if !pf.IsDisabled(pf.Index().CellToIndex(cellAt(1, 1))) {
		t.Error("occupied node should be disabled")
	}

	if len(events) != 1 {
		t.Fatalf("expected 1 moved event, got %d", len(events))
	}
	if events[0].Previous != grid.InvalidCell || events[0].Cell != cellAt(1, 1) || events[0].ID != "hero" {
		t.Errorf("unexpected event %+v", events[0])
	}
}

func TestRegistry_RegisterConflicts(t *testing.T) {
	logs := observe(t)
	pf, reg := mockBoard(t, 3, 3)

	if err := reg.Register("hero", cellAt(0, 0)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	events := 0
	reg.Moved().Subscribe(func(Moved) { events++ })

	if err := reg.Register("npc", cellAt(0, 0)); !errors.Is(err, ErrCellOccupied) {
		t.Errorf("expected ErrCellOccupied, got %v", err)
	}
	if err := reg.Register("hero", cellAt(2, 2)); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}

	if events != 0 {
		t.Errorf("failed registration published %d events", events)
	}
	if reg.Len() != 1 || reg.CellOf("npc") != grid.InvalidCell {
		t.Error("failed registration mutated the registry")
	}
	if pf.DisabledCount() != 1 || pf.IsDisabled(pf.Index().CellToIndex(cellAt(2, 2))) {
		t.Error("failed registration changed disabled state")
	}

	if n := logs.FilterLevelExact(zapcore.WarnLevel).Len(); n != 2 {
		t.Errorf("expected 2 warnings, got %d", n)
	}
}

func TestRegistry_Move(t *testing.T) {
	pf, reg := mockBoard(t, 3, 3)
	ix := pf.Index()

	if err := reg.Register("hero", cellAt(0, 0)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	var events []Moved
	reg.Moved().Subscribe(func(m Moved) { events = append(events, m) })

	if err := reg.Move("hero", cellAt(1, 0)); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if reg.CellOf("hero") != cellAt(1, 0) {
		t.Errorf("CellOf = %v, want (1,0)", reg.CellOf("hero"))
	}
	if pf.IsDisabled(ix.CellToIndex(cellAt(0, 0))) {
		t.Error("vacated node should be enabled")
	}
	if !pf.IsDisabled(ix.CellToIndex(cellAt(1, 0))) {
		t.Error("new node should be disabled")
	}
	if _, ok := reg.OccupantAt(cellAt(0, 0)); ok {
		t.Error("old cell still occupied")
	}

	if len(events) != 1 || events[0].Previous != cellAt(0, 0) || events[0].Cell != cellAt(1, 0) {
		t.Errorf("unexpected events %+v", events)
	}
}

func TestRegistry_MoveFailures(t *testing.T) {
	pf, reg := mockBoard(t, 3, 3)
	_ = reg.Register("hero", cellAt(0, 0))
	_ = reg.Register("npc", cellAt(1, 0))

	tests := []struct {
		name string
		id   ID
		cell grid.Cell
		want error
	}{
		{"occupied destination", "hero", cellAt(1, 0), ErrCellOccupied},
		{"same cell", "hero", cellAt(0, 0), ErrSameCell},
		{"unknown gamepiece", "ghost", cellAt(2, 2), ErrNotRegistered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := reg.Move(tt.id, tt.cell); !errors.Is(err, tt.want) {
				t.Errorf("Move = %v, want %v", err, tt.want)
			}
		})
	}

	if reg.CellOf("hero") != cellAt(0, 0) || reg.CellOf("npc") != cellAt(1, 0) {
		t.Error("failed moves mutated the registry")
	}
	if pf.DisabledCount() != 2 {
		t.Errorf("expected 2 disabled nodes, got %d", pf.DisabledCount())
	}
}

func TestRegistry_MoveOffGraph(t *testing.T) {
	pf, reg := mockBoard(t, 3, 1)
	_ = reg.Register("hero", cellAt(0, 0))
	pf.RemoveNode(pf.Index().CellToIndex(cellAt(0, 0)))

	// Cells outside the graph can still be occupied; only present nodes toggle.
	if err := reg.Move("hero", cellAt(1, 0)); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if pf.HasCell(cellAt(0, 0)) {
		t.Error("re-enabling must not recreate a removed node")
	}
	if !pf.IsDisabled(pf.Index().CellToIndex(cellAt(1, 0))) {
		t.Error("new node should be disabled")
	}
}

func TestRegistry_Unregister(t *testing.T) {
	pf, reg := mockBoard(t, 3, 3)
	_ = reg.Register("hero", cellAt(2, 1))

	var freed []Freed
	reg.Freed().Subscribe(func(f Freed) { freed = append(freed, f) })

	if err := reg.Unregister("hero"); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}
	if err := reg.Unregister("hero"); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("expected ErrNotRegistered, got %v", err)
	}

	if reg.CellOf("hero") != grid.InvalidCell {
		t.Error("unregistered gamepiece still has a cell")
	}
	if _, ok := reg.OccupantAt(cellAt(2, 1)); ok {
		t.Error("lookup of an empty cell should miss")
	}
	if pf.DisabledCount() != 0 {
		t.Error("vacated node should be enabled")
	}
	if len(freed) != 1 || freed[0].ID != "hero" || freed[0].Cell != cellAt(2, 1) {
		t.Errorf("unexpected freed events %+v", freed)
	}
}

func TestRegistry_Queries(t *testing.T) {
	_, reg := mockBoard(t, 4, 4)
	_ = reg.Register("c", cellAt(3, 0))
	_ = reg.Register("a", cellAt(0, 2))
	_ = reg.Register("b", cellAt(1, 0))

	cells := reg.OccupiedCells()
	want := []grid.Cell{cellAt(1, 0), cellAt(3, 0), cellAt(0, 2)}
	if len(cells) != len(want) {
		t.Fatalf("OccupiedCells = %v", cells)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("OccupiedCells[%d] = %v, want %v", i, cells[i], want[i])
		}
	}

	ids := reg.Occupants()
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("Occupants = %v", ids)
	}
	if !reg.IsOccupied(cellAt(3, 0)) || reg.IsOccupied(cellAt(3, 3)) {
		t.Error("IsOccupied mismatch")
	}
}
