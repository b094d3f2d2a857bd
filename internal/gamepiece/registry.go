// Package gamepiece tracks which gamepiece occupies which board cell.
package gamepiece

import (
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/fieldboard/internal/event"
	"github.com/Faultbox/fieldboard/internal/logger"
	"github.com/Faultbox/fieldboard/internal/pathfinder"
	"github.com/Faultbox/fieldboard/pkg/grid"
)

// Registry errors.
var (
	ErrCellOccupied      = errors.New("cell already occupied")
	ErrAlreadyRegistered = errors.New("gamepiece already registered")
	ErrNotRegistered     = errors.New("gamepiece not registered")
	ErrSameCell          = errors.New("gamepiece already at cell")
)

// ID identifies a gamepiece owned by the host application.
type ID string

// Moved is published when a gamepiece is registered or changes cell.
// Previous is grid.InvalidCell for a fresh registration.
type Moved struct {
	ID       ID
	Cell     grid.Cell
	Previous grid.Cell
}

// Freed is published when a gamepiece leaves the board.
type Freed struct {
	ID   ID
	Cell grid.Cell
}

// Registry enforces at most one gamepiece per cell and one cell per
// gamepiece, and keeps the pathfinder's disabled nodes in step with
// occupancy. It does not own the pathfinder.
type Registry struct {
	pathfinder *pathfinder.Pathfinder
	byCell     map[grid.Cell]ID
	byID       map[ID]grid.Cell

	moved *event.Bus[Moved]
	freed *event.Bus[Freed]
	log   *zap.Logger
}

// NewRegistry creates a registry writing disabled state into pf. Nil buses
// are replaced with private ones.
func NewRegistry(pf *pathfinder.Pathfinder, moved *event.Bus[Moved], freed *event.Bus[Freed]) *Registry {
	if moved == nil {
		moved = event.NewBus[Moved]()
	}
	if freed == nil {
		freed = event.NewBus[Freed]()
	}
	return &Registry{
		pathfinder: pf,
		byCell:     make(map[grid.Cell]ID),
		byID:       make(map[ID]grid.Cell),
		moved:      moved,
		freed:      freed,
		log:        logger.Named("gamepieces"),
	}
}

// Moved returns the bus Moved events are published on.
func (r *Registry) Moved() *event.Bus[Moved] {
	return r.moved
}

// Freed returns the bus Freed events are published on.
func (r *Registry) Freed() *event.Bus[Freed] {
	return r.freed
}

// Register places id at cell.
func (r *Registry) Register(id ID, cell grid.Cell) error {
	if current, ok := r.byID[id]; ok {
		r.log.Warn("gamepiece already registered",
			zap.String("gamepiece", string(id)),
			zap.Stringer("cell", current),
			zap.Stringer("requested", cell),
		)
		return ErrAlreadyRegistered
	}
	if occupant, ok := r.byCell[cell]; ok {
		r.log.Warn("cannot register gamepiece on occupied cell",
			zap.String("gamepiece", string(id)),
			zap.String("occupant", string(occupant)),
			zap.Stringer("cell", cell),
		)
		return ErrCellOccupied
	}

	r.byCell[cell] = id
	r.byID[id] = cell
	r.pathfinder.SetCellDisabled(cell, true)

	r.log.Debug("gamepiece registered", zap.String("gamepiece", string(id)), zap.Stringer("cell", cell))
	r.moved.Publish(Moved{ID: id, Cell: cell, Previous: grid.InvalidCell})
	return nil
}

// Move relocates a registered gamepiece. Moving onto the current cell is
// refused with ErrSameCell and changes nothing.
func (r *Registry) Move(id ID, cell grid.Cell) error {
	previous, ok := r.byID[id]
	if !ok {
		return ErrNotRegistered
	}
	if previous == cell {
		return ErrSameCell
	}
	if occupant, ok := r.byCell[cell]; ok {
		r.log.Debug("move blocked by occupant",
			zap.String("gamepiece", string(id)),
			zap.String("occupant", string(occupant)),
			zap.Stringer("cell", cell),
		)
		return ErrCellOccupied
	}

	delete(r.byCell, previous)
	r.byCell[cell] = id
	r.byID[id] = cell
	r.pathfinder.SetCellDisabled(previous, false)
	r.pathfinder.SetCellDisabled(cell, true)

	r.moved.Publish(Moved{ID: id, Cell: cell, Previous: previous})
	return nil
}

// Unregister removes a gamepiece, typically when the host reports that it
// left the scene.
func (r *Registry) Unregister(id ID) error {
	cell, ok := r.byID[id]
	if !ok {
		return ErrNotRegistered
	}

	delete(r.byID, id)
	delete(r.byCell, cell)
	r.pathfinder.SetCellDisabled(cell, false)

	r.log.Debug("gamepiece freed", zap.String("gamepiece", string(id)), zap.Stringer("cell", cell))
	r.freed.Publish(Freed{ID: id, Cell: cell})
	return nil
}

// OccupantAt returns the gamepiece at cell, if any.
func (r *Registry) OccupantAt(cell grid.Cell) (ID, bool) {
	id, ok := r.byCell[cell]
	return id, ok
}

// IsOccupied reports whether any gamepiece sits on cell.
func (r *Registry) IsOccupied(cell grid.Cell) bool {
	_, ok := r.byCell[cell]
	return ok
}

// CellOf returns the cell of id, or grid.InvalidCell if it is not registered.
func (r *Registry) CellOf(id ID) grid.Cell {
	if cell, ok := r.byID[id]; ok {
		return cell
	}
	return grid.InvalidCell
}

// OccupiedCells returns every occupied cell, row-major.
func (r *Registry) OccupiedCells() []grid.Cell {
	cells := make([]grid.Cell, 0, len(r.byCell))
	for cell := range r.byCell {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return cells
}

// Occupants returns every registered gamepiece, sorted by id.
func (r *Registry) Occupants() []ID {
	ids := make([]ID, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of registered gamepieces.
func (r *Registry) Len() int {
	return len(r.byID)
}
