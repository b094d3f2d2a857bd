// Package field wires a configured board to the interactive viewers: it
// loads layouts and walkability tables, tracks a source/target selection
// and keeps the route between them current.
package field

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/fieldboard/internal/config"
	"github.com/Faultbox/fieldboard/internal/debug"
	"github.com/Faultbox/fieldboard/internal/event"
	"github.com/Faultbox/fieldboard/internal/gameboard"
	"github.com/Faultbox/fieldboard/internal/gamepiece"
	"github.com/Faultbox/fieldboard/internal/logger"
	"github.com/Faultbox/fieldboard/internal/pathfinder"
	"github.com/Faultbox/fieldboard/internal/tilemap"
	"github.com/Faultbox/fieldboard/pkg/formats"
	"github.com/Faultbox/fieldboard/pkg/grid"
)

// Field errors.
var (
	ErrNoRoute  = errors.New("source and target not both selected")
	ErrNoWalker = errors.New("no gamepiece on the source cell")
)

// GATLayer is the layer id walkability tables are attached under.
const GATLayer = "gat"

// Mode selects what a route leads to.
type Mode uint8

const (
	ModeExact    Mode = iota // onto the target
	ModeAdjacent             // next to the target
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeAdjacent {
		return "adjacent"
	}
	return "exact"
}

// Field is a loaded board with a route selection.
type Field struct {
	Board  *gameboard.Board
	Layers []*tilemap.Layer
	log    *zap.Logger

	source, target       grid.Cell
	hasSource, hasTarget bool
	mode                 Mode
	flags                pathfinder.Flags

	path      []grid.Cell
	stale     bool
	nextPiece int

	changedSub event.Subscription
	movedSub   event.Subscription
	freedSub   event.Subscription
}

// Open builds the board described by cfg. A layout file supplies geometry,
// layers and gamepieces; a GAT table is attached on top of it. With only a
// GAT table the board takes the table's size.
func Open(cfg *config.Config) (*Field, error) {
	var gat *formats.GAT
	if cfg.Board.GAT != "" {
		var err error
		gat, err = formats.ParseGATFile(cfg.Board.GAT)
		if err != nil {
			return nil, err
		}
	}

	layout := &tilemap.Layout{
		Extents:  cfg.Board.Extents,
		CellSize: cfg.Board.CellSize,
	}
	if cfg.Board.Layout != "" {
		var err error
		layout, err = tilemap.Load(cfg.Board.Layout)
		if err != nil {
			return nil, err
		}
	} else if gat != nil {
		layout.Extents = grid.Rect{Width: int(gat.Width), Height: int(gat.Height)}
	}

	m, err := layout.Build()
	if err != nil {
		return nil, err
	}

	if gat != nil {
		extents := m.Board.Index().Extents()
		layer, err := tilemap.LayerFromGAT(GATLayer, gat, grid.Cell{X: extents.X, Y: extents.Y})
		if err != nil {
			return nil, err
		}
		if err := layer.Attach(m.Board, GATLayer); err != nil {
			return nil, fmt.Errorf("attaching GAT layer: %w", err)
		}
		m.Layers = append(m.Layers, layer)
	}

	f := New(m)
	f.log.Info("field opened",
		zap.String("layout", cfg.Board.Layout),
		zap.String("gat", cfg.Board.GAT),
		zap.Int("layers", len(f.Layers)),
		zap.Int("nodes", f.Board.Pathfinder().Len()),
		zap.Int("gamepieces", f.Board.Gamepieces().Len()),
	)
	return f, nil
}

// New wraps a built map. Routes are recomputed lazily whenever the
// navigation graph or occupancy changes.
func New(m *tilemap.Map) *Field {
	f := &Field{
		Board:  m.Board,
		Layers: m.Layers,
		log:    logger.Named("field"),
		flags:  pathfinder.AllowSourceOccupant,
	}
	events := f.Board.Events()
	f.changedSub = events.PathfinderChanged.Subscribe(func(gameboard.PathfinderChanged) { f.stale = true })
	f.movedSub = events.GamepieceMoved.Subscribe(func(gamepiece.Moved) { f.stale = true })
	f.freedSub = events.GamepieceFreed.Subscribe(func(gamepiece.Freed) { f.stale = true })
	return f
}

// Close detaches the field from the board's events.
func (f *Field) Close() {
	events := f.Board.Events()
	events.PathfinderChanged.Unsubscribe(f.changedSub)
	events.GamepieceMoved.Unsubscribe(f.movedSub)
	events.GamepieceFreed.Unsubscribe(f.freedSub)
}

// Source returns the selected source cell.
func (f *Field) Source() (grid.Cell, bool) {
	return f.source, f.hasSource
}

// Target returns the selected target cell.
func (f *Field) Target() (grid.Cell, bool) {
	return f.target, f.hasTarget
}

// Mode returns the route mode.
func (f *Field) Mode() Mode {
	return f.mode
}

// ToggleMode switches between exact and adjacent routes.
func (f *Field) ToggleMode() Mode {
	if f.mode == ModeExact {
		f.mode = ModeAdjacent
	} else {
		f.mode = ModeExact
	}
	f.stale = true
	return f.mode
}

// Flags returns the occupant bypass flags used for routes.
func (f *Field) Flags() pathfinder.Flags {
	return f.flags
}

// SetFlags sets the occupant bypass flags used for routes.
func (f *Field) SetFlags(flags pathfinder.Flags) {
	f.flags = flags
	f.stale = true
}

func (f *Field) checkCell(cell grid.Cell) error {
	if !f.Board.Index().Contains(cell) {
		return fmt.Errorf("%w: %v", gameboard.ErrInvalidCell, cell)
	}
	return nil
}

// SetSource selects the route source.
func (f *Field) SetSource(cell grid.Cell) error {
	if err := f.checkCell(cell); err != nil {
		return err
	}
	f.source, f.hasSource = cell, true
	f.stale = true
	return nil
}

// SetTarget selects the route target.
func (f *Field) SetTarget(cell grid.Cell) error {
	if err := f.checkCell(cell); err != nil {
		return err
	}
	f.target, f.hasTarget = cell, true
	f.stale = true
	return nil
}

// Select cycles a click through the selection: the first pick sets the
// source, the second the target, and the next one starts over.
func (f *Field) Select(cell grid.Cell) error {
	if f.hasSource && !f.hasTarget {
		return f.SetTarget(cell)
	}
	if err := f.SetSource(cell); err != nil {
		return err
	}
	f.hasTarget = false
	return nil
}

// ClearSelection drops source, target and route.
func (f *Field) ClearSelection() {
	f.hasSource, f.hasTarget = false, false
	f.path = nil
	f.stale = false
}

// ToggleOccupant places a new gamepiece on an empty cell, or removes the
// one standing there. It reports the gamepiece and whether it was placed.
func (f *Field) ToggleOccupant(cell grid.Cell) (gamepiece.ID, bool, error) {
	if id, ok := f.Board.Gamepieces().OccupantAt(cell); ok {
		if err := f.Board.OnOccupantDeparted(id); err != nil {
			return id, false, err
		}
		return id, false, nil
	}

	f.nextPiece++
	id := gamepiece.ID(fmt.Sprintf("piece-%d", f.nextPiece))
	if err := f.Board.RegisterGamepiece(id, cell); err != nil {
		return id, false, err
	}
	return id, true, nil
}

// Route returns the current route from source, excluding it. The route is
// empty when no path exists.
func (f *Field) Route() ([]grid.Cell, error) {
	if !f.hasSource || !f.hasTarget {
		return nil, ErrNoRoute
	}
	if !f.stale && f.path != nil {
		return f.path, nil
	}

	var (
		path []grid.Cell
		err  error
	)
	if f.mode == ModeAdjacent {
		path, err = f.Board.ShortestPathToAdjacent(f.source, f.target, f.flags)
	} else {
		path, err = f.Board.ShortestPath(f.source, f.target, f.flags)
	}
	if err != nil {
		return nil, err
	}
	if path == nil {
		path = []grid.Cell{}
	}
	f.path = path
	f.stale = false

	f.log.Debug("route computed",
		zap.Stringer("source", f.source),
		zap.Stringer("target", f.target),
		zap.Stringer("mode", f.mode),
		zap.Int("length", len(path)),
	)
	return path, nil
}

// Advance walks the gamepiece standing on the source one cell along the
// route. The source follows the gamepiece.
func (f *Field) Advance() (grid.Cell, error) {
	path, err := f.Route()
	if err != nil {
		return f.source, err
	}
	id, ok := f.Board.Gamepieces().OccupantAt(f.source)
	if !ok {
		return f.source, ErrNoWalker
	}

	follower := gamepiece.NewFollower(f.Board.Gamepieces(), id)
	follower.SetPath(path)
	cell, err := follower.Step()
	if err != nil {
		return f.source, err
	}
	f.source = cell
	f.stale = true
	return cell, nil
}

// Overlay snapshots the board with the current route drawn over it.
func (f *Field) Overlay() (*debug.Overlay, error) {
	o, err := debug.Snapshot(f.Board)
	if err != nil {
		return nil, err
	}

	switch {
	case f.hasSource && f.hasTarget:
		path, err := f.Route()
		if err != nil {
			return nil, err
		}
		o.MarkRoute(f.source, f.target, path)
	case f.hasSource:
		o.Mark(f.source, debug.KindSource)
	}
	return o, nil
}
