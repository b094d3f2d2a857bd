// Package gameboard coordinates collision layers, the pathfinder and the
// gamepiece registry for one field map.
package gameboard

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"github.com/Faultbox/fieldboard/internal/gamepiece"
	"github.com/Faultbox/fieldboard/internal/logger"
	"github.com/Faultbox/fieldboard/internal/pathfinder"
	"github.com/Faultbox/fieldboard/pkg/grid"
)

// Board errors.
var (
	ErrNotActive     = errors.New("gameboard not activated")
	ErrAlreadyActive = errors.New("gameboard already activated")
	ErrLayerExists   = errors.New("layer already registered")
	ErrLayerNotFound = errors.New("layer not registered")
	ErrNilLayer      = errors.New("nil layer")
	ErrInvalidCell   = errors.New("cell outside board extents")
)

// Properties fix the board geometry. They cannot change after Activate.
type Properties struct {
	Extents  grid.Rect
	CellSize grid.Size
}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the logger used by the board.
func WithLogger(l *zap.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.log = l
		}
	}
}

// Board owns the navigation graph and the aggregated layer view.
//
// Lifecycle: New, optionally SetProperties and subscribe to Events, then
// Activate. Operations on an inactive board return ErrNotActive.
// A Board is not safe for concurrent use; the host serialises calls.
type Board struct {
	props  Properties
	active bool

	index      *grid.Index
	pathfinder *pathfinder.Pathfinder
	gamepieces *gamepiece.Registry
	layers     *layerSet

	events *Events
	log    *zap.Logger
}

// New creates an inactive board.
func New(props Properties, opts ...Option) *Board {
	b := &Board{
		props:  props,
		layers: newLayerSet(),
		events: newEvents(),
		log:    logger.Named("gameboard"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetProperties replaces the board geometry before activation.
func (b *Board) SetProperties(props Properties) error {
	if b.active {
		return ErrAlreadyActive
	}
	b.props = props
	return nil
}

// Properties returns the board geometry. After activation the extents
// reflect clamping.
func (b *Board) Properties() Properties {
	return b.props
}

// Activate finalises the geometry and builds the index, pathfinder and
// gamepiece registry, then publishes PropertiesSet.
func (b *Board) Activate() error {
	if b.active {
		return ErrAlreadyActive
	}

	index, err := grid.NewIndex(b.props.Extents, b.props.CellSize)
	if err != nil {
		return fmt.Errorf("activating gameboard: %w", err)
	}

	b.index = index
	b.props = Properties{Extents: index.Extents(), CellSize: index.CellSize()}
	b.pathfinder = pathfinder.New(index)
	b.gamepieces = gamepiece.NewRegistry(b.pathfinder, b.events.GamepieceMoved, b.events.GamepieceFreed)
	b.active = true

	b.log.Info("gameboard activated",
		zap.Int("x", b.props.Extents.X),
		zap.Int("y", b.props.Extents.Y),
		zap.Int("width", b.props.Extents.Width),
		zap.Int("height", b.props.Extents.Height),
		zap.Int("cell_width", b.props.CellSize.Width),
		zap.Int("cell_height", b.props.CellSize.Height),
	)
	b.events.PropertiesSet.Publish(PropertiesSet{Extents: b.props.Extents, CellSize: b.props.CellSize})
	return nil
}

// IsActive reports whether Activate succeeded.
func (b *Board) IsActive() bool {
	return b.active
}

// Events returns the board's event buses.
func (b *Board) Events() *Events {
	return b.events
}

// Index returns the coordinate services, or nil before activation.
func (b *Board) Index() *grid.Index {
	return b.index
}

// Pathfinder returns the navigation graph, or nil before activation.
func (b *Board) Pathfinder() *pathfinder.Pathfinder {
	return b.pathfinder
}

// Gamepieces returns the occupancy registry, or nil before activation.
func (b *Board) Gamepieces() *gamepiece.Registry {
	return b.gamepieces
}

// RegisterLayer adds a layer to the clearness aggregation. The layer is
// expected to report its clear cells through OnLayerCellsChanged.
func (b *Board) RegisterLayer(id LayerID, layer Layer) error {
	if !b.active {
		return ErrNotActive
	}
	if layer == nil {
		return ErrNilLayer
	}
	if !b.layers.add(id, layer) {
		return fmt.Errorf("%w: %s", ErrLayerExists, id)
	}
	b.log.Debug("layer registered", zap.String("layer", string(id)))
	return nil
}

// DeregisterLayer removes a layer from the aggregation. The layer should
// then report its previously clear cells as blocked.
func (b *Board) DeregisterLayer(id LayerID) error {
	if !b.active {
		return ErrNotActive
	}
	if !b.layers.remove(id) {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	b.log.Debug("layer deregistered", zap.String("layer", string(id)))
	return nil
}

// Layers returns the registered layer ids in registration order.
func (b *Board) Layers() []LayerID {
	return b.layers.ids()
}

// IsCellClear reports whether at least one layer has a tile at cell and
// none of them blocks it.
func (b *Board) IsCellClear(cell grid.Cell) bool {
	return b.layers.isCellClear(cell)
}

// OnLayerCellsChanged applies one batch of clear/blocked reports from a
// layer and publishes a single PathfinderChanged when navigability changed.
func (b *Board) OnLayerCellsChanged(id LayerID, cleared, blocked []grid.Cell) error {
	if !b.active {
		return ErrNotActive
	}

	added := b.addNodes(cleared)
	removed := b.removeNodes(blocked)
	b.connect(added)

	b.log.Debug("layer cells changed",
		zap.String("layer", string(id)),
		zap.Int("cleared", len(cleared)),
		zap.Int("blocked", len(blocked)),
		zap.Int("added", len(added)),
		zap.Int("removed", len(removed)),
	)
	b.publishChanged(added, removed)
	return nil
}

// AddCellsToPathfinder adds and connects the aggregate-clear cells among
// cells and returns those that became nodes.
func (b *Board) AddCellsToPathfinder(cells []grid.Cell) ([]grid.Cell, error) {
	if !b.active {
		return nil, ErrNotActive
	}
	added := b.addNodes(cells)
	b.connect(added)
	b.publishChanged(added, nil)
	return added, nil
}

// RemoveCellsFromPathfinder removes the nodes among cells that are no longer
// clear and returns the removed cells.
func (b *Board) RemoveCellsFromPathfinder(cells []grid.Cell) ([]grid.Cell, error) {
	if !b.active {
		return nil, ErrNotActive
	}
	removed := b.removeNodes(cells)
	b.publishChanged(nil, removed)
	return removed, nil
}

func (b *Board) addNodes(cells []grid.Cell) []grid.Cell {
	var added []grid.Cell
	seen := mapset.New[grid.Cell]()
	for _, cell := range cells {
		if seen.Has(cell) {
			continue
		}
		seen.Put(cell)

		id := b.index.CellToIndex(cell)
		if id == grid.InvalidIndex || b.pathfinder.HasNode(id) || !b.layers.isCellClear(cell) {
			continue
		}
		b.pathfinder.AddNode(id, cell)
		if b.gamepieces.IsOccupied(cell) {
			b.pathfinder.SetDisabled(id, true)
		}
		added = append(added, cell)
	}
	return added
}

func (b *Board) removeNodes(cells []grid.Cell) []grid.Cell {
	var removed []grid.Cell
	seen := mapset.New[grid.Cell]()
	for _, cell := range cells {
		if seen.Has(cell) {
			continue
		}
		seen.Put(cell)

		id := b.index.CellToIndex(cell)
		if id == grid.InvalidIndex || !b.pathfinder.HasNode(id) || b.layers.isCellClear(cell) {
			continue
		}
		b.pathfinder.RemoveNode(id)
		removed = append(removed, cell)
	}
	return removed
}

// connect joins every added node to its present orthogonal neighbours.
func (b *Board) connect(added []grid.Cell) {
	for _, cell := range added {
		id := b.index.CellToIndex(cell)
		for _, neighbor := range b.index.AdjacentCells(cell) {
			nid := b.index.CellToIndex(neighbor)
			if !b.pathfinder.HasNode(nid) {
				continue
			}
			if err := b.pathfinder.Connect(id, nid); err != nil {
				b.log.Debug("skipping edge", zap.Error(err))
			}
		}
	}
}

func (b *Board) publishChanged(added, removed []grid.Cell) {
	if len(added) == 0 && len(removed) == 0 {
		return
	}
	b.events.PathfinderChanged.Publish(PathfinderChanged{Added: added, Removed: removed})
}

// RegisterGamepiece places a gamepiece on the board.
func (b *Board) RegisterGamepiece(id gamepiece.ID, cell grid.Cell) error {
	if !b.active {
		return ErrNotActive
	}
	if !b.index.Contains(cell) {
		return fmt.Errorf("%w: %v", ErrInvalidCell, cell)
	}
	return b.gamepieces.Register(id, cell)
}

// MoveGamepiece moves a registered gamepiece to cell.
func (b *Board) MoveGamepiece(id gamepiece.ID, cell grid.Cell) error {
	if !b.active {
		return ErrNotActive
	}
	if !b.index.Contains(cell) {
		return fmt.Errorf("%w: %v", ErrInvalidCell, cell)
	}
	return b.gamepieces.Move(id, cell)
}

// OnOccupantDeparted frees the cell of a gamepiece that left the scene.
func (b *Board) OnOccupantDeparted(id gamepiece.ID) error {
	if !b.active {
		return ErrNotActive
	}
	return b.gamepieces.Unregister(id)
}

// ShortestPath returns the path from source to target excluding source,
// or an empty path when there is none.
func (b *Board) ShortestPath(source, target grid.Cell, flags pathfinder.Flags) ([]grid.Cell, error) {
	if !b.active {
		return nil, ErrNotActive
	}
	return b.pathfinder.ShortestPath(b.index.CellToIndex(source), b.index.CellToIndex(target), flags), nil
}

// ShortestPathToAdjacent returns the shortest path from source to any cell
// next to target.
func (b *Board) ShortestPathToAdjacent(source, target grid.Cell, flags pathfinder.Flags) ([]grid.Cell, error) {
	if !b.active {
		return nil, ErrNotActive
	}
	return b.pathfinder.ShortestPathToAdjacent(b.index.CellToIndex(source), target, flags), nil
}
