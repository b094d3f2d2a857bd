// Package pathfinder maintains the navigable-cell graph and answers
// shortest-path queries over it.
package pathfinder

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"github.com/Faultbox/fieldboard/internal/logger"
	"github.com/Faultbox/fieldboard/pkg/grid"
	"github.com/Faultbox/fieldboard/pkg/math"
)

// ErrNodeNotFound is returned when an operation names a node that is not in the graph.
var ErrNodeNotFound = errors.New("pathfinder node not found")

// Flags selects which occupied (disabled) nodes a path query may pass through.
type Flags uint8

const (
	// AllowSourceOccupant lets the search start on a disabled source node.
	AllowSourceOccupant Flags = 1 << iota
	// AllowTargetOccupant lets the search end on a disabled target node.
	AllowTargetOccupant
	// AllowAllOccupants ignores every disabled node for the query.
	AllowAllOccupants
)

// Has reports whether all bits of other are set.
func (f Flags) Has(other Flags) bool {
	return f&other == other
}

type node struct {
	id        int
	cell      grid.Cell
	pos       math.Vec2
	neighbors []int // insertion order, no duplicates
}

// Pathfinder is a weighted undirected graph over cell ids. Edge weight is
// the pixel distance between cell centres. Disabled nodes stay in the
// graph but cannot be traversed.
type Pathfinder struct {
	index    *grid.Index
	nodes    map[int]*node
	disabled mapset.Set[int]
}

// New creates an empty graph for cells of index.
func New(index *grid.Index) *Pathfinder {
	return &Pathfinder{
		index:    index,
		nodes:    make(map[int]*node),
		disabled: mapset.New[int](),
	}
}

// Index returns the grid index the graph ids are computed against.
func (pf *Pathfinder) Index() *grid.Index {
	return pf.index
}

// AddNode adds a node for cell under id. Adding an existing id is a no-op
// that keeps its edges and disabled state. Returns true if a node was added.
func (pf *Pathfinder) AddNode(id int, cell grid.Cell) bool {
	if id < 0 {
		return false
	}
	if _, ok := pf.nodes[id]; ok {
		return false
	}
	pf.nodes[id] = &node{
		id:   id,
		cell: cell,
		pos:  pf.index.CellToPixel(cell),
	}
	return true
}

// RemoveNode removes a node and every edge touching it. Returns true if a
// node was removed.
func (pf *Pathfinder) RemoveNode(id int) bool {
	n, ok := pf.nodes[id]
	if !ok {
		return false
	}
	for _, other := range n.neighbors {
		if nb, ok := pf.nodes[other]; ok {
			nb.neighbors = removeID(nb.neighbors, id)
		}
	}
	delete(pf.nodes, id)
	pf.disabled.Remove(id)
	return true
}

// Connect adds an undirected edge between a and b. Connecting nodes that
// are already connected, or a node to itself, is a no-op.
func (pf *Pathfinder) Connect(a, b int) error {
	na, okA := pf.nodes[a]
	nb, okB := pf.nodes[b]
	if !okA || !okB {
		return fmt.Errorf("%w: connecting %d and %d", ErrNodeNotFound, a, b)
	}
	if a == b || containsID(na.neighbors, b) {
		return nil
	}
	na.neighbors = append(na.neighbors, b)
	nb.neighbors = append(nb.neighbors, a)
	return nil
}

// AreConnected reports whether an edge joins a and b.
func (pf *Pathfinder) AreConnected(a, b int) bool {
	n, ok := pf.nodes[a]
	return ok && containsID(n.neighbors, b)
}

// SetDisabled marks a node as (not) traversable. Unknown ids are ignored.
func (pf *Pathfinder) SetDisabled(id int, disabled bool) {
	if _, ok := pf.nodes[id]; !ok {
		return
	}
	if disabled {
		pf.disabled.Put(id)
	} else {
		pf.disabled.Remove(id)
	}
}

// IsDisabled reports whether the node exists and is disabled.
func (pf *Pathfinder) IsDisabled(id int) bool {
	return pf.disabled.Has(id)
}

// SetCellDisabled is SetDisabled addressed by cell.
func (pf *Pathfinder) SetCellDisabled(cell grid.Cell, disabled bool) {
	pf.SetDisabled(pf.index.CellToIndex(cell), disabled)
}

// HasNode reports whether id is in the graph.
func (pf *Pathfinder) HasNode(id int) bool {
	_, ok := pf.nodes[id]
	return ok
}

// HasCell reports whether cell is a node in the graph.
func (pf *Pathfinder) HasCell(cell grid.Cell) bool {
	return pf.HasNode(pf.index.CellToIndex(cell))
}

// CanMoveTo reports whether cell is a node that is currently enabled.
func (pf *Pathfinder) CanMoveTo(cell grid.Cell) bool {
	id := pf.index.CellToIndex(cell)
	return pf.HasNode(id) && !pf.IsDisabled(id)
}

// Len returns the number of nodes.
func (pf *Pathfinder) Len() int {
	return len(pf.nodes)
}

// DisabledCount returns the number of disabled nodes.
func (pf *Pathfinder) DisabledCount() int {
	return pf.disabled.Size()
}

// Cells returns every node's cell, ordered by id.
func (pf *Pathfinder) Cells() []grid.Cell {
	ids := make([]int, 0, len(pf.nodes))
	for id := range pf.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	cells := make([]grid.Cell, len(ids))
	for i, id := range ids {
		cells[i] = pf.nodes[id].cell
	}
	return cells
}

// Neighbors returns a copy of the ids connected to id.
func (pf *Pathfinder) Neighbors(id int) []int {
	n, ok := pf.nodes[id]
	if !ok {
		return nil
	}
	out := make([]int, len(n.neighbors))
	copy(out, n.neighbors)
	return out
}

// ShortestPath returns the cells from source to target, excluding the
// source cell. It returns nil when either endpoint is missing, when an
// endpoint is disabled after flags are applied, or when no path exists.
// Nodes re-enabled for the query are disabled again before returning.
func (pf *Pathfinder) ShortestPath(sourceID, targetID int, flags Flags) []grid.Cell {
	source, ok := pf.nodes[sourceID]
	if !ok {
		return nil
	}
	target, ok := pf.nodes[targetID]
	if !ok {
		return nil
	}

	restore := pf.bypass(sourceID, targetID, flags)
	defer restore()

	if pf.disabled.Has(sourceID) || pf.disabled.Has(targetID) {
		return nil
	}
	if source == target {
		return nil
	}

	path := pf.search(source, target)
	if path == nil {
		logger.Debug("no path",
			zap.Stringer("from", source.cell),
			zap.Stringer("to", target.cell),
		)
	}
	return path
}

// ShortestPathToAdjacent returns the shortest non-empty path from source
// to any node orthogonally adjacent to targetCell. Neighbours are tried in
// North, East, South, West order and the first shortest path wins.
func (pf *Pathfinder) ShortestPathToAdjacent(sourceID int, targetCell grid.Cell, flags Flags) []grid.Cell {
	var best []grid.Cell
	for _, cell := range pf.index.AdjacentCells(targetCell) {
		path := pf.ShortestPath(sourceID, pf.index.CellToIndex(cell), flags)
		if len(path) == 0 {
			continue
		}
		if best == nil || len(path) < len(best) {
			best = path
		}
	}
	return best
}

// bypass re-enables the disabled nodes selected by flags and returns a
// function that disables them again.
func (pf *Pathfinder) bypass(sourceID, targetID int, flags Flags) func() {
	var enabled []int
	enable := func(id int) {
		if pf.disabled.Has(id) {
			pf.disabled.Remove(id)
			enabled = append(enabled, id)
		}
	}

	if flags.Has(AllowAllOccupants) {
		var all []int
		pf.disabled.Each(func(id int) {
			all = append(all, id)
		})
		for _, id := range all {
			enable(id)
		}
	} else {
		if flags.Has(AllowSourceOccupant) {
			enable(sourceID)
		}
		if flags.Has(AllowTargetOccupant) {
			enable(targetID)
		}
	}

	return func() {
		for _, id := range enabled {
			pf.disabled.Put(id)
		}
	}
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
