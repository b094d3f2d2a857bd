package gameboard

import (
	"github.com/Faultbox/fieldboard/internal/event"
	"github.com/Faultbox/fieldboard/internal/gamepiece"
	"github.com/Faultbox/fieldboard/pkg/grid"
)

// PropertiesSet is published once, when the board is activated.
type PropertiesSet struct {
	Extents  grid.Rect
	CellSize grid.Size
}

// PathfinderChanged is published after a layer batch that added or removed
// at least one navigable cell.
type PathfinderChanged struct {
	Added   []grid.Cell
	Removed []grid.Cell
}

// Events groups the buses a board publishes on. Subscribe before Activate
// to observe PropertiesSet.
type Events struct {
	PropertiesSet     *event.Bus[PropertiesSet]
	PathfinderChanged *event.Bus[PathfinderChanged]
	GamepieceMoved    *event.Bus[gamepiece.Moved]
	GamepieceFreed    *event.Bus[gamepiece.Freed]
}

func newEvents() *Events {
	return &Events{
		PropertiesSet:     event.NewBus[PropertiesSet](),
		PathfinderChanged: event.NewBus[PathfinderChanged](),
		GamepieceMoved:    event.NewBus[gamepiece.Moved](),
		GamepieceFreed:    event.NewBus[gamepiece.Freed](),
	}
}
