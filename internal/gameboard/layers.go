package gameboard

import (
	"github.com/Faultbox/fieldboard/pkg/grid"
)

// LayerID names a registered layer.
type LayerID string

// Layer is a host-owned source of per-cell collision data.
type Layer interface {
	// HasTileAt reports whether the layer has any tile at cell.
	HasTileAt(cell grid.Cell) bool
	// IsCellBlocked reports whether the layer's tile at cell blocks movement.
	IsCellBlocked(cell grid.Cell) bool
}

// layerSet keeps registered layers in registration order.
type layerSet struct {
	order  []LayerID
	layers map[LayerID]Layer
}

func newLayerSet() *layerSet {
	return &layerSet{layers: make(map[LayerID]Layer)}
}

func (s *layerSet) add(id LayerID, layer Layer) bool {
	if _, ok := s.layers[id]; ok {
		return false
	}
	s.layers[id] = layer
	s.order = append(s.order, id)
	return true
}

func (s *layerSet) remove(id LayerID) bool {
	if _, ok := s.layers[id]; !ok {
		return false
	}
	delete(s.layers, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *layerSet) ids() []LayerID {
	out := make([]LayerID, len(s.order))
	copy(out, s.order)
	return out
}

// isCellClear is true iff some layer has a tile at cell and no layer
// blocks it. A cell no layer covers is not clear.
func (s *layerSet) isCellClear(cell grid.Cell) bool {
	covered := false
	for _, id := range s.order {
		layer := s.layers[id]
		if !layer.HasTileAt(cell) {
			continue
		}
		if layer.IsCellBlocked(cell) {
			return false
		}
		covered = true
	}
	return covered
}
