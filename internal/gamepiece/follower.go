package gamepiece

import (
	"errors"
	"fmt"

	"github.com/Faultbox/fieldboard/pkg/grid"
)

// Follower errors.
var (
	ErrNotFollowing = errors.New("gamepiece is not following a path")
	ErrPathBlocked  = errors.New("path blocked")
)

// Follower walks one gamepiece along a path, one cell per Step, moving it
// through the registry so occupancy stays authoritative.
type Follower struct {
	registry *Registry
	id       ID

	// Current path
	path      []grid.Cell
	pathIndex int

	IsFollowingPath bool
}

// NewFollower creates a follower for gamepiece id.
func NewFollower(registry *Registry, id ID) *Follower {
	return &Follower{
		registry: registry,
		id:       id,
	}
}

// ID returns the gamepiece this follower moves.
func (f *Follower) ID() ID {
	return f.id
}

// SetPath starts following path. Paths come from the pathfinder and
// therefore exclude the gamepiece's own cell.
func (f *Follower) SetPath(path []grid.Cell) {
	f.path = path
	f.pathIndex = 0
	f.IsFollowingPath = len(path) > 0
}

// Step moves the gamepiece onto the next path cell and returns it.
// When the next cell became occupied the follower stops and returns
// ErrPathBlocked; the caller decides whether to search again.
func (f *Follower) Step() (grid.Cell, error) {
	if !f.IsFollowingPath || f.pathIndex >= len(f.path) {
		f.IsFollowingPath = false
		return f.registry.CellOf(f.id), ErrNotFollowing
	}

	next := f.path[f.pathIndex]
	err := f.registry.Move(f.id, next)
	switch {
	case err == nil, errors.Is(err, ErrSameCell):
	case errors.Is(err, ErrCellOccupied):
		f.IsFollowingPath = false
		return f.registry.CellOf(f.id), fmt.Errorf("%w at %v: %w", ErrPathBlocked, next, err)
	default:
		f.IsFollowingPath = false
		return f.registry.CellOf(f.id), err
	}

	f.pathIndex++
	if f.pathIndex >= len(f.path) {
		f.IsFollowingPath = false
	}
	return next, nil
}

// Done reports whether the path was walked to its end or abandoned.
func (f *Follower) Done() bool {
	return !f.IsFollowingPath
}

// ClearPath stops the current path following.
func (f *Follower) ClearPath() {
	f.path = nil
	f.pathIndex = 0
	f.IsFollowingPath = false
}

// GetPath returns the current path.
func (f *Follower) GetPath() []grid.Cell {
	return f.path
}

// GetPathIndex returns the current index in the path.
func (f *Follower) GetPathIndex() int {
	return f.pathIndex
}

// Remaining returns the cells not yet walked.
func (f *Follower) Remaining() []grid.Cell {
	if f.pathIndex >= len(f.path) {
		return nil
	}
	return f.path[f.pathIndex:]
}
