package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/fieldboard/internal/pathfinder"
	"github.com/Faultbox/fieldboard/pkg/grid"
)

// parseCell reads a cell written as "x,y".
func parseCell(s string) (grid.Cell, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return grid.Cell{}, fmt.Errorf("invalid cell %q: expected x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return grid.Cell{}, fmt.Errorf("invalid cell %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return grid.Cell{}, fmt.Errorf("invalid cell %q: %w", s, err)
	}
	return grid.Cell{X: x, Y: y}, nil
}

func formatCell(c grid.Cell) string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// parseFlags maps an -allow value to occupant bypass flags.
func parseFlags(s string) (pathfinder.Flags, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return 0, nil
	case "source":
		return pathfinder.AllowSourceOccupant, nil
	case "target":
		return pathfinder.AllowTargetOccupant, nil
	case "all", "both":
		return pathfinder.AllowAllOccupants, nil
	default:
		return 0, fmt.Errorf("unknown occupant mode %q", s)
	}
}
