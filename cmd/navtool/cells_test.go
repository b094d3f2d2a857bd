package main

import (
	"testing"

	"github.com/Faultbox/fieldboard/internal/pathfinder"
	"github.com/Faultbox/fieldboard/pkg/grid"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		in      string
		want    grid.Cell
		wantErr bool
	}{
		{"3,4", grid.Cell{X: 3, Y: 4}, false},
		{"-2, 7", grid.Cell{X: -2, Y: 7}, false},
		{"3", grid.Cell{}, true},
		{"a,1", grid.Cell{}, true},
		{"1,b", grid.Cell{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCell(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCell(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseCell(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatCell(t *testing.T) {
	cell := grid.Cell{X: -1, Y: 12}
	got, err := parseCell(formatCell(cell))
	if err != nil || got != cell {
		t.Errorf("formatCell round trip = %v, %v", got, err)
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		in      string
		want    pathfinder.Flags
		wantErr bool
	}{
		{"none", 0, false},
		{"source", pathfinder.AllowSourceOccupant, false},
		{"TARGET", pathfinder.AllowTargetOccupant, false},
		{"all", pathfinder.AllowAllOccupants, false},
		{"sideways", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFlags(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFlags(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseFlags(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
