// Package config handles board and viewer configuration loading and management.
package config

import (
	"github.com/Faultbox/fieldboard/internal/gameboard"
	"github.com/Faultbox/fieldboard/pkg/grid"
)

// Config holds all tool settings.
type Config struct {
	Board   BoardConfig   `yaml:"board"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// BoardConfig describes the board to open. When Layout is set its extents
// and cell size take precedence over the ones here.
type BoardConfig struct {
	Layout   string    `yaml:"layout"` // path to a YAML layout
	GAT      string    `yaml:"gat"`    // optional walkability table layered over the layout
	Extents  grid.Rect `yaml:"extents"`
	CellSize grid.Size `yaml:"cell_size"`
}

// ViewerConfig holds window settings for the viewers.
type ViewerConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	CellPixels int  `yaml:"cell_pixels"`
	VSync      bool `yaml:"vsync"`
	ShowGrid   bool `yaml:"show_grid"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Board: BoardConfig{
			Extents:  grid.Rect{X: 0, Y: 0, Width: 32, Height: 24},
			CellSize: grid.Size{Width: 16, Height: 16},
		},
		Viewer: ViewerConfig{
			Width:      1024,
			Height:     768,
			CellPixels: 24,
			VSync:      true,
			ShowGrid:   false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// BoardProperties returns the board geometry from the board section.
func (c *Config) BoardProperties() gameboard.Properties {
	return gameboard.Properties{
		Extents:  c.Board.Extents,
		CellSize: c.Board.CellSize,
	}
}
