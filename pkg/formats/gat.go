// Package formats reads and writes GAT walkability tables, the binary
// cell grids used to seed collision layers.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// GAT format errors.
var (
	ErrInvalidGATMagic       = errors.New("invalid GAT magic: expected 'GRAT'")
	ErrUnsupportedGATVersion = errors.New("unsupported GAT version")
	ErrTruncatedGATData      = errors.New("truncated GAT data")
	ErrInvalidGATDimensions  = errors.New("invalid GAT dimensions")
)

const (
	gatMagic      = "GRAT"
	gatHeaderSize = 14
	gatMaxSide    = 4096
)

// GATVersion is the table version.
type GATVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v GATVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// DefaultGATVersion is written by Encode for tables built in memory.
var DefaultGATVersion = GATVersion{Major: 1, Minor: 2}

// GATCellType is the walkability class of a cell.
type GATCellType uint32

// Cell types.
const (
	GATWalkable      GATCellType = 0
	GATBlocked       GATCellType = 1
	GATWater         GATCellType = 2
	GATWalkableWater GATCellType = 3 // shallow water
	GATSnipeable     GATCellType = 4 // not walkable, open to projectiles
	GATBlockedSnipe  GATCellType = 5
)

// String returns a human-readable cell type name.
func (t GATCellType) String() string {
	switch t {
	case GATWalkable:
		return "Walkable"
	case GATBlocked:
		return "Blocked"
	case GATWater:
		return "Water"
	case GATWalkableWater:
		return "Walkable+Water"
	case GATSnipeable:
		return "Snipeable"
	case GATBlockedSnipe:
		return "Blocked+Snipe"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// IsWalkable reports whether a gamepiece may stand on the cell.
func (t GATCellType) IsWalkable() bool {
	return t == GATWalkable || t == GATWalkableWater
}

// IsBlocked reports whether the cell is a wall.
func (t GATCellType) IsBlocked() bool {
	return t == GATBlocked || t == GATBlockedSnipe
}

// IsWater reports whether the cell holds water.
func (t GATCellType) IsWater() bool {
	return t == GATWater || t == GATWalkableWater
}

// GATCell is one table cell. Heights are the corner altitudes in the
// order bottom-left, bottom-right, top-left, top-right.
type GATCell struct {
	Heights [4]float32
	Type    GATCellType
}

// AverageHeight returns the mean corner altitude.
func (c *GATCell) AverageHeight() float32 {
	return (c.Heights[0] + c.Heights[1] + c.Heights[2] + c.Heights[3]) / 4.0
}

// GAT is a walkability table stored row-major.
type GAT struct {
	Version GATVersion
	Width   uint32
	Height  uint32
	Cells   []GATCell
}

// NewGAT returns a width x height table with every cell walkable.
func NewGAT(width, height uint32) (*GAT, error) {
	if err := checkGATDimensions(width, height); err != nil {
		return nil, err
	}
	return &GAT{
		Version: DefaultGATVersion,
		Width:   width,
		Height:  height,
		Cells:   make([]GATCell, int(width*height)),
	}, nil
}

func checkGATDimensions(width, height uint32) error {
	if width == 0 || height == 0 || width > gatMaxSide || height > gatMaxSide {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGATDimensions, width, height)
	}
	return nil
}

// GetCell returns the cell at (x, y), or nil when out of bounds.
func (g *GAT) GetCell(x, y int) *GATCell {
	if x < 0 || y < 0 || x >= int(g.Width) || y >= int(g.Height) {
		return nil
	}
	return &g.Cells[y*int(g.Width)+x]
}

// SetType sets the type of the cell at (x, y). Out-of-bounds writes are ignored.
func (g *GAT) SetType(x, y int, t GATCellType) {
	if cell := g.GetCell(x, y); cell != nil {
		cell.Type = t
	}
}

// IsWalkable reports whether the cell at (x, y) is walkable.
func (g *GAT) IsWalkable(x, y int) bool {
	cell := g.GetCell(x, y)
	if cell == nil {
		return false
	}
	return cell.Type.IsWalkable()
}

// CountByType returns the number of cells of each type.
func (g *GAT) CountByType() map[GATCellType]int {
	counts := make(map[GATCellType]int)
	for _, cell := range g.Cells {
		counts[cell.Type]++
	}
	return counts
}

// ParseGAT decodes a table from raw bytes.
func ParseGAT(data []byte) (*GAT, error) {
	if len(data) < gatHeaderSize {
		return nil, ErrTruncatedGATData
	}
	if string(data[0:4]) != gatMagic {
		return nil, ErrInvalidGATMagic
	}

	// stored as [minor, major]
	version := GATVersion{
		Major: data[5],
		Minor: data[4],
	}
	if version.Major < 1 || version.Major > 3 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGATVersion, version)
	}

	r := bytes.NewReader(data[6:])

	var width, height uint32
	if err := binary.Read(r, binary.LittleEndian, &width); err != nil {
		return nil, fmt.Errorf("%w: reading width", ErrTruncatedGATData)
	}
	if err := binary.Read(r, binary.LittleEndian, &height); err != nil {
		return nil, fmt.Errorf("%w: reading height", ErrTruncatedGATData)
	}
	if err := checkGATDimensions(width, height); err != nil {
		return nil, err
	}

	gat := &GAT{
		Version: version,
		Width:   width,
		Height:  height,
		Cells:   make([]GATCell, int(width*height)),
	}
	for i := range gat.Cells {
		if err := binary.Read(r, binary.LittleEndian, &gat.Cells[i]); err != nil {
			return nil, fmt.Errorf("%w: cell %d", ErrTruncatedGATData, i)
		}
	}
	return gat, nil
}

// ParseGATFile decodes a table from disk.
func ParseGATFile(path string) (*GAT, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading GAT file: %w", err)
	}
	return ParseGAT(data)
}

// Encode returns the binary form of the table.
func (g *GAT) Encode() ([]byte, error) {
	if err := checkGATDimensions(g.Width, g.Height); err != nil {
		return nil, err
	}
	if len(g.Cells) != int(g.Width*g.Height) {
		return nil, fmt.Errorf("%w: %d cells for %dx%d", ErrInvalidGATDimensions, len(g.Cells), g.Width, g.Height)
	}

	buf := new(bytes.Buffer)
	buf.WriteString(gatMagic)
	buf.WriteByte(g.Version.Minor)
	buf.WriteByte(g.Version.Major)
	// bytes.Buffer writes cannot fail
	_ = binary.Write(buf, binary.LittleEndian, g.Width)
	_ = binary.Write(buf, binary.LittleEndian, g.Height)
	_ = binary.Write(buf, binary.LittleEndian, g.Cells)
	return buf.Bytes(), nil
}

// WriteGATFile encodes the table to path.
func WriteGATFile(path string, g *GAT) error {
	data, err := g.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing GAT file: %w", err)
	}
	return nil
}
