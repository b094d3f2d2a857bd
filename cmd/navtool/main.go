// navtool is a CLI utility for inspecting boards and their navigation graphs.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/fieldboard/internal/config"
	"github.com/Faultbox/fieldboard/internal/field"
	"github.com/Faultbox/fieldboard/internal/logger"
	"github.com/Faultbox/fieldboard/internal/tilemap"
	"github.com/Faultbox/fieldboard/pkg/formats"
	"github.com/Faultbox/fieldboard/pkg/grid"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "path":
		cmdPath(args)
	case "adjacent", "adj":
		cmdAdjacent(args)
	case "gat":
		cmdGAT(args)
	case "view":
		cmdView(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`navtool - board navigation utility

Usage:
  navtool <command> [options]

Commands:
  info                               Show board, layer and graph summary
  path <from> <to>                   Print the shortest path between two cells
  adjacent <cell>                    Show a cell's neighbours and their state
  gat <file.gat>                     Show walkability table statistics
  view                               Interactive terminal viewer

Board options (all commands but gat):
  -config <file>   Config file
  -board <file>    Board layout (YAML)
  -gat <file>      Walkability table layered over the board
  -debug           Enable debug logging

Cells are written as x,y.

Examples:
  navtool info -board fields/meadow.yaml
  navtool path -board fields/meadow.yaml -ascii 0,0 12,7
  navtool path -gat prontera.gat -adjacent 150,100 160,120
  navtool view -board fields/meadow.yaml`)
}

// boardFlags are the options shared by every command that opens a board.
type boardFlags struct {
	config *string
	board  *string
	gat    *string
	debug  *bool
}

func addBoardFlags(fs *flag.FlagSet) boardFlags {
	return boardFlags{
		config: fs.String("config", "", "Path to config file"),
		board:  fs.String("board", "", "Path to board layout"),
		gat:    fs.String("gat", "", "Path to walkability table"),
		debug:  fs.Bool("debug", false, "Enable debug logging"),
	}
}

// open loads config and board. Console logging is only enabled for
// commands that leave the terminal alone.
func (bf boardFlags) open(console bool) *field.Field {
	cfg, err := config.LoadFrom(*bf.config)
	if err != nil {
		fatalf("Config error: %v", err)
	}
	if *bf.board != "" {
		cfg.Board.Layout = *bf.board
	}
	if *bf.gat != "" {
		cfg.Board.GAT = *bf.gat
	}
	if *bf.debug {
		cfg.Logging.Level = "debug"
	}

	if console || cfg.Logging.LogFile != "" {
		fileCfg := logger.DefaultFileConfig(cfg.Logging.LogFile)
		if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, console); err != nil {
			fatalf("Logger error: %v", err)
		}
	}

	f, err := field.Open(cfg)
	if err != nil {
		fatalf("Error: %v", err)
	}
	return f
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	logger.Sync()
	os.Exit(1)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	bf := addBoardFlags(fs)
	fs.Parse(args)

	f := bf.open(true)
	defer logger.Sync()
	defer f.Close()

	board := f.Board
	props := board.Properties()
	pf := board.Pathfinder()
	extents := board.Index().Extents()

	fmt.Printf("Extents:    %d,%d %dx%d (%d cells)\n",
		extents.X, extents.Y, extents.Width, extents.Height, board.Index().Len())
	fmt.Printf("Cell size:  %dx%d px\n", props.CellSize.Width, props.CellSize.Height)
	fmt.Printf("Nodes:      %d (%d disabled)\n", pf.Len(), pf.DisabledCount())
	fmt.Println()

	fmt.Println("Layers:")
	for _, layer := range f.Layers {
		fmt.Printf("  %-12s %-10s %d tiles, %d clear\n",
			layer.Name(), layer.Tileset().Name, len(layer.Cells()), len(layer.ClearCells()))
	}

	occupants := board.Gamepieces().Occupants()
	if len(occupants) > 0 {
		fmt.Println()
		fmt.Println("Gamepieces:")
		for _, id := range occupants {
			fmt.Printf("  %-12s %v\n", id, board.Gamepieces().CellOf(id))
		}
	}
}

func cmdPath(args []string) {
	fs := flag.NewFlagSet("path", flag.ExitOnError)
	bf := addBoardFlags(fs)
	adjacent := fs.Bool("adjacent", false, "Stop next to the target instead of on it")
	allow := fs.String("allow", "source", "Occupants to ignore: none, source, target, all")
	ascii := fs.Bool("ascii", false, "Draw the route over the board")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: navtool path [options] <from> <to>")
		os.Exit(1)
	}
	from, err := parseCell(fs.Arg(0))
	if err != nil {
		fatalf("Error: %v", err)
	}
	to, err := parseCell(fs.Arg(1))
	if err != nil {
		fatalf("Error: %v", err)
	}
	flags, err := parseFlags(*allow)
	if err != nil {
		fatalf("Error: %v", err)
	}

	f := bf.open(true)
	defer logger.Sync()
	defer f.Close()

	f.SetFlags(flags)
	if *adjacent {
		f.ToggleMode()
	}
	if err := f.SetSource(from); err != nil {
		fatalf("Error: %v", err)
	}
	if err := f.SetTarget(to); err != nil {
		fatalf("Error: %v", err)
	}

	path, err := f.Route()
	if err != nil {
		fatalf("Error: %v", err)
	}
	if len(path) == 0 {
		fmt.Printf("No path from %v to %v\n", from, to)
	} else {
		fmt.Printf("Path %v -> %v (%s, %d steps):\n", from, to, f.Mode(), len(path))
		parts := make([]string, len(path))
		for i, cell := range path {
			parts[i] = formatCell(cell)
		}
		fmt.Println("  " + strings.Join(parts, " "))
	}

	if *ascii {
		o, err := f.Overlay()
		if err != nil {
			fatalf("Error: %v", err)
		}
		fmt.Println()
		o.WriteASCII(os.Stdout)
	}
}

func cmdAdjacent(args []string) {
	fs := flag.NewFlagSet("adjacent", flag.ExitOnError)
	bf := addBoardFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: navtool adjacent [options] <cell>")
		os.Exit(1)
	}
	cell, err := parseCell(fs.Arg(0))
	if err != nil {
		fatalf("Error: %v", err)
	}

	f := bf.open(true)
	defer logger.Sync()
	defer f.Close()

	board := f.Board
	index := board.Index()
	fmt.Printf("Cell %v: %s\n", cell, describeCell(f, cell))
	if id := index.CellToIndex(cell); id != grid.InvalidIndex {
		fmt.Printf("  index %d, center %v px\n", id, index.CellToPixel(cell))
	}
	fmt.Println("Neighbours:")
	for _, dir := range grid.Directions {
		n := index.AdjacentCell(cell, dir)
		if n == grid.InvalidCell {
			fmt.Printf("  %-6s (outside board)\n", dir)
			continue
		}
		fmt.Printf("  %-6s %-9v %s\n", dir, n, describeCell(f, n))
	}
}

func describeCell(f *field.Field, cell grid.Cell) string {
	board := f.Board
	switch {
	case !board.Index().Contains(cell):
		return "outside board"
	case !board.Pathfinder().HasCell(cell):
		if board.IsCellClear(cell) {
			return "clear, not navigable"
		}
		return "not navigable"
	}
	if id, ok := board.Gamepieces().OccupantAt(cell); ok {
		return fmt.Sprintf("navigable, occupied by %s", id)
	}
	return "navigable"
}

func cmdGAT(args []string) {
	fs := flag.NewFlagSet("gat", flag.ExitOnError)
	ascii := fs.Bool("ascii", false, "Draw the table")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: navtool gat [-ascii] <file.gat>")
		os.Exit(1)
	}

	gat, err := formats.ParseGATFile(fs.Arg(0))
	if err != nil {
		fatalf("Error: %v", err)
	}

	fmt.Printf("Table:   %s\n", fs.Arg(0))
	fmt.Printf("Version: %s\n", gat.Version)
	fmt.Printf("Size:    %dx%d (%d cells)\n", gat.Width, gat.Height, len(gat.Cells))
	fmt.Println()
	fmt.Println("Cells by type:")
	counts := gat.CountByType()
	for t := formats.GATWalkable; t <= formats.GATBlockedSnipe; t++ {
		if counts[t] > 0 {
			fmt.Printf("  %-16s %d\n", t, counts[t])
		}
	}

	if *ascii {
		layer, err := tilemap.LayerFromGAT(field.GATLayer, gat, grid.Cell{})
		if err != nil {
			fatalf("Error: %v", err)
		}
		fmt.Println()
		ts := layer.Tileset()
		for y := 0; y < int(gat.Height); y++ {
			row := make([]rune, gat.Width)
			for x := range row {
				id, _ := layer.TileAt(grid.Cell{X: x, Y: y})
				row[x] = ts.Glyph(id)
			}
			fmt.Println(string(row))
		}
	}
}
