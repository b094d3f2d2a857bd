package main

import (
	"flag"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/fieldboard/internal/debug"
	"github.com/Faultbox/fieldboard/internal/field"
	"github.com/Faultbox/fieldboard/internal/logger"
	"github.com/Faultbox/fieldboard/pkg/grid"
)

// viewer is the interactive terminal board view. One terminal column and
// row per cell; the status line sits below the board.
type viewer struct {
	screen tcell.Screen
	field  *field.Field
	cursor grid.Cell
	status string
}

func cmdView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	bf := addBoardFlags(fs)
	fs.Parse(args)

	// the screen owns the terminal; logs go to the configured file only
	f := bf.open(false)
	defer logger.Sync()
	defer f.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fatalf("Screen error: %v", err)
	}
	if err := screen.Init(); err != nil {
		fatalf("Screen error: %v", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	extents := f.Board.Index().Extents()
	v := &viewer{
		screen: screen,
		field:  f,
		cursor: grid.Cell{X: extents.X, Y: extents.Y},
		status: "arrows move, space select, o occupant, a mode, n step, c clear, q quit",
	}
	v.run()
}

func (v *viewer) run() {
	for {
		v.draw()
		if !v.handle(v.screen.PollEvent()) {
			return
		}
	}
}

func (v *viewer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			v.moveCursor(grid.North)
		case tcell.KeyRight:
			v.moveCursor(grid.East)
		case tcell.KeyDown:
			v.moveCursor(grid.South)
		case tcell.KeyLeft:
			v.moveCursor(grid.West)
		case tcell.KeyEnter:
			v.selectCell(v.cursor)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				v.selectCell(v.cursor)
			case 'o':
				v.toggleOccupant(v.cursor)
			case 'a':
				v.status = fmt.Sprintf("mode: %s", v.field.ToggleMode())
			case 'n':
				v.step()
			case 'c':
				v.field.ClearSelection()
				v.status = "selection cleared"
			}
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		extents := v.field.Board.Index().Extents()
		cell := grid.Cell{X: extents.X + x, Y: extents.Y + y}
		if !v.field.Board.Index().Contains(cell) {
			break
		}
		switch {
		case ev.Buttons()&tcell.Button1 != 0:
			v.cursor = cell
			v.selectCell(cell)
		case ev.Buttons()&tcell.Button2 != 0:
			v.cursor = cell
			v.toggleOccupant(cell)
		}

	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *viewer) moveCursor(dir grid.Direction) {
	if next := v.field.Board.Index().AdjacentCell(v.cursor, dir); next != grid.InvalidCell {
		v.cursor = next
	}
}

func (v *viewer) selectCell(cell grid.Cell) {
	if err := v.field.Select(cell); err != nil {
		v.status = err.Error()
		return
	}
	v.status = v.routeStatus()
}

func (v *viewer) toggleOccupant(cell grid.Cell) {
	id, placed, err := v.field.ToggleOccupant(cell)
	switch {
	case err != nil:
		v.status = err.Error()
	case placed:
		v.status = fmt.Sprintf("placed %s at %v", id, cell)
	default:
		v.status = fmt.Sprintf("removed %s from %v", id, cell)
	}
}

func (v *viewer) step() {
	cell, err := v.field.Advance()
	if err != nil {
		v.status = err.Error()
		return
	}
	v.status = fmt.Sprintf("stepped to %v; %s", cell, v.routeStatus())
}

func (v *viewer) routeStatus() string {
	src, _ := v.field.Source()
	dst, ok := v.field.Target()
	if !ok {
		return fmt.Sprintf("source %v, pick a target", src)
	}
	path, err := v.field.Route()
	if err != nil {
		return err.Error()
	}
	if len(path) == 0 {
		return fmt.Sprintf("no path %v -> %v", src, dst)
	}
	return fmt.Sprintf("%v -> %v: %d steps (%s)", src, dst, len(path), v.field.Mode())
}

func (v *viewer) draw() {
	v.screen.Clear()

	o, err := v.field.Overlay()
	if err != nil {
		logger.Error("overlay failed", zap.Error(err))
		v.status = err.Error()
	}

	extents := v.field.Board.Index().Extents()
	if o != nil {
		for y := 0; y < extents.Height; y++ {
			for x := 0; x < extents.Width; x++ {
				cell := grid.Cell{X: extents.X + x, Y: extents.Y + y}
				kind := o.At(cell)
				style := kindStyle(kind)
				if cell == v.cursor {
					style = style.Reverse(true)
				}
				v.screen.SetContent(x, y, kind.Glyph(), nil, style)
			}
		}
	}

	line := fmt.Sprintf("%v  %s", v.cursor, v.status)
	for i, r := range line {
		v.screen.SetContent(i, extents.Height+1, r, nil, tcell.StyleDefault)
	}
	v.screen.Show()
}

func kindStyle(k debug.Kind) tcell.Style {
	c := k.Color()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c[0]), int32(c[1]), int32(c[2])))
}
