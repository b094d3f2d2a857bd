// Package main is an SDL window for exploring a board: left click picks
// source and target, right click toggles an occupant.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/fieldboard/internal/config"
	"github.com/Faultbox/fieldboard/internal/field"
	"github.com/Faultbox/fieldboard/internal/logger"
	"github.com/Faultbox/fieldboard/pkg/grid"
)

const windowTitle = "Field Board"

func init() {
	runtime.LockOSThread()
}

func main() {
	// Parse CLI flags
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Field Board ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	f, err := field.Open(cfg)
	if err != nil {
		logger.Error("failed to open board", zap.Error(err))
		os.Exit(1)
	}
	defer f.Close()

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		logger.Error("SDL init failed", zap.Error(err))
		os.Exit(1)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(
		windowTitle,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Viewer.Width), int32(cfg.Viewer.Height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		logger.Error("Window creation failed", zap.Error(err))
		os.Exit(1)
	}
	defer window.Destroy()

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if cfg.Viewer.VSync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}
	renderer, err := sdl.CreateRenderer(window, -1, flags)
	if err != nil {
		logger.Error("Renderer creation failed", zap.Error(err))
		os.Exit(1)
	}
	defer renderer.Destroy()

	extents := f.Board.Index().Extents()
	view := newViewport(extents, cfg.Viewer.CellPixels)
	logger.Info("board ready",
		zap.Int("width", extents.Width),
		zap.Int("height", extents.Height),
		zap.Int("cell_pixels", view.cellPixels),
	)

	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false

			case *sdl.MouseButtonEvent:
				if e.State != sdl.PRESSED {
					continue
				}
				cell := view.cellAt(e.X, e.Y)
				switch e.Button {
				case sdl.BUTTON_LEFT:
					if err := f.Select(cell); err != nil {
						logger.Debug("select ignored", zap.Stringer("cell", cell), zap.Error(err))
					}
				case sdl.BUTTON_RIGHT:
					toggleOccupant(f, cell)
				}

			case *sdl.MouseWheelEvent:
				view.zoom(e.Y)

			case *sdl.KeyboardEvent:
				if e.State != sdl.PRESSED {
					continue
				}
				running = handleKey(e.Keysym.Sym, f, view)
			}
		}

		window.SetTitle(title(f))
		if err := draw(renderer, f, view, cfg.Viewer.ShowGrid); err != nil {
			logger.Error("draw failed", zap.Error(err))
			running = false
		}
		if !cfg.Viewer.VSync {
			sdl.Delay(16)
		}
	}

	logger.Info("board view closed normally")
}

func handleKey(key sdl.Keycode, f *field.Field, view *viewport) bool {
	switch key {
	case sdl.K_ESCAPE, sdl.K_q:
		return false
	case sdl.K_LEFT:
		view.pan(grid.West)
	case sdl.K_RIGHT:
		view.pan(grid.East)
	case sdl.K_UP:
		view.pan(grid.North)
	case sdl.K_DOWN:
		view.pan(grid.South)
	case sdl.K_a:
		f.ToggleMode()
	case sdl.K_n:
		if _, err := f.Advance(); err != nil {
			logger.Debug("step ignored", zap.Error(err))
		}
	case sdl.K_c:
		f.ClearSelection()
	}
	return true
}

func toggleOccupant(f *field.Field, cell grid.Cell) {
	id, placed, err := f.ToggleOccupant(cell)
	if err != nil {
		logger.Debug("occupant toggle ignored", zap.Stringer("cell", cell), zap.Error(err))
		return
	}
	logger.Info("occupant toggled",
		zap.String("gamepiece", string(id)),
		zap.Stringer("cell", cell),
		zap.Bool("placed", placed),
	)
}

func title(f *field.Field) string {
	src, ok := f.Source()
	if !ok {
		return windowTitle + " - pick a source"
	}
	dst, ok := f.Target()
	if !ok {
		return fmt.Sprintf("%s - %v, pick a target", windowTitle, src)
	}
	path, err := f.Route()
	if err != nil {
		return windowTitle
	}
	if len(path) == 0 {
		return fmt.Sprintf("%s - no path %v -> %v", windowTitle, src, dst)
	}
	return fmt.Sprintf("%s - %v -> %v: %d steps (%s)", windowTitle, src, dst, len(path), f.Mode())
}

func draw(r *sdl.Renderer, f *field.Field, view *viewport, showGrid bool) error {
	o, err := f.Overlay()
	if err != nil {
		return err
	}

	r.SetDrawColor(20, 20, 28, 255)
	r.Clear()

	extents := view.extents
	for y := 0; y < extents.Height; y++ {
		for x := 0; x < extents.Width; x++ {
			cell := grid.Cell{X: extents.X + x, Y: extents.Y + y}
			rect, ok := view.cellRect(cell)
			if !ok {
				continue
			}
			c := o.At(cell).Color()
			r.SetDrawColor(c[0], c[1], c[2], 255)
			r.FillRect(&rect)
		}
	}

	if showGrid && view.cellPixels > 3 {
		r.SetDrawColor(90, 90, 90, 255)
		for y := 0; y < extents.Height; y++ {
			for x := 0; x < extents.Width; x++ {
				if rect, ok := view.cellRect(grid.Cell{X: extents.X + x, Y: extents.Y + y}); ok {
					r.DrawRect(&rect)
				}
			}
		}
	}

	r.Present()
	return nil
}
