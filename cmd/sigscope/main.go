// Command sigscope is a GPU-accelerated VCD waveform viewer.
package main

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/sqweek/dialog"

	backend "github.com/sigscope/sigscope/backend/wgpu"
	"github.com/sigscope/sigscope/config"
	"github.com/sigscope/sigscope/internal/app"
	"github.com/sigscope/sigscope/internal/gui"
	"github.com/sigscope/sigscope/platform/glfw"
	"github.com/sigscope/sigscope/render"
	"github.com/sigscope/sigscope/schedule"
)

func init() {
	// GLFW and the surface must stay on the thread that created them.
	runtime.LockOSThread()
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	backend.SetLogger(logger)

	if err := run(); err != nil {
		slog.Error("sigscope: startup failed", "error", err)
		dialog.Message("%v", err).Title("sigscope").Error()
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	width, height := cfg.WindowSize()
	window, err := glfw.NewWindow("sigscope", int(width), int(height))
	if err != nil {
		return err
	}
	defer window.Destroy()

	widthPx, heightPx := window.SizePx()
	surface, err := backend.NewSurface(window.SurfaceDescriptor(), widthPx, heightPx)
	if err != nil {
		return err
	}
	defer surface.Release()

	renderer, err := backend.NewRenderer(surface)
	if err != nil {
		return err
	}
	defer renderer.Release()

	fw := &app.Framework{
		Window:    window,
		Surface:   surface,
		Renderer:  renderer,
		UI:        gui.New(window.RequestRedraw),
		Scheduler: schedule.NewScheduler(window.Caps(), nil),
		Config:    cfg,
		Screen: render.ScreenDescriptor{
			WidthPx:        widthPx,
			HeightPx:       heightPx,
			PixelsPerPoint: window.ScaleFactor(),
		},
	}

	if err := app.Run(fw); err != nil {
		// Losing the window geometry is not worth dying over, but the
		// user should know.
		slog.Warn("sigscope: saving configuration failed", "error", err)
		dialog.Message("Could not save settings: %v", err).Title("sigscope").Error()
	}
	return nil
}
