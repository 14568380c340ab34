// Package app drives the event loop: it pumps the window per the
// scheduler's directive, feeds events to the UI, and renders the UI's
// draw batches through the GPU backend.
package app

import (
	"log/slog"
	"time"

	"github.com/sigscope/sigscope/config"
	"github.com/sigscope/sigscope/platform"
	"github.com/sigscope/sigscope/render"
	"github.com/sigscope/sigscope/schedule"
)

// Window is the slice of the platform window the loop drives.
type Window interface {
	Pump(flow schedule.ControlFlow, timeout time.Duration) []platform.Event
	ShouldClose() bool
}

// Surface is the slice of the GPU surface the loop drives.
type Surface interface {
	Resize(widthPx, heightPx uint32)
	AcquireFrame() (render.Frame, error)
}

// UI is one immediate-mode UI pass per loop iteration.
type UI interface {
	Update(events []platform.Event, now time.Time, screen render.ScreenDescriptor) (*render.DrawBatch, render.Repaint)
	QuitRequested() bool
}

// Framework aggregates the long-lived pieces of the application. It is
// passed by pointer; everything in it lives on the event-loop thread.
type Framework struct {
	Window    Window
	Surface   Surface
	Renderer  render.Encoder
	UI        UI
	Scheduler *schedule.Scheduler
	Config    *config.Config
	Screen    render.ScreenDescriptor

	// Now is the loop's clock; nil means time.Now.
	Now func() time.Time

	// minimized is set while the drawable area is zero. Screen and
	// Config keep the last real geometry until the window is restored.
	minimized bool

	// undelivered holds texture changes from batches that never reached
	// the encoder. They are merged into the next encoded batch.
	undelivered render.TextureDelta
}

// Run drives the event loop until the window closes or the UI requests
// quit. It returns the error from persisting the configuration at
// shutdown, which the caller surfaces without treating as fatal.
func Run(fw *Framework) error {
	if fw.Now == nil {
		fw.Now = time.Now
	}

	for !fw.Window.ShouldClose() && !fw.UI.QuitRequested() {
		fw.Scheduler.BeginFrame()
		flow, timeout := fw.Scheduler.Directive()
		events := fw.Window.Pump(flow, timeout)

		redraw, uiEvents, closed := fw.dispatch(events)
		if closed {
			break
		}
		if fw.Scheduler.Due() {
			redraw = true
		}

		batch, repaint := fw.UI.Update(uiEvents, fw.Now(), fw.Screen)
		if fw.Scheduler.HandleRepaint(repaint) {
			redraw = true
		}

		// Texture changes ride the batch and exist in no later one, so a
		// batch carrying any must reach the encoder even when nothing
		// else asked for a frame. Changes from a frame that could not be
		// encoded are carried into the next one.
		batch.Delta = mergeDeltas(fw.undelivered, batch.Delta)
		fw.undelivered = render.TextureDelta{}
		if len(batch.Delta.Set) > 0 || len(batch.Delta.Free) > 0 {
			redraw = true
		}

		if redraw && !fw.renderFrame(batch) {
			fw.undelivered = batch.Delta
		}
		fw.Scheduler.EventsCleared()
	}

	return fw.Config.Save()
}

// dispatch splits one pump's events: resizes are applied first so every
// later consumer sees the final geometry, redraw and close are folded
// into loop state, and the rest go to the UI in arrival order.
func (fw *Framework) dispatch(events []platform.Event) (redraw bool, uiEvents []platform.Event, closed bool) {
	for _, ev := range events {
		if rz, ok := ev.(platform.ResizeEvent); ok {
			fw.applyResize(rz)
			redraw = true
		}
	}
	for _, ev := range events {
		switch ev.(type) {
		case platform.ResizeEvent:
		case platform.RedrawEvent:
			redraw = true
		case platform.CloseEvent:
			closed = true
		default:
			uiEvents = append(uiEvents, ev)
		}
	}
	return redraw, uiEvents, closed
}

func (fw *Framework) applyResize(rz platform.ResizeEvent) {
	if rz.WidthPx == 0 || rz.HeightPx == 0 {
		// Minimized. The zero size must not reach the surface, the
		// screen descriptor, or the persisted geometry.
		fw.minimized = true
		return
	}
	fw.minimized = false
	fw.Screen = render.ScreenDescriptor{
		WidthPx:        rz.WidthPx,
		HeightPx:       rz.HeightPx,
		PixelsPerPoint: rz.Scale,
	}
	fw.Surface.Resize(rz.WidthPx, rz.HeightPx)
	fw.Config.SetWindowSize(rz.WidthPx, rz.HeightPx, rz.Scale)
}

// mergeDeltas prepends the texture changes of a that never reached the
// encoder onto b, preserving order within each.
func mergeDeltas(a, b render.TextureDelta) render.TextureDelta {
	if len(a.Set) == 0 && len(a.Free) == 0 {
		return b
	}
	return render.TextureDelta{
		Set:  append(a.Set, b.Set...),
		Free: append(a.Free, b.Free...),
	}
}

// renderFrame encodes one batch against a freshly acquired frame and
// reports whether the batch reached the encoder. A failed acquisition
// loses this frame only: it is logged and the loop carries on.
func (fw *Framework) renderFrame(batch *render.DrawBatch) bool {
	if fw.minimized || fw.Screen.WidthPx == 0 || fw.Screen.HeightPx == 0 {
		// Nothing to present.
		return false
	}
	frame, err := fw.Surface.AcquireFrame()
	if err != nil {
		slog.Error("app: frame failed", "error", err)
		return false
	}
	render.Encode(fw.Renderer, frame, batch, fw.Screen)
	return true
}
