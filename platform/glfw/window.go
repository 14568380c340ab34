// Package glfw binds the platform windowing contract to GLFW.
package glfw

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	glfw3 "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/sigscope/sigscope/platform"
	"github.com/sigscope/sigscope/schedule"
)

// Init initializes GLFW. Must be called on the main thread before any
// window is created, paired with Terminate.
func Init() error {
	if err := glfw3.Init(); err != nil {
		return fmt.Errorf("glfw: init: %w", err)
	}
	return nil
}

// Terminate shuts GLFW down.
func Terminate() {
	glfw3.Terminate()
}

// Window is a GLFW-backed platform.Window. It owns the translated event
// queue filled by the GLFW callbacks; all methods run on the main thread.
type Window struct {
	win *glfw3.Window

	events  []platform.Event
	cursorX float32
	cursorY float32

	// redrawWanted is the only cross-thread input: RequestRedraw may be
	// called from a worker goroutine.
	redrawWanted atomic.Bool
}

var _ platform.Window = (*Window)(nil)

// NewWindow creates a resizable window with no client graphics API, sized
// in logical points.
func NewWindow(title string, width, height int) (*Window, error) {
	glfw3.WindowHint(glfw3.ClientAPI, glfw3.NoAPI)
	glfw3.WindowHint(glfw3.Resizable, glfw3.True)

	win, err := glfw3.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("glfw: create window: %w", err)
	}

	w := &Window{win: win}
	w.installCallbacks()
	return w, nil
}

func (w *Window) installCallbacks() {
	w.win.SetFramebufferSizeCallback(func(_ *glfw3.Window, width, height int) {
		w.push(platform.ResizeEvent{
			WidthPx:  uint32(max(width, 0)),
			HeightPx: uint32(max(height, 0)),
			Scale:    w.ScaleFactor(),
		})
	})
	w.win.SetRefreshCallback(func(_ *glfw3.Window) {
		w.push(platform.RedrawEvent{})
	})
	w.win.SetCloseCallback(func(_ *glfw3.Window) {
		w.push(platform.CloseEvent{})
	})
	w.win.SetCursorPosCallback(func(_ *glfw3.Window, x, y float64) {
		w.cursorX, w.cursorY = float32(x), float32(y)
		w.push(platform.CursorEvent{X: w.cursorX, Y: w.cursorY})
	})
	w.win.SetMouseButtonCallback(func(_ *glfw3.Window, button glfw3.MouseButton, action glfw3.Action, _ glfw3.ModifierKey) {
		b, ok := convertButton(button)
		if !ok {
			return
		}
		w.push(platform.ButtonEvent{
			Button:  b,
			Pressed: action == glfw3.Press,
			X:       w.cursorX,
			Y:       w.cursorY,
		})
	})
	w.win.SetScrollCallback(func(_ *glfw3.Window, dx, dy float64) {
		w.push(platform.ScrollEvent{DX: float32(dx), DY: float32(dy)})
	})
	w.win.SetKeyCallback(func(_ *glfw3.Window, key glfw3.Key, _ int, action glfw3.Action, _ glfw3.ModifierKey) {
		if action == glfw3.Repeat {
			return
		}
		w.push(platform.KeyEvent{
			Key:     convertKey(key),
			Pressed: action == glfw3.Press,
		})
	})
	w.win.SetFocusCallback(func(_ *glfw3.Window, focused bool) {
		w.push(platform.FocusEvent{Focused: focused})
	})
}

func (w *Window) push(ev platform.Event) {
	w.events = append(w.events, ev)
}

// SizePx returns the framebuffer size in physical pixels.
func (w *Window) SizePx() (uint32, uint32) {
	width, height := w.win.GetFramebufferSize()
	return uint32(max(width, 0)), uint32(max(height, 0))
}

// ScaleFactor returns the window's content scale.
func (w *Window) ScaleFactor() float32 {
	sx, _ := w.win.GetContentScale()
	if sx <= 0 {
		return 1
	}
	return sx
}

// SurfaceDescriptor returns the native surface handles for this window.
func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w.win)
}

// RequestRedraw queues a redraw and wakes a blocking Pump. Safe to call
// from any goroutine; PostEmptyEvent is one of the few thread-safe GLFW
// entry points.
func (w *Window) RequestRedraw() {
	w.redrawWanted.Store(true)
	glfw3.PostEmptyEvent()
}

// Pump processes native events per the directive and drains the
// translated queue.
func (w *Window) Pump(flow schedule.ControlFlow, timeout time.Duration) []platform.Event {
	switch {
	case flow == schedule.FlowPoll:
		glfw3.PollEvents()
	case timeout > 0:
		glfw3.WaitEventsTimeout(timeout.Seconds())
	default:
		glfw3.WaitEvents()
	}
	if w.redrawWanted.Swap(false) {
		w.push(platform.RedrawEvent{})
	}
	events := w.events
	w.events = nil
	return events
}

// ShouldClose reports whether the close flag is set on the window.
func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

// Caps reports the platform quirks for the scheduler. The blocking wait
// is unreliable on Windows, where moves and resizes run a modal loop
// that starves it.
func (w *Window) Caps() schedule.Caps {
	return schedule.Caps{BrokenBlockingWait: runtime.GOOS == "windows"}
}

// Destroy releases the native window.
func (w *Window) Destroy() {
	w.win.Destroy()
}

func convertButton(b glfw3.MouseButton) (platform.Button, bool) {
	switch b {
	case glfw3.MouseButtonLeft:
		return platform.ButtonLeft, true
	case glfw3.MouseButtonRight:
		return platform.ButtonRight, true
	case glfw3.MouseButtonMiddle:
		return platform.ButtonMiddle, true
	default:
		return 0, false
	}
}

func convertKey(k glfw3.Key) platform.Key {
	switch k {
	case glfw3.KeyO:
		return platform.KeyO
	case glfw3.KeyW:
		return platform.KeyW
	case glfw3.KeyC:
		return platform.KeyC
	case glfw3.KeyA:
		return platform.KeyA
	case glfw3.KeyQ:
		return platform.KeyQ
	case glfw3.KeyEscape:
		return platform.KeyEscape
	case glfw3.KeyLeft:
		return platform.KeyLeft
	case glfw3.KeyRight:
		return platform.KeyRight
	case glfw3.KeyUp:
		return platform.KeyUp
	case glfw3.KeyDown:
		return platform.KeyDown
	case glfw3.KeyHome:
		return platform.KeyHome
	case glfw3.KeyEnd:
		return platform.KeyEnd
	default:
		return platform.KeyUnknown
	}
}
