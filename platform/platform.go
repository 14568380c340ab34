// Package platform defines the windowing contract: events, input codes,
// and the Window interface the event loop drives. The single concrete
// binding lives in platform/glfw.
package platform

import (
	"time"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/sigscope/sigscope/schedule"
)

// Button is a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Key is a keyboard key. Only the keys the UI binds are distinguished;
// everything else maps to KeyUnknown.
type Key int

const (
	KeyUnknown Key = iota
	KeyO
	KeyW
	KeyC
	KeyA
	KeyQ
	KeyEscape
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
)

// Window is one native window with a GPU-presentable surface attached.
// All methods must be called from the main thread.
type Window interface {
	// SizePx returns the drawable size in physical pixels.
	SizePx() (width, height uint32)

	// ScaleFactor returns the pixels-per-point scale of the display the
	// window is on.
	ScaleFactor() float32

	// SurfaceDescriptor returns the native handles needed to create a
	// GPU surface for the window.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// RequestRedraw queues a redraw event and wakes a blocking pump.
	RequestRedraw()

	// Pump processes native events per the scheduler's directive and
	// returns the translated events in arrival order. With FlowWait and
	// a positive timeout the block is bounded by the timeout.
	Pump(flow schedule.ControlFlow, timeout time.Duration) []Event

	// ShouldClose reports whether the user asked to close the window.
	ShouldClose() bool

	// Caps describes the platform quirks the scheduler compensates for.
	Caps() schedule.Caps

	// Destroy releases the native window.
	Destroy()
}
