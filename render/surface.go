package render

import "errors"

// Surface manager errors.
var (
	// ErrAdapterNotFound is returned when no compatible GPU adapter exists.
	ErrAdapterNotFound = errors.New("render: no suitable GPU adapter found")

	// ErrDeviceNotFound is returned when a logical device cannot be created.
	ErrDeviceNotFound = errors.New("render: no GPU device found")

	// ErrCreateSurfaceFailed is returned when the presentable surface
	// cannot be created for the window.
	ErrCreateSurfaceFailed = errors.New("render: unable to create surface")

	// ErrSurfaceOutdated is the transient acquisition failure seen after
	// resize/minimize/restore races. It is recoverable in place by
	// reconfiguring the surface.
	ErrSurfaceOutdated = errors.New("render: surface outdated")
)

// Frame is one acquired presentable texture for a single render-and-
// present cycle. A frame is consumed exactly once and never retained
// across renders.
type Frame interface {
	// Size returns the frame's dimensions in physical pixels.
	Size() (width, height uint32)
}

// FrameSource produces frames from a configured surface.
// backend/wgpu.Surface is the concrete implementation; tests substitute
// stubs to exercise the recovery policy.
type FrameSource interface {
	// Reconfigure re-applies the current surface configuration.
	Reconfigure()

	// Acquire requests the next presentable texture. A transient failure
	// is reported as ErrSurfaceOutdated (possibly wrapped); anything else
	// is unrecoverable for this frame.
	Acquire() (Frame, error)
}

// AcquireFrame acquires the next frame from src, recovering from an
// outdated surface by reconfiguring once and retrying acquisition exactly
// once. Any second failure, and any failure other than an outdated
// surface, propagates unmodified.
func AcquireFrame(src FrameSource) (Frame, error) {
	frame, err := src.Acquire()
	if errors.Is(err, ErrSurfaceOutdated) {
		// Mitigates the race between a window resize and the swapchain
		// still holding the previous extent.
		src.Reconfigure()
		return src.Acquire()
	}
	return frame, err
}
