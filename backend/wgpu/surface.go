// Package wgpu binds the render contract to wgpu-native: it owns the GPU
// instance, device and presentable surface, and encodes draw batches into
// real GPU command buffers.
package wgpu

import (
	"fmt"
	"slices"

	webgpu "github.com/cogentcore/webgpu/wgpu"

	"github.com/sigscope/sigscope/render"
)

// Surface owns the GPU stack for one window: instance, adapter, device,
// queue, and the configured presentable surface.
type Surface struct {
	instance *webgpu.Instance
	surface  *webgpu.Surface
	adapter  *webgpu.Adapter
	device   *webgpu.Device
	queue    *webgpu.Queue

	config *webgpu.SurfaceConfiguration
}

var _ render.FrameSource = (*Surface)(nil)

// NewSurface creates the full GPU stack against a native surface and
// configures it at the given pixel size. Every failure here is fatal to
// the application; there is nothing to draw with.
func NewSurface(desc *webgpu.SurfaceDescriptor, widthPx, heightPx uint32) (*Surface, error) {
	instance := webgpu.CreateInstance(nil)

	surf := instance.CreateSurface(desc)
	if surf == nil {
		instance.Release()
		return nil, render.ErrCreateSurfaceFailed
	}

	adapter, err := instance.RequestAdapter(&webgpu.RequestAdapterOptions{
		CompatibleSurface: surf,
		PowerPreference:   webgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		surf.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: %w", render.ErrAdapterNotFound, err)
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		surf.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: %w", render.ErrDeviceNotFound, err)
	}

	s := &Surface{
		instance: instance,
		surface:  surf,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
	}
	s.configure(widthPx, heightPx)

	info := adapter.GetInfo()
	slogger().Info("wgpu: surface ready",
		"adapter", info.Name,
		"backend", info.BackendType,
		"format", s.config.Format,
		"width", widthPx,
		"height", heightPx)
	return s, nil
}

// preferredFormat picks an sRGB swapchain format when the adapter offers
// one, falling back to the adapter's first supported format.
func preferredFormat(formats []webgpu.TextureFormat) webgpu.TextureFormat {
	if slices.Contains(formats, webgpu.TextureFormatBGRA8UnormSrgb) {
		return webgpu.TextureFormatBGRA8UnormSrgb
	}
	if slices.Contains(formats, webgpu.TextureFormatRGBA8UnormSrgb) {
		return webgpu.TextureFormatRGBA8UnormSrgb
	}
	if len(formats) > 0 {
		return formats[0]
	}
	return webgpu.TextureFormatBGRA8Unorm
}

func (s *Surface) configure(widthPx, heightPx uint32) {
	caps := s.surface.GetCapabilities(s.adapter)

	alphaMode := webgpu.CompositeAlphaModeAuto
	if len(caps.AlphaModes) > 0 {
		alphaMode = caps.AlphaModes[0]
	}

	s.config = &webgpu.SurfaceConfiguration{
		Usage:       webgpu.TextureUsageRenderAttachment,
		Format:      preferredFormat(caps.Formats),
		Width:       widthPx,
		Height:      heightPx,
		PresentMode: webgpu.PresentModeFifo,
		AlphaMode:   alphaMode,
	}
	s.surface.Configure(s.adapter, s.device, s.config)
}

// Format returns the configured swapchain texture format.
func (s *Surface) Format() webgpu.TextureFormat { return s.config.Format }

// Size returns the configured surface size in physical pixels.
func (s *Surface) Size() (width, height uint32) {
	return s.config.Width, s.config.Height
}

// Resize reconfigures the surface for a new pixel size. A zero dimension
// (minimized window) is ignored; the surface keeps its last valid
// configuration until the window is restored.
func (s *Surface) Resize(widthPx, heightPx uint32) {
	if widthPx == 0 || heightPx == 0 {
		return
	}
	if widthPx == s.config.Width && heightPx == s.config.Height {
		return
	}
	s.config.Width = widthPx
	s.config.Height = heightPx
	s.surface.Configure(s.adapter, s.device, s.config)
}

// Reconfigure re-applies the current configuration, recovering an
// outdated swapchain in place.
func (s *Surface) Reconfigure() {
	s.surface.Configure(s.adapter, s.device, s.config)
}

// Acquire requests the next presentable texture.
func (s *Surface) Acquire() (render.Frame, error) {
	tex, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, classifySurfaceError(err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, classifySurfaceError(err)
	}
	return &Frame{
		texture: tex,
		view:    view,
		width:   s.config.Width,
		height:  s.config.Height,
	}, nil
}

// AcquireFrame acquires the next frame with the standard outdated-surface
// recovery applied.
func (s *Surface) AcquireFrame() (render.Frame, error) {
	return render.AcquireFrame(s)
}

// present presents the most recently finished frame.
func (s *Surface) present() {
	s.surface.Present()
}

// Release destroys the GPU stack. The surface must not be used afterward.
func (s *Surface) Release() {
	if s.device != nil {
		s.device.Release()
		s.device = nil
	}
	if s.adapter != nil {
		s.adapter.Release()
		s.adapter = nil
	}
	if s.surface != nil {
		s.surface.Release()
		s.surface = nil
	}
	if s.instance != nil {
		s.instance.Release()
		s.instance = nil
	}
}

// Frame is one acquired swapchain texture plus its render view.
type Frame struct {
	texture *webgpu.Texture
	view    *webgpu.TextureView
	width   uint32
	height  uint32
}

var _ render.Frame = (*Frame)(nil)

// Size returns the frame's dimensions in physical pixels.
func (f *Frame) Size() (uint32, uint32) { return f.width, f.height }

// release drops the view and texture after presentation.
func (f *Frame) release() {
	if f.view != nil {
		f.view.Release()
		f.view = nil
	}
	if f.texture != nil {
		f.texture.Release()
		f.texture = nil
	}
}
