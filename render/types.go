// Package render defines the drawing contract between the UI pass and the
// GPU backend: screen geometry, draw batches, texture deltas, and the pure
// frame-lifecycle policies every backend must follow.
//
// The package holds no GPU handles itself. The single concrete binding
// lives in backend/wgpu; tests exercise the policies here through small
// interfaces with instrumented fakes.
package render

import "github.com/gogpu/gputypes"

// ScreenDescriptor describes the presentable area of the window.
// It is mutated only on resize and read by the render pipeline to size
// the draw viewport correctly on high-DPI displays.
type ScreenDescriptor struct {
	// WidthPx and HeightPx are the surface size in physical pixels.
	WidthPx  uint32
	HeightPx uint32

	// PixelsPerPoint is the scale factor from logical points to pixels.
	PixelsPerPoint float32
}

// PointsWidth returns the logical width in points.
func (s ScreenDescriptor) PointsWidth() float32 {
	if s.PixelsPerPoint == 0 {
		return float32(s.WidthPx)
	}
	return float32(s.WidthPx) / s.PixelsPerPoint
}

// PointsHeight returns the logical height in points.
func (s ScreenDescriptor) PointsHeight() float32 {
	if s.PixelsPerPoint == 0 {
		return float32(s.HeightPx)
	}
	return float32(s.HeightPx) / s.PixelsPerPoint
}

// TextureID identifies a texture owned by the render backend.
// IDs are allocated by the UI pass; the backend only stores them.
type TextureID uint64

// TextureWhite is the reserved id of the built-in 1x1 white texture.
// Untextured geometry references it so that every primitive draws through
// the same pipeline.
const TextureWhite TextureID = 0

// Vertex is one UI vertex: position in logical points, texture
// coordinates, and a straight-alpha RGBA color.
type Vertex struct {
	X, Y       float32
	U, V       float32
	R, G, B, A float32
}

// Mesh is indexed triangle geometry produced by the UI pass.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// ClipRect is a scissor rectangle in physical pixels.
type ClipRect struct {
	X, Y          uint32
	Width, Height uint32
}

// Intersect clamps the rectangle to the given surface size.
func (c ClipRect) Intersect(widthPx, heightPx uint32) ClipRect {
	if c.X >= widthPx || c.Y >= heightPx {
		return ClipRect{}
	}
	if c.X+c.Width > widthPx {
		c.Width = widthPx - c.X
	}
	if c.Y+c.Height > heightPx {
		c.Height = heightPx - c.Y
	}
	return c
}

// Empty reports whether the rectangle covers no pixels.
func (c ClipRect) Empty() bool {
	return c.Width == 0 || c.Height == 0
}

// Primitive is one clipped draw: a mesh constrained to a scissor
// rectangle, sampling a single texture. Primitives are drawn back to
// front in batch order; the order is significant.
type Primitive struct {
	Clip    ClipRect
	Mesh    Mesh
	Texture TextureID
}

// TextureUpload is a full-texture upload to apply before drawing.
type TextureUpload struct {
	ID     TextureID
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
	Pixels []byte
}

// TextureDelta carries the texture changes attached to one draw batch:
// uploads applied before any draw references them, and frees applied only
// after the batch's draws have been encoded. A primitive in the current
// batch may still reference a texture that a later batch frees.
type TextureDelta struct {
	Set  []TextureUpload
	Free []TextureID
}

// DrawBatch is the output of one UI pass. It is produced fresh each pass
// and consumed by exactly one Encode call.
type DrawBatch struct {
	Primitives []Primitive
	Delta      TextureDelta
}

// ClearColor is the fixed render-pass clear color.
var ClearColor = gputypes.Color{R: 0, G: 0, B: 0, A: 1}
