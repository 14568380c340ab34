package gui

import "github.com/sigscope/sigscope/render"

// rgba is a straight-alpha color with float channels, matching the
// vertex format.
type rgba struct {
	r, g, b, a float32
}

var (
	colBackground = rgba{0.08, 0.08, 0.10, 1}
	colMenuBar    = rgba{0.16, 0.16, 0.20, 1}
	colRowEven    = rgba{0.10, 0.10, 0.13, 1}
	colRowOdd     = rgba{0.12, 0.12, 0.15, 1}
	colSelected   = rgba{0.20, 0.28, 0.40, 1}
	colText       = rgba{0.85, 0.85, 0.85, 1}
	colTextDim    = rgba{0.55, 0.55, 0.55, 1}
	colWaveHigh   = rgba{0.30, 0.85, 0.35, 1}
	colWaveLow    = rgba{0.30, 0.85, 0.35, 1}
	colWaveZ      = rgba{0.95, 0.75, 0.20, 1}
	colWaveX      = rgba{0.90, 0.25, 0.25, 1}
	colWaveVec    = rgba{0.35, 0.70, 0.90, 1}
	colCursor     = rgba{0.95, 0.95, 0.95, 0.9}
)

// painter accumulates primitives for one draw batch. Coordinates are in
// logical points; the clip rectangle is in physical pixels.
type painter struct {
	batch render.DrawBatch
	clip  render.ClipRect
}

func newPainter(screen render.ScreenDescriptor) *painter {
	return &painter{
		clip: render.ClipRect{Width: screen.WidthPx, Height: screen.HeightPx},
	}
}

// setClip sets the scissor for subsequent primitives, in logical points.
func (p *painter) setClip(x, y, w, h float32, scale float32) {
	if scale <= 0 {
		scale = 1
	}
	p.clip = render.ClipRect{
		X:      uint32(max(x*scale, 0)),
		Y:      uint32(max(y*scale, 0)),
		Width:  uint32(max(w*scale, 0)),
		Height: uint32(max(h*scale, 0)),
	}
}

// quad appends one textured quad as an independent primitive.
func (p *painter) quad(x, y, w, h float32, u0, v0, u1, v1 float32, c rgba, tex render.TextureID) {
	p.batch.Primitives = append(p.batch.Primitives, render.Primitive{
		Clip:    p.clip,
		Texture: tex,
		Mesh: render.Mesh{
			Vertices: []render.Vertex{
				{X: x, Y: y, U: u0, V: v0, R: c.r, G: c.g, B: c.b, A: c.a},
				{X: x + w, Y: y, U: u1, V: v0, R: c.r, G: c.g, B: c.b, A: c.a},
				{X: x + w, Y: y + h, U: u1, V: v1, R: c.r, G: c.g, B: c.b, A: c.a},
				{X: x, Y: y + h, U: u0, V: v1, R: c.r, G: c.g, B: c.b, A: c.a},
			},
			Indices: []uint32{0, 1, 2, 2, 3, 0},
		},
	})
}

// rect fills an axis-aligned rectangle with a solid color.
func (p *painter) rect(x, y, w, h float32, c rgba) {
	p.quad(x, y, w, h, 0, 0, 1, 1, c, render.TextureWhite)
}

// hline draws a horizontal line of the given thickness, centered on y.
func (p *painter) hline(x0, x1, y, thickness float32, c rgba) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	p.rect(x0, y-thickness/2, x1-x0, thickness, c)
}

// vline draws a vertical line of the given thickness, centered on x.
func (p *painter) vline(x, y0, y1, thickness float32, c rgba) {
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	p.rect(x-thickness/2, y0, thickness, y1-y0, c)
}

// text draws a string with the glyph atlas, top-left anchored at (x, y).
// It returns the advance in points.
func (p *painter) text(a *atlas, s string, x, y float32, c rgba) float32 {
	var dx float32
	for _, ch := range s {
		u0, v0, u1, v1, ok := a.uv(ch)
		if !ok {
			dx += glyphWidth
			continue
		}
		p.quad(x+dx, y, glyphWidth, glyphHeight, u0, v0, u1, v1, c, atlasTexture)
		dx += glyphWidth
	}
	return dx
}

// textWidth returns the advance of s in points without drawing it.
func textWidth(s string) float32 {
	return float32(len([]rune(s))) * glyphWidth
}
