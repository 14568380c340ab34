package gui

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/gputypes"
	"github.com/sigscope/sigscope/render"
)

// atlasTexture is the texture id of the glyph atlas. Allocated once at
// startup and never freed.
const atlasTexture render.TextureID = 1

const (
	atlasFirstRune = ' '
	atlasLastRune  = '~'

	// Face7x13 metrics in pixels, drawn 1:1 in logical points.
	glyphWidth  = 7
	glyphHeight = 13
	glyphAscent = 11
)

// atlas is a single-row strip of the printable ASCII glyphs rendered
// from the fixed 7x13 bitmap face.
type atlas struct {
	pixels []byte
	width  uint32
	height uint32
}

// newAtlas rasterizes the glyph strip.
func newAtlas() *atlas {
	count := int(atlasLastRune-atlasFirstRune) + 1
	img := image.NewRGBA(image.Rect(0, 0, count*glyphWidth, glyphHeight))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: basicfont.Face7x13,
	}
	for i := 0; i < count; i++ {
		d.Dot = fixed.P(i*glyphWidth, glyphAscent)
		d.DrawString(string(rune(atlasFirstRune + i)))
	}

	return &atlas{
		pixels: img.Pix,
		width:  uint32(img.Bounds().Dx()),
		height: uint32(img.Bounds().Dy()),
	}
}

// upload returns the one-time texture upload for the atlas.
func (a *atlas) upload() render.TextureUpload {
	return render.TextureUpload{
		ID:     atlasTexture,
		Width:  a.width,
		Height: a.height,
		Format: gputypes.TextureFormatRGBA8Unorm,
		Pixels: a.pixels,
	}
}

// uv returns the texture coordinates of one glyph. ok is false for runes
// outside the strip; callers advance past them blank.
func (a *atlas) uv(ch rune) (u0, v0, u1, v1 float32, ok bool) {
	if ch < atlasFirstRune || ch > atlasLastRune {
		return 0, 0, 0, 0, false
	}
	i := int(ch - atlasFirstRune)
	w := float32(a.width)
	u0 = float32(i*glyphWidth) / w
	u1 = float32((i+1)*glyphWidth) / w
	return u0, 0, u1, 1, true
}
