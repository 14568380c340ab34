package render

import (
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
)

// recordingEncoder records every Encoder call in order.
type recordingEncoder struct {
	calls []string
}

func (r *recordingEncoder) UploadTexture(up TextureUpload) {
	r.calls = append(r.calls, fmt.Sprintf("upload %d", up.ID))
}

func (r *recordingEncoder) UpdateBuffers(prims []Primitive, _ ScreenDescriptor) {
	r.calls = append(r.calls, fmt.Sprintf("buffers %d", len(prims)))
}

func (r *recordingEncoder) BeginPass(Frame) {
	r.calls = append(r.calls, "begin")
}

func (r *recordingEncoder) Draw(prim Primitive, _ ScreenDescriptor) {
	r.calls = append(r.calls, fmt.Sprintf("draw %d", prim.Texture))
}

func (r *recordingEncoder) EndPass() {
	r.calls = append(r.calls, "end")
}

func (r *recordingEncoder) FreeTexture(id TextureID) {
	r.calls = append(r.calls, fmt.Sprintf("free %d", id))
}

func (r *recordingEncoder) Finish(Frame) {
	r.calls = append(r.calls, "finish")
}

func quad(tex TextureID) Primitive {
	return Primitive{
		Clip:    ClipRect{Width: 100, Height: 100},
		Texture: tex,
		Mesh: Mesh{
			Vertices: make([]Vertex, 4),
			Indices:  []uint32{0, 1, 2, 2, 3, 0},
		},
	}
}

// TestEncodeOrdering verifies the full ordering contract: uploads before
// buffers, draws inside one pass in list order, frees strictly after the
// pass, submit-and-present last.
func TestEncodeOrdering(t *testing.T) {
	enc := &recordingEncoder{}
	batch := &DrawBatch{
		Primitives: []Primitive{quad(1), quad(2), quad(1)},
		Delta: TextureDelta{
			Set: []TextureUpload{
				{ID: 1, Width: 2, Height: 2, Format: gputypes.TextureFormatRGBA8Unorm, Pixels: make([]byte, 16)},
				{ID: 2, Width: 2, Height: 2, Format: gputypes.TextureFormatRGBA8Unorm, Pixels: make([]byte, 16)},
			},
			Free: []TextureID{7},
		},
	}

	Encode(enc, &stubFrame{width: 640, height: 480}, batch, ScreenDescriptor{WidthPx: 640, HeightPx: 480, PixelsPerPoint: 1})

	want := []string{
		"upload 1", "upload 2",
		"buffers 3",
		"begin",
		"draw 1", "draw 2", "draw 1",
		"end",
		"free 7",
		"finish",
	}
	if len(enc.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", enc.calls, want)
	}
	for i := range want {
		if enc.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, enc.calls[i], want[i])
		}
	}
}

// TestEncodeFreeNeverPrecedesDraw verifies the key resource invariant:
// no free is applied before every draw of the batch has been encoded.
func TestEncodeFreeNeverPrecedesDraw(t *testing.T) {
	enc := &recordingEncoder{}
	batch := &DrawBatch{
		Primitives: []Primitive{quad(3), quad(3)},
		Delta:      TextureDelta{Free: []TextureID{3}},
	}

	Encode(enc, &stubFrame{width: 64, height: 64}, batch, ScreenDescriptor{WidthPx: 64, HeightPx: 64, PixelsPerPoint: 1})

	lastDraw, firstFree := -1, -1
	for i, call := range enc.calls {
		switch {
		case call == "draw 3":
			lastDraw = i
		case call == "free 3" && firstFree < 0:
			firstFree = i
		}
	}
	if lastDraw < 0 || firstFree < 0 {
		t.Fatalf("missing draw or free in %v", enc.calls)
	}
	if firstFree < lastDraw {
		t.Errorf("texture freed at call %d before final draw at %d: %v", firstFree, lastDraw, enc.calls)
	}
}

// TestEncodeEmptyBatch verifies an empty batch still clears and presents.
func TestEncodeEmptyBatch(t *testing.T) {
	enc := &recordingEncoder{}

	Encode(enc, &stubFrame{width: 64, height: 64}, &DrawBatch{}, ScreenDescriptor{WidthPx: 64, HeightPx: 64, PixelsPerPoint: 1})

	want := []string{"buffers 0", "begin", "end", "finish"}
	if len(enc.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", enc.calls, want)
	}
}
