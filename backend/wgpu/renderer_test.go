package wgpu

import (
	"testing"

	webgpu "github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/gputypes"
)

func TestConvertTextureFormat(t *testing.T) {
	tests := []struct {
		in   gputypes.TextureFormat
		want webgpu.TextureFormat
	}{
		{gputypes.TextureFormatRGBA8Unorm, webgpu.TextureFormatRGBA8Unorm},
		{gputypes.TextureFormatRGBA8UnormSrgb, webgpu.TextureFormatRGBA8UnormSrgb},
		{gputypes.TextureFormatBGRA8Unorm, webgpu.TextureFormatBGRA8Unorm},
		{gputypes.TextureFormatR8Unorm, webgpu.TextureFormatR8Unorm},
		// Unhandled upload formats fall back to plain RGBA8.
		{gputypes.TextureFormatUndefined, webgpu.TextureFormatRGBA8Unorm},
	}
	for _, tt := range tests {
		if got := convertTextureFormat(tt.in); got != tt.want {
			t.Errorf("convertTextureFormat(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBytesPerPixel(t *testing.T) {
	if got := bytesPerPixel(gputypes.TextureFormatR8Unorm); got != 1 {
		t.Errorf("bytesPerPixel(R8) = %d, want 1", got)
	}
	if got := bytesPerPixel(gputypes.TextureFormatRGBA8Unorm); got != 4 {
		t.Errorf("bytesPerPixel(RGBA8) = %d, want 4", got)
	}
}

func TestPreferredFormat(t *testing.T) {
	srgb := []webgpu.TextureFormat{webgpu.TextureFormatBGRA8Unorm, webgpu.TextureFormatBGRA8UnormSrgb}
	if got := preferredFormat(srgb); got != webgpu.TextureFormatBGRA8UnormSrgb {
		t.Errorf("preferredFormat = %v, want the sRGB format", got)
	}
	plain := []webgpu.TextureFormat{webgpu.TextureFormatBGRA8Unorm}
	if got := preferredFormat(plain); got != webgpu.TextureFormatBGRA8Unorm {
		t.Errorf("preferredFormat = %v, want the first supported format", got)
	}
	if got := preferredFormat(nil); got != webgpu.TextureFormatBGRA8Unorm {
		t.Errorf("preferredFormat(nil) = %v, want the default", got)
	}
}
