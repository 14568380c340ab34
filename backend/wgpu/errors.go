package wgpu

import (
	"fmt"
	"strings"

	"github.com/sigscope/sigscope/render"
)

// classifySurfaceError maps a frame-acquisition failure onto the render
// error taxonomy. wgpu-native reports the recoverable conditions (stale
// swapchain after a resize, surface lost on minimize/restore) only as
// message text, so classification is by message.
func classifySurfaceError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "outdated") || strings.Contains(msg, "lost") {
		return fmt.Errorf("%w: %w", render.ErrSurfaceOutdated, err)
	}
	return err
}
