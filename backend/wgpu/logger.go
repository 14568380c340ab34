package wgpu

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// The backend stays silent unless the host application opts in through
// SetLogger. Adapter selection and per-frame failures are then reported
// through the host's logger; tests and headless use keep the muted
// default.

// discardHandler drops every record before it is formatted.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

var muted = slog.New(discardHandler{})

// active may be swapped while the render loop is logging, so it is read
// and written atomically.
var active atomic.Pointer[slog.Logger]

func init() { active.Store(muted) }

// slogger returns the logger all backend diagnostics go through.
func slogger() *slog.Logger { return active.Load() }

// SetLogger routes the backend's diagnostics to l. A nil l mutes the
// backend again.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = muted
	}
	active.Store(l)
}
