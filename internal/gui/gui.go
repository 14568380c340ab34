// Package gui is the immediate-mode UI of the waveform viewer: it folds
// the frame's events into UI state and emits one draw batch plus the
// repaint contract for the scheduler.
package gui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"

	"github.com/sigscope/sigscope/platform"
	"github.com/sigscope/sigscope/render"
	"github.com/sigscope/sigscope/trace"
)

// Layout constants, in logical points.
const (
	menuHeight   float32 = 24
	rowHeight    float32 = 20
	nameColWidth float32 = 220
)

// blinkPeriod is the half-period of the time cursor blink.
const blinkPeriod = 500 * time.Millisecond

// Application identity shown in the about panel.
const (
	appName    = "sigscope"
	appVersion = "0.1.0"
)

// UI holds all viewer state. It is single-threaded: Update runs on the
// event-loop thread, and only the loader's goroutine runs elsewhere,
// handing its result back through the loader's channel.
type UI struct {
	atlas  *atlas
	loader *loader
	wake   func()

	// copyText places a string on the system clipboard; replaced in
	// tests.
	copyText func(string) error

	db   *trace.DB
	path string

	selected  int
	scrollY   float32
	cursorT   uint64
	hasCursor bool
	status    string

	pointerX float32
	pointerY float32

	quit          bool
	showAbout     bool
	atlasUploaded bool
}

// New creates the UI. wake is called from the loader goroutine when a
// background load finishes, so a blocked event loop picks the result up.
func New(wake func()) *UI {
	return &UI{
		atlas:    newAtlas(),
		loader:   newLoader(),
		wake:     wake,
		copyText: clipboard.WriteAll,
		selected: -1,
	}
}

// QuitRequested reports whether the user asked to quit.
func (ui *UI) QuitRequested() bool { return ui.quit }

// Update runs one UI pass: consume a finished background load if any,
// fold the frame's events into state, and build the draw batch. The
// returned repaint is the UI's contract for when the next mandatory
// redraw is due.
func (ui *UI) Update(events []platform.Event, now time.Time, screen render.ScreenDescriptor) (*render.DrawBatch, render.Repaint) {
	if res, ok := ui.loader.poll(); ok {
		ui.applyLoad(res)
	}
	for _, ev := range events {
		ui.handleEvent(ev, screen)
	}

	batch := ui.draw(now, screen)
	return batch, ui.nextRepaint(now)
}

// applyLoad folds one background load result into the UI. A failed or
// cancelled load preserves the currently loaded trace.
func (ui *UI) applyLoad(res loadResult) {
	if res.err != nil {
		ui.status = fmt.Sprintf("load failed: %v", res.err)
		return
	}
	if res.db == nil {
		// Picker cancelled.
		return
	}
	ui.db = res.db
	ui.path = res.path
	ui.selected = -1
	ui.scrollY = 0
	ui.hasCursor = false
	ui.status = ""
}

func (ui *UI) handleEvent(ev platform.Event, screen render.ScreenDescriptor) {
	switch ev := ev.(type) {
	case platform.KeyEvent:
		if ev.Pressed {
			ui.handleKey(ev.Key)
		}
	case platform.CursorEvent:
		ui.pointerX, ui.pointerY = ev.X, ev.Y
	case platform.ButtonEvent:
		if ev.Button == platform.ButtonLeft && ev.Pressed {
			ui.handleClick(ev.X, ev.Y, screen)
		}
	case platform.ScrollEvent:
		ui.scroll(ev.DY, screen)
	}
}

func (ui *UI) handleKey(key platform.Key) {
	switch key {
	case platform.KeyQ:
		ui.quit = true
	case platform.KeyEscape:
		// Escape dismisses the about panel first; quit otherwise.
		if ui.showAbout {
			ui.showAbout = false
		} else {
			ui.quit = true
		}
	case platform.KeyA:
		ui.showAbout = !ui.showAbout
	case platform.KeyO:
		ui.loader.start(ui.wake)
	case platform.KeyW:
		ui.db = nil
		ui.path = ""
		ui.selected = -1
		ui.scrollY = 0
		ui.hasCursor = false
		ui.status = ""
	case platform.KeyC:
		ui.copySelectedName()
	case platform.KeyUp:
		ui.moveSelection(-1)
	case platform.KeyDown:
		ui.moveSelection(1)
	case platform.KeyHome:
		ui.setCursorToEdge(false)
	case platform.KeyEnd:
		ui.setCursorToEdge(true)
	case platform.KeyLeft:
		ui.stepCursor(false)
	case platform.KeyRight:
		ui.stepCursor(true)
	}
}

func (ui *UI) copySelectedName() {
	sig, ok := ui.selectedSignal()
	if !ok {
		return
	}
	if err := ui.copyText(sig.Name); err != nil {
		ui.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	ui.status = "copied " + sig.Name
}

func (ui *UI) selectedSignal() (trace.Signal, bool) {
	if ui.db == nil || ui.selected < 0 || ui.selected >= len(ui.db.Signals()) {
		return trace.Signal{}, false
	}
	return ui.db.Signals()[ui.selected], true
}

func (ui *UI) moveSelection(delta int) {
	if ui.db == nil {
		return
	}
	n := len(ui.db.Signals())
	if n == 0 {
		return
	}
	ui.selected += delta
	if ui.selected < 0 {
		ui.selected = 0
	}
	if ui.selected >= n {
		ui.selected = n - 1
	}
}

func (ui *UI) setCursorToEdge(end bool) {
	if ui.db == nil {
		return
	}
	t0, t1 := ui.db.TimeRange()
	if end {
		ui.cursorT = t1
	} else {
		ui.cursorT = t0
	}
	ui.hasCursor = true
}

// stepCursor moves the time cursor to the selected signal's previous or
// next transition.
func (ui *UI) stepCursor(forward bool) {
	sig, ok := ui.selectedSignal()
	if !ok || !ui.hasCursor {
		return
	}
	changes := ui.db.Changes(sig.ID)
	if forward {
		for _, c := range changes {
			if c.Time > ui.cursorT {
				ui.cursorT = c.Time
				return
			}
		}
		return
	}
	for i := len(changes) - 1; i >= 0; i-- {
		if changes[i].Time < ui.cursorT {
			ui.cursorT = changes[i].Time
			return
		}
	}
}

func (ui *UI) handleClick(x, y float32, screen render.ScreenDescriptor) {
	if ui.db == nil || y < menuHeight {
		return
	}
	row := int((y - menuHeight + ui.scrollY) / rowHeight)
	if x < nameColWidth {
		if row >= 0 && row < len(ui.db.Signals()) {
			ui.selected = row
		}
		return
	}
	if t, ok := ui.xToTime(x, screen); ok {
		ui.cursorT = t
		ui.hasCursor = true
	}
}

func (ui *UI) scroll(dy float32, screen render.ScreenDescriptor) {
	if ui.db == nil {
		return
	}
	ui.scrollY -= dy * rowHeight * 3
	maxScroll := float32(len(ui.db.Signals()))*rowHeight - (screen.PointsHeight() - menuHeight)
	if maxScroll < 0 {
		maxScroll = 0
	}
	if ui.scrollY > maxScroll {
		ui.scrollY = maxScroll
	}
	if ui.scrollY < 0 {
		ui.scrollY = 0
	}
}

// timeToX maps a trace timestamp onto the waveform area.
func (ui *UI) timeToX(t uint64, screen render.ScreenDescriptor) float32 {
	t0, t1 := ui.db.TimeRange()
	if t1 <= t0 {
		return nameColWidth
	}
	frac := float64(t-t0) / float64(t1-t0)
	return nameColWidth + float32(frac)*(screen.PointsWidth()-nameColWidth)
}

// xToTime maps a point in the waveform area back onto a timestamp.
func (ui *UI) xToTime(x float32, screen render.ScreenDescriptor) (uint64, bool) {
	t0, t1 := ui.db.TimeRange()
	span := screen.PointsWidth() - nameColWidth
	if t1 <= t0 || span <= 0 || x < nameColWidth {
		return 0, false
	}
	frac := float64(x-nameColWidth) / float64(span)
	if frac > 1 {
		frac = 1
	}
	return t0 + uint64(frac*float64(t1-t0)+0.5), true
}

// blinkOn reports the current phase of the cursor blink.
func blinkOn(now time.Time) bool {
	return (now.UnixMilli()/blinkPeriod.Milliseconds())%2 == 0
}

// nextRepaint is the UI's repaint contract: a loaded trace with a time
// cursor blinks, so the next phase flip is a mandatory redraw; otherwise
// the screen is static until the next external event.
func (ui *UI) nextRepaint(now time.Time) render.Repaint {
	if ui.db != nil && ui.hasCursor {
		untilFlip := blinkPeriod - time.Duration(now.UnixMilli()%blinkPeriod.Milliseconds())*time.Millisecond
		return render.RepaintAfter(untilFlip)
	}
	return render.RepaintNever
}
