package gui

import (
	"fmt"
	"time"

	"github.com/sigscope/sigscope/render"
	"github.com/sigscope/sigscope/trace"
)

// draw builds the frame's draw batch from current state.
func (ui *UI) draw(now time.Time, screen render.ScreenDescriptor) *render.DrawBatch {
	p := newPainter(screen)
	if !ui.atlasUploaded {
		p.batch.Delta.Set = append(p.batch.Delta.Set, ui.atlas.upload())
		ui.atlasUploaded = true
	}

	width := screen.PointsWidth()
	height := screen.PointsHeight()
	scale := screen.PixelsPerPoint

	p.rect(0, 0, width, height, colBackground)

	if ui.db == nil {
		msg := "press O to open a VCD waveform"
		p.text(ui.atlas, msg, (width-textWidth(msg))/2, height/2, colTextDim)
	} else {
		ui.drawRows(p, screen, scale)
		ui.drawCursor(p, now, screen)
	}

	ui.drawMenuBar(p, width, scale)
	if ui.showAbout {
		ui.drawAbout(p, width, height, scale)
	}
	return &p.batch
}

// drawAbout renders the centered about panel over everything else.
func (ui *UI) drawAbout(p *painter, width, height, scale float32) {
	const panelW, panelH float32 = 360, 110

	x := (width - panelW) / 2
	y := (height - panelH) / 2
	p.setClip(0, 0, width, height, scale)
	p.rect(x-1, y-1, panelW+2, panelH+2, colTextDim)
	p.rect(x, y, panelW, panelH, colMenuBar)

	lines := []string{
		appName + " version " + appVersion,
		"a GPU-accelerated VCD waveform viewer",
		"",
		"press A or escape to close",
	}
	ty := y + 14
	for _, line := range lines {
		p.text(ui.atlas, line, x+(panelW-textWidth(line))/2, ty, colText)
		ty += glyphHeight + 6
	}
}

func (ui *UI) drawMenuBar(p *painter, width float32, scale float32) {
	p.setClip(0, 0, width, menuHeight, scale)
	p.rect(0, 0, width, menuHeight, colMenuBar)

	textY := (menuHeight - glyphHeight) / 2
	x := p.text(ui.atlas, "O open  W close  C copy  A about  Q quit", 8, textY, colText)

	center := ui.path
	if ui.loader.busy() {
		center = "loading..."
	}
	if ui.status != "" {
		center = ui.status
	}
	if center != "" {
		p.text(ui.atlas, center, 8+x+24, textY, colTextDim)
	}

	if readout := ui.cursorReadout(); readout != "" {
		p.text(ui.atlas, readout, width-textWidth(readout)-8, textY, colText)
	}
}

// cursorReadout is the right-hand menu text: cursor time, plus the
// selected signal's value under the cursor.
func (ui *UI) cursorReadout() string {
	if ui.db == nil || !ui.hasCursor {
		return ""
	}
	readout := fmt.Sprintf("t=%d%s", ui.cursorT, ui.db.Timescale())
	if sig, ok := ui.selectedSignal(); ok {
		if v, valid := ui.db.ValueAt(sig.ID, ui.cursorT); valid {
			readout += " " + string(v)
		} else {
			readout += " -"
		}
	}
	return readout
}

func (ui *UI) drawRows(p *painter, screen render.ScreenDescriptor, scale float32) {
	width := screen.PointsWidth()
	height := screen.PointsHeight()

	for i, sig := range ui.db.Signals() {
		top := menuHeight + float32(i)*rowHeight - ui.scrollY
		if top+rowHeight < menuHeight || top > height {
			continue
		}

		bg := colRowEven
		if i%2 == 1 {
			bg = colRowOdd
		}
		if i == ui.selected {
			bg = colSelected
		}
		p.setClip(0, menuHeight, width, height-menuHeight, scale)
		p.rect(0, top, width, rowHeight, bg)

		p.setClip(0, menuHeight, nameColWidth, height-menuHeight, scale)
		p.text(ui.atlas, sig.Name, 6, top+(rowHeight-glyphHeight)/2, colText)

		p.setClip(nameColWidth, menuHeight, width-nameColWidth, height-menuHeight, scale)
		ui.drawWave(p, sig, top, screen)
	}
}

// drawWave renders one signal row: level lines for scalars, rails with
// value labels for vectors, transitions as vertical strokes.
func (ui *UI) drawWave(p *painter, sig trace.Signal, top float32, screen render.ScreenDescriptor) {
	changes := ui.db.Changes(sig.ID)
	if len(changes) == 0 {
		return
	}
	_, t1 := ui.db.TimeRange()

	highY := top + 4
	lowY := top + rowHeight - 4
	midY := top + rowHeight/2

	for k, c := range changes {
		sx := ui.timeToX(c.Time, screen)
		endT := t1
		if k+1 < len(changes) {
			endT = changes[k+1].Time
		}
		ex := ui.timeToX(endT, screen)

		if sig.Width == 1 {
			switch c.Value.Kind() {
			case trace.ValueHigh:
				p.hline(sx, ex, highY, 1.5, colWaveHigh)
			case trace.ValueLow:
				p.hline(sx, ex, lowY, 1.5, colWaveLow)
			case trace.ValueHighZ:
				p.hline(sx, ex, midY, 1.5, colWaveZ)
			default:
				p.rect(sx, highY, ex-sx, lowY-highY, colWaveX)
			}
			if k > 0 {
				p.vline(sx, highY, lowY, 1.5, colWaveHigh)
			}
		} else {
			p.hline(sx, ex, highY, 1.5, colWaveVec)
			p.hline(sx, ex, lowY, 1.5, colWaveVec)
			if k > 0 {
				p.vline(sx, highY, lowY, 1.5, colWaveVec)
			}
			label := string(c.Value)
			if ex-sx > textWidth(label)+8 {
				p.text(ui.atlas, label, sx+4, top+(rowHeight-glyphHeight)/2, colText)
			}
		}
	}
}

// drawCursor renders the blinking time cursor over the waveform area.
func (ui *UI) drawCursor(p *painter, now time.Time, screen render.ScreenDescriptor) {
	if !ui.hasCursor || !blinkOn(now) {
		return
	}
	width := screen.PointsWidth()
	height := screen.PointsHeight()
	p.setClip(nameColWidth, menuHeight, width-nameColWidth, height-menuHeight, screen.PixelsPerPoint)
	x := ui.timeToX(ui.cursorT, screen)
	p.vline(x, menuHeight, height, 1, colCursor)
}
