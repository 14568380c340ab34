package gui

import (
	"errors"

	"github.com/sqweek/dialog"

	"github.com/sigscope/sigscope/trace"
)

// loadResult is the outcome of one background load. A nil db with a nil
// err means the user cancelled the picker.
type loadResult struct {
	db   *trace.DB
	path string
	err  error
}

// loader runs at most one file-pick-and-parse in the background. The
// result is handed over through a one-slot channel and consumed exactly
// once; polling never blocks the event loop.
type loader struct {
	results chan loadResult
	active  bool

	// load is the blocking pick-and-parse; replaced in tests.
	load func() loadResult
}

func newLoader() *loader {
	return &loader{
		results: make(chan loadResult, 1),
		load:    pickAndParse,
	}
}

// pickAndParse shows the native file picker and parses the chosen dump.
func pickAndParse() loadResult {
	path, err := dialog.File().Filter("VCD waveforms", "vcd").Load()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return loadResult{}
		}
		return loadResult{err: err}
	}
	db, err := trace.ParseFile(path)
	if err != nil {
		return loadResult{err: err}
	}
	return loadResult{db: db, path: path}
}

// start launches the background load unless one is already running.
// wake is called after the result is posted so a blocked event loop
// picks it up.
func (l *loader) start(wake func()) {
	if l.active {
		return
	}
	l.active = true
	go func() {
		l.results <- l.load()
		if wake != nil {
			wake()
		}
	}()
}

// busy reports whether a load is in flight.
func (l *loader) busy() bool { return l.active }

// poll hands over a finished result, if any, without blocking. Each
// result is delivered exactly once.
func (l *loader) poll() (loadResult, bool) {
	select {
	case res := <-l.results:
		l.active = false
		return res, true
	default:
		return loadResult{}, false
	}
}
