package gui

import (
	"errors"
	"testing"
	"time"
)

// TestLoaderHandsOverOnce verifies the one-shot handoff: a finished load
// is delivered by exactly one poll.
func TestLoaderHandsOverOnce(t *testing.T) {
	l := newLoader()
	l.load = func() loadResult { return loadResult{path: "a.vcd"} }

	woke := make(chan struct{}, 1)
	l.start(func() { woke <- struct{}{} })

	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("load never finished")
	}

	res, ok := l.poll()
	if !ok || res.path != "a.vcd" {
		t.Fatalf("poll() = %+v, %v, want the finished result", res, ok)
	}
	if _, ok := l.poll(); ok {
		t.Error("second poll delivered the result again")
	}
	if l.busy() {
		t.Error("loader still busy after handoff")
	}
}

// TestLoaderPollNonBlocking verifies polling with a load in flight
// returns immediately with nothing.
func TestLoaderPollNonBlocking(t *testing.T) {
	l := newLoader()
	release := make(chan struct{})
	l.load = func() loadResult {
		<-release
		return loadResult{}
	}

	l.start(nil)
	if !l.busy() {
		t.Fatal("loader not busy with a load in flight")
	}
	if _, ok := l.poll(); ok {
		t.Error("poll delivered a result before the load finished")
	}
	close(release)
}

// TestLoaderStartWhileActive verifies at most one load runs at a time.
func TestLoaderStartWhileActive(t *testing.T) {
	l := newLoader()
	release := make(chan struct{})
	starts := make(chan struct{}, 2)
	l.load = func() loadResult {
		starts <- struct{}{}
		<-release
		return loadResult{err: errors.New("x")}
	}

	l.start(nil)
	l.start(nil)
	close(release)

	select {
	case <-starts:
	case <-time.After(time.Second):
		t.Fatal("load never started")
	}
	select {
	case <-starts:
		t.Error("second load started while the first was active")
	case <-time.After(50 * time.Millisecond):
	}
}
