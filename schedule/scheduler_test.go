package schedule

import (
	"testing"
	"time"

	"github.com/sigscope/sigscope/render"
)

// fakeClock is a manually-advanced clock recording every sleep.
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestControlFlowString(t *testing.T) {
	if got := FlowWait.String(); got != "wait" {
		t.Errorf("FlowWait.String() = %q", got)
	}
	if got := FlowPoll.String(); got != "poll" {
		t.Errorf("FlowPoll.String() = %q", got)
	}
	if got := ControlFlow(99).String(); got != "unknown" {
		t.Errorf("ControlFlow(99).String() = %q", got)
	}
}

// TestHandleRepaintNow verifies an immediate request switches to polling
// and forces a redraw.
func TestHandleRepaintNow(t *testing.T) {
	s := NewScheduler(Caps{}, newFakeClock())

	if !s.HandleRepaint(render.RepaintNow) {
		t.Fatal("HandleRepaint(now) should force a redraw")
	}
	flow, timeout := s.Directive()
	if flow != FlowPoll || timeout != 0 {
		t.Errorf("Directive() = %v, %v, want poll with no timeout", flow, timeout)
	}
}

// TestHandleRepaintNever verifies the idle state blocks indefinitely.
func TestHandleRepaintNever(t *testing.T) {
	s := NewScheduler(Caps{}, newFakeClock())

	if s.HandleRepaint(render.RepaintNever) {
		t.Fatal("HandleRepaint(never) should not force a redraw")
	}
	flow, timeout := s.Directive()
	if flow != FlowWait || timeout != 0 {
		t.Errorf("Directive() = %v, %v, want indefinite wait", flow, timeout)
	}
}

// TestHandleRepaintAfter verifies a deferred request bounds the blocking
// wait and comes due once its delay elapses.
func TestHandleRepaintAfter(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(Caps{}, clock)

	if s.HandleRepaint(render.RepaintAfter(500 * time.Millisecond)) {
		t.Fatal("deferred repaint should not force an immediate redraw")
	}
	flow, timeout := s.Directive()
	if flow != FlowWait || timeout != 500*time.Millisecond {
		t.Errorf("Directive() = %v, %v, want wait with 500ms bound", flow, timeout)
	}
	if s.Due() {
		t.Error("repaint due before its delay elapsed")
	}

	clock.advance(500 * time.Millisecond)
	if !s.Due() {
		t.Error("repaint not due after its delay elapsed")
	}
	if s.Due() {
		t.Error("a due repaint should be consumed")
	}
}

// TestHandleRepaintMerge verifies overlapping deferred requests keep the
// sooner deadline regardless of arrival order.
func TestHandleRepaintMerge(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(Caps{}, clock)

	s.HandleRepaint(render.RepaintAfter(time.Second))
	s.HandleRepaint(render.RepaintAfter(100 * time.Millisecond))
	if _, timeout := s.Directive(); timeout != 100*time.Millisecond {
		t.Errorf("timeout = %v, want sooner deadline to win", timeout)
	}

	// The later request must not push the pending deadline back.
	s.HandleRepaint(render.RepaintAfter(time.Minute))
	if _, timeout := s.Directive(); timeout != 100*time.Millisecond {
		t.Errorf("timeout = %v, later request overrode the sooner deadline", timeout)
	}
}

// TestDirectivePastDeadline verifies an overdue deadline degrades the
// wait into a poll so the redraw is not delayed by blocking.
func TestDirectivePastDeadline(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(Caps{}, clock)

	s.HandleRepaint(render.RepaintAfter(10 * time.Millisecond))
	clock.advance(20 * time.Millisecond)

	flow, timeout := s.Directive()
	if flow != FlowPoll || timeout != 0 {
		t.Errorf("Directive() = %v, %v, want poll for overdue repaint", flow, timeout)
	}
}

// TestEventsClearedCompensates verifies that a broken blocking wait is
// compensated by sleeping the rest of the frame budget.
func TestEventsClearedCompensates(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(Caps{BrokenBlockingWait: true}, clock)

	s.BeginFrame()
	clock.advance(4 * time.Millisecond)
	s.EventsCleared()

	if len(clock.slept) != 1 {
		t.Fatalf("slept = %v, want one pause", clock.slept)
	}
	if want := FrameBudget - 4*time.Millisecond; clock.slept[0] != want {
		t.Errorf("slept %v, want %v", clock.slept[0], want)
	}
}

// TestEventsClearedClampsToDeadline verifies the pause never runs past a
// pending repaint deadline.
func TestEventsClearedClampsToDeadline(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(Caps{BrokenBlockingWait: true}, clock)

	s.BeginFrame()
	s.HandleRepaint(render.RepaintAfter(5 * time.Millisecond))
	s.EventsCleared()

	if len(clock.slept) != 1 || clock.slept[0] != 5*time.Millisecond {
		t.Errorf("slept = %v, want exactly the repaint delay", clock.slept)
	}
}

// TestEventsClearedSkipsWhenBudgetSpent verifies no pause when the
// iteration already consumed the frame budget.
func TestEventsClearedSkipsWhenBudgetSpent(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(Caps{BrokenBlockingWait: true}, clock)

	s.BeginFrame()
	clock.advance(FrameBudget + time.Millisecond)
	s.EventsCleared()

	if len(clock.slept) != 0 {
		t.Errorf("slept = %v, want no pause", clock.slept)
	}
}

// TestEventsClearedSkipsWhenPolling verifies polling iterations are not
// throttled.
func TestEventsClearedSkipsWhenPolling(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(Caps{BrokenBlockingWait: true}, clock)

	s.BeginFrame()
	s.HandleRepaint(render.RepaintNow)
	s.EventsCleared()

	if len(clock.slept) != 0 {
		t.Errorf("slept = %v, want no pause while polling", clock.slept)
	}
}

// TestEventsClearedNoopOnHealthyPlatform verifies no compensation when
// the platform's blocking wait works.
func TestEventsClearedNoopOnHealthyPlatform(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(Caps{}, clock)

	s.BeginFrame()
	s.EventsCleared()

	if len(clock.slept) != 0 {
		t.Errorf("slept = %v, want none", clock.slept)
	}
}
