// Package schedule paces the event loop: it turns the UI pass's repaint
// requests into an event-pump directive (block or poll) and compensates
// for platforms whose blocking wait does not actually block.
package schedule

import (
	"time"

	"github.com/sigscope/sigscope/render"
)

// ControlFlow is the event-pump directive for the next loop iteration.
type ControlFlow int32

const (
	// FlowWait blocks on the next external event.
	FlowWait ControlFlow = iota

	// FlowPoll returns immediately so the loop can redraw continuously.
	FlowPoll
)

// String implements fmt.Stringer.
func (f ControlFlow) String() string {
	switch f {
	case FlowWait:
		return "wait"
	case FlowPoll:
		return "poll"
	default:
		return "unknown"
	}
}

// FrameBudget is the target duration of one loop iteration when the loop
// cannot rely on the platform to block for it.
const FrameBudget = time.Second / 60

// Clock abstracts monotonic time so that pacing is testable.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Caps describes the platform quirks the scheduler must compensate for.
type Caps struct {
	// BrokenBlockingWait is set on platforms where the blocking event
	// wait can return immediately without an event, turning FlowWait
	// into a busy loop.
	BrokenBlockingWait bool
}

// Scheduler decides, after each UI pass, whether the loop should block or
// poll, and when a deferred repaint becomes due. It is single-threaded,
// like everything else in the event loop.
type Scheduler struct {
	clock Clock
	caps  Caps

	flow        ControlFlow
	deadline    time.Time
	hasDeadline bool
	frameStart  time.Time
}

// NewScheduler returns a scheduler in the blocking state. A nil clock
// uses the system clock.
func NewScheduler(caps Caps, clock Clock) *Scheduler {
	if clock == nil {
		clock = systemClock{}
	}
	return &Scheduler{clock: clock, caps: caps, flow: FlowWait}
}

// BeginFrame marks the start of one loop iteration for pacing.
func (s *Scheduler) BeginFrame() {
	s.frameStart = s.clock.Now()
}

// HandleRepaint folds one repaint request into the scheduler state and
// reports whether the loop must redraw immediately. Overlapping requests
// merge: a sooner deadline always survives a later one.
func (s *Scheduler) HandleRepaint(r render.Repaint) (redraw bool) {
	switch {
	case r.Immediate():
		s.flow = FlowPoll
		s.hasDeadline = false
		return true
	case r.Never():
		s.flow = FlowWait
		return false
	default:
		s.flow = FlowWait
		due := s.clock.Now().Add(r.Duration())
		if !s.hasDeadline || due.Before(s.deadline) {
			s.deadline = due
		}
		s.hasDeadline = true
		return false
	}
}

// Directive returns the pump directive for the next iteration. A zero
// timeout with FlowWait means block indefinitely; a positive timeout
// bounds the block so a pending deferred repaint is not missed.
func (s *Scheduler) Directive() (ControlFlow, time.Duration) {
	if s.flow == FlowPoll {
		return FlowPoll, 0
	}
	if s.hasDeadline {
		remaining := s.deadline.Sub(s.clock.Now())
		if remaining <= 0 {
			return FlowPoll, 0
		}
		return FlowWait, remaining
	}
	return FlowWait, 0
}

// Due reports whether a pending deferred repaint has come due. A due
// deadline is consumed; the caller is expected to redraw.
func (s *Scheduler) Due() bool {
	if !s.hasDeadline {
		return false
	}
	if s.clock.Now().Before(s.deadline) {
		return false
	}
	s.hasDeadline = false
	return true
}

// EventsCleared runs at the end of an iteration, after the event queue
// has been drained. On platforms where the blocking wait is broken, it
// sleeps away the rest of the frame budget so the loop does not spin,
// but never past a pending repaint deadline.
func (s *Scheduler) EventsCleared() {
	if !s.caps.BrokenBlockingWait || s.flow != FlowWait {
		return
	}
	now := s.clock.Now()
	pause := FrameBudget - now.Sub(s.frameStart)
	if s.hasDeadline {
		if remaining := s.deadline.Sub(now); remaining < pause {
			pause = remaining
		}
	}
	if pause > 0 {
		s.clock.Sleep(pause)
	}
}
