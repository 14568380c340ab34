package render

import (
	"fmt"
	"math"
	"time"
)

// Repaint is the UI pass's declared minimum delay before the next
// mandatory redraw. It is the contract between the UI pass and the frame
// scheduler: RepaintNow asks for an immediate redraw, a positive value
// promises that no redraw is needed until that much time has elapsed, and
// RepaintNever defers to the next external event.
type Repaint time.Duration

const (
	// RepaintNow requests a redraw as soon as possible.
	RepaintNow Repaint = 0

	// RepaintNever requests no redraw until the next external event.
	RepaintNever Repaint = Repaint(math.MaxInt64)
)

// RepaintAfter requests a redraw once d has elapsed.
// Non-positive durations collapse to RepaintNow.
func RepaintAfter(d time.Duration) Repaint {
	if d <= 0 {
		return RepaintNow
	}
	return Repaint(d)
}

// Immediate reports whether the request asks for a redraw now.
func (r Repaint) Immediate() bool { return r <= 0 }

// Never reports whether the request defers to the next external event.
func (r Repaint) Never() bool { return r == RepaintNever }

// Duration returns the requested delay. Only meaningful for finite,
// non-immediate requests.
func (r Repaint) Duration() time.Duration { return time.Duration(r) }

// String implements fmt.Stringer.
func (r Repaint) String() string {
	switch {
	case r.Immediate():
		return "now"
	case r.Never():
		return "never"
	default:
		return fmt.Sprintf("after %s", time.Duration(r))
	}
}

// MergeRepaint combines two repaint requests, keeping the more urgent
// one. Overlapping requests must never silently override each other; the
// sooner deadline always wins.
func MergeRepaint(a, b Repaint) Repaint {
	if a < b {
		return a
	}
	return b
}
