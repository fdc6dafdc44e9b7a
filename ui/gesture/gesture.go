// Package gesture turns raw push-button levels into clicks, double clicks
// and holds.
package gesture

import "time"

// Event is a recognized gesture. At most one is produced per poll.
type Event uint8

const (
	None Event = iota
	Click
	DoubleClick
	Hold
	LongHold
)

func (e Event) String() string {
	switch e {
	case None:
		return "none"
	case Click:
		return "click"
	case DoubleClick:
		return "double-click"
	case Hold:
		return "hold"
	case LongHold:
		return "long-hold"
	default:
		return "unknown"
	}
}

// Timing holds the recognizer thresholds.
type Timing struct {
	Debounce       time.Duration
	DoubleClickGap time.Duration
	Hold           time.Duration
	LongHold       time.Duration
}

// DefaultTiming returns the stock thresholds: 20ms debounce, 250ms
// double-click gap, 2s hold and 5s long hold.
func DefaultTiming() Timing {
	return Timing{
		Debounce:       20 * time.Millisecond,
		DoubleClickGap: 250 * time.Millisecond,
		Hold:           2000 * time.Millisecond,
		LongHold:       5000 * time.Millisecond,
	}
}

// Recognizer is the per-button state machine. It is not safe for
// concurrent use; each button owns one.
type Recognizer struct {
	timing    Timing
	activeLow bool

	pressed bool // last accepted state
	edgeAt  time.Time
	downAt  time.Time
	upAt    time.Time

	dcWaiting     bool // release seen, waiting to tell click from double click
	dcOnUp        bool // current press is the second half of a double click
	singleOK      bool
	ignoreUp      bool // release already consumed by a hold
	holdFired     bool
	longHoldFired bool
}

// NewRecognizer returns a recognizer for a line that reads low when pressed
// if activeLow is set.
func NewRecognizer(timing Timing, activeLow bool) *Recognizer {
	return &Recognizer{
		timing:    timing,
		activeLow: activeLow,
		singleOK:  true,
	}
}

// Update feeds one sample of the raw line level taken at now.
func (r *Recognizer) Update(level bool, now time.Time) Event {
	pressed := level != r.activeLow
	ev := None

	switch {
	case pressed && !r.pressed && now.Sub(r.edgeAt) >= r.timing.Debounce:
		r.pressed = true
		r.edgeAt = now
		r.downAt = now
		r.ignoreUp = false
		r.singleOK = true
		r.holdFired = false
		r.longHoldFired = false
		r.dcOnUp = now.Sub(r.upAt) < r.timing.DoubleClickGap && !r.dcOnUp && r.dcWaiting
		r.dcWaiting = false

	case !pressed && r.pressed && now.Sub(r.edgeAt) >= r.timing.Debounce:
		r.pressed = false
		r.edgeAt = now
		if !r.ignoreUp {
			r.upAt = now
			if !r.dcOnUp {
				r.dcWaiting = true
			} else {
				ev = DoubleClick
				r.dcOnUp = false
				r.dcWaiting = false
				r.singleOK = false
			}
		}
	}

	if !r.pressed && now.Sub(r.upAt) >= r.timing.DoubleClickGap &&
		r.dcWaiting && !r.dcOnUp && r.singleOK && ev != DoubleClick {
		ev = Click
		r.dcWaiting = false
	}

	// LongHold always lands on a later poll than Hold.
	if r.pressed && now.Sub(r.downAt) >= r.timing.Hold {
		switch {
		case !r.holdFired:
			ev = Hold
			r.ignoreUp = true
			r.dcOnUp = false
			r.dcWaiting = false
			r.holdFired = true
		case now.Sub(r.downAt) >= r.timing.LongHold && !r.longHoldFired:
			ev = LongHold
			r.longHoldFired = true
		}
	}

	return ev
}

// Pressed reports the debounced button state.
func (r *Recognizer) Pressed() bool { return r.pressed }
