// Package menu computes which slice of a long answer list fits on screen.
package menu

const (
	// BiasBefore and BiasAfter are how many rows are kept around the
	// selection before the shortfall is filled.
	BiasBefore = 3
	BiasAfter  = 3
)

// Window is an inclusive range [Start, End] of answer indexes.
type Window struct {
	Start int
	End   int
	Total int
}

// Compute returns the visible window for selected out of total answers on a
// display with capacity rows. total must be positive; selected and capacity
// are clamped into range.
func Compute(selected, total, capacity int) Window {
	if total <= 0 {
		return Window{}
	}
	if capacity < 1 {
		capacity = 1
	}
	if selected < 0 {
		selected = 0
	}
	if selected >= total {
		selected = total - 1
	}

	before := min(BiasBefore, capacity-1)
	after := min(BiasAfter, capacity-1-before)

	start := max(0, selected-before)
	end := min(total-1, selected+after)

	short := min(capacity, total) - (end - start + 1)
	if short > 0 {
		grow := min(short, start)
		start -= grow
		short -= grow
	}
	if short > 0 {
		end = min(total-1, end+short)
	}

	return Window{Start: start, End: end, Total: total}
}

// Size returns the number of rows in the window.
func (w Window) Size() int {
	if w.Total == 0 {
		return 0
	}
	return w.End - w.Start + 1
}

// Contains reports whether answer i is visible.
func (w Window) Contains(i int) bool {
	return w.Total > 0 && i >= w.Start && i <= w.End
}

// MoreAbove reports answers hidden above the window.
func (w Window) MoreAbove() bool { return w.Start > 0 }

// MoreBelow reports answers hidden below the window.
func (w Window) MoreBelow() bool { return w.End < w.Total-1 }

// Hints returns the scroll indicators to draw. Without wrapping, moving past
// either end leaves the question, so the hints also show whenever the
// selection is not on the first or last visible row.
func (w Window) Hints(selected int, wrap bool) (up, down bool) {
	up, down = w.MoreAbove(), w.MoreBelow()
	if !wrap {
		up = up || selected != w.Start
		down = down || selected != w.End
	}
	return up, down
}
