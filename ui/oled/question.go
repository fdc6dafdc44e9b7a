package oled

import (
	"fmt"

	"cartreader/fonts/font6x8"
	"cartreader/ui"
	"cartreader/ui/gesture"
	"cartreader/ui/menu"
)

// question is the on-screen state of one multiple choice prompt.
type question struct {
	lines    []string
	answers  []string
	top      int
	capacity int
	wrap     bool
	win      menu.Window
	sel      int
}

func (b *Backend) AskMultipleChoiceQuestion(prompt string, answers []string, defaultIndex int, wrap bool) int {
	n := len(answers)
	if n == 0 {
		b.dev.Log.Warn().Str("prompt", prompt).Msg("oled: question without answers")
		return 0
	}

	q := &question{
		lines:   b.promptLines(prompt),
		answers: answers,
		wrap:    wrap,
		sel:     min(max(defaultIndex, 0), n-1),
	}
	q.top = len(q.lines)
	q.capacity = b.rows - q.top
	q.win = menu.Compute(q.sel, n, q.capacity)
	b.drawQuestion(q)

	for {
		prevRow := q.top + q.markerOffset()
		switch b.waitGesture() {
		case gesture.DoubleClick:
			if q.sel == 0 {
				if !wrap {
					return ui.GoBack
				}
				q.sel = n - 1
			} else {
				q.sel--
			}
		case gesture.Click:
			if q.sel == n-1 {
				if !wrap {
					return ui.NextPage
				}
				q.sel = 0
			} else {
				q.sel++
			}
		case gesture.Hold:
			b.dev.Log.Debug().Int("index", q.sel).Str("answer", answers[q.sel]).Msg("oled: answer")
			return q.sel
		default:
			continue
		}

		win := menu.Compute(q.sel, n, q.capacity)
		if win == q.win {
			b.moveMarker(q, prevRow)
			continue
		}
		q.win = win
		b.drawQuestion(q)
	}
}

func (q *question) markerOffset() int { return q.sel - q.win.Start }

// promptLines wraps prompt so at least one answer row stays free.
func (b *Backend) promptLines(prompt string) []string {
	if prompt == "" {
		return nil
	}
	lines := wrap(prompt, b.cols)
	if len(lines) > b.rows-1 {
		lines = lines[:b.rows-1]
	}
	return lines
}

func (b *Backend) drawQuestion(q *question) {
	b.Clear()
	for i, l := range q.lines {
		b.writeAt(0, i, l)
	}
	for i := q.win.Start; i <= q.win.End; i++ {
		b.writeAt(1, q.top+i-q.win.Start, fit(q.answers[i], b.cols-2))
	}
	b.putRune(0, q.top+q.markerOffset(), font6x8.Pointer)
	b.drawHints(q)
	b.Update()
	b.fullDraws++
}

// moveMarker redraws only the selection pointer and the hints.
func (b *Backend) moveMarker(q *question, prevRow int) {
	b.putRune(0, prevRow, ' ')
	b.putRune(0, q.top+q.markerOffset(), font6x8.Pointer)
	b.drawHints(q)
	b.Update()
	b.cheapDraws++
}

func (b *Backend) drawHints(q *question) {
	up, down := q.win.Hints(q.sel, q.wrap)
	col := b.cols - 1
	first := q.top
	last := q.top + q.win.Size() - 1

	if first == last {
		r := ' '
		switch {
		case up:
			r = font6x8.ArrowUp
		case down:
			r = font6x8.ArrowDown
		}
		b.putRune(col, first, r)
		return
	}
	b.putRune(col, first, hint(up, font6x8.ArrowUp))
	b.putRune(col, last, hint(down, font6x8.ArrowDown))
}

func hint(on bool, r rune) rune {
	if on {
		return r
	}
	return ' '
}

func (b *Backend) AskQuestionWithPagedAnswers(prompt string, src ui.AnswerSource) string {
	return ui.AskPaged(b, prompt, src, b.cfg.PageSize)
}

// ReadNumber edits one digit at a time: click counts up, double click
// counts down and hold moves on to the next digit.
func (b *Backend) ReadNumber(numDigits, defaultValue, maxValue int, prompt string) int {
	e, ok := ui.NewNumberEntry(numDigits, defaultValue, maxValue)
	if !ok {
		b.dev.Log.Warn().Int("digits", numDigits).Msg("oled: invalid digit count")
		return 0
	}

	lines := b.promptLines(prompt)
	if len(lines) > b.rows-2 {
		lines = lines[:max(b.rows-2, 0)]
	}
	b.Clear()
	for i, l := range lines {
		b.writeAt(0, i, l)
	}
	digitRow := len(lines)
	b.drawDigits(e, digitRow)
	b.Update()

	for !e.Done() {
		switch b.waitGesture() {
		case gesture.Click:
			e.Increment()
		case gesture.DoubleClick:
			e.Decrement()
		case gesture.Hold:
			e.Commit()
		default:
			continue
		}
		b.drawDigits(e, digitRow)
		b.Update()
	}

	b.dev.Log.Debug().Int("value", e.Value()).Msg("oled: number")
	return e.Value()
}

// drawDigits shows the digits spaced apart on row with a caret under the
// one being edited.
func (b *Backend) drawDigits(e *ui.NumberEntry, row int) {
	for i := 0; i < e.Len(); i++ {
		col := 2 * i
		b.putRune(col, row, rune('0'+e.Digit(i)))
		caret := ' '
		if i == e.Pos() {
			caret = '^'
		}
		b.putRune(col, row+1, caret)
	}
	b.writeAt(2*e.Len(), row, fmt.Sprintf("  = %-3d", e.Value()))
}
