package ui

// MaxDigits is the longest number ReadNumber accepts.
const MaxDigits = 3

// DigitLimit returns the largest value n digits can hold.
func DigitLimit(n int) int {
	limit := 1
	for i := 0; i < n; i++ {
		limit *= 10
	}
	return limit - 1
}

// NumberEntry is the digit-by-digit editor behind ReadNumber. Digits are
// edited most significant first; the value never exceeds the maximum.
type NumberEntry struct {
	digits []int
	maxDig []int
	max    int
	pos    int
}

// NewNumberEntry starts editing defaultValue. ok is false when numDigits is
// outside 1..MaxDigits.
func NewNumberEntry(numDigits, defaultValue, maxValue int) (e *NumberEntry, ok bool) {
	if numDigits < 1 || numDigits > MaxDigits {
		return nil, false
	}
	maxValue = min(max(maxValue, 0), DigitLimit(numDigits))
	defaultValue = min(max(defaultValue, 0), maxValue)

	e = &NumberEntry{
		digits: splitDigits(defaultValue, numDigits),
		maxDig: splitDigits(maxValue, numDigits),
		max:    maxValue,
	}
	return e, true
}

func splitDigits(v, n int) []int {
	d := make([]int, n)
	for i := n - 1; i >= 0; i-- {
		d[i] = v % 10
		v /= 10
	}
	return d
}

// Increment bumps the current digit, wrapping 9 to 0.
func (e *NumberEntry) Increment() {
	if e.Done() {
		return
	}
	e.digits[e.pos] = (e.digits[e.pos] + 1) % 10
	e.clamp(true)
}

// Decrement lowers the current digit, wrapping 0 to 9.
func (e *NumberEntry) Decrement() {
	if e.Done() {
		return
	}
	e.digits[e.pos] = (e.digits[e.pos] + 9) % 10
	e.clamp(false)
}

// Commit accepts the current digit and moves to the next one. It reports
// whether every digit is now committed.
func (e *NumberEntry) Commit() bool {
	if e.Done() {
		return true
	}
	e.pos++
	if !e.Done() {
		e.clamp(false)
	}
	return e.Done()
}

// clamp keeps the committed digits plus the current one, padded with zeros,
// within the maximum. An increment that overflows drops back to zero; any
// other overflow settles on the maximum's digit.
func (e *NumberEntry) clamp(increment bool) {
	if e.prefix() <= e.max {
		return
	}
	if increment {
		e.digits[e.pos] = 0
		return
	}
	e.digits[e.pos] = e.maxDig[e.pos]
}

func (e *NumberEntry) prefix() int {
	v := 0
	for i, d := range e.digits {
		if i > e.pos {
			d = 0
		}
		v = v*10 + d
	}
	return v
}

// Value returns the number currently shown.
func (e *NumberEntry) Value() int {
	v := 0
	for _, d := range e.digits {
		v = v*10 + d
	}
	return v
}

// Pos returns the index of the digit being edited.
func (e *NumberEntry) Pos() int { return e.pos }

// Len returns the number of digits.
func (e *NumberEntry) Len() int { return len(e.digits) }

// Digit returns digit i, most significant first.
func (e *NumberEntry) Digit(i int) int { return e.digits[i] }

// Done reports whether every digit has been committed.
func (e *NumberEntry) Done() bool { return e.pos >= len(e.digits) }
