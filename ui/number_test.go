package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNumberEntryRoundTrip(t *testing.T) {
	t.Parallel()

	e, ok := NewNumberEntry(3, 128, 255)
	require.True(t, ok)
	for !e.Commit() {
	}
	assert.Equal(t, 128, e.Value())
}

func TestNumberEntryClamp(t *testing.T) {
	t.Parallel()

	e, ok := NewNumberEntry(3, 199, 255)
	require.True(t, ok)

	e.Increment() // 299 -> first digit 2 gives 200, within range
	assert.Equal(t, 2, e.Digit(0))
	e.Increment() // 3 overflows on increment: back to 0
	assert.Equal(t, 0, e.Digit(0))
	e.Decrement() // 0 -> 9 overflows on decrement: max digit
	assert.Equal(t, 2, e.Digit(0))

	e.Commit() // 29x exceeds 255, settles on 25x
	assert.Equal(t, 5, e.Digit(1))
	e.Commit()
	assert.Equal(t, 5, e.Digit(2))
	assert.True(t, e.Commit())
	assert.Equal(t, 255, e.Value())
}

func TestNumberEntryDefaults(t *testing.T) {
	t.Parallel()

	_, ok := NewNumberEntry(0, 1, 9)
	assert.False(t, ok)
	_, ok = NewNumberEntry(4, 1, 9)
	assert.False(t, ok)

	e, ok := NewNumberEntry(2, 80, 42)
	require.True(t, ok)
	assert.Equal(t, 42, e.Value(), "default above max is clamped")

	e, ok = NewNumberEntry(1, 3, 500)
	require.True(t, ok)
	for i := 0; i < 7; i++ {
		e.Increment()
	}
	assert.Equal(t, 0, e.Value(), "single digit wraps 9 to 0")
}

func TestNumberEntryNeverExceedsMax(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		digits := rapid.IntRange(1, MaxDigits).Draw(t, "digits")
		maxValue := rapid.IntRange(0, DigitLimit(digits)).Draw(t, "max")
		def := rapid.IntRange(0, 999).Draw(t, "default")
		ops := rapid.SliceOf(rapid.IntRange(0, 2)).Draw(t, "ops")

		e, ok := NewNumberEntry(digits, def, maxValue)
		if !ok {
			t.Fatal("valid digit count rejected")
		}
		for _, op := range ops {
			switch op {
			case 0:
				e.Increment()
			case 1:
				e.Decrement()
			case 2:
				e.Commit()
			}
			if e.prefix() > maxValue && !e.Done() {
				t.Fatalf("prefix %d above max %d", e.prefix(), maxValue)
			}
		}
		for !e.Commit() {
		}
		if e.Value() > maxValue {
			t.Fatalf("value %d above max %d", e.Value(), maxValue)
		}
	})
}

func TestDigitLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 9, DigitLimit(1))
	assert.Equal(t, 99, DigitLimit(2))
	assert.Equal(t, 999, DigitLimit(MaxDigits))
}
