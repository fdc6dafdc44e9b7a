// Package ui defines the interface the firmware talks to the user through,
// plus the helpers every backend shares.
//
// Exactly one UserInterface exists per process. It is built once at startup
// (graphical, serial terminal or no-op) and never swapped.
package ui

import (
	"fmt"

	"cartreader/ui/gesture"
)

// Answer sentinels returned by AskMultipleChoiceQuestion when wrapping is off.
const (
	GoBack   = -1
	NextPage = -2
)

// Base selects how PrintByte renders a value.
type Base uint8

const (
	Dec Base = iota
	Hex
	Bin
)

// FormatByte renders b in base.
func FormatByte(b byte, base Base) string {
	switch base {
	case Hex:
		return fmt.Sprintf("%02X", b)
	case Bin:
		return fmt.Sprintf("%08b", b)
	default:
		return fmt.Sprintf("%d", b)
	}
}

// SDInfo describes the inserted card.
type SDInfo struct {
	Type       string
	FileSystem string
	CapacityMB uint32
	FreeMB     uint32
}

// Point is a raw analog stick sample; both axes span -128..127.
type Point struct {
	X, Y int8
}

// ControllerState is one controller poll.
type ControllerState struct {
	Buttons []string
	Stick   Point
}

// Directions lists the benchmark order, clockwise from up.
var Directions = [8]string{
	"Up", "Up-Right", "Right", "Down-Right",
	"Down", "Down-Left", "Left", "Up-Left",
}

// UserInterface is implemented by each output backend.
type UserInterface interface {
	// Initialize prepares the backend. It is called once at startup.
	Initialize() error
	Device() *Device

	Clear()
	Print(text string)
	Println(text string)
	PrintValue(v uint64)
	PrintByte(b byte, base Base)
	// Update pushes buffered output to the device.
	Update()

	// DisplayMessage shows text and blocks until the user acknowledges it.
	DisplayMessage(text string)
	// Wait blocks until any user input.
	Wait()
	// WaitGesture blocks until a gesture is recognized.
	WaitGesture() gesture.Event
	// CheckGesture polls once without blocking.
	CheckGesture() gesture.Event

	// AskMultipleChoiceQuestion returns the chosen index. With wrap unset,
	// moving before the first answer returns GoBack and past the last
	// returns NextPage.
	AskMultipleChoiceQuestion(prompt string, answers []string, defaultIndex int, wrap bool) int
	// AskQuestionWithPagedAnswers pages through src and returns the chosen
	// answer, or "" when src has none.
	AskQuestionWithPagedAnswers(prompt string, src AnswerSource) string
	// ReadNumber reads a value of 1 to 3 digits, never above maxValue.
	// Other digit counts return 0.
	ReadNumber(numDigits, defaultValue, maxValue int, prompt string) int

	SupportsLargeMessages() bool
	// SupportsLiveInput reports whether CheckGesture can see input without
	// blocking, so a screen can keep redrawing until the user acts.
	SupportsLiveInput() bool
	SupportsSDInfoDisplay() bool
	SupportsN64RangeTest() bool
	SupportsN64SkippingTest() bool

	DisplaySDInfo(info SDInfo)
	DisplayControllerButtons(state ControllerState)
	DisplayStickRange(cur, lo, hi Point)
	DisplayStickSkipping(trail []Point)
	// DisplayBenchmark shows the calibration screen; step is the index into
	// Directions being sampled, or len(Directions) when finished.
	DisplayBenchmark(step int, results []Point)

	// ReportError prints msg and lights the error indicator; with
	// forceReset it then resets the device.
	ReportError(msg string, forceReset bool)
	// ForceReset waits for acknowledgement and resets the device. It does
	// not return.
	ForceReset()
}
