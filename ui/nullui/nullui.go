// Package nullui is a UserInterface with no hardware behind it. Questions
// take their defaults, waits return at once and output is kept in memory,
// so firmware logic can be exercised in tests.
package nullui

import (
	"strconv"
	"strings"

	"cartreader/ui"
	"cartreader/ui/gesture"
)

type Backend struct {
	dev *ui.Device
	out strings.Builder

	resets int
	frames int
}

var _ ui.UserInterface = (*Backend)(nil)

func New(dev *ui.Device) *Backend {
	return &Backend{dev: dev}
}

// Output returns everything printed so far.
func (b *Backend) Output() string { return b.out.String() }

// Resets counts ForceReset calls.
func (b *Backend) Resets() int { return b.resets }

// Frames counts Update calls.
func (b *Backend) Frames() int { return b.frames }

func (b *Backend) Initialize() error  { return nil }
func (b *Backend) Device() *ui.Device { return b.dev }

func (b *Backend) Clear()              {}
func (b *Backend) Print(text string)   { b.out.WriteString(text) }
func (b *Backend) Println(text string) { b.out.WriteString(text + "\n") }
func (b *Backend) PrintValue(v uint64) { b.out.WriteString(strconv.FormatUint(v, 10)) }
func (b *Backend) Update()             { b.frames++ }

func (b *Backend) PrintByte(v byte, base ui.Base) {
	b.out.WriteString(ui.FormatByte(v, base))
}

func (b *Backend) DisplayMessage(text string)  { b.Println(text) }
func (b *Backend) Wait()                       {}
func (b *Backend) WaitGesture() gesture.Event  { return gesture.None }
func (b *Backend) CheckGesture() gesture.Event { return gesture.None }

func (b *Backend) AskMultipleChoiceQuestion(prompt string, answers []string, defaultIndex int, wrap bool) int {
	if len(answers) == 0 {
		return 0
	}
	return min(max(defaultIndex, 0), len(answers)-1)
}

func (b *Backend) AskQuestionWithPagedAnswers(prompt string, src ui.AnswerSource) string {
	return ""
}

func (b *Backend) ReadNumber(numDigits, defaultValue, maxValue int, prompt string) int {
	e, ok := ui.NewNumberEntry(numDigits, defaultValue, maxValue)
	if !ok {
		return 0
	}
	return e.Value()
}

func (b *Backend) SupportsLargeMessages() bool   { return false }
func (b *Backend) SupportsLiveInput() bool       { return false }
func (b *Backend) SupportsSDInfoDisplay() bool   { return false }
func (b *Backend) SupportsN64RangeTest() bool    { return false }
func (b *Backend) SupportsN64SkippingTest() bool { return false }

func (b *Backend) DisplaySDInfo(ui.SDInfo)                     {}
func (b *Backend) DisplayControllerButtons(ui.ControllerState) {}
func (b *Backend) DisplayStickRange(cur, lo, hi ui.Point)      {}
func (b *Backend) DisplayStickSkipping([]ui.Point)             {}
func (b *Backend) DisplayBenchmark(int, []ui.Point)            {}

func (b *Backend) ReportError(msg string, forceReset bool) {
	ui.ReportError(b, msg, forceReset)
}

// ForceReset only counts the request; there is no device to restart.
func (b *Backend) ForceReset() {
	b.resets++
}
