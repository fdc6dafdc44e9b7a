package oled

import (
	"testing"
	"time"

	"cartreader/fonts/font6x8"
	"cartreader/hal"
	"cartreader/ui"
	"cartreader/ui/gesture"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// autoClock advances fake time whenever the backend sleeps, so blocking
// waits replay button scripts instantly.
type autoClock struct {
	*clockwork.FakeClock
}

func (c autoClock) Sleep(d time.Duration) { c.Advance(d) }

type recLED struct {
	sets []ui.Color
}

func (l *recLED) SetRGB(r, g, b uint8) {
	l.sets = append(l.sets, ui.Color{R: r, G: g, B: b})
}

type fixture struct {
	b      *Backend
	fb     *hal.MemFramebuffer
	led    *recLED
	resets int
}

func newFixture(t *testing.T, script string, cfg Config) *fixture {
	t.Helper()

	clock := autoClock{clockwork.NewFakeClock()}
	edges, err := hal.ParseScript(script, true)
	require.NoError(t, err)

	f := &fixture{
		fb:  hal.NewFramebuffer(128, 64, nil),
		led: &recLED{},
	}
	dev := &ui.Device{
		Log:   zerolog.Nop(),
		Clock: clock,
		LED:   f.led,
		Reset: func() { f.resets++ },
		Halt:  func() {},
	}
	pin := hal.NewScriptedPin("BTN1", true, edges, clock)
	input := gesture.NewPoller(clock, gesture.DefaultTiming(), true, pin, nil, zerolog.Nop())

	f.b = New(dev, f.fb, input, cfg)
	require.NoError(t, f.b.Initialize())
	return f
}

func TestInitializeSplash(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "", DefaultConfig())
	assert.Equal(t, 21, f.b.cols)
	assert.Equal(t, 8, f.b.rows)
	assert.Contains(t, f.b.textAt(1), "Cartridge Reader")
	assert.Equal(t, uint64(1), f.fb.Frames())
}

func TestInitializeRejectsMissingFramebuffer(t *testing.T) {
	t.Parallel()

	b := New(&ui.Device{Log: zerolog.Nop()}, nil, nil, DefaultConfig())
	assert.Error(t, b.Initialize())
}

func TestPrintWrapsAndClips(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "", DefaultConfig())
	f.b.Clear()
	f.b.Println("0123456789012345678901234")
	assert.Equal(t, "012345678901234567890", f.b.textAt(0))
	assert.Equal(t, "1234", f.b.textAt(1))

	f.b.Clear()
	for i := 0; i < 10; i++ {
		f.b.PrintValue(uint64(i))
		f.b.Println("")
	}
	assert.Equal(t, "7", f.b.textAt(7))

	f.b.Clear()
	f.b.PrintByte(0xA5, ui.Hex)
	f.b.Update()
	assert.Equal(t, "A5", f.b.textAt(0))
	assert.True(t, anyLit(f.fb, 0, 0, 12, 8))
}

func TestMultipleChoiceClickAndHold(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "press@10ms,release@60ms,press@400ms,release@450ms,press@800ms,release@3000ms", DefaultConfig())
	got := f.b.AskMultipleChoiceQuestion("Pick", []string{"a", "b", "c", "d"}, 0, false)
	assert.Equal(t, 2, got)

	assert.Equal(t, "Pick", f.b.textAt(0))
	assert.Equal(t, string(font6x8.Pointer)+"c", f.b.textAt(3))
	assert.Equal(t, 1, f.b.fullDraws)
	assert.Equal(t, 2, f.b.cheapDraws)
	assert.Equal(t, font6x8.ArrowUp, f.b.grid[1][20])
	assert.Equal(t, font6x8.ArrowDown, f.b.grid[4][20])
}

func TestMultipleChoiceGoBack(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "press@10ms,release@60ms,press@100ms,release@150ms", DefaultConfig())
	got := f.b.AskMultipleChoiceQuestion("Pick", []string{"a", "b"}, 0, false)
	assert.Equal(t, ui.GoBack, got)
}

func TestMultipleChoiceNextPage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "press@10ms,release@60ms", DefaultConfig())
	got := f.b.AskMultipleChoiceQuestion("", []string{"only"}, 0, false)
	assert.Equal(t, ui.NextPage, got)
}

func TestMultipleChoiceWraps(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "press@10ms,release@60ms,press@100ms,release@150ms,press@500ms,release@2600ms", DefaultConfig())
	got := f.b.AskMultipleChoiceQuestion("Pick", []string{"a", "b", "c"}, 0, true)
	assert.Equal(t, 2, got)
}

func TestMultipleChoiceScrollsWindow(t *testing.T) {
	t.Parallel()

	script := ""
	for i := 0; i < 6; i++ {
		at := time.Duration(10+i*400) * time.Millisecond
		if script != "" {
			script += ","
		}
		script += "press@" + at.String() + ",release@" + (at + 50*time.Millisecond).String()
	}
	script += ",press@3000ms,release@5200ms"

	answers := make([]string, 20)
	for i := range answers {
		answers[i] = string(rune('A' + i))
	}

	f := newFixture(t, script, DefaultConfig())
	got := f.b.AskMultipleChoiceQuestion("", answers, 0, false)
	assert.Equal(t, 6, got)
	assert.Greater(t, f.b.fullDraws, 1)
	assert.Equal(t, 'C', f.b.grid[0][1], "window starts three above the selection plus the shortfall")
	assert.Equal(t, font6x8.Pointer, f.b.grid[4][0])
}

func TestMultipleChoiceDefaultClamped(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "press@10ms,release@2100ms", DefaultConfig())
	got := f.b.AskMultipleChoiceQuestion("Pick", []string{"a", "b"}, 9, false)
	assert.Equal(t, 1, got)
}

func TestReadNumber(t *testing.T) {
	t.Parallel()

	holds := "press@500ms,release@2600ms,press@2700ms,release@4800ms,press@4900ms,release@7000ms"
	tests := []struct {
		name string
		def  int
		max  int
		want int
	}{
		{name: "increment first digit", def: 128, max: 255, want: 228},
		{name: "overflow drops digit to zero", def: 250, max: 255, want: 50},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, "press@10ms,release@60ms,"+holds, DefaultConfig())
			got := f.b.ReadNumber(3, tt.def, tt.max, "Value")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadNumberInvalidDigits(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "", DefaultConfig())
	assert.Equal(t, 0, f.b.ReadNumber(4, 10, 100, "Value"))
	assert.Equal(t, 0, f.b.ReadNumber(0, 10, 100, "Value"))
}

func TestPagedAnswers(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.PageSize = 2
	// click, click (past page one), hold on the first answer of page two
	f := newFixture(t, "press@10ms,release@60ms,press@400ms,release@450ms,press@800ms,release@3000ms", cfg)
	got := f.b.AskQuestionWithPagedAnswers("Files", ui.Answers("a", "b", "c"))
	assert.Equal(t, "c", got)
}

func TestDisplayMessageWaits(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "press@10ms,release@60ms", DefaultConfig())
	f.b.Clear()
	f.b.DisplayMessage("Done")
	assert.Equal(t, "Done", f.b.textAt(0))
	assert.Equal(t, pressButton, f.b.textAt(2))
}

func TestCheckGestureDoesNotBlock(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "", DefaultConfig())
	assert.Equal(t, gesture.None, f.b.CheckGesture())
}

func TestForceResetAfterError(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "press@10ms,release@60ms", DefaultConfig())
	f.b.Clear()
	f.b.ReportError("Bad checksum", true)

	assert.True(t, f.b.Device().Errored())
	assert.Equal(t, 1, f.resets)
	assert.Equal(t, "Bad checksum", f.b.textAt(0))
	assert.Contains(t, f.led.sets, ui.ColorRed)
}

func TestIdleCycleRestoresColor(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.IdleCycle = 20 * time.Millisecond
	cfg.CycleStep = 5 * time.Millisecond

	f := newFixture(t, "press@200ms,release@250ms", cfg)
	f.b.Device().SetColor(ui.ColorBlue)
	f.b.Wait()

	assert.Greater(t, len(f.led.sets), 3, "cycled while idle")
	assert.Equal(t, ui.ColorBlue, f.led.sets[len(f.led.sets)-1])
	assert.False(t, f.b.cycling)
}

func TestIdleHooksRun(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "press@10ms,release@60ms", DefaultConfig())
	calls := 0
	f.b.Device().OnIdle(func() { calls++ })
	f.b.Wait()
	assert.Greater(t, calls, 0)
}

func TestProbes(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "", DefaultConfig())
	assert.False(t, f.b.SupportsLargeMessages())
	assert.True(t, f.b.SupportsLiveInput())
	assert.True(t, f.b.SupportsSDInfoDisplay())
	assert.True(t, f.b.SupportsN64RangeTest())
	assert.True(t, f.b.SupportsN64SkippingTest())
}

func TestControllerScreens(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "", DefaultConfig())

	f.b.DisplayControllerButtons(ui.ControllerState{Buttons: []string{"A", "START"}, Stick: ui.Point{X: -5, Y: 12}})
	assert.Equal(t, "A START", f.b.textAt(2))
	assert.Equal(t, "X:  -5  Y:  12", f.b.textAt(7))

	f.b.DisplayStickRange(ui.Point{}, ui.Point{X: -80, Y: -80}, ui.Point{X: 80, Y: 80})
	assert.Equal(t, "X -80..80", f.b.textAt(2))
	assert.True(t, f.fb.Lit(96, 32), "stick position")

	f.b.DisplayStickSkipping([]ui.Point{{X: 127, Y: 0}})
	assert.Equal(t, "n=1", f.b.textAt(2))
	assert.True(t, f.fb.Lit(96+127*plotRadius/128, 32))

	f.b.DisplayBenchmark(2, []ui.Point{{Y: 100}, {X: 70, Y: 70}})
	assert.Equal(t, "Right", f.b.textAt(3))
	f.b.DisplayBenchmark(len(ui.Directions), nil)
	assert.Equal(t, "Done", f.b.textAt(2))
}

func TestDisplaySDInfo(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "", DefaultConfig())
	f.b.DisplaySDInfo(ui.SDInfo{Type: "SDHC", FileSystem: "FAT32", CapacityMB: 30436, FreeMB: 1200})
	assert.Equal(t, "Type: SDHC", f.b.textAt(2))
	assert.Equal(t, "Size: 30436MB", f.b.textAt(4))
}

func TestWrap(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Select a", "cartridge"}, wrap("Select a cartridge", 9))
	assert.Equal(t, []string{"abcd", "ef"}, wrap("abcdef", 4))
	assert.Equal(t, []string{"a", "b"}, wrap("a\nb", 10))
	assert.Empty(t, wrap("no room", 0))
}

func TestNarrowPanelDoesNotHang(t *testing.T) {
	t.Parallel()

	clock := autoClock{clockwork.NewFakeClock()}
	dev := &ui.Device{Log: zerolog.Nop(), Clock: clock, Halt: func() {}}
	fb := hal.NewFramebuffer(4, 64, nil)
	b := New(dev, fb, gesture.NewPoller(clock, gesture.DefaultTiming(), true, nil, nil, zerolog.Nop()), DefaultConfig())
	require.NoError(t, b.Initialize())
	assert.Equal(t, 0, b.cols)

	b.DisplayControllerButtons(ui.ControllerState{Buttons: []string{"A", "START"}})
	assert.Empty(t, b.textAt(2))
}

func TestFillClipsToPanel(t *testing.T) {
	t.Parallel()

	fb := hal.NewFramebuffer(8, 8, nil)
	d := &fbDisplay{fb: fb}
	d.fill(-4, 6, 20, 20, colorOn)
	require.NoError(t, fb.Present())
	assert.True(t, fb.Lit(0, 6))
	assert.True(t, fb.Lit(7, 7))
	assert.False(t, fb.Lit(0, 5))

	d.fill(10, 10, 4, 4, colorOn)
	require.NoError(t, fb.Present())
	assert.False(t, fb.Lit(7, 5))
}

func anyLit(fb *hal.MemFramebuffer, x0, y0, x1, y1 int) bool {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if fb.Lit(x, y) {
				return true
			}
		}
	}
	return false
}
