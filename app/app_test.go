package app

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"cartreader/hal"
	"cartreader/internal/config"
	"cartreader/internal/storage"
	"cartreader/ui"
	"cartreader/ui/gesture"
	"cartreader/ui/nullui"
	"cartreader/ui/oled"
	"cartreader/ui/serialterm"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineLog struct{ lines []string }

func (l *lineLog) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *lineLog) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

type nopLED struct{}

func (nopLED) SetRGB(r, g, b uint8) {}

type display struct{ fb hal.Framebuffer }

func (d display) Framebuffer() hal.Framebuffer { return d.fb }

type card struct{}

func (card) Info() (hal.CardInfo, error) {
	return hal.CardInfo{Type: "SDHC", FileSystem: "FAT", SizeBytes: 8 << 30, FreeBytes: 1 << 30}, nil
}

type port struct {
	*strings.Reader
	*bytes.Buffer
}

func (p port) Read(b []byte) (int, error)  { return p.Reader.Read(b) }
func (p port) Write(b []byte) (int, error) { return p.Buffer.Write(b) }

type board struct {
	log    *lineLog
	fb     *hal.MemFramebuffer
	pin    *hal.VirtualPin
	serial port
	clock  *clockwork.FakeClock
	resets int
}

func newBoard(input string) *board {
	return &board{
		log:    &lineLog{},
		fb:     hal.NewFramebuffer(128, 64, nil),
		pin:    hal.NewVirtualPin("BTN1", true),
		serial: port{Reader: strings.NewReader(input), Buffer: &bytes.Buffer{}},
		clock:  clockwork.NewFakeClock(),
	}
}

func (b *board) Logger() hal.Logger     { return b.log }
func (b *board) LED() hal.StatusLED     { return nopLED{} }
func (b *board) Display() hal.Display   { return display{fb: b.fb} }
func (b *board) Buttons() hal.Buttons   { return hal.NewButtons(b.pin, nil) }
func (b *board) Serial() hal.Serial     { return b.serial }
func (b *board) Flash() hal.Flash       { return nil }
func (b *board) Card() hal.Card         { return card{} }
func (b *board) Clock() clockwork.Clock { return b.clock }
func (b *board) Reset()                 { b.resets++ }

func TestNewUISelectsBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ui   string
		want any
	}{
		{name: "oled", ui: config.UIOLED, want: &oled.Backend{}},
		{name: "serial", ui: config.UISerial, want: &serialterm.Backend{}},
		{name: "test", ui: config.UITest, want: &nullui.Backend{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			cfg.UI = tt.ui
			u, err := NewUI(newBoard(""), Options{Config: cfg, Log: zerolog.Nop()})
			require.NoError(t, err)
			assert.IsType(t, tt.want, u)
		})
	}
}

func TestNewUIRejectsUnknown(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.UI = "lcd"
	_, err := NewUI(newBoard(""), Options{Config: cfg, Log: zerolog.Nop()})
	assert.ErrorIs(t, err, config.ErrUnknownUI)
}

func TestRunSerialHaltsOnEOF(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.UI = config.UISerial
	b := newBoard("5\n")
	err := Run(b, Options{Config: cfg, Log: zerolog.Nop(), Folders: storage.NewMemory(0), ReturnOnHalt: true})
	assert.ErrorIs(t, err, ErrHalted)
	assert.Contains(t, b.serial.Buffer.String(), "Main Menu")
	assert.Contains(t, b.serial.Buffer.String(), "Cartridge Reader")
}

func TestRunShowsFatalScreen(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.UI = config.UITest
	b := newBoard("")
	err := Run(b, Options{Config: cfg, Log: zerolog.Nop(), Pad: panicPad{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pad unplugged")
	assert.Contains(t, b.log.lines, "fatal: pad unplugged")
	assert.Greater(t, b.fb.Frames(), uint64(0))
}

type panicPad struct{}

func (panicPad) Poll() ui.ControllerState { panic("pad unplugged") }

// scripted is a null backend that answers from queues.
type scripted struct {
	*nullui.Backend
	choices  []int
	numbers  []int
	paged    []string
	gestures []gesture.Event
	checks   int
	waits    int
	messages []string
	screens  []string
}

func newScripted(dev *ui.Device) *scripted {
	return &scripted{Backend: nullui.New(dev)}
}

func (s *scripted) AskMultipleChoiceQuestion(prompt string, answers []string, def int, wrap bool) int {
	c := s.choices[0]
	s.choices = s.choices[1:]
	return c
}

func (s *scripted) ReadNumber(numDigits, def, maxValue int, prompt string) int {
	n := s.numbers[0]
	s.numbers = s.numbers[1:]
	return n
}

func (s *scripted) AskQuestionWithPagedAnswers(prompt string, src ui.AnswerSource) string {
	var all []string
	for a := src.NextAnswer(); a != ""; a = src.NextAnswer() {
		all = append(all, a)
	}
	s.paged = all
	if len(all) == 0 {
		return ""
	}
	return all[len(all)-1]
}

func (s *scripted) WaitGesture() gesture.Event {
	ev := s.gestures[0]
	s.gestures = s.gestures[1:]
	return ev
}

func (s *scripted) CheckGesture() gesture.Event {
	s.checks++
	if s.checks >= 3 {
		return gesture.Click
	}
	return gesture.None
}

func (s *scripted) Wait() { s.waits++ }

func (s *scripted) DisplayMessage(text string) {
	s.messages = append(s.messages, text)
}

func (s *scripted) SupportsLiveInput() bool       { return true }
func (s *scripted) SupportsN64RangeTest() bool    { return true }
func (s *scripted) SupportsN64SkippingTest() bool { return true }

func (s *scripted) DisplayStickRange(cur, lo, hi ui.Point) {
	s.screens = append(s.screens, "range")
}

func (s *scripted) DisplayBenchmark(step int, results []ui.Point) {
	s.screens = append(s.screens, ui.Directions[min(step, len(ui.Directions)-1)])
}

func newTestDevice(folders ui.FolderStore) (*ui.Device, *int) {
	resets := 0
	return &ui.Device{
		Log:     zerolog.Nop(),
		Clock:   clockwork.NewFakeClock(),
		LED:     nopLED{},
		Folders: folders,
		Reset:   func() { resets++ },
		Halt:    func() {},
	}, &resets
}

// autoSleep advances the fake clock on Sleep.
type autoSleep struct{ *clockwork.FakeClock }

func (c autoSleep) Sleep(d time.Duration) { c.Advance(d) }

func TestDumpIncrementsFolder(t *testing.T) {
	t.Parallel()

	folders := storage.NewMemory(4)
	dev, _ := newTestDevice(folders)
	dev.Clock = autoSleep{clockwork.NewFakeClock()}
	s := newScripted(dev)
	s.choices = []int{menuDump}

	NewFirmware(s, nil, nil).Step()

	n, err := folders.LoadFolder()
	require.NoError(t, err)
	assert.Equal(t, uint32(5), n)
	assert.Contains(t, s.Output(), "Folder 5\n")
	assert.Contains(t, s.Output(), "["+strings.Repeat("*", 19)+"]\nChecksum ")
	assert.Equal(t, []string{"Done"}, s.messages)
	assert.Equal(t, ui.ColorGreen, dev.Color())
}

func TestNumberEntryRetriesOutOfRange(t *testing.T) {
	t.Parallel()

	dev, _ := newTestDevice(nil)
	s := newScripted(dev)
	s.choices = []int{menuNumberEntry}
	s.numbers = []int{0, 42}

	NewFirmware(s, nil, nil).Step()
	assert.Equal(t, []string{"Out of range", "Entered 42"}, s.messages)
}

func TestBrowsePicksROM(t *testing.T) {
	t.Parallel()

	dev, _ := newTestDevice(nil)
	s := newScripted(dev)
	s.choices = []int{menuBrowse}

	NewFirmware(s, nil, nil).Step()
	assert.Len(t, s.paged, romCount)
	assert.Equal(t, "GAME01.Z64", s.paged[0])
	assert.Equal(t, []string{"Selected GAME40.Z64"}, s.messages)
}

func TestAboutLongHoldResetsFolder(t *testing.T) {
	t.Parallel()

	folders := storage.NewMemory(9)
	dev, _ := newTestDevice(folders)
	s := newScripted(dev)
	s.choices = []int{menuAbout}
	s.gestures = []gesture.Event{gesture.Hold, gesture.LongHold}

	NewFirmware(s, nil, nil).Step()

	n, err := folders.LoadFolder()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, s.Output(), "Folder 9\n")
	assert.Equal(t, []string{"Folder reset"}, s.messages)
}

func TestAboutClickLeavesCounter(t *testing.T) {
	t.Parallel()

	folders := storage.NewMemory(9)
	dev, _ := newTestDevice(folders)
	s := newScripted(dev)
	s.choices = []int{menuAbout}
	s.gestures = []gesture.Event{gesture.Click}

	NewFirmware(s, nil, nil).Step()

	n, err := folders.LoadFolder()
	require.NoError(t, err)
	assert.Equal(t, uint32(9), n)
	assert.Empty(t, s.messages)
}

type failingStore struct{}

func (failingStore) LoadFolder() (uint32, error) { return 0, nil }
func (failingStore) StoreFolder(uint32) error    { return errors.New("flash busy") }

func TestDumpReportsStorageError(t *testing.T) {
	t.Parallel()

	dev, resets := newTestDevice(failingStore{})
	s := newScripted(dev)
	s.choices = []int{menuDump}

	NewFirmware(s, nil, nil).Step()
	assert.True(t, dev.Errored())
	assert.Contains(t, s.Output(), "flash busy")
	assert.Zero(t, *resets)
}

func TestResetEntry(t *testing.T) {
	t.Parallel()

	dev, resets := newTestDevice(nil)
	s := newScripted(dev)
	s.choices = []int{menuReset}

	NewFirmware(s, nil, nil).Step()
	assert.Equal(t, 1, *resets)
}

func TestControllerRangeRunsUntilGesture(t *testing.T) {
	t.Parallel()

	dev, _ := newTestDevice(nil)
	dev.Clock = autoSleep{clockwork.NewFakeClock()}
	s := newScripted(dev)
	s.choices = []int{menuControllerTest, 1}

	NewFirmware(s, nil, nil).Step()
	assert.Equal(t, []string{"range", "range", "range"}, s.screens)
}

func TestControllerBenchmarkSamplesEveryDirection(t *testing.T) {
	t.Parallel()

	dev, _ := newTestDevice(nil)
	s := newScripted(dev)
	s.choices = []int{menuControllerTest, 3}

	NewFirmware(s, nil, nil).Step()
	assert.Equal(t, len(ui.Directions)+1, s.waits)
	assert.Len(t, s.screens, len(ui.Directions)+1)
	assert.Equal(t, "Up", s.screens[0])
}

func TestSimPadSweeps(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	pad := NewSimPad(clock)

	st := pad.Poll()
	assert.Equal(t, ui.Point{X: 0, Y: 80}, st.Stick)
	assert.Equal(t, []string{"A"}, st.Buttons)

	clock.Advance(time.Second)
	st = pad.Poll()
	assert.Equal(t, ui.Point{X: 80, Y: 0}, st.Stick)
	assert.Equal(t, []string{"Z"}, st.Buttons)
}

func TestTakeRunes(t *testing.T) {
	t.Parallel()

	p, rest := takeRunes("héllo", 2)
	assert.Equal(t, "hé", p)
	assert.Equal(t, "llo", rest)

	p, rest = takeRunes("ab", 5)
	assert.Equal(t, "ab", p)
	assert.Empty(t, rest)
}

func TestSDInfoFromCard(t *testing.T) {
	t.Parallel()

	dev, _ := newTestDevice(nil)
	s := newScripted(dev)
	s.choices = []int{menuSDInfo}

	NewFirmware(s, nil, card{}).Step()
	assert.Equal(t, []string{"SDHC FAT 8192MB"}, s.messages)
}

func TestSDInfoEmptySlot(t *testing.T) {
	t.Parallel()

	dev, _ := newTestDevice(nil)
	s := newScripted(dev)
	s.choices = []int{menuSDInfo}

	NewFirmware(s, nil, nil).Step()
	assert.Equal(t, []string{"No SD card"}, s.messages)
}

// pick answers the main menu with entry and leaves every later question to
// the no-op backend.
type pick struct {
	*nullui.Backend
	entry int
	asked bool
}

func (p *pick) AskMultipleChoiceQuestion(prompt string, answers []string, def int, wrap bool) int {
	if !p.asked {
		p.asked = true
		return p.entry
	}
	return p.Backend.AskMultipleChoiceQuestion(prompt, answers, def, wrap)
}

// stepReturns fails the test if one menu pass does not come back.
func stepReturns(t *testing.T, f *Firmware) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.Step()
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("menu pass did not return")
	}
}

func TestStepReturnsOnNullUI(t *testing.T) {
	t.Parallel()

	dev, _ := newTestDevice(nil)
	stepReturns(t, NewFirmware(nullui.New(dev), nil, nil))
	assert.Equal(t, ui.ColorBlue, dev.Color())
}

func TestEveryMenuEntryReturnsOnNullUI(t *testing.T) {
	t.Parallel()

	want := map[int]string{
		menuNumberEntry: "Entered 1\n",
		menuDump:        "Done\n",
		menuSDInfo:      "SDHC FAT 8192MB\n",
		menuAbout:       "Hold 5s: reset folder\n",
	}
	for entry, name := range mainMenu {
		entry := entry
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dev, resets := newTestDevice(storage.NewMemory(0))
			dev.Clock = autoSleep{clockwork.NewFakeClock()}
			p := &pick{Backend: nullui.New(dev), entry: entry}

			stepReturns(t, NewFirmware(p, nil, card{}))
			if s, ok := want[entry]; ok {
				assert.Contains(t, p.Output(), s)
			}
			if entry == menuReset {
				assert.Equal(t, 1, *resets)
			}
		})
	}
}
