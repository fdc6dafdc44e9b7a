// Package oled is the graphical backend: a small monochrome panel and one
// or two push buttons.
//
// Click moves the selection forward, double click moves it back and hold
// confirms.
package oled

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cartreader/fonts/font6x8"
	"cartreader/hal"
	"cartreader/internal/buildinfo"
	"cartreader/ui"
	"cartreader/ui/gesture"

	"tinygo.org/x/tinyfont"
)

const pressButton = "Press Button..."

// Config sizes the text grid and tunes the input loop.
type Config struct {
	// Rows is the number of text rows on the panel.
	Rows int
	// PageSize is how many answers a paged question loads at a time.
	PageSize int
	// Poll is the sleep between button samples.
	Poll time.Duration
	// IdleCycle is how long without input before the LED starts cycling.
	IdleCycle time.Duration
	// CycleStep is the LED color step interval while cycling.
	CycleStep time.Duration
}

func DefaultConfig() Config {
	return Config{
		Rows:      8,
		PageSize:  14,
		Poll:      time.Millisecond,
		IdleCycle: 300 * time.Second,
		CycleStep: 50 * time.Millisecond,
	}
}

type Backend struct {
	dev   *ui.Device
	fb    hal.Framebuffer
	disp  *fbDisplay
	input *gesture.Poller
	cfg   Config

	cols, rows int
	grid       [][]rune
	col, row   int

	lastInput time.Time
	nextCycle time.Time
	cycling   bool
	hue       int

	fullDraws  int
	cheapDraws int
}

var _ ui.UserInterface = (*Backend)(nil)

// New returns a backend drawing to fb and reading gestures from input.
func New(dev *ui.Device, fb hal.Framebuffer, input *gesture.Poller, cfg Config) *Backend {
	def := DefaultConfig()
	if cfg.PageSize < 1 {
		cfg.PageSize = def.PageSize
	}
	if cfg.Poll <= 0 {
		cfg.Poll = def.Poll
	}
	if cfg.IdleCycle <= 0 {
		cfg.IdleCycle = def.IdleCycle
	}
	if cfg.CycleStep <= 0 {
		cfg.CycleStep = def.CycleStep
	}
	return &Backend{dev: dev, fb: fb, input: input, cfg: cfg}
}

func (b *Backend) Initialize() error {
	if b.fb == nil {
		return errors.New("oled: no framebuffer")
	}
	if b.fb.Format() != hal.PixelFormatRGB565 {
		return fmt.Errorf("oled: unsupported pixel format %d", b.fb.Format())
	}
	b.disp = &fbDisplay{fb: b.fb}

	b.cols = b.fb.Width() / font6x8.Width
	b.rows = b.fb.Height() / font6x8.Height
	if b.cfg.Rows >= 2 && b.cfg.Rows < b.rows {
		b.rows = b.cfg.Rows
	}
	b.grid = make([][]rune, b.rows)
	for i := range b.grid {
		b.grid[i] = make([]rune, b.cols)
	}
	b.lastInput = b.dev.Clock.Now()

	b.Clear()
	b.writeAt(0, 1, center("Cartridge Reader", b.cols))
	b.writeAt(0, 3, center(buildinfo.Short(), b.cols))
	b.Update()

	b.dev.Log.Info().Int("cols", b.cols).Int("rows", b.rows).Msg("oled: initialized")
	return nil
}

func (b *Backend) Device() *ui.Device { return b.dev }

func (b *Backend) Clear() {
	b.fb.ClearRGB(0, 0, 0)
	for _, line := range b.grid {
		for i := range line {
			line[i] = ' '
		}
	}
	b.col, b.row = 0, 0
}

// Print writes text at the cursor, wrapping at the right edge. Text below
// the last row is dropped.
func (b *Backend) Print(text string) {
	for _, r := range text {
		if r == '\n' {
			b.col = 0
			b.row++
			continue
		}
		if b.col >= b.cols {
			b.col = 0
			b.row++
		}
		if b.row >= b.rows {
			continue
		}
		b.putRune(b.col, b.row, r)
		b.col++
	}
}

func (b *Backend) Println(text string) {
	b.Print(text)
	b.col = 0
	b.row++
}

func (b *Backend) PrintValue(v uint64) {
	b.Print(strconv.FormatUint(v, 10))
}

func (b *Backend) PrintByte(v byte, base ui.Base) {
	b.Print(ui.FormatByte(v, base))
}

func (b *Backend) Update() {
	if err := b.disp.Display(); err != nil {
		b.dev.Log.Error().Err(err).Msg("oled: present")
	}
}

func (b *Backend) DisplayMessage(text string) {
	b.Println(text)
	b.Println("")
	b.Println(pressButton)
	b.Update()
	b.Wait()
}

func (b *Backend) SupportsLargeMessages() bool   { return false }
func (b *Backend) SupportsLiveInput() bool       { return true }
func (b *Backend) SupportsSDInfoDisplay() bool   { return true }
func (b *Backend) SupportsN64RangeTest() bool    { return true }
func (b *Backend) SupportsN64SkippingTest() bool { return true }

func (b *Backend) ReportError(msg string, forceReset bool) {
	ui.ReportError(b, msg, forceReset)
}

func (b *Backend) ForceReset() {
	ui.ForceReset(b, pressButton)
}

// putRune draws r into text cell (col, row).
func (b *Backend) putRune(col, row int, r rune) {
	if col < 0 || col >= b.cols || row < 0 || row >= b.rows {
		return
	}
	x := int16(col * font6x8.Width)
	y := int16(row * font6x8.Height)
	b.disp.fill(x, y, font6x8.Width, font6x8.Height, colorOff)
	b.grid[row][col] = r
	if r != ' ' {
		tinyfont.DrawChar(b.disp, font6x8.Font, x, y+font6x8.Ascent, r, colorOn)
	}
}

// writeAt draws s starting at (col, row) without moving the cursor.
func (b *Backend) writeAt(col, row int, s string) {
	for _, r := range s {
		b.putRune(col, row, r)
		col++
	}
}

// textAt returns the shadow text of a row, trailing blanks trimmed.
func (b *Backend) textAt(row int) string {
	if row < 0 || row >= len(b.grid) {
		return ""
	}
	return strings.TrimRight(string(b.grid[row]), " ")
}

func center(s string, width int) string {
	s = fit(s, width)
	pad := (width - len([]rune(s))) / 2
	return strings.Repeat(" ", pad) + s
}

func fit(s string, width int) string {
	r := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}

// wrap splits s into lines of at most width runes, breaking at spaces
// where possible and at existing newlines.
func wrap(s string, width int) []string {
	if width < 1 {
		return nil
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		r := []rune(para)
		for len(r) > width {
			cut := width
			for i := width; i > 0; i-- {
				if r[i] == ' ' {
					cut = i
					break
				}
			}
			out = append(out, strings.TrimRight(string(r[:cut]), " "))
			r = []rune(strings.TrimLeft(string(r[cut:]), " "))
		}
		out = append(out, string(r))
	}
	return out
}
