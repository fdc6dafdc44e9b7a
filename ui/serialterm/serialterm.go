// Package serialterm is the text backend: prompts go out over a serial line
// and every received line is one whole command.
//
// An empty line acknowledges or takes the default, a number picks an answer,
// "<" goes back and ">" asks for the next page. Gesture reads accept c, d, h
// and l for click, double click, hold and long hold.
package serialterm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cartreader/ui"
	"cartreader/ui/gesture"
)

const newline = "\r\n"

type Config struct {
	// PageSize is how many answers a paged question lists at a time.
	PageSize int
}

func DefaultConfig() Config {
	return Config{PageSize: 20}
}

type Backend struct {
	dev *ui.Device
	in  *bufio.Reader
	out *bufio.Writer
	cfg Config

	eof bool
}

var _ ui.UserInterface = (*Backend)(nil)

// New returns a backend talking over port.
func New(dev *ui.Device, port io.ReadWriter, cfg Config) *Backend {
	if cfg.PageSize < 1 {
		cfg.PageSize = DefaultConfig().PageSize
	}
	return &Backend{
		dev: dev,
		in:  bufio.NewReader(port),
		out: bufio.NewWriter(port),
		cfg: cfg,
	}
}

func (b *Backend) Initialize() error {
	b.Println("")
	b.Println("Cartridge Reader")
	b.Update()
	b.dev.Log.Info().Int("page_size", b.cfg.PageSize).Msg("serialterm: initialized")
	return nil
}

func (b *Backend) Device() *ui.Device { return b.dev }

// Clear is a no-op on a scrolling terminal.
func (b *Backend) Clear() {}

func (b *Backend) Print(text string) {
	_, _ = b.out.WriteString(strings.ReplaceAll(text, "\n", newline))
}

func (b *Backend) Println(text string) {
	b.Print(text)
	_, _ = b.out.WriteString(newline)
}

func (b *Backend) PrintValue(v uint64) {
	b.Print(strconv.FormatUint(v, 10))
}

func (b *Backend) PrintByte(v byte, base ui.Base) {
	b.Print(ui.FormatByte(v, base))
}

func (b *Backend) Update() {
	if err := b.out.Flush(); err != nil {
		b.dev.Log.Error().Err(err).Msg("serialterm: write")
	}
}

// readLine flushes pending output and returns the next line without its
// terminator. Once the input is closed the device halts; if halting returns
// every further read yields "".
func (b *Backend) readLine() string {
	b.Update()
	if b.eof {
		return ""
	}

	line, err := b.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			b.dev.Log.Error().Err(err).Msg("serialterm: read")
		}
		if line == "" {
			b.eof = true
			b.dev.Log.Warn().Msg("serialterm: input closed")
			b.dev.Halt()
			return ""
		}
	}
	line = strings.TrimSpace(strings.TrimRight(line, "\r\n"))
	b.dev.Log.Debug().Str("line", line).Msg("serialterm: input")
	return line
}

func (b *Backend) DisplayMessage(text string) {
	b.Println(text)
	b.Println("")
	b.Print("Press Enter...")
	b.readLine()
	b.Println("")
}

func (b *Backend) Wait() {
	b.readLine()
}

func (b *Backend) WaitGesture() gesture.Event {
	for {
		b.Print("Gesture [c/d/h/l]: ")
		switch strings.ToLower(b.readLine()) {
		case "", "c":
			return gesture.Click
		case "d":
			return gesture.DoubleClick
		case "h":
			return gesture.Hold
		case "l":
			return gesture.LongHold
		}
		b.Println("Unknown gesture")
	}
}

// CheckGesture never blocks on the line, so it always reports None.
func (b *Backend) CheckGesture() gesture.Event {
	b.dev.RunIdle()
	return gesture.None
}

func (b *Backend) AskMultipleChoiceQuestion(prompt string, answers []string, defaultIndex int, wrap bool) int {
	n := len(answers)
	if n == 0 {
		b.dev.Log.Warn().Str("prompt", prompt).Msg("serialterm: question without answers")
		return 0
	}
	def := min(max(defaultIndex, 0), n-1)

	b.Println("")
	if prompt != "" {
		b.Println(prompt)
	}
	for i, a := range answers {
		b.Println(fmt.Sprintf("%d) %s", i, a))
	}
	if !wrap {
		b.Println("<) Back  >) More")
	}

	for {
		b.Print(fmt.Sprintf("Enter a selection by typing a number (0-%d) [%d]: ", n-1, def))
		line := b.readLine()
		switch {
		case line == "":
			return def
		case line == "<" && !wrap:
			return ui.GoBack
		case line == ">" && !wrap:
			return ui.NextPage
		}
		idx, err := strconv.Atoi(line)
		if err == nil && idx >= 0 && idx < n {
			b.Println("")
			b.Println(answers[idx])
			b.Update()
			b.dev.Log.Debug().Int("index", idx).Msg("serialterm: answer")
			return idx
		}
		b.Println("Invalid selection")
	}
}

func (b *Backend) AskQuestionWithPagedAnswers(prompt string, src ui.AnswerSource) string {
	return ui.AskPaged(b, prompt, src, b.cfg.PageSize)
}

func (b *Backend) ReadNumber(numDigits, defaultValue, maxValue int, prompt string) int {
	if numDigits < 1 || numDigits > ui.MaxDigits {
		b.dev.Log.Warn().Int("digits", numDigits).Msg("serialterm: invalid digit count")
		return 0
	}
	maxValue = min(max(maxValue, 0), ui.DigitLimit(numDigits))
	def := min(max(defaultValue, 0), maxValue)

	b.Println("")
	if prompt != "" {
		b.Println(prompt)
	}
	for {
		b.Print(fmt.Sprintf("Enter a number (0-%d) [%d]: ", maxValue, def))
		line := b.readLine()
		if line == "" {
			return def
		}
		v, err := strconv.Atoi(line)
		if err == nil && len(line) <= numDigits && v >= 0 && v <= maxValue {
			return v
		}
		b.Println("Invalid number")
	}
}

func (b *Backend) SupportsLargeMessages() bool   { return true }
func (b *Backend) SupportsLiveInput() bool       { return false }
func (b *Backend) SupportsSDInfoDisplay() bool   { return false }
func (b *Backend) SupportsN64RangeTest() bool    { return false }
func (b *Backend) SupportsN64SkippingTest() bool { return false }

func (b *Backend) DisplaySDInfo(info ui.SDInfo) {
	b.Println(fmt.Sprintf("SD: %s %s %dMB (%dMB free)", info.Type, info.FileSystem, info.CapacityMB, info.FreeMB))
	b.Update()
}

func (b *Backend) DisplayControllerButtons(state ui.ControllerState) {
	b.Println(fmt.Sprintf("Buttons: %s  X:%d Y:%d", strings.Join(state.Buttons, " "), state.Stick.X, state.Stick.Y))
	b.Update()
}

func (b *Backend) DisplayStickRange(cur, lo, hi ui.Point) {
	b.Println(fmt.Sprintf("Range X %d..%d Y %d..%d at %d,%d", lo.X, hi.X, lo.Y, hi.Y, cur.X, cur.Y))
	b.Update()
}

func (b *Backend) DisplayStickSkipping(trail []ui.Point) {
	b.Println(fmt.Sprintf("Skip test: %d samples", len(trail)))
	b.Update()
}

func (b *Backend) DisplayBenchmark(step int, results []ui.Point) {
	if step >= 0 && step < len(ui.Directions) {
		b.Println("Hold stick " + ui.Directions[step] + " then press Enter")
	} else {
		b.Println("Benchmark done")
		for i, p := range results {
			if i >= len(ui.Directions) {
				break
			}
			b.Println(fmt.Sprintf("%-10s %4d %4d", ui.Directions[i], p.X, p.Y))
		}
	}
	b.Update()
}

// ReportError without a reset halts: the session cannot continue.
func (b *Backend) ReportError(msg string, forceReset bool) {
	ui.ReportError(b, msg, forceReset)
	if forceReset {
		return
	}
	b.Println("Halted.")
	b.Update()
	b.dev.Halt()
}

func (b *Backend) ForceReset() {
	ui.ForceReset(b, "Press Enter to reset")
}
