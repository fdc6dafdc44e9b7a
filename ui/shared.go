package ui

const progressSteps = 20

// Printer is the output half of a UserInterface.
type Printer interface {
	Print(text string)
	Println(text string)
	Update()
}

// ProgressBar draws a 20 step bar as "[***...]", only printing what is new
// since the previous call. The closing bracket ends the line.
type ProgressBar struct {
	out  Printer
	prev int
}

// NewProgressBar returns a bar writing to out.
func NewProgressBar(out Printer) *ProgressBar {
	return &ProgressBar{out: out}
}

// Draw advances the bar to processed out of total. processed == 0 starts a
// new bar.
func (p *ProgressBar) Draw(processed, total uint64) {
	if processed == 0 {
		p.prev = 0
		p.out.Print("[")
		p.out.Update()
		return
	}

	cur := progressSteps
	if processed < total {
		cur = int(processed * progressSteps / total)
	}
	if cur <= p.prev {
		return
	}

	for i := p.prev; i < cur; i++ {
		if i == progressSteps-1 {
			p.out.Println("]")
		} else {
			p.out.Print("*")
		}
	}
	p.prev = cur
	p.out.Update()
}

// ReportError is the error path every backend shares: log, light the error
// indicator, print msg and optionally reset.
func ReportError(u UserInterface, msg string, forceReset bool) {
	dev := u.Device()
	dev.Log.Error().Str("msg", msg).Bool("reset", forceReset).Msg("ui: error")
	dev.SetError()
	u.Println(msg)
	u.Update()
	if forceReset {
		u.ForceReset()
	}
}

// ForceReset prints notice, waits for the user and resets the device.
func ForceReset(u UserInterface, notice string) {
	dev := u.Device()
	u.Println("")
	u.Println(notice)
	u.Update()
	u.Wait()

	dev.Log.Warn().Msg("ui: forced reset")
	dev.Reset()
	dev.Halt()
}

// ReadNumberInRange reads a number until it lies within [minValue,
// maxValue], showing outOfRange after each rejected entry. Invalid arguments
// return 0.
func ReadNumberInRange(u UserInterface, prompt, outOfRange string, numDigits, defaultValue, minValue, maxValue int) int {
	if numDigits < 1 || numDigits > MaxDigits || minValue > maxValue || minValue > DigitLimit(numDigits) {
		return 0
	}
	for {
		v := u.ReadNumber(numDigits, defaultValue, maxValue, prompt)
		if v >= minValue && v <= maxValue {
			return v
		}
		u.DisplayMessage(outOfRange)
	}
}
