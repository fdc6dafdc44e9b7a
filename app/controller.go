package app

import (
	"math"
	"time"

	"cartreader/ui"
	"cartreader/ui/gesture"

	"github.com/jonboulle/clockwork"
)

const (
	padRefresh = 50 * time.Millisecond
	trailLen   = 64
)

// Controller is a polled game controller.
type Controller interface {
	Poll() ui.ControllerState
}

var padButtons = []string{"A", "B", "Z", "START", "L", "R", "C-UP", "C-DOWN"}

// SimPad is a controller that sweeps its stick around a circle and cycles
// through the buttons. It stands in when no controller port is wired.
type SimPad struct {
	clock clockwork.Clock
	t0    time.Time
}

func NewSimPad(clock clockwork.Clock) *SimPad {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SimPad{clock: clock, t0: clock.Now()}
}

func (p *SimPad) Poll() ui.ControllerState {
	elapsed := p.clock.Since(p.t0)
	angle := 2 * math.Pi * float64(elapsed%(4*time.Second)) / float64(4*time.Second)

	var st ui.ControllerState
	st.Stick = ui.Point{
		X: int8(math.Round(80 * math.Sin(angle))),
		Y: int8(math.Round(80 * math.Cos(angle))),
	}
	idx := int(elapsed/(500*time.Millisecond)) % (len(padButtons) + 1)
	if idx < len(padButtons) {
		st.Buttons = []string{padButtons[idx]}
	}
	return st
}

const (
	padTestButtons = iota
	padTestRange
	padTestSkipping
	padTestBenchmark
)

func (f *Firmware) controllerTest() {
	answers := []string{"Buttons"}
	tests := []int{padTestButtons}
	if f.u.SupportsN64RangeTest() {
		answers = append(answers, "Range")
		tests = append(tests, padTestRange)
	}
	if f.u.SupportsN64SkippingTest() {
		answers = append(answers, "Skipping")
		tests = append(tests, padTestSkipping)
	}
	answers = append(answers, "Benchmark")
	tests = append(tests, padTestBenchmark)

	choice := f.u.AskMultipleChoiceQuestion("Controller Test", answers, 0, false)
	if choice < 0 || choice >= len(tests) {
		return
	}

	switch tests[choice] {
	case padTestButtons:
		f.live(func() {
			f.u.DisplayControllerButtons(f.pad.Poll())
		})
	case padTestRange:
		first := f.pad.Poll().Stick
		lo, hi := first, first
		f.live(func() {
			cur := f.pad.Poll().Stick
			lo = ui.Point{X: min(lo.X, cur.X), Y: min(lo.Y, cur.Y)}
			hi = ui.Point{X: max(hi.X, cur.X), Y: max(hi.Y, cur.Y)}
			f.u.DisplayStickRange(cur, lo, hi)
		})
	case padTestSkipping:
		var trail []ui.Point
		f.live(func() {
			trail = append(trail, f.pad.Poll().Stick)
			if len(trail) > trailLen {
				trail = trail[len(trail)-trailLen:]
			}
			f.u.DisplayStickSkipping(trail)
		})
	case padTestBenchmark:
		f.benchmark()
	}
}

// live redraws a controller screen until any gesture. Backends without live
// input get one snapshot and a wait instead.
func (f *Firmware) live(draw func()) {
	if !f.u.SupportsLiveInput() {
		draw()
		f.u.Wait()
		return
	}
	for {
		draw()
		if f.u.CheckGesture() != gesture.None {
			return
		}
		f.dev.Clock.Sleep(padRefresh)
	}
}

// benchmark samples the stick once per direction, each on a button press.
func (f *Firmware) benchmark() {
	results := make([]ui.Point, 0, len(ui.Directions))
	for step := range ui.Directions {
		f.u.DisplayBenchmark(step, results)
		f.u.Wait()
		results = append(results, f.pad.Poll().Stick)
		f.dev.Log.Debug().Str("dir", ui.Directions[step]).
			Int8("x", results[step].X).Int8("y", results[step].Y).Msg("app: benchmark sample")
	}
	f.u.DisplayBenchmark(len(ui.Directions), results)
	f.u.Wait()
}
