package oled

import (
	"cartreader/ui"
	"cartreader/ui/gesture"
)

// hueSteps is the length of one trip around the color wheel.
const hueSteps = 3 * 256

func (b *Backend) Wait() {
	b.waitGesture()
}

func (b *Backend) WaitGesture() gesture.Event {
	return b.waitGesture()
}

func (b *Backend) CheckGesture() gesture.Event {
	b.dev.RunIdle()
	return b.poll()
}

// waitGesture blocks until a gesture arrives. Idle hooks run between
// samples and the LED starts cycling once the user has been away long
// enough.
func (b *Backend) waitGesture() gesture.Event {
	for {
		if ev := b.poll(); ev != gesture.None {
			return ev
		}
		b.dev.RunIdle()
		b.ambient()
		b.dev.Clock.Sleep(b.cfg.Poll)
	}
}

func (b *Backend) poll() gesture.Event {
	if b.input == nil {
		return gesture.None
	}
	ev := b.input.Poll()
	if ev == gesture.None {
		return ev
	}

	b.lastInput = b.dev.Clock.Now()
	if b.cycling {
		b.cycling = false
		c := b.dev.Color()
		b.dev.LED.SetRGB(c.R, c.G, c.B)
		b.dev.Log.Debug().Msg("oled: idle cycle stopped")
	}
	return ev
}

// ambient steps the LED around the color wheel while idle. The status
// color is restored on the next gesture.
func (b *Backend) ambient() {
	if b.dev.LED == nil {
		return
	}
	now := b.dev.Clock.Now()
	if now.Sub(b.lastInput) < b.cfg.IdleCycle {
		return
	}
	if !b.cycling {
		b.cycling = true
		b.nextCycle = now
		b.dev.Log.Debug().Msg("oled: idle cycle started")
	}
	if now.Before(b.nextCycle) {
		return
	}
	b.nextCycle = now.Add(b.cfg.CycleStep)

	b.hue = (b.hue + 8) % hueSteps
	c := wheel(b.hue)
	b.dev.LED.SetRGB(c.R, c.G, c.B)
}

// wheel maps h in [0, hueSteps) to a fully saturated color.
func wheel(h int) ui.Color {
	v := uint8(h % 256)
	switch h / 256 {
	case 0:
		return ui.Color{R: 255 - v, G: v}
	case 1:
		return ui.Color{G: 255 - v, B: v}
	default:
		return ui.Color{R: v, B: 255 - v}
	}
}
