package gesture

import (
	"cartreader/hal"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Channel identifies a physical button.
type Channel uint8

const (
	Primary Channel = iota
	Secondary
)

func (c Channel) String() string {
	if c == Secondary {
		return "secondary"
	}
	return "primary"
}

type channel struct {
	id  Channel
	pin hal.GPIOPin
	rec *Recognizer
}

// Poller samples the button lines and reports one gesture per call.
//
// Any gesture on the secondary button is reported as Hold; it acts as a
// dedicated confirm key.
type Poller struct {
	clock     clockwork.Clock
	log       zerolog.Logger
	primary   *channel
	secondary *channel
}

// NewPoller builds a poller for the given lines; either may be nil.
func NewPoller(clock clockwork.Clock, timing Timing, activeLow bool, primary, secondary hal.GPIOPin, log zerolog.Logger) *Poller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	p := &Poller{clock: clock, log: log}
	p.primary = newChannel(Primary, primary, timing, activeLow, log)
	p.secondary = newChannel(Secondary, secondary, timing, activeLow, log)
	return p
}

func newChannel(id Channel, pin hal.GPIOPin, timing Timing, activeLow bool, log zerolog.Logger) *channel {
	if pin == nil {
		return nil
	}
	pull := hal.GPIOPullDown
	if activeLow {
		pull = hal.GPIOPullUp
	}
	if pin.Caps()&hal.GPIOCapPullUp == 0 && pull == hal.GPIOPullUp ||
		pin.Caps()&hal.GPIOCapPullDown == 0 && pull == hal.GPIOPullDown {
		pull = hal.GPIOPullNone
	}
	if err := pin.Configure(hal.GPIOModeInput, pull); err != nil {
		log.Warn().Err(err).Stringer("channel", id).Msg("gesture: configure button")
	}
	return &channel{id: id, pin: pin, rec: NewRecognizer(timing, activeLow)}
}

// Poll samples the lines once.
func (p *Poller) Poll() Event {
	if p.secondary != nil {
		if ev := p.sample(p.secondary); ev != None {
			p.log.Debug().Stringer("event", ev).Msg("gesture: secondary")
			return Hold
		}
	}
	if p.primary == nil {
		return None
	}
	ev := p.sample(p.primary)
	if ev != None {
		p.log.Debug().Stringer("event", ev).Msg("gesture: primary")
	}
	return ev
}

func (p *Poller) sample(c *channel) Event {
	level, err := c.pin.Read()
	if err != nil {
		p.log.Error().Err(err).Stringer("channel", c.id).Msg("gesture: read button")
		return None
	}
	return c.rec.Update(level, p.clock.Now())
}

// Configured reports whether any button is attached.
func (p *Poller) Configured() bool {
	return p.primary != nil || p.secondary != nil
}
