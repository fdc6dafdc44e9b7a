package hal

import (
	"fmt"
	"sync"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps declares what operations a pin supports.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

// VirtualPin is an input line whose level is driven from software,
// e.g. by window key presses on the host.
type VirtualPin struct {
	mu    sync.Mutex
	name  string
	caps  GPIOCaps
	mode  GPIOMode
	pull  GPIOPull
	level bool
}

// NewVirtualPin returns an input pin resting at idle.
func NewVirtualPin(name string, idle bool) *VirtualPin {
	return &VirtualPin{
		name:  name,
		caps:  GPIOCapInput | GPIOCapPullUp | GPIOCapPullDown,
		mode:  GPIOModeInput,
		pull:  GPIOPullNone,
		level: idle,
	}
}

func (p *VirtualPin) Name() string   { return p.name }
func (p *VirtualPin) Caps() GPIOCaps { return p.caps }

func (p *VirtualPin) Configure(mode GPIOMode, pull GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if mode != GPIOModeInput {
		return fmt.Errorf("gpio: pin %s: only input supported", p.name)
	}

	switch pull {
	case GPIOPullNone:
	case GPIOPullUp:
		if p.caps&GPIOCapPullUp == 0 {
			return fmt.Errorf("gpio: pin %s: pull-up unsupported", p.name)
		}
	case GPIOPullDown:
		if p.caps&GPIOCapPullDown == 0 {
			return fmt.Errorf("gpio: pin %s: pull-down unsupported", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid pull", p.name)
	}

	p.mode = mode
	p.pull = pull
	return nil
}

func (p *VirtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *VirtualPin) Write(level bool) error {
	_ = level
	return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
}

// Set drives the line to level.
func (p *VirtualPin) Set(level bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
}

type buttonPair struct {
	primary   GPIOPin
	secondary GPIOPin
}

func (b buttonPair) Primary() GPIOPin   { return b.primary }
func (b buttonPair) Secondary() GPIOPin { return b.secondary }

// NewButtons bundles two lines into a Buttons. secondary may be nil.
func NewButtons(primary, secondary GPIOPin) Buttons {
	return buttonPair{primary: primary, secondary: secondary}
}
