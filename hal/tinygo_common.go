//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
	"time"
)

type tinyGoDisplay struct {
	fb Framebuffer
}

func (d tinyGoDisplay) Framebuffer() Framebuffer { return d.fb }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

// pinRGB drives a common-cathode RGB LED from three plain outputs; a channel
// is on at half intensity or above.
type pinRGB struct {
	r, g, b machine.Pin
}

func newPinRGB(r, g, b machine.Pin) *pinRGB {
	for _, p := range []machine.Pin{r, g, b} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
	return &pinRGB{r: r, g: g, b: b}
}

func (l *pinRGB) SetRGB(r, g, b uint8) {
	l.r.Set(r >= 0x80)
	l.g.Set(g >= 0x80)
	l.b.Set(b >= 0x80)
}

// machinePin is a button input on a real GPIO.
type machinePin struct {
	name string
	pin  machine.Pin
}

func newMachinePin(name string, pin machine.Pin) *machinePin {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &machinePin{name: name, pin: pin}
}

func (p *machinePin) Name() string   { return p.name }
func (p *machinePin) Caps() GPIOCaps { return GPIOCapInput | GPIOCapPullUp | GPIOCapPullDown }

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	if mode != GPIOModeInput {
		return fmt.Errorf("gpio: pin %s: only input supported", p.name)
	}
	switch pull {
	case GPIOPullNone:
		p.pin.Configure(machine.PinConfig{Mode: machine.PinInput})
	case GPIOPullUp:
		p.pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	case GPIOPullDown:
		p.pin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	default:
		return fmt.Errorf("gpio: pin %s: invalid pull", p.name)
	}
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *machinePin) Write(level bool) error {
	_ = level
	return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
}

type uartSerial struct {
	uart *machine.UART
}

func (s *uartSerial) Read(p []byte) (int, error) {
	if s.uart == nil {
		return 0, ErrNotImplemented
	}
	// UART reads never block; spin until a byte shows up so line readers
	// see a blocking stream.
	for s.uart.Buffered() == 0 {
		time.Sleep(time.Millisecond)
	}
	return s.uart.Read(p)
}

func (s *uartSerial) Write(p []byte) (int, error) {
	if s.uart == nil {
		return 0, ErrNotImplemented
	}
	return s.uart.Write(p)
}
