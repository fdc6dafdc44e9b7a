//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/jonboulle/clockwork"
)

const (
	hostDisplayWidth  = 128
	hostDisplayHeight = 64
)

// HostConfig describes the simulated board.
type HostConfig struct {
	Width  int
	Height int

	// SerialPort selects a real serial device for the text terminal.
	// Empty means stdin/stdout.
	SerialPort string
	Baud       int

	FlashPath string

	ActiveLow bool
	Secondary bool

	// Script and SecondaryScript are press timelines replayed in headless mode.
	Script          string
	SecondaryScript string
}

type hostHAL struct {
	cfg     HostConfig
	logger  *hostLogger
	led     *hostLED
	fb      *MemFramebuffer
	buttons Buttons
	keys    [2]*VirtualPin
	serial  *hostSerial
	flash   *FileFlash
	clock   clockwork.Clock
}

func newHostHAL(cfg HostConfig, clock clockwork.Clock) (*hostHAL, error) {
	if cfg.Width <= 0 {
		cfg.Width = hostDisplayWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = hostDisplayHeight
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	serial, err := openHostSerial(cfg.SerialPort, cfg.Baud)
	if err != nil {
		return nil, err
	}

	logger := &hostLogger{w: os.Stderr}
	return &hostHAL{
		cfg:    cfg,
		logger: logger,
		led:    &hostLED{logger: logger},
		fb:     NewFramebuffer(cfg.Width, cfg.Height, nil),
		serial: serial,
		flash:  openHostFlash(cfg.FlashPath),
		clock:  clock,
	}, nil
}

// useVirtualButtons wires key-driven input lines.
func (h *hostHAL) useVirtualButtons() {
	idle := h.cfg.ActiveLow
	h.keys[0] = NewVirtualPin("BTN1", idle)
	var secondary GPIOPin
	if h.cfg.Secondary {
		h.keys[1] = NewVirtualPin("BTN2", idle)
		secondary = h.keys[1]
	}
	h.buttons = NewButtons(h.keys[0], secondary)
}

// useScriptedButtons wires timeline-driven input lines.
func (h *hostHAL) useScriptedButtons() error {
	idle := h.cfg.ActiveLow
	edges, err := ParseScript(h.cfg.Script, h.cfg.ActiveLow)
	if err != nil {
		return err
	}
	primary := NewScriptedPin("BTN1", idle, edges, h.clock)

	var secondary GPIOPin
	if h.cfg.Secondary {
		edges, err := ParseScript(h.cfg.SecondaryScript, h.cfg.ActiveLow)
		if err != nil {
			return err
		}
		secondary = NewScriptedPin("BTN2", idle, edges, h.clock)
	}
	h.buttons = NewButtons(primary, secondary)
	return nil
}

func (h *hostHAL) Logger() Logger         { return h.logger }
func (h *hostHAL) LED() StatusLED         { return h.led }
func (h *hostHAL) Display() Display       { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Buttons() Buttons       { return h.buttons }
func (h *hostHAL) Serial() Serial         { return h.serial }
func (h *hostHAL) Flash() Flash           { return h.flash }
func (h *hostHAL) Card() Card             { return hostCard{} }
func (h *hostHAL) Clock() clockwork.Clock { return h.clock }

func (h *hostHAL) Reset() {
	h.logger.WriteLineString("hal: reset")
	h.led.SetRGB(0, 0, 0)
	panic(ResetRequest{})
}

func (h *hostHAL) close() {
	if h.serial != nil {
		_ = h.serial.Close()
	}
	if h.flash != nil {
		_ = h.flash.Close()
	}
}

// runResettable calls run until it returns without requesting a reset.
func runResettable(h *hostHAL, run func(HAL) error) error {
	for {
		reset, err := runOnce(h, run)
		if !reset {
			return err
		}
	}
}

func runOnce(h *hostHAL, run func(HAL) error) (reset bool, err error) {
	defer func() {
		if v := recover(); v != nil {
			if _, ok := v.(ResetRequest); ok {
				reset = true
				return
			}
			panic(v)
		}
	}()
	return false, run(h)
}

// hostCard is a virtual 32GB card.
type hostCard struct{}

func (hostCard) Info() (CardInfo, error) {
	const size = 31914983424
	return CardInfo{
		Type:       CardType(size),
		FileSystem: "FAT32",
		SizeBytes:  size,
		FreeBytes:  29486694400,
	}, nil
}

type hostDisplay struct {
	fb *MemFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu      sync.Mutex
	r, g, b uint8
	logger  *hostLogger
	quiet   bool
}

func (l *hostLED) SetRGB(r, g, b uint8) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.r == r && l.g == g && l.b == b {
		return
	}
	l.r, l.g, l.b = r, g, b
	if !l.quiet {
		l.logger.WriteLineString(fmt.Sprintf("led: rgb(%d,%d,%d)", r, g, b))
	}
}

func (l *hostLED) rgb() (r, g, b uint8) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r, l.g, l.b
}
