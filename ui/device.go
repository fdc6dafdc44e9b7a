package ui

import (
	"fmt"

	"cartreader/hal"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Color is an RGB status LED value.
type Color struct {
	R, G, B uint8
}

var (
	ColorOff   = Color{}
	ColorRed   = Color{R: 0xFF}
	ColorGreen = Color{G: 0xFF}
	ColorBlue  = Color{B: 0xFF}
	ColorWhite = Color{R: 0xFF, G: 0xFF, B: 0xFF}
)

// FolderStore persists the dump folder counter.
type FolderStore interface {
	LoadFolder() (uint32, error)
	StoreFolder(n uint32) error
}

// Device is the state shared by the firmware and the active backend: the
// error flag, the status LED and the folder counter.
type Device struct {
	Log     zerolog.Logger
	Clock   clockwork.Clock
	LED     hal.StatusLED
	Folders FolderStore

	// Reset restarts the device and must not return.
	Reset func()
	// Halt parks the firmware forever.
	Halt func()

	idle    []func()
	errored bool
	color   Color
}

// NewDevice wires a Device to the board.
func NewDevice(h hal.HAL, log zerolog.Logger, folders FolderStore) *Device {
	return &Device{
		Log:     log,
		Clock:   h.Clock(),
		LED:     h.LED(),
		Folders: folders,
		Reset:   h.Reset,
		Halt:    func() { select {} },
	}
}

// SetColor sets the status LED.
func (d *Device) SetColor(c Color) {
	d.color = c
	if d.LED != nil {
		d.LED.SetRGB(c.R, c.G, c.B)
	}
}

// Color returns the status color last set through SetColor.
func (d *Device) Color() Color { return d.color }

// SetError marks the session as failed and turns the LED red.
func (d *Device) SetError() {
	d.errored = true
	d.SetColor(ColorRed)
}

// ClearError resets the error flag.
func (d *Device) ClearError() {
	d.errored = false
}

// Errored reports whether an error was reported since the last ClearError.
func (d *Device) Errored() bool { return d.errored }

// OnIdle registers fn to run on every iteration of a blocking input wait,
// e.g. to keep an attached accessory polled.
func (d *Device) OnIdle(fn func()) {
	d.idle = append(d.idle, fn)
}

// RunIdle runs the idle hooks once.
func (d *Device) RunIdle() {
	for _, fn := range d.idle {
		fn()
	}
}

// Folder returns the persisted folder counter.
func (d *Device) Folder() (uint32, error) {
	if d.Folders == nil {
		return 0, nil
	}
	n, err := d.Folders.LoadFolder()
	if err != nil {
		return 0, fmt.Errorf("ui: load folder counter: %w", err)
	}
	return n, nil
}

// NextFolder increments the folder counter and returns the new value.
func (d *Device) NextFolder() (uint32, error) {
	n, err := d.Folder()
	if err != nil {
		return 0, err
	}
	n++
	if d.Folders != nil {
		if err := d.Folders.StoreFolder(n); err != nil {
			return 0, fmt.Errorf("ui: store folder counter: %w", err)
		}
	}
	return n, nil
}

// ResetFolder sets the folder counter back to zero.
func (d *Device) ResetFolder() error {
	if d.Folders == nil {
		return nil
	}
	if err := d.Folders.StoreFolder(0); err != nil {
		return fmt.Errorf("ui: reset folder counter: %w", err)
	}
	d.Log.Info().Msg("ui: folder counter reset")
	return nil
}
