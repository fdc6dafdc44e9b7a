package hal

import (
	"errors"

	"github.com/jonboulle/clockwork"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// StatusLED is the tri-color indicator next to the display.
type StatusLED interface {
	SetRGB(r, g, b uint8)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Buttons exposes the raw push-button lines.
//
// Secondary returns nil on boards with a single button.
type Buttons interface {
	Primary() GPIOPin
	Secondary() GPIOPin
}

// Serial is the byte stream to an attached terminal.
type Serial interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
}

// Flash is raw non-volatile memory addressed in bytes and erased in
// blocks. HAL.Flash returns nil on boards without it.
type Flash interface {
	SizeBytes() uint32
	EraseBlockBytes() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
	Erase(off, size uint32) error
}

// CardInfo describes the card in the storage slot.
type CardInfo struct {
	Type       string
	FileSystem string
	SizeBytes  uint64
	FreeBytes  uint64
}

// Card is the removable storage slot.
type Card interface {
	Info() (CardInfo, error)
}

// CardType names an SD card class by capacity.
func CardType(sizeBytes uint64) string {
	switch {
	case sizeBytes == 0:
		return "none"
	case sizeBytes <= 2<<30:
		return "SDSC"
	case sizeBytes <= 32<<30:
		return "SDHC"
	default:
		return "SDXC"
	}
}

// ResetRequest is the panic value a host Reset uses to unwind the running
// firmware back to the runner, which starts it again. Code that recovers
// panics must let it through.
type ResetRequest struct{}

// HAL provides the only contact point between the firmware and the outside world.
type HAL interface {
	Logger() Logger
	LED() StatusLED
	Display() Display
	Buttons() Buttons
	Serial() Serial
	Flash() Flash
	Card() Card
	Clock() clockwork.Clock

	// Reset restarts the device. It does not return.
	Reset()
}
