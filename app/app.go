// Package app is the reader firmware: it builds the configured user
// interface and runs the main menu on it.
package app

import (
	"errors"
	"fmt"
	"runtime/debug"

	"cartreader/hal"
	"cartreader/internal/config"
	"cartreader/ui"
	"cartreader/ui/gesture"
	"cartreader/ui/nullui"
	"cartreader/ui/oled"
	"cartreader/ui/serialterm"

	"github.com/rs/zerolog"
)

// ErrHalted is returned by Run when the interface halted the session and
// Options.ReturnOnHalt is set.
var ErrHalted = errors.New("app: halted")

type Options struct {
	Config  config.Config
	Log     zerolog.Logger
	Folders ui.FolderStore

	// Pad feeds the controller screens; nil uses a simulated controller.
	Pad Controller

	// ReturnOnHalt makes Run return ErrHalted instead of parking forever.
	ReturnOnHalt bool
}

// NewUI builds the backend named by opts.Config.UI.
func NewUI(h hal.HAL, opts Options) (ui.UserInterface, error) {
	cfg := opts.Config
	dev := ui.NewDevice(h, opts.Log, opts.Folders)

	switch cfg.UI {
	case config.UIOLED:
		disp := h.Display()
		if disp == nil || disp.Framebuffer() == nil {
			return nil, errors.New("app: oled ui needs a display")
		}

		var primary, secondary hal.GPIOPin
		if btn := h.Buttons(); btn != nil {
			primary = btn.Primary()
			if cfg.Buttons.Secondary {
				secondary = btn.Secondary()
			}
		}
		timing := gesture.Timing{
			Debounce:       cfg.Buttons.Debounce.Duration,
			DoubleClickGap: cfg.Buttons.DoubleClickGap.Duration,
			Hold:           cfg.Buttons.Hold.Duration,
			LongHold:       cfg.Buttons.LongHold.Duration,
		}
		input := gesture.NewPoller(dev.Clock, timing, cfg.Buttons.ActiveLow, primary, secondary, opts.Log)
		if !input.Configured() {
			opts.Log.Warn().Msg("app: no buttons attached")
		}

		return oled.New(dev, disp.Framebuffer(), input, oled.Config{
			Rows:      cfg.Display.Rows,
			PageSize:  cfg.Display.PageSize,
			Poll:      cfg.Buttons.Poll.Duration,
			IdleCycle: cfg.Display.IdleCycle.Duration,
		}), nil

	case config.UISerial:
		port := h.Serial()
		if port == nil {
			return nil, errors.New("app: serial ui needs a serial port")
		}
		return serialterm.New(dev, port, serialterm.Config{PageSize: cfg.Serial.PageSize}), nil

	case config.UITest:
		return nullui.New(dev), nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownUI, cfg.UI)
}

// halted unwinds Run when the session halts and ReturnOnHalt is set.
type halted struct{}

// Run builds the interface, initializes it and runs the main menu. It only
// returns on a setup error, a halt with ReturnOnHalt set, or a panic, which
// is shown on the fatal screen first.
func Run(h hal.HAL, opts Options) (err error) {
	if err := opts.Config.Validate(); err != nil {
		return err
	}
	u, err := NewUI(h, opts)
	if err != nil {
		return err
	}
	if opts.ReturnOnHalt {
		u.Device().Halt = func() { panic(halted{}) }
	}

	defer func() {
		v := recover()
		if v == nil {
			return
		}
		switch v.(type) {
		case hal.ResetRequest:
			panic(v)
		case halted:
			err = ErrHalted
			return
		}
		Fatal(h, v, debug.Stack())
		err = fmt.Errorf("app: panic: %v", v)
	}()

	if err := u.Initialize(); err != nil {
		return fmt.Errorf("app: initialize %s ui: %w", opts.Config.UI, err)
	}
	opts.Log.Info().Str("ui", opts.Config.UI).Msg("app: started")

	fw := NewFirmware(u, opts.Pad, h.Card())
	for {
		fw.Step()
	}
}
