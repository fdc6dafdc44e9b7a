// Package config holds the reader settings. Hosts load them from TOML; the
// device runs on Default.
package config

import (
	"errors"
	"fmt"
	"time"
)

// UI backend names.
const (
	UIOLED   = "oled"
	UISerial = "serial"
	UITest   = "test"
)

var ErrUnknownUI = errors.New("config: unknown ui backend")

// Duration is a time.Duration written as "250ms" in TOML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("config: duration %q: %w", b, err)
	}
	d.Duration = v
	return nil
}

type Buttons struct {
	Debounce       Duration `toml:"debounce"`
	DoubleClickGap Duration `toml:"double_click_gap"`
	Hold           Duration `toml:"hold"`
	LongHold       Duration `toml:"long_hold"`
	Poll           Duration `toml:"poll"`
	ActiveLow      bool     `toml:"active_low"`
	Secondary      bool     `toml:"secondary"`
}

type Display struct {
	Width     int      `toml:"width"`
	Height    int      `toml:"height"`
	Rows      int      `toml:"rows"`
	PageSize  int      `toml:"page_size"`
	IdleCycle Duration `toml:"idle_cycle"`
}

type Serial struct {
	Port     string `toml:"port"`
	Baud     int    `toml:"baud"`
	PageSize int    `toml:"page_size"`
}

type Storage struct {
	Path      string `toml:"path"`
	FlashPath string `toml:"flash_path"`
}

type Log struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type Config struct {
	UI      string  `toml:"ui"`
	Buttons Buttons `toml:"buttons"`
	Display Display `toml:"display"`
	Serial  Serial  `toml:"serial"`
	Storage Storage `toml:"storage"`
	Log     Log     `toml:"log"`
}

// Default returns the stock configuration: the OLED backend on a 128x64
// panel with two active-low buttons.
func Default() Config {
	return Config{
		UI: UIOLED,
		Buttons: Buttons{
			Debounce:       Duration{20 * time.Millisecond},
			DoubleClickGap: Duration{250 * time.Millisecond},
			Hold:           Duration{2 * time.Second},
			LongHold:       Duration{5 * time.Second},
			Poll:           Duration{time.Millisecond},
			ActiveLow:      true,
			Secondary:      true,
		},
		Display: Display{
			Width:     128,
			Height:    64,
			Rows:      8,
			PageSize:  14,
			IdleCycle: Duration{300 * time.Second},
		},
		Serial: Serial{
			Baud:     9600,
			PageSize: 20,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Validate rejects unknown backends and pulls other values back into range.
func (c *Config) Validate() error {
	switch c.UI {
	case UIOLED, UISerial, UITest:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownUI, c.UI)
	}

	def := Default()
	b := &c.Buttons
	if b.Debounce.Duration < 0 {
		b.Debounce = def.Buttons.Debounce
	}
	if b.DoubleClickGap.Duration <= b.Debounce.Duration {
		b.DoubleClickGap = def.Buttons.DoubleClickGap
	}
	if b.Hold.Duration <= 0 {
		b.Hold = def.Buttons.Hold
	}
	if b.LongHold.Duration < b.Hold.Duration {
		b.LongHold = b.Hold
	}
	if b.Poll.Duration <= 0 {
		b.Poll = def.Buttons.Poll
	}

	d := &c.Display
	if d.Width < 8 || d.Height < 8 {
		d.Width, d.Height = def.Display.Width, def.Display.Height
	}
	if maxRows := d.Height / 8; d.Rows < 2 || d.Rows > maxRows {
		d.Rows = maxRows
	}
	if d.PageSize < 1 {
		d.PageSize = def.Display.PageSize
	}
	if d.IdleCycle.Duration <= 0 {
		d.IdleCycle = def.Display.IdleCycle
	}

	if c.Serial.Baud <= 0 {
		c.Serial.Baud = def.Serial.Baud
	}
	if c.Serial.PageSize < 1 {
		c.Serial.PageSize = def.Serial.PageSize
	}
	return nil
}
