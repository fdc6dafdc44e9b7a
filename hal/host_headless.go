//go:build !tinygo

package hal

import (
	"context"
	"strings"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool

	// Duration stops the runner after the given time (0 = run until the firmware returns).
	Duration time.Duration

	// DumpFrame logs the last presented frame as text when the runner stops.
	DumpFrame bool
}

// RunHeadless runs the firmware without opening a window. Buttons replay the
// press timelines from hcfg.
func RunHeadless(ctx context.Context, hcfg HostConfig, cfg HeadlessConfig, run func(HAL) error) error {
	h, err := newHostHAL(hcfg, nil)
	if err != nil {
		return err
	}
	defer h.close()
	if err := h.useScriptedButtons(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- runResettable(h, run)
	}()

	var timeout <-chan time.Time
	if cfg.Duration > 0 {
		timer := h.clock.NewTimer(cfg.Duration)
		defer timer.Stop()
		timeout = timer.Chan()
	}

	var result error
	select {
	case <-ctx.Done():
		result = ctx.Err()
	case err := <-done:
		result = err
	case <-timeout:
	}

	if cfg.DumpFrame {
		for _, line := range frameText(h.fb) {
			h.logger.WriteLineString(line)
		}
	}
	return result
}

// frameText renders the presented frame with one character per pixel.
func frameText(fb *MemFramebuffer) []string {
	lines := make([]string, 0, fb.Height())
	var sb strings.Builder
	for y := 0; y < fb.Height(); y++ {
		sb.Reset()
		for x := 0; x < fb.Width(); x++ {
			if fb.Lit(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		lines = append(lines, sb.String())
	}
	return lines
}
