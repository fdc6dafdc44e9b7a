//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHeadlessRestartsAfterReset(t *testing.T) {
	t.Parallel()

	hcfg := HostConfig{
		FlashPath: filepath.Join(t.TempDir(), "test.flash"),
		ActiveLow: true,
		Script:    "press@0s",
	}

	var starts int
	errDone := errors.New("done")
	err := RunHeadless(context.Background(), hcfg, HeadlessConfig{}, func(h HAL) error {
		starts++
		if starts == 1 {
			h.Reset()
		}
		level, err := h.Buttons().Primary().Read()
		assert.NoError(t, err)
		assert.False(t, level, "scripted press drives the active-low line low")
		assert.Nil(t, h.Buttons().Secondary())
		return errDone
	})
	assert.ErrorIs(t, err, errDone)
	assert.Equal(t, 2, starts)
}

func TestFrameText(t *testing.T) {
	t.Parallel()

	fb := NewFramebuffer(3, 2, nil)
	copy(fb.Buffer()[2:4], []byte{0xFF, 0xFF})
	require.NoError(t, fb.Present())
	assert.Equal(t, []string{".#.", "..."}, frameText(fb))
}

func TestRunHeadlessRejectsBadScript(t *testing.T) {
	t.Parallel()

	hcfg := HostConfig{
		FlashPath: filepath.Join(t.TempDir(), "test.flash"),
		Script:    "poke@1s",
	}
	err := RunHeadless(context.Background(), hcfg, HeadlessConfig{}, func(HAL) error { return nil })
	assert.Error(t, err)
}
