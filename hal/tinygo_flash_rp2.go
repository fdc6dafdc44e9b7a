//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"fmt"
	"machine"
)

// picoFlash exposes the on-chip QSPI flash past the firmware image. Only
// the folder counter lives there.
type picoFlash struct{}

func newBoardFlash() Flash { return picoFlash{} }

func (picoFlash) SizeBytes() uint32       { return clampU32(machine.Flash.Size()) }
func (picoFlash) EraseBlockBytes() uint32 { return clampU32(machine.Flash.EraseBlockSize()) }

func (picoFlash) ReadAt(p []byte, off uint32) (int, error) {
	n, err := machine.Flash.ReadAt(p, int64(off))
	if err != nil {
		return n, fmt.Errorf("flash: read %d bytes at %#x: %w", len(p), off, err)
	}
	return n, nil
}

func (picoFlash) WriteAt(p []byte, off uint32) (int, error) {
	n, err := machine.Flash.WriteAt(p, int64(off))
	if err != nil {
		return n, fmt.Errorf("flash: write %d bytes at %#x: %w", len(p), off, err)
	}
	return n, nil
}

func (f picoFlash) Erase(off, size uint32) error {
	block := f.EraseBlockBytes()
	switch {
	case size == 0:
		return nil
	case block == 0:
		return ErrNotImplemented
	case off%block != 0 || size%block != 0:
		return fmt.Errorf("flash: erase %#x+%d not block aligned", off, size)
	}
	if err := machine.Flash.EraseBlocks(int64(off/block), int64(size/block)); err != nil {
		return fmt.Errorf("flash: erase %#x+%d: %w", off, size, err)
	}
	return nil
}

func clampU32(v int64) uint32 {
	switch {
	case v <= 0:
		return 0
	case v > int64(^uint32(0)):
		return ^uint32(0)
	}
	return uint32(v)
}
