//go:build tinygo && baremetal && !(rp2040 || rp2350)

package hal

// No on-chip flash driver; the folder counter stays in RAM.
func newBoardFlash() Flash { return nil }
