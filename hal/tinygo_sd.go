//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"

	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/tinyfs/fatfs"
)

// sdSlot probes the card on SPI0: GP18 (SCK), GP19 (SDO), GP16 (SDI),
// GP17 (CS). The card is opened for each probe so it can be swapped.
type sdSlot struct{}

func (sdSlot) Info() (CardInfo, error) {
	sd := sdcard.New(machine.SPI0, machine.GP18, machine.GP19, machine.GP16, machine.GP17)
	if err := sd.Configure(); err != nil {
		return CardInfo{}, fmt.Errorf("sd: configure: %w", err)
	}

	size := uint64(sd.Size())
	info := CardInfo{Type: CardType(size), FileSystem: "unknown", SizeBytes: size}

	fat := fatfs.New(&sd).Configure(&fatfs.Config{SectorSize: fatfs.SectorSize})
	if err := fat.Mount(); err != nil {
		// Removable media is never formatted here.
		return info, nil
	}
	defer func() { _ = fat.Unmount() }()
	info.FileSystem = "FAT"
	return info, nil
}
