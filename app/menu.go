package app

import (
	"fmt"
	"time"

	"cartreader/hal"
	"cartreader/internal/buildinfo"
	"cartreader/ui"
	"cartreader/ui/gesture"
)

const (
	menuControllerTest = iota
	menuNumberEntry
	menuBrowse
	menuDump
	menuSDInfo
	menuAbout
	menuReset
)

var mainMenu = []string{
	"Controller Test",
	"Number Entry",
	"Browse ROMs",
	"Dump Demo",
	"SD Info",
	"About",
	"Reset",
}

const (
	dumpBytes = 64 * 1024
	dumpChunk = 2 * 1024
	dumpDelay = 10 * time.Millisecond
	romCount  = 40
)

// Firmware is the menu driver on top of one UserInterface.
type Firmware struct {
	u    ui.UserInterface
	dev  *ui.Device
	pad  Controller
	card hal.Card

	selected int
}

// NewFirmware drives u. A nil pad uses the simulated controller; a nil card
// reports an empty slot.
func NewFirmware(u ui.UserInterface, pad Controller, card hal.Card) *Firmware {
	dev := u.Device()
	if pad == nil {
		pad = NewSimPad(dev.Clock)
	}
	return &Firmware{u: u, dev: dev, pad: pad, card: card}
}

// Step shows the main menu once and runs the chosen entry.
func (f *Firmware) Step() {
	f.dev.ClearError()
	if f.dev.Color() != ui.ColorBlue {
		f.dev.SetColor(ui.ColorBlue)
	}

	choice := f.u.AskMultipleChoiceQuestion("Main Menu", mainMenu, f.selected, true)
	if choice < 0 || choice >= len(mainMenu) {
		return
	}
	f.selected = choice
	f.dev.Log.Info().Str("entry", mainMenu[choice]).Msg("app: menu")

	switch choice {
	case menuControllerTest:
		f.controllerTest()
	case menuNumberEntry:
		f.numberEntry()
	case menuBrowse:
		f.browse()
	case menuDump:
		f.dump()
	case menuSDInfo:
		f.sdInfo()
	case menuAbout:
		f.about()
	case menuReset:
		f.dev.Reset()
	}
}

func (f *Firmware) numberEntry() {
	v := ui.ReadNumberInRange(f.u, "Players (1-255)", "Out of range", 3, 1, 1, 255)
	f.u.Clear()
	f.u.DisplayMessage(fmt.Sprintf("Entered %d", v))
}

func (f *Firmware) browse() {
	i := 0
	src := ui.AnswerFunc(func() string {
		if i >= romCount {
			return ""
		}
		i++
		return fmt.Sprintf("GAME%02d.Z64", i)
	})

	name := f.u.AskQuestionWithPagedAnswers("Select ROM", src)
	if name == "" {
		return
	}
	f.u.Clear()
	f.u.DisplayMessage("Selected " + name)
}

// dump simulates a cartridge dump into the next folder.
func (f *Firmware) dump() {
	folder, err := f.dev.NextFolder()
	if err != nil {
		f.u.Clear()
		f.u.ReportError(err.Error(), false)
		return
	}

	f.u.Clear()
	f.u.Println(fmt.Sprintf("Folder %d", folder))
	f.u.Print("Reading ")
	f.u.PrintValue(dumpBytes)
	f.u.Println(" bytes")
	f.u.Update()

	bar := ui.NewProgressBar(f.u)
	var sum byte
	for done := uint64(0); done <= dumpBytes; done += dumpChunk {
		bar.Draw(done, dumpBytes)
		sum += byte(done >> 8)
		f.dev.Clock.Sleep(dumpDelay)
	}
	f.u.Print("Checksum ")
	f.u.PrintByte(sum, ui.Hex)
	f.u.Println("")

	f.dev.SetColor(ui.ColorGreen)
	f.u.DisplayMessage("Done")
}

func (f *Firmware) sdInfo() {
	f.u.Clear()
	if f.card == nil {
		f.u.DisplayMessage("No SD card")
		return
	}
	ci, err := f.card.Info()
	if err != nil {
		f.u.ReportError(err.Error(), false)
		return
	}

	info := ui.SDInfo{
		Type:       ci.Type,
		FileSystem: ci.FileSystem,
		CapacityMB: uint32(ci.SizeBytes >> 20),
		FreeMB:     uint32(ci.FreeBytes >> 20),
	}
	if f.u.SupportsSDInfoDisplay() {
		f.u.DisplaySDInfo(info)
		f.u.Wait()
		return
	}
	f.u.DisplayMessage(fmt.Sprintf("%s %s %dMB", info.Type, info.FileSystem, info.CapacityMB))
}

// about shows the version. Click leaves; a long hold resets the folder
// counter.
func (f *Firmware) about() {
	folder, err := f.dev.Folder()
	if err != nil {
		f.dev.Log.Error().Err(err).Msg("app: folder counter")
	}

	f.u.Clear()
	f.u.Println("Cartridge Reader")
	f.u.Println(buildinfo.Short())
	f.u.Println("")
	f.u.Print("Folder ")
	f.u.PrintValue(uint64(folder))
	f.u.Println("")
	f.u.Println("")
	f.u.Println("Hold 5s: reset folder")
	f.u.Update()

	for {
		switch f.u.WaitGesture() {
		case gesture.Hold:
			continue
		case gesture.LongHold:
			if err := f.dev.ResetFolder(); err != nil {
				f.u.Clear()
				f.u.ReportError(err.Error(), false)
				return
			}
			f.u.Clear()
			f.u.DisplayMessage("Folder reset")
			return
		default:
			return
		}
	}
}
