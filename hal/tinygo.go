//go:build tinygo && baremetal

package hal

import (
	"device/arm"
	"image/color"
	"machine"

	"github.com/jonboulle/clockwork"
	"tinygo.org/x/drivers/ssd1306"
)

const (
	oledWidth   = 128
	oledHeight  = 64
	oledAddress = 0x3C
)

type tinyGoHAL struct {
	logger  *uartLogger
	led     *pinRGB
	fb      *MemFramebuffer
	buttons Buttons
	serial  *uartSerial
	flash   Flash
	clock   clockwork.Clock
}

// New returns the Pico board HAL.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// OLED: SSD1306 128x64 on I2C0, GP4 (SDA) / GP5 (SCL).
// Buttons: GP2 (primary), GP3 (secondary), active low with pull-ups.
// RGB LED: GP10 / GP11 / GP12.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	i2c := machine.I2C0
	i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.GP4,
		SCL:       machine.GP5,
	})
	oled := ssd1306.NewI2C(i2c)
	oled.Configure(ssd1306.Config{
		Address: oledAddress,
		Width:   oledWidth,
		Height:  oledHeight,
	})
	oled.ClearDisplay()

	return &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		led:    newPinRGB(machine.GP10, machine.GP11, machine.GP12),
		fb:     NewFramebuffer(oledWidth, oledHeight, oledSink(oled)),
		buttons: NewButtons(
			newMachinePin("BTN1", machine.GP2),
			newMachinePin("BTN2", machine.GP3),
		),
		serial: &uartSerial{uart: uart},
		flash:  newBoardFlash(),
		clock:  clockwork.NewRealClock(),
	}
}

func (h *tinyGoHAL) Logger() Logger         { return h.logger }
func (h *tinyGoHAL) LED() StatusLED         { return h.led }
func (h *tinyGoHAL) Display() Display       { return tinyGoDisplay{fb: h.fb} }
func (h *tinyGoHAL) Buttons() Buttons       { return h.buttons }
func (h *tinyGoHAL) Serial() Serial         { return h.serial }
func (h *tinyGoHAL) Flash() Flash           { return h.flash }
func (h *tinyGoHAL) Card() Card             { return sdSlot{} }
func (h *tinyGoHAL) Clock() clockwork.Clock { return h.clock }

func (h *tinyGoHAL) Reset() {
	h.logger.WriteLineString("hal: reset")
	arm.SystemReset()
	select {}
}

// oledSink pushes an RGB565 frame to the monochrome panel; any non-black
// pixel is lit.
func oledSink(dev *ssd1306.Device) func(frame []byte, width, height int) error {
	on := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	off := color.RGBA{A: 0xFF}
	return func(frame []byte, width, height int) error {
		for y := 0; y < height; y++ {
			row := frame[y*width*2:]
			for x := 0; x < width; x++ {
				c := off
				if row[x*2] != 0 || row[x*2+1] != 0 {
					c = on
				}
				dev.SetPixel(int16(x), int16(y), c)
			}
		}
		return dev.Display()
	}
}
