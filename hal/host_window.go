//go:build !tinygo && cgo

package hal

import (
	"errors"
	"image"
	"image/color"

	"cartreader/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	windowScale     = 4
	windowLEDStripe = 4
)

// RunWindow opens a desktop window that shows the display and maps keys to
// the buttons: Space or Enter is the primary button, Tab the secondary one.
// It blocks until the window closes or the firmware returns.
func RunWindow(hcfg HostConfig, run func(HAL) error) error {
	h, err := newHostHAL(hcfg, nil)
	if err != nil {
		return err
	}
	defer h.close()
	h.useVirtualButtons()
	h.led.quiet = true

	g := &hostGame{h: h, done: make(chan error, 1)}
	go func() {
		g.done <- runResettable(h, run)
	}()

	ebiten.SetWindowTitle("Cartridge Reader (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.Width()*windowScale, (h.fb.Height()+windowLEDStripe)*windowScale)
	ebiten.SetTPS(120)
	err = ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return g.result
	}
	return err
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	done    chan error
	result  error
}

func (g *hostGame) Update() error {
	select {
	case err := <-g.done:
		g.result = err
		return ebiten.Termination
	default:
	}

	pressed := ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsKeyPressed(ebiten.KeyEnter)
	g.h.keys[0].Set(pressed != g.h.cfg.ActiveLow)
	if g.h.keys[1] != nil {
		g.h.keys[1].Set(ebiten.IsKeyPressed(ebiten.KeyTab) != g.h.cfg.ActiveLow)
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	w, h := fb.Width(), fb.Height()
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		g.scratch = make([]byte, len(fb.Buffer()))
		g.fbImg = ebiten.NewImage(w, h)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb565To888(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)

	r, gg, b := g.h.led.rgb()
	led := screen.SubImage(image.Rect(0, h, w, h+windowLEDStripe)).(*ebiten.Image)
	led.Fill(color.RGBA{R: r, G: gg, B: b, A: 0xFF})
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.Width(), g.h.fb.Height() + windowLEDStripe
}
