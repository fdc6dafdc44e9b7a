package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"cartreader/fonts/font6x8"
	"cartreader/hal"

	"tinygo.org/x/tinyfont"
)

// Fatal reports an unrecoverable panic value on the board logger and draws
// it on the display. The caller decides whether to halt.
func Fatal(h hal.HAL, v any, stack []byte) {
	if l := h.Logger(); l != nil {
		l.WriteLineString(fmt.Sprintf("fatal: %v", v))
		for _, line := range strings.Split(string(stack), "\n") {
			if line != "" {
				l.WriteLineString(line)
			}
		}
	}
	if led := h.LED(); led != nil {
		led.SetRGB(0xFF, 0, 0)
	}

	disp := h.Display()
	if disp == nil {
		return
	}
	fb := disp.Framebuffer()
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return
	}

	fb.ClearRGB(0, 0, 0)
	d := fatalDisplay{fb: fb}
	fg := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	cols := fb.Width() / font6x8.Width
	rows := fb.Height() / font6x8.Height
	if cols <= 0 || rows <= 0 {
		_ = fb.Present()
		return
	}

	lines := []string{"FATAL", fmt.Sprint(v)}
	row := 0
	for _, line := range lines {
		for len(line) > 0 && row < rows {
			chunk, rest := takeRunes(line, cols)
			drawTextLine(d, 0, int16(row*font6x8.Height), chunk, fg)
			row++
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

func drawTextLine(d fatalDisplay, x0, y0 int16, s string, fg color.RGBA) {
	x := x0
	for _, r := range s {
		tinyfont.DrawChar(d, font6x8.Font, x, y0+font6x8.Ascent, r, fg)
		x += font6x8.Width
	}
}

type fatalDisplay struct {
	fb hal.Framebuffer
}

func (d fatalDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d fatalDisplay) SetPixel(x, y int16, c color.RGBA) {
	buf := d.fb.Buffer()
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}

	pixel := uint16((uint16(c.R>>3)&0x1F)<<11 | (uint16(c.G>>2)&0x3F)<<5 | (uint16(c.B>>3) & 0x1F))
	off := iy*d.fb.StrideBytes() + ix*2
	if off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d fatalDisplay) Display() error { return nil }

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	i, count := 0, 0
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
