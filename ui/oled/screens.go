package oled

import (
	"fmt"
	"strings"

	"cartreader/ui"

	"tinygo.org/x/tinydraw"
)

// Stick plots use the right half of the panel.
const plotRadius = 30

func (b *Backend) DisplaySDInfo(info ui.SDInfo) {
	b.Clear()
	b.Println("SD Card Info")
	b.Println("")
	b.Println("Type: " + info.Type)
	b.Println("FS:   " + info.FileSystem)
	b.Println(fmt.Sprintf("Size: %dMB", info.CapacityMB))
	b.Println(fmt.Sprintf("Free: %dMB", info.FreeMB))
	b.Update()
}

func (b *Backend) DisplayControllerButtons(state ui.ControllerState) {
	b.Clear()
	b.Println("Button Test")
	b.Println("")
	for _, l := range wrap(strings.Join(state.Buttons, " "), b.cols) {
		b.Println(l)
	}
	b.col, b.row = 0, b.rows-1
	b.Print(fmt.Sprintf("X:%4d  Y:%4d", state.Stick.X, state.Stick.Y))
	b.Update()
}

func (b *Backend) DisplayStickRange(cur, lo, hi ui.Point) {
	b.Clear()
	b.Println("Range")
	b.Println("")
	b.Println(fmt.Sprintf("X %d..%d", lo.X, hi.X))
	b.Println(fmt.Sprintf("Y %d..%d", lo.Y, hi.Y))
	b.Println("")
	b.Println(fmt.Sprintf("%d,%d", cur.X, cur.Y))

	b.drawPlotFrame()
	x0, y0 := b.plot(lo.X, hi.Y)
	x1, y1 := b.plot(hi.X, lo.Y)
	if x1 > x0 && y1 > y0 {
		tinydraw.Rectangle(b.disp, x0, y0, x1-x0+1, y1-y0+1, colorOn)
	}
	cx, cy := b.plot(cur.X, cur.Y)
	tinydraw.FilledCircle(b.disp, cx, cy, 2, colorOn)
	b.Update()
}

func (b *Backend) DisplayStickSkipping(trail []ui.Point) {
	b.Clear()
	b.Println("Skip Test")
	b.Println("")
	b.Println(fmt.Sprintf("n=%d", len(trail)))

	b.drawPlotFrame()
	for _, p := range trail {
		x, y := b.plot(p.X, p.Y)
		b.disp.SetPixel(x, y, colorOn)
	}
	b.Update()
}

func (b *Backend) DisplayBenchmark(step int, results []ui.Point) {
	b.Clear()
	b.Println("Benchmark")
	b.Println("")
	if step >= 0 && step < len(ui.Directions) {
		b.Println("Hold stick")
		b.Println(ui.Directions[step])
		b.Println("")
		b.Println("then press")
	} else {
		b.Println("Done")
	}

	b.drawPlotFrame()
	n := min(len(results), len(ui.Directions))
	for i := 1; i < n; i++ {
		x0, y0 := b.plot(results[i-1].X, results[i-1].Y)
		x1, y1 := b.plot(results[i].X, results[i].Y)
		tinydraw.Line(b.disp, x0, y0, x1, y1, colorOn)
	}
	if n == len(ui.Directions) {
		x0, y0 := b.plot(results[n-1].X, results[n-1].Y)
		x1, y1 := b.plot(results[0].X, results[0].Y)
		tinydraw.Line(b.disp, x0, y0, x1, y1, colorOn)
	}
	b.Update()
}

// plotCenter is the middle of the stick plot area.
func (b *Backend) plotCenter() (int16, int16) {
	w, h := b.disp.Size()
	return w - plotRadius - 2, h / 2
}

// plot maps a stick sample onto the panel, y pointing up.
func (b *Backend) plot(x, y int8) (int16, int16) {
	cx, cy := b.plotCenter()
	return cx + int16(x)*plotRadius/128, cy - int16(y)*plotRadius/128
}

func (b *Backend) drawPlotFrame() {
	cx, cy := b.plotCenter()
	tinydraw.Rectangle(b.disp, cx-plotRadius-1, cy-plotRadius-1, 2*plotRadius+3, 2*plotRadius+3, colorOn)
	tinydraw.Line(b.disp, cx-2, cy, cx+2, cy, colorOn)
	tinydraw.Line(b.disp, cx, cy-2, cx, cy+2, colorOn)
}
