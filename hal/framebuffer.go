package hal

import "sync"

// MemFramebuffer is an RGB565 back buffer. Present copies it to a front
// buffer and hands the frame to an optional sink (a panel driver or a window).
type MemFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
	front  []byte
	frames uint64
	sink   func(frame []byte, width, height int) error
}

// NewFramebuffer allocates a width x height RGB565 framebuffer. sink may be nil.
func NewFramebuffer(width, height int, sink func(frame []byte, width, height int) error) *MemFramebuffer {
	stride := width * 2
	return &MemFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
		front:  make([]byte, stride*height),
		sink:   sink,
	}
}

func (f *MemFramebuffer) Width() int          { return f.width }
func (f *MemFramebuffer) Height() int         { return f.height }
func (f *MemFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *MemFramebuffer) StrideBytes() int    { return f.stride }
func (f *MemFramebuffer) Buffer() []byte      { return f.buf }

func (f *MemFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

func (f *MemFramebuffer) Present() error {
	f.mu.Lock()
	copy(f.front, f.buf)
	f.frames++
	sink := f.sink
	f.mu.Unlock()

	if sink == nil {
		return nil
	}
	return sink(f.front, f.width, f.height)
}

// Frames returns how many times Present has been called.
func (f *MemFramebuffer) Frames() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

// Lit reports whether the presented pixel at (x, y) is not black.
func (f *MemFramebuffer) Lit(x, y int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return false
	}
	off := y*f.stride + x*2
	return f.front[off] != 0 || f.front[off+1] != 0
}

func (f *MemFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.front)
}

func rgb565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// rgb565To888 expands p, scaling each channel so full scale maps to 0xFF.
func rgb565To888(p uint16) (r, g, b uint8) {
	r = uint8(uint32(p>>11&0x1F) * 255 / 31)
	g = uint8(uint32(p>>5&0x3F) * 255 / 63)
	b = uint8(uint32(p&0x1F) * 255 / 31)
	return r, g, b
}
