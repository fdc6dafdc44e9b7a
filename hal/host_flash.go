//go:build !tinygo

package hal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	hostFlashDefaultPath = "cartreader.flash"
	hostFlashSizeBytes   = 64 * 1024
	hostFlashBlockBytes  = 4096
)

var ErrFlashWriteRequiresErase = errors.New("flash write requires erase")

// FileFlash emulates NOR flash in a file: erase sets 0xFF and writes may
// only clear bits.
type FileFlash struct {
	mu    sync.Mutex
	f     *os.File
	size  uint32
	block uint32
	blank []byte
}

// CreateFileFlash truncates path to a blank image of size bytes erased in
// block byte units.
func CreateFileFlash(path string, size, block uint32) (*FileFlash, error) {
	if block == 0 || block%256 != 0 {
		return nil, fmt.Errorf("flash: invalid erase size %d", block)
	}
	if size == 0 || size%block != 0 {
		return nil, fmt.Errorf("flash: size %d not a multiple of erase size %d", size, block)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("flash: create %q: %w", path, err)
	}
	ff := &FileFlash{f: f, size: size, block: block, blank: bytes.Repeat([]byte{0xFF}, int(block))}
	if err := ff.Erase(0, size); err != nil {
		_ = f.Close()
		return nil, err
	}
	return ff, nil
}

// openHostFlash opens or creates the image at path. A flash whose file
// cannot be used reports zero size and fails every access.
func openHostFlash(path string) *FileFlash {
	if path == "" {
		path = os.Getenv("CARTREADER_FLASH_PATH")
	}
	if path == "" {
		path = hostFlashDefaultPath
	}

	st, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && st.Size() == 0) {
		ff, err := CreateFileFlash(path, hostFlashSizeBytes, hostFlashBlockBytes)
		if err != nil {
			return &FileFlash{block: hostFlashBlockBytes}
		}
		return ff
	}
	if err != nil || st.Size() > int64(^uint32(0)) || st.Size()%hostFlashBlockBytes != 0 {
		return &FileFlash{block: hostFlashBlockBytes}
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return &FileFlash{block: hostFlashBlockBytes}
	}
	return &FileFlash{
		f:     f,
		size:  uint32(st.Size()),
		block: hostFlashBlockBytes,
		blank: bytes.Repeat([]byte{0xFF}, hostFlashBlockBytes),
	}
}

func (f *FileFlash) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return nil
	}
	err := f.f.Close()
	f.f = nil
	return err
}

func (f *FileFlash) SizeBytes() uint32       { return f.size }
func (f *FileFlash) EraseBlockBytes() uint32 { return f.block }

func (f *FileFlash) ReadAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return 0, ErrNotImplemented
	}
	if off >= f.size {
		return 0, fmt.Errorf("flash read at %d: %w", off, os.ErrInvalid)
	}
	if n := int(f.size - off); len(p) > n {
		p = p[:n]
	}
	return f.f.ReadAt(p, int64(off))
}

func (f *FileFlash) WriteAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return 0, ErrNotImplemented
	}
	if off >= f.size {
		return 0, fmt.Errorf("flash write at %d: %w", off, os.ErrInvalid)
	}
	if n := int(f.size - off); len(p) > n {
		p = p[:n]
	}

	cur := make([]byte, len(p))
	if _, err := f.f.ReadAt(cur, int64(off)); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("flash read before write at %d: %w", off, err)
	}
	for i := range p {
		if cur[i]&p[i] != p[i] {
			return 0, ErrFlashWriteRequiresErase
		}
	}
	return f.f.WriteAt(p, int64(off))
}

func (f *FileFlash) Erase(off, size uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return ErrNotImplemented
	}
	if size == 0 {
		return nil
	}
	if off%f.block != 0 || size%f.block != 0 || off+size > f.size {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, os.ErrInvalid)
	}
	for end := off + size; off < end; off += f.block {
		if _, err := f.f.WriteAt(f.blank, int64(off)); err != nil {
			return fmt.Errorf("flash erase block at %d: %w", off, err)
		}
	}
	return nil
}
