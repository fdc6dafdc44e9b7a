//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.bug.st/serial"
)

const hostDefaultBaud = 9600

// hostSerial is either the process terminal or a real serial port.
type hostSerial struct {
	mu   sync.Mutex
	r    io.Reader
	w    io.Writer
	port serial.Port
}

func openHostSerial(path string, baud int) (*hostSerial, error) {
	if path == "" {
		return &hostSerial{r: os.Stdin, w: os.Stdout}, nil
	}
	if baud <= 0 {
		baud = hostDefaultBaud
	}

	port, err := serial.Open(path, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", path, err)
	}
	return &hostSerial{r: port, w: port, port: port}, nil
}

func (s *hostSerial) Read(p []byte) (int, error) {
	if s.r == nil {
		return 0, ErrNotImplemented
	}
	return s.r.Read(p)
}

func (s *hostSerial) Write(p []byte) (int, error) {
	if s.w == nil {
		return 0, ErrNotImplemented
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *hostSerial) Close() error {
	if s.port == nil {
		return nil
	}
	if err := s.port.Close(); err != nil {
		return fmt.Errorf("serial: close: %w", err)
	}
	return nil
}
