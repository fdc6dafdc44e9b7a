// Package storage persists the dump folder counter.
package storage

import (
	"errors"
	"sync"
)

// ErrCorrupt is returned when a stored counter fails validation.
var ErrCorrupt = errors.New("storage: corrupt folder record")

// Memory keeps the counter in RAM.
type Memory struct {
	mu sync.Mutex
	n  uint32
}

func NewMemory(n uint32) *Memory { return &Memory{n: n} }

func (m *Memory) LoadFolder() (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.n, nil
}

func (m *Memory) StoreFolder(n uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n = n
	return nil
}
