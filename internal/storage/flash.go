package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"cartreader/hal"
)

const recordSize = 16

var recordMagic = []byte("CRFC")

// Flash keeps the counter in a 16 byte record at the start of the last
// erase block of the board flash.
type Flash struct {
	dev hal.Flash
	off uint32
}

// NewFlash places the record in the last erase block of dev.
func NewFlash(dev hal.Flash) (*Flash, error) {
	size, block := dev.SizeBytes(), dev.EraseBlockBytes()
	if size == 0 || block == 0 || size < block {
		return nil, fmt.Errorf("storage: flash: %w", hal.ErrNotImplemented)
	}
	return &Flash{dev: dev, off: size - block}, nil
}

// Offset returns the record's byte offset.
func (f *Flash) Offset() uint32 { return f.off }

func (f *Flash) LoadFolder() (uint32, error) {
	var rec [recordSize]byte
	if _, err := f.dev.ReadAt(rec[:], f.off); err != nil {
		return 0, fmt.Errorf("storage: flash read: %w", err)
	}
	return DecodeRecord(rec[:])
}

func (f *Flash) StoreFolder(n uint32) error {
	if err := f.dev.Erase(f.off, f.dev.EraseBlockBytes()); err != nil {
		return fmt.Errorf("storage: flash erase: %w", err)
	}
	if _, err := f.dev.WriteAt(EncodeRecord(n), f.off); err != nil {
		return fmt.Errorf("storage: flash write: %w", err)
	}
	return nil
}

// EncodeRecord returns the on-flash form of n: magic, version, padding,
// little-endian counter and a CRC-32 over the first 12 bytes.
func EncodeRecord(n uint32) []byte {
	rec := make([]byte, recordSize)
	copy(rec, recordMagic)
	rec[4] = 1
	binary.LittleEndian.PutUint32(rec[8:], n)
	binary.LittleEndian.PutUint32(rec[12:], crc32.ChecksumIEEE(rec[:12]))
	return rec
}

// DecodeRecord parses a record. Erased flash decodes as zero.
func DecodeRecord(rec []byte) (uint32, error) {
	if len(rec) < recordSize {
		return 0, ErrCorrupt
	}
	if bytes.Equal(rec[:recordSize], bytes.Repeat([]byte{0xFF}, recordSize)) {
		return 0, nil
	}
	if !bytes.Equal(rec[:4], recordMagic) || rec[4] != 1 {
		return 0, ErrCorrupt
	}
	if crc32.ChecksumIEEE(rec[:12]) != binary.LittleEndian.Uint32(rec[12:]) {
		return 0, ErrCorrupt
	}
	return binary.LittleEndian.Uint32(rec[8:]), nil
}
