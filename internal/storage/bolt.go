//go:build !tinygo

package storage

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	stateBucket = []byte("state")
	folderKey   = []byte("folder")
)

// Bolt keeps the counter in a bbolt database on the host.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens or creates the database at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(stateBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: create bucket: %w", err)
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) LoadFolder() (uint32, error) {
	var n uint32
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(stateBucket).Get(folderKey)
		if v == nil {
			return nil
		}
		if len(v) != 4 {
			return ErrCorrupt
		}
		n = binary.BigEndian.Uint32(v)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("storage: load folder: %w", err)
	}
	return n, nil
}

func (b *Bolt) StoreFolder(n uint32) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		v := make([]byte, 4)
		binary.BigEndian.PutUint32(v, n)
		return tx.Bucket(stateBucket).Put(folderKey, v)
	})
	if err != nil {
		return fmt.Errorf("storage: store folder: %w", err)
	}
	return nil
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
