package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvBackend stores one file per slot under a base directory.
type DiskvBackend struct {
	d    *diskv.Diskv
	base string
}

func OpenDiskv(basePath string) *DiskvBackend {
	return &DiskvBackend{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		TempDir:      filepath.Join(basePath, ".tmp"),
		Transform:    func(string) []string { return []string{} },
		// No read cache: other processes write the same files.
		CacheSizeMax: 0,
	}), base: basePath}
}

func (b *DiskvBackend) Get(_ context.Context, slot string) ([]byte, error) {
	val, err := b.d.Read(slot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSlotEmpty
		}
		return nil, err
	}
	return val, nil
}

func (b *DiskvBackend) Put(_ context.Context, slot string, payload []byte) error {
	return b.d.Write(slot, payload)
}

// UpdatedAt is the modification time of the slot file.
func (b *DiskvBackend) UpdatedAt(_ context.Context, slot string) (time.Time, error) {
	info, err := os.Stat(filepath.Join(b.base, slot))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, ErrSlotEmpty
		}
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Close is a no-op; diskv holds no open handles between calls.
func (b *DiskvBackend) Close() error {
	return nil
}
