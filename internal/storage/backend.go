package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Backend is the raw byte substrate a Store persists into. Implementations
// store one opaque blob per key; Get reports absence via the bool rather
// than an error.
type Backend interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, data []byte) error
	Delete(key string) error
}

// FileBackend stores each key as a JSON file under a data directory.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a backend rooted at dir. The directory is
// created lazily on first write.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

// Get reads the blob for key. A missing file is absence, not an error.
func (b *FileBackend) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// Set writes the blob for key, replacing any previous value.
func (b *FileBackend) Set(key string, data []byte) error {
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(b.path(key), data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob for key. Removing an absent key is a no-op.
func (b *FileBackend) Delete(key string) error {
	if err := os.Remove(b.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// MemoryBackend keeps blobs in a map. It backs tests and throwaway
// sessions where nothing should touch the disk.
type MemoryBackend struct {
	blobs map[string][]byte

	// FailWrites makes every Set return an error, simulating a full or
	// unavailable substrate.
	FailWrites bool
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{blobs: make(map[string][]byte)}
}

func (b *MemoryBackend) Get(key string) ([]byte, bool, error) {
	data, ok := b.blobs[key]
	return data, ok, nil
}

func (b *MemoryBackend) Set(key string, data []byte) error {
	if b.FailWrites {
		return fmt.Errorf("set %s: substrate unavailable", key)
	}
	b.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Delete(key string) error {
	delete(b.blobs, key)
	return nil
}
