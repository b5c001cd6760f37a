// Package store provides the filesystem primitives used for destination
// reads and writes.
package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Disk reads and writes files on the local filesystem. Write creates parent
// directories as needed, so callers never have to pre-create a destination
// folder.
type Disk struct{}

// NewDisk creates a Disk store.
func NewDisk() *Disk {
	return &Disk{}
}

// Read returns the contents of the file at path. A missing file surfaces as
// an error satisfying errors.Is(err, fs.ErrNotExist).
func (d *Disk) Read(path string) ([]byte, error) {
	// #nosec G304 - path is resolved from configured workspace roots
	return os.ReadFile(path)
}

// Write stores data at path, creating parent directories first.
func (d *Disk) Write(path string, data []byte) error {
	if err := d.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	// #nosec G306 - instruction documents are meant to be world-readable
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// EnsureDir creates dir and any missing parents.
func (d *Disk) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
