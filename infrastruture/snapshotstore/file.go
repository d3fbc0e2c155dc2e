// Package snapshotstore holds the places a game snapshot can be kept.
package snapshotstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/beka-birhanu/vinom-gather/snapshot"
)

// File keeps the latest snapshot in a file.
// Implements snapshot.Store.
type File struct {
	path string
}

// NewFile returns a store writing to path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Save writes data next to the target and renames it into place, so a
// crash never leaves a half written snapshot behind.
func (f *File) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}

// Load returns the saved snapshot or snapshot.ErrNotFound.
func (f *File) Load(context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, snapshot.ErrNotFound
	}
	return data, err
}
