package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	slotExt     = ".json"
	tmpExt      = ".tmp"
	dirPerm     = 0o750
	slotPerm    = 0o600
	maxKeyBytes = 128
)

// FileBackend keeps every key in its own file under a base directory.
type FileBackend struct {
	fs  afero.Fs
	dir string
}

// NewFileBackend creates the base directory if needed and returns a backend rooted in it.
func NewFileBackend(afs afero.Fs, dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, errors.New("storage directory is empty")
	}

	if ok, _ := afero.DirExists(afs, dir); !ok {
		if err := afs.MkdirAll(dir, dirPerm); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}

	return &FileBackend{fs: afs, dir: dir}, nil
}

// NewMemoryBackend returns a FileBackend over an in-memory filesystem.
func NewMemoryBackend() *FileBackend {
	return &FileBackend{fs: afero.NewMemMapFs(), dir: "/"}
}

// Get reads the document stored under key.
func (b *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	path, err := b.slotPath(key)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(b.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}

	return data, nil
}

// Set replaces the document stored under key. The new content is written to a
// temporary file first and renamed over the slot.
func (b *FileBackend) Set(_ context.Context, key string, value []byte) error {
	path, err := b.slotPath(key)
	if err != nil {
		return err
	}

	tmp := path + tmpExt
	if err = afero.WriteFile(b.fs, tmp, value, slotPerm); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}

	if err = b.fs.Rename(tmp, path); err != nil {
		_ = b.fs.Remove(tmp)
		return fmt.Errorf("failed to replace slot %q: %w", key, err)
	}

	return nil
}

// Ping checks that the base directory is still reachable.
func (b *FileBackend) Ping(_ context.Context) error {
	info, err := b.fs.Stat(b.dir)
	if err != nil {
		return fmt.Errorf("failed to stat storage directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage path %s is not a directory", b.dir)
	}

	return nil
}

func (b *FileBackend) slotPath(key string) (string, error) {
	if key == "" || len(key) > maxKeyBytes || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return filepath.Join(b.dir, key+slotExt), nil
}
