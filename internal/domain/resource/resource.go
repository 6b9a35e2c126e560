// Package resource defines loadable game assets and the registry that tracks them.
package resource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/atomic"
)

var (
	// ErrDuplicate is returned when a key is registered twice.
	ErrDuplicate = errors.New("resource: duplicate key")
	// ErrDigestMismatch is returned when loaded bytes do not hash to the declared digest.
	ErrDigestMismatch = errors.New("resource: digest mismatch")
)

// Resource is any asset tracked for load completion.
type Resource interface {
	// Key identifies the resource within a registry.
	Key() string
	// IsLoaded reports whether Load has completed successfully.
	IsLoaded() bool
	// Load fetches and decodes the asset. Only the assets loader calls it.
	Load(ctx context.Context) error
}

// File is a raw byte asset read from a file system.
type File struct {
	key    string
	fsys   fs.FS
	path   string
	digest uint64 // 0 = not verified

	data   []byte
	sum    uint64
	loaded atomic.Bool
}

// NewFile creates a file resource. A non-zero digest is checked against the
// xxhash of the contents on load.
func NewFile(key string, fsys fs.FS, path string, digest uint64) *File {
	return &File{
		key:    key,
		fsys:   fsys,
		path:   path,
		digest: digest,
	}
}

// Key returns the resource key
func (f *File) Key() string { return f.key }

// IsLoaded reports whether the contents are available
func (f *File) IsLoaded() bool { return f.loaded.Load() }

// Load reads the file and verifies its digest
func (f *File) Load(ctx context.Context) error {
	data, sum, err := f.read(ctx)
	if err != nil {
		return err
	}
	f.commit(data, sum)
	return nil
}

func (f *File) read(ctx context.Context) ([]byte, uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	data, err := fs.ReadFile(f.fsys, f.path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	sum := xxhash.Sum64(data)
	if f.digest != 0 && sum != f.digest {
		return nil, 0, fmt.Errorf("%w: %s has %016x, want %016x", ErrDigestMismatch, f.path, sum, f.digest)
	}
	return data, sum, nil
}

func (f *File) commit(data []byte, sum uint64) {
	f.data = data
	f.sum = sum
	f.loaded.Store(true)
}

// Bytes returns the loaded contents, nil before Load
func (f *File) Bytes() []byte {
	if !f.IsLoaded() {
		return nil
	}
	return f.data
}

// Digest returns the xxhash of the loaded contents
func (f *File) Digest() uint64 { return f.sum }
