package resource

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// Image is a decoded image asset. The GPU image is created on first use so
// loading can happen off the game loop.
type Image struct {
	*File

	mu      sync.Mutex
	decoded image.Image
	gpu     *ebiten.Image
}

// NewImage creates an image resource backed by a PNG file
func NewImage(key string, fsys fs.FS, path string, digest uint64) *Image {
	return &Image{File: NewFile(key, fsys, path, digest)}
}

// Load reads and decodes the image
func (i *Image) Load(ctx context.Context) error {
	data, sum, err := i.File.read(ctx)
	if err != nil {
		return err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", i.File.path, err)
	}

	i.mu.Lock()
	i.decoded = img
	i.mu.Unlock()

	i.File.commit(data, sum)
	return nil
}

// Decoded returns the decoded image, nil before Load
func (i *Image) Decoded() image.Image {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.decoded
}

// Image returns the ebiten image, creating it on first call.
// Returns nil before Load.
func (i *Image) Image() *ebiten.Image {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.decoded == nil {
		return nil
	}
	if i.gpu == nil {
		i.gpu = ebiten.NewImageFromImage(i.decoded)
	}
	return i.gpu
}
