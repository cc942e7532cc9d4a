// Package thumbnail stores width-limited page screenshots next to snapshots.
package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"
)

// DefaultMaxWidth is used when no width is configured
const DefaultMaxWidth uint = 800

// Resize scales img down to maxWidth keeping the aspect ratio. Images
// already narrow enough are returned unchanged.
func Resize(img image.Image, maxWidth uint) image.Image {
	if maxWidth == 0 {
		maxWidth = DefaultMaxWidth
	}
	bounds := img.Bounds()
	if bounds.Dx() <= int(maxWidth) || bounds.Dx() == 0 {
		return img
	}

	// Calculate height maintaining aspect ratio
	aspectRatio := float64(bounds.Dy()) / float64(bounds.Dx())
	height := uint(float64(maxWidth) * aspectRatio)
	if height == 0 {
		height = 1
	}
	return resize.Resize(maxWidth, height, img, resize.Lanczos3)
}

// Write decodes a screenshot, downscales it and writes it as PNG to path.
// It returns the size of the written file.
func Write(screenshot []byte, path string, maxWidth uint) (int64, error) {
	img, _, err := image.Decode(bytes.NewReader(screenshot))
	if err != nil {
		return 0, fmt.Errorf("decode screenshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := png.Encode(f, Resize(img, maxWidth)); err != nil {
		return 0, fmt.Errorf("encode thumbnail: %w", err)
	}

	// Get file size
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// PathFor returns the thumbnail path stored beside a snapshot artifact.
func PathFor(snapshotPath string) string {
	ext := filepath.Ext(snapshotPath)
	return snapshotPath[:len(snapshotPath)-len(ext)] + ".png"
}
