// Package imaging re-encodes receipt photos before upload. Phone cameras
// produce multi-megabyte images; the channel only needs a legible receipt.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	// MaxDimension bounds the longer image side after compression.
	MaxDimension = 1280

	// Quality is the JPEG re-encode quality.
	Quality = 70
)

// Compress decodes an image (JPEG, PNG or GIF), scales it down so neither
// side exceeds MaxDimension while keeping aspect ratio, and re-encodes it as
// JPEG. Images already within bounds are still re-encoded; the size win
// comes mostly from the quality setting.
func Compress(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	newWidth, newHeight := fit(width, height)
	if newWidth != width || newHeight != height {
		dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// fit scales (width, height) down so the longer side is at most
// MaxDimension, preserving aspect ratio. Smaller images pass through.
func fit(width, height int) (int, int) {
	if width <= MaxDimension && height <= MaxDimension {
		return width, height
	}

	if width > height {
		return MaxDimension, height * MaxDimension / width
	}
	return width * MaxDimension / height, MaxDimension
}
