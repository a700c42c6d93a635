// Package imaging prepares enrollment photos for storage. Photos are
// capped to a maximum edge length and re-encoded as JPEG so the
// database never holds full-size camera output.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

const (
	// StoredPhotoMaxSize is the maximum edge length for stored photos.
	StoredPhotoMaxSize = 640

	jpegQuality = 85
)

// PrepareForStorage decodes, downscales and re-encodes a photo for
// storage. Images already within the size limit are still re-encoded
// so stored photos are always JPEG.
func PrepareForStorage(data []byte) ([]byte, error) {
	return Resize(data, StoredPhotoMaxSize)
}

// Resize resizes an image to fit within maxSize while keeping aspect ratio.
// Returns JPEG-encoded bytes.
func Resize(data []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	newWidth, newHeight := width, height
	if width > maxSize || height > maxSize {
		if width > height {
			newWidth = maxSize
			newHeight = int(float64(height) * float64(maxSize) / float64(width))
		} else {
			newHeight = maxSize
			newWidth = int(float64(width) * float64(maxSize) / float64(height))
		}
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.BiLinear.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), nil
}

// Dimensions returns the width and height of an encoded image without
// decoding the pixel data.
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
