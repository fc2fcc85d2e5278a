// Package media handles cover image inspection and placeholder generation.
package media

import (
	"bytes"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	"github.com/bbrks/go-blurhash"
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/libkeeper/libkeeper/internal/errors"
)

// MaxCoverBytes caps how large an uploaded cover may be. Covers are stored
// inline with the record, so oversized images would bloat the library file.
const MaxCoverBytes = 5 * 1024 * 1024

// blurHashSize is the target size for BlurHash computation.
// BlurHash doesn't need high resolution - a small thumbnail produces nearly identical results.
const blurHashSize = 64

// Inspect decodes the cover bytes and reports the image format. It rejects
// data that is not a decodable JPEG, PNG, GIF, or WebP image, or that
// exceeds MaxCoverBytes.
func Inspect(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.Validation("cover image is empty")
	}
	if len(data) > MaxCoverBytes {
		return "", errors.Validationf("cover image exceeds %d bytes", MaxCoverBytes)
	}
	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", errors.Validationf("cover image is not a supported format: %v", err)
	}
	return format, nil
}

// ComputeBlurHash generates a BlurHash placeholder string from cover bytes.
// Uses 4x3 components for a good balance of size (~20-30 chars) and detail.
// The image is resized to a small thumbnail first for performance.
func ComputeBlurHash(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", errors.Validationf("decode cover image: %v", err)
	}

	thumbnail := resizeForBlurHash(img)

	// 4 horizontal, 3 vertical components - sweet spot for book covers
	hash, err := blurhash.Encode(4, 3, thumbnail)
	if err != nil {
		return "", errors.Internalf("encode blurhash: %v", err)
	}

	return hash, nil
}

// resizeForBlurHash creates a small thumbnail suitable for BlurHash computation.
// Uses simple nearest-neighbor scaling which is fast and sufficient for BlurHash.
func resizeForBlurHash(img image.Image) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= blurHashSize && srcHeight <= blurHashSize {
		return img
	}

	var dstWidth, dstHeight int
	if srcWidth > srcHeight {
		dstWidth = blurHashSize
		dstHeight = (srcHeight * blurHashSize) / srcWidth
		if dstHeight < 1 {
			dstHeight = 1
		}
	} else {
		dstHeight = blurHashSize
		dstWidth = (srcWidth * blurHashSize) / srcHeight
		if dstWidth < 1 {
			dstWidth = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))

	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for y := 0; y < dstHeight; y++ {
		for x := 0; x < dstWidth; x++ {
			srcX := int(float64(x) * xRatio)
			srcY := int(float64(y) * yRatio)
			dst.Set(x, y, img.At(bounds.Min.X+srcX, bounds.Min.Y+srcY))
		}
	}

	return dst
}
