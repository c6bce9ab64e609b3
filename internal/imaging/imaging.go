// Package imaging prepares uploaded photos for the vision model: every
// image is converted to three-channel color, capped to MaxSide on its
// longest edge, and encoded as a JPEG data URI for transport.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

const (
	// MaxSide caps the longest edge of a normalized image.
	MaxSide = 1024
	// JPEGQuality is used for both the transport payload and the report copy.
	JPEGQuality = 95
)

// ErrEmptyImage is returned for images without positive dimensions.
var ErrEmptyImage = errors.New("image has no pixels")

// Decode parses an uploaded image (JPEG, PNG or GIF).
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Normalize converts any color model to 8-bit RGBA and, when the longest
// side exceeds MaxSide, downscales uniformly with Catmull-Rom resampling.
// An already compliant RGBA image passes through untouched, so a second
// pass is pixel-identical.
func Normalize(img image.Image) (*image.RGBA, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyImage
	}

	if rgba, ok := img.(*image.RGBA); ok && width <= MaxSide && height <= MaxSide {
		return rgba, nil
	}

	if longest := maxInt(width, height); longest > MaxSide {
		ratio := float64(MaxSide) / float64(longest)
		width = int(float64(width) * ratio)
		height = int(float64(height) * ratio)
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if width == bounds.Dx() && height == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	}
	return dst, nil
}

// EncodeJPEG serializes an image as JPEG at the given quality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI wraps JPEG bytes in the base64 data URI form the chat-completions
// API expects for inline images.
func DataURI(jpegData []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegData)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
