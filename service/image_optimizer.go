package service

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// artwork larger than this is downscaled once after decode; the fitted box
	// at maximum scale never needs more
	maxArtworkDim = 800
)

// ErrNotDataURL is returned when a URL is not an inline base64 data URL
var ErrNotDataURL = errors.New("not a base64 data URL")

// DecodeImage decodes PNG, JPEG, GIF, BMP, TIFF or WebP bytes, honouring EXIF orientation
func DecodeImage(imageData []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// EncodePNG encodes an image as PNG bytes
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode to PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// DetectMimeType returns the declared mime type or sniffs it from the bytes
func DetectMimeType(declared string, data []byte) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	return http.DetectContentType(data)
}

// PNGDataURL builds an inline data URL for PNG bytes
func PNGDataURL(pngData []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
}

// DecodeDataURL returns the bytes and mime type of a base64 data URL
func DecodeDataURL(url string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return nil, "", ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, "", ErrNotDataURL
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode data URL: %w", err)
	}
	return data, strings.TrimSuffix(meta, ";base64"), nil
}

// PrepareArtwork shrinks very large artwork before it is kept for rendering.
// The native size used for fitting is taken before this call.
func PrepareArtwork(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxArtworkDim && height <= maxArtworkDim {
		return img
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxArtworkDim
		newHeight = max(1, int(float64(height)*float64(maxArtworkDim)/float64(width)))
	} else {
		newHeight = maxArtworkDim
		newWidth = max(1, int(float64(width)*float64(maxArtworkDim)/float64(height)))
	}

	log.Printf("🔄 Resizing artwork: %dx%d -> %dx%d", width, height, newWidth, newHeight)
	return imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
}
