package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// maxImagePixels bounds the canvas a decoder may allocate
const maxImagePixels = 40_000_000

var (
	// ErrUnsupportedFormat is returned when no registered decoder recognises the data
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrCorruptImage is returned when a known format fails to decode
	ErrCorruptImage = errors.New("corrupt image data")

	// ErrImageTooLarge is returned when the declared dimensions exceed maxImagePixels
	ErrImageTooLarge = errors.New("image dimensions too large")
)

// DecodeImage decodes any registered format (JPEG, PNG, GIF, WebP, BMP, TIFF)
// and returns the format name reported by the decoder. Errors reading r are
// returned as they are; errors in the data wrap one of the sentinels above.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", decodeError(err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", decodeError(err)
	}
	return img, format, nil
}

func decodeError(err error) error {
	if errors.Is(err, image.ErrFormat) {
		return ErrUnsupportedFormat
	}
	return fmt.Errorf("%w: %w", ErrCorruptImage, err)
}
