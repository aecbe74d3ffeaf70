package storage

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestDecodeImage_Formats(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, color.RGBA{200, 150, 50, 255})
		}
	}

	tests := []struct {
		name   string
		encode func(io.Writer, image.Image) error
	}{
		{"png", png.Encode},
		{"jpeg", func(w io.Writer, m image.Image) error { return jpeg.Encode(w, m, nil) }},
		{"gif", func(w io.Writer, m image.Image) error { return gif.Encode(w, m, nil) }},
		{"bmp", bmp.Encode},
		{"tiff", func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.encode(&buf, src); err != nil {
				t.Fatalf("Failed to encode: %v", err)
			}

			img, format, err := DecodeImage(&buf)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if format != tt.name {
				t.Errorf("Expected format %s, got %s", tt.name, format)
			}
			if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
				t.Errorf("Unexpected bounds %v", img.Bounds())
			}
		})
	}
}

func TestDecodeImage_Unsupported(t *testing.T) {
	_, _, err := DecodeImage(strings.NewReader("definitely not an image"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDecodeImage_Truncated(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	truncated := buf.Bytes()[:buf.Len()/2]

	_, _, err := DecodeImage(bytes.NewReader(truncated))
	if !errors.Is(err, ErrCorruptImage) {
		t.Errorf("Expected ErrCorruptImage, got %v", err)
	}
}

func TestDecodeImage_TooLarge(t *testing.T) {
	// GIF header declaring a 60000x60000 canvas without a colour table
	header := []byte("GIF89a")
	header = append(header, 0x60, 0xea, 0x60, 0xea, 0x00, 0x00, 0x00)

	_, _, err := DecodeImage(bytes.NewReader(header))
	if !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("Expected ErrImageTooLarge, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestDecodeImage_ReadError(t *testing.T) {
	_, _, err := DecodeImage(failingReader{})
	if err == nil || errors.Is(err, ErrCorruptImage) || errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected a plain read error, got %v", err)
	}
}
