package storage

import (
	"context"
	"fmt"
	"image"
	"os"
)

// FileImageFetcher implements ImageFetcher for local files
type FileImageFetcher struct{}

// NewFileImageFetcher creates a local file fetcher
func NewFileImageFetcher() *FileImageFetcher {
	return &FileImageFetcher{}
}

// FetchImage opens and decodes the image at path
func (f *FileImageFetcher) FetchImage(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	img, _, err := DecodeImage(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
