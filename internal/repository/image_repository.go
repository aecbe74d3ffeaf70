package repository

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"

	"go-beer-ebc/internal/storage"
	"go-beer-ebc/pkg/validation"
)

// imageRepository implements ImageRepository over the storage fetchers
type imageRepository struct {
	fetcher     storage.ImageFetcher
	blobFetcher storage.ImageFetcher
	validator   *validation.URLValidator
}

// NewImageRepository creates a repository. blobFetcher may be nil when blob
// storage is not configured.
func NewImageRepository(fetcher, blobFetcher storage.ImageFetcher, validator *validation.URLValidator) ImageRepository {
	if validator == nil {
		validator = validation.NewURLValidator()
	}
	return &imageRepository{
		fetcher:     fetcher,
		blobFetcher: blobFetcher,
		validator:   validator,
	}
}

// FetchImage retrieves an image from a URL
func (r *imageRepository) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	img, err := r.fetcher.FetchImage(ctx, imageURL)
	if err != nil {
		return nil, classifyFetchError(err)
	}
	return img, nil
}

// FetchBlob retrieves an image from blob storage
func (r *imageRepository) FetchBlob(ctx context.Context, blobURL string) (image.Image, error) {
	if r.blobFetcher == nil {
		return nil, ErrRepositoryUnavailable
	}
	img, err := r.blobFetcher.FetchImage(ctx, blobURL)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidBlobURL) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidImageURL, err)
		}
		return nil, classifyFetchError(err)
	}
	return img, nil
}

// DecodeUpload decodes an uploaded image and reports its format and size
func (r *imageRepository) DecodeUpload(body io.Reader) (image.Image, *ImageMetadata, error) {
	counter := &countingReader{r: body}
	img, format, err := storage.DecodeImage(counter)
	if err != nil {
		return nil, nil, classifyFetchError(err)
	}
	bounds := img.Bounds()
	return img, &ImageMetadata{
		ContentLength: counter.n,
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
	}, nil
}

// ValidateImageURL validates if the provided URL is acceptable
func (r *imageRepository) ValidateImageURL(imageURL string) error {
	return r.validator.ValidateImageURL(imageURL)
}

// ValidateBlobURL validates a blob storage URL
func (r *imageRepository) ValidateBlobURL(blobURL string) error {
	return r.validator.ValidateBlobURL(blobURL)
}

func classifyFetchError(err error) error {
	var statusErr *storage.StatusError
	switch {
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrImageNotFound, err)
	case errors.Is(err, storage.ErrUnsupportedFormat),
		errors.Is(err, storage.ErrCorruptImage),
		errors.Is(err, storage.ErrImageTooLarge):
		return fmt.Errorf("%w: %w", ErrUnsupportedImage, err)
	default:
		return err
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
