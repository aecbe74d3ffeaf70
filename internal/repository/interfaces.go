package repository

import (
	"context"
	"image"
	"io"
)

// ImageRepository defines the interface for image data access operations
type ImageRepository interface {
	// FetchImage retrieves an image from an HTTP(S) URL
	FetchImage(ctx context.Context, imageURL string) (image.Image, error)

	// FetchBlob retrieves an image from Azure Blob Storage
	FetchBlob(ctx context.Context, blobURL string) (image.Image, error)

	// DecodeUpload decodes an uploaded image body
	DecodeUpload(r io.Reader) (image.Image, *ImageMetadata, error)

	// ValidateImageURL validates if the provided URL is acceptable
	ValidateImageURL(imageURL string) error

	// ValidateBlobURL validates a blob storage URL
	ValidateBlobURL(blobURL string) error
}

// ImageMetadata contains metadata about a decoded image
type ImageMetadata struct {
	ContentLength int64
	Width         int
	Height        int
	Format        string
}
