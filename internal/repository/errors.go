package repository

import "errors"

var (
	// ErrInvalidImageURL indicates an invalid image URL
	ErrInvalidImageURL = errors.New("invalid image URL")

	// ErrImageNotFound indicates the image was not found
	ErrImageNotFound = errors.New("image not found")

	// ErrUnsupportedImage indicates the data is not a decodable image
	ErrUnsupportedImage = errors.New("unsupported image")

	// ErrRepositoryUnavailable indicates the image source is not configured
	ErrRepositoryUnavailable = errors.New("repository unavailable")
)
