package storage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// ErrInvalidBlobURL is returned for blob locations that name no container or blob
var ErrInvalidBlobURL = errors.New("invalid blob URL")

// blobDownloader is the subset of azblob.Client used for downloads
type blobDownloader interface {
	DownloadStream(ctx context.Context, containerName string, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
}

// AzureImageFetcher implements ImageFetcher for Azure Blob Storage
type AzureImageFetcher struct {
	client blobDownloader
}

// NewAzureImageFetcher creates a fetcher authenticated with a shared key
func NewAzureImageFetcher(accountName string, accountKey string) (*AzureImageFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("azure client: %w", err)
	}

	return &AzureImageFetcher{client: client}, nil
}

// FetchImage downloads and decodes the blob named by blobURL
func (s *AzureImageFetcher) FetchImage(ctx context.Context, blobURL string) (image.Image, error) {
	containerName, blobName, err := ParseBlobURL(blobURL)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	img, _, err := DecodeImage(io.LimitReader(resp.Body, maxImageBytes))
	return img, err
}

// ParseBlobURL extracts the container and blob names from either
// https://account.blob.core.windows.net/container/path/to/blob or the
// query form https://account.blob.core.windows.net/container?blob=name.
func ParseBlobURL(blobURL string) (containerName, blobName string, err error) {
	parsed, err := url.Parse(strings.TrimSpace(blobURL))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidBlobURL, err)
	}

	path := strings.Trim(parsed.Path, "/")
	if name := parsed.Query().Get("blob"); name != "" {
		containerName, blobName = path, name
	} else {
		containerName, blobName, _ = strings.Cut(path, "/")
	}

	if containerName == "" || blobName == "" || strings.Contains(containerName, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidBlobURL, blobURL)
	}
	return containerName, blobName, nil
}
