package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"
)

// ImageFetcher loads an image from a location understood by the implementation
type ImageFetcher interface {
	FetchImage(ctx context.Context, location string) (image.Image, error)
}

const (
	userAgent       = "go-beer-ebc/1.0"
	maxFetchAttempt = 3
	// maxImageBytes bounds a single download
	maxImageBytes = 32 << 20
)

// HTTPImageFetcher implements ImageFetcher over HTTP(S)
type HTTPImageFetcher struct {
	client  *http.Client
	backoff time.Duration
}

// NewHTTPImageFetcher creates an HTTP image fetcher with the given overall
// request timeout. A non-positive timeout selects 30s.
func NewHTTPImageFetcher(timeout time.Duration) *HTTPImageFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		// Connection pooling sized for single image downloads
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,

		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,

			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		backoff: time.Second,
	}
}

// FetchImage downloads and decodes the image at imageURL. Transport errors and
// 5xx responses are retried with linear backoff; 4xx responses are not.
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, image/bmp, image/tiff, */*")
	req.Header.Set("User-Agent", userAgent)

	var lastErr error
	for attempt := 0; attempt < maxFetchAttempt; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("fetch cancelled: %w", ctx.Err())
			case <-time.After(time.Duration(attempt) * h.backoff):
			}
		}

		resp, err := h.client.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, fmt.Errorf("fetch cancelled: %w", ctx.Err())
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return decodeResponse(resp)
		}

		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, &StatusError{StatusCode: resp.StatusCode}
		}
		lastErr = &StatusError{StatusCode: resp.StatusCode}
	}

	return nil, fmt.Errorf("failed to fetch image after %d attempts: %w", maxFetchAttempt, lastErr)
}

func decodeResponse(resp *http.Response) (image.Image, error) {
	defer resp.Body.Close()
	img, _, err := DecodeImage(io.LimitReader(resp.Body, maxImageBytes))
	return img, err
}

// StatusError reports a non-200 response from the image host
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.StatusCode >= 500 {
		return fmt.Sprintf("server error: status code %d", e.StatusCode)
	}
	return fmt.Sprintf("client error: status code %d", e.StatusCode)
}
