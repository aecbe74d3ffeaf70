package validation

import (
	"net/url"
	"strings"

	apperrors "go-beer-ebc/internal/errors"
)

const azureBlobHostSuffix = ".blob.core.windows.net"

// URLValidator handles URL validation logic
type URLValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewURLValidator creates a new URL validator with default settings
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{}, // empty means all hosts allowed
	}
}

// NewURLValidatorWithOptions creates a URL validator with custom options.
// A host entry starting with "." matches any subdomain of it.
func NewURLValidatorWithOptions(schemes []string, hosts []string) *URLValidator {
	normalized := make([]string, 0, len(hosts))
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			normalized = append(normalized, h)
		}
	}
	return &URLValidator{
		allowedSchemes: schemes,
		allowedHosts:   normalized,
	}
}

// ValidateImageURL validates if the provided URL is acceptable for image processing
func (v *URLValidator) ValidateImageURL(imageURL string) error {
	_, err := v.parse(imageURL)
	return err
}

// ValidateBlobURL validates an Azure Blob Storage URL. Blob URLs must use
// https and an account host; the allowed-host list does not apply.
func (v *URLValidator) ValidateBlobURL(blobURL string) error {
	if strings.TrimSpace(blobURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(strings.TrimSpace(blobURL))
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}
	if strings.ToLower(parsedURL.Scheme) != "https" {
		return apperrors.NewValidationError("Blob URL must use https", nil)
	}
	host := strings.ToLower(parsedURL.Hostname())
	if !strings.HasSuffix(host, azureBlobHostSuffix) || host == azureBlobHostSuffix[1:] {
		return apperrors.NewValidationError("URL is not an Azure blob endpoint", nil)
	}
	return nil
}

func (v *URLValidator) parse(imageURL string) (*url.URL, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(strings.TrimSpace(imageURL))
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid URL format", err)
	}

	if !v.isSchemeAllowed(strings.ToLower(parsedURL.Scheme)) {
		return nil, apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	if parsedURL.Hostname() == "" {
		return nil, apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if !v.isHostAllowed(strings.ToLower(parsedURL.Hostname())) {
		return nil, apperrors.NewValidationError("URL host not allowed", nil)
	}

	return parsedURL, nil
}

// isSchemeAllowed checks if the URL scheme is in the allowed list
func (v *URLValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}

// isHostAllowed checks if the URL host is in the allowed list
// Returns true if no host restrictions are set (empty allowedHosts)
func (v *URLValidator) isHostAllowed(host string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	for _, allowed := range v.allowedHosts {
		if host == allowed {
			return true
		}
		if strings.HasPrefix(allowed, ".") && strings.HasSuffix(host, allowed) {
			return true
		}
	}
	return false
}
