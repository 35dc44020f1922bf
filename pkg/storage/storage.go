// Package storage provides listing backends that feed the sequence scanner
package storage

import (
	"context"
	"fmt"
	"net/url"
)

// AllowedSchemes is the whitelist of allowed URI schemes
var AllowedSchemes = []string{"https", "http", "s3", "file"}

// Lister enumerates the file names under a URI. Implementations return base
// names only; the scanner operates on names, never on file contents.
type Lister interface {
	// List returns the names found under the given URI
	List(ctx context.Context, uri string) ([]string, error)
}

// ForURI returns the lister that handles the URI's scheme
func ForURI(ctx context.Context, uri string) (Lister, error) {
	scheme, _, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if !IsAllowedScheme(scheme) {
		return nil, fmt.Errorf("scheme %s:// is not allowed", scheme)
	}

	switch scheme {
	case "file":
		return NewLocalLister(), nil
	case "s3":
		return NewS3Lister(ctx)
	case "http", "https":
		return NewHTTPLister(), nil
	default:
		return nil, fmt.Errorf("no lister for scheme %s://", scheme)
	}
}

// ParseURI parses a URI and returns scheme and path
func ParseURI(uri string) (scheme string, path string, err error) {
	if uri == "" {
		return "", "", fmt.Errorf("URI cannot be empty")
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("invalid URI: %w", err)
	}

	if parsed.Scheme == "" {
		return "", "", fmt.Errorf("URI must have a scheme (e.g., https://, s3://)")
	}

	// For file:// URIs, use the full path
	if parsed.Scheme == "file" {
		return parsed.Scheme, parsed.Path, nil
	}

	// For other URIs (s3://, https://, etc.), combine host and path
	path = parsed.Host
	if parsed.Path != "" {
		path = path + parsed.Path
	}

	return parsed.Scheme, path, nil
}

// IsAllowedScheme checks if a URI scheme is in the whitelist
func IsAllowedScheme(scheme string) bool {
	for _, allowed := range AllowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}
