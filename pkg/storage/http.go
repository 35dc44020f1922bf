package storage

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"
)

// HTTPLister implements Lister for HTTP/HTTPS manifests: the URI must serve
// a newline-delimited list of file names
type HTTPLister struct {
	client *http.Client
}

// NewHTTPLister creates a new HTTP listing backend
func NewHTTPLister() *HTTPLister {
	return &HTTPLister{
		client: &http.Client{},
	}
}

// List fetches a manifest over HTTP/HTTPS and returns its non-empty lines.
// Lines starting with '#' are treated as comments.
func (hl *HTTPLister) List(ctx context.Context, uri string) ([]string, error) {
	scheme, _, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("HTTP lister only supports http:// and https:// URIs, got %s://", scheme)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", uri, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := hl.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request failed with status %d", resp.StatusCode)
	}

	var names []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return names, nil
}
