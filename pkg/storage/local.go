package storage

import (
	"context"
	"fmt"
	"os"
)

// LocalLister implements Lister for local directories
type LocalLister struct{}

// NewLocalLister creates a new local listing backend
func NewLocalLister() *LocalLister {
	return &LocalLister{}
}

// List returns the names of the regular files in a file:// directory.
// Subdirectories are skipped; a sequence never spans directories.
func (ll *LocalLister) List(ctx context.Context, uri string) ([]string, error) {
	scheme, path, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	if scheme != "file" {
		return nil, fmt.Errorf("local lister only supports file:// URIs, got %s://", scheme)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}
