package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLister_List(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"f.1.exr", "f.2.exr", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "subdir"), 0755))

	lister := NewLocalLister()
	names, err := lister.List(context.Background(), "file://"+tmpDir)
	require.NoError(t, err)

	// Directories are skipped
	assert.ElementsMatch(t, []string{"f.1.exr", "f.2.exr", "notes.txt"}, names)
}

func TestLocalLister_List_MissingDir(t *testing.T) {
	lister := NewLocalLister()
	_, err := lister.List(context.Background(), "file:///does/not/exist")
	assert.Error(t, err)
}

func TestLocalLister_List_WrongScheme(t *testing.T) {
	lister := NewLocalLister()
	_, err := lister.List(context.Background(), "s3://bucket/prefix")
	assert.Error(t, err)
}
