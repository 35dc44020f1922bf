package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chicogong/frameseq/pkg/schemas"
)

func newTestScan(id string) *Scan {
	return &Scan{
		ScanID:  id,
		Created: time.Now(),
		Updated: time.Now(),
		Status:  schemas.ScanStatePending,
		Spec:    &schemas.ScanSpec{SourceURI: "file:///renders"},
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	scan := newTestScan("scan-1")
	require.NoError(t, s.CreateScan(ctx, scan))

	got, err := s.GetScan(ctx, "scan-1")
	require.NoError(t, err)
	assert.Equal(t, "scan-1", got.ScanID)
	assert.Equal(t, schemas.ScanStatePending, got.Status)
	assert.Equal(t, "file:///renders", got.Spec.SourceURI)
}

func TestMemoryStore_CreateDuplicate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateScan(ctx, newTestScan("scan-1")))
	err := s.CreateScan(ctx, newTestScan("scan-1"))
	assert.ErrorIs(t, err, ErrScanExists)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.GetScan(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrScanNotFound)

	_, err = s.GetScan(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidScanID)
}

func TestMemoryStore_UpdateStatus(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateScan(ctx, newTestScan("scan-1")))
	require.NoError(t, s.UpdateScanStatus(ctx, "scan-1", schemas.ScanStateCompleted))

	got, err := s.GetScan(ctx, "scan-1")
	require.NoError(t, err)
	assert.Equal(t, schemas.ScanStateCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
	assert.True(t, got.IsTerminal())
}

func TestMemoryStore_UpdateError(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateScan(ctx, newTestScan("scan-1")))
	require.NoError(t, s.UpdateScanError(ctx, "scan-1", &schemas.ErrorInfo{
		Code:    "LIST_ERROR",
		Message: "bucket does not exist",
	}))

	got, err := s.GetScan(ctx, "scan-1")
	require.NoError(t, err)
	assert.Equal(t, schemas.ScanStateFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Equal(t, "LIST_ERROR", got.Error.Code)
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateScan(ctx, newTestScan("scan-1")))
	require.NoError(t, s.DeleteScan(ctx, "scan-1"))

	_, err := s.GetScan(ctx, "scan-1")
	assert.ErrorIs(t, err, ErrScanNotFound)

	assert.ErrorIs(t, s.DeleteScan(ctx, "scan-1"), ErrScanNotFound)
}

func TestMemoryStore_ListFilterAndPaginate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.CreateScan(ctx, newTestScan(id)))
	}
	require.NoError(t, s.UpdateScanStatus(ctx, "b", schemas.ScanStateCompleted))

	completed, err := s.ListScans(ctx, &ListFilter{
		Status: []schemas.ScanState{schemas.ScanStateCompleted},
	})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "b", completed[0].ScanID)

	page, err := s.ListScans(ctx, &ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := s.ListScans(ctx, &ListFilter{Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	none, err := s.ListScans(ctx, &ListFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateScan(ctx, newTestScan("scan-1")))

	got, err := s.GetScan(ctx, "scan-1")
	require.NoError(t, err)
	got.Status = schemas.ScanStateFailed

	again, err := s.GetScan(ctx, "scan-1")
	require.NoError(t, err)
	assert.Equal(t, schemas.ScanStatePending, again.Status)
}
