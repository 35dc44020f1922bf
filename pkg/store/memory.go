package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chicogong/frameseq/pkg/schemas"
)

// MemoryStore is an in-memory implementation of Store
// Thread-safe for concurrent access
type MemoryStore struct {
	mu    sync.RWMutex
	scans map[string]*Scan
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scans: make(map[string]*Scan),
	}
}

// CreateScan creates a new scan
func (m *MemoryStore) CreateScan(ctx context.Context, scan *Scan) error {
	if scan.ScanID == "" {
		return ErrInvalidScanID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.scans[scan.ScanID]; exists {
		return ErrScanExists
	}

	// Copy to avoid external modifications
	m.scans[scan.ScanID] = m.copyScan(scan)

	return nil
}

// GetScan retrieves a scan by ID
func (m *MemoryStore) GetScan(ctx context.Context, scanID string) (*Scan, error) {
	if scanID == "" {
		return nil, ErrInvalidScanID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	scan, exists := m.scans[scanID]
	if !exists {
		return nil, ErrScanNotFound
	}

	// Return a copy to prevent external modifications
	return m.copyScan(scan), nil
}

// UpdateScan updates an existing scan
func (m *MemoryStore) UpdateScan(ctx context.Context, scan *Scan) error {
	if scan.ScanID == "" {
		return ErrInvalidScanID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.scans[scan.ScanID]; !exists {
		return ErrScanNotFound
	}

	scan.Updated = time.Now()
	m.scans[scan.ScanID] = m.copyScan(scan)

	return nil
}

// DeleteScan deletes a scan by ID
func (m *MemoryStore) DeleteScan(ctx context.Context, scanID string) error {
	if scanID == "" {
		return ErrInvalidScanID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.scans[scanID]; !exists {
		return ErrScanNotFound
	}

	delete(m.scans, scanID)
	return nil
}

// ListScans lists scans with optional filtering, newest first
func (m *MemoryStore) ListScans(ctx context.Context, filter *ListFilter) ([]*Scan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var scans []*Scan
	for _, scan := range m.scans {
		if m.matchesFilter(scan, filter) {
			scans = append(scans, m.copyScan(scan))
		}
	}

	sort.Slice(scans, func(i, j int) bool {
		if !scans[i].Created.Equal(scans[j].Created) {
			return scans[i].Created.After(scans[j].Created)
		}
		// Stable order for scans created in the same instant
		return scans[i].ScanID < scans[j].ScanID
	})

	return m.paginateScans(scans, filter), nil
}

// UpdateScanStatus updates scan status
func (m *MemoryStore) UpdateScanStatus(ctx context.Context, scanID string, status schemas.ScanState) error {
	if scanID == "" {
		return ErrInvalidScanID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	scan, exists := m.scans[scanID]
	if !exists {
		return ErrScanNotFound
	}

	scan.Status = status
	scan.Updated = time.Now()

	if status == schemas.ScanStateCompleted || status == schemas.ScanStateFailed {
		if scan.CompletedAt == nil {
			now := time.Now()
			scan.CompletedAt = &now
		}
	}

	return nil
}

// UpdateScanError records an error for a scan and marks it failed
func (m *MemoryStore) UpdateScanError(ctx context.Context, scanID string, errInfo *schemas.ErrorInfo) error {
	if scanID == "" {
		return ErrInvalidScanID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	scan, exists := m.scans[scanID]
	if !exists {
		return ErrScanNotFound
	}

	if errInfo != nil {
		scan.Error = &schemas.ErrorInfo{
			Code:      errInfo.Code,
			Message:   errInfo.Message,
			Retryable: errInfo.Retryable,
		}
	}

	scan.Status = schemas.ScanStateFailed
	scan.Updated = time.Now()
	if scan.CompletedAt == nil {
		now := time.Now()
		scan.CompletedAt = &now
	}

	return nil
}

// Close closes the store (no-op for memory store)
func (m *MemoryStore) Close() error {
	return nil
}

// Helper methods

func (m *MemoryStore) copyScan(scan *Scan) *Scan {
	if scan == nil {
		return nil
	}

	scanCopy := &Scan{
		ScanID:    scan.ScanID,
		Created:   scan.Created,
		Updated:   scan.Updated,
		Status:    scan.Status,
		Spec:      scan.Spec,
		NameCount: scan.NameCount,
		Result:    scan.Result,
	}

	if scan.CompletedAt != nil {
		t := *scan.CompletedAt
		scanCopy.CompletedAt = &t
	}

	if scan.Error != nil {
		scanCopy.Error = &schemas.ErrorInfo{
			Code:      scan.Error.Code,
			Message:   scan.Error.Message,
			Retryable: scan.Error.Retryable,
		}
	}

	return scanCopy
}

func (m *MemoryStore) matchesFilter(scan *Scan, filter *ListFilter) bool {
	if filter == nil {
		return true
	}

	if len(filter.Status) > 0 {
		found := false
		for _, status := range filter.Status {
			if scan.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func (m *MemoryStore) paginateScans(scans []*Scan, filter *ListFilter) []*Scan {
	if filter == nil {
		return scans
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(scans) {
			return []*Scan{}
		}
		scans = scans[filter.Offset:]
	}

	if filter.Limit > 0 && filter.Limit < len(scans) {
		scans = scans[:filter.Limit]
	}

	return scans
}
