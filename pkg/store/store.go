// Package store provides scan state persistence
package store

import (
	"context"
	"errors"
	"time"

	"github.com/chicogong/frameseq/pkg/schemas"
	"github.com/chicogong/frameseq/pkg/sequence"
)

var (
	// ErrScanNotFound is returned when a scan does not exist
	ErrScanNotFound = errors.New("scan not found")

	// ErrScanExists is returned when attempting to create a scan that already exists
	ErrScanExists = errors.New("scan already exists")

	// ErrInvalidScanID is returned for invalid scan IDs
	ErrInvalidScanID = errors.New("invalid scan ID")
)

// Store is the interface for scan state persistence
type Store interface {
	// CreateScan creates a new scan with initial state
	CreateScan(ctx context.Context, scan *Scan) error

	// GetScan retrieves a scan by ID
	GetScan(ctx context.Context, scanID string) (*Scan, error)

	// UpdateScan updates an existing scan
	UpdateScan(ctx context.Context, scan *Scan) error

	// DeleteScan deletes a scan by ID
	DeleteScan(ctx context.Context, scanID string) error

	// ListScans lists scans with optional filtering
	ListScans(ctx context.Context, filter *ListFilter) ([]*Scan, error)

	// UpdateScanStatus updates scan status
	UpdateScanStatus(ctx context.Context, scanID string, status schemas.ScanState) error

	// UpdateScanError records an error for a scan and marks it failed
	UpdateScanError(ctx context.Context, scanID string, errInfo *schemas.ErrorInfo) error

	// Close closes the store and releases resources
	Close() error
}

// Scan represents a complete scan record in the store
type Scan struct {
	// Core identifiers
	ScanID  string    `json:"scan_id"`
	Created time.Time `json:"created_at"`
	Updated time.Time `json:"updated_at"`

	// Scan specification
	Spec *schemas.ScanSpec `json:"spec"`

	// Current status
	Status      schemas.ScanState  `json:"status"`
	Error       *schemas.ErrorInfo `json:"error,omitempty"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`

	// Outcome
	NameCount int              `json:"name_count,omitempty"`
	Result    *sequence.Result `json:"result,omitempty"`
}

// ListFilter defines filtering criteria for listing scans
type ListFilter struct {
	// Status filters
	Status []schemas.ScanState `json:"status,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`  // Max results (0 = no limit)
	Offset int `json:"offset,omitempty"` // Skip N results
}

// ToScanStatus converts a Scan to schemas.ScanStatus
func (s *Scan) ToScanStatus() *schemas.ScanStatus {
	status := &schemas.ScanStatus{
		ScanID:      s.ScanID,
		Status:      s.Status,
		Error:       s.Error,
		CreatedAt:   s.Created,
		UpdatedAt:   s.Updated,
		CompletedAt: s.CompletedAt,
		NameCount:   s.NameCount,
		Result:      s.Result,
	}
	if s.Spec != nil {
		status.SourceURI = s.Spec.SourceURI
	}
	return status
}

// IsTerminal returns true if the scan is in a terminal state
func (s *Scan) IsTerminal() bool {
	return s.Status == schemas.ScanStateCompleted || s.Status == schemas.ScanStateFailed
}
