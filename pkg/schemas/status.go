package schemas

import (
	"time"

	"github.com/chicogong/frameseq/pkg/sequence"
)

// ScanState represents the current state of a scan
type ScanState string

const (
	ScanStatePending   ScanState = "pending"
	ScanStateListing   ScanState = "listing"
	ScanStateGrouping  ScanState = "grouping"
	ScanStateCompleted ScanState = "completed"
	ScanStateFailed    ScanState = "failed"
)

// ScanStatus represents real-time scan status
type ScanStatus struct {
	ScanID      string           `json:"scan_id"`
	SourceURI   string           `json:"source_uri"`
	Status      ScanState        `json:"status"`
	Error       *ErrorInfo       `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	NameCount   int              `json:"name_count,omitempty"`
	Result      *sequence.Result `json:"result,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}
