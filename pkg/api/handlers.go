// Package api provides HTTP handlers for the frameseq API
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chicogong/frameseq/pkg/framespec"
	"github.com/chicogong/frameseq/pkg/schemas"
	"github.com/chicogong/frameseq/pkg/sequence"
	"github.com/chicogong/frameseq/pkg/storage"
	"github.com/chicogong/frameseq/pkg/store"
)

// Server holds the API server dependencies
type Server struct {
	store  store.Store
	logger *zap.Logger
}

// NewServer creates a new API server
func NewServer(s store.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		store:  s,
		logger: logger,
	}
}

// CondenseRequest represents the request body for condensing a file list
type CondenseRequest struct {
	Files   []string              `json:"files"`
	Options *schemas.CodecOptions `json:"options,omitempty"`
}

// CondenseResponse represents the response for condensing a file list
type CondenseResponse struct {
	Condensed string `json:"condensed"`
	Count     int    `json:"count"`
}

// ExpandRequest represents the request body for expanding a condensed string
type ExpandRequest struct {
	Condensed string                `json:"condensed"`
	Options   *schemas.CodecOptions `json:"options,omitempty"`
}

// ExpandResponse represents the response for expanding a condensed string
type ExpandResponse struct {
	Files []string `json:"files"`
	Count int      `json:"count"`
}

// CreateScanRequest represents the request body for creating a scan
type CreateScanRequest struct {
	Spec *schemas.ScanSpec `json:"spec"`
}

// CreateScanResponse represents the response for creating a scan
type CreateScanResponse struct {
	ScanID    string    `json:"scan_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HandleCondense handles POST /api/v1/condense
func (s *Server) HandleCondense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	var req CondenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if len(req.Files) == 0 {
		s.sendError(w, http.StatusBadRequest, "missing_files", "File list is required")
		return
	}

	codec, err := framespec.New(req.Options.ToConfig())
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid_options", fmt.Sprintf("Invalid codec options: %v", err))
		return
	}

	condensed, err := codec.Encode(req.Files)
	if err != nil {
		s.sendCodecError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, CondenseResponse{
		Condensed: condensed,
		Count:     len(req.Files),
	})
}

// HandleExpand handles POST /api/v1/expand
func (s *Server) HandleExpand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	var req ExpandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if req.Condensed == "" {
		s.sendError(w, http.StatusBadRequest, "missing_condensed", "Condensed file string is required")
		return
	}

	codec, err := framespec.New(req.Options.ToConfig())
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid_options", fmt.Sprintf("Invalid codec options: %v", err))
		return
	}

	files, err := codec.Decode(req.Condensed)
	if err != nil {
		s.sendCodecError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, ExpandResponse{
		Files: files,
		Count: len(files),
	})
}

// HandleCreateScan handles POST /api/v1/scans
func (s *Server) HandleCreateScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	var req CreateScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if req.Spec == nil {
		s.sendError(w, http.StatusBadRequest, "missing_spec", "Scan specification is required")
		return
	}

	if err := req.Spec.Validate(); err != nil {
		s.sendError(w, http.StatusBadRequest, "validation_error", fmt.Sprintf("Invalid scan specification: %v", err))
		return
	}

	scanID := fmt.Sprintf("scan_%s", uuid.NewString())

	scan := &store.Scan{
		ScanID:  scanID,
		Created: time.Now(),
		Updated: time.Now(),
		Status:  schemas.ScanStatePending,
		Spec:    req.Spec,
	}

	ctx := r.Context()
	if err := s.store.CreateScan(ctx, scan); err != nil {
		s.sendError(w, http.StatusInternalServerError, "store_error", fmt.Sprintf("Failed to create scan: %v", err))
		return
	}

	// Listing and grouping run in the background
	go s.processScan(context.Background(), scanID)

	s.sendJSON(w, http.StatusCreated, CreateScanResponse{
		ScanID:    scanID,
		Status:    string(schemas.ScanStatePending),
		CreatedAt: scan.Created,
	})
}

// HandleGetScan handles GET /api/v1/scans/{id}
func (s *Server) HandleGetScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	scanID := extractScanID(r.URL.Path)
	if scanID == "" {
		s.sendError(w, http.StatusBadRequest, "invalid_scan_id", "Scan ID is required")
		return
	}

	ctx := r.Context()
	scan, err := s.store.GetScan(ctx, scanID)
	if errors.Is(err, store.ErrScanNotFound) {
		s.sendError(w, http.StatusNotFound, "scan_not_found", fmt.Sprintf("Scan %s not found", scanID))
		return
	}
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "store_error", fmt.Sprintf("Failed to get scan: %v", err))
		return
	}

	s.sendJSON(w, http.StatusOK, scan.ToScanStatus())
}

// HandleListScans handles GET /api/v1/scans
func (s *Server) HandleListScans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	filter := s.parseListFilter(r)

	ctx := r.Context()
	scans, err := s.store.ListScans(ctx, filter)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "store_error", fmt.Sprintf("Failed to list scans: %v", err))
		return
	}

	statuses := make([]*schemas.ScanStatus, len(scans))
	for i, scan := range scans {
		statuses[i] = scan.ToScanStatus()
	}

	s.sendJSON(w, http.StatusOK, statuses)
}

// HandleDeleteScan handles DELETE /api/v1/scans/{id}
func (s *Server) HandleDeleteScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	scanID := extractScanID(r.URL.Path)
	if scanID == "" {
		s.sendError(w, http.StatusBadRequest, "invalid_scan_id", "Scan ID is required")
		return
	}

	ctx := r.Context()
	err := s.store.DeleteScan(ctx, scanID)
	if errors.Is(err, store.ErrScanNotFound) {
		s.sendError(w, http.StatusNotFound, "scan_not_found", fmt.Sprintf("Scan %s not found", scanID))
		return
	}
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "store_error", fmt.Sprintf("Failed to delete scan: %v", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleScans dispatches /api/v1/scans and /api/v1/scans/{id} by method and path
func (s *Server) HandleScans(w http.ResponseWriter, r *http.Request) {
	if extractScanID(r.URL.Path) != "" {
		switch r.Method {
		case http.MethodGet:
			s.HandleGetScan(w, r)
		case http.MethodDelete:
			s.HandleDeleteScan(w, r)
		default:
			s.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		}
		return
	}

	switch r.Method {
	case http.MethodPost:
		s.HandleCreateScan(w, r)
	case http.MethodGet:
		s.HandleListScans(w, r)
	default:
		s.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	}
}

// HandleHealth handles GET /health
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	health := map[string]interface{}{
		"status": "healthy",
		"time":   time.Now(),
	}

	s.sendJSON(w, http.StatusOK, health)
}

// processScan lists the source and groups the names in the background
func (s *Server) processScan(ctx context.Context, scanID string) {
	scan, err := s.store.GetScan(ctx, scanID)
	if err != nil {
		s.logger.Error("failed to load scan", zap.String("scan_id", scanID), zap.Error(err))
		return
	}

	if err := s.store.UpdateScanStatus(ctx, scanID, schemas.ScanStateListing); err != nil {
		s.logger.Error("failed to update scan status", zap.String("scan_id", scanID), zap.Error(err))
		return
	}

	lister, err := storage.ForURI(ctx, scan.Spec.SourceURI)
	if err != nil {
		s.failScan(ctx, scanID, "SOURCE_ERROR", err, false)
		return
	}

	names, err := lister.List(ctx, scan.Spec.SourceURI)
	if err != nil {
		s.failScan(ctx, scanID, "LIST_ERROR", err, true)
		return
	}

	scan.Status = schemas.ScanStateGrouping
	scan.NameCount = len(names)
	if err := s.store.UpdateScan(ctx, scan); err != nil {
		s.logger.Error("failed to update scan", zap.String("scan_id", scanID), zap.Error(err))
		return
	}

	codec, err := framespec.New(scan.Spec.Options.ToConfig())
	if err != nil {
		s.failScan(ctx, scanID, "OPTIONS_ERROR", err, false)
		return
	}

	result, err := sequence.Scan(names, codec)
	if err != nil {
		s.failScan(ctx, scanID, "GROUPING_ERROR", err, false)
		return
	}

	scan.Result = result
	if err := s.store.UpdateScan(ctx, scan); err != nil {
		s.logger.Error("failed to save scan result", zap.String("scan_id", scanID), zap.Error(err))
		return
	}

	if err := s.store.UpdateScanStatus(ctx, scanID, schemas.ScanStateCompleted); err != nil {
		s.logger.Error("failed to update scan status", zap.String("scan_id", scanID), zap.Error(err))
		return
	}
	s.logger.Info("scan completed",
		zap.String("scan_id", scanID),
		zap.Int("names", len(names)),
		zap.Int("sequences", len(result.Sequences)),
		zap.Int("loose", len(result.Loose)))
}

func (s *Server) failScan(ctx context.Context, scanID, code string, err error, retryable bool) {
	s.logger.Warn("scan failed",
		zap.String("scan_id", scanID),
		zap.String("code", code),
		zap.Error(err))
	info := &schemas.ErrorInfo{
		Code:      code,
		Message:   err.Error(),
		Retryable: retryable,
	}
	if serr := s.store.UpdateScanError(ctx, scanID, info); serr != nil {
		s.logger.Error("failed to record scan error", zap.String("scan_id", scanID), zap.Error(serr))
	}
}

// Helper methods

func (s *Server) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	resp := ErrorResponse{
		Error:   code,
		Message: message,
		Code:    status,
	}
	s.sendJSON(w, status, resp)
}

// sendCodecError maps codec failures to 422 with a stable error code
func (s *Server) sendCodecError(w http.ResponseWriter, err error) {
	code := "codec_error"
	switch {
	case errors.Is(err, framespec.ErrNoNumberFound):
		code = "no_number_found"
	case errors.Is(err, framespec.ErrInconsistentAffixes):
		code = "inconsistent_affixes"
	case errors.Is(err, framespec.ErrDuplicateFrame):
		code = "duplicate_frame"
	case errors.Is(err, framespec.ErrMalformedRange):
		code = "malformed_range"
	case errors.Is(err, framespec.ErrNoFramespecFound):
		code = "no_framespec_found"
	}
	s.sendError(w, http.StatusUnprocessableEntity, code, err.Error())
}

func (s *Server) parseListFilter(r *http.Request) *store.ListFilter {
	q := r.URL.Query()
	filter := &store.ListFilter{}

	if statusStr := q.Get("status"); statusStr != "" {
		filter.Status = []schemas.ScanState{schemas.ScanState(statusStr)}
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		var limit int
		fmt.Sscanf(limitStr, "%d", &limit)
		filter.Limit = limit
	}
	if offsetStr := q.Get("offset"); offsetStr != "" {
		var offset int
		fmt.Sscanf(offsetStr, "%d", &offset)
		filter.Offset = offset
	}

	return filter
}

// extractScanID extracts the scan ID from a path like "/api/v1/scans/{id}"
func extractScanID(path string) string {
	const prefix = "/api/v1/scans/"
	if len(path) <= len(prefix) {
		return ""
	}
	return path[len(prefix):]
}

// Close closes the server and releases resources
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
