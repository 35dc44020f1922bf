package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chicogong/frameseq/pkg/schemas"
	"github.com/chicogong/frameseq/pkg/store"
)

func newTestServer() *Server {
	return NewServer(store.NewMemoryStore(), zap.NewNop())
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleCondense(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s.HandleCondense, "/api/v1/condense", CondenseRequest{
		Files: []string{"f.1.ext", "f.2.ext", "f.3.ext"},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp CondenseResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "f.1-3.ext", resp.Condensed)
	assert.Equal(t, 3, resp.Count)
}

func TestHandleCondense_InconsistentAffixes(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s.HandleCondense, "/api/v1/condense", CondenseRequest{
		Files: []string{"f.1.ext", "g.2.ext"},
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "inconsistent_affixes", resp.Error)
}

func TestHandleCondense_BadJSON(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/condense", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	s.HandleCondense(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCondense_MethodNotAllowed(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/condense", nil)
	w := httptest.NewRecorder()
	s.HandleCondense(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleCondense_CustomOptions(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s.HandleCondense, "/api/v1/condense", CondenseRequest{
		Files:   []string{"f.1.ext", "f.3.ext", "f.5.ext"},
		Options: &schemas.CodecOptions{StepDelimiter: ":"},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp CondenseResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "f.1-5:2.ext", resp.Condensed)
}

func TestHandleExpand(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s.HandleExpand, "/api/v1/expand", ExpandRequest{
		Condensed: "f.1-3.ext",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp ExpandResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, []string{"f.1.ext", "f.2.ext", "f.3.ext"}, resp.Files)
}

func TestHandleExpand_MalformedRange(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s.HandleExpand, "/api/v1/expand", ExpandRequest{
		Condensed: "f.5-1.ext",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "malformed_range", resp.Error)
}

func TestHandleExpand_NoFramespec(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s.HandleExpand, "/api/v1/expand", ExpandRequest{
		Condensed: "notes.txt",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "no_framespec_found", resp.Error)
}

func TestScanLifecycle(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"beauty.0001.exr", "beauty.0002.exr", "beauty.0003.exr", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	s := newTestServer()
	defer s.Close()

	w := postJSON(t, s.HandleScans, "/api/v1/scans", CreateScanRequest{
		Spec: &schemas.ScanSpec{SourceURI: "file://" + dir},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created CreateScanResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	require.NotEmpty(t, created.ScanID)

	// The scan runs in the background; poll until it settles
	var status schemas.ScanStatus
	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/scans/"+created.ScanID, nil)
		rec := httptest.NewRecorder()
		s.HandleScans(rec, req)
		if rec.Code != http.StatusOK {
			return false
		}
		if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
			return false
		}
		return status.Status == schemas.ScanStateCompleted || status.Status == schemas.ScanStateFailed
	}, 5*time.Second, 10*time.Millisecond)

	require.Equal(t, schemas.ScanStateCompleted, status.Status)
	assert.Equal(t, 4, status.NameCount)
	require.NotNil(t, status.Result)
	require.Len(t, status.Result.Sequences, 1)
	assert.Equal(t, "beauty.1-3.exr", status.Result.Sequences[0].Condensed)
	assert.Equal(t, []string{"notes.txt"}, status.Result.Loose)
}

func TestScanLifecycle_BadSource(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s.HandleScans, "/api/v1/scans", CreateScanRequest{
		Spec: &schemas.ScanSpec{SourceURI: "file:///does/not/exist"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created CreateScanResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

	var status schemas.ScanStatus
	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/scans/"+created.ScanID, nil)
		rec := httptest.NewRecorder()
		s.HandleScans(rec, req)
		if rec.Code != http.StatusOK {
			return false
		}
		if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
			return false
		}
		return status.Status == schemas.ScanStateFailed
	}, 5*time.Second, 10*time.Millisecond)

	require.NotNil(t, status.Error)
	assert.Equal(t, "LIST_ERROR", status.Error.Code)
}

func TestHandleCreateScan_MissingSpec(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s.HandleScans, "/api/v1/scans", CreateScanRequest{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "missing_spec", resp.Error)
}

func TestHandleCreateScan_InvalidOptions(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s.HandleScans, "/api/v1/scans", CreateScanRequest{
		Spec: &schemas.ScanSpec{
			SourceURI: "file:///renders",
			Options:   &schemas.CodecOptions{StepDelimiter: "-"},
		},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "validation_error", resp.Error)
}

func TestHandleListScans(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.store.CreateScan(ctx, &store.Scan{
			ScanID:  fmt.Sprintf("scan-%d", i),
			Created: time.Now(),
			Updated: time.Now(),
			Status:  schemas.ScanStatePending,
			Spec:    &schemas.ScanSpec{SourceURI: "file:///renders"},
		}))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scans?limit=2", nil)
	w := httptest.NewRecorder()
	s.HandleScans(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var statuses []*schemas.ScanStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&statuses))
	assert.Len(t, statuses, 2)
}

func TestHandleDeleteScan(t *testing.T) {
	s := newTestServer()

	require.NoError(t, s.store.CreateScan(context.Background(), &store.Scan{
		ScanID:  "scan-1",
		Created: time.Now(),
		Updated: time.Now(),
		Status:  schemas.ScanStateCompleted,
		Spec:    &schemas.ScanSpec{SourceURI: "file:///renders"},
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/scans/scan-1", nil)
	w := httptest.NewRecorder()
	s.HandleScans(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/scans/scan-1", nil)
	w = httptest.NewRecorder()
	s.HandleScans(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.HandleHealth(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestMiddlewareChain(t *testing.T) {
	logger := zap.NewNop()

	handler := Chain(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}, LoggingMiddleware(logger), CORSMiddleware, RecoveryMiddleware(logger))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(zap.NewNop())(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_server_error")
}

func TestCORSPreflight(t *testing.T) {
	handler := CORSMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run on preflight")
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/condense", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
