package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quantx/pulse/internal/core"
)

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"hello": "world"})

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected application/json content type")
	}

	var resp SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data == nil {
		t.Error("expected data in response")
	}
	if resp.Meta.Timestamp.IsZero() {
		t.Error("expected timestamp in meta")
	}
}

func TestError_WithCoreError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusBadRequest, core.ErrInvalidSnapshot)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "INVALID_SNAPSHOT" {
		t.Errorf("expected INVALID_SNAPSHOT, got %s", resp.Error.Code)
	}
}

func TestError_WrappedCausePropagates(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusBadGateway, core.WrapError(core.ErrProviderFailed, errors.New("connection refused")))

	var resp ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "PROVIDER_FAILED" {
		t.Errorf("expected PROVIDER_FAILED, got %s", resp.Error.Code)
	}
	if resp.Error.Cause != "connection refused" {
		t.Errorf("expected cause in detail, got %q", resp.Error.Cause)
	}
}

func TestError_NonCoreErrorMasked(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusInternalServerError, errors.New("sql: connection reset"))

	var resp ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("expected INTERNAL_ERROR, got %s", resp.Error.Code)
	}
	if resp.Error.Message == "sql: connection reset" {
		t.Error("internal error detail should not leak to clients")
	}
}
