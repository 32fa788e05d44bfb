package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/fxdesk/cashdesk/internal/adapter/http/dto"
	"github.com/fxdesk/cashdesk/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/drawers?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/drawers?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"drawer not found", domain.ErrDrawerNotFound, http.StatusNotFound},
		{"shift not found", domain.ErrShiftNotFound, http.StatusNotFound},
		{"currency not found", domain.ErrCurrencyNotFound, http.StatusNotFound},
		{"employee not found", domain.ErrEmployeeNotFound, http.StatusNotFound},
		{"shift already active", domain.ErrShiftAlreadyActive, http.StatusConflict},
		{"target shift active", domain.ErrTargetShiftActive, http.StatusConflict},
		{"shift not active", domain.ErrShiftNotActive, http.StatusConflict},
		{"insufficient balance", domain.ErrInsufficientBalance, http.StatusConflict},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"invalid entry kind", domain.ErrInvalidEntryKind, http.StatusBadRequest},
		{"missing reason", domain.ErrMissingReason, http.StatusBadRequest},
		{"amount too large", domain.ErrAmountTooLarge, http.StatusBadRequest},
		{"notes too long", domain.ErrNotesTooLong, http.StatusBadRequest},
		{"drawer inactive", domain.ErrDrawerInactive, http.StatusBadRequest},
		{"currency inactive", domain.ErrCurrencyInactive, http.StatusBadRequest},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"expired token", domain.ErrExpiredToken, http.StatusUnauthorized},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestMapDomainError_WrappedError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), domain.ErrInsufficientBalance)
	if got := mapDomainError(wrapped); got != http.StatusConflict {
		t.Fatalf("expected wrapped error to map to 409, got %d", got)
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad request", "detail")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error != "bad request" {
		t.Fatalf("expected error message to propagate, got %+v", resp)
	}
}

func TestActorFromRequest_Missing(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/shifts/active", nil)

	if _, ok := actorFromRequest(rr, req); ok {
		t.Fatal("expected no actor on unauthenticated request")
	}

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
