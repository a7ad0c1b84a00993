package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWithCauseUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := ErrUpstreamUnavailable.WithCause(cause)

	if err.Unwrap() != cause {
		t.Fatalf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("Error() should include cause, got %q", err.Error())
	}
	// Original instance must not be mutated.
	if ErrUpstreamUnavailable.Cause != nil {
		t.Fatal("predefined instance was mutated")
	}
}

func TestIs(t *testing.T) {
	err := ErrTitleNotFound.WithCause(fmt.Errorf("title 99"))
	if !Is(err, ErrTitleNotFound) {
		t.Fatal("expected Is to match by code")
	}
	if Is(err, ErrUpstreamUnavailable) {
		t.Fatal("expected Is to reject different code")
	}
	if Is(fmt.Errorf("plain"), ErrTitleNotFound) {
		t.Fatal("plain error should not match")
	}
}

func TestGetHTTPStatus(t *testing.T) {
	if got := GetHTTPStatus(ErrAgencyNotFound); got != http.StatusNotFound {
		t.Fatalf("GetHTTPStatus = %d, want 404", got)
	}
	if got := GetHTTPStatus(fmt.Errorf("unknown")); got != http.StatusInternalServerError {
		t.Fatalf("GetHTTPStatus = %d, want 500 for unknown errors", got)
	}
}

func TestWriteResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrAgencyNotFound.WriteResponse(rec)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"error":"Agency not found"`) {
		t.Fatalf("unexpected body: %s", body)
	}
}
