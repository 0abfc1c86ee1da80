package apiutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDecodeJSON(t *testing.T) {
	type body struct {
		SessionID string `json:"sessionId"`
	}
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{name: "valid", payload: `{"sessionId":"sess_1"}`},
		{name: "unknown field", payload: `{"sessionId":"sess_1","extra":true}`, wantErr: true},
		{name: "trailing data", payload: `{"sessionId":"a"}{"sessionId":"b"}`, wantErr: true},
		{name: "not json", payload: `sessionId=a`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			var dst body
			err := DecodeJSON(req, &dst)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteErrorUsesHandlerError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	WriteError(rec, req, HandlerError{
		Status:     http.StatusServiceUnavailable,
		Message:    "try again",
		RetryAfter: 1500 * time.Millisecond,
	})

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("expected Retry-After 2, got %q", got)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "try again" {
		t.Fatalf("unexpected body %v", resp)
	}
}

func TestWriteErrorHidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("sqlite: disk image is malformed"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "sqlite") {
		t.Fatalf("internal error leaked: %s", rec.Body.String())
	}
}
