package fake

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/codr1/courtside/internal/payments"
)

func TestRetrieveSessionUnknown(t *testing.T) {
	v := NewVerifier()
	_, err := v.RetrieveSession(context.Background(), "sess_missing")
	if !errors.Is(err, payments.ErrUnknownSession) {
		t.Fatalf("expected ErrUnknownSession, got %v", err)
	}
	if got := v.Calls("sess_missing"); got != 1 {
		t.Fatalf("expected 1 call, got %d", got)
	}
}

func TestRetrieveSessionCopiesMetadata(t *testing.T) {
	v := NewVerifier()
	v.Put(payments.Session{ID: "sess_1", Status: payments.SessionPaid, Metadata: map[string]string{"user_id": "u1"}})

	first, err := v.RetrieveSession(context.Background(), "sess_1")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	first.Metadata["user_id"] = "changed"

	second, err := v.RetrieveSession(context.Background(), "sess_1")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if second.Metadata["user_id"] != "u1" {
		t.Fatalf("metadata leaked between calls: %q", second.Metadata["user_id"])
	}
}

func TestFailWith(t *testing.T) {
	v := NewVerifier()
	v.Put(payments.Session{ID: "sess_1", Status: payments.SessionPaid})
	v.FailWith("sess_1", payments.ErrVerifierUnreachable)

	if _, err := v.RetrieveSession(context.Background(), "sess_1"); !errors.Is(err, payments.ErrVerifierUnreachable) {
		t.Fatalf("expected ErrVerifierUnreachable, got %v", err)
	}

	v.FailWith("sess_1", nil)
	if _, err := v.RetrieveSession(context.Background(), "sess_1"); err != nil {
		t.Fatalf("expected success after clearing, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.yaml")
	fixture := `sessions:
  - id: sess_123
    amount_captured: 2500
    metadata:
      user_id: u1
      tournament_id: t1
  - id: sess_open
    status: pending
`
	if err := os.WriteFile(path, []byte(fixture), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	v, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	session, err := v.RetrieveSession(context.Background(), "sess_123")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if session.Status != payments.SessionPaid {
		t.Fatalf("expected default status paid, got %s", session.Status)
	}
	if session.AmountCaptured != 2500 || session.Metadata["tournament_id"] != "t1" {
		t.Fatalf("unexpected session %+v", session)
	}

	open, err := v.RetrieveSession(context.Background(), "sess_open")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if open.Status != payments.SessionPending {
		t.Fatalf("expected pending, got %s", open.Status)
	}
}
