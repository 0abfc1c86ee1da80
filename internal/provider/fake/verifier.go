// Package fake provides an in-memory payment verifier for local development and tests.
package fake

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/codr1/courtside/internal/payments"
)

// Verifier serves sessions registered with Put or loaded from a fixture file.
type Verifier struct {
	mu       sync.Mutex
	sessions map[string]payments.Session
	errs     map[string]error
	calls    map[string]int
}

func NewVerifier() *Verifier {
	return &Verifier{
		sessions: make(map[string]payments.Session),
		errs:     make(map[string]error),
		calls:    make(map[string]int),
	}
}

type fixtureSession struct {
	ID               string            `yaml:"id"`
	Status           string            `yaml:"status"`
	AmountCaptured   int64             `yaml:"amount_captured"`
	Currency         string            `yaml:"currency"`
	Metadata         map[string]string `yaml:"metadata"`
	PaymentReference string            `yaml:"payment_reference"`
	CustomerEmail    string            `yaml:"customer_email"`
}

type fixtureFile struct {
	Sessions []fixtureSession `yaml:"sessions"`
}

// LoadFile reads a YAML fixture of the form `sessions: [{id, status, amount_captured, metadata}]`.
func LoadFile(path string) (*Verifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fake sessions: %w", err)
	}
	var fixture fixtureFile
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse fake sessions: %w", err)
	}

	v := NewVerifier()
	for _, s := range fixture.Sessions {
		if s.ID == "" {
			return nil, fmt.Errorf("parse fake sessions: session without id")
		}
		status := payments.SessionStatus(s.Status)
		if status == "" {
			status = payments.SessionPaid
		}
		v.Put(payments.Session{
			ID:               s.ID,
			Status:           status,
			AmountCaptured:   s.AmountCaptured,
			Currency:         s.Currency,
			Metadata:         s.Metadata,
			PaymentReference: s.PaymentReference,
			CustomerEmail:    s.CustomerEmail,
		})
	}
	return v, nil
}

// Put registers or replaces a session.
func (v *Verifier) Put(session payments.Session) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sessions[session.ID] = session
}

// SetStatus changes the status of a registered session.
func (v *Verifier) SetStatus(sessionID string, status payments.SessionStatus) {
	v.mu.Lock()
	defer v.mu.Unlock()
	session := v.sessions[sessionID]
	session.ID = sessionID
	session.Status = status
	v.sessions[sessionID] = session
}

// FailWith makes RetrieveSession return err for sessionID until cleared with a nil err.
func (v *Verifier) FailWith(sessionID string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err == nil {
		delete(v.errs, sessionID)
		return
	}
	v.errs[sessionID] = err
}

// Calls returns how many times sessionID was retrieved.
func (v *Verifier) Calls(sessionID string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls[sessionID]
}

func (v *Verifier) RetrieveSession(ctx context.Context, sessionID string) (payments.Session, error) {
	if err := ctx.Err(); err != nil {
		return payments.Session{}, fmt.Errorf("%w: %w", payments.ErrVerifierUnreachable, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls[sessionID]++
	if err := v.errs[sessionID]; err != nil {
		return payments.Session{}, err
	}
	session, ok := v.sessions[sessionID]
	if !ok {
		return payments.Session{}, fmt.Errorf("%w: %s", payments.ErrUnknownSession, sessionID)
	}

	metadata := make(map[string]string, len(session.Metadata))
	for k, val := range session.Metadata {
		metadata[k] = val
	}
	session.Metadata = metadata
	return session, nil
}
