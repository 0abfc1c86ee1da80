package payments

import "context"

type SessionStatus string

const (
	SessionPending SessionStatus = "pending"
	SessionPaid    SessionStatus = "paid"
	SessionFailed  SessionStatus = "failed"
	SessionExpired SessionStatus = "expired"
)

// Terminal reports whether the provider will never move the session to paid.
func (s SessionStatus) Terminal() bool {
	return s == SessionFailed || s == SessionExpired
}

// Session is the provider's view of one payment attempt.
type Session struct {
	ID               string
	Status           SessionStatus
	AmountCaptured   int64
	Currency         string
	Metadata         map[string]string
	PaymentReference string
	CustomerEmail    string
}

// Verifier retrieves the authoritative state of a payment session.
// Implementations return ErrUnknownSession when the provider has no such session and
// wrap transport or provider failures in ErrVerifierUnreachable.
type Verifier interface {
	RetrieveSession(ctx context.Context, sessionID string) (Session, error)
}
