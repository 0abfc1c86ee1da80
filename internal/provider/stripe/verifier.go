// Package stripe verifies Checkout Sessions through the Stripe API.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/codr1/courtside/internal/payments"
)

type sessionGetter interface {
	Get(id string, params *stripeapi.CheckoutSessionParams) (*stripeapi.CheckoutSession, error)
}

// Verifier retrieves Checkout Sessions and maps them onto payments.Session.
type Verifier struct {
	sessions sessionGetter
}

// NewVerifier builds a Stripe client whose HTTP calls are bounded by timeout.
func NewVerifier(secretKey string, timeout time.Duration) (*Verifier, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	httpClient := &http.Client{Timeout: timeout}
	sc := client.New(secretKey, stripeapi.NewBackends(httpClient))
	return &Verifier{sessions: sc.CheckoutSessions}, nil
}

func (v *Verifier) RetrieveSession(ctx context.Context, sessionID string) (payments.Session, error) {
	params := &stripeapi.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("payment_intent")

	cs, err := v.sessions.Get(sessionID, params)
	if err != nil {
		return payments.Session{}, mapError(sessionID, err)
	}
	return sessionFromCheckout(cs), nil
}

func sessionFromCheckout(cs *stripeapi.CheckoutSession) payments.Session {
	session := payments.Session{
		ID:             cs.ID,
		Status:         sessionStatus(cs),
		AmountCaptured: cs.AmountTotal,
		Currency:       string(cs.Currency),
		Metadata:       cs.Metadata,
	}
	if cs.PaymentIntent != nil {
		session.PaymentReference = cs.PaymentIntent.ID
	}
	if cs.CustomerDetails != nil {
		session.CustomerEmail = cs.CustomerDetails.Email
	}
	if session.Metadata == nil {
		session.Metadata = map[string]string{}
	}
	return session
}

func sessionStatus(cs *stripeapi.CheckoutSession) payments.SessionStatus {
	switch {
	case cs.PaymentStatus == stripeapi.CheckoutSessionPaymentStatusPaid:
		return payments.SessionPaid
	case cs.PaymentStatus == stripeapi.CheckoutSessionPaymentStatusNoPaymentRequired &&
		cs.Status == stripeapi.CheckoutSessionStatusComplete:
		return payments.SessionPaid
	case cs.Status == stripeapi.CheckoutSessionStatusExpired:
		return payments.SessionExpired
	default:
		return payments.SessionPending
	}
}

func mapError(sessionID string, err error) error {
	var stripeErr *stripeapi.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Code == stripeapi.ErrorCodeResourceMissing || stripeErr.HTTPStatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", payments.ErrUnknownSession, sessionID)
		}
	}
	return fmt.Errorf("%w: stripe: %w", payments.ErrVerifierUnreachable, err)
}
