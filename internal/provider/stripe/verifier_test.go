package stripe

import (
	"context"
	"errors"
	"net/http"
	"testing"

	stripeapi "github.com/stripe/stripe-go/v76"

	"github.com/codr1/courtside/internal/payments"
)

type stubGetter struct {
	session *stripeapi.CheckoutSession
	err     error
	gotID   string
	gotCtx  context.Context
}

func (s *stubGetter) Get(id string, params *stripeapi.CheckoutSessionParams) (*stripeapi.CheckoutSession, error) {
	s.gotID = id
	s.gotCtx = params.Context
	return s.session, s.err
}

func TestRetrieveSessionMapsCheckoutSession(t *testing.T) {
	getter := &stubGetter{session: &stripeapi.CheckoutSession{
		ID:              "cs_test_1",
		PaymentStatus:   stripeapi.CheckoutSessionPaymentStatusPaid,
		Status:          stripeapi.CheckoutSessionStatusComplete,
		AmountTotal:     10000,
		Currency:        stripeapi.CurrencyBRL,
		Metadata:        map[string]string{"tournament_id": "t1"},
		PaymentIntent:   &stripeapi.PaymentIntent{ID: "pi_1"},
		CustomerDetails: &stripeapi.CheckoutSessionCustomerDetails{Email: "player@example.com"},
	}}
	v := &Verifier{sessions: getter}

	ctx := context.Background()
	session, err := v.RetrieveSession(ctx, "cs_test_1")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if getter.gotID != "cs_test_1" || getter.gotCtx != ctx {
		t.Fatalf("request not forwarded: id=%q", getter.gotID)
	}
	if session.Status != payments.SessionPaid || session.AmountCaptured != 10000 || session.Currency != "brl" {
		t.Fatalf("unexpected session %+v", session)
	}
	if session.PaymentReference != "pi_1" || session.CustomerEmail != "player@example.com" {
		t.Fatalf("unexpected reference/email %+v", session)
	}
	if session.Metadata["tournament_id"] != "t1" {
		t.Fatalf("metadata not copied: %v", session.Metadata)
	}
}

func TestSessionStatus(t *testing.T) {
	tests := []struct {
		name    string
		payment stripeapi.CheckoutSessionPaymentStatus
		status  stripeapi.CheckoutSessionStatus
		want    payments.SessionStatus
	}{
		{name: "paid", payment: stripeapi.CheckoutSessionPaymentStatusPaid, status: stripeapi.CheckoutSessionStatusComplete, want: payments.SessionPaid},
		{name: "free and complete", payment: stripeapi.CheckoutSessionPaymentStatusNoPaymentRequired, status: stripeapi.CheckoutSessionStatusComplete, want: payments.SessionPaid},
		{name: "free but open", payment: stripeapi.CheckoutSessionPaymentStatusNoPaymentRequired, status: stripeapi.CheckoutSessionStatusOpen, want: payments.SessionPending},
		{name: "unpaid open", payment: stripeapi.CheckoutSessionPaymentStatusUnpaid, status: stripeapi.CheckoutSessionStatusOpen, want: payments.SessionPending},
		{name: "async pending", payment: stripeapi.CheckoutSessionPaymentStatusUnpaid, status: stripeapi.CheckoutSessionStatusComplete, want: payments.SessionPending},
		{name: "expired", payment: stripeapi.CheckoutSessionPaymentStatusUnpaid, status: stripeapi.CheckoutSessionStatusExpired, want: payments.SessionExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sessionStatus(&stripeapi.CheckoutSession{PaymentStatus: tt.payment, Status: tt.status})
			if got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRetrieveSessionErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "missing", err: &stripeapi.Error{Code: stripeapi.ErrorCodeResourceMissing, HTTPStatusCode: http.StatusNotFound}, want: payments.ErrUnknownSession},
		{name: "rate limited", err: &stripeapi.Error{HTTPStatusCode: http.StatusTooManyRequests}, want: payments.ErrVerifierUnreachable},
		{name: "transport", err: errors.New("dial tcp: i/o timeout"), want: payments.ErrVerifierUnreachable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Verifier{sessions: &stubGetter{err: tt.err}}
			_, err := v.RetrieveSession(context.Background(), "cs_1")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNewVerifierRequiresKey(t *testing.T) {
	if _, err := NewVerifier("", 0); err == nil {
		t.Fatalf("expected error for empty secret key")
	}
}
