package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codr1/courtside/internal/payments"
)

type fakePublisher struct {
	key       string
	messageID string
	payload   any
	err       error
	calls     int
}

func (f *fakePublisher) PublishJSON(_ context.Context, key, messageID string, v any) error {
	f.calls++
	f.key = key
	f.messageID = messageID
	f.payload = v
	return f.err
}

func TestBuildPaymentConfirmed(t *testing.T) {
	fee, organizer := int64(1500), int64(8500)
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	event := BuildPaymentConfirmed(payments.Result{
		SessionID:            "sess_123",
		DomainKind:           payments.KindTournamentRegistration,
		TargetEntityID:       "tour_1",
		EffectID:             "reg_1",
		AmountCents:          10000,
		PlatformFeeCents:     &fee,
		OrganizerAmountCents: &organizer,
	}, payments.Session{Currency: "brl", PaymentReference: "pi_1"}, at)

	if event.Event != "payment.confirmed" || event.Version != 1 || event.OccurredAt != "2026-03-14T09:30:00Z" {
		t.Fatalf("unexpected envelope %+v", event)
	}
	if event.Data.DomainKind != "tournament_registration" || event.Data.EffectID != "reg_1" || event.Data.Currency != "brl" {
		t.Fatalf("unexpected data %+v", event.Data)
	}
	if *event.Data.PlatformFeeCents != 1500 || *event.Data.OrganizerAmountCents != 8500 {
		t.Fatalf("unexpected amounts %+v", event.Data)
	}
}

func TestConfirmationPublisherUsesSessionAsMessageID(t *testing.T) {
	pub := &fakePublisher{}
	listener := NewConfirmationPublisher(pub, "")

	listener.PaymentConfirmed(context.Background(), payments.Result{SessionID: "sess_1", EffectID: "b_1"}, payments.Session{})

	if pub.calls != 1 || pub.key != "payment.confirmed" || pub.messageID != "sess_1" {
		t.Fatalf("unexpected publish key=%q id=%q calls=%d", pub.key, pub.messageID, pub.calls)
	}
	if _, ok := pub.payload.(PaymentConfirmed); !ok {
		t.Fatalf("unexpected payload type %T", pub.payload)
	}
}

func TestConfirmationPublisherSwallowsErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("channel closed")}
	listener := NewConfirmationPublisher(pub, "payments.confirmed")

	// Must not panic and must not propagate the failure.
	listener.PaymentConfirmed(context.Background(), payments.Result{SessionID: "sess_1"}, payments.Session{})
	if pub.calls != 1 || pub.key != "payments.confirmed" {
		t.Fatalf("expected one publish attempt with custom key, got %d %q", pub.calls, pub.key)
	}
}
