package events

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/payments"
)

const (
	paymentConfirmedEvent   = "payment.confirmed"
	paymentConfirmedVersion = 1
	publishTimeout          = 5 * time.Second
)

// JSONPublisher is satisfied by *Publisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, key, messageID string, v any) error
}

type PaymentConfirmed struct {
	Event      string               `json:"event"`
	Version    int                  `json:"version"`
	OccurredAt string               `json:"occurred_at"`
	Data       PaymentConfirmedData `json:"data"`
}

type PaymentConfirmedData struct {
	SessionID            string `json:"session_id"`
	DomainKind           string `json:"domain_kind"`
	TargetEntityID       string `json:"target_entity_id"`
	EffectID             string `json:"effect_id"`
	AmountCents          int64  `json:"amount_cents"`
	Currency             string `json:"currency,omitempty"`
	PlatformFeeCents     *int64 `json:"platform_fee_cents,omitempty"`
	OrganizerAmountCents *int64 `json:"organizer_amount_cents,omitempty"`
	PaymentReference     string `json:"payment_reference,omitempty"`
}

// ConfirmationPublisher emits payment.confirmed for every first application.
type ConfirmationPublisher struct {
	publisher  JSONPublisher
	routingKey string
	now        func() time.Time
}

func NewConfirmationPublisher(publisher JSONPublisher, routingKey string) *ConfirmationPublisher {
	if routingKey == "" {
		routingKey = paymentConfirmedEvent
	}
	return &ConfirmationPublisher{
		publisher:  publisher,
		routingKey: routingKey,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (p *ConfirmationPublisher) PaymentConfirmed(ctx context.Context, result payments.Result, session payments.Session) {
	event := BuildPaymentConfirmed(result, session, p.now())

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.publisher.PublishJSON(publishCtx, p.routingKey, result.SessionID, event); err != nil {
		log.Ctx(ctx).Error().
			Err(err).
			Str("session_id", result.SessionID).
			Str("routing_key", p.routingKey).
			Msg("Failed to publish payment.confirmed")
		return
	}
	log.Ctx(ctx).Debug().Str("session_id", result.SessionID).Msg("Published payment.confirmed")
}

func BuildPaymentConfirmed(result payments.Result, session payments.Session, at time.Time) PaymentConfirmed {
	return PaymentConfirmed{
		Event:      paymentConfirmedEvent,
		Version:    paymentConfirmedVersion,
		OccurredAt: at.UTC().Format(time.RFC3339),
		Data: PaymentConfirmedData{
			SessionID:            result.SessionID,
			DomainKind:           string(result.DomainKind),
			TargetEntityID:       result.TargetEntityID,
			EffectID:             result.EffectID,
			AmountCents:          result.AmountCents,
			Currency:             session.Currency,
			PlatformFeeCents:     result.PlatformFeeCents,
			OrganizerAmountCents: result.OrganizerAmountCents,
			PaymentReference:     session.PaymentReference,
		},
	}
}
