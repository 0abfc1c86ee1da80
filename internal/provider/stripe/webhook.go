package stripe

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76/webhook"

	paymentsapi "github.com/codr1/courtside/internal/api/payments"
)

const signatureHeader = "Stripe-Signature"

// ErrInvalidSignature is returned when a webhook payload was not signed with the endpoint secret.
var ErrInvalidSignature = errors.New("invalid stripe webhook signature")

// EventParser checks the Stripe-Signature header before reading the event.
type EventParser struct {
	secret string
}

func NewEventParser(secret string) *EventParser {
	return &EventParser{secret: secret}
}

func (p *EventParser) ParseEvent(payload []byte, header http.Header) (paymentsapi.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, header.Get(signatureHeader), p.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return paymentsapi.Event{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	var objectID string
	if event.Data != nil {
		objectID, _ = event.Data.Object["id"].(string)
	}
	return paymentsapi.Event{
		ID:       event.ID,
		Type:     string(event.Type),
		ObjectID: objectID,
	}, nil
}
