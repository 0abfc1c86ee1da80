// Package omise verifies charges through the Omise API. The charge id is used as the
// payment session id.
package omise

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	omiseapi "github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"

	"github.com/codr1/courtside/internal/payments"
)

type chargeRetriever interface {
	RetrieveCharge(chargeID string) (*omiseapi.Charge, error)
}

type clientRetriever struct {
	client *omiseapi.Client
}

func (c clientRetriever) RetrieveCharge(chargeID string) (*omiseapi.Charge, error) {
	charge := &omiseapi.Charge{}
	if err := c.client.Do(charge, &operations.RetrieveCharge{ChargeID: chargeID}); err != nil {
		return nil, err
	}
	return charge, nil
}

type Verifier struct {
	charges chargeRetriever
}

func NewVerifier(publicKey, secretKey string) (*Verifier, error) {
	c, err := omiseapi.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("create omise client: %w", err)
	}
	return &Verifier{charges: clientRetriever{client: c}}, nil
}

type retrieveResult struct {
	charge *omiseapi.Charge
	err    error
}

// RetrieveSession stops waiting when ctx ends. The omise client has no per-call context,
// so the request itself runs to completion in the background.
func (v *Verifier) RetrieveSession(ctx context.Context, sessionID string) (payments.Session, error) {
	done := make(chan retrieveResult, 1)
	go func() {
		charge, err := v.charges.RetrieveCharge(sessionID)
		done <- retrieveResult{charge: charge, err: err}
	}()

	select {
	case <-ctx.Done():
		return payments.Session{}, fmt.Errorf("%w: omise: %w", payments.ErrVerifierUnreachable, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return payments.Session{}, mapError(sessionID, res.err)
		}
		return sessionFromCharge(res.charge), nil
	}
}

func sessionFromCharge(charge *omiseapi.Charge) payments.Session {
	metadata := make(map[string]string, len(charge.Metadata))
	for key, value := range charge.Metadata {
		switch v := value.(type) {
		case nil:
		case string:
			metadata[key] = v
		case float64:
			// JSON numbers; ids are integral.
			if v == float64(int64(v)) {
				metadata[key] = fmt.Sprintf("%d", int64(v))
			} else {
				metadata[key] = fmt.Sprintf("%v", v)
			}
		default:
			metadata[key] = fmt.Sprintf("%v", v)
		}
	}

	reference := charge.Transaction
	if reference == "" {
		reference = charge.ID
	}
	return payments.Session{
		ID:               charge.ID,
		Status:           chargeStatus(charge.Status),
		AmountCaptured:   charge.Amount,
		Currency:         charge.Currency,
		Metadata:         metadata,
		PaymentReference: reference,
	}
}

func chargeStatus(status omiseapi.ChargeStatus) payments.SessionStatus {
	switch string(status) {
	case "successful":
		return payments.SessionPaid
	case "failed", "reversed":
		return payments.SessionFailed
	case "expired":
		return payments.SessionExpired
	default:
		return payments.SessionPending
	}
}

func mapError(sessionID string, err error) error {
	var apiErr *omiseapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == "not_found" || apiErr.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", payments.ErrUnknownSession, sessionID)
		}
	}
	return fmt.Errorf("%w: omise: %w", payments.ErrVerifierUnreachable, err)
}
