package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultVerifyTimeout = 10 * time.Second
	defaultStoreTimeout  = 5 * time.Second
)

// Result describes the effect a confirmed session produced.
type Result struct {
	SessionID            string
	DomainKind           DomainKind
	TargetEntityID       string
	EffectID             string
	AmountCents          int64
	PlatformFeeCents     *int64
	OrganizerAmountCents *int64
	Existing             bool
}

// ConfirmationListener is told about every session whose effect was created by this call.
// It is never called for replays.
type ConfirmationListener interface {
	PaymentConfirmed(ctx context.Context, result Result, session Session)
}

type Config struct {
	Verifier      Verifier
	Records       RecordStore
	Appliers      Appliers
	Listeners     []ConfirmationListener
	VerifyTimeout time.Duration
	StoreTimeout  time.Duration
}

// Confirmer turns a provider-verified payment session into exactly one domain effect.
type Confirmer struct {
	verifier      Verifier
	records       RecordStore
	appliers      Appliers
	listeners     []ConfirmationListener
	verifyTimeout time.Duration
	storeTimeout  time.Duration
}

func NewConfirmer(cfg Config) (*Confirmer, error) {
	if cfg.Verifier == nil {
		return nil, errors.New("confirmer requires a verifier")
	}
	if cfg.Records == nil {
		return nil, errors.New("confirmer requires a record store")
	}
	verifyTimeout := cfg.VerifyTimeout
	if verifyTimeout <= 0 {
		verifyTimeout = defaultVerifyTimeout
	}
	storeTimeout := cfg.StoreTimeout
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &Confirmer{
		verifier:      cfg.Verifier,
		records:       cfg.Records,
		appliers:      cfg.Appliers,
		listeners:     cfg.Listeners,
		verifyTimeout: verifyTimeout,
		storeTimeout:  storeTimeout,
	}, nil
}

// Confirm verifies the session with the provider and applies its effect once. Calling it
// again for the same session returns the stored outcome with Existing set.
func (c *Confirmer) Confirm(ctx context.Context, sessionID string) (Result, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Result{}, ErrInvalidSession
	}
	logger := log.Ctx(ctx).With().Str("session_id", sessionID).Logger()

	session, err := c.verify(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}
	if session.Status != SessionPaid {
		if session.Status.Terminal() {
			c.markFailed(ctx, sessionID)
		}
		return Result{}, fmt.Errorf("%w: session %s is %s", ErrPaymentNotConfirmed, sessionID, session.Status)
	}

	record, err := c.records.FindBySession(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}
	if record.Applied() {
		logger.Debug().Str("effect_id", record.AppliedEffectID).Msg("Payment already confirmed")
		return resultFromRecord(record), nil
	}

	applier, err := c.appliers.For(record.DomainKind)
	if err != nil {
		return Result{}, err
	}

	// Once the provider says paid, effect creation and MarkPaid finish even if the caller
	// goes away.
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.storeTimeout)
	defer cancel()

	effect, err := applier.Apply(storeCtx, EffectRequest{
		SessionID:        sessionID,
		TargetEntityID:   record.TargetEntityID,
		AmountCents:      session.AmountCaptured,
		Metadata:         session.Metadata,
		PaymentReference: session.PaymentReference,
	})
	if err != nil {
		logger.Warn().Err(err).Str("domain_kind", string(record.DomainKind)).Msg("Failed to apply payment effect")
		return Result{}, err
	}

	_, marked, err := c.records.MarkPaid(storeCtx, MarkPaidParams{
		SessionID:            sessionID,
		EffectID:             effect.ID,
		AmountCents:          effect.AmountCents,
		PlatformFeeCents:     effect.PlatformFeeCents,
		OrganizerAmountCents: effect.OrganizerAmountCents,
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyPaid) {
			logger.Error().Err(err).Str("effect_id", effect.ID).Msg("Payment record holds a different effect")
		} else {
			logger.Warn().Err(err).Str("effect_id", effect.ID).Msg("Failed to mark payment record paid")
		}
		return Result{}, err
	}

	result := Result{
		SessionID:            sessionID,
		DomainKind:           record.DomainKind,
		TargetEntityID:       record.TargetEntityID,
		EffectID:             effect.ID,
		AmountCents:          effect.AmountCents,
		PlatformFeeCents:     effect.PlatformFeeCents,
		OrganizerAmountCents: effect.OrganizerAmountCents,
		Existing:             effect.Existing,
	}

	logger.Info().
		Str("domain_kind", string(result.DomainKind)).
		Str("effect_id", result.EffectID).
		Int64("amount_cents", result.AmountCents).
		Str("amount", FormatMajor(result.AmountCents)).
		Bool("existing", result.Existing).
		Msg("Payment confirmed")

	// Listeners fire once per record, on the call that set its witness. An effect left
	// behind by a call that failed before MarkPaid is still announced here.
	if marked {
		for _, listener := range c.listeners {
			listener.PaymentConfirmed(storeCtx, result, session)
		}
	}
	return result, nil
}

func (c *Confirmer) verify(ctx context.Context, sessionID string) (Session, error) {
	verifyCtx, cancel := context.WithTimeout(ctx, c.verifyTimeout)
	defer cancel()

	session, err := c.verifier.RetrieveSession(verifyCtx, sessionID)
	if err == nil {
		return session, nil
	}
	if errors.Is(err, ErrUnknownSession) || errors.Is(err, ErrVerifierUnreachable) {
		return Session{}, err
	}
	return Session{}, fmt.Errorf("%w: %w", ErrVerifierUnreachable, err)
}

func (c *Confirmer) markFailed(ctx context.Context, sessionID string) {
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.storeTimeout)
	defer cancel()
	if err := c.records.MarkFailed(storeCtx, sessionID); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("session_id", sessionID).Msg("Failed to mark payment record failed")
	}
}

func resultFromRecord(record Record) Result {
	result := Result{
		SessionID:            record.SessionID,
		DomainKind:           record.DomainKind,
		TargetEntityID:       record.TargetEntityID,
		EffectID:             record.AppliedEffectID,
		PlatformFeeCents:     record.PlatformFeeCents,
		OrganizerAmountCents: record.OrganizerAmountCents,
		Existing:             true,
	}
	if record.AmountCents != nil {
		result.AmountCents = *record.AmountCents
	}
	return result
}
