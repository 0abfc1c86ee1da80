package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/codr1/courtside/internal/db"
)

// EffectRequest carries everything an applier may use. Metadata comes from the provider
// and is only trusted where it agrees with the payment record.
type EffectRequest struct {
	SessionID        string
	TargetEntityID   string
	AmountCents      int64
	Metadata         map[string]string
	PaymentReference string
}

// Effect is the durable consequence of a confirmed payment.
type Effect struct {
	ID                   string
	Kind                 DomainKind
	TargetEntityID       string
	AmountCents          int64
	PlatformFeeCents     *int64
	OrganizerAmountCents *int64
	// Existing is set when the effect was created by an earlier call for the same session.
	Existing bool
}

// EffectApplier creates the effect for one session, or finds the one already created.
type EffectApplier interface {
	Apply(ctx context.Context, req EffectRequest) (Effect, error)
}

// Appliers holds one applier per DomainKind. Adding a kind means adding a field here and
// a case in For.
type Appliers struct {
	Booking                EffectApplier
	TournamentRegistration EffectApplier
	AdUpgrade              EffectApplier
}

func (a Appliers) For(kind DomainKind) (EffectApplier, error) {
	var applier EffectApplier
	switch kind {
	case KindBooking:
		applier = a.Booking
	case KindTournamentRegistration:
		applier = a.TournamentRegistration
	case KindAdUpgrade:
		applier = a.AdUpgrade
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomainKind, kind)
	}
	if applier == nil {
		return nil, fmt.Errorf("no applier configured for %s", kind)
	}
	return applier, nil
}

// NewAppliers wires the SQLite-backed appliers.
func NewAppliers(database *db.DB, platformFeeRate decimal.Decimal) Appliers {
	return Appliers{
		Booking:                NewBookingApplier(database),
		TournamentRegistration: NewRegistrationApplier(database, platformFeeRate),
		AdUpgrade:              NewAdUpgradeApplier(database),
	}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func newEffectID() string {
	return uuid.NewString()
}

func int64Ptr(v int64) *int64 {
	return &v
}
