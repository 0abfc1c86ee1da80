package payments

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codr1/courtside/internal/db"
	dbgen "github.com/codr1/courtside/internal/db/generated"
)

type registrationQueries interface {
	GetTournamentRegistrationBySession(ctx context.Context, sessionID string) (dbgen.TournamentRegistration, error)
	InsertTournamentRegistration(ctx context.Context, arg dbgen.InsertTournamentRegistrationParams) (int64, error)
}

// RegistrationApplier creates a paid tournament registration with the platform fee split.
type RegistrationApplier struct {
	queries registrationQueries
	feeRate decimal.Decimal
	now     func() time.Time
	newID   func() string
}

func NewRegistrationApplier(database *db.DB, feeRate decimal.Decimal) *RegistrationApplier {
	return &RegistrationApplier{
		queries: database.Queries,
		feeRate: feeRate,
		now:     utcNow,
		newID:   newEffectID,
	}
}

func (a *RegistrationApplier) Apply(ctx context.Context, req EffectRequest) (Effect, error) {
	values, err := requireMetadata(req.Metadata, MetaUserID, MetaTournamentID)
	if err != nil {
		return Effect{}, err
	}
	if err := checkTarget(req, MetaTournamentID, values[MetaTournamentID]); err != nil {
		return Effect{}, err
	}

	existing, err := a.queries.GetTournamentRegistrationBySession(ctx, req.SessionID)
	if err == nil {
		return registrationEffect(existing, true), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Effect{}, storeError("get tournament registration", err)
	}

	fee, organizer, err := SplitPlatformFee(req.AmountCents, a.feeRate)
	if err != nil {
		return Effect{}, err
	}

	id := a.newID()
	if _, err := a.queries.InsertTournamentRegistration(ctx, dbgen.InsertTournamentRegistrationParams{
		ID:                   id,
		SessionID:            req.SessionID,
		UserID:               values[MetaUserID],
		TournamentID:         values[MetaTournamentID],
		AmountCents:          req.AmountCents,
		PlatformFeeCents:     fee,
		OrganizerAmountCents: organizer,
		CreatedAt:            a.now(),
	}); err != nil {
		return Effect{}, storeError("insert tournament registration", err)
	}

	registration, err := a.queries.GetTournamentRegistrationBySession(ctx, req.SessionID)
	if err != nil {
		return Effect{}, storeError("get tournament registration", err)
	}
	return registrationEffect(registration, registration.ID != id), nil
}

func registrationEffect(registration dbgen.TournamentRegistration, existing bool) Effect {
	return Effect{
		ID:                   registration.ID,
		Kind:                 KindTournamentRegistration,
		TargetEntityID:       registration.TournamentID,
		AmountCents:          registration.AmountCents,
		PlatformFeeCents:     int64Ptr(registration.PlatformFeeCents),
		OrganizerAmountCents: int64Ptr(registration.OrganizerAmountCents),
		Existing:             existing,
	}
}
