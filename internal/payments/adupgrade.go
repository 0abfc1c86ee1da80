package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/codr1/courtside/internal/db"
	dbgen "github.com/codr1/courtside/internal/db/generated"
)

type adQueries interface {
	GetAdUpgradeBySession(ctx context.Context, sessionID string) (dbgen.AdUpgrade, error)
	InsertAdUpgrade(ctx context.Context, arg dbgen.InsertAdUpgradeParams) (int64, error)
	UpgradeCourtPlan(ctx context.Context, arg dbgen.UpgradeCourtPlanParams) (int64, error)
	UpgradeInstructorPlan(ctx context.Context, arg dbgen.UpgradeInstructorPlanParams) (int64, error)
	UpgradePartnerSearchAdPlan(ctx context.Context, arg dbgen.UpgradePartnerSearchAdPlanParams) (int64, error)
}

// AdUpgradeApplier upgrades the plan of a court, instructor or partner search listing.
// The ad_upgrades row keyed by session is the witness; the plan is only written in the
// transaction that inserts it.
type AdUpgradeApplier struct {
	queries adQueries
	inTx    func(ctx context.Context, fn func(adQueries) error) error
	now     func() time.Time
	newID   func() string
}

func NewAdUpgradeApplier(database *db.DB) *AdUpgradeApplier {
	return &AdUpgradeApplier{
		queries: database.Queries,
		inTx: func(ctx context.Context, fn func(adQueries) error) error {
			var fnErr error
			err := database.RunInTx(ctx, func(tx *db.DB) error {
				fnErr = fn(tx.Queries)
				return fnErr
			})
			if err != nil && fnErr == nil {
				return storeError("ad upgrade transaction", err)
			}
			return err
		},
		now:   utcNow,
		newID: newEffectID,
	}
}

type adUpgrade struct {
	plan             string
	paymentReference sql.NullString
	sessionID        sql.NullString
	updatedAt        time.Time
	entityID         string
}

// errAdUpgradeRecorded rolls back a transaction that lost the witness insert.
var errAdUpgradeRecorded = errors.New("ad upgrade already recorded for session")

func (a *AdUpgradeApplier) Apply(ctx context.Context, req EffectRequest) (Effect, error) {
	values, err := requireMetadata(req.Metadata, MetaAdType, MetaEntityID, MetaPlan)
	if err != nil {
		return Effect{}, err
	}
	adType, err := ParseAdType(values[MetaAdType])
	if err != nil {
		return Effect{}, err
	}
	entityID := values[MetaEntityID]
	target := AdTarget(adType, entityID)
	if err := checkTarget(req, MetaAdType+":"+MetaEntityID, target); err != nil {
		return Effect{}, err
	}

	existing, err := a.queries.GetAdUpgradeBySession(ctx, req.SessionID)
	if err == nil {
		return adUpgradeEffect(existing, true), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Effect{}, storeError("get ad upgrade", err)
	}

	reference := req.PaymentReference
	if reference == "" {
		reference = req.SessionID
	}
	now := a.now()
	id := a.newID()

	err = a.inTx(ctx, func(q adQueries) error {
		inserted, err := q.InsertAdUpgrade(ctx, dbgen.InsertAdUpgradeParams{
			ID:               id,
			SessionID:        req.SessionID,
			AdType:           string(adType),
			EntityID:         entityID,
			Plan:             values[MetaPlan],
			PaymentReference: reference,
			AmountCents:      req.AmountCents,
			CreatedAt:        now,
		})
		if err != nil {
			return storeError("insert ad upgrade", err)
		}
		if inserted == 0 {
			return errAdUpgradeRecorded
		}

		rows, err := upgradePlan(ctx, q, adType, adUpgrade{
			plan:             values[MetaPlan],
			paymentReference: sql.NullString{String: reference, Valid: true},
			sessionID:        sql.NullString{String: req.SessionID, Valid: true},
			updatedAt:        now,
			entityID:         entityID,
		})
		if err != nil {
			return storeError(fmt.Sprintf("upgrade %s plan", adType), err)
		}
		if rows == 0 {
			return fmt.Errorf("%w: %s %s", ErrTargetNotFound, adType, entityID)
		}
		return nil
	})
	if err != nil && !errors.Is(err, errAdUpgradeRecorded) {
		return Effect{}, err
	}

	// A concurrent confirmation may have won the insert; read back whichever row exists.
	upgrade, err := a.queries.GetAdUpgradeBySession(ctx, req.SessionID)
	if err != nil {
		return Effect{}, storeError("get ad upgrade", err)
	}
	return adUpgradeEffect(upgrade, upgrade.ID != id), nil
}

func upgradePlan(ctx context.Context, q adQueries, adType AdType, u adUpgrade) (int64, error) {
	switch adType {
	case AdTypeCourt:
		return q.UpgradeCourtPlan(ctx, dbgen.UpgradeCourtPlanParams{
			Plan:             u.plan,
			PaymentReference: u.paymentReference,
			PaymentSessionID: u.sessionID,
			UpdatedAt:        u.updatedAt,
			ID:               u.entityID,
		})
	case AdTypeInstructor:
		return q.UpgradeInstructorPlan(ctx, dbgen.UpgradeInstructorPlanParams{
			Plan:             u.plan,
			PaymentReference: u.paymentReference,
			PaymentSessionID: u.sessionID,
			UpdatedAt:        u.updatedAt,
			ID:               u.entityID,
		})
	case AdTypePartnerSearch:
		return q.UpgradePartnerSearchAdPlan(ctx, dbgen.UpgradePartnerSearchAdPlanParams{
			Plan:             u.plan,
			PaymentReference: u.paymentReference,
			PaymentSessionID: u.sessionID,
			UpdatedAt:        u.updatedAt,
			ID:               u.entityID,
		})
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAdType, adType)
	}
}

func adUpgradeEffect(upgrade dbgen.AdUpgrade, existing bool) Effect {
	return Effect{
		ID:             upgrade.ID,
		Kind:           KindAdUpgrade,
		TargetEntityID: AdTarget(AdType(upgrade.AdType), upgrade.EntityID),
		AmountCents:    upgrade.AmountCents,
		Existing:       existing,
	}
}
