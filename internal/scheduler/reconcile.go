package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/payments"
)

const (
	reconcileJobName    = "payment_reconciliation"
	reconcileJobTimeout = 4 * time.Minute
)

type Confirmer interface {
	Confirm(ctx context.Context, sessionID string) (payments.Result, error)
}

// PendingLister lists pending records least recently updated first. Touch moves a record
// to the back of that order.
type PendingLister interface {
	ListPending(ctx context.Context, olderThan time.Time, limit int) ([]payments.Record, error)
	Touch(ctx context.Context, sessionID string) error
}

// ReconcileSummary counts the outcome of each record a sweep looked at.
type ReconcileSummary struct {
	Checked        int
	Confirmed      int
	AlreadyApplied int
	StillPending   int
	Retryable      int
	Rejected       int
}

// Reconciler re-runs confirmation for payment records that stayed pending, which covers
// lost webhooks and clients that never came back from checkout.
type Reconciler struct {
	confirmer Confirmer
	records   PendingLister
	batchSize int
	minAge    time.Duration
	now       func() time.Time
}

func NewReconciler(confirmer Confirmer, records PendingLister, batchSize int, minAge time.Duration) *Reconciler {
	return &Reconciler{
		confirmer: confirmer,
		records:   records,
		batchSize: batchSize,
		minAge:    minAge,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run processes one batch. It stops early, returning what it has so far, when ctx ends.
func (r *Reconciler) Run(ctx context.Context) (ReconcileSummary, error) {
	var summary ReconcileSummary
	if r == nil || r.confirmer == nil || r.records == nil {
		return summary, fmt.Errorf("reconciler requires a confirmer and record store")
	}

	pending, err := r.records.ListPending(ctx, r.now().Add(-r.minAge), r.batchSize)
	if err != nil {
		return summary, fmt.Errorf("list pending payments: %w", err)
	}

	logger := log.Ctx(ctx)
	for _, record := range pending {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Checked++

		result, err := r.confirmer.Confirm(ctx, record.SessionID)
		switch {
		case err == nil && result.Existing:
			summary.AlreadyApplied++
		case err == nil:
			summary.Confirmed++
			logger.Info().
				Str("session_id", record.SessionID).
				Str("domain_kind", string(record.DomainKind)).
				Str("effect_id", result.EffectID).
				Msg("Reconciled pending payment")
		case errors.Is(err, payments.ErrPaymentNotConfirmed):
			summary.StillPending++
		case payments.IsRetryable(err):
			summary.Retryable++
			logger.Warn().Err(err).Str("session_id", record.SessionID).Msg("Payment reconciliation will retry")
		default:
			summary.Rejected++
			logger.Warn().Err(err).Str("session_id", record.SessionID).Msg("Payment reconciliation rejected")
		}

		// Records still pending go behind the rest so a full batch of stuck records cannot
		// hide newer ones.
		if err != nil {
			if touchErr := r.records.Touch(ctx, record.SessionID); touchErr != nil {
				logger.Warn().Err(touchErr).Str("session_id", record.SessionID).Msg("Failed to requeue pending payment")
			}
		}
	}
	return summary, nil
}

// RegisterReconcileJob runs the reconciler on cronExpr.
func RegisterReconcileJob(svc *Service, cronExpr string, reconciler *Reconciler) error {
	if reconciler == nil {
		return fmt.Errorf("reconcile job requires a reconciler")
	}
	jobLogger := log.With().
		Str("component", "payment_reconciliation_job").
		Str("job_name", reconcileJobName).
		Str("cron", cronExpr).
		Logger()

	_, err := svc.AddJob(reconcileJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		summary, err := reconciler.Run(ctx)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Payment reconciliation failed")
		}
		if summary.Checked == 0 {
			return
		}
		jobLogger.Info().
			Int("checked", summary.Checked).
			Int("confirmed", summary.Confirmed).
			Int("already_applied", summary.AlreadyApplied).
			Int("still_pending", summary.StillPending).
			Int("retryable", summary.Retryable).
			Int("rejected", summary.Rejected).
			Msg("Payment reconciliation completed")
	})
	return err
}
