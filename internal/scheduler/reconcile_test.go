package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codr1/courtside/internal/payments"
	"github.com/codr1/courtside/internal/provider/fake"
	"github.com/codr1/courtside/internal/testutil"
)

type outcome struct {
	result payments.Result
	err    error
}

type fakeConfirmer struct {
	outcomes map[string]outcome
	calls    []string
}

func (f *fakeConfirmer) Confirm(_ context.Context, sessionID string) (payments.Result, error) {
	f.calls = append(f.calls, sessionID)
	o := f.outcomes[sessionID]
	return o.result, o.err
}

type fakeLister struct {
	records   []payments.Record
	olderThan time.Time
	limit     int
	err       error
	touched   []string
}

func (f *fakeLister) ListPending(_ context.Context, olderThan time.Time, limit int) ([]payments.Record, error) {
	f.olderThan = olderThan
	f.limit = limit
	return f.records, f.err
}

func (f *fakeLister) Touch(_ context.Context, sessionID string) error {
	f.touched = append(f.touched, sessionID)
	return nil
}

func TestReconcilerRunCountsOutcomes(t *testing.T) {
	confirmer := &fakeConfirmer{outcomes: map[string]outcome{
		"sess_new":      {result: payments.Result{EffectID: "b_1"}},
		"sess_done":     {result: payments.Result{EffectID: "b_2", Existing: true}},
		"sess_open":     {err: payments.ErrPaymentNotConfirmed},
		"sess_down":     {err: payments.ErrVerifierUnreachable},
		"sess_metadata": {err: &payments.MissingMetadataError{Fields: []string{"court_id"}}},
	}}
	lister := &fakeLister{records: []payments.Record{
		{SessionID: "sess_new"},
		{SessionID: "sess_done"},
		{SessionID: "sess_open"},
		{SessionID: "sess_down"},
		{SessionID: "sess_metadata"},
	}}

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	reconciler := NewReconciler(confirmer, lister, 25, 10*time.Minute)
	reconciler.now = func() time.Time { return now }

	summary, err := reconciler.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := ReconcileSummary{Checked: 5, Confirmed: 1, AlreadyApplied: 1, StillPending: 1, Retryable: 1, Rejected: 1}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}
	if !lister.olderThan.Equal(now.Add(-10*time.Minute)) || lister.limit != 25 {
		t.Fatalf("unexpected list args olderThan=%s limit=%d", lister.olderThan, lister.limit)
	}
	wantTouched := []string{"sess_open", "sess_down", "sess_metadata"}
	if len(lister.touched) != len(wantTouched) {
		t.Fatalf("touched = %v, want %v", lister.touched, wantTouched)
	}
	for i, id := range wantTouched {
		if lister.touched[i] != id {
			t.Fatalf("touched = %v, want %v", lister.touched, wantTouched)
		}
	}
}

func TestReconcilerRotatesStuckRecords(t *testing.T) {
	database := testutil.NewTestDB(t)
	records := payments.NewRecordStore(database)
	verifier := fake.NewVerifier()
	confirmer, err := payments.NewConfirmer(payments.Config{
		Verifier: verifier,
		Records:  records,
		Appliers: payments.NewAppliers(database, payments.DefaultPlatformFeeRate),
	})
	if err != nil {
		t.Fatalf("new confirmer: %v", err)
	}

	ctx := context.Background()
	for _, id := range []string{"sess_stuck", "sess_fresh"} {
		if _, err := records.Create(ctx, payments.CreateRecordParams{
			SessionID:      id,
			DomainKind:     payments.KindTournamentRegistration,
			TargetEntityID: "tour_1",
		}); err != nil {
			t.Fatalf("create record %s: %v", id, err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	// sess_stuck was paid without the metadata the registration needs.
	verifier.Put(payments.Session{ID: "sess_stuck", Status: payments.SessionPaid, AmountCaptured: 100})
	verifier.Put(payments.Session{
		ID:             "sess_fresh",
		Status:         payments.SessionPaid,
		AmountCaptured: 10000,
		Metadata:       map[string]string{"user_id": "u1", "tournament_id": "tour_1"},
	})

	reconciler := NewReconciler(confirmer, records, 1, 0)
	reconciler.now = func() time.Time { return time.Now().UTC().Add(time.Minute) }

	first, err := reconciler.Run(ctx)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Rejected != 1 {
		t.Fatalf("expected the stuck record first, got %+v", first)
	}

	second, err := reconciler.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Confirmed != 1 {
		t.Fatalf("expected the fresh record after requeue, got %+v", second)
	}
}

func TestReconcilerRunStopsOnCanceledContext(t *testing.T) {
	confirmer := &fakeConfirmer{outcomes: map[string]outcome{}}
	lister := &fakeLister{records: []payments.Record{{SessionID: "a"}, {SessionID: "b"}}}
	reconciler := NewReconciler(confirmer, lister, 10, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := reconciler.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if summary.Checked != 0 || len(confirmer.calls) != 0 {
		t.Fatalf("expected no confirmations, got %d", len(confirmer.calls))
	}
}

func TestReconcilerRunListError(t *testing.T) {
	reconciler := NewReconciler(&fakeConfirmer{}, &fakeLister{err: payments.ErrStoreUnavailable}, 10, 0)
	if _, err := reconciler.Run(context.Background()); !errors.Is(err, payments.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestReconcilerAppliesStalePendingRecords(t *testing.T) {
	database := testutil.NewTestDB(t)
	records := payments.NewRecordStore(database)
	verifier := fake.NewVerifier()
	confirmer, err := payments.NewConfirmer(payments.Config{
		Verifier: verifier,
		Records:  records,
		Appliers: payments.NewAppliers(database, payments.DefaultPlatformFeeRate),
	})
	if err != nil {
		t.Fatalf("new confirmer: %v", err)
	}

	ctx := context.Background()
	if _, err := records.Create(ctx, payments.CreateRecordParams{
		SessionID:      "sess_lost_webhook",
		DomainKind:     payments.KindTournamentRegistration,
		TargetEntityID: "tour_1",
	}); err != nil {
		t.Fatalf("create record: %v", err)
	}
	verifier.Put(payments.Session{
		ID:             "sess_lost_webhook",
		Status:         payments.SessionPaid,
		AmountCaptured: 10000,
		Metadata:       map[string]string{"user_id": "u1", "tournament_id": "tour_1"},
	})

	reconciler := NewReconciler(confirmer, records, 10, 0)
	reconciler.now = func() time.Time { return time.Now().UTC().Add(time.Second) }

	summary, err := reconciler.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Confirmed != 1 {
		t.Fatalf("expected one confirmation, got %+v", summary)
	}

	again, err := reconciler.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if again.Checked != 0 {
		t.Fatalf("paid record should no longer be pending, got %+v", again)
	}
}
