package payments

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	dbgen "github.com/codr1/courtside/internal/db/generated"
	"github.com/codr1/courtside/internal/testutil"
)

func TestAppliersFor(t *testing.T) {
	booking := &BookingApplier{}
	appliers := Appliers{Booking: booking}

	got, err := appliers.For(KindBooking)
	if err != nil || got != booking {
		t.Fatalf("For(booking) = %v, %v", got, err)
	}
	if _, err := appliers.For("donation"); !errors.Is(err, ErrUnknownDomainKind) {
		t.Fatalf("expected ErrUnknownDomainKind, got %v", err)
	}
	if _, err := appliers.For(KindAdUpgrade); err == nil {
		t.Fatalf("expected error for unconfigured applier")
	}
}

func TestValidateBookingWindow(t *testing.T) {
	tests := []struct {
		name             string
		date, start, end string
		wantInvalid      bool
	}{
		{name: "valid", date: "2026-03-14", start: "09:00", end: "10:30"},
		{name: "seconds", date: "2026-03-14", start: "09:00:00", end: "10:30:00"},
		{name: "bad date", date: "14/03/2026", start: "09:00", end: "10:00", wantInvalid: true},
		{name: "bad start", date: "2026-03-14", start: "9am", end: "10:00", wantInvalid: true},
		{name: "end before start", date: "2026-03-14", start: "11:00", end: "10:00", wantInvalid: true},
		{name: "zero length", date: "2026-03-14", start: "10:00", end: "10:00", wantInvalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBookingWindow(tt.date, tt.start, tt.end)
			if tt.wantInvalid != errors.Is(err, ErrInvalidMetadata) {
				t.Fatalf("validateBookingWindow(%q, %q, %q) = %v", tt.date, tt.start, tt.end, err)
			}
		})
	}
}

func TestRequireMetadataListsAllMissing(t *testing.T) {
	_, err := requireMetadata(map[string]string{"user_id": "u1", "court_id": "  "}, MetaUserID, MetaCourtID, MetaBookingDate)
	var missing *MissingMetadataError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingMetadataError, got %v", err)
	}
	if len(missing.Fields) != 2 || missing.Fields[0] != MetaCourtID || missing.Fields[1] != MetaBookingDate {
		t.Fatalf("unexpected missing fields %v", missing.Fields)
	}
	if !errors.Is(err, ErrMissingMetadata) {
		t.Fatalf("MissingMetadataError should match ErrMissingMetadata")
	}
}

func TestBookingApplierReadsBackConcurrentWinner(t *testing.T) {
	database := testutil.NewTestDB(t)
	applier := NewBookingApplier(database)
	ctx := context.Background()
	req := EffectRequest{
		SessionID:      "sess_1",
		TargetEntityID: "court_1",
		AmountCents:    4000,
		Metadata: map[string]string{
			MetaUserID:      "u1",
			MetaCourtID:     "court_1",
			MetaBookingDate: "2026-03-14",
			MetaStartTime:   "09:00",
			MetaEndTime:     "10:00",
		},
	}

	first, err := applier.Apply(ctx, req)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	booking, err := database.Queries.GetBookingBySession(ctx, "sess_1")
	if err != nil {
		t.Fatalf("load booking: %v", err)
	}
	if booking.TotalPriceCents != 4000 || FormatMajor(booking.TotalPriceCents) != "40.00" {
		t.Fatalf("total price stored as %d cents (%s)", booking.TotalPriceCents, FormatMajor(booking.TotalPriceCents))
	}

	// Simulate a caller that missed the pre-check: its insert is ignored and it must
	// report the winner's id.
	applier.queries = &skipFirstLookup{bookingQueries: applier.queries}
	applier.newID = func() string { return "loser" }
	second, err := applier.Apply(ctx, req)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if second.ID != first.ID || !second.Existing {
		t.Fatalf("expected existing effect %s, got %+v", first.ID, second)
	}
}

type skipFirstLookup struct {
	bookingQueries
	skipped bool
}

func (s *skipFirstLookup) GetBookingBySession(ctx context.Context, sessionID string) (dbgen.Booking, error) {
	if !s.skipped {
		s.skipped = true
		return dbgen.Booking{}, sql.ErrNoRows
	}
	return s.bookingQueries.GetBookingBySession(ctx, sessionID)
}

func TestAdUpgradeRenewalWithNewSession(t *testing.T) {
	database := testutil.NewTestDB(t)
	testutil.SeedAdvertisable(t, database, "partner_search_ads", "ad_1")
	applier := NewAdUpgradeApplier(database)
	applier.now = func() time.Time { return time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	target := AdTarget(AdTypePartnerSearch, "ad_1")
	metadata := map[string]string{MetaAdType: "partner_search", MetaEntityID: "ad_1", MetaPlan: "premium"}
	first, err := applier.Apply(ctx, EffectRequest{SessionID: "sess_1", TargetEntityID: target, AmountCents: 1900, Metadata: metadata})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if first.Existing || first.ID == "" || first.TargetEntityID != "partner_search:ad_1" || first.AmountCents != 1900 {
		t.Fatalf("unexpected first effect %+v", first)
	}

	replay, err := applier.Apply(ctx, EffectRequest{SessionID: "sess_1", TargetEntityID: target, Metadata: metadata})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !replay.Existing || replay.ID != first.ID {
		t.Fatalf("replay should return the first upgrade, got %+v", replay)
	}

	renewal, err := applier.Apply(ctx, EffectRequest{SessionID: "sess_2", TargetEntityID: target, Metadata: metadata})
	if err != nil {
		t.Fatalf("renewal: %v", err)
	}
	if renewal.Existing || renewal.ID == first.ID {
		t.Fatalf("renewal through a new session should apply, got %+v", renewal)
	}

	var reference string
	if err := database.QueryRow("SELECT payment_reference FROM partner_search_ads WHERE id = ?", "ad_1").Scan(&reference); err != nil {
		t.Fatalf("load ad: %v", err)
	}
	if reference != "sess_2" {
		t.Fatalf("payment reference should fall back to the session id, got %q", reference)
	}
}

// lostAdUpgrade reports the witness insert as ignored and never finds the row.
type lostAdUpgrade struct {
	adQueries
	upgrades int
}

func (q *lostAdUpgrade) GetAdUpgradeBySession(context.Context, string) (dbgen.AdUpgrade, error) {
	return dbgen.AdUpgrade{}, sql.ErrNoRows
}

func (q *lostAdUpgrade) InsertAdUpgrade(context.Context, dbgen.InsertAdUpgradeParams) (int64, error) {
	return 0, nil
}

func (q *lostAdUpgrade) UpgradeCourtPlan(context.Context, dbgen.UpgradeCourtPlanParams) (int64, error) {
	q.upgrades++
	return 1, nil
}

func TestAdUpgradeApplierMissingWitnessIsRetryable(t *testing.T) {
	queries := &lostAdUpgrade{}
	applier := &AdUpgradeApplier{
		queries: queries,
		inTx: func(_ context.Context, fn func(adQueries) error) error {
			return fn(queries)
		},
		now:   utcNow,
		newID: func() string { return "upg_1" },
	}

	_, err := applier.Apply(context.Background(), EffectRequest{
		SessionID:      "sess_1",
		TargetEntityID: "court:c1",
		Metadata:       map[string]string{MetaAdType: "court", MetaEntityID: "c1", MetaPlan: "gold"},
	})
	if !errors.Is(err, ErrStoreUnavailable) || !IsRetryable(err) {
		t.Fatalf("expected retryable store error, got %v", err)
	}
	if queries.upgrades != 0 {
		t.Fatalf("plan must not change without the witness, got %d updates", queries.upgrades)
	}
}

func TestParseAdTarget(t *testing.T) {
	tests := []struct {
		target   string
		adType   AdType
		entityID string
		want     error
	}{
		{target: "court:c1", adType: AdTypeCourt, entityID: "c1"},
		{target: " instructor:inst_1 ", adType: AdTypeInstructor, entityID: "inst_1"},
		{target: "partner_search:ad:1", adType: AdTypePartnerSearch, entityID: "ad:1"},
		{target: "c1", want: ErrInvalidMetadata},
		{target: "court:", want: ErrInvalidMetadata},
		{target: "billboard:c1", want: ErrUnknownAdType},
	}
	for _, tt := range tests {
		adType, entityID, err := ParseAdTarget(tt.target)
		if tt.want != nil {
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseAdTarget(%q) error = %v, want %v", tt.target, err, tt.want)
			}
			continue
		}
		if err != nil || adType != tt.adType || entityID != tt.entityID {
			t.Errorf("ParseAdTarget(%q) = %q, %q, %v", tt.target, adType, entityID, err)
		}
		if got := AdTarget(adType, entityID); got != strings.TrimSpace(tt.target) {
			t.Errorf("AdTarget round trip = %q, want %q", got, strings.TrimSpace(tt.target))
		}
	}
}
