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

const bookingDateLayout = "2006-01-02"

var bookingTimeLayouts = []string{"15:04", "15:04:05"}

type bookingQueries interface {
	GetBookingBySession(ctx context.Context, sessionID string) (dbgen.Booking, error)
	InsertBooking(ctx context.Context, arg dbgen.InsertBookingParams) (int64, error)
}

// BookingApplier creates a confirmed court booking.
type BookingApplier struct {
	queries bookingQueries
	now     func() time.Time
	newID   func() string
}

func NewBookingApplier(database *db.DB) *BookingApplier {
	return &BookingApplier{
		queries: database.Queries,
		now:     utcNow,
		newID:   newEffectID,
	}
}

func (a *BookingApplier) Apply(ctx context.Context, req EffectRequest) (Effect, error) {
	values, err := requireMetadata(req.Metadata, MetaUserID, MetaCourtID, MetaBookingDate, MetaStartTime, MetaEndTime)
	if err != nil {
		return Effect{}, err
	}
	if err := checkTarget(req, MetaCourtID, values[MetaCourtID]); err != nil {
		return Effect{}, err
	}
	if err := validateBookingWindow(values[MetaBookingDate], values[MetaStartTime], values[MetaEndTime]); err != nil {
		return Effect{}, err
	}

	existing, err := a.queries.GetBookingBySession(ctx, req.SessionID)
	if err == nil {
		return bookingEffect(existing, true), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Effect{}, storeError("get booking", err)
	}

	id := a.newID()
	if _, err := a.queries.InsertBooking(ctx, dbgen.InsertBookingParams{
		ID:              id,
		SessionID:       req.SessionID,
		UserID:          values[MetaUserID],
		CourtID:         values[MetaCourtID],
		BookingDate:     values[MetaBookingDate],
		StartTime:       values[MetaStartTime],
		EndTime:         values[MetaEndTime],
		// Stored in minor units; FormatMajor renders the major-unit total price.
		TotalPriceCents: req.AmountCents,
		CreatedAt:       a.now(),
	}); err != nil {
		return Effect{}, storeError("insert booking", err)
	}

	// A concurrent confirmation may have won the insert; read back whichever row exists.
	booking, err := a.queries.GetBookingBySession(ctx, req.SessionID)
	if err != nil {
		return Effect{}, storeError("get booking", err)
	}
	return bookingEffect(booking, booking.ID != id), nil
}

func bookingEffect(booking dbgen.Booking, existing bool) Effect {
	return Effect{
		ID:             booking.ID,
		Kind:           KindBooking,
		TargetEntityID: booking.CourtID,
		AmountCents:    booking.TotalPriceCents,
		Existing:       existing,
	}
}

func validateBookingWindow(date, start, end string) error {
	if _, err := time.Parse(bookingDateLayout, date); err != nil {
		return fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidMetadata, MetaBookingDate)
	}
	startAt, err := parseBookingTime(start)
	if err != nil {
		return fmt.Errorf("%w: %s must be HH:MM", ErrInvalidMetadata, MetaStartTime)
	}
	endAt, err := parseBookingTime(end)
	if err != nil {
		return fmt.Errorf("%w: %s must be HH:MM", ErrInvalidMetadata, MetaEndTime)
	}
	if !endAt.After(startAt) {
		return fmt.Errorf("%w: %s must be after %s", ErrInvalidMetadata, MetaEndTime, MetaStartTime)
	}
	return nil
}

func parseBookingTime(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range bookingTimeLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
