package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/codr1/courtside/internal/db"
	dbgen "github.com/codr1/courtside/internal/db/generated"
)

// Record is the persisted payment attempt for one session id.
type Record struct {
	ID                   int64
	SessionID            string
	DomainKind           DomainKind
	TargetEntityID       string
	Status               RecordStatus
	AppliedEffectID      string
	AmountCents          *int64
	PlatformFeeCents     *int64
	OrganizerAmountCents *int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Applied reports whether the record already carries its idempotency witness.
func (r Record) Applied() bool {
	return r.AppliedEffectID != ""
}

type CreateRecordParams struct {
	SessionID      string
	DomainKind     DomainKind
	TargetEntityID string
}

type MarkPaidParams struct {
	SessionID            string
	EffectID             string
	AmountCents          int64
	PlatformFeeCents     *int64
	OrganizerAmountCents *int64
}

// RecordStore persists one PaymentRecord per session id.
type RecordStore interface {
	FindBySession(ctx context.Context, sessionID string) (Record, error)
	Create(ctx context.Context, params CreateRecordParams) (Record, error)
	// MarkPaid reports whether this call set the applied effect id.
	MarkPaid(ctx context.Context, params MarkPaidParams) (Record, bool, error)
	MarkFailed(ctx context.Context, sessionID string) error
	ListPending(ctx context.Context, olderThan time.Time, limit int) ([]Record, error)
}

type recordQueries interface {
	CreatePaymentRecord(ctx context.Context, arg dbgen.CreatePaymentRecordParams) (dbgen.PaymentRecord, error)
	GetPaymentRecordBySession(ctx context.Context, sessionID string) (dbgen.PaymentRecord, error)
	MarkPaymentRecordPaid(ctx context.Context, arg dbgen.MarkPaymentRecordPaidParams) (int64, error)
	MarkPaymentRecordFailed(ctx context.Context, arg dbgen.MarkPaymentRecordFailedParams) (int64, error)
	ListPendingPaymentRecords(ctx context.Context, arg dbgen.ListPendingPaymentRecordsParams) ([]dbgen.PaymentRecord, error)
	TouchPaymentRecord(ctx context.Context, arg dbgen.TouchPaymentRecordParams) (int64, error)
}

// SQLRecordStore is the SQLite-backed RecordStore.
type SQLRecordStore struct {
	queries recordQueries
	now     func() time.Time
}

func NewRecordStore(database *db.DB) *SQLRecordStore {
	return &SQLRecordStore{
		queries: database.Queries,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *SQLRecordStore) FindBySession(ctx context.Context, sessionID string) (Record, error) {
	row, err := s.queries.GetPaymentRecordBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
		}
		return Record{}, storeError("get payment record", err)
	}
	return recordFromRow(row)
}

// Create inserts a pending record. It is used by the payment initiation flow.
func (s *SQLRecordStore) Create(ctx context.Context, params CreateRecordParams) (Record, error) {
	sessionID := strings.TrimSpace(params.SessionID)
	if sessionID == "" {
		return Record{}, ErrInvalidSession
	}
	if _, err := ParseDomainKind(string(params.DomainKind)); err != nil {
		return Record{}, err
	}
	if strings.TrimSpace(params.TargetEntityID) == "" {
		return Record{}, fmt.Errorf("%w: target entity id is required", ErrInvalidMetadata)
	}
	if params.DomainKind == KindAdUpgrade {
		if _, _, err := ParseAdTarget(params.TargetEntityID); err != nil {
			return Record{}, err
		}
	}

	now := s.now()
	row, err := s.queries.CreatePaymentRecord(ctx, dbgen.CreatePaymentRecordParams{
		SessionID:      sessionID,
		DomainKind:     string(params.DomainKind),
		TargetEntityID: strings.TrimSpace(params.TargetEntityID),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return Record{}, fmt.Errorf("%w: %s", ErrDuplicateSession, sessionID)
		}
		return Record{}, storeError("create payment record", err)
	}
	return recordFromRow(row)
}

// MarkPaid stores the effect id and amounts on an unapplied record and reports whether
// this call was the one that set them. Repeating the call with the same effect id is a
// no-op; a different effect id yields ErrAlreadyPaid.
func (s *SQLRecordStore) MarkPaid(ctx context.Context, params MarkPaidParams) (Record, bool, error) {
	if params.EffectID == "" {
		return Record{}, false, fmt.Errorf("mark paid %s: effect id is required", params.SessionID)
	}

	rows, err := s.queries.MarkPaymentRecordPaid(ctx, dbgen.MarkPaymentRecordPaidParams{
		EffectID:             sql.NullString{String: params.EffectID, Valid: true},
		AmountCents:          sql.NullInt64{Int64: params.AmountCents, Valid: true},
		PlatformFeeCents:     toNullInt64(params.PlatformFeeCents),
		OrganizerAmountCents: toNullInt64(params.OrganizerAmountCents),
		UpdatedAt:            s.now(),
		SessionID:            params.SessionID,
	})
	if err != nil {
		return Record{}, false, storeError("mark payment record paid", err)
	}

	record, err := s.FindBySession(ctx, params.SessionID)
	if err != nil {
		return Record{}, false, err
	}
	if rows == 0 && record.AppliedEffectID != params.EffectID {
		return record, false, fmt.Errorf("%w: session %s has effect %s, got %s",
			ErrAlreadyPaid, params.SessionID, record.AppliedEffectID, params.EffectID)
	}
	return record, rows == 1, nil
}

// MarkFailed moves a pending, unapplied record to failed. Other records are left alone.
func (s *SQLRecordStore) MarkFailed(ctx context.Context, sessionID string) error {
	if _, err := s.queries.MarkPaymentRecordFailed(ctx, dbgen.MarkPaymentRecordFailedParams{
		UpdatedAt: s.now(),
		SessionID: sessionID,
	}); err != nil {
		return storeError("mark payment record failed", err)
	}
	return nil
}

// Touch bumps updated_at on a pending record so ListPending returns it after the others.
func (s *SQLRecordStore) Touch(ctx context.Context, sessionID string) error {
	if _, err := s.queries.TouchPaymentRecord(ctx, dbgen.TouchPaymentRecordParams{
		UpdatedAt: s.now(),
		SessionID: sessionID,
	}); err != nil {
		return storeError("touch payment record", err)
	}
	return nil
}

// ListPending returns pending records created before olderThan, least recently updated first.
func (s *SQLRecordStore) ListPending(ctx context.Context, olderThan time.Time, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.queries.ListPendingPaymentRecords(ctx, dbgen.ListPendingPaymentRecordsParams{
		CreatedAt: olderThan.UTC(),
		Limit:     int64(limit),
	})
	if err != nil {
		return nil, storeError("list pending payment records", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		record, err := recordFromRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func recordFromRow(row dbgen.PaymentRecord) (Record, error) {
	kind, err := ParseDomainKind(row.DomainKind)
	if err != nil {
		return Record{}, fmt.Errorf("payment record %s: %w", row.SessionID, err)
	}
	return Record{
		ID:                   row.ID,
		SessionID:            row.SessionID,
		DomainKind:           kind,
		TargetEntityID:       row.TargetEntityID,
		Status:               RecordStatus(row.Status),
		AppliedEffectID:      row.AppliedEffectID.String,
		AmountCents:          fromNullInt64(row.AmountCents),
		PlatformFeeCents:     fromNullInt64(row.PlatformFeeCents),
		OrganizerAmountCents: fromNullInt64(row.OrganizerAmountCents),
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}, nil
}

func toNullInt64(value *int64) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *value, Valid: true}
}

func fromNullInt64(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
