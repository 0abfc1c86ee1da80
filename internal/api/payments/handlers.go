// internal/api/payments/handlers.go
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/api/apiutil"
	"github.com/codr1/courtside/internal/payments"
)

const (
	defaultRetryAfter  = 30 * time.Second
	statusQueryTimeout = 5 * time.Second
)

// Webhook event types that announce a completed payment.
var completedEventTypes = map[string]bool{
	"checkout.session.completed":                true,
	"checkout.session.async_payment_succeeded": true,
	"charge.complete":                           true,
}

type Confirmer interface {
	Confirm(ctx context.Context, sessionID string) (payments.Result, error)
}

type RecordFinder interface {
	FindBySession(ctx context.Context, sessionID string) (payments.Record, error)
}

// Event is the part of a provider webhook the handlers act on.
type Event struct {
	ID       string
	Type     string
	ObjectID string
}

// EventParser turns a raw webhook body into an Event, checking signatures where the
// provider supports them.
type EventParser interface {
	ParseEvent(payload []byte, header http.Header) (Event, error)
}

type Deps struct {
	Confirmer  Confirmer
	Records    RecordFinder
	Events     EventParser
	RetryAfter time.Duration
}

var (
	depsMu sync.RWMutex
	deps   Deps
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(d Deps) {
	if d.Events == nil {
		d.Events = JSONEventParser{}
	}
	if d.RetryAfter <= 0 {
		d.RetryAfter = defaultRetryAfter
	}
	depsMu.Lock()
	defer depsMu.Unlock()
	deps = d
}

func loadDeps() Deps {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps
}

type confirmRequest struct {
	SessionID string `json:"sessionId"`
}

type confirmResponse struct {
	Success        bool   `json:"success"`
	DomainKind     string `json:"domainKind"`
	TargetEntityID string `json:"targetEntityId"`
	EffectID       string `json:"effectId"`
	Existing       bool   `json:"existing"`
}

type recordResponse struct {
	SessionID            string `json:"sessionId"`
	Status               string `json:"status"`
	DomainKind           string `json:"domainKind"`
	TargetEntityID       string `json:"targetEntityId"`
	EffectID             string `json:"effectId,omitempty"`
	AmountCents          *int64 `json:"amountCents,omitempty"`
	PlatformFeeCents     *int64 `json:"platformFeeCents,omitempty"`
	OrganizerAmountCents *int64 `json:"organizerAmountCents,omitempty"`
	UpdatedAt            string `json:"updatedAt"`
}

type webhookResponse struct {
	Received bool   `json:"received"`
	Ignored  bool   `json:"ignored,omitempty"`
	EffectID string `json:"effectId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// POST /api/v1/payments/confirm
func HandleConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	logger := log.Ctx(r.Context())

	d := loadDeps()
	if d.Confirmer == nil {
		logger.Error().Msg("Payment confirmer not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req confirmRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err})
		return
	}

	result, err := d.Confirmer.Confirm(r.Context(), req.SessionID)
	if err != nil {
		handlerErr := classifyError(err, d.RetryAfter)
		logConfirmError(r.Context(), req.SessionID, handlerErr)
		apiutil.WriteError(w, r, handlerErr)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, confirmResponse{
		Success:        true,
		DomainKind:     string(result.DomainKind),
		TargetEntityID: result.TargetEntityID,
		EffectID:       result.EffectID,
		Existing:       result.Existing,
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to write confirm response")
	}
}

// POST /api/v1/payments/webhook
func HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	logger := log.Ctx(r.Context())

	d := loadDeps()
	if d.Confirmer == nil {
		logger.Error().Msg("Payment confirmer not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	payload, err := apiutil.ReadBody(r)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid request body", Err: err})
		return
	}
	event, err := d.Events.ParseEvent(payload, r.Header)
	if err != nil {
		logger.Warn().Err(err).Msg("Rejected payment webhook")
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Invalid webhook event", Err: err})
		return
	}

	eventLogger := logger.With().Str("event_id", event.ID).Str("event_type", event.Type).Logger()
	if !completedEventTypes[event.Type] {
		eventLogger.Debug().Msg("Ignoring payment webhook event")
		writeWebhookResponse(w, r, webhookResponse{Received: true, Ignored: true})
		return
	}
	if strings.TrimSpace(event.ObjectID) == "" {
		eventLogger.Warn().Msg("Payment webhook event without object id")
		writeWebhookResponse(w, r, webhookResponse{Received: true, Error: "event has no object id"})
		return
	}

	// The payload only names the session; its state comes from the provider.
	result, err := d.Confirmer.Confirm(r.Context(), event.ObjectID)
	if err != nil {
		handlerErr := classifyError(err, d.RetryAfter)
		if payments.IsRetryable(err) {
			eventLogger.Warn().Err(err).Str("session_id", event.ObjectID).Msg("Payment webhook failed; provider will redeliver")
			apiutil.WriteError(w, r, handlerErr)
			return
		}
		eventLogger.Warn().Err(err).Str("session_id", event.ObjectID).Msg("Payment webhook rejected")
		writeWebhookResponse(w, r, webhookResponse{Received: true, Error: handlerErr.Message})
		return
	}

	eventLogger.Info().
		Str("session_id", result.SessionID).
		Str("effect_id", result.EffectID).
		Bool("existing", result.Existing).
		Msg("Payment webhook processed")
	writeWebhookResponse(w, r, webhookResponse{Received: true, EffectID: result.EffectID})
}

// GET /api/v1/payments/{sessionId}
func HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	logger := log.Ctx(r.Context())

	d := loadDeps()
	if d.Records == nil {
		logger.Error().Msg("Payment records not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sessionID := strings.TrimSpace(r.PathValue("sessionId"))
	if sessionID == "" {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: payments.ErrInvalidSession.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), statusQueryTimeout)
	defer cancel()
	record, err := d.Records.FindBySession(ctx, sessionID)
	if err != nil {
		handlerErr := classifyError(err, d.RetryAfter)
		if handlerErr.Status >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to load payment record")
		}
		apiutil.WriteError(w, r, handlerErr)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, recordResponse{
		SessionID:            record.SessionID,
		Status:               string(record.Status),
		DomainKind:           string(record.DomainKind),
		TargetEntityID:       record.TargetEntityID,
		EffectID:             record.AppliedEffectID,
		AmountCents:          record.AmountCents,
		PlatformFeeCents:     record.PlatformFeeCents,
		OrganizerAmountCents: record.OrganizerAmountCents,
		UpdatedAt:            record.UpdatedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to write payment status response")
	}
}

// classifyError maps confirmation errors onto HTTP statuses.
func classifyError(err error, retryAfter time.Duration) apiutil.HandlerError {
	status := http.StatusInternalServerError
	message := "Internal Server Error"
	var after time.Duration

	switch {
	case errors.Is(err, payments.ErrInvalidSession):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, payments.ErrUnknownSession):
		status, message = http.StatusNotFound, payments.ErrUnknownSession.Error()
	case errors.Is(err, payments.ErrPaymentNotConfirmed):
		status, message = http.StatusConflict, payments.ErrPaymentNotConfirmed.Error()
	case errors.Is(err, payments.ErrMissingMetadata),
		errors.Is(err, payments.ErrInvalidMetadata),
		errors.Is(err, payments.ErrMetadataMismatch),
		errors.Is(err, payments.ErrUnknownAdType),
		errors.Is(err, payments.ErrUnknownDomainKind),
		errors.Is(err, payments.ErrTargetNotFound):
		status, message = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, payments.ErrAlreadyPaid):
		status, message = http.StatusInternalServerError, payments.ErrAlreadyPaid.Error()
	case payments.IsRetryable(err):
		status, message, after = http.StatusServiceUnavailable, "Payment service temporarily unavailable", retryAfter
	}
	return apiutil.HandlerError{Status: status, Message: message, RetryAfter: after, Err: err}
}

func logConfirmError(ctx context.Context, sessionID string, handlerErr apiutil.HandlerError) {
	logger := log.Ctx(ctx)
	event := logger.Warn()
	if handlerErr.Status == http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(handlerErr.Err).
		Str("session_id", sessionID).
		Int("status", handlerErr.Status).
		Msg("Payment confirmation failed")
}

func writeWebhookResponse(w http.ResponseWriter, r *http.Request, resp webhookResponse) {
	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write webhook response")
	}
}

// JSONEventParser reads unsigned `{"id", "type", "data": {"object": {"id"}}}` events.
// Omise uses this shape, and the confirmation always re-verifies with the provider.
type JSONEventParser struct{}

func (JSONEventParser) ParseEvent(payload []byte, _ http.Header) (Event, error) {
	var raw struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Key  string `json:"key"`
		Data struct {
			ID     string          `json:"id"`
			Object json.RawMessage `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Event{}, err
	}

	event := Event{ID: raw.ID, Type: raw.Type, ObjectID: raw.Data.ID}
	// Stripe nests the object under data.object; Omise puts the charge directly under data
	// and names the event type "key".
	if len(raw.Data.Object) > 0 && raw.Data.Object[0] == '{' {
		var object struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw.Data.Object, &object); err != nil {
			return Event{}, err
		}
		event.ObjectID = object.ID
	}
	if event.Type == "" {
		event.Type = raw.Key
	}
	if event.Type == "" {
		return Event{}, errors.New("webhook event type is required")
	}
	return event, nil
}
