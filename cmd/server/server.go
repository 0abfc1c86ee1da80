// cmd/server/server.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/api"
	paymentsapi "github.com/codr1/courtside/internal/api/payments"
	"github.com/codr1/courtside/internal/config"
	"github.com/codr1/courtside/internal/db"
	"github.com/codr1/courtside/internal/email"
	"github.com/codr1/courtside/internal/events"
	"github.com/codr1/courtside/internal/payments"
	"github.com/codr1/courtside/internal/provider/fake"
	"github.com/codr1/courtside/internal/provider/omise"
	"github.com/codr1/courtside/internal/provider/stripe"
	"github.com/codr1/courtside/internal/ratelimit"
	"github.com/codr1/courtside/internal/scheduler"
)

// app owns everything the server needs to shut down in order.
type app struct {
	server    *http.Server
	scheduler *scheduler.Service
	database  *db.DB
	limiter   *ratelimit.Limiter
	publisher *events.Publisher
	notifier  *email.ReceiptNotifier
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &app{database: database}

	verifier, err := newVerifier(cfg)
	if err != nil {
		a.close()
		return nil, err
	}

	listeners, err := a.newListeners(ctx, cfg)
	if err != nil {
		a.close()
		return nil, err
	}

	records := payments.NewRecordStore(database)
	confirmer, err := payments.NewConfirmer(payments.Config{
		Verifier:      verifier,
		Records:       records,
		Appliers:      payments.NewAppliers(database, cfg.FeeRate()),
		Listeners:     listeners,
		VerifyTimeout: cfg.Payments.VerifyTimeout,
		StoreTimeout:  cfg.Payments.StoreTimeout,
	})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("create confirmer: %w", err)
	}

	paymentsapi.InitHandlers(paymentsapi.Deps{
		Confirmer: confirmer,
		Records:   records,
		Events:    newEventParser(cfg),
	})

	a.scheduler, err = scheduler.New()
	if err != nil {
		a.close()
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	if cfg.Reconcile.Enabled {
		reconciler := scheduler.NewReconciler(confirmer, records, cfg.Reconcile.BatchSize, cfg.Reconcile.MinAge)
		if err := scheduler.RegisterReconcileJob(a.scheduler, cfg.Reconcile.Cron, reconciler); err != nil {
			a.close()
			return nil, fmt.Errorf("register reconcile job: %w", err)
		}
	}

	a.limiter = ratelimit.New(ratelimit.Config{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Burst:             cfg.RateLimit.Burst,
	})
	a.server = newServer(cfg, a.limiter)
	return a, nil
}

func newVerifier(cfg *config.Config) (payments.Verifier, error) {
	switch cfg.Payments.Driver {
	case "stripe":
		return stripe.NewVerifier(cfg.Secrets.StripeSecretKey, cfg.Payments.VerifyTimeout)
	case "omise":
		return omise.NewVerifier(cfg.Secrets.OmisePublicKey, cfg.Secrets.OmiseSecretKey)
	case "fake":
		log.Warn().Msg("Using fake payment verifier")
		if cfg.Payments.FakeSessionsFile != "" {
			return fake.LoadFile(cfg.Payments.FakeSessionsFile)
		}
		return fake.NewVerifier(), nil
	default:
		return nil, fmt.Errorf("unsupported payments driver: %s", cfg.Payments.Driver)
	}
}

func newEventParser(cfg *config.Config) paymentsapi.EventParser {
	if cfg.Payments.Driver == "stripe" && cfg.Secrets.StripeWebhookSecret != "" {
		return stripe.NewEventParser(cfg.Secrets.StripeWebhookSecret)
	}
	return paymentsapi.JSONEventParser{}
}

func (a *app) newListeners(ctx context.Context, cfg *config.Config) ([]payments.ConfirmationListener, error) {
	var listeners []payments.ConfirmationListener

	if cfg.Events.Enabled {
		publisher, err := events.NewPublisher(cfg.Secrets.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			return nil, fmt.Errorf("connect event publisher: %w", err)
		}
		a.publisher = publisher
		listeners = append(listeners, events.NewConfirmationPublisher(publisher, cfg.Events.RoutingKey))
	}

	if cfg.Email.Enabled {
		client, err := email.NewSESClient(ctx,
			cfg.Secrets.AWSAccessKeyID,
			cfg.Secrets.AWSSecretAccessKey,
			cfg.Email.Region,
			cfg.Email.Sender,
		)
		if err != nil {
			return nil, fmt.Errorf("create email client: %w", err)
		}
		a.notifier = email.NewReceiptNotifier(client, cfg.App.Name)
		listeners = append(listeners, a.notifier)
	}

	return listeners, nil
}

// close releases resources in reverse order of use. It is safe to call more than once.
func (a *app) close() {
	if a.notifier != nil {
		a.notifier.Wait()
		a.notifier = nil
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close event publisher")
		}
		a.publisher = nil
	}
	if a.limiter != nil {
		a.limiter.Close()
		a.limiter = nil
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
		a.database = nil
	}
}

func newServer(cfg *config.Config, limiter *ratelimit.Limiter) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	// Register routes
	registerRoutes(router, limiter)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Payments.VerifyTimeout + cfg.Payments.StoreTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, limiter *ratelimit.Limiter) {
	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Payment routes
	mux.Handle("/api/v1/payments/confirm", limiter.Middleware(http.HandlerFunc(paymentsapi.HandleConfirm)))
	mux.Handle("/api/v1/payments/webhook", http.HandlerFunc(paymentsapi.HandleWebhook))
	mux.Handle("/api/v1/payments/{sessionId}", limiter.Middleware(http.HandlerFunc(paymentsapi.HandleStatus)))
}
