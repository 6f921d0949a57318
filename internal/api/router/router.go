package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/apexpest/crm-platform/internal/http/handlers"
	httpmiddleware "github.com/apexpest/crm-platform/internal/http/middleware"
	"github.com/apexpest/crm-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger        *logging.Logger
	RetellWebhook *handlers.RetellWebhookHandler

	// Per-IP cap on webhook deliveries.
	WebhookRateLimit  int
	WebhookRateWindow time.Duration

	MetricsHandler http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.RetellWebhook != nil {
		limit := cfg.WebhookRateLimit
		if limit <= 0 {
			limit = 50
		}
		window := cfg.WebhookRateWindow
		if window <= 0 {
			window = time.Minute
		}
		r.Route("/webhooks/retell", func(wh chi.Router) {
			wh.Use(httpmiddleware.RateLimit(limit, window))
			wh.Post("/inbound", cfg.RetellWebhook.Handle)
		})
	}

	return r
}
