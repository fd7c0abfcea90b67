package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/contact-bridge/internal/contacts"
	httpmiddleware "github.com/wolfman30/contact-bridge/internal/http/middleware"
	"github.com/wolfman30/contact-bridge/internal/pending"
	"github.com/wolfman30/contact-bridge/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	ContactsHandler *contacts.Handler
	PendingHandler  *pending.Handler
	MetricsHandler  http.Handler

	// Shared secrets per endpoint. An empty secret rejects every request.
	CallContextToken    string
	PendingContactToken string
	LookupToken         string

	CORSAllowedOrigins []string

	// RateLimiter guards the public submission endpoint (optional).
	RateLimiter httpmiddleware.Limiter

	// StoreBackend is reported by the health endpoint.
	StoreBackend string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(logger))

	r.Get("/health", healthHandler(cfg.StoreBackend))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.ContactsHandler != nil {
		r.With(httpmiddleware.RequireToken(cfg.CallContextToken)).
			Post("/webhooks/call-context", cfg.ContactsHandler.CallContext)
		r.With(httpmiddleware.RequireToken(cfg.LookupToken)).
			Post("/contacts/lookup", cfg.ContactsHandler.Lookup)
	}

	if cfg.PendingHandler != nil {
		r.Group(func(submit chi.Router) {
			if cfg.RateLimiter != nil {
				submit.Use(httpmiddleware.RateLimit(cfg.RateLimiter, logger))
			}
			submit.Use(httpmiddleware.RequireToken(cfg.PendingContactToken))
			submit.Post("/contacts/pending", cfg.PendingHandler.Submit)
		})
	}

	return r
}

func healthHandler(backend string) http.HandlerFunc {
	body := map[string]string{
		"status":  "ok",
		"service": logging.ServiceName,
		"store":   backend,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(body)
	}
}
