package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/contact-bridge/internal/api/router"
	appconfig "github.com/wolfman30/contact-bridge/internal/config"
	"github.com/wolfman30/contact-bridge/internal/contacts"
	"github.com/wolfman30/contact-bridge/internal/observability/metrics"
	"github.com/wolfman30/contact-bridge/internal/pending"
	"github.com/wolfman30/contact-bridge/pkg/logging"
)

// App is the fully wired HTTP surface.
type App struct {
	Handler http.Handler
	closers []func()
}

// Close releases store and limiter resources in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// BuildApp wires store, services, handlers and router from config. It is
// shared by the HTTP server and the Lambda entrypoint.
func BuildApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	var (
		bridgeMetrics  *metrics.BridgeMetrics
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		bridgeMetrics, metricsHandler = SetupMetrics()
	}

	app := &App{}
	s, closeStore, err := BuildStore(ctx, cfg, logger, bridgeMetrics)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeStore)

	limiter, closeLimiter := BuildRateLimiter(ctx, cfg, logger)
	app.closers = append(app.closers, closeLimiter)

	contactsSvc := contacts.NewService(s, cfg.ContactsCollection, logger, bridgeMetrics)
	pendingSvc := pending.NewService(s, cfg.PendingContactsCollection, logger)

	for name, token := range map[string]string{
		"call-context":    cfg.CallContextToken,
		"pending-contact": cfg.PendingContactToken,
		"lookup":          cfg.LookupToken,
	} {
		if token == "" {
			logger.Warn("endpoint secret not configured; all requests will be rejected", "endpoint", name)
		}
	}

	app.Handler = router.New(&router.Config{
		Logger:              logger,
		ContactsHandler:     contacts.NewHandler(contactsSvc, logger),
		PendingHandler:      pending.NewHandler(pendingSvc, logger, bridgeMetrics),
		MetricsHandler:      metricsHandler,
		CallContextToken:    cfg.CallContextToken,
		PendingContactToken: cfg.PendingContactToken,
		LookupToken:         cfg.LookupToken,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimiter:         limiter,
		StoreBackend:        s.Backend(),
	})
	return app, nil
}

// SetupMetrics registers bridge metrics on a fresh registry and returns the
// scrape handler for it.
func SetupMetrics() (*metrics.BridgeMetrics, http.Handler) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewBridgeMetrics(reg)
	return m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
