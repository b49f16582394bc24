package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/gearcatalog-backend/internal/config"
	"github.com/heartmarshall/gearcatalog-backend/internal/metrics"
	"github.com/heartmarshall/gearcatalog-backend/internal/transport/middleware"
)

// RouterDeps holds everything mounted by NewRouter.
type RouterDeps struct {
	Gear   *GearHandler
	Health *HealthHandler
	Logger *slog.Logger
	CORS   config.CORSConfig

	// RateLimiter guards /api; nil disables limiting.
	RateLimiter       *middleware.RateLimiter
	TrustForwardedFor bool

	// MetricsPath exposes Prometheus metrics when non-empty.
	MetricsPath string
}

// NewRouter builds the HTTP handler of the gear search service.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	quiet := []string{"/live", "/ready"}
	if d.MetricsPath != "" {
		quiet = append(quiet, d.MetricsPath)
	}

	r.Use(
		middleware.RequestID(),
		middleware.ClientIP(d.TrustForwardedFor),
		middleware.Recovery(d.Logger),
		middleware.Logger(d.Logger, quiet...),
	)
	if d.MetricsPath != "" {
		r.Use(metrics.Middleware())
	}
	r.Use(middleware.CORS(d.CORS))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/live", d.Health.Live)
	r.Get("/ready", d.Health.Ready)
	r.Get("/health", d.Health.Health)
	if d.MetricsPath != "" {
		r.Method(http.MethodGet, d.MetricsPath, promhttp.Handler())
	}

	r.Route("/api/v1/gear", func(r chi.Router) {
		if d.RateLimiter != nil {
			r.Use(d.RateLimiter.Middleware())
		}
		r.Get("/search", d.Gear.Search)
		r.Post("/extract", d.Gear.Extract)
		r.Post("/resolve", d.Gear.Resolve)
	})

	return r
}
