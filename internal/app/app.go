package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/gearcatalog-backend/internal/config"
	"github.com/heartmarshall/gearcatalog-backend/internal/metrics"
	"github.com/heartmarshall/gearcatalog-backend/internal/transport/middleware"
	"github.com/heartmarshall/gearcatalog-backend/internal/transport/rest"
)

// rateLimitSweep is how often idle rate limiter buckets are dropped.
const rateLimitSweep = time.Minute

// Run is the application entry point. It loads configuration, assembles the
// search engine and serves the HTTP API until ctx is cancelled, then shuts
// the server down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("catalog_backend", cfg.Catalog.Backend),
	)

	svc, err := Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	handler, stop := NewHandler(cfg, svc, logger)
	defer stop()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

// NewHandler mounts the services on the HTTP router. The returned func
// releases the rate limiter.
func NewHandler(cfg *config.Config, svc *Services, logger *slog.Logger) (http.Handler, func()) {
	deps := rest.RouterDeps{
		Gear:              rest.NewGearHandler(svc.Catalog, svc.Extractor, cfg.Search.RequestTimeout, logger),
		Health:            rest.NewHealthHandler(BuildVersion(), svc.Pingers...),
		Logger:            logger,
		CORS:              cfg.CORS,
		TrustForwardedFor: cfg.Server.TrustForwardedFor,
	}

	stop := func() {}
	if cfg.Server.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, rateLimitSweep)
		deps.RateLimiter = limiter
		stop = limiter.Stop
	}
	if cfg.Metrics.Enabled {
		metrics.Register()
		deps.MetricsPath = cfg.Metrics.Path
	}

	return rest.NewRouter(deps), stop
}

// serve runs srv until ctx is done, then drains in-flight requests for at
// most shutdownTimeout.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
