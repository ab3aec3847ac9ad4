// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockpilot/stockbot-go/internal/actions"
	"github.com/stockpilot/stockbot-go/internal/buildinfo"
	"github.com/stockpilot/stockbot-go/internal/config"
	"github.com/stockpilot/stockbot-go/internal/inventory"
	"github.com/stockpilot/stockbot-go/internal/logger"
	"github.com/stockpilot/stockbot-go/internal/metrics"
	"github.com/stockpilot/stockbot-go/internal/ratelimit"
	"github.com/stockpilot/stockbot-go/internal/sentry"
	"github.com/stockpilot/stockbot-go/internal/webhook"
)

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg            *config.Config
	logger         *logger.Logger
	metrics        *metrics.Metrics
	registry       *prometheus.Registry
	backend        *inventory.Client
	actions        *actions.Registry
	senderLimiter  *ratelimit.KeyedLimiter
	webhookHandler *webhook.Handler
	router         *gin.Engine
	server         *http.Server
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(_ context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    betterStackToken(cfg),
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", cfg.ServerName).WithField("release", buildinfo.Release())
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}

	// Package-level slog.*Context() calls go through the ContextHandler too.
	slog.SetDefault(log.Logger)

	log.Info("Initializing application...")

	if cfg.SentryEnabled {
		release := cfg.SentryRelease
		if release == "" {
			release = buildinfo.Release()
		}
		if err := sentry.Initialize(sentry.Config{
			DSN:         cfg.SentryDSN,
			Environment: cfg.SentryEnvironment,
			Release:     release,
			ServerName:  cfg.ServerName,
			SampleRate:  cfg.SentrySampleRate,
		}); err != nil {
			return nil, fmt.Errorf("sentry: %w", err)
		}
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry error reporting enabled")
	}

	return build(cfg, log), nil
}

// build wires every component from an already constructed logger.
func build(cfg *config.Config, log *logger.Logger) *Application {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	backend := inventory.NewClient(inventory.Options{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
		Metrics: m,
		Logger:  log,
	})
	log.WithField("backend_url", backend.BaseURL()).
		WithField("timeout", cfg.BackendTimeout.String()).
		Info("Inventory backend configured")

	actionRegistry := actions.DefaultRegistry(backend, m, log)

	senderLimiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:          "sender",
		Burst:         cfg.SenderRateBurst,
		RefillRate:    cfg.SenderRateRefill,
		CleanupPeriod: config.RateLimiterCleanupInterval,
		Metrics:       m,
	})

	webhookHandler := webhook.NewHandler(actionRegistry, m, log,
		webhook.WithActionTimeout(cfg.ActionTimeout),
		webhook.WithSenderLimiter(senderLimiter),
	)

	app := &Application{
		cfg:            cfg,
		logger:         log,
		metrics:        m,
		registry:       registry,
		backend:        backend,
		actions:        actionRegistry,
		senderLimiter:  senderLimiter,
		webhookHandler: webhookHandler,
	}
	app.router = app.newRouter()

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.router,
		ReadHeaderTimeout: config.ServerHTTPRead,
		ReadTimeout:       config.ServerHTTPRead,
		WriteTimeout:      max(config.ServerHTTPWrite, cfg.ActionTimeout+config.ServerHTTPWriteMargin),
		IdleTimeout:       config.ServerHTTPIdle,
	}

	log.WithField("actions", actionRegistry.Names()).Info("Initialization complete")
	return app
}

func betterStackToken(cfg *config.Config) string {
	if !cfg.BetterStackEnabled {
		return ""
	}
	return cfg.BetterStackToken
}

func (a *Application) newRouter() *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(a.logger))

	router.GET("/livez", a.livenessCheck)
	router.HEAD("/livez", a.livenessCheck)
	router.GET("/readyz", a.readinessCheck)
	router.HEAD("/readyz", a.readinessCheck)
	a.webhookHandler.RegisterRoutes(router)
	router.GET("/metrics",
		metricsAuthMiddleware(a.cfg.MetricsAuthEnabled, a.cfg.MetricsUsername, a.cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	return router
}

// Handler returns the HTTP handler serving all routes.
func (a *Application) Handler() http.Handler {
	return a.router
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "alive",
		"release": buildinfo.Release(),
	})
}

// readinessCheck reports ready only while the inventory backend answers.
func (a *Application) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), config.ReadinessCheckTimeout)
	defer cancel()

	if err := a.backend.Ping(ctx); err != nil {
		a.logger.WithError(err).Warn("Readiness check failed: backend unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "backend unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"backend": "reachable",
		"actions": len(a.actions.Names()),
	})
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM, then shuts
// down gracefully.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		a.logger.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-errCh:
		a.logger.WithError(err).Error("HTTP server error")
		a.shutdown()
		return fmt.Errorf("http server: %w", err)
	}

	a.shutdown()
	return nil
}

func (a *Application) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping HTTP server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
	}

	a.senderLimiter.Stop()

	if sentry.IsEnabled() && !sentry.Flush(config.SentryFlushTimeout) {
		a.logger.Warn("Sentry flush timed out")
	}

	a.logger.Info("Shutdown complete")
}
