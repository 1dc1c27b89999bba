package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"github.com/shanawarAnsari/intelliplan-sub001/internal/config"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/dataset"
	apierrors "github.com/shanawarAnsari/intelliplan-sub001/internal/errors"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/infrastructure"
	customMiddleware "github.com/shanawarAnsari/intelliplan-sub001/internal/middleware"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/services"
	handlers "github.com/shanawarAnsari/intelliplan-sub001/internal/transport/http"
	"github.com/shanawarAnsari/intelliplan-sub001/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	ErrorHandler  *apierrors.ErrorHandler

	Forecast *services.ForecastService
	Health   *services.HealthService

	clock func() time.Time
}

// Option customizes an Application before its services are built.
type Option func(*Application)

// WithLogger uses logger instead of initializing the global one from config.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Application) {
		a.Logger = logger
	}
}

// WithClock overrides the forecast service clock.
func WithClock(now func() time.Time) Option {
	return func(a *Application) {
		a.clock = now
	}
}

// NewApplication wires configuration, telemetry, services and the router.
// The dataset is loaded once; a failed load is logged and leaves the
// service unready until a reload succeeds.
func NewApplication(cfg *config.Config, opts ...Option) (*Application, error) {
	app := &Application{Config: cfg}
	for _, opt := range opts {
		opt(app)
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	app.Paths = paths

	if app.Logger == nil {
		logCfg := cfg.Logging
		logCfg.FilePath = paths.GetLogPath(logCfg.FilePath)
		logger, err := infrastructure.InitializeLogger(logCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		app.Logger = logger
	}

	app.Logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.Any("paths", paths))

	providers, err := infrastructure.InitializeOTel(
		infrastructure.OTelConfigFrom(cfg.Telemetry, contracts.Version), app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	app.OTelProviders = providers

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	app.Metrics = metrics

	app.ErrorHandler = apierrors.NewErrorHandler(app.Logger, false)
	app.initializeServices()

	if _, err := app.Forecast.Reload(context.Background()); err != nil {
		infrastructure.WithError(app.Logger, err).Warn("Initial dataset load failed",
			slog.String("source", cfg.DatasetPath(paths)))
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the dataset source and the services on top of it
func (a *Application) initializeServices() {
	source := dataset.NewFileSource(a.Config.DatasetPath(a.Paths), a.Logger,
		dataset.WithFormat(dataset.Format(a.Config.Dataset.Format)),
		dataset.WithSheet(a.Config.Dataset.Sheet))

	forecastOpts := []services.ForecastOption{
		services.WithForecastLogger(a.Logger),
		services.WithTracer(a.OTelProviders.Tracer),
		services.WithMetrics(a.Metrics),
		services.WithForecastDefaults(a.Config.Forecast),
	}
	if a.clock != nil {
		forecastOpts = append(forecastOpts, services.WithServiceClock(a.clock))
	}

	a.Forecast = services.NewForecastService(source, forecastOpts...)
	a.Health = services.NewHealthService(contracts.Version, a.Paths, a.Forecast, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → SecurityHeaders → RateLimiter → Timeout
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
		if err != nil {
			a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}

		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)

		if rl := a.Config.Security.RateLimit; rl.Enabled {
			r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger, a.ErrorHandler).Handler)
		}

		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.ErrorHandler))
		r.Use(render.SetContentType(render.ContentTypeJSON))

		a.setupAPIRoutes(r)
	})

	// Prometheus scrapes skip the request middleware
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle(a.Config.Telemetry.MetricsPath, a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	validation := customMiddleware.NewValidationMiddleware(a.Logger, a.ErrorHandler)

	forecastHandler := handlers.NewForecastHandler(a.Forecast, a.Logger, a.ErrorHandler)
	r.With(
		customMiddleware.ContentTypeValidator(a.ErrorHandler, "application/json"),
		validation.ValidateRequest,
	).Mount(config.ForecastBasePath, forecastHandler.Routes())

	healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
	r.Mount(config.HealthBasePath, healthHandler.Routes())
	r.Get(config.VersionEndpoint, healthHandler.Version)
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln and runs the dataset watcher until ctx is done or
// either fails, then shuts down gracefully.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("address", ln.Addr().String()),
		slog.String("dataset", a.Config.DatasetPath(a.Paths)),
		slog.Duration("reload_interval", a.Config.Dataset.ReloadInterval))

	g.Go(func() error {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.Forecast.Watch(gctx, a.Config.Dataset.ReloadInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

// Stop gracefully stops the server and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			infrastructure.WithError(a.Logger, err).ErrorContext(ctx, "Error shutting down OpenTelemetry")
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return infrastructure.CloseLogFile()
}
