package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"studentlens/internal/charts"
	"studentlens/internal/config"
	apierrors "studentlens/internal/errors"
	"studentlens/internal/infrastructure"
	customMiddleware "studentlens/internal/middleware"
	"studentlens/internal/services"
	"studentlens/internal/session"
	handlers "studentlens/internal/transport/http"
	"studentlens/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	ActionLog     *slog.Logger
	Sessions      *session.MemoryStore
	Explorer      *services.ExplorerService
	HealthService *services.HealthService
	ErrorHandler  *apierrors.ErrorHandler
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics

	closers []io.Closer
}

// Options overrides parts of the wiring, mostly for tests
type Options struct {
	// Logger replaces the logger built from cfg.Logging
	Logger *slog.Logger
	// ActionLog replaces the file-backed user action log
	ActionLog *slog.Logger
	// TraceOut receives stdout spans; nil means os.Stdout
	TraceOut io.Writer
}

// NewApplication wires every component from cfg
func NewApplication(cfg *config.Config, opts Options) (*Application, error) {
	app := &Application{Config: cfg}

	logger := opts.Logger
	if logger == nil {
		l, closer, err := infrastructure.NewLogger(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		app.closers = append(app.closers, closer)
	}
	app.Logger = logger

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.GetFullVersionString()))

	actions := opts.ActionLog
	if actions == nil {
		l, closer, err := infrastructure.NewActionLog(cfg.Logging.ActionLogPath)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("failed to open action log: %w", err)
		}
		actions = l
		app.closers = append(app.closers, closer)
	}
	app.ActionLog = actions

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, contracts.Version, opts.TraceOut, logger)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	app.OTelProviders = providers

	if err := app.initializeServices(); err != nil {
		app.close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	metrics, err := infrastructure.NewPipelineMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}
	a.Metrics = metrics

	a.Sessions = session.NewMemoryStore(a.Config.Session.TTL)
	if err := infrastructure.ObserveSessions(a.OTelProviders.Meter, a.Sessions.Len); err != nil {
		return fmt.Errorf("failed to observe sessions: %w", err)
	}

	a.Explorer = services.NewExplorerService(a.Sessions, services.ExplorerOptions{
		PreviewRows:    a.Config.Upload.PreviewRows,
		MaxUploadBytes: a.Config.Upload.MaxBytes,
		DetailedCharts: a.Config.Charts.Detailed,
		Charts: charts.Options{
			Width:  a.Config.Charts.Width,
			Height: a.Config.Charts.Height,
			Bins:   a.Config.Charts.Bins,
		},
		Tracer:    a.OTelProviders.Tracer,
		Metrics:   metrics,
		ActionLog: a.ActionLog,
	}, a.Logger)

	a.HealthService = services.NewHealthService(contracts.Version, a.Sessions, a.Logger)
	a.ErrorHandler = apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Level == "debug")

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → RealIP → Recoverer → OTel → security
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
	r.Use(customMiddleware.DefaultSecureHeaders().Handler)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.ErrorHandler,
			a.Logger,
		).Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	r.Get("/healthz", healthHandler.LivenessCheck)
	r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)

	a.setupAPIRoutes(r, healthHandler)

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, healthHandler *handlers.HealthHandler) {
	explorerHandler := handlers.NewExplorerHandler(a.Explorer, handlers.ExplorerHandlerConfig{
		CookieName:     a.Config.Session.CookieName,
		SecureCookies:  a.Config.Security.SecureCookies,
		SessionTTL:     a.Config.Session.TTL,
		MaxUploadBytes: a.Config.Upload.MaxBytes,
	}, a.Logger, a.ErrorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(apierrors.NewErrorMiddleware(a.ErrorHandler, a.Logger).Handler)
		r.Use(customMiddleware.ContentTypeValidator(a.ErrorHandler, "application/json", "multipart/form-data"))

		r.Get("/version", healthHandler.Version)
		r.Mount("/", explorerHandler.Routes())
	})
}

// getCORSConfig returns the CORS configuration for the explorer API
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins:   a.Config.Security.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", handlers.SessionHeader},
		ExposedHeaders:   []string{"Content-Disposition", handlers.SessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}
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

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts down
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Server listening",
			slog.String("address", a.Server.Addr),
			slog.String("version", contracts.Version))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.InfoContext(context.Background(), "Shutdown requested")
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete",
		slog.Int("sessions", a.Sessions.Len()))

	if err := a.close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *Application) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
