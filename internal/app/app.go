package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/EbinDavis252/Analysis-of-Bakery/internal/config"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/dataprocessing"
	apierrors "github.com/EbinDavis252/Analysis-of-Bakery/internal/errors"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/infrastructure"
	customMiddleware "github.com/EbinDavis252/Analysis-of-Bakery/internal/middleware"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/services"
	handlers "github.com/EbinDavis252/Analysis-of-Bakery/internal/transport/http"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/validation"
	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics
	ErrorHandler  *apierrors.ErrorHandler
	Services      *ServiceContainer
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Analysis *services.AnalysisService
	Health   *services.HealthService
	Files    *validation.FileValidator
}

// NewApplication loads the configuration and the global logger and wires
// the application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires the application from an already loaded configuration
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreatePipelineMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	pipeline := dataprocessing.NewPipeline(a.Logger,
		dataprocessing.WithMetrics(a.Metrics),
		dataprocessing.WithTracer(a.OTelProviders.Tracer),
	)
	files := validation.NewFileValidator(a.Config.Analysis.MaxUploadBytes, a.Logger)

	health := services.NewHealthService(contracts.Version, contracts.BuildTime, contracts.GitCommit, a.Logger)
	// Large uploads spill to the temp directory while being parsed
	health.RegisterCheck("upload_storage", func(context.Context) services.ServiceHealth {
		if err := files.ValidateOutputDirectory(os.TempDir()); err != nil {
			return services.ServiceHealth{Status: services.StatusNotReady, Message: err.Error()}
		}
		return services.ServiceHealth{Status: services.StatusReady}
	})

	a.Services = &ServiceContainer{
		Analysis: services.NewAnalysisService(pipeline, files, a.Config.Analysis, a.Logger),
		Health:   health,
		Files:    files,
	}
}

// setupRouter builds the chi router.
// Middleware order: RequestID → RealIP → OTel → Logger → Recoverer → Timeout.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// Scrapes stay outside the API middleware and rate limit
	r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.ErrorHandler))

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.ErrorHandler,
			).Handler)
		}

		if a.Config.Server.RequestTimeout > 0 {
			r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.ErrorHandler))
		}

		a.setupAPIRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes mounts the handlers under /api
func (a *Application) setupAPIRoutes(r chi.Router) {
	analysisHandler := handlers.NewAnalysisHandler(
		a.Services.Analysis,
		a.Services.Files,
		customMiddleware.NewRequestValidator(a.Logger),
		a.Logger,
		a.ErrorHandler,
	)
	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/analysis", analysisHandler.Routes())
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
	})
}

// getCORSConfig builds the CORS settings from the security config
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", customMiddleware.RequestIDHeader},
		ExposedHeaders: []string{"Content-Disposition", "X-Run-ID", customMiddleware.RequestIDHeader},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start serves HTTP in the background. A listener failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", a.Server.Addr))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	return a.Stop(context.Background())
}
