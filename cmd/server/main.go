package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"waflens/internal/auth"
	"waflens/internal/catalog"
	"waflens/internal/config"
	"waflens/internal/domain/repositories"
	"waflens/internal/handler"
	"waflens/internal/middleware"
	"waflens/internal/repository/memory"
	"waflens/internal/repository/postgres"
	"waflens/internal/service"
	"waflens/internal/service/ai"
	serviceauth "waflens/internal/service/auth"
	"waflens/internal/telemetry"
	"waflens/migrations"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("server starting",
		"version", version,
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store", cfg.StoreDriver,
		"ai_provider", cfg.AIProvider,
		"trace_exporter", cfg.TraceExporter,
	)

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.TraceExporter, version, os.Stdout)
	if err != nil {
		return fmt.Errorf("set up tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("trace flush failed", "error", err)
		}
	}()

	verifier, err := newVerifier(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("create token verifier: %w", err)
	}
	defer verifier.Close()

	repo, txManager, closeStore, err := newStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	registry, err := catalog.NewRegistry()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	gateway, err := ai.NewGateway(cfg)
	if err != nil {
		return fmt.Errorf("create AI gateway: %w", err)
	}

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	// Services
	assessmentService := service.NewAssessmentService(repo, txManager, registry, serviceauth.NewOwnerGuard(), logger)
	aiService := ai.NewService(gateway, metrics, logger)

	logger.Info("services initialized", "ai_gateway", gateway.Name())

	// Routes (Go 1.22+ enhanced patterns)
	routes := &handler.Routes{
		Health:      handler.NewHealthHandler(version),
		Assessments: handler.NewAssessmentHandler(assessmentService, logger),
		Catalog:     handler.NewCatalogHandler(registry, logger),
		AI:          handler.NewAIHandler(aiService, logger),
	}
	mux := http.NewServeMux()
	routes.Register(mux, cfg.APIPrefix)

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestID → Logger → Recovery → Timeout → Auth → Routes
	var h http.Handler = middleware.CaptureRoute(mux)
	h = middleware.Auth(
		auth.NewAuthenticator(verifier),
		middleware.PublicRoutes(cfg.APIPrefix),
		handler.ErrorResponder(logger),
		logger,
	)(h)
	h = middleware.Timeout(cfg.RequestTimeout)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.Logger(logger, metrics)(h)
	h = middleware.RequestID(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	servers := []*http.Server{server}
	if cfg.MetricsPort != "" {
		servers = append(servers, newMetricsServer(cfg.MetricsPort))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen on %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			errs = append(errs, srv.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

// newMetricsServer serves Prometheus metrics on the admin port, apart from
// the authenticated API.
func newMetricsServer(port string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	return &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// newVerifier builds the token verifier selected by AUTH_VERIFIER.
func newVerifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (auth.TokenVerifier, error) {
	switch cfg.AuthVerifier {
	case "oidc":
		return auth.NewOIDCVerifier(ctx, cfg.AuthIssuer, cfg.AuthAudience, logger)
	default:
		return auth.NewJWTVerifier(ctx, auth.JWTVerifierConfig{
			JWKSURL:  cfg.AuthJWKSURL,
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
		}, logger)
	}
}

// newStore opens the assessment store selected by STORE_DRIVER. The returned
// func releases it.
func newStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.AssessmentRepository, repositories.TransactionManager, func(), error) {
	if cfg.StoreDriver == "memory" {
		logger.Warn("using in-memory store: assessments are lost on restart")
		return memory.NewAssessmentStore(), memory.NewTransactionManager(), func() {}, nil
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, migrations.FS, tables, logger); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	return postgres.NewAssessmentRepository(repoConfig), postgres.NewTransactionManager(pool, logger), pool.Close, nil
}
