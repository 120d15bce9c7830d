package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"financecontroller/internal/adapters"
	"financecontroller/internal/auth"
	"financecontroller/internal/backend"
	"financecontroller/internal/categories"
	"financecontroller/internal/cli"
	"financecontroller/internal/config"
	"financecontroller/internal/format"
	apphttp "financecontroller/internal/http"
	"financecontroller/internal/metrics"
	"financecontroller/internal/middleware/ratelimit"
	"financecontroller/internal/middleware/security"
	"financecontroller/internal/services"
	"financecontroller/internal/storage"
)

func main() {
	cli.LoadEnvFile()

	// Configure logging before validation so config errors are logged in the
	// requested format.
	boot := config.Load()
	logger := cli.SetupLogger(boot.LogLevel, boot.LogFormat)
	cfg := cli.LoadAndValidateConfig(logger.Logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	collector := metrics.New("financecontroller")
	if err := collector.Register(result.Collectors...); err != nil {
		logger.Warn("Failed to register backend metrics", "error", err)
	}

	table, err := categories.Load(cfg.CategoriesFile)
	if err != nil {
		logger.Error("Failed to load categories", "error", err, "path", cfg.CategoriesFile)
		os.Exit(1)
	}
	formatter, err := format.New(cfg.Locale, cfg.Currency)
	if err != nil {
		logger.Error("Failed to initialize formatter", "error", err, "locale", cfg.Locale, "currency", cfg.Currency)
		os.Exit(1)
	}

	loc := cfg.Location()
	repo := adapters.NewTransactionRepository(result.Store, loc)
	svc := services.NewSummaryService(repo, table, formatter,
		services.WithRecorder(collector),
		services.WithLocation(loc))

	var ready storage.Pinger
	if p, ok := result.Store.(storage.Pinger); ok {
		ready = p
	}

	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Dependencies{
		Service: svc,
		Sessions: auth.NewStubProvider(auth.User{
			ID:    cfg.AuthUserID,
			Name:  cfg.AuthUserName,
			Email: cfg.AuthUserEmail,
			Photo: cfg.AuthUserPhoto,
		}),
		Ready:    ready,
		Metrics:  collector,
		Logger:   logger,
		Location: loc,
	}, apphttp.Options{
		RateLimit: ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
			Burst:             cfg.RateLimitBurst,
		},
		RequestTimeout: cfg.RequestTimeout,
		TrustedProxies: cfg.TrustedProxies,
		Headers:        security.DefaultHeadersConfig(),
	})
	if err != nil {
		logger.Error("Failed to configure HTTP server", "error", err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting financecontroller server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"locale", formatter.Tag().String(),
		"currency", formatter.CurrencyCode(),
		"timezone", loc.String(),
		"categories", table.Len())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)

	if result.Cleanup != nil {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}
	logger.Info("Server stopped gracefully")
}
