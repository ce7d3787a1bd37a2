// Supplier Gateway - one pricing and ordering contract over ABC, SRS and BEACON.
// Stateless apart from the environment routing document and cached credentials.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"supplier-gateway/internal/config"
	"supplier-gateway/internal/credentials"
	"supplier-gateway/internal/gateway"
	"supplier-gateway/internal/handler"
	"supplier-gateway/internal/metrics"
	"supplier-gateway/internal/middleware"
	"supplier-gateway/internal/registry"
	"supplier-gateway/internal/settings"
	"supplier-gateway/internal/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	logger := initLogger()

	// Load configuration
	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Info("configuration loaded",
		slog.String("environment", cfg.Environment),
		slog.String("settings_backend", cfg.Settings.Backend),
		slog.Bool("chrome_tls", cfg.ChromeTLS),
		slog.Any("credentials", cfg.Secrets),
	)

	m := metrics.New()

	catalog := registry.DefaultCatalog()
	if cfg.CatalogFile != "" {
		catalog, err = registry.LoadCatalog(cfg.CatalogFile)
		if err != nil {
			return fmt.Errorf("loading supplier catalog: %w", err)
		}
	}

	reg := registry.New(catalog, cfg.Secrets,
		registry.WithHTTPClient(transport.NewHTTPClient(transport.Options{
			Timeout:           cfg.UpstreamTimeout,
			ChromeFingerprint: cfg.ChromeTLS,
		})),
		registry.WithCredentials(credentials.New(
			credentials.WithMetrics(m),
			credentials.WithLogger(logger),
		)),
	)

	store, closeStore, err := openSettingsStore(ctx, cfg.Settings)
	if err != nil {
		return fmt.Errorf("opening settings store: %w", err)
	}
	defer closeStore()

	router := settings.NewRouter(store, reg.Keys(), logger)
	gw := gateway.New(reg, router, m, logger)

	h := handler.New(gw, m, logger)

	// Setup routes
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	// Apply middleware chain: request id → recovery → logging → handler
	// Request id is outermost so panics and access logs carry it
	httpHandler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logging(logger),
	)(mux)

	// Create HTTP server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * cfg.UpstreamTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Channel for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Channel for server errors
	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			slog.String("port", cfg.Port),
			slog.String("addr", server.Addr),
			slog.Any("suppliers", reg.Keys()),
		)
		serverErr <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give outstanding requests time to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			// Force close if graceful shutdown fails
			server.Close()
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

// openSettingsStore creates the configured settings backend. The returned
// func releases it.
func openSettingsStore(ctx context.Context, cfg config.SettingsConfig) (settings.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return settings.NewMemoryStore(), func() {}, nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
		}
		return settings.NewRedisStore(client, ""), func() { client.Close() }, nil
	default:
		return settings.NewFileStore(cfg.Dir), func() {}, nil
	}
}

// initLogger creates a structured logger configured for the environment.
// Production uses JSON format for GCP Cloud Logging compatibility.
// Development uses text format for readability.
// Records logged with a request context carry its request id.
func initLogger() *slog.Logger {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
		// Add source location in debug mode
		AddSource: level == slog.LevelDebug,
	}

	// JSON for production (Cloud Logging compatible), text for development
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if os.Getenv("ENVIRONMENT") == "production" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(middleware.NewContextHandler(h))
}
