// Package main provides the API server entry point
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/chicogong/frameseq/pkg/api"
	"github.com/chicogong/frameseq/pkg/auth"
	"github.com/chicogong/frameseq/pkg/config"
	"github.com/chicogong/frameseq/pkg/store"
)

var (
	configPath = flag.String("config", "", "Path to YAML config file")
	port       = flag.Int("port", 0, "Server port (overrides config)")
	host       = flag.String("host", "", "Server host (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *host != "" {
		cfg.Server.Host = *host
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	s := store.NewMemoryStore()
	defer s.Close()

	server := api.NewServer(s, logger)
	defer server.Close()

	mux := setupRoutes(server, cfg, logger)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Addr()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func setupRoutes(server *api.Server, cfg *config.Config, logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	protect := authWrapper(cfg, logger)

	// Health check stays unauthenticated
	mux.HandleFunc("/health", api.Chain(
		server.HandleHealth,
		api.LoggingMiddleware(logger),
	))

	mux.HandleFunc("/api/v1/condense", api.Chain(
		protect(server.HandleCondense),
		api.RecoveryMiddleware(logger),
		api.CORSMiddleware,
		api.LoggingMiddleware(logger),
	))

	mux.HandleFunc("/api/v1/expand", api.Chain(
		protect(server.HandleExpand),
		api.RecoveryMiddleware(logger),
		api.CORSMiddleware,
		api.LoggingMiddleware(logger),
	))

	mux.HandleFunc("/api/v1/scans", api.Chain(
		protect(server.HandleScans),
		api.RecoveryMiddleware(logger),
		api.CORSMiddleware,
		api.LoggingMiddleware(logger),
	))

	mux.HandleFunc("/api/v1/scans/", api.Chain(
		protect(server.HandleScans),
		api.RecoveryMiddleware(logger),
		api.CORSMiddleware,
		api.LoggingMiddleware(logger),
	))

	return mux
}

// authWrapper returns a middleware that enforces authentication when
// enabled in the config, and a pass-through otherwise
func authWrapper(cfg *config.Config, logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	if !cfg.Auth.Enabled {
		return func(h http.HandlerFunc) http.HandlerFunc { return h }
	}

	var jwtManager *auth.JWTManager
	if cfg.Auth.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	}
	apiKeyManager := auth.NewAPIKeyManager(cfg.Auth.APIKeys)
	middleware := auth.NewAuthMiddleware(jwtManager, apiKeyManager, false)
	logger.Info("authentication enabled",
		zap.Bool("jwt", jwtManager != nil),
		zap.Int("api_keys", apiKeyManager.Count()))

	return func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.Handler(h).ServeHTTP
	}
}
