package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"ecfr-proxy/internal/cache"
	"ecfr-proxy/internal/config"
	"ecfr-proxy/internal/ecfr"
	"ecfr-proxy/internal/handler"
	"ecfr-proxy/internal/middleware"
	"ecfr-proxy/internal/refresh"
)

func main() {
	configPath := flag.String("config", "", "Path to config.json")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.DebugEnabled {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Cache backend: Redis when configured, in-process memory otherwise.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			slog.Error("Redis unreachable", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		slog.Info("Cache backend initialized", "backend", "redis", "addr", cfg.RedisAddr, "prefix", cfg.RedisPrefix)
	} else {
		slog.Info("Cache backend initialized", "backend", "memory")
	}

	client := ecfr.NewClient(cfg.ECFRBaseURL, cfg.UpstreamTimeoutDuration())
	h := handler.New(cfg, client, handler.Caches{
		Titles:      newCache[[]ecfr.Title](cfg, rdb, "titles", cfg.MetadataTTLDuration()),
		Agencies:    newCache[[]ecfr.Agency](cfg, rdb, "agencies", cfg.MetadataTTLDuration()),
		WordCounts:  newCache[int](cfg, rdb, "wordcounts", cfg.WordCountTTLDuration()),
		Suggestions: newCache[[]string](cfg, rdb, "suggestions", cfg.SuggestionTTLDuration()),
	})

	mux := http.NewServeMux()
	limiter := middleware.NewConcurrencyLimiter(cfg.ConcurrencyLimit, 30*time.Second)
	registerRoutes(mux, h, limiter)

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: middleware.Chain(
			middleware.CORS,
			middleware.SecurityHeaders,
			middleware.TraceMiddleware,
			middleware.LoggingMiddleware,
		)(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	engine := refresh.New(h, cfg.MetadataTTLDuration())
	if err := engine.Start(ctx); err != nil {
		slog.Error("Failed to start refresh scheduler", "error", err)
		os.Exit(1)
	}

	if cfg.PreloadMetadata {
		go func() {
			preloadCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()
			if err := h.RefreshMetadata(preloadCtx); err != nil {
				slog.Warn("metadata preload failed", "error", err)
				return
			}
			engine.MarkRefreshed()
			slog.Info("metadata preloaded")
		}()
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		slog.Info("Received signal, starting graceful shutdown", "signal", sig)

		cancelBackground()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		close(idleConnsClosed)
	}()

	slog.Info("Server running", "port", cfg.Port, "upstream", cfg.ECFRBaseURL)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("Server start failed", "error", err)
		os.Exit(1)
	}

	<-idleConnsClosed
	slog.Info("Server shutdown gracefully")
}

// newCache builds one cache namespace on the selected backend, wrapped
// with hit/miss instrumentation.
func newCache[V any](cfg *config.Config, rdb *redis.Client, namespace string, ttl time.Duration) cache.Cache[V] {
	if rdb != nil {
		return cache.NewInstrumented[V](cache.NewRedis[V](rdb, cfg.RedisPrefix, namespace, ttl), namespace)
	}
	return cache.NewInstrumented[V](cache.NewMemory[V](ttl, 0), namespace)
}
