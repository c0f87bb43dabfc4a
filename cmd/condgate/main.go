package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/condgate/condgate/pkg/gateway"
	"github.com/condgate/condgate/pkg/logging"
)

func main() {
	// Configuration from environment
	upstreamURL := getEnv("UPSTREAM_URL", "")
	redisURL := getEnv("REDIS_URL", "localhost:6379")
	port := getEnv("PORT", "8080")
	bypassCookies := getEnv("BYPASS_COOKIES", "session")
	logLevel := getEnv("LOG_LEVEL", "info")

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(logLevel),
		Output: os.Stderr,
	})

	if upstreamURL == "" {
		log.Fatal().Msg("UPSTREAM_URL is required")
	}

	// Setup Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("redis", redisURL).Msg("Failed to connect to Redis")
	}
	log.Info().Str("redis", redisURL).Msg("Connected to Redis")

	cfg := gateway.DefaultConfig(redisClient, upstreamURL)
	cfg.BypassCookies = splitCookieNames(bypassCookies)

	gw, err := gateway.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create gateway")
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", healthHandler)
	r.Get("/readyz", readyHandler(redisClient))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Handle("/*", gw)

	addr := ":" + port
	log.Info().
		Str("addr", addr).
		Str("upstream", upstreamURL).
		Strs("bypass_cookies", cfg.BypassCookies).
		Msg("Starting gateway")

	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// readyHandler reports readiness: the cache backend must be reachable.
func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			http.Error(w, fmt.Sprintf("redis unavailable: %v", err), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	}
}

// splitCookieNames parses a comma-separated cookie name list.
func splitCookieNames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
