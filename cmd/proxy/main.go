package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"

	"github.com/docify/docify/internal/adapters/cache"
	"github.com/docify/docify/internal/adapters/providers/geolocation"
	"github.com/docify/docify/internal/api/handlers"
	"github.com/docify/docify/internal/api/routes"
	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/internal/infrastructure/clients/redis"
	"github.com/docify/docify/internal/infrastructure/observability"
	"github.com/docify/docify/pkg/config"
	"github.com/docify/docify/pkg/secrets"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vaultResult, vaultErr := secrets.ApplyVaultSecrets(ctx, secrets.LoadVaultConfigFromEnv(os.Getenv("VAULT_PATH_PROXY")))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	serviceName := cfg.OTEL.ServiceName + "-proxy"
	observability.InitLogger(serviceName, cfg.Env)

	if vaultErr != nil {
		log.Warn().Err(vaultErr).Msg("Failed to load secrets from Vault")
	} else if vaultResult.Enabled {
		log.Info().Str("path", vaultResult.Path).Int("loaded", vaultResult.Loaded).Msg("Loaded secrets from Vault")
	}

	log.Info().
		Str("service", serviceName).
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", cfg.Env).
		Msg("Starting nearby doctors proxy")

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, serviceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			observability.EnableOTelLogs(serviceName)
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	// Only photos are cached here; nearby search results always come fresh.
	var cacheProvider providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Redis client; photo cache disabled")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
		}
	}

	places, err := geolocation.NewGeolocationProvider(&cfg.Places, cacheProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize places provider")
	}

	handler := routes.NewProxyHandler(
		handlers.NewProxyHandler(places, cfg.Proxy.RadiusMeters, cfg.Proxy.Keyword),
		metrics,
	)

	server := &http.Server{
		Addr:         cfg.Proxy.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Proxy server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Proxy server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Proxy server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during proxy shutdown")
	}

	log.Info().Msg("Proxy server stopped")
}
