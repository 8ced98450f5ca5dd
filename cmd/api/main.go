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
	"github.com/docify/docify/internal/adapters/events"
	"github.com/docify/docify/internal/adapters/providers/doctors"
	"github.com/docify/docify/internal/adapters/providers/geolocation"
	"github.com/docify/docify/internal/adapters/providers/ocr"
	"github.com/docify/docify/internal/adapters/providers/textgen"
	"github.com/docify/docify/internal/adapters/session"
	"github.com/docify/docify/internal/api/handlers"
	"github.com/docify/docify/internal/api/middleware"
	"github.com/docify/docify/internal/api/routes"
	"github.com/docify/docify/internal/application/services"
	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/internal/infrastructure/clients/redis"
	"github.com/docify/docify/internal/infrastructure/observability"
	"github.com/docify/docify/pkg/config"
	"github.com/docify/docify/pkg/secrets"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vaultResult, vaultErr := secrets.ApplyVaultSecrets(ctx, secrets.LoadVaultConfigFromEnv(os.Getenv("VAULT_PATH_API")))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	if vaultErr != nil {
		log.Warn().Err(vaultErr).Msg("Failed to load secrets from Vault")
	} else if vaultResult.Enabled {
		log.Info().Str("path", vaultResult.Path).Int("loaded", vaultResult.Loaded).Int("skipped", vaultResult.Skipped).Msg("Loaded secrets from Vault")
	}

	log.Info().
		Str("service", cfg.OTEL.ServiceName).
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", cfg.Env).
		Msg("Starting application server")

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			observability.EnableOTelLogs(cfg.OTEL.ServiceName)
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	// Sessions, the response cache and session events share Redis when it is
	// enabled. Without it everything stays in process.
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.RedisAddr()).Msg("Failed to initialize Redis client")
		}
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized successfully")
	} else {
		cacheProvider = cache.NewMemoryAdapter()
		eventBus = events.NewMemoryEventBus()
		log.Warn().Msg("Redis disabled; sessions and events are kept in memory")
	}

	sessionRepo := session.NewSessionAdapter(cacheProvider, cfg.Session.TTLSeconds)

	ocrProvider, err := ocr.NewOCRProvider(&cfg.OCR)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize OCR provider")
	}
	generator, err := textgen.NewTextGenerator(ctx, &cfg.TextGen)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize text generator")
	}
	geolocationProvider, err := geolocation.NewGeolocationProvider(&cfg.Places, cacheProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize geolocation provider")
	}
	doctorDirectory := doctors.NewProxyClient(cfg.Proxy.BaseURL, nil)

	generation := services.GenerationSettings{
		MaxTokens:   cfg.TextGen.MaxTokens,
		Temperature: cfg.TextGen.Temperature,
	}
	doctorSearchService := services.NewDoctorSearchService(doctorDirectory, services.DoctorSearchConfig{
		Limit:         cfg.DoctorSearch.Limit,
		PhotoURL:      cfg.Places.PhotoURL,
		PhotoMaxWidth: cfg.Places.PhotoMaxWidth,
	})
	reportService := services.NewReportService(ocrProvider, generator, sessionRepo, doctorSearchService, eventBus, services.ReportServiceConfig{
		MaxImageBytes: cfg.Upload.MaxBytes,
		SearchTimeout: time.Duration(cfg.DoctorSearch.TimeoutSeconds) * time.Second,
		Generation:    generation,
	})
	medicineService := services.NewMedicineService(generator, generation)

	router := routes.NewRouter(
		handlers.NewReportHandler(reportService, geolocationProvider, cfg.Upload.MaxBytes),
		handlers.NewSessionHandler(reportService),
		handlers.NewMedicineHandler(medicineService),
		handlers.NewGeolocationHandler(geolocationProvider),
		handlers.NewSSEHandler(eventBus, metrics),
		middleware.NewCacheMiddleware(cacheProvider),
		metrics,
	)

	// WriteTimeout stays unset so session event streams are not cut off.
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Application server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	// In-flight doctor searches finish before their events can no longer be delivered.
	reportService.Wait()

	if err := eventBus.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing event bus")
	}

	log.Info().Msg("Server stopped")
}
