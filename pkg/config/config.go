package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Env          string
	Server       ServerConfig
	Proxy        ProxyConfig
	Places       PlacesConfig
	OCR          OCRConfig
	TextGen      TextGenConfig
	Redis        RedisConfig
	Session      SessionConfig
	Upload       UploadConfig
	DoctorSearch DoctorSearchConfig
	OTEL         OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// ProxyConfig holds configuration for the nearby-doctors proxy process
// and for clients that call it.
type ProxyConfig struct {
	Host         string
	Port         int
	BaseURL      string
	RadiusMeters int
	Keyword      string
}

// PlacesConfig holds places search / geocoding configuration
type PlacesConfig struct {
	Provider      string
	APIKey        string
	PhotoURL      string
	PhotoMaxWidth int
}

// OCRConfig holds OCR provider configuration
type OCRConfig struct {
	Provider   string
	APIKey     string
	MaxResults int
}

// TextGenConfig holds text generation provider configuration
type TextGenConfig struct {
	Provider       string
	APIKey         string
	Model          string
	BaseURL        string
	MaxTokens      int
	Temperature    float64
	RateLimitRPM   int
	RateLimitBurst int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig holds report session configuration
type SessionConfig struct {
	TTLSeconds int
}

// UploadConfig holds report upload limits
type UploadConfig struct {
	MaxBytes int64
}

// DoctorSearchConfig holds doctor search configuration
type DoctorSearchConfig struct {
	Limit          int
	TimeoutSeconds int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env: getEnv("ENV", "production"),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Proxy: ProxyConfig{
			Host:         getEnv("PROXY_HOST", "0.0.0.0"),
			Port:         getEnvAsInt("PROXY_PORT", 5000),
			BaseURL:      strings.TrimRight(getEnv("DOCTOR_PROXY_URL", "http://localhost:5000"), "/"),
			RadiusMeters: getEnvAsInt("PLACES_SEARCH_RADIUS_METERS", 5000),
			Keyword:      getEnv("PLACES_SEARCH_KEYWORD", "doctor"),
		},
		Places: PlacesConfig{
			Provider:      getEnv("PLACES_PROVIDER", "google"),
			APIKey:        getEnv("PLACES_API_KEY", ""),
			PhotoURL:      getEnv("PLACES_PHOTO_URL", "http://localhost:5000/api/places/photo"),
			PhotoMaxWidth: getEnvAsInt("PLACES_PHOTO_MAX_WIDTH", 400),
		},
		OCR: OCRConfig{
			Provider:   getEnv("OCR_PROVIDER", "google"),
			APIKey:     getEnv("OCR_API_KEY", ""),
			MaxResults: getEnvAsInt("OCR_MAX_RESULTS", 10),
		},
		TextGen: TextGenConfig{
			Provider:       getEnv("TEXTGEN_PROVIDER", "cohere"),
			APIKey:         getEnv("TEXTGEN_API_KEY", ""),
			Model:          getEnv("TEXTGEN_MODEL", ""),
			BaseURL:        getEnv("TEXTGEN_BASE_URL", ""),
			MaxTokens:      getEnvAsInt("TEXTGEN_MAX_TOKENS", 300),
			Temperature:    getEnvAsFloat("TEXTGEN_TEMPERATURE", 0.7),
			RateLimitRPM:   getEnvAsInt("TEXTGEN_RATE_LIMIT_RPM", 0),
			RateLimitBurst: getEnvAsInt("TEXTGEN_RATE_LIMIT_BURST", 5),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			TTLSeconds: getEnvAsInt("SESSION_TTL_SECONDS", 3600),
		},
		Upload: UploadConfig{
			MaxBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10<<20)),
		},
		DoctorSearch: DoctorSearchConfig{
			Limit:          getEnvAsInt("DOCTOR_SEARCH_LIMIT", 5),
			TimeoutSeconds: getEnvAsInt("DOCTOR_SEARCH_TIMEOUT_SECONDS", 20),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "docify"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if cfg.DoctorSearch.Limit <= 0 || cfg.DoctorSearch.Limit > 5 {
		return nil, fmt.Errorf("DOCTOR_SEARCH_LIMIT must be between 1 and 5, got %d", cfg.DoctorSearch.Limit)
	}
	if cfg.Proxy.RadiusMeters <= 0 {
		return nil, fmt.Errorf("PLACES_SEARCH_RADIUS_METERS must be positive, got %d", cfg.Proxy.RadiusMeters)
	}

	return cfg, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Addr returns the listen address for the application server
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Addr returns the listen address for the proxy process
func (c *ProxyConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
