package geolocation

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/pkg/config"
)

// NewGeolocationProvider selects the configured places provider. cache may be nil.
func NewGeolocationProvider(cfg *config.PlacesConfig, cache providers.CacheProvider) (providers.GeolocationProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "google", "":
		if cfg.APIKey == "" {
			log.Warn().Msg("PLACES_API_KEY is not set; using mock geolocation provider")
			return NewMockGeolocationProvider(), nil
		}
		return NewGoogleGeolocationProvider(cfg.APIKey, cache), nil
	case "mock":
		return NewMockGeolocationProvider(), nil
	default:
		return nil, fmt.Errorf("unknown places provider %q", cfg.Provider)
	}
}
