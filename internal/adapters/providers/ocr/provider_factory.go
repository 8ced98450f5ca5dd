package ocr

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/pkg/config"
)

// NewOCRProvider selects the configured OCR provider, falling back to the
// mock provider when the Vision key is missing.
func NewOCRProvider(cfg *config.OCRConfig) (providers.OCRProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "google", "":
		if cfg.APIKey == "" {
			log.Warn().Msg("OCR_API_KEY is not set; using mock OCR provider")
			return NewMockOCRProvider(), nil
		}
		return NewGoogleVisionProvider(cfg.APIKey, cfg.MaxResults), nil
	case "mock":
		return NewMockOCRProvider(), nil
	default:
		return nil, fmt.Errorf("unknown OCR provider %q", cfg.Provider)
	}
}
