package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/internal/infrastructure/clients/gemini"
	"github.com/docify/docify/internal/infrastructure/clients/openai"
	"github.com/docify/docify/pkg/config"
)

// Supported TEXTGEN_PROVIDER values.
const (
	ProviderCohere = "cohere"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

// NewTextGenerator selects the configured generator. A selected provider
// without an API key falls back to the mock generator for local runs.
func NewTextGenerator(ctx context.Context, cfg *config.TextGenConfig) (providers.TextGenerator, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider != ProviderMock && cfg.APIKey == "" {
		log.Warn().Str("provider", provider).Msg("TEXTGEN_API_KEY is not set; using mock text generator")
		return NewMockTextGenerator(), nil
	}

	switch provider {
	case ProviderCohere, "":
		return NewCohereProviderWithOptions(cfg.APIKey, cfg.Model, cfg.BaseURL, nil), nil
	case ProviderOpenAI:
		client, err := openai.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderGemini:
		client, err := gemini.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderMock:
		return NewMockTextGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown text generation provider %q", cfg.Provider)
	}
}
