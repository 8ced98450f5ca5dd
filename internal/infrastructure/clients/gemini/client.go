package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/internal/infrastructure/observability"
	"github.com/docify/docify/pkg/config"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// Client implements TextGenerator with the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client.
func NewClient(ctx context.Context, cfg *config.TextGenConfig) (*Client, error) {
	return NewClientWithHTTPClient(ctx, cfg, nil)
}

// NewClientWithHTTPClient allows overriding the HTTP client and endpoint (used for tests).
func NewClientWithHTTPClient(ctx context.Context, cfg *config.TextGenConfig, httpClient *http.Client) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{client: client, model: model}, nil
}

// Generate returns the concatenated text of the first candidate.
func (c *Client) Generate(ctx context.Context, req providers.GenerationRequest) (string, error) {
	temperature := float32(req.Temperature)
	config := &genai.GenerateContentConfig{Temperature: &temperature}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
		if req.Schema != nil {
			config.ResponseJsonSchema = req.Schema
		}
	}

	start := time.Now()
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), config)
	observability.RecordUpstreamCall(ctx, "gemini", "generate_content", time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return strings.TrimSpace(result.Text()), nil
}
