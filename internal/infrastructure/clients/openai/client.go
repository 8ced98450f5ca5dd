package openai

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
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	upstreamService = "openai"
	defaultModel    = "gpt-4o-mini"
	defaultTimeout  = 60 * time.Second
)

// Client implements TextGenerator with the OpenAI chat completions API.
type Client struct {
	client  *openai.Client
	model   string
	limiter *tokenBucket
}

// NewClient creates a new OpenAI client.
func NewClient(cfg *config.TextGenConfig) (*Client, error) {
	return NewClientWithHTTPClient(cfg, nil)
}

// NewClientWithHTTPClient allows overriding the HTTP client (used for tests).
func NewClientWithHTTPClient(cfg *config.TextGenConfig, httpClient *http.Client) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &Client{
		client:  &client,
		model:   model,
		limiter: newTokenBucket(cfg.RateLimitRPM, cfg.RateLimitBurst),
	}, nil
}

// Generate returns the first completion choice. JSON requests ask for a JSON
// object, constrained to the request schema when one is given.
func (c *Client) Generate(ctx context.Context, req providers.GenerationRequest) (string, error) {
	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
		observability.RecordRateLimitWait(ctx, upstreamService, time.Since(waitStart))
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(req.Prompt)},
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	params.Temperature = openai.Float(req.Temperature)
	if req.JSON {
		params.ResponseFormat = responseFormat(req)
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)
	observability.RecordUpstreamCall(ctx, upstreamService, "chat_completion", duration, err)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			observability.LoggerFromContext(ctx).Warn().
				Int("status_code", apiErr.StatusCode).
				Str("model", c.model).
				Msg("OpenAI request rejected")
		}
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func responseFormat(req providers.GenerationRequest) openai.ChatCompletionNewParamsResponseFormatUnion {
	if req.Schema == nil {
		return openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	name := req.SchemaName
	if name == "" {
		name = "response"
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:   name,
				Schema: req.Schema,
				Strict: openai.Bool(true),
			},
		},
	}
}
