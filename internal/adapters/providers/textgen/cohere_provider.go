package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/internal/infrastructure/observability"
)

const (
	cohereGenerateURL   = "https://api.cohere.ai/generate"
	defaultCohereModel  = "command-xlarge-nightly"
	defaultHTTPTimeout  = 60 * time.Second
	defaultMaxTokens    = 300
	errorSnippetMaxSize = 512
)

// CohereProvider implements TextGenerator with the Cohere generate endpoint.
type CohereProvider struct {
	apiKey     string
	model      string
	httpClient *http.Client
	baseURL    string
}

// NewCohereProvider creates a Cohere text generator.
func NewCohereProvider(apiKey, model string) providers.TextGenerator {
	return NewCohereProviderWithOptions(apiKey, model, cohereGenerateURL, nil)
}

// NewCohereProviderWithOptions allows overriding the endpoint and HTTP client (used for tests).
func NewCohereProviderWithOptions(apiKey, model, baseURL string, httpClient *http.Client) providers.TextGenerator {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = cohereGenerateURL
	}
	if strings.TrimSpace(model) == "" {
		model = defaultCohereModel
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &CohereProvider{
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

type cohereGenerateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type cohereGenerateResponse struct {
	Text        string `json:"text"`
	Generations []struct {
		Text string `json:"text"`
	} `json:"generations"`
	Message string `json:"message,omitempty"`
}

// Generate sends the prompt and returns the generated text. Temperature is
// sent as given; zero is a valid setting. A response without
// text yields an empty string and no error. JSON and Schema hints are not
// supported by this endpoint and are carried by the prompt alone.
func (p *CohereProvider) Generate(ctx context.Context, req providers.GenerationRequest) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("cohere api key is required")
	}

	payload := cohereGenerateRequest{
		Model:       p.model,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if payload.MaxTokens <= 0 {
		payload.MaxTokens = defaultMaxTokens
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode cohere request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build cohere request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	text, err := p.do(httpReq)
	observability.RecordUpstreamCall(ctx, "cohere", "generate", time.Since(start), err)
	return text, err
}

func (p *CohereProvider) do(req *http.Request) (string, error) {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("cohere request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorSnippetMaxSize))
		return "", fmt.Errorf("cohere request returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded cohereGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode cohere response: %w", err)
	}

	if decoded.Text != "" {
		return decoded.Text, nil
	}
	if len(decoded.Generations) > 0 {
		return decoded.Generations[0].Text, nil
	}
	return "", nil
}
