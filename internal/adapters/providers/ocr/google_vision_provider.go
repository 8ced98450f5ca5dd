package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/internal/infrastructure/observability"
)

const (
	googleVisionURL      = "https://vision.googleapis.com/v1/images:annotate"
	defaultHTTPTimeout   = 30 * time.Second
	defaultMaxResults    = 10
	textDetectionFeature = "TEXT_DETECTION"
)

// GoogleVisionProvider implements OCRProvider with the Cloud Vision annotate API.
type GoogleVisionProvider struct {
	apiKey     string
	maxResults int
	httpClient *http.Client
	baseURL    string
}

// NewGoogleVisionProvider creates a Vision OCR provider.
func NewGoogleVisionProvider(apiKey string, maxResults int) providers.OCRProvider {
	return NewGoogleVisionProviderWithOptions(apiKey, maxResults, googleVisionURL, nil)
}

// NewGoogleVisionProviderWithOptions allows overriding the endpoint and HTTP client (used for tests).
func NewGoogleVisionProviderWithOptions(apiKey string, maxResults int, baseURL string, httpClient *http.Client) providers.OCRProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = googleVisionURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &GoogleVisionProvider{
		apiKey:     apiKey,
		maxResults: maxResults,
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// ExtractText runs text detection and returns the first (full text) annotation.
func (p *GoogleVisionProvider) ExtractText(ctx context.Context, image []byte) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("vision api key is required")
	}

	payload := visionRequest{
		Requests: []visionImageRequest{{
			Image:    visionImage{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []visionFeature{{Type: textDetectionFeature, MaxResults: p.maxResults}},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode vision request: %w", err)
	}

	reqURL := p.baseURL + "?" + url.Values{"key": []string{p.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build vision request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	text, err := p.do(req)
	observability.RecordUpstreamCall(ctx, "vision", "annotate", time.Since(start), err)
	return text, err
}

func (p *GoogleVisionProvider) do(req *http.Request) (string, error) {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("vision request returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded visionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode vision response: %w", err)
	}

	if len(decoded.Responses) == 0 {
		return "", nil
	}
	first := decoded.Responses[0]
	if first.Error != nil && first.Error.Message != "" {
		return "", fmt.Errorf("vision annotate error %d: %s", first.Error.Code, first.Error.Message)
	}
	if len(first.TextAnnotations) == 0 {
		return "", nil
	}
	return first.TextAnnotations[0].Description, nil
}

type visionRequest struct {
	Requests []visionImageRequest `json:"requests"`
}

type visionImageRequest struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type visionResponse struct {
	Responses []visionAnnotateResponse `json:"responses"`
}

type visionAnnotateResponse struct {
	TextAnnotations []visionTextAnnotation `json:"textAnnotations"`
	Error           *visionStatus          `json:"error,omitempty"`
}

type visionTextAnnotation struct {
	Description string `json:"description"`
}

type visionStatus struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
