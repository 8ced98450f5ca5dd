package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/internal/infrastructure/clients/gemini"
	"github.com/docify/docify/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeminiServer(t *testing.T, text string, inspect func(map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent"), r.URL.Path)

		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		if inspect != nil {
			inspect(payload)
		}

		encoded, _ := json.Marshal(text)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":` + string(encoded) + `}]},"finishReason":"STOP"}]}`))
	}))
}

func TestGenerate_JSONRequestSetsMimeType(t *testing.T) {
	server := newGeminiServer(t, `{"Uses":"fever"}`, func(payload map[string]any) {
		generationConfig, ok := payload["generationConfig"].(map[string]any)
		if assert.True(t, ok) {
			assert.Equal(t, "application/json", generationConfig["responseMimeType"])
			assert.Equal(t, float64(300), generationConfig["maxOutputTokens"])
		}
	})
	defer server.Close()

	client, err := gemini.NewClientWithHTTPClient(context.Background(), &config.TextGenConfig{APIKey: "g-key", BaseURL: server.URL}, server.Client())
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), providers.GenerationRequest{Prompt: "Crocin", MaxTokens: 300, JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"Uses":"fever"}`, text)
}

func TestGenerate_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied","status":"PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	client, err := gemini.NewClientWithHTTPClient(context.Background(), &config.TextGenConfig{APIKey: "g-key", BaseURL: server.URL}, server.Client())
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), providers.GenerationRequest{Prompt: "summary"})
	assert.Error(t, err)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := gemini.NewClient(context.Background(), &config.TextGenConfig{})
	assert.Error(t, err)
}

func TestGenerate_ZeroTemperatureIsSent(t *testing.T) {
	server := newGeminiServer(t, "ok", func(payload map[string]any) {
		generationConfig, ok := payload["generationConfig"].(map[string]any)
		if assert.True(t, ok) {
			temperature, present := generationConfig["temperature"]
			assert.True(t, present)
			assert.Equal(t, float64(0), temperature)
		}
	})
	defer server.Close()

	client, err := gemini.NewClientWithHTTPClient(context.Background(), &config.TextGenConfig{APIKey: "g-key", BaseURL: server.URL}, server.Client())
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), providers.GenerationRequest{Prompt: "summary", Temperature: 0})
	require.NoError(t, err)
}
