package textgen_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docify/docify/internal/adapters/providers/textgen"
	"github.com/docify/docify/internal/domain/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCohereProvider_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer cohere-key", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "command-xlarge-nightly", payload["model"])
		assert.Equal(t, "summarise this", payload["prompt"])
		assert.Equal(t, float64(300), payload["max_tokens"])
		assert.Equal(t, 0.7, payload["temperature"])

		_, _ = w.Write([]byte(`{"text":"A short summary."}`))
	}))
	defer server.Close()

	generator := textgen.NewCohereProviderWithOptions("cohere-key", "", server.URL, server.Client())

	text, err := generator.Generate(context.Background(), providers.GenerationRequest{
		Prompt:      "summarise this",
		MaxTokens:   300,
		Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", text)
}

func TestCohereProvider_GenerationsShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"generations":[{"text":"from generations"}]}`))
	}))
	defer server.Close()

	generator := textgen.NewCohereProviderWithOptions("k", "", server.URL, server.Client())

	text, err := generator.Generate(context.Background(), providers.GenerationRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "from generations", text)
}

func TestCohereProvider_MissingTextIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))
	defer server.Close()

	generator := textgen.NewCohereProviderWithOptions("k", "", server.URL, server.Client())

	text, err := generator.Generate(context.Background(), providers.GenerationRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestCohereProvider_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	generator := textgen.NewCohereProviderWithOptions("k", "", server.URL, server.Client())

	_, err := generator.Generate(context.Background(), providers.GenerationRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestCohereProvider_RequiresKey(t *testing.T) {
	generator := textgen.NewCohereProviderWithOptions("", "", "http://127.0.0.1:1", nil)

	_, err := generator.Generate(context.Background(), providers.GenerationRequest{Prompt: "p"})
	assert.Error(t, err)
}

func TestMockTextGenerator_JSONRequests(t *testing.T) {
	generator := textgen.NewMockTextGenerator()

	text, err := generator.Generate(context.Background(), providers.GenerationRequest{Prompt: "Aspirin\n\nGenerate", JSON: true})
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(text)))
	assert.Contains(t, text, "Aspirin")
}

func TestCohereProvider_ZeroTemperatureIsSent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, float64(0), payload["temperature"])

		_, _ = w.Write([]byte(`{"text":"deterministic"}`))
	}))
	defer server.Close()

	generator := textgen.NewCohereProviderWithOptions("k", "", server.URL, server.Client())

	text, err := generator.Generate(context.Background(), providers.GenerationRequest{Prompt: "p", MaxTokens: 300, Temperature: 0})
	require.NoError(t, err)
	assert.Equal(t, "deterministic", text)
}
