package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/docify/docify/internal/domain/entities"
	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/pkg/config"
)

func newTestServer(t *testing.T, content string, inspect func(map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if inspect != nil {
			inspect(payload)
		}
		w.Header().Set("Content-Type", "application/json")
		body, _ := json.Marshal(content)
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1700000000,"model":"gpt-4o-mini","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":` + string(body) + `}}]}`))
	}))
}

func TestGenerate_PlainPrompt(t *testing.T) {
	server := newTestServer(t, "  A plain summary. ", func(payload map[string]any) {
		if payload["model"] != "gpt-4o-mini" {
			t.Errorf("unexpected model %v", payload["model"])
		}
		if payload["max_completion_tokens"] != float64(300) {
			t.Errorf("unexpected max tokens %v", payload["max_completion_tokens"])
		}
		if _, ok := payload["response_format"]; ok {
			t.Error("plain prompts must not request a response format")
		}
	})
	defer server.Close()

	client, err := NewClientWithHTTPClient(&config.TextGenConfig{APIKey: "sk-test", BaseURL: server.URL + "/v1/"}, server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := client.Generate(context.Background(), providers.GenerationRequest{Prompt: "summarise", MaxTokens: 300, Temperature: 0.7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "A plain summary." {
		t.Errorf("unexpected text %q", text)
	}
}

func TestGenerate_JSONSchemaRequest(t *testing.T) {
	server := newTestServer(t, `{"Uses":"pain"}`, func(payload map[string]any) {
		format, ok := payload["response_format"].(map[string]any)
		if !ok {
			t.Errorf("expected response_format, got %v", payload["response_format"])
			return
		}
		if format["type"] != "json_schema" {
			t.Errorf("unexpected format type %v", format["type"])
		}
		schema, _ := format["json_schema"].(map[string]any)
		if schema["name"] != entities.MedicineRecordSchemaName {
			t.Errorf("unexpected schema name %v", schema["name"])
		}
	})
	defer server.Close()

	client, err := NewClientWithHTTPClient(&config.TextGenConfig{APIKey: "sk-test", BaseURL: server.URL + "/v1/"}, server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := client.Generate(context.Background(), providers.GenerationRequest{
		Prompt:     "Aspirin",
		JSON:       true,
		Schema:     entities.MedicineRecordSchema,
		SchemaName: entities.MedicineRecordSchemaName,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != `{"Uses":"pain"}` {
		t.Errorf("unexpected text %q", text)
	}
}

func TestGenerate_UpstreamErrorIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	client, err := NewClientWithHTTPClient(&config.TextGenConfig{APIKey: "sk-test", BaseURL: server.URL + "/v1/"}, server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := client.Generate(context.Background(), providers.GenerationRequest{Prompt: "p"}); err == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected exactly one upstream call, got %d", got)
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient(&config.TextGenConfig{}); err == nil {
		t.Fatal("expected error for missing key")
	}
	if _, err := NewClient(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestTokenBucket_DisabledWithoutRate(t *testing.T) {
	if newTokenBucket(0, 5) != nil {
		t.Fatal("expected nil limiter when rpm is zero")
	}
}

func TestTokenBucket_WaitHonoursContext(t *testing.T) {
	bucket := newTokenBucket(1, 1)
	if err := bucket.Wait(context.Background()); err != nil {
		t.Fatalf("first token should be available: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := bucket.Wait(ctx); err == nil {
		t.Fatal("expected context deadline error")
	}
}

func TestGenerate_ZeroTemperatureIsSent(t *testing.T) {
	server := newTestServer(t, "ok", func(payload map[string]any) {
		temperature, ok := payload["temperature"]
		if !ok {
			t.Error("expected temperature in request")
			return
		}
		if temperature != float64(0) {
			t.Errorf("unexpected temperature %v", temperature)
		}
	})
	defer server.Close()

	client, err := NewClientWithHTTPClient(&config.TextGenConfig{APIKey: "sk-test", BaseURL: server.URL + "/v1/"}, server.Client())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := client.Generate(context.Background(), providers.GenerationRequest{Prompt: "summarise", Temperature: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTokenBucket_RefillsFromElapsedTime(t *testing.T) {
	now := time.Unix(1700000000, 0)
	bucket := newTokenBucketWithClock(60, 2, func() time.Time { return now })

	for i := 0; i < 2; i++ {
		if delay := bucket.reserve(); delay != 0 {
			t.Fatalf("burst token %d should be immediate, got delay %v", i, delay)
		}
	}
	if delay := bucket.reserve(); delay != time.Second {
		t.Fatalf("expected one second until the next token, got %v", delay)
	}

	now = now.Add(time.Second)
	if delay := bucket.reserve(); delay != 0 {
		t.Fatalf("token should refill after one second, got delay %v", delay)
	}

	now = now.Add(time.Hour)
	for i := 0; i < 2; i++ {
		if delay := bucket.reserve(); delay != 0 {
			t.Fatalf("refill should cap at burst, token %d delayed %v", i, delay)
		}
	}
	if delay := bucket.reserve(); delay == 0 {
		t.Fatal("refill must not exceed burst capacity")
	}
}
