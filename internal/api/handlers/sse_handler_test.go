package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docify/docify/internal/adapters/events"
	"github.com/docify/docify/internal/api/handlers"
	"github.com/docify/docify/internal/domain/entities"
	"github.com/docify/docify/internal/domain/providers"
)

func runStream(t *testing.T, handler *handlers.SSEHandler, sessionID string, during func()) *httptest.ResponseRecorder {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest("GET", "/api/stream/sessions/"+sessionID, nil)
	req.SetPathValue("id", sessionID)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.StreamSessionUpdates(w, req)
		close(done)
	}()

	// Wait for the subscription to be registered
	require.Eventually(t, func() bool { return handler.ConnectedClients() == 1 }, 2*time.Second, 10*time.Millisecond)
	during()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not exit after cancel")
	}
	return w
}

func TestSSEHandler_StreamsSessionEvents(t *testing.T) {
	bus := events.NewMemoryEventBus()
	defer bus.Close()
	handler := handlers.NewSSEHandler(bus, nil)

	search := &entities.DoctorSearch{ID: "search-1", Specialty: entities.SpecialtyCardiology, Status: entities.DoctorSearchStatusFound}
	event := entities.NewSessionEvent("sess-1", entities.SessionEventTypeSearchCompleted, search)

	w := runStream(t, handler, "sess-1", func() {
		require.NoError(t, bus.Publish(context.Background(), providers.GetSessionChannel("sess-1"), event))
		require.NoError(t, bus.Publish(context.Background(), providers.GetSessionChannel("other"), event))
		time.Sleep(200 * time.Millisecond)
	})

	result := w.Result()
	assert.Equal(t, "text/event-stream", result.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", result.Header.Get("Cache-Control"))

	body := w.Body.String()
	assert.Contains(t, body, "event: connected\n")
	assert.Contains(t, body, "id: "+event.ID+"\n")
	assert.Contains(t, body, "event: doctor_search.completed\n")
	assert.Equal(t, 1, strings.Count(body, "event: doctor_search.completed"))
	assert.Equal(t, 0, handler.ConnectedClients())
}

func TestSSEHandler_Heartbeat(t *testing.T) {
	bus := events.NewMemoryEventBus()
	defer bus.Close()
	handler := handlers.NewSSEHandlerWithHeartbeat(bus, nil, 20*time.Millisecond)

	w := runStream(t, handler, "sess-2", func() {
		time.Sleep(100 * time.Millisecond)
	})

	assert.Contains(t, w.Body.String(), "event: heartbeat\n")
}

func TestSSEHandler_MissingSessionID(t *testing.T) {
	handler := handlers.NewSSEHandler(events.NewMemoryEventBus(), nil)

	req := httptest.NewRequest("GET", "/api/stream/sessions/", nil)
	w := httptest.NewRecorder()
	handler.StreamSessionUpdates(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
