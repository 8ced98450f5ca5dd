package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/docify/docify/internal/domain/entities"
	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/internal/infrastructure/observability"
)

const defaultHeartbeatInterval = 30 * time.Second

// SSEHandler handles Server-Sent Events for report session updates
type SSEHandler struct {
	eventBus  providers.EventBus
	heartbeat time.Duration
	metrics   *observability.Metrics
	connected atomic.Int64
}

// NewSSEHandler creates a new SSE handler. metrics may be nil.
func NewSSEHandler(eventBus providers.EventBus, metrics *observability.Metrics) *SSEHandler {
	return NewSSEHandlerWithHeartbeat(eventBus, metrics, defaultHeartbeatInterval)
}

// NewSSEHandlerWithHeartbeat allows overriding the heartbeat interval (used for tests).
func NewSSEHandlerWithHeartbeat(eventBus providers.EventBus, metrics *observability.Metrics, heartbeat time.Duration) *SSEHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeatInterval
	}
	return &SSEHandler{
		eventBus:  eventBus,
		heartbeat: heartbeat,
		metrics:   metrics,
	}
}

// StreamSessionUpdates handles SSE connections for one report session
// GET /api/stream/sessions/{id}
func (h *SSEHandler) StreamSessionUpdates(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	channel := providers.GetSessionChannel(sessionID)
	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("Failed to subscribe to session channel")
		respondWithError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := make(chan *entities.SessionEvent, 10)
	h.clientConnected(r.Context(), sessionID)
	defer h.clientDisconnected(context.WithoutCancel(r.Context()))

	h.sendEvent(w, "", "connected", map[string]interface{}{
		"session_id": sessionID,
		"timestamp":  time.Now(),
	})
	flusher.Flush()

	go h.forwardEvents(r.Context(), eventChan, clientChan)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("session_id", sessionID).Msg("Client disconnected from session stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "", "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event := <-clientChan:
			if event == nil {
				continue
			}
			h.sendEvent(w, event.ID, string(event.EventType), event)
			flusher.Flush()
		}
	}
}

// forwardEvents forwards events from the event bus to a client channel
func (h *SSEHandler) forwardEvents(ctx context.Context, eventChan <-chan *entities.SessionEvent, clientChan chan<- *entities.SessionEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			select {
			case clientChan <- event:
			default:
				log.Warn().Str("event_id", event.ID).Msg("SSE client channel full, skipping event")
			}
		}
	}
}

func (h *SSEHandler) clientConnected(ctx context.Context, sessionID string) {
	count := h.connected.Add(1)
	observability.RecordStreamClients(ctx, h.metrics, 1)
	log.Debug().Str("session_id", sessionID).Int64("clients", count).Msg("SSE client connected")
}

func (h *SSEHandler) clientDisconnected(ctx context.Context) {
	h.connected.Add(-1)
	observability.RecordStreamClients(ctx, h.metrics, -1)
}

// sendEvent writes one SSE frame. id is omitted when empty.
func (h *SSEHandler) sendEvent(w http.ResponseWriter, id, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("Failed to marshal event data")
		return
	}

	if id != "" {
		fmt.Fprintf(w, "id: %s\n", id)
	}
	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}

// ConnectedClients returns the number of open session streams
func (h *SSEHandler) ConnectedClients() int {
	return int(h.connected.Load())
}
