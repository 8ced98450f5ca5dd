package entities

import (
	"time"

	"github.com/segmentio/ksuid"
)

// SessionEventType represents the type of session event
type SessionEventType string

const (
	SessionEventTypeSearchStarted   SessionEventType = "doctor_search.started"
	SessionEventTypeSearchCompleted SessionEventType = "doctor_search.completed"
	SessionEventTypeSearchFailed    SessionEventType = "doctor_search.failed"
)

// SessionEvent represents a real-time update for a report session
type SessionEvent struct {
	ID        string           `json:"id"`
	SessionID string           `json:"session_id"`
	EventType SessionEventType `json:"event_type"`
	Search    *DoctorSearch    `json:"doctor_search,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewSessionEvent creates a new session event. IDs sort by creation time.
func NewSessionEvent(sessionID string, eventType SessionEventType, search *DoctorSearch) *SessionEvent {
	var snapshot *DoctorSearch
	if search != nil {
		copied := *search
		copied.Doctors = append([]DoctorListing{}, search.Doctors...)
		snapshot = &copied
	}
	return &SessionEvent{
		ID:        ksuid.New().String(),
		SessionID: sessionID,
		EventType: eventType,
		Search:    snapshot,
		Timestamp: time.Now(),
	}
}
