package handlers

import (
	"context"
	"net/http"

	"github.com/docify/docify/internal/domain/entities"
)

// SessionStore exposes report session state.
type SessionStore interface {
	Session(ctx context.Context, sessionID string) (*entities.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// SessionHandler handles report session endpoints.
type SessionHandler struct {
	sessions SessionStore
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessions SessionStore) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// DoctorsResponse is the doctor list view of a session.
type DoctorsResponse struct {
	Status  string                   `json:"status"`
	Doctors []entities.DoctorListing `json:"doctors"`
	Message string                   `json:"message,omitempty"`
}

const doctorSearchNotStarted = "not_started"

// GetSession handles GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.load(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// GetDoctors handles GET /api/sessions/{id}/doctors
func (h *SessionHandler) GetDoctors(w http.ResponseWriter, r *http.Request) {
	session, ok := h.load(w, r)
	if !ok {
		return
	}

	if session.Search == nil {
		respondWithJSON(w, http.StatusOK, DoctorsResponse{
			Status:  doctorSearchNotStarted,
			Doctors: []entities.DoctorListing{},
			Message: "No doctor search has been started for this session.",
		})
		return
	}

	doctors := session.Search.Doctors
	if doctors == nil {
		doctors = []entities.DoctorListing{}
	}
	respondWithJSON(w, http.StatusOK, DoctorsResponse{
		Status:  string(session.Search.Status),
		Doctors: doctors,
		Message: doctorSearchMessage(session.Search.Status),
	})
}

// DeleteSession handles DELETE /api/sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	if err := h.sessions.DeleteSession(r.Context(), sessionID); err != nil {
		respondWithAppError(w, r, err, "failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) load(w http.ResponseWriter, r *http.Request) (*entities.Session, bool) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return nil, false
	}

	session, err := h.sessions.Session(r.Context(), sessionID)
	if err != nil {
		respondWithAppError(w, r, err, "failed to load session")
		return nil, false
	}
	return session, true
}

func doctorSearchMessage(status entities.DoctorSearchStatus) string {
	switch status {
	case entities.DoctorSearchStatusPending:
		return "Searching for nearby doctors."
	case entities.DoctorSearchStatusNoResults:
		return "No doctors found nearby."
	case entities.DoctorSearchStatusLocationUnavailable:
		return "Location unavailable. Doctor search was not attempted."
	case entities.DoctorSearchStatusFailed:
		return "Error fetching doctors."
	default:
		return ""
	}
}
