package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/docify/docify/internal/infrastructure/observability"
	apperrors "github.com/docify/docify/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an application error to a status code and a
// bounded message. The raw error is logged and never returned.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error, upstreamMessage string) {
	var (
		status  int
		message string
	)

	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation:
		status = http.StatusBadRequest
		message = appErrorMessage(err, "invalid request")
	case apperrors.ErrorTypeNotFound:
		status = http.StatusNotFound
		message = appErrorMessage(err, "not found")
	case apperrors.ErrorTypeExternal:
		status = http.StatusBadGateway
		message = upstreamMessage
	case apperrors.ErrorTypeParse:
		status = http.StatusUnprocessableEntity
		message = upstreamMessage
	case apperrors.ErrorTypeUnavailable:
		status = http.StatusFailedDependency
		message = "location unavailable"
	default:
		status = http.StatusInternalServerError
		message = "internal server error"
	}

	logger := observability.LoggerFromContext(r.Context())
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("Request failed")

	respondWithError(w, status, message)
}

func appErrorMessage(err error, fallback string) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
