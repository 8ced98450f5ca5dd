package handlers

import (
	"net/http"
	"strings"

	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/internal/infrastructure/observability"
)

// GeolocationHandler handles geolocation endpoints.
type GeolocationHandler struct {
	provider providers.GeolocationProvider
}

// NewGeolocationHandler creates a new geolocation handler.
func NewGeolocationHandler(provider providers.GeolocationProvider) *GeolocationHandler {
	return &GeolocationHandler{provider: provider}
}

// Geocode handles GET /api/geocode?address=...
func (h *GeolocationHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		respondWithError(w, http.StatusBadRequest, "address parameter is required")
		return
	}

	geocoded, err := h.provider.Geocode(r.Context(), address)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("Geocode failed")
		respondWithError(w, http.StatusBadGateway, "failed to geocode address")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"address":           address,
		"formatted_address": geocoded.FormattedAddress,
		"city":              geocoded.City,
		"state":             geocoded.State,
		"country":           geocoded.Country,
		"latitude":          geocoded.Coordinates.Latitude,
		"longitude":         geocoded.Coordinates.Longitude,
	})
}
