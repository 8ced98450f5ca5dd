package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/internal/infrastructure/observability"
)

const (
	defaultProxyRadiusMeters = 5000
	defaultProxyKeyword      = "doctor"
	defaultPhotoWidth        = 400
	maxPhotoWidth            = 1600
	errFetchingDoctors       = "Error fetching doctors"
)

// ProxyHandler holds the places credential on the server and forwards
// nearby search and photo requests for browser clients.
type ProxyHandler struct {
	places       providers.GeolocationProvider
	radiusMeters int
	keyword      string
}

// NewProxyHandler creates a new proxy handler.
func NewProxyHandler(places providers.GeolocationProvider, radiusMeters int, keyword string) *ProxyHandler {
	if radiusMeters <= 0 {
		radiusMeters = defaultProxyRadiusMeters
	}
	if strings.TrimSpace(keyword) == "" {
		keyword = defaultProxyKeyword
	}
	return &ProxyHandler{
		places:       places,
		radiusMeters: radiusMeters,
		keyword:      keyword,
	}
}

// NearbyDoctors handles GET /api/nearby-doctors?latitude=..&longitude=..
// The upstream body is returned verbatim. specialty is accepted but the
// upstream search always uses the configured keyword.
func (h *ProxyHandler) NearbyDoctors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(strings.TrimSpace(query.Get("latitude")), 64)
	if err != nil {
		http.Error(w, "latitude query parameter is required", http.StatusBadRequest)
		return
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(query.Get("longitude")), 64)
	if err != nil {
		http.Error(w, "longitude query parameter is required", http.StatusBadRequest)
		return
	}
	center := providers.Coordinates{Latitude: lat, Longitude: lon}
	if !center.Valid() {
		http.Error(w, "latitude or longitude out of range", http.StatusBadRequest)
		return
	}

	logger := observability.LoggerFromContext(r.Context())
	start := time.Now()

	body, err := h.places.NearbySearch(r.Context(), providers.NearbySearchRequest{
		Center:       center,
		RadiusMeters: h.radiusMeters,
		Keyword:      h.keyword,
	})
	if err != nil {
		logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("Nearby doctors upstream request failed")
		http.Error(w, errFetchingDoctors, http.StatusInternalServerError)
		return
	}

	logger.Debug().
		Str("specialty", query.Get("specialty")).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("Nearby doctors proxied")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// PlacePhoto handles GET /api/places/photo?photoreference=..&maxwidth=..
func (h *ProxyHandler) PlacePhoto(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	reference := strings.TrimSpace(query.Get("photoreference"))
	if reference == "" {
		http.Error(w, "photoreference query parameter is required", http.StatusBadRequest)
		return
	}

	maxWidth := defaultPhotoWidth
	if raw := strings.TrimSpace(query.Get("maxwidth")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxPhotoWidth {
			http.Error(w, "invalid maxwidth query parameter", http.StatusBadRequest)
			return
		}
		maxWidth = parsed
	}

	photo, err := h.places.PlacePhoto(r.Context(), reference, maxWidth)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("Place photo upstream request failed")
		http.Error(w, "Error fetching photo", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", photo.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(photo.Data)
}
