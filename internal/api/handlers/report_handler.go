package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/docify/docify/internal/adapters/providers/location"
	"github.com/docify/docify/internal/domain/entities"
	"github.com/docify/docify/internal/domain/providers"
)

const (
	sessionIDHeader     = "X-Session-ID"
	multipartOverhead   = 1 << 20
	defaultMaxUploadLen = 10 << 20
)

// ReportAnalyzer runs the report pipeline for a session.
type ReportAnalyzer interface {
	AnalyzeReport(ctx context.Context, sessionID string, image []byte, location providers.LocationSource) (*entities.ReportAnalysis, error)
}

// ReportHandler handles report uploads.
type ReportHandler struct {
	reports        ReportAnalyzer
	geocoder       providers.GeolocationProvider
	maxUploadBytes int64
}

// NewReportHandler creates a new report handler. geocoder may be nil, in
// which case typed addresses are ignored.
func NewReportHandler(reports ReportAnalyzer, geocoder providers.GeolocationProvider, maxUploadBytes int64) *ReportHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadLen
	}
	return &ReportHandler{
		reports:        reports,
		geocoder:       geocoder,
		maxUploadBytes: maxUploadBytes,
	}
}

// AnalyzeReport handles POST /api/reports/analyze
func (h *ReportHandler) AnalyzeReport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "report image is too large")
			return
		}
		respondWithError(w, http.StatusBadRequest, "multipart form with an image is required")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "report image is required")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to read report image")
		return
	}

	sessionID := strings.TrimSpace(r.FormValue("session_id"))
	if sessionID == "" {
		sessionID = strings.TrimSpace(r.Header.Get(sessionIDHeader))
	}

	source, err := h.locationSource(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := h.reports.AnalyzeReport(r.Context(), sessionID, image, source)
	if err != nil {
		respondWithAppError(w, r, err, "error occurred during report analysis")
		return
	}

	w.Header().Set(sessionIDHeader, analysis.SessionID)
	respondWithJSON(w, http.StatusOK, analysis)
}

// locationSource picks device coordinates first, then a typed address.
func (h *ReportHandler) locationSource(r *http.Request) (providers.LocationSource, error) {
	latStr := strings.TrimSpace(r.FormValue("latitude"))
	lonStr := strings.TrimSpace(r.FormValue("longitude"))
	if latStr != "" || lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, errors.New("invalid latitude parameter")
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return nil, errors.New("invalid longitude parameter")
		}
		return location.NewFixedSource(providers.Coordinates{Latitude: lat, Longitude: lon}), nil
	}

	if address := strings.TrimSpace(r.FormValue("address")); address != "" && h.geocoder != nil {
		return location.NewAddressSource(address, h.geocoder), nil
	}

	return location.NewUnavailableSource(), nil
}
