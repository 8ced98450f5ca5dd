package routes

import (
	"net/http"

	"github.com/docify/docify/internal/api/handlers"
	"github.com/docify/docify/internal/api/middleware"
	"github.com/docify/docify/internal/infrastructure/observability"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	reportHandler      *handlers.ReportHandler
	sessionHandler     *handlers.SessionHandler
	medicineHandler    *handlers.MedicineHandler
	geolocationHandler *handlers.GeolocationHandler
	sseHandler         *handlers.SSEHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router for the application server

func NewRouter(
	reportHandler *handlers.ReportHandler,
	sessionHandler *handlers.SessionHandler,
	medicineHandler *handlers.MedicineHandler,
	geolocationHandler *handlers.GeolocationHandler,
	sseHandler *handlers.SSEHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		reportHandler:      reportHandler,
		sessionHandler:     sessionHandler,
		medicineHandler:    medicineHandler,
		geolocationHandler: geolocationHandler,
		sseHandler:         sseHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes

func (r *Router) SetupRoutes() http.Handler {

	// Health check endpoint

	r.mux.HandleFunc("GET /health", handlers.Health)

	// Report endpoints

	r.mux.HandleFunc("POST /api/reports/analyze", r.reportHandler.AnalyzeReport)

	// Session endpoints

	r.mux.HandleFunc("GET /api/sessions/{id}", r.sessionHandler.GetSession)
	r.mux.HandleFunc("GET /api/sessions/{id}/doctors", r.sessionHandler.GetDoctors)
	r.mux.HandleFunc("DELETE /api/sessions/{id}", r.sessionHandler.DeleteSession)

	// Real-time session updates

	if r.sseHandler != nil {
		r.mux.HandleFunc("GET /api/stream/sessions/{id}", r.sseHandler.StreamSessionUpdates)
	}

	// Medicine endpoints

	r.mux.HandleFunc("POST /api/medicines/describe", r.medicineHandler.DescribeMedicine)
	r.mux.HandleFunc("GET /api/medicines/presets", r.medicineHandler.ListPresets)

	// Geolocation endpoints

	if r.geolocationHandler != nil {
		r.mux.HandleFunc("GET /api/geocode", r.geolocationHandler.Geocode)
	}

	// Apply middleware in reverse order (last middleware wraps first)

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}

// NewProxyHandler returns the HTTP surface of the proxy process.
func NewProxyHandler(proxyHandler *handlers.ProxyHandler, metrics *observability.Metrics) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("GET /api/nearby-doctors", proxyHandler.NearbyDoctors)
	mux.HandleFunc("GET /api/places/photo", proxyHandler.PlacePhoto)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
