package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medicassist/medicassist/internal/api/handler"
	mw "github.com/medicassist/medicassist/internal/api/middleware"
	"github.com/medicassist/medicassist/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc
	Analyze       http.HandlerFunc
	TTS           http.HandlerFunc
	NearbyPlaces  http.HandlerFunc
	Patients      *handler.Patients
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// AI-backed endpoints are rate limited; the record store and facility
	// search are cheap enough to leave open.
	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}
		r.Post("/api/v1/analyze", orNotImplemented(deps.Analyze))
		r.Post("/api/v1/tts", orNotImplemented(deps.TTS))
	})

	r.Get("/api/v1/places/nearby", orNotImplemented(deps.NearbyPlaces))

	if deps.Patients != nil {
		r.Route("/api/v1/patients", func(r chi.Router) {
			r.Get("/", deps.Patients.List)
			r.Post("/", deps.Patients.Create)
			r.Get("/{id}", deps.Patients.Get)
			r.Put("/{id}", deps.Patients.Update)
			r.Delete("/{id}", deps.Patients.Delete)
			r.Post("/{id}/analyses", deps.Patients.AppendAnalysis)
		})
	}

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
