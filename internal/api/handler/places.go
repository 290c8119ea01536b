package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/medicassist/medicassist/internal/api/response"
	"github.com/medicassist/medicassist/internal/places"
	"github.com/medicassist/medicassist/pkg/models"
)

// FacilityFinder defines the interface the handler depends on.
type FacilityFinder interface {
	FindNearby(ctx context.Context, lat, lng float64) ([]models.Place, error)
}

// NewNearbyPlacesHandler returns an http.HandlerFunc for GET /api/v1/places/nearby.
func NewNearbyPlacesHandler(finder FacilityFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lat, err := parseCoord(r.URL.Query().Get("lat"), 90)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"lat must be a number between -90 and 90", nil)
			return
		}
		lng, err := parseCoord(r.URL.Query().Get("lng"), 180)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"lng must be a number between -180 and 180", nil)
			return
		}

		found, err := finder.FindNearby(r.Context(), lat, lng)
		if err != nil {
			switch {
			case errors.Is(err, places.ErrPlacesTimeout):
				response.Error(w, http.StatusGatewayTimeout, "PLACES_TIMEOUT",
					"Facility search took too long and was cancelled", nil)
			case errors.Is(err, places.ErrPlacesUnreachable), errors.Is(err, places.ErrPlacesQueryError):
				response.Error(w, http.StatusBadGateway, "PLACES_UNAVAILABLE",
					"Failed to fetch nearby places. Please try again later.", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred", nil)
			}
			return
		}

		response.JSON(w, map[string][]models.Place{"places": found})
	}
}

func parseCoord(raw string, bound float64) (float64, error) {
	if raw == "" {
		return 0, errors.New("missing coordinate")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if v < -bound || v > bound {
		return 0, errors.New("coordinate out of range")
	}
	return v, nil
}
