package models

// PlaceCategory is the kind of medical facility to search for.
type PlaceCategory string

const (
	CategoryHospital PlaceCategory = "hospital"
	CategoryPharmacy PlaceCategory = "pharmacy"
)

// Place is one nearby medical facility returned by the search provider.
// Ephemeral: fetched fresh per query, never persisted. PlaceID is unique per
// provider.
type Place struct {
	PlaceID          string        `json:"placeId"`
	Name             string        `json:"name"`
	Category         PlaceCategory `json:"category"`
	Lat              float64       `json:"lat"`
	Lng              float64       `json:"lng"`
	Rating           *float64      `json:"rating,omitempty"` // in [0, 5]
	UserRatingsTotal *int          `json:"userRatingsTotal,omitempty"`
	Vicinity         string        `json:"vicinity,omitempty"`
	OpenNow          *bool         `json:"openNow,omitempty"`
}
