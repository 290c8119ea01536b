// Package places implements the nearby-facility search gateway over the
// Google Places HTTP API.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/medicassist/medicassist/pkg/models"
)

// Sentinel errors for places gateway failures.
var (
	ErrPlacesUnreachable = errors.New("places provider unreachable")
	ErrPlacesQueryError  = errors.New("places provider query error")
	ErrPlacesTimeout     = errors.New("places provider timeout")
)

// Client is the interface for querying the facility search provider.
// A zero-results response is a success with an empty list, distinct from a
// provider error status.
type Client interface {
	SearchNearby(ctx context.Context, req SearchRequest) ([]models.Place, error)
}

// SearchRequest defines parameters for a nearby search.
type SearchRequest struct {
	Lat          float64
	Lng          float64
	RadiusMeters int
	Category     models.PlaceCategory
}

// HTTPClient implements Client using the Places nearby-search HTTP API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient creates a new places HTTP client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SearchNearby(ctx context.Context, req SearchRequest) ([]models.Place, error) {
	params := url.Values{
		"location": {fmt.Sprintf("%f,%f", req.Lat, req.Lng)},
		"radius":   {strconv.Itoa(req.RadiusMeters)},
		"type":     {string(req.Category)},
		"key":      {c.apiKey},
	}

	u := fmt.Sprintf("%s/maps/api/place/nearbysearch/json?%s", c.baseURL, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrPlacesQueryError, resp.StatusCode)
	}

	var body nearbySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding places response: %w", err)
	}

	// The provider signals errors in-band: any status other than OK or
	// ZERO_RESULTS is a failure even on HTTP 200.
	if body.Status != "OK" && body.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("%w: %s %s", ErrPlacesQueryError, body.Status, body.ErrorMessage)
	}

	return mapResults(body.Results, req.Category), nil
}

type nearbySearchResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	Results      []nearbyResult `json:"results"`
}

type nearbyResult struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal *int     `json:"user_ratings_total"`
	Vicinity         string   `json:"vicinity"`
	OpeningHours     *struct {
		OpenNow *bool `json:"open_now"`
	} `json:"opening_hours"`
}

func mapResults(results []nearbyResult, category models.PlaceCategory) []models.Place {
	out := make([]models.Place, 0, len(results))
	for _, r := range results {
		p := models.Place{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			Category:         category,
			Lat:              r.Geometry.Location.Lat,
			Lng:              r.Geometry.Location.Lng,
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
			Vicinity:         r.Vicinity,
		}
		if r.OpeningHours != nil {
			p.OpenNow = r.OpeningHours.OpenNow
		}
		out = append(out, p)
	}
	return out
}

// classifyError maps low-level transport errors onto the package sentinels.
func classifyError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrPlacesTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrPlacesTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrPlacesUnreachable, err)
}

var _ Client = (*HTTPClient)(nil)
