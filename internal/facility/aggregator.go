// Package facility aggregates nearby medical facilities across search
// categories into one deduplicated, ranked list.
package facility

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/medicassist/medicassist/internal/places"
	"github.com/medicassist/medicassist/pkg/models"
)

// categories are queried in this fixed order; the merged list concatenates
// results in the same order regardless of which query finishes first.
var categories = []models.PlaceCategory{models.CategoryHospital, models.CategoryPharmacy}

// Aggregator combines per-category facility searches.
type Aggregator struct {
	client       places.Client
	radiusMeters int
}

// NewAggregator creates an Aggregator searching within radiusMeters.
func NewAggregator(client places.Client, radiusMeters int) *Aggregator {
	return &Aggregator{client: client, radiusMeters: radiusMeters}
}

// FindNearby searches hospitals and pharmacies around the given location and
// returns one list deduplicated by place id (first occurrence wins) and
// sorted by rating descending. Equal ratings keep their post-dedup relative
// order; a missing rating sorts as 0. An empty list is a valid result.
//
// If either category query fails the whole call fails: silently dropping a
// category would bias the ranked list without the caller's knowledge.
func (a *Aggregator) FindNearby(ctx context.Context, lat, lng float64) ([]models.Place, error) {
	results := make([][]models.Place, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range categories {
		g.Go(func() error {
			found, err := a.client.SearchNearby(gctx, places.SearchRequest{
				Lat:          lat,
				Lng:          lng,
				RadiusMeters: a.radiusMeters,
				Category:     cat,
			})
			if err != nil {
				return fmt.Errorf("searching %s facilities: %w", cat, err)
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]models.Place, 0, len(results[0])+len(results[1]))
	seen := make(map[string]bool)
	for _, list := range results {
		for _, p := range list {
			if seen[p.PlaceID] {
				continue
			}
			seen[p.PlaceID] = true
			merged = append(merged, p)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return ratingOf(merged[i]) > ratingOf(merged[j])
	})

	return merged, nil
}

func ratingOf(p models.Place) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}
