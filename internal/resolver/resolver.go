// Package resolver turns free-form location text into resolved locations.
// One candidate pipeline feeds both behaviors: auto-resolution (first
// candidate wins) and the grouped suggestion list an interactive picker
// shows. Search and geocoding failures are absorbed here; absence of a
// location is expressed as nil, never as an error.
package resolver

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tomwhitfield/journeyplanner/internal/geocode"
	"github.com/tomwhitfield/journeyplanner/internal/models"
	"github.com/tomwhitfield/journeyplanner/internal/postcode"
	"github.com/tomwhitfield/journeyplanner/internal/tfl"
)

const (
	// The search endpoints return noise for very short queries.
	minPlaceQueryLength = 3
	minStopQueryLength  = 2

	maxSuggestions = 10
)

type Resolver struct {
	tfl      *tfl.Client
	geocoder *geocode.Client
}

func New(tflClient *tfl.Client, geocoder *geocode.Client) *Resolver {
	return &Resolver{
		tfl:      tflClient,
		geocoder: geocoder,
	}
}

// Candidates queries place and stop search concurrently and merges the
// results: place matches first, then stop matches, deduplicated by exact
// name keeping the first occurrence.
func (r *Resolver) Candidates(ctx context.Context, query string) []models.ResolvedLocation {
	type searchResult struct {
		locations []models.ResolvedLocation
		isStop    bool
		err       error
	}

	resultCh := make(chan searchResult, 2)

	go func() {
		if len(query) < minPlaceQueryLength {
			resultCh <- searchResult{}
			return
		}
		locations, err := r.tfl.SearchPlaces(ctx, query)
		resultCh <- searchResult{locations: locations, err: err}
	}()

	go func() {
		if len(query) < minStopQueryLength {
			resultCh <- searchResult{isStop: true}
			return
		}
		locations, err := r.tfl.SearchStopPoints(ctx, query)
		resultCh <- searchResult{locations: locations, isStop: true, err: err}
	}()

	var places, stops []models.ResolvedLocation
	for i := 0; i < 2; i++ {
		sr := <-resultCh
		if sr.err != nil {
			source := "place search"
			if sr.isStop {
				source = "stop search"
			}
			log.Debug().Err(sr.err).Str("query", query).Msg(source + " yielded no candidates")
			continue
		}
		if sr.isStop {
			stops = sr.locations
		} else {
			places = sr.locations
		}
	}

	return dedupeByName(append(places, stops...))
}

// Resolve is the auto-resolution path: postcode short-circuit, then the
// first search candidate, then the geocoded address, then nil. Postcodes
// never hit the network; the journey API interprets them as literals.
func (r *Resolver) Resolve(ctx context.Context, query string) *models.ResolvedLocation {
	if query == "" {
		return nil
	}

	if postcode.Matches(query) {
		normalized := postcode.Normalize(query)
		return &models.ResolvedLocation{
			Name:    normalized,
			Display: normalized,
			Kind:    models.KindPostcode,
		}
	}

	if candidates := r.Candidates(ctx, query); len(candidates) > 0 {
		first := candidates[0]
		return &first
	}

	return r.geocoder.Lookup(ctx, query)
}

// Suggest builds the grouped picklist for interactive selection: the
// postcode quick-pick, up to ten station/place matches, and the geocoded
// address. The geocoder is skipped for postcode-shaped input.
func (r *Resolver) Suggest(ctx context.Context, query string) models.SuggestResponse {
	resp := models.SuggestResponse{
		Query:   query,
		Matches: []models.ResolvedLocation{},
	}
	if query == "" {
		return resp
	}

	isPostcode := postcode.Matches(query)
	if isPostcode {
		normalized := postcode.Normalize(query)
		resp.Postcode = &models.ResolvedLocation{
			Name:    normalized,
			Display: normalized,
			Kind:    models.KindPostcode,
		}
	}

	candidates := r.Candidates(ctx, query)
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	resp.Matches = candidates

	if !isPostcode {
		resp.Address = r.geocoder.Lookup(ctx, query)
	}

	return resp
}

func dedupeByName(locations []models.ResolvedLocation) []models.ResolvedLocation {
	seen := make(map[string]bool, len(locations))
	unique := make([]models.ResolvedLocation, 0, len(locations))
	for _, loc := range locations {
		if loc.Name == "" || seen[loc.Name] {
			continue
		}
		seen[loc.Name] = true
		unique = append(unique, loc)
	}
	return unique
}
