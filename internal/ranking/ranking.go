// Package ranking orders itineraries under a user-chosen criterion. Sorting
// is a pure projection over the last outcome: stable, idempotent, and never
// the trigger for another network query.
package ranking

import (
	"sort"
	"strings"

	"github.com/tomwhitfield/journeyplanner/internal/models"
)

type Criterion string

const (
	Fastest      Criterion = "fastest"
	Cheapest     Criterion = "cheapest"
	LeastWalking Criterion = "least_walking"
)

// Parse maps user input onto a criterion, defaulting to Fastest.
func Parse(value string) Criterion {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(Cheapest):
		return Cheapest
	case string(LeastWalking):
		return LeastWalking
	default:
		return Fastest
	}
}

// key is the sort tuple for one itinerary, compared lexicographically.
// Missing fares carry a sentinel so they land after every priced itinerary.
func key(j models.Journey, c Criterion) [4]int {
	duration := j.DurationMinutes()
	interchanges := j.Interchanges()
	walking := j.WalkingMinutes()

	switch c {
	case Cheapest:
		return [4]int{j.FareSortValue(), duration, interchanges, walking}
	case LeastWalking:
		return [4]int{walking, duration, interchanges, 0}
	default:
		return [4]int{duration, interchanges, walking, 0}
	}
}

// SortBy returns a new slice ordered ascending by the criterion's key.
// The input is left untouched, and ties keep the journey API's original
// relative order.
func SortBy(journeys []models.Journey, c Criterion) []models.Journey {
	sorted := make([]models.Journey, len(journeys))
	copy(sorted, journeys)

	sort.SliceStable(sorted, func(i, k int) bool {
		a, b := key(sorted[i], c), key(sorted[k], c)
		for n := range a {
			if a[n] != b[n] {
				return a[n] < b[n]
			}
		}
		return false
	})

	return sorted
}
