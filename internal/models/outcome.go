package models

import (
	"fmt"
	"time"
)

// SearchOutcome is the result of one orchestrated journey query. Journeys
// are kept in the order the API returned them; sorting is a projection
// applied at response time so re-sorting never re-issues the query.
type SearchOutcome struct {
	Origin      ResolvedLocation `json:"origin"`
	Destination ResolvedLocation `json:"destination"`
	Journeys    []Journey        `json:"journeys"`
	// Relaxed is true when accessibility filters had to be dropped to get
	// any results.
	Relaxed     bool      `json:"relaxed"`
	GeneratedAt time.Time `json:"generated_at"`
}

type ErrorKind string

const (
	// ErrNotFound covers HTTP 404 and successful responses with an empty
	// itinerary list.
	ErrNotFound  ErrorKind = "not_found"
	ErrTimeout   ErrorKind = "timeout"
	ErrUpstream  ErrorKind = "upstream"
	ErrMalformed ErrorKind = "malformed"
)

// OutcomeError is the structured failure of a journey query. Resolution-layer
// failures never surface this way; only the journey query does, because the
// user must be told why no itinerary appeared.
type OutcomeError struct {
	Kind    ErrorKind
	Status  int
	Message string
	// RelaxationAttempted records that the accessibility-relaxation retry
	// ran and still failed.
	RelaxationAttempted bool
}

func (e *OutcomeError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("journey query failed (%s, status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("journey query failed (%s): %s", e.Kind, e.Message)
}
