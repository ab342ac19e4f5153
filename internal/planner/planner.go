// Package planner orchestrates the journey query itself, including the one
// piece of adaptive control flow in the pipeline: when an
// accessibility-filtered query finds nothing, it retries exactly once with
// the filters removed and discloses that relaxation in the outcome.
package planner

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/tomwhitfield/journeyplanner/internal/londontime"
	"github.com/tomwhitfield/journeyplanner/internal/models"
	"github.com/tomwhitfield/journeyplanner/internal/tfl"
)

type Planner struct {
	tfl *tfl.Client
}

func New(tflClient *tfl.Client) *Planner {
	return &Planner{tfl: tflClient}
}

// Plan runs one journey search. It returns either an outcome with at least
// one itinerary, or a *models.OutcomeError describing why none appeared.
// Accessibility filters materially reduce route availability, so a 404 with
// filters active triggers a single unfiltered retry; failing silently would
// be worse than offering an unfiltered alternative with a clear disclosure.
func (p *Planner) Plan(ctx context.Context, criteria models.JourneySearchCriteria) (*models.SearchOutcome, error) {
	journeys, err := p.query(ctx, criteria)
	if err == nil {
		return p.outcome(criteria, journeys, false), nil
	}

	var outcomeErr *models.OutcomeError
	if !errors.As(err, &outcomeErr) {
		return nil, &models.OutcomeError{Kind: models.ErrUpstream, Message: err.Error()}
	}

	if outcomeErr.Kind != models.ErrNotFound || len(criteria.AccessibilityPreferences) == 0 {
		return nil, outcomeErr
	}

	log.Info().
		Strs("accessibility", criteria.AccessibilityPreferences).
		Msg("no journeys under accessibility filters, retrying relaxed")

	journeys, retryErr := p.query(ctx, criteria.WithoutAccessibility())
	if retryErr != nil {
		var relaxedErr *models.OutcomeError
		if !errors.As(retryErr, &relaxedErr) {
			relaxedErr = &models.OutcomeError{Kind: models.ErrUpstream, Message: retryErr.Error()}
		}
		relaxedErr.RelaxationAttempted = true
		return nil, relaxedErr
	}

	return p.outcome(criteria, journeys, true), nil
}

// query issues one journey request. A 2xx with an empty itinerary list is
// reported as not-found; the user message is the same either way.
func (p *Planner) query(ctx context.Context, criteria models.JourneySearchCriteria) ([]models.Journey, error) {
	journeys, err := p.tfl.Journeys(ctx, tfl.BuildJourneyRequest(criteria))
	if err != nil {
		return nil, err
	}
	if len(journeys) == 0 {
		return nil, &models.OutcomeError{
			Kind:    models.ErrNotFound,
			Message: "No journey found for your inputs.",
		}
	}
	return journeys, nil
}

func (p *Planner) outcome(criteria models.JourneySearchCriteria, journeys []models.Journey, relaxed bool) *models.SearchOutcome {
	return &models.SearchOutcome{
		Origin:      criteria.Origin,
		Destination: criteria.Destination,
		Journeys:    journeys,
		Relaxed:     relaxed,
		GeneratedAt: londontime.Now(),
	}
}
