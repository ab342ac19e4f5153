package planner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomwhitfield/journeyplanner/internal/models"
	"github.com/tomwhitfield/journeyplanner/internal/ratelimit"
	"github.com/tomwhitfield/journeyplanner/internal/tfl"
)

func criteria(accessibility ...string) models.JourneySearchCriteria {
	return models.JourneySearchCriteria{
		Origin:                   models.ResolvedLocation{Name: "Euston", Kind: models.KindStop},
		Destination:              models.ResolvedLocation{Name: "Bank", Kind: models.KindStop},
		TimeIntent:               models.LeaveNow,
		Modes:                    []string{"tube", "walking"},
		AccessibilityPreferences: accessibility,
	}
}

func newPlanner(t *testing.T, handler http.HandlerFunc) *Planner {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(tfl.NewClient(srv.URL, "key", 2*time.Second, ratelimit.NewHostLimiterWithDefaults()))
}

func TestPlanSuccess(t *testing.T) {
	calls := 0
	p := newPlanner(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"journeys":[{"duration":30},{"duration":25}]}`))
	})

	outcome, err := p.Plan(context.Background(), criteria())
	if err != nil {
		t.Fatalf("Plan() = %v", err)
	}
	if outcome.Relaxed {
		t.Error("unfiltered success must not be relaxed")
	}
	if len(outcome.Journeys) != 2 {
		t.Errorf("got %d journeys, want 2", len(outcome.Journeys))
	}
	// Journeys keep API order; sorting happens downstream.
	if outcome.Journeys[0].Duration != 30 {
		t.Error("outcome must preserve the API's journey order")
	}
	if calls != 1 {
		t.Errorf("made %d calls, want 1", calls)
	}
	if outcome.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestPlanRelaxationRetry(t *testing.T) {
	var requests []string
	p := newPlanner(t, func(w http.ResponseWriter, r *http.Request) {
		pref := r.URL.Query().Get("accessibilityPreference")
		requests = append(requests, pref)
		if pref != "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"journeys":[{"duration":30},{"duration":25},{"duration":40}]}`))
	})

	outcome, err := p.Plan(context.Background(), criteria("StepFreeToVehicle"))
	if err != nil {
		t.Fatalf("Plan() = %v", err)
	}
	if !outcome.Relaxed {
		t.Error("outcome must be tagged relaxed")
	}
	if len(outcome.Journeys) != 3 {
		t.Errorf("got %d journeys, want 3", len(outcome.Journeys))
	}

	if len(requests) != 2 {
		t.Fatalf("made %d requests, want exactly 2", len(requests))
	}
	if requests[0] != "StepFreeToVehicle" {
		t.Errorf("first request accessibilityPreference = %q", requests[0])
	}
	if requests[1] != "" {
		t.Errorf("retry still carried accessibilityPreference %q", requests[1])
	}
}

func TestPlanNoRetryWithoutAccessibility(t *testing.T) {
	calls := 0
	p := newPlanner(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := p.Plan(context.Background(), criteria())
	var oe *models.OutcomeError
	if !errors.As(err, &oe) {
		t.Fatalf("want *OutcomeError, got %v", err)
	}
	if oe.Kind != models.ErrNotFound {
		t.Errorf("kind = %q, want not_found", oe.Kind)
	}
	if oe.RelaxationAttempted {
		t.Error("no relaxation without accessibility filters")
	}
	if calls != 1 {
		t.Errorf("made %d calls, want 1", calls)
	}
}

func TestPlanRelaxedRetryAlsoFails(t *testing.T) {
	calls := 0
	p := newPlanner(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := p.Plan(context.Background(), criteria("NoEscalators"))
	var oe *models.OutcomeError
	if !errors.As(err, &oe) {
		t.Fatalf("want *OutcomeError, got %v", err)
	}
	if !oe.RelaxationAttempted {
		t.Error("failure must disclose that relaxation was attempted")
	}
	if calls != 2 {
		t.Errorf("made %d calls, want 2 (relaxation never loops)", calls)
	}
}

func TestPlanEmptyJourneyListIsNotFound(t *testing.T) {
	p := newPlanner(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"journeys":[]}`))
	})

	_, err := p.Plan(context.Background(), criteria())
	var oe *models.OutcomeError
	if !errors.As(err, &oe) {
		t.Fatalf("want *OutcomeError, got %v", err)
	}
	if oe.Kind != models.ErrNotFound {
		t.Errorf("kind = %q, want not_found", oe.Kind)
	}
}

func TestPlanEmptyListTriggersRelaxation(t *testing.T) {
	p := newPlanner(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("accessibilityPreference") != "" {
			w.Write([]byte(`{"journeys":[]}`))
			return
		}
		w.Write([]byte(`{"journeys":[{"duration":12}]}`))
	})

	outcome, err := p.Plan(context.Background(), criteria("NoElevators"))
	if err != nil {
		t.Fatalf("Plan() = %v", err)
	}
	if !outcome.Relaxed {
		t.Error("empty filtered list must relax like a 404")
	}
}

func TestPlanUpstreamErrorNotRetried(t *testing.T) {
	calls := 0
	p := newPlanner(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := p.Plan(context.Background(), criteria("NoSolidStairs"))
	var oe *models.OutcomeError
	if !errors.As(err, &oe) {
		t.Fatalf("want *OutcomeError, got %v", err)
	}
	if oe.Kind != models.ErrUpstream {
		t.Errorf("kind = %q, want upstream", oe.Kind)
	}
	if calls != 1 {
		t.Errorf("made %d calls, want 1 (only 404 relaxes)", calls)
	}
}
