package tfl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomwhitfield/journeyplanner/internal/models"
	"github.com/tomwhitfield/journeyplanner/internal/ratelimit"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", 2*time.Second, ratelimit.NewHostLimiterWithDefaults())
}

func TestSearchPlaces(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Place/Search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("app_key") != "test-key" {
			t.Error("app_key not attached")
		}
		if r.URL.Query().Get("maxResults") != "10" {
			t.Error("maxResults not attached")
		}
		w.Write([]byte(`[
			{"name":"Euston","placeType":"StopPoint","lat":51.528,"lon":-0.133},
			{"name":"Euston Road","placeType":""}
		]`))
	}))

	locations, err := client.SearchPlaces(context.Background(), "Euston")
	if err != nil {
		t.Fatalf("SearchPlaces() = %v", err)
	}
	if len(locations) != 2 {
		t.Fatalf("got %d locations, want 2", len(locations))
	}

	first := locations[0]
	if first.Kind != models.KindPlace || first.Display != "Euston (StopPoint)" {
		t.Errorf("unexpected first location: %+v", first)
	}
	if !first.PreferCoordinates || first.Coordinates == nil {
		t.Error("location with coordinates should prefer them")
	}

	second := locations[1]
	if second.PreferCoordinates || second.Coordinates != nil {
		t.Error("location without coordinates must not prefer them")
	}
	if second.Display != "Euston Road" {
		t.Errorf("display = %q, want bare name", second.Display)
	}
}

func TestSearchStopPoints(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/StopPoint/Search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"matches":[{"name":"Euston Square","modes":["tube"],"lat":51.525,"lon":-0.135}]}`))
	}))

	locations, err := client.SearchStopPoints(context.Background(), "Euston")
	if err != nil {
		t.Fatalf("SearchStopPoints() = %v", err)
	}
	if len(locations) != 1 {
		t.Fatalf("got %d locations, want 1", len(locations))
	}
	if locations[0].Kind != models.KindStop || locations[0].Display != "Euston Square [tube]" {
		t.Errorf("unexpected location: %+v", locations[0])
	}
}

func TestSearchNotFoundMeansNoMatches(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	locations, err := client.SearchPlaces(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if len(locations) != 0 {
		t.Errorf("got %d locations, want 0", len(locations))
	}
}

func TestJourneysErrorTaxonomy(t *testing.T) {
	t.Run("404 with server message", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"No journeys matched"}`))
		}))

		_, err := client.Journeys(context.Background(), JourneyRequest{Path: "/Journey/JourneyResults/A/to/B"})
		var oe *models.OutcomeError
		if !errors.As(err, &oe) {
			t.Fatalf("want *OutcomeError, got %v", err)
		}
		if oe.Kind != models.ErrNotFound || oe.Status != 404 || oe.Message != "No journeys matched" {
			t.Errorf("unexpected error: %+v", oe)
		}
	})

	t.Run("404 without body uses default message", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := client.Journeys(context.Background(), JourneyRequest{Path: "/Journey/JourneyResults/A/to/B"})
		var oe *models.OutcomeError
		if !errors.As(err, &oe) {
			t.Fatalf("want *OutcomeError, got %v", err)
		}
		if oe.Message != "No journey found for your inputs." {
			t.Errorf("message = %q", oe.Message)
		}
	})

	t.Run("other status is upstream", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"server exploded"}`))
		}))

		_, err := client.Journeys(context.Background(), JourneyRequest{Path: "/Journey/JourneyResults/A/to/B"})
		var oe *models.OutcomeError
		if !errors.As(err, &oe) {
			t.Fatalf("want *OutcomeError, got %v", err)
		}
		if oe.Kind != models.ErrUpstream || oe.Status != 500 || oe.Message != "server exploded" {
			t.Errorf("unexpected error: %+v", oe)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json at all`))
		}))

		_, err := client.Journeys(context.Background(), JourneyRequest{Path: "/Journey/JourneyResults/A/to/B"})
		var oe *models.OutcomeError
		if !errors.As(err, &oe) {
			t.Fatalf("want *OutcomeError, got %v", err)
		}
		if oe.Kind != models.ErrMalformed {
			t.Errorf("kind = %q, want malformed", oe.Kind)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		t.Cleanup(srv.Close)
		client := NewClient(srv.URL, "test-key", 50*time.Millisecond, ratelimit.NewHostLimiterWithDefaults())

		_, err := client.Journeys(context.Background(), JourneyRequest{Path: "/Journey/JourneyResults/A/to/B"})
		var oe *models.OutcomeError
		if !errors.As(err, &oe) {
			t.Fatalf("want *OutcomeError, got %v", err)
		}
		if oe.Kind != models.ErrTimeout {
			t.Errorf("kind = %q, want timeout", oe.Kind)
		}
	})
}

func TestJourneysSuccess(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"journeys":[{"duration":28,"legs":[{"duration":28,"mode":{"id":"tube","name":"Tube"}}],"fare":{"totalCost":280}}]}`))
	}))

	journeys, err := client.Journeys(context.Background(), JourneyRequest{Path: "/Journey/JourneyResults/A/to/B"})
	if err != nil {
		t.Fatalf("Journeys() = %v", err)
	}
	if len(journeys) != 1 || journeys[0].Duration != 28 {
		t.Fatalf("unexpected journeys: %+v", journeys)
	}
	if fare, ok := journeys[0].FarePence(); !ok || fare != 280 {
		t.Errorf("fare = %d/%v, want 280", fare, ok)
	}
}
