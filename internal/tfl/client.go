// Package tfl is the client for the TfL Unified API: stop and place search
// plus the journey planner. Search calls treat 404 as "no matches"; only the
// journey query surfaces structured failures, per the error taxonomy the
// handlers rely on.
package tfl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tomwhitfield/journeyplanner/internal/models"
	"github.com/tomwhitfield/journeyplanner/internal/ratelimit"
)

const maxSearchResults = 10

type placeResult struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	PlaceType string  `json:"placeType"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

type stopSearchResponse struct {
	Matches []stopMatch `json:"matches"`
}

type stopMatch struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Modes []string `json:"modes"`
	Lat   float64  `json:"lat"`
	Lon   float64  `json:"lon"`
}

type journeyResponse struct {
	Journeys []models.Journey `json:"journeys"`
}

type apiError struct {
	Message string `json:"message"`
}

type Client struct {
	baseURL    string
	host       string
	appKey     string
	httpClient *http.Client
	limiter    *ratelimit.HostLimiter
}

func NewClient(baseURL, appKey string, timeout time.Duration, limiter *ratelimit.HostLimiter) *Client {
	host := baseURL
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		host = u.Host
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		host:       host,
		appKey:     appKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

// SearchPlaces queries /Place/Search. A 404 means no matches, not an error.
func (c *Client) SearchPlaces(ctx context.Context, query string) ([]models.ResolvedLocation, error) {
	body, found, err := c.search(ctx, "/Place/Search", query)
	if err != nil || !found {
		return nil, err
	}

	var places []placeResult
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, fmt.Errorf("decoding place search response: %w", err)
	}

	locations := make([]models.ResolvedLocation, 0, len(places))
	for _, p := range places {
		display := p.Name
		if p.PlaceType != "" {
			display = fmt.Sprintf("%s (%s)", p.Name, p.PlaceType)
		}
		locations = append(locations, resolved(p.Name, display, models.KindPlace, p.Lat, p.Lon))
	}
	return locations, nil
}

// SearchStopPoints queries /StopPoint/Search. A 404 means no matches.
func (c *Client) SearchStopPoints(ctx context.Context, query string) ([]models.ResolvedLocation, error) {
	body, found, err := c.search(ctx, "/StopPoint/Search", query)
	if err != nil || !found {
		return nil, err
	}

	var resp stopSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding stop search response: %w", err)
	}

	locations := make([]models.ResolvedLocation, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		display := m.Name
		if len(m.Modes) > 0 {
			display = fmt.Sprintf("%s [%s]", m.Name, strings.Join(m.Modes, ", "))
		}
		locations = append(locations, resolved(m.Name, display, models.KindStop, m.Lat, m.Lon))
	}
	return locations, nil
}

func (c *Client) search(ctx context.Context, path, query string) (body []byte, found bool, err error) {
	if err := c.limiter.Wait(ctx, c.host); err != nil {
		return nil, false, err
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("app_key", c.appKey)
	params.Set("maxResults", fmt.Sprint(maxSearchResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// Journeys executes a built journey request. Failures come back as
// *models.OutcomeError so the planner can apply the relaxation retry and the
// handler can map them to user-facing messages.
func (c *Client) Journeys(ctx context.Context, jr JourneyRequest) ([]models.Journey, error) {
	if err := c.limiter.Wait(ctx, c.host); err != nil {
		return nil, &models.OutcomeError{Kind: models.ErrTimeout, Message: err.Error()}
	}

	query := url.Values{}
	for k, vs := range jr.Query {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	query.Set("app_key", c.appKey)

	requestURL := c.baseURL + jr.Path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &models.OutcomeError{Kind: models.ErrUpstream, Message: err.Error()}
	}

	log.Debug().Str("path", jr.Path).Msg("querying journey API")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &models.OutcomeError{Kind: models.ErrTimeout, Message: "journey request timed out"}
		}
		return nil, &models.OutcomeError{Kind: models.ErrUpstream, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, &models.OutcomeError{Kind: models.ErrUpstream, Status: resp.StatusCode, Message: readErr.Error()}
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &models.OutcomeError{
			Kind:    models.ErrNotFound,
			Status:  http.StatusNotFound,
			Message: serverMessage(body, "No journey found for your inputs."),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.OutcomeError{
			Kind:    models.ErrUpstream,
			Status:  resp.StatusCode,
			Message: serverMessage(body, strings.TrimSpace(string(body))),
		}
	}

	var parsed journeyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &models.OutcomeError{Kind: models.ErrMalformed, Status: resp.StatusCode, Message: "unexpected journey response body"}
	}
	return parsed.Journeys, nil
}

func resolved(name, display string, kind models.LocationKind, lat, lon float64) models.ResolvedLocation {
	loc := models.ResolvedLocation{
		Name:    name,
		Display: display,
		Kind:    kind,
	}
	// The search endpoints omit coordinates for some results; zero values
	// mean absent, matching how the API leaves the fields out.
	if lat != 0 && lon != 0 {
		loc.Coordinates = &models.Coordinates{Lat: lat, Lon: lon}
		loc.PreferCoordinates = true
	}
	return loc
}

func serverMessage(body []byte, fallback string) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}
	if fallback == "" {
		return "request failed"
	}
	return fallback
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
