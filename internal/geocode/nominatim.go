// Package geocode resolves street addresses through Nominatim. It is the
// last-resort path of location resolution: any failure, including the 429
// rate-limit answer, degrades to "no result" rather than an error.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tomwhitfield/journeyplanner/internal/models"
	"github.com/tomwhitfield/journeyplanner/internal/ratelimit"
)

// Nominatim's usage policy requires an identifying User-Agent.
const userAgent = "london-journey-planner"

const maxDisplayLength = 100

type result struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

type Client struct {
	baseURL    string
	host       string
	httpClient *http.Client
	limiter    *ratelimit.HostLimiter
}

func NewClient(baseURL string, timeout time.Duration, limiter *ratelimit.HostLimiter) *Client {
	host := baseURL
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		host = u.Host
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		host:       host,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

// Lookup geocodes a free-text address, biased to London. Returns nil when
// the address cannot be resolved for any reason.
func (c *Client) Lookup(ctx context.Context, address string) *models.ResolvedLocation {
	if err := c.limiter.Wait(ctx, c.host); err != nil {
		return nil
	}

	params := url.Values{}
	params.Set("q", address+", London, UK")
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("address", address).Msg("geocoding failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		log.Debug().Str("address", address).Msg("geocoder rate-limited")
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	var results []result
	if err := json.Unmarshal(body, &results); err != nil || len(results) == 0 {
		return nil
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return nil
	}

	display := results[0].DisplayName
	if display == "" {
		display = address
	}
	if runes := []rune(display); len(runes) > maxDisplayLength {
		display = string(runes[:maxDisplayLength])
	}

	return &models.ResolvedLocation{
		Name:              address,
		Display:           display,
		Kind:              models.KindAddress,
		Coordinates:       &models.Coordinates{Lat: lat, Lon: lon},
		PreferCoordinates: true,
	}
}
