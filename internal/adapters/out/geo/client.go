// Package geo is the HTTP client for the external geocoding and routing
// provider. It sits behind the Redis caches; request paths normally hit
// it only on cache misses.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"parcelhub/internal/core/domain/model/kernel"
	"parcelhub/internal/core/ports"
	"parcelhub/internal/pkg/errs"
)

const defaultTimeout = 5 * time.Second

// Client talks to the provider's JSON API. It implements both
// ports.Geocoder and ports.DistanceSource.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a provider client. baseURL is the API root without a
// trailing slash.
func NewClient(baseURL string, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type geocodeResponse struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Formatted string  `json:"formatted"`
}

type routeResponse struct {
	DistanceKM  float64 `json:"distance_km"`
	DurationMin int     `json:"duration_min"`
}

// Resolve geocodes a free-form address.
func (c *Client) Resolve(ctx context.Context, address string) (ports.ResolvedAddress, error) {
	query := url.Values{}
	query.Set("q", address)

	var resp geocodeResponse
	if err := c.get(ctx, "/geocode", query, &resp); err != nil {
		return ports.ResolvedAddress{}, fmt.Errorf("geocoding %q: %w", address, err)
	}

	point, err := kernel.NewGeoPoint(resp.Lat, resp.Lng)
	if err != nil {
		return ports.ResolvedAddress{}, fmt.Errorf("geocoding %q: %w", address, err)
	}

	formatted := resp.Formatted
	if formatted == "" {
		formatted = address
	}

	return ports.ResolvedAddress{Point: point, Formatted: formatted}, nil
}

// Estimate returns road distance and duration between two points.
func (c *Client) Estimate(
	ctx context.Context, origin kernel.GeoPoint, destination kernel.GeoPoint,
) (ports.TravelEstimate, error) {
	query := url.Values{}
	query.Set("from", fmt.Sprintf("%f,%f", origin.Lat(), origin.Lng()))
	query.Set("to", fmt.Sprintf("%f,%f", destination.Lat(), destination.Lng()))

	var resp routeResponse
	if err := c.get(ctx, "/route", query, &resp); err != nil {
		return ports.TravelEstimate{}, fmt.Errorf("routing: %w", err)
	}
	if resp.DistanceKM <= 0 {
		return ports.TravelEstimate{}, errs.NewValueIsInvalidErrorWithCause(
			"provider distance",
			fmt.Errorf("%f is not greater than 0", resp.DistanceKM))
	}

	duration := resp.DurationMin
	if duration <= 0 {
		duration = kernel.EstimateDurationMin(resp.DistanceKM)
	}

	return ports.TravelEstimate{DistanceKM: resp.DistanceKM, DurationMin: duration}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if c.apiKey != "" {
		query.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errs.NewObjectNotFoundError("provider result", query.Encode())
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
