// Package geocode resolves street addresses to coordinates through the
// Nominatim search API.
package geocode

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avelarde/rentmap/internal/core/domain"
	"github.com/avelarde/rentmap/internal/pkg/metrics"
)

// Client implements ports.Geocoder against a Nominatim-compatible endpoint.
// Lookups carry a bounded timeout and at most maxRetries re-attempts; every
// failure mode is non-fatal and reported as an unresolved result.
type Client struct {
	baseURL    string
	userAgent  string
	maxRetries int
	httpClient *http.Client
}

// candidate is one entry of the Nominatim response. lon/lat come back as
// strings on the wire.
type candidate struct {
	Lon string `json:"lon"`
	Lat string `json:"lat"`
}

// New creates a geocoding client. userAgent must contain a contact address
// per the provider's usage policy.
func New(baseURL, userAgent string, timeout time.Duration, maxRetries int) *Client {
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Resolve looks up an address and returns the first candidate's point.
// resolved is false on network errors, non-2xx responses, empty candidate
// lists, and malformed lon/lat fields. The caller decides the fallback; the
// client never blocks creation.
func (c *Client) Resolve(ctx context.Context, addr domain.Address) (domain.GeoPoint, bool) {
	start := time.Now()
	defer func() { metrics.GeocodeDuration.Observe(time.Since(start).Seconds()) }()

	var point domain.GeoPoint
	var resolved bool

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var retryable bool
		point, resolved, retryable = c.lookup(ctx, addr)
		if resolved || !retryable {
			break
		}
	}

	if resolved {
		metrics.GeocodeRequests.WithLabelValues("resolved").Inc()
	} else {
		metrics.GeocodeRequests.WithLabelValues("unresolved").Inc()
	}
	return point, resolved
}

// lookup performs a single query. retryable distinguishes transient
// transport failures (worth one more attempt) from definitive answers like
// an empty candidate list.
func (c *Client) lookup(ctx context.Context, addr domain.Address) (domain.GeoPoint, bool, bool) {
	q := url.Values{}
	q.Set("street", addr.Street)
	q.Set("city", addr.City)
	q.Set("country", addr.Country)
	q.Set("postalcode", addr.PostalCode)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		slog.Warn("geocode request build failed", "error", err)
		return domain.GeoPoint{}, false, false
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("geocode lookup failed", "city", addr.City, "error", err)
		return domain.GeoPoint{}, false, true
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("geocode lookup failed", "city", addr.City, "status", resp.StatusCode)
		return domain.GeoPoint{}, false, resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
	}

	var candidates []candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		slog.Warn("geocode response parse failed", "error", err)
		return domain.GeoPoint{}, false, false
	}
	if len(candidates) == 0 {
		return domain.GeoPoint{}, false, false
	}

	lon, err := strconv.ParseFloat(candidates[0].Lon, 64)
	if err != nil {
		slog.Warn("geocode candidate has bad longitude", "value", candidates[0].Lon)
		return domain.GeoPoint{}, false, false
	}
	lat, err := strconv.ParseFloat(candidates[0].Lat, 64)
	if err != nil {
		slog.Warn("geocode candidate has bad latitude", "value", candidates[0].Lat)
		return domain.GeoPoint{}, false, false
	}

	return domain.GeoPoint{Longitude: lon, Latitude: lat}, true, false
}
