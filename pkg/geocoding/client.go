package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"campus-sublets/pkg/logger"
	"campus-sublets/pkg/metrics"
)

const (
	DefaultGeocodeURL      = "https://maps.googleapis.com/maps/api/geocode/json"
	DefaultAutocompleteURL = "https://maps.googleapis.com/maps/api/place/autocomplete/json"
)

// Client calls the Google Geocoding and Places Autocomplete web services.
type Client struct {
	apiKey          string
	geocodeURL      string
	autocompleteURL string
	httpClient      *http.Client
	maxRetries      int
	backoff         func(attempt int) time.Duration
}

type Option func(*Client)

func WithBaseURLs(geocodeURL, autocompleteURL string) Option {
	return func(c *Client) {
		if geocodeURL != "" {
			c.geocodeURL = geocodeURL
		}
		if autocompleteURL != "" {
			c.autocompleteURL = autocompleteURL
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithBackoff sets the wait before retry number attempt+1.
func WithBackoff(fn func(attempt int) time.Duration) Option {
	return func(c *Client) { c.backoff = fn }
}

// NewClient creates a new gateway client
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:          apiKey,
		geocodeURL:      DefaultGeocodeURL,
		autocompleteURL: DefaultAutocompleteURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		maxRetries: 3,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * time.Second
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON performs a GET with retries on transport errors and 5xx responses,
// decoding a 200 body into dest.
func (c *Client) getJSON(ctx context.Context, operation, endpoint string, params url.Values, dest interface{}) error {
	if c.apiKey == "" {
		return newFailure(UpstreamError, "maps API key is not configured", nil)
	}
	params.Set("key", c.apiKey)
	requestURL := endpoint + "?" + params.Encode()

	start := time.Now()
	defer func() {
		metrics.GeocodingRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	var lastErr *Failure
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, c.backoff(attempt-1)); err != nil {
				metrics.GeocodingRequestsTotal.WithLabelValues(operation, NetworkError.String()).Inc()
				return newFailure(NetworkError, "request cancelled", err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			metrics.GeocodingRequestsTotal.WithLabelValues(operation, UpstreamError.String()).Inc()
			return newFailure(UpstreamError, "failed to build request", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			logger.GlobalLogger.Errorf("%s request failed (attempt %d/%d): endpoint=%s, error=%v", operation, attempt, c.maxRetries, endpoint, err)
			lastErr = newFailure(NetworkError, "failed to reach maps service", err)
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				break
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			logger.GlobalLogger.Errorf("%s response read failed (attempt %d/%d): status=%s, error=%v", operation, attempt, c.maxRetries, resp.Status, err)
			lastErr = newFailure(NetworkError, "failed to read maps service response", err)
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			logger.GlobalLogger.Errorf("%s upstream error (attempt %d/%d): status=%s, response=%s", operation, attempt, c.maxRetries, resp.Status, string(body))
			lastErr = newFailure(UpstreamError, fmt.Sprintf("maps service returned %s", resp.Status), nil)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			logger.GlobalLogger.Errorf("%s rejected: status=%s, response=%s", operation, resp.Status, string(body))
			metrics.GeocodingRequestsTotal.WithLabelValues(operation, UpstreamError.String()).Inc()
			return newFailure(UpstreamError, fmt.Sprintf("maps service returned %s", resp.Status), nil)
		}

		if err := json.Unmarshal(body, dest); err != nil {
			logger.GlobalLogger.Errorf("%s response decode failed: response=%s, error=%v", operation, string(body), err)
			metrics.GeocodingRequestsTotal.WithLabelValues(operation, UpstreamError.String()).Inc()
			return newFailure(UpstreamError, "malformed maps service response", err)
		}
		metrics.GeocodingRequestsTotal.WithLabelValues(operation, "ok").Inc()
		return nil
	}

	metrics.GeocodingRequestsTotal.WithLabelValues(operation, lastErr.Kind.String()).Inc()
	return lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// statusFailure maps a non-OK Google status to a Failure.
func statusFailure(status, message string) *Failure {
	if message == "" {
		message = "maps service status " + status
	}
	return newFailure(UpstreamError, message, nil)
}
