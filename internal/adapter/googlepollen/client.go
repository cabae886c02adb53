// Package googlepollen implements domain.ForecastFetcher against the Google
// Pollen API forecast:lookup endpoint.
package googlepollen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/pollen-forecast-service/internal/domain"
	"github.com/couchcryptid/pollen-forecast-service/internal/observability"
)

const defaultBaseURL = "https://pollen.googleapis.com/v1/forecast:lookup"

// Reference coordinate (San Francisco) used by ValidateKey. Any location the
// API covers would do; it only matters that the request is well-formed.
const (
	validationLatitude  = 37.7749
	validationLongitude = -122.4194
)

// Client fetches pollen forecasts from the Google Pollen API.
//
// The *http.Client is borrowed from the hosting process and shared across all
// fetches; the client never closes it. The per-request timeout is applied via
// context so a generous host-level client can still be bounded here.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Google Pollen API client.
func NewClient(apiKey string, httpClient *http.Client, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		timeout:    timeout,
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchForecast retrieves a forecast of up to days days for the coordinate.
// Failures are classified: 401/403 as *AuthError, other non-2xx as *APIError
// carrying status and body, transport failures and timeouts as
// *ConnectionError.
func (c *Client) FetchForecast(ctx context.Context, latitude, longitude float64, days int) (domain.Forecast, error) {
	params := url.Values{
		"key":                {c.apiKey},
		"location.latitude":  {strconv.FormatFloat(latitude, 'f', -1, 64)},
		"location.longitude": {strconv.FormatFloat(longitude, 'f', -1, 64)},
		"days":               {strconv.Itoa(days)},
		"plantsDescription":  {"true"},
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	forecast, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	c.metrics.FetchRequests.WithLabelValues(outcomeLabel(err)).Inc()

	if err != nil {
		return domain.Forecast{}, err
	}
	return forecast, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.Forecast, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Forecast{}, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return domain.Forecast{}, &AuthError{Message: "invalid API key"}
	case resp.StatusCode == http.StatusForbidden:
		return domain.Forecast{}, &AuthError{Message: "API key does not have access to the Pollen API"}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(resp.Body)
		return domain.Forecast{}, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Forecast{}, &ConnectionError{Err: err}
	}
	return domain.ParseForecast(body)
}

// ValidateKey checks the API key with a one-day fetch against a fixed
// reference coordinate. It returns false only when the fetch fails with an
// auth error; any other failure (connectivity included) propagates so the
// caller can tell "bad key" from "cannot reach the service".
func (c *Client) ValidateKey(ctx context.Context) (bool, error) {
	_, err := c.FetchForecast(ctx, validationLatitude, validationLongitude, 1)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			c.logger.Warn("api key validation failed", "error", authErr.Message)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	var (
		authErr *AuthError
		apiErr  *APIError
		connErr *ConnectionError
	)
	switch {
	case errors.As(err, &authErr):
		return "auth_error"
	case errors.As(err, &apiErr):
		return "api_error"
	case errors.As(err, &connErr):
		return "connection_error"
	default:
		return "decode_error"
	}
}
