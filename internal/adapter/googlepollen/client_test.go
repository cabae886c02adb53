package googlepollen

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/pollen-forecast-service/internal/observability"
)

const (
	testAPIKey        = "test-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

const forecastBody = `{
	"regionCode": "US",
	"dailyInfo": [{
		"date": {"year": 2024, "month": 6, "day": 1},
		"pollenTypeInfo": [{
			"code": "GRASS", "displayName": "Grass", "inSeason": true,
			"indexInfo": {"code": "UPI", "value": 3, "category": "Low"}
		}],
		"plantInfo": []
	}]
}`

func testClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey:     testAPIKey,
		httpClient: &http.Client{},
		baseURL:    baseURL,
		timeout:    timeout,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_FetchForecast_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, testAPIKey, q.Get("key"))
		assert.Equal(t, "52.52", q.Get("location.latitude"))
		assert.Equal(t, "13.405", q.Get("location.longitude"))
		assert.Equal(t, "3", q.Get("days"))
		assert.Equal(t, "true", q.Get("plantsDescription"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	forecast, err := c.FetchForecast(context.Background(), 52.52, 13.405, 3)
	require.NoError(t, err)

	assert.Equal(t, "US", forecast.RegionCode)
	require.Len(t, forecast.DailyInfo, 1)
	grass := forecast.DailyInfo[0].PollenTypes["GRASS"]
	require.NotNil(t, grass.IndexInfo)
	require.NotNil(t, grass.IndexInfo.Value)
	assert.Equal(t, 3, *grass.IndexInfo.Value)
	assert.Equal(t, "Low", grass.IndexInfo.Category)
}

func TestClient_FetchForecast_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchForecast(context.Background(), 52.52, 13.405, 3)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "invalid API key", authErr.Message)
}

func TestClient_FetchForecast_Forbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchForecast(context.Background(), 52.52, 13.405, 3)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Message, "does not have access")
}

func TestClient_FetchForecast_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "backend exploded"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchForecast(context.Background(), 52.52, 13.405, 3)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "backend exploded")
	assert.Contains(t, err.Error(), "500")
}

func TestClient_FetchForecast_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 50*time.Millisecond)
	_, err := c.FetchForecast(context.Background(), 52.52, 13.405, 3)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.NotNil(t, connErr.Err)
}

func TestClient_FetchForecast_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // connection refused from here on

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchForecast(context.Background(), 52.52, 13.405, 3)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestClient_FetchForecast_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`not-json{{{`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	_, err := c.FetchForecast(context.Background(), 52.52, 13.405, 3)
	require.Error(t, err)

	// A decode failure is not a classified transport error.
	var connErr *ConnectionError
	assert.False(t, errors.As(err, &connErr))
}

func TestClient_ValidateKey_True(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("days"))
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	ok, err := c.ValidateKey(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClient_ValidateKey_FalseOnAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	ok, err := c.ValidateKey(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_ValidateKey_ConnectivityFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	ok, err := c.ValidateKey(context.Background())

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.False(t, ok)
}

func TestClient_ValidateKey_APIErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("quota exceeded"))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	ok, err := c.ValidateKey(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.False(t, ok)
}
