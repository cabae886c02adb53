package googlepollen

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/pollen-forecast-service/internal/domain"
)

// RateLimitedFetcher wraps a ForecastFetcher with a token-bucket rate limit.
// The Pollen API has a per-minute quota, and one coordinator per configured
// location can share the same underlying client.
type RateLimitedFetcher struct {
	inner   domain.ForecastFetcher
	limiter *rate.Limiter
}

// NewRateLimitedFetcher creates a rate-limiting decorator. rps may be
// fractional for limits below one request per second.
func NewRateLimitedFetcher(inner domain.ForecastFetcher, rps float64, burst int) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// FetchForecast waits for limiter permission, then forwards to the inner
// fetcher. A context cancelled during the wait surfaces as an error rather
// than a classified fetch failure.
func (r *RateLimitedFetcher) FetchForecast(ctx context.Context, latitude, longitude float64, days int) (domain.Forecast, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.Forecast{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.inner.FetchForecast(ctx, latitude, longitude, days)
}

var _ domain.ForecastFetcher = (*RateLimitedFetcher)(nil)
var _ domain.ForecastFetcher = (*Client)(nil)
