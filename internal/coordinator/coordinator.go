// Package coordinator keeps a pollen forecast snapshot fresh on a fixed
// schedule and hands the last-good snapshot to consumers.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/pollen-forecast-service/internal/domain"
	"github.com/couchcryptid/pollen-forecast-service/internal/observability"
)

// ErrUpdateFailed wraps every failed refresh. Consumers match it with
// errors.Is; the underlying client classification rides along in the message.
var ErrUpdateFailed = errors.New("pollen forecast update failed")

// Listener is notified after each refresh cycle completes, success or
// failure. On success err is nil and snapshot is the freshly fetched
// forecast; on failure snapshot is the preserved previous one (nil when no
// refresh has ever succeeded). The snapshot is read-only.
type Listener func(ctx context.Context, snapshot *domain.Forecast, err error)

// Coordinator owns the refresh schedule for one location. Refresh cycles are
// strictly serialized: the Run loop is the only fetch caller, so a new cycle
// never starts before the previous one has fully completed. A tick that
// fires while a refresh is in flight is dropped, not queued.
type Coordinator struct {
	fetcher   domain.ForecastFetcher
	latitude  float64
	longitude float64
	days      int
	interval  time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu        sync.RWMutex
	snapshot  *domain.Forecast
	lastErr   error
	ready     bool
	listeners []Listener
}

// New creates a Coordinator. Pass clockwork.NewRealClock() outside tests.
func New(fetcher domain.ForecastFetcher, latitude, longitude float64, days int, interval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Coordinator {
	return &Coordinator{
		fetcher:   fetcher,
		latitude:  latitude,
		longitude: longitude,
		days:      days,
		interval:  interval,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// Subscribe registers a listener for refresh outcomes. Listeners added after
// Run has started still see every subsequent cycle.
func (c *Coordinator) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Snapshot returns the most recent successfully fetched forecast. ok is
// false before the first successful refresh. The forecast must be treated
// as read-only.
func (c *Coordinator) Snapshot() (domain.Forecast, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return domain.Forecast{}, false
	}
	return *c.snapshot, true
}

// LastError returns the failure recorded by the most recent refresh, or nil
// after a success.
func (c *Coordinator) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// CheckReadiness reports nil once the initial refresh has completed,
// success or failure. A coordinator serving stale data is still ready.
func (c *Coordinator) CheckReadiness(_ context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ready {
		return errors.New("coordinator has not completed its initial refresh")
	}
	return nil
}

// Run performs the initial refresh, then refreshes on every interval tick
// until the context is cancelled. Teardown stops the ticker; an in-flight
// fetch finishes on its own via the fetch timeout.
func (c *Coordinator) Run(ctx context.Context) error {
	c.logger.Info("coordinator started",
		"lat", c.latitude, "lon", c.longitude,
		"days", c.days, "interval", c.interval,
	)
	c.metrics.CoordinatorRunning.Set(1)
	defer c.metrics.CoordinatorRunning.Set(0)

	c.refresh(ctx)

	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("coordinator stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			c.refresh(ctx)
			c.dropPendingTick(ticker)
		}
	}
}

// dropPendingTick discards a tick that fired while the refresh was in
// flight, so a slow fetch is not followed by an immediate second one.
func (c *Coordinator) dropPendingTick(ticker clockwork.Ticker) {
	select {
	case <-ticker.Chan():
	default:
	}
}

// refresh runs one fetch cycle and records its outcome. On failure the
// previous snapshot is left untouched: stale-but-available data beats no
// data.
func (c *Coordinator) refresh(ctx context.Context) {
	c.logger.Debug("fetching pollen forecast", "lat", c.latitude, "lon", c.longitude)

	forecast, err := c.fetcher.FetchForecast(ctx, c.latitude, c.longitude, c.days)
	if err != nil {
		c.metrics.RefreshCycles.WithLabelValues("failure").Inc()
		c.logger.Error("pollen forecast refresh failed", "error", err)
		c.completeCycle(ctx, nil, fmt.Errorf("%w: %v", ErrUpdateFailed, err))
		return
	}

	c.metrics.RefreshCycles.WithLabelValues("success").Inc()
	c.metrics.LastRefreshTimestamp.Set(float64(c.clock.Now().Unix()))
	c.logForecast(forecast)
	c.recordIndexGauges(forecast)
	c.completeCycle(ctx, &forecast, nil)
}

// completeCycle publishes the cycle outcome: snapshot slot, error slot,
// readiness, and listener notification. A nil forecast means failure and
// leaves the snapshot alone.
func (c *Coordinator) completeCycle(ctx context.Context, forecast *domain.Forecast, err error) {
	c.mu.Lock()
	if forecast != nil {
		c.snapshot = forecast
		c.lastErr = nil
	} else {
		c.lastErr = err
	}
	c.ready = true
	current := c.snapshot
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, l := range listeners {
		l(ctx, current, err)
	}
}

// logForecast emits the diagnostic view of a fresh forecast: the first day's
// pollen types with their in-season flags and whether each carries index
// data. Purely informational.
func (c *Coordinator) logForecast(forecast domain.Forecast) {
	c.logger.Debug("got pollen forecast",
		"region", forecast.RegionCode, "days", len(forecast.DailyInfo))
	if len(forecast.DailyInfo) == 0 {
		return
	}
	today := forecast.DailyInfo[0]
	for code, info := range today.PollenTypes {
		c.logger.Debug("pollen type",
			"code", code,
			"in_season", info.InSeason,
			"has_index", info.IndexInfo != nil,
		)
	}
}

func (c *Coordinator) recordIndexGauges(forecast domain.Forecast) {
	for _, r := range forecast.Readouts() {
		if r.Index != nil {
			c.metrics.PollenIndex.WithLabelValues(r.Code).Set(float64(*r.Index))
		}
	}
}
