package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultRefreshInterval replaces a non-positive refresh interval.
const DefaultRefreshInterval = 20 * time.Second

// Refresher keeps the newest curves warm in the cache.
type Refresher struct {
	cache    *CurveCache
	first    int
	interval time.Duration
	logger   *zap.Logger
}

// NewRefresher creates a refresher that reloads the newest first curves every
// interval. Intervals of zero or less fall back to DefaultRefreshInterval.
func NewRefresher(cache *CurveCache, first int, interval time.Duration, logger *zap.Logger) *Refresher {
	logger = logger.Named("curve-refresher")
	if interval <= 0 {
		logger.Warn("Invalid refresh interval, using default",
			zap.Duration("interval", interval),
			zap.Duration("default", DefaultRefreshInterval),
		)
		interval = DefaultRefreshInterval
	}
	return &Refresher{
		cache:    cache,
		first:    first,
		interval: interval,
		logger:   logger,
	}
}

// Run refreshes once immediately, then on every tick until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("Starting refresh loop", zap.Duration("interval", r.interval), zap.Int("curves", r.first))
	r.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Stopping refresh loop")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	curves, err := r.cache.Refresh(ctx, r.first)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("Refresh failed", zap.Error(err))
		}
		return
	}
	r.logger.Debug("Refreshed curves", zap.Int("count", len(curves)))
}
