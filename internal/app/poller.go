package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/five82/rolo/internal/state"
)

const maxBackoff = 30 * time.Second

// StartRefresher launches a background goroutine that reloads the contact
// list every interval until ctx ends. Failed reloads back off and keep the
// contacts already loaded. A non-positive interval disables it.
func StartRefresher(ctx context.Context, actions *state.Actions, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	go refreshLoop(ctx, actions.FetchContacts, interval, logger)
}

func refreshLoop(ctx context.Context, fetch func(context.Context) error, interval time.Duration, logger *slog.Logger) {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		err := fetch(ctx)
		switch {
		case err == nil:
			failures = 0
		case errors.Is(err, state.ErrSuperseded), ctx.Err() != nil:
			// A newer read won; nothing failed.
		default:
			failures++
			logger.Warn("background refresh failed", "failures", failures, "error", err)
		}
		timer.Reset(calculateBackoff(failures, interval))
	}
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	if failures > 16 {
		failures = 16
	}
	d := base << failures
	if d > maxBackoff || d <= 0 {
		return max(maxBackoff, base)
	}
	return d
}
