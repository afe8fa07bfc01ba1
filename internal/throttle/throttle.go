// Package throttle spaces out calls to rate-limited collaborators.
package throttle

import (
	"time"

	"golang.org/x/time/rate"
)

// Every returns a limiter that admits one event per interval. The first
// event passes immediately. A non-positive interval disables throttling.
func Every(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
