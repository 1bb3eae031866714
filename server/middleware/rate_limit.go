// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"codeberg.org/driftnote/website/config"
)

const (
	// limiterExpiryDuration is how long to keep idle limiters in memory before cleanup.
	limiterExpiryDuration = time.Hour

	// cleanupInterval is the interval between limiter cleanup runs.
	cleanupInterval = 5 * time.Minute
)

var (
	limiters sync.Map   // In-memory storage for rate limiters, keyed by network.
	timeNow  = time.Now // Wrapper for time.Now, which allows us to mock it in tests.

	cleanupOnce sync.Once
)

// limiterWrapper holds a rate limiter and additional metadata.
//
// Limiters are associated with an IP network and persist in the limiters sync.Map.
type limiterWrapper struct {
	limiter    *rate.Limiter
	lastAccess time.Time  // Last time limiter was accessed
	mu         sync.Mutex // mutex for operations on this limiter
}

// allow consumes one token and refreshes the access timestamp. When the
// bucket is empty it reports the wait until the next token instead.
func (lw *limiterWrapper) allow() (bool, time.Duration) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	lw.lastAccess = timeNow()

	reservation := lw.limiter.Reserve()
	if delay := reservation.Delay(); delay > 0 {
		// Not taking the token after all.
		reservation.Cancel()

		return false, delay
	}

	return true, 0
}

// RateLimit applies a per-network token bucket to the wrapped handler.
//
// Clients sharing an IP network (see networkKey) also share a limiter, so a
// scraper rotating addresses within one subnet doesn't get a fresh bucket
// per address. Disabled via config, in which case requests pass through.
func RateLimit(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !config.Global.RateLimit.Enabled {
			next.ServeHTTP(w, r)

			return
		}

		cleanupOnce.Do(func() {
			go cleanupLoop()
		})

		if ok, wait := getOrCreateLimiter(networkKey(r)).allow(); !ok {
			w.Header().Set("Retry-After", retryAfterSeconds(wait))
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)

			return
		}

		next.ServeHTTP(w, r)
	}
}

// getOrCreateLimiter returns the limiter for a network, creating it with
// the configured rate and burst on first sight.
func getOrCreateLimiter(network string) *limiterWrapper {
	if value, ok := limiters.Load(network); ok {
		return value.(*limiterWrapper)
	}

	wrapper := &limiterWrapper{
		limiter:    rate.NewLimiter(rate.Limit(config.Global.RateLimit.RequestsPerSecond), config.Global.RateLimit.Burst),
		lastAccess: timeNow(),
	}

	actual, _ := limiters.LoadOrStore(network, wrapper)

	return actual.(*limiterWrapper)
}

// cleanupLoop periodically discards limiters that haven't been used for
// limiterExpiryDuration.
func cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := timeNow().Add(-limiterExpiryDuration)

		limiters.Range(func(key, value any) bool {
			wrapper, ok := value.(*limiterWrapper)
			if !ok {
				limiters.Delete(key)

				return true
			}

			wrapper.mu.Lock()
			expired := wrapper.lastAccess.Before(cutoff)
			wrapper.mu.Unlock()

			if expired {
				limiters.Delete(key)
			}

			return true
		})
	}
}

// retryAfterSeconds formats a duration for the Retry-After header, always
// rounding up so clients never retry early.
func retryAfterSeconds(d time.Duration) string {
	seconds := int(d.Seconds())
	if d > time.Duration(seconds)*time.Second {
		seconds++
	}

	if seconds < 1 {
		seconds = 1
	}

	return strconv.Itoa(seconds)
}
