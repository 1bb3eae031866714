// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/driftnote/website/config"
)

// setupRateLimit configures the limiter for a test and restores the previous
// configuration and limiter state afterwards. Tests using it mutate shared
// package state and must not run in parallel.
func setupRateLimit(t *testing.T, enabled bool, rps, burst int) {
	t.Helper()

	prev := config.Global.RateLimit
	t.Cleanup(func() {
		config.Global.RateLimit = prev
		limiters.Clear()
	})

	config.Global.RateLimit.Enabled = enabled
	config.Global.RateLimit.RequestsPerSecond = rps
	config.Global.RateLimit.Burst = burst
	limiters.Clear()
}

func rateLimitedOK(t *testing.T) http.HandlerFunc {
	t.Helper()

	return RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doRequest(handler http.HandlerFunc, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/api/stats", nil)
	req.RemoteAddr = remoteAddr

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}

func TestRateLimitDisabled(t *testing.T) {
	setupRateLimit(t, false, 1, 1)

	handler := rateLimitedOK(t)

	for range 10 {
		if rr := doRequest(handler, "203.0.113.5:1000"); rr.Code != http.StatusOK {
			t.Fatalf("expected all requests to pass when disabled, got %d", rr.Code)
		}
	}
}

func TestRateLimitAllowsBurst(t *testing.T) {
	setupRateLimit(t, true, 1, 3)

	handler := rateLimitedOK(t)

	for i := range 3 {
		if rr := doRequest(handler, "203.0.113.5:1000"); rr.Code != http.StatusOK {
			t.Fatalf("request %d within burst should pass, got %d", i+1, rr.Code)
		}
	}

	rr := doRequest(handler, "203.0.113.5:1000")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("request beyond burst should be limited, got %d", rr.Code)
	}

	if retryAfter := rr.Header().Get("Retry-After"); retryAfter == "" {
		t.Error("limited response should carry a Retry-After header")
	}
}

func TestRateLimitSharedAcrossNetwork(t *testing.T) {
	setupRateLimit(t, true, 1, 1)

	handler := rateLimitedOK(t)

	if rr := doRequest(handler, "203.0.113.5:1000"); rr.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rr.Code)
	}

	// A different address in the same /24 shares the bucket.
	if rr := doRequest(handler, "203.0.113.99:2000"); rr.Code != http.StatusTooManyRequests {
		t.Errorf("second request from the same network should be limited, got %d", rr.Code)
	}

	// A different network gets its own bucket.
	if rr := doRequest(handler, "198.51.100.9:3000"); rr.Code != http.StatusOK {
		t.Errorf("request from another network should pass, got %d", rr.Code)
	}
}

func TestAllowRefreshesLastAccess(t *testing.T) {
	setupRateLimit(t, true, 1, 1)

	wrapper := getOrCreateLimiter("203.0.113.0/24")

	fixed := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	prev := timeNow
	t.Cleanup(func() { timeNow = prev })

	timeNow = func() time.Time { return fixed }

	wrapper.allow()

	if !wrapper.lastAccess.Equal(fixed) {
		t.Errorf("allow() should refresh lastAccess, got %v want %v", wrapper.lastAccess, fixed)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wait     time.Duration
		expected string
	}{
		{0, "1"},
		{300 * time.Millisecond, "1"},
		{time.Second, "1"},
		{1200 * time.Millisecond, "2"},
		{5 * time.Second, "5"},
	}

	for _, tt := range tests {
		if got := retryAfterSeconds(tt.wait); got != tt.expected {
			t.Errorf("retryAfterSeconds(%v) = %q, want %q", tt.wait, got, tt.expected)
		}
	}
}
