// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Timings accumulates Server-Timing metrics for one response. Safe for
// concurrent use, so handlers can measure work they fan out.
type Timings struct {
	mu      sync.Mutex
	metrics []string
}

func NewTimings() *Timings {
	return &Timings{}
}

// Append records a named measurement with a human-readable description.
func (t *Timings) Append(name string, d time.Duration, desc string) {
	metric := fmt.Sprintf("%s;dur=%.0f;desc=%q", name, float64(d.Milliseconds()), desc)

	t.mu.Lock()
	t.metrics = append(t.metrics, metric)
	t.mu.Unlock()
}

// WriteHeaders emits one Server-Timing header per measurement. Must run
// before the first body write.
func (t *Timings) WriteHeaders(w http.ResponseWriter) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, metric := range t.metrics {
		w.Header().Add("Server-Timing", metric)
	}
}
