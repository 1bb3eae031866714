// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"

	"github.com/mitchellh/go-server-timing"
)

// WithServerTiming puts a servertiming.Header into the request context
// so downstream code, the audit spans in particular, can report their
// durations in the Server-Timing response header.
func WithServerTiming(w http.ResponseWriter, r *http.Request, next http.Handler) {
	servertiming.Middleware(next, nil).ServeHTTP(w, r)
}
