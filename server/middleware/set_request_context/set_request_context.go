// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package set_request_context sits in its own package so the
// middleware chain can depend on request_context without a cycle.
package set_request_context

import (
	"net/http"

	"codeberg.org/driftnote/website/server/request_context"
)

// WithRequestContext attaches a fresh RequestContext, locale included,
// to every request before it reaches the handlers.
func WithRequestContext(w http.ResponseWriter, r *http.Request, next http.Handler) {
	next.ServeHTTP(w, r.WithContext(request_context.WithRequestContext(r.Context(), r)))
}
