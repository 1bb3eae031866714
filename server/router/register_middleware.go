// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/driftnote/website/server/middleware"
	"codeberg.org/driftnote/website/server/middleware/set_request_context"
)

// RegisterMiddleware assembles the site-wide chain. Order matters:
// Server-Timing must wrap everything it measures, URL normalization
// redirects before any per-request state is built, and the request
// context has to exist before headers or handlers look at it.
func (router *Router) RegisterMiddleware() {
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.NormalizeURL)
	router.Use(set_request_context.WithRequestContext)
	router.Use(middleware.SetResponseHeaders)
}
