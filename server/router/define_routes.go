// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"codeberg.org/driftnote/website/config"
	"codeberg.org/driftnote/website/server/assets"
	"codeberg.org/driftnote/website/server/middleware"
	"codeberg.org/driftnote/website/server/routes"
)

// DefineRoutes registers every route of the site on the router's mux.
// Middleware is attached separately by RegisterMiddleware.
func (router *Router) DefineRoutes() {
	static := staticHandler()

	// Single files served from the top of the embedded assets tree.
	router.Handle("GET /manifest.json", static)
	router.Handle("GET /robots.txt", static)

	// Asset directories; a trailing "/" makes the pattern match the
	// whole subtree.
	router.Handle("GET /img/", static)
	router.Handle("GET /css/", static)
	router.Handle("GET /js/", static)
	router.Handle("GET /icons/", static)

	// Pages. The .html twins cover links to the retired static site.
	router.HandleFunc("GET /download", middleware.CatchError(routes.Download))
	router.HandleFunc("GET /download.html", redirectStatic("/download"))

	router.HandleFunc("GET /translations", middleware.CatchError(routes.Translations))
	router.HandleFunc("GET /translations.html", redirectStatic("/translations"))

	// The footer language form posts here.
	router.HandleFunc("POST /locale", middleware.CatchError(routes.SetLocale))

	router.HandleFunc("GET /oembed", middleware.CatchError(routes.Oembed))

	// JSON endpoints sit behind the rate limiter; they are the only
	// routes that can trigger outbound GitHub traffic.
	router.HandleFunc("GET /api/stats", middleware.RateLimit(middleware.CatchError(routes.Stats)))
	router.HandleFunc("GET /api/translations", middleware.RateLimit(middleware.CatchError(routes.TranslationsAPI)))

	// "/{$}" matches the root path and nothing below it.
	router.HandleFunc("GET /{$}", middleware.CatchError(routes.Home))
	router.HandleFunc("GET /index.html", redirectStatic("/"))

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}
}

// staticHandler serves the embedded assets tree with caching headers.
func staticHandler() http.HandlerFunc {
	content, err := fs.Sub(assets.FS, "assets")
	if err != nil {
		panic(fmt.Errorf("embedded assets tree is missing its 'assets' directory: %w", err))
	}

	files := http.FileServer(http.FS(content))

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "max-age=3600")
		// Embedded files only change with a new binary, so a strong
		// ETag minted once per process is exact: clients revalidate
		// cheaply between deployments and refetch after one.
		w.Header().Set("ETag", config.Global.Instance.FileServerCacheID)
		files.ServeHTTP(w, r)
	}
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func registerDebugRoutes(router *Router) {
	if err := flightRecorder.Start(); err != nil {
		panic(err)
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, r *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
