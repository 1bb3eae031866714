// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"strings"

	"codeberg.org/driftnote/website/config"
)

// githubAvatarsURL is allowed as an image source because the
// contributor list hot-links GitHub avatars.
const githubAvatarsURL = "https://avatars.githubusercontent.com"

var (
	// defaultHeaders are set on every response. Driftnote-Version and
	// Driftnote-Revision join them per-request in SetResponseHeaders.
	//
	// CORP and HSTS are left to the reverse proxy, which knows whether
	// TLS terminates in front of us.
	defaultHeaders = http.Header{
		"Referrer-Policy":         {"no-referrer"},
		"X-Frame-Options":         {"DENY"},
		"X-Content-Type-Options":  {"nosniff"},
		"Permissions-Policy":      {strings.Join(deniedBrowserFeatures, ", ")},
		"Content-Security-Policy": {strings.Join(cspDirectives, "; ") + ";"},
		"X-Powered-By":            {"plain text files"},
	}

	// cspDirectives is the site's Content-Security-Policy. The site
	// serves no third-party scripts, so everything except avatar images
	// is 'self'.
	cspDirectives = []string{
		"base-uri 'self'",
		"default-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"font-src 'self'",
		"connect-src 'self'",
		"frame-ancestors 'none'",
		"script-src 'self'",
		"img-src 'self' data: " + githubAvatarsURL,
		"form-action 'self'",
	}

	// deniedBrowserFeatures lists every Permissions-Policy feature the
	// site opts out of, which is all of them.
	deniedBrowserFeatures = []string{
		"accelerometer=()",
		"ambient-light-sensor=()",
		"battery=()",
		"camera=()",
		"display-capture=()",
		"document-domain=()",
		"encrypted-media=()",
		"execution-while-not-rendered=()",
		"execution-while-out-of-viewport=()",
		"geolocation=()",
		"gyroscope=()",
		"magnetometer=()",
		"microphone=()",
		"midi=()",
		"payment=()",
		"publickey-credentials-get=()",
		"screen-wake-lock=()",
		"sync-xhr=()",
		"usb=()",
		"web-share=()",
		"xr-spatial-tracking=()",
	}
)

// SetResponseHeaders applies the security and caching headers to every
// response.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(defaultHeaders))

	if config.Global.Development.InDevelopment {
		clearBrowserCacheOnce(headers)
	}

	headers.Set("Cache-Control", cacheControlFor(r.URL.Path))
	headers.Set("Driftnote-Version", config.BuildVersion)
	headers.Set("Driftnote-Revision", config.Global.Build.Revision())

	next.ServeHTTP(w, r)
}

var pendingCacheClear = true

// clearBrowserCacheOnce asks the browser to drop its cache on the first
// response of a development run, so edits show up without hard reloads.
func clearBrowserCacheOnce(headers http.Header) {
	if !pendingCacheClear {
		return
	}

	pendingCacheClear = false
	headers.Set("Clear-Site-Data", "cache")
}

// cacheControlFor picks a Cache-Control value by path. Pages always
// revalidate; static assets cache for longer the less often they
// change.
func cacheControlFor(path string) string {
	switch {
	case strings.HasPrefix(path, "/icons/"):
		// A month; the icon set is effectively frozen.
		return "max-age=2592000"

	case strings.HasPrefix(path, "/img/"):
		// Two weeks.
		return "max-age=1209600"

	case strings.HasPrefix(path, "/js/"), strings.HasPrefix(path, "/css/"):
		// A week; these change with most deployments.
		return "max-age=604800"

	case strings.HasSuffix(path, ".txt"), strings.HasSuffix(path, ".json"):
		// A day, for robots.txt and manifest.json.
		return "max-age=86400"

	default:
		return "private, no-cache"
	}
}
