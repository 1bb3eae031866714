// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ParseURL parses urlStr, requiring both a scheme and a host. urlType
// names the URL in error messages ("canonical", "GitHub API"). Any
// trailing slash on the path is dropped so joins stay predictable.
func ParseURL(urlStr, urlType string) (*url.URL, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("parsing %s URL: %w", urlType, err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf(
			"%s URL %q needs both a scheme and a host, e.g. https://example.com", urlType, urlStr)
	}

	parsed.Path = strings.TrimSuffix(parsed.Path, "/")

	return parsed, nil
}

// fallback returns v, or the first default when v is empty.
func fallback(v string, def []string) string {
	if v != "" {
		return v
	}

	if len(def) > 0 {
		return def[0]
	}

	return ""
}

// GetQueryParam returns a query parameter, or the given default when
// the parameter is absent or empty.
func GetQueryParam(r *http.Request, name string, defaultValue ...string) string {
	return fallback(r.URL.Query().Get(name), defaultValue)
}

// GetFormValue returns a form field, or the given default when the
// field is absent or empty. The form is parsed on demand.
func GetFormValue(r *http.Request, name string, defaultValue ...string) string {
	if err := r.ParseForm(); err != nil {
		return fallback("", defaultValue)
	}

	return fallback(r.FormValue(name), defaultValue)
}

// GetOriginFromRequest reconstructs the request's origin as
// "scheme://host". X-Forwarded-Proto wins over the TLS state, since
// the usual deployment sits behind a reverse proxy.
func GetOriginFromRequest(r *http.Request) string {
	scheme := "http"

	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS != nil {
		scheme = "https"
	}

	return scheme + "://" + r.Host
}

// GetOriginFromURL returns "scheme://host" for u, or "" when either
// part is missing.
func GetOriginFromURL(u url.URL) string {
	if u.Scheme == "" || u.Host == "" {
		return ""
	}

	return u.Scheme + "://" + u.Host
}

// SanitizeReturnPath accepts only same-origin absolute-path references,
// guarding post-redirect flows against open redirects. Unsafe values
// come back empty; callers fall back to "/".
func SanitizeReturnPath(s string) string {
	s = strings.TrimSpace(s)

	if !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.Contains(s, "://") {
		return ""
	}

	return s
}
