// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"
)

// legacyLocalePages are the pages that already existed when locales
// lived in the URL path. Only the English prefix survived in external
// links, so /en/download and friends still resolve.
var legacyLocalePages = []string{
	"download",
	"translations",
}

// NormalizeURL redirects requests whose path carries the legacy /en/
// prefix or a trailing slash (outside root) to the canonical form.
// Everything else passes through.
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	path := r.URL.Path

	if rest, ok := strings.CutPrefix(path, "/en/"); ok && isLegacyLocalePath(rest) {
		u := *r.URL
		u.Path = "/" + rest

		http.Redirect(w, r, u.String(), http.StatusMovedPermanently)

		return
	}

	if path != "/" && strings.HasSuffix(path, "/") {
		u := *r.URL
		u.Path = strings.TrimSuffix(path, "/")

		http.Redirect(w, r, u.String(), http.StatusPermanentRedirect)

		return
	}

	next.ServeHTTP(w, r)
}

// isLegacyLocalePath reports whether rest, the path after the /en/
// prefix, names a page that existed on the old static site. Matching
// stops at a path boundary so /en/downloads stays a 404.
func isLegacyLocalePath(rest string) bool {
	for _, page := range legacyLocalePages {
		if rest == page || strings.HasPrefix(rest, page+"/") {
			return true
		}
	}

	return false
}
