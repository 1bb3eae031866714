// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

// The code in this file redirects URLs from the old static site to ours.
//
// Add more redirects in (*Router).DefineRoutes

package router

import (
	"net/http"
)

// redirectStatic is a helper function to redirect requests for a legacy
// .html page to its current path, preserving any query parameters.
//
// Example:   /download.html?lang=de   ->   /download?lang=de
func redirectStatic(targetPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := targetPath
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}

		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	}
}
