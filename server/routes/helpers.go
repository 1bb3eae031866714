// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"fmt"
	"net/http"
	"strings"

	"codeberg.org/driftnote/website/config"
)

// pageAssetLinks preloads the assets every full page needs; computed once
// since the list never changes at runtime.
var pageAssetLinks = []string{
	makePreloadLink("/css/site.css", "style"),
	makePreloadLink("/js/stats.js", "script"),
}

// preloadPageAssets collects the Link header fragments for the page's shared
// assets and writes them as a single "Link" header value.
func preloadPageAssets(w http.ResponseWriter) {
	if !config.Global.Response.PreloadHints {
		return
	}

	// Only write a single Link header, joined by commas (RFC 8288 friendly).
	// We use Add to not interfere with any prior Link header writes.
	w.Header().Add("Link", strings.Join(pageAssetLinks, ", "))
}

// makePreloadLink returns a Link header fragment to preload an asset.
func makePreloadLink(url, asType string) string {
	return fmt.Sprintf("<%s>; rel=\"preload\"; as=%q", url, asType)
}
