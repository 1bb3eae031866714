// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/driftnote/website/assets/views"
	"codeberg.org/driftnote/website/config"
	"codeberg.org/driftnote/website/core/repostats"
	"codeberg.org/driftnote/website/i18n"
)

// Download renders the download page. The latest release is looked up
// server-side; when the lookup fails the page still renders with a plain
// link to the releases listing.
func Download(w http.ResponseWriter, r *http.Request) error {
	preloadPageAssets(w)

	var release *repostats.Release

	if config.Global.Feature.ProjectStats {
		var err error

		release, err = repostats.DefaultClient.LatestRelease(r.Context())
		if err != nil {
			log.Warn().
				Err(err).
				Msg("Failed to fetch the latest release, rendering the fallback")
		}
	}

	pageData := views.DownloadData{
		Title:   i18n.Tr(r.Context(), "download.title"),
		Release: release,
	}

	return views.Download(pageData).Render(r.Context(), w)
}
