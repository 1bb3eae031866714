// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/driftnote/website/assets/views"
	"codeberg.org/driftnote/website/config"
	"codeberg.org/driftnote/website/core/repostats"
	"codeberg.org/driftnote/website/server/utils"
)

// Stats serves the project statistics fragment that the home page loads
// asynchronously.
//
// Failures degrade to an "unavailable" fragment with a 200 so the home
// page keeps working when the GitHub API does not; the shared HTTP cache
// in front of the site absorbs most of the traffic either way.
func Stats(w http.ResponseWriter, r *http.Request) error {
	if !config.Global.Feature.ProjectStats {
		w.WriteHeader(http.StatusNotFound)

		return nil
	}

	timings := utils.NewTimings()

	start := time.Now()
	stats, err := repostats.DefaultClient.Stats(r.Context())
	timings.Append("github", time.Since(start), "GitHub API")
	timings.WriteHeaders(w)

	w.Header().Set("Cache-Control", fmt.Sprintf(
		"public, max-age=%d, stale-while-revalidate=%d",
		int(config.Global.HTTPCache.MaxAge.Seconds()),
		int(config.Global.HTTPCache.StaleWhileRevalidate.Seconds()),
	))

	if err != nil {
		log.Warn().
			Err(err).
			Msg("Failed to fetch project statistics")

		return views.StatsUnavailable().Render(r.Context(), w)
	}

	return views.ProjectStats(views.StatsData{Stats: stats}).Render(r.Context(), w)
}
