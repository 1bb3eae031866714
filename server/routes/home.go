// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/driftnote/website/assets/views"
)

// Home renders the landing page.
func Home(w http.ResponseWriter, r *http.Request) error {
	preloadPageAssets(w)

	return views.Home(views.HomeData{}).Render(r.Context(), w)
}
