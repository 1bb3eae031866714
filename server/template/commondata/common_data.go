// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package commondata

import (
	"net/http"
)

// PageCommonData holds the request-derived values every page shell
// needs. It is populated once per request and carried on the
// request_context.RequestContext.
type PageCommonData struct {
	// CurrentPath is the URL path of the request ("/translations"),
	// used for nav highlighting.
	CurrentPath string

	// CurrentPathWithParams is the request URI including the query
	// string, used as the return target after a locale switch.
	CurrentPathWithParams string
}

// PopulatePageCommonData fills data from the request.
func PopulatePageCommonData(r *http.Request, data *PageCommonData) {
	data.CurrentPath = r.URL.Path
	data.CurrentPathWithParams = r.URL.RequestURI()
}
