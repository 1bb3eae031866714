// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"codeberg.org/driftnote/website/i18n"
	"codeberg.org/driftnote/website/server/utils"
)

// BaseOEmbed carries the fields shared by every oEmbed response type.
//
//nolint:tagliatelle
type BaseOEmbed struct {
	Type         string `json:"type"`
	Title        string `json:"title"`
	Version      string `json:"version"`
	ProviderName string `json:"provider_name"`
	ProviderURL  string `json:"provider_url"`
}

// LinkOEmbed is the "link" response type, the only one the site emits.
type LinkOEmbed struct {
	BaseOEmbed
}

// Oembed answers oEmbed discovery requests for site pages. Every page embeds
// as a plain link with its localized title.
func Oembed(w http.ResponseWriter, r *http.Request) error {
	if format := utils.GetQueryParam(r, "format", "json"); format != "json" {
		http.Error(w, "Only the json format is supported.", http.StatusNotImplemented)

		return nil
	}

	rawURL := utils.GetQueryParam(r, "url", "")
	if rawURL == "" {
		http.Error(w, "Missing url parameter", http.StatusBadRequest)

		return nil
	}

	target, err := url.Parse(rawURL)
	if err != nil {
		http.Error(w, "Invalid url parameter", http.StatusBadRequest)

		return nil
	}

	linkData := LinkOEmbed{
		BaseOEmbed: BaseOEmbed{
			Type:         "link",
			Title:        oembedTitle(r.Context(), target.Path),
			Version:      "1.0",
			ProviderName: "Driftnote",
			ProviderURL:  utils.GetOriginFromRequest(r),
		},
	}

	// application/json+oembed belongs on the discovery <link> element
	// only; the response itself is plain application/json.
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if err := json.NewEncoder(w).Encode(linkData); err != nil {
		return fmt.Errorf("failed to encode link oEmbed response: %w", err)
	}

	return nil
}

// oembedTitle mirrors the <title> of the embedded page.
func oembedTitle(ctx context.Context, path string) string {
	site := i18n.Tr(ctx, "site.name")

	var key string

	switch {
	case strings.HasPrefix(path, "/download"):
		key = "download.title"
	case strings.HasPrefix(path, "/translations"):
		key = "translations.title"
	default:
		return site + " - " + i18n.Tr(ctx, "site.tagline")
	}

	return i18n.Tr(ctx, key) + " - " + site
}
