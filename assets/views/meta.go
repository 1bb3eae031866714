// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"net/url"

	"codeberg.org/driftnote/website/config"
	"codeberg.org/driftnote/website/i18n"
	"codeberg.org/driftnote/website/server/utils"
)

// writeHead emits page metadata: title, description, canonical and hreflang
// links, icons, Open Graph and Twitter cards, and the oEmbed discovery link.
//
// Canonical URLs are built from the configured site URL rather than the
// request host, so pages served through a proxy still advertise the
// public address.
func writeHead(ctx context.Context, b *builder, title string) {
	cd := commonData(ctx)

	origin := utils.GetOriginFromURL(config.Global.Site.CanonicalURL)
	canonical := origin + cd.CurrentPath
	description := i18n.Tr(ctx, "site.description")
	fullTitle := pageTitle(ctx, title)

	b.raw("<head>\n")
	b.raw(`<meta charset="utf-8">` + "\n")
	b.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")

	b.raw("<title>")
	b.text(fullTitle)
	b.raw("</title>\n")

	b.raw(`<meta name="description"`)
	b.attr("content", description)
	b.raw(">\n")

	b.raw(`<meta name="theme-color" content="#1f6f54">` + "\n")

	b.raw(`<link rel="canonical"`)
	b.attr("href", canonical)
	b.raw(">\n")

	// Locale selection is query-driven, so alternates point at the same
	// path with an explicit lang parameter.
	for _, tag := range i18n.Languages() {
		s := tag.String()

		b.raw(`<link rel="alternate"`)
		b.attr("hreflang", s)
		b.attr("href", canonical+"?"+i18n.LangParam+"="+s)
		b.raw(">\n")
	}

	b.raw(`<link rel="alternate" hreflang="x-default"`)
	b.attr("href", canonical)
	b.raw(">\n")

	b.raw(`<link rel="icon" href="/img/logo.svg" type="image/svg+xml">` + "\n")
	b.raw(`<link rel="manifest" href="/manifest.json">` + "\n")
	b.raw(`<link rel="stylesheet" href="/css/site.css">` + "\n")
	b.raw(`<script src="/js/stats.js" defer></script>` + "\n")

	b.raw(`<meta property="og:type" content="website">` + "\n")
	b.raw(`<meta property="og:title"`)
	b.attr("content", fullTitle)
	b.raw(">\n")
	b.raw(`<meta property="og:description"`)
	b.attr("content", description)
	b.raw(">\n")
	b.raw(`<meta property="og:url"`)
	b.attr("content", canonical)
	b.raw(">\n")
	b.raw(`<meta property="og:site_name"`)
	b.attr("content", i18n.Tr(ctx, "site.name"))
	b.raw(">\n")
	b.raw(`<meta property="og:image"`)
	b.attr("content", origin+"/img/logo.svg")
	b.raw(">\n")
	b.raw(`<meta name="twitter:card" content="summary">` + "\n")

	b.raw(`<link rel="alternate" type="application/json+oembed"`)
	b.attr("href", origin+"/oembed?url="+url.QueryEscape(canonical))
	b.attr("title", fullTitle)
	b.raw(">\n")

	b.raw("</head>\n")
}

// pageTitle joins a page title with the site name, or falls back to the
// name and tagline on pages without one.
func pageTitle(ctx context.Context, title string) string {
	site := i18n.Tr(ctx, "site.name")

	if title == "" || title == site {
		return site + " - " + i18n.Tr(ctx, "site.tagline")
	}

	return title + " - " + site
}
