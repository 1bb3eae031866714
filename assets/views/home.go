// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"

	"github.com/a-h/templ"

	"codeberg.org/driftnote/website/config"
	"codeberg.org/driftnote/website/i18n"
	"codeberg.org/driftnote/website/server/template"
)

type HomeData struct {
	Title string
}

// feature pairs the message keys of one selling point with its icon.
//
// Keys are typed as [i18n.MsgKey] so cmd/i18n_check finds them.
type feature struct {
	title i18n.MsgKey
	body  i18n.MsgKey
	icon  string
}

var features = []feature{
	{title: "home.features.local_first.title", body: "home.features.local_first.body", icon: "notebook"},
	{title: "home.features.markdown.title", body: "home.features.markdown.body", icon: "markdown"},
	{title: "home.features.sync.title", body: "home.features.sync.body", icon: "sync"},
	{title: "home.features.offline.title", body: "home.features.offline.body", icon: "offline"},
}

func Home(data HomeData) templ.Component {
	return component(document(data.Title, func(ctx context.Context, b *builder) {
		writeHero(ctx, b)
		writeFeatures(ctx, b)
		writeCommunity(ctx, b)
	}))
}

func writeHero(ctx context.Context, b *builder) {
	b.raw(`<section class="hero">`)
	b.raw("<h1>")
	b.text(i18n.Tr(ctx, "home.hero.title"))
	b.raw("</h1><p>")
	b.text(i18n.Tr(ctx, "home.hero.subtitle"))
	b.raw("</p>")

	b.raw(`<div class="hero-actions">`)
	b.raw(`<a class="button primary" href="/download">`)
	b.text(i18n.Tr(ctx, "home.hero.cta"))
	b.raw("</a>")
	b.raw(`<a class="button" rel="noopener"`)
	b.attr("href", config.Global.Instance.RepoURL)
	b.raw(">")
	b.text(i18n.Tr(ctx, "home.hero.secondary"))
	b.raw("</a></div>")

	b.raw("</section>\n")
}

func writeFeatures(ctx context.Context, b *builder) {
	b.raw(`<section class="features">`)
	b.raw("<h2>")
	b.text(i18n.Tr(ctx, "home.features.title"))
	b.raw("</h2>")
	b.raw(`<div class="feature-grid">`)

	for _, f := range features {
		b.raw(`<article class="feature">`)
		b.raw(template.RenderIcon(f.icon, "feature-icon"))
		b.raw("<h3>")
		b.text(f.title.Tr(ctx))
		b.raw("</h3><p>")
		b.text(f.body.Tr(ctx))
		b.raw("</p></article>")
	}

	b.raw("</div></section>\n")
}

func writeCommunity(ctx context.Context, b *builder) {
	b.raw(`<section class="community">`)
	b.raw("<h2>")
	b.text(i18n.Tr(ctx, "home.community.title"))
	b.raw("</h2><p>")
	b.text(i18n.Tr(ctx, "home.community.body"))
	b.raw("</p>")

	if config.Global.Feature.ProjectStats {
		// stats.js swaps the placeholder for the /api/stats fragment.
		b.raw(`<div id="project-stats" data-stats-url="/api/stats">`)
		b.raw(`<p class="stats-loading">`)
		b.text(i18n.Tr(ctx, "home.community.stats_loading"))
		b.raw("</p></div>")
	}

	b.raw("</section>\n")
}
