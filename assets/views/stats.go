// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"strings"
	"time"

	"github.com/a-h/templ"

	"codeberg.org/driftnote/website/core/repostats"
	"codeberg.org/driftnote/website/i18n"
	"codeberg.org/driftnote/website/server/template"
)

type StatsData struct {
	Stats repostats.Stats
}

// statCard pairs a stat label with its icon; the value is resolved per
// render.
type statCard struct {
	label i18n.MsgKey
	icon  string
	val   func(o repostats.Overview) int
}

var statCards = []statCard{
	{label: "stats.stars", icon: "star", val: func(o repostats.Overview) int { return o.Stars }},
	{label: "stats.forks", icon: "fork", val: func(o repostats.Overview) int { return o.Forks }},
	{label: "stats.open_issues", icon: "issue", val: func(o repostats.Overview) int { return o.OpenIssues }},
	{label: "stats.watchers", icon: "eye", val: func(o repostats.Overview) int { return o.Watchers }},
}

// ProjectStats renders the repository statistics fragment that the home
// page loads asynchronously. It is a bare fragment without the page shell.
func ProjectStats(data StatsData) templ.Component {
	return component(func(ctx context.Context, b *builder) {
		b.raw(`<div class="stats-grid">`)

		for _, card := range statCards {
			b.raw(`<div class="stat-card">`)
			b.raw(template.RenderIcon(card.icon, "stat-icon"))
			b.raw(`<strong class="stat-value"`)
			b.attr("title", template.PrettyNumber(card.val(data.Stats.Overview)))
			b.raw(">")
			b.text(template.AbbrevInt(card.val(data.Stats.Overview)))
			b.raw("</strong><span>")
			b.text(card.label.Tr(ctx))
			b.raw("</span></div>")
		}

		b.raw("</div>")

		if release := data.Stats.LatestRelease; release != nil {
			writeReleaseSummary(ctx, b, release)
		}

		writeContributors(ctx, b, data.Stats.Contributors)

		b.raw(`<p class="stats-refreshed">`)
		b.text(i18n.Tr(ctx, "stats.refreshed"))
		b.raw(" ")
		writeRelativeTime(b, data.Stats.FetchedAt)
		b.raw("</p>")
	})
}

// StatsUnavailable renders the fragment shown when the repository API
// cannot be reached.
func StatsUnavailable() templ.Component {
	return component(func(ctx context.Context, b *builder) {
		b.raw(`<p class="stats-unavailable">`)
		b.text(i18n.Tr(ctx, "stats.unavailable"))
		b.raw("</p>")
	})
}

func writeReleaseSummary(ctx context.Context, b *builder, release *repostats.Release) {
	b.raw(`<p class="stats-release">`)
	b.text(i18n.Tr(ctx, "stats.latest_release", "Tag", release.Tag))
	b.raw(" ")
	writeRelativeTime(b, release.PublishedAt)

	if release.Downloads > 0 {
		b.raw(" <span>")
		b.text(i18n.Tr(ctx, "stats.total_downloads", "Count", template.PrettyNumber(release.Downloads)))
		b.raw("</span>")
	}

	b.raw("</p>")
}

func writeContributors(ctx context.Context, b *builder, contributors []repostats.Contributor) {
	if len(contributors) == 0 {
		return
	}

	b.raw(`<h3 class="contributors-title">`)
	b.text(i18n.Tr(ctx, "stats.contributors"))
	b.raw("</h3>")
	b.raw(`<ul class="contributors">`)

	for _, c := range contributors {
		b.raw("<li><a rel=\"noopener\"")
		b.attr("href", c.ProfileURL)
		b.attr("title", c.Login)
		b.raw("><img")
		b.attr("src", c.AvatarURL)
		b.attr("alt", c.Login)
		b.raw(` width="48" height="48" loading="lazy"></a></li>`)
	}

	b.raw("</ul>")
}

// writeRelativeTime renders a “3 hours ago” style timestamp with the exact
// time in the title attribute.
func writeRelativeTime(b *builder, t time.Time) {
	rel := template.RelativeTime(t)

	b.raw("<time")
	b.attr("datetime", t.Format(time.RFC3339))
	b.attr("title", template.NaturalTime(t))
	b.raw(">")
	b.text(strings.TrimSpace(rel.Value + " " + rel.Description + " " + rel.Time))
	b.raw("</time>")
}
