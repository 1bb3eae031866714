// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"

	"github.com/a-h/templ"

	"codeberg.org/driftnote/website/config"
	"codeberg.org/driftnote/website/core/repostats"
	"codeberg.org/driftnote/website/i18n"
	"codeberg.org/driftnote/website/server/template"
)

// DownloadData feeds the download page. Release is nil when the repository
// has no published release or the lookup failed; the page then falls back
// to a plain link to the releases listing.
type DownloadData struct {
	Title   string
	Release *repostats.Release
}

// platform is one downloadable target listed on the page. The install
// command is shell text and stays untranslated.
type platform struct {
	label   i18n.MsgKey
	icon    string
	command string
}

var platforms = []platform{
	{label: "download.platforms.linux", icon: "download", command: "flatpak install flathub app.driftnote.Driftnote"},
	{label: "download.platforms.macos", icon: "download", command: "brew install --cask driftnote"},
	{label: "download.platforms.windows", icon: "download", command: "winget install Driftnote.Driftnote"},
}

func Download(data DownloadData) templ.Component {
	return component(document(data.Title, func(ctx context.Context, b *builder) {
		releasesURL := config.Global.Instance.RepoURL + "/releases/latest"

		b.raw(`<section class="download">`)
		b.raw("<h1>")
		b.text(data.Title)
		b.raw("</h1>")

		if data.Release != nil {
			writeRelease(ctx, b, data.Release, releasesURL)
		} else {
			b.raw(`<p class="no-release">`)
			b.text(i18n.Tr(ctx, "download.no_release"))
			b.raw("</p>")
			b.raw(`<a class="button primary" rel="noopener"`)
			b.attr("href", releasesURL)
			b.raw(">")
			b.text(i18n.Tr(ctx, "download.source"))
			b.raw("</a>")
		}

		b.raw("</section>\n")

		writePlatforms(ctx, b)
	}))
}

func writeRelease(ctx context.Context, b *builder, release *repostats.Release, releasesURL string) {
	name := release.Name
	if name == "" {
		name = release.Tag
	}

	b.raw(`<div class="latest-release">`)
	b.raw("<h2>")
	b.text(i18n.Tr(ctx, "download.latest", "Name", name))
	b.raw("</h2>")

	b.raw(`<dl class="release-facts">`)

	b.raw("<dt>")
	b.text(i18n.Tr(ctx, "download.published"))
	b.raw("</dt><dd>")
	writeRelativeTime(b, release.PublishedAt)
	b.raw("</dd>")

	b.raw("<dt>")
	b.text(i18n.Tr(ctx, "download.downloads"))
	b.raw("</dt><dd>")
	b.text(template.PrettyNumber(release.Downloads))
	b.raw("</dd>")

	b.raw("</dl>")

	b.raw(`<a class="button primary" rel="noopener"`)
	b.attr("href", releasesURL)
	b.raw(">")
	b.text(i18n.Tr(ctx, "download.get", "Tag", release.Tag))
	b.raw("</a>")

	b.raw("</div>")
}

func writePlatforms(ctx context.Context, b *builder) {
	b.raw(`<section class="platforms">`)
	b.raw("<h2>")
	b.text(i18n.Tr(ctx, "download.platforms.title"))
	b.raw("</h2><ul>")

	for _, p := range platforms {
		b.raw("<li>")
		b.raw(`<span class="platform-name">`)
		b.raw(template.RenderIcon(p.icon, "platform-icon"))
		b.text(p.label.Tr(ctx))
		b.raw("</span>")
		b.raw(`<code class="install-command">`)
		b.text(p.command)
		b.raw("</code>")
		b.raw("</li>")
	}

	b.raw("</ul></section>\n")
}
