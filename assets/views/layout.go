// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"time"

	"codeberg.org/driftnote/website/config"
	"codeberg.org/driftnote/website/i18n"
	"codeberg.org/driftnote/website/server/template"
)

// document wraps a page body in the full HTML shell with head metadata
// and the site header and footer.
func document(title string, body renderFunc) renderFunc {
	return func(ctx context.Context, b *builder) {
		b.raw("<!doctype html>\n")
		b.raw("<html")
		b.attr("lang", i18n.TagFrom(ctx).String())
		b.raw(">\n")
		writeHead(ctx, b, title)
		b.raw("<body>\n")
		writeHeader(ctx, b)
		b.raw(`<main id="main">` + "\n")
		body(ctx, b)
		b.raw("</main>\n")
		writeFooter(ctx, b)
		b.raw("</body>\n</html>\n")
	}
}

func writeHeader(ctx context.Context, b *builder) {
	b.raw(`<header class="site-header"><nav class="site-nav"`)
	b.attr("aria-label", i18n.Tr(ctx, "nav.label"))
	b.raw(">")

	b.raw(`<a class="brand" href="/">`)
	b.raw(template.RenderIcon("logo", "brand-icon"))
	b.raw("<span>")
	b.text(i18n.Tr(ctx, "site.name"))
	b.raw("</span></a>")

	b.raw("<ul>")
	writeNavLink(ctx, b, "/", "nav.home")
	writeNavLink(ctx, b, "/download", "nav.download")

	if config.Global.Feature.TranslationStatus {
		writeNavLink(ctx, b, "/translations", "nav.translations")
	}

	b.raw("</ul>")

	b.raw(`<a class="repo-link" rel="noopener"`)
	b.attr("href", config.Global.Instance.RepoURL)
	b.attr("aria-label", i18n.Tr(ctx, "nav.github"))
	b.raw(">")
	b.raw(template.RenderIcon("github", "nav-icon"))
	b.raw("</a>")

	b.raw("</nav></header>\n")
}

func writeNavLink(ctx context.Context, b *builder, href string, label i18n.MsgKey) {
	current := commonData(ctx).CurrentPath

	active := current == href || (href != "/" && template.IsFirstPathPart(current, href))

	b.raw("<li><a")
	b.attr("href", href)

	if active {
		b.attr("aria-current", "page")
	}

	b.raw(">")
	b.text(label.Tr(ctx))
	b.raw("</a></li>")
}

func writeFooter(ctx context.Context, b *builder) {
	cd := commonData(ctx)

	b.raw(`<footer class="site-footer">` + "\n")

	b.raw(`<form class="locale-picker" method="post" action="/locale">`)
	b.raw(`<label for="locale-select">`)
	b.text(i18n.Tr(ctx, "footer.language"))
	b.raw("</label>")
	b.raw(`<select id="locale-select" name="lang">`)

	// "auto" clears the stored choice and falls back to Accept-Language.
	b.raw(`<option value="auto">`)
	b.text(i18n.Tr(ctx, "footer.language_auto"))
	b.raw("</option>")

	current := i18n.TagFrom(ctx).String()
	for _, tag := range i18n.Languages() {
		s := tag.String()

		b.raw("<option")
		b.attr("value", s)

		if s == current {
			b.raw(" selected")
		}

		b.raw(">")
		b.text(i18n.LanguageName(s))
		b.raw("</option>")
	}

	b.raw("</select>")
	b.raw(`<input type="hidden" name="return"`)
	b.attr("value", cd.CurrentPathWithParams)
	b.raw(">")
	b.raw(`<button type="submit">`)
	b.text(i18n.Tr(ctx, "footer.apply"))
	b.raw("</button></form>\n")

	b.raw(`<p class="footer-meta">`)
	b.raw("<span>")
	b.text(i18n.Tr(ctx, "footer.copyright", "Year", time.Now().Year()))
	b.raw(`</span> <a rel="noopener"`)
	b.attr("href", config.Global.Instance.RepoURL+"/blob/main/LICENSE")
	b.raw(">AGPL-3.0-only</a> ")
	b.raw(`<span class="version">`)
	b.text(i18n.Tr(ctx, "footer.version", "Version", config.BuildVersion, "Revision", config.Global.Build.Revision()))
	b.raw("</span></p>\n")

	b.raw("</footer>\n")
}
