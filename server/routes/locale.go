// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"
	"time"

	"codeberg.org/driftnote/website/i18n"
	"codeberg.org/driftnote/website/server/utils"
)

// SameSite=Lax allows the cookie on top-level navigations, so a visitor
// arriving from an external link still sees the site in their chosen language.
const localeCookieSameSite = http.SameSiteLaxMode

// The locale choice expires a year from when it is set.
const localeCookieMaxAge = 365 * 24 * time.Hour

// Clear the cookie by setting its expiration date to this.
var localeCookieExpireDelete = time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC)

// SetLocale handles the footer language picker form. It persists the chosen
// locale in a cookie and sends the visitor back to the page they came from.
// The special value "auto" clears the cookie so the Accept-Language header
// decides again.
func SetLocale(w http.ResponseWriter, r *http.Request) error {
	lang := utils.GetFormValue(r, i18n.LangParam)

	switch {
	case lang == "auto":
		http.SetCookie(w, localeCookie(r, "", localeCookieExpireDelete))
	case isSupportedLocale(lang):
		http.SetCookie(w, localeCookie(r, lang, time.Now().Add(localeCookieMaxAge)))
	default:
		return i18n.NewUserError(r.Context(), "error.invalid_locale", "Locale", lang)
	}

	returnPath := utils.SanitizeReturnPath(utils.GetFormValue(r, "return"))
	if returnPath == "" {
		returnPath = "/"
	}

	http.Redirect(w, r, returnPath, http.StatusSeeOther)

	return nil
}

func localeCookie(r *http.Request, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     i18n.LangCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		Secure:   utils.IsConnectionSecure(r),
		HttpOnly: true,
		SameSite: localeCookieSameSite,
	}
}

func isSupportedLocale(lang string) bool {
	for _, tag := range i18n.Languages() {
		if tag.String() == lang {
			return true
		}
	}

	return false
}
