// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		requestURL       string
		expectedStatus   int
		expectedLocation string
	}{
		{
			name:           "Root path passes through",
			requestURL:     "/",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Clean path passes through",
			requestURL:     "/download",
			expectedStatus: http.StatusOK,
		},
		{
			name:             "Trailing slash redirects",
			requestURL:       "/download/",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/download",
		},
		{
			name:             "Legacy en prefix redirects for download",
			requestURL:       "/en/download",
			expectedStatus:   http.StatusMovedPermanently,
			expectedLocation: "/download",
		},
		{
			name:             "Legacy en prefix redirects for translations",
			requestURL:       "/en/translations",
			expectedStatus:   http.StatusMovedPermanently,
			expectedLocation: "/translations",
		},
		{
			name:           "En prefix on an unknown page passes through",
			requestURL:     "/en/about",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Bare /en passes through",
			requestURL:     "/en",
			expectedStatus: http.StatusOK,
		},
		{
			name:             "Trailing slash redirect keeps the query",
			requestURL:       "/translations/?lang=de",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/translations?lang=de",
		},
		{
			name:             "En prefix redirect keeps the query",
			requestURL:       "/en/download?lang=de",
			expectedStatus:   http.StatusMovedPermanently,
			expectedLocation: "/download?lang=de",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, tt.requestURL, nil)
			w := httptest.NewRecorder()

			Wrap(NormalizeURL, next).ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if location := w.Header().Get("Location"); location != tt.expectedLocation {
				t.Errorf("Expected location %q, got %q", tt.expectedLocation, location)
			}
		})
	}
}

func TestIsLegacyLocalePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rest     string
		expected bool
	}{
		{"download", true},
		{"translations", true},
		{"download/", true},
		{"about", false},
		{"downloads", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run("en/"+tt.rest, func(t *testing.T) {
			t.Parallel()

			if got := isLegacyLocalePath(tt.rest); got != tt.expected {
				t.Errorf("isLegacyLocalePath(%q) = %v, expected %v", tt.rest, got, tt.expected)
			}
		})
	}
}
