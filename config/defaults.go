// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	defaultCacheTTLMinutes                      = 15
	defaultHTTPCacheMaxAgeSeconds               = 300
	defaultHTTPCacheStaleWhileRevalidateSeconds = 600
	defaultGitHubTimeoutSeconds                 = 10
)

// SetDefaults fills cfg with values that produce a working local
// server with no config file at all. Every source applied later
// overrides these.
func (cfg *ServerConfig) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8180"

	cfg.Site.RawCanonicalURL = "https://driftnote.app"

	cfg.GitHub.Repo = "driftnote/driftnote"
	cfg.GitHub.APIBase = "https://api.github.com"
	cfg.GitHub.Timeout = defaultGitHubTimeoutSeconds * time.Second

	cfg.Cache.Enabled = true
	cfg.Cache.Size = 100
	cfg.Cache.TTL = defaultCacheTTLMinutes * time.Minute
	cfg.Cache.Compression = false

	cfg.HTTPCache.MaxAge = defaultHTTPCacheMaxAgeSeconds * time.Second
	cfg.HTTPCache.StaleWhileRevalidate = defaultHTTPCacheStaleWhileRevalidateSeconds * time.Second

	cfg.Response.PreloadHints = true

	cfg.Feature.ProjectStats = true
	cfg.Feature.TranslationStatus = true

	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RequestsPerSecond = 1
	cfg.RateLimit.Burst = 5

	cfg.Instance.RepoURL = "https://github.com/driftnote/driftnote"

	cfg.Development.SaveResponses = false
	cfg.Development.ResponseSaveLocation = "/tmp/driftnote/responses"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Internationalization.DefaultLocale = "en"
	cfg.Internationalization.StrictMissingKeys = false
}
