// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"testing"
)

// TestLoadConfig runs the whole load pipeline against a handful of
// environment setups, one valid and several that must be rejected.
// Subtests stay sequential because t.Setenv does not mix with
// t.Parallel.
func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name: "Valid configuration",
			env: map[string]string{
				"DRIFTNOTE_HOST": "localhost",
				"DRIFTNOTE_PORT": "8180",
			},
			wantErr: false,
		},
		{
			name: "Invalid DRIFTNOTE_CANONICAL_URL",
			env: map[string]string{
				"DRIFTNOTE_HOST":          "localhost",
				"DRIFTNOTE_PORT":          "8180",
				"DRIFTNOTE_CANONICAL_URL": "driftnote.app",
			},
			wantErr: true,
		},
		{
			name: "Invalid DRIFTNOTE_GITHUB_REPO",
			env: map[string]string{
				"DRIFTNOTE_HOST":        "localhost",
				"DRIFTNOTE_PORT":        "8180",
				"DRIFTNOTE_GITHUB_REPO": "not-a-repo-handle",
			},
			wantErr: true,
		},
		{
			name: "Invalid DRIFTNOTE_LOG_LEVEL",
			env: map[string]string{
				"DRIFTNOTE_HOST":      "localhost",
				"DRIFTNOTE_PORT":      "8180",
				"DRIFTNOTE_LOG_LEVEL": "verbose",
			},
			wantErr: true,
		},
		{
			name: "Invalid DRIFTNOTE_RATE_LIMIT_BURST",
			env: map[string]string{
				"DRIFTNOTE_HOST":             "localhost",
				"DRIFTNOTE_PORT":             "8180",
				"DRIFTNOTE_RATE_LIMIT_BURST": "0",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			config := &ServerConfig{}

			err := config.LoadConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)

				return
			}

			if tt.wantErr {
				return
			}

			if config.Basic.Host != tt.env["DRIFTNOTE_HOST"] {
				t.Errorf("LoadConfig() Host = %v, want %v", config.Basic.Host, tt.env["DRIFTNOTE_HOST"])
			}

			if config.Basic.Port != tt.env["DRIFTNOTE_PORT"] {
				t.Errorf("LoadConfig() Port = %v, want %v", config.Basic.Port, tt.env["DRIFTNOTE_PORT"])
			}

			if config.Site.CanonicalURL.String() == "" {
				t.Error("LoadConfig() canonical URL is empty")
			}

			if config.GitHub.RepoOwner != "driftnote" || config.GitHub.RepoName != "driftnote" {
				t.Errorf("LoadConfig() GitHub repo parsed as %s/%s, want driftnote/driftnote",
					config.GitHub.RepoOwner, config.GitHub.RepoName)
			}

			if config.Instance.FileServerCacheID == "" {
				t.Error("LoadConfig() FileServerCacheID is empty")
			}
		})
	}
}
