// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/driftnote/website/server/utils"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errUnixSocketUserDoesNotExist   = errors.New("user does not exist")
	errUnixSocketGroupDoesNotExist  = errors.New("group does not exist")
	errInvalidGitHubRepo            = errors.New("GitHub.Repo must be in owner/name format")
	errInvalidCacheSize             = errors.New("Cache.Size must be positive when the cache is enabled")
	errInvalidRateLimit             = errors.New("RateLimit.RequestsPerSecond and RateLimit.Burst must be positive when rate limiting is enabled")
	errInvalidLogLevel              = errors.New("invalid Log.Level value")
	errInvalidLogFormat             = errors.New("invalid Log.Format value")
	errEmptyDefaultLocale           = errors.New("Internationalization.DefaultLocale cannot be empty")
)

var (
	fileModeOctalRegexp  = regexp.MustCompile(`^0?[0-7]{3}$`)
	fileModeStringRegexp = regexp.MustCompile(`^(?:[r-][w-][x-]){3}$`)
	digitsRegexp         = regexp.MustCompile(`^[0-9]+$`)
	githubRepoRegexp     = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)
)

// validateAndSet checks the assembled configuration for mistakes and
// fills the derived fields, parsed URLs and socket permissions among
// them. It runs once, after all sources have been applied.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	canonicalURL, err := utils.ParseURL(cfg.Site.RawCanonicalURL, "canonical site")
	if err != nil {
		return fmt.Errorf("invalid canonical URL: %w", err)
	}

	cfg.Site.CanonicalURL = *canonicalURL

	if !githubRepoRegexp.MatchString(cfg.GitHub.Repo) {
		return fmt.Errorf("%w, got %q", errInvalidGitHubRepo, cfg.GitHub.Repo)
	}

	cfg.GitHub.RepoOwner, cfg.GitHub.RepoName, _ = strings.Cut(cfg.GitHub.Repo, "/")

	apiBase, err := utils.ParseURL(cfg.GitHub.APIBase, "GitHub API")
	if err != nil {
		return fmt.Errorf("invalid GitHub API base URL: %w", err)
	}

	cfg.GitHub.APIBase = strings.TrimSuffix(apiBase.String(), "/")

	repoURL, err := utils.ParseURL(cfg.Instance.RepoURL, "Repo")
	if err != nil {
		return fmt.Errorf("invalid repo URL: %w", err)
	}

	cfg.Instance.RepoURL = repoURL.String()

	if cfg.Cache.Enabled && cfg.Cache.Size <= 0 {
		return errInvalidCacheSize
	}

	if cfg.RateLimit.Enabled &&
		(cfg.RateLimit.RequestsPerSecond <= 0 || cfg.RateLimit.Burst <= 0) {
		return errInvalidRateLimit
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	if strings.TrimSpace(cfg.Internationalization.DefaultLocale) == "" {
		return errEmptyDefaultLocale
	}

	return nil
}

// validateListener settles how the server will listen. A unix socket
// excludes host and port; a TCP listener gets localhost:8180 for
// whatever half is missing.
func (cfg *ServerConfig) validateListener() error {
	if cfg.Basic.UnixSocket == "" {
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = "localhost"
			log.Info().
				Str("host", cfg.Basic.Host).
				Msg("No host configured, falling back to localhost")
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = "8180"
			log.Info().
				Str("port", cfg.Basic.Port).
				Msg("No port configured, falling back to the default")
		}

		return nil
	}

	if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
		return errUnixSocketWithHostPort
	}

	mode, err := parseSocketPermissions(cfg.Basic.RawUnixSocketPermissions)
	if err != nil {
		return err
	}

	cfg.Basic.UnixSocketPermissions = mode

	if v := cfg.Basic.UnixSocketUser; v != "" {
		if !userExists(v) {
			return errUnixSocketUserDoesNotExist
		}
	}

	if v := cfg.Basic.UnixSocketGroup; v != "" {
		if !groupExists(v) {
			return errUnixSocketGroupDoesNotExist
		}
	}

	return nil
}

// parseSocketPermissions accepts octal notation ("660", "0660") and the
// ls-style "rw-rw----" form. Empty means world-accessible, matching
// what a plain net.Listen would create.
func parseSocketPermissions(raw string) (os.FileMode, error) {
	switch {
	case raw == "":
		return 0o666, nil

	case fileModeOctalRegexp.MatchString(raw):
		bits, _ := strconv.ParseUint(raw, 8, 32)

		return os.FileMode(bits), nil

	case fileModeStringRegexp.MatchString(raw):
		var mode os.FileMode

		// "rwxrwxrwx" maps onto the low nine mode bits, most
		// significant first.
		for i, c := range raw {
			if c != '-' {
				mode |= 1 << (8 - i)
			}
		}

		return mode, nil

	default:
		return 0, errUnixSocketInvalidPermissions
	}
}

// userExists resolves value as a uid when numeric, as a username
// otherwise.
func userExists(value string) bool {
	var err error
	if digitsRegexp.MatchString(value) {
		_, err = user.LookupId(value)
	} else {
		_, err = user.Lookup(value)
	}

	return err == nil
}

// groupExists resolves value as a gid when numeric, as a group name
// otherwise.
func groupExists(value string) bool {
	var err error
	if digitsRegexp.MatchString(value) {
		_, err = user.LookupGroupId(value)
	} else {
		_, err = user.LookupGroup(value)
	}

	return err == nil
}
