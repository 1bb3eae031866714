// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	_ "codeberg.org/driftnote/website/core/audit" // setup better logging format
	"codeberg.org/driftnote/website/core/idgen"
)

// Global is the live server configuration. LoadConfig fills it once
// during startup; afterwards it is read-only.
var Global ServerConfig

// ServerConfig collects every tunable of the site, grouped by concern.
// Fields tagged yaml:"-" are derived during validation or at startup
// and never come from a config source directly.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"DRIFTNOTE_HOST,overwrite" yaml:"host"`
		Port                     string      `env:"DRIFTNOTE_PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"DRIFTNOTE_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"DRIFTNOTE_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
		UnixSocketUser           string      `env:"DRIFTNOTE_UNIXSOCKET_USER" yaml:"unixSocketUser"`
		UnixSocketGroup          string      `env:"DRIFTNOTE_UNIXSOCKET_GROUP" yaml:"unixSocketGroup"`
	} `yaml:"basic"`

	Site struct {
		RawCanonicalURL string  `env:"DRIFTNOTE_CANONICAL_URL,overwrite" yaml:"canonicalUrl"`
		CanonicalURL    url.URL `yaml:"-"` // Parsed form of RawCanonicalURL
	} `yaml:"site"`

	GitHub struct {
		Repo      string        `env:"DRIFTNOTE_GITHUB_REPO,overwrite" yaml:"repo"`
		RepoOwner string        `yaml:"-"` // Parsed from Repo
		RepoName  string        `yaml:"-"` // Parsed from Repo
		APIBase   string        `env:"DRIFTNOTE_GITHUB_API_BASE,overwrite" yaml:"apiBase"`
		Token     string        `env:"DRIFTNOTE_GITHUB_TOKEN" yaml:"token"`
		Timeout   time.Duration `env:"DRIFTNOTE_GITHUB_TIMEOUT,overwrite" yaml:"timeout"`
	} `yaml:"github"`

	Cache struct {
		Enabled     bool          `env:"DRIFTNOTE_CACHE,overwrite" yaml:"enabled"`
		Size        int           `env:"DRIFTNOTE_CACHE_SIZE,overwrite" yaml:"cacheSize"`
		TTL         time.Duration `env:"DRIFTNOTE_CACHE_TTL,overwrite" yaml:"cacheTTL"`
		Compression bool          `env:"DRIFTNOTE_CACHE_COMPRESSION,overwrite" yaml:"compression"`
	} `yaml:"cache"`

	HTTPCache struct {
		MaxAge               time.Duration `env:"DRIFTNOTE_CACHE_CONTROL_MAX_AGE,overwrite" yaml:"cacheControlMaxAge"`
		StaleWhileRevalidate time.Duration `env:"DRIFTNOTE_CACHE_CONTROL_STALE_WHILE_REVALIDATE,overwrite" yaml:"cacheControlStaleWhileRevalidate"`
	} `yaml:"httpCache"`

	Response struct {
		PreloadHints bool `env:"DRIFTNOTE_PRELOAD_HINTS,overwrite" yaml:"preloadHints"`
	} `yaml:"response"`

	Feature struct {
		ProjectStats      bool `env:"DRIFTNOTE_PROJECT_STATS,overwrite" yaml:"projectStats"`
		TranslationStatus bool `env:"DRIFTNOTE_TRANSLATION_STATUS,overwrite" yaml:"translationStatus"`
	} `yaml:"feature"`

	RateLimit struct {
		Enabled           bool `env:"DRIFTNOTE_RATE_LIMIT,overwrite" yaml:"enabled"`
		RequestsPerSecond int  `env:"DRIFTNOTE_RATE_LIMIT_RPS,overwrite" yaml:"requestsPerSecond"`
		Burst             int  `env:"DRIFTNOTE_RATE_LIMIT_BURST,overwrite" yaml:"burst"`
	} `yaml:"rateLimit"`

	Instance struct {
		StartingTime      string `yaml:"-"`
		FileServerCacheID string `yaml:"-"`
		RepoURL           string `env:"DRIFTNOTE_REPO_URL,overwrite" yaml:"repoUrl"`
	} `yaml:"instance"`

	Development struct {
		InDevelopment        bool   `env:"DRIFTNOTE_DEV" yaml:"inDevelopment"`
		SaveResponses        bool   `env:"DRIFTNOTE_SAVE_RESPONSES,overwrite" yaml:"saveResponses"`
		ResponseSaveLocation string `env:"DRIFTNOTE_RESPONSE_SAVE_LOCATION,overwrite" yaml:"responseSaveLocation"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"DRIFTNOTE_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"DRIFTNOTE_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"DRIFTNOTE_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Internationalization struct {
		// DefaultLocale is the reference locale everything else is
		// measured against.
		DefaultLocale string `env:"DRIFTNOTE_DEFAULT_LOCALE,overwrite" yaml:"defaultLocale"`

		// StrictMissingKeys makes fallbacks to the reference locale
		// loud: each one is logged once and the rendered text gets
		// wrapped in visible markers.
		StrictMissingKeys bool `env:"DRIFTNOTE_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"internationalization"`
}

// LoadConfig assembles the configuration. Defaults come first, then the
// YAML file, then environment variables on top, and the result is
// validated and applied to logging before the first request is served.
func (cfg *ServerConfig) LoadConfig() error {
	configFilePath := resolveConfigPath(parseCommandLineArgs())

	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.FileServerCacheID = idgen.Make()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := loadDotEnv(); err != nil {
		return fmt.Errorf("applying .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("reading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	// A container bound to loopback or a specific address is usually a
	// deployment mistake; nothing outside the container can connect.
	if isContainerized() && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running inside a container without a wildcard host ('0.0.0.0' or '::'); the service may be unreachable from outside")
	}

	return nil
}

// resolveConfigPath picks the config file location. An explicit -config
// flag wins, then the DRIFTNOTE_CONFIGFILE variable. Otherwise the
// flag's default applies, with ./config.yml accepted for setups that
// prefer the short extension.
func resolveConfigPath(flagValue string) string {
	explicit := false

	flag.Visit(func(f *flag.Flag) {
		explicit = explicit || f.Name == "config"
	})

	if explicit {
		return flagValue
	}

	if fromEnv := os.Getenv("DRIFTNOTE_CONFIGFILE"); fromEnv != "" {
		return fromEnv
	}

	if _, err := os.Stat(flagValue); os.IsNotExist(err) {
		if _, err := os.Stat("./config.yml"); err == nil {
			return "./config.yml"
		}
	}

	return flagValue
}

var quietPathPrefixes = []string{"/img/", "/css/", "/js/", "/icons/"}

// ShouldSkipServerLogging reports whether requests for path stay out of
// the request log. Every page load pulls a handful of static assets;
// logging them would drown out the requests that matter.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	return slices.ContainsFunc(quietPathPrefixes, func(prefix string) bool {
		return strings.HasPrefix(path, prefix)
	})
}

// isContainerized guesses whether the process runs inside a container.
// None of the signals is definitive on its own.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	for _, marker := range []string{"/.dockerenv", "/.containerenv"} {
		if _, err := os.Stat(marker); err == nil {
			return true
		}
	}

	// Container runtimes leave their name in the cgroup path; the
	// ".machine" slice covers systemd-nspawn.
	// #nosec G304 -- fixed procfs path
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}

	for _, runtime := range []string{"docker", "kubepods", "containerd", "lxc", "crio", ".machine"} {
		if strings.Contains(string(cgroup), runtime) {
			return true
		}
	}

	return false
}

// GetDurationEncoderOption makes the YAML encoder render durations in
// Go's own notation ("30m", "1h") instead of nanosecond integers.
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
