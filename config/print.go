// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

const redactedValue = "[redacted]"

// print logs the version banner and dumps the effective configuration
// as YAML on stderr, with the GitHub token redacted.
func (cfg *ServerConfig) print() {
	log.Info().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Str("cacheid", cfg.Instance.FileServerCacheID).
		Msg("Starting the Driftnote website")

	// A shallow copy is enough; only a string field changes.
	printable := *cfg
	if printable.GitHub.Token != "" {
		printable.GitHub.Token = redactedValue
	}

	configYAML, err := yaml.MarshalWithOptions(printable, GetDurationEncoderOption())
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Info().Msg("Application configuration:")
	fmt.Fprintln(os.Stderr, string(configYAML))
}
