// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// readYAML merges a YAML configuration file into cfg. A missing file
// is skipped; any other read or parse failure is an error.
func (cfg *ServerConfig) readYAML(configFilePath string) error {
	if configFilePath == "" {
		return nil
	}

	raw, err := os.ReadFile(configFilePath) // #nosec G304 -- Only loading a config file
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info().
				Str("path", configFilePath).
				Msg("No YAML configuration file found, skipping")

			return nil
		}

		return fmt.Errorf("failed to read configuration file %s: %w", configFilePath, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML from %s: %w", configFilePath, err)
	}

	log.Info().
		Str("path", configFilePath).
		Msg("Successfully loaded configuration")

	return nil
}
