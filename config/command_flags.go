// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "flag"

// parseCommandLineArgs returns the value of the -config flag, defining
// it first unless another package (the test binary, usually) already
// has.
func parseCommandLineArgs() string {
	var configFilePath string

	if flag.Lookup("config") == nil {
		flag.StringVar(&configFilePath, "config", "./config.yaml",
			"Path to a Driftnote website configuration file in YAML format.")
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	return configFilePath
}
