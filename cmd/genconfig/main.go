// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig regenerates the annotated example configuration
// files under deploy/ from the config struct and its defaults. Run it
// after adding or renaming a config field so the examples stay in step
// with the code.
package main

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/driftnote/website/config"
	"codeberg.org/driftnote/website/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/config.yaml.example"
	filePerm       = 0o644

	placeholderToken = "ghp_arstdhnei123456"

	envFileHeader = `# Driftnote website configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
# Refer to README.md for more information.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# Driftnote website configuration (via configuration file)
#
# Copy this file to config.yaml and customize the values below.
#
# Refer to README.md for more information.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
	proxySettingsComment = `
## Network proxy settings
## ref: https://pkg.go.dev/net/http#ProxyFromEnvironment
# HTTPS_PROXY=
# HTTP_PROXY=`

	tokenYAMLComment = `  # -- Optional personal access token; raises the GitHub API rate limit
  # ref: https://docs.github.com/en/rest/using-the-rest-api/rate-limits-for-the-rest-api`
)

func main() {
	audit.SetDefaultLogger()
	writeEnvExample()
	writeYAMLExample()
}

// writeEnvExample renders every env-tagged config field into
// deploy/.env.example, grouped under a heading per config section.
func writeEnvExample() {
	cfg := &config.ServerConfig{}
	cfg.SetDefaults()

	var b strings.Builder

	b.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	for i := range typ.NumField() {
		section := typ.Field(i)

		sectionVal := val.Field(i)
		// Build metadata comes from the binary, not from operators.
		if sectionVal.Kind() != reflect.Struct || section.Name == "Build" {
			continue
		}

		fmt.Fprintf(&b, "## %s\n", section.Name)

		fields := sectionVal.Type()
		for j := range fields.NumField() {
			tag, ok := fields.Field(j).Tag.Lookup("env")
			if !ok {
				continue
			}

			name, _, _ := strings.Cut(tag, ",")
			appendEnvVar(&b, name, sectionVal.Field(j))
		}

		b.WriteString("\n")
	}

	b.WriteString(strings.TrimSpace(proxySettingsComment) + "\n\n")

	if err := os.WriteFile(envOutputFile, []byte(b.String()), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", envOutputFile).Msg("Failed to write .env.example file")
	}

	log.Info().Str("path", envOutputFile).Msg("Successfully generated .env.example")
}

// appendEnvVar writes one example line. Host and port ship uncommented
// since nearly every deployment sets them; the token gets a commented
// placeholder; everything else is commented out, with the default shown
// unless it is empty.
func appendEnvVar(b *strings.Builder, name string, value reflect.Value) {
	switch name {
	case "DRIFTNOTE_GITHUB_TOKEN":
		fmt.Fprintf(b, "# %s=\"%s\"\n", name, placeholderToken)
	case "DRIFTNOTE_PORT", "DRIFTNOTE_HOST":
		fmt.Fprintf(b, "%s=\"%v\"\n", name, value.Interface())
	default:
		if value.Kind() == reflect.Slice || (value.Kind() == reflect.String && value.Len() == 0) {
			fmt.Fprintf(b, "# %s=\n", name)
		} else {
			fmt.Fprintf(b, "# %s=%v\n", name, value.Interface())
		}
	}
}

// writeYAMLExample marshals the default config and reworks it line by
// line into deploy/config.yaml.example.
func writeYAMLExample() {
	cfg := &config.ServerConfig{}
	cfg.SetDefaults()

	cfg.GitHub.Token = placeholderToken

	var marshaled strings.Builder

	opts := []yaml.EncodeOption{
		config.GetDurationEncoderOption(),
		yaml.Indent(2),
	}
	if err := yaml.NewEncoder(&marshaled, opts...).Encode(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	var b strings.Builder

	b.WriteString(yamlFileHeader)

	for line := range strings.SplitSeq(marshaled.String(), "\n") {
		appendYAMLLine(&b, line)
	}

	if err := os.WriteFile(yamlOutputFile, []byte(b.String()), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", yamlOutputFile).Msg("Failed to write config file")
	}

	log.Info().Str("path", yamlOutputFile).Msg("Successfully generated config.yaml.example")
}

// appendYAMLLine turns one marshaled line into template form. Top-level
// keys become section headers, the token keeps its explanatory comment
// and stays active, and every other setting is commented out at its
// original indentation.
func appendYAMLLine(b *strings.Builder, line string) {
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "":
	case !strings.HasPrefix(line, " "):
		fmt.Fprintf(b, "\n%s\n", line)
	case strings.HasPrefix(trimmed, "token:"):
		b.WriteString(tokenYAMLComment + "\n")
		b.WriteString(line + "\n")
	default:
		indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
		fmt.Fprintf(b, "%s# %s\n", indent, trimmed)
	}
}
