// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package messages

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Load reads every locale file in dir and returns one Tree per locale,
// keyed by the file stem ("en.yaml" loads as "en", "pt_BR.toml" as "pt_BR").
//
// The format is picked by extension: .yaml/.yml, .toml, or .json. Files
// with other extensions are skipped so a stray README does not break
// loading. A parse failure in any locale file fails the whole load; a
// half-loaded locale set would silently misreport completeness later.
func Load(fsys fs.FS, dir string) (map[string]Tree, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read locales directory %s: %w", dir, err)
	}

	trees := make(map[string]Tree)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		ext := strings.ToLower(path.Ext(name))
		if !supportedExtension(ext) {
			continue
		}

		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale file %s: %w", name, err)
		}

		tree, err := Parse(data, ext)
		if err != nil {
			return nil, fmt.Errorf("failed to parse locale file %s: %w", name, err)
		}

		trees[strings.TrimSuffix(name, path.Ext(name))] = tree
	}

	return trees, nil
}

// Parse decodes one locale document into a normalized Tree. The ext
// argument selects the decoder and must include the leading dot.
func Parse(data []byte, ext string) (Tree, error) {
	var raw map[string]any

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported locale file format %q", ext)
	}

	return Normalize(raw), nil
}

func supportedExtension(ext string) bool {
	switch ext {
	case ".yaml", ".yml", ".toml", ".json":
		return true
	default:
		return false
	}
}
