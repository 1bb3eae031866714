// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"runtime/debug"
	"strings"
)

// BuildVersion is the latest tagged release of the Driftnote website.
const BuildVersion string = "v1.4.2"

// buildInfo carries the VCS stamp the Go toolchain embeds into the
// binary.
type buildInfo struct {
	VcsRevision string
	VcsTime     string
	VcsModified bool
}

// Revision renders the stamp as "YYYY-MM-DD-shortsha", appending
// "+dirty" for modified trees. Outside a VCS build it reports
// "unknown".
func (b *buildInfo) Revision() string {
	if b.VcsRevision == "" {
		return "unknown"
	}

	date, _, _ := strings.Cut(b.VcsTime, "T")

	rev := date + "-" + b.VcsRevision[:8]
	if b.VcsModified {
		rev += "+dirty"
	}

	return rev
}

func (b *buildInfo) load() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	settings := make(map[string]string, len(info.Settings))
	for _, kv := range info.Settings {
		settings[kv.Key] = kv.Value
	}

	b.VcsRevision = settings["vcs.revision"]
	b.VcsTime = settings["vcs.time"]
	b.VcsModified = settings["vcs.modified"] == "true"
}
