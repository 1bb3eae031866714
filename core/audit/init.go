// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package audit instruments HTTP traffic in both directions, feeding the
runtime tracer, the Server-Timing response header, and the structured
log.
*/
package audit

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetDefaultLogger installs a readable console logger for the window
// between process start and configuration load.
func SetDefaultLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
