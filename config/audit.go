// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/driftnote/website/core/audit"
)

const (
	responseDirMode = 0o700
	logFileMode     = 0o666
)

var logLevels = map[string]zerolog.Level{
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
}

// setupAudit applies the logging configuration and wires response
// saving into the audit package.
func (cfg *ServerConfig) setupAudit() {
	// Development keeps the full debug stream regardless of the
	// configured level.
	if !cfg.Development.InDevelopment {
		if level, ok := logLevels[cfg.Log.Level]; ok {
			zerolog.SetGlobalLevel(level)
		}
	}

	var writers []io.Writer

	if len(cfg.Log.Outputs) == 0 {
		writers = append(writers, ConsoleWriter(os.Stderr))
	}

	for _, output := range cfg.Log.Outputs {
		if w, ok := cfg.openLogOutput(output); ok {
			writers = append(writers, w)
		}
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(writers...))

	audit.SaveResponses = cfg.Development.SaveResponses
	audit.ResponseDirectory = cfg.Development.ResponseSaveLocation

	if audit.SaveResponses {
		if err := os.MkdirAll(audit.ResponseDirectory, responseDirMode); err != nil {
			log.Error().
				Err(err).
				Str("path", audit.ResponseDirectory).
				Msg("Response save directory could not be created")
			os.Exit(1)
		}
	}
}

// openLogOutput maps a configured log output to a writer. Files carry
// JSON when the log format says so; the standard streams always get
// the console format.
func (cfg *ServerConfig) openLogOutput(output string) (io.Writer, bool) {
	switch output {
	case "/dev/stdout":
		return ConsoleWriter(os.Stdout), true
	case "/dev/stderr":
		return ConsoleWriter(os.Stderr), true
	}

	file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFileMode) // #nosec:G302,G304
	if err != nil {
		// Skip this output and keep the rest.
		fmt.Fprintf(os.Stderr, "Cannot open log file %s: %v\n", output, err)

		return nil, false
	}

	if cfg.Log.Format == "json" {
		return file, true
	}

	return ConsoleWriter(file), true
}

// ConsoleWriter wraps f in zerolog's console format, colored only when
// f is a terminal.
func ConsoleWriter(f *os.File) io.Writer {
	noColor := !isatty.IsTerminal(f.Fd())

	w := zerolog.ConsoleWriter{Out: f, TimeFormat: time.DateTime, NoColor: noColor}

	if !noColor {
		w.FormatPrepare = collapseRequestFields
	}

	return w
}

// collapseRequestFields folds the span fields of an HTTP log line into
// one message so interactive sessions stay readable.
func collapseRequestFields(m map[string]any) error {
	if sys, ok := m["sys"]; !ok || sys != "http" {
		return nil
	}

	m["message"] = fmt.Sprintf("[%s] %s %-5s %s",
		m["destination"], m["status_code"], m["method"], m["url"])

	for _, k := range []string{"sys", "method", "status_code", "url", "destination", "request_id"} {
		delete(m, k)
	}

	return nil
}
