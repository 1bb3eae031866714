// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
The website for Driftnote, a local-first markdown notes app.
*/
package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/driftnote/website/config"
	"codeberg.org/driftnote/website/core/audit"
	"codeberg.org/driftnote/website/core/repostats"
	"codeberg.org/driftnote/website/i18n"
	"codeberg.org/driftnote/website/server/assets"
	"codeberg.org/driftnote/website/server/router"
	"codeberg.org/driftnote/website/server/template"
)

// Server timeouts; a server without them fails gosec G112.
const (
	readHeaderTimeout = 15 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 30 * time.Second

	shutdownDeadline = 5 * time.Second
)

var (
	errChmodSocket = errors.New("could not set unix socket permissions")
	errChownSocket = errors.New("could not set unix socket ownership")
)

// embeddedContent holds the static assets and the locale catalogs.
//
//go:embed assets/css assets/icons assets/img assets/js assets/manifest.json assets/robots.txt
//go:embed all:locales
var embeddedContent embed.FS

//nolint:gochecknoinits // wires the embedded tree into the assets package
func init() {
	assets.FS = embeddedContent
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
}

// run brings the site up and blocks until a shutdown signal or a server
// error.
func run() error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if err := i18n.Setup(); err != nil {
		return fmt.Errorf("setting up localization: %w", err)
	}

	log.Info().Msg("Locales loaded")

	if err := template.LoadIcons("assets/icons"); err != nil {
		return fmt.Errorf("loading icon set: %w", err)
	}

	repostats.Setup()

	router := router.NewRouter()
	router.DefineRoutes()
	router.RegisterMiddleware()

	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	serveErr := make(chan error, 1)

	go func() {
		listener, err := newListener()
		if err != nil {
			serveErr <- err

			return
		}

		serveErr <- server.Serve(listener)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}

	case s := <-quit:
		log.Info().Str("signal", s.String()).Msg("Signal received, draining connections")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownDeadline)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown incomplete: %w", err)
		}
	}

	log.Info().Msg("Shutdown complete")

	return nil
}

// newListener opens the configured Unix domain socket when one is set,
// a TCP listener otherwise.
func newListener() (net.Listener, error) {
	if path := config.Global.Basic.UnixSocket; path != "" {
		listener, err := (&net.ListenConfig{}).Listen(context.Background(), "unix", path)
		if err != nil {
			return nil, fmt.Errorf("binding unix socket %v: %w", path, err)
		}

		if err := configureSocket(path); err != nil {
			_ = listener.Close()

			return nil, err
		}

		log.Info().Str("address", path).Msg("Accepting connections on unix socket")

		return listener, nil
	}

	addr := net.JoinHostPort(config.Global.Basic.Host, config.Global.Basic.Port)

	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("binding %v: %w", addr, err)
	}

	// Report the resolved address; the configured port may have been 0.
	addr = listener.Addr().String()

	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		_ = listener.Close()

		return nil, fmt.Errorf("resolving bound address %q: %w", addr, err)
	}

	log.Info().
		Str("address", addr).
		Str("port", port).
		Str("url", fmt.Sprintf("http://driftnote.localhost:%v/", port)).
		Msg("Accepting connections")

	return listener, nil
}

// configureSocket applies the configured ownership and permissions to a
// freshly bound Unix socket.
func configureSocket(path string) error {
	cfg := config.Global.Basic

	uid, gid := -1, -1

	var err error

	if cfg.UnixSocketUser != "" {
		if uid, err = resolveOwner(cfg.UnixSocketUser, "user"); err != nil {
			return err
		}
	}

	if cfg.UnixSocketGroup != "" {
		if gid, err = resolveOwner(cfg.UnixSocketGroup, "group"); err != nil {
			return err
		}
	}

	if uid != -1 || gid != -1 {
		if err := os.Chown(path, uid, gid); err != nil {
			return fmt.Errorf("%w: %w", errChownSocket, err)
		}
	}

	if err := os.Chmod(path, cfg.UnixSocketPermissions); err != nil {
		return fmt.Errorf("%w: %w", errChmodSocket, err)
	}

	return nil
}

// resolveOwner turns a user or group reference, numeric or by name,
// into an ID suitable for os.Chown. kind is "user" or "group".
func resolveOwner(value, kind string) (int, error) {
	if id, err := strconv.Atoi(value); err == nil {
		return id, nil
	}

	var raw string

	switch kind {
	case "user":
		u, err := user.Lookup(value)
		if err != nil {
			return -1, fmt.Errorf("failed to look up user %q: %w", value, err)
		}

		raw = u.Uid
	default:
		g, err := user.LookupGroup(value)
		if err != nil {
			return -1, fmt.Errorf("failed to look up group %q: %w", value, err)
		}

		raw = g.Gid
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return -1, fmt.Errorf("failed to parse %s ID %q for %q: %w", kind, raw, value, err)
	}

	return id, nil
}
