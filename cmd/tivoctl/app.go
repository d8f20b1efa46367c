// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/ManuGH/tivoctl/internal/cache"
	"github.com/ManuGH/tivoctl/internal/config"
	"github.com/ManuGH/tivoctl/internal/device"
	xlog "github.com/ManuGH/tivoctl/internal/log"
	"github.com/ManuGH/tivoctl/internal/recordings"
	"github.com/ManuGH/tivoctl/internal/telemetry"
	"github.com/ManuGH/tivoctl/internal/tivo"
	"github.com/ManuGH/tivoctl/internal/version"
)

const shutdownTimeout = 5 * time.Second

// app carries the state shared by all subcommands of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath  string
	refresh     bool
	dumpMetrics bool

	cfg      config.Config
	logger   zerolog.Logger
	library  *recordings.Library
	registry *recordings.Registry

	cleanup []func(context.Context) error
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{stdin: stdin, stdout: stdout, stderr: stderr, logger: zerolog.Nop()}
}

// setup loads configuration and the catalog. It returns the context the
// command should run under.
func (a *app) setup(ctx context.Context) (context.Context, error) {
	cfg, err := config.NewLoader(a.configPath, version.Version).Load()
	if err != nil {
		return ctx, err
	}
	a.cfg = cfg

	xlog.Configure(xlog.Config{
		Level:   cfg.LogLevel,
		Output:  a.stderr,
		Service: "tivoctl",
		Version: version.Version,
		Console: isTerminal(a.stderr),
	})
	ctx = xlog.ContextWithCorrelationID(ctx, uuid.NewString())
	a.logger = xlog.WithComponent("cli")

	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "tivoctl",
		ServiceVersion: version.Version,
		Exporter:       cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return ctx, fmt.Errorf("init tracing: %w", err)
	}
	a.cleanup = append(a.cleanup, provider.Shutdown)

	if err := cfg.RequireDevice(); err != nil {
		return ctx, err
	}

	store, closer, err := cache.Open(ctx, cache.Options{
		Backend: cfg.Cache.Backend,
		Dir:     cfg.Cache.Dir,
		Redis: cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		},
	}, xlog.WithComponent("cache"))
	if err != nil {
		return ctx, fmt.Errorf("open cache: %w", err)
	}
	a.cleanup = append(a.cleanup, func(context.Context) error { return closer.Close() })

	client, err := device.NewClient(device.Options{
		Username:           cfg.Device.Username,
		Password:           cfg.Device.Password,
		Timeout:            cfg.Device.Timeout,
		InsecureSkipVerify: cfg.Device.InsecureSkipVerify,
		RateLimit:          cfg.Device.RateLimit,
		RateBurst:          cfg.Device.RateBurst,
		UserAgent:          cfg.Device.UserAgent,
	}, xlog.WithComponent("device"))
	if err != nil {
		return ctx, err
	}
	fetcher := device.NewFetcher(client, store, device.FetcherOptions{
		Address:       cfg.Device.Address,
		CatalogMaxAge: cfg.Cache.CatalogMaxAge,
		IgnoreExpiry:  cfg.Cache.IgnoreExpiry,
	}, xlog.WithComponent("fetcher"))

	lib, err := recordings.Load(ctx, fetcher, a.refresh, xlog.WithComponent("catalog"))
	if err != nil {
		return ctx, err
	}
	a.library = lib
	a.registry = recordings.NewRegistry(fetcher, tivo.Showing(cfg.Details.Showing), xlog.WithComponent("details"))
	return ctx, nil
}

// shutdown releases resources in reverse order of acquisition.
func (a *app) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		if err := a.cleanup[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.cleanup = nil
	return errors.Join(errs...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth is the column count of w, or 0 when w is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
