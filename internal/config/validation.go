// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ManuGH/tivoctl/internal/tivo"
)

// Validate checks the resolved configuration. A missing device address is
// not an error here; see RequireDevice.
func Validate(cfg Config) error {
	var errs []error

	if cfg.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
			errs = append(errs, fmt.Errorf("logLevel: %w", err))
		}
	}
	if cfg.Device.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("device.timeout must be positive, got %s", cfg.Device.Timeout))
	}
	if cfg.Device.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("device.rateLimit must not be negative, got %v", cfg.Device.RateLimit))
	}
	if cfg.Device.RateLimit > 0 && cfg.Device.RateBurst < 1 {
		errs = append(errs, fmt.Errorf("device.rateBurst must be at least 1 when rate limiting, got %d", cfg.Device.RateBurst))
	}

	switch cfg.Cache.Backend {
	case "file":
	case "redis":
		if cfg.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend: unsupported value %q (supported: file, redis)", cfg.Cache.Backend))
	}
	if cfg.Cache.CatalogMaxAge <= 0 {
		errs = append(errs, fmt.Errorf("cache.catalogMaxAge must be positive, got %s", cfg.Cache.CatalogMaxAge))
	}

	if !tivo.Showing(cfg.Details.Showing).Valid() {
		errs = append(errs, fmt.Errorf("details.showing: unsupported value %q (supported: %s, %s)",
			cfg.Details.Showing, tivo.ShowingActual, tivo.ShowingScheduled))
	}

	if cfg.Telemetry.Enabled {
		switch cfg.Telemetry.Exporter {
		case "grpc", "http":
		default:
			errs = append(errs, fmt.Errorf("telemetry.exporter: unsupported value %q (supported: grpc, http)", cfg.Telemetry.Exporter))
		}
		if cfg.Telemetry.SamplingRate < 0 || cfg.Telemetry.SamplingRate > 1 {
			errs = append(errs, fmt.Errorf("telemetry.samplingRate must be within [0, 1], got %v", cfg.Telemetry.SamplingRate))
		}
	}

	return errors.Join(errs...)
}

// RequireDevice reports whether the configuration can reach a device.
func (c Config) RequireDevice() error {
	if c.Device.Address == "" {
		return ErrMissingAddress
	}
	return nil
}
