// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var allEnvKeys = []string{
	EnvLogLevel, EnvAddress, EnvUsername, EnvPassword, EnvNetrc, EnvInsecure,
	EnvTimeout, EnvRateLimit, EnvRateBurst, EnvUserAgent, EnvCacheBackend,
	EnvCacheDir, EnvCatalogMaxAge, EnvCacheIgnoreExpiry, EnvRedisAddr,
	EnvRedisPassword, EnvRedisDB, EnvRedisPrefix, EnvShowing,
	EnvTracingEnabled, EnvTracingExporter, EnvTracingEndpoint, EnvTracingSampling,
}

// clearEnv blanks every TIVO_* variable; empty values read as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allEnvKeys {
		t.Setenv(k, "")
	}
}

func newTestLoader(path string) *Loader {
	l := NewLoader(path, "test")
	l.netrcPath = func() string { return "" }
	return l
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := newTestLoader("").Load()
	if err != nil {
		t.Fatalf("expected defaults to validate, got: %v", err)
	}
	if cfg.Version != "test" {
		t.Errorf("expected Version=test, got %s", cfg.Version)
	}
	if cfg.Device.Username != "tivo" {
		t.Errorf("expected default username tivo, got %s", cfg.Device.Username)
	}
	if !cfg.Device.InsecureSkipVerify {
		t.Error("expected InsecureSkipVerify to default to true")
	}
	if cfg.Cache.CatalogMaxAge != 30*time.Minute {
		t.Errorf("expected CatalogMaxAge=30m, got %s", cfg.Cache.CatalogMaxAge)
	}
	if cfg.Cache.Backend != "file" || cfg.Cache.Redis.Prefix != "tivo:" {
		t.Errorf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if cfg.Details.Showing != "vActualShowing" {
		t.Errorf("expected vActualShowing, got %s", cfg.Details.Showing)
	}
	if err := cfg.RequireDevice(); !errors.Is(err, ErrMissingAddress) {
		t.Errorf("expected ErrMissingAddress, got %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	cfg, err := newTestLoader(filepath.Join("testdata", "valid.yaml")).Load()
	if err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel=info, got %s", cfg.LogLevel)
	}
	d := cfg.Device
	if d.Address != "192.168.1.20" || d.Password != "0123456789" {
		t.Errorf("unexpected device: %+v", d)
	}
	if d.InsecureSkipVerify {
		t.Error("explicit insecureSkipVerify: false must override the default")
	}
	if d.Timeout != 10*time.Second || d.RateLimit != 2 || d.RateBurst != 1 {
		t.Errorf("unexpected device tuning: %+v", d)
	}
	if cfg.Cache.Dir != "/var/cache/tivo" || cfg.Cache.CatalogMaxAge != 15*time.Minute || !cfg.Cache.IgnoreExpiry {
		t.Errorf("unexpected cache: %+v", cfg.Cache)
	}
	if cfg.Details.Showing != "showing" {
		t.Errorf("expected showing, got %s", cfg.Details.Showing)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.Exporter != "http" || cfg.Telemetry.SamplingRate != 0.5 {
		t.Errorf("unexpected telemetry: %+v", cfg.Telemetry)
	}
	if err := cfg.RequireDevice(); err != nil {
		t.Errorf("expected device to be configured, got %v", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAddress, "tivo.lan")
	t.Setenv(EnvCatalogMaxAge, "1h")
	t.Setenv(EnvInsecure, "yes")
	t.Setenv(EnvRateBurst, "not-a-number")

	cfg, err := newTestLoader(filepath.Join("testdata", "valid.yaml")).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Device.Address != "tivo.lan" {
		t.Errorf("expected env address, got %s", cfg.Device.Address)
	}
	if cfg.Cache.CatalogMaxAge != time.Hour {
		t.Errorf("expected 1h, got %s", cfg.Cache.CatalogMaxAge)
	}
	if !cfg.Device.InsecureSkipVerify {
		t.Error("expected TIVO_INSECURE=yes to win")
	}
	if cfg.Device.RateBurst != 1 {
		t.Errorf("malformed env must keep the file value, got %d", cfg.Device.RateBurst)
	}
}

func TestLoad_NormalizesAddress(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAddress, "https://tivo.lan:443/")

	cfg, err := newTestLoader("").Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Device.Address != "tivo.lan:443" {
		t.Errorf("expected authority only, got %s", cfg.Device.Address)
	}

	t.Setenv(EnvAddress, "https://tivo.lan/TiVoConnect")
	if _, err := newTestLoader("").Load(); err == nil {
		t.Error("expected an address with a path to be rejected")
	}
}

func TestLoad_UnknownKeyFails(t *testing.T) {
	clearEnv(t)

	_, err := newTestLoader(filepath.Join("testdata", "unknown-key.yaml")).Load()
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !errors.Is(err, ErrUnknownConfigField) {
		t.Errorf("expected ErrUnknownConfigField, got %v", err)
	}
}

func TestLoad_MultipleDocumentsFail(t *testing.T) {
	clearEnv(t)

	_, err := newTestLoader(filepath.Join("testdata", "multi-doc.yaml")).Load()
	if err == nil || !strings.Contains(err.Error(), "multiple documents") {
		t.Fatalf("expected multiple documents error, got %v", err)
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := newTestLoader(filepath.Join("testdata", "empty.yaml")).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Cache.CatalogMaxAge != DefaultCatalogMaxAge {
		t.Errorf("expected default max age, got %s", cfg.Cache.CatalogMaxAge)
	}
}

func TestLoad_RejectsNonYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := newTestLoader(path).Load(); err == nil || !strings.Contains(err.Error(), "only YAML") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cache:\n  catalogMaxAge: soon\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := newTestLoader(path).Load()
	if err == nil || !strings.Contains(err.Error(), "cache.catalogMaxAge") {
		t.Fatalf("expected catalogMaxAge error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad backend", mutate: func(c *Config) { c.Cache.Backend = "badger" }, wantErr: "cache.backend"},
		{name: "redis without addr", mutate: func(c *Config) { c.Cache.Backend = "redis" }, wantErr: "cache.redis.addr"},
		{name: "bad showing", mutate: func(c *Config) { c.Details.Showing = "element" }, wantErr: "details.showing"},
		{name: "zero max age", mutate: func(c *Config) { c.Cache.CatalogMaxAge = 0 }, wantErr: "catalogMaxAge"},
		{name: "zero timeout", mutate: func(c *Config) { c.Device.Timeout = 0 }, wantErr: "device.timeout"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "logLevel"},
		{name: "bad exporter", mutate: func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Exporter = "zipkin"
		}, wantErr: "telemetry.exporter"},
		{name: "exporter ignored when disabled", mutate: func(c *Config) { c.Telemetry.Exporter = "zipkin" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
