// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	platformnet "github.com/ManuGH/tivoctl/internal/platform/net"
	"github.com/ManuGH/tivoctl/internal/tivo"
)

// Defaults applied before the file and environment.
const (
	DefaultUsername      = "tivo"
	DefaultTimeout       = 30 * time.Second
	DefaultCatalogMaxAge = 30 * time.Minute
	DefaultRateLimit     = 4.0
	DefaultRateBurst     = 4
	DefaultUserAgent     = "tivoctl"
	DefaultRedisPrefix   = "tivo:"
	DefaultShowing       = string(tivo.ShowingActual)
	DefaultExporter      = "grpc"
	DefaultEndpoint      = "localhost:4317"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath string
	version    string
	netrcPath  func() string
}

// NewLoader creates a new configuration loader. An empty configPath skips
// the file layer.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath: configPath,
		version:    version,
		netrcPath:  defaultNetrcPath,
	}
}

// Load loads configuration with precedence: ENV > File > Defaults, then
// fills missing credentials from netrc and validates the result.
func (l *Loader) Load() (Config, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}

	mergeEnvConfig(&cfg)
	cfg.Version = l.version

	if cfg.Device.Address != "" {
		addr, err := platformnet.DeviceAuthority(cfg.Device.Address)
		if err != nil {
			return cfg, fmt.Errorf("config validation failed: device.address: %w", err)
		}
		cfg.Device.Address = addr
	}

	if err := l.applyNetrc(&cfg); err != nil {
		return cfg, err
	}

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		LogLevel: "warn",
		Device: DeviceConfig{
			Username:           DefaultUsername,
			InsecureSkipVerify: true,
			Timeout:            DefaultTimeout,
			RateLimit:          DefaultRateLimit,
			RateBurst:          DefaultRateBurst,
			UserAgent:          DefaultUserAgent,
		},
		Cache: CacheConfig{
			Backend:       "file",
			CatalogMaxAge: DefaultCatalogMaxAge,
			Redis:         RedisConfig{Prefix: DefaultRedisPrefix},
		},
		Details: DetailsConfig{Showing: DefaultShowing},
		Telemetry: TelemetryConfig{
			Exporter:     DefaultExporter,
			Endpoint:     DefaultEndpoint,
			SamplingRate: 1.0,
		},
	}
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields will cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return parseFile(data)
}

func parseFile(data []byte) (*FileConfig, error) {
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	// Strict: Ensure no multiple documents or trailing content
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return &fileCfg, nil
}

func mergeFileConfig(dst *Config, src *FileConfig) error {
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}

	d := src.Device
	if d.Address != "" {
		dst.Device.Address = expandEnv(d.Address)
	}
	if d.Username != "" {
		dst.Device.Username = expandEnv(d.Username)
	}
	if d.Password != "" {
		dst.Device.Password = expandEnv(d.Password)
	}
	if d.Netrc != "" {
		dst.Device.Netrc = expandHome(expandEnv(d.Netrc))
	}
	if d.InsecureSkipVerify != nil {
		dst.Device.InsecureSkipVerify = *d.InsecureSkipVerify
	}
	if d.Timeout != "" {
		t, err := time.ParseDuration(d.Timeout)
		if err != nil {
			return fmt.Errorf("device.timeout: %w", err)
		}
		dst.Device.Timeout = t
	}
	if d.RateLimit != nil {
		dst.Device.RateLimit = *d.RateLimit
	}
	if d.RateBurst != nil {
		dst.Device.RateBurst = *d.RateBurst
	}
	if d.UserAgent != "" {
		dst.Device.UserAgent = d.UserAgent
	}

	c := src.Cache
	if c.Backend != "" {
		dst.Cache.Backend = c.Backend
	}
	if c.Dir != "" {
		dst.Cache.Dir = expandHome(expandEnv(c.Dir))
	}
	if c.CatalogMaxAge != "" {
		age, err := time.ParseDuration(c.CatalogMaxAge)
		if err != nil {
			return fmt.Errorf("cache.catalogMaxAge: %w", err)
		}
		dst.Cache.CatalogMaxAge = age
	}
	if c.IgnoreExpiry != nil {
		dst.Cache.IgnoreExpiry = *c.IgnoreExpiry
	}
	if c.Redis.Addr != "" {
		dst.Cache.Redis.Addr = expandEnv(c.Redis.Addr)
	}
	if c.Redis.Password != "" {
		dst.Cache.Redis.Password = expandEnv(c.Redis.Password)
	}
	if c.Redis.DB != nil {
		dst.Cache.Redis.DB = *c.Redis.DB
	}
	if c.Redis.Prefix != "" {
		dst.Cache.Redis.Prefix = c.Redis.Prefix
	}

	if src.Details.Showing != "" {
		dst.Details.Showing = src.Details.Showing
	}

	t := src.Telemetry
	if t.Enabled != nil {
		dst.Telemetry.Enabled = *t.Enabled
	}
	if t.Exporter != "" {
		dst.Telemetry.Exporter = t.Exporter
	}
	if t.Endpoint != "" {
		dst.Telemetry.Endpoint = expandEnv(t.Endpoint)
	}
	if t.SamplingRate != nil {
		dst.Telemetry.SamplingRate = *t.SamplingRate
	}
	return nil
}

func mergeEnvConfig(cfg *Config) {
	cfg.LogLevel = ParseString(EnvLogLevel, cfg.LogLevel)

	cfg.Device.Address = ParseString(EnvAddress, cfg.Device.Address)
	cfg.Device.Username = ParseString(EnvUsername, cfg.Device.Username)
	cfg.Device.Password = ParseString(EnvPassword, cfg.Device.Password)
	cfg.Device.Netrc = expandHome(ParseString(EnvNetrc, cfg.Device.Netrc))
	cfg.Device.InsecureSkipVerify = ParseBool(EnvInsecure, cfg.Device.InsecureSkipVerify)
	cfg.Device.Timeout = ParseDuration(EnvTimeout, cfg.Device.Timeout)
	cfg.Device.RateLimit = ParseFloat(EnvRateLimit, cfg.Device.RateLimit)
	cfg.Device.RateBurst = ParseInt(EnvRateBurst, cfg.Device.RateBurst)
	cfg.Device.UserAgent = ParseString(EnvUserAgent, cfg.Device.UserAgent)

	cfg.Cache.Backend = ParseString(EnvCacheBackend, cfg.Cache.Backend)
	cfg.Cache.Dir = expandHome(ParseString(EnvCacheDir, cfg.Cache.Dir))
	cfg.Cache.CatalogMaxAge = ParseDuration(EnvCatalogMaxAge, cfg.Cache.CatalogMaxAge)
	cfg.Cache.IgnoreExpiry = ParseBool(EnvCacheIgnoreExpiry, cfg.Cache.IgnoreExpiry)
	cfg.Cache.Redis.Addr = ParseString(EnvRedisAddr, cfg.Cache.Redis.Addr)
	cfg.Cache.Redis.Password = ParseString(EnvRedisPassword, cfg.Cache.Redis.Password)
	cfg.Cache.Redis.DB = ParseInt(EnvRedisDB, cfg.Cache.Redis.DB)
	cfg.Cache.Redis.Prefix = ParseString(EnvRedisPrefix, cfg.Cache.Redis.Prefix)

	cfg.Details.Showing = ParseString(EnvShowing, cfg.Details.Showing)

	cfg.Telemetry.Enabled = ParseBool(EnvTracingEnabled, cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = ParseString(EnvTracingExporter, cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = ParseString(EnvTracingEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = ParseFloat(EnvTracingSampling, cfg.Telemetry.SamplingRate)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
