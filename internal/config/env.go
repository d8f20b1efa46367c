// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	xlog "github.com/ManuGH/tivoctl/internal/log"
)

// Environment variable names.
const (
	EnvLogLevel          = "TIVO_LOG_LEVEL"
	EnvAddress           = "TIVO_ADDRESS"
	EnvUsername          = "TIVO_USERNAME"
	EnvPassword          = "TIVO_PASSWORD"
	EnvNetrc             = "TIVO_NETRC"
	EnvInsecure          = "TIVO_INSECURE"
	EnvTimeout           = "TIVO_TIMEOUT"
	EnvRateLimit         = "TIVO_RATE_LIMIT"
	EnvRateBurst         = "TIVO_RATE_BURST"
	EnvUserAgent         = "TIVO_USER_AGENT"
	EnvCacheBackend      = "TIVO_CACHE_BACKEND"
	EnvCacheDir          = "TIVO_CACHE_DIR"
	EnvCatalogMaxAge     = "TIVO_CATALOG_MAX_AGE"
	EnvCacheIgnoreExpiry = "TIVO_CACHE_IGNORE_EXPIRY"
	EnvRedisAddr         = "TIVO_REDIS_ADDR"
	EnvRedisPassword     = "TIVO_REDIS_PASSWORD"
	EnvRedisDB           = "TIVO_REDIS_DB"
	EnvRedisPrefix       = "TIVO_REDIS_PREFIX"
	EnvShowing           = "TIVO_SHOWING"
	EnvTracingEnabled    = "TIVO_TRACING_ENABLED"
	EnvTracingExporter   = "TIVO_TRACING_EXPORTER"
	EnvTracingEndpoint   = "TIVO_TRACING_ENDPOINT"
	EnvTracingSampling   = "TIVO_TRACING_SAMPLING_RATE"
)

func envLogger() zerolog.Logger {
	return xlog.WithComponent("config")
}

func isSensitive(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "password") || strings.Contains(lower, "token")
}

// lookupEnv returns the raw value of key when it is set and non-empty.
func lookupEnv(logger zerolog.Logger, key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	ev := logger.Debug().Str("key", key).Str("source", "environment")
	if isSensitive(key) {
		ev = ev.Bool("sensitive", true)
	} else {
		ev = ev.Str("value", v)
	}
	ev.Msg("using environment variable")
	return v, true
}

// parseEnv converts the value of key with parse, falling back to
// defaultValue when the variable is unset, empty or malformed.
func parseEnv[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	logger := envLogger()
	v, ok := lookupEnv(logger, key)
	if !ok {
		return defaultValue
	}
	parsed, err := parse(v)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Interface("default", defaultValue).
			Err(err).
			Msg("invalid environment variable, using default")
		return defaultValue
	}
	return parsed
}

// ParseString reads a string from environment variable or returns default value.
func ParseString(key, defaultValue string) string {
	return parseEnv(key, defaultValue, func(s string) (string, error) { return s, nil })
}

// ParseInt reads an integer from environment variable or returns default value.
func ParseInt(key string, defaultValue int) int {
	return parseEnv(key, defaultValue, strconv.Atoi)
}

// ParseFloat reads a float64 from environment variable or returns default value.
func ParseFloat(key string, defaultValue float64) float64 {
	return parseEnv(key, defaultValue, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// ParseDuration reads a duration in Go duration format (e.g. "30m").
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return parseEnv(key, defaultValue, time.ParseDuration)
}

// ParseBool accepts true/false, 1/0 and yes/no in any case.
func ParseBool(key string, defaultValue bool) bool {
	return parseEnv(key, defaultValue, parseBoolValue)
}

func parseBoolValue(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

// expandEnv expands environment variables in the format ${VAR} or $VAR
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}
