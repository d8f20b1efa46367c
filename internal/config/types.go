// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// FileConfig mirrors the YAML file. Pointer fields distinguish "unset"
// from an explicit zero value.
type FileConfig struct {
	LogLevel  string        `yaml:"logLevel,omitempty"`
	Device    DeviceFile    `yaml:"device,omitempty"`
	Cache     CacheFile     `yaml:"cache,omitempty"`
	Details   DetailsFile   `yaml:"details,omitempty"`
	Telemetry TelemetryFile `yaml:"telemetry,omitempty"`
}

// DeviceFile holds the device section of the YAML file.
type DeviceFile struct {
	Address            string   `yaml:"address,omitempty"`
	Username           string   `yaml:"username,omitempty"`
	Password           string   `yaml:"password,omitempty"`
	Netrc              string   `yaml:"netrc,omitempty"`
	InsecureSkipVerify *bool    `yaml:"insecureSkipVerify,omitempty"`
	Timeout            string   `yaml:"timeout,omitempty"`
	RateLimit          *float64 `yaml:"rateLimit,omitempty"`
	RateBurst          *int     `yaml:"rateBurst,omitempty"`
	UserAgent          string   `yaml:"userAgent,omitempty"`
}

// CacheFile holds the cache section of the YAML file.
type CacheFile struct {
	Backend       string    `yaml:"backend,omitempty"`
	Dir           string    `yaml:"dir,omitempty"`
	CatalogMaxAge string    `yaml:"catalogMaxAge,omitempty"`
	IgnoreExpiry  *bool     `yaml:"ignoreExpiry,omitempty"`
	Redis         RedisFile `yaml:"redis,omitempty"`
}

// RedisFile holds the cache.redis section of the YAML file.
type RedisFile struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       *int   `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// DetailsFile holds the details section of the YAML file.
type DetailsFile struct {
	Showing string `yaml:"showing,omitempty"`
}

// TelemetryFile holds the telemetry section of the YAML file.
type TelemetryFile struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}

// Config is the resolved configuration.
type Config struct {
	Version   string
	LogLevel  string
	Device    DeviceConfig
	Cache     CacheConfig
	Details   DetailsConfig
	Telemetry TelemetryConfig
}

// DeviceConfig describes how to reach the DVR.
type DeviceConfig struct {
	Address            string
	Username           string
	Password           string
	Netrc              string
	InsecureSkipVerify bool
	Timeout            time.Duration
	RateLimit          float64 // requests per second, 0 disables limiting
	RateBurst          int
	UserAgent          string
}

// CacheConfig selects the document cache.
type CacheConfig struct {
	Backend       string
	Dir           string
	CatalogMaxAge time.Duration
	IgnoreExpiry  bool
	Redis         RedisConfig
}

// RedisConfig is used when Backend is "redis".
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// DetailsConfig controls the detail document view.
type DetailsConfig struct {
	Showing string // "vActualShowing" or "showing"
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool
	Exporter     string // "grpc" or "http"
	Endpoint     string
	SamplingRate float64
}
