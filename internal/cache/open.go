// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Options selects and configures a store backend.
type Options struct {
	Backend string // "file" (default) or "redis"
	Dir     string
	Redis   RedisConfig
}

// Open builds the configured store. The returned closer releases backend
// connections and is never nil.
func Open(ctx context.Context, opts Options, logger zerolog.Logger) (Store, io.Closer, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Dir), nopCloser{}, nil
	case BackendRedis:
		rs, err := NewRedisStore(ctx, opts.Redis, logger)
		if err != nil {
			return nil, nopCloser{}, err
		}
		return rs, rs, nil
	default:
		return nil, nopCloser{}, fmt.Errorf("unsupported cache backend: %s (supported: file, redis)", opts.Backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
