// SPDX-License-Identifier: MIT

// Package cache stores raw device documents between invocations.
package cache

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// CatalogKey is the fixed key of the Now Playing catalog document.
const CatalogKey = "now_playing"

// ErrInvalidKey is returned for keys that cannot name a cache entry.
var ErrInvalidKey = errors.New("cache: invalid key")

// Entry is a cached document together with its last write time.
type Entry struct {
	Data    []byte
	ModTime time.Time
}

// Age reports how long ago the entry was written.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.ModTime)
}

// Store is a key/value store for raw documents.
//
// Put must make data visible atomically: a concurrent Get observes either
// the previous entry or the new one, never a partial write. Stores do not
// lock across processes; concurrent writers to one key race and the last
// writer wins.
type Store interface {
	// Get returns the entry for key. found is false when no entry exists.
	Get(ctx context.Context, key string) (entry Entry, found bool, err error)
	// Put replaces the entry for key.
	Put(ctx context.Context, key string, data []byte) error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9_.-]*$`)

// ValidateKey rejects keys that could escape the store's namespace.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) || len(key) > 128 {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
