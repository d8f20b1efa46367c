// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package device

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/tivoctl/internal/cache"
	xlog "github.com/ManuGH/tivoctl/internal/log"
	"github.com/ManuGH/tivoctl/internal/metrics"
)

// Getter performs a single device GET. *Client implements it.
type Getter interface {
	Get(ctx context.Context, rawURL, operation string) ([]byte, error)
}

// FetcherOptions configures cache policy.
type FetcherOptions struct {
	Address       string        // device host[:port]
	CatalogMaxAge time.Duration // cached catalogs younger than this are served
	IgnoreExpiry  bool          // serve any cached catalog regardless of age
}

// Fetcher returns raw catalog and detail documents, preferring the cache.
type Fetcher struct {
	getter       Getter
	store        cache.Store
	address      string
	maxAge       time.Duration
	ignoreExpiry bool
	now          func() time.Time
	logger       zerolog.Logger
}

// NewFetcher wires a getter to a store.
func NewFetcher(getter Getter, store cache.Store, opts FetcherOptions, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		getter:       getter,
		store:        store,
		address:      opts.Address,
		maxAge:       opts.CatalogMaxAge,
		ignoreExpiry: opts.IgnoreExpiry,
		now:          time.Now,
		logger:       logger,
	}
}

// CatalogURL is the Now Playing query for the device at addr.
func CatalogURL(addr string) string {
	q := url.Values{}
	q.Set("Command", "QueryContainer")
	q.Set("Container", "/NowPlaying")
	q.Set("Recurse", "Yes")
	u := url.URL{Scheme: "https", Host: addr, Path: "/TiVoConnect", RawQuery: q.Encode()}
	return u.String()
}

// FetchCatalog returns the Now Playing document. A cached copy is served
// unless force is set or it is older than the configured maximum age.
func (f *Fetcher) FetchCatalog(ctx context.Context, force bool) ([]byte, error) {
	logger := xlog.WithContext(ctx, f.logger).With().Str(xlog.FieldCacheKey, cache.CatalogKey).Logger()

	if !force {
		entry, found := f.lookup(ctx, logger, metrics.EndpointCatalog, cache.CatalogKey)
		if found {
			age := entry.Age(f.now())
			if f.ignoreExpiry || age < f.maxAge {
				metrics.RecordCacheLookup(metrics.EndpointCatalog, metrics.CacheHit)
				logger.Debug().Dur(xlog.FieldAge, age).Msg("serving cached catalog")
				return entry.Data, nil
			}
			metrics.RecordCacheLookup(metrics.EndpointCatalog, metrics.CacheStale)
			logger.Debug().Dur(xlog.FieldAge, age).Msg("cached catalog is stale")
		}
	}

	data, err := f.getter.Get(ctx, CatalogURL(f.address), metrics.EndpointCatalog)
	if err != nil {
		return nil, err
	}
	f.save(ctx, logger, cache.CatalogKey, data)
	return data, nil
}

// FetchDetail returns the detail document of recording id, downloading
// detailsURL only when no cached copy exists. Detail entries never expire.
func (f *Fetcher) FetchDetail(ctx context.Context, id, detailsURL string) ([]byte, error) {
	logger := xlog.WithContext(ctx, f.logger).With().
		Str(xlog.FieldRecordingID, id).
		Str(xlog.FieldCacheKey, id).
		Logger()

	if entry, found := f.lookup(ctx, logger, metrics.EndpointDetails, id); found {
		metrics.RecordCacheLookup(metrics.EndpointDetails, metrics.CacheHit)
		logger.Debug().Msg("serving cached details")
		return entry.Data, nil
	}

	data, err := f.getter.Get(ctx, detailsURL, metrics.EndpointDetails)
	if err != nil {
		return nil, err
	}
	f.save(ctx, logger, id, data)
	return data, nil
}

// lookup reads key from the store. Read failures are logged and reported
// as a miss.
func (f *Fetcher) lookup(ctx context.Context, logger zerolog.Logger, kind, key string) (cache.Entry, bool) {
	entry, found, err := f.store.Get(ctx, key)
	if err != nil {
		metrics.RecordCacheLookup(kind, metrics.CacheError)
		logger.Warn().Err(err).Msg("cache read failed, fetching from device")
		return cache.Entry{}, false
	}
	if !found {
		metrics.RecordCacheLookup(kind, metrics.CacheMiss)
		return cache.Entry{}, false
	}
	return entry, true
}

// save writes data under key; write failures are only logged.
func (f *Fetcher) save(ctx context.Context, logger zerolog.Logger, key string, data []byte) {
	if err := f.store.Put(ctx, key, data); err != nil {
		logger.Warn().Err(err).Msg("cache write failed")
	}
}
