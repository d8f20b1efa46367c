// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recordings

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	xlog "github.com/ManuGH/tivoctl/internal/log"
	"github.com/ManuGH/tivoctl/internal/metrics"
	"github.com/ManuGH/tivoctl/internal/telemetry"
	"github.com/ManuGH/tivoctl/internal/tivo"
)

// State is the lifecycle of one recording's details within a Registry.
type State int

const (
	StateUnfetched State = iota
	StateFetching
	StateCached
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnfetched:
		return "unfetched"
	case StateFetching:
		return "fetching"
	case StateCached:
		return "cached"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DetailFetcher returns the raw detail document of a recording.
// *device.Fetcher implements it.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, id, detailsURL string) ([]byte, error)
}

type entry struct {
	state   State
	details *tivo.VideoDetails
	err     error
}

// Registry resolves VideoDetails at most once per recording id. Cached and
// Failed are terminal: a result, error included, is kept for the lifetime
// of the Registry. Concurrent callers for one id share a single fetch.
type Registry struct {
	fetcher DetailFetcher
	showing tivo.Showing
	logger  zerolog.Logger

	mu      sync.Mutex
	entries map[string]*entry
	sf      singleflight.Group
}

// NewRegistry returns an empty registry decoding the given showing.
func NewRegistry(fetcher DetailFetcher, showing tivo.Showing, logger zerolog.Logger) *Registry {
	if !showing.Valid() {
		showing = tivo.ShowingActual
	}
	return &Registry{
		fetcher: fetcher,
		showing: showing,
		logger:  logger,
		entries: make(map[string]*entry),
	}
}

// State reports where recording id stands.
func (r *Registry) State(id string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		return e.state
	}
	return StateUnfetched
}

// Details returns the detail record of item, fetching and parsing it on
// first use. The recording id is taken from the item's details URL.
func (r *Registry) Details(ctx context.Context, item tivo.Item) (*tivo.VideoDetails, error) {
	id, err := tivo.RecordingID(item.Links.VideoDetailsURL)
	if err != nil {
		return nil, &tivo.MandatoryFieldError{Entity: "item", Field: "Links/TiVoVideoDetails/Url", Err: err}
	}
	return r.DetailsByID(ctx, id, item.Links.VideoDetailsURL)
}

// DetailsByID is Details for a known recording id and details URL.
//
// A shared fetch runs under the context of the caller that started it. If
// that caller is canceled, joined callers whose own context is still live
// start a new fetch instead of inheriting the cancellation.
func (r *Registry) DetailsByID(ctx context.Context, id, detailsURL string) (*tivo.VideoDetails, error) {
	if e, ok := r.terminal(id); ok {
		metrics.RecordDetailsFetch("memoized")
		return e.details, e.err
	}

	for {
		v, err, _ := r.sf.Do(id, func() (interface{}, error) {
			if e, ok := r.terminal(id); ok {
				return e, nil
			}
			r.setState(id, &entry{state: StateFetching})
			return r.resolve(ctx, id, detailsURL), nil
		})
		if err != nil {
			return nil, err
		}
		e := v.(*entry)
		if e.state == StateUnfetched && ctx.Err() == nil {
			continue
		}
		return e.details, e.err
	}
}

func (r *Registry) resolve(ctx context.Context, id, detailsURL string) *entry {
	ctx, span := telemetry.Tracer().Start(ctx, "tivo.details.resolve")
	span.SetAttributes(telemetry.FetchAttributes(metrics.EndpointDetails, id)...)
	defer span.End()

	logger := xlog.WithContext(ctx, r.logger).With().Str(xlog.FieldRecordingID, id).Logger()

	data, err := r.fetcher.FetchDetail(ctx, id, detailsURL)
	if err == nil {
		var vd *tivo.VideoDetails
		vd, err = tivo.ParseVideoDetails(data, r.showing)
		if err == nil {
			e := &entry{state: StateCached, details: vd}
			r.setState(id, e)
			metrics.RecordDetailsFetch("fetched")
			return e
		}
	}

	metrics.RecordDetailsFetch("failed")
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		// A canceled caller leaves the recording fetchable.
		r.mu.Lock()
		delete(r.entries, id)
		r.mu.Unlock()
		return &entry{state: StateUnfetched, err: err}
	}
	logger.Warn().Err(err).Msg("recording details unavailable")
	e := &entry{state: StateFailed, err: err}
	r.setState(id, e)
	return e
}

func (r *Registry) terminal(id string) (*entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || (e.state != StateCached && e.state != StateFailed) {
		return nil, false
	}
	return e, true
}

func (r *Registry) setState(id string, e *entry) {
	r.mu.Lock()
	r.entries[id] = e
	r.mu.Unlock()
}
