// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recordings

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	unorm "golang.org/x/text/unicode/norm"

	xlog "github.com/ManuGH/tivoctl/internal/log"
	"github.com/ManuGH/tivoctl/internal/metrics"
	"github.com/ManuGH/tivoctl/internal/telemetry"
	"github.com/ManuGH/tivoctl/internal/tivo"
)

// CatalogFetcher returns the raw Now Playing document.
// *device.Fetcher implements it.
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context, force bool) ([]byte, error)
}

// Library is a decoded catalog indexed by program id.
type Library struct {
	container *tivo.Container
	byID      map[string]int
}

// Load fetches and decodes the catalog. Rejected items are logged and
// counted; they never fail the load.
func Load(ctx context.Context, f CatalogFetcher, force bool, logger zerolog.Logger) (*Library, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "tivo.catalog.load")
	defer span.End()

	data, err := f.FetchCatalog(ctx, force)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	c, err := tivo.ParseContainer(data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	logger = xlog.WithContext(ctx, logger)
	for _, rej := range c.Rejected {
		logger.Warn().Err(rej.Err).
			Int(xlog.FieldItemIndex, rej.Index).
			Str(xlog.FieldProgramID, rej.ProgramID).
			Msg("skipping catalog item")
	}
	metrics.RecordRejectedItems(len(c.Rejected))
	span.SetAttributes(telemetry.CatalogAttributes(len(c.Items), len(c.Rejected))...)
	logger.Debug().
		Int(xlog.FieldTotal, c.TotalItems).
		Int("items", len(c.Items)).
		Int("rejected", len(c.Rejected)).
		Msg("catalog loaded")

	return NewLibrary(c), nil
}

// NewLibrary indexes c. For duplicate program ids the first item wins.
func NewLibrary(c *tivo.Container) *Library {
	l := &Library{container: c, byID: make(map[string]int, len(c.Items))}
	for i, it := range c.Items {
		if _, dup := l.byID[it.ProgramID]; !dup {
			l.byID[it.ProgramID] = i
		}
	}
	return l
}

// Container returns the decoded catalog.
func (l *Library) Container() *tivo.Container { return l.container }

// Items returns the catalog items in document order.
func (l *Library) Items() []tivo.Item { return l.container.Items }

// Find looks up an item by program id.
func (l *Library) Find(programID string) (tivo.Item, bool) {
	i, ok := l.byID[strings.TrimSpace(programID)]
	if !ok {
		return tivo.Item{}, false
	}
	return l.container.Items[i], true
}

// Search returns, in catalog order, the items whose title, episode title
// or description matches pattern case-insensitively. Text and pattern are
// compared in NFC form.
func (l *Library) Search(pattern string) ([]tivo.Item, error) {
	re, err := regexp.Compile("(?i)" + unorm.NFC.String(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern %q: %w", pattern, err)
	}
	var out []tivo.Item
	for _, it := range l.container.Items {
		if matchItem(re, it) {
			out = append(out, it)
		}
	}
	return out, nil
}

func matchItem(re *regexp.Regexp, it tivo.Item) bool {
	if re.MatchString(unorm.NFC.String(it.Title)) {
		return true
	}
	if it.EpisodeTitle != nil && re.MatchString(unorm.NFC.String(*it.EpisodeTitle)) {
		return true
	}
	return it.Description != nil && re.MatchString(unorm.NFC.String(*it.Description))
}
