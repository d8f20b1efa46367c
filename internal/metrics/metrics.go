// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics for tivoctl.
//
// Label values are normalized to fixed allowlists; recording ids and URLs
// never appear as labels.
package metrics

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Endpoint labels.
const (
	EndpointCatalog = "catalog"
	EndpointDetails = "details"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStale = "stale"
	CacheError = "error"
)

var (
	deviceRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tivoctl_device_request_total",
		Help: "Total number of HTTP requests sent to the DVR, by endpoint and status class.",
	}, []string{"endpoint", "status_class"})

	deviceRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tivoctl_device_request_duration_seconds",
		Help:    "Duration of HTTP requests sent to the DVR, by endpoint.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"endpoint"})

	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tivoctl_cache_lookups_total",
		Help: "Total number of document cache lookups, by kind and result (hit/miss/stale/error).",
	}, []string{"kind", "result"})

	parseRejectedItemsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tivoctl_parse_rejected_items_total",
		Help: "Total number of catalog items rejected for missing mandatory fields.",
	})

	detailsFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tivoctl_details_fetch_total",
		Help: "Total number of recording detail resolutions, by result.",
	}, []string{"result"})
)

// RecordDeviceRequest records one device round trip. status 0 means the
// request failed before a response arrived.
func RecordDeviceRequest(endpoint string, status int, elapsed time.Duration) {
	ep := normalizeEndpoint(endpoint)
	deviceRequestTotal.WithLabelValues(ep, statusClass(status)).Inc()
	deviceRequestDuration.WithLabelValues(ep).Observe(elapsed.Seconds())
}

// RecordCacheLookup records a cache lookup outcome for a document kind.
func RecordCacheLookup(kind, result string) {
	cacheLookupsTotal.WithLabelValues(normalizeEndpoint(kind), normalizeCacheResult(result)).Inc()
}

// RecordRejectedItems adds n rejected catalog items.
func RecordRejectedItems(n int) {
	if n > 0 {
		parseRejectedItemsTotal.Add(float64(n))
	}
}

// RecordDetailsFetch records how a details request was resolved
// ("fetched", "memoized", "failed").
func RecordDetailsFetch(result string) {
	switch result {
	case "fetched", "memoized", "failed":
	default:
		result = "unknown"
	}
	detailsFetchTotal.WithLabelValues(result).Inc()
}

// Dump writes every metric of the default gatherer in Prometheus text format.
func Dump(w io.Writer) error {
	return DumpFrom(prometheus.DefaultGatherer, w)
}

// DumpFrom writes the metrics of g in Prometheus text format.
func DumpFrom(g prometheus.Gatherer, w io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func normalizeEndpoint(endpoint string) string {
	switch e := strings.ToLower(strings.TrimSpace(endpoint)); e {
	case EndpointCatalog, EndpointDetails:
		return e
	default:
		return "other"
	}
}

func normalizeCacheResult(result string) string {
	switch r := strings.ToLower(strings.TrimSpace(result)); r {
	case CacheHit, CacheMiss, CacheStale, CacheError:
		return r
	default:
		return "unknown"
	}
}

func statusClass(status int) string {
	switch {
	case status <= 0:
		return "error"
	case status < 200 || status > 599:
		return "other"
	default:
		return fmt.Sprintf("%dxx", status/100)
	}
}
