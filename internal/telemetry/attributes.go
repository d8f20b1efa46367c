// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPURLKey        = "http.url"

	// Device attributes
	DeviceOperationKey = "tivo.operation"
	RecordingIDKey     = "tivo.recording_id"
	CacheResultKey     = "tivo.cache.result"
	BytesKey           = "tivo.bytes"

	// Catalog attributes
	CatalogItemsKey    = "tivo.catalog.items"
	CatalogRejectedKey = "tivo.catalog.rejected"
)

// HTTPAttributes creates common HTTP span attributes. statusCode 0 is
// omitted.
func HTTPAttributes(method, url string, statusCode int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPURLKey, url),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int(HTTPStatusCodeKey, statusCode))
	}
	return attrs
}

// FetchAttributes describes one document acquisition.
func FetchAttributes(operation, recordingID string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(DeviceOperationKey, operation)}
	if recordingID != "" {
		attrs = append(attrs, attribute.String(RecordingIDKey, recordingID))
	}
	return attrs
}

// CatalogAttributes describes a parsed catalog.
func CatalogAttributes(items, rejected int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(CatalogItemsKey, items),
		attribute.Int(CatalogRejectedKey, rejected),
	}
}
