// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldCorrelationID = "correlation_id"
	FieldTraceID       = "trace_id"
	FieldSpanID        = "span_id"
	FieldProgramID     = "program_id"
	FieldRecordingID   = "recording_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldOperation = "operation"

	// Cache fields
	FieldCacheKey = "cache_key"
	FieldAge      = "age"
	FieldPath     = "path"

	// Device fields
	FieldURL        = "url"
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"

	// Catalog fields
	FieldItemIndex = "item_index"
	FieldTotal     = "total"
)
