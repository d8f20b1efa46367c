// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package recordings resolves the Now Playing catalog into a searchable
// Library and memoizes per-recording detail documents in a Registry.
package recordings
