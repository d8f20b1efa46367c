// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads tivoctl settings.
//
// Precedence is ENV > YAML file > defaults. The YAML file is parsed
// strictly: unknown keys and multiple documents are rejected. Device
// credentials that are not configured explicitly are looked up in a netrc
// file by device host.
package config
