// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package device

import (
	"fmt"

	"github.com/ManuGH/tivoctl/internal/tivo"
)

// AcquisitionError reports a document that could not be obtained from the
// device. It matches tivo.ErrAcquisition and the underlying cause.
type AcquisitionError struct {
	Operation string // "catalog" or "details"
	URL       string
	Status    int   // HTTP status, 0 when no response arrived
	Err       error // transport or context error, nil for a bad status
}

func (e *AcquisitionError) Error() string {
	switch {
	case e.Err != nil && e.Status > 0:
		return fmt.Sprintf("tivo: fetch %s (%s): status %d: %v", e.Operation, e.URL, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("tivo: fetch %s (%s): %v", e.Operation, e.URL, e.Err)
	default:
		return fmt.Sprintf("tivo: fetch %s (%s): unexpected status %d", e.Operation, e.URL, e.Status)
	}
}

func (e *AcquisitionError) Unwrap() []error {
	if e.Err != nil {
		return []error{tivo.ErrAcquisition, e.Err}
	}
	return []error{tivo.ErrAcquisition}
}
