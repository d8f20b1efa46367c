// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tivo

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrAcquisition     = errors.New("tivo: document acquisition failed")
	ErrSchemaViolation = errors.New("tivo: catalog schema violation")
	ErrMandatoryField  = errors.New("tivo: mandatory field missing or malformed")
)

// SchemaViolationError reports a catalog whose declared item range does not
// cover its declared total. No partial catalog accompanies it.
type SchemaViolationError struct {
	TotalItems int
	ItemStart  int
	ItemCount  int
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("tivo: incomplete item set (ItemStart=%d ItemCount=%d TotalItems=%d)",
		e.ItemStart, e.ItemCount, e.TotalItems)
}

func (e *SchemaViolationError) Unwrap() error { return ErrSchemaViolation }

// MandatoryFieldError reports a required field of a single entity that is
// absent or cannot be decoded.
type MandatoryFieldError struct {
	Entity string // "item" or "video_details"
	Field  string // document path of the field
	Err    error  // decode failure, nil when the field is absent
}

func (e *MandatoryFieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tivo: %s: field %s: %v", e.Entity, e.Field, e.Err)
	}
	return fmt.Sprintf("tivo: %s: field %s is missing", e.Entity, e.Field)
}

func (e *MandatoryFieldError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMandatoryField, e.Err}
	}
	return []error{ErrMandatoryField}
}

// ItemError ties a rejected catalog entry to its position in the document.
type ItemError struct {
	Index     int    // zero-based position among Item elements
	ProgramID string // empty when the identifier itself was missing
	Err       error
}

func (e *ItemError) Error() string {
	if e.ProgramID != "" {
		return fmt.Sprintf("tivo: item %d (%s): %v", e.Index, e.ProgramID, e.Err)
	}
	return fmt.Sprintf("tivo: item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }
