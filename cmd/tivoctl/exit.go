// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuGH/tivoctl/internal/config"
	"github.com/ManuGH/tivoctl/internal/tivo"
)

// Exit statuses.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitAcquisition = 3
	exitSchema      = 4
)

type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// usageArgs marks positional argument failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

type unknownProgramError struct {
	ID string
}

func (e *unknownProgramError) Error() string {
	return fmt.Sprintf("unknown program id %q", e.ID)
}

type unavailableError struct {
	ID string
}

func (e *unavailableError) Error() string {
	return fmt.Sprintf("%s is not available for download", e.ID)
}

// exitCode maps an error to the process exit status. Usage errors take
// precedence, then acquisition, then schema failures.
func exitCode(err error) int {
	var ue *usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ue),
		errors.Is(err, config.ErrMissingAddress),
		errors.Is(err, config.ErrUnknownConfigField):
		return exitUsage
	case errors.Is(err, tivo.ErrAcquisition):
		return exitAcquisition
	case errors.Is(err, tivo.ErrSchemaViolation), errors.Is(err, tivo.ErrMandatoryField):
		return exitSchema
	default:
		return exitFailure
	}
}
