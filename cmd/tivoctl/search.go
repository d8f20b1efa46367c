// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuGH/tivoctl/internal/recordings"
)

func newSearchCmd(a *app) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "search [pattern...]",
		Short: "Search titles, episode titles and descriptions",
		Long: `Search matches each pattern, a case-insensitive regular expression,
against the title, episode title and description of every recording and
prints the program ids of the matches.

Patterns are read from stdin, one per line, when none are given.`,
		Annotations: catalogCommand(),
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns, err := a.arguments(args)
			if err != nil {
				return err
			}
			return a.search(patterns, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print pattern headers and titles")
	return cmd
}

func (a *app) search(patterns []string, verbose bool) error {
	for _, pattern := range patterns {
		matches, err := a.library.Search(pattern)
		if err != nil {
			return &usageError{err: err}
		}
		if verbose {
			fmt.Fprintf(a.stdout, "-- %s --\n", pattern)
		}
		for _, it := range matches {
			if verbose {
				fmt.Fprintln(a.stdout, recordings.Headline(it))
			} else {
				fmt.Fprintln(a.stdout, it.ProgramID)
			}
		}
	}
	return nil
}
