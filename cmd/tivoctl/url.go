// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuGH/tivoctl/internal/recordings"
)

func newURLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "url [program_id...]",
		Short: "Print the download URL and local file name of recordings",
		Long: `Url prints one tab-separated line per available recording: the content
URL published by the device and the file name its decoded stream should
be saved under.

Program ids are read from stdin, one per line, when none are given.`,
		Annotations: catalogCommand(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := a.arguments(args)
			if err != nil {
				return err
			}
			return a.urls(ids)
		},
	}
}

func (a *app) urls(ids []string) error {
	var errs []error
	for _, id := range ids {
		it, ok := a.library.Find(id)
		if !ok {
			errs = append(errs, &unknownProgramError{ID: id})
			continue
		}
		if !it.Links.Content.Available || it.Links.Content.URL == "" {
			errs = append(errs, &unavailableError{ID: it.ProgramID})
			continue
		}
		fmt.Fprintf(a.stdout, "%s\t%s\n", it.Links.Content.URL, recordings.FileName(it))
	}
	return errors.Join(errs...)
}
