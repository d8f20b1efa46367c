// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ManuGH/tivoctl/internal/metrics"
	"github.com/ManuGH/tivoctl/internal/recordings"
	"github.com/ManuGH/tivoctl/internal/version"
)

// run executes one invocation and returns its exit status.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if shutdownErr := a.shutdown(); shutdownErr != nil {
		a.logger.Warn().Err(shutdownErr).Msg("shutdown incomplete")
	}
	if a.dumpMetrics {
		if dumpErr := metrics.Dump(stderr); dumpErr != nil {
			a.logger.Warn().Err(dumpErr).Msg("dump metrics")
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "tivoctl: %v\n", err)
	}
	return exitCode(err)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tivoctl",
		Short: "List and describe the recordings of a TiVo DVR",
		Long: `tivoctl reads the Now Playing list of a TiVo DVR and prints recording
metadata. The catalog is cached between runs; details are cached forever.

Without a subcommand the catalog is listed.`,
		Version:       version.String(),
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   catalogCommand(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, ok := cmd.Annotations[annotationCatalog]; !ok {
				return nil
			}
			ctx, err := a.setup(cmd.Context())
			cmd.SetContext(ctx)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.list()
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to config file (YAML)")
	flags.BoolVar(&a.refresh, "refresh", false, "fetch the catalog even when the cached copy is fresh")
	flags.BoolVar(&a.dumpMetrics, "metrics", false, "write metrics to stderr on exit")

	root.AddCommand(
		newListCmd(a),
		newSearchCmd(a),
		newDetailsCmd(a),
		newURLCmd(a),
	)
	return root
}

// annotationCatalog marks commands that need the device catalog loaded.
const annotationCatalog = "tivoctl/catalog"

func catalogCommand() map[string]string {
	return map[string]string{annotationCatalog: "true"}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Aliases:     []string{"ls"},
		Annotations: catalogCommand(),
		Short:       "List recordings as 'program_id | title - episode'",
		Args:        usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.list()
		},
	}
}

func (a *app) list() error {
	for _, it := range a.library.Items() {
		fmt.Fprintln(a.stdout, recordings.Headline(it))
	}
	return nil
}

// arguments returns args, or the non-blank lines of stdin when args is empty.
func (a *app) arguments(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var out []string
	sc := bufio.NewScanner(a.stdin)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return out, nil
}
