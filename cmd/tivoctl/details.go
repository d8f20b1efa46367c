// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	xlog "github.com/ManuGH/tivoctl/internal/log"
	"github.com/ManuGH/tivoctl/internal/recordings"
	"github.com/ManuGH/tivoctl/internal/tivo"
)

const timeLayout = "2006-01-02 15:04:05 MST"

type detailsOptions struct {
	verbose bool
	human   bool
	all     bool
}

func newDetailsCmd(a *app) *cobra.Command {
	var opts detailsOptions
	cmd := &cobra.Command{
		Use:   "details [program_id...]",
		Short: "Show the metadata of recordings",
		Long: `Details prints the catalog metadata of each recording. With --verbose the
broadcast details are fetched from the device as well.

Program ids are read from stdin, one per line, when none are given.`,
		Annotations: catalogCommand(),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ids []string
			if opts.all {
				for _, it := range a.library.Items() {
					ids = append(ids, it.ProgramID)
				}
			} else {
				var err error
				if ids, err = a.arguments(args); err != nil {
					return err
				}
			}
			return a.details(cmd.Context(), ids, opts)
		},
	}
	flags := cmd.Flags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "include broadcast details, availability and size")
	flags.BoolVarP(&opts.human, "human-readable", "H", false, "print durations in words")
	flags.BoolVarP(&opts.all, "all", "a", false, "show every recording")
	return cmd
}

func (a *app) details(ctx context.Context, ids []string, opts detailsOptions) error {
	p := newPrinter(a.stdout)
	var errs []error
	for _, id := range ids {
		it, ok := a.library.Find(id)
		if !ok {
			errs = append(errs, &unknownProgramError{ID: id})
			continue
		}
		p.catalog(it, opts)
		if !opts.verbose {
			continue
		}
		vd, err := a.registry.Details(ctx, it)
		a.logDetailState(it)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", it.ProgramID, err))
			continue
		}
		p.videoDetails(vd)
	}
	return errors.Join(errs...)
}

func (a *app) logDetailState(it tivo.Item) {
	id, err := tivo.RecordingID(it.Links.VideoDetailsURL)
	if err != nil {
		return
	}
	a.logger.Debug().
		Str(xlog.FieldProgramID, it.ProgramID).
		Str(xlog.FieldRecordingID, id).
		Stringer("state", a.registry.State(id)).
		Msg("recording details resolved")
}

// printer writes the labelled detail blocks.
type printer struct {
	w      io.Writer
	header lipgloss.Style
	rule   lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	base := lipgloss.NewRenderer(w).NewStyle().Align(lipgloss.Center)
	if width := terminalWidth(w); width > 0 {
		base = base.Width(width)
	}
	return &printer{
		w:      w,
		header: base.Foreground(lipgloss.Color("2")),
		rule:   base.Foreground(lipgloss.Color("3")),
	}
}

func (p *printer) field(label, value string) {
	fmt.Fprintf(p.w, "%-13s| %s\n", label, value)
}

func (p *printer) catalog(it tivo.Item, opts detailsOptions) {
	fmt.Fprintln(p.w, p.header.Render("-- "+it.ProgramID+" --"))
	p.field("Title", it.Title)
	if it.EpisodeTitle != nil {
		p.field("Episode Title", *it.EpisodeTitle)
	}
	p.field("Description", deref(it.Description))
	p.field("Capture Date", it.CaptureDate.UTC().Format(timeLayout))
	p.field("Duration", recordings.FormatDuration(it.DurationMS, opts.human))
	p.field("Channel", fmt.Sprintf("%s @ %d", it.Source.Station, it.Source.Channel))
	if !it.Links.Content.Available || opts.verbose {
		p.field("Available", yesNo(it.Links.Content.Available))
	}
	if opts.verbose {
		p.field("Size", fmt.Sprintf("%s (%d bytes)", humanize.IBytes(uint64(max(it.Source.SizeBytes, 0))), it.Source.SizeBytes))
	}
}

func (p *printer) videoDetails(vd *tivo.VideoDetails) {
	fmt.Fprintln(p.w, p.rule.Render("==="))
	prog := vd.Program
	if prog.StarRating != nil {
		p.field("Star Rating", strings.Repeat("*", *prog.StarRating))
	}
	if vd.TVRating != nil {
		p.field("TV Rating", *vd.TVRating)
	}
	if prog.Series.IsEpisodic {
		p.field("Episode Num", strconv.Itoa(prog.EpisodeNumber))
		p.field("Orig Air Date", formatOptTime(prog.OriginalAirDate))
	} else {
		year := ""
		if prog.MovieYear != 0 {
			year = strconv.Itoa(prog.MovieYear)
		}
		p.field("Movie Year", year)
		p.field("MPAA Rating", prog.MPAARating)
	}

	p.field("Actors", recordings.FormatNames(prog.Actors))
	p.field("Guest Stars", recordings.FormatNames(prog.GuestStars))
	if len(prog.Hosts) > 0 {
		p.field("Hosts", recordings.FormatNames(prog.Hosts))
	}
	p.field("Directors", recordings.FormatNames(prog.Directors))
	p.field("Exec Prod", recordings.FormatNames(prog.ExecProducers))
	p.field("Producers", recordings.FormatNames(prog.Producers))
	p.field("Writers", recordings.FormatNames(prog.Writers))
	p.field("Prog Genre", strings.Join(prog.Genres, ", "))
	p.field("Series Genre", strings.Join(prog.Series.Genres, ", "))
	p.field("Advisory", strings.Join(prog.Advisory, ", "))
	p.field("Color Code", prog.ColorCode)
	if prog.Country != "" {
		p.field("Country", prog.Country)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatOptTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
