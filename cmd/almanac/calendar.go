package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/cpuguy83/almanac"
	"github.com/cpuguy83/almanac/internal/agenda"
	"github.com/cpuguy83/almanac/internal/calendar"
	"github.com/cpuguy83/almanac/internal/notify"
	"github.com/cpuguy83/almanac/internal/sync"
	"github.com/spf13/cobra"
)

func newSyncCmd(g *globals) *cobra.Command {
	var (
		watch  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch configured calendar sources and write them to one ICS file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				output = g.cfg.Sync.Output
			}

			syncer, err := sync.NewSyncer(g.cfg)
			if err != nil {
				return err
			}
			if syncer.SourceCount() == 0 {
				return fmt.Errorf("no calendar sources configured")
			}

			var latest atomic.Pointer[[]calendar.Event]
			write := func(events []calendar.Event, err error) {
				if err != nil {
					slog.Error("sync failed", "error", err)
					return
				}
				latest.Store(&events)
				if err := calendar.WriteICS(output, events); err != nil {
					slog.Error("failed to write ICS", "path", output, "error", err)
					return
				}
				slog.Info("wrote calendar", "path", output, "events", len(events))
			}

			if !watch {
				events, err := syncer.Sync(cmd.Context())
				if err != nil {
					return err
				}
				if err := calendar.WriteICS(output, events); err != nil {
					return err
				}
				slog.Info("wrote calendar", "path", output, "events", len(events))
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if g.cfg.Notifications.Enabled {
				n, err := notify.New("almanac")
				if err != nil {
					slog.Warn("notifications disabled", "error", err)
				} else {
					defer n.Close()
					go watchReminders(ctx, notify.NewScheduler(g.cfg.Notifications.Before), n, func() []calendar.Event {
						if p := latest.Load(); p != nil {
							return *p
						}
						return nil
					})
				}
			}

			slog.Info("starting sync loop", "interval", syncer.Interval(), "sources", syncer.SourceCount())
			syncer.Run(ctx, write)
			slog.Info("received signal, shutting down")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and re-sync on the configured interval")
	cmd.Flags().StringVarP(&output, "output", "o", "", "ICS file to write (default: sync.output from config)")
	return cmd
}

func newFreeBusyCmd(g *globals) *cobra.Command {
	var (
		window  string
		input   string
		export  string
		summary string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "freebusy",
		Short: "List free slots within working hours",
		Long: `Busy time comes from the configured sources, or from an ICS file given
with --input. The window defaults to the sync window starting now.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fb := g.cfg.FreeBusy
			hours := calendar.WorkHours{Start: fb.WorkStart, End: fb.WorkEnd, Weekdays: fb.Weekdays}

			var span almanac.Interval
			if window != "" {
				span = almanac.IntervalFromISO(window)
				if err := span.Err(); err != nil {
					return fmt.Errorf("window: %w", err)
				}
			} else {
				span = almanac.IntervalAfter(almanac.Now(), g.cfg.Sync.Ahead)
			}

			events, err := loadEvents(cmd.Context(), g, input)
			if err != nil {
				return err
			}

			free := calendar.Free(span, events, hours, fb.MinSlot)
			slog.Debug("computed free slots", "window", span.String(), "events", len(events), "slots", len(free))

			if export != "" {
				return calendar.WriteICS(export, calendar.FreeEvents(free, summary))
			}

			w := cmd.OutOrStdout()
			for _, slot := range free {
				if format != "" {
					fmt.Fprintln(w, slot.ToFormat(format, ""))
					continue
				}
				fmt.Fprintf(w, "%s  %s\n", slot.ToISO(), slot.ToDuration(almanac.Hour, almanac.Minute).ToHuman())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&window, "window", "", "ISO 8601 interval to search, e.g. 2024-03-04/P1W")
	cmd.Flags().StringVarP(&input, "input", "i", "", "read busy time from an ICS file instead of syncing")
	cmd.Flags().StringVar(&export, "export", "", "write free slots to an ICS file")
	cmd.Flags().StringVar(&summary, "summary", "Free", "event title for exported slots")
	cmd.Flags().StringVarP(&format, "format", "f", "", "render slot endpoints with a token format")
	return cmd
}

func newAgendaCmd(g *globals) *cobra.Command {
	var (
		input   string
		within  string
		grace   string
		details bool
	)

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "List upcoming events grouped by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := agenda.DefaultOptions()
			if within != "" {
				d, err := parseDuration(within)
				if err != nil {
					return fmt.Errorf("range: %w", err)
				}
				opts.Range = d
			}
			if grace != "" {
				d, err := parseDuration(grace)
				if err != nil {
					return fmt.Errorf("grace: %w", err)
				}
				opts.Grace = d
			}

			events, err := loadEvents(cmd.Context(), g, input)
			if err != nil {
				return err
			}

			now := almanac.Now()
			w := cmd.OutOrStdout()
			for _, line := range agenda.Lines(events, now, opts) {
				fmt.Fprintln(w, line)
			}
			if !details {
				return nil
			}

			cutoff := now.Plus(opts.Range)
			for i := range events {
				e := &events[i]
				if e.End().Before(now) || e.Start().After(cutoff) {
					continue
				}
				fmt.Fprintln(w)
				for _, line := range agenda.Details(e, now) {
					fmt.Fprintln(w, line)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "read events from an ICS file instead of syncing")
	cmd.Flags().StringVar(&within, "range", "", "how far ahead to list, e.g. 3d or P1W (default 1d)")
	cmd.Flags().StringVar(&grace, "grace", "", "keep events listed this long after they end, e.g. 10m")
	cmd.Flags().BoolVar(&details, "details", false, "print location, organizer and links for each listed event")
	return cmd
}

func loadEvents(ctx context.Context, g *globals, input string) ([]calendar.Event, error) {
	if input != "" {
		return calendar.ReadICS(input, almanac.DefaultZone())
	}
	syncer, err := sync.NewSyncer(g.cfg)
	if err != nil {
		return nil, err
	}
	return syncer.Sync(ctx)
}
