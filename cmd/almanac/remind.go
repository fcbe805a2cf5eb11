package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cpuguy83/almanac"
	"github.com/cpuguy83/almanac/internal/calendar"
	"github.com/cpuguy83/almanac/internal/notify"
	"github.com/spf13/cobra"
)

const reminderCheckInterval = 30 * time.Second

func newRemindCmd(g *globals) *cobra.Command {
	var (
		input  string
		before string
		dryRun bool
		once   bool
	)

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send desktop notifications before events start",
		Long: `Reminders fire once per lead time (notifications.before in the config,
or --before). Events are re-read every sync interval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			leads := g.cfg.Notifications.Before
			if before != "" {
				leads = nil
				for _, s := range strings.Split(before, ",") {
					d, err := parseDuration(s)
					if err != nil {
						return fmt.Errorf("before: %w", err)
					}
					leads = append(leads, d)
				}
			}
			sched := notify.NewScheduler(leads)

			var sender notify.Sender = printSender{w: cmd.OutOrStdout()}
			if !dryRun {
				n, err := notify.New("almanac")
				if err != nil {
					return err
				}
				defer n.Close()
				sender = n
			}

			events, err := loadEvents(cmd.Context(), g, input)
			if err != nil {
				return err
			}
			remind(sched, sender, events, almanac.Now())
			if once {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			refresh := time.NewTicker(g.cfg.Sync.Interval)
			defer refresh.Stop()
			check := time.NewTicker(reminderCheckInterval)
			defer check.Stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-refresh.C:
					fresh, err := loadEvents(ctx, g, input)
					if err != nil {
						slog.Warn("failed to reload events, keeping previous", "error", err)
						continue
					}
					events = fresh
				case <-check.C:
					remind(sched, sender, events, almanac.Now())
				}
			}
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "read events from an ICS file instead of syncing")
	cmd.Flags().StringVar(&before, "before", "", "comma separated lead times, e.g. 15m,5m")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print reminders instead of sending them")
	cmd.Flags().BoolVar(&once, "once", false, "check once and exit")
	return cmd
}

func remind(sched *notify.Scheduler, sender notify.Sender, events []calendar.Event, now almanac.DateTime) {
	for _, n := range sched.Due(events, now) {
		if _, err := sender.Send(n); err != nil {
			slog.Warn("failed to send notification", "event", n.EventUID, "error", err)
		}
	}
}

// watchReminders checks current() for due reminders until ctx is done.
func watchReminders(ctx context.Context, sched *notify.Scheduler, sender notify.Sender, current func() []calendar.Event) {
	t := time.NewTicker(reminderCheckInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			remind(sched, sender, current(), almanac.Now())
		}
	}
}

// printSender writes reminders to w.
type printSender struct {
	w io.Writer
}

func (p printSender) Send(n notify.Notification) (uint32, error) {
	body := strings.ReplaceAll(n.Body, "\n", " | ")
	_, err := fmt.Fprintf(p.w, "%s: %s\n", n.Summary, body)
	return 0, err
}
