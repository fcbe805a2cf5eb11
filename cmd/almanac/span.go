package main

import (
	"fmt"
	"strings"

	"github.com/cpuguy83/almanac"
	"github.com/cpuguy83/almanac/internal/config"
	"github.com/spf13/cobra"
)

func newDurationCmd() *cobra.Command {
	var (
		shiftTo   string
		normalize bool
		accurate  bool
		human     bool
		format    string
		as        string
	)

	cmd := &cobra.Command{
		Use:   "duration DURATION",
		Short: "Convert and render a duration",
		Long: `DURATION is ISO 8601 ("P1DT2H"), a time of day ("01:30:00"), or a
shorthand such as "14d", "2w" or "1h30m".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []almanac.Option
			if accurate {
				opts = append(opts, almanac.WithAccuracy(almanac.Accurate))
			}

			d, err := parseDuration(args[0])
			if err != nil {
				return err
			}
			d = d.Reconfigure(opts...)

			units, err := parseUnits(shiftTo)
			if err != nil {
				return err
			}
			if len(units) > 0 {
				d = d.ShiftTo(units...)
			}
			if normalize {
				d = d.Normalize()
			}

			w := cmd.OutOrStdout()
			switch {
			case as != "":
				u, ok := almanac.ParseUnit(as)
				if !ok {
					return fmt.Errorf("unit %q: %w", as, almanac.ErrInvalidUnit)
				}
				fmt.Fprintln(w, d.As(u))
			case format != "":
				fmt.Fprintln(w, d.ToFormat(format))
			case human:
				fmt.Fprintln(w, d.ToHuman())
			default:
				fmt.Fprintln(w, d.ToISO())
			}
			return d.Err()
		},
	}

	cmd.Flags().StringVar(&shiftTo, "shift-to", "", "comma separated units to express the duration in")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "carry overflow into larger units")
	cmd.Flags().BoolVar(&accurate, "accurate", false, "use average month and year lengths instead of 30 and 365 days")
	cmd.Flags().BoolVar(&human, "human", false, "print a human readable list")
	cmd.Flags().StringVarP(&format, "format", "f", "", "render with duration tokens, e.g. \"hh:mm:ss\"")
	cmd.Flags().StringVar(&as, "as", "", "print the total in a single unit")
	return cmd
}

func parseDuration(text string) (almanac.Duration, error) {
	if strings.Contains(text, ":") {
		d := almanac.DurationFromISOTime(text)
		return d, d.Err()
	}
	return config.ParseDuration(text)
}

func newIntervalCmd() *cobra.Command {
	var (
		count   string
		length  string
		splitBy string
		divide  int
		format  string
	)

	cmd := &cobra.Command{
		Use:   "interval INTERVAL",
		Short: "Measure or split an ISO 8601 interval",
		Long: `INTERVAL is "<start>/<end>", "<start>/<duration>" or "<duration>/<end>",
for example "2024-01-01/P1M".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			iv := almanac.IntervalFromISO(args[0])
			if err := iv.Err(); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case count != "":
				u, ok := almanac.ParseUnit(count)
				if !ok {
					return fmt.Errorf("unit %q: %w", count, almanac.ErrInvalidUnit)
				}
				fmt.Fprintln(w, iv.Count(u))
			case length != "":
				u, ok := almanac.ParseUnit(length)
				if !ok {
					return fmt.Errorf("unit %q: %w", length, almanac.ErrInvalidUnit)
				}
				fmt.Fprintln(w, iv.Length(u))
			case splitBy != "":
				d, err := parseDuration(splitBy)
				if err != nil {
					return err
				}
				for _, part := range iv.SplitBy(d) {
					fmt.Fprintln(w, renderInterval(part, format))
				}
			case divide > 0:
				for _, part := range iv.DivideEqually(divide) {
					fmt.Fprintln(w, renderInterval(part, format))
				}
			default:
				fmt.Fprintln(w, renderInterval(iv, format))
				fmt.Fprintln(w, iv.ToDuration(almanac.Day, almanac.Hour, almanac.Minute, almanac.Second).ToHuman())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&count, "count", "", "count the units the interval touches, e.g. days")
	cmd.Flags().StringVar(&length, "length", "", "print the length in a unit, e.g. hours")
	cmd.Flags().StringVar(&splitBy, "split-by", "", "split into pieces of a duration, e.g. P1W or 2d")
	cmd.Flags().IntVar(&divide, "divide", 0, "split into N equal pieces")
	cmd.Flags().StringVarP(&format, "format", "f", "", "render endpoints with a token format")
	return cmd
}

func renderInterval(iv almanac.Interval, format string) string {
	if format == "" {
		return iv.ToISO()
	}
	return iv.ToFormat(format, "")
}
