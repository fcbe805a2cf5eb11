package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/cpuguy83/almanac"
	"github.com/cpuguy83/almanac/locale"
	"github.com/cpuguy83/almanac/zone"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var (
		kind    string
		format  string
		setZone bool
		explain bool
	)

	cmd := &cobra.Command{
		Use:   "parse TEXT",
		Short: "Parse a date and time and show its representations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []almanac.Option
			if setZone {
				opts = append(opts, almanac.WithSetZone())
			}

			if explain {
				if format == "" {
					return fmt.Errorf("--explain requires --format")
				}
				if err := printExplanation(cmd.OutOrStdout(), almanac.ExplainFormat(args[0], format, opts...)); err != nil {
					return err
				}
			}

			var (
				dt  almanac.DateTime
				err error
			)
			if format != "" {
				dt = almanac.FromFormat(args[0], format, opts...)
				err = dt.Err()
			} else {
				dt, err = parseDateTime(args[0], kind, opts...)
			}
			if err != nil {
				return err
			}
			printDateTime(cmd.OutOrStdout(), dt)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "auto", "input grammar: auto, iso, rfc2822, http or sql")
	cmd.Flags().StringVarP(&format, "format", "f", "", "parse with a token format such as \"MM/dd/yyyy HH:mm\"")
	cmd.Flags().BoolVar(&setZone, "set-zone", false, "keep the zone found in the input")
	cmd.Flags().BoolVar(&explain, "explain", false, "show how --format matched the input")
	return cmd
}

func printDateTime(w io.Writer, dt almanac.DateTime) {
	fmt.Fprintf(w, "iso:     %s\n", dt.ToISO())
	fmt.Fprintf(w, "utc:     %s\n", dt.ToUTC().ToISO())
	fmt.Fprintf(w, "zone:    %s (%s, %s)\n", dt.ZoneName(), dt.ToFormat("ZZ"), dt.OffsetNameShort())
	fmt.Fprintf(w, "local:   %s\n", dt.ToLocaleString(locale.DateTimeFull))
	fmt.Fprintf(w, "rfc2822: %s\n", dt.ToRFC2822())
	fmt.Fprintf(w, "http:    %s\n", dt.ToHTTP())
	fmt.Fprintf(w, "sql:     %s\n", dt.ToSQL())
	fmt.Fprintf(w, "millis:  %d\n", dt.ToMillis())
}

func printExplanation(w io.Writer, ex almanac.FormatExplanation) error {
	fmt.Fprintf(w, "input:   %s\n", ex.Input)
	fmt.Fprintf(w, "tokens:  %q\n", ex.Tokens)
	fmt.Fprintf(w, "regex:   %s\n", ex.Regex)
	if ex.Err != nil {
		return ex.Err
	}
	fmt.Fprintf(w, "raw:     %q\n", ex.RawMatches)
	for _, k := range slices.Sorted(maps.Keys(ex.Matches)) {
		fmt.Fprintf(w, "match:   %s = %d\n", k, ex.Matches[k])
	}
	fmt.Fprintf(w, "fields:  %v\n", ex.Result)
	if ex.Zone != nil {
		fmt.Fprintf(w, "zone:    %s\n", ex.Zone.Name())
	}
	if ex.SpecificOffset != nil {
		fmt.Fprintf(w, "offset:  %d\n", *ex.SpecificOffset)
	}
	fmt.Fprintln(w)
	return nil
}

// outputs are the technical renderings accepted by the format command.
var outputs = map[string]func(almanac.DateTime) string{
	"iso":      almanac.DateTime.ToISO,
	"iso-date": almanac.DateTime.ToISODate,
	"iso-time": almanac.DateTime.ToISOTime,
	"iso-week": almanac.DateTime.ToISOWeekDate,
	"rfc2822":  almanac.DateTime.ToRFC2822,
	"http":     almanac.DateTime.ToHTTP,
	"sql":      almanac.DateTime.ToSQL,
	"sql-date": almanac.DateTime.ToSQLDate,
	"sql-time": almanac.DateTime.ToSQLTime,
	"millis":   func(dt almanac.DateTime) string { return fmt.Sprint(dt.ToMillis()) },
	"seconds":  func(dt almanac.DateTime) string { return fmt.Sprint(dt.ToUnixInteger()) },
}

// presets maps preset names to locale presets.
var presets = map[string]locale.Preset{
	"date-short":     locale.DateShort,
	"date-med":       locale.DateMed,
	"date-full":      locale.DateFull,
	"date-huge":      locale.DateHuge,
	"time-simple":    locale.TimeSimple,
	"time-24":        locale.Time24Simple,
	"datetime-short": locale.DateTimeShort,
	"datetime-med":   locale.DateTimeMed,
	"datetime-full":  locale.DateTimeFull,
	"datetime-huge":  locale.DateTimeHuge,
}

func newFormatCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "format FORMAT [TEXT]",
		Short: "Render a date and time (default now) with a token format, preset or technical name",
		Long: `FORMAT is a token format such as "EEEE, MMMM d 'at' h:mm a", a preset
(date-short, datetime-full, ...) or a technical name (iso, iso-week, rfc2822,
http, sql, millis, ...).`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := "now"
			if len(args) == 2 {
				text = args[1]
			}
			dt, err := parseDateTime(text, kind)
			if err != nil {
				return err
			}

			name := strings.ToLower(args[0])
			switch {
			case outputs[name] != nil:
				fmt.Fprintln(cmd.OutOrStdout(), outputs[name](dt))
			case hasPreset(name):
				fmt.Fprintln(cmd.OutOrStdout(), dt.ToLocaleString(presets[name]))
			default:
				fmt.Fprintln(cmd.OutOrStdout(), dt.ToFormat(args[0]))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "auto", "input grammar: auto, iso, rfc2822, http or sql")
	return cmd
}

func hasPreset(name string) bool {
	_, ok := presets[name]
	return ok
}

func newConvertCmd() *cobra.Command {
	var (
		kind      string
		keepLocal bool
	)

	cmd := &cobra.Command{
		Use:   "convert TEXT ZONE",
		Short: "Show the same instant in another zone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := parseDateTime(args[0], kind, almanac.WithSetZone())
			if err != nil {
				return err
			}
			z := zone.Named(args[1])
			if !z.IsValid() {
				return fmt.Errorf("zone %q: %w", args[1], almanac.ErrUnsupportedZone)
			}

			converted := dt.SetZone(z, keepLocal)
			if err := converted.Err(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), converted.ToISO())
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "auto", "input grammar: auto, iso, rfc2822, http or sql")
	cmd.Flags().BoolVar(&keepLocal, "keep-local", false, "keep the wall-clock time and change the instant")
	return cmd
}

func newDiffCmd() *cobra.Command {
	var (
		kind  string
		units string
		human bool
	)

	cmd := &cobra.Command{
		Use:   "diff FROM TO",
		Short: "Show the duration from FROM to TO",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDateTime(args[0], kind)
			if err != nil {
				return fmt.Errorf("from: %w", err)
			}
			to, err := parseDateTime(args[1], kind)
			if err != nil {
				return fmt.Errorf("to: %w", err)
			}
			us, err := parseUnits(units)
			if err != nil {
				return err
			}

			d := to.Diff(from, us...)
			if human {
				fmt.Fprintln(cmd.OutOrStdout(), d.ToHuman())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), d.ToISO())
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "auto", "input grammar: auto, iso, rfc2822, http or sql")
	cmd.Flags().StringVarP(&units, "units", "u", "", "comma separated units, e.g. years,months,days")
	cmd.Flags().BoolVar(&human, "human", false, "print a human readable list instead of ISO 8601")
	return cmd
}

func newWeekCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "week [TEXT]",
		Short: "Show ISO week and calendar facts for a date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := "now"
			if len(args) == 1 {
				text = args[0]
			}
			dt, err := parseDateTime(text, kind)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "date:          %s\n", dt.ToISODate())
			fmt.Fprintf(w, "week date:     %s\n", dt.ToISOWeekDate())
			fmt.Fprintf(w, "weekday:       %d (%s)\n", dt.Weekday(), dt.ToFormat("cccc"))
			fmt.Fprintf(w, "ordinal:       %d\n", dt.Ordinal())
			fmt.Fprintf(w, "quarter:       %d\n", dt.Quarter())
			fmt.Fprintf(w, "days in month: %d\n", dt.DaysInMonth())
			fmt.Fprintf(w, "days in year:  %d\n", dt.DaysInYear())
			fmt.Fprintf(w, "weeks in year: %d\n", dt.WeeksInWeekYear())
			fmt.Fprintf(w, "leap year:     %t\n", dt.IsInLeapYear())
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "auto", "input grammar: auto, iso, rfc2822, http or sql")
	return cmd
}
