// almanac is a command line front end for the almanac date-time engine and
// its calendar tools.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/cpuguy83/almanac"
	"github.com/cpuguy83/almanac/internal/config"
	"github.com/cpuguy83/almanac/zone"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globals holds the state shared by every subcommand.
type globals struct {
	configPath string
	verbose    bool
	zoneName   string
	localeTag  string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:          "almanac",
		Short:        "Time zone aware date and time tool",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			almanac.ResetSettings()
		},
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "path to config file (default: ~/.config/almanac/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose logging")
	cmd.PersistentFlags().StringVar(&g.zoneName, "zone", "", "default zone, e.g. America/New_York, UTC+3 or local")
	cmd.PersistentFlags().StringVar(&g.localeTag, "locale", "", "default locale, e.g. en-US")

	cmd.AddCommand(
		newParseCmd(),
		newFormatCmd(),
		newConvertCmd(),
		newDiffCmd(),
		newDurationCmd(),
		newIntervalCmd(),
		newWeekCmd(),
		newSyncCmd(g),
		newFreeBusyCmd(g),
		newAgendaCmd(g),
		newRemindCmd(g),
	)
	return cmd
}

// setup configures logging, loads the config file and applies engine
// defaults. Flags override the config file.
func (g *globals) setup(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	g.cfg = cfg

	if err := cfg.ApplyEngine(); err != nil {
		return err
	}
	if g.zoneName != "" {
		z := zone.Named(g.zoneName)
		if !z.IsValid() {
			return fmt.Errorf("zone %q: %w", g.zoneName, almanac.ErrUnsupportedZone)
		}
		almanac.SetDefaultZone(z)
	}
	if g.localeTag != "" {
		almanac.SetDefaultLocale(g.localeTag)
	}

	slog.Debug("engine configured", "zone", almanac.DefaultZone().Name(), "locale", almanac.DefaultLocale().Tag)
	return nil
}

func (g *globals) loadConfig() (*config.Config, error) {
	if g.configPath != "" {
		return config.LoadFrom(g.configPath)
	}
	cfg, err := config.Load()
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no config file, using defaults")
		return config.Parse(nil)
	}
	return cfg, err
}

// parseDateTime reads text in the given grammar. "auto" tries ISO 8601,
// RFC 2822, HTTP and SQL in turn; "now" is the current time.
func parseDateTime(text, kind string, opts ...almanac.Option) (almanac.DateTime, error) {
	if strings.EqualFold(text, "now") {
		return almanac.Now(), nil
	}

	parsers := map[string]func(string, ...almanac.Option) almanac.DateTime{
		"iso":     almanac.FromISO,
		"rfc2822": almanac.FromRFC2822,
		"http":    almanac.FromHTTP,
		"sql":     almanac.FromSQL,
	}

	if kind != "auto" {
		parse, ok := parsers[kind]
		if !ok {
			return almanac.DateTime{}, fmt.Errorf("unknown input kind %q (use auto, iso, rfc2822, http or sql)", kind)
		}
		dt := parse(text, opts...)
		return dt, dt.Err()
	}

	var first error
	for _, name := range []string{"iso", "rfc2822", "http", "sql"} {
		dt, err := probe(parsers[name], text, opts...)
		if err == nil {
			slog.Debug("parsed input", "kind", name)
			return dt, nil
		}
		if first == nil {
			first = err
		}
	}
	return almanac.DateTime{}, first
}

// probe runs parse, turning the panic raised under throw_on_invalid back into
// an error so the next grammar can be tried.
func probe(parse func(string, ...almanac.Option) almanac.DateTime, text string, opts ...almanac.Option) (dt almanac.DateTime, err error) {
	defer func() {
		if r := recover(); r != nil {
			inv, ok := r.(*almanac.Invalid)
			if !ok {
				panic(r)
			}
			err = inv
		}
	}()
	dt = parse(text, opts...)
	return dt, dt.Err()
}

// parseUnits resolves a comma separated unit list.
func parseUnits(raw string) ([]almanac.Unit, error) {
	if raw == "" {
		return nil, nil
	}
	var units []almanac.Unit
	for _, name := range strings.Split(raw, ",") {
		u, ok := almanac.ParseUnit(name)
		if !ok {
			return nil, fmt.Errorf("unit %q: %w", name, almanac.ErrInvalidUnit)
		}
		units = append(units, u)
	}
	return units, nil
}
