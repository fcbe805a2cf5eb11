// Package config provides configuration loading for almanac.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cpuguy83/almanac"
	"github.com/cpuguy83/almanac/zone"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Sync     SyncConfig     `yaml:"sync"`
	Sources  []SourceConfig `yaml:"sources"`
	Filters  FilterConfig   `yaml:"filters"`
	FreeBusy FreeBusyConfig `yaml:"freebusy"`

	Notifications NotificationConfig `yaml:"notifications"`
}

// EngineConfig sets the process-wide defaults of the date-time engine.
type EngineConfig struct {
	Zone               string `yaml:"zone"`             // IANA name, "local", "utc" or "UTC+3"
	Locale             string `yaml:"locale"`           // BCP 47 tag
	NumberingSystem    string `yaml:"numbering_system"` // e.g. "latn", "arab"
	OutputCalendar     string `yaml:"output_calendar"`
	ThrowOnInvalid     bool   `yaml:"throw_on_invalid"`
	TwoDigitCutoffYear int    `yaml:"two_digit_cutoff_year"`
}

// SyncConfig configures how sources are fetched.
type SyncConfig struct {
	Interval time.Duration    // How often Run re-fetches
	Ahead    almanac.Duration // How far past now to fetch (default: 7 days)
	Behind   almanac.Duration // How far before now to fetch (default: none)
	Output   string
}

// SourceConfig configures a calendar source.
type SourceConfig struct {
	Name        string       `yaml:"name"`
	Type        string       `yaml:"type"` // "ics", "caldav", "icloud", "ms365"
	URL         string       `yaml:"url"`
	ClientID    string       `yaml:"client_id,omitempty"` // For MS365: app registration, broker default if empty
	Username    string       `yaml:"username,omitempty"`
	Password    string       `yaml:"password,omitempty"`
	PasswordCmd string       `yaml:"password_cmd,omitempty"`
	Calendars   []string     `yaml:"calendars,omitempty"` // For CalDAV: which calendars to sync
	Filters     FilterConfig `yaml:"filters,omitempty"`   // Per-source filters (include)
}

// FilterConfig configures event filtering.
type FilterConfig struct {
	Mode  string       `yaml:"mode"` // "or" or "and"
	Rules []FilterRule `yaml:"rules"`
}

// FilterRule defines a single filter rule.
// Use exactly one of: Contains, Exact, Prefix, Suffix, Regex or Within.
type FilterRule struct {
	Field           string `yaml:"field"`              // "title", "organizer", "source", "description", "location"
	Contains        string `yaml:"contains,omitempty"` // Substring match
	Exact           string `yaml:"exact,omitempty"`    // Exact string match
	Prefix          string `yaml:"prefix,omitempty"`   // Starts with
	Suffix          string `yaml:"suffix,omitempty"`   // Ends with
	Regex           string `yaml:"regex,omitempty"`    // Regular expression
	CaseInsensitive bool   `yaml:"case_insensitive"`

	// Within matches events overlapping a time window: either an ISO 8601
	// interval ("2024-01-01/P1W") or a duration from now ("3d", "PT12H").
	// Field is ignored.
	Within string `yaml:"within,omitempty"`

	// Deprecated: Use Contains, Exact, Prefix, Suffix, or Regex instead.
	// Kept for backward compatibility. If set and no other match type is specified,
	// treated as Contains (or Regex if prefixed with "regex:").
	Match string `yaml:"match,omitempty"`
}

// FreeBusyConfig configures free slot computation.
type FreeBusyConfig struct {
	WorkStart almanac.Duration // Offset from midnight, e.g. "09:00"
	WorkEnd   almanac.Duration
	Weekdays  []int // ISO weekdays, 1 = Monday
	MinSlot   almanac.Duration
}

// NotificationConfig configures desktop reminders.
type NotificationConfig struct {
	Enabled bool
	Before  []almanac.Duration // Lead times before an event starts
}

// Load reads configuration from the default location (~/.config/almanac/config.yaml).
func Load() (*Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("get config dir: %w", err)
	}

	path := filepath.Join(configDir, "almanac", "config.yaml")
	return LoadFrom(path)
}

// LoadFrom reads configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	path = expandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.Sync.Output = expandPath(cfg.Sync.Output)

	return &cfg, nil
}

// applyDefaults sets default values for unspecified config options.
func (c *Config) applyDefaults() {
	if c.Sync.Interval == 0 {
		c.Sync.Interval = 5 * time.Minute
	}
	if unset(c.Sync.Ahead) || c.Sync.Ahead.ToMillis() == 0 {
		c.Sync.Ahead = almanac.DurationFromObject(almanac.Values{almanac.Day: 7})
	}
	if c.Sync.Output == "" {
		dataDir, _ := os.UserHomeDir()
		c.Sync.Output = filepath.Join(dataDir, ".local", "share", "almanac", "calendar.ics")
	}
	if c.Filters.Mode == "" {
		c.Filters.Mode = "or"
	}
	if unset(c.FreeBusy.WorkStart) {
		c.FreeBusy.WorkStart = almanac.DurationFromObject(almanac.Values{almanac.Hour: 9})
	}
	if unset(c.FreeBusy.WorkEnd) {
		c.FreeBusy.WorkEnd = almanac.DurationFromObject(almanac.Values{almanac.Hour: 17})
	}
	if c.FreeBusy.Weekdays == nil {
		c.FreeBusy.Weekdays = []int{1, 2, 3, 4, 5}
	}
	if unset(c.FreeBusy.MinSlot) {
		c.FreeBusy.MinSlot = almanac.DurationFromObject(almanac.Values{almanac.Minute: 30})
	}
	if c.Notifications.Before == nil {
		c.Notifications.Before = []almanac.Duration{
			almanac.DurationFromObject(almanac.Values{almanac.Minute: 15}),
			almanac.DurationFromObject(almanac.Values{almanac.Minute: 5}),
		}
	}
}

func unset(d almanac.Duration) bool {
	return len(d.Units()) == 0
}

// ApplyEngine pushes the engine section into almanac's process-wide settings.
func (c *Config) ApplyEngine() error {
	e := c.Engine
	if e.Zone != "" {
		z := zone.Named(e.Zone)
		if !z.IsValid() {
			return fmt.Errorf("engine zone %q: %w", e.Zone, almanac.ErrUnsupportedZone)
		}
		almanac.SetDefaultZone(z)
	}
	if e.Locale != "" {
		almanac.SetDefaultLocale(e.Locale)
	}
	if e.NumberingSystem != "" {
		almanac.SetDefaultNumberingSystem(e.NumberingSystem)
	}
	if e.OutputCalendar != "" {
		almanac.SetDefaultOutputCalendar(e.OutputCalendar)
	}
	if e.TwoDigitCutoffYear != 0 {
		almanac.SetTwoDigitCutoffYear(e.TwoDigitCutoffYear)
	}
	almanac.SetThrowOnInvalid(e.ThrowOnInvalid)
	return nil
}

// GetPassword returns the password for a source, executing password_cmd if needed.
func (s *SourceConfig) GetPassword() (string, error) {
	if s.Password != "" {
		return s.Password, nil
	}
	if s.PasswordCmd == "" {
		return "", nil
	}

	cmd := exec.Command("sh", "-c", s.PasswordCmd)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("execute password_cmd: %w", err)
	}

	return strings.TrimSpace(string(out)), nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ParseDuration accepts day and week counts ("14d", "2w"), Go durations
// ("1h30m") and ISO 8601 durations ("P1W", "PT90M"). Negative values are
// rejected. The empty string is a zero duration.
func ParseDuration(s string) (almanac.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return almanac.DurationFromMillis(0), nil
	}

	if s[0] == 'P' || s[0] == 'p' {
		d := almanac.DurationFromISO(strings.ToUpper(s))
		if err := d.Err(); err != nil {
			return d, err
		}
		if d.ToMillis() < 0 {
			return almanac.Duration{}, fmt.Errorf("negative duration %q", s)
		}
		return d, nil
	}

	var unit almanac.Unit
	switch s[len(s)-1] {
	case 'd':
		unit = almanac.Day
	case 'w':
		unit = almanac.Week
	}
	if unit != 0 {
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil {
			return almanac.Duration{}, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		if n < 0 {
			return almanac.Duration{}, fmt.Errorf("negative duration %q", s)
		}
		return almanac.DurationFromObject(almanac.Values{unit: float64(n)}), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return almanac.Duration{}, err
	}
	if d < 0 {
		return almanac.Duration{}, fmt.Errorf("negative duration %q", s)
	}
	return almanac.DurationFromMillis(d.Milliseconds()).ShiftTo(almanac.Hour, almanac.Minute, almanac.Second, almanac.Millisecond), nil
}

// UnmarshalYAML implements custom unmarshaling for duration fields.
func (c *SyncConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Interval string `yaml:"interval"`
		Ahead    string `yaml:"ahead"`
		Behind   string `yaml:"behind"`
		Output   string `yaml:"output"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.Interval != "" {
		d, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return fmt.Errorf("parse interval: %w", err)
		}
		c.Interval = d
	}
	if raw.Ahead != "" {
		d, err := ParseDuration(raw.Ahead)
		if err != nil {
			return fmt.Errorf("parse ahead: %w", err)
		}
		c.Ahead = d
	}
	if raw.Behind != "" {
		d, err := ParseDuration(raw.Behind)
		if err != nil {
			return fmt.Errorf("parse behind: %w", err)
		}
		c.Behind = d
	}
	c.Output = raw.Output
	return nil
}

// UnmarshalYAML implements custom unmarshaling for the free/busy section.
func (c *FreeBusyConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		WorkStart string `yaml:"work_start"`
		WorkEnd   string `yaml:"work_end"`
		Weekdays  []int  `yaml:"weekdays"`
		MinSlot   string `yaml:"min_slot"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	for _, f := range []struct {
		name string
		raw  string
		dst  *almanac.Duration
	}{
		{"work_start", raw.WorkStart, &c.WorkStart},
		{"work_end", raw.WorkEnd, &c.WorkEnd},
	} {
		if f.raw == "" {
			continue
		}
		d := almanac.DurationFromISOTime(f.raw)
		if err := d.Err(); err != nil {
			return fmt.Errorf("parse %s: %w", f.name, err)
		}
		*f.dst = d
	}

	for _, wd := range raw.Weekdays {
		if wd < 1 || wd > 7 {
			return fmt.Errorf("weekday %d out of range 1-7", wd)
		}
	}
	c.Weekdays = raw.Weekdays

	if raw.MinSlot != "" {
		d, err := ParseDuration(raw.MinSlot)
		if err != nil {
			return fmt.Errorf("parse min_slot: %w", err)
		}
		c.MinSlot = d
	}
	return nil
}

// UnmarshalYAML implements custom unmarshaling for notification config.
func (c *NotificationConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Enabled bool     `yaml:"enabled"`
		Before  []string `yaml:"before"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	c.Enabled = raw.Enabled
	for _, s := range raw.Before {
		d, err := ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse notification before duration %q: %w", s, err)
		}
		c.Before = append(c.Before, d)
	}
	return nil
}
