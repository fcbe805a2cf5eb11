package config

import (
	"testing"
	"time"

	"github.com/cpuguy83/almanac"
	"github.com/cpuguy83/almanac/zone"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		// Days
		{"1d", 24 * time.Hour, false},
		{"14d", 14 * 24 * time.Hour, false},
		{"30d", 30 * 24 * time.Hour, false},

		// Weeks
		{"1w", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"4w", 28 * 24 * time.Hour, false},

		// Standard Go durations
		{"5m", 5 * time.Minute, false},
		{"1h", time.Hour, false},
		{"24h", 24 * time.Hour, false},
		{"336h", 14 * 24 * time.Hour, false},
		{"1h30m", time.Hour + 30*time.Minute, false},

		// ISO 8601
		{"P1W", 7 * 24 * time.Hour, false},
		{"PT90M", 90 * time.Minute, false},
		{"p1d", 24 * time.Hour, false},

		// Edge cases
		{"0d", 0, false},
		{"0w", 0, false},
		{"", 0, false},
		{"  14d  ", 14 * 24 * time.Hour, false},

		// Errors
		{"invalid", 0, true},
		{"d", 0, true},
		{"w", 0, true},
		{"14x", 0, true},
		{"-1d", 0, true},
		{"-5m", 0, true},
		{"P", 0, true},
		{"PT-1H", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if ms := int64(got.ToMillis()); ms != tt.expected.Milliseconds() {
				t.Errorf("ParseDuration(%q) = %v (%dms), want %v", tt.input, got, ms, tt.expected)
			}
		})
	}
}

func TestParseDurationKeepsCalendarUnits(t *testing.T) {
	got, err := ParseDuration("2w")
	if err != nil {
		t.Fatal(err)
	}
	if got.ToISO() != "P2W" {
		t.Errorf("ParseDuration(2w) = %s, want P2W", got.ToISO())
	}

	got, err = ParseDuration("1h30m")
	if err != nil {
		t.Fatal(err)
	}
	if got.ToISO() != "PT1H30M" {
		t.Errorf("ParseDuration(1h30m) = %s, want PT1H30M", got.ToISO())
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("sources: []\n"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Sync.Interval != 5*time.Minute {
		t.Errorf("Sync.Interval = %v, want 5m", cfg.Sync.Interval)
	}
	if cfg.Sync.Ahead.ToISO() != "P7D" {
		t.Errorf("Sync.Ahead = %s, want P7D", cfg.Sync.Ahead.ToISO())
	}
	if cfg.Filters.Mode != "or" {
		t.Errorf("Filters.Mode = %q, want or", cfg.Filters.Mode)
	}
	if cfg.FreeBusy.WorkStart.As(almanac.Hour) != 9 || cfg.FreeBusy.WorkEnd.As(almanac.Hour) != 17 {
		t.Errorf("work hours = %s-%s, want 9-17", cfg.FreeBusy.WorkStart, cfg.FreeBusy.WorkEnd)
	}
	if len(cfg.FreeBusy.Weekdays) != 5 {
		t.Errorf("Weekdays = %v, want Monday to Friday", cfg.FreeBusy.Weekdays)
	}
	if cfg.FreeBusy.MinSlot.As(almanac.Minute) != 30 {
		t.Errorf("MinSlot = %s, want 30 minutes", cfg.FreeBusy.MinSlot)
	}
	if cfg.Notifications.Enabled || len(cfg.Notifications.Before) != 2 {
		t.Errorf("Notifications = %+v, want disabled with two lead times", cfg.Notifications)
	}
}

func TestParseSections(t *testing.T) {
	data := []byte(`
engine:
  zone: Europe/Paris
  locale: fr-FR
  two_digit_cutoff_year: 30
sync:
  interval: 10m
  ahead: 2w
  behind: 1d
  output: /tmp/almanac.ics
sources:
  - name: work
    type: caldav
    url: https://dav.example.com
    calendars: [Work]
    filters:
      rules:
        - field: title
          contains: standup
        - within: P3D
  - name: office
    type: ms365
    client_id: 11111111-2222-3333-4444-555555555555
freebusy:
  work_start: "08:30"
  work_end: "16:00"
  weekdays: [1, 3, 5]
  min_slot: 45m
notifications:
  enabled: true
  before: [10m, PT1H]
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Engine.Zone != "Europe/Paris" || cfg.Engine.Locale != "fr-FR" || cfg.Engine.TwoDigitCutoffYear != 30 {
		t.Errorf("unexpected engine section: %+v", cfg.Engine)
	}
	if cfg.Sync.Interval != 10*time.Minute {
		t.Errorf("Sync.Interval = %v, want 10m", cfg.Sync.Interval)
	}
	if cfg.Sync.Ahead.ToISO() != "P2W" || cfg.Sync.Behind.ToISO() != "P1D" {
		t.Errorf("sync window = -%s/+%s, want -P1D/+P2W", cfg.Sync.Behind, cfg.Sync.Ahead)
	}
	if cfg.Sync.Output != "/tmp/almanac.ics" {
		t.Errorf("Sync.Output = %q", cfg.Sync.Output)
	}
	if len(cfg.Sources) != 2 || len(cfg.Sources[0].Filters.Rules) != 2 {
		t.Fatalf("unexpected sources: %+v", cfg.Sources)
	}
	if office := cfg.Sources[1]; office.Type != "ms365" || office.ClientID != "11111111-2222-3333-4444-555555555555" {
		t.Errorf("unexpected ms365 source: %+v", office)
	}
	if cfg.Sources[0].Filters.Rules[1].Within != "P3D" {
		t.Errorf("Within = %q, want P3D", cfg.Sources[0].Filters.Rules[1].Within)
	}
	if got := cfg.FreeBusy.WorkStart.As(almanac.Minute); got != 510 {
		t.Errorf("WorkStart = %v minutes, want 510", got)
	}
	if got := cfg.FreeBusy.WorkEnd.As(almanac.Hour); got != 16 {
		t.Errorf("WorkEnd = %v hours, want 16", got)
	}
	if len(cfg.FreeBusy.Weekdays) != 3 {
		t.Errorf("Weekdays = %v", cfg.FreeBusy.Weekdays)
	}
	if got := cfg.FreeBusy.MinSlot.As(almanac.Minute); got != 45 {
		t.Errorf("MinSlot = %v minutes, want 45", got)
	}
	if !cfg.Notifications.Enabled || len(cfg.Notifications.Before) != 2 {
		t.Fatalf("unexpected notifications: %+v", cfg.Notifications)
	}
	if got := cfg.Notifications.Before[1].As(almanac.Minute); got != 60 {
		t.Errorf("Before[1] = %v minutes, want 60", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, data := range []string{
		"sync:\n  ahead: 3x\n",
		"sync:\n  interval: soon\n",
		"freebusy:\n  work_start: noon\n",
		"freebusy:\n  weekdays: [0]\n",
		"freebusy:\n  min_slot: -1h\n",
		"notifications:\n  before: [later]\n",
	} {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("Parse(%q) expected error", data)
		}
	}
}

func TestApplyEngine(t *testing.T) {
	t.Cleanup(almanac.ResetSettings)

	cfg := &Config{Engine: EngineConfig{
		Zone:               "Asia/Tokyo",
		Locale:             "de-DE",
		TwoDigitCutoffYear: 2030,
	}}
	if err := cfg.ApplyEngine(); err != nil {
		t.Fatal(err)
	}

	if !almanac.DefaultZone().Equals(zone.IANA("Asia/Tokyo")) {
		t.Errorf("DefaultZone = %s, want Asia/Tokyo", almanac.DefaultZone().Name())
	}
	if got := almanac.DefaultLocale().Tag; got != "de-DE" {
		t.Errorf("DefaultLocale = %s, want de-DE", got)
	}
	if got := almanac.TwoDigitCutoffYear(); got != 30 {
		t.Errorf("TwoDigitCutoffYear = %d, want 30", got)
	}

	bad := &Config{Engine: EngineConfig{Zone: "Mars/Olympus"}}
	if err := bad.ApplyEngine(); err == nil {
		t.Error("expected error for unknown zone")
	}
}
