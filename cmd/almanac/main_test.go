package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cpuguy83/almanac"
)

const testConfig = `engine:
  zone: UTC
  locale: en-US
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(almanac.ResetSettings)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(testConfig), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"parse", []string{"parse", "2016-05-25T09:08:34.123+06:00"}, "utc:     2016-05-25T03:08:34.123Z"},
		{"parse rfc2822", []string{"parse", "Tue, 01 Nov 2016 13:23:12 +0630"}, "utc:     2016-11-01T06:53:12.000Z"},
		{"parse with format", []string{"parse", "--format", "MM/dd/yyyy HH:mm", "05/25/2016 09:08"}, "iso:     2016-05-25T09:08:00.000Z"},
		{"parse explain", []string{"parse", "--explain", "--format", "yyyy-MM-dd", "2016-05-25"}, "match:   d = 25"},
		{"convert", []string{"convert", "2016-05-25T09:08:34.123+06:00", "America/New_York"}, "2016-05-24T23:08:34.123-04:00"},
		{"convert keep local", []string{"convert", "--keep-local", "2016-05-25T09:08:34.123+06:00", "UTC"}, "2016-05-25T09:08:34.123Z"},
		{"format tokens", []string{"format", "yyyy LLL dd", "2016-05-25T09:08:34.123Z"}, "2016 May 25"},
		{"format technical", []string{"format", "iso-week", "2021-01-01"}, "2020-W53-5"},
		{"format preset", []string{"format", "date-med", "2016-05-25"}, "May 25, 2016"},
		{"diff", []string{"diff", "--units", "days", "2021-01-01", "2021-01-03T12:00"}, "P2.5D"},
		{"week", []string{"week", "2021-01-01"}, "week date:     2020-W53-5"},
		{"duration iso", []string{"duration", "P1Y6DT2S"}, "P1Y6DT2S"},
		{"duration shorthand", []string{"duration", "--as", "minutes", "1h30m"}, "90"},
		{"duration clock", []string{"duration", "--format", "hh:mm", "01:30:00"}, "01:30"},
		{"duration shift", []string{"duration", "--shift-to", "hours,minutes", "PT150M"}, "PT2H30M"},
		{"interval count", []string{"interval", "--count", "days", "2021-01-01/2021-01-03"}, "3"},
		{"interval split", []string{"interval", "--split-by", "1d", "2021-01-01T00:00:00Z/P2D"}, "2021-01-02T00:00:00.000Z/2021-01-03T00:00:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("almanac %v: %v", tt.args, err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("almanac %v output:\n%s\nwant it to contain %q", tt.args, out, tt.want)
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	for _, args := range [][]string{
		{"parse", "not a date"},
		{"parse", "--kind", "carrier-pigeon", "2021-01-01"},
		{"--zone", "Mars/Olympus", "week"},
		{"diff", "--units", "fortnights", "2021-01-01", "2021-01-02"},
		{"interval", "2021-01-03/2021-01-01"},
		{"duration", "soon"},
	} {
		if _, err := run(t, args...); err == nil {
			t.Errorf("almanac %v: expected error", args)
		}
	}
}

func TestFreeBusyFromFile(t *testing.T) {
	dir := t.TempDir()
	ics := filepath.Join(dir, "busy.ics")
	data := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//test//test//EN\r\n" +
		"BEGIN:VEVENT\r\nUID:one\r\nDTSTAMP:20240301T000000Z\r\nSUMMARY:Busy\r\n" +
		"DTSTART:20240304T100000Z\r\nDTEND:20240304T110000Z\r\nEND:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	if err := os.WriteFile(ics, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "freebusy", "--input", ics, "--window", "2024-03-04T00:00:00Z/P1D")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"2024-03-04T09:00:00.000Z/2024-03-04T10:00:00.000Z",
		"2024-03-04T11:00:00.000Z/2024-03-04T17:00:00.000Z",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output:\n%s\nwant it to contain %q", out, want)
		}
	}

	export := filepath.Join(dir, "free.ics")
	if _, err := run(t, "freebusy", "--input", ics, "--window", "2024-03-04T00:00:00Z/P1D", "--export", export); err != nil {
		t.Fatal(err)
	}
	written, err := os.ReadFile(export)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(written), "BEGIN:VEVENT"); got != 2 {
		t.Errorf("exported %d events, want 2", got)
	}
}

func TestAgendaEmpty(t *testing.T) {
	ics := filepath.Join(t.TempDir(), "old.ics")
	data := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//test//test//EN\r\n" +
		"BEGIN:VEVENT\r\nUID:old\r\nDTSTAMP:20000101T000000Z\r\nSUMMARY:Long gone\r\n" +
		"DTSTART:20000101T100000Z\r\nDTEND:20000101T110000Z\r\nEND:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	if err := os.WriteFile(ics, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "agenda", "--input", ics, "--range", "P1W", "--details")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "No upcoming events" {
		t.Errorf("agenda output = %q", out)
	}
}

func TestRemindDryRun(t *testing.T) {
	start := almanac.Now().ToUTC().Reconfigure(almanac.WithLocale("en-US")).
		Plus(almanac.DurationFromObject(almanac.Values{almanac.Minute: 4, almanac.Second: 30}))
	stamp := func(dt almanac.DateTime) string { return dt.ToFormat("yyyyMMdd'T'HHmmss'Z'") }

	ics := filepath.Join(t.TempDir(), "soon.ics")
	data := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//test//test//EN\r\n" +
		"BEGIN:VEVENT\r\nUID:soon\r\nDTSTAMP:" + stamp(start) + "\r\nSUMMARY:Standup\r\n" +
		"DTSTART:" + stamp(start) + "\r\nDTEND:" + stamp(start.Plus(almanac.DurationFromObject(almanac.Values{almanac.Minute: 15}))) + "\r\n" +
		"LOCATION:Room 4\r\nEND:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	if err := os.WriteFile(ics, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "remind", "--input", ics, "--before", "5m", "--dry-run", "--once")
	if err != nil {
		t.Fatal(err)
	}
	if want := "Standup: Starts in 4 minutes | Room 4\n"; out != want {
		t.Errorf("remind output = %q, want %q", out, want)
	}
}
