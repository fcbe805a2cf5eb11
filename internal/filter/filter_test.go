package filter

import (
	"testing"

	"github.com/cpuguy83/almanac"
	"github.com/cpuguy83/almanac/internal/calendar"
	"github.com/cpuguy83/almanac/internal/config"
)

func event(summary string, startHour, endHour int) calendar.Event {
	return calendar.Event{
		UID:     summary,
		Summary: summary,
		Source:  "work/Team",
		Span: almanac.IntervalFromDateTimes(
			almanac.UTC(2024, 3, 4, startHour, 0, 0, 0),
			almanac.UTC(2024, 3, 4, endHour, 0, 0, 0),
		),
	}
}

func summaries(events []calendar.Event) []string {
	var out []string
	for _, e := range events {
		out = append(out, e.Summary)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply(t *testing.T) {
	events := []calendar.Event{
		event("Daily Standup", 9, 10),
		event("Lunch", 12, 13),
		event("Design review", 15, 16),
	}

	tests := []struct {
		name string
		cfg  config.FilterConfig
		want []string
	}{
		{
			name: "no rules",
			cfg:  config.FilterConfig{},
			want: []string{"Daily Standup", "Lunch", "Design review"},
		},
		{
			name: "contains case insensitive",
			cfg: config.FilterConfig{Rules: []config.FilterRule{
				{Field: "title", Contains: "standup", CaseInsensitive: true},
			}},
			want: []string{"Daily Standup"},
		},
		{
			name: "or mode",
			cfg: config.FilterConfig{Mode: "or", Rules: []config.FilterRule{
				{Field: "title", Exact: "Lunch"},
				{Field: "title", Suffix: "review"},
			}},
			want: []string{"Lunch", "Design review"},
		},
		{
			name: "and mode",
			cfg: config.FilterConfig{Mode: "and", Rules: []config.FilterRule{
				{Field: "source", Prefix: "work/"},
				{Field: "title", Regex: "^D"},
			}},
			want: []string{"Daily Standup", "Design review"},
		},
		{
			name: "legacy regex match",
			cfg: config.FilterConfig{Rules: []config.FilterRule{
				{Field: "title", Match: "regex:^L"},
			}},
			want: []string{"Lunch"},
		},
		{
			name: "within fixed window",
			cfg: config.FilterConfig{Rules: []config.FilterRule{
				{Within: "2024-03-04T11:30:00Z/PT2H"},
			}},
			want: []string{"Lunch"},
		},
		{
			name: "within window and title",
			cfg: config.FilterConfig{Mode: "and", Rules: []config.FilterRule{
				{Within: "2024-03-04T08:00:00Z/2024-03-04T16:00:00Z"},
				{Field: "title", Prefix: "D"},
			}},
			want: []string{"Daily Standup", "Design review"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			got := summaries(f.Apply(events))
			if !equalStrings(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithinFromNow(t *testing.T) {
	t.Cleanup(almanac.ResetSettings)
	now := almanac.UTC(2024, 3, 4, 8, 0, 0, 0)
	almanac.SetNow(func() int64 { return now.ToMillis() })

	f, err := New(config.FilterConfig{Rules: []config.FilterRule{{Within: "3h"}}})
	if err != nil {
		t.Fatal(err)
	}

	got := summaries(f.Apply([]calendar.Event{
		event("Daily Standup", 9, 10),
		event("Lunch", 12, 13),
	}))
	if !equalStrings(got, []string{"Daily Standup"}) {
		t.Errorf("Apply() = %v, want [Daily Standup]", got)
	}
}

func TestNewErrors(t *testing.T) {
	for _, r := range []config.FilterRule{
		{Field: "title"},
		{Field: "title", Regex: "("},
		{Within: "soon"},
		{Within: "2024-03-04/2024-03-01"},
	} {
		if _, err := New(config.FilterConfig{Rules: []config.FilterRule{r}}); err == nil {
			t.Errorf("New(%+v) expected error", r)
		}
	}
}
