package calendar

import (
	"testing"

	"github.com/cpuguy83/almanac"
	"github.com/cpuguy83/almanac/zone"
)

func TestIsEffectivelyAllDay(t *testing.T) {
	opt := almanac.WithZoneName("America/New_York")
	at := func(day, hour, second int) almanac.DateTime {
		return almanac.FromObject(almanac.Fields{
			almanac.Year:   2026,
			almanac.Month:  2,
			almanac.Day:    day,
			almanac.Hour:   hour,
			almanac.Second: second,
		}, opt)
	}

	tests := []struct {
		name  string
		start almanac.DateTime
		end   almanac.DateTime
		want  bool
	}{
		{
			name:  "single day midnight to midnight",
			start: at(17, 0, 0),
			end:   at(18, 0, 0),
			want:  true,
		},
		{
			name:  "multi-day midnight to midnight (5 days)",
			start: at(16, 0, 0),
			end:   at(21, 0, 0),
			want:  true,
		},
		{
			name:  "start not midnight",
			start: at(17, 9, 0),
			end:   at(18, 0, 0),
			want:  false,
		},
		{
			name:  "end not midnight",
			start: at(17, 0, 0),
			end:   at(18, 17, 0),
			want:  false,
		},
		{
			name:  "same time (zero duration)",
			start: at(17, 0, 0),
			end:   at(17, 0, 0),
			want:  false,
		},
		{
			name:  "end before start",
			start: at(18, 0, 0),
			end:   at(17, 0, 0),
			want:  false,
		},
		{
			name:  "start has seconds",
			start: at(17, 0, 1),
			end:   at(18, 0, 0),
			want:  false,
		},
		{
			name:  "midnight elsewhere is not midnight here",
			start: almanac.UTC(2026, 2, 17, 0, 0, 0, 0).SetZone(zone.IANA("America/New_York"), false),
			end:   almanac.UTC(2026, 2, 18, 0, 0, 0, 0).SetZone(zone.IANA("America/New_York"), false),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isEffectivelyAllDay(tt.start, tt.end)
			if got != tt.want {
				t.Errorf("isEffectivelyAllDay(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestEventTiming(t *testing.T) {
	e := Event{
		Summary: "Planning",
		Span: almanac.IntervalFromDateTimes(
			almanac.UTC(2024, 3, 4, 10, 0, 0, 0),
			almanac.UTC(2024, 3, 4, 11, 30, 0, 0),
		),
	}

	if got := e.Duration().ToISO(); got != "PT1H30M" {
		t.Errorf("Duration() = %s, want PT1H30M", got)
	}

	before := almanac.UTC(2024, 3, 4, 9, 45, 0, 0)
	during := almanac.UTC(2024, 3, 4, 10, 15, 0, 0)

	if e.IsOngoing(before) || !e.IsOngoing(during) {
		t.Error("IsOngoing mismatch")
	}

	quarter := almanac.DurationFromObject(almanac.Values{almanac.Minute: 15})
	tenMinutes := almanac.DurationFromObject(almanac.Values{almanac.Minute: 10})
	if !e.IsUpcoming(before, quarter) {
		t.Error("expected event to be upcoming within 15 minutes")
	}
	if e.IsUpcoming(before, tenMinutes) {
		t.Error("expected event not to be upcoming within 10 minutes")
	}
	if e.IsUpcoming(during, quarter) {
		t.Error("started events are not upcoming")
	}

	if got := e.StartsIn(before).As(almanac.Minute); got != 15 {
		t.Errorf("StartsIn(before) = %v minutes, want 15", got)
	}
	if got := e.StartsIn(during).As(almanac.Minute); got != -15 {
		t.Errorf("StartsIn(during) = %v minutes, want -15", got)
	}
}
