// Package agenda renders calendar events as plain text lines for terminals
// and menu launchers.
package agenda

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/cpuguy83/almanac"
	"github.com/cpuguy83/almanac/internal/calendar"
	"github.com/cpuguy83/almanac/internal/links"
)

// Options controls which events are listed.
type Options struct {
	// Range limits the list to events starting before now+Range.
	Range almanac.Duration

	// Grace keeps events listed for a while after they end.
	Grace almanac.Duration

	// Soon is how close a start must be to show "in Nm" instead of a clock time.
	Soon almanac.Duration

	// Hidden is the number of events removed by filters, shown as a footer.
	Hidden int
}

// DefaultOptions lists the next day of events.
func DefaultOptions() Options {
	return Options{
		Range: almanac.DurationFromObject(almanac.Values{almanac.Day: 1}),
		Soon:  almanac.DurationFromObject(almanac.Values{almanac.Minute: 15}),
	}
}

// Lines formats events for the main list. Timed events are grouped under
// day headers in now's zone; all-day events spanning today follow.
func Lines(events []calendar.Event, now almanac.DateTime, opts Options) []string {
	cutoff := now.Plus(opts.Range)
	today := now.StartOf(almanac.Day)

	var timed, allDay []calendar.Event
	for _, e := range events {
		if e.End().Plus(opts.Grace).Before(now) {
			continue
		}
		if e.Start().After(cutoff) {
			continue
		}

		if e.AllDay {
			start, end := floatingDay(e.Start(), now), floatingDay(e.End(), now)
			if !today.Before(start) && today.Before(end) {
				allDay = append(allDay, e)
			}
			continue
		}
		timed = append(timed, e)
	}

	slices.SortStableFunc(timed, func(a, b calendar.Event) int {
		return a.Start().Compare(b.Start())
	})
	slices.SortFunc(allDay, func(a, b calendar.Event) int {
		return cmp.Compare(a.Summary, b.Summary)
	})

	var lines []string
	var lastDay string
	for i := range timed {
		e := &timed[i]
		day := DayLabel(e.Start(), now)
		if day != lastDay {
			lines = append(lines, header(day))
			lastDay = day
		}
		lines = append(lines, eventLine(e, now, opts.Soon))
	}

	if len(allDay) > 0 {
		lines = append(lines, header("All Day"))
		for i := range allDay {
			e := &allDay[i]
			line := "  " + e.Summary
			if r := AllDayRange(e, now); r != "" {
				line += "  " + r
			}
			if e.Source != "" {
				line += fmt.Sprintf(" (%s)", e.Source)
			}
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		lines = append(lines, "No upcoming events")
	}

	switch {
	case opts.Hidden == 1:
		lines = append(lines, "", "1 hidden event")
	case opts.Hidden > 1:
		lines = append(lines, "", fmt.Sprintf("%d hidden events", opts.Hidden))
	}
	return lines
}

// eventLine formats a single timed event for the list.
func eventLine(e *calendar.Event, now almanac.DateTime, soon almanac.Duration) string {
	var when string
	if e.IsOngoing(now) {
		left := e.End().Diff(now)
		if left.As(almanac.Hour) < 1 {
			when = fmt.Sprintf("NOW (%dm left)", int(left.As(almanac.Minute)))
		} else {
			when = fmt.Sprintf("NOW (%.1fh left)", left.As(almanac.Hour))
		}
	} else {
		startsIn := e.Start().Diff(now)
		if ms := startsIn.ToMillis(); ms > 0 && ms <= soon.ToMillis() {
			when = fmt.Sprintf("in %dm", int(startsIn.As(almanac.Minute)))
		} else {
			when = inZone(e.Start(), now).ToFormat("HH:mm")
		}
	}

	return fmt.Sprintf("  %s  %s (%s)", when, e.Summary, FormatDuration(e.Span.ToDuration()))
}

// Details formats everything known about one event.
func Details(e *calendar.Event, now almanac.DateTime) []string {
	lines := []string{header(truncate(e.Summary, 40))}

	if e.AllDay {
		if r := AllDayRange(e, now); r != "" {
			lines = append(lines, "  All Day, "+r)
		} else {
			lines = append(lines, "  All Day, "+DayLabel(e.Start(), now))
		}
	} else {
		start, end := inZone(e.Start(), now), inZone(e.End(), now)
		lines = append(lines, fmt.Sprintf("  %s, %s - %s (%s)",
			DayLabel(e.Start(), now), start.ToFormat("HH:mm"), end.ToFormat("HH:mm"),
			FormatDuration(e.Span.ToDuration())))
	}

	if e.Location != "" {
		lines = append(lines, "  Location:  "+truncate(e.Location, 50))
	}
	if e.Organizer != "" {
		lines = append(lines, "  Organizer: "+e.Organizer)
	}
	if e.Source != "" {
		lines = append(lines, "  Calendar:  "+e.Source)
	}

	if all := links.DetectAll(e.Location, e.Description, e.URL); len(all) > 0 {
		lines = append(lines, header("Links"))
		for _, l := range all {
			if l.Service != "" {
				lines = append(lines, fmt.Sprintf("  %s: %s", l.Label(), l.URL))
				continue
			}
			lines = append(lines, "  "+l.URL)
		}
	}
	return lines
}

// DayLabel is "Today", "Tomorrow" or a short date, judged in now's zone.
func DayLabel(dt, now almanac.DateTime) string {
	local := inZone(dt, now)
	tomorrow := now.Plus(almanac.DurationFromObject(almanac.Values{almanac.Day: 1}))

	switch {
	case local.HasSame(now, almanac.Day):
		return "Today"
	case local.HasSame(tomorrow, almanac.Day):
		return "Tomorrow"
	default:
		return local.ToFormat("EEE, MMM d")
	}
}

// AllDayRange renders the days a multi-day all-day event covers, e.g.
// "Today – Tomorrow". Single-day events return "".
func AllDayRange(e *calendar.Event, now almanac.DateTime) string {
	start := floatingDay(e.Start(), now)
	last := floatingDay(e.End(), now).Minus(almanac.DurationFromObject(almanac.Values{almanac.Day: 1}))
	if !last.After(start) {
		return ""
	}
	return DayLabel(start, now) + " – " + DayLabel(last, now)
}

// FormatDuration renders a duration compactly: "45m", "2h" or "1.5h".
func FormatDuration(d almanac.Duration) string {
	hours := d.As(almanac.Hour)
	if hours < 1 {
		return fmt.Sprintf("%dm", int(d.As(almanac.Minute)))
	}
	if hours == float64(int(hours)) {
		return fmt.Sprintf("%dh", int(hours))
	}
	return fmt.Sprintf("%.1fh", hours)
}

func inZone(dt, now almanac.DateTime) almanac.DateTime {
	return dt.SetZone(now.Zone(), false)
}

// floatingDay moves an all-day boundary into now's zone keeping its wall
// date, so a date-only event covers the same calendar days everywhere.
func floatingDay(dt, now almanac.DateTime) almanac.DateTime {
	return dt.SetZone(now.Zone(), true).StartOf(almanac.Day)
}

func header(title string) string {
	return fmt.Sprintf("━━━━ %s ━━━━", title)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
