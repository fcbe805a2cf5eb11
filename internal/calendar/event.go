// Package calendar provides calendar source interfaces and event types.
package calendar

import (
	"context"

	"github.com/cpuguy83/almanac"
)

// Event represents a calendar event.
type Event struct {
	// UID is the unique identifier for this event.
	UID string

	// Summary is the event title.
	Summary string

	// Description is the full event description/body.
	Description string

	// Location is the event location (may contain meeting URLs).
	Location string

	// Span is the half-open time range the event occupies.
	Span almanac.Interval

	// AllDay indicates this is an all-day event.
	AllDay bool

	// Organizer is the email of the event organizer.
	Organizer string

	// Source is the name of the calendar source this event came from.
	Source string

	// URL is a URL associated with the event (if any).
	URL string
}

// Start is when the event begins.
func (e *Event) Start() almanac.DateTime {
	return e.Span.Start()
}

// End is when the event ends.
func (e *Event) End() almanac.DateTime {
	return e.Span.End()
}

// Duration returns the duration of the event in hours and minutes.
func (e *Event) Duration() almanac.Duration {
	return e.Span.ToDuration(almanac.Hour, almanac.Minute)
}

// IsOngoing returns true if the event is currently happening.
func (e *Event) IsOngoing(now almanac.DateTime) bool {
	return now.After(e.Start()) && now.Before(e.End())
}

// IsUpcoming returns true if the event starts within the given duration.
func (e *Event) IsUpcoming(now almanac.DateTime, within almanac.Duration) bool {
	start := e.Start()
	return start.After(now) && !start.After(now.Plus(within))
}

// StartsIn returns how long until the event starts (negative if already started).
func (e *Event) StartsIn(now almanac.DateTime) almanac.Duration {
	return e.Start().Diff(now, almanac.Hour, almanac.Minute)
}

// isEffectivelyAllDay reports whether a timed event runs from midnight to a
// later midnight in its own zone.
func isEffectivelyAllDay(start, end almanac.DateTime) bool {
	if !start.IsValid() || !end.IsValid() || !end.After(start) {
		return false
	}
	return start.Equal(start.StartOf(almanac.Day)) && end.Equal(end.StartOf(almanac.Day))
}

// Source is the interface that calendar sources must implement.
type Source interface {
	// Name returns the display name of this calendar source.
	Name() string

	// Fetch retrieves events overlapping window from the calendar source.
	Fetch(ctx context.Context, window almanac.Interval) ([]Event, error)
}
