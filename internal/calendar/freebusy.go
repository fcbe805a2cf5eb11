package calendar

import (
	"slices"

	"github.com/cpuguy83/almanac"
	"github.com/google/uuid"
)

// WorkHours bounds the part of each day considered for free slots.
type WorkHours struct {
	// Start and End are offsets from local midnight.
	Start almanac.Duration
	End   almanac.Duration

	// Weekdays lists ISO weekdays (1 = Monday). Empty means every day.
	Weekdays []int
}

// Busy returns the merged time occupied by timed events. All-day events do
// not block time.
func Busy(events []Event) []almanac.Interval {
	spans := make([]almanac.Interval, 0, len(events))
	for _, e := range events {
		if e.AllDay {
			continue
		}
		spans = append(spans, e.Span)
	}
	return almanac.Merge(spans...)
}

// Free returns the gaps between events inside the working hours of each day
// in window. Gaps shorter than minSlot are dropped.
func Free(window almanac.Interval, events []Event, hours WorkHours, minSlot almanac.Duration) []almanac.Interval {
	if !window.IsValid() {
		return nil
	}
	busy := Busy(events)
	oneDay := almanac.DurationFromObject(almanac.Values{almanac.Day: 1})
	minMillis := minSlot.ToMillis()

	var free []almanac.Interval
	for day := window.Start().StartOf(almanac.Day); day.Before(window.End()); day = day.Plus(oneDay) {
		if len(hours.Weekdays) > 0 && !slices.Contains(hours.Weekdays, day.Weekday()) {
			continue
		}
		work, ok := almanac.IntervalFromDateTimes(day.Plus(hours.Start), day.Plus(hours.End)).Intersection(window)
		if !ok {
			continue
		}
		for _, slot := range work.Difference(busy...) {
			if slot.ToDuration().ToMillis() >= minMillis {
				free = append(free, slot)
			}
		}
	}
	return free
}

// FreeEvents turns free slots into events suitable for EncodeICS.
func FreeEvents(slots []almanac.Interval, summary string) []Event {
	events := make([]Event, 0, len(slots))
	for _, slot := range slots {
		events = append(events, Event{
			UID:     uuid.NewString(),
			Summary: summary,
			Span:    slot,
			Source:  "almanac",
		})
	}
	return events
}
