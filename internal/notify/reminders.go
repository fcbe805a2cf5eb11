package notify

import (
	"fmt"
	"sync"

	"github.com/cpuguy83/almanac"
	"github.com/cpuguy83/almanac/internal/calendar"
	"github.com/cpuguy83/almanac/internal/links"
)

const minuteMillis = 60 * 1000

// Scheduler decides which events are due a reminder. Each lead time fires
// once per event, during the minute before the event is that far away, so
// callers should check at least once a minute.
type Scheduler struct {
	before []almanac.Duration

	mu   sync.Mutex
	sent map[string]almanac.DateTime
}

// NewScheduler creates a scheduler for the given lead times.
func NewScheduler(before []almanac.Duration) *Scheduler {
	return &Scheduler{
		before: before,
		sent:   make(map[string]almanac.DateTime),
	}
}

// Due returns the reminders to send at now and marks them sent.
func (s *Scheduler) Due(events []calendar.Event, now almanac.DateTime) []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []Notification
	for i := range events {
		e := &events[i]
		if e.End().Before(now) {
			continue
		}

		startsIn := e.Start().Diff(now).ToMillis()
		if startsIn < 0 {
			continue
		}

		for _, before := range s.before {
			lead := before.ToMillis()
			if startsIn > lead || startsIn <= lead-minuteMillis {
				continue
			}

			key := e.UID + "-" + before.ToISO()
			if _, ok := s.sent[key]; ok {
				continue
			}
			due = append(due, Reminder(e, now))
			s.sent[key] = now
		}
	}

	for k, at := range s.sent {
		if now.Diff(at).As(almanac.Hour) > 24 {
			delete(s.sent, k)
		}
	}
	return due
}

// Reminder builds the notification for an upcoming event.
func Reminder(e *calendar.Event, now almanac.DateTime) Notification {
	startsIn := e.Start().Diff(now)

	body := fmt.Sprintf("Starts in %s", formatStartsIn(startsIn))
	if e.Location != "" {
		body += "\n" + e.Location
	}

	notif := Notification{
		Summary:  e.Summary,
		Body:     body,
		EventUID: e.UID,
		Urgency:  UrgencyNormal,
	}
	if link := links.DetectFromEvent(e.Location, e.Description, e.URL); link != "" {
		notif.Actions = []Action{{Key: "join", Label: "Join Meeting"}}
	}
	if startsIn.ToMillis() <= 5*minuteMillis {
		notif.Urgency = UrgencyCritical
	}
	return notif
}

func formatStartsIn(d almanac.Duration) string {
	ms := d.ToMillis()
	switch {
	case ms < 0:
		return "now"
	case ms < minuteMillis:
		return "< 1 min"
	}

	hm := d.ShiftTo(almanac.Hour, almanac.Minute)
	hours, mins := int(hm.Get(almanac.Hour)), int(hm.Get(almanac.Minute))
	switch {
	case hours == 0 && mins == 1:
		return "1 minute"
	case hours == 0:
		return fmt.Sprintf("%d minutes", mins)
	case mins == 0 && hours == 1:
		return "1 hour"
	case mins == 0:
		return fmt.Sprintf("%d hours", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
}
