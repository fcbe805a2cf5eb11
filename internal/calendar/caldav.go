package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cpuguy83/almanac"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
)

// CalDAVSource fetches events from a CalDAV server.
type CalDAVSource struct {
	name      string
	url       string
	username  string
	password  string
	calendars []string // Optional: specific calendars to sync
}

// NewCalDAVSource creates a new CalDAV calendar source.
func NewCalDAVSource(name, url, username, password string, calendars []string) *CalDAVSource {
	return &CalDAVSource{
		name:      name,
		url:       url,
		username:  username,
		password:  password,
		calendars: calendars,
	}
}

// iCloudCalDAVURL is the base URL for iCloud CalDAV.
const iCloudCalDAVURL = "https://caldav.icloud.com"

// NewICloudSource creates a new iCloud calendar source.
// iCloud uses CalDAV with a specific server URL.
func NewICloudSource(name, username, password string, calendars []string) *CalDAVSource {
	return NewCalDAVSource(name, iCloudCalDAVURL, username, password, calendars)
}

// Name returns the display name of this calendar source.
func (s *CalDAVSource) Name() string {
	return s.name
}

// Fetch retrieves events overlapping window from the CalDAV server.
func (s *CalDAVSource) Fetch(ctx context.Context, window almanac.Interval) ([]Event, error) {
	if err := window.Err(); err != nil {
		return nil, fmt.Errorf("caldav window: %w", err)
	}

	httpClient := webdav.HTTPClientWithBasicAuth(&http.Client{Timeout: 60 * time.Second}, s.username, s.password)

	client, err := caldav.NewClient(httpClient, s.url)
	if err != nil {
		return nil, fmt.Errorf("create caldav client: %w", err)
	}

	// Find the user's calendar home
	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("find calendar home: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return nil, fmt.Errorf("find calendars: %w", err)
	}

	var allEvents []Event
	for _, cal := range cals {
		if len(s.calendars) > 0 && !s.shouldSyncCalendar(cal.Name) {
			continue
		}

		events, err := s.fetchCalendarEvents(ctx, client, cal, window)
		if err != nil {
			slog.Warn("failed to fetch calendar", "source", s.name, "calendar", cal.Name, "error", err)
			continue
		}

		allEvents = append(allEvents, events...)
	}

	return allEvents, nil
}

// shouldSyncCalendar checks if a calendar should be synced based on config.
func (s *CalDAVSource) shouldSyncCalendar(name string) bool {
	for _, c := range s.calendars {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// timeRangeQuery asks the server for events overlapping window.
func timeRangeQuery(window almanac.Interval) *caldav.CalendarQuery {
	return &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:     "VCALENDAR",
			AllProps: true,
			Comps: []caldav.CalendarCompRequest{{
				Name: "VEVENT",
				Props: []string{
					"SUMMARY",
					"DTSTART",
					"DTEND",
					"DURATION",
					"RRULE",
					"RDATE",
					"EXDATE",
					"UID",
					"DESCRIPTION",
					"LOCATION",
					"URL",
					"ORGANIZER",
				},
			}, {
				Name:     "VTIMEZONE",
				AllProps: true,
			}},
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{{
				Name:  "VEVENT",
				Start: window.Start().Time(),
				End:   window.End().Time(),
			}},
		},
	}
}

// fetchCalendarEvents fetches events from a single calendar.
func (s *CalDAVSource) fetchCalendarEvents(ctx context.Context, client *caldav.Client, cal caldav.Calendar, window almanac.Interval) ([]Event, error) {
	objects, err := client.QueryCalendar(ctx, cal.Path, timeRangeQuery(window))
	if err != nil {
		return nil, fmt.Errorf("query calendar %s: %w", cal.Name, err)
	}

	d := &decoder{
		source: fmt.Sprintf("%s/%s", s.name, cal.Name),
		zone:   almanac.DefaultZone(),
		window: window,
	}

	var events []Event
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		events = append(events, d.calendar(obj.Data)...)
	}

	return events, nil
}

// Ensure CalDAVSource implements Source interface.
var _ Source = (*CalDAVSource)(nil)
