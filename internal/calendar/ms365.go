package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cpuguy83/almanac"
	"github.com/cpuguy83/almanac/internal/auth"
	"github.com/cpuguy83/almanac/zone"
)

const (
	// MS Graph API endpoint for calendar events
	graphCalendarEndpoint = "https://graph.microsoft.com/v1.0/me/calendarView"

	// Required scope for reading calendars
	calendarReadScope = "Calendars.Read"
)

// MS365Source fetches events from Microsoft 365 calendar via Graph API.
type MS365Source struct {
	name     string
	clientID string
	endpoint string
	client   *http.Client

	initOnce sync.Once
	initErr  error
	auth     auth.Provider
}

// NewMS365Source creates a new MS365 calendar source. An empty clientID
// uses the broker's default client.
func NewMS365Source(name, clientID string) *MS365Source {
	return &MS365Source{
		name:     name,
		clientID: clientID,
		endpoint: graphCalendarEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// initAuth picks the token provider on first use, so building a source
// never touches the session bus or the network.
func (s *MS365Source) initAuth(ctx context.Context) error {
	s.initOnce.Do(func() {
		if s.auth != nil {
			return
		}
		s.auth, s.initErr = auth.NewProvider(ctx, s.clientID, []string{calendarReadScope})
	})
	return s.initErr
}

// Name returns the display name of this calendar source.
func (s *MS365Source) Name() string {
	return s.name
}

// Fetch retrieves events overlapping window from Microsoft 365. Recurring
// events come back already expanded.
func (s *MS365Source) Fetch(ctx context.Context, window almanac.Interval) ([]Event, error) {
	if err := window.Err(); err != nil {
		return nil, fmt.Errorf("ms365 window: %w", err)
	}
	if err := s.initAuth(ctx); err != nil {
		return nil, err
	}

	token, err := s.auth.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	events, err := s.fetchCalendarView(ctx, token.AccessToken, window)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}
	return events, nil
}

// Close releases the token provider.
func (s *MS365Source) Close() error {
	if s.auth != nil {
		return s.auth.Close()
	}
	return nil
}

// graphCalendarResponse is the MS Graph API response for calendar events.
type graphCalendarResponse struct {
	Value    []graphEvent `json:"value"`
	NextLink string       `json:"@odata.nextLink,omitempty"`
}

// graphEvent represents an event from MS Graph API.
type graphEvent struct {
	ID               string              `json:"id"`
	Subject          string              `json:"subject"`
	BodyPreview      string              `json:"bodyPreview"`
	Body             *graphBody          `json:"body,omitempty"`
	Start            graphDateTime       `json:"start"`
	End              graphDateTime       `json:"end"`
	Location         *graphLocation      `json:"location,omitempty"`
	IsAllDay         bool                `json:"isAllDay"`
	IsCancelled      bool                `json:"isCancelled"`
	Organizer        *graphOrganizer     `json:"organizer,omitempty"`
	WebLink          string              `json:"webLink"`
	OnlineMeetingURL string              `json:"onlineMeetingUrl,omitempty"`
	OnlineMeeting    *graphOnlineMeeting `json:"onlineMeeting,omitempty"`
}

type graphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type graphLocation struct {
	DisplayName string `json:"displayName"`
}

type graphOrganizer struct {
	EmailAddress graphEmailAddress `json:"emailAddress"`
}

type graphEmailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type graphOnlineMeeting struct {
	JoinURL string `json:"joinUrl"`
}

// fetchCalendarView fetches events using the calendarView endpoint, which
// expands recurrences server side.
func (s *MS365Source) fetchCalendarView(ctx context.Context, accessToken string, window almanac.Interval) ([]Event, error) {
	params := url.Values{}
	params.Set("startDateTime", window.Start().ToUTC().ToISO())
	params.Set("endDateTime", window.End().ToUTC().ToISO())
	params.Set("$orderby", "start/dateTime")
	params.Set("$top", "500")
	params.Set("$select", "id,subject,bodyPreview,body,start,end,location,isAllDay,isCancelled,organizer,webLink,onlineMeetingUrl,onlineMeeting")

	reqURL := s.endpoint + "?" + params.Encode()

	var allEvents []Event
	for reqURL != "" {
		events, nextLink, err := s.fetchPage(ctx, accessToken, reqURL)
		if err != nil {
			return nil, err
		}
		allEvents = append(allEvents, events...)
		reqURL = nextLink
	}

	slog.Debug("fetched MS365 events", "count", len(allEvents))
	return allEvents, nil
}

func (s *MS365Source) fetchPage(ctx context.Context, accessToken, reqURL string) ([]Event, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Prefer", `outlook.timezone="UTC", outlook.body-content-type="text"`)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("graph API error: status %d: %s", resp.StatusCode, string(body))
	}

	var graphResp graphCalendarResponse
	if err := json.NewDecoder(resp.Body).Decode(&graphResp); err != nil {
		return nil, "", fmt.Errorf("decode response: %w", err)
	}

	events := make([]Event, 0, len(graphResp.Value))
	for _, ge := range graphResp.Value {
		if ge.IsCancelled {
			continue
		}

		event, err := s.convertEvent(ge)
		if err != nil {
			slog.Warn("skip event conversion error", "id", ge.ID, "error", err)
			continue
		}
		events = append(events, event)
	}

	return events, graphResp.NextLink, nil
}

// convertEvent converts a Graph API event to our Event type.
func (s *MS365Source) convertEvent(ge graphEvent) (Event, error) {
	event := Event{
		UID:     ge.ID,
		Summary: ge.Subject,
		Source:  s.name,
		AllDay:  ge.IsAllDay,
		URL:     ge.WebLink,
	}

	start, err := parseGraphDateTime(ge.Start)
	if err != nil {
		return event, fmt.Errorf("parse start: %w", err)
	}
	end, err := parseGraphDateTime(ge.End)
	if err != nil {
		return event, fmt.Errorf("parse end: %w", err)
	}
	if ge.IsAllDay {
		start, end = floatingDate(start), floatingDate(end)
	}
	event.Span = almanac.IntervalFromDateTimes(start, end)
	if err := event.Span.Err(); err != nil {
		return event, err
	}

	if ge.Location != nil {
		event.Location = ge.Location.DisplayName
	}

	// Prefer the full body over the preview
	if ge.Body != nil && ge.Body.Content != "" {
		event.Description = ge.Body.Content
	} else {
		event.Description = ge.BodyPreview
	}

	if ge.Organizer != nil {
		event.Organizer = ge.Organizer.EmailAddress.Address
	}

	// Keep the join link where meeting detection looks for it.
	joinURL := ge.OnlineMeetingURL
	if ge.OnlineMeeting != nil && ge.OnlineMeeting.JoinURL != "" {
		joinURL = ge.OnlineMeeting.JoinURL
	}
	if joinURL != "" {
		if event.Location == "" {
			event.Location = joinURL
		} else {
			event.Description = joinURL + "\n" + event.Description
		}
	}

	return event, nil
}

// parseGraphDateTime reads a Graph dateTimeTimeZone value such as
// {"dateTime": "2024-01-15T09:00:00.0000000", "timeZone": "UTC"}. Zone names
// that do not resolve fall back to UTC, which is what fetchPage asks for.
func parseGraphDateTime(gdt graphDateTime) (almanac.DateTime, error) {
	var z zone.Zone = zone.UTC
	if gdt.TimeZone != "" {
		if named := zone.Named(gdt.TimeZone); named.IsValid() {
			z = named
		} else {
			slog.Debug("unknown Graph time zone, using UTC", "timeZone", gdt.TimeZone)
		}
	}

	dt := almanac.FromISO(gdt.DateTime, almanac.WithZone(z))
	if err := dt.Err(); err != nil {
		return dt, fmt.Errorf("cannot parse datetime %q: %w", gdt.DateTime, err)
	}
	return dt, nil
}

// floatingDate moves the calendar date of dt to midnight in the default
// zone. All-day events cover whole local days wherever the reader is.
func floatingDate(dt almanac.DateTime) almanac.DateTime {
	return almanac.Local(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0)
}
