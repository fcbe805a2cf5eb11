package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cpuguy83/almanac"
	"github.com/cpuguy83/almanac/zone"
	ics "github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
)

// sourceProp records the originating source in exported files.
const sourceProp = "X-ALMANAC-SOURCE"

// icsLocale pins ICS text to Latin digits whatever the default locale.
var icsLocale = []almanac.Option{almanac.WithLocale("en-US"), almanac.WithNumberingSystem("latn")}

const (
	icsDateTimeFormat = "yyyyMMdd'T'HHmmss"
	icsDateFormat     = "yyyyMMdd"
)

// ICSSource fetches events from an ICS/iCal URL.
type ICSSource struct {
	name     string
	url      string
	username string
	password string
	client   *http.Client
}

// NewICSSource creates a new ICS calendar source.
func NewICSSource(name, url, username, password string) *ICSSource {
	return &ICSSource{
		name:     name,
		url:      url,
		username: username,
		password: password,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name returns the display name of this calendar source.
func (s *ICSSource) Name() string {
	return s.name
}

// Fetch retrieves events overlapping window from the ICS feed.
func (s *ICSSource) Fetch(ctx context.Context, window almanac.Interval) ([]Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// Add basic auth if credentials provided
	if s.username != "" && s.password != "" {
		req.SetBasicAuth(s.username, s.password)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ICS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch ICS: status %d", resp.StatusCode)
	}

	d := &decoder{source: s.name, zone: almanac.DefaultZone(), window: window}
	return d.decode(resp.Body)
}

// decoder converts VEVENT components into events. Floating and date-only
// values are read in zone. When window is valid, recurring events are
// expanded within it and events outside it are dropped.
type decoder struct {
	source string
	zone   zone.Zone
	window almanac.Interval
}

func (d *decoder) decode(r io.Reader) ([]Event, error) {
	dec := ics.NewDecoder(r)

	var events []Event
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode ICS: %w", err)
		}
		events = append(events, d.calendar(cal)...)
	}
	return events, nil
}

func (d *decoder) calendar(cal *ics.Calendar) []Event {
	var events []Event
	for _, comp := range cal.Children {
		if comp.Name != ics.CompEvent {
			continue
		}

		parsed, err := d.event(comp)
		if err != nil {
			slog.Debug("skipping event", "source", d.source, "error", err)
			continue
		}

		for _, event := range parsed {
			if d.window.IsValid() && !event.Span.Overlaps(d.window) {
				continue
			}
			events = append(events, event)
		}
	}
	return events
}

// event converts a VEVENT. For recurring events it expands occurrences
// within the window.
func (d *decoder) event(comp *ics.Component) ([]Event, error) {
	base := Event{
		UID:         propText(comp, ics.PropUID),
		Summary:     propText(comp, ics.PropSummary),
		Description: propText(comp, ics.PropDescription),
		Location:    propText(comp, ics.PropLocation),
		URL:         propText(comp, ics.PropURL),
		Organizer:   strings.TrimPrefix(propText(comp, ics.PropOrganizer), "mailto:"),
		Source:      d.source,
	}
	if src := propText(comp, sourceProp); src != "" {
		base.Source = src
	}

	startProp := comp.Props.Get(ics.PropDateTimeStart)
	if startProp == nil {
		return nil, errors.New("missing DTSTART")
	}
	start, allDay, err := d.dateTime(startProp)
	if err != nil {
		return nil, fmt.Errorf("parse start time: %w", err)
	}

	var length almanac.Duration
	if prop := comp.Props.Get(ics.PropDateTimeEnd); prop != nil {
		end, _, err := d.dateTime(prop)
		if err != nil {
			return nil, fmt.Errorf("parse end time: %w", err)
		}
		length = end.Diff(start, almanac.Day, almanac.Hour, almanac.Minute, almanac.Second)
	} else if prop := comp.Props.Get(ics.PropDuration); prop != nil {
		length = almanac.DurationFromISO(strings.TrimPrefix(prop.Value, "+"))
		if err := length.Err(); err != nil {
			return nil, fmt.Errorf("parse duration: %w", err)
		}
	} else if allDay {
		length = almanac.DurationFromObject(almanac.Values{almanac.Day: 1})
	} else {
		// Default to 1 hour duration
		length = almanac.DurationFromObject(almanac.Values{almanac.Hour: 1})
	}

	base.Span = almanac.IntervalAfter(start, length)
	if err := base.Span.Err(); err != nil {
		return nil, err
	}
	base.AllDay = allDay || isEffectivelyAllDay(base.Start(), base.End())

	if !d.window.IsValid() {
		return []Event{base}, nil
	}

	rset, err := comp.RecurrenceSet(start.Time().Location())
	if err != nil {
		return nil, fmt.Errorf("parse recurrence: %w", err)
	}
	if rset == nil {
		return []Event{base}, nil
	}
	return expand(rset, base, length, d.window), nil
}

// expand returns one event per occurrence of set that may overlap window.
// The lookback by length catches occurrences already in progress.
func expand(set *rrule.Set, base Event, length almanac.Duration, window almanac.Interval) []Event {
	z := base.Start().Zone()
	from := window.Start().Minus(length).Time()

	var events []Event
	for _, occ := range set.Between(from, window.End().Time(), true) {
		start := almanac.FromTime(occ, almanac.WithZone(z))
		event := base
		event.Span = almanac.IntervalAfter(start, length)
		// Make UID unique per occurrence
		event.UID = fmt.Sprintf("%s_%d", base.UID, start.ToUnixInteger())
		events = append(events, event)
	}
	return events
}

// dateTime reads a DTSTART/DTEND value. The second result reports a
// date-only value.
func (d *decoder) dateTime(prop *ics.Prop) (almanac.DateTime, bool, error) {
	z := d.zone
	if tzid := prop.Params.Get(ics.ParamTimezoneID); tzid != "" {
		if named := zone.Named(tzid); named.IsValid() {
			z = named
		} else {
			slog.Debug("unknown TZID, using default zone", "tzid", tzid, "zone", z.Name())
		}
	}

	value := strings.TrimSpace(prop.Value)
	format := icsDateTimeFormat
	allDay := false
	switch {
	case prop.Params.Get(ics.ParamValue) == string(ics.ValueDate), len(value) == len("20060102"):
		format, allDay = icsDateFormat, true
	case strings.HasSuffix(value, "Z"):
		value, z = strings.TrimSuffix(value, "Z"), zone.UTC
	}

	dt := almanac.FromFormat(value, format, append(icsLocale, almanac.WithZone(z))...)
	return dt, allDay, dt.Err()
}

// propText returns the unescaped text of a property, or its raw value for
// non-text types such as URI and CAL-ADDRESS.
func propText(comp *ics.Component, name string) string {
	prop := comp.Props.Get(name)
	if prop == nil {
		return ""
	}
	if text, err := prop.Text(); err == nil {
		return text
	}
	return prop.Value
}
