package calendar

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/cpuguy83/almanac"
	"github.com/cpuguy83/almanac/zone"
	ics "github.com/emersion/go-ical"
)

// Merge combines events from multiple sources into a single slice.
// Events are sorted by start time.
func Merge(eventSets ...[]Event) []Event {
	var all []Event
	for _, events := range eventSets {
		all = append(all, events...)
	}

	sortByStart(all)
	return all
}

func sortByStart(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		return a.Start().Compare(b.Start())
	})
}

// WriteICS writes events to an ICS file atomically.
// It writes to a temp file first, then renames to the final path.
func WriteICS(path string, events []Event) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	var buf bytes.Buffer
	if err := EncodeICS(&buf, events); err != nil {
		return err
	}

	// Write to temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // Clean up temp file on error
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// EncodeICS writes events as a single VCALENDAR. Timed events are written
// in UTC and all-day events as dates in their own zone.
func EncodeICS(w io.Writer, events []Event) error {
	cal := ics.NewCalendar()
	cal.Props.SetText(ics.PropVersion, "2.0")
	cal.Props.SetText(ics.PropProductID, "-//Almanac//Almanac//EN")

	stamp := almanac.Now()
	for _, event := range events {
		if !event.Span.IsValid() {
			continue
		}
		comp := ics.NewComponent(ics.CompEvent)

		comp.Props.SetText(ics.PropUID, event.UID)
		comp.Props.SetText(ics.PropSummary, event.Summary)

		// DTSTAMP is required by RFC 5545
		comp.Props.Set(dateTimeProp(ics.PropDateTimeStamp, stamp, false))

		if event.Description != "" {
			comp.Props.SetText(ics.PropDescription, event.Description)
		}
		if event.Location != "" {
			comp.Props.SetText(ics.PropLocation, event.Location)
		}
		if event.URL != "" {
			comp.Props.SetText(ics.PropURL, event.URL)
		}
		if event.Organizer != "" {
			comp.Props.SetText(ics.PropOrganizer, "mailto:"+event.Organizer)
		}

		comp.Props.Set(dateTimeProp(ics.PropDateTimeStart, event.Start(), event.AllDay))
		comp.Props.Set(dateTimeProp(ics.PropDateTimeEnd, event.End(), event.AllDay))

		if event.Source != "" {
			comp.Props.SetText(sourceProp, event.Source)
		}

		cal.Children = append(cal.Children, comp)
	}

	if err := ics.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode ICS: %w", err)
	}
	return nil
}

func dateTimeProp(name string, dt almanac.DateTime, date bool) *ics.Prop {
	prop := ics.NewProp(name)
	dt = dt.Reconfigure(icsLocale...)
	if date {
		prop.Params.Set(ics.ParamValue, string(ics.ValueDate))
		prop.Value = dt.ToFormat(icsDateFormat)
		return prop
	}
	prop.Value = dt.ToUTC().ToFormat(icsDateTimeFormat + "'Z'")
	return prop
}

// ReadICS reads events from an ICS file.
func ReadICS(path string, z zone.Zone) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ICS file: %w", err)
	}
	defer f.Close()

	return ParseICS(f, z)
}

// ParseICS parses events from an ICS reader, reading floating and date-only
// values in z. Recurring events yield their first occurrence only.
func ParseICS(r io.Reader, z zone.Zone) ([]Event, error) {
	if z == nil {
		z = almanac.DefaultZone()
	}
	d := &decoder{zone: z}
	events, err := d.decode(r)
	if err != nil {
		return nil, err
	}

	sortByStart(events)
	return events, nil
}
