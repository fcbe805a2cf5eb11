// Package links detects meeting URLs in calendar events.
package links

import (
	"regexp"
)

// Link is a URL found in an event together with the service it belongs to.
type Link struct {
	Service string
	URL     string
}

// Label is a short display name, e.g. "Join Zoom".
func (l Link) Label() string {
	if l.Service == "" {
		return l.URL
	}
	return "Join " + l.Service
}

type service struct {
	name    string
	pattern *regexp.Regexp
}

// Known meeting services, checked before the generic URL fallback.
var services = []service{
	{"Zoom", regexp.MustCompile(`https?://[\w.-]*zoom\.us/j/[\w?=&-]+`)},
	{"Teams", regexp.MustCompile(`https?://teams\.microsoft\.com/l/meetup-join/[\w%/.-]+`)},
	{"Meet", regexp.MustCompile(`https?://meet\.google\.com/[\w-]+`)},
	{"Webex", regexp.MustCompile(`https?://[\w.-]*\.webex\.com/[\w./-]+`)},
}

var genericURL = regexp.MustCompile(`https?://[^\s<>"]+`)

// Detect finds the first meeting link in location, then description.
// Known services win over generic URLs within each field.
func Detect(location, description string) string {
	if link := detectInText(location); link != "" {
		return link
	}
	return detectInText(description)
}

func detectInText(text string) string {
	if text == "" {
		return ""
	}
	for _, s := range services {
		if match := s.pattern.FindString(text); match != "" {
			return match
		}
	}
	return genericURL.FindString(text)
}

// DetectFromEvent prefers the explicit URL field when it points at a known
// meeting service.
func DetectFromEvent(location, description, url string) string {
	if url != "" && Service(url) != "" {
		return url
	}
	return Detect(location, description)
}

// DetectAll returns every distinct URL in the event fields, meeting links
// first.
func DetectAll(location, description, url string) []Link {
	seen := make(map[string]bool)
	var meetings, others []Link

	add := func(u string) {
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		if name := Service(u); name != "" {
			meetings = append(meetings, Link{Service: name, URL: u})
			return
		}
		others = append(others, Link{URL: u})
	}

	add(url)
	for _, text := range []string{location, description} {
		for _, u := range genericURL.FindAllString(text, -1) {
			add(u)
		}
	}
	return append(meetings, others...)
}

// Service returns the meeting service for url, or "" when it is not a
// known one.
func Service(url string) string {
	for _, s := range services {
		if s.pattern.MatchString(url) {
			return s.name
		}
	}
	return ""
}
