// Package filter provides include filtering for calendar events.
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cpuguy83/almanac"
	"github.com/cpuguy83/almanac/internal/calendar"
	"github.com/cpuguy83/almanac/internal/config"
)

// MatchType specifies how a filter rule matches.
type MatchType int

const (
	MatchContains MatchType = iota // Substring match (default)
	MatchExact                     // Exact string match
	MatchPrefix                    // Starts with
	MatchSuffix                    // Ends with
	MatchRegex                     // Regular expression
	MatchWithin                    // Event overlaps a time window
)

var errNoPattern = errors.New("no match pattern specified (use contains, exact, prefix, suffix, regex, or within)")

// Filter applies include rules to events.
type Filter struct {
	all   bool // "and" mode
	rules []rule
}

// rule is a compiled FilterRule. now is the time Apply started, so every
// relative window in one pass shares the same anchor.
type rule struct {
	test func(e *calendar.Event, now almanac.DateTime) bool
}

// New creates a new filter from configuration.
func New(cfg config.FilterConfig) (*Filter, error) {
	f := &Filter{all: cfg.Mode == "and"}

	for i, r := range cfg.Rules {
		compiled, err := compileRule(r)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		f.rules = append(f.rules, compiled)
	}
	return f, nil
}

func compileRule(r config.FilterRule) (rule, error) {
	if r.Within != "" {
		return compileWindow(r.Within)
	}

	kind, pattern := MatchContains, ""
	switch {
	case r.Regex != "":
		kind, pattern = MatchRegex, r.Regex
	case r.Exact != "":
		kind, pattern = MatchExact, r.Exact
	case r.Prefix != "":
		kind, pattern = MatchPrefix, r.Prefix
	case r.Suffix != "":
		kind, pattern = MatchSuffix, r.Suffix
	case r.Contains != "":
		pattern = r.Contains
	case strings.HasPrefix(r.Match, "regex:"):
		kind, pattern = MatchRegex, strings.TrimPrefix(r.Match, "regex:")
	case r.Match != "":
		pattern = r.Match
	default:
		return rule{}, errNoPattern
	}

	field := fieldGetter(r.Field)

	if kind == MatchRegex {
		if r.CaseInsensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return rule{}, fmt.Errorf("invalid regex %q: %w", pattern, err)
		}
		return rule{test: func(e *calendar.Event, _ almanac.DateTime) bool {
			return re.MatchString(field(e))
		}}, nil
	}

	fold := func(s string) string { return s }
	if r.CaseInsensitive {
		fold = strings.ToLower
	}
	pattern = fold(pattern)

	var cmp func(value, pattern string) bool
	switch kind {
	case MatchExact:
		cmp = func(v, p string) bool { return v == p }
	case MatchPrefix:
		cmp = strings.HasPrefix
	case MatchSuffix:
		cmp = strings.HasSuffix
	default:
		cmp = strings.Contains
	}

	return rule{test: func(e *calendar.Event, _ almanac.DateTime) bool {
		return cmp(fold(field(e)), pattern)
	}}, nil
}

// compileWindow accepts an ISO 8601 interval ("2024-01-01/P1W") or a length
// measured from the time the filter runs ("3d", "PT12H").
func compileWindow(within string) (rule, error) {
	if strings.Contains(within, "/") {
		window := almanac.IntervalFromISO(within)
		if err := window.Err(); err != nil {
			return rule{}, fmt.Errorf("invalid window %q: %w", within, err)
		}
		return rule{test: func(e *calendar.Event, _ almanac.DateTime) bool {
			return e.Span.Overlaps(window)
		}}, nil
	}

	ahead, err := config.ParseDuration(within)
	if err != nil {
		return rule{}, fmt.Errorf("invalid window %q: %w", within, err)
	}
	return rule{test: func(e *calendar.Event, now almanac.DateTime) bool {
		return e.Span.Overlaps(almanac.IntervalAfter(now, ahead))
	}}, nil
}

// fieldGetter returns the accessor for a rule's field. Unknown fields read
// as "".
func fieldGetter(field string) func(*calendar.Event) string {
	switch field {
	case "title", "summary":
		return func(e *calendar.Event) string { return e.Summary }
	case "organizer":
		return func(e *calendar.Event) string { return e.Organizer }
	case "source", "calendar":
		return func(e *calendar.Event) string { return e.Source }
	case "description":
		return func(e *calendar.Event) string { return e.Description }
	case "location":
		return func(e *calendar.Event) string { return e.Location }
	default:
		return func(*calendar.Event) string { return "" }
	}
}

// Apply filters events, returning only those that match the include rules.
// If no rules are defined, all events are returned.
func (f *Filter) Apply(events []calendar.Event) []calendar.Event {
	if len(f.rules) == 0 {
		return events
	}

	now := almanac.Now()
	var filtered []calendar.Event
	for i := range events {
		if f.matches(&events[i], now) {
			filtered = append(filtered, events[i])
		}
	}
	return filtered
}

func (f *Filter) matches(e *calendar.Event, now almanac.DateTime) bool {
	for _, r := range f.rules {
		if r.test(e, now) != f.all {
			// First failure decides "and", first success decides "or".
			return !f.all
		}
	}
	return f.all
}
