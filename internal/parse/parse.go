// Package parse recognizes the fixed textual date formats (ISO-8601,
// RFC-2822, HTTP and SQL) and ISO-8601 durations.
//
// Each grammar is a list of patterns: an anchored regular expression plus an
// extractor that reads its capture groups. Extractors compose with combine,
// which threads a group cursor through them so that date, time, offset and
// zone pieces can be reused across grammars.
package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cpuguy83/almanac/zone"
)

// Fields maps calendar unit names ("year", "hours", "weekNumber", ...) to
// parsed values. Units that did not appear in the input are absent.
type Fields map[string]int

// Result is a successful parse.
type Result struct {
	Fields Fields
	// Zone is the zone named or implied by the input, nil if none was given.
	Zone zone.Zone
}

// extractor reads groups starting at cursor and returns the cursor just past
// what it consumed.
type extractor func(m []string, cursor int) (Fields, zone.Zone, int)

type pattern struct {
	re      *regexp.Regexp
	extract extractor
}

// combine runs extractors in sequence. Later fields overwrite earlier ones
// and the last non-nil zone wins.
func combine(exs ...extractor) extractor {
	return func(m []string, cursor int) (Fields, zone.Zone, int) {
		merged := Fields{}
		var z zone.Zone
		for _, ex := range exs {
			vals, found, next := ex(m, cursor)
			for k, v := range vals {
				merged[k] = v
			}
			if found != nil {
				z = found
			}
			cursor = next
		}
		return merged, z, cursor
	}
}

// combineRegexes anchors the concatenation of sources.
func combineRegexes(sources ...string) *regexp.Regexp {
	return regexp.MustCompile("^" + strings.Join(sources, "") + "$")
}

// run tries each pattern in order and returns the first match.
func run(s string, patterns ...pattern) (Result, bool) {
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		fields, z, _ := p.extract(m, 1)
		return Result{Fields: fields, Zone: z}, true
	}
	return Result{}, false
}

// simple assigns consecutive groups to keys, skipping empty groups.
func simple(keys ...string) extractor {
	return func(m []string, cursor int) (Fields, zone.Zone, int) {
		out := Fields{}
		for i, k := range keys {
			if v, ok := integer(m[cursor+i]); ok {
				out[k] = v
			}
		}
		return out, nil, cursor + len(keys)
	}
}

func integer(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func intOr(s string, fallback int) int {
	if v, ok := integer(s); ok {
		return v
	}
	return fallback
}

// Millis converts a decimal fraction of a second ("5", "123456") to whole
// milliseconds, truncating extra precision.
func Millis(fraction string) int {
	if fraction == "" {
		return 0
	}
	if len(fraction) > 3 {
		fraction = fraction[:3]
	}
	fraction += strings.Repeat("0", 3-len(fraction))
	v, _ := strconv.Atoi(fraction)
	return v
}
