package parse

import (
	"regexp"
	"slices"
	"strings"

	"github.com/cpuguy83/almanac/internal/calmath"
	"github.com/cpuguy83/almanac/zone"
)

var (
	monthsShort   = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	weekdaysShort = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	weekdaysLong  = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

	// Obsolete RFC-822 zone names, in minutes.
	obsOffsets = map[string]int{
		"UT":  0,
		"GMT": 0,
		"EDT": -4 * 60,
		"EST": -5 * 60,
		"CDT": -5 * 60,
		"CST": -6 * 60,
		"MDT": -6 * 60,
		"MST": -7 * 60,
		"PDT": -7 * 60,
		"PST": -8 * 60,
	}

	rfc2822 = regexp.MustCompile(`^(?:(Mon|Tue|Wed|Thu|Fri|Sat|Sun),\s)?(\d{1,2})\s(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s(\d{2,4})\s(\d\d):(\d\d)(?::(\d\d))?\s(?:(UT|GMT|[ECMP][SD]T)|([Zz])|(?:([+-]\d\d)(\d\d)))$`)

	rfc2822Comments = regexp.MustCompile(`\([^()]*\)|[\n\t]`)
	rfc2822Spaces   = regexp.MustCompile(`\s\s+`)

	rfc1123 = regexp.MustCompile(`^(Mon|Tue|Wed|Thu|Fri|Sat|Sun), (\d\d) (Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec) (\d{4}) (\d\d):(\d\d):(\d\d) GMT$`)
	rfc850  = regexp.MustCompile(`^(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday), (\d\d)-(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)-(\d\d) (\d\d):(\d\d):(\d\d) GMT$`)
	ascii   = regexp.MustCompile(`^(Mon|Tue|Wed|Thu|Fri|Sat|Sun) (Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec) ( \d|\d\d) (\d\d):(\d\d):(\d\d) (\d{4})$`)
)

// fromStrings builds fields from the textual pieces shared by the RFC
// formats. Two-digit years are expanded around cutoff.
func fromStrings(weekdayStr, yearStr, monthStr, dayStr, hourStr, minuteStr, secondStr string, cutoff int) Fields {
	year := intOr(yearStr, 0)
	if len(yearStr) == 2 {
		year = calmath.UntruncateYear(year, cutoff)
	}
	out := Fields{
		"year":   year,
		"month":  slices.Index(monthsShort, monthStr) + 1,
		"day":    intOr(strings.TrimSpace(dayStr), 0),
		"hour":   intOr(hourStr, 0),
		"minute": intOr(minuteStr, 0),
	}
	if secondStr != "" {
		out["second"] = intOr(secondStr, 0)
	}
	if weekdayStr != "" {
		if len(weekdayStr) > 3 {
			out["weekday"] = slices.Index(weekdaysLong, weekdayStr) + 1
		} else {
			out["weekday"] = slices.Index(weekdaysShort, weekdayStr) + 1
		}
	}
	return out
}

// PreprocessRFC2822 drops comments and folds whitespace.
func PreprocessRFC2822(s string) string {
	s = rfc2822Comments.ReplaceAllString(s, " ")
	s = rfc2822Spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// RFC2822 parses RFC-2822/5322 dates such as
// "Tue, 01 Nov 2016 13:23:12 +0630". Two-digit years are expanded around
// cutoff.
func RFC2822(s string, cutoff int) (Result, bool) {
	extract := func(m []string, cursor int) (Fields, zone.Zone, int) {
		fields := fromStrings(m[1], m[4], m[3], m[2], m[5], m[6], m[7], cutoff)
		var offset int
		switch {
		case m[8] != "":
			offset = obsOffsets[m[8]]
		case m[9] != "":
			offset = 0
		default:
			offset = zone.SignedOffset(m[10], m[11])
		}
		return fields, zone.Fixed(offset), len(m)
	}
	return run(PreprocessRFC2822(s), pattern{rfc2822, extract})
}

// HTTP parses the three date forms allowed in HTTP headers: RFC-1123,
// RFC-850 and asctime. All are UTC.
func HTTP(s string, cutoff int) (Result, bool) {
	rfc1123Or850 := func(m []string, cursor int) (Fields, zone.Zone, int) {
		return fromStrings(m[1], m[4], m[3], m[2], m[5], m[6], m[7], cutoff), zone.UTC, len(m)
	}
	asctime := func(m []string, cursor int) (Fields, zone.Zone, int) {
		return fromStrings(m[1], m[7], m[2], m[3], m[4], m[5], m[6], cutoff), zone.UTC, len(m)
	}
	return run(s,
		pattern{rfc1123, rfc1123Or850},
		pattern{rfc850, rfc1123Or850},
		pattern{ascii, asctime},
	)
}
