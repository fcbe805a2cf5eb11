package parse

import (
	"github.com/cpuguy83/almanac/zone"
)

const (
	ianaSource       = `[A-Za-z_+-]{1,256}(?::?/[A-Za-z0-9_+-]{1,256}(?:/[A-Za-z0-9_+-]{1,256})?)?`
	isoExtendedZone  = `(?:(Z)|([+-]\d\d)(?::?(\d\d))?)`
	isoTimeBase      = `(\d\d)(?::?(\d\d)(?::?(\d\d)(?:[.,](\d{1,30}))?)?)?`
	isoTime          = isoTimeBase + isoExtendedZone + `?(?:\[(` + ianaSource + `)\])?`
	isoTimeExtension = `(?:[Tt]` + isoTime + `)?`
	isoYmd           = `([+-]\d{6}|\d{4})(?:-?(\d\d)(?:-?(\d\d))?)?`
	isoWeek          = `(\d{4})-?W(\d\d)(?:-?(\d))?`
	isoOrdinal       = `(\d{4})-?(\d{3})`
	sqlYmd           = `(\d{4})-(\d\d)-(\d\d)`
	sqlTime          = isoTimeBase + ` ?(?:` + isoExtendedZone + `|(` + ianaSource + `))?`
	sqlTimeExtension = `(?: ` + sqlTime + `)?`
)

func extractISOYmd(m []string, cursor int) (Fields, zone.Zone, int) {
	out := Fields{
		"year":  intOr(m[cursor], 0),
		"month": intOr(m[cursor+1], 1),
		"day":   intOr(m[cursor+2], 1),
	}
	return out, nil, cursor + 3
}

func extractISOTime(m []string, cursor int) (Fields, zone.Zone, int) {
	out := Fields{
		"hours":        intOr(m[cursor], 0),
		"minutes":      intOr(m[cursor+1], 0),
		"seconds":      intOr(m[cursor+2], 0),
		"milliseconds": Millis(m[cursor+3]),
	}
	return out, nil, cursor + 4
}

func extractISOOffset(m []string, cursor int) (Fields, zone.Zone, int) {
	var z zone.Zone
	switch {
	case m[cursor] != "":
		z = zone.UTC
	case m[cursor+1] != "":
		z = zone.Fixed(zone.SignedOffset(m[cursor+1], m[cursor+2]))
	}
	return nil, z, cursor + 3
}

func extractIANAZone(m []string, cursor int) (Fields, zone.Zone, int) {
	var z zone.Zone
	if m[cursor] != "" {
		z = zone.IANA(m[cursor])
	}
	return nil, z, cursor + 1
}

var (
	extractISOWeekData    = simple("weekYear", "weekNumber", "weekday")
	extractISOOrdinalData = simple("year", "ordinal")

	isoPatterns = []pattern{
		{combineRegexes(isoYmd, isoTimeExtension), combine(extractISOYmd, extractISOTime, extractISOOffset, extractIANAZone)},
		{combineRegexes(isoWeek, isoTimeExtension), combine(extractISOWeekData, extractISOTime, extractISOOffset, extractIANAZone)},
		{combineRegexes(isoOrdinal, isoTimeExtension), combine(extractISOOrdinalData, extractISOTime, extractISOOffset, extractIANAZone)},
		{combineRegexes(`[Tt]?`, isoTime), combine(extractISOTime, extractISOOffset, extractIANAZone)},
	}

	sqlPatterns = []pattern{
		{combineRegexes(sqlYmd, sqlTimeExtension), combine(extractISOYmd, extractISOTime, extractISOOffset, extractIANAZone)},
		{combineRegexes(sqlTime), combine(extractISOTime, extractISOOffset, extractIANAZone)},
	}

	isoTimeOnly = combineRegexes(`[Tt]?`, isoTimeBase)
)

// ISO parses ISO-8601 calendar, week and ordinal dates with optional times,
// and bare times.
func ISO(s string) (Result, bool) {
	return run(s, isoPatterns...)
}

// SQL parses "2017-05-15", "2017-05-15 09:24:15.123 +06:00",
// "09:24:15 Europe/Paris" and similar.
func SQL(s string) (Result, bool) {
	return run(s, sqlPatterns...)
}

// ISOTimeOnly parses a bare ISO time without offset, as used for durations
// like "11:22:33.444".
func ISOTimeOnly(s string) (Fields, bool) {
	m := isoTimeOnly.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	fields, _, _ := extractISOTime(m, 1)
	return fields, true
}
