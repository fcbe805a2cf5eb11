package almanac

import (
	"github.com/cpuguy83/almanac/internal/parse"
	"github.com/cpuguy83/almanac/zone"
)

func fieldsFromParse(raw parse.Fields) Fields {
	fields := make(Fields, len(raw))
	for k, v := range raw {
		if u, ok := ParseUnit(k); ok {
			fields[u] = v
		}
	}
	return fields
}

// parsedToDateTime interprets parsed fields in the parsed zone, falling back
// to the requested one, and then converts the result to the requested zone
// unless WithSetZone was given.
func parsedToDateTime(fields Fields, parsedZone zone.Zone, o options, format, text string, specificOffset *int) DateTime {
	if len(fields) == 0 && parsedZone == nil {
		return invalidDateTime(unparsable(text, format), o.zoneOr(), o.localeOr())
	}
	interp := o
	if parsedZone != nil {
		interp.zone = parsedZone
	}
	d := fromObject(fields, interp, specificOffset)
	if o.setZone {
		return d
	}
	return d.SetZone(o.zone, false)
}

func fromParser(text, format string, res parse.Result, ok bool, opts []Option) DateTime {
	o := buildOptions(opts)
	if !ok {
		return invalidDateTime(unparsable(text, format), o.zoneOr(), o.localeOr())
	}
	return parsedToDateTime(fieldsFromParse(res.Fields), res.Zone, o, format, text, nil)
}

// FromISO parses ISO-8601 text: calendar dates ("2016-05-25T09:08:34.123"),
// week dates ("2016-W21-3"), ordinal dates ("2016-200") and bare times
// ("09:08"), in extended or basic form, with an optional offset and
// bracketed zone name.
//
// Without an offset in the text the fields are read in the zone given by
// WithZone, or the default zone. The result is in that zone unless
// WithSetZone is given, in which case it keeps the parsed offset.
func FromISO(text string, opts ...Option) DateTime {
	res, ok := parse.ISO(text)
	return fromParser(text, "ISO 8601", res, ok, opts)
}

// FromRFC2822 parses "Tue, 01 Nov 2016 13:23:12 +0630" and its variants,
// including comments and obsolete zone names such as "EST".
func FromRFC2822(text string, opts ...Option) DateTime {
	res, ok := parse.RFC2822(text, TwoDigitCutoffYear())
	return fromParser(text, "RFC 2822", res, ok, opts)
}

// FromHTTP parses the three HTTP date forms: "Sun, 06 Nov 1994 08:49:37
// GMT", "Sunday, 06-Nov-94 08:49:37 GMT" and "Sun Nov  6 08:49:37 1994".
func FromHTTP(text string, opts ...Option) DateTime {
	res, ok := parse.HTTP(text, TwoDigitCutoffYear())
	return fromParser(text, "HTTP", res, ok, opts)
}

// FromSQL parses "2017-05-15", "09:24:15" and "2017-05-15 09:24:15.123
// +06:00", optionally with a zone name in place of the offset.
func FromSQL(text string, opts ...Option) DateTime {
	res, ok := parse.SQL(text)
	return fromParser(text, "SQL", res, ok, opts)
}
