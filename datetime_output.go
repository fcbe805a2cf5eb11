package almanac

import (
	"strings"

	"github.com/cpuguy83/almanac/locale"
	"github.com/cpuguy83/almanac/zone"
)

const invalidDateTimeText = "Invalid DateTime"

// ISOFormat selects between "2016-05-25T09:08:34" and "20160525T090834".
type ISOFormat int

const (
	ISOExtended ISOFormat = iota
	ISOBasic
)

// ISOOptions tunes ISO-8601 output. The zero value renders the full
// extended form with seconds, milliseconds and offset.
type ISOOptions struct {
	Format ISOFormat

	// SuppressSeconds omits seconds and milliseconds when both are zero.
	SuppressSeconds bool

	// SuppressMilliseconds omits milliseconds when they are zero.
	SuppressMilliseconds bool

	OmitOffset bool

	// IncludePrefix prepends "T" to a bare time.
	IncludePrefix bool

	// ExtendedZone appends the IANA zone name in brackets, as in
	// "2016-05-25T09:08:34.123-04:00[America/New_York]", and always writes a
	// numeric offset.
	ExtendedZone bool
}

func pad(n, width int) string {
	return locale.PadInt(int64(n), width)
}

func (d DateTime) isoDate(extended bool) string {
	var b strings.Builder
	year := d.c.Year
	long := year > 9999 || year < 0
	if long && year >= 0 {
		b.WriteByte('+')
	}
	if long {
		b.WriteString(pad(year, 6))
	} else {
		b.WriteString(pad(year, 4))
	}
	if extended {
		b.WriteByte('-')
	}
	b.WriteString(pad(d.c.Month, 2))
	if extended {
		b.WriteByte('-')
	}
	b.WriteString(pad(d.c.Day, 2))
	return b.String()
}

func (d DateTime) isoTime(opts ISOOptions) string {
	extended := opts.Format == ISOExtended
	var b strings.Builder
	b.WriteString(pad(d.c.Hour, 2))
	if extended {
		b.WriteByte(':')
	}
	b.WriteString(pad(d.c.Minute, 2))

	if !opts.SuppressSeconds || d.c.Second != 0 || d.c.Millisecond != 0 {
		if extended {
			b.WriteByte(':')
		}
		b.WriteString(pad(d.c.Second, 2))
		if !opts.SuppressMilliseconds || d.c.Millisecond != 0 {
			b.WriteByte('.')
			b.WriteString(pad(d.c.Millisecond, 3))
		}
	}

	if !opts.OmitOffset {
		switch {
		case d.zone.Universal() && d.o == 0 && !opts.ExtendedZone:
			b.WriteByte('Z')
		case extended:
			b.WriteString(zone.FormatOffsetMinutes(d.o, zone.OffsetShort))
		default:
			b.WriteString(zone.FormatOffsetMinutes(d.o, zone.OffsetTechie))
		}
	}

	if opts.ExtendedZone {
		if name := ianaName(d.zone); name != "" {
			b.WriteString("[" + name + "]")
		}
	}
	return b.String()
}

// ianaName is the database name for z, or "" when it has none.
func ianaName(z zone.Zone) string {
	switch z := z.(type) {
	case *zone.IANAZone:
		return z.Name()
	case *zone.LocalZone:
		if zone.IsValidIANA(z.Name()) {
			return z.Name()
		}
	case *zone.FixedZone:
		o := z.Offset(0)
		switch {
		case o == 0:
			return "Etc/UTC"
		case o%60 == 0:
			// Etc/GMT names carry the inverted sign.
			return "Etc/GMT" + zone.FormatOffsetMinutes(-o, zone.OffsetNarrow)
		}
	}
	return ""
}

// ToISO renders "2016-05-25T09:08:34.123+06:00".
func (d DateTime) ToISO() string {
	return d.ToISOWith(ISOOptions{})
}

func (d DateTime) ToISOWith(opts ISOOptions) string {
	if !d.IsValid() {
		return invalidDateTimeText
	}
	return d.isoDate(opts.Format == ISOExtended) + "T" + d.isoTime(opts)
}

// ToISODate renders "2016-05-25".
func (d DateTime) ToISODate() string {
	return d.ToISODateWith(ISOOptions{})
}

// ToISODateWith honours only opts.Format.
func (d DateTime) ToISODateWith(opts ISOOptions) string {
	if !d.IsValid() {
		return invalidDateTimeText
	}
	return d.isoDate(opts.Format == ISOExtended)
}

// ToISOTime renders "09:08:34.123+06:00".
func (d DateTime) ToISOTime() string {
	return d.ToISOTimeWith(ISOOptions{})
}

func (d DateTime) ToISOTimeWith(opts ISOOptions) string {
	if !d.IsValid() {
		return invalidDateTimeText
	}
	s := d.isoTime(opts)
	if opts.IncludePrefix {
		s = "T" + s
	}
	return s
}

// ToISOWeekDate renders "2016-W21-3".
func (d DateTime) ToISOWeekDate() string {
	if !d.IsValid() {
		return invalidDateTimeText
	}
	return techFormatter(true).formatDateTime(d, "kkkk-'W'WW-c")
}

// ToRFC2822 renders "Wed, 25 May 2016 09:08:34 +0600".
func (d DateTime) ToRFC2822() string {
	if !d.IsValid() {
		return invalidDateTimeText
	}
	return techFormatter(false).formatDateTime(d, "EEE, dd LLL yyyy HH:mm:ss ZZZ")
}

// ToHTTP renders the HTTP header form in UTC, "Wed, 25 May 2016 03:08:34 GMT".
func (d DateTime) ToHTTP() string {
	if !d.IsValid() {
		return invalidDateTimeText
	}
	return techFormatter(true).formatDateTime(d.ToUTC(), "EEE, dd LLL yyyy HH:mm:ss 'GMT'")
}

// SQLOptions tunes SQL output. The zero value renders the offset after a
// space.
type SQLOptions struct {
	OmitOffset bool

	// IncludeZone writes the zone name instead of the offset.
	IncludeZone bool

	OmitOffsetSpace bool
}

// ToSQLDate renders "2016-05-25".
func (d DateTime) ToSQLDate() string {
	if !d.IsValid() {
		return invalidDateTimeText
	}
	return d.isoDate(true)
}

// ToSQLTime renders "09:08:34.123 +06:00".
func (d DateTime) ToSQLTime() string {
	return d.ToSQLTimeWith(SQLOptions{})
}

func (d DateTime) ToSQLTimeWith(opts SQLOptions) string {
	if !d.IsValid() {
		return invalidDateTimeText
	}
	format := "HH:mm:ss.SSS"
	if opts.IncludeZone || !opts.OmitOffset {
		if !opts.OmitOffsetSpace {
			format += " "
		}
		if opts.IncludeZone {
			format += "z"
		} else {
			format += "ZZ"
		}
	}
	return techFormatter(true).formatDateTime(d, format)
}

// ToSQL renders "2016-05-25 09:08:34.123 +06:00".
func (d DateTime) ToSQL() string {
	return d.ToSQLWith(SQLOptions{})
}

func (d DateTime) ToSQLWith(opts SQLOptions) string {
	if !d.IsValid() {
		return invalidDateTimeText
	}
	return d.ToSQLDate() + " " + d.ToSQLTimeWith(opts)
}

// String returns the ISO form.
func (d DateTime) String() string {
	return d.ToISO()
}

// GoString renders the instant and zone for %#v.
func (d DateTime) GoString() string {
	if !d.IsValid() {
		return "almanac.DateTime{" + d.InvalidReason() + "}"
	}
	return "almanac.DateTime{" + d.ToISO() + " " + d.ZoneName() + "}"
}

// Format is ToFormat with a Go layout instead of tokens, for interop with
// code written against time.Time.
func (d DateTime) Format(layout string) string {
	if !d.IsValid() {
		return invalidDateTimeText
	}
	return d.Time().Format(layout)
}
