// Package zone resolves UTC offsets for the four kinds of zones almanac
// understands: the host's local zone, IANA database zones, fixed offsets and
// an invalid sentinel.
//
// Offsets are whole minutes east of UTC. Offset is a pure function of the
// queried instant, expressed in epoch milliseconds.
package zone

import (
	"fmt"
	"strconv"
)

// Zone is implemented by every zone variant.
type Zone interface {
	// Type is one of "system", "iana", "fixed" or "invalid".
	Type() string

	// Name is the identifier the zone was created from, e.g. "America/New_York"
	// or "UTC+5:30".
	Name() string

	// Universal reports whether the offset is the same at every instant.
	Universal() bool

	// IsValid is false only for the invalid sentinel.
	IsValid() bool

	// Offset returns the offset in minutes at ts. Invalid zones return 0.
	Offset(ts int64) int

	// OffsetName returns a human name for the offset in effect at ts.
	OffsetName(ts int64, format NameFormat) string

	// FormatOffset renders the offset in effect at ts.
	FormatOffset(ts int64, format OffsetFormat) string

	// Equals reports whether two zones always produce the same offsets under
	// the same name.
	Equals(other Zone) bool
}

// NameFormat selects between abbreviated and long offset names.
type NameFormat int

const (
	NameShort NameFormat = iota
	NameLong
)

// OffsetFormat selects a textual offset rendering.
type OffsetFormat int

const (
	OffsetNarrow OffsetFormat = iota // +5, +5:30
	OffsetShort                      // +05:00
	OffsetTechie                     // +0500
)

// FormatOffsetMinutes renders an offset given in minutes.
func FormatOffsetMinutes(offset int, format OffsetFormat) string {
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours, minutes := offset/60, offset%60

	switch format {
	case OffsetNarrow:
		if minutes > 0 {
			return fmt.Sprintf("%s%d:%02d", sign, hours, minutes)
		}
		return sign + strconv.Itoa(hours)
	case OffsetTechie:
		return fmt.Sprintf("%s%02d%02d", sign, hours, minutes)
	default:
		return fmt.Sprintf("%s%02d:%02d", sign, hours, minutes)
	}
}

// SignedOffset combines textual hour and minute parts such as "-03" and "30"
// into minutes. The minute part takes the sign of the hour part, including a
// negative zero hour ("-00", "30" is -30).
func SignedOffset(hourStr, minuteStr string) int {
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		hour = 0
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil {
		minute = 0
	}
	negative := hour < 0 || (len(hourStr) > 0 && hourStr[0] == '-')
	if negative {
		minute = -minute
	}
	return hour*60 + minute
}
