package locale

import (
	"strconv"
	"strings"
)

// Length selects the width of a localized name.
type Length int

const (
	Narrow Length = iota
	Short
	Long
)

// Service supplies localized text. Implementations must be safe for
// concurrent use.
type Service interface {
	// Months returns twelve month names, January first. Standalone forms are
	// used when the name is not part of a date.
	Months(l Locale, length Length, standalone bool) []string

	// Weekdays returns seven weekday names, Monday first.
	Weekdays(l Locale, length Length, standalone bool) []string

	// Meridiems returns the AM and PM markers.
	Meridiems(l Locale) []string

	// Eras returns the names for before and after the common era.
	Eras(l Locale, length Length) []string

	// FormatNumber renders n with at least minDigits integer digits and no
	// grouping separators.
	FormatNumber(l Locale, n int64, minDigits int) string

	// Preset returns a token format for a preset, or false if the service has
	// no opinion and the English pattern should be used.
	Preset(l Locale, p Preset) (string, bool)
}

var (
	monthsLong   = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
	monthsShort  = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	monthsNarrow = []string{"J", "F", "M", "A", "M", "J", "J", "A", "S", "O", "N", "D"}

	weekdaysLong   = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	weekdaysShort  = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	weekdaysNarrow = []string{"M", "T", "W", "T", "F", "S", "S"}

	meridiems = []string{"AM", "PM"}

	erasLong   = []string{"Before Christ", "Anno Domini"}
	erasShort  = []string{"BC", "AD"}
	erasNarrow = []string{"B", "A"}
)

// English is the built-in Service. It has no host dependencies.
type English struct{}

func pick(length Length, narrow, short, long []string) []string {
	switch length {
	case Narrow:
		return narrow
	case Short:
		return short
	default:
		return long
	}
}

func (English) Months(_ Locale, length Length, _ bool) []string {
	return pick(length, monthsNarrow, monthsShort, monthsLong)
}

func (English) Weekdays(_ Locale, length Length, _ bool) []string {
	return pick(length, weekdaysNarrow, weekdaysShort, weekdaysLong)
}

func (English) Meridiems(Locale) []string {
	return meridiems
}

func (English) Eras(_ Locale, length Length) []string {
	return pick(length, erasNarrow, erasShort, erasLong)
}

func (English) FormatNumber(_ Locale, n int64, minDigits int) string {
	return PadInt(n, minDigits)
}

func (English) Preset(Locale, Preset) (string, bool) {
	return "", false
}

// PadInt renders n in ASCII digits, left-padding the magnitude with zeros to
// minDigits. The sign does not count as a digit.
func PadInt(n int64, minDigits int) string {
	neg := n < 0
	s := strconv.FormatInt(n, 10)
	if neg {
		s = s[1:]
	}
	if len(s) < minDigits {
		s = strings.Repeat("0", minDigits-len(s)) + s
	}
	if neg {
		return "-" + s
	}
	return s
}
