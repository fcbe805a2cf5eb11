// Package calmath holds the pure calendar arithmetic behind almanac: leap
// years, month lengths, conversion between calendar fields and local epoch
// milliseconds, and the ISO week-date and ordinal-date systems.
//
// Nothing here knows about zones. A "local" timestamp is the number of
// milliseconds since 1970-01-01T00:00:00 on the wall clock, as if the wall
// clock were UTC.
package calmath

const (
	MillisPerSecond = 1000
	MillisPerMinute = 60 * MillisPerSecond
	MillisPerHour   = 60 * MillisPerMinute
	MillisPerDay    = 24 * MillisPerHour
)

// Gregorian is a proleptic Gregorian date with a time of day.
type Gregorian struct {
	Year, Month, Day                  int
	Hour, Minute, Second, Millisecond int
}

// WeekDate is an ISO-8601 week date with a time of day.
type WeekDate struct {
	WeekYear, WeekNumber, Weekday     int
	Hour, Minute, Second, Millisecond int
}

// OrdinalDate is a year plus day-of-year with a time of day.
type OrdinalDate struct {
	Year, Ordinal                     int
	Hour, Minute, Second, Millisecond int
}

var (
	nonLeapLadder = [...]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}
	leapLadder    = [...]int{0, 31, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335}
)

// FloorDiv is integer division rounding toward negative infinity.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod is the remainder matching FloorDiv; its sign follows b.
func FloorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// IsLeapYear reports whether year has 366 days.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 365 or 366.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DaysInMonth returns the length of month in year. Months outside 1..12 are
// carried into the year first, so DaysInMonth(2020, 14) is February 2021.
func DaysInMonth(year, month int) int {
	modMonth := int(FloorMod(int64(month-1), 12)) + 1
	modYear := year + int(FloorDiv(int64(month-1), 12))
	if modMonth == 2 {
		if IsLeapYear(modYear) {
			return 29
		}
		return 28
	}
	return [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}[modMonth-1]
}

// daysFromCivil counts days from 1970-01-01 to the given date.
func daysFromCivil(y, m, d int64) int64 {
	if m <= 2 {
		y--
	}
	era := FloorDiv(y, 400)
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// civilFromDays is the inverse of daysFromCivil.
func civilFromDays(z int64) (y, m, d int64) {
	z += 719468
	era := FloorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y = yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d = doy - (153*mp+2)/5 + 1
	if mp < 10 {
		m = mp + 3
	} else {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return y, m, d
}

// ObjToLocalTS converts calendar fields to a local epoch timestamp. Fields
// may overflow their ranges (month 13, day 0, minute -5); they roll into the
// neighbouring units the way plus/minus arithmetic expects.
func ObjToLocalTS(g Gregorian) int64 {
	y := int64(g.Year) + FloorDiv(int64(g.Month-1), 12)
	m := FloorMod(int64(g.Month-1), 12) + 1
	days := daysFromCivil(y, m, 1) + int64(g.Day-1)
	return days*MillisPerDay +
		int64(g.Hour)*MillisPerHour +
		int64(g.Minute)*MillisPerMinute +
		int64(g.Second)*MillisPerSecond +
		int64(g.Millisecond)
}

// TSToObj converts an epoch timestamp plus an offset in minutes to calendar
// fields.
func TSToObj(ts int64, offset int) Gregorian {
	local := ts + int64(offset)*MillisPerMinute
	days := FloorDiv(local, MillisPerDay)
	rem := FloorMod(local, MillisPerDay)
	y, m, d := civilFromDays(days)
	return Gregorian{
		Year:        int(y),
		Month:       int(m),
		Day:         int(d),
		Hour:        int(rem / MillisPerHour),
		Minute:      int(rem % MillisPerHour / MillisPerMinute),
		Second:      int(rem % MillisPerMinute / MillisPerSecond),
		Millisecond: int(rem % MillisPerSecond),
	}
}

// DayOfWeek returns the ISO weekday, Monday=1 through Sunday=7.
func DayOfWeek(year, month, day int) int {
	days := daysFromCivil(int64(year), int64(month), int64(day))
	// 1970-01-01 was a Thursday.
	return int(FloorMod(days+3, 7)) + 1
}

// ComputeOrdinal returns the day of year for a valid date.
func ComputeOrdinal(year, month, day int) int {
	if IsLeapYear(year) {
		return day + leapLadder[month-1]
	}
	return day + nonLeapLadder[month-1]
}

// UncomputeOrdinal returns the month and day for a day of year.
func UncomputeOrdinal(year, ordinal int) (month, day int) {
	ladder := nonLeapLadder
	if IsLeapYear(year) {
		ladder = leapLadder
	}
	month0 := 0
	for i, v := range ladder {
		if v < ordinal {
			month0 = i
		}
	}
	return month0 + 1, ordinal - ladder[month0]
}

func isoWeekdayPeriod(y int) int {
	yy := int64(y)
	return int(FloorMod(yy+FloorDiv(yy, 4)-FloorDiv(yy, 100)+FloorDiv(yy, 400), 7))
}

// WeeksInWeekYear returns 52 or 53.
func WeeksInWeekYear(weekYear int) int {
	if isoWeekdayPeriod(weekYear) == 4 || isoWeekdayPeriod(weekYear-1) == 3 {
		return 53
	}
	return 52
}

// UntruncateYear expands a two-digit year around cutoff: values above the
// cutoff land in the 1900s, the rest in the 2000s.
func UntruncateYear(year, cutoff int) int {
	if year > 99 {
		return year
	}
	if year > cutoff {
		return 1900 + year
	}
	return 2000 + year
}
