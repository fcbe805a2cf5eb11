package calmath

import "fmt"

// Problem describes a calendar field that is out of range.
type Problem struct {
	Unit  string
	Value int
}

func (p *Problem) Error() string {
	return fmt.Sprintf("you specified %d as a %s, which is invalid", p.Value, p.Unit)
}

func inRange(v, lo, hi int) bool {
	return v >= lo && v <= hi
}

// InvalidGregorian checks month and day. Any year is acceptable.
func InvalidGregorian(g Gregorian) *Problem {
	switch {
	case !inRange(g.Month, 1, 12):
		return &Problem{Unit: "month", Value: g.Month}
	case !inRange(g.Day, 1, DaysInMonth(g.Year, g.Month)):
		return &Problem{Unit: "day", Value: g.Day}
	}
	return nil
}

// InvalidWeek checks the week number against the week year and the weekday.
func InvalidWeek(w WeekDate) *Problem {
	switch {
	case !inRange(w.WeekNumber, 1, WeeksInWeekYear(w.WeekYear)):
		return &Problem{Unit: "week", Value: w.WeekNumber}
	case !inRange(w.Weekday, 1, 7):
		return &Problem{Unit: "weekday", Value: w.Weekday}
	}
	return nil
}

// InvalidOrdinal checks the day of year.
func InvalidOrdinal(o OrdinalDate) *Problem {
	if !inRange(o.Ordinal, 1, DaysInYear(o.Year)) {
		return &Problem{Unit: "ordinal", Value: o.Ordinal}
	}
	return nil
}

// InvalidTime checks the time of day. 24:00:00.000 is accepted as the end of
// the day.
func InvalidTime(hour, minute, second, millisecond int) *Problem {
	validHour := inRange(hour, 0, 23) ||
		(hour == 24 && minute == 0 && second == 0 && millisecond == 0)

	switch {
	case !validHour:
		return &Problem{Unit: "hour", Value: hour}
	case !inRange(minute, 0, 59):
		return &Problem{Unit: "minute", Value: minute}
	case !inRange(second, 0, 59):
		return &Problem{Unit: "second", Value: second}
	case !inRange(millisecond, 0, 999):
		return &Problem{Unit: "millisecond", Value: millisecond}
	}
	return nil
}
